package service

import (
	"context"
	"errors"
	"strings"

	"clubsphere/internal/auth"
	"clubsphere/internal/model"
	"clubsphere/internal/repository"
)

type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

type SyncInput struct {
	Name     string
	PhotoURL string
}

type ProfileInput struct {
	Name     *string
	PhotoURL *string
}

// Sync upserts the caller's record by the verified email. created reports an insert.
// The role of an existing user is never touched.
func (s *UserService) Sync(ctx context.Context, id auth.Identity, in SyncInput) (user *model.User, created bool, err error) {
	name := strings.TrimSpace(in.Name)
	photo := strings.TrimSpace(in.PhotoURL)

	switch v := id.(type) {
	case auth.Persisted:
		user = v.User
	case auth.Provisional:
		user = &model.User{
			Name:     firstNonEmpty(name, v.Name, v.Email),
			Email:    v.Email,
			PhotoURL: firstNonEmpty(photo, v.Picture),
			Role:     model.RoleMember,
		}
		err = s.users.Create(ctx, user)
		if err == nil {
			return user, true, nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, false, Internal(err)
		}
		// Lost a race with a concurrent sync. Fall through to the update path.
		if user, err = s.users.GetByEmail(ctx, v.Email); err != nil {
			return nil, false, Internal(err)
		}
	default:
		return nil, false, Unauthenticated("Not authorized")
	}

	if name != "" {
		user.Name = name
	}
	if photo != "" {
		user.PhotoURL = photo
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, false, lookup(err, "User not found")
	}
	return user, false, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (s *UserService) Me(id auth.Identity) *model.User {
	return auth.AsUser(id)
}

func (s *UserService) UpdateProfile(ctx context.Context, id auth.Identity, in ProfileInput) (*model.User, error) {
	persisted, ok := id.(auth.Persisted)
	if !ok {
		return nil, NotFound("User not found")
	}
	user, err := s.users.GetByID(ctx, persisted.User.ID)
	if err != nil {
		return nil, lookup(err, "User not found")
	}
	patchKept(&user.Name, in.Name)
	patchKept(&user.PhotoURL, in.PhotoURL)
	if err := s.users.Update(ctx, user); err != nil {
		return nil, lookup(err, "User not found")
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	list, err := s.users.List(ctx)
	if err != nil {
		return nil, Internal(err)
	}
	return list, nil
}

func (s *UserService) SetRole(ctx context.Context, id string, role model.Role) (*model.User, error) {
	if !role.Valid() {
		return nil, Validation("Invalid role")
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "User not found")
	}
	return s.applyRole(ctx, user, role)
}

// MakeAdmin promotes the user with the given email.
func (s *UserService) MakeAdmin(ctx context.Context, email string) (*model.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, lookup(err, "User not found")
	}
	return s.applyRole(ctx, user, model.RoleAdmin)
}

func (s *UserService) applyRole(ctx context.Context, user *model.User, role model.Role) (*model.User, error) {
	if user.Role == role {
		return user, nil
	}
	user.Role = role
	if err := s.users.Update(ctx, user); err != nil {
		return nil, lookup(err, "User not found")
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return lookup(err, "User not found")
	}
	return nil
}
