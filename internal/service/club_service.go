package service

import (
	"context"
	"errors"
	"strings"

	"clubsphere/internal/auth"
	"clubsphere/internal/logger"
	"clubsphere/internal/model"
	"clubsphere/internal/repository"
)

type ClubService struct {
	clubs    ClubStore
	notifier Notifier
	log      *logger.Logger
}

func NewClubService(clubs ClubStore, notifier Notifier) *ClubService {
	return &ClubService{clubs: clubs, notifier: notifier, log: logger.Named("club")}
}

type CreateClubInput struct {
	ClubName      string
	Description   string
	Category      string
	Location      string
	BannerImage   string
	MembershipFee float64
}

// UpdateClubInput carries a partial update. nil fields are left unchanged.
type UpdateClubInput struct {
	ClubName      *string
	Description   *string
	Category      *string
	Location      *string
	BannerImage   *string
	MembershipFee *float64
}

type ClubQuery struct {
	Search   string
	Category string
	Sort     string
}

func (s *ClubService) Create(ctx context.Context, p auth.Principal, in CreateClubInput) (*model.Club, error) {
	club := &model.Club{
		BannerImage:   strings.TrimSpace(in.BannerImage),
		MembershipFee: in.MembershipFee,
		Status:        model.ClubPending,
		ManagerEmail:  auth.EmailOf(p),
	}
	var err error
	if club.ClubName, err = required("clubName", in.ClubName); err != nil {
		return nil, err
	}
	if club.Description, err = required("description", in.Description); err != nil {
		return nil, err
	}
	if club.Category, err = required("category", in.Category); err != nil {
		return nil, err
	}
	if club.Location, err = required("location", in.Location); err != nil {
		return nil, err
	}
	if err := nonNegative("membershipFee", in.MembershipFee); err != nil {
		return nil, err
	}

	if err := s.ensureNameFree(ctx, club.ClubName, ""); err != nil {
		return nil, err
	}
	if err := s.clubs.Create(ctx, club); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, Conflict("Club already exists")
		}
		return nil, Internal(err)
	}
	return club, nil
}

func (s *ClubService) ensureNameFree(ctx context.Context, name, selfID string) error {
	existing, err := s.clubs.GetByName(ctx, name)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil
	case err != nil:
		return Internal(err)
	case existing.ID != selfID:
		return Conflict("Club already exists")
	}
	return nil
}

// ListPublic only ever returns approved clubs.
func (s *ClubService) ListPublic(ctx context.Context, q ClubQuery) ([]model.Club, error) {
	list, err := s.clubs.List(ctx, repository.ClubFilter{
		Status:   model.ClubApproved,
		Category: strings.TrimSpace(q.Category),
		Search:   strings.TrimSpace(q.Search),
		Sort:     repository.ParseClubSort(q.Sort),
	})
	if err != nil {
		return nil, Internal(err)
	}
	return list, nil
}

// ListManaged returns every club for admins and the caller's own clubs for managers, newest first.
func (s *ClubService) ListManaged(ctx context.Context, p auth.Principal) ([]model.Club, error) {
	f := repository.ClubFilter{Sort: repository.ClubNewest}
	if _, ok := p.(auth.Admin); !ok {
		f.ManagerEmail = auth.EmailOf(p)
	}
	list, err := s.clubs.List(ctx, f)
	if err != nil {
		return nil, Internal(err)
	}
	return list, nil
}

func (s *ClubService) Get(ctx context.Context, id string) (*model.Club, error) {
	club, err := s.clubs.GetByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "Club not found")
	}
	return club, nil
}

func (s *ClubService) Update(ctx context.Context, p auth.Principal, id string, in UpdateClubInput) (*model.Club, error) {
	club, err := s.clubs.GetByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "Club not found")
	}
	if !auth.Owns(p, club.ManagerEmail) {
		return nil, Forbidden("Not authorized to update this club")
	}

	oldName := club.ClubName
	if err := patchRequired("clubName", &club.ClubName, in.ClubName); err != nil {
		return nil, err
	}
	if err := patchRequired("description", &club.Description, in.Description); err != nil {
		return nil, err
	}
	if err := patchRequired("category", &club.Category, in.Category); err != nil {
		return nil, err
	}
	if err := patchRequired("location", &club.Location, in.Location); err != nil {
		return nil, err
	}
	patchOptional(&club.BannerImage, in.BannerImage)
	if in.MembershipFee != nil {
		if err := nonNegative("membershipFee", *in.MembershipFee); err != nil {
			return nil, err
		}
		club.MembershipFee = *in.MembershipFee
	}

	if club.ClubName != oldName {
		if err := s.ensureNameFree(ctx, club.ClubName, club.ID); err != nil {
			return nil, err
		}
	}
	if err := s.clubs.Update(ctx, club); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, Conflict("Club already exists")
		}
		return nil, lookup(err, "Club not found")
	}
	return club, nil
}

// SetStatus moves a club to any status; there is no ordering between them.
func (s *ClubService) SetStatus(ctx context.Context, id string, status model.ClubStatus) (*model.Club, error) {
	if !status.Valid() {
		return nil, Validation("Invalid status")
	}
	club, err := s.clubs.GetByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "Club not found")
	}
	if club.Status == status {
		return club, nil
	}
	club.Status = status
	if err := s.clubs.Update(ctx, club); err != nil {
		return nil, lookup(err, "Club not found")
	}

	publish(ctx, s.notifier, s.log, &model.DomainEvent{
		Type:      model.EventClubStatusChanged,
		UserEmail: club.ManagerEmail,
		ClubID:    club.ID,
		ClubName:  club.ClubName,
		Status:    string(status),
	})
	return club, nil
}

func (s *ClubService) Delete(ctx context.Context, id string) error {
	if err := s.clubs.Delete(ctx, id); err != nil {
		return lookup(err, "Club not found")
	}
	return nil
}
