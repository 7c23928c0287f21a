// Package auth turns bearer credentials into identities and decides which roles may act.
package auth

import "clubsphere/internal/model"

// Identity is the result of resolving a bearer credential. It is either Persisted or Provisional.
type Identity interface {
	Principal() Principal
	isIdentity()
}

// Persisted is a caller with a local user record.
type Persisted struct {
	User *model.User
}

func (p Persisted) Principal() Principal {
	switch p.User.Role {
	case model.RoleAdmin:
		return Admin{Email: p.User.Email}
	case model.RoleClubManager:
		return Manager{Email: p.User.Email}
	}
	return Member{Email: p.User.Email}
}

func (Persisted) isIdentity() {}

// Provisional is a verified caller that has not been synced yet. It acts as a member.
type Provisional struct {
	Email   string
	Name    string
	Picture string
}

func (p Provisional) Principal() Principal {
	return Member{Email: p.Email}
}

func (Provisional) isIdentity() {}

// Principal is the role-tagged caller the guard and the services reason about.
type Principal interface {
	Role() model.Role
	isPrincipal()
}

type Admin struct{ Email string }

type Manager struct{ Email string }

type Member struct{ Email string }

func (Admin) Role() model.Role   { return model.RoleAdmin }
func (Manager) Role() model.Role { return model.RoleClubManager }
func (Member) Role() model.Role  { return model.RoleMember }

func (Admin) isPrincipal()   {}
func (Manager) isPrincipal() {}
func (Member) isPrincipal()  {}

// EmailOf returns the caller's email whatever the variant.
func EmailOf(p Principal) string {
	switch v := p.(type) {
	case Admin:
		return v.Email
	case Manager:
		return v.Email
	case Member:
		return v.Email
	}
	return ""
}

// Owns reports whether p may manage a club run by managerEmail.
func Owns(p Principal, managerEmail string) bool {
	switch v := p.(type) {
	case Admin:
		return true
	case Manager:
		return v.Email != "" && v.Email == managerEmail
	}
	return false
}

// AsUser renders an identity the way the API shows it. Provisional callers get a user
// without id whose name falls back to the email.
func AsUser(id Identity) *model.User {
	switch v := id.(type) {
	case Persisted:
		return v.User
	case Provisional:
		name := v.Name
		if name == "" {
			name = v.Email
		}
		return &model.User{Name: name, Email: v.Email, PhotoURL: v.Picture, Role: model.RoleMember}
	}
	return nil
}
