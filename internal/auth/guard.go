package auth

import "fmt"

// RoleSet is the set of principal variants allowed on a route.
type RoleSet uint8

const (
	AllowAdmin RoleSet = 1 << iota
	AllowManager
	AllowMember

	Staff   = AllowAdmin | AllowManager
	AnyRole = AllowAdmin | AllowManager | AllowMember
)

func (s RoleSet) Allows(p Principal) bool {
	switch p.(type) {
	case Admin:
		return s&AllowAdmin != 0
	case Manager:
		return s&AllowManager != 0
	case Member:
		return s&AllowMember != 0
	}
	return false
}

// RoleError is returned by Authorize when the caller's role is outside the set.
type RoleError struct {
	Role string
}

func (e *RoleError) Error() string {
	return fmt.Sprintf("User role '%s' is not authorized to access this route", e.Role)
}

func Authorize(p Principal, s RoleSet) error {
	if p == nil {
		return &RoleError{Role: "unknown"}
	}
	if !s.Allows(p) {
		return &RoleError{Role: string(p.Role())}
	}
	return nil
}
