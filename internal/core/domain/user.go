package domain

import "strings"

// Role is the authorization role of an authenticated identity.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleCustomer Role = "CUSTOMER"
)

// ParseRole normalises a role reported by the backend. The backend names the
// customer role "USER"; both spellings map to RoleCustomer.
func ParseRole(s string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ADMIN", "ROLE_ADMIN":
		return RoleAdmin, nil
	case "CUSTOMER", "USER", "ROLE_USER", "ROLE_CUSTOMER":
		return RoleCustomer, nil
	default:
		return "", ErrUnknownRole
	}
}

// Identity models the authenticated user as reported by GET /auth/me.
type Identity struct {
	ID       int64  `json:"id,omitempty"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     Role   `json:"role"`
}
