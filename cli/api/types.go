package api

import (
	"strings"
)

// Role is a role reference as returned by the backend.
type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// User is a user record from the CRUD listing.
type User struct {
	ID          int64  `json:"id"`
	Username    string `json:"username,omitempty"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	DNI         string `json:"dni,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Enabled     bool   `json:"enabled"`
	Role        *Role  `json:"role,omitempty"`
}

// RoleName returns the user's role name, or empty when no role is set.
func (u User) RoleName() string {
	if u.Role == nil {
		return ""
	}
	return u.Role.Name
}

// StatusLabel renders the enabled flag the way the admin console shows it.
func (u User) StatusLabel() string {
	if u.Enabled {
		return "Activo"
	}
	return "Inactivo"
}

// MatchesFilter reports whether the user matches a case-insensitive
// search term over name, email, and role name.
func (u User) MatchesFilter(term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, field := range []string{u.FirstName, u.LastName, u.Email, u.RoleName()} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// Profile is the authenticated user's own record from /users/me. Unlike
// the listing it carries a roles collection.
type Profile struct {
	ID          int64  `json:"id"`
	Username    string `json:"username,omitempty"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	DNI         string `json:"dni,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Enabled     bool   `json:"enabled"`
	Roles       []Role `json:"roles,omitempty"`
}

// RoleNames returns the profile's role names in response order.
func (p *Profile) RoleNames() []string {
	names := make([]string, 0, len(p.Roles))
	for _, r := range p.Roles {
		names = append(names, r.Name)
	}
	return names
}

// FullName joins first and last name for display.
func (p *Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// LoginRequest is the credentials payload for /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the normalized login result. Roles holds the returned
// collection; legacy responses with a singular role field are normalized
// into a one-element collection.
type LoginResponse struct {
	AccessToken string
	Roles       []string
}

// CreateUserRequest is the payload for /users/create.
type CreateUserRequest struct {
	Username    string `json:"username"    validate:"required"`
	Email       string `json:"email"       validate:"required,email"`
	Password    string `json:"password"    validate:"required,min=6"`
	FirstName   string `json:"firstName"   validate:"required"`
	LastName    string `json:"lastName"    validate:"required"`
	DNI         string `json:"dni,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	RoleID      int64  `json:"roleId,omitempty"`
}
