package session

import (
	"slices"
	"strings"
)

// Role identifiers as issued by the backend.
const (
	RoleAdmin      = "ROLE_ADMIN"
	RoleSupervisor = "ROLE_SUPERVISOR"
	RoleEmployee   = "ROLE_EMPLOYEE"
)

// ResolveRole picks the effective role from a role collection. The
// precedence list decides ties when a user holds several roles; a role
// outside the precedence list falls back to first-element order, and an
// empty collection falls back to the baseline role.
func ResolveRole(roles, precedence []string, baseline string) string {
	if len(roles) == 0 {
		return baseline
	}
	for _, candidate := range precedence {
		if slices.Contains(roles, candidate) {
			return candidate
		}
	}
	return roles[0]
}

// FriendlyRoleName maps a backend role identifier to a display name.
func FriendlyRoleName(role string) string {
	switch role {
	case RoleAdmin:
		return "Administrador"
	case RoleSupervisor:
		return "Supervisor"
	case RoleEmployee:
		return "Empleado"
	}
	// Unknown roles: strip the prefix and title-case the remainder.
	name := strings.TrimPrefix(role, "ROLE_")
	name = strings.ReplaceAll(name, "_", " ")
	words := strings.Fields(strings.ToLower(name))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
