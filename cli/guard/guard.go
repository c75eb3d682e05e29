// Package guard decides, per navigation, whether a screen may render.
// It holds no state of its own: callers evaluate it fresh on every
// navigation because the session can change underneath them.
package guard

import (
	"slices"

	"github.com/usersystem/usersys/cli/session"
)

// Client-visible routes.
const (
	RouteLogin     = "/login"
	RouteDashboard = "/dashboard"
	RouteUsers     = "/dashboard/users"
	RouteReports   = "/dashboard/reports"
	RouteLogs      = "/dashboard/logs"
	RouteProfile   = "/dashboard/profile"
)

// Decision is the outcome of a guard evaluation.
type Decision int

const (
	// Allow renders the requested screen.
	Allow Decision = iota
	// RedirectLogin sends unauthenticated users to the login screen.
	RedirectLogin
	// RedirectDashboard sends authenticated users without the required
	// role to the default landing screen, never to an error page.
	RedirectDashboard
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect-login"
	case RedirectDashboard:
		return "redirect-dashboard"
	default:
		return "unknown"
	}
}

// Policy maps a route to its permitted roles. A nil or empty set means
// any authenticated role may enter.
type Policy map[string][]string

// DefaultPolicy mirrors the backend's authorization matrix: user
// management and reports are for admins and supervisors, logs are
// admin-only, the dashboard shell and profile accept anyone logged in.
func DefaultPolicy() Policy {
	return Policy{
		RouteDashboard: nil,
		RouteUsers:     {session.RoleAdmin, session.RoleSupervisor},
		RouteReports:   {session.RoleAdmin, session.RoleSupervisor},
		RouteLogs:      {session.RoleAdmin},
		RouteProfile:   nil,
	}
}

// Evaluate decides whether the current session may render route.
func Evaluate(policy Policy, route, token, role string) Decision {
	if token == "" {
		return RedirectLogin
	}
	allowed := policy[route]
	if len(allowed) > 0 && !slices.Contains(allowed, role) {
		return RedirectDashboard
	}
	return Allow
}
