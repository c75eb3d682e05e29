package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/usersystem/usersys/cli/session"
)

func TestEvaluate(t *testing.T) {
	policy := DefaultPolicy()
	t.Run("Should redirect to login without a token regardless of route", func(t *testing.T) {
		for _, route := range []string{RouteDashboard, RouteUsers, RouteReports, RouteLogs, RouteProfile} {
			assert.Equal(t, RedirectLogin, Evaluate(policy, route, "", ""), route)
		}
	})
	t.Run("Should allow any authenticated role on open routes", func(t *testing.T) {
		assert.Equal(t, Allow, Evaluate(policy, RouteDashboard, "tok", session.RoleEmployee))
		assert.Equal(t, Allow, Evaluate(policy, RouteProfile, "tok", session.RoleEmployee))
	})
	t.Run("Should redirect to dashboard when the role is insufficient", func(t *testing.T) {
		assert.Equal(t, RedirectDashboard, Evaluate(policy, RouteUsers, "tok", session.RoleEmployee))
		assert.Equal(t, RedirectDashboard, Evaluate(policy, RouteLogs, "tok", session.RoleSupervisor))
	})
	t.Run("Should allow the permitted roles on restricted routes", func(t *testing.T) {
		assert.Equal(t, Allow, Evaluate(policy, RouteUsers, "tok", session.RoleAdmin))
		assert.Equal(t, Allow, Evaluate(policy, RouteUsers, "tok", session.RoleSupervisor))
		assert.Equal(t, Allow, Evaluate(policy, RouteReports, "tok", session.RoleSupervisor))
		assert.Equal(t, Allow, Evaluate(policy, RouteLogs, "tok", session.RoleAdmin))
	})
	t.Run("Should redirect unknown roles instead of erroring", func(t *testing.T) {
		assert.Equal(t, RedirectDashboard, Evaluate(policy, RouteUsers, "tok", "ROLE_GUEST"))
	})
	t.Run("Should allow unknown routes for any authenticated session", func(t *testing.T) {
		// Routes without a policy entry have a nil role set.
		assert.Equal(t, Allow, Evaluate(policy, "/dashboard/unknown", "tok", session.RoleEmployee))
	})
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "allow", Allow.String())
	assert.Equal(t, "redirect-login", RedirectLogin.String())
	assert.Equal(t, "redirect-dashboard", RedirectDashboard.String())
}
