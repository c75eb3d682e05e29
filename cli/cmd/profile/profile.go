package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/usersystem/usersys/cli/cmd"
	"github.com/usersystem/usersys/cli/guard"
	"github.com/usersystem/usersys/cli/helpers"
	"github.com/usersystem/usersys/cli/session"
	"github.com/usersystem/usersys/pkg/logger"
)

// Cmd returns the profile command
func Cmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the authenticated user's profile",
		RunE:  runProfile,
	}
}

func runProfile(cobraCmd *cobra.Command, args []string) error {
	return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{
		Route: guard.RouteProfile,
	}, cmd.ModeHandlers{
		JSON: profileJSON,
		TUI:  profileTUI,
	}, args)
}

func profileJSON(ctx context.Context, _ *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	profile, err := executor.Client().Me(ctx)
	if err != nil {
		return helpers.OutputJSONError(fmt.Sprintf("failed to fetch profile: %v", err))
	}
	out := map[string]any{"profile": profile}
	if exp, ok := tokenExpiry(executor.Store().Token()); ok {
		out["tokenExpiresAt"] = exp.Format(time.RFC3339)
	}
	return helpers.OutputJSON(out)
}

var (
	profileTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	profileLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(12)
)

func profileTUI(ctx context.Context, _ *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	log := logger.FromContext(ctx)
	profile, err := executor.Client().Me(ctx)
	if err != nil {
		return err
	}
	log.Debug("profile loaded", "id", profile.ID)
	fmt.Println(profileTitleStyle.Render("Mi Perfil"))
	rows := []struct{ label, value string }{
		{"Nombre", profile.FullName()},
		{"Email", profile.Email},
		{"Usuario", profile.Username},
		{"DNI", profile.DNI},
		{"Teléfono", profile.PhoneNumber},
	}
	for _, row := range rows {
		if row.value == "" {
			continue
		}
		fmt.Printf("%s %s\n", profileLabelStyle.Render(row.label), row.value)
	}
	for _, role := range profile.RoleNames() {
		fmt.Printf("%s %s\n", profileLabelStyle.Render("Rol"), session.FriendlyRoleName(role))
	}
	if exp, ok := tokenExpiry(executor.Store().Token()); ok {
		fmt.Printf("%s %s\n", profileLabelStyle.Render("Sesión hasta"), exp.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

// tokenExpiry reads the exp claim without verifying the signature. The
// backend is the authority on validity; this is display only.
func tokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
