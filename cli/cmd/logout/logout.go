package logout

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/usersystem/usersys/cli/cmd"
	"github.com/usersystem/usersys/cli/helpers"
)

// Cmd returns the logout command
func Cmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Close the current session",
		Long:  "Discard the persisted credentials. Safe to run when no session exists.",
		RunE:  runLogout,
	}
}

func runLogout(cobraCmd *cobra.Command, args []string) error {
	return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{}, cmd.ModeHandlers{
		JSON: logoutJSON,
		TUI:  logoutTUI,
	}, args)
}

func logoutJSON(ctx context.Context, _ *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	executor.Session().Logout(ctx)
	return helpers.OutputJSON(map[string]any{"success": true})
}

func logoutTUI(ctx context.Context, _ *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	executor.Session().Logout(ctx)
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("#50FA7B"))
	fmt.Println(style.Render("Sesión cerrada."))
	return nil
}
