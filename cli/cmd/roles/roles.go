package roles

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/usersystem/usersys/cli/cmd"
	"github.com/usersystem/usersys/cli/guard"
	"github.com/usersystem/usersys/cli/helpers"
	"github.com/usersystem/usersys/cli/session"
)

// Cmd returns the roles command group
func Cmd() *cobra.Command {
	rolesCmd := &cobra.Command{
		Use:   "roles",
		Short: "Role catalog",
	}
	rolesCmd.AddCommand(ListCmd())
	return rolesCmd
}

// ListCmd returns the role listing command
func ListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available roles",
		RunE:  runList,
	}
}

func runList(cobraCmd *cobra.Command, args []string) error {
	return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{
		Route: guard.RouteUsers,
	}, cmd.ModeHandlers{
		JSON: listJSON,
		TUI:  listTUI,
	}, args)
}

func listJSON(ctx context.Context, _ *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	list, err := executor.Client().ListRoles(ctx)
	if err != nil {
		return helpers.OutputJSONError(fmt.Sprintf("failed to list roles: %v", err))
	}
	return helpers.OutputJSON(map[string]any{"roles": list, "total": len(list)})
}

func listTUI(ctx context.Context, _ *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	list, err := executor.Client().ListRoles(ctx)
	if err != nil {
		return err
	}
	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	fmt.Println(header.Render("Roles disponibles"))
	for _, r := range list {
		fmt.Printf("  %d\t%s (%s)\n", r.ID, session.FriendlyRoleName(r.Name), r.Name)
	}
	return nil
}
