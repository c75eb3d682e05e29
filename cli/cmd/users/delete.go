package users

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/usersystem/usersys/cli/cmd"
	"github.com/usersystem/usersys/cli/helpers"
	"github.com/usersystem/usersys/cli/tui/components"
	"github.com/usersystem/usersys/pkg/logger"
)

// deleteJSON handles user deletion in JSON mode. No prompt exists here,
// so --force is implied.
func deleteJSON(ctx context.Context, _ *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
	id, err := parseUserID(args)
	if err != nil {
		return helpers.OutputJSONError(err.Error())
	}
	logger.FromContext(ctx).Debug("deleting user in JSON mode", "id", id)
	if err := executor.Client().DeleteUser(ctx, id); err != nil {
		return helpers.OutputJSONError(fmt.Sprintf("failed to delete user: %v", err))
	}
	return helpers.OutputJSON(map[string]any{"deleted": id})
}

// deleteTUI handles user deletion in TUI mode with a confirmation
// prompt unless --force is set.
func deleteTUI(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
	id, err := parseUserID(args)
	if err != nil {
		return err
	}
	force, err := cobraCmd.Flags().GetBool("force")
	if err != nil {
		return fmt.Errorf("failed to get force flag: %w", err)
	}
	if !force {
		confirmed, err := components.ConfirmAction(
			"Eliminar usuario",
			fmt.Sprintf("¿Seguro que quieres eliminar al usuario %d? Esta acción no se puede deshacer.", id),
		)
		if err != nil {
			return err
		}
		if !confirmed {
			return helpers.NewCliError("CANCELED", "Operación cancelada.")
		}
	}
	logger.FromContext(ctx).Debug("deleting user in TUI mode", "id", id)
	if err := executor.Client().DeleteUser(ctx, id); err != nil {
		return err
	}
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("#50FA7B"))
	fmt.Println(style.Render(fmt.Sprintf("Usuario %d eliminado.", id)))
	return nil
}
