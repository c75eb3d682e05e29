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

// toggleStatusJSON handles enable/disable in JSON mode.
func toggleStatusJSON(ctx context.Context, _ *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
	id, err := parseUserID(args)
	if err != nil {
		return helpers.OutputJSONError(err.Error())
	}
	logger.FromContext(ctx).Debug("toggling user status in JSON mode", "id", id)
	user, err := executor.Client().ToggleUserStatus(ctx, id)
	if err != nil {
		return helpers.OutputJSONError(fmt.Sprintf("failed to toggle user status: %v", err))
	}
	return helpers.OutputJSON(user)
}

// toggleStatusTUI handles enable/disable in TUI mode, sharing the same
// confirmation prompt the delete flow uses.
func toggleStatusTUI(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
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
			"Cambiar estado",
			fmt.Sprintf("¿Cambiar el estado del usuario %d?", id),
		)
		if err != nil {
			return err
		}
		if !confirmed {
			return helpers.NewCliError("CANCELED", "Operación cancelada.")
		}
	}
	logger.FromContext(ctx).Debug("toggling user status in TUI mode", "id", id)
	user, err := executor.Client().ToggleUserStatus(ctx, id)
	if err != nil {
		return err
	}
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("#50FA7B"))
	fmt.Println(style.Render(fmt.Sprintf(
		"Usuario %d ahora está %s.", user.ID, user.StatusLabel(),
	)))
	return nil
}
