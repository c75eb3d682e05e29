package users

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/usersystem/usersys/cli/cmd"
	"github.com/usersystem/usersys/cli/guard"
	"github.com/usersystem/usersys/cli/helpers"
)

// Cmd returns the user management command group
func Cmd() *cobra.Command {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "User management",
		Long:  "List, create, delete, enable/disable and export users",
	}
	usersCmd.AddCommand(
		ListCmd(),
		CreateCmd(),
		DeleteCmd(),
		ToggleStatusCmd(),
		ExportCmd(),
	)
	return usersCmd
}

// ListCmd returns the user listing command
func ListCmd() *cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Long:  "List all users with optional text filtering over name, email and role",
		RunE:  runList,
	}
	listCmd.Flags().String("filter", "", "Filter users by name, email or role")
	return listCmd
}

func runList(cobraCmd *cobra.Command, args []string) error {
	return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{
		Route: guard.RouteUsers,
	}, cmd.ModeHandlers{
		JSON: listJSON,
		TUI:  listTUI,
	}, args)
}

// CreateCmd returns the user creation command
func CreateCmd() *cobra.Command {
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Long:  "Create a new user account, choosing its role from the roles the backend offers",
		RunE:  runCreate,
	}
	createCmd.Flags().String("username", "", "Username")
	createCmd.Flags().String("email", "", "Email address")
	createCmd.Flags().String("password", "", "Password (minimum 6 characters)")
	createCmd.Flags().String("first-name", "", "First name")
	createCmd.Flags().String("last-name", "", "Last name")
	createCmd.Flags().String("dni", "", "National ID")
	createCmd.Flags().String("date-of-birth", "", "Date of birth (YYYY-MM-DD)")
	createCmd.Flags().String("phone", "", "Phone number")
	createCmd.Flags().Int64("role-id", 0, "Role ID (see 'usersys roles list')")
	return createCmd
}

func runCreate(cobraCmd *cobra.Command, args []string) error {
	return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{
		Route: guard.RouteUsers,
	}, cmd.ModeHandlers{
		JSON: createJSON,
		TUI:  createTUI,
	}, args)
}

// DeleteCmd returns the user deletion command
func DeleteCmd() *cobra.Command {
	deleteCmd := &cobra.Command{
		Use:   "delete [user-id]",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE:  runDelete,
	}
	deleteCmd.Flags().Bool("force", false, "Skip the confirmation prompt")
	return deleteCmd
}

func runDelete(cobraCmd *cobra.Command, args []string) error {
	return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{
		Route: guard.RouteUsers,
	}, cmd.ModeHandlers{
		JSON: deleteJSON,
		TUI:  deleteTUI,
	}, args)
}

// ToggleStatusCmd returns the enable/disable command
func ToggleStatusCmd() *cobra.Command {
	toggleCmd := &cobra.Command{
		Use:   "toggle-status [user-id]",
		Short: "Enable or disable a user",
		Long:  "Flip a user's enabled flag. The backend decides the resulting state.",
		Args:  cobra.ExactArgs(1),
		RunE:  runToggleStatus,
	}
	toggleCmd.Flags().Bool("force", false, "Skip the confirmation prompt")
	return toggleCmd
}

func runToggleStatus(cobraCmd *cobra.Command, args []string) error {
	return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{
		Route: guard.RouteUsers,
	}, cmd.ModeHandlers{
		JSON: toggleStatusJSON,
		TUI:  toggleStatusTUI,
	}, args)
}

// ExportCmd returns the CSV export command
func ExportCmd() *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export users to CSV",
		Long:  "Export the (optionally filtered) user listing as a CSV report",
		RunE:  runExport,
	}
	exportCmd.Flags().String("filter", "", "Filter users by name, email or role")
	exportCmd.Flags().StringP("file", "f", "reporte_usuarios.csv", "Output file, '-' for stdout")
	return exportCmd
}

func runExport(cobraCmd *cobra.Command, args []string) error {
	return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{
		Route: guard.RouteReports,
	}, cmd.ModeHandlers{
		JSON: exportUsers,
		TUI:  exportUsers,
	}, args)
}

// parseUserID parses the positional user-id argument.
func parseUserID(args []string) (int64, error) {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, helpers.NewCliError("INVALID_ARGUMENT", fmt.Sprintf("invalid user id: %s", args[0]))
	}
	return id, nil
}
