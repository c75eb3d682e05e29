package login

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/usersystem/usersys/cli/cmd"
	"github.com/usersystem/usersys/cli/helpers"
	"github.com/usersystem/usersys/cli/session"
	"github.com/usersystem/usersys/pkg/logger"
)

// Cmd returns the login command
func Cmd() *cobra.Command {
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate against the backend",
		Long:  "Authenticate with email and password and persist the session credentials",
		RunE:  runLogin,
	}
	loginCmd.Flags().String("email", "", "Account email")
	loginCmd.Flags().String("password", "", "Account password")
	return loginCmd
}

func runLogin(cobraCmd *cobra.Command, args []string) error {
	return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{}, cmd.ModeHandlers{
		JSON: loginJSON,
		TUI:  loginTUI,
	}, args)
}

func credentialsFromFlags(cobraCmd *cobra.Command) (email, password string, err error) {
	email, err = cobraCmd.Flags().GetString("email")
	if err != nil {
		return "", "", fmt.Errorf("failed to get email flag: %w", err)
	}
	password, err = cobraCmd.Flags().GetString("password")
	if err != nil {
		return "", "", fmt.Errorf("failed to get password flag: %w", err)
	}
	return email, password, nil
}

// loginJSON requires both credentials up front; there is no prompt to
// fall back on.
func loginJSON(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	email, password, err := credentialsFromFlags(cobraCmd)
	if err != nil {
		return helpers.OutputJSONError(err.Error())
	}
	if email == "" || password == "" {
		return helpers.OutputJSONError("email and password are required (use --email and --password)")
	}
	result := executor.Session().Login(ctx, email, password)
	if err := helpers.OutputJSON(result); err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("login failed: %s", result.Message)
	}
	return nil
}

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#50FA7B")).Bold(true)
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
)

// loginTUI prompts for any missing credential, then runs the login flow.
func loginTUI(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	log := logger.FromContext(ctx)
	email, password, err := credentialsFromFlags(cobraCmd)
	if err != nil {
		return err
	}
	if email == "" || password == "" {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Email").
					Placeholder("usuario@ejemplo.com").
					Value(&email).
					Validate(func(s string) error {
						return helpers.ValidateRequired(s, "email")
					}),
				huh.NewInput().
					Title("Contraseña").
					EchoMode(huh.EchoModePassword).
					Value(&password).
					Validate(func(s string) error {
						return helpers.ValidateRequired(s, "password")
					}),
			),
		)
		if err := form.Run(); err != nil {
			return fmt.Errorf("login prompt failed: %w", err)
		}
	}
	log.Debug("logging in", "email", email)
	result := executor.Session().Login(ctx, email, password)
	if !result.Success {
		fmt.Println(failureStyle.Render(result.Message))
		return fmt.Errorf("login failed")
	}
	fmt.Println(successStyle.Render(
		fmt.Sprintf("Sesión iniciada como %s (%s)", email, session.FriendlyRoleName(result.Role)),
	))
	return nil
}
