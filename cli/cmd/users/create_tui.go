package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/usersystem/usersys/cli/api"
	"github.com/usersystem/usersys/cli/cmd"
	"github.com/usersystem/usersys/cli/helpers"
	"github.com/usersystem/usersys/cli/session"
	"github.com/usersystem/usersys/pkg/logger"
)

// createTUI handles user creation in TUI mode: the available roles come
// from the backend and the missing fields are collected with a form.
func createTUI(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	log := logger.FromContext(ctx)
	req, err := createRequestFromFlags(cobraCmd)
	if err != nil {
		return err
	}
	roles, err := executor.Client().ListRoles(ctx)
	if err != nil {
		return fmt.Errorf("failed to load roles: %w", err)
	}
	if len(roles) == 0 {
		return helpers.NewCliError("NO_ROLES", "El servidor no devolvió roles disponibles.")
	}
	log.Debug("creating user in TUI mode", "roles", len(roles))
	if err := runCreateForm(&req, roles); err != nil {
		return err
	}
	user, err := executor.Client().CreateUser(ctx, req)
	if err != nil {
		return err
	}
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("#50FA7B")).Bold(true)
	fmt.Println(style.Render(fmt.Sprintf(
		"Usuario %s %s creado (ID %d, %s)",
		user.FirstName, user.LastName, user.ID, session.FriendlyRoleName(user.RoleName()),
	)))
	return nil
}

func runCreateForm(req *api.CreateUserRequest, roles []api.Role) error {
	roleOptions := make([]huh.Option[int64], 0, len(roles))
	for _, r := range roles {
		roleOptions = append(roleOptions, huh.NewOption(session.FriendlyRoleName(r.Name), r.ID))
	}
	if req.RoleID == 0 {
		req.RoleID = roles[0].ID
	}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Usuario").
				Value(&req.Username).
				Validate(func(s string) error {
					return helpers.ValidateRequired(s, "username")
				}),
			huh.NewInput().
				Title("Email").
				Value(&req.Email).
				Validate(func(s string) error {
					if !strings.Contains(s, "@") {
						return fmt.Errorf("email inválido")
					}
					return nil
				}),
			huh.NewInput().
				Title("Contraseña").
				EchoMode(huh.EchoModePassword).
				Value(&req.Password).
				Validate(func(s string) error {
					if len(s) < 6 {
						return fmt.Errorf("mínimo 6 caracteres")
					}
					return nil
				}),
			huh.NewInput().
				Title("Nombre").
				Value(&req.FirstName).
				Validate(func(s string) error {
					return helpers.ValidateRequired(s, "first name")
				}),
			huh.NewInput().
				Title("Apellido").
				Value(&req.LastName).
				Validate(func(s string) error {
					return helpers.ValidateRequired(s, "last name")
				}),
		),
		huh.NewGroup(
			huh.NewInput().Title("DNI").Value(&req.DNI),
			huh.NewInput().Title("Fecha de nacimiento (YYYY-MM-DD)").Value(&req.DateOfBirth),
			huh.NewInput().Title("Teléfono").Value(&req.PhoneNumber),
			huh.NewSelect[int64]().
				Title("Rol").
				Options(roleOptions...).
				Value(&req.RoleID),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("user form failed: %w", err)
	}
	return nil
}
