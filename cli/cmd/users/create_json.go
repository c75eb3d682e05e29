package users

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/usersystem/usersys/cli/api"
	"github.com/usersystem/usersys/cli/cmd"
	"github.com/usersystem/usersys/cli/helpers"
	"github.com/usersystem/usersys/pkg/logger"
)

// createRequestFromFlags assembles the creation payload from command
// line flags. Validation happens in the API client.
func createRequestFromFlags(cobraCmd *cobra.Command) (api.CreateUserRequest, error) {
	var req api.CreateUserRequest
	var err error
	stringFlags := []struct {
		name   string
		target *string
	}{
		{"username", &req.Username},
		{"email", &req.Email},
		{"password", &req.Password},
		{"first-name", &req.FirstName},
		{"last-name", &req.LastName},
		{"dni", &req.DNI},
		{"date-of-birth", &req.DateOfBirth},
		{"phone", &req.PhoneNumber},
	}
	for _, f := range stringFlags {
		if *f.target, err = cobraCmd.Flags().GetString(f.name); err != nil {
			return req, fmt.Errorf("failed to get %s flag: %w", f.name, err)
		}
	}
	if req.RoleID, err = cobraCmd.Flags().GetInt64("role-id"); err != nil {
		return req, fmt.Errorf("failed to get role-id flag: %w", err)
	}
	return req, nil
}

// createJSON handles user creation in JSON mode.
func createJSON(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	log := logger.FromContext(ctx)
	req, err := createRequestFromFlags(cobraCmd)
	if err != nil {
		return helpers.OutputJSONError(err.Error())
	}
	log.Debug("creating user in JSON mode", "username", req.Username, "email", req.Email)
	user, err := executor.Client().CreateUser(ctx, req)
	if err != nil {
		return helpers.OutputJSONError(fmt.Sprintf("failed to create user: %v", err))
	}
	return helpers.OutputJSON(user)
}
