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

// listJSON handles user listing in JSON mode. All errors are converted
// to JSON format for consistent output.
func listJSON(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	log := logger.FromContext(ctx)
	filter, err := cobraCmd.Flags().GetString("filter")
	if err != nil {
		return helpers.OutputJSONError(fmt.Sprintf("failed to get filter flag: %v", err))
	}
	log.Debug("listing users in JSON mode", "filter", filter)
	list, err := executor.Client().ListUsers(ctx)
	if err != nil {
		return helpers.OutputJSONError(fmt.Sprintf("failed to list users: %v", err))
	}
	filtered := filterUsers(list, filter)
	return helpers.OutputJSON(map[string]any{
		"users": filtered,
		"total": len(filtered),
	})
}

// filterUsers applies the case-insensitive text filter over name, email
// and role.
func filterUsers(list []api.User, term string) []api.User {
	if term == "" {
		return list
	}
	filtered := make([]api.User, 0, len(list))
	for _, u := range list {
		if u.MatchesFilter(term) {
			filtered = append(filtered, u)
		}
	}
	return filtered
}
