package users

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/usersystem/usersys/cli/api"
	"github.com/usersystem/usersys/cli/cmd"
	"github.com/usersystem/usersys/cli/session"
	"github.com/usersystem/usersys/pkg/logger"
)

// exportUsers writes the (optionally filtered) user listing as CSV. The
// same handler serves both modes; the output is a file either way.
func exportUsers(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	log := logger.FromContext(ctx)
	filter, err := cobraCmd.Flags().GetString("filter")
	if err != nil {
		return fmt.Errorf("failed to get filter flag: %w", err)
	}
	outPath, err := cobraCmd.Flags().GetString("file")
	if err != nil {
		return fmt.Errorf("failed to get file flag: %w", err)
	}
	list, err := executor.Client().ListUsers(ctx)
	if err != nil {
		return err
	}
	filtered := filterUsers(list, filter)
	var out io.Writer = os.Stdout
	if outPath != "-" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}
		defer f.Close()
		out = f
	}
	if err := WriteUsersCSV(out, filtered); err != nil {
		return err
	}
	log.Info("users exported", "count", len(filtered), "file", outPath)
	if outPath != "-" {
		fmt.Printf("Exportados %d usuarios a %s\n", len(filtered), outPath)
	}
	return nil
}

// WriteUsersCSV renders the report with the columns the admin console
// shows on screen.
func WriteUsersCSV(w io.Writer, list []api.User) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"ID", "Nombre", "Apellido", "Email", "Rol", "Estado"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, u := range list {
		record := []string{
			strconv.FormatInt(u.ID, 10),
			u.FirstName,
			u.LastName,
			u.Email,
			session.FriendlyRoleName(u.RoleName()),
			u.StatusLabel(),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}
