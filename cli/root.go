package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/usersystem/usersys/cli/cmd/dashboard"
	"github.com/usersystem/usersys/cli/cmd/login"
	"github.com/usersystem/usersys/cli/cmd/logout"
	"github.com/usersystem/usersys/cli/cmd/profile"
	"github.com/usersystem/usersys/cli/cmd/roles"
	"github.com/usersystem/usersys/cli/cmd/users"
	"github.com/usersystem/usersys/pkg/config"
	"github.com/usersystem/usersys/pkg/logger"
)

// RootCmd assembles the CLI. Every subcommand runs after the persistent
// setup has loaded the environment, the logger and the configuration
// into the command context.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "usersys",
		Short:         "Terminal admin console for the user management backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupContext(cmd)
		},
	}
	root.PersistentFlags().String("env-file", "", "Load environment variables from a file")
	root.PersistentFlags().String("output", "", "Output format: auto, json or tui")
	root.PersistentFlags().String("base-url", "", "Backend base URL")
	root.PersistentFlags().String("credentials-file", "", "Credentials file location")
	root.PersistentFlags().Bool("no-color", false, "Disable colored output")
	root.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error, disabled")
	root.PersistentFlags().Bool("log-json", false, "Emit logs as JSON")
	root.PersistentFlags().Bool("log-source", false, "Include source locations in logs")
	root.AddCommand(
		login.Cmd(),
		logout.Cmd(),
		users.Cmd(),
		roles.Cmd(),
		profile.Cmd(),
		dashboard.Cmd(),
	)
	return root
}

// setupContext loads the env file, builds the logger and configuration,
// and attaches both to the command context.
func setupContext(cmd *cobra.Command) error {
	if err := loadEnvFile(cmd); err != nil {
		return err
	}
	logLevel, logJSON, logSource, err := logger.GetLoggerConfig(cmd)
	if err != nil {
		return err
	}
	log := logger.SetupLogger(logLevel, logJSON, logSource)
	ctx := logger.ContextWithLogger(cmd.Context(), log)
	cfg, err := config.NewService().Load(ctx, configOverrides(cmd))
	if err != nil {
		return err
	}
	cmd.SetContext(config.ContextWithConfig(ctx, cfg))
	return nil
}

// configOverrides maps explicitly set flags onto configuration keys.
func configOverrides(cmd *cobra.Command) map[string]any {
	overrides := map[string]any{}
	addString := func(flagName, key string) {
		if cmd.Flags().Changed(flagName) {
			if value, err := cmd.Flags().GetString(flagName); err == nil {
				overrides[key] = value
			}
		}
	}
	addBool := func(flagName, key string) {
		if cmd.Flags().Changed(flagName) {
			if value, err := cmd.Flags().GetBool(flagName); err == nil {
				overrides[key] = value
			}
		}
	}
	addString("base-url", "server.base_url")
	addString("output", "cli.default_format")
	addString("credentials-file", "cli.credentials_file")
	addBool("no-color", "cli.no_color")
	addString("log-level", "runtime.log_level")
	return overrides
}

// loadEnvFile loads environment variables from --env-file. A missing
// default file is not an error; an explicitly named file must exist.
func loadEnvFile(cmd *cobra.Command) error {
	envFile, err := cmd.Flags().GetString("env-file")
	if err != nil {
		return fmt.Errorf("failed to get env-file flag: %w", err)
	}
	if envFile == "" {
		return nil
	}
	if !filepath.IsAbs(envFile) {
		pwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current working directory: %w", err)
		}
		envFile = filepath.Join(pwd, envFile)
	}
	if err := godotenv.Load(filepath.Clean(envFile)); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", envFile, err)
	}
	return nil
}
