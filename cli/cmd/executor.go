package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/usersystem/usersys/cli/api"
	"github.com/usersystem/usersys/cli/guard"
	"github.com/usersystem/usersys/cli/helpers"
	"github.com/usersystem/usersys/cli/session"
	"github.com/usersystem/usersys/cli/tui/components"
	"github.com/usersystem/usersys/cli/tui/models"
	"github.com/usersystem/usersys/pkg/config"
	"github.com/usersystem/usersys/pkg/logger"
)

// CommandExecutor handles common setup and execution patterns for CLI
// commands. It eliminates boilerplate code by providing a single place
// for:
// - Credential store and session wiring
// - API client creation with auth hooks
// - Mode detection
// - Route guard evaluation
// - Error handling
type CommandExecutor struct {
	mode    models.Mode
	cfg     *config.Config
	store   *session.Store
	client  *api.Client
	manager *session.Manager
	toaster *components.Toaster
}

// HandlerFunc defines the signature for command handlers.
type HandlerFunc func(ctx context.Context, cmd *cobra.Command, executor *CommandExecutor, args []string) error

// ModeHandlers contains handlers for different execution modes.
type ModeHandlers struct {
	JSON HandlerFunc
	TUI  HandlerFunc
}

// ExecutorOptions allows customization of the command executor.
type ExecutorOptions struct {
	// Route gates the command behind the navigation guard. Empty means
	// the command is public (login).
	Route string
}

// NewCommandExecutor creates a new command executor with all necessary
// setup. The 401 hooks are always bound to the session manager so any
// rejected call empties the credential store before the command sees
// the error.
func NewCommandExecutor(cmd *cobra.Command, opts ExecutorOptions) (*CommandExecutor, error) {
	ctx := cmd.Context()
	log := logger.FromContext(ctx)
	mode := helpers.DetectMode(cmd)
	log.Debug("detected execution mode", "mode", mode)
	cfg := config.FromContext(ctx)
	credPath, err := cfg.CredentialsPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve credentials path: %w", err)
	}
	store := session.NewStore(afero.NewOsFs(), credPath)
	toaster := components.NewToaster()
	client, err := api.NewClient(cfg, store, api.WithNotifier(toaster))
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}
	manager := session.NewManager(cfg, store, client)
	client.SetAuthHooks(api.AuthHooks{
		Logout: manager.Logout,
		NavigateToLogin: func() {
			log.Debug("session rejected, login required")
		},
	})
	executor := &CommandExecutor{
		mode:    mode,
		cfg:     cfg,
		store:   store,
		client:  client,
		manager: manager,
		toaster: toaster,
	}
	if opts.Route != "" {
		if err := executor.checkRoute(opts.Route); err != nil {
			return nil, err
		}
	}
	return executor, nil
}

// checkRoute evaluates the navigation guard against the persisted
// credentials before the command body runs.
func (e *CommandExecutor) checkRoute(route string) error {
	decision := guard.Evaluate(guard.DefaultPolicy(), route, e.store.Token(), e.store.Role())
	switch decision {
	case guard.RedirectLogin:
		return helpers.NewCliError(
			"AUTH_REQUIRED",
			"No has iniciado sesión.",
			"run 'usersys login' first",
		)
	case guard.RedirectDashboard:
		return helpers.NewCliError(
			"FORBIDDEN",
			"No tienes permiso para acceder a esta sección.",
			fmt.Sprintf("role %s cannot access %s", e.store.Role(), route),
		)
	default:
		return nil
	}
}

// Execute runs the appropriate handler based on the detected mode.
func (e *CommandExecutor) Execute(ctx context.Context, cmd *cobra.Command, handlers ModeHandlers, args []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	switch e.mode {
	case models.ModeJSON:
		if handlers.JSON == nil {
			return fmt.Errorf("JSON mode handler not implemented")
		}
		return handlers.JSON(ctx, cmd, e, args)
	case models.ModeTUI:
		if handlers.TUI == nil {
			return fmt.Errorf("TUI mode handler not implemented")
		}
		return handlers.TUI(ctx, cmd, e, args)
	default:
		return fmt.Errorf("unsupported mode: %s", e.mode)
	}
}

// Client returns the configured API client.
func (e *CommandExecutor) Client() *api.Client {
	return e.client
}

// Session returns the session manager.
func (e *CommandExecutor) Session() *session.Manager {
	return e.manager
}

// Store returns the credential store.
func (e *CommandExecutor) Store() *session.Store {
	return e.store
}

// Config returns the active configuration.
func (e *CommandExecutor) Config() *config.Config {
	return e.cfg
}

// Toaster returns the notification queue fed by the API client.
func (e *CommandExecutor) Toaster() *components.Toaster {
	return e.toaster
}

// GetMode returns the detected execution mode.
func (e *CommandExecutor) GetMode() models.Mode {
	return e.mode
}

// FlushToasts prints any notifications the API client queued during a
// command. JSON mode stays silent; consumers read the error payload.
func (e *CommandExecutor) FlushToasts() {
	if e.mode != models.ModeTUI {
		return
	}
	for _, toast := range e.toaster.Drain() {
		fmt.Println(toast.Render())
	}
}

// ExecuteCommand is a convenience function that combines executor
// creation and execution.
func ExecuteCommand(cmd *cobra.Command, opts ExecutorOptions, handlers ModeHandlers, args []string) error {
	executor, err := NewCommandExecutor(cmd, opts)
	if err != nil {
		return HandleCommonErrors(err, helpers.DetectMode(cmd))
	}
	err = executor.Execute(cmd.Context(), cmd, handlers, args)
	executor.FlushToasts()
	return HandleCommonErrors(err, executor.GetMode())
}

// ValidateRequiredFlags checks that all required flags are present and valid.
func ValidateRequiredFlags(cmd *cobra.Command, required []string) error {
	for _, flag := range required {
		if !cmd.Flags().Changed(flag) {
			return helpers.NewCliError("MISSING_FLAG", fmt.Sprintf("required flag '%s' not specified", flag))
		}
		if value, err := cmd.Flags().GetString(flag); err == nil && value == "" {
			return helpers.NewCliError("EMPTY_FLAG", fmt.Sprintf("required flag '%s' cannot be empty", flag))
		}
	}
	return nil
}

// HandleCommonErrors provides consistent error handling across all commands.
func HandleCommonErrors(err error, mode models.Mode) error {
	if err == nil {
		return nil
	}
	cliErr := categorizeError(err)
	if cliErr != nil {
		helpers.OutputError(cliErr, mode)
		return cliErr
	}
	helpers.OutputError(err, mode)
	return err
}

// categorizeError converts errors to structured CLI errors.
func categorizeError(err error) *helpers.CliError {
	var cliErr *helpers.CliError
	if errors.As(err, &cliErr) {
		return cliErr
	}
	switch {
	case errors.Is(err, context.Canceled):
		return helpers.NewCliError("OPERATION_CANCELED", "Operation was canceled by user")
	case errors.Is(err, context.DeadlineExceeded):
		return helpers.NewCliError("OPERATION_TIMEOUT", "Operation timed out")
	case errors.Is(err, api.ErrNetwork):
		return helpers.NewCliError("NETWORK_ERROR", "No se pudo conectar con el servidor. Verifica tu conexión a internet.", err.Error())
	case errors.Is(err, api.ErrUnauthorized):
		return helpers.NewCliError("AUTH_ERROR", "Tu sesión ha expirado o es inválida. Por favor, inicia sesión de nuevo.", err.Error())
	case errors.Is(err, api.ErrForbidden):
		return helpers.NewCliError("FORBIDDEN", "No tienes permiso para realizar esta acción.", err.Error())
	case errors.Is(err, api.ErrServer):
		return helpers.NewCliError("SERVER_ERROR", "Ha ocurrido un error en el servidor. Inténtalo de nuevo más tarde.", err.Error())
	default:
		return nil
	}
}
