package helpers

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/usersystem/usersys/cli/tui/models"
	"github.com/usersystem/usersys/pkg/config"
)

// isRunningInCI checks if we're running in a CI/CD environment
func isRunningInCI() bool {
	if os.Getenv("CI") != "" {
		return true
	}
	ciVars := []string{
		"JENKINS_HOME",
		"GITHUB_ACTIONS",
		"GITLAB_CI",
		"CIRCLECI",
		"TRAVIS",
		"BUILDKITE",
		"DRONE",
		"TEAMCITY_VERSION",
		"CONTINUOUS_INTEGRATION",
	}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}

// checkExplicitFormat checks for an explicit format from configuration
func checkExplicitFormat(cfg *config.Config) (models.Mode, bool) {
	switch cfg.CLI.DefaultFormat {
	case string(OutputFormatJSON):
		return models.ModeJSON, true
	case string(OutputFormatTUI):
		return models.ModeTUI, true
	case string(OutputFormatAuto):
		return models.ModeJSON, false
	default:
		// Unknown values fall through to detection as well.
		return models.ModeJSON, false
	}
}

// isInteractiveEnvironment checks if we're in an interactive environment
func isInteractiveEnvironment(cfg *config.Config) bool {
	if cfg.CLI.Interactive {
		return true
	}
	if isRunningInCI() {
		return false
	}
	stdinIsTerminal := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	stdoutIsTerminal := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	if !stdinIsTerminal || !stdoutIsTerminal {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	term := os.Getenv("TERM")
	if term == "dumb" || term == "" {
		return false
	}
	return true
}

// DetectMode detects the output mode from configuration and environment.
func DetectMode(cmd *cobra.Command) models.Mode {
	cfg := config.FromContext(cmd.Context())
	if mode, found := checkExplicitFormat(cfg); found {
		return mode
	}
	if isInteractiveEnvironment(cfg) {
		return models.ModeTUI
	}
	return models.ModeJSON
}

// ShouldUseColor determines if colored output should be used
func ShouldUseColor(cmd *cobra.Command) bool {
	cfg := config.FromContext(cmd.Context())
	if cfg.CLI.NoColor {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return !isRunningInCI()
}
