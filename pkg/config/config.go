package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config is the root configuration for the usersys CLI.
type Config struct {
	Server  ServerConfig  `koanf:"server"  validate:"required"`
	CLI     CLIConfig     `koanf:"cli"`
	Auth    AuthConfig    `koanf:"auth"    validate:"required"`
	Runtime RuntimeConfig `koanf:"runtime"`
}

// ServerConfig describes the backend the CLI talks to.
type ServerConfig struct {
	BaseURL string        `koanf:"base_url" validate:"required,url"`
	Timeout time.Duration `koanf:"timeout"`
}

// CLIConfig holds presentation and storage options.
type CLIConfig struct {
	DefaultFormat   string `koanf:"default_format" validate:"omitempty,oneof=auto json tui"`
	Interactive     bool   `koanf:"interactive"`
	NoColor         bool   `koanf:"no_color"`
	CredentialsFile string `koanf:"credentials_file"`
}

// AuthConfig controls role resolution.
type AuthConfig struct {
	DefaultRole    string   `koanf:"default_role"    validate:"required"`
	RolePrecedence []string `koanf:"role_precedence" validate:"min=1"`
}

// RuntimeConfig holds process-level settings.
type RuntimeConfig struct {
	LogLevel string `koanf:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// Default returns the built-in configuration. The base URL matches the
// backend's development address.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL: "http://localhost:8080/api",
			Timeout: 30 * time.Second,
		},
		CLI: CLIConfig{
			DefaultFormat: "auto",
		},
		Auth: AuthConfig{
			DefaultRole:    "ROLE_EMPLOYEE",
			RolePrecedence: []string{"ROLE_ADMIN", "ROLE_SUPERVISOR", "ROLE_EMPLOYEE"},
		},
		Runtime: RuntimeConfig{
			LogLevel: "info",
		},
	}
}

// CredentialsPath resolves the credentials file location, defaulting to
// the per-user config directory.
func (c *Config) CredentialsPath() (string, error) {
	if c.CLI.CredentialsFile != "" {
		return c.CLI.CredentialsFile, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "usersys", "credentials.json"), nil
}
