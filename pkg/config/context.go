package config

import (
	"context"
)

// ContextKey is an alias used for storing values in context
type ContextKey string

// ConfigCtxKey is the context key used to store the active *Config
const ConfigCtxKey ContextKey = "config"

// ContextWithConfig stores the configuration in the context
func ContextWithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ConfigCtxKey, cfg)
}

// FromContext returns the active configuration for the provided context.
// Falls back to defaults when no configuration was attached, so components
// remain usable in edge cases and tests.
func FromContext(ctx context.Context) *Config {
	if ctx != nil {
		if cfg, ok := ctx.Value(ConfigCtxKey).(*Config); ok && cfg != nil {
			return cfg
		}
	}
	return Default()
}
