package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix namespaces every environment override, e.g.
// USERSYS_SERVER_BASE_URL -> server.base_url.
const EnvPrefix = "USERSYS_"

// Service loads and validates configuration from defaults, environment
// variables, and explicit overrides, in that precedence order.
type Service struct {
	koanf     *koanf.Koanf
	validator *validator.Validate
}

// NewService creates a configuration service with validation support.
func NewService() *Service {
	return &Service{
		koanf:     koanf.New("."),
		validator: validator.New(),
	}
}

// Load assembles the configuration. Overrides use dot-notation keys
// ("server.base_url") and take precedence over the environment.
func (s *Service) Load(_ context.Context, overrides map[string]any) (*Config, error) {
	s.koanf = koanf.New(".")
	if err := s.koanf.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load default configuration: %w", err)
	}
	if err := s.loadEnvironment(); err != nil {
		return nil, err
	}
	for key, value := range overrides {
		if value == nil {
			continue
		}
		if err := s.koanf.Set(key, value); err != nil {
			return nil, fmt.Errorf("failed to apply override %s: %w", key, err)
		}
	}
	return s.unmarshalAndValidate()
}

// loadEnvironment maps USERSYS_* variables onto config paths.
func (s *Service) loadEnvironment() error {
	if err := s.koanf.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return transformEnvKey(key), value
		},
	}), nil); err != nil {
		return fmt.Errorf("failed to load environment variables: %w", err)
	}
	return nil
}

// transformEnvKey converts USERSYS_SERVER_BASE_URL into server.base_url.
// The first underscore separates the section from the key; the rest of
// the key keeps its underscores.
func transformEnvKey(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	section, rest, found := strings.Cut(key, "_")
	if !found {
		return section
	}
	return section + "." + rest
}

func (s *Service) unmarshalAndValidate() (*Config, error) {
	var config Config
	if err := s.koanf.UnmarshalWithConf("", &config, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &config,
			TagName:          "koanf",
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := s.validator.Struct(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &config, nil
}
