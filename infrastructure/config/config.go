// Package config loads store configuration from a YAML file with
// environment-variable overrides and supports live reload via filesystem
// watching.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Policy names accepted by Storage.Policy
const (
	PolicyAuto       = "auto"
	PolicyDurable    = "durable"
	PolicyBestEffort = "best_effort"
)

// Config is the full store configuration
type Config struct {
	Environment   string              `yaml:"environment" validate:"required,oneof=development staging production"`
	Storage       StorageConfig       `yaml:"storage"`
	Logging       LoggingConfig       `yaml:"logging"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// StorageConfig configures the document store
type StorageConfig struct {
	// BasePath is the root directory of the JSON file tree
	BasePath string `yaml:"base_path" validate:"required"`

	// Policy selects the write-failure policy: auto probes the
	// filesystem once at construction, durable and best_effort force
	// one of the two strategies
	Policy string `yaml:"policy" validate:"required,oneof=auto durable best_effort"`
}

// LoggingConfig configures structured logging
type LoggingConfig struct {
	Level string `yaml:"level" validate:"required,oneof=debug info warn error"`
}

// ObservabilityConfig toggles the optional store decorators
type ObservabilityConfig struct {
	MetricsEnabled        bool   `yaml:"metrics_enabled"`
	TracingEnabled        bool   `yaml:"tracing_enabled"`
	TracingEndpoint       string `yaml:"tracing_endpoint"`
	CircuitBreakerEnabled bool   `yaml:"circuit_breaker_enabled"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Environment: "development",
		Storage: StorageConfig{
			BasePath: "./data",
			Policy:   PolicyAuto,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Observability: ObservabilityConfig{
			MetricsEnabled:        true,
			TracingEnabled:        false,
			TracingEndpoint:       "localhost:4317",
			CircuitBreakerEnabled: false,
		},
	}
}

// Load reads the configuration file, applies environment overrides and
// validates the result. A missing file is not an error; defaults plus
// environment overrides apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		payload, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(payload, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration against its constraints
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SAILING_ENVIRONMENT"); v != "" {
		cfg.Environment = v
	}
	if v := os.Getenv("SAILING_STORAGE_BASE_PATH"); v != "" {
		cfg.Storage.BasePath = v
	}
	if v := os.Getenv("SAILING_STORAGE_POLICY"); v != "" {
		cfg.Storage.Policy = v
	}
	if v := os.Getenv("SAILING_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SAILING_METRICS_ENABLED"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			cfg.Observability.MetricsEnabled = parsed
		}
	}
	if v := os.Getenv("SAILING_TRACING_ENABLED"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			cfg.Observability.TracingEnabled = parsed
		}
	}
	if v := os.Getenv("SAILING_TRACING_ENDPOINT"); v != "" {
		cfg.Observability.TracingEndpoint = v
	}
	if v := os.Getenv("SAILING_CIRCUIT_BREAKER_ENABLED"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			cfg.Observability.CircuitBreakerEnabled = parsed
		}
	}
}
