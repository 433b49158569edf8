// Package config loads process-wide settings from the environment.
package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/wizeline/neptune-scheduler/internal/domain"
)

// Environment variable names.
const (
	EnvClusterIdentifier = "DB_CLUSTER_IDENTIFIER"
	EnvEnvironment       = "ENVIRONMENT"
	EnvLogLevel          = "LOG_LEVEL"
)

// Config is read once at startup and passed to the dispatcher.
type Config struct {
	ClusterIdentifier string
	Environment       string
	LogLevel          slog.Level
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		ClusterIdentifier: strings.TrimSpace(os.Getenv(EnvClusterIdentifier)),
		Environment:       os.Getenv(EnvEnvironment),
	}
	if cfg.Environment == "" {
		cfg.Environment = "dev"
	}

	level, err := ParseLevel(os.Getenv(EnvLogLevel))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the required fields.
func (c *Config) Validate() error {
	if c.ClusterIdentifier == "" {
		return &domain.ConfigurationError{Key: EnvClusterIdentifier, Reason: "is required"}
	}
	return nil
}

// ParseLevel maps a LOG_LEVEL value to a slog level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, &domain.ConfigurationError{Key: EnvLogLevel, Reason: "must be one of debug, info, warn, error"}
}
