package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all configuration options for the task board application
type Config struct {
	Database   DatabaseConfig
	Server     ServerConfig
	Auth       AuthConfig
	Validation ValidationConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Path         string        `env:"TASKBOARD_DB_PATH"`
	QueryTimeout time.Duration `env:"TASKBOARD_DB_QUERY_TIMEOUT"`
	WriteTimeout time.Duration `env:"TASKBOARD_DB_WRITE_TIMEOUT"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr            string        `env:"TASKBOARD_HTTP_ADDR"`
	ReadTimeout     time.Duration `env:"TASKBOARD_HTTP_READ_TIMEOUT"`
	WriteTimeout    time.Duration `env:"TASKBOARD_HTTP_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `env:"TASKBOARD_HTTP_SHUTDOWN_TIMEOUT"`
}

// AuthConfig holds actor token verification configuration
type AuthConfig struct {
	TokenSecret string `env:"TASKBOARD_AUTH_SECRET"`
	Issuer      string `env:"TASKBOARD_AUTH_ISSUER"`
}

// ValidationConfig holds validation rules configuration
type ValidationConfig struct {
	TitleMinLength int `env:"TASKBOARD_VALIDATION_TITLE_MIN"`
	TitleMaxLength int `env:"TASKBOARD_VALIDATION_TITLE_MAX"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:         "taskboard.db",
			QueryTimeout: 10 * time.Second,
			WriteTimeout: 5 * time.Second,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Auth: AuthConfig{
			Issuer: "taskboard",
		},
		Validation: ValidationConfig{
			TitleMinLength: 1,
			TitleMaxLength: 255,
		},
	}
}

// Load builds a configuration from defaults overridden by environment
// variables. Configuration is explicit input to the components that
// need it; nothing reads the environment after this point.
func Load() (*Config, error) {
	cfg := NewConfig()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
