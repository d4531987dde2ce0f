// Package config loads runtime configuration from the environment and
// preset files from the data directory.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds environment-derived runtime settings.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	DataDir     string `env:"FICWORLD_DATA_DIR" envDefault:"./data"`
	RedisURL    string `env:"REDIS_URL"`

	LLMProvider  string `env:"LLM_PROVIDER" envDefault:"ollama"`
	VeniceAPIKey string `env:"VENICE_API_KEY"`
	OllamaURL    string `env:"OLLAMA_URL" envDefault:"http://localhost:11434"`
	ModelName    string `env:"MODEL_NAME"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// Validate checks provider-specific requirements.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LLMProvider) {
	case "venice":
		if c.VeniceAPIKey == "" {
			return fmt.Errorf("VENICE_API_KEY is required when LLM_PROVIDER is venice")
		}
	case "ollama":
		if c.OllamaURL == "" {
			return fmt.Errorf("OLLAMA_URL is required when LLM_PROVIDER is ollama")
		}
	default:
		return fmt.Errorf("unknown LLM_PROVIDER: %s", c.LLMProvider)
	}
	if c.ModelName == "" {
		return fmt.Errorf("MODEL_NAME is required")
	}
	return nil
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// SlogLevel converts the configured log level string to a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
