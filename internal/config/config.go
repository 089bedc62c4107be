package config

import (
	"fmt"
	"time"

	"github.com/harun/mcpbridge/pkg/completion"
)

// Config is the main MCP bridge configuration.
type Config struct {
	// Server holds the HTTP server settings.
	Server ServerConfig `json:"server" mapstructure:"server"`

	// Backend selects and configures the completion backend.
	Backend completion.Config `json:"backend" mapstructure:"backend"`

	// Logging holds logger settings.
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host               string `json:"host" mapstructure:"host"`
	Port               int    `json:"port" mapstructure:"port"`
	RateLimitPerMinute int    `json:"rate_limit_per_minute" mapstructure:"rate_limit_per_minute"`
}

// LoggingConfig holds logger configuration.
type LoggingConfig struct {
	Level   string `json:"level" mapstructure:"level"`
	File    string `json:"file" mapstructure:"file"`
	Console bool   `json:"console" mapstructure:"console"`
	Pretty  bool   `json:"pretty" mapstructure:"pretty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:               "0.0.0.0",
			Port:               5004,
			RateLimitPerMinute: 100,
		},
		Backend: completion.Config{
			Provider: "ollama",
			BaseURL:  completion.DefaultOllamaURL,
			Model:    completion.DefaultOllamaModel,
			Timeout:  120 * time.Second,
		},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
			Pretty:  true,
		},
	}
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.RateLimitPerMinute < 0 {
		return fmt.Errorf("rate limit cannot be negative: %d", c.Server.RateLimitPerMinute)
	}

	switch c.Backend.Provider {
	case "", "ollama", "openai", "anthropic":
	default:
		return fmt.Errorf("unsupported backend provider: %s", c.Backend.Provider)
	}
	if c.Backend.Timeout < 0 {
		return fmt.Errorf("backend timeout cannot be negative: %v", c.Backend.Timeout)
	}

	switch c.Logging.Level {
	case "", "trace", "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	return nil
}
