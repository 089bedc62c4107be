package completion

import (
	"context"
	"fmt"
	"time"
)

// Provider is a completion backend: prompt in, completion text out. The bridge
// treats the backend as a black box and never retries a failed call.
type Provider interface {
	// Complete sends a prompt and returns the full completion text.
	Complete(ctx context.Context, prompt string) (string, error)

	// Name returns the provider name.
	Name() string
}

// Config selects and configures a completion backend.
type Config struct {
	Provider string        `json:"provider" mapstructure:"provider"` // ollama, openai, anthropic
	BaseURL  string        `json:"base_url" mapstructure:"base_url"`
	Model    string        `json:"model" mapstructure:"model"`
	APIKey   string        `json:"api_key" mapstructure:"api_key"`
	Timeout  time.Duration `json:"timeout" mapstructure:"timeout"`
}

// NewProvider creates a completion provider from configuration.
func NewProvider(cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "", "ollama":
		return NewOllamaProvider(cfg.BaseURL, cfg.Model), nil
	case "openai":
		return NewOpenAIProvider(cfg.APIKey, cfg.BaseURL, cfg.Model), nil
	case "anthropic":
		return NewAnthropicProvider(cfg.APIKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}
