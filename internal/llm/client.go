// Package llm classifies documents with an LLM provider and parses the
// structured response into a classification record.
package llm

import (
	"context"
	"time"
)

// Client is a raw LLM provider: one prompt in, one completion out.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config selects and tunes an LLM provider.
type Config struct {
	// Provider is "openai" or "gemini".
	Provider string
	// APIKey authenticates against the provider.
	APIKey string
	// Model overrides the provider default.
	Model string
	// Temperature defaults to 0.2 when zero.
	Temperature float64
	// MaxTokens defaults to 1024 when zero.
	MaxTokens int
	// Timeout applies per request.
	Timeout time.Duration
}

const (
	defaultTemperature = 0.2
	defaultMaxTokens   = 1024
	defaultTimeout     = 60 * time.Second
)

func (c Config) withDefaults() Config {
	if c.Temperature == 0 {
		c.Temperature = defaultTemperature
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = defaultMaxTokens
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	return c
}
