package providers

import "context"

// Config carries the per-request completion settings.
type Config struct {
	APIKey       string
	Model        string
	SystemPrompt string
	MaxTokens    int
	Temperature  float64
}

// Client is the model collaborator behind the chat façade. The guardrail
// never depends on it; it only sees text before and after the round trip.
type Client interface {
	Ask(ctx context.Context, config *Config, prompt string) (string, error)
}
