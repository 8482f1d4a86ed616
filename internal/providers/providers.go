package providers

import (
	"context"
)

// Config represents the configuration for a single LLM request
type Config struct {
	Model       string
	Temperature float64
	Prompt      string
	// JSON asks the provider for a JSON-only response where supported
	JSON bool
}

// Provider defines the interface for a text generation provider
type Provider interface {
	Generate(ctx context.Context, config Config) (string, error)
}

// Embedder defines the interface for a provider that can embed text
type Embedder interface {
	Embed(ctx context.Context, model, text string) ([]float32, error)
}
