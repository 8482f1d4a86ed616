package embedding

import (
	"context"

	"github.com/LakshmiNeithilath/FileComparison/internal/providers"
)

// Provider adapts a remote embedding client to a Backend.
type Provider struct {
	embedder providers.Embedder
	name     string
	model    string
}

// NewProvider creates a backend that embeds through a remote provider.
func NewProvider(name string, embedder providers.Embedder, model string) *Provider {
	return &Provider{
		embedder: embedder,
		name:     name,
		model:    model,
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return p.name
}

// Embed embeds one segment.
func (p *Provider) Embed(ctx context.Context, text string) ([]float64, error) {
	values, err := p.embedder.Embed(ctx, p.model, text)
	if err != nil {
		return nil, err
	}

	vec := make([]float64, len(values))
	for i, v := range values {
		vec[i] = float64(v)
	}
	return vec, nil
}
