package entities

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jdkato/prose/v2"
)

// Prose extracts entities offline with the prose NER model.
type Prose struct{}

// NewProse creates a prose-backed extractor.
func NewProse() *Prose {
	return &Prose{}
}

// Extract runs named-entity recognition over text.
func (p *Prose) Extract(ctx context.Context, text string) (Set, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		return nil, fmt.Errorf("failed to analyze document: %w", err)
	}

	set := make(Set)
	for _, ent := range doc.Entities() {
		set.Add(ent.Text)
	}

	slog.Debug("Extracted entities", "extractor", "prose", "count", len(set))
	return set, nil
}
