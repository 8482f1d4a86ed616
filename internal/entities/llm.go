package entities

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/LakshmiNeithilath/FileComparison/internal/providers"
)

// LLM extracts entities by prompting a generative model for a JSON list.
type LLM struct {
	provider providers.Provider
	name     string
	model    string
}

// NewLLM creates an extractor on top of an LLM provider.
func NewLLM(name string, provider providers.Provider, model string) *LLM {
	return &LLM{
		provider: provider,
		name:     name,
		model:    model,
	}
}

// Extract asks the model for the entities mentioned in text.
func (l *LLM) Extract(ctx context.Context, text string) (Set, error) {
	response, err := l.provider.Generate(ctx, providers.Config{
		Model:       l.model,
		Temperature: 0.0,
		Prompt:      buildEntityPrompt(text),
		JSON:        true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to extract entities with %s: %w", l.name, err)
	}

	set := NewSet(parseEntityResponse(response)...)
	slog.Debug("Extracted entities", "extractor", l.name, "count", len(set))
	return set, nil
}

func buildEntityPrompt(text string) string {
	return `Extract every named entity mentioned in the text below: people, organizations, places, products, events, dates and monetary amounts.

Return ONLY a JSON object of the form:
{"entities": ["entity one", "entity two"]}

Each entity must appear exactly as written in the text. Do not add explanations.

TEXT:
` + text
}

// parseEntityResponse reads the model's JSON answer. Falls back to one
// entity per line if the model ignored the requested format.
func parseEntityResponse(response string) []string {
	var result struct {
		Entities []string `json:"entities"`
	}

	response = strings.TrimSpace(response)
	fenced := strings.HasPrefix(response, "```")
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	response = strings.TrimSpace(response)
	if fenced {
		slog.Warn("Model wrapped entity JSON in a code block")
	}

	if err := json.Unmarshal([]byte(response), &result); err == nil {
		return result.Entities
	}

	var list []string
	if err := json.Unmarshal([]byte(response), &list); err == nil {
		return list
	}

	slog.Warn("Failed to parse entity JSON, reading lines instead")
	var lines []string
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*• ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
