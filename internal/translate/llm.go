package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/LakshmiNeithilath/FileComparison/internal/providers"
)

// LLM translates by prompting a generative model.
type LLM struct {
	provider providers.Provider
	name     string
	model    string
}

// NewLLM creates a translation backend on top of an LLM provider.
func NewLLM(name string, provider providers.Provider, model string) *LLM {
	return &LLM{
		provider: provider,
		name:     name,
		model:    model,
	}
}

// Name returns the backend name.
func (l *LLM) Name() string {
	return l.name
}

// Translate translates one chunk of text.
func (l *LLM) Translate(ctx context.Context, text, source, target string) (string, error) {
	out, err := l.provider.Generate(ctx, providers.Config{
		Model:       l.model,
		Temperature: 0.0,
		Prompt:      buildTranslationPrompt(text, source, target),
	})
	if err != nil {
		return "", fmt.Errorf("failed to translate with %s: %w", l.name, err)
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("empty translation returned from %s", l.name)
	}
	return out, nil
}

func buildTranslationPrompt(text, source, target string) string {
	return fmt.Sprintf(`You are a translation engine. Translate the text below from the language with ISO 639-1 code %q into the language with ISO 639-1 code %q.

RULES:
1. Output ONLY the translated text.
2. Do not add explanations, notes, quotes or formatting.
3. The text may start or end in the middle of a word or sentence; translate it as-is without completing it.
4. Keep names, numbers and identifiers unchanged.

TEXT:
%s`, source, target, text)
}
