// Package app assembles a comparison.Comparer from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/LakshmiNeithilath/FileComparison/internal/comparison"
	"github.com/LakshmiNeithilath/FileComparison/internal/config"
	"github.com/LakshmiNeithilath/FileComparison/internal/embedding"
	"github.com/LakshmiNeithilath/FileComparison/internal/entities"
	"github.com/LakshmiNeithilath/FileComparison/internal/gemini"
	"github.com/LakshmiNeithilath/FileComparison/internal/langdetect"
	"github.com/LakshmiNeithilath/FileComparison/internal/ollama"
	"github.com/LakshmiNeithilath/FileComparison/internal/openai"
	"github.com/LakshmiNeithilath/FileComparison/internal/providers"
	"github.com/LakshmiNeithilath/FileComparison/internal/translate"
)

// App owns the comparer and the clients it was built from.
type App struct {
	Config   *config.Config
	Comparer *comparison.Comparer

	gemini *gemini.Gemini
}

// remote is a client that can both generate and embed.
type remote interface {
	providers.Provider
	providers.Embedder
}

// New builds every collaborator named by cfg.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	detector, err := langdetect.New(langdetect.Config{
		Languages:           cfg.Detection.Languages,
		MinLength:           cfg.Detection.MinLength,
		MinRelativeDistance: cfg.Detection.MinRelativeDistance,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create language detector: %w", err)
	}

	backend, err := a.translationBackend(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	translator := translate.NewService(backend, translate.Config{
		Pivot:             cfg.PivotLanguage,
		ChunkSize:         cfg.Translation.ChunkSize,
		Concurrency:       cfg.Translation.Concurrency,
		RequestsPerSecond: cfg.Translation.RequestsPerSecond,
		Timeout:           cfg.Translation.Timeout,
	})

	embedBackend, err := a.embeddingBackend(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	extractor, err := a.entityExtractor(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	comparer, err := comparison.New(comparison.Options{
		Detector:   detector,
		Translator: translator,
		Embedder:   embedding.NewService(embedBackend, cfg.Embedding.SegmentSize),
		Extractor:  extractor,
		Thresholds: cfg.Thresholds,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Comparer = comparer

	slog.Debug("Pipeline ready",
		"pivot", cfg.PivotLanguage,
		"translator", cfg.Translation.Backend,
		"embedder", embedBackend.Name(),
		"extractor", cfg.Entities.Extractor)

	return a, nil
}

// Close releases remote clients.
func (a *App) Close() error {
	if a.gemini != nil {
		err := a.gemini.Close()
		a.gemini = nil
		return err
	}
	return nil
}

func (a *App) translationBackend(ctx context.Context) (translate.Backend, error) {
	name := a.Config.Translation.Backend
	switch name {
	case "none":
		return nil, nil
	case "google":
		g, err := translate.NewGoogle(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create google translation client: %w", err)
		}
		return g, nil
	}

	client, err := a.remote(ctx, name)
	if err != nil {
		return nil, err
	}
	return translate.NewLLM(name, client, modelOrDefault(a.Config.Translation.Model, name, generation)), nil
}

func (a *App) embeddingBackend(ctx context.Context) (embedding.Backend, error) {
	name := a.Config.Embedding.Provider
	if name == "hashing" {
		return embedding.NewHashing(a.Config.Embedding.Dimensions), nil
	}

	client, err := a.remote(ctx, name)
	if err != nil {
		return nil, err
	}
	return embedding.NewProvider(name, client, modelOrDefault(a.Config.Embedding.Model, name, embeddings)), nil
}

func (a *App) entityExtractor(ctx context.Context) (entities.Extractor, error) {
	name := a.Config.Entities.Extractor
	switch name {
	case "none":
		return entities.None{}, nil
	case "prose":
		return entities.NewProse(), nil
	}

	client, err := a.remote(ctx, name)
	if err != nil {
		return nil, err
	}
	return entities.NewLLM(name, client, modelOrDefault(a.Config.Entities.Model, name, generation)), nil
}

func (a *App) remote(ctx context.Context, name string) (remote, error) {
	switch name {
	case "ollama":
		return ollama.New(), nil
	case "openai":
		return openai.New(), nil
	case "gemini":
		if a.gemini == nil {
			g, err := gemini.New(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to create gemini client: %w", err)
			}
			a.gemini = g
		}
		return a.gemini, nil
	default:
		return nil, errors.New("unsupported provider: " + name)
	}
}

type purpose int

const (
	generation purpose = iota
	embeddings
)

func modelOrDefault(model, provider string, p purpose) string {
	if model != "" {
		return model
	}
	return defaultModel(provider, p)
}

func defaultModel(provider string, p purpose) string {
	type defaults struct {
		env   string
		model string
	}
	var d defaults

	switch {
	case provider == "openai" && p == generation:
		d = defaults{"OPENAI_MODEL", "gpt-4o"}
	case provider == "openai":
		d = defaults{"OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"}
	case provider == "ollama" && p == generation:
		d = defaults{"OLLAMA_MODEL", "mistral-small3.2:24b"}
	case provider == "ollama":
		d = defaults{"OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"}
	case provider == "gemini" && p == generation:
		d = defaults{"GEMINI_MODEL", "gemini-2.5-flash"}
	case provider == "gemini":
		d = defaults{"GEMINI_EMBEDDING_MODEL", "text-embedding-004"}
	default:
		return ""
	}

	if model := os.Getenv(d.env); model != "" {
		return model
	}
	return d.model
}
