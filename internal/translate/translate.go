// Package translate converts document text into the pivot language.
//
// Text is cut into fixed-size character chunks so that every request stays
// under the remote service's size ceiling. Chunks are translated
// concurrently and reassembled in their original order.
package translate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// ErrTranslation is returned when any chunk of a document fails to translate.
var ErrTranslation = errors.New("translation failed")

// Default configuration values.
const (
	DefaultPivot             = "en"
	DefaultChunkSize         = 4000
	DefaultConcurrency       = 4
	DefaultRequestsPerSecond = 5
	DefaultTimeout           = 30 * time.Second
)

// Backend translates a single chunk of text.
type Backend interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
	Name() string
}

// Config holds configuration for the translation service.
type Config struct {
	// Pivot is the language every document is translated into.
	Pivot string

	// ChunkSize is the maximum number of characters sent per request.
	ChunkSize int

	// Concurrency bounds the number of in-flight chunk requests.
	Concurrency int

	// RequestsPerSecond throttles chunk requests (0 disables throttling).
	RequestsPerSecond float64

	// Timeout bounds each chunk request.
	Timeout time.Duration
}

// Service translates documents into the pivot language.
type Service struct {
	backend     Backend
	pivot       string
	chunkSize   int
	concurrency int
	timeout     time.Duration
	limiter     *rate.Limiter
}

// NewService creates a translation service on top of a backend.
func NewService(backend Backend, cfg Config) *Service {
	if cfg.Pivot == "" {
		cfg.Pivot = DefaultPivot
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Concurrency)
	}

	return &Service{
		backend:     backend,
		pivot:       cfg.Pivot,
		chunkSize:   cfg.ChunkSize,
		concurrency: cfg.Concurrency,
		timeout:     cfg.Timeout,
		limiter:     limiter,
	}
}

// Pivot returns the pivot language code.
func (s *Service) Pivot() string {
	return s.pivot
}

// ToPivot translates text from the source language into the pivot language.
// Text already in the pivot language is returned unchanged without calling
// the backend.
func (s *Service) ToPivot(ctx context.Context, text, source string) (string, error) {
	if source == s.pivot {
		return text, nil
	}
	if s.backend == nil {
		return "", fmt.Errorf("%w: no translation backend configured for %s -> %s", ErrTranslation, source, s.pivot)
	}

	chunks := Chunk(text, s.chunkSize)
	if len(chunks) == 0 {
		return "", nil
	}

	slog.Info("Translating document",
		"backend", s.backend.Name(),
		"source", source,
		"target", s.pivot,
		"chunks", len(chunks))

	translated := make([]string, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, chunk := range chunks {
		g.Go(func() error {
			if err := s.limiter.Wait(gctx); err != nil {
				return fmt.Errorf("%w: chunk %d of %d: %w", ErrTranslation, i+1, len(chunks), err)
			}

			reqCtx, cancel := context.WithTimeout(gctx, s.timeout)
			defer cancel()

			out, err := s.backend.Translate(reqCtx, chunk, source, s.pivot)
			if err != nil {
				return fmt.Errorf("%w: chunk %d of %d: %w", ErrTranslation, i+1, len(chunks), err)
			}

			slog.Debug("Translated chunk", "chunk", i+1, "total", len(chunks), "in", len(chunk), "out", len(out))
			translated[i] = strings.TrimSpace(out)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return "", err
	}

	return strings.Join(translated, " "), nil
}

// Chunk splits text into consecutive pieces of at most size characters.
// Boundaries may fall inside words; the pieces concatenate back to text.
func Chunk(text string, size int) []string {
	if text == "" {
		return nil
	}
	if size <= 0 {
		size = DefaultChunkSize
	}

	chunks := make([]string, 0, (utf8.RuneCountInString(text)+size-1)/size)
	for len(text) > 0 {
		end := 0
		for n := 0; n < size && end < len(text); n++ {
			_, width := utf8.DecodeRuneInString(text[end:])
			end += width
		}
		chunks = append(chunks, text[:end])
		text = text[end:]
	}
	return chunks
}
