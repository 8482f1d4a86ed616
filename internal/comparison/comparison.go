// Package comparison runs the cross-language document comparison pipeline.
//
// Each document is extracted, normalized, language-identified, brought into
// the pivot language, embedded and scanned for entities. The two documents
// run in parallel; the first failure cancels the other and aborts the
// comparison.
package comparison

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/LakshmiNeithilath/FileComparison/internal/entities"
	"github.com/LakshmiNeithilath/FileComparison/internal/similarity"
	"github.com/LakshmiNeithilath/FileComparison/internal/textnorm"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ExtractFunc returns the raw text of the identified document.
type ExtractFunc func(ctx context.Context, id string) (string, error)

// LanguageDetector identifies the language of normalized text.
type LanguageDetector interface {
	Detect(text string) (string, error)
}

// Translator brings text into the pivot language.
type Translator interface {
	ToPivot(ctx context.Context, text, source string) (string, error)
	Pivot() string
}

// Embedder maps pivot-language text to a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Document is the per-comparison state of one input.
type Document struct {
	ID             string
	RawText        string
	NormalizedText string
	Language       string
	PivotText      string
	// EntityText is the pivot-language text with its original casing, which
	// named-entity recognisers depend on.
	EntityText     string
	Translated     bool
	Embedding      []float64
	Entities       entities.Set
}

// LanguageInfo records what the language stage found.
type LanguageInfo struct {
	Doc1Language         string `json:"doc1_language" yaml:"doc1_language"`
	Doc2Language         string `json:"doc2_language" yaml:"doc2_language"`
	TranslationPerformed bool   `json:"translation_performed" yaml:"translation_performed"`
}

// Result is the outcome of comparing two documents.
type Result struct {
	ID              string        `json:"id" yaml:"id"`
	Documents       [2]string     `json:"documents" yaml:"documents"`
	SimilarityScore float64       `json:"similarity_score" yaml:"similarity_score"`
	Band            string        `json:"band" yaml:"band"`
	Differences     []string      `json:"differences" yaml:"differences"`
	LanguageInfo    LanguageInfo  `json:"language_info" yaml:"language_info"`
	Duration        time.Duration `json:"duration" yaml:"duration"`
}

// Options configures a Comparer.
type Options struct {
	Detector   LanguageDetector
	Translator Translator
	Embedder   Embedder
	Extractor  entities.Extractor
	Thresholds similarity.Thresholds
}

// Comparer compares pairs of documents. It is safe for concurrent use when
// its collaborators are.
type Comparer struct {
	detector   LanguageDetector
	translator Translator
	embedder   Embedder
	extractor  entities.Extractor
	thresholds similarity.Thresholds
}

// New creates a Comparer. A nil extractor disables the entity report and
// zero thresholds select the defaults.
func New(opts Options) (*Comparer, error) {
	if opts.Detector == nil {
		return nil, errors.New("language detector is required")
	}
	if opts.Translator == nil {
		return nil, errors.New("translator is required")
	}
	if opts.Embedder == nil {
		return nil, errors.New("embedder is required")
	}
	if opts.Extractor == nil {
		opts.Extractor = entities.None{}
	}
	if opts.Thresholds == (similarity.Thresholds{}) {
		opts.Thresholds = similarity.DefaultThresholds()
	}
	if err := opts.Thresholds.Validate(); err != nil {
		return nil, err
	}

	return &Comparer{
		detector:   opts.Detector,
		translator: opts.Translator,
		embedder:   opts.Embedder,
		extractor:  opts.Extractor,
		thresholds: opts.Thresholds,
	}, nil
}

// Compare compares the documents identified by doc1 and doc2, reading their
// text through extract. On failure the returned error is an *Error and the
// result is nil.
func (c *Comparer) Compare(ctx context.Context, doc1, doc2 string, extract ExtractFunc) (*Result, error) {
	start := time.Now()
	id := uuid.NewString()

	slog.Info("Starting comparison", "id", id, "doc1", doc1, "doc2", doc2)

	docs := [2]*Document{{ID: doc1}, {ID: doc2}}

	g, gctx := errgroup.WithContext(ctx)
	for _, doc := range docs {
		g.Go(func() error {
			return c.process(gctx, doc, extract)
		})
	}
	if err := g.Wait(); err != nil {
		slog.Error("Comparison failed", "id", id, "error", err)
		return nil, err
	}

	score, err := similarity.Cosine(docs[0].Embedding, docs[1].Embedding)
	if err != nil {
		cerr := &Error{Stage: StageScoring, Err: err}
		if errors.Is(err, similarity.ErrDegenerateEmbedding) {
			cerr.Document = doc2
			if similarity.IsZero(docs[0].Embedding) {
				cerr.Document = doc1
			}
		}
		slog.Error("Comparison failed", "id", id, "error", cerr)
		return nil, cerr
	}

	diff := entities.Diff(docs[0].Entities, docs[1].Entities)
	labelA, labelB := label(doc1), label(doc2)
	if labelA == labelB {
		labelA, labelB = doc1, doc2
	}
	differences := diff.Describe(labelA, labelB)
	if differences == nil {
		differences = []string{}
	}

	result := &Result{
		ID:              id,
		Documents:       [2]string{doc1, doc2},
		SimilarityScore: score,
		Band:            c.thresholds.Band(score),
		Differences:     differences,
		LanguageInfo: LanguageInfo{
			Doc1Language:         docs[0].Language,
			Doc2Language:         docs[1].Language,
			TranslationPerformed: docs[0].Translated || docs[1].Translated,
		},
		Duration: time.Since(start),
	}

	slog.Info("Comparison complete",
		"id", id,
		"score", fmt.Sprintf("%.4f", score),
		"band", result.Band,
		"translated", result.LanguageInfo.TranslationPerformed,
		"differences", len(differences),
		"duration", result.Duration)

	return result, nil
}

// CompareTexts compares two documents whose text is already in memory.
func (c *Comparer) CompareTexts(ctx context.Context, name1, text1, name2, text2 string) (*Result, error) {
	if name1 == name2 {
		name2 += " (2)"
	}
	texts := map[string]string{name1: text1, name2: text2}

	return c.Compare(ctx, name1, name2, func(ctx context.Context, id string) (string, error) {
		text, ok := texts[id]
		if !ok {
			return "", fmt.Errorf("%w: unknown document %q", ErrExtraction, id)
		}
		return text, nil
	})
}

func (c *Comparer) process(ctx context.Context, doc *Document, extract ExtractFunc) error {
	raw, err := extract(ctx, doc.ID)
	if err != nil {
		if !errors.Is(err, ErrExtraction) {
			err = fmt.Errorf("%w: %w", ErrExtraction, err)
		}
		return &Error{Document: doc.ID, Stage: StageExtraction, Err: err}
	}
	doc.RawText = raw
	doc.NormalizedText = textnorm.Normalize(raw)

	lang, err := c.detector.Detect(doc.NormalizedText)
	if err != nil {
		return &Error{Document: doc.ID, Stage: StageLanguageDetection, Err: err}
	}
	doc.Language = lang
	slog.Debug("Detected language", "document", doc.ID, "language", lang)

	pivot, err := c.translator.ToPivot(ctx, doc.NormalizedText, lang)
	if err != nil {
		return &Error{Document: doc.ID, Stage: StageTranslation, Err: err}
	}
	doc.Translated = lang != c.translator.Pivot()
	doc.PivotText = pivot
	doc.EntityText = textnorm.Collapse(raw)
	if doc.Translated {
		// translations are normalized like source text
		doc.PivotText = textnorm.Normalize(pivot)
		doc.EntityText = textnorm.Collapse(pivot)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		vec, err := c.embedder.Embed(gctx, doc.PivotText)
		if err != nil {
			return &Error{Document: doc.ID, Stage: StageEmbedding, Err: err}
		}
		doc.Embedding = vec
		return nil
	})
	g.Go(func() error {
		set, err := c.extractor.Extract(gctx, doc.EntityText)
		if err != nil {
			return &Error{Document: doc.ID, Stage: StageEntityExtraction, Err: err}
		}
		doc.Entities = set
		return nil
	})
	return g.Wait()
}

func label(id string) string {
	if base := filepath.Base(id); base != "." && base != string(filepath.Separator) {
		return base
	}
	return id
}
