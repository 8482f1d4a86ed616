package comparison

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/LakshmiNeithilath/FileComparison/internal/embedding"
	"github.com/LakshmiNeithilath/FileComparison/internal/entities"
	"github.com/LakshmiNeithilath/FileComparison/internal/langdetect"
	"github.com/LakshmiNeithilath/FileComparison/internal/similarity"
	"github.com/LakshmiNeithilath/FileComparison/internal/translate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDetector struct{}

func (fakeDetector) Detect(text string) (string, error) {
	switch {
	case strings.TrimSpace(text) == "":
		return "", fmt.Errorf("%w: empty text", langdetect.ErrLanguageDetection)
	case strings.Contains(text, "le chat"), strings.Contains(text, "contrat"):
		return "fr", nil
	default:
		return "en", nil
	}
}

// dictionaryBackend translates whole chunks by lookup.
type dictionaryBackend struct {
	entries map[string]string
	calls   atomic.Int32
}

func (d *dictionaryBackend) Name() string { return "dictionary" }

func (d *dictionaryBackend) Translate(ctx context.Context, text, source, target string) (string, error) {
	d.calls.Add(1)
	out, ok := d.entries[text]
	if !ok {
		return "", fmt.Errorf("no entry for %q", text)
	}
	return out, nil
}

// keywordExtractor reports which of a fixed list of entities occur in text.
type keywordExtractor []string

func (k keywordExtractor) Extract(ctx context.Context, text string) (entities.Set, error) {
	set := entities.NewSet()
	lowered := strings.ToLower(text)
	for _, word := range k {
		if strings.Contains(lowered, word) {
			set.Add(word)
		}
	}
	return set, nil
}

// recordingExtractor keeps every text it was asked to scan.
type recordingExtractor struct {
	mu    sync.Mutex
	texts []string
}

func (r *recordingExtractor) Extract(ctx context.Context, text string) (entities.Set, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.texts = append(r.texts, text)
	return entities.NewSet(), nil
}

type failingEmbedder struct{}

func (failingEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	return nil, fmt.Errorf("%w: backend unavailable", embedding.ErrEmbedding)
}

func newComparer(t *testing.T, backend translate.Backend, extractor entities.Extractor) *Comparer {
	t.Helper()
	c, err := New(Options{
		Detector:   fakeDetector{},
		Translator: translate.NewService(backend, translate.Config{Pivot: "en"}),
		Embedder:   embedding.NewService(embedding.NewHashing(0), 0),
		Extractor:  extractor,
	})
	require.NoError(t, err)
	return c
}

func textsExtractor(texts map[string]string) ExtractFunc {
	return func(ctx context.Context, id string) (string, error) {
		text, ok := texts[id]
		if !ok {
			return "", errors.New("no such file")
		}
		return text, nil
	}
}

func TestCompare_IdenticalEnglish(t *testing.T) {
	backend := &dictionaryBackend{}
	c := newComparer(t, backend, keywordExtractor{"acme", "berlin"})

	text := "ACME Corp opened a new office in Berlin.\nThe office employs forty engineers."
	result, err := c.CompareTexts(context.Background(), "a.txt", text, "b.txt", text)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, result.SimilarityScore, 1e-9)
	assert.Equal(t, similarity.BandHigh, result.Band)
	assert.Empty(t, result.Differences)
	assert.NotNil(t, result.Differences)
	assert.Equal(t, LanguageInfo{Doc1Language: "en", Doc2Language: "en"}, result.LanguageInfo)
	assert.Equal(t, [2]string{"a.txt", "b.txt"}, result.Documents)
	assert.NotEmpty(t, result.ID)
	assert.Zero(t, backend.calls.Load())
}

func TestCompare_EnglishFrench(t *testing.T) {
	backend := &dictionaryBackend{entries: map[string]string{
		"le chat était assis sur le tapis.": "The cat sat on the mat.",
	}}
	c := newComparer(t, backend, entities.None{})

	result, err := c.CompareTexts(context.Background(),
		"en.txt", "The cat sat on the mat.",
		"fr.txt", "Le chat était assis   sur le tapis.")
	require.NoError(t, err)

	assert.Greater(t, result.SimilarityScore, 0.75)
	assert.True(t, result.LanguageInfo.TranslationPerformed)
	assert.Equal(t, "en", result.LanguageInfo.Doc1Language)
	assert.Equal(t, "fr", result.LanguageInfo.Doc2Language)
	assert.Equal(t, int32(1), backend.calls.Load())
}

func TestCompare_UnrelatedDocuments(t *testing.T) {
	c := newComparer(t, &dictionaryBackend{}, entities.None{})

	recipe := "Preheat the oven to 180 degrees. Whisk two eggs with sugar, fold in flour and melted butter, then bake the sponge cake for forty minutes."
	contract := "This agreement is entered into by the parties. The licensee shall indemnify the licensor against all claims, damages and liabilities arising under this contract."

	result, err := c.CompareTexts(context.Background(), "recipe.txt", recipe, "contract.txt", contract)
	require.NoError(t, err)

	assert.Less(t, result.SimilarityScore, 0.5)
	assert.Equal(t, similarity.BandSignificant, result.Band)
}

func TestCompare_EntityDifferences(t *testing.T) {
	c := newComparer(t, &dictionaryBackend{}, keywordExtractor{"acme", "berlin", "paris", "zurich"})

	result, err := c.Compare(context.Background(), "/data/a.txt", "/data/b.txt", textsExtractor(map[string]string{
		"/data/a.txt": "Acme opened offices in Berlin and Zurich.",
		"/data/b.txt": "Acme opened an office in Paris.",
	}))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Entities only in a.txt: berlin, zurich",
		"Entities only in b.txt: paris",
	}, result.Differences)
}

func TestCompare_ProseEntityDifferences(t *testing.T) {
	c := newComparer(t, &dictionaryBackend{}, entities.NewProse())

	result, err := c.CompareTexts(context.Background(),
		"a.txt", "Angela Merkel met Emmanuel Macron in Paris on Monday.",
		"b.txt", "Google and Microsoft announced a deal in Berlin.")
	require.NoError(t, err)

	require.NotEmpty(t, result.Differences)
	joined := strings.Join(result.Differences, "\n")
	assert.Contains(t, joined, "Entities only in a.txt:")
	assert.Contains(t, joined, "merkel")
}

func TestCompare_EntityTextKeepsCase(t *testing.T) {
	backend := &dictionaryBackend{entries: map[string]string{
		"le contrat a été signé à paris.": "The contract was signed in Paris.",
	}}
	extractor := &recordingExtractor{}
	c := newComparer(t, backend, extractor)

	_, err := c.CompareTexts(context.Background(),
		"en.txt", "The   contract was signed in\nParis.",
		"fr.txt", "Le contrat a été signé à Paris.")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		"The contract was signed in Paris.",
		"The contract was signed in Paris.",
	}, extractor.texts)
	assert.Equal(t, int32(1), backend.calls.Load())
}

func TestCompare_Failures(t *testing.T) {
	tests := []struct {
		name     string
		texts    map[string]string
		embedder Embedder
		document string
		stage    Stage
		sentinel error
	}{
		{
			name:     "extraction",
			texts:    map[string]string{"a": "The cat sat on the mat."},
			document: "b",
			stage:    StageExtraction,
			sentinel: ErrExtraction,
		},
		{
			name:     "language detection",
			texts:    map[string]string{"a": "The cat sat on the mat.", "b": "   \n  "},
			document: "b",
			stage:    StageLanguageDetection,
			sentinel: langdetect.ErrLanguageDetection,
		},
		{
			name:     "translation",
			texts:    map[string]string{"a": "le chat dort.", "b": "The cat sleeps."},
			document: "a",
			stage:    StageTranslation,
			sentinel: translate.ErrTranslation,
		},
		{
			name:     "embedding",
			texts:    map[string]string{"a": "The cat sat.", "b": "The dog sat."},
			embedder: failingEmbedder{},
			stage:    StageEmbedding,
			sentinel: embedding.ErrEmbedding,
		},
		{
			name:     "degenerate embedding",
			texts:    map[string]string{"a": "The cat sat on the mat.", "b": "and the of to"},
			document: "b",
			stage:    StageScoring,
			sentinel: similarity.ErrDegenerateEmbedding,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newComparer(t, &dictionaryBackend{}, entities.None{})
			if tc.embedder != nil {
				c.embedder = tc.embedder
			}

			result, err := c.Compare(context.Background(), "a", "b", textsExtractor(tc.texts))
			require.Error(t, err)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, tc.sentinel)

			var cerr *Error
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, tc.stage, cerr.Stage)
			if tc.document != "" {
				assert.Equal(t, tc.document, cerr.Document)
			}
		})
	}
}

func TestCompare_CancelledContext(t *testing.T) {
	c := newComparer(t, &dictionaryBackend{}, entities.None{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := c.Compare(ctx, "a", "b", func(ctx context.Context, id string) (string, error) {
		return "", ctx.Err()
	})
	assert.Nil(t, result)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, ErrExtraction)
}

func TestCompareTexts_SameName(t *testing.T) {
	c := newComparer(t, &dictionaryBackend{}, entities.None{})

	result, err := c.CompareTexts(context.Background(), "doc", "The cat sat.", "doc", "The cat sat.")
	require.NoError(t, err)
	assert.Equal(t, [2]string{"doc", "doc (2)"}, result.Documents)
}

func TestNew_Validation(t *testing.T) {
	translator := translate.NewService(nil, translate.Config{})
	embedder := embedding.NewService(embedding.NewHashing(0), 0)

	_, err := New(Options{Translator: translator, Embedder: embedder})
	assert.Error(t, err)
	_, err = New(Options{Detector: fakeDetector{}, Embedder: embedder})
	assert.Error(t, err)
	_, err = New(Options{Detector: fakeDetector{}, Translator: translator})
	assert.Error(t, err)
	_, err = New(Options{
		Detector:   fakeDetector{},
		Translator: translator,
		Embedder:   embedder,
		Thresholds: similarity.Thresholds{High: 0.2, Moderate: 0.8},
	})
	assert.Error(t, err)

	c, err := New(Options{Detector: fakeDetector{}, Translator: translator, Embedder: embedder})
	require.NoError(t, err)
	assert.Equal(t, similarity.DefaultThresholds(), c.thresholds)
	assert.Equal(t, entities.None{}, c.extractor)
}

func TestError(t *testing.T) {
	err := &Error{Document: "a.pdf", Stage: StageTranslation, Err: translate.ErrTranslation}
	assert.Equal(t, `translation "a.pdf": translation failed`, err.Error())
	assert.ErrorIs(t, err, translate.ErrTranslation)

	err = &Error{Stage: StageScoring, Err: similarity.ErrDimensionMismatch}
	assert.Equal(t, "scoring: embedding dimensions differ", err.Error())
}
