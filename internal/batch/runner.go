package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/LakshmiNeithilath/FileComparison/internal/comparison"
)

// Comparer compares one pair of documents.
type Comparer interface {
	Compare(ctx context.Context, doc1, doc2 string, extract comparison.ExtractFunc) (*comparison.Result, error)
}

// Row is the flattened outcome of one pair.
type Row struct {
	PairID       string   `json:"pair_id" yaml:"pair_id" parquet:"pair_id"`
	ResultID     string   `json:"result_id,omitempty" yaml:"result_id,omitempty" parquet:"result_id"`
	Doc1         string   `json:"doc1" yaml:"doc1" parquet:"doc1"`
	Doc2         string   `json:"doc2" yaml:"doc2" parquet:"doc2"`
	Score        float64  `json:"score" yaml:"score" parquet:"score"`
	Band         string   `json:"band,omitempty" yaml:"band,omitempty" parquet:"band"`
	Doc1Language string   `json:"doc1_language,omitempty" yaml:"doc1_language,omitempty" parquet:"doc1_language"`
	Doc2Language string   `json:"doc2_language,omitempty" yaml:"doc2_language,omitempty" parquet:"doc2_language"`
	Translated   bool     `json:"translated" yaml:"translated" parquet:"translated"`
	Differences  []string `json:"differences" yaml:"differences" parquet:"differences,list"`
	DurationMS   int64    `json:"duration_ms" yaml:"duration_ms" parquet:"duration_ms"`
	Stage        string   `json:"stage,omitempty" yaml:"stage,omitempty" parquet:"stage"`
	Error        string   `json:"error,omitempty" yaml:"error,omitempty" parquet:"error"`
}

// Summary aggregates a batch.
type Summary struct {
	Total        int            `json:"total" yaml:"total"`
	Successful   int            `json:"successful" yaml:"successful"`
	Failed       int            `json:"failed" yaml:"failed"`
	Translated   int            `json:"translated" yaml:"translated"`
	AverageScore float64        `json:"average_score" yaml:"average_score"`
	MedianScore  float64        `json:"median_score" yaml:"median_score"`
	MinScore     float64        `json:"min_score" yaml:"min_score"`
	MaxScore     float64        `json:"max_score" yaml:"max_score"`
	Bands        map[string]int `json:"bands" yaml:"bands"`
	FailedStages map[string]int `json:"failed_stages,omitempty" yaml:"failed_stages,omitempty"`
}

// Results is the outcome of a batch run, rows in manifest order.
type Results struct {
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	Rows        []Row     `json:"rows" yaml:"rows"`
	Summary     *Summary  `json:"summary" yaml:"summary"`
}

// Run compares every pair with at most concurrency comparisons in flight.
// A failed pair is recorded on its row and does not stop the batch.
func Run(ctx context.Context, comparer Comparer, pairs []Pair, extract comparison.ExtractFunc, concurrency int) *Results {
	if concurrency <= 0 {
		concurrency = 1
	}
	slog.Info("Processing pairs", "pairs", len(pairs), "concurrency", concurrency)

	rows := make([]Row, len(pairs))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, concurrency)

	for i, pair := range pairs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			slog.Info("Comparing pair", "id", pair.ID, "progress", fmt.Sprintf("%d/%d", i+1, len(pairs)))
			rows[i] = processPair(ctx, comparer, pair, extract)
		}()
	}
	wg.Wait()

	return &Results{
		GeneratedAt: time.Now().UTC(),
		Rows:        rows,
		Summary:     calculateSummary(rows),
	}
}

func processPair(ctx context.Context, comparer Comparer, pair Pair, extract comparison.ExtractFunc) Row {
	row := Row{
		PairID:      pair.ID,
		Doc1:        pair.Doc1,
		Doc2:        pair.Doc2,
		Differences: []string{},
	}

	start := time.Now()
	result, err := comparer.Compare(ctx, pair.Doc1, pair.Doc2, extract)
	row.DurationMS = time.Since(start).Milliseconds()
	if err != nil {
		row.Error = err.Error()
		var cerr *comparison.Error
		if errors.As(err, &cerr) {
			row.Stage = string(cerr.Stage)
		}
		slog.Warn("Pair failed", "id", pair.ID, "error", err)
		return row
	}

	row.ResultID = result.ID
	row.Score = result.SimilarityScore
	row.Band = result.Band
	row.Doc1Language = result.LanguageInfo.Doc1Language
	row.Doc2Language = result.LanguageInfo.Doc2Language
	row.Translated = result.LanguageInfo.TranslationPerformed
	if result.Differences != nil {
		row.Differences = result.Differences
	}
	return row
}

func calculateSummary(rows []Row) *Summary {
	summary := &Summary{
		Total:        len(rows),
		Bands:        make(map[string]int),
		FailedStages: make(map[string]int),
	}

	var scores []float64
	for _, row := range rows {
		if row.Error != "" {
			summary.Failed++
			stage := row.Stage
			if stage == "" {
				stage = "unknown"
			}
			summary.FailedStages[stage]++
			continue
		}

		summary.Successful++
		summary.Bands[row.Band]++
		if row.Translated {
			summary.Translated++
		}
		scores = append(scores, row.Score)
	}

	if len(scores) > 0 {
		var total float64
		for _, score := range scores {
			total += score
		}
		summary.AverageScore = total / float64(len(scores))

		slices.Sort(scores)
		mid := len(scores) / 2
		if len(scores)%2 == 0 {
			summary.MedianScore = (scores[mid-1] + scores[mid]) / 2
		} else {
			summary.MedianScore = scores[mid]
		}

		summary.MinScore = scores[0]
		summary.MaxScore = scores[len(scores)-1]
	}

	return summary
}
