package batch

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/LakshmiNeithilath/FileComparison/internal/similarity"
	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"
)

// Output file names written by Save.
const (
	JSONFile    = "results.json"
	YAMLFile    = "results.yaml"
	CSVFile     = "results.csv"
	ParquetFile = "results.parquet"
)

// Save writes the results to dir in every supported format.
func Save(results *Results, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	writers := []struct {
		name  string
		write func(path string) error
	}{
		{JSONFile, func(path string) error { return writeJSON(path, results) }},
		{YAMLFile, func(path string) error { return writeYAML(path, results) }},
		{CSVFile, func(path string) error { return writeCSV(path, results.Rows) }},
		{ParquetFile, func(path string) error { return parquet.WriteFile(path, results.Rows) }},
	}

	for _, w := range writers {
		if err := w.write(filepath.Join(dir, w.name)); err != nil {
			return fmt.Errorf("failed to write %s: %w", w.name, err)
		}
	}
	return nil
}

// LoadResults reads results previously written by Save.
func LoadResults(dir string) (*Results, error) {
	data, err := os.ReadFile(filepath.Join(dir, JSONFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read results: %w", err)
	}

	var results Results
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("failed to parse results: %w", err)
	}
	return &results, nil
}

func writeJSON(path string, results *Results) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func writeYAML(path string, results *Results) error {
	data, err := yaml.Marshal(results)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func writeCSV(path string, rows []Row) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	header := []string{"pair_id", "doc1", "doc2", "score", "band", "doc1_language", "doc2_language", "translated", "differences", "duration_ms", "stage", "error"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, row := range rows {
		record := []string{
			row.PairID,
			row.Doc1,
			row.Doc2,
			strconv.FormatFloat(row.Score, 'f', 4, 64),
			row.Band,
			row.Doc1Language,
			row.Doc2Language,
			strconv.FormatBool(row.Translated),
			strings.Join(row.Differences, "; "),
			strconv.FormatInt(row.DurationMS, 10),
			row.Stage,
			row.Error,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return file.Close()
}

// PrintSummary writes a human-readable summary.
func PrintSummary(w io.Writer, summary *Summary) {
	fmt.Fprintln(w, "========================================")
	fmt.Fprintln(w, "Batch Comparison Summary")
	fmt.Fprintln(w, "========================================")
	fmt.Fprintf(w, "Total Pairs:        %d\n", summary.Total)
	fmt.Fprintf(w, "Successful:         %d\n", summary.Successful)
	fmt.Fprintf(w, "Failed:             %d\n", summary.Failed)
	fmt.Fprintf(w, "Translated:         %d\n", summary.Translated)

	if summary.Successful > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Average Score:      %s\n", similarity.Percent(summary.AverageScore))
		fmt.Fprintf(w, "Median Score:       %s\n", similarity.Percent(summary.MedianScore))
		fmt.Fprintf(w, "Min Score:          %s\n", similarity.Percent(summary.MinScore))
		fmt.Fprintf(w, "Max Score:          %s\n", similarity.Percent(summary.MaxScore))
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Bands:")
		for _, band := range []string{similarity.BandHigh, similarity.BandModerate, similarity.BandSignificant} {
			fmt.Fprintf(w, "  %-24s %d\n", band+":", summary.Bands[band])
		}
	}

	if len(summary.FailedStages) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Failures by stage:")
		stages := make([]string, 0, len(summary.FailedStages))
		for stage := range summary.FailedStages {
			stages = append(stages, stage)
		}
		slices.Sort(stages)
		for _, stage := range stages {
			fmt.Fprintf(w, "  %-24s %d\n", stage+":", summary.FailedStages[stage])
		}
	}
	fmt.Fprintln(w, "========================================")
}
