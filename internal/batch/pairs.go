// Package batch compares many document pairs and records the outcome of
// each one.
package batch

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// Pair names two documents to compare.
type Pair struct {
	ID   string `json:"id" parquet:"id"`
	Doc1 string `json:"doc1" parquet:"doc1"`
	Doc2 string `json:"doc2" parquet:"doc2"`
}

// LoadPairs reads a pair manifest (JSONL, JSON array or Parquet). Relative
// document paths are resolved against the manifest's directory and pairs
// without an ID are numbered.
func LoadPairs(path string) ([]Pair, error) {
	var (
		pairs []Pair
		err   error
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".jsonl":
		pairs, err = loadJSONL(path)
	case ".json":
		pairs, err = loadJSON(path)
	case ".parquet":
		pairs, err = loadParquet(path)
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: .jsonl, .json, .parquet)", ext)
	}
	if err != nil {
		return nil, err
	}

	base := filepath.Dir(path)
	for i := range pairs {
		p := &pairs[i]
		if p.Doc1 == "" || p.Doc2 == "" {
			return nil, fmt.Errorf("pair %d: doc1 and doc2 are required", i+1)
		}
		if p.ID == "" {
			p.ID = fmt.Sprintf("pair-%d", i+1)
		}
		p.Doc1 = resolve(base, p.Doc1)
		p.Doc2 = resolve(base, p.Doc2)
	}

	slog.Debug("Loaded pairs", "path", path, "count", len(pairs))
	return pairs, nil
}

func resolve(base, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

func loadJSONL(path string) ([]Pair, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pairs file: %w", err)
	}
	defer file.Close()

	var pairs []Pair
	scanner := bufio.NewScanner(file)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var pair Pair
		if err := json.Unmarshal([]byte(line), &pair); err != nil {
			return nil, fmt.Errorf("failed to parse JSON at line %d: %w", lineNum, err)
		}
		pairs = append(pairs, pair)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading pairs file: %w", err)
	}
	return pairs, nil
}

func loadJSON(path string) ([]Pair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pairs file: %w", err)
	}

	var pairs []Pair
	if err := json.Unmarshal(data, &pairs); err != nil {
		return nil, fmt.Errorf("failed to parse pairs file: %w", err)
	}
	return pairs, nil
}

func loadParquet(path string) ([]Pair, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[Pair](pf)
	defer reader.Close()

	var pairs []Pair
	rows := make([]Pair, 128)
	for {
		n, err := reader.Read(rows)
		pairs = append(pairs, rows[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}

	slog.Debug("Finished reading Parquet file", "rows", len(pairs), "row_groups", len(pf.RowGroups()))
	return pairs, nil
}
