package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/LakshmiNeithilath/FileComparison/internal/batch"
	"github.com/LakshmiNeithilath/FileComparison/internal/comparison"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var offlineFlags = []string{"--translator", "none", "--embedder", "hashing", "--extractor", "none"}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, offlineFlags...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeDocs(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	docs := map[string]string{
		"a.txt": "The quarterly report shows strong revenue growth across European markets.",
		"b.txt": "The quarterly report shows strong revenue growth across European markets.",
		"c.txt": "Preheat the oven, whisk the eggs with sugar and bake the sponge cake for forty minutes.",
	}
	for name, text := range docs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(text), 0644))
	}
	return dir
}

func TestCompareCommand(t *testing.T) {
	dir := writeDocs(t)

	out, err := run(t, "compare", filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.txt"), "--format", "json")
	require.NoError(t, err)

	var result comparison.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.InDelta(t, 1.0, result.SimilarityScore, 1e-9)
	assert.Equal(t, "en", result.LanguageInfo.Doc1Language)
	assert.False(t, result.LanguageInfo.TranslationPerformed)
}

func TestCompareCommand_Errors(t *testing.T) {
	dir := writeDocs(t)

	_, err := run(t, "compare", filepath.Join(dir, "a.txt"))
	assert.Error(t, err)

	_, err = run(t, "compare", filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.txt"), "--format", "xml")
	assert.ErrorContains(t, err, "unsupported format")

	_, err = run(t, "compare", filepath.Join(dir, "a.txt"), filepath.Join(dir, "missing.pdf"))
	var cerr *comparison.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, comparison.StageExtraction, cerr.Stage)
}

func TestBatchCommand(t *testing.T) {
	dir := writeDocs(t)
	manifest := filepath.Join(dir, "pairs.jsonl")
	require.NoError(t, os.WriteFile(manifest, []byte(
		`{"id": "same", "doc1": "a.txt", "doc2": "b.txt"}`+"\n"+
			`{"id": "different", "doc1": "a.txt", "doc2": "c.txt"}`+"\n"+
			`{"id": "broken", "doc1": "a.txt", "doc2": "absent.txt"}`+"\n"), 0644))

	outDir := filepath.Join(dir, "results")
	out, err := run(t, "batch", "--pairs", manifest, "--output", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Total Pairs:        3")

	results, err := batch.LoadResults(outDir)
	require.NoError(t, err)
	require.Len(t, results.Rows, 3)
	assert.InDelta(t, 1.0, results.Rows[0].Score, 1e-9)
	assert.Less(t, results.Rows[1].Score, 0.5)
	assert.Equal(t, "extraction", results.Rows[2].Stage)
	assert.Equal(t, 1, results.Summary.Failed)
}
