package extract

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"rsc.io/pdf"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestExtractText_Plain(t *testing.T) {
	path := writeFile(t, "note.TXT", []byte("The cat sat\non the mat."))

	text, err := ExtractText(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "The cat sat\non the mat.", text)
}

func TestExtractText_Errors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{
			name: "missing file",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "absent.pdf") },
		},
		{
			name: "unsupported extension",
			path: func(t *testing.T) string { return writeFile(t, "sheet.xlsx", []byte("x")) },
		},
		{
			name: "not a pdf",
			path: func(t *testing.T) string { return writeFile(t, "fake.pdf", []byte("hello, not a pdf")) },
		},
		{
			name: "invalid utf8",
			path: func(t *testing.T) string { return writeFile(t, "bad.txt", []byte{0xff, 0xfe, 0xfd}) },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			text, err := ExtractText(context.Background(), tc.path(t))
			assert.ErrorIs(t, err, ErrExtraction)
			assert.Empty(t, text)
		})
	}
}

func TestExtractText_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ExtractText(ctx, writeFile(t, "a.txt", []byte("text")))
	assert.ErrorIs(t, err, ErrExtraction)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSupportedExtension(t *testing.T) {
	assert.True(t, SupportedExtension("report.PDF"))
	assert.True(t, SupportedExtension("notes.txt"))
	assert.False(t, SupportedExtension("image.png"))
	assert.False(t, SupportedExtension("noext"))
}

func TestWritePage(t *testing.T) {
	runs := []pdf.Text{
		{S: "Hel", X: 10, Y: 700, W: 15, FontSize: 10},
		{S: "lo", X: 25, Y: 700, W: 10, FontSize: 10},
		{S: "world", X: 40, Y: 700, W: 25, FontSize: 10},
		{S: "Next", X: 10, Y: 686, W: 20, FontSize: 10},
		{S: "line", X: 33, Y: 686, W: 20, FontSize: 10},
	}

	var buf strings.Builder
	writePage(&buf, runs)
	assert.Equal(t, "Hello world\nNext line", buf.String())
}
