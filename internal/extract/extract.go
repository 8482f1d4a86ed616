// Package extract reads the plain text of input documents.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"rsc.io/pdf"
)

// ErrExtraction is returned when a document's text cannot be read.
var ErrExtraction = errors.New("text extraction failed")

// ExtractText returns the text of the PDF or plain-text file at path.
func ExtractText(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		return extractPDF(ctx, path)
	case ".txt", ".text", ".md":
		return extractPlain(path)
	default:
		return "", fmt.Errorf("%w: unsupported file type %q", ErrExtraction, ext)
	}
}

// SupportedExtension reports whether ExtractText can read files named name.
func SupportedExtension(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf", ".txt", ".text", ".md":
		return true
	}
	return false
}

func extractPlain(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExtraction, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s is not valid UTF-8", ErrExtraction, path)
	}
	return string(data), nil
}

func extractPDF(ctx context.Context, path string) (text string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExtraction, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	// the pdf reader panics on some malformed files
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: malformed PDF %s: %v", ErrExtraction, path, r)
		}
	}()

	reader, err := pdf.NewReader(f, info.Size())
	if err != nil {
		return "", fmt.Errorf("%w: failed to open PDF: %w", ErrExtraction, err)
	}

	var buf strings.Builder
	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("%w: %w", ErrExtraction, err)
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		writePage(&buf, page.Content().Text)
		buf.WriteByte('\n')
	}

	slog.Debug("Extracted PDF text", "path", path, "pages", pages, "chars", buf.Len())
	return buf.String(), nil
}

// writePage joins a page's text runs, starting a new line when the baseline
// moves and a space when runs are visibly apart.
func writePage(buf *strings.Builder, runs []pdf.Text) {
	for i, t := range runs {
		if i > 0 {
			prev := runs[i-1]
			switch {
			case math.Abs(t.Y-prev.Y) > prev.FontSize/2:
				buf.WriteByte('\n')
			case t.X > prev.X+prev.W+prev.FontSize*0.15:
				buf.WriteByte(' ')
			}
		}
		buf.WriteString(t.S)
	}
}
