// Package embedding maps pivot-language text to fixed-dimension vectors.
//
// Backends accept a bounded amount of text per request, so long documents
// are cut into whitespace-aligned segments. The document vector is the mean
// of the segment vectors weighted by segment length.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// ErrEmbedding is returned when a backend fails to embed a segment.
var ErrEmbedding = errors.New("embedding failed")

// DefaultSegmentSize is the maximum number of characters per backend request.
const DefaultSegmentSize = 4000

// Backend embeds a single segment of text.
type Backend interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	Name() string
}

// Dimensioner is implemented by backends that know their output dimension
// without a request.
type Dimensioner interface {
	Dimensions() int
}

// Service embeds whole documents.
type Service struct {
	backend     Backend
	segmentSize int
}

// NewService creates an embedding service. A non-positive segment size
// selects DefaultSegmentSize.
func NewService(backend Backend, segmentSize int) *Service {
	if segmentSize <= 0 {
		segmentSize = DefaultSegmentSize
	}
	return &Service{
		backend:     backend,
		segmentSize: segmentSize,
	}
}

// Name returns the backend name.
func (s *Service) Name() string {
	return s.backend.Name()
}

// Embed returns the document vector for text.
//
// Text without any non-whitespace characters yields the zero vector of the
// backend's dimension, or an empty vector when the dimension is unknown.
func (s *Service) Embed(ctx context.Context, text string) ([]float64, error) {
	segments := Segment(text, s.segmentSize)
	if len(segments) == 0 {
		if d, ok := s.backend.(Dimensioner); ok {
			return make([]float64, d.Dimensions()), nil
		}
		return []float64{}, nil
	}

	var (
		sum         []float64
		totalWeight float64
	)
	for i, segment := range segments {
		vec, err := s.backend.Embed(ctx, segment)
		if err != nil {
			return nil, fmt.Errorf("%w: segment %d of %d with %s: %w", ErrEmbedding, i+1, len(segments), s.backend.Name(), err)
		}
		if len(vec) == 0 {
			return nil, fmt.Errorf("%w: segment %d of %d: %s returned an empty vector", ErrEmbedding, i+1, len(segments), s.backend.Name())
		}
		if sum == nil {
			sum = make([]float64, len(vec))
		} else if len(vec) != len(sum) {
			return nil, fmt.Errorf("%w: segment %d has dimension %d, expected %d", ErrEmbedding, i+1, len(vec), len(sum))
		}

		weight := float64(utf8.RuneCountInString(segment))
		for j, x := range vec {
			sum[j] += weight * x
		}
		totalWeight += weight

		slog.Debug("Embedded segment", "segment", i+1, "total", len(segments), "runes", int(weight))
	}

	for j := range sum {
		sum[j] /= totalWeight
	}
	return sum, nil
}

// Segment splits text on whitespace into segments of at most size
// characters. Words are kept whole unless a single word exceeds size.
func Segment(text string, size int) []string {
	if size <= 0 {
		size = DefaultSegmentSize
	}

	var (
		segments []string
		current  strings.Builder
		length   int
	)
	flush := func() {
		if length > 0 {
			segments = append(segments, current.String())
			current.Reset()
			length = 0
		}
	}

	for _, word := range strings.Fields(text) {
		n := utf8.RuneCountInString(word)
		if n > size {
			flush()
			segments = append(segments, splitWord(word, size)...)
			continue
		}
		if length > 0 && length+1+n > size {
			flush()
		}
		if length > 0 {
			current.WriteByte(' ')
			length++
		}
		current.WriteString(word)
		length += n
	}
	flush()

	return segments
}

func splitWord(word string, size int) []string {
	var parts []string
	runes := []rune(word)
	for start := 0; start < len(runes); start += size {
		end := min(start+size, len(runes))
		parts = append(parts, string(runes[start:end]))
	}
	return parts
}
