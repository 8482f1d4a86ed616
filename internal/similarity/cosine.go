// Package similarity scores pairs of document embeddings.
package similarity

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrDegenerateEmbedding is returned when either vector has zero magnitude.
	ErrDegenerateEmbedding = errors.New("degenerate embedding: zero magnitude")

	// ErrDimensionMismatch is returned when the vectors differ in length.
	ErrDimensionMismatch = errors.New("embedding dimensions differ")
)

// Cosine returns the cosine similarity of a and b in [-1, 1].
func Cosine(a, b []float64) (float64, error) {
	normA := Norm(a)
	normB := Norm(b)
	if normA == 0 || normB == 0 {
		return 0, ErrDegenerateEmbedding
	}
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}

	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}

	score := dot / (normA * normB)
	return max(-1, min(1, score)), nil
}

// Norm returns the Euclidean length of v.
func Norm(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// IsZero reports whether v has zero magnitude.
func IsZero(v []float64) bool {
	return Norm(v) == 0
}
