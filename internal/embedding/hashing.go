package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// DefaultDimensions is the vector size of the hashing backend.
const DefaultDimensions = 1024

// Hashing is an offline bag-of-words embedder. Each content word is hashed
// into one of a fixed number of buckets with a hash-derived sign, and the
// result is scaled to unit length. Output is deterministic for fixed text.
type Hashing struct {
	dimensions int
}

// NewHashing creates a hashing backend. A non-positive dimension selects
// DefaultDimensions.
func NewHashing(dimensions int) *Hashing {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &Hashing{dimensions: dimensions}
}

// Name returns "hashing".
func (h *Hashing) Name() string {
	return "hashing"
}

// Dimensions returns the vector size.
func (h *Hashing) Dimensions() int {
	return h.dimensions
}

// Embed embeds one segment. Text with no content words yields the zero vector.
func (h *Hashing) Embed(ctx context.Context, text string) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vec := make([]float64, h.dimensions)
	for _, token := range Tokenize(text) {
		hasher := fnv.New64a()
		hasher.Write([]byte(token))
		sum := hasher.Sum64()

		sign := 1.0
		if sum>>63 == 1 {
			sign = -1.0
		}
		vec[sum%uint64(h.dimensions)] += sign
	}

	var norm float64
	for _, x := range vec {
		norm += x * x
	}
	if norm == 0 {
		return vec, nil
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= norm
	}
	return vec, nil
}

// Tokenize lowercases text, splits it on anything that is not a letter or
// digit, and drops English stop words.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := fields[:0]
	for _, f := range fields {
		if _, stop := stopWords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

var stopWords = func() map[string]struct{} {
	words := strings.Fields(`
		a about above after again against all am an and any are as at
		be because been before being below between both but by
		can could did do does doing down during each few for from further
		had has have having he her here hers herself him himself his how
		i if in into is it its itself just me more most my myself
		no nor not now of off on once only or other our ours ourselves out over own
		same she should so some such than that the their theirs them themselves then
		there these they this those through to too under until up upon very
		was we were what when where which while who whom why will with would
		you your yours yourself yourselves shall may must also
	`)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}()
