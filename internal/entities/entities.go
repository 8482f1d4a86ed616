// Package entities extracts named entities from documents and reports the
// entities that appear in only one of two documents.
package entities

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// Extractor returns the named entities mentioned in text.
type Extractor interface {
	Extract(ctx context.Context, text string) (Set, error)
}

// Set is a set of lowercase entity surface strings.
type Set map[string]struct{}

// NewSet builds a set from entity strings. Entries are lowercased and
// trimmed; blanks are dropped and duplicates collapse.
func NewSet(items ...string) Set {
	s := make(Set, len(items))
	for _, item := range items {
		s.Add(item)
	}
	return s
}

// Add inserts an entity.
func (s Set) Add(item string) {
	item = strings.ToLower(strings.Join(strings.Fields(item), " "))
	if item == "" {
		return
	}
	s[item] = struct{}{}
}

// Contains reports whether the set holds item.
func (s Set) Contains(item string) bool {
	_, ok := s[strings.ToLower(strings.TrimSpace(item))]
	return ok
}

// Sorted returns the entities in lexicographic order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for item := range s {
		out = append(out, item)
	}
	slices.Sort(out)
	return out
}

// Difference holds the entities unique to each side of a comparison.
type Difference struct {
	OnlyInA []string `json:"only_in_a" yaml:"only_in_a"`
	OnlyInB []string `json:"only_in_b" yaml:"only_in_b"`
}

// Diff computes a\b and b\a, each sorted.
func Diff(a, b Set) Difference {
	return Difference{
		OnlyInA: minus(a, b),
		OnlyInB: minus(b, a),
	}
}

func minus(a, b Set) []string {
	var out []string
	for item := range a {
		if _, ok := b[item]; !ok {
			out = append(out, item)
		}
	}
	slices.Sort(out)
	return out
}

// Empty reports whether neither side has unique entities.
func (d Difference) Empty() bool {
	return len(d.OnlyInA) == 0 && len(d.OnlyInB) == 0
}

// Describe renders one line per non-empty side, e.g.
// "Entities only in report.pdf: acme corp, berlin".
func (d Difference) Describe(labelA, labelB string) []string {
	var lines []string
	if len(d.OnlyInA) > 0 {
		lines = append(lines, fmt.Sprintf("Entities only in %s: %s", labelA, strings.Join(d.OnlyInA, ", ")))
	}
	if len(d.OnlyInB) > 0 {
		lines = append(lines, fmt.Sprintf("Entities only in %s: %s", labelB, strings.Join(d.OnlyInB, ", ")))
	}
	return lines
}

// None is an extractor that finds nothing, which disables the difference
// report.
type None struct{}

// Extract returns an empty set.
func (None) Extract(ctx context.Context, text string) (Set, error) {
	return Set{}, nil
}
