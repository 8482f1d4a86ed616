package textnorm

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases text and collapses every run of whitespace into a
// single ASCII space, trimming both ends.
//
// Compatibility characters left behind by PDF text reconstruction (ligatures,
// full-width forms) are folded with NFKC first so that "ﬁle" and "file"
// normalize to the same string.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	// cases.Caser is stateful, so a fresh one is built per call
	lowered := cases.Lower(language.Und).String(norm.NFKC.String(text))

	return strings.Join(strings.Fields(lowered), " ")
}

// Collapse is Normalize without the lowercasing. Normalize(Collapse(s)) is
// equal to Normalize(s).
func Collapse(text string) string {
	if text == "" {
		return ""
	}
	return strings.Join(strings.Fields(norm.NFKC.String(text)), " ")
}
