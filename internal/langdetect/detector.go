// Package langdetect identifies the dominant natural language of a text.
package langdetect

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pemistahl/lingua-go"
	"golang.org/x/text/language"
)

// ErrLanguageDetection is returned when a text does not carry enough signal
// to name its language.
var ErrLanguageDetection = errors.New("language detection failed")

// Default configuration values.
const (
	DefaultMinLength           = 3
	DefaultMinRelativeDistance = 0.1
)

// DefaultLanguages is the candidate set used when none is configured.
var DefaultLanguages = []string{"en", "fr", "de", "es", "it", "pt", "nl"}

// Config holds configuration for the detector.
type Config struct {
	// Languages are the ISO 639-1 codes the detector may answer with.
	Languages []string

	// MinLength is the minimum number of runes a text must have.
	MinLength int

	// MinRelativeDistance makes the detector refuse to answer when the two
	// most likely languages are closer than this (0 disables the check).
	MinRelativeDistance float64
}

// Detector classifies texts using lingua's n-gram models.
type Detector struct {
	detector  lingua.LanguageDetector
	minLength int
}

// New creates a detector restricted to the configured candidate languages.
func New(cfg Config) (*Detector, error) {
	if len(cfg.Languages) == 0 {
		cfg.Languages = DefaultLanguages
	}
	if cfg.MinLength <= 0 {
		cfg.MinLength = DefaultMinLength
	}

	languages, err := resolveLanguages(cfg.Languages)
	if err != nil {
		return nil, err
	}
	if len(languages) < 2 {
		return nil, fmt.Errorf("at least two candidate languages are required, got %d", len(languages))
	}

	builder := lingua.NewLanguageDetectorBuilder().FromLanguages(languages...)
	if cfg.MinRelativeDistance > 0 {
		builder = builder.WithMinimumRelativeDistance(cfg.MinRelativeDistance)
	}

	return &Detector{
		detector:  builder.Build(),
		minLength: cfg.MinLength,
	}, nil
}

// Detect returns the lowercase ISO 639-1 code of the text's language.
func (d *Detector) Detect(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: empty text", ErrLanguageDetection)
	}
	if n := utf8.RuneCountInString(text); n < d.minLength {
		return "", fmt.Errorf("%w: text too short (%d runes, need %d)", ErrLanguageDetection, n, d.minLength)
	}
	if !strings.ContainsFunc(text, unicode.IsLetter) {
		return "", fmt.Errorf("%w: text contains no letters", ErrLanguageDetection)
	}

	detected, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "", fmt.Errorf("%w: language is ambiguous", ErrLanguageDetection)
	}

	code := strings.ToLower(detected.IsoCode639_1().String())
	slog.Debug("Detected language", "language", code, "name", detected.String())
	return code, nil
}

// CanonicalCode validates an ISO 639 language code and returns its
// two-letter base form ("EN", "en-US" and "eng" all become "en").
func CanonicalCode(code string) (string, error) {
	tag, err := language.Parse(strings.TrimSpace(code))
	if err != nil {
		return "", fmt.Errorf("invalid language code %q: %w", code, err)
	}
	base, confidence := tag.Base()
	if confidence == language.No {
		return "", fmt.Errorf("invalid language code %q", code)
	}
	return base.String(), nil
}

func resolveLanguages(codes []string) ([]lingua.Language, error) {
	byCode := make(map[string]lingua.Language)
	for _, l := range lingua.AllLanguages() {
		byCode[strings.ToLower(l.IsoCode639_1().String())] = l
	}

	seen := make(map[lingua.Language]bool)
	var languages []lingua.Language
	for _, code := range codes {
		canonical, err := CanonicalCode(code)
		if err != nil {
			return nil, err
		}
		l, ok := byCode[canonical]
		if !ok {
			return nil, fmt.Errorf("unsupported detection language: %s", code)
		}
		if seen[l] {
			continue
		}
		seen[l] = true
		languages = append(languages, l)
	}
	return languages, nil
}
