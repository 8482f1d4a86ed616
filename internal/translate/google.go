package translate

import (
	"context"
	"fmt"
	"html"
	"os"

	"google.golang.org/api/option"
	translatev2 "google.golang.org/api/translate/v2"
)

// Google translates through the Google Cloud Translation v2 API.
type Google struct {
	service *translatev2.Service
}

// NewGoogle creates a Cloud Translation backend. The API key is read from
// GOOGLE_TRANSLATE_API_KEY unless options already carry credentials.
func NewGoogle(ctx context.Context, opts ...option.ClientOption) (*Google, error) {
	if len(opts) == 0 {
		apiKey := os.Getenv("GOOGLE_TRANSLATE_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("GOOGLE_TRANSLATE_API_KEY environment variable not set")
		}
		opts = append(opts, option.WithAPIKey(apiKey))
	}

	service, err := translatev2.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create translation client: %w", err)
	}

	return &Google{service: service}, nil
}

// Name returns the backend name.
func (g *Google) Name() string {
	return "google"
}

// Translate translates one chunk of text.
func (g *Google) Translate(ctx context.Context, text, source, target string) (string, error) {
	resp, err := g.service.Translations.List([]string{text}, target).
		Source(source).
		Format("text").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to call translation API: %w", err)
	}

	if len(resp.Translations) == 0 {
		return "", fmt.Errorf("no translations returned from Google")
	}

	// plain-text format should come back unescaped, but older API revisions
	// still entity-encode quotes
	return html.UnescapeString(resp.Translations[0].TranslatedText), nil
}
