// Package config loads layered settings: built-in defaults, an optional
// YAML file, FILECOMPARE_* environment variables and command-line flags,
// in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/LakshmiNeithilath/FileComparison/internal/embedding"
	"github.com/LakshmiNeithilath/FileComparison/internal/langdetect"
	"github.com/LakshmiNeithilath/FileComparison/internal/similarity"
	"github.com/LakshmiNeithilath/FileComparison/internal/translate"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "FILECOMPARE"

// Supported backend names.
var (
	TranslationBackends = []string{"google", "gemini", "ollama", "openai", "none"}
	EmbeddingProviders  = []string{"hashing", "gemini", "ollama", "openai"}
	EntityExtractors    = []string{"prose", "gemini", "ollama", "openai", "none"}
)

// Config is the complete application configuration.
type Config struct {
	PivotLanguage string                `mapstructure:"pivot_language"`
	Translation   TranslationConfig     `mapstructure:"translation"`
	Embedding     EmbeddingConfig       `mapstructure:"embedding"`
	Entities      EntitiesConfig        `mapstructure:"entities"`
	Detection     DetectionConfig       `mapstructure:"detection"`
	Thresholds    similarity.Thresholds `mapstructure:"thresholds"`
}

// TranslationConfig selects and tunes the translation backend.
type TranslationConfig struct {
	Backend           string        `mapstructure:"backend"`
	Model             string        `mapstructure:"model"`
	ChunkSize         int           `mapstructure:"chunk_size"`
	Concurrency       int           `mapstructure:"concurrency"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

// EmbeddingConfig selects and tunes the embedding backend.
type EmbeddingConfig struct {
	Provider    string `mapstructure:"provider"`
	Model       string `mapstructure:"model"`
	SegmentSize int    `mapstructure:"segment_size"`
	Dimensions  int    `mapstructure:"dimensions"`
}

// EntitiesConfig selects the entity extractor.
type EntitiesConfig struct {
	Extractor string `mapstructure:"extractor"`
	Model     string `mapstructure:"model"`
}

// DetectionConfig tunes language identification.
type DetectionConfig struct {
	Languages           []string `mapstructure:"languages"`
	MinLength           int      `mapstructure:"min_length"`
	MinRelativeDistance float64  `mapstructure:"min_relative_distance"`
}

// flagKeys maps command-line flag names onto configuration keys.
var flagKeys = map[string]string{
	"pivot":                 "pivot_language",
	"translator":            "translation.backend",
	"embedder":              "embedding.provider",
	"extractor":             "entities.extractor",
	"chunk-size":            "translation.chunk_size",
	"translate-concurrency": "translation.concurrency",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("pivot_language", translate.DefaultPivot)

	v.SetDefault("translation.backend", "google")
	v.SetDefault("translation.model", "")
	v.SetDefault("translation.chunk_size", translate.DefaultChunkSize)
	v.SetDefault("translation.concurrency", translate.DefaultConcurrency)
	v.SetDefault("translation.requests_per_second", translate.DefaultRequestsPerSecond)
	v.SetDefault("translation.timeout", translate.DefaultTimeout)

	v.SetDefault("embedding.provider", "ollama")
	v.SetDefault("embedding.model", "")
	v.SetDefault("embedding.segment_size", embedding.DefaultSegmentSize)
	v.SetDefault("embedding.dimensions", embedding.DefaultDimensions)

	v.SetDefault("entities.extractor", "prose")
	v.SetDefault("entities.model", "")

	v.SetDefault("detection.languages", langdetect.DefaultLanguages)
	v.SetDefault("detection.min_length", langdetect.DefaultMinLength)
	v.SetDefault("detection.min_relative_distance", langdetect.DefaultMinRelativeDistance)

	v.SetDefault("thresholds.high", similarity.DefaultHigh)
	v.SetDefault("thresholds.moderate", similarity.DefaultModerate)
}

// Load builds the configuration. An empty file looks for filecompare.yaml
// in the working directory and tolerates its absence; a named file must
// exist. Flags that were set on the command line win over every other source.
func Load(file string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	} else {
		v.SetConfigName("filecompare")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}
	if used := v.ConfigFileUsed(); used != "" {
		slog.Debug("Loaded config file", "path", used)
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration and canonicalizes language codes.
func (c *Config) Validate() error {
	pivot, err := langdetect.CanonicalCode(c.PivotLanguage)
	if err != nil {
		return fmt.Errorf("invalid pivot_language: %w", err)
	}
	c.PivotLanguage = pivot

	if !slices.Contains(TranslationBackends, c.Translation.Backend) {
		return fmt.Errorf("unsupported translation backend %q (supported: %s)", c.Translation.Backend, strings.Join(TranslationBackends, ", "))
	}
	if !slices.Contains(EmbeddingProviders, c.Embedding.Provider) {
		return fmt.Errorf("unsupported embedding provider %q (supported: %s)", c.Embedding.Provider, strings.Join(EmbeddingProviders, ", "))
	}
	if !slices.Contains(EntityExtractors, c.Entities.Extractor) {
		return fmt.Errorf("unsupported entity extractor %q (supported: %s)", c.Entities.Extractor, strings.Join(EntityExtractors, ", "))
	}

	switch {
	case c.Translation.ChunkSize <= 0:
		return fmt.Errorf("translation.chunk_size must be positive, got %d", c.Translation.ChunkSize)
	case c.Translation.Concurrency <= 0:
		return fmt.Errorf("translation.concurrency must be positive, got %d", c.Translation.Concurrency)
	case c.Translation.RequestsPerSecond < 0:
		return fmt.Errorf("translation.requests_per_second must not be negative, got %v", c.Translation.RequestsPerSecond)
	case c.Translation.Timeout <= 0:
		return fmt.Errorf("translation.timeout must be positive, got %s", c.Translation.Timeout)
	case c.Embedding.SegmentSize <= 0:
		return fmt.Errorf("embedding.segment_size must be positive, got %d", c.Embedding.SegmentSize)
	case c.Embedding.Dimensions <= 0:
		return fmt.Errorf("embedding.dimensions must be positive, got %d", c.Embedding.Dimensions)
	case c.Detection.MinLength < 1:
		return fmt.Errorf("detection.min_length must be at least 1, got %d", c.Detection.MinLength)
	case c.Detection.MinRelativeDistance < 0 || c.Detection.MinRelativeDistance >= 1:
		return fmt.Errorf("detection.min_relative_distance must lie in [0, 1), got %v", c.Detection.MinRelativeDistance)
	}

	languages := make([]string, 0, len(c.Detection.Languages))
	for _, code := range c.Detection.Languages {
		canonical, err := langdetect.CanonicalCode(code)
		if err != nil {
			return fmt.Errorf("invalid detection language: %w", err)
		}
		languages = append(languages, canonical)
	}
	c.Detection.Languages = languages

	return c.Thresholds.Validate()
}
