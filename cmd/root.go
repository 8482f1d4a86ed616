package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/LakshmiNeithilath/FileComparison/internal/app"
	"github.com/LakshmiNeithilath/FileComparison/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configFile string
	verbose    bool
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "filecompare",
		Short: "Cross-language document similarity with entity differences",
		Long: `FileComparison reports how similar two documents are, even when they are
written in different languages.

Each document is normalized, its language identified and, when needed,
translated into a common pivot language before being embedded and scored.
Named entities that appear in only one of the documents are listed.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "Path to a YAML config file (default ./filecompare.yaml if present)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose logging")
	flags.String("pivot", "", "Pivot language every document is compared in (ISO 639-1)")
	flags.String("translator", "", "Translation backend (google, gemini, ollama, openai, none)")
	flags.String("embedder", "", "Embedding provider (hashing, gemini, ollama, openai)")
	flags.String("extractor", "", "Entity extractor (prose, gemini, ollama, openai, none)")
	flags.Int("chunk-size", 0, "Maximum characters per translation request")
	flags.Int("translate-concurrency", 0, "Parallel translation requests per document")

	cmd.AddCommand(newCompareCmd(opts))
	cmd.AddCommand(newBatchCmd(opts))
	cmd.AddCommand(newServeCmd(opts))

	return cmd
}

// loadApp resolves configuration for cmd and builds the pipeline.
func loadApp(ctx context.Context, cmd *cobra.Command, opts *rootOptions) (*app.App, error) {
	cfg, err := config.Load(opts.configFile, cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize pipeline: %w", err)
	}
	return a, nil
}
