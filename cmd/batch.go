package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/LakshmiNeithilath/FileComparison/internal/batch"
	"github.com/LakshmiNeithilath/FileComparison/internal/extract"
	"github.com/spf13/cobra"
)

func newBatchCmd(opts *rootOptions) *cobra.Command {
	var (
		pairsPath   string
		outputDir   string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Compare many document pairs",
		Long: `Compares every pair listed in a manifest and writes the results as JSON,
YAML, CSV and Parquet. A failing pair is recorded with its error and does not
stop the run.

Manifests are JSONL, a JSON array or Parquet, with one {id, doc1, doc2}
record per pair. Relative paths are resolved against the manifest's directory.`,
		Example: `  # Compare pairs from a JSONL manifest
  filecompare batch --pairs pairs.jsonl --output results/

  # Four pairs at a time
  filecompare batch --pairs pairs.parquet --output results/ --concurrency 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(pairsPath); os.IsNotExist(err) {
				return fmt.Errorf("pairs file not found: %s", pairsPath)
			}

			pairs, err := batch.LoadPairs(pairsPath)
			if err != nil {
				return fmt.Errorf("failed to load pairs: %w", err)
			}
			slog.Info("Pairs loaded", "pairs", len(pairs))

			a, err := loadApp(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			results := batch.Run(cmd.Context(), a.Comparer, pairs, extract.ExtractText, concurrency)

			slog.Info("Saving results", "output", outputDir)
			if err := batch.Save(results, outputDir); err != nil {
				return fmt.Errorf("failed to save results: %w", err)
			}

			out := cmd.OutOrStdout()
			batch.PrintSummary(out, results.Summary)
			fmt.Fprintf(out, "\nResults saved to: %s\n", outputDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&pairsPath, "pairs", "", "Path to the pair manifest (.jsonl, .json or .parquet)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "results", "Directory for result files")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 2, "Number of pairs compared in parallel")
	_ = cmd.MarkFlagRequired("pairs")

	return cmd
}
