package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/LakshmiNeithilath/FileComparison/internal/extract"
	"github.com/LakshmiNeithilath/FileComparison/internal/report"
	"github.com/spf13/cobra"
)

func newCompareCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "compare <doc1> <doc2>",
		Short: "Compare two documents",
		Long: `Compares two PDF or plain-text documents and prints the similarity score,
its band, the detected languages and the entities found in only one document.`,
		Example: `  # Compare an English and a French report
  filecompare compare report-en.pdf report-fr.pdf

  # Machine-readable output, offline embeddings
  filecompare compare a.pdf b.pdf --embedder hashing --format json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(report.Formats, format) {
				return fmt.Errorf("unsupported format: %s (supported: %s)", format, strings.Join(report.Formats, ", "))
			}

			a, err := loadApp(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.Comparer.Compare(cmd.Context(), args[0], args[1], extract.ExtractText)
			if err != nil {
				return err
			}

			return report.Write(cmd.OutOrStdout(), result, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text, json, yaml)")

	return cmd
}
