// Package report renders comparison results for people and programs.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/LakshmiNeithilath/FileComparison/internal/comparison"
	"github.com/LakshmiNeithilath/FileComparison/internal/similarity"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Formats accepted by Write.
var Formats = []string{"text", "json", "yaml"}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	bandStyles = map[string]lipgloss.Style{
		similarity.BandHigh:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00C853")),
		similarity.BandModerate:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFD600")),
		similarity.BandSignificant: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF1744")),
	}
)

// Write renders result to w in the named format.
func Write(w io.Writer, result *comparison.Result, format string) error {
	switch format {
	case "text", "":
		return writeText(w, result)
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(result); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func writeText(w io.Writer, result *comparison.Result) error {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Document Comparison"))
	b.WriteString("\n\n")

	band := result.Band
	if style, ok := bandStyles[band]; ok {
		band = style.Render(band)
	}
	fmt.Fprintf(&b, "%s %s (%s)\n", labelStyle.Render("Similarity:"), similarity.Percent(result.SimilarityScore), band)

	info := result.LanguageInfo
	fmt.Fprintf(&b, "%s %s [%s]\n", labelStyle.Render("Document 1:"), result.Documents[0], info.Doc1Language)
	fmt.Fprintf(&b, "%s %s [%s]\n", labelStyle.Render("Document 2:"), result.Documents[1], info.Doc2Language)
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Translated:"), yesNo(info.TranslationPerformed))

	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Differences:"))
	b.WriteString("\n")
	if len(result.Differences) == 0 {
		b.WriteString("  none\n")
	}
	for _, diff := range result.Differences {
		fmt.Fprintf(&b, "  - %s\n", diff)
	}

	fmt.Fprintf(&b, "\n%s\n", labelStyle.Render(fmt.Sprintf("id %s, %s", result.ID, result.Duration.Round(time.Millisecond))))

	_, err := io.WriteString(w, b.String())
	return err
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
