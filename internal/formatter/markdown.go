package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/yildizm/LeafScan/internal/predict"
)

// markdownFormatter formats output as Markdown
type markdownFormatter struct {
	now func() time.Time
}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown() Formatter {
	return &markdownFormatter{now: time.Now}
}

func (f *markdownFormatter) Format(results []predict.Result) ([]byte, error) {
	var b strings.Builder

	b.WriteString("# Crop Disease Detection Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", f.now().Format("2006-01-02 15:04:05"))

	if len(results) == 0 {
		b.WriteString("No predictions.\n")
		return []byte(b.String()), nil
	}

	if len(results) > 1 {
		f.writeSummary(&b, Summarize(results))
	}
	f.writePredictions(&b, results)

	return []byte(b.String()), nil
}

func (f *markdownFormatter) writeSummary(b *strings.Builder, s Summary) {
	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	fmt.Fprintf(b, "| Images | %d |\n", s.Images)
	fmt.Fprintf(b, "| Average confidence | %.2f%% |\n", s.AverageConfidence*100)
	for _, d := range s.Diseases {
		fmt.Fprintf(b, "| %s | %d |\n", escapeMarkdown(d.Disease), d.Count)
	}
	b.WriteString("\n")
}

func (f *markdownFormatter) writePredictions(b *strings.Builder, results []predict.Result) {
	b.WriteString("## Predictions\n\n")
	b.WriteString("| # | Disease | Confidence | Treatment |\n")
	b.WriteString("|---|---------|------------|-----------|\n")
	for i, r := range results {
		fmt.Fprintf(b, "| %d | %s | %s | %s |\n", i+1,
			escapeMarkdown(r.PredictedDisease), r.ConfidencePercent(), escapeMarkdown(r.Treatment))
	}
}

// escapeMarkdown keeps a value inside one table cell
func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
