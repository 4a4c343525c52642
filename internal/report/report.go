package report

import (
	"fmt"
	"strings"

	"github.com/yildizm/LeafScan/internal/predict"
	"github.com/yildizm/go-termfmt"
)

// FileName is the name of the downloaded report
const FileName = "crop_disease_report.txt"

// ShareSummary is the text copied to the clipboard on share
func ShareSummary(r predict.Result) string {
	return fmt.Sprintf("Crop Disease Prediction\nDisease: %s\nConfidence: %s\nTreatment: %s",
		r.PredictedDisease, r.ConfidencePercent(), r.Treatment)
}

// Text is the body of crop_disease_report.txt
func Text(r predict.Result) string {
	var b strings.Builder
	b.WriteString("Crop Disease Detection Report\n\n")
	fmt.Fprintf(&b, "Disease: %s\n", r.PredictedDisease)
	fmt.Fprintf(&b, "Confidence: %s\n", r.ConfidencePercent())
	fmt.Fprintf(&b, "Treatment: %s\n", r.Treatment)
	return b.String()
}

// Tree renders a result as a terminal tree with a confidence bar
func Tree(r predict.Result, color, emoji bool) string {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	opts.Emoji = emoji

	items := []termfmt.TreeItem{
		{Label: "Disease", Value: r.PredictedDisease},
		{
			Label: "Confidence",
			Value: r.ConfidencePercent(),
			Children: []termfmt.TreeItem{
				{Label: termfmt.CreateConfidenceBar(r.Confidence, opts), Value: "", Last: true},
			},
		},
		{Label: "Treatment", Value: r.Treatment, Last: true},
	}

	var b strings.Builder
	b.WriteString(termfmt.GetEmoji("insight", opts) + " Diagnosis\n")
	b.WriteString(termfmt.TreeViewWithOptions(items, opts))
	b.WriteString("\n")
	return b.String()
}
