package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/go-termfmt"

	"github.com/yildizm/LeafScan/internal/predict"
	"github.com/yildizm/LeafScan/internal/report"
)

const maxTopDiseases = 5

// terminalFormatter renders go-termfmt trees
type terminalFormatter struct {
	opts Options
}

// NewTerminal creates a terminal formatter
func NewTerminal(opts Options) Formatter {
	return &terminalFormatter{opts: opts}
}

func (f *terminalFormatter) Format(results []predict.Result) ([]byte, error) {
	var b strings.Builder

	for i, r := range results {
		if len(results) > 1 {
			fmt.Fprintf(&b, "Image %d\n", i+1)
		}
		b.WriteString(report.Tree(r, f.opts.Color, f.opts.Emoji))
		if i < len(results)-1 {
			b.WriteString("\n")
		}
	}

	if len(results) > 1 {
		b.WriteString("\n")
		f.writeTopDiseases(&b, Summarize(results))
	}

	return []byte(b.String()), nil
}

// writeTopDiseases lists the most frequent diagnoses of a batch
func (f *terminalFormatter) writeTopDiseases(b *strings.Builder, s Summary) {
	opts := termfmt.DefaultOptions()
	opts.Color = f.opts.Color
	opts.Emoji = f.opts.Emoji

	top := s.Diseases
	if len(top) > maxTopDiseases {
		top = top[:maxTopDiseases]
	}

	children := make([]termfmt.TreeItem, 0, len(top))
	for i, d := range top {
		children = append(children, termfmt.TreeItem{
			Label: d.Disease,
			Value: fmt.Sprintf("%d", d.Count),
			Last:  i == len(top)-1,
		})
	}

	items := []termfmt.TreeItem{
		{Label: "Images", Value: fmt.Sprintf("%d", s.Images)},
		{Label: "Average confidence", Value: fmt.Sprintf("%.2f%%", s.AverageConfidence*100)},
		{Label: "Top diseases", Value: "", Children: children, Last: true},
	}

	b.WriteString("Summary\n")
	b.WriteString(termfmt.TreeViewWithOptions(items, opts))
}
