// Package formatter renders one or more predictions for the predict command.
package formatter

import (
	"fmt"
	"sort"

	"github.com/yildizm/LeafScan/internal/predict"
)

// Supported output formats
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatCSV      = "csv"
)

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(results []predict.Result) ([]byte, error)
}

// Options tune the text formatter
type Options struct {
	Color bool
	Emoji bool
}

// New returns the formatter registered under name
func New(name string, opts Options) (Formatter, error) {
	switch name {
	case "", FormatText:
		return NewTerminal(opts), nil
	case FormatJSON:
		return NewJSON(), nil
	case FormatMarkdown, "md":
		return NewMarkdown(), nil
	case FormatCSV:
		return NewCSV(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (use text, json, markdown or csv)", name)
	}
}

// DiseaseCount is how often one disease was diagnosed in a batch
type DiseaseCount struct {
	Disease string `json:"disease"`
	Count   int    `json:"count"`
}

// Summary aggregates a batch of predictions
type Summary struct {
	Images            int            `json:"images"`
	AverageConfidence float64        `json:"average_confidence"`
	Diseases          []DiseaseCount `json:"diseases"`
}

// Summarize counts diseases, most frequent first, ties by name
func Summarize(results []predict.Result) Summary {
	s := Summary{Images: len(results)}
	if len(results) == 0 {
		return s
	}

	counts := make(map[string]int)
	var total float64
	for _, r := range results {
		counts[r.PredictedDisease]++
		total += r.Confidence
	}
	s.AverageConfidence = total / float64(len(results))

	for disease, n := range counts {
		s.Diseases = append(s.Diseases, DiseaseCount{Disease: disease, Count: n})
	}
	sort.Slice(s.Diseases, func(i, j int) bool {
		if s.Diseases[i].Count != s.Diseases[j].Count {
			return s.Diseases[i].Count > s.Diseases[j].Count
		}
		return s.Diseases[i].Disease < s.Diseases[j].Disease
	})
	return s
}
