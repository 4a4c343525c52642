package formatter

import (
	"encoding/json"

	"github.com/yildizm/LeafScan/internal/predict"
)

// jsonFormatter formats output as JSON
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

// BatchOutput is the JSON shape for more than one image
type BatchOutput struct {
	Summary     Summary          `json:"summary"`
	Predictions []predict.Result `json:"predictions"`
}

// Format writes a single result as the raw endpoint object and a batch
// with a summary section
func (f *jsonFormatter) Format(results []predict.Result) ([]byte, error) {
	var v any
	if len(results) == 1 {
		v = results[0]
	} else {
		v = &BatchOutput{Summary: Summarize(results), Predictions: nonNil(results)}
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func nonNil(results []predict.Result) []predict.Result {
	if results == nil {
		return []predict.Result{}
	}
	return results
}
