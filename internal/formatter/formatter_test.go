package formatter

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/yildizm/LeafScan/internal/predict"
)

var batch = []predict.Result{
	{PredictedDisease: "Leaf Blight", Confidence: 0.9, Treatment: "Apply fungicide X"},
	{PredictedDisease: "Rust", Confidence: 0.6, Treatment: "Remove infected leaves"},
	{PredictedDisease: "Leaf Blight", Confidence: 0.75, Treatment: "Apply fungicide X"},
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"", false},
		{"text", false},
		{"json", false},
		{"markdown", false},
		{"md", false},
		{"csv", false},
		{"xml", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New(tt.name, Options{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("New(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if !tt.wantErr && f == nil {
				t.Error("Expected a formatter")
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(batch)

	if s.Images != 3 {
		t.Errorf("Expected 3 images, got %d", s.Images)
	}
	if avg := s.AverageConfidence; avg < 0.749 || avg > 0.751 {
		t.Errorf("Expected average 0.75, got %v", avg)
	}
	if len(s.Diseases) != 2 || s.Diseases[0].Disease != "Leaf Blight" || s.Diseases[0].Count != 2 {
		t.Errorf("Unexpected disease counts: %+v", s.Diseases)
	}

	if empty := Summarize(nil); empty.Images != 0 || empty.Diseases != nil {
		t.Errorf("Expected empty summary, got %+v", empty)
	}
}

func TestJSONFormatter(t *testing.T) {
	out, err := NewJSON().Format(batch[:1])
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	var single predict.Result
	if err := json.Unmarshal(out, &single); err != nil {
		t.Fatalf("Single result should be a bare object: %v", err)
	}
	if single.PredictedDisease != "Leaf Blight" {
		t.Errorf("Unexpected result: %+v", single)
	}

	out, err = NewJSON().Format(batch)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	var many BatchOutput
	if err := json.Unmarshal(out, &many); err != nil {
		t.Fatalf("Batch should decode: %v", err)
	}
	if len(many.Predictions) != 3 || many.Summary.Images != 3 {
		t.Errorf("Unexpected batch output: %+v", many)
	}
}

func TestCSVFormatter(t *testing.T) {
	results := append([]predict.Result{}, batch...)
	results[1].Treatment = "Remove leaves,\nthen spray"

	out, err := NewCSV().Format(results)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	if err != nil {
		t.Fatalf("Output should be valid CSV: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("Expected header plus 3 rows, got %d", len(records))
	}
	if records[0][1] != "Disease" {
		t.Errorf("Unexpected header: %v", records[0])
	}
	if records[2][3] != "Remove leaves, then spray" {
		t.Errorf("Expected newline to be flattened, got %q", records[2][3])
	}
	if records[1][2] != "0.9000" {
		t.Errorf("Unexpected confidence cell: %q", records[1][2])
	}
}

func TestMarkdownFormatter(t *testing.T) {
	f := &markdownFormatter{now: func() time.Time {
		return time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)
	}}

	results := append([]predict.Result{}, batch...)
	results[0].Treatment = "Spray | repeat"

	out, err := f.Format(results)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	md := string(out)

	for _, want := range []string{
		"# Crop Disease Detection Report",
		"Generated: 2026-05-01 09:30:00",
		"## Summary",
		"| Images | 3 |",
		"| 1 | Leaf Blight | 90.00% | Spray \\| repeat |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Expected markdown to contain %q, got:\n%s", want, md)
		}
	}

	out, _ = f.Format(batch[:1])
	if strings.Contains(string(out), "## Summary") {
		t.Error("Single result should not have a summary section")
	}
}

func TestTerminalFormatter_TopDiseases(t *testing.T) {
	var results []predict.Result
	for _, name := range []string{"Scab", "Blight", "Blight", "Mildew", "Mildew", "Mildew", "Rust", "Canker", "Smut"} {
		results = append(results, predict.Result{PredictedDisease: name, Confidence: 0.5})
	}

	var b strings.Builder
	(&terminalFormatter{}).writeTopDiseases(&b, Summarize(results))
	output := b.String()

	mildewPos := strings.Index(output, "Mildew")
	blightPos := strings.Index(output, "Blight")
	if mildewPos < 0 || blightPos < 0 || mildewPos > blightPos {
		t.Errorf("Expected Mildew (3) before Blight (2) in output:\n%s", output)
	}
	// Six diseases, ties broken by name, so Smut is the one dropped
	if strings.Contains(output, "Smut") {
		t.Errorf("Expected at most %d diseases, got:\n%s", maxTopDiseases, output)
	}
}

func TestTerminalFormatter_Single(t *testing.T) {
	out, err := NewTerminal(Options{}).Format(batch[:1])
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	text := string(out)
	if !strings.Contains(text, "Leaf Blight") || !strings.Contains(text, "90.00%") {
		t.Errorf("Unexpected output:\n%s", text)
	}
	if strings.Contains(text, "Summary") {
		t.Error("Single result should not have a summary")
	}
}
