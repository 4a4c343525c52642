package predict

import "fmt"

// Result is a single diagnosis returned by the prediction endpoint
type Result struct {
	PredictedDisease string  `json:"predicted_disease"`
	Confidence       float64 `json:"confidence"` // 0..1
	Treatment        string  `json:"treatment"`
}

// ConfidencePercent formats the confidence as a percentage with two decimals
func (r Result) ConfidencePercent() string {
	return fmt.Sprintf("%.2f%%", r.Confidence*100)
}

// validate checks a decoded body against the response contract
func (r *Result) validate() error {
	if r.PredictedDisease == "" {
		return fmt.Errorf("missing predicted_disease")
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("confidence %v outside [0,1]", r.Confidence)
	}
	return nil
}
