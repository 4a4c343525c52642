package session

import "errors"

// User-facing messages
const (
	MsgFileTooLarge     = "File size exceeds the 5MB limit."
	MsgNoFile           = "Please select an image first."
	MsgPredictionFailed = "Failed to get prediction. Please try again."
	MsgNoPrediction     = "Run a prediction first."
)

// ValidationError is a problem detected before any network call
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidationError reports whether err is a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
