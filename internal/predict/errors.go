package predict

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType categorizes a failed prediction call. The categories exist for
// logging; callers that surface errors to users treat them all the same.
type ErrorType string

const (
	// ErrTypeRequest indicates the request could not be built
	ErrTypeRequest ErrorType = "request"

	// ErrTypeNetwork indicates the request never got a response
	ErrTypeNetwork ErrorType = "network"

	// ErrTypeStatus indicates a non-2xx response
	ErrTypeStatus ErrorType = "status"

	// ErrTypeDecode indicates a body that does not match the response contract
	ErrTypeDecode ErrorType = "decode"
)

// TransportError is returned for every failed call to the prediction endpoint
type TransportError struct {
	Type       ErrorType
	Message    string
	StatusCode int
	Cause      error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	parts := []string{fmt.Sprintf("type=%s", e.Type)}

	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}

	parts = append(parts, e.Message)

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause=%s", e.Cause.Error()))
	}

	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying error
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// Is matches another TransportError of the same type
func (e *TransportError) Is(target error) bool {
	if te, ok := target.(*TransportError); ok {
		return e.Type == te.Type
	}
	return false
}

// newTransportError creates a transport error
func newTransportError(errType ErrorType, message string, cause error) *TransportError {
	return &TransportError{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// IsTransportError reports whether err came from the prediction transport
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
