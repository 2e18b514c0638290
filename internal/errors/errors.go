package errors

import (
	"fmt"
	"net/http"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	// ErrorTypeCapture covers transient environment-side failures while
	// producing a screenshot (timeouts, navigation errors). Retryable.
	ErrorTypeCapture ErrorType = "capture"
	// ErrorTypeDimensionMismatch means the diff engine was handed images of
	// unequal sizes. That is a bug in the caller, never retried.
	ErrorTypeDimensionMismatch ErrorType = "dimension_mismatch"
	// ErrorTypeNoResults is the aggregation-time condition of a run in which
	// no comparison succeeded.
	ErrorTypeNoResults ErrorType = "no_results"
	// ErrorTypeInput covers unreadable or empty target lists and malformed
	// source images. Aborts the run before scheduling.
	ErrorTypeInput      ErrorType = "input"
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeTimeout    ErrorType = "timeout"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeInternal   ErrorType = "internal"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"status_code"`
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewCaptureError creates a new capture error
func NewCaptureError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeCapture,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

// NewDimensionMismatchError creates a new dimension mismatch error
func NewDimensionMismatchError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeDimensionMismatch,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewNoResultsError creates a new no-results error
func NewNoResultsError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeNoResults,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		Cause:      cause,
	}
}

// NewInputError creates a new input error
func NewInputError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInput,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeTimeout,
		Message:    message,
		StatusCode: http.StatusGatewayTimeout,
		Cause:      cause,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
		Cause:      cause,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// IsType checks if the error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == errorType
	}
	return false
}

// IsRetryable reports whether another attempt could plausibly succeed.
// Capture and timeout failures are environmental; everything else either
// reflects a bug or bad input and would fail identically on retry.
func IsRetryable(err error) bool {
	appErr, ok := err.(*AppError)
	if !ok {
		// Unclassified errors are assumed transient.
		return true
	}
	switch appErr.Type {
	case ErrorTypeCapture, ErrorTypeTimeout, ErrorTypeInternal:
		return true
	default:
		return false
	}
}

// GetStatusCode extracts the HTTP status code from an error
func GetStatusCode(err error) int {
	if appErr, ok := err.(*AppError); ok {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
