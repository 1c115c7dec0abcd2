// Package errors provides typed errors for notepack
package errors

import (
	"context"
	"errors"
	"fmt"
)

// ErrorType represents the category of error
type ErrorType int

const (
	// ErrConfig indicates a configuration error (bad budget, unknown sink)
	ErrConfig ErrorType = iota
	// ErrValidation indicates a request that cannot be assembled
	ErrValidation
	// ErrInput indicates an unreadable or malformed input document
	ErrInput
	// ErrSubmit indicates a chunk submission failure
	ErrSubmit
	// ErrTimeout indicates a timeout or cancellation occurred
	ErrTimeout
)

// NotepackError is the base error type for all notepack errors
type NotepackError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error returns the error message
func (e *NotepackError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", errorTypeString(e.Type), e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", errorTypeString(e.Type), e.Message)
}

// Unwrap returns the underlying cause
func (e *NotepackError) Unwrap() error {
	return e.Cause
}

// New creates a new NotepackError
func New(errType ErrorType, message string, cause error) *NotepackError {
	return &NotepackError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// WithContext adds context to the error
func (e *NotepackError) WithContext(key string, value interface{}) *NotepackError {
	e.Context[key] = value
	return e
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	var npErr *NotepackError
	if err == nil {
		return false
	}
	if errors.As(err, &npErr) {
		return npErr.Type == errType
	}
	return false
}

// IsRetryable returns true if the error is transient and the whole run can
// be attempted again. Chunks already submitted are not rolled back, so a
// retry may duplicate them.
func IsRetryable(err error) bool {
	var npErr *NotepackError
	if !errors.As(err, &npErr) {
		return false
	}

	switch npErr.Type {
	case ErrSubmit, ErrTimeout:
		return true
	default:
		return false
	}
}

// Join combines errors, dropping nils. It returns nil when every error is
// nil.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// Exit codes returned by the CLI.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitUsage      = 2
	ExitConfig     = 3
	ExitSubmission = 4
	ExitTimeout    = 5
)

// ExitCode maps an error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ExitTimeout
	}
	var npErr *NotepackError
	if !errors.As(err, &npErr) {
		return ExitFailure
	}
	switch npErr.Type {
	case ErrConfig:
		return ExitConfig
	case ErrValidation, ErrInput:
		return ExitUsage
	case ErrSubmit:
		return ExitSubmission
	case ErrTimeout:
		return ExitTimeout
	default:
		return ExitFailure
	}
}

func errorTypeString(et ErrorType) string {
	switch et {
	case ErrConfig:
		return "CONFIG"
	case ErrValidation:
		return "VALIDATION"
	case ErrInput:
		return "INPUT"
	case ErrSubmit:
		return "SUBMIT"
	case ErrTimeout:
		return "TIMEOUT"
	default:
		return "UNKNOWN"
	}
}

// Convenience functions for common errors

// ConfigError creates a configuration error
func ConfigError(message string, cause error) *NotepackError {
	return New(ErrConfig, message, cause)
}

// ValidationError creates a validation error
func ValidationError(message string, cause error) *NotepackError {
	return New(ErrValidation, message, cause)
}

// InputError creates an input error
func InputError(message string, cause error) *NotepackError {
	return New(ErrInput, message, cause)
}

// SubmitError creates a submission error
func SubmitError(message string, cause error) *NotepackError {
	return New(ErrSubmit, message, cause)
}

// TimeoutError creates a timeout error
func TimeoutError(message string, cause error) *NotepackError {
	return New(ErrTimeout, message, cause)
}
