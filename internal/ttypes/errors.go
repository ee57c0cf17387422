package ttypes

import (
	"errors"
	"fmt"
)

// Common resolver errors
var (
	// ErrConfiguration indicates a missing or invalid setting
	ErrConfiguration = errors.New("configuration error")

	// ErrProvider indicates the remote provider failed or returned garbage
	ErrProvider = errors.New("provider error")

	// ErrTimeout indicates the remote call exceeded its bound
	ErrTimeout = errors.New("operation timed out")

	// ErrProcess indicates the local subprocess failed or produced nothing
	ErrProcess = errors.New("process error")

	// ErrCorruption indicates a zero-byte cache file was found
	ErrCorruption = errors.New("cache entry corrupted")

	// ErrDisabled indicates the tier is turned off in the configuration
	ErrDisabled = errors.New("tier disabled")

	// ErrEmptyOutput indicates a producer reported success but wrote nothing
	ErrEmptyOutput = errors.New("no audio data generated")
)

// ErrorCode identifies specific error types
type ErrorCode string

const (
	ErrorCodeConfiguration ErrorCode = "CONFIGURATION"
	ErrorCodeProvider      ErrorCode = "PROVIDER"
	ErrorCodeTimeout       ErrorCode = "TIMEOUT"
	ErrorCodeProcess       ErrorCode = "PROCESS"
	ErrorCodeCorruption    ErrorCode = "CORRUPTION"
	ErrorCodeDisabled      ErrorCode = "DISABLED"
)

// sentinel maps codes to the matching package error so errors.Is works on TTSError.
var sentinel = map[ErrorCode]error{
	ErrorCodeConfiguration: ErrConfiguration,
	ErrorCodeProvider:      ErrProvider,
	ErrorCodeTimeout:       ErrTimeout,
	ErrorCodeProcess:       ErrProcess,
	ErrorCodeCorruption:    ErrCorruption,
	ErrorCodeDisabled:      ErrDisabled,
}

// TTSError represents a resolver error with additional context
type TTSError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *TTSError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *TTSError) Unwrap() error {
	return e.Cause
}

// Is matches the sentinel error for the code.
func (e *TTSError) Is(target error) bool {
	s, ok := sentinel[e.Code]
	return ok && s == target
}

// NewTTSError creates a new error with context
func NewTTSError(code ErrorCode, message string, cause error) *TTSError {
	return &TTSError{
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// WithContext adds context to the error
func (e *TTSError) WithContext(key string, value interface{}) *TTSError {
	e.Context[key] = value
	return e
}

// IsFatal returns true if retrying with the same configuration cannot help
func (e *TTSError) IsFatal() bool {
	switch e.Code {
	case ErrorCodeConfiguration, ErrorCodeDisabled:
		return true
	default:
		return false
	}
}

// IsRetryable returns true if a later request might succeed.
// The resolver itself never retries.
func (e *TTSError) IsRetryable() bool {
	switch e.Code {
	case ErrorCodeTimeout, ErrorCodeProvider:
		return true
	default:
		return false
	}
}

// CodeOf returns the code of err if it is a TTSError, or an empty code.
func CodeOf(err error) ErrorCode {
	var te *TTSError
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}
