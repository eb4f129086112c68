package ai

import "fmt"

// ErrorCode represents specific provider failure types.
type ErrorCode string

const (
	ErrNotConfigured       ErrorCode = "NOT_CONFIGURED"
	ErrProviderUnavailable ErrorCode = "PROVIDER_UNAVAILABLE"
	ErrRateLimited         ErrorCode = "RATE_LIMITED"
	ErrInvalidResponse     ErrorCode = "INVALID_RESPONSE"
)

// Error is a structured error for model-provider failures.
type Error struct {
	Code      ErrorCode
	Message   string
	Provider  string // e.g. "gemini" or "openai"
	Retryable bool
	Cause     error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsRetryable returns whether this error is retryable.
func (e *Error) IsRetryable() bool {
	return e.Retryable
}
