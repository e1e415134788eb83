package llm

import (
	"errors"
	"fmt"
)

// ErrorCode classifies provider failures.
type ErrorCode string

const (
	ErrCodeTimeout         ErrorCode = "timeout"
	ErrCodeAuthentication  ErrorCode = "authentication"
	ErrCodeModelNotFound   ErrorCode = "model_not_found"
	ErrCodeInvalidRequest  ErrorCode = "invalid_request"
	ErrCodeRateLimited     ErrorCode = "rate_limited"
	ErrCodeServerError     ErrorCode = "server_error"
	ErrCodeInvalidResponse ErrorCode = "invalid_response"
)

// ProviderError is the typed error every provider returns.
type ProviderError struct {
	Code    ErrorCode
	Message string
	Err     error
}

// NewProviderError creates a ProviderError wrapping err.
func NewProviderError(code ErrorCode, message string, err error) *ProviderError {
	return &ProviderError{Code: code, Message: message, Err: err}
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("llm %s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("llm %s: %s", e.Code, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Retryable reports whether the failure is transient.
func (e *ProviderError) Retryable() bool {
	switch e.Code {
	case ErrCodeTimeout, ErrCodeRateLimited, ErrCodeServerError:
		return true
	}
	return false
}

// CodeOf returns the ErrorCode carried by err, or "" if err is not a ProviderError.
func CodeOf(err error) ErrorCode {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}
