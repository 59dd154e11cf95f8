package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Error codes
const (
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeValidation     = "VALIDATION_ERROR"
	ErrCodeStorageFailure = "STORAGE_FAILURE"
	ErrCodeInternal       = "INTERNAL_ERROR"
)

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string) error {
	return &DomainError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// NewValidationError creates a new validation error
func NewValidationError(msg string) error {
	return &DomainError{
		Code:    ErrCodeValidation,
		Message: msg,
	}
}

// NewStorageError wraps a persistence failure. The message is safe to log,
// the wrapped driver error is not meant for clients.
func NewStorageError(op string, err error) error {
	return &DomainError{
		Code:    ErrCodeStorageFailure,
		Message: fmt.Sprintf("failed to %s", op),
		Err:     err,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(err error) error {
	return &DomainError{
		Code:    ErrCodeInternal,
		Message: "An internal error occurred",
		Err:     err,
	}
}

func codeOf(err error) (string, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code, true
	}
	return "", false
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrCodeNotFound
}

// IsValidation checks if the error is a validation error
func IsValidation(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrCodeValidation
}

// IsStorageFailure checks if the error is a storage failure
func IsStorageFailure(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrCodeStorageFailure
}

// IsInternal checks if the error is an internal error
func IsInternal(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrCodeInternal
}

// GetErrorCode extracts the error code from a domain error
func GetErrorCode(err error) string {
	if code, ok := codeOf(err); ok {
		return code
	}
	return ErrCodeInternal
}
