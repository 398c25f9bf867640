package shared

import (
	"errors"
	"fmt"
)

// Error codes shared by every service. The HTTP layer maps them to status
// codes; upstream and storage errors are translated into one of these at
// the store boundary.
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeAlreadyExists   = "ALREADY_EXISTS"
	CodeConflict        = "CONFLICT"
	CodeUpstreamAuth    = "UPSTREAM_AUTH"
	CodeUpstreamFailure = "UPSTREAM_FAILURE"
	CodeInternal        = "INTERNAL_ERROR"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Detail is meant for logs only and never sent to API callers.
	Detail string `json:"-"`
	cause  error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause, if any.
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is matches any DomainError carrying the same code, so that
// errors.Is(err, shared.ErrNotFound) holds for every not-found error.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if errors.As(target, &t) {
		return t.Code == e.Code
	}
	return false
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithCause returns a copy of e wrapping cause and recording detail.
func (e *DomainError) WithCause(cause error, detail string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Detail:  detail,
		cause:   cause,
	}
}

// Common domain errors
var (
	ErrNotFound        = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists   = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrConflict        = NewDomainError(CodeConflict, "Resource is in use or violates a business rule")
	ErrInvalidInput    = NewDomainError(CodeValidation, "Invalid input provided")
	ErrUpstreamAuth    = NewDomainError(CodeUpstreamAuth, "Unable to authenticate with the ERP service")
	ErrUpstreamFailure = NewDomainError(CodeUpstreamFailure, "The ERP service returned an error")
)

// NewValidationError builds a validation error with a formatted message.
func NewValidationError(format string, args ...any) *DomainError {
	return NewDomainError(CodeValidation, fmt.Sprintf(format, args...))
}

// NewNotFoundError reports a missing entity of the given kind.
func NewNotFoundError(entity, key string) *DomainError {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s '%s' not found", entity, key))
}

// NewAlreadyExistsError reports a uniqueness violation on field.
func NewAlreadyExistsError(entity, field, value string) *DomainError {
	return NewDomainError(CodeAlreadyExists, fmt.Sprintf("%s with %s '%s' already exists", entity, field, value))
}

// NewConflictError reports a rejected write with a caller-facing message.
func NewConflictError(message string) *DomainError {
	return NewDomainError(CodeConflict, message)
}

// IsNotFound reports whether err is a not-found domain error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
