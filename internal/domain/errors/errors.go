// Package errors provides domain-specific error types.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes for domain errors.
const (
	ErrCodeNotFound              = "NOT_FOUND"
	ErrCodeValidation            = "VALIDATION_ERROR"
	ErrCodeUnauthorized          = "UNAUTHORIZED"
	ErrCodeForbidden             = "FORBIDDEN"
	ErrCodeRateLimited           = "RATE_LIMITED"
	ErrCodeExtractionUnavailable = "EXTRACTION_UNAVAILABLE"
	ErrCodeSearchUnavailable     = "SEARCH_UNAVAILABLE"
	ErrCodeInternal              = "INTERNAL_ERROR"
)

// DomainError represents a domain-specific error with an HTTP mapping.
// Detail is the user-facing message rendered in the wire contract's
// {"detail": ...} body.
type DomainError struct {
	Code       string `json:"code"`
	Detail     string `json:"detail"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"`
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Detail)
}

// Unwrap returns the underlying error.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a not found error.
func NewNotFoundError(detail string) *DomainError {
	return &DomainError{
		Code:       ErrCodeNotFound,
		Detail:     detail,
		HTTPStatus: http.StatusNotFound,
	}
}

// NewValidationError creates a validation error.
func NewValidationError(detail string) *DomainError {
	return &DomainError{
		Code:       ErrCodeValidation,
		Detail:     detail,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewUnauthorizedError creates an unauthorized error.
func NewUnauthorizedError(detail string) *DomainError {
	return &DomainError{
		Code:       ErrCodeUnauthorized,
		Detail:     detail,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewForbiddenError creates a forbidden error.
func NewForbiddenError(detail string) *DomainError {
	return &DomainError{
		Code:       ErrCodeForbidden,
		Detail:     detail,
		HTTPStatus: http.StatusForbidden,
	}
}

// NewRateLimitError creates a rate limit exceeded error. The detail string
// includes the reset time so clients can schedule a retry.
func NewRateLimitError(limit, windowSeconds int, resetAt int64) *DomainError {
	return &DomainError{
		Code: ErrCodeRateLimited,
		Detail: fmt.Sprintf(
			"Rate limit exceeded. Maximum %d requests per %d seconds. Try again after %d.",
			limit, windowSeconds, resetAt,
		),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// NewExtractionUnavailableError signals that the LLM extraction capability failed.
func NewExtractionUnavailableError(provider string, err error) *DomainError {
	return &DomainError{
		Code:       ErrCodeExtractionUnavailable,
		Detail:     fmt.Sprintf("Preference extraction via %s is unavailable", provider),
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

// NewSearchUnavailableError signals that the event search capability failed.
func NewSearchUnavailableError(err error) *DomainError {
	return &DomainError{
		Code:       ErrCodeSearchUnavailable,
		Detail:     "Event search is unavailable",
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

// NewInternalError creates an internal error. The wrapped error is logged
// but never surfaced to the client beyond the detail message.
func NewInternalError(detail string, err error) *DomainError {
	return &DomainError{
		Code:       ErrCodeInternal,
		Detail:     detail,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// GetDomainError extracts the domain error from an error chain.
func GetDomainError(err error) (*DomainError, bool) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr, true
	}
	return nil, false
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	domainErr, ok := GetDomainError(err)
	return ok && domainErr.Code == ErrCodeNotFound
}

// IsForbidden checks if the error is a forbidden error.
func IsForbidden(err error) bool {
	domainErr, ok := GetDomainError(err)
	return ok && domainErr.Code == ErrCodeForbidden
}

// IsUnauthorized checks if the error is an unauthorized error.
func IsUnauthorized(err error) bool {
	domainErr, ok := GetDomainError(err)
	return ok && domainErr.Code == ErrCodeUnauthorized
}

// IsExtractionUnavailable checks if the error is an extraction capability failure.
func IsExtractionUnavailable(err error) bool {
	domainErr, ok := GetDomainError(err)
	return ok && domainErr.Code == ErrCodeExtractionUnavailable
}
