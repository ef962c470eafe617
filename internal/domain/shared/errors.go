// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrNegativeValue   = errors.New("value cannot be negative")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	// State errors
	ErrInvalidState = errors.New("invalid state")
	ErrExpired      = errors.New("expired")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// External service errors
	ErrExternalService    = errors.New("external service error")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
	ErrRateLimited        = errors.New("rate limited")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "partner", "stats", "programme"
	Op      string // Operation that failed, e.g., "Create", "Update"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Partner domain errors
var (
	ErrPartnerNotFound      = NewDomainError("partner", "Find", ErrNotFound, "partner university not found")
	ErrPartnerAlreadyExists = NewDomainError("partner", "Create", ErrAlreadyExists, "partner university already exists")
	ErrInvalidCountry       = NewDomainError("partner", "Validate", ErrEmptyValue, "country cannot be empty")
	ErrInvalidAgreement     = NewDomainError("partner", "Validate", ErrInvalidFormat, "agreement dates must be ISO calendar dates")
)

// Stats domain errors
var (
	ErrSnapshotNotFound = NewDomainError("stats", "Find", ErrNotFound, "stored stats snapshot not found")
	ErrInvalidScore     = NewDomainError("stats", "Validate", ErrValueOutOfRange, "engagement score must be between 0 and 10")
)

// Activity domain errors
var (
	ErrActivityNotFound = NewDomainError("activity", "Find", ErrNotFound, "activity not found")
	ErrEmptyTitle       = NewDomainError("activity", "Validate", ErrEmptyValue, "title cannot be empty")
)

// Event domain errors
var (
	ErrEventNotFound = NewDomainError("event", "Find", ErrNotFound, "event not found")
)

// Mobility domain errors
var (
	ErrProgrammeNotFound    = NewDomainError("mobility", "Find", ErrNotFound, "mobility programme not found")
	ErrInvalidProgrammeType = NewDomainError("mobility", "Validate", ErrInvalidInput, "invalid mobility programme type")
	ErrInvalidDirection     = NewDomainError("mobility", "Validate", ErrInvalidInput, "invalid mobility direction")
)

// Programme offering domain errors
var (
	ErrOfferingNotFound   = NewDomainError("programme", "Find", ErrNotFound, "programme offering not found")
	ErrInvalidProgramType = NewDomainError("programme", "Validate", ErrInvalidInput, "invalid programme category")
)

// Admin domain errors
var (
	ErrAdminNotFound      = NewDomainError("admin", "Find", ErrNotFound, "admin user not found")
	ErrInvalidCredentials = NewDomainError("admin", "Authenticate", ErrUnauthorized, "invalid email or password")
	ErrSessionExpired     = NewDomainError("admin", "Verify", ErrExpired, "session token expired")
	ErrInvalidToken       = NewDomainError("admin", "Verify", ErrUnauthorized, "invalid session token")
)

// External service errors
var (
	ErrGeocodeUnavailable     = NewDomainError("geocode", "Request", ErrServiceUnavailable, "geocoding API is unavailable")
	ErrGeocodeRateLimited     = NewDomainError("geocode", "Request", ErrRateLimited, "geocoding API rate limit exceeded")
	ErrGeocodeInvalidResponse = NewDomainError("geocode", "Parse", ErrInvalidFormat, "invalid response from geocoding API")
	ErrGeocodeNoResult        = NewDomainError("geocode", "Lookup", ErrNotFound, "address could not be geocoded")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrNegativeValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrInvalidFormat)
}

// IsUnauthorized checks if the error is an authorization failure.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrExpired)
}

// IsExternalService checks if the error is from an external service.
func IsExternalService(err error) bool {
	return errors.Is(err, ErrExternalService) ||
		errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrRateLimited)
}
