/*
errors.go - Error types for the records domain

ERROR CATEGORIES:
  1. Lookup errors     - ErrNotFound
  2. Conflict errors   - ErrDuplicateUserID
  3. Auth errors       - ErrInvalidCredentials
  4. Validation errors - *ValidationError (unwraps to ErrValidation)

USAGE:
  The api package maps these to HTTP status codes:

    var verr *records.ValidationError
    if errors.As(err, &verr) { ... 400 ... }
    if records.IsNotFound(err) { ... 404 ... }
*/
package records

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNotFound is returned when no record has the given userId.
	ErrNotFound = errors.New("employee not found")

	// ErrDuplicateUserID is returned when registering a userId that is taken.
	ErrDuplicateUserID = errors.New("user id already exists")

	// ErrInvalidCredentials is returned for an unknown userId, a role
	// mismatch or a wrong password. Callers cannot tell which.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrValidation is the sentinel behind every *ValidationError.
	ErrValidation = errors.New("validation failed")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// ValidationError carries a message fit to show the person filling the form.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrDuplicateUserID)
}
