/*
errors.go - Centralized error types for the engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Domain packages return these (or wrap them) so outer layers can map
  them to HTTP statuses without string matching.

ERROR CATEGORIES:
  1. Invalid input - caller bugs: non-positive salary, termination before
     admission, more than 30 vacation days, months worked outside [1,12]
  2. Missing configuration - no bracket table or holiday list; fatal
  3. Store errors - persistence collaborator failures

There are no retryable errors: every calculation is deterministic.

USAGE:
  if errors.Is(err, generic.ErrInvalidInput) { ... }

  var vErr *generic.ValidationError
  if errors.As(err, &vErr) {
      log.Printf("field %s: %s", vErr.Field, vErr.Message)
  }
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidInput is returned when a calculation is asked for an impossible state.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingTable is returned when a required configuration table is absent.
	ErrMissingTable = errors.New("missing configuration table")

	// ErrInvalidTable is returned when a configuration table is present but malformed.
	ErrInvalidTable = errors.New("invalid configuration table")

	// ErrInvalidPeriod is returned when a period is malformed (end before start).
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrNotFound is returned by stores when a record does not exist.
	ErrNotFound = errors.New("not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError names the offending input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// Invalid builds a ValidationError.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// MissingTableError names the configuration table that is absent.
type MissingTableError struct {
	Table string
}

func (e *MissingTableError) Error() string {
	return fmt.Sprintf("missing configuration table: %s", e.Table)
}

func (e *MissingTableError) Unwrap() error {
	return ErrMissingTable
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrInvalidPeriod)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
