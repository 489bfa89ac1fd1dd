package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidSpec is returned when an ObligationSpec fails validation.
	// No partial schedule is ever generated.
	ErrInvalidSpec = errors.New("invalid obligation spec")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidSpecError identifies which field of an ObligationSpec was rejected.
// Surfaced to users as a validation message.
type InvalidSpecError struct {
	Field  string
	Reason string
}

func (e *InvalidSpecError) Error() string {
	return fmt.Sprintf("invalid obligation spec: %s %s", e.Field, e.Reason)
}

func (e *InvalidSpecError) Unwrap() error {
	return ErrInvalidSpec
}

func invalidSpec(field, reason string) error {
	return &InvalidSpecError{Field: field, Reason: reason}
}

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidSpec)
}
