package layout

import (
	"errors"
	"fmt"
)

// ErrValidation is the sentinel every geometry validation failure wraps.
var ErrValidation = errors.New("invalid layout parameters")

// ValidationError names the offending parameter.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
