package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/unihub/unidrop/validation"
)

var (
	// ErrNotFound is returned by reads and transitions on a missing id.
	ErrNotFound = errors.New("not found")
	// ErrNoTransition is returned when advancing a cancelled order.
	ErrNoTransition = errors.New("order status has no next transition")
)

// ValidationError rejects an input without changing any state.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, f := range e.Violations.Fields() {
		parts = append(parts, f+"="+e.Violations[f])
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(parts, ", "))
}

// check returns a *ValidationError when v is not empty.
func check(v validation.Violations) error {
	if v.Empty() {
		return nil
	}
	return &ValidationError{Violations: v}
}

// invalidField is a single-field ValidationError.
func invalidField(field, reason string) error {
	return &ValidationError{Violations: validation.Violations{field: reason}}
}
