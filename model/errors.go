package model

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by model construction and loading.
// Callers match them with errors.Is; context is added with %w wrapping.
var (
	// ErrEmptyName indicates a model, variable or constraint without a name.
	ErrEmptyName = errors.New("model: empty name")

	// ErrDuplicateVar indicates that a variable name was declared twice.
	ErrDuplicateVar = errors.New("model: duplicate variable")

	// ErrUnknownVar indicates a reference to an undeclared variable.
	ErrUnknownVar = errors.New("model: unknown variable")

	// ErrInvalidBounds indicates lower > upper or a NaN bound.
	ErrInvalidBounds = errors.New("model: invalid variable bounds")

	// ErrInvalidCoeff indicates a NaN or infinite coefficient or right-hand side.
	ErrInvalidCoeff = errors.New("model: invalid coefficient")

	// ErrInvalidOperator indicates an operator outside {LE, GE, EQ}.
	ErrInvalidOperator = errors.New("model: invalid operator")

	// ErrInvalidFile indicates a model document that failed decoding or validation.
	ErrInvalidFile = errors.New("model: invalid model file")
)

// Violation describes the first requirement a candidate point breaks.
// It is returned by Check and wraps no sentinel: it is a verdict, not a fault.
type Violation struct {
	Kind   string  // "bound", "integrality" or "constraint"
	Name   string  // variable or constraint name
	Value  float64 // observed value (activity for constraints)
	Target float64 // violated bound / right-hand side
}

func (v *Violation) Error() string {
	return fmt.Sprintf("model: %s %q violated: value %g, limit %g", v.Kind, v.Name, v.Value, v.Target)
}
