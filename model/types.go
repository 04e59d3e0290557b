package model

import (
	"fmt"
	"strings"
)

// Domain is the value domain of a decision variable.
type Domain int

const (
	// Continuous variables take any real value within their bounds.
	Continuous Domain = iota

	// Integer variables must take integral values within their bounds.
	Integer

	// Binary variables are integers restricted to {0, 1}.
	Binary
)

// String returns the lower-case name used in model files.
func (d Domain) String() string {
	switch d {
	case Continuous:
		return "continuous"
	case Integer:
		return "integer"
	case Binary:
		return "binary"
	default:
		return fmt.Sprintf("domain(%d)", int(d))
	}
}

// ParseDomain maps "continuous", "integer"/"int" and "binary"/"bin" to a Domain.
func ParseDomain(s string) (Domain, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "continuous", "real":
		return Continuous, nil
	case "integer", "int":
		return Integer, nil
	case "binary", "bin":
		return Binary, nil
	default:
		return 0, fmt.Errorf("%w: unknown domain %q", ErrInvalidFile, s)
	}
}

// Sense is the optimization direction of the objective.
type Sense int

const (
	// Maximize is the native direction of the branch-and-bound engine.
	Maximize Sense = iota

	// Minimize is handled by the engine through objective negation.
	Minimize
)

// String returns "maximize" or "minimize".
func (s Sense) String() string {
	if s == Minimize {
		return "minimize"
	}

	return "maximize"
}

// ParseSense maps "max"/"maximize" and "min"/"minimize" to a Sense.
func ParseSense(s string) (Sense, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "max", "maximize":
		return Maximize, nil
	case "min", "minimize":
		return Minimize, nil
	default:
		return 0, fmt.Errorf("%w: unknown sense %q", ErrInvalidFile, s)
	}
}

// Operator is the comparison of a linear constraint.
type Operator int

const (
	// LE is "activity ≤ rhs".
	LE Operator = iota

	// GE is "activity ≥ rhs".
	GE

	// EQ is "activity = rhs".
	EQ
)

// String returns the symbolic form used in model files and logs.
func (o Operator) String() string {
	switch o {
	case LE:
		return "<="
	case GE:
		return ">="
	case EQ:
		return "="
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

// ParseOperator accepts "<=", "le", ">=", "ge", "=", "==" and "eq".
func ParseOperator(s string) (Operator, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "<=", "le", "≤":
		return LE, nil
	case ">=", "ge", "≥":
		return GE, nil
	case "=", "==", "eq":
		return EQ, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidOperator, s)
	}
}

// Variable is a named decision variable.
//
// Lower and Upper bound the variable; use math.Inf for free directions.
// Objective is the coefficient of the variable in the objective function.
type Variable struct {
	Name      string
	Domain    Domain
	Lower     float64
	Upper     float64
	Objective float64
}

// Constraint is the linear restriction  Σ Coeffs[v]·v  Op  RHS.
type Constraint struct {
	Name   string
	Coeffs map[string]float64
	Op     Operator
	RHS    float64
}

// Activity evaluates the left-hand side at values; missing variables count as 0.
func (c Constraint) Activity(values map[string]float64) float64 {
	var sum float64
	for name, a := range c.Coeffs {
		sum += a * values[name]
	}

	return sum
}

// clone returns an independent copy of c (the coefficient map is duplicated).
func (c Constraint) clone() Constraint {
	coeffs := make(map[string]float64, len(c.Coeffs))
	for k, v := range c.Coeffs {
		coeffs[k] = v
	}
	c.Coeffs = coeffs

	return c
}
