package lp

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/milp/model"
)

// ErrSolverFault marks an execution failure of the relaxation solver
// (numerical breakdown, singular basis, internal panic). It is never used
// for infeasible or unbounded models.
var ErrSolverFault = errors.New("lp: solver fault")

// Status is the outcome of a relaxation solve.
type Status int

const (
	// Optimal means Objective and Values describe an optimal relaxation point.
	Optimal Status = iota

	// Infeasible means the relaxation has no feasible point.
	Infeasible

	// Unbounded means the relaxation objective is unbounded in the model's sense.
	Unbounded
)

// String returns "optimal", "infeasible" or "unbounded".
func (s Status) String() string {
	switch s {
	case Optimal:
		return "optimal"
	case Infeasible:
		return "infeasible"
	case Unbounded:
		return "unbounded"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Solution is the result of one relaxation solve.
// Objective is expressed in the model's own sense. Values is nil unless
// Status == Optimal.
type Solution struct {
	Status    Status
	Objective float64
	Values    map[string]float64
}

// Solver solves the LP relaxation of a model.
//
// Implementations must not modify m and must return a non-nil error only
// for execution faults; such errors should wrap ErrSolverFault.
type Solver interface {
	Solve(ctx context.Context, m *model.Model) (Solution, error)
}

// SolverFunc adapts a plain function to the Solver interface.
type SolverFunc func(ctx context.Context, m *model.Model) (Solution, error)

// Solve calls f(ctx, m).
func (f SolverFunc) Solve(ctx context.Context, m *model.Model) (Solution, error) {
	return f(ctx, m)
}
