package lp

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	gonumlp "gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/katalvlaran/milp/model"
)

// DefaultTolerance is the reduced-cost tolerance handed to gonum's simplex.
const DefaultTolerance = 1e-10

// Simplex is a Solver backed by gonum's dense simplex implementation.
// The zero value is not usable; construct it with NewSimplex.
type Simplex struct {
	tol float64
}

// SimplexOption configures a Simplex solver.
type SimplexOption func(*Simplex)

// WithTolerance sets the reduced-cost tolerance (must be ≥ 0; negative
// values are ignored).
func WithTolerance(tol float64) SimplexOption {
	return func(s *Simplex) {
		if tol >= 0 && !math.IsNaN(tol) {
			s.tol = tol
		}
	}
}

// NewSimplex returns a simplex relaxation solver.
func NewSimplex(opts ...SimplexOption) *Simplex {
	s := &Simplex{tol: DefaultTolerance}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Solve solves the LP relaxation of m. The objective is reported in m's sense.
//
// Errors: only ErrSolverFault-wrapped errors (including context errors seen
// before the solve starts). Infeasible and unbounded models return a nil
// error with the matching Status.
func (s *Simplex) Solve(ctx context.Context, m *model.Model) (Solution, error) {
	if err := ctx.Err(); err != nil {
		return Solution{}, fmt.Errorf("%w: %w", ErrSolverFault, err)
	}

	sf := buildStandardForm(m)
	if sf.infeasible {
		return Solution{Status: Infeasible}, nil
	}

	a, b, c, keep, improving := sf.reduce()
	y := make([]float64, sf.n)
	if a != nil {
		rows, cols := a.Dims()
		if rows > cols {
			return Solution{}, fmt.Errorf("%w: %d independent rows required, only %d columns", ErrSolverFault, rows, cols)
		}
		yk, status, err := s.run(c, a, b)
		if err != nil {
			return Solution{}, err
		}
		if status != Optimal {
			return Solution{Status: status}, nil
		}
		for k, j := range keep {
			y[j] = yk[k]
		}
	}
	// A feasible program with a cost-improving free direction is unbounded.
	if improving {
		return Solution{Status: Unbounded}, nil
	}

	values := sf.recover(y)

	return Solution{Status: Optimal, Objective: m.Objective(values), Values: values}, nil
}

// run calls gonum's Simplex and classifies its outcome. Panics raised on
// malformed input are converted into solver faults.
func (s *Simplex) run(c []float64, a *mat.Dense, b []float64) (y []float64, status Status, err error) {
	defer func() {
		if r := recover(); r != nil {
			y, status, err = nil, Optimal, fmt.Errorf("%w: %v", ErrSolverFault, r)
		}
	}()

	_, y, err = gonumlp.Simplex(c, a, b, s.tol, nil)
	switch {
	case err == nil:
		return y, Optimal, nil
	case errors.Is(err, gonumlp.ErrInfeasible):
		return nil, Infeasible, nil
	case errors.Is(err, gonumlp.ErrUnbounded):
		return nil, Unbounded, nil
	default:
		return nil, Optimal, fmt.Errorf("%w: %w", ErrSolverFault, err)
	}
}
