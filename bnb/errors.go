package bnb

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Solve. Match them with errors.Is.
var (
	// ErrNilModel indicates that a nil *model.Model was passed to Solve.
	ErrNilModel = errors.New("bnb: model is nil")

	// ErrNilSolver indicates that no relaxation solver was configured.
	ErrNilSolver = errors.New("bnb: relaxation solver is nil")

	// ErrBadOptions indicates a negative or NaN Eps, MaxNodes or TimeLimit.
	ErrBadOptions = errors.New("bnb: invalid options")

	// ErrModelInfeasible indicates that the root relaxation has no feasible point.
	ErrModelInfeasible = errors.New("bnb: root relaxation is infeasible")

	// ErrModelUnbounded indicates that the root relaxation is unbounded.
	ErrModelUnbounded = errors.New("bnb: root relaxation is unbounded")

	// ErrSolverFault indicates that the relaxation solver failed to execute.
	// It is always delivered inside a *SolverFaultError.
	ErrSolverFault = errors.New("bnb: solver fault")

	// ErrNoIncumbent indicates a search that exhausted the tree without
	// finding an integer-feasible point (see Result.Err).
	ErrNoIncumbent = errors.New("bnb: no integer solution found")

	// ErrUnverified indicates an incumbent whose point violates the input
	// model; it only ever came from the rounding heuristic (see Result.Err).
	ErrUnverified = errors.New("bnb: incumbent violates the model")

	// ErrNodeLimit indicates that Options.MaxNodes nodes were processed
	// before the gap closed.
	ErrNodeLimit = errors.New("bnb: node limit reached")

	// ErrTimeLimit indicates that Options.TimeLimit elapsed before the gap closed.
	ErrTimeLimit = errors.New("bnb: time limit reached")

	// ErrCanceled indicates that the context was canceled between nodes.
	ErrCanceled = errors.New("bnb: search canceled")
)

// SolverFaultError carries the id of the node whose relaxation failed.
// errors.Is(err, ErrSolverFault) holds, and the solver's own error is
// reachable with errors.Is / errors.As as well.
type SolverFaultError struct {
	NodeID int
	Err    error
}

func (e *SolverFaultError) Error() string {
	return fmt.Sprintf("bnb: solver fault at node %d: %v", e.NodeID, e.Err)
}

// Unwrap exposes both ErrSolverFault and the underlying solver error.
func (e *SolverFaultError) Unwrap() []error {
	return []error{ErrSolverFault, e.Err}
}
