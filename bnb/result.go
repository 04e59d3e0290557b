package bnb

import (
	"fmt"
	"math"
)

// Status is the overall outcome of a search.
type Status int

const (
	// StatusOptimal: the gap closed (or the tree was exhausted) with an incumbent.
	StatusOptimal Status = iota

	// StatusInfeasible: no integer solution exists (or none was found).
	StatusInfeasible

	// StatusUnbounded: the root relaxation is unbounded.
	StatusUnbounded

	// StatusStopped: a node limit, time limit or cancellation ended the search
	// early; Objective and Solution describe the best incumbent so far (if any).
	StatusStopped
)

// String returns the upper-case status name.
func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "OPTIMAL"
	case StatusInfeasible:
		return "INFEASIBLE"
	case StatusUnbounded:
		return "UNBOUNDED"
	case StatusStopped:
		return "STOPPED"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// BoundPoint is the pair of global bounds recorded after one iteration,
// expressed in the model's own sense.
type BoundPoint struct {
	Iteration int
	Upper     float64
	Lower     float64
}

// Stats counts search activity.
type Stats struct {
	Created          int // nodes created, root included
	Processed        int // nodes popped and evaluated
	Branched         int
	PrunedInfeasible int // infeasible or unbounded relaxations
	PrunedInteger    int
	PrunedGap        int
	PrunedDominated  int
	IncumbentUpdates int
	MaxQueue         int
}

// Result is the outcome of Solve.
//
// Objective, Upper, Lower and History are in the model's own sense
// (minimization models are reported as minimization).
type Result struct {
	Status     Status
	Objective  float64
	Solution   map[string]float64
	GapPercent float64
	Upper      float64
	Lower      float64
	History    []BoundPoint
	Incumbent  *Node
	Stats      Stats

	// Verified reports that Solution passed model.Check on the input model
	// within Eps. A rounding candidate can be accepted without being
	// feasible; its numbers are kept and Violation says what it breaks.
	Verified  bool
	Violation error
}

// Err maps an outcome to a sentinel: ErrNoIncumbent for StatusInfeasible,
// ErrModelUnbounded for StatusUnbounded, ErrUnverified (wrapping Violation)
// for an optimal result whose point fails the check, nil otherwise.
func (r Result) Err() error {
	switch r.Status {
	case StatusInfeasible:
		return ErrNoIncumbent
	case StatusUnbounded:
		return ErrModelUnbounded
	case StatusOptimal:
		if r.Solution != nil && !r.Verified {
			return fmt.Errorf("%w: %w", ErrUnverified, r.Violation)
		}
	}

	return nil
}

// gapPercent is |upper − lower| relative to |upper|, in percent.
// Equal bounds give 0; a zero upper bound with a non-zero gap gives +Inf.
func gapPercent(upper, lower float64) float64 {
	d := math.Abs(upper - lower)
	if d == 0 || math.IsNaN(d) {
		return 0
	}
	if upper == 0 || math.IsInf(d, 0) {
		return math.Inf(1)
	}

	return 100 * d / math.Abs(upper)
}
