package bnb

import (
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/milp/lp"
	"github.com/katalvlaran/milp/model"
)

// Direction is the side of a branching split.
type Direction int

const (
	// Floor restricts the branching variable to ≤ Bound (left child).
	Floor Direction = iota

	// Ceiling restricts the branching variable to ≥ Bound (right child).
	Ceiling
)

// String returns "floor" or "ceiling".
func (d Direction) String() string {
	if d == Ceiling {
		return "ceiling"
	}

	return "floor"
}

// Branch is the restriction that distinguishes a child from its parent.
type Branch struct {
	Var   string
	Dir   Direction
	Bound float64
}

// Integrality is the tri-state classification of a node's relaxation.
type Integrality int

const (
	// Unclassified: the relaxation is not solved/optimal or not yet classified.
	Unclassified Integrality = iota

	// Integral: every non-continuous variable is within Eps of an integer.
	Integral

	// Fractional: at least one non-continuous variable is not.
	Fractional
)

// String returns "unclassified", "integral" or "fractional".
func (i Integrality) String() string {
	switch i {
	case Integral:
		return "integral"
	case Fractional:
		return "fractional"
	default:
		return "unclassified"
	}
}

// Node is one subproblem of the search tree.
//
// Model is owned exclusively by the node and is never modified once a child
// has been derived from it. A node is solved at most once.
type Node struct {
	ID     int     // creation sequence number
	Parent int     // parent ID, -1 for the root
	Depth  int     // 0 for the root
	Branch *Branch // nil for the root
	Model  *model.Model

	LocalLower float64 // 0 until classified
	LocalUpper float64 // +Inf until classified

	Integrality Integrality
	Status      lp.Status
	Objective   float64
	solved      bool

	Relaxed    map[string]float64 // relaxation point (Optimal only)
	Rounded    map[string]float64 // integer variables rounded, continuous as-is
	Fractional []string           // branching candidates in declaration order
}

// NewRoot wraps a copy of base as the root node. base itself is not retained.
func NewRoot(base *model.Model, id int) *Node {
	return &Node{
		ID:         id,
		Parent:     -1,
		Model:      base.Clone(),
		LocalLower: 0,
		LocalUpper: math.Inf(1),
	}
}

// NewChild clones the parent's model and applies b to the clone:
// Floor adds  Var ≤ Bound,  Ceiling adds  Var ≥ Bound.
func NewChild(parent *Node, b Branch, id int) (*Node, error) {
	m := parent.Model.Clone()
	op := model.LE
	if b.Dir == Ceiling {
		op = model.GE
	}
	if err := m.AddBound(b.Var, op, b.Bound); err != nil {
		return nil, fmt.Errorf("bnb: branch node %d on %s: %w", parent.ID, b.Var, err)
	}
	br := b

	return &Node{
		ID:         id,
		Parent:     parent.ID,
		Depth:      parent.Depth + 1,
		Branch:     &br,
		Model:      m,
		LocalLower: 0,
		LocalUpper: math.Inf(1),
	}, nil
}

// Solved reports whether the node's relaxation has been solved.
func (n *Node) Solved() bool { return n.solved }

// solve runs the relaxation once; later calls are no-ops.
func (n *Node) solve(ctx context.Context, s lp.Solver) error {
	if n.solved {
		return nil
	}
	sol, err := s.Solve(ctx, n.Model)
	if err != nil {
		return &SolverFaultError{NodeID: n.ID, Err: err}
	}
	n.solved = true
	n.Status = sol.Status
	if sol.Status != lp.Optimal {
		return nil
	}
	n.Objective = sol.Objective
	n.Relaxed = make(map[string]float64, len(sol.Values))
	for k, v := range sol.Values {
		n.Relaxed[k] = v
	}

	return nil
}

// classify derives Rounded, Fractional and Integrality from the stored
// relaxation. It depends only on Relaxed, so repeated calls agree.
//
// Rounding rule for a non-continuous variable with value x:
//   - |x − round(x)| ≤ eps  ⇒  round(x)   (integral within tolerance),
//   - otherwise             ⇒  ⌊x⌋        (candidate for branching).
func (n *Node) classify(nonContinuous []string, eps float64) Integrality {
	if !n.solved || n.Status != lp.Optimal {
		n.Integrality = Unclassified

		return n.Integrality
	}
	n.Rounded = make(map[string]float64, len(n.Relaxed))
	for k, v := range n.Relaxed {
		n.Rounded[k] = v
	}
	n.Fractional = n.Fractional[:0]
	for _, name := range nonContinuous {
		x := n.Relaxed[name]
		r := math.Round(x)
		if math.Abs(x-r) <= eps {
			n.Rounded[name] = r
			continue
		}
		n.Rounded[name] = math.Floor(x)
		n.Fractional = append(n.Fractional, name)
	}
	if len(n.Fractional) == 0 {
		n.Integrality = Integral
	} else {
		n.Integrality = Fractional
	}

	return n.Integrality
}

// Snapshot returns a deep copy of the node, model included.
func (n *Node) Snapshot() *Node {
	c := *n
	c.Model = n.Model.Clone()
	if n.Branch != nil {
		b := *n.Branch
		c.Branch = &b
	}
	c.Relaxed = copyValues(n.Relaxed)
	c.Rounded = copyValues(n.Rounded)
	if n.Fractional != nil {
		c.Fractional = append([]string(nil), n.Fractional...)
	}

	return &c
}

func copyValues(in map[string]float64) map[string]float64 {
	if in == nil {
		return nil
	}
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}

	return out
}
