package model

import "math"

// Check verifies that values satisfies every bound, integrality requirement
// and constraint of m within tol. It returns nil or the first *Violation.
//
// Integrality is checked against NonContinuous, so a linearized model still
// enforces the requirements recorded before relaxation.
//
// Complexity: O(V + nnz).
func (m *Model) Check(values map[string]float64, tol float64) error {
	for _, v := range m.vars {
		x := values[v.Name]
		if x < v.Lower-tol {
			return &Violation{Kind: "bound", Name: v.Name, Value: x, Target: v.Lower}
		}
		if x > v.Upper+tol {
			return &Violation{Kind: "bound", Name: v.Name, Value: x, Target: v.Upper}
		}
	}
	for _, name := range m.NonContinuous() {
		x := values[name]
		if r := math.Round(x); math.Abs(x-r) > tol {
			return &Violation{Kind: "integrality", Name: name, Value: x, Target: r}
		}
	}
	for _, c := range m.cons {
		act := c.Activity(values)
		var bad bool
		switch c.Op {
		case LE:
			bad = act > c.RHS+tol
		case GE:
			bad = act < c.RHS-tol
		case EQ:
			bad = math.Abs(act-c.RHS) > tol
		}
		if bad {
			return &Violation{Kind: "constraint", Name: c.Name, Value: act, Target: c.RHS}
		}
	}

	return nil
}
