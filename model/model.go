package model

import (
	"fmt"
	"math"
)

// Model is a linear program with optional integrality requirements.
//
// A Model is not safe for concurrent mutation. The engine gives every search
// node its own Clone, so nodes never share a Model value.
type Model struct {
	name  string
	sense Sense

	vars  []Variable
	index map[string]int // variable name -> position in vars
	cons  []Constraint

	// integers lists the variables that were non-continuous before Linearize,
	// in declaration order. It lives on the instance (and its clones) only.
	integers   []string
	linearized bool

	// branchRows counts restrictions added through AddBound (naming only).
	branchRows int
}

// VarOption adjusts a Variable before it is added to a Model.
type VarOption func(*Variable)

// WithBounds sets both bounds of the variable.
func WithBounds(lower, upper float64) VarOption {
	return func(v *Variable) {
		v.Lower = lower
		v.Upper = upper
	}
}

// WithLower sets the lower bound of the variable (default 0).
func WithLower(lower float64) VarOption {
	return func(v *Variable) { v.Lower = lower }
}

// WithUpper sets the upper bound of the variable (default +Inf, 1 for Binary).
func WithUpper(upper float64) VarOption {
	return func(v *Variable) { v.Upper = upper }
}

// New returns an empty model with the given name and objective sense.
func New(name string, sense Sense) *Model {
	return &Model{
		name:  name,
		sense: sense,
		index: make(map[string]int),
	}
}

// Name returns the model name.
func (m *Model) Name() string { return m.name }

// Sense returns the objective direction.
func (m *Model) Sense() Sense { return m.sense }

// NumVars returns the number of declared variables.
func (m *Model) NumVars() int { return len(m.vars) }

// NumConstraints returns the number of constraints, branching rows included.
func (m *Model) NumConstraints() int { return len(m.cons) }

// Linearized reports whether Linearize has been applied to this instance.
func (m *Model) Linearized() bool { return m.linearized }

// AddVar declares a variable. Defaults: Lower=0, Upper=+Inf (Binary: [0,1]).
//
// Errors: ErrEmptyName, ErrDuplicateVar, ErrInvalidBounds, ErrInvalidCoeff.
func (m *Model) AddVar(name string, domain Domain, objective float64, opts ...VarOption) error {
	if name == "" {
		return ErrEmptyName
	}
	if _, dup := m.index[name]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicateVar, name)
	}
	if math.IsNaN(objective) || math.IsInf(objective, 0) {
		return fmt.Errorf("%w: objective of %q", ErrInvalidCoeff, name)
	}

	v := Variable{Name: name, Domain: domain, Lower: 0, Upper: math.Inf(1), Objective: objective}
	if domain == Binary {
		v.Upper = 1
	}
	for _, opt := range opts {
		opt(&v)
	}
	if domain == Binary {
		v.Lower = math.Max(v.Lower, 0)
		v.Upper = math.Min(v.Upper, 1)
	}
	if math.IsNaN(v.Lower) || math.IsNaN(v.Upper) || v.Lower > v.Upper {
		return fmt.Errorf("%w: %q [%g, %g]", ErrInvalidBounds, name, v.Lower, v.Upper)
	}

	m.index[name] = len(m.vars)
	m.vars = append(m.vars, v)

	return nil
}

// AddConstraint appends Σ coeffs[v]·v op rhs. The coefficient map is copied.
//
// Errors: ErrEmptyName, ErrUnknownVar, ErrInvalidCoeff, ErrInvalidOperator.
func (m *Model) AddConstraint(name string, coeffs map[string]float64, op Operator, rhs float64) error {
	if name == "" {
		return ErrEmptyName
	}
	if op != LE && op != GE && op != EQ {
		return fmt.Errorf("%w: constraint %q", ErrInvalidOperator, name)
	}
	if math.IsNaN(rhs) || math.IsInf(rhs, 0) {
		return fmt.Errorf("%w: rhs of %q", ErrInvalidCoeff, name)
	}
	c := Constraint{Name: name, Coeffs: make(map[string]float64, len(coeffs)), Op: op, RHS: rhs}
	for v, a := range coeffs {
		if _, ok := m.index[v]; !ok {
			return fmt.Errorf("%w: %q in constraint %q", ErrUnknownVar, v, name)
		}
		if math.IsNaN(a) || math.IsInf(a, 0) {
			return fmt.Errorf("%w: %q in constraint %q", ErrInvalidCoeff, v, name)
		}
		c.Coeffs[v] = a
	}
	m.cons = append(m.cons, c)

	return nil
}

// AddBound appends the branching restriction  name ≤ value  (op == LE)
// or  name ≥ value  (op == GE) as a single-variable constraint.
//
// Errors: ErrUnknownVar, ErrInvalidOperator, ErrInvalidCoeff.
func (m *Model) AddBound(name string, op Operator, value float64) error {
	if _, ok := m.index[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownVar, name)
	}
	if op != LE && op != GE {
		return fmt.Errorf("%w: branching bound must be <= or >=", ErrInvalidOperator)
	}
	m.branchRows++
	row := fmt.Sprintf("branch%d:%s%s%g", m.branchRows, name, op, value)

	return m.AddConstraint(row, map[string]float64{name: 1}, op, value)
}

// Var returns the variable with the given name.
func (m *Model) Var(name string) (Variable, bool) {
	i, ok := m.index[name]
	if !ok {
		return Variable{}, false
	}

	return m.vars[i], true
}

// Vars returns a copy of the variables in declaration order.
func (m *Model) Vars() []Variable {
	out := make([]Variable, len(m.vars))
	copy(out, m.vars)

	return out
}

// Constraints returns the constraints in insertion order. The slice is a
// copy; the coefficient maps are shared and must be treated as read-only.
func (m *Model) Constraints() []Constraint {
	out := make([]Constraint, len(m.cons))
	copy(out, m.cons)

	return out
}

// Clone returns a deep, independent copy. Adding constraints or bounds to
// the clone never affects m, and vice versa.
//
// Complexity: O(V + nnz).
func (m *Model) Clone() *Model {
	c := &Model{
		name:       m.name,
		sense:      m.sense,
		vars:       make([]Variable, len(m.vars)),
		index:      make(map[string]int, len(m.index)),
		cons:       make([]Constraint, len(m.cons)),
		linearized: m.linearized,
		branchRows: m.branchRows,
	}
	copy(c.vars, m.vars)
	for k, v := range m.index {
		c.index[k] = v
	}
	for i := range m.cons {
		c.cons[i] = m.cons[i].clone()
	}
	if m.integers != nil {
		c.integers = make([]string, len(m.integers))
		copy(c.integers, m.integers)
	}

	return c
}

// Linearize drops integrality: every non-continuous variable becomes
// continuous (binary variables keep their [0,1] bounds) and its name is
// recorded on this instance. Calling Linearize twice is a no-op.
func (m *Model) Linearize() {
	if m.linearized {
		return
	}
	m.integers = m.integers[:0]
	for i := range m.vars {
		if m.vars[i].Domain == Continuous {
			continue
		}
		m.integers = append(m.integers, m.vars[i].Name)
		m.vars[i].Domain = Continuous
	}
	m.linearized = true
}

// NonContinuous returns the names of the variables that carry integrality
// requirements, in declaration order. For a linearized model these are the
// names recorded by Linearize.
func (m *Model) NonContinuous() []string {
	if m.linearized {
		out := make([]string, len(m.integers))
		copy(out, m.integers)

		return out
	}
	var out []string
	for _, v := range m.vars {
		if v.Domain != Continuous {
			out = append(out, v.Name)
		}
	}

	return out
}

// Maximized returns m unchanged when it maximizes. For a minimization model
// it returns a clone whose objective is negated and whose sense is Maximize,
// so that max(-f) = -min(f). The boolean reports whether negation happened.
func (m *Model) Maximized() (*Model, bool) {
	if m.sense == Maximize {
		return m, false
	}
	c := m.Clone()
	c.sense = Maximize
	for i := range c.vars {
		c.vars[i].Objective = -c.vars[i].Objective
	}

	return c, true
}

// Objective evaluates the objective at values; missing variables count as 0.
func (m *Model) Objective(values map[string]float64) float64 {
	var sum float64
	for _, v := range m.vars {
		sum += v.Objective * values[v.Name]
	}

	return sum
}
