// Package model describes small mixed-integer linear programs.
//
// A Model is plain data: named decision variables (continuous, integer or
// binary, each with bounds and an objective coefficient), a linear objective
// with a sense (maximize or minimize) and a list of linear constraints.
//
// The branch-and-bound engine never interprets constraint structure. It only
//   - clones a model (Clone) so sibling subtrees never share state,
//   - appends single-variable branching restrictions (AddBound),
//   - relaxes integrality once at the root (Linearize) and keeps the list of
//     originally non-continuous variables on the model instance itself.
//
// Models can be written by hand:
//
//	m := model.New("production", model.Maximize)
//	_ = m.AddVar("x1", model.Integer, 100)
//	_ = m.AddVar("x2", model.Integer, 150)
//	_ = m.AddConstraint("c1", map[string]float64{"x1": 2, "x2": 1}, model.LE, 10)
//	_ = m.AddConstraint("c2", map[string]float64{"x1": 3, "x2": 6}, model.LE, 40)
//
// or loaded from YAML with Load / LoadFile (see yaml.go for the format).
//
// Errors (sentinel):
//   - ErrEmptyName        a model, variable or constraint has no name.
//   - ErrDuplicateVar     a variable name is declared twice.
//   - ErrUnknownVar       a constraint or bound references an undeclared variable.
//   - ErrInvalidBounds    lower > upper, or a NaN bound.
//   - ErrInvalidCoeff     a NaN or ±Inf coefficient / right-hand side.
//   - ErrInvalidOperator  an operator outside {LE, GE, EQ}.
//   - ErrInvalidFile      a YAML document failed decoding or validation.
package model
