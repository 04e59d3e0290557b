// Package lp solves the linear-programming relaxation of a model.Model.
//
// The branch-and-bound engine only needs one capability from this package:
//
//	Solve(ctx, model) → (status, objective value, variable → value)
//
// which is captured by the Solver interface. Infeasibility and
// unboundedness are ordinary outcomes reported through Solution.Status;
// an error from Solve always means the solver itself failed (ErrSolverFault).
//
// Simplex is the default implementation. It converts the model to the
// standard form  min cᵀy  s.t.  A·y = b, y ≥ 0  and delegates to gonum's
// optimize/convex/lp.Simplex:
//
//   - finite lower bounds shift the variable (x = l + y),
//   - variables bounded only from above are mirrored (x = u − y),
//   - free variables are split (x = y⁺ − y⁻),
//   - finite upper bounds and inequality rows receive slack columns,
//   - rows with negative right-hand sides are negated,
//   - all-zero rows and columns are resolved before the call, because
//     gonum rejects them.
//
// Integrality is ignored: a Solver always solves the relaxation.
package lp
