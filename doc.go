// Package milp is a small branch-and-bound solver for mixed-integer linear
// programs.
//
// What is in the box?
//
//   - model/: Model, Variable, Constraint; build by hand or load from YAML
//   - lp/: LP relaxation Solver interface and gonum dense simplex adapter
//   - bnb/: branch-and-bound engine with a FIFO node queue, pruning,
//     branching, incumbent and bound bookkeeping, events and a final
//     feasibility check of the incumbent
//   - metrics/: Prometheus observer for engine events
//   - report/: terminal rendering of a Result and its bound history
//   - cmd/milp: command line tool to solve and validate YAML models
//
// Quick start:
//
//	m, _ := model.LoadFile("testdata/production.yaml")
//	res, err := bnb.Solve(ctx, m, lp.NewSimplex(), bnb.WithEps(1e-3))
//	if err != nil {
//		// ErrModelInfeasible, ErrModelUnbounded, *SolverFaultError, ErrNodeLimit, ...
//	}
//	fmt.Println(res.Status, res.Objective, res.Solution)
//
// The engine maximizes natively; minimization models are negated internally
// and reported back in their own sense. Integrality is checked with an
// absolute tolerance (Eps, default 1e-3) and the search stops once the
// global upper and lower bounds are within Eps of each other.
//
// Scope: problems of tens of integer variables. Relaxations are solved from
// scratch with a dense simplex, nodes are explored breadth-first and
// branching always picks the first fractional variable.
package milp
