// Package bnb solves small mixed-integer linear programs by branch-and-bound
// over successive LP relaxations.
//
// The search keeps a FIFO queue of nodes. Each node owns an independent copy
// of the model with the branching restrictions of its path applied, its own
// local bound interval and, once solved, its relaxation point.
//
// Algorithm outline (maximization; minimization models are negated up front):
//  1. Clone and linearize the base model, solve its relaxation. An infeasible
//     or unbounded root aborts with ErrModelInfeasible / ErrModelUnbounded.
//     The root objective is the initial global upper bound, the global lower
//     bound starts at Options.InitialLower (0 by default). Until an incumbent
//     exists that value is only an acceptance threshold: history, events and
//     Result report the lower bound as −Inf.
//  2. While the queue is non-empty and upper − lower > Eps, pop the head node:
//     a. classify its relaxation: every non-continuous variable within Eps of
//     an integer ⇒ integer node, else fractional;
//     b. integer node: local bounds = objective; improve the incumbent if the
//     objective beats the global lower bound or no incumbent exists; prune;
//     c. fractional node: local upper = objective, local lower = Σ rounded·c
//     over the non-continuous variables (rounding heuristic); improve the
//     incumbent if that beats the global lower bound without exceeding the
//     node's own relaxation bound; prune when |local upper − local lower| is
//     below Eps, otherwise branch on the first fractional variable v:
//     left child v ≤ ⌊v⌋, right child v ≥ ⌊v⌋+1, both appended to the queue;
//     d. refresh the global upper bound as the best cached relaxation
//     objective among queued feasible nodes and record the bound pair.
//  3. Close the gap (upper = lower), report the incumbent's rounded point and
//     check it against the base model.
//
// Pruning order: infeasible/unbounded relaxation, integer relaxation, local
// gap below Eps, and (opt-in, Options.BoundPruning) local upper bound not
// above the incumbent.
//
// Rounding heuristic caveat: the lower bound of a fractional node is the
// objective of its rounded point, and the rounded point is not checked
// against the constraints. On instances where rounding down leaves the
// feasible region the reported incumbent can be infeasible. Every result
// with an incumbent is checked with Model.Check at Eps: Result.Verified is
// false, Result.Violation names the broken bound or row, Result.Err returns
// ErrUnverified and a warning is logged.
//
// Each child is solved once, right after creation, and its relaxation
// objective is cached; the upper-bound refresh reads those cached values
// instead of re-solving the queue.
//
// Complexity: exponential in the number of integer variables in the worst
// case; one LP solve per created node.
//
// Errors (sentinel):
//   - ErrNilModel, ErrNilSolver, ErrBadOptions  invalid inputs.
//   - ErrModelInfeasible, ErrModelUnbounded     the root relaxation cannot bound the search.
//   - ErrSolverFault                            (via *SolverFaultError) the LP solver failed.
//   - ErrNodeLimit, ErrTimeLimit, ErrCanceled   the search was stopped; Result holds the partial state.
//   - ErrNoIncumbent, ErrUnverified             via Result.Err: no incumbent, or one that fails the check.
package bnb
