package bnb

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/katalvlaran/milp/lp"
	"github.com/katalvlaran/milp/model"
)

// Phase is the engine state machine position.
type Phase int

const (
	// PhaseInit: the root relaxation has not been solved yet.
	PhaseInit Phase = iota

	// PhaseRootSolved: the root bound is known and the root node is queued.
	PhaseRootSolved

	// PhaseSearching: nodes are being popped and processed.
	PhaseSearching

	// PhaseTerminated: the gap is closed or the queue is exhausted.
	PhaseTerminated
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "init"
	case PhaseRootSolved:
		return "root_solved"
	case PhaseSearching:
		return "searching"
	case PhaseTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Engine runs branch-and-bound searches with a fixed solver and options.
// An Engine holds no per-run state, so sequential Solve calls never
// contaminate each other.
type Engine struct {
	solver lp.Solver
	opts   Options
}

// New returns an Engine using solver for every relaxation.
// Options are validated when Solve is called.
func New(solver lp.Solver, opts ...Option) *Engine {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Engine{solver: solver, opts: o}
}

// Solve is shorthand for New(solver, opts...).Solve(ctx, base).
func Solve(ctx context.Context, base *model.Model, solver lp.Solver, opts ...Option) (Result, error) {
	return New(solver, opts...).Solve(ctx, base)
}

// searchState is everything one run owns: queue, bounds, incumbent and
// bookkeeping. It is created per Solve call and never shared.
type searchState struct {
	opts Options
	log  *zap.Logger
	base *model.Model

	phase     Phase
	queue     []*Node
	nextID    int
	incumbent *Node
	upper     float64
	lower     float64
	iteration int
	history   []BoundPoint
	stats     Stats

	// nonContinuous and objCoef belong to the linearized root model of this run.
	nonContinuous []string
	objCoef       map[string]float64

	negated  bool // the model minimizes; internal values are negated
	deadline time.Time
}

// Solve runs the search on a copy of base; base is never modified.
//
// Returns:
//   - (Result{Status: StatusOptimal}, nil) with the incumbent's rounded point;
//     Result.Verified is false (and Result.Err reports ErrUnverified) when
//     that point violates base;
//   - (Result{Status: StatusInfeasible}, nil) when the tree is exhausted
//     without an integer point (Result.Err reports ErrNoIncumbent);
//   - ErrModelInfeasible / ErrModelUnbounded for a root that cannot bound the search;
//   - a *SolverFaultError when a relaxation solve fails;
//   - ErrNodeLimit / ErrTimeLimit / ErrCanceled with a StatusStopped partial Result.
func (e *Engine) Solve(ctx context.Context, base *model.Model) (Result, error) {
	if base == nil {
		return Result{}, ErrNilModel
	}
	if e.solver == nil {
		return Result{}, ErrNilSolver
	}
	opts := e.opts
	if err := opts.validate(); err != nil {
		return Result{}, err
	}

	started := time.Now()
	st := &searchState{
		opts:  opts,
		log:   opts.Logger.With(zap.String("model", base.Name())),
		base:  base,
		phase: PhaseInit,
		upper: math.Inf(1),
		lower: opts.InitialLower,
	}
	if opts.TimeLimit > 0 {
		st.deadline = started.Add(opts.TimeLimit)
	}

	// INIT → ROOT_SOLVED
	work := base.Clone()
	if work.Sense() == model.Minimize {
		work, st.negated = work.Maximized()
	}
	work.Linearize()
	st.nonContinuous = work.NonContinuous()
	st.objCoef = make(map[string]float64, work.NumVars())
	for _, v := range work.Vars() {
		st.objCoef[v.Name] = v.Objective
	}

	root := NewRoot(work, st.newID())
	st.stats.Created++
	if err := root.solve(ctx, e.solver); err != nil {
		if ctx.Err() != nil {
			return Result{Status: StatusStopped, Stats: st.stats}, fmt.Errorf("%w: %w", ErrCanceled, ctx.Err())
		}
		return Result{}, err
	}
	st.emit(Event{Kind: EventNodeSolved, NodeID: root.ID, Objective: root.Objective})
	switch root.Status {
	case lp.Infeasible:
		st.log.Info("root relaxation infeasible")
		return Result{Status: StatusInfeasible, Stats: st.stats}, ErrModelInfeasible
	case lp.Unbounded:
		st.log.Info("root relaxation unbounded")
		return Result{Status: StatusUnbounded, Stats: st.stats}, ErrModelUnbounded
	}
	st.upper = root.Objective
	st.push(root)
	st.phase = PhaseRootSolved
	st.log.Debug("root solved",
		zap.Float64("bound", root.Objective),
		zap.Int("integer_vars", len(st.nonContinuous)))

	// SEARCHING
	st.phase = PhaseSearching
	for len(st.queue) > 0 && st.open() {
		if err := st.checkLimits(ctx); err != nil {
			st.log.Info("search stopped", zap.Error(err), zap.Int("processed", st.stats.Processed))
			res := st.result(StatusStopped)
			st.warnUnverified(res)

			return res, err
		}
		n := st.pop()
		if err := e.process(ctx, st, n); err != nil {
			if ctx.Err() != nil {
				return st.result(StatusStopped), fmt.Errorf("%w: %w", ErrCanceled, ctx.Err())
			}
			return Result{}, err
		}
		st.refreshUpper()
		st.record()
	}

	// TERMINATED
	st.phase = PhaseTerminated
	if st.incumbent == nil {
		st.log.Info("search exhausted without integer solution",
			zap.Int("processed", st.stats.Processed),
			zap.Duration("elapsed", time.Since(started)))
		res := st.result(StatusInfeasible)
		res.GapPercent = 0

		return res, nil
	}
	gap := st.result(StatusOptimal).GapPercent
	st.upper = st.lower
	res := st.result(StatusOptimal)
	res.GapPercent = gap
	st.log.Info("search finished",
		zap.Float64("objective", res.Objective),
		zap.Float64("gap_percent", gap),
		zap.Int("processed", st.stats.Processed),
		zap.Int("created", st.stats.Created),
		zap.Duration("elapsed", time.Since(started)))
	st.warnUnverified(res)

	return res, nil
}

// process evaluates one popped node: classify, update the incumbent, then
// prune or branch. Only solver faults are returned as errors.
func (e *Engine) process(ctx context.Context, st *searchState, n *Node) error {
	st.stats.Processed++
	if err := n.solve(ctx, e.solver); err != nil {
		return err
	}

	switch n.Status {
	case lp.Infeasible:
		st.prune(n, PruneInfeasible)
		return nil
	case lp.Unbounded:
		st.prune(n, PruneUnbounded)
		return nil
	}

	if n.classify(st.nonContinuous, st.opts.Eps) == Integral {
		n.LocalLower, n.LocalUpper = n.Objective, n.Objective
		st.offer(n, true)
		st.prune(n, PruneInteger)

		return nil
	}

	n.LocalUpper = n.Objective
	n.LocalLower = st.roundedObjective(n)
	// A rounded point above its own relaxation bound cannot be feasible.
	if n.LocalLower <= n.LocalUpper+st.opts.Eps {
		st.offer(n, false)
	}
	if math.Abs(n.LocalUpper-n.LocalLower) < st.opts.Eps {
		st.prune(n, PruneGap)
		return nil
	}
	if st.opts.BoundPruning && st.incumbent != nil && n.LocalUpper <= st.lower+st.opts.Eps {
		st.prune(n, PruneDominated)
		return nil
	}

	return e.branch(ctx, st, n)
}

// branch splits n on its first fractional variable v with rounded value f:
// left child v ≤ f, right child v ≥ f+1. Each child is solved immediately
// so that its relaxation objective can serve as a cached upper bound.
func (e *Engine) branch(ctx context.Context, st *searchState, n *Node) error {
	v := n.Fractional[0]
	f := n.Rounded[v]
	splits := [2]Branch{
		{Var: v, Dir: Floor, Bound: f},
		{Var: v, Dir: Ceiling, Bound: f + 1},
	}
	for _, b := range splits {
		child, err := NewChild(n, b, st.newID())
		if err != nil {
			return err
		}
		st.stats.Created++
		if err = child.solve(ctx, e.solver); err != nil {
			return err
		}
		st.emit(Event{Kind: EventNodeSolved, NodeID: child.ID, Depth: child.Depth, Objective: child.Objective})
		st.push(child)
	}
	st.stats.Branched++
	st.log.Debug("node branched",
		zap.Int("node", n.ID),
		zap.Int("depth", n.Depth),
		zap.String("var", v),
		zap.Float64("value", n.Relaxed[v]),
		zap.Float64("floor", f))
	st.emit(Event{Kind: EventNodeBranched, NodeID: n.ID, Depth: n.Depth, Objective: n.Objective})

	return nil
}

func (st *searchState) newID() int {
	id := st.nextID
	st.nextID++

	return id
}

func (st *searchState) push(n *Node) {
	st.queue = append(st.queue, n)
	if len(st.queue) > st.stats.MaxQueue {
		st.stats.MaxQueue = len(st.queue)
	}
}

// pop removes the head of the FIFO queue.
func (st *searchState) pop() *Node {
	n := st.queue[0]
	st.queue[0] = nil
	st.queue = st.queue[1:]

	return n
}

// open reports whether the gap is still above Eps. Before an incumbent exists
// the lower bound is only a threshold, so the search stays open.
func (st *searchState) open() bool {
	return st.incumbent == nil || st.upper-st.lower > st.opts.Eps
}

func (st *searchState) checkLimits(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrCanceled, err)
	}
	if st.opts.MaxNodes > 0 && st.stats.Processed >= st.opts.MaxNodes {
		return ErrNodeLimit
	}
	if !st.deadline.IsZero() && time.Now().After(st.deadline) {
		return ErrTimeLimit
	}

	return nil
}

// roundedObjective is the rounding heuristic: Σ rounded·c over the
// non-continuous variables. The rounded point is not checked for feasibility.
func (st *searchState) roundedObjective(n *Node) float64 {
	var sum float64
	for _, name := range st.nonContinuous {
		sum += n.Rounded[name] * st.objCoef[name]
	}

	return sum
}

// offer makes a snapshot of n the incumbent when its local lower bound beats
// the global lower bound. An integral node is also accepted when no incumbent
// exists yet, so models whose optimum is ≤ InitialLower still report it; a
// rounding candidate must always beat the bound strictly.
func (st *searchState) offer(n *Node, integral bool) {
	first := integral && st.incumbent == nil
	if !first && n.LocalLower <= st.lower {
		return
	}
	st.lower = n.LocalLower
	st.incumbent = n.Snapshot()
	st.stats.IncumbentUpdates++
	st.log.Debug("incumbent updated",
		zap.Int("node", n.ID),
		zap.Float64("lower", st.lower),
		zap.Stringer("integrality", n.Integrality))
	st.emit(Event{Kind: EventIncumbent, NodeID: n.ID, Depth: n.Depth, Objective: n.LocalLower})
}

func (st *searchState) prune(n *Node, reason PruneReason) {
	switch reason {
	case PruneInfeasible, PruneUnbounded:
		st.stats.PrunedInfeasible++
	case PruneInteger:
		st.stats.PrunedInteger++
	case PruneGap:
		st.stats.PrunedGap++
	case PruneDominated:
		st.stats.PrunedDominated++
	}
	st.log.Debug("node pruned",
		zap.Int("node", n.ID),
		zap.Int("depth", n.Depth),
		zap.Stringer("reason", reason),
		zap.Stringer("status", n.Status))
	st.emit(Event{Kind: EventNodePruned, NodeID: n.ID, Depth: n.Depth, Reason: reason, Objective: n.Objective})
}

// refreshUpper sets the global upper bound to the best cached relaxation
// objective among queued feasible nodes, or to the lower bound when none is
// left. The bound never increases, and never drops below a real incumbent.
func (st *searchState) refreshUpper() {
	best := math.Inf(-1)
	found := false
	for _, q := range st.queue {
		if q.solved && q.Status == lp.Optimal && q.Objective > best {
			best, found = q.Objective, true
		}
	}
	if !found || (st.incumbent != nil && best < st.lower) {
		best = st.lower
	}
	if best < st.upper {
		st.upper = best
	}
}

// record appends the iteration's bound pair in the model's own sense.
func (st *searchState) record() {
	st.iteration++
	up, lo := st.external(st.upper, st.bound())
	st.history = append(st.history, BoundPoint{Iteration: st.iteration, Upper: up, Lower: lo})
	st.emit(Event{Kind: EventBounds, Iteration: st.iteration, Upper: st.upper, Lower: st.bound(), QueueLen: len(st.queue)})
}

// bound is the lower bound as reported outside the engine. InitialLower is
// only an acceptance threshold, so nothing is reported until an incumbent
// exists.
func (st *searchState) bound() float64 {
	if st.incumbent == nil {
		return math.Inf(-1)
	}

	return st.lower
}

// external converts internal (maximization) bounds to the model's sense.
func (st *searchState) external(upper, lower float64) (float64, float64) {
	if st.negated {
		return -lower, -upper
	}

	return upper, lower
}

func (st *searchState) emit(ev Event) {
	if st.opts.Observer == nil {
		return
	}
	if ev.Kind != EventBounds {
		ev.Iteration = st.iteration
		ev.Upper, ev.Lower = st.upper, st.bound()
	}
	ev.QueueLen = len(st.queue)
	st.opts.Observer.Observe(ev)
}

func (st *searchState) result(status Status) Result {
	up, lo := st.external(st.upper, st.bound())
	res := Result{
		Status:     status,
		Upper:      up,
		Lower:      lo,
		GapPercent: gapPercent(up, lo),
		History:    st.history,
		Stats:      st.stats,
	}
	if st.incumbent != nil {
		res.Incumbent = st.incumbent
		res.Solution = copyValues(st.incumbent.Rounded)
		res.Objective = st.lower
		if st.negated {
			res.Objective = -st.lower
		}
		res.Violation = st.base.Check(res.Solution, st.opts.Eps)
		res.Verified = res.Violation == nil
	}

	return res
}

// warnUnverified logs an incumbent that fails model.Check on the input model.
func (st *searchState) warnUnverified(res Result) {
	if res.Solution == nil || res.Verified {
		return
	}
	st.log.Warn("incumbent violates the model",
		zap.Int("node", res.Incumbent.ID),
		zap.Float64("objective", res.Objective),
		zap.Error(res.Violation))
}

// IsStopped reports whether err ended a search early (limit or cancellation).
func IsStopped(err error) bool {
	return errors.Is(err, ErrNodeLimit) || errors.Is(err, ErrTimeLimit) || errors.Is(err, ErrCanceled)
}
