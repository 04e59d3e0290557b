// Package bnb_test exercises the branch-and-bound engine end to end with the
// gonum-backed simplex relaxation solver.
// Focus:
//  1. Known optima (production planning, 0/1 knapsack vs brute force).
//  2. Infeasible roots and trees exhausted without an integer point.
//  3. Bound bookkeeping: monotone history, closed gap, minimization sense.
//  4. Limits, cancellation and solver faults.
package bnb_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/katalvlaran/milp/bnb"
	"github.com/katalvlaran/milp/lp"
	"github.com/katalvlaran/milp/model"
)

const tol = 1e-6

func TestSolve_Production(t *testing.T) {
	m := productionModel(t)

	res, err := bnb.Solve(context.Background(), m, lp.NewSimplex(), bnb.WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	require.Equal(t, bnb.StatusOptimal, res.Status)

	assert.InDelta(t, 1000, res.Objective, tol)
	assert.InDelta(t, 1, res.Solution["x1"], tol)
	assert.InDelta(t, 6, res.Solution["x2"], tol)
	assert.InDelta(t, 0, res.GapPercent, tol)
	assert.Equal(t, res.Upper, res.Lower)
	assert.NoError(t, m.Check(res.Solution, tol))
	assert.True(t, res.Verified)
	assert.NoError(t, res.Err())

	require.NotEmpty(t, res.History)
	assert.InDelta(t, 1050, res.History[0].Upper, 1e-3, "root children bound")
	assert.InDelta(t, 950, res.History[0].Lower, tol, "rounded root point")
}

func TestSolve_BaseModelUntouched(t *testing.T) {
	m := productionModel(t)

	_, err := bnb.Solve(context.Background(), m, lp.NewSimplex())
	require.NoError(t, err)

	assert.False(t, m.Linearized())
	assert.Equal(t, 2, m.NumConstraints())
	assert.Equal(t, []string{"x1", "x2"}, m.NonContinuous())
}

func TestSolve_RepeatedRunsAgree(t *testing.T) {
	m := productionModel(t)
	eng := bnb.New(lp.NewSimplex())

	first, err := eng.Solve(context.Background(), m)
	require.NoError(t, err)
	second, err := eng.Solve(context.Background(), m)
	require.NoError(t, err)

	assert.Equal(t, first.Objective, second.Objective)
	assert.Equal(t, first.Solution, second.Solution)
	assert.Equal(t, first.Stats, second.Stats)
	assert.Equal(t, first.History, second.History)
}

func TestSolve_InfeasibleRoot(t *testing.T) {
	m := model.New("contradiction", model.Maximize)
	require.NoError(t, m.AddVar("x", model.Integer, 1))
	require.NoError(t, m.AddConstraint("low", map[string]float64{"x": 1}, model.LE, 1))
	require.NoError(t, m.AddConstraint("high", map[string]float64{"x": 1}, model.GE, 5))

	res, err := bnb.Solve(context.Background(), m, lp.NewSimplex())
	require.ErrorIs(t, err, bnb.ErrModelInfeasible)
	assert.Equal(t, bnb.StatusInfeasible, res.Status)
	assert.Nil(t, res.Solution)
}

func TestSolve_UnboundedRoot(t *testing.T) {
	m := model.New("open", model.Maximize)
	require.NoError(t, m.AddVar("x", model.Integer, 1))
	require.NoError(t, m.AddVar("y", model.Continuous, 0))
	require.NoError(t, m.AddConstraint("link", map[string]float64{"x": 1, "y": -1}, model.LE, 3))

	res, err := bnb.Solve(context.Background(), m, lp.NewSimplex())
	require.ErrorIs(t, err, bnb.ErrModelUnbounded)
	assert.Equal(t, bnb.StatusUnbounded, res.Status)
}

func TestSolve_ExhaustedWithoutIncumbent(t *testing.T) {
	// 2x = 3 has a relaxation point but no integer one. x carries no
	// objective weight, so the rounding heuristic never beats the lower bound.
	m := model.New("parity", model.Maximize)
	require.NoError(t, m.AddVar("x", model.Integer, 0, model.WithUpper(10)))
	require.NoError(t, m.AddVar("y", model.Continuous, 1, model.WithUpper(5)))
	require.NoError(t, m.AddConstraint("odd", map[string]float64{"x": 2}, model.EQ, 3))

	res, err := bnb.Solve(context.Background(), m, lp.NewSimplex())
	require.NoError(t, err)
	assert.Equal(t, bnb.StatusInfeasible, res.Status)
	assert.ErrorIs(t, res.Err(), bnb.ErrNoIncumbent)
	assert.Nil(t, res.Incumbent)
	assert.Equal(t, 3, res.Stats.Created)
	assert.Equal(t, 2, res.Stats.PrunedInfeasible)
}

func TestSolve_IntegralRoot(t *testing.T) {
	m := model.New("integral", model.Maximize)
	require.NoError(t, m.AddVar("x", model.Integer, 1, model.WithUpper(3)))
	require.NoError(t, m.AddVar("y", model.Integer, 2, model.WithUpper(2)))
	require.NoError(t, m.AddConstraint("cap", map[string]float64{"x": 1, "y": 1}, model.LE, 10))

	res, err := bnb.Solve(context.Background(), m, lp.NewSimplex())
	require.NoError(t, err)
	assert.Equal(t, bnb.StatusOptimal, res.Status)
	assert.InDelta(t, 7, res.Objective, tol)
	assert.Equal(t, 1, res.Stats.Processed)
	assert.Equal(t, 1, res.Stats.PrunedInteger)
	assert.Len(t, res.History, 1)
}

func TestSolve_NegativeOptimum(t *testing.T) {
	// Every integer point has a negative objective; it must still be reported.
	m := model.New("costly", model.Maximize)
	require.NoError(t, m.AddVar("x", model.Integer, -2))
	require.NoError(t, m.AddConstraint("floor", map[string]float64{"x": 1}, model.GE, 2))

	res, err := bnb.Solve(context.Background(), m, lp.NewSimplex())
	require.NoError(t, err)
	assert.Equal(t, bnb.StatusOptimal, res.Status)
	assert.InDelta(t, -4, res.Objective, tol)
	assert.InDelta(t, 2, res.Solution["x"], tol)
	assert.True(t, res.Verified)

	// The acceptance threshold 0 is never reported as a bound.
	require.NotEmpty(t, res.History)
	assertBounds(t, res.History)
	assert.InDelta(t, -4, res.History[len(res.History)-1].Lower, tol)
}

func TestSolve_Minimize(t *testing.T) {
	//	min 3x + 2y   s.t. x + y ≥ 4.5, y ≤ 3, x ≤ 10, integer
	m := model.New("cover", model.Minimize)
	require.NoError(t, m.AddVar("x", model.Integer, 3, model.WithUpper(10)))
	require.NoError(t, m.AddVar("y", model.Integer, 2, model.WithUpper(3)))
	require.NoError(t, m.AddConstraint("demand", map[string]float64{"x": 1, "y": 1}, model.GE, 4.5))

	res, err := bnb.Solve(context.Background(), m, lp.NewSimplex())
	require.NoError(t, err)
	require.Equal(t, bnb.StatusOptimal, res.Status)

	assert.InDelta(t, 12, res.Objective, tol)
	assert.InDelta(t, 2, res.Solution["x"], tol)
	assert.InDelta(t, 3, res.Solution["y"], tol)
	assert.InDelta(t, 12, res.Upper, tol)
	assert.InDelta(t, 12, res.Lower, tol)
	assert.NoError(t, m.Check(res.Solution, tol))
	assert.True(t, res.Verified)

	// The rounded root point (1, 3) costs 9, below the relaxation's 10.5, so
	// no incumbent exists after the first iteration: the cost bound is open.
	require.NotEmpty(t, res.History)
	assert.True(t, math.IsInf(res.History[0].Upper, 1))
	assert.InDelta(t, 11, res.History[0].Lower, tol)
	assertBounds(t, res.History)
}

func TestSolve_KnapsackMatchesBruteForce(t *testing.T) {
	k := knapsack10
	m := k.model(t)

	var incumbents []float64
	obs := bnb.ObserverFunc(func(ev bnb.Event) {
		if ev.Kind == bnb.EventIncumbent {
			incumbents = append(incumbents, ev.Lower)
		}
	})

	res, err := bnb.Solve(context.Background(), m, lp.NewSimplex(), bnb.WithObserver(obs))
	require.NoError(t, err)
	require.Equal(t, bnb.StatusOptimal, res.Status)

	assert.InDelta(t, k.bruteForce(), res.Objective, bnb.DefaultEps)
	assert.NoError(t, m.Check(res.Solution, tol))

	// Incumbent improves monotonically.
	require.NotEmpty(t, incumbents)
	for i := 1; i < len(incumbents); i++ {
		assert.Greater(t, incumbents[i], incumbents[i-1])
	}

	assertBounds(t, res.History)

	// A binary tree over 10 variables never holds more than 2^10 leaves.
	assert.LessOrEqual(t, res.Stats.MaxQueue, 1<<len(k.values))
	assert.LessOrEqual(t, res.Stats.Created, 1<<(len(k.values)+1)-1)
	assert.Equal(t, res.Stats.Created, 1+2*res.Stats.Branched)
}

func TestSolve_RejectsCandidateAboveRelaxation(t *testing.T) {
	//	max 5y − x   s.t. x − y ≥ 0.5, y ≤ 2, integer
	// The root relaxation is 7.5 at (2.5, 2); its floor point (2, 2) scores 8
	// and violates the constraint, so it must not become the incumbent.
	m := model.New("guard", model.Maximize)
	require.NoError(t, m.AddVar("x", model.Integer, -1))
	require.NoError(t, m.AddVar("y", model.Integer, 5, model.WithUpper(2)))
	require.NoError(t, m.AddConstraint("lead", map[string]float64{"x": 1, "y": -1}, model.GE, 0.5))

	var owners []int
	obs := bnb.ObserverFunc(func(ev bnb.Event) {
		if ev.Kind == bnb.EventIncumbent {
			owners = append(owners, ev.NodeID)
		}
	})

	res, err := bnb.Solve(context.Background(), m, lp.NewSimplex(), bnb.WithObserver(obs))
	require.NoError(t, err)
	require.Equal(t, bnb.StatusOptimal, res.Status)

	assert.InDelta(t, 7, res.Objective, tol)
	assert.InDelta(t, 3, res.Solution["x"], tol)
	assert.InDelta(t, 2, res.Solution["y"], tol)
	assert.True(t, res.Verified)
	assert.NotContains(t, owners, 0, "root candidate accepted")

	require.NotEmpty(t, res.History)
	assert.True(t, math.IsInf(res.History[0].Lower, -1))
	assertBounds(t, res.History)
}

func TestSolve_GapPruneOnZeroCostFraction(t *testing.T) {
	// x is fractional at the root but carries no cost, so the rounded point
	// scores exactly the relaxation bound and the node closes without branching.
	m := model.New("flat", model.Maximize)
	require.NoError(t, m.AddVar("x", model.Integer, 0, model.WithUpper(10)))
	require.NoError(t, m.AddVar("z", model.Integer, 1, model.WithUpper(4)))
	require.NoError(t, m.AddConstraint("odd", map[string]float64{"x": 2}, model.EQ, 3))

	res, err := bnb.Solve(context.Background(), m, lp.NewSimplex())
	require.NoError(t, err)
	require.Equal(t, bnb.StatusOptimal, res.Status)

	assert.Equal(t, 1, res.Stats.Processed)
	assert.Equal(t, 1, res.Stats.PrunedGap)
	assert.Zero(t, res.Stats.Branched)
	assert.InDelta(t, 4, res.Objective, tol)

	// |U − L| closes on a rounded point that breaks 2x = 3.
	assert.False(t, res.Verified)
	var v *model.Violation
	require.ErrorAs(t, res.Violation, &v)
	assert.Equal(t, "odd", v.Name)
	assert.ErrorIs(t, res.Err(), bnb.ErrUnverified)
}

func TestSolve_FlagsUnverifiedIncumbent(t *testing.T) {
	//	max x + y   s.t. 1.5 ≤ x + y ≤ 1.9, integer
	// No integer point exists, yet the rounding heuristic supplies one.
	m := model.New("narrow", model.Maximize)
	require.NoError(t, m.AddVar("x", model.Integer, 1))
	require.NoError(t, m.AddVar("y", model.Integer, 1))
	require.NoError(t, m.AddConstraint("lo", map[string]float64{"x": 1, "y": 1}, model.GE, 1.5))
	require.NoError(t, m.AddConstraint("hi", map[string]float64{"x": 1, "y": 1}, model.LE, 1.9))

	res, err := bnb.Solve(context.Background(), m, lp.NewSimplex(), bnb.WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	require.Equal(t, bnb.StatusOptimal, res.Status)
	assert.InDelta(t, 1, res.Objective, tol)

	assert.False(t, res.Verified)
	var v *model.Violation
	require.ErrorAs(t, res.Violation, &v)
	assert.Equal(t, "constraint", v.Kind)
	assert.Equal(t, "lo", v.Name)

	err = res.Err()
	require.ErrorIs(t, err, bnb.ErrUnverified)
	assert.ErrorAs(t, err, &v)
}

func TestSolve_BoundPruningKeepsOptimum(t *testing.T) {
	k := knapsack10

	plain, err := bnb.Solve(context.Background(), k.model(t), lp.NewSimplex())
	require.NoError(t, err)
	pruned, err := bnb.Solve(context.Background(), k.model(t), lp.NewSimplex(), bnb.WithBoundPruning())
	require.NoError(t, err)

	assert.InDelta(t, plain.Objective, pruned.Objective, bnb.DefaultEps)
	assert.LessOrEqual(t, pruned.Stats.Created, plain.Stats.Created)
}

func TestSolve_NodeLimit(t *testing.T) {
	res, err := bnb.Solve(context.Background(), productionModel(t), lp.NewSimplex(), bnb.WithMaxNodes(1))
	require.ErrorIs(t, err, bnb.ErrNodeLimit)
	assert.True(t, bnb.IsStopped(err))
	assert.Equal(t, bnb.StatusStopped, res.Status)
	assert.Equal(t, 1, res.Stats.Processed)

	// The rounded root point (2, 5) is the best incumbent so far.
	assert.InDelta(t, 950, res.Objective, tol)
	assert.True(t, res.Verified)
	assert.Greater(t, res.GapPercent, 0.0)
}

func TestSolve_TimeLimit(t *testing.T) {
	slow := lp.SolverFunc(func(ctx context.Context, m *model.Model) (lp.Solution, error) {
		time.Sleep(5 * time.Millisecond)

		return lp.NewSimplex().Solve(ctx, m)
	})

	res, err := bnb.Solve(context.Background(), productionModel(t), slow, bnb.WithTimeLimit(time.Millisecond))
	require.ErrorIs(t, err, bnb.ErrTimeLimit)
	assert.Equal(t, bnb.StatusStopped, res.Status)
}

func TestSolve_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := bnb.Solve(ctx, productionModel(t), lp.NewSimplex())
	require.ErrorIs(t, err, bnb.ErrCanceled)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, bnb.StatusStopped, res.Status)
}

func TestSolve_SolverFaultCarriesNode(t *testing.T) {
	boom := errors.New("singular basis")
	simplex := lp.NewSimplex()
	faulty := lp.SolverFunc(func(ctx context.Context, m *model.Model) (lp.Solution, error) {
		if m.NumConstraints() > 2 {
			return lp.Solution{}, boom
		}

		return simplex.Solve(ctx, m)
	})

	_, err := bnb.Solve(context.Background(), productionModel(t), faulty)
	require.ErrorIs(t, err, bnb.ErrSolverFault)
	require.ErrorIs(t, err, boom)

	var fault *bnb.SolverFaultError
	require.True(t, errors.As(err, &fault))
	assert.Equal(t, 1, fault.NodeID, "first child of the root")
}

func TestSolve_InvalidInput(t *testing.T) {
	ctx := context.Background()

	_, err := bnb.Solve(ctx, nil, lp.NewSimplex())
	assert.ErrorIs(t, err, bnb.ErrNilModel)

	_, err = bnb.Solve(ctx, productionModel(t), nil)
	assert.ErrorIs(t, err, bnb.ErrNilSolver)

	bad := []bnb.Option{
		bnb.WithEps(0),
		bnb.WithEps(-1),
		bnb.WithEps(math.NaN()),
		bnb.WithEps(math.Inf(1)),
		bnb.WithMaxNodes(-1),
		bnb.WithTimeLimit(-time.Second),
		bnb.WithInitialLower(math.NaN()),
	}
	for _, opt := range bad {
		_, err = bnb.Solve(ctx, productionModel(t), lp.NewSimplex(), opt)
		assert.ErrorIs(t, err, bnb.ErrBadOptions)
	}

	// A nil logger falls back to a no-op logger.
	_, err = bnb.Solve(ctx, productionModel(t), lp.NewSimplex(), bnb.WithLogger((*zap.Logger)(nil)))
	assert.NoError(t, err)
}

func TestSolve_EventsBalance(t *testing.T) {
	counts := make(map[bnb.EventKind]int)
	obs := bnb.ObserverFunc(func(ev bnb.Event) { counts[ev.Kind]++ })

	res, err := bnb.Solve(context.Background(), productionModel(t), lp.NewSimplex(), bnb.WithObserver(obs))
	require.NoError(t, err)

	s := res.Stats
	assert.Equal(t, s.Created, counts[bnb.EventNodeSolved])
	assert.Equal(t, s.Branched, counts[bnb.EventNodeBranched])
	assert.Equal(t, s.PrunedInfeasible+s.PrunedInteger+s.PrunedGap+s.PrunedDominated, counts[bnb.EventNodePruned])
	assert.Equal(t, s.IncumbentUpdates, counts[bnb.EventIncumbent])
	assert.Equal(t, len(res.History), counts[bnb.EventBounds])
	assert.Equal(t, s.Processed, s.Branched+counts[bnb.EventNodePruned])
}

func TestResult_GapAndStatusStrings(t *testing.T) {
	assert.Equal(t, "OPTIMAL", bnb.StatusOptimal.String())
	assert.Equal(t, "INFEASIBLE", bnb.StatusInfeasible.String())
	assert.Equal(t, "UNBOUNDED", bnb.StatusUnbounded.String())
	assert.Equal(t, "STOPPED", bnb.StatusStopped.String())
	assert.Nil(t, bnb.Result{Status: bnb.StatusOptimal}.Err())
	assert.ErrorIs(t, bnb.Result{Status: bnb.StatusUnbounded}.Err(), bnb.ErrModelUnbounded)
}
