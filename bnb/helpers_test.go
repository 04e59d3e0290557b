package bnb_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/milp/bnb"
	"github.com/katalvlaran/milp/model"
)

// assertBounds checks that a bound history is monotone and never crosses:
// upper never rises, lower never falls and upper ≥ lower at every point.
func assertBounds(t *testing.T, history []bnb.BoundPoint) {
	t.Helper()
	const slack = 1e-6
	for i, p := range history {
		assert.GreaterOrEqual(t, p.Upper, p.Lower-slack, "iteration %d: bounds cross", p.Iteration)
		if i == 0 {
			continue
		}
		assert.LessOrEqual(t, p.Upper, history[i-1].Upper+slack, "iteration %d: upper rose", p.Iteration)
		assert.GreaterOrEqual(t, p.Lower, history[i-1].Lower-slack, "iteration %d: lower fell", p.Iteration)
	}
}

// productionModel is the two-product planning instance:
//
//	max 100·x1 + 150·x2
//	8000·x1 + 4000·x2 ≤ 40000
//	  15·x1 +   30·x2 ≤ 200
//	x1, x2 ≥ 0 integer
//
// LP bound 1055.56 at (2.22, 5.56); integer optimum 1000 at (1, 6).
func productionModel(t testing.TB) *model.Model {
	t.Helper()
	m := model.New("production", model.Maximize)
	require.NoError(t, m.AddVar("x1", model.Integer, 100))
	require.NoError(t, m.AddVar("x2", model.Integer, 150))
	require.NoError(t, m.AddConstraint("budget", map[string]float64{"x1": 8000, "x2": 4000}, model.LE, 40000))
	require.NoError(t, m.AddConstraint("hours", map[string]float64{"x1": 15, "x2": 30}, model.LE, 200))

	return m
}

// knapsack describes a 0/1 knapsack instance.
type knapsack struct {
	values   []float64
	weights  []float64
	capacity float64
}

var knapsack10 = knapsack{
	values:   []float64{12, 7, 19, 4, 15, 9, 11, 6, 14, 3},
	weights:  []float64{5, 3, 8, 2, 7, 4, 6, 3, 6, 1},
	capacity: 22,
}

func (k knapsack) model(t testing.TB) *model.Model {
	t.Helper()
	m := model.New("knapsack", model.Maximize)
	row := make(map[string]float64, len(k.values))
	for i := range k.values {
		name := itemName(i)
		require.NoError(t, m.AddVar(name, model.Binary, k.values[i]))
		row[name] = k.weights[i]
	}
	require.NoError(t, m.AddConstraint("capacity", row, model.LE, k.capacity))

	return m
}

// bruteForce enumerates every subset and returns the best value.
func (k knapsack) bruteForce() float64 {
	n := len(k.values)
	best := 0.0
	for mask := 0; mask < 1<<n; mask++ {
		var w, v float64
		for i := 0; i < n; i++ {
			if mask&(1<<i) != 0 {
				w += k.weights[i]
				v += k.values[i]
			}
		}
		if w <= k.capacity && v > best {
			best = v
		}
	}

	return best
}

func itemName(i int) string {
	return string(rune('a'+i)) + "_item"
}
