package recourse_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daanvanderveldt/actionable-recourse/recourse"
	"github.com/daanvanderveldt/actionable-recourse/solver/solvertest"
)

// TestFit_MinimumCostFlip solves the one-feature scenario and checks
// the full Solution record: the cheapest action moves the feature by
// exactly one unit for a cost of 0.4 and lands the score on zero.
func TestFit_MinimumCostFlip(t *testing.T) {
	as, cfg := singleSet()
	b, err := recourse.New(as, cfg, solvertest.Factory)
	require.NoError(t, err)

	sol, err := b.Fit(recourse.DefaultFitOptions())
	require.NoError(t, err)

	require.True(t, sol.Feasible)
	assert.Equal(t, "optimal", sol.Status)
	require.Len(t, sol.Actions, 1)
	assert.InDelta(t, 1.0, sol.Actions[0], 1e-6)
	assert.InDelta(t, 0.4, sol.Cost, 1e-6)
	assert.InDelta(t, 0.4, sol.Costs[0], 1e-6)
	assert.InDelta(t, 0.0, b.Score([]float64{cfg.X[0] + sol.Actions[0]}), 1e-6)
	assert.Empty(t, sol.Advisories, "a clean optimum carries no diagnostics")
	assert.GreaterOrEqual(t, sol.Runtime.Nanoseconds(), int64(0))
}

// TestFit_Idempotent verifies that repeated solves without model
// mutation return identical records.
func TestFit_Idempotent(t *testing.T) {
	as, cfg := pairSet()
	b, err := recourse.New(as, cfg, solvertest.Factory)
	require.NoError(t, err)

	first, err := b.Fit(recourse.DefaultFitOptions())
	require.NoError(t, err)
	second, err := b.Fit(recourse.DefaultFitOptions())
	require.NoError(t, err)

	assert.Equal(t, first.Actions, second.Actions)
	assert.Equal(t, first.Costs, second.Costs)
	assert.Equal(t, first.Cost, second.Cost)
}

// TestFit_InfeasibleCardinality verifies the infeasible sentinel
// record: demanding two changed features from a one-feature model is
// not a configuration error, it is an infeasible MIP.
func TestFit_InfeasibleCardinality(t *testing.T) {
	as, cfg := singleSet()
	cfg.MinItems = 2

	b, err := recourse.New(as, cfg, solvertest.Factory)
	require.NoError(t, err)

	sol, err := b.Fit(recourse.DefaultFitOptions())
	require.NoError(t, err, "infeasibility is an outcome, not an error")

	assert.False(t, sol.Feasible)
	assert.Equal(t, "no solution exists", sol.Status)
	assert.Equal(t, []float64{0}, sol.Actions, "vectors stay zeroed")
	assert.Equal(t, []float64{0}, sol.Costs)
	assert.True(t, math.IsInf(sol.Cost, 1))
	assert.True(t, math.IsInf(sol.UpperBound, 1))
	assert.True(t, math.IsInf(sol.LowerBound, 1))
	assert.True(t, math.IsInf(sol.Gap, 1))
}

// TestFit_LocalCostMetric verifies that the local (log-odds) objective
// picks the same action here but reports log-odds costs.
func TestFit_LocalCostMetric(t *testing.T) {
	as, cfg := singleSet()
	cfg.CostType = recourse.CostLocal

	b, err := recourse.New(as, cfg, solvertest.Factory)
	require.NoError(t, err)

	sol, err := b.Fit(recourse.DefaultFitOptions())
	require.NoError(t, err)

	require.True(t, sol.Feasible)
	assert.InDelta(t, 1.0, sol.Actions[0], 1e-6)
	// ln((1-0.1)/(1-0.5)) = ln(1.8)
	assert.InDelta(t, math.Log(1.8), sol.Cost, 1e-6)
}

// TestFit_MaxCostTieBreak verifies the max-cost objective and its
// epsilon tie-break: among actions with the same largest per-feature
// cost, the one with the smaller total wins.
func TestFit_MaxCostTieBreak(t *testing.T) {
	as := &gridSet{
		names:      []string{"f0", "f1"},
		actionable: []bool{true, true},
		values:     [][]float64{{0, 2}, {0, 1, 2}},
		pcts:       [][]float64{{0.5, 1.0}, {0.5, 0.7, 1.0}},
	}
	cfg := recourse.Config{
		Coefficients: []float64{1, 1},
		Intercept:    -2,
		X:            []float64{0, 0},
		CostType:     recourse.CostMax,
	}

	b, err := recourse.New(as, cfg, solvertest.Factory)
	require.NoError(t, err)

	sol, err := b.Fit(recourse.DefaultFitOptions())
	require.NoError(t, err)
	require.True(t, sol.Feasible)

	// Every flip needs a 0.5-cost move somewhere; padding it with the
	// cheap 0.2 move on f1 raises the total without lowering the max,
	// so the tie-break must keep the total at 0.5.
	assert.InDelta(t, 0.5, sol.Cost, 1e-6, "reported cost is the max per-feature cost")
	total := 0.0
	for _, c := range sol.Costs {
		total += c
	}
	assert.InDelta(t, 0.5, total, 1e-6, "tie-break rejects padded solutions")
	assert.Empty(t, sol.Advisories)
}

// TestFit_MaxCostCrossCurveGap verifies that the max-cost objective
// ranks correctly even when two solutions' maximum costs differ by
// less than any single curve's own cost increments: the tie-break
// term must stay below the smallest cross-curve gap, or the cheap
// single-feature action would win on total cost despite its larger
// maximum.
func TestFit_MaxCostCrossCurveGap(t *testing.T) {
	// Attainable per-feature costs: f0 0.5, f1 0.501, f2 0.4. Flipping
	// needs two score units, so the candidates are f1 alone (max cost
	// 0.501, total 0.501) and f0+f2 (max cost 0.5, total 0.9). The
	// primary gap is only 0.001.
	as := &gridSet{
		names:      []string{"f0", "f1", "f2"},
		actionable: []bool{true, true, true},
		values:     [][]float64{{0, 1}, {0, 2}, {0, 1}},
		pcts:       [][]float64{{0.3, 0.8}, {0.2, 0.701}, {0.3, 0.7}},
	}
	cfg := recourse.Config{
		Coefficients: []float64{1, 1, 1},
		Intercept:    -2,
		X:            []float64{0, 0, 0},
		CostType:     recourse.CostMax,
	}

	b, err := recourse.New(as, cfg, solvertest.Factory)
	require.NoError(t, err)

	sol, err := b.Fit(recourse.DefaultFitOptions())
	require.NoError(t, err)
	require.True(t, sol.Feasible)

	assert.InDelta(t, 0.5, sol.Cost, 1e-6, "smaller max wins despite the larger total")
	assert.InDelta(t, 1.0, sol.Actions[0], 1e-6)
	assert.InDelta(t, 0.0, sol.Actions[1], 1e-6)
	assert.InDelta(t, 1.0, sol.Actions[2], 1e-6)
	assert.Empty(t, sol.Advisories)
}

// TestFit_MaxCostAggregatesFromVariables verifies that under the
// max-cost objective the per-feature cost vector comes from the cost
// variables and matches the reported aggregate.
func TestFit_MaxCostAggregatesFromVariables(t *testing.T) {
	as, cfg := pairSet()
	cfg.CostType = recourse.CostMax
	cfg.MinItems = 2

	b, err := recourse.New(as, cfg, solvertest.Factory)
	require.NoError(t, err)

	sol, err := b.Fit(recourse.DefaultFitOptions())
	require.NoError(t, err)
	require.True(t, sol.Feasible)

	// Both features must move; the cheapest pair costs 0.25 and 0.3.
	assert.InDelta(t, 0.25, sol.Costs[0], 1e-6)
	assert.InDelta(t, 0.3, sol.Costs[1], 1e-6)
	assert.InDelta(t, 0.3, sol.Cost, 1e-6, "aggregate is the larger of the two")
	assert.Empty(t, sol.Advisories)
}
