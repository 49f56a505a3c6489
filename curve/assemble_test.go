package curve_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daanvanderveldt/actionable-recourse/curve"
)

// twoCurves builds a small valid pair of curves for assembly tests.
func twoCurves(t *testing.T) []curve.Curve {
	t.Helper()

	c0, err := curve.Build(0, 1,
		[]float64{0, 1, 2}, []float64{0.5, 0.6, 0.9}, 0, curve.Percentile)
	require.NoError(t, err)
	c2, err := curve.Build(2, -2,
		[]float64{-1, 0}, []float64{0.3, 0.5}, 0, curve.Percentile)
	require.NoError(t, err)

	return []curve.Curve{c0, c2}
}

// TestAssemble_Empty verifies that an empty curve set is rejected.
func TestAssemble_Empty(t *testing.T) {
	_, err := curve.Assemble(nil)
	assert.ErrorIs(t, err, curve.ErrNoCurves)
}

// TestAssemble_DuplicateIndex verifies that two curves for the same
// feature are rejected.
func TestAssemble_DuplicateIndex(t *testing.T) {
	cs := twoCurves(t)
	cs[1].Index = 0

	_, err := curve.Assemble(cs)
	assert.ErrorIs(t, err, curve.ErrDuplicateAction)
}

// TestAssemble_RejectsInvalidCurve verifies that Assemble re-validates
// each curve, so a hand-broken one cannot slip through.
func TestAssemble_RejectsInvalidCurve(t *testing.T) {
	cs := twoCurves(t)
	cs[0].Costs[2] = cs[0].Costs[1] // break strict cost ordering

	_, err := curve.Assemble(cs)
	assert.ErrorIs(t, err, curve.ErrDuplicateCost)
}

// TestAssemble_Layout verifies the flattened name tables, bounds and
// aggregates for a known two-curve set.
func TestAssemble_Layout(t *testing.T) {
	enc, err := curve.Assemble(twoCurves(t))
	require.NoError(t, err)

	assert.Equal(t, []int{0, 2}, enc.VarIdx)
	assert.Equal(t, []float64{1, -2}, enc.Coefficients)
	assert.Equal(t, []string{"a[0]", "a[2]"}, enc.ActionNames)
	assert.Equal(t, []string{"u[0][0]", "u[2][0]"}, enc.OffNames)
	assert.Equal(t, []string{"c[0]", "c[2]"}, enc.CostNames)
	assert.Equal(t, []string{"u[0][0]", "u[0][1]", "u[0][2]", "u[2][0]", "u[2][1]"}, enc.SelectorNames)

	assert.Equal(t, []float64{0, -1}, enc.ActionLB)
	assert.Equal(t, []float64{2, 0}, enc.ActionUB)

	// Curve 0 costs {0, 0.1, 0.4}; curve 2 costs {0, 0.2}.
	assert.InDeltaSlice(t, []float64{0.4, 0.2}, enc.CostUB, 1e-12)
	assert.InDelta(t, 0.6, enc.SumCostUB, 1e-12)
	// Pooled cost values {0, 0.1, 0.2, 0.4}: closest pair is 0.1 apart.
	assert.InDelta(t, 0.1, enc.MinCostGap, 1e-12)
}

// TestAssemble_CrossCurveCostGap verifies that MinCostGap measures the
// closest pair of cost values across curves, which can be far smaller
// than any single curve's own increments.
func TestAssemble_CrossCurveCostGap(t *testing.T) {
	c0, err := curve.Build(0, 1,
		[]float64{0, 1}, []float64{0.3, 0.8}, 0, curve.Percentile)
	require.NoError(t, err)
	c1, err := curve.Build(1, 1,
		[]float64{0, 1}, []float64{0.2, 0.701}, 0, curve.Percentile)
	require.NoError(t, err)

	enc, err := curve.Assemble([]curve.Curve{c0, c1})
	require.NoError(t, err)

	// Costs are {0, 0.5} and {0, 0.501}: each curve's own step is at
	// least 0.5, but the two top costs sit 0.001 apart.
	assert.InDelta(t, 0.001, enc.MinCostGap, 1e-9)
}

// TestEncoding_Selectors verifies the per-curve indicator slices.
func TestEncoding_Selectors(t *testing.T) {
	enc, err := curve.Assemble(twoCurves(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"u[0][0]", "u[0][1]", "u[0][2]"}, enc.Selectors(0))
	assert.Equal(t, []string{"u[2][0]", "u[2][1]"}, enc.Selectors(1))
}
