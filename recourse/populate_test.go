package recourse_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daanvanderveldt/actionable-recourse/recourse"
	"github.com/daanvanderveldt/actionable-recourse/solver"
	"github.com/daanvanderveldt/actionable-recourse/solver/solvertest"
)

// changedPattern renders which features an action touches, for
// comparing enumeration output.
func changedPattern(actions []float64) []bool {
	out := make([]bool, len(actions))
	for j, a := range actions {
		out[j] = math.Abs(a) > 1e-7
	}

	return out
}

// TestPopulate_DistinctSubsets enumerates the two-feature model to
// exhaustion and verifies each record uses a new feature combination,
// in non-decreasing cost order.
func TestPopulate_DistinctSubsets(t *testing.T) {
	as, cfg := pairSet()
	b, err := recourse.New(as, cfg, solvertest.Factory)
	require.NoError(t, err)

	sols, err := b.Populate(recourse.PopulateOptions{TotalItems: -1, Policy: recourse.DistinctSubsets})
	require.NoError(t, err)
	require.Len(t, sols, 3, "three non-empty feature combinations exist")

	assert.Equal(t, []bool{true, false}, changedPattern(sols[0].Actions))
	assert.Equal(t, []bool{false, true}, changedPattern(sols[1].Actions))
	assert.Equal(t, []bool{true, true}, changedPattern(sols[2].Actions))

	assert.InDelta(t, 0.25, sols[0].Cost, 1e-6)
	assert.InDelta(t, 0.3, sols[1].Cost, 1e-6)
	assert.InDelta(t, 0.55, sols[2].Cost, 1e-6)

	for _, s := range sols {
		assert.True(t, s.Feasible, "only feasible records are returned")
	}
}

// TestPopulate_StopsAtTotalItems verifies the collection cap.
func TestPopulate_StopsAtTotalItems(t *testing.T) {
	as, cfg := pairSet()
	b, err := recourse.New(as, cfg, solvertest.Factory)
	require.NoError(t, err)

	sols, err := b.Populate(recourse.PopulateOptions{TotalItems: 2, Policy: recourse.DistinctSubsets})
	require.NoError(t, err)
	assert.Len(t, sols, 2)
}

// TestPopulate_MutuallyExclusive verifies that successive records use
// disjoint feature sets: once f0 moves, it is locked untouched, so the
// two-feature model yields exactly two records.
func TestPopulate_MutuallyExclusive(t *testing.T) {
	as, cfg := pairSet()
	b, err := recourse.New(as, cfg, solvertest.Factory)
	require.NoError(t, err)

	sols, err := b.Populate(recourse.PopulateOptions{TotalItems: -1, Policy: recourse.MutuallyExclusive})
	require.NoError(t, err)
	require.Len(t, sols, 2, "disjointness forbids the combined record")

	assert.Equal(t, []bool{true, false}, changedPattern(sols[0].Actions))
	assert.Equal(t, []bool{false, true}, changedPattern(sols[1].Actions))
}

// TestPopulate_MutuallyExclusiveSingleFeature verifies that a
// one-feature model yields exactly one record before exhaustion.
func TestPopulate_MutuallyExclusiveSingleFeature(t *testing.T) {
	as, cfg := singleSet()
	b, err := recourse.New(as, cfg, solvertest.Factory)
	require.NoError(t, err)

	sols, err := b.Populate(recourse.PopulateOptions{TotalItems: -1, Policy: recourse.MutuallyExclusive})
	require.NoError(t, err)
	require.Len(t, sols, 1)
	assert.InDelta(t, 0.4, sols[0].Cost, 1e-6)
}

// TestPopulate_ExclusionsPersist verifies that the enumeration trail
// covers every recorded solution, the last one included: a later Fit
// cannot return any combination Populate already handed out.
func TestPopulate_ExclusionsPersist(t *testing.T) {
	as, cfg := pairSet()
	b, err := recourse.New(as, cfg, solvertest.Factory)
	require.NoError(t, err)

	sols, err := b.Populate(recourse.PopulateOptions{TotalItems: 2, Policy: recourse.DistinctSubsets})
	require.NoError(t, err)
	require.Len(t, sols, 2)

	// Both handed-out combinations are cut off, so a direct Fit lands
	// on the third-best one, not a repeat of the second.
	sol, err := b.Fit(recourse.DefaultFitOptions())
	require.NoError(t, err)
	require.True(t, sol.Feasible)
	assert.NotEqual(t, changedPattern(sols[0].Actions), changedPattern(sol.Actions))
	assert.NotEqual(t, changedPattern(sols[1].Actions), changedPattern(sol.Actions))
	assert.Equal(t, []bool{true, true}, changedPattern(sol.Actions))
	assert.InDelta(t, 0.55, sol.Cost, 1e-6, "third-best combination")
}

// TestPopulate_ResumesAcrossCalls verifies that successive Populate
// calls continue the enumeration instead of re-returning the last
// recorded combination.
func TestPopulate_ResumesAcrossCalls(t *testing.T) {
	as, cfg := pairSet()
	b, err := recourse.New(as, cfg, solvertest.Factory)
	require.NoError(t, err)

	first, err := b.Populate(recourse.PopulateOptions{TotalItems: 1, Policy: recourse.DistinctSubsets})
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := b.Populate(recourse.PopulateOptions{TotalItems: 1, Policy: recourse.DistinctSubsets})
	require.NoError(t, err)
	require.Len(t, second, 1)

	assert.NotEqual(t, changedPattern(first[0].Actions), changedPattern(second[0].Actions))
	assert.InDelta(t, 0.25, first[0].Cost, 1e-6)
	assert.InDelta(t, 0.3, second[0].Cost, 1e-6)
}

// TestPopulate_PolicyErrors verifies the policy validation and the
// capability requirements on reduced backends.
func TestPopulate_PolicyErrors(t *testing.T) {
	as, cfg := pairSet()

	b, err := recourse.New(as, cfg, solvertest.Factory)
	require.NoError(t, err)
	_, err = b.Populate(recourse.PopulateOptions{TotalItems: 1, Policy: recourse.Policy(99)})
	assert.ErrorIs(t, err, recourse.ErrBadPolicy)

	reduced, err := recourse.New(as, cfg, reducedFactory)
	require.NoError(t, err)
	_, err = reduced.Populate(recourse.PopulateOptions{TotalItems: 1, Policy: recourse.DistinctSubsets})
	assert.ErrorIs(t, err, solver.ErrNotSupported)
	_, err = reduced.Populate(recourse.PopulateOptions{TotalItems: 1, Policy: recourse.MutuallyExclusive})
	assert.ErrorIs(t, err, solver.ErrNotSupported)
}
