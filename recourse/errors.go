// Package recourse: sentinel error set.
//
// Configuration failures are permanent: they indicate malformed caller
// input and are never retried. Curve-level failures from package curve
// and backend failures from package solver are wrapped with feature or
// operation context and remain matchable via errors.Is.

package recourse

import "errors"

var (
	// ErrNilActionSet is returned when no ActionSet is supplied.
	ErrNilActionSet = errors.New("recourse: action set is nil")

	// ErrNilFactory is returned when no solver factory is supplied.
	ErrNilFactory = errors.New("recourse: solver factory is nil")

	// ErrDimensionMismatch is returned when the coefficient vector, the
	// input point and the action set disagree on the feature count.
	ErrDimensionMismatch = errors.New("recourse: coefficients, input point and action set must have equal length")

	// ErrNonFinite is returned when a coefficient, the intercept or an
	// input value is NaN or infinite.
	ErrNonFinite = errors.New("recourse: non-finite classifier or input value")

	// ErrBadCostType is returned for an unrecognized cost type.
	ErrBadCostType = errors.New("recourse: unknown cost type")

	// ErrBadItemLimits is returned when item limits are negative or
	// min exceeds an explicit max. A min above the number of movable
	// features is NOT a configuration error: it yields an infeasible
	// cardinality constraint and feasible=false instead.
	ErrBadItemLimits = errors.New("recourse: invalid item limits")

	// ErrBadPolicy is returned for an unrecognized enumeration policy.
	ErrBadPolicy = errors.New("recourse: unknown enumeration policy")

	// ErrNoActionableFeatures is returned when no actionable feature
	// has a feasible move in its score-improving direction, so no MIP
	// can be built.
	ErrNoActionableFeatures = errors.New("recourse: no actionable feature can move")
)
