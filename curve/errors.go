// Package curve: sentinel error set.
//
// Every message is prefixed with "curve: ..." for consistency. Callers
// match with errors.Is; if context is essential, wrap at the outer
// boundary with fmt.Errorf("ctx: %w", ErrX).

package curve

import "errors"

var (
	// ErrGridShape is returned when the value and percentile grids have
	// different lengths, or the grid is empty.
	ErrGridShape = errors.New("curve: value and percentile grids must be non-empty and of equal length")

	// ErrBadPercentile is returned when a percentile lies outside [0, 1],
	// or equals 1 under the LogOdds metric (the log-odds transform is
	// undefined at p = 1).
	ErrBadPercentile = errors.New("curve: percentile out of range")

	// ErrBadMetric is returned for an unrecognized cost metric.
	ErrBadMetric = errors.New("curve: unknown cost metric")

	// ErrZeroCoefficient is returned when the feature's classifier
	// coefficient is numerically zero: no action on this feature can
	// move the score, so no curve direction exists.
	ErrZeroCoefficient = errors.New("curve: classifier coefficient is numerically zero")

	// ErrNoAnchor is returned when the grid does not contain the
	// feature's current value, so the zero-cost anchor cannot be placed.
	ErrNoAnchor = errors.New("curve: grid does not contain the current value")

	// ErrNoRoom is returned when, after discarding grid points on the
	// non-improving side of the anchor, fewer than two candidates
	// remain. The feature is immovable in the score-improving direction;
	// callers typically skip it rather than fail.
	ErrNoRoom = errors.New("curve: no feasible action in the improving direction")

	// ErrDegenerate is returned when dropping near-zero or non-positive
	// cost points collapses the curve below two points.
	ErrDegenerate = errors.New("curve: curve has fewer than two points after cleanup")

	// ErrDuplicateAction is returned when two curve points share the
	// same action delta.
	ErrDuplicateAction = errors.New("curve: duplicate action delta")

	// ErrDuplicateCost is returned when two curve points share the same
	// cost value.
	ErrDuplicateCost = errors.New("curve: duplicate cost value")

	// ErrActionSign is returned when a non-anchor delta does not share
	// the sign of the score-improving direction.
	ErrActionSign = errors.New("curve: action delta on the wrong side of the anchor")

	// ErrCostOrder is returned when costs are not strictly increasing
	// away from the anchor.
	ErrCostOrder = errors.New("curve: costs not strictly increasing from the anchor")

	// ErrAnchor is returned when the first curve point is not exactly
	// (0, 0).
	ErrAnchor = errors.New("curve: first point must be exactly (0, 0)")

	// ErrNoCurves is returned by Assemble when no curves are supplied.
	ErrNoCurves = errors.New("curve: no curves to assemble")
)
