package curve

import (
	"math"
)

// Metric selects how percentiles are converted into costs.
//
//   - Percentile — cost(p) = p − p0 (or p0 − p when the improving
//     direction is downward). Bounded by 1, dimensionless.
//   - LogOdds    — cost(p) = ln((1−p0)/(1−p)) (mirrored downward),
//     the "local" metric: unbounded near p → 1, so extreme moves are
//     penalized much harder than percentile shifts.
type Metric int

const (
	// Percentile metric: cost is the raw percentile shift from the anchor.
	Percentile Metric = iota

	// LogOdds metric: cost is the log-odds shift from the anchor.
	LogOdds
)

const (
	// DeltaTol is the absolute tolerance under which an action delta is
	// treated as zero (the anchor point).
	DeltaTol = 1e-8

	// CoefTol is the absolute tolerance under which a classifier
	// coefficient is treated as zero and the feature rejected.
	CoefTol = 1e-8
)

// Curve is a validated per-feature feasible-cost table.
//
// Invariants (established by Build, re-checked by Validate):
//   - len(Actions) == len(Costs) >= 2
//   - Actions[0] == 0 and Costs[0] == 0 exactly (the anchor)
//   - every Actions[k], k >= 1 shares the sign of Coefficient
//   - Actions and Costs each contain no duplicates
//   - Costs are strictly increasing away from the anchor
type Curve struct {
	// Index is the feature's position in classifier-coefficient order.
	Index int

	// Coefficient is the classifier weight of this feature. Its sign is
	// the direction in which an action increases the score.
	Coefficient float64

	// Actions are feature deltas relative to the current value.
	Actions []float64

	// Costs are the per-delta costs under the chosen metric.
	Costs []float64
}

// Build converts a raw ascending grid of candidate absolute feature
// values and their empirical percentiles into a validated curve of
// (delta, cost) points anchored at the feature's current value.
//
// Contracts:
//   - values is ascending and contains current (within DeltaTol); the
//     matching percentile becomes the zero-cost anchor p0.
//   - percentiles[i] in [0, 1]; strictly below 1 under LogOdds.
//   - coef decides the improving direction: grid points on the
//     non-improving side of current are discarded.
//
// Errors: ErrGridShape, ErrBadMetric, ErrBadPercentile,
// ErrZeroCoefficient, ErrNoAnchor, ErrNoRoom, ErrDegenerate, plus the
// Validate sentinels. ErrNoRoom marks a feature that simply cannot move
// in the improving direction; callers usually skip such features.
//
// Complexity: O(n) time, O(n) space for an n-point grid.
func Build(index int, coef float64, values, percentiles []float64, current float64, metric Metric) (Curve, error) {
	if len(values) == 0 || len(values) != len(percentiles) {
		return Curve{}, ErrGridShape
	}
	if metric != Percentile && metric != LogOdds {
		return Curve{}, ErrBadMetric
	}
	if math.Abs(coef) <= CoefTol {
		return Curve{}, ErrZeroCoefficient
	}
	for _, p := range percentiles {
		if math.IsNaN(p) || p < 0 || p > 1 || (metric == LogOdds && p == 1) {
			return Curve{}, ErrBadPercentile
		}
	}

	// Improving direction: sign(coef), since increasing coef*delta means
	// moving delta toward the sign of coef.
	up := coef > 0

	// Stage 1 - deltas relative to the current value; locate the anchor
	// and keep only the anchor plus improving-side points.
	var (
		deltas []float64
		probs  []float64
		p0     float64
		found  bool
	)
	for i, v := range values {
		d := v - current
		switch {
		case math.Abs(d) <= DeltaTol:
			p0 = percentiles[i]
			found = true
			deltas = append(deltas, 0)
			probs = append(probs, percentiles[i])
		case (up && d > 0) || (!up && d < 0):
			deltas = append(deltas, d)
			probs = append(probs, percentiles[i])
		}
	}
	if !found {
		return Curve{}, ErrNoAnchor
	}
	if len(deltas) < 2 {
		return Curve{}, ErrNoRoom
	}

	// Stage 2 - orient the curve anchor-first. The raw grid is
	// ascending, so a downward-improving feature carries its anchor
	// last; flip it so cost still grows away from the anchor.
	if !up {
		reverse(deltas)
		reverse(probs)
	}

	// Stage 3 - percentile -> cost with a zero-cost anchor.
	costs := make([]float64, len(probs))
	for i, p := range probs {
		costs[i] = pointCost(p, p0, up, metric)
	}
	// Force the anchor to exact zeros: the validation below demands
	// exact equality, and FP noise in values-current must not leak.
	deltas[0], costs[0] = 0, 0

	// Stage 4 - drop numerically broken points (non-positive cost or
	// near-zero delta) while always preserving the anchor.
	outA := deltas[:1]
	outC := costs[:1]
	for k := 1; k < len(deltas); k++ {
		if costs[k] <= 0 || math.Abs(deltas[k]) <= DeltaTol {
			continue
		}
		outA = append(outA, deltas[k])
		outC = append(outC, costs[k])
	}
	if len(outA) < 2 {
		return Curve{}, ErrDegenerate
	}

	c := Curve{Index: index, Coefficient: coef, Actions: outA, Costs: outC}
	if err := c.Validate(); err != nil {
		return Curve{}, err
	}

	return c, nil
}

// pointCost maps one percentile to a cost measured upward from the
// anchor percentile p0, honoring the improving direction.
func pointCost(p, p0 float64, up bool, metric Metric) float64 {
	if metric == LogOdds {
		if up {
			return math.Log((1 - p0) / (1 - p))
		}

		return math.Log((1 - p) / (1 - p0))
	}
	if up {
		return p - p0
	}

	return p0 - p
}

// Validate re-checks every Curve invariant and returns the first
// violated sentinel. It is called by Build and again by Assemble, so a
// hand-constructed Curve cannot reach the formulator unchecked.
//
// Complexity: O(n) time, O(n) space (uniqueness sets).
func (c Curve) Validate() error {
	if math.Abs(c.Coefficient) <= CoefTol {
		return ErrZeroCoefficient
	}
	if len(c.Actions) < 2 || len(c.Actions) != len(c.Costs) {
		return ErrDegenerate
	}
	if c.Actions[0] != 0 || c.Costs[0] != 0 {
		return ErrAnchor
	}

	up := c.Coefficient > 0
	seenA := make(map[float64]struct{}, len(c.Actions))
	seenC := make(map[float64]struct{}, len(c.Costs))
	for k := range c.Actions {
		if _, dup := seenA[c.Actions[k]]; dup {
			return ErrDuplicateAction
		}
		seenA[c.Actions[k]] = struct{}{}
		if _, dup := seenC[c.Costs[k]]; dup {
			return ErrDuplicateCost
		}
		seenC[c.Costs[k]] = struct{}{}

		if k == 0 {
			continue
		}
		if (up && c.Actions[k] <= 0) || (!up && c.Actions[k] >= 0) {
			return ErrActionSign
		}
		if c.Costs[k] <= c.Costs[k-1] {
			return ErrCostOrder
		}
	}

	return nil
}

// Bounds returns the smallest and largest action delta on the curve
// (the box bounds of the MIP action variable).
func (c Curve) Bounds() (lo, hi float64) {
	lo, hi = c.Actions[0], c.Actions[0]
	for _, a := range c.Actions[1:] {
		if a < lo {
			lo = a
		}
		if a > hi {
			hi = a
		}
	}

	return lo, hi
}

// MaxCost returns the largest cost on the curve. For a valid curve this
// is the last point, since costs increase strictly from the anchor.
func (c Curve) MaxCost() float64 {
	return c.Costs[len(c.Costs)-1]
}

// reverse flips a slice in place.
func reverse(s []float64) {
	for l, r := 0, len(s)-1; l < r; l, r = l+1, r-1 {
		s[l], s[r] = s[r], s[l]
	}
}
