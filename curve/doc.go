// Package curve converts per-feature feasible-action grids into the
// validated, strictly ordered (action, cost) curves consumed by the
// recourse MIP, and flattens a set of curves into the index tables
// (variable names, coefficients, bounds, cost increments) that the
// formulator stamps into solver variables and constraints.
//
// A curve is always anchored at (0, 0): the first point is the no-op
// action with zero cost, and every subsequent action delta shares the
// sign of the direction that increases the classifier score for that
// feature. Costs grow strictly away from the anchor.
//
// Two cost metrics are supported:
//
//   - Percentile — cost = p − p0, the percentile shift away from the
//     current value's percentile p0.
//   - LogOdds    — cost = ln((1−p0)/(1−p)), the log-odds shift used by
//     the "local" cost type.
//
// All validation failures are reported through sentinel errors and
// matched with errors.Is; no function in this package panics on user
// input.
package curve
