// Package recourse builds and solves the mixed-integer program that
// finds minimum-cost changes to a person's actionable features which
// flip a linear classifier's prediction.
//
// Given a classifier (coefficients + intercept), an input point x and
// an ActionSet describing which features may move and over which
// feasible grids, a Builder stamps the recourse MIP:
//
//	minimize  Cost(a)
//	s.t.      sum_j w[j]*a[j] >= -score(x)              (flip)
//	          a[j] = sum_k u[j][k] * delta[j][k]        (per feature)
//	          sum_k u[j][k] = 1                         (1-of-K)
//	          cardinality via the no-op selectors u[j][0]
//	          u[j][k] binary
//
// Three cost objectives are supported: Total (sum of percentile
// shifts), Local (sum of log-odds shifts) and Max (largest per-feature
// cost, linearized through a shared max_cost variable with an epsilon
// tie-break toward smaller totals).
//
// Fit solves the program once and returns an immutable Solution record
// with advisory consistency diagnostics attached. Populate re-solves
// repeatedly, excluding each found feature combination under a chosen
// enumeration policy, until the requested number of items is collected
// or the model becomes infeasible (Exhausted).
//
// The MIP lives behind a pluggable solver.Backend; the Builder branches
// only on declared backend capabilities, never on solver identity.
// Builders are single-threaded: one Builder owns one backend handle and
// one enumeration trail, and rebuilding (Rebuild) discards both.
package recourse
