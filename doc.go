// Package actionablerecourse answers one question for a person denied
// by a linear classifier: what is the lowest-cost set of changes to
// their actionable features that flips the decision?
//
// 🚀 What is actionable-recourse?
//
//	A recourse toolkit built around one mixed-integer program:
//		• Action sets: data-derived feasible grids with empirical percentiles
//		• Cost curves: percentile-shift and log-odds cost models per feature
//		• MIP core: 1-of-K indicator encoding, cardinality limits, max-cost
//		  linearization with an epsilon tie-break
//		• Enumeration: flipsets of distinct or mutually exclusive actions
//		• Solvers: pluggable backends (HiGHS, GLPK) behind one interface,
//		  selected by declared capability rather than identity
//
// ✨ Why this layout?
//
//   - Deterministic core – the encoding and formulation are pure Go; only
//     the solve step touches cgo
//   - Immutable records – every solve returns a fresh Solution with
//     advisory diagnostics instead of exceptions
//   - Explicit lifecycle – configuration changes rebuild the model only
//     when asked to
//
// Everything is organized under five subpackages:
//
//	actionset/ — feature universes, actionability flags, percentile models
//	curve/     — feasible-cost curves and the 1-of-K encoding
//	recourse/  — the MIP builder, Fit, Populate and validation
//	solver/    — the backend interface plus the highs and glpk adapters
//	           — and solvertest, an exhaustive oracle used by the tests
//
// Start with recourse.New, then Fit for a single minimum-cost action or
// Populate for a flipset. See each package's doc.go for the details.
//
//	go get github.com/daanvanderveldt/actionable-recourse
package actionablerecourse
