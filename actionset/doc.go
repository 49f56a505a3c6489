// Package actionset derives per-feature action spaces from raw data.
//
// A Set is built once from a sample matrix (one column per feature) and
// then serves the recourse MIP core: it knows each feature's name,
// whether it may be moved, the direction it may move in, and the grid
// of feasible values together with their empirical percentiles.
//
// Percentiles come from the empirical CDF of the training column,
// winsorized away from 0 and 1 so that log-odds cost transforms stay
// finite. Grids are the sorted unique sample values with the query
// point's current value spliced in, so the no-op action is always
// representable.
//
// A Set is immutable after construction except for the actionability
// and direction flags, which are plain metadata and do not touch the
// percentile model. It is safe for concurrent reads once configured.
package actionset
