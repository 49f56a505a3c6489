package recourse

import (
	"time"

	"github.com/daanvanderveldt/actionable-recourse/curve"
)

// CostType selects the MIP objective.
type CostType uint8

const (
	// CostTotal minimizes the sum of per-feature percentile-shift costs.
	CostTotal CostType = iota

	// CostLocal minimizes the sum of per-feature log-odds-shift costs.
	CostLocal

	// CostMax minimizes the largest per-feature cost, linearized with a
	// shared max_cost variable and an epsilon tie-break toward smaller
	// total cost.
	CostMax
)

// String renders the cost type.
func (c CostType) String() string {
	switch c {
	case CostTotal:
		return "total"
	case CostLocal:
		return "local"
	case CostMax:
		return "max"
	default:
		return "unknown"
	}
}

// metric maps the cost type onto the curve cost metric.
func (c CostType) metric() curve.Metric {
	if c == CostLocal {
		return curve.LogOdds
	}

	return curve.Percentile
}

// Policy selects how previously found solutions are excluded during
// enumeration.
type Policy uint8

const (
	// DistinctSubsets forbids the exact changed-feature combination of
	// each recorded solution: every later solution differs in at least
	// one feature's on/off status. Requires a backend with
	// solver.CapAddConstraint.
	DistinctSubsets Policy = iota

	// MutuallyExclusive locks every changed feature untouched in all
	// later solutions, so successive solutions use disjoint feature
	// sets. Requires a backend with solver.CapMutateBounds.
	MutuallyExclusive
)

// String renders the enumeration policy.
func (p Policy) String() string {
	switch p {
	case DistinctSubsets:
		return "distinct_subsets"
	case MutuallyExclusive:
		return "mutually_exclusive"
	default:
		return "unknown"
	}
}

// ActionSet is the collaborator interface the MIP core consumes: the
// ordered feature universe, actionability flags, and per-feature
// feasible grids with matching percentile scores, aligned to
// classifier-coefficient order. Package actionset ships a concrete
// implementation built from raw samples.
type ActionSet interface {
	// Len is the number of features (== classifier coefficient count).
	Len() int

	// Name returns the j-th feature name.
	Name(j int) string

	// Actionable reports whether feature j may be moved.
	Actionable(j int) bool

	// FeasibleGrid returns the ascending grid of candidate absolute
	// values for feature j, including the current value, with the
	// empirical percentile of each candidate.
	FeasibleGrid(j int, current float64) (values, percentiles []float64, err error)
}

// Config is the immutable configuration of a Builder. There are no
// process-wide defaults: every knob travels through this struct.
type Config struct {
	// Coefficients and Intercept define the linear classifier
	// score(x) = Coefficients . x + Intercept. One coefficient per
	// action-set feature; finite.
	Coefficients []float64
	Intercept    float64

	// X is the input point the recourse actions apply to.
	X []float64

	// CostType selects the objective (CostTotal, CostLocal, CostMax).
	CostType CostType

	// MinItems and MaxItems bound the number of changed features.
	// MaxItems == 0 means "no explicit cap" (all movable features).
	// The effective lower bound is max(MinItems, 1): a no-op action can
	// never flip the score. A MinItems above the movable-feature count
	// makes the model infeasible rather than misconfigured.
	MinItems int
	MaxItems int
}

// FitOptions bound a single solve. Zero values mean "no limit".
type FitOptions struct {
	// TimeLimit is the backend wall-clock budget.
	TimeLimit time.Duration

	// NodeLimit is the backend branch-and-bound node budget.
	NodeLimit int64

	// Display toggles backend log output.
	Display bool
}

// DefaultFitOptions returns the documented defaults (no limits, quiet).
func DefaultFitOptions() FitOptions { return FitOptions{} }

// PopulateOptions configure solution enumeration.
type PopulateOptions struct {
	FitOptions

	// TotalItems is the number of solutions to collect. A value <= 0
	// means unbounded: enumeration runs until the model is exhausted,
	// which on a large feasible combinatorial space can take a very
	// long time under DistinctSubsets.
	TotalItems int

	// Policy selects the exclusion rule between successive solves.
	Policy Policy
}

// DefaultPopulateOptions mirrors the usual flipset size: ten distinct
// feature combinations.
func DefaultPopulateOptions() PopulateOptions {
	return PopulateOptions{TotalItems: 10, Policy: DistinctSubsets}
}

// Solution is one immutable recourse record. Vectors span the full
// feature universe: untouched and non-actionable features carry zeros.
type Solution struct {
	// Feasible reports whether the solve produced a usable action.
	Feasible bool

	// Status is the backend's termination status string.
	Status string

	// Actions holds the per-feature deltas to apply to X.
	Actions []float64

	// Costs holds the per-feature costs of those deltas.
	Costs []float64

	// Cost aggregates Costs per the configured CostType: the max_cost
	// variable under CostMax, the objective value otherwise. Infinite
	// when infeasible.
	Cost float64

	// UpperBound, LowerBound and Gap are solver objective diagnostics.
	UpperBound float64
	LowerBound float64
	Gap        float64

	// Iterations, NodesProcessed and NodesRemaining are solver search
	// diagnostics (zero when the backend does not expose them).
	Iterations     int64
	NodesProcessed int64
	NodesRemaining int64

	// Runtime is the wall-clock time of this solve.
	Runtime time.Duration

	// Advisories lists non-fatal consistency findings (see the
	// validation rules in solve.go). Small numerical drift near the
	// decision boundary is expected and must not abort the caller, so
	// these never escalate to errors.
	Advisories []string
}
