package recourse

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/daanvanderveldt/actionable-recourse/curve"
	"github.com/daanvanderveldt/actionable-recourse/solver"
)

// Builder owns one recourse MIP: the validated encoding, the backend
// handle the model was stamped into, and the enumeration trail of
// exclusions added by Populate. It is not safe for concurrent use;
// callers wanting parallel exploration construct independent Builders,
// each with its own backend.
type Builder struct {
	cfg     Config
	actions ActionSet
	factory solver.Factory

	be      solver.Backend
	enc     curve.Encoding
	epsilon float64

	nVars    int
	minItems int // configured; effective lower bound is max(minItems, 1)
	maxItems int // resolved: Config.MaxItems or the movable-feature count

	scoreX float64
	trail  int // exclusion rows added since the last (re)build
}

// New validates cfg against the action set and stamps the MIP into a
// fresh backend obtained from factory.
//
// Contracts:
//   - as and factory are non-nil.
//   - as.Len() == len(cfg.Coefficients) == len(cfg.X), all finite.
//   - cfg item limits are non-negative with MinItems <= MaxItems when
//     MaxItems is explicit.
//
// Errors: ErrNilActionSet, ErrNilFactory, ErrDimensionMismatch,
// ErrNonFinite, ErrBadCostType, ErrBadItemLimits,
// ErrNoActionableFeatures, wrapped curve sentinels for malformed
// feature grids, and backend construction errors.
//
// Complexity: O(total grid points) encoding work plus backend stamping.
func New(as ActionSet, cfg Config, factory solver.Factory) (*Builder, error) {
	if as == nil {
		return nil, ErrNilActionSet
	}
	if factory == nil {
		return nil, ErrNilFactory
	}

	n := as.Len()
	if len(cfg.Coefficients) != n || len(cfg.X) != n {
		return nil, ErrDimensionMismatch
	}
	if !finiteAll(cfg.Coefficients) || !finiteAll(cfg.X) || math.IsNaN(cfg.Intercept) || math.IsInf(cfg.Intercept, 0) {
		return nil, ErrNonFinite
	}
	switch cfg.CostType {
	case CostTotal, CostLocal, CostMax:
	default:
		return nil, ErrBadCostType
	}
	if cfg.MinItems < 0 || cfg.MaxItems < 0 {
		return nil, ErrBadItemLimits
	}
	if cfg.MaxItems > 0 && cfg.MinItems > cfg.MaxItems {
		return nil, ErrBadItemLimits
	}

	// Defensive copies: the Builder's view of the classifier and input
	// must not alias caller slices.
	cfg.Coefficients = append([]float64(nil), cfg.Coefficients...)
	cfg.X = append([]float64(nil), cfg.X...)

	b := &Builder{
		cfg:     cfg,
		actions: as,
		factory: factory,
		nVars:   n,
	}
	if err := b.build(); err != nil {
		return nil, err
	}

	return b, nil
}

// Rebuild replaces the input point and stamps a fresh MIP. The old
// backend handle, its incumbent and the entire enumeration trail are
// discarded; this is the only way configuration changes reach the MIP
// (no setter rebuilds implicitly).
func (b *Builder) Rebuild(x []float64) error {
	if len(x) != b.nVars {
		return ErrDimensionMismatch
	}
	if !finiteAll(x) {
		return ErrNonFinite
	}
	b.cfg.X = append([]float64(nil), x...)

	return b.build()
}

// build constructs curves, assembles the encoding and stamps variables
// and constraints into a fresh backend. Constraint and variable names
// follow the canonical scheme: a[j], u[j][k], c[j], max_cost, score,
// set_a[j], pick_a[j], max_items, min_items, def_cost[j],
// set_max_cost[j].
func (b *Builder) build() error {
	metric := b.cfg.CostType.metric()

	var curves []curve.Curve
	for j := 0; j < b.nVars; j++ {
		if !b.actions.Actionable(j) {
			continue
		}
		values, pct, err := b.actions.FeasibleGrid(j, b.cfg.X[j])
		if err != nil {
			return fmt.Errorf("recourse: feature %q grid: %w", b.actions.Name(j), err)
		}
		crv, err := curve.Build(j, b.cfg.Coefficients[j], values, pct, b.cfg.X[j], metric)
		if errors.Is(err, curve.ErrNoRoom) {
			// The feature cannot move in its score-improving direction;
			// it stays fixed at its current value.
			continue
		}
		if err != nil {
			return fmt.Errorf("recourse: feature %q: %w", b.actions.Name(j), err)
		}
		curves = append(curves, crv)
	}
	if len(curves) == 0 {
		return ErrNoActionableFeatures
	}

	enc, err := curve.Assemble(curves)
	if err != nil {
		return err
	}

	be, err := b.factory()
	if err != nil {
		return err
	}

	b.enc = enc
	b.be = be
	b.trail = 0
	b.scoreX = b.Score(b.cfg.X)
	// Tie-break weight for the max-cost objective. Any two solutions
	// with distinct maximum costs differ by at least MinCostGap (the
	// smallest positive gap among attainable cost values pooled across
	// curves), while the secondary term is at most
	// epsilon*SumCostUB = gap*sum/(sum+gap) < gap, so it can never
	// reorder the primary ranking. Denominator is positive for any
	// valid encoding.
	b.epsilon = enc.MinCostGap / (enc.SumCostUB + enc.MinCostGap)

	m := len(enc.Curves)
	b.minItems = b.cfg.MinItems
	b.maxItems = b.cfg.MaxItems
	if b.maxItems == 0 {
		b.maxItems = m
	}

	return b.stamp()
}

// stamp writes the encoded model into the backend.
func (b *Builder) stamp() error {
	enc := &b.enc
	m := len(enc.Curves)
	inf := math.Inf(1)

	// Action variables a[j], boxed by the curve's delta range.
	for i := range enc.Curves {
		if err := b.be.AddVariable(enc.ActionNames[i], solver.Continuous, enc.ActionLB[i], enc.ActionUB[i], 0); err != nil {
			return err
		}
	}

	// Flip constraint: sum_j w[j]*a[j] >= -score(x).
	scoreTerms := make([]solver.Term, m)
	for i := range enc.Curves {
		scoreTerms[i] = solver.Term{Var: enc.ActionNames[i], Coef: enc.Coefficients[i]}
	}
	if err := b.be.AddConstraint("score", scoreTerms, solver.GreaterEq, -b.scoreX); err != nil {
		return err
	}

	// Indicators u[j][k], with curve costs as objective coefficients
	// under the linear cost types.
	linear := b.cfg.CostType != CostMax
	for i, c := range enc.Curves {
		sel := enc.Selectors(i)
		for k := range c.Actions {
			obj := 0.0
			if linear {
				obj = c.Costs[k]
			}
			if err := b.be.AddVariable(sel[k], solver.Binary, 0, 1, obj); err != nil {
				return err
			}
		}

		// set_a[j]: a[j] = sum_k u[j][k] * delta[j][k].
		setTerms := make([]solver.Term, 0, len(c.Actions)+1)
		setTerms = append(setTerms, solver.Term{Var: enc.ActionNames[i], Coef: -1})
		for k := range c.Actions {
			setTerms = append(setTerms, solver.Term{Var: sel[k], Coef: c.Actions[k]})
		}
		if err := b.be.AddConstraint(fmt.Sprintf("set_a[%d]", c.Index), setTerms, solver.Equal, 0); err != nil {
			return err
		}

		// pick_a[j]: exactly one indicator on.
		pickTerms := make([]solver.Term, len(c.Actions))
		for k := range c.Actions {
			pickTerms[k] = solver.Term{Var: sel[k], Coef: 1}
		}
		if err := b.be.AddConstraint(fmt.Sprintf("pick_a[%d]", c.Index), pickTerms, solver.Equal, 1); err != nil {
			return err
		}
	}

	// Cardinality over the no-op selectors:
	//	changed = m - sum_j u[j][0]
	//	changed <= max_items  <=>  sum_j u[j][0] >= m - max_items
	//	changed >= min_items  <=>  sum_j u[j][0] <= m - min_items
	offTerms := make([]solver.Term, m)
	for i := range enc.OffNames {
		offTerms[i] = solver.Term{Var: enc.OffNames[i], Coef: 1}
	}
	if err := b.be.AddConstraint("max_items", offTerms, solver.GreaterEq, float64(m-b.maxItems)); err != nil {
		return err
	}
	if err := b.be.AddConstraint("min_items", offTerms, solver.LessEq, float64(m-effectiveMin(b.minItems))); err != nil {
		return err
	}

	if linear {
		return nil
	}

	// Max-cost linearization: minimize max_cost + epsilon * sum_j c[j]
	// with c[j] defined from the indicators and max_cost >= c[j].
	if err := b.be.AddVariable(curve.MaxCostName, solver.Continuous, 0, inf, 1); err != nil {
		return err
	}
	for i, c := range enc.Curves {
		if err := b.be.AddVariable(enc.CostNames[i], solver.Continuous, 0, inf, b.epsilon); err != nil {
			return err
		}

		sel := enc.Selectors(i)
		defTerms := make([]solver.Term, 0, len(c.Costs)+1)
		defTerms = append(defTerms, solver.Term{Var: enc.CostNames[i], Coef: -1})
		for k := range c.Costs {
			defTerms = append(defTerms, solver.Term{Var: sel[k], Coef: c.Costs[k]})
		}
		if err := b.be.AddConstraint(fmt.Sprintf("def_cost[%d]", c.Index), defTerms, solver.Equal, 0); err != nil {
			return err
		}

		maxTerms := []solver.Term{
			{Var: curve.MaxCostName, Coef: 1},
			{Var: enc.CostNames[i], Coef: -1},
		}
		if err := b.be.AddConstraint(fmt.Sprintf("set_max_cost[%d]", c.Index), maxTerms, solver.GreaterEq, 0); err != nil {
			return err
		}
	}

	return nil
}

// SetItemLimits updates the cardinality bounds of the already-built MIP
// in place by rewriting the two constraint right-hand sides; the model
// is NOT rebuilt. maxItems == 0 means "no explicit cap".
//
// Errors: ErrBadItemLimits on invalid bounds; solver.ErrNotSupported
// (wrapped) when the backend lacks CapMutateRHS.
func (b *Builder) SetItemLimits(minItems, maxItems int) error {
	if minItems < 0 || maxItems < 0 {
		return ErrBadItemLimits
	}
	if maxItems > 0 && minItems > maxItems {
		return ErrBadItemLimits
	}
	if !b.be.Capabilities().Has(solver.CapMutateRHS) {
		return fmt.Errorf("recourse: update item limits: %w", solver.ErrNotSupported)
	}

	m := len(b.enc.Curves)
	if maxItems == 0 {
		maxItems = m
	}
	if err := b.be.SetRHS("max_items", float64(m-maxItems)); err != nil {
		return err
	}
	if err := b.be.SetRHS("min_items", float64(m-effectiveMin(minItems))); err != nil {
		return err
	}
	b.minItems, b.maxItems = minItems, maxItems

	return nil
}

// Score returns the classifier score w.x + intercept.
// Contract: len(x) equals the configured feature count.
func (b *Builder) Score(x []float64) float64 {
	return floats.Dot(b.cfg.Coefficients, x) + b.cfg.Intercept
}

// Prediction returns the predicted label sign at x: -1, 0 or +1.
func (b *Builder) Prediction(x []float64) float64 {
	s := b.Score(x)
	switch {
	case s > 0:
		return 1
	case s < 0:
		return -1
	default:
		return 0
	}
}

// NumActionable returns the number of features actually movable in the
// MIP (actionable features with at least one improving grid point).
func (b *Builder) NumActionable() int { return len(b.enc.Curves) }

// Backend exposes the active backend handle, e.g. to inspect declared
// capabilities before choosing an enumeration policy.
func (b *Builder) Backend() solver.Backend { return b.be }

// effectiveMin is the cardinality lower bound actually stamped: a
// zero-action solution can never flip a non-zero score, so at least
// one item is always required.
func effectiveMin(minItems int) int {
	if minItems < 1 {
		return 1
	}

	return minItems
}

// finiteAll reports whether every value is finite.
func finiteAll(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}

	return true
}
