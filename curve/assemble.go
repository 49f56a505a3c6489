package curve

import (
	"fmt"
	"math"
	"sort"
)

// MaxCostName is the shared linearization variable introduced for the
// max-cost objective.
const MaxCostName = "max_cost"

// ActionName returns the MIP action-variable name for feature idx.
func ActionName(idx int) string { return fmt.Sprintf("a[%d]", idx) }

// SelectorName returns the MIP indicator-variable name for point k of
// feature idx. Selector 0 is the no-op selector (the anchor point).
func SelectorName(idx, k int) string { return fmt.Sprintf("u[%d][%d]", idx, k) }

// CostName returns the MIP per-feature cost-variable name for feature idx.
func CostName(idx int) string { return fmt.Sprintf("c[%d]", idx) }

// Encoding is the flattened index table the MIP formulator consumes:
// parallel per-curve slices of variable names, coefficients and bounds,
// plus the two aggregates needed to scale the max-cost objective.
type Encoding struct {
	// Curves holds the validated curves, in ascending feature order.
	Curves []Curve

	// VarIdx[i] is the feature index of Curves[i] in the full
	// feature-length vectors (used to scatter solver output back).
	VarIdx []int

	// Coefficients[i] is the classifier weight of Curves[i].
	Coefficients []float64

	// ActionNames[i] is the continuous action variable a[idx].
	ActionNames []string

	// OffNames[i] is the no-op selector u[idx][0]; it is 1 exactly when
	// the feature is left untouched.
	OffNames []string

	// SelectorNames is every indicator u[idx][k], grouped per curve in
	// Curves order.
	SelectorNames []string

	// CostNames[i] is the continuous per-feature cost variable c[idx]
	// (only stamped into the MIP under the max-cost objective).
	CostNames []string

	// ActionLB and ActionUB box the action variable of each curve.
	ActionLB []float64
	ActionUB []float64

	// CostUB[i] is the largest attainable cost on Curves[i].
	CostUB []float64

	// MinCostGap is the smallest positive difference between any two
	// cost values pooled across ALL curves; positive for any valid
	// encoding. Any solution's largest per-feature cost is one of the
	// pooled values, so two solutions with distinct maximum costs
	// differ by at least this gap. Within-curve increments alone are
	// not enough: two curves' top costs can sit closer together than
	// either curve's own steps.
	MinCostGap float64

	// SumCostUB is the sum of per-curve maximum costs: the largest
	// attainable total cost of any feasible action.
	SumCostUB float64
}

// Assemble validates each curve and flattens the set into an Encoding.
//
// Contracts:
//   - curves is non-empty; each curve satisfies Curve.Validate.
//   - curve feature indices are unique (one curve per feature).
//
// Errors: ErrNoCurves, ErrDuplicateAction (reused for a repeated
// feature index), plus any Validate sentinel.
//
// Complexity: O(total points) time and space.
func Assemble(curves []Curve) (Encoding, error) {
	if len(curves) == 0 {
		return Encoding{}, ErrNoCurves
	}

	enc := Encoding{
		Curves:       curves,
		VarIdx:       make([]int, 0, len(curves)),
		Coefficients: make([]float64, 0, len(curves)),
		ActionNames:  make([]string, 0, len(curves)),
		OffNames:     make([]string, 0, len(curves)),
		CostNames:    make([]string, 0, len(curves)),
		ActionLB:     make([]float64, 0, len(curves)),
		ActionUB:     make([]float64, 0, len(curves)),
		CostUB:       make([]float64, 0, len(curves)),
	}

	var pooled []float64
	seen := make(map[int]struct{}, len(curves))
	for _, c := range curves {
		if err := c.Validate(); err != nil {
			return Encoding{}, err
		}
		if _, dup := seen[c.Index]; dup {
			return Encoding{}, ErrDuplicateAction
		}
		seen[c.Index] = struct{}{}

		lo, hi := c.Bounds()
		enc.VarIdx = append(enc.VarIdx, c.Index)
		enc.Coefficients = append(enc.Coefficients, c.Coefficient)
		enc.ActionNames = append(enc.ActionNames, ActionName(c.Index))
		enc.OffNames = append(enc.OffNames, SelectorName(c.Index, 0))
		enc.CostNames = append(enc.CostNames, CostName(c.Index))
		enc.ActionLB = append(enc.ActionLB, lo)
		enc.ActionUB = append(enc.ActionUB, hi)
		enc.CostUB = append(enc.CostUB, c.MaxCost())
		enc.SumCostUB += c.MaxCost()
		pooled = append(pooled, c.Costs...)
		for k := range c.Actions {
			enc.SelectorNames = append(enc.SelectorNames, SelectorName(c.Index, k))
		}
	}
	enc.MinCostGap = minPositiveGap(pooled)

	return enc, nil
}

// minPositiveGap returns the smallest positive difference between any
// two values. Contract: values holds at least two distinct entries
// (every valid curve contributes 0 and a positive cost).
func minPositiveGap(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	gap := math.Inf(1)
	for k := 1; k < len(sorted); k++ {
		if d := sorted[k] - sorted[k-1]; d > 0 && d < gap {
			gap = d
		}
	}

	return gap
}

// Selectors returns the indicator names of curve i, in point order.
func (e *Encoding) Selectors(i int) []string {
	start := 0
	for j := 0; j < i; j++ {
		start += len(e.Curves[j].Actions)
	}

	return e.SelectorNames[start : start+len(e.Curves[i].Actions)]
}
