package recourse

import (
	"fmt"
	"math"
	"time"

	"github.com/daanvanderveldt/actionable-recourse/curve"
	"github.com/daanvanderveldt/actionable-recourse/solver"
)

// actionZeroTol is the absolute tolerance under which a solved action
// value counts as "feature untouched".
const actionZeroTol = 1e-7

// flipTol is the boundary tolerance on the post-action score: a
// non-flipping action whose score lands within flipTol of zero is a
// numerical-boundary advisory, not an inconsistency.
const flipTol = 1e-4

// aggTol is the relative tolerance for matching the reported aggregate
// cost against the per-feature cost vector.
const aggTol = 1e-4

// Fit solves the recourse MIP once, synchronously, under the given
// limits and returns a fresh Solution record.
//
// Backend solve errors are propagated unmodified (MIP outcomes are
// deterministic under identical limits, so retrying here is pointless).
// An infeasible model is not an error: it comes back as the sentinel
// record with Feasible == false and infinite cost and bounds.
//
// Idempotence: two Fit calls without intervening mutation return
// identical actions, costs and cost.
func (b *Builder) Fit(opts FitOptions) (Solution, error) {
	b.be.SetTimeLimit(opts.TimeLimit)
	b.be.SetNodeLimit(opts.NodeLimit)
	b.be.SetDisplay(opts.Display)

	start := time.Now()
	res, err := b.be.Solve()
	if err != nil {
		return Solution{}, err
	}

	sol, err := b.extract(res)
	if err != nil {
		return Solution{}, err
	}
	sol.Runtime = time.Since(start)
	if sol.Feasible {
		sol.Advisories = b.checkSolution(&sol)
	}

	return sol, nil
}

// extract normalizes raw backend output into a Solution, scattering
// the flattened actionable-feature values back into full
// feature-length vectors.
func (b *Builder) extract(res solver.Result) (Solution, error) {
	inf := math.Inf(1)
	sol := Solution{
		Feasible:       res.Feasible,
		Status:         res.Status,
		Actions:        make([]float64, b.nVars),
		Costs:          make([]float64, b.nVars),
		Cost:           inf,
		UpperBound:     inf,
		LowerBound:     inf,
		Gap:            inf,
		Iterations:     res.Iterations,
		NodesProcessed: res.NodesProcessed,
		NodesRemaining: res.NodesRemaining,
	}
	if sol.Status == "" {
		sol.Status = "no solution exists"
	}
	if !res.Feasible {
		return sol, nil
	}

	actionVals, err := b.be.Values(b.enc.ActionNames)
	if err != nil {
		return Solution{}, err
	}
	for i, idx := range b.enc.VarIdx {
		sol.Actions[idx] = actionVals[i]
	}

	if b.cfg.CostType == CostMax {
		costVals, err := b.be.Values(b.enc.CostNames)
		if err != nil {
			return Solution{}, err
		}
		for i, idx := range b.enc.VarIdx {
			sol.Costs[idx] = costVals[i]
		}
		maxCost, err := b.be.Value(curve.MaxCostName)
		if err != nil {
			return Solution{}, err
		}
		sol.Cost = maxCost
	} else {
		// Per-feature costs are read off the chosen indicator of each
		// curve; the aggregate is the (linear) objective itself.
		for i, c := range b.enc.Curves {
			selVals, err := b.be.Values(b.enc.Selectors(i))
			if err != nil {
				return Solution{}, err
			}
			chosen := 0
			for k, v := range selVals {
				if v > selVals[chosen] {
					chosen = k
				}
			}
			sol.Costs[c.Index] = c.Costs[chosen]
		}
		sol.Cost = res.Objective
	}

	sol.UpperBound = res.Objective
	sol.LowerBound = res.BestBound
	sol.Gap = res.Gap

	return sol, nil
}

// checkSolution runs the advisory consistency checks over a feasible
// record. Violations are reported as diagnostics, never as errors:
// small numerical drift near the decision boundary is expected and
// must not abort an otherwise usable explanation.
//
// Checks:
//  1. the changed-feature count lies within the configured item limits;
//  2. every changed feature is movable (belongs to the encoding);
//  3. applying the action flips the predicted sign, or lands within
//     flipTol of the boundary;
//  4. untouched features carry ~zero cost, changed features carry
//     strictly positive cost;
//  5. the aggregate cost matches the per-feature vector under the
//     configured cost type within aggTol relative tolerance.
func (b *Builder) checkSolution(sol *Solution) []string {
	var out []string

	movable := make(map[int]struct{}, len(b.enc.VarIdx))
	for _, idx := range b.enc.VarIdx {
		movable[idx] = struct{}{}
	}

	var changed []int
	for j, a := range sol.Actions {
		if math.Abs(a) > actionZeroTol {
			changed = append(changed, j)
		}
	}

	lo, hi := effectiveMin(b.minItems), b.maxItems
	if len(changed) < lo || len(changed) > hi {
		out = append(out, fmt.Sprintf("item count %d outside [%d, %d]", len(changed), lo, hi))
	}
	for _, j := range changed {
		if _, ok := movable[j]; !ok {
			out = append(out, fmt.Sprintf("feature %d changed but not actionable", j))
		}
	}

	xa := make([]float64, b.nVars)
	for j := range xa {
		xa[j] = b.cfg.X[j] + sol.Actions[j]
	}
	if b.Prediction(b.cfg.X) == b.Prediction(xa) {
		if s := b.Score(xa); math.Abs(s) <= flipTol {
			out = append(out, fmt.Sprintf("numerical issue: near-zero post-action score %.8f", s))
		} else {
			out = append(out, fmt.Sprintf("action does not flip the prediction (post-action score %.8f)", s))
		}
	}

	for j, c := range sol.Costs {
		isChanged := math.Abs(sol.Actions[j]) > actionZeroTol
		switch {
		case isChanged && c <= 0:
			out = append(out, fmt.Sprintf("changed feature %d has non-positive cost %.8f", j, c))
		case !isChanged && math.Abs(c) > actionZeroTol:
			out = append(out, fmt.Sprintf("untouched feature %d has non-zero cost %.8f", j, c))
		}
	}

	want := 0.0
	if b.cfg.CostType == CostMax {
		for _, c := range sol.Costs {
			if c > want {
				want = c
			}
		}
	} else {
		for _, c := range sol.Costs {
			want += c
		}
	}
	if math.Abs(sol.Cost-want) > aggTol*math.Max(1, math.Abs(want)) {
		out = append(out, fmt.Sprintf("aggregate cost %.8f does not match %s of per-feature costs %.8f", sol.Cost, b.cfg.CostType, want))
	}

	return out
}
