package recourse

import (
	"fmt"

	"github.com/daanvanderveldt/actionable-recourse/solver"
)

// selectorOnTol is the threshold above which a relaxed binary value
// counts as "on". Solver integer tolerances keep binaries within about
// 1e-6 of {0, 1}, so the midpoint is a safe cut.
const selectorOnTol = 0.5

// Populate enumerates recourse solutions through a solve / record /
// exclude cycle: each feasible incumbent is recorded and its
// changed-feature combination excluded under opts.Policy, until
// opts.TotalItems records are collected or the model turns infeasible
// (exhausted). Only feasible records are returned; exhaustion before
// the target count is not an error.
//
// Exclusions accumulate in the backend model and persist across later
// Fit and Populate calls on the same Builder; Rebuild is the only way
// to clear them.
//
// Errors: ErrBadPolicy for an unrecognized policy; a wrapped
// solver.ErrNotSupported when the backend lacks the capability the
// policy needs (CapAddConstraint for DistinctSubsets, CapMutateBounds
// for MutuallyExclusive); backend solve errors unmodified. On error the
// records found so far are returned alongside it.
func (b *Builder) Populate(opts PopulateOptions) ([]Solution, error) {
	var need solver.Capability
	switch opts.Policy {
	case DistinctSubsets:
		need = solver.CapAddConstraint
	case MutuallyExclusive:
		need = solver.CapMutateBounds
	default:
		return nil, ErrBadPolicy
	}
	if !b.be.Capabilities().Has(need) {
		return nil, fmt.Errorf("recourse: %s enumeration: %w", opts.Policy, solver.ErrNotSupported)
	}

	var out []Solution
	for {
		sol, err := b.Fit(opts.FitOptions)
		if err != nil {
			return out, err
		}
		if !sol.Feasible {
			// Exhausted: every remaining combination is excluded or the
			// model was infeasible to begin with.
			return out, nil
		}

		out = append(out, sol)
		// Every recorded solution is excluded, the final one included:
		// the trail must cover the whole flipset so later Fit or
		// Populate calls on this Builder never re-return a combination
		// already handed out.
		if err := b.exclude(opts.Policy); err != nil {
			return out, err
		}
		if opts.TotalItems > 0 && len(out) >= opts.TotalItems {
			return out, nil
		}
	}
}

// exclude appends the exclusion for the backend's current incumbent.
// It reads the no-op selectors (off means the feature changed) and
// either locks the changed features untouched (MutuallyExclusive) or
// forbids the exact on/off combination (DistinctSubsets).
func (b *Builder) exclude(policy Policy) error {
	offVals, err := b.be.Values(b.enc.OffNames)
	if err != nil {
		return err
	}

	if policy == MutuallyExclusive {
		// Force every changed feature's no-op selector on from now on:
		// later solutions draw from a disjoint feature set.
		for i, v := range offVals {
			if v < selectorOnTol {
				if err := b.be.SetLowerBound(b.enc.OffNames[i], 1); err != nil {
					return err
				}
			}
		}

		return nil
	}

	// DistinctSubsets: no-good cut over the no-op selectors. With U the
	// untouched set and C the changed set of the incumbent,
	//	sum_{i in U} u[i][0] - sum_{i in C} u[i][0] <= |U| - 1
	// is violated only by the incumbent's exact combination.
	terms := make([]solver.Term, len(offVals))
	untouched := 0
	for i, v := range offVals {
		coef := -1.0
		if v >= selectorOnTol {
			coef = 1.0
			untouched++
		}
		terms[i] = solver.Term{Var: b.enc.OffNames[i], Coef: coef}
	}
	name := fmt.Sprintf("exclude[%d]", b.trail)
	if err := b.be.AddConstraint(name, terms, solver.LessEq, float64(untouched-1)); err != nil {
		return err
	}
	b.trail++

	return nil
}
