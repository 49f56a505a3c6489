// Package solvertest provides a pure-Go oracle backend for tests.
//
// The oracle solves the indicator-structured models the recourse
// formulator emits by bounded exhaustive search: it enumerates every
// assignment of the binary variables (respecting mutated bounds),
// derives the continuous variables from the model's defining equality
// rows, lower-bounds any remaining minimized continuous variable (the
// linearized max-cost), and keeps the best feasible objective.
//
// It is deliberately NOT a general MIP solver: it refuses models with
// more than a few dozen binaries and assumes minimization with
// non-negative objective coefficients on underdetermined continuous
// variables. That is exactly the shape of a recourse MIP and keeps the
// oracle small, deterministic and dependency-free, so every package in
// this module can test real solve/enumerate paths without a cgo solver
// install.
//
// The oracle declares the full capability set, mirroring a
// full-featured production backend.
package solvertest

import (
	"errors"
	"math"
	"time"

	"github.com/daanvanderveldt/actionable-recourse/solver"
)

// maxBinaries bounds the exhaustive search space (2^28 assignments is
// already far beyond any sensible test model).
const maxBinaries = 28

// feasTol is the absolute tolerance for constraint satisfaction.
const feasTol = 1e-9

// ErrTooLarge is returned when the model has more binary variables
// than the exhaustive oracle is willing to enumerate.
var ErrTooLarge = errors.New("solvertest: too many binary variables for exhaustive search")

type variable struct {
	name   string
	vt     solver.VarType
	lb, ub float64
	obj    float64
}

type row struct {
	name  string
	terms []solver.Term
	sense solver.Sense
	rhs   float64
}

// Backend is the exhaustive oracle. Not safe for concurrent use.
type Backend struct {
	vars     []variable
	varIndex map[string]int
	rows     []row
	rowIndex map[string]int

	nodeLimit int64

	solved bool
	primal []float64
}

var _ solver.Backend = (*Backend)(nil)

// New returns an empty oracle model.
func New() *Backend {
	return &Backend{
		varIndex: make(map[string]int),
		rowIndex: make(map[string]int),
	}
}

// Factory is a solver.Factory producing fresh oracle backends.
func Factory() (solver.Backend, error) { return New(), nil }

// Capabilities declares the full set; the oracle stands in for a
// full-featured backend in tests.
func (b *Backend) Capabilities() solver.Capability {
	return solver.CapAddConstraint | solver.CapMutateRHS | solver.CapMutateBounds
}

// AddVariable appends a variable.
func (b *Backend) AddVariable(name string, vt solver.VarType, lb, ub, obj float64) error {
	if _, dup := b.varIndex[name]; dup {
		return solver.ErrDuplicateName
	}
	if vt == solver.Binary {
		lb, ub = math.Max(lb, 0), math.Min(ub, 1)
	}
	b.varIndex[name] = len(b.vars)
	b.vars = append(b.vars, variable{name: name, vt: vt, lb: lb, ub: ub, obj: obj})
	b.solved = false

	return nil
}

// AddConstraint appends a named row; allowed at any time.
func (b *Backend) AddConstraint(name string, terms []solver.Term, sense solver.Sense, rhs float64) error {
	if _, dup := b.rowIndex[name]; dup {
		return solver.ErrDuplicateName
	}
	for _, t := range terms {
		if _, ok := b.varIndex[t.Var]; !ok {
			return solver.ErrUnknownVariable
		}
	}
	kept := make([]solver.Term, len(terms))
	copy(kept, terms)
	b.rowIndex[name] = len(b.rows)
	b.rows = append(b.rows, row{name: name, terms: kept, sense: sense, rhs: rhs})
	b.solved = false

	return nil
}

// SetObjectiveCoef replaces one objective coefficient.
func (b *Backend) SetObjectiveCoef(name string, coef float64) error {
	j, ok := b.varIndex[name]
	if !ok {
		return solver.ErrUnknownVariable
	}
	b.vars[j].obj = coef
	b.solved = false

	return nil
}

// SetRHS replaces a row's right-hand side in place.
func (b *Backend) SetRHS(name string, rhs float64) error {
	i, ok := b.rowIndex[name]
	if !ok {
		return solver.ErrUnknownConstraint
	}
	b.rows[i].rhs = rhs
	b.solved = false

	return nil
}

// SetLowerBound tightens a variable's lower bound.
func (b *Backend) SetLowerBound(name string, lb float64) error {
	j, ok := b.varIndex[name]
	if !ok {
		return solver.ErrUnknownVariable
	}
	b.vars[j].lb = lb
	b.solved = false

	return nil
}

// SetTimeLimit is a no-op: oracle solves are effectively instant.
func (b *Backend) SetTimeLimit(time.Duration) {}

// SetNodeLimit caps the number of binary assignments examined.
func (b *Backend) SetNodeLimit(n int64) { b.nodeLimit = n }

// SetDisplay is a no-op.
func (b *Backend) SetDisplay(bool) {}

// Solve enumerates binary assignments and returns the best feasible
// point found.
func (b *Backend) Solve() (solver.Result, error) {
	if len(b.vars) == 0 {
		return solver.Result{}, solver.ErrEmptyModel
	}

	var binIdx []int
	for j, v := range b.vars {
		if v.vt == solver.Binary {
			binIdx = append(binIdx, j)
		}
	}
	if len(binIdx) > maxBinaries {
		return solver.Result{}, ErrTooLarge
	}

	start := time.Now()
	var (
		bestObj    = math.Inf(1)
		bestPrimal []float64
		examined   int64
	)
	total := int64(1) << len(binIdx)
	for mask := int64(0); mask < total; mask++ {
		if b.nodeLimit > 0 && examined >= b.nodeLimit {
			break
		}
		examined++

		vals, ok := b.evaluate(binIdx, mask)
		if !ok {
			continue
		}
		obj := 0.0
		for j, v := range b.vars {
			obj += v.obj * vals[j]
		}
		if obj < bestObj {
			bestObj = obj
			bestPrimal = vals
		}
	}

	res := solver.Result{
		Status:         "exhausted search space",
		Iterations:     examined,
		NodesProcessed: examined,
		Runtime:        time.Since(start),
	}
	if bestPrimal == nil {
		b.solved = false
		res.Status = "no solution exists"

		return res, nil
	}

	b.primal = bestPrimal
	b.solved = true
	res.Feasible = true
	res.Status = "optimal"
	res.Objective = bestObj
	res.BestBound = bestObj

	return res, nil
}

// evaluate instantiates one binary assignment, derives the continuous
// variables and checks every row. It reports ok=false for an
// infeasible assignment.
func (b *Backend) evaluate(binIdx []int, mask int64) ([]float64, bool) {
	n := len(b.vars)
	vals := make([]float64, n)
	known := make([]bool, n)

	for bit, j := range binIdx {
		x := float64((mask >> bit) & 1)
		if x < b.vars[j].lb-feasTol || x > b.vars[j].ub+feasTol {
			return nil, false
		}
		vals[j] = x
		known[j] = true
	}

	// Fixed-point pass: any equality row with exactly one unknown pins
	// that unknown (this covers the a[j] and c[j] defining rows).
	for changed := true; changed; {
		changed = false
		for _, r := range b.rows {
			if r.sense != solver.Equal {
				continue
			}
			unknown, sum := -1, 0.0
			skip := false
			for _, t := range r.terms {
				j := b.varIndex[t.Var]
				if known[j] {
					sum += t.Coef * vals[j]
				} else if unknown >= 0 {
					skip = true

					break
				} else {
					unknown = j
				}
			}
			if skip || unknown < 0 {
				continue
			}
			coef := 0.0
			for _, t := range r.terms {
				if b.varIndex[t.Var] == unknown {
					coef += t.Coef
				}
			}
			if coef == 0 {
				continue
			}
			vals[unknown] = (r.rhs - sum) / coef
			known[unknown] = true
			changed = true
		}
	}

	// Remaining unknowns (the minimized max-cost variable): set each to
	// the tightest lower bound implied by rows where it is the single
	// unknown, or its own bound. Final feasibility check below catches
	// anything this underestimates.
	for j := range b.vars {
		if known[j] {
			continue
		}
		lo := b.vars[j].lb
		if math.IsInf(lo, -1) {
			lo = 0
		}
		for _, r := range b.rows {
			if r.sense == solver.Equal {
				continue
			}
			coef, sum, only := 0.0, 0.0, true
			present := false
			for _, t := range r.terms {
				k := b.varIndex[t.Var]
				if k == j {
					coef += t.Coef
					present = true
				} else if known[k] {
					sum += t.Coef * vals[k]
				} else {
					only = false
				}
			}
			if !present || !only || coef == 0 {
				continue
			}
			bound := (r.rhs - sum) / coef
			isLower := (r.sense == solver.GreaterEq && coef > 0) || (r.sense == solver.LessEq && coef < 0)
			if isLower && bound > lo {
				lo = bound
			}
		}
		vals[j] = lo
		known[j] = true
	}

	// Full feasibility check: variable boxes, then every row.
	for j, v := range b.vars {
		if vals[j] < v.lb-feasTol || vals[j] > v.ub+feasTol {
			return nil, false
		}
	}
	for _, r := range b.rows {
		lhs := 0.0
		for _, t := range r.terms {
			lhs += t.Coef * vals[b.varIndex[t.Var]]
		}
		switch r.sense {
		case solver.LessEq:
			if lhs > r.rhs+feasTol {
				return nil, false
			}
		case solver.GreaterEq:
			if lhs < r.rhs-feasTol {
				return nil, false
			}
		default:
			if math.Abs(lhs-r.rhs) > feasTol {
				return nil, false
			}
		}
	}

	return vals, true
}

// Value returns the incumbent value of one variable.
func (b *Backend) Value(name string) (float64, error) {
	j, ok := b.varIndex[name]
	if !ok {
		return 0, solver.ErrUnknownVariable
	}
	if !b.solved {
		return 0, solver.ErrNotSolved
	}

	return b.primal[j], nil
}

// Values returns incumbent values for a list of variables.
func (b *Backend) Values(names []string) ([]float64, error) {
	out := make([]float64, len(names))
	for i, name := range names {
		v, err := b.Value(name)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}

	return out, nil
}
