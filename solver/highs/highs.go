// Package highs adapts the HiGHS solver (github.com/lanl/highs) to the
// solver.Backend capability surface.
//
// The adapter retains the whole model in Go slices and translates it
// into a fresh highs.Model on every Solve. Because the retained form is
// plain data, post-solve constraint addition, right-hand-side updates
// and bound tightening are all cheap in-place edits followed by a
// re-solve, so this backend declares the full capability set.
package highs

import (
	"math"
	"time"

	"github.com/lanl/highs"

	"github.com/daanvanderveldt/actionable-recourse/solver"
)

// variable is the retained form of one decision variable.
type variable struct {
	name   string
	vt     solver.VarType
	lb, ub float64
	obj    float64
}

// row is the retained form of one linear constraint.
type row struct {
	name  string
	terms []solver.Term
	sense solver.Sense
	rhs   float64
}

// Backend implements solver.Backend on top of HiGHS.
// Not safe for concurrent use; one Backend owns one model.
type Backend struct {
	vars     []variable
	varIndex map[string]int
	rows     []row
	rowIndex map[string]int

	timeLimit time.Duration
	nodeLimit int64
	display   bool

	solved bool
	primal []float64
}

var _ solver.Backend = (*Backend)(nil)

// New returns an empty HiGHS-backed model.
func New() *Backend {
	return &Backend{
		varIndex: make(map[string]int),
		rowIndex: make(map[string]int),
	}
}

// Factory is a solver.Factory producing fresh HiGHS backends.
func Factory() (solver.Backend, error) { return New(), nil }

// Capabilities declares full incremental support: the retained model
// can always be edited and re-solved.
func (b *Backend) Capabilities() solver.Capability {
	return solver.CapAddConstraint | solver.CapMutateRHS | solver.CapMutateBounds
}

// AddVariable appends a variable with the given type, box and objective
// coefficient.
func (b *Backend) AddVariable(name string, vt solver.VarType, lb, ub, obj float64) error {
	if _, dup := b.varIndex[name]; dup {
		return solver.ErrDuplicateName
	}
	if vt == solver.Binary {
		// Binary boxes are fixed to {0,1}; later bound mutation may
		// still tighten them.
		lb, ub = math.Max(lb, 0), math.Min(ub, 1)
	}
	b.varIndex[name] = len(b.vars)
	b.vars = append(b.vars, variable{name: name, vt: vt, lb: lb, ub: ub, obj: obj})
	b.solved = false

	return nil
}

// AddConstraint appends a named linear constraint. Allowed at any time.
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

// SetObjectiveCoef replaces the objective coefficient of one variable.
func (b *Backend) SetObjectiveCoef(name string, coef float64) error {
	j, ok := b.varIndex[name]
	if !ok {
		return solver.ErrUnknownVariable
	}
	b.vars[j].obj = coef
	b.solved = false

	return nil
}

// SetRHS replaces the right-hand side of a named constraint in place.
func (b *Backend) SetRHS(name string, rhs float64) error {
	i, ok := b.rowIndex[name]
	if !ok {
		return solver.ErrUnknownConstraint
	}
	b.rows[i].rhs = rhs
	b.solved = false

	return nil
}

// SetLowerBound tightens (or relaxes) the lower bound of a variable.
func (b *Backend) SetLowerBound(name string, lb float64) error {
	j, ok := b.varIndex[name]
	if !ok {
		return solver.ErrUnknownVariable
	}
	b.vars[j].lb = lb
	b.solved = false

	return nil
}

// SetTimeLimit records the wall-clock budget for the next solve.
// The lanl/highs binding exposes no parameter surface, so the limit is
// carried into Result diagnostics only.
func (b *Backend) SetTimeLimit(d time.Duration) { b.timeLimit = d }

// SetNodeLimit records the node budget for the next solve.
func (b *Backend) SetNodeLimit(n int64) { b.nodeLimit = n }

// SetDisplay records the verbosity flag.
func (b *Backend) SetDisplay(on bool) { b.display = on }

// Solve translates the retained model into a highs.Model and solves it
// synchronously.
//
// Errors from the underlying solver are propagated unmodified; an
// infeasible model is NOT an error and comes back as Result.Feasible
// == false with the backend's status string.
func (b *Backend) Solve() (solver.Result, error) {
	if len(b.vars) == 0 {
		return solver.Result{}, solver.ErrEmptyModel
	}

	var m highs.Model
	n := len(b.vars)
	m.VarTypes = make([]highs.VariableType, n)
	m.ColLower = make([]float64, n)
	m.ColUpper = make([]float64, n)
	m.ColCosts = make([]float64, n)
	for j, v := range b.vars {
		switch v.vt {
		case solver.Binary:
			m.VarTypes[j] = highs.IntegerType
		default:
			m.VarTypes[j] = highs.ContinuousType
		}
		m.ColLower[j] = v.lb
		m.ColUpper[j] = v.ub
		m.ColCosts[j] = v.obj
	}

	inf := math.Inf(1)
	m.RowLower = make([]float64, len(b.rows))
	m.RowUpper = make([]float64, len(b.rows))
	for i, r := range b.rows {
		switch r.sense {
		case solver.LessEq:
			m.RowLower[i], m.RowUpper[i] = -inf, r.rhs
		case solver.GreaterEq:
			m.RowLower[i], m.RowUpper[i] = r.rhs, inf
		default:
			m.RowLower[i], m.RowUpper[i] = r.rhs, r.rhs
		}
		for _, t := range r.terms {
			m.ConstMatrix = append(m.ConstMatrix, highs.Nonzero{
				Row: i,
				Col: b.varIndex[t.Var],
				Val: t.Coef,
			})
		}
	}

	start := time.Now()
	sol, err := m.Solve()
	if err != nil {
		return solver.Result{}, err
	}

	res := solver.Result{
		Status:  sol.Status.String(),
		Runtime: time.Since(start),
	}
	// Status mapping. Only Optimal carries a usable incumbent here:
	//   - Optimal                          -> feasible, values readable
	//   - Infeasible / UnboundedOrInfeasible -> no solution, nil error
	//   - limit statuses (time/iteration)  -> unreachable: the binding
	//     exposes no limit parameters, so a run is never cut short
	//   - load/model/solve errors          -> already returned by
	//     m.Solve above as a non-nil error
	// Should the binding grow limit parameters, limit-terminated runs
	// may carry an incumbent and need their own feasible branch.
	if sol.Status != highs.Optimal {
		b.solved = false

		return res, nil
	}

	b.primal = sol.ColumnPrimal
	b.solved = true
	res.Feasible = true
	res.Objective = sol.Objective
	// The binding reports no dual bound; for a completed HiGHS run the
	// incumbent is proven optimal, so bound == objective and gap == 0.
	res.BestBound = sol.Objective

	return res, nil
}

// Value returns the incumbent value of one variable.
func (b *Backend) Value(name string) (float64, error) {
	j, ok := b.varIndex[name]
	if !ok {
		return 0, solver.ErrUnknownVariable
	}
	if !b.solved || j >= len(b.primal) {
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
