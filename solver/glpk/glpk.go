// Package glpk adapts the GNU Linear Programming Kit (via
// github.com/lukpank/go-glpk) to the solver.Backend capability surface.
//
// This is the reduced backend: the model is streamed into the GLPK
// problem object during construction and sealed by the first Solve.
// Post-seal constraint addition, bound tightening and right-hand-side
// mutation all return solver.ErrNotSupported, and Capabilities()
// declares none of the incremental bits, so the recourse core routes
// enumeration elsewhere instead of discovering the gap at runtime.
package glpk

import (
	"math"
	"time"

	glp "github.com/lukpank/go-glpk/glpk"

	"github.com/daanvanderveldt/actionable-recourse/solver"
)

// Backend implements solver.Backend on top of a retained *glpk.Prob.
// Not safe for concurrent use; one Backend owns one problem object.
type Backend struct {
	lp   *glp.Prob
	cols map[string]int
	rows map[string]int

	sealed bool
	solved bool

	timeLimit time.Duration
	nodeLimit int64
	display   bool
}

var _ solver.Backend = (*Backend)(nil)

// New returns an empty GLPK-backed minimization model.
func New() *Backend {
	lp := glp.New()
	lp.SetProbName("recourse")
	lp.SetObjName("cost")
	lp.SetObjDir(glp.MIN)

	return &Backend{
		lp:   lp,
		cols: make(map[string]int),
		rows: make(map[string]int),
	}
}

// Factory is a solver.Factory producing fresh GLPK backends.
func Factory() (solver.Backend, error) { return New(), nil }

// Close releases the underlying GLPK problem object. The Backend must
// not be used afterwards.
func (b *Backend) Close() {
	if b.lp != nil {
		b.lp.Delete()
		b.lp = nil
	}
}

// Capabilities declares no incremental support: this backend is
// single-shot by design.
func (b *Backend) Capabilities() solver.Capability { return 0 }

// AddVariable appends a column. Binary variables map to GLPK's BV
// column kind; continuous columns carry explicit bounds.
func (b *Backend) AddVariable(name string, vt solver.VarType, lb, ub, obj float64) error {
	if b.sealed {
		return solver.ErrNotSupported
	}
	if _, dup := b.cols[name]; dup {
		return solver.ErrDuplicateName
	}

	j := b.lp.AddCols(1)
	b.lp.SetColName(j, name)
	if vt == solver.Binary {
		b.lp.SetColKind(j, glp.BV)
	} else {
		b.lp.SetColKind(j, glp.CV)
		b.lp.SetColBnds(j, boundsType(lb, ub), finiteOr(lb, 0), finiteOr(ub, 0))
	}
	if obj != 0 {
		b.lp.SetObjCoef(j, obj)
	}
	b.cols[name] = j

	return nil
}

// AddConstraint appends a row before the model is sealed.
func (b *Backend) AddConstraint(name string, terms []solver.Term, sense solver.Sense, rhs float64) error {
	if b.sealed {
		return solver.ErrNotSupported
	}
	if _, dup := b.rows[name]; dup {
		return solver.ErrDuplicateName
	}

	// GLPK sparse rows are 1-based with ind[0]/val[0] ignored.
	ind := make([]int32, 1, len(terms)+1)
	val := make([]float64, 1, len(terms)+1)
	for _, t := range terms {
		j, ok := b.cols[t.Var]
		if !ok {
			return solver.ErrUnknownVariable
		}
		ind = append(ind, int32(j))
		val = append(val, t.Coef)
	}

	i := b.lp.AddRows(1)
	b.lp.SetRowName(i, name)
	switch sense {
	case solver.LessEq:
		b.lp.SetRowBnds(i, glp.UP, 0, rhs)
	case solver.GreaterEq:
		b.lp.SetRowBnds(i, glp.LO, rhs, 0)
	default:
		b.lp.SetRowBnds(i, glp.FX, rhs, rhs)
	}
	b.lp.SetMatRow(i, ind, val)
	b.rows[name] = i

	return nil
}

// SetObjectiveCoef replaces a column's objective coefficient before the
// model is sealed.
func (b *Backend) SetObjectiveCoef(name string, coef float64) error {
	if b.sealed {
		return solver.ErrNotSupported
	}
	j, ok := b.cols[name]
	if !ok {
		return solver.ErrUnknownVariable
	}
	b.lp.SetObjCoef(j, coef)

	return nil
}

// SetRHS is unavailable on the single-shot backend.
func (b *Backend) SetRHS(string, float64) error { return solver.ErrNotSupported }

// SetLowerBound is unavailable on the single-shot backend.
func (b *Backend) SetLowerBound(string, float64) error { return solver.ErrNotSupported }

// SetTimeLimit records the wall-clock budget. The go-glpk binding
// exposes no MIP parameter surface, so the limit is advisory only.
func (b *Backend) SetTimeLimit(d time.Duration) { b.timeLimit = d }

// SetNodeLimit records the node budget (advisory, see SetTimeLimit).
func (b *Backend) SetNodeLimit(n int64) { b.nodeLimit = n }

// SetDisplay records the verbosity flag.
func (b *Backend) SetDisplay(on bool) { b.display = on }

// Solve runs the GLPK branch-and-cut with presolve and seals the model.
//
// An infeasible model is reported through Result.Feasible == false;
// only genuine solver failures surface as errors.
func (b *Backend) Solve() (solver.Result, error) {
	if len(b.cols) == 0 {
		return solver.Result{}, solver.ErrEmptyModel
	}
	b.sealed = true

	iocp := glp.NewIocp()
	iocp.SetPresolve(true)

	start := time.Now()
	solveErr := b.lp.Intopt(iocp)
	elapsed := time.Since(start)

	status := b.lp.MipStatus()
	res := solver.Result{
		Status:  statusString(status),
		Runtime: elapsed,
	}
	if status == glp.OPT || status == glp.FEAS {
		b.solved = true
		res.Feasible = true
		res.Objective = b.lp.MipObjVal()
		res.BestBound = res.Objective
		if status == glp.FEAS {
			// Stopped before proving optimality; the bound is unknown.
			res.BestBound = math.Inf(-1)
			res.Gap = math.Inf(1)
		}

		return res, nil
	}

	b.solved = false
	if status == glp.NOFEAS || status == glp.UNDEF {
		// Infeasibility travels through the result, not the error: the
		// enumerator treats it as exhaustion, not failure.
		return res, nil
	}

	return res, solveErr
}

// Value returns the incumbent value of one column.
func (b *Backend) Value(name string) (float64, error) {
	j, ok := b.cols[name]
	if !ok {
		return 0, solver.ErrUnknownVariable
	}
	if !b.solved {
		return 0, solver.ErrNotSolved
	}

	return b.lp.MipColVal(j), nil
}

// Values returns incumbent values for a list of columns.
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

// boundsType maps a [lb, ub] box onto GLPK's bound-type enum.
func boundsType(lb, ub float64) glp.BndsType {
	loFin := !math.IsInf(lb, -1)
	upFin := !math.IsInf(ub, 1)
	switch {
	case loFin && upFin && lb == ub:
		return glp.FX
	case loFin && upFin:
		return glp.DB
	case loFin:
		return glp.LO
	case upFin:
		return glp.UP
	default:
		return glp.FR
	}
}

// finiteOr substitutes def for an infinite bound (GLPK ignores the
// irrelevant side, but the argument must still be finite).
func finiteOr(v, def float64) float64 {
	if math.IsInf(v, 0) {
		return def
	}

	return v
}

// statusString renders GLPK's MIP solution status.
func statusString(s glp.SolStat) string {
	switch s {
	case glp.OPT:
		return "integer optimal"
	case glp.FEAS:
		return "integer feasible"
	case glp.NOFEAS:
		return "no integer feasible solution"
	case glp.INFEAS:
		return "infeasible"
	case glp.UNBND:
		return "unbounded"
	default:
		return "undefined"
	}
}
