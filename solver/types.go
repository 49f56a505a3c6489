package solver

import "time"

// VarType distinguishes continuous from binary decision variables.
type VarType uint8

const (
	// Continuous variables range over their [lb, ub] box.
	Continuous VarType = iota

	// Binary variables take values in {0, 1}; bound mutation may still
	// tighten them (a lower bound of 1 pins the variable on).
	Binary
)

// Sense is the relation of a linear constraint to its right-hand side.
type Sense uint8

const (
	// LessEq encodes sum(terms) <= rhs.
	LessEq Sense = iota

	// GreaterEq encodes sum(terms) >= rhs.
	GreaterEq

	// Equal encodes sum(terms) == rhs.
	Equal
)

// Term is one coefficient of a linear expression, addressed by
// variable name.
type Term struct {
	Var  string
	Coef float64
}

// Capability is the declared feature set of a backend. The recourse
// core branches on these bits, never on the backend's identity.
type Capability uint8

const (
	// CapAddConstraint: rows may be added after the first solve
	// (required by the distinct-subsets enumeration policy).
	CapAddConstraint Capability = 1 << iota

	// CapMutateRHS: constraint right-hand sides may be changed in
	// place (required for in-place item-limit updates).
	CapMutateRHS

	// CapMutateBounds: variable bounds may be tightened after the
	// first solve (required by the mutually-exclusive policy).
	CapMutateBounds
)

// Has reports whether every bit of want is present.
func (c Capability) Has(want Capability) bool { return c&want == want }

// Result carries the outcome and diagnostics of one synchronous solve.
// Fields a backend cannot observe are left at their zero values.
type Result struct {
	// Feasible reports whether a primal-feasible point was found.
	Feasible bool

	// Status is the backend's human-readable termination status.
	Status string

	// Objective is the incumbent objective value (upper bound for a
	// minimization); meaningless when !Feasible.
	Objective float64

	// BestBound is the best proven objective bound.
	BestBound float64

	// Gap is the relative optimality gap between Objective and
	// BestBound.
	Gap float64

	// Iterations counts simplex/barrier iterations, when exposed.
	Iterations int64

	// NodesProcessed and NodesRemaining describe the branch-and-bound
	// tree, when exposed.
	NodesProcessed int64
	NodesRemaining int64

	// Runtime is the backend-measured solve time, when exposed.
	Runtime time.Duration
}

// Backend is the capability surface the MIP formulator requires.
//
// Model construction (AddVariable, AddConstraint, SetObjectiveCoef) is
// always available before the first Solve. Whether mutation remains
// available afterwards is declared by Capabilities; a backend without
// the matching bit returns ErrNotSupported.
//
// Value and Values read the incumbent of the most recent feasible
// Solve; they return ErrNotSolved otherwise.
type Backend interface {
	AddVariable(name string, vt VarType, lb, ub, obj float64) error
	AddConstraint(name string, terms []Term, sense Sense, rhs float64) error
	SetObjectiveCoef(name string, coef float64) error
	SetRHS(name string, rhs float64) error
	SetLowerBound(name string, lb float64) error

	SetTimeLimit(d time.Duration)
	SetNodeLimit(n int64)
	SetDisplay(on bool)

	Solve() (Result, error)
	Value(name string) (float64, error)
	Values(names []string) ([]float64, error)

	Capabilities() Capability
}

// Factory constructs a fresh, empty Backend. The recourse Builder keeps
// a Factory so an explicit rebuild can discard the sealed model and
// start over with a new handle.
type Factory func() (Backend, error)
