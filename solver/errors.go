// Package solver: sentinel error set shared by all backends.

package solver

import "errors"

var (
	// ErrNotSupported is returned when the requested operation (e.g.
	// adding an exclusion constraint or mutating a bound after the
	// model is sealed) is unavailable on the active backend. Callers
	// must switch backend or enumeration policy; retrying cannot help.
	ErrNotSupported = errors.New("solver: operation not supported by this backend")

	// ErrUnknownVariable is returned when a variable name has never
	// been added to the model.
	ErrUnknownVariable = errors.New("solver: unknown variable")

	// ErrUnknownConstraint is returned when a constraint name has never
	// been added to the model.
	ErrUnknownConstraint = errors.New("solver: unknown constraint")

	// ErrDuplicateName is returned when a variable or constraint name
	// is added twice; names are the mutation handles, so they must be
	// unique.
	ErrDuplicateName = errors.New("solver: duplicate variable or constraint name")

	// ErrNotSolved is returned when solution values are requested
	// before a successful solve, or after a mutation invalidated the
	// incumbent.
	ErrNotSolved = errors.New("solver: no solution available")

	// ErrEmptyModel is returned when Solve is invoked on a model with
	// no variables.
	ErrEmptyModel = errors.New("solver: model has no variables")
)
