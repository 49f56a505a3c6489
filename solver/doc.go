// Package solver abstracts the interchangeable MIP backends the
// recourse formulator builds against: variable and constraint creation,
// objective coefficients, solve limits, synchronous solving, and
// solution retrieval.
//
// Backends differ in completeness. A full-featured backend supports
// adding constraints and mutating bounds or right-hand sides after the
// first solve (required for solution enumeration without rebuilding);
// a reduced backend may only support single-shot solves. Callers MUST
// branch on Capabilities(), never on the concrete backend type: the
// capability set is the contract, the solver identity is not.
//
// Concrete adapters live in subpackages:
//
//	solver/highs      — HiGHS via github.com/lanl/highs (full-featured)
//	solver/glpk       — GLPK via github.com/lukpank/go-glpk (single-shot)
//	solver/solvertest — pure-Go exhaustive oracle for package tests
//
// One Backend instance owns exactly one model. Instances are not safe
// for concurrent use; callers wanting parallel exploration construct
// independent backends through a Factory.
package solver
