package actionset

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Sentinel errors for Set construction and lookup.
var (
	// ErrNoFeatures is returned when the sample matrix has no columns.
	ErrNoFeatures = errors.New("actionset: no features")

	// ErrNameCount is returned when the name list and the sample matrix
	// disagree on the feature count.
	ErrNameCount = errors.New("actionset: name count does not match feature count")

	// ErrDuplicateName is returned when two features share a name.
	ErrDuplicateName = errors.New("actionset: duplicate feature name")

	// ErrEmptyColumn is returned when a feature has no samples.
	ErrEmptyColumn = errors.New("actionset: feature has no samples")

	// ErrNonFinite is returned when a sample or query value is NaN or
	// infinite.
	ErrNonFinite = errors.New("actionset: non-finite value")

	// ErrUnknownFeature is returned when a name lookup fails.
	ErrUnknownFeature = errors.New("actionset: unknown feature")

	// ErrBadDirection is returned for a direction outside {-1, 0, +1}.
	ErrBadDirection = errors.New("actionset: direction must be -1, 0 or +1")
)

// sameValueTol is the absolute tolerance under which a query value is
// considered already present in a feature grid.
const sameValueTol = 1e-8

// Direction restricts which way a feature may move.
type Direction int8

const (
	// AnyDirection permits moves both up and down.
	AnyDirection Direction = 0

	// OnlyUp permits increases only (e.g. savings, tenure).
	OnlyUp Direction = 1

	// OnlyDown permits decreases only (e.g. outstanding debt).
	OnlyDown Direction = -1
)

// feature holds one column's percentile model and metadata.
type feature struct {
	name       string
	sorted     []float64 // ascending copy of the training column
	grid       []float64 // sorted unique sample values
	actionable bool
	direction  Direction
}

// Set is a data-derived action space over an ordered feature universe.
// Feature order matches the sample-matrix column order and must match
// the classifier coefficient order.
type Set struct {
	features []feature
	index    map[string]int
}

// New builds a Set from names and one sample column per feature.
// Columns may have different lengths but none may be empty, and every
// sample must be finite. All features start actionable with
// AnyDirection.
//
// Errors: ErrNoFeatures, ErrNameCount, ErrDuplicateName,
// ErrEmptyColumn, ErrNonFinite.
func New(names []string, columns [][]float64) (*Set, error) {
	if len(columns) == 0 {
		return nil, ErrNoFeatures
	}
	if len(names) != len(columns) {
		return nil, ErrNameCount
	}

	s := &Set{
		features: make([]feature, len(columns)),
		index:    make(map[string]int, len(columns)),
	}
	for j, col := range columns {
		if len(col) == 0 {
			return nil, ErrEmptyColumn
		}
		if _, dup := s.index[names[j]]; dup {
			return nil, ErrDuplicateName
		}

		sorted := append([]float64(nil), col...)
		for _, v := range sorted {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, ErrNonFinite
			}
		}
		sort.Float64s(sorted)

		grid := make([]float64, 0, len(sorted))
		for i, v := range sorted {
			if i == 0 || v != grid[len(grid)-1] {
				grid = append(grid, v)
			}
		}

		s.features[j] = feature{
			name:       names[j],
			sorted:     sorted,
			grid:       grid,
			actionable: true,
		}
		s.index[names[j]] = j
	}

	return s, nil
}

// Len returns the feature count.
func (s *Set) Len() int { return len(s.features) }

// Name returns the j-th feature name.
func (s *Set) Name(j int) string { return s.features[j].name }

// Actionable reports whether feature j may be moved.
func (s *Set) Actionable(j int) bool { return s.features[j].actionable }

// SetActionable flips the actionability flag of the named feature.
// Immutable features stay at their current value in every solution.
func (s *Set) SetActionable(name string, actionable bool) error {
	j, ok := s.index[name]
	if !ok {
		return ErrUnknownFeature
	}
	s.features[j].actionable = actionable

	return nil
}

// SetDirection restricts the named feature to one move direction.
func (s *Set) SetDirection(name string, d Direction) error {
	j, ok := s.index[name]
	if !ok {
		return ErrUnknownFeature
	}
	switch d {
	case AnyDirection, OnlyUp, OnlyDown:
	default:
		return ErrBadDirection
	}
	s.features[j].direction = d

	return nil
}

// FeasibleGrid returns the ascending candidate values for feature j at
// the given current value, with empirical percentiles. The grid is the
// unique sample values filtered by the feature's direction flag, with
// current spliced in when absent, so the returned grid always contains
// the no-op candidate.
//
// Percentiles are winsorized into (0, 1): with n training samples they
// are clamped to [1/(2n), 1 - 1/(2n)], keeping log-odds transforms
// finite at the sample extremes.
func (s *Set) FeasibleGrid(j int, current float64) (values, percentiles []float64, err error) {
	if math.IsNaN(current) || math.IsInf(current, 0) {
		return nil, nil, ErrNonFinite
	}
	f := &s.features[j]

	values = make([]float64, 0, len(f.grid)+1)
	inserted := false
	for _, v := range f.grid {
		switch {
		case f.direction == OnlyUp && v < current-sameValueTol:
			continue
		case f.direction == OnlyDown && v > current+sameValueTol:
			continue
		}
		if !inserted && v > current+sameValueTol {
			values = append(values, current)
			inserted = true
		}
		if math.Abs(v-current) <= sameValueTol {
			v = current
			inserted = true
		}
		values = append(values, v)
	}
	if !inserted {
		values = append(values, current)
	}

	percentiles = make([]float64, len(values))
	for i, v := range values {
		percentiles[i] = s.percentile(f, v)
	}

	return values, percentiles, nil
}

// Percentile returns the winsorized empirical percentile of value v
// for the named feature.
func (s *Set) Percentile(name string, v float64) (float64, error) {
	j, ok := s.index[name]
	if !ok {
		return 0, ErrUnknownFeature
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNonFinite
	}

	return s.percentile(&s.features[j], v), nil
}

func (s *Set) percentile(f *feature, v float64) float64 {
	p := stat.CDF(v, stat.Empirical, f.sorted, nil)
	floor := 1.0 / (2.0 * float64(len(f.sorted)))
	if p < floor {
		p = floor
	}
	if p > 1-floor {
		p = 1 - floor
	}

	return p
}
