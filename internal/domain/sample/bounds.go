package sample

import (
	"fmt"

	"github.com/ecodyn/abcmove/internal/domain"
)

// Bounds is the per-parameter [min, max] support observed in a full prior
// sample. Adjusted draws and MAP estimates are never allowed outside it.
type Bounds struct {
	names []string
	lower []float64
	upper []float64
}

// BoundsOf computes prior bounds from the full sample, restricted to the
// given column indices. A nil cols slice covers every column.
func BoundsOf(s *Sample, cols []int) (Bounds, error) {
	if s.N() == 0 {
		return Bounds{}, fmt.Errorf("bounds: %w", domain.ErrEmptyInput)
	}
	if cols == nil {
		cols = make([]int, s.Dim())
		for j := range cols {
			cols[j] = j
		}
	}
	b := Bounds{
		names: make([]string, len(cols)),
		lower: make([]float64, len(cols)),
		upper: make([]float64, len(cols)),
	}
	for k, j := range cols {
		if j < 0 || j >= s.Dim() {
			return Bounds{}, fmt.Errorf("bounds: column %d out of range: %w", j, domain.ErrUnknownParameter)
		}
		b.names[k] = s.names[j]
		lo, hi := s.At(0, j), s.At(0, j)
		for i := 1; i < s.N(); i++ {
			v := s.At(i, j)
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		b.lower[k], b.upper[k] = lo, hi
	}
	return b, nil
}

// NewBounds creates bounds from explicit lower/upper vectors.
func NewBounds(names []string, lower, upper []float64) (Bounds, error) {
	if len(lower) != len(names) || len(upper) != len(names) {
		return Bounds{}, fmt.Errorf("bounds: %w", domain.NewDimensionMismatch(len(names), len(lower)))
	}
	for k := range lower {
		if lower[k] > upper[k] {
			return Bounds{}, fmt.Errorf("bounds: %s: lower %v above upper %v: %w",
				names[k], lower[k], upper[k], domain.ErrEmptyInput)
		}
	}
	b := Bounds{
		names: make([]string, len(names)),
		lower: make([]float64, len(lower)),
		upper: make([]float64, len(upper)),
	}
	copy(b.names, names)
	copy(b.lower, lower)
	copy(b.upper, upper)
	return b, nil
}

// Dim returns the number of bounded dimensions.
func (b Bounds) Dim() int { return len(b.names) }

// Names returns a copy of the bounded parameter names.
func (b Bounds) Names() []string {
	ns := make([]string, len(b.names))
	copy(ns, b.names)
	return ns
}

// Lower returns a copy of the lower bounds.
func (b Bounds) Lower() []float64 {
	l := make([]float64, len(b.lower))
	copy(l, b.lower)
	return l
}

// Upper returns a copy of the upper bounds.
func (b Bounds) Upper() []float64 {
	u := make([]float64, len(b.upper))
	copy(u, b.upper)
	return u
}

// Clamp truncates v in place to the bounds and returns it.
// Values outside the support move to the nearest bound, never beyond.
func (b Bounds) Clamp(v []float64) []float64 {
	for k := range v {
		if k >= len(b.lower) {
			break
		}
		if v[k] < b.lower[k] {
			v[k] = b.lower[k]
		}
		if v[k] > b.upper[k] {
			v[k] = b.upper[k]
		}
	}
	return v
}

// Contains reports whether v lies inside the support in every dimension.
func (b Bounds) Contains(v []float64) bool {
	if len(v) != len(b.lower) {
		return false
	}
	for k := range v {
		if v[k] < b.lower[k] || v[k] > b.upper[k] {
			return false
		}
	}
	return true
}
