// Package sample holds parameter draws and the prior bounds derived from them.
package sample

import (
	"fmt"

	"github.com/ecodyn/abcmove/internal/domain"
)

// Sample is an immutable, rectangular matrix of parameter draws with named
// columns. Rows are draws, columns are parameter dimensions.
type Sample struct {
	names []string
	data  [][]float64
}

// New creates a sample from named columns and row-major draws.
// Every row must have exactly len(names) values.
func New(names []string, rows [][]float64) (*Sample, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("sample: no parameter names: %w", domain.ErrEmptyInput)
	}
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n == "" {
			return nil, fmt.Errorf("sample: empty parameter name: %w", domain.ErrUnknownParameter)
		}
		if _, dup := seen[n]; dup {
			return nil, fmt.Errorf("sample: duplicate parameter %q: %w", n, domain.ErrUnknownParameter)
		}
		seen[n] = struct{}{}
	}
	data := make([][]float64, len(rows))
	for i, r := range rows {
		if len(r) != len(names) {
			return nil, fmt.Errorf("sample: row %d: %w", i, domain.NewDimensionMismatch(len(names), len(r)))
		}
		row := make([]float64, len(r))
		copy(row, r)
		data[i] = row
	}
	ns := make([]string, len(names))
	copy(ns, names)
	return &Sample{names: ns, data: data}, nil
}

// N returns the number of draws.
func (s *Sample) N() int { return len(s.data) }

// Dim returns the number of parameter dimensions.
func (s *Sample) Dim() int { return len(s.names) }

// Names returns a copy of the parameter names.
func (s *Sample) Names() []string {
	ns := make([]string, len(s.names))
	copy(ns, s.names)
	return ns
}

// At returns the value of draw i for parameter j.
func (s *Sample) At(i, j int) float64 { return s.data[i][j] }

// Row returns a copy of draw i.
func (s *Sample) Row(i int) []float64 {
	r := make([]float64, len(s.data[i]))
	copy(r, s.data[i])
	return r
}

// Col returns a copy of parameter column j across all draws.
func (s *Sample) Col(j int) []float64 {
	c := make([]float64, len(s.data))
	for i := range s.data {
		c[i] = s.data[i][j]
	}
	return c
}

// ColIndex resolves a parameter name to its column index.
func (s *Sample) ColIndex(name string) (int, bool) {
	for j, n := range s.names {
		if n == name {
			return j, true
		}
	}
	return 0, false
}

// Indices resolves parameter names to column indices, preserving order.
func (s *Sample) Indices(names []string) ([]int, error) {
	idx := make([]int, 0, len(names))
	for _, n := range names {
		j, ok := s.ColIndex(n)
		if !ok {
			return nil, fmt.Errorf("sample: parameter %q: %w", n, domain.ErrUnknownParameter)
		}
		idx = append(idx, j)
	}
	return idx, nil
}

// Select builds a new sample from the given draw indices and column indices.
// A nil rows slice keeps every draw; a nil cols slice keeps every column.
func (s *Sample) Select(rows, cols []int) (*Sample, error) {
	if cols == nil {
		cols = make([]int, s.Dim())
		for j := range cols {
			cols[j] = j
		}
	}
	if rows == nil {
		rows = make([]int, s.N())
		for i := range rows {
			rows[i] = i
		}
	}
	names := make([]string, len(cols))
	for k, j := range cols {
		if j < 0 || j >= s.Dim() {
			return nil, fmt.Errorf("sample: column %d out of range: %w", j, domain.ErrUnknownParameter)
		}
		names[k] = s.names[j]
	}
	data := make([][]float64, len(rows))
	for k, i := range rows {
		if i < 0 || i >= s.N() {
			return nil, fmt.Errorf("sample: row %d out of range: %w", i, domain.ErrEmptyInput)
		}
		row := make([]float64, len(cols))
		for c, j := range cols {
			row[c] = s.data[i][j]
		}
		data[k] = row
	}
	return &Sample{names: names, data: data}, nil
}
