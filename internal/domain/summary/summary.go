// Package summary holds summary-statistic vectors and matrices compared by
// the inference engine. The engine is agnostic to which features they hold;
// it only requires consistent dimensionality within one run.
package summary

import (
	"fmt"

	"github.com/ecodyn/abcmove/internal/domain"
)

// Vector is one fixed-length summary-statistic vector.
type Vector []float64

// Matrix holds one summary vector per simulated draw, index-aligned with
// the parameter sample.
type Matrix [][]float64

// Dim returns the common row dimension, or an error for ragged rows.
// An empty matrix has dimension zero.
func (m Matrix) Dim() (int, error) {
	if len(m) == 0 {
		return 0, nil
	}
	d := len(m[0])
	for i, row := range m {
		if len(row) != d {
			return 0, fmt.Errorf("summary: row %d: %w", i, domain.NewDimensionMismatch(d, len(row)))
		}
	}
	return d, nil
}

// RangeScale computes the per-dimension max minus min across the simulated
// population, the standardization reference used by the distance metric.
func RangeScale(m Matrix) (Vector, error) {
	if len(m) == 0 {
		return nil, fmt.Errorf("summary: range scale: %w", domain.ErrEmptyInput)
	}
	d, err := m.Dim()
	if err != nil {
		return nil, err
	}
	lo := make([]float64, d)
	hi := make([]float64, d)
	copy(lo, m[0])
	copy(hi, m[0])
	for _, row := range m[1:] {
		for j, v := range row {
			if v < lo[j] {
				lo[j] = v
			}
			if v > hi[j] {
				hi[j] = v
			}
		}
	}
	scale := make(Vector, d)
	for j := range scale {
		scale[j] = hi[j] - lo[j]
	}
	return scale, nil
}

// Rows builds a matrix from the given row indices.
func (m Matrix) Rows(indices []int) Matrix {
	out := make(Matrix, len(indices))
	for k, i := range indices {
		row := make([]float64, len(m[i]))
		copy(row, m[i])
		out[k] = row
	}
	return out
}
