// Package distance computes the standardized Euclidean distance between
// simulated summary vectors and an observed target.
package distance

import (
	"fmt"
	"math"

	"github.com/ecodyn/abcmove/internal/domain"
	"github.com/ecodyn/abcmove/internal/domain/summary"
)

// Compute returns one distance per simulated draw:
//
//	d[i] = sqrt(sum_j ((sim[i][j] - observed[j]) / reference[j])^2)
//
// reference is the per-dimension standardization scale, typically the range
// of each summary dimension across the simulated population. Every row of
// simulated must share the dimension of observed and reference, and no
// reference dimension may be zero.
func Compute(simulated summary.Matrix, observed, reference summary.Vector) ([]float64, error) {
	d, err := simulated.Dim()
	if err != nil {
		return nil, fmt.Errorf("distance: %w", err)
	}
	if len(simulated) == 0 {
		return nil, fmt.Errorf("distance: no simulated summaries: %w", domain.ErrEmptyInput)
	}
	if len(observed) != d {
		return nil, fmt.Errorf("distance: observed: %w", domain.NewDimensionMismatch(d, len(observed)))
	}
	if len(reference) != d {
		return nil, fmt.Errorf("distance: reference: %w", domain.NewDimensionMismatch(d, len(reference)))
	}
	for j, r := range reference {
		if r == 0 {
			return nil, fmt.Errorf("distance: dimension %d has zero-width reference: %w", j, domain.ErrDegenerateScale)
		}
	}

	out := make([]float64, len(simulated))
	for i, row := range simulated {
		var sum float64
		for j, v := range row {
			z := (v - observed[j]) / reference[j]
			sum += z * z
		}
		out[i] = math.Sqrt(sum)
	}
	return out, nil
}
