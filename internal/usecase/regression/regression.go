// Package regression implements the local-linear post-acceptance correction:
// accepted draws have summaries near but not equal to the observed target,
// so an OLS fit of parameter deviation on summary deviation is subtracted
// out, evaluated at the observed point.
package regression

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/ecodyn/abcmove/internal/domain"
	"github.com/ecodyn/abcmove/internal/domain/sample"
	"github.com/ecodyn/abcmove/internal/domain/summary"
)

// Adjust fits one multivariate OLS regression of the accepted parameters on
// the centered accepted summaries and subtracts the predicted deviation from
// every accepted draw. The intercept is fit but discarded: the correction is
// evaluated at centered = 0, so only slope terms matter. Adjusted values are
// clamped to the prior support.
func Adjust(
	params *sample.Sample,
	summaries summary.Matrix,
	observed summary.Vector,
	bounds sample.Bounds,
) (*sample.Sample, error) {
	n := params.N()
	if n == 0 {
		return nil, fmt.Errorf("regression: %w", domain.ErrEmptyInput)
	}
	d, err := summaries.Dim()
	if err != nil {
		return nil, fmt.Errorf("regression: %w", err)
	}
	if len(summaries) != n {
		return nil, fmt.Errorf("regression: summaries: %w", domain.NewDimensionMismatch(n, len(summaries)))
	}
	if len(observed) != d {
		return nil, fmt.Errorf("regression: observed: %w", domain.NewDimensionMismatch(d, len(observed)))
	}
	if bounds.Dim() != params.Dim() {
		return nil, fmt.Errorf("regression: bounds: %w", domain.NewDimensionMismatch(params.Dim(), bounds.Dim()))
	}
	// Need more rows than intercept + slope columns for a full-rank fit.
	if n <= d+1 {
		return nil, fmt.Errorf("regression: %d accepted draws for %d summary dimensions: %w",
			n, d, domain.ErrSingularDesign)
	}

	centered := make([][]float64, n)
	design := mat.NewDense(n, d+1, nil)
	for i, row := range summaries {
		c := make([]float64, d)
		design.Set(i, 0, 1)
		for j, v := range row {
			c[j] = v - observed[j]
			design.Set(i, j+1, c[j])
		}
		centered[i] = c
	}

	p := params.Dim()
	response := mat.NewDense(n, p, nil)
	for i := 0; i < n; i++ {
		for c := 0; c < p; c++ {
			response.Set(i, c, params.At(i, c))
		}
	}

	// Least-squares solve via QR; a rank-deficient design comes back as an
	// explicit error, never as silent NaN coefficients.
	var coef mat.Dense
	if err := coef.Solve(design, response); err != nil {
		return nil, fmt.Errorf("regression: %v: %w", err, domain.ErrSingularDesign)
	}

	adjusted := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, p)
		for c := 0; c < p; c++ {
			v := params.At(i, c)
			for j := 0; j < d; j++ {
				v -= coef.At(j+1, c) * centered[i][j]
			}
			row[c] = v
		}
		bounds.Clamp(row)
		adjusted[i] = row
	}
	return sample.New(params.Names(), adjusted)
}
