package batch

import "github.com/ecodyn/abcmove/internal/domain/sample"

// Estimator fits one MAP point to an accepted sample.
type Estimator interface {
	Estimate(s *sample.Sample, bounds sample.Bounds) ([]float64, error)
}
