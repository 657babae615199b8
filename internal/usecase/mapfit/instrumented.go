package mapfit

import (
	"time"

	"github.com/ecodyn/abcmove/internal/domain/sample"
	"github.com/ecodyn/abcmove/internal/metrics"
)

// Estimator is the local interface instrumented fits delegate to.
type Estimator interface {
	Estimate(s *sample.Sample, bounds sample.Bounds) ([]float64, error)
}

// Instrumented wraps an estimator with Prometheus fit metrics.
type Instrumented struct {
	inner Estimator
}

// NewInstrumented wraps an estimator with observability.
func NewInstrumented(inner Estimator) *Instrumented {
	return &Instrumented{inner: inner}
}

// Estimate delegates to the inner estimator and records duration and outcome.
func (m *Instrumented) Estimate(s *sample.Sample, bounds sample.Bounds) ([]float64, error) {
	start := time.Now()
	point, err := m.inner.Estimate(s, bounds)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.MAPFitDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	return point, err
}
