// Package mapfit summarizes an accepted posterior sample with a single point
// estimate: the mode of a truncated multivariate normal density fit to the
// sample by maximum likelihood over the bounded prior support.
package mapfit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/ecodyn/abcmove/internal/domain"
	"github.com/ecodyn/abcmove/internal/domain/sample"
)

const (
	defaultMaxIterations = 500

	// relSigmaFloor keeps the per-dimension standard deviation strictly
	// positive relative to the support width, so the likelihood stays finite.
	relSigmaFloor = 1e-6
)

// Service fits truncated normal densities to accepted samples.
type Service struct {
	maxIterations int
}

// Option configures the service.
type Option func(*Service)

// WithMaxIterations caps the optimizer's major iterations.
func WithMaxIterations(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxIterations = n
		}
	}
}

// New creates a MAP estimation service.
func New(opts ...Option) *Service {
	s := &Service{maxIterations: defaultMaxIterations}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Estimate fits a truncated multivariate normal (diagonal covariance,
// truncation support equal to the prior bounds) to the sample and returns
// the fitted mean, the mode of the density, clamped to the bounds as a
// final safety net against optimizer overshoot.
//
// The box constraint is enforced through a smooth reparameterization
// (mean via a scaled logistic, standard deviation via exp), so the inner
// quasi-Newton search is unconstrained.
func (s *Service) Estimate(smp *sample.Sample, bounds sample.Bounds) ([]float64, error) {
	n := smp.N()
	if n == 0 {
		return nil, fmt.Errorf("mapfit: %w", domain.ErrEmptyInput)
	}
	p := smp.Dim()
	if bounds.Dim() != p {
		return nil, fmt.Errorf("mapfit: bounds: %w", domain.NewDimensionMismatch(p, bounds.Dim()))
	}

	lower := bounds.Lower()
	upper := bounds.Upper()

	point := make([]float64, p)
	// Dimensions with zero-width support are fixed at their bound and
	// excluded from the fit.
	active := make([]int, 0, p)
	for j := 0; j < p; j++ {
		if upper[j] > lower[j] {
			active = append(active, j)
		} else {
			point[j] = lower[j]
		}
	}
	if len(active) == 0 {
		return point, nil
	}

	cols := make([][]float64, len(active))
	for k, j := range active {
		cols[k] = smp.Col(j)
	}

	x0 := make([]float64, 2*len(active))
	for k, j := range active {
		w := upper[j] - lower[j]
		mean := stat.Mean(cols[k], nil)
		frac := (mean - lower[j]) / w
		if frac < 1e-3 {
			frac = 1e-3
		}
		if frac > 1-1e-3 {
			frac = 1 - 1e-3
		}
		sd := stat.StdDev(cols[k], nil)
		if math.IsNaN(sd) || sd < 1e-3*w {
			sd = 1e-3 * w
		}
		x0[2*k] = math.Log(frac / (1 - frac))
		x0[2*k+1] = math.Log(sd)
	}

	fn := func(x []float64) float64 {
		return negLogLikelihood(x, cols, lower, upper, active)
	}
	// LBFGS needs a gradient; the likelihood has no closed form worth
	// maintaining, so differentiate numerically.
	problem := optimize.Problem{
		Func: fn,
		Grad: func(grad, x []float64) {
			fd.Gradient(grad, fn, x, nil)
		},
	}
	settings := &optimize.Settings{MajorIterations: s.maxIterations}
	res, err := optimize.Minimize(problem, x0, settings, &optimize.LBFGS{})
	if err != nil {
		return nil, fmt.Errorf("mapfit: %v: %w", err, domain.ErrOptimizationFailure)
	}
	switch res.Status {
	case optimize.Success, optimize.GradientThreshold, optimize.FunctionConvergence,
		optimize.FunctionThreshold, optimize.StepConvergence:
	default:
		return nil, fmt.Errorf("mapfit: optimizer stopped with status %v: %w",
			res.Status, domain.ErrOptimizationFailure)
	}

	for k, j := range active {
		w := upper[j] - lower[j]
		point[j] = lower[j] + w*sigmoid(res.X[2*k])
	}
	bounds.Clamp(point)
	return point, nil
}

// negLogLikelihood is the negative log-likelihood of independent truncated
// normals over [lower, upper], up to an additive constant. x packs
// (logit-mean, log-sigma) pairs for each active dimension.
func negLogLikelihood(x []float64, cols [][]float64, lower, upper []float64, active []int) float64 {
	var nll float64
	for k, j := range active {
		a, b := x[2*k], x[2*k+1]
		if math.IsNaN(a) || math.IsNaN(b) || b > 500 {
			return math.Inf(1)
		}
		w := upper[j] - lower[j]
		mu := lower[j] + w*sigmoid(a)
		sigma := math.Exp(b) + relSigmaFloor*w

		z := distuv.UnitNormal.CDF((upper[j]-mu)/sigma) - distuv.UnitNormal.CDF((lower[j]-mu)/sigma)
		if z < 1e-300 {
			z = 1e-300
		}

		obs := cols[k]
		nll += float64(len(obs)) * (math.Log(sigma) + math.Log(z))
		for _, v := range obs {
			d := (v - mu) / sigma
			nll += 0.5 * d * d
		}
	}
	if math.IsNaN(nll) {
		return math.Inf(1)
	}
	return nll
}

func sigmoid(v float64) float64 {
	return 1 / (1 + math.Exp(-v))
}
