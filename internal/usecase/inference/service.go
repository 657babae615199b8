// Package inference runs the full per-target ABC pipeline and assembles the
// per-target estimates: distance, rejection, reductions, optional regression
// adjustment, optional MAP estimation through the batch coordinator.
package inference

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/ecodyn/abcmove/internal/domain"
	"github.com/ecodyn/abcmove/internal/domain/posterior"
	"github.com/ecodyn/abcmove/internal/domain/sample"
	"github.com/ecodyn/abcmove/internal/domain/summary"
	"github.com/ecodyn/abcmove/internal/domain/target"
	"github.com/ecodyn/abcmove/internal/metrics"
	"github.com/ecodyn/abcmove/internal/usecase/batch"
	"github.com/ecodyn/abcmove/internal/usecase/distance"
	"github.com/ecodyn/abcmove/internal/usecase/regression"
	"github.com/ecodyn/abcmove/internal/usecase/rejection"
)

// DefaultQuantiles are the two-sided credible-interval probability levels.
var DefaultQuantiles = [2]float64{0.025, 0.975}

// Request describes one inference call over a shared parameter sample and
// simulated summary matrix, against one or more observed targets.
type Request struct {
	Parameters *sample.Sample
	Summaries  summary.Matrix
	Targets    []target.Target
	Proportion float64
	Quantiles  [2]float64 // zero value selects DefaultQuantiles
	Adjust     bool
	MAP        bool
	Mode       batch.Mode
	Progress   batch.ProgressFunc
}

// Service runs ABC rejection inference.
type Service struct {
	coord  Coordinator
	logger *zap.Logger
}

// New creates an inference service.
func New(coord Coordinator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{coord: coord, logger: logger}
}

// Infer runs the pipeline for every target and returns the estimates keyed
// by target identifier. Malformed global configuration aborts before any
// work; errors local to one target (regression, MAP) are captured on that
// target's estimate and leave its medians and quantiles intact.
func (s *Service) Infer(ctx context.Context, req Request) (map[string]posterior.Estimate, error) {
	quantiles, scale, err := s.validate(&req)
	if err != nil {
		return nil, err
	}

	estimates := make([]posterior.Estimate, len(req.Targets))
	bounds := make([]sample.Bounds, len(req.Targets))

	for i, t := range req.Targets {
		cols, err := req.Parameters.Indices(t.Parameters())
		if err != nil {
			return nil, fmt.Errorf("target %s: %w", t.ID(), err)
		}
		b, err := sample.BoundsOf(req.Parameters, cols)
		if err != nil {
			return nil, fmt.Errorf("target %s: %w", t.ID(), err)
		}
		bounds[i] = b

		dists, err := distance.Compute(req.Summaries, t.Observed(), scale)
		if err != nil {
			return nil, fmt.Errorf("target %s: %w", t.ID(), err)
		}
		filtered, kept, err := rejection.Filter(req.Parameters, dists, req.Proportion, cols)
		if err != nil {
			return nil, fmt.Errorf("target %s: %w", t.ID(), err)
		}
		metrics.AcceptedDraws.Observe(float64(filtered.N()))

		median, interval := reduce(filtered, quantiles)
		est := posterior.New(t.ID(), t.Parameters(), req.Proportion, t.Observed(),
			filtered, kept, median, interval)

		if req.Adjust {
			est = s.adjustTarget(est, t, filtered, kept, b, req, quantiles)
		}
		estimates[i] = est
	}

	if req.MAP {
		if err := s.estimateMAPs(ctx, req, estimates, bounds); err != nil {
			return nil, err
		}
	}

	out := make(map[string]posterior.Estimate, len(estimates))
	for _, est := range estimates {
		status := "ok"
		if !est.OK() {
			status = "error"
		}
		metrics.TargetsTotal.WithLabelValues(status).Inc()
		out[est.TargetID()] = est
	}
	s.logger.Info("inference finished",
		zap.Int("targets", len(out)),
		zap.Float64("proportion", req.Proportion),
	)
	return out, nil
}

// validate checks the global configuration before any work begins and
// resolves the quantile levels and standardization scale.
func (s *Service) validate(req *Request) ([2]float64, summary.Vector, error) {
	var zero [2]float64
	if req.Parameters == nil || req.Parameters.N() == 0 {
		return zero, nil, fmt.Errorf("inference: parameter sample: %w", domain.ErrEmptyInput)
	}
	if len(req.Targets) == 0 {
		return zero, nil, fmt.Errorf("inference: no targets: %w", domain.ErrEmptyInput)
	}
	if err := rejection.ValidateProportion(req.Proportion); err != nil {
		return zero, nil, err
	}
	// Resolve the mode once at entry; a malformed worker count aborts the
	// whole call even when no MAP fit was requested for a target yet.
	if _, err := req.Mode.Workers(); err != nil {
		return zero, nil, err
	}

	quantiles := req.Quantiles
	if quantiles == zero {
		quantiles = DefaultQuantiles
	}
	if quantiles[0] <= 0 || quantiles[1] >= 1 || quantiles[0] >= quantiles[1] {
		return zero, nil, fmt.Errorf("inference: levels %v: %w", quantiles, domain.ErrInvalidQuantiles)
	}

	d, err := req.Summaries.Dim()
	if err != nil {
		return zero, nil, fmt.Errorf("inference: %w", err)
	}
	if len(req.Summaries) != req.Parameters.N() {
		return zero, nil, fmt.Errorf("inference: summaries: %w",
			domain.NewDimensionMismatch(req.Parameters.N(), len(req.Summaries)))
	}

	seen := make(map[string]struct{}, len(req.Targets))
	for _, t := range req.Targets {
		if _, dup := seen[t.ID()]; dup {
			return zero, nil, fmt.Errorf("inference: target %q: %w", t.ID(), domain.ErrDuplicateTarget)
		}
		seen[t.ID()] = struct{}{}
		if len(t.Observed()) != d {
			return zero, nil, fmt.Errorf("inference: target %s observed summary: %w",
				t.ID(), domain.NewDimensionMismatch(d, len(t.Observed())))
		}
		if _, err := req.Parameters.Indices(t.Parameters()); err != nil {
			return zero, nil, fmt.Errorf("inference: target %s: %w", t.ID(), err)
		}
	}

	scale, err := summary.RangeScale(req.Summaries)
	if err != nil {
		return zero, nil, fmt.Errorf("inference: %w", err)
	}
	for j, v := range scale {
		if v == 0 {
			return zero, nil, fmt.Errorf("inference: summary dimension %d has zero range: %w",
				j, domain.ErrDegenerateScale)
		}
	}
	return quantiles, scale, nil
}

// adjustTarget applies the regression correction to one target's accepted
// sample, capturing a failed fit instead of aborting siblings.
func (s *Service) adjustTarget(
	est posterior.Estimate, t target.Target,
	filtered *sample.Sample, kept []int, bounds sample.Bounds,
	req Request, quantiles [2]float64,
) posterior.Estimate {
	adjusted, err := regression.Adjust(filtered, req.Summaries.Rows(kept), t.Observed(), bounds)
	if err != nil {
		s.logger.Warn("regression adjustment failed",
			zap.String("target", t.ID()),
			zap.Error(err),
		)
		return est.WithAdjustError(err)
	}
	median, interval := reduce(adjusted, quantiles)
	return est.WithAdjusted(adjusted, median, interval)
}

// estimateMAPs runs every requested MAP fit (unadjusted and adjusted
// variants are independent jobs) through the coordinator and attaches the
// outcomes per target.
func (s *Service) estimateMAPs(
	ctx context.Context, req Request,
	estimates []posterior.Estimate, bounds []sample.Bounds,
) error {
	type slot struct {
		target   int
		adjusted bool
	}
	var jobs []batch.Job
	var slots []slot
	for i := range estimates {
		jobs = append(jobs, batch.Job{
			ID:     estimates[i].TargetID(),
			Sample: estimates[i].Filtered(),
			Bounds: bounds[i],
		})
		slots = append(slots, slot{target: i})
		if adj := estimates[i].Adjusted(); adj != nil {
			jobs = append(jobs, batch.Job{
				ID:     estimates[i].TargetID() + ":adjusted",
				Sample: adj,
				Bounds: bounds[i],
			})
			slots = append(slots, slot{target: i, adjusted: true})
		}
	}

	results, err := s.coord.Run(ctx, jobs, req.Mode, req.Progress)
	if err != nil {
		return err
	}
	for k, res := range results {
		sl := slots[k]
		switch {
		case sl.adjusted && res.Err() != nil:
			estimates[sl.target] = estimates[sl.target].WithAdjustedMAPError(res.Err())
		case sl.adjusted:
			estimates[sl.target] = estimates[sl.target].WithAdjustedMAP(res.Point())
		case res.Err() != nil:
			estimates[sl.target] = estimates[sl.target].WithMAPError(res.Err())
		default:
			estimates[sl.target] = estimates[sl.target].WithMAP(res.Point())
		}
	}
	return nil
}

// reduce computes the per-column median and two-sided credible interval.
func reduce(s *sample.Sample, probs [2]float64) ([]float64, posterior.Interval) {
	p := s.Dim()
	median := make([]float64, p)
	lower := make([]float64, p)
	upper := make([]float64, p)
	for j := 0; j < p; j++ {
		col := s.Col(j)
		sort.Float64s(col)
		median[j] = stat.Quantile(0.5, stat.LinInterp, col, nil)
		lower[j] = stat.Quantile(probs[0], stat.LinInterp, col, nil)
		upper[j] = stat.Quantile(probs[1], stat.LinInterp, col, nil)
	}
	return median, posterior.NewInterval(probs, lower, upper)
}
