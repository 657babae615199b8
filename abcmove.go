package abcmove

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ecodyn/abcmove/internal/domain/posterior"
	"github.com/ecodyn/abcmove/internal/domain/sample"
	"github.com/ecodyn/abcmove/internal/domain/summary"
	"github.com/ecodyn/abcmove/internal/domain/target"
	"github.com/ecodyn/abcmove/internal/usecase/batch"
	"github.com/ecodyn/abcmove/internal/usecase/inference"
	"github.com/ecodyn/abcmove/internal/usecase/mapfit"
)

// Engine runs ABC rejection inference. It is safe for concurrent use: all
// state derived from a call is owned by that call.
type Engine struct {
	svc    *inference.Service
	logger *zap.Logger
}

// New creates an engine — the composition root wiring the MAP estimator,
// the batch coordinator, and the inference pipeline.
func New(opts ...Option) *Engine {
	cfg := engineConfig{logger: zap.NewNop()}
	for _, o := range opts {
		o(&cfg)
	}

	var fitOpts []mapfit.Option
	if cfg.maxIterations > 0 {
		fitOpts = append(fitOpts, mapfit.WithMaxIterations(cfg.maxIterations))
	}
	est := mapfit.NewInstrumented(mapfit.New(fitOpts...))
	coord := batch.New(est, cfg.logger)

	return &Engine{
		svc:    inference.New(coord, cfg.logger),
		logger: cfg.logger,
	}
}

// Run performs inference for every target in the problem. Malformed global
// configuration fails the whole call before any work; regression or MAP
// failures local to one target are captured on that target's Estimate.
func (e *Engine) Run(ctx context.Context, p Problem, opts ...RunOption) (Results, error) {
	cfg := runConfig{
		proportion: DefaultProportion,
		mode:       batch.Sequential(),
	}
	for _, o := range opts {
		o(&cfg)
	}

	req, err := toRequest(p, cfg)
	if err != nil {
		return nil, err
	}

	estimates, err := e.svc.Infer(ctx, req)
	if err != nil {
		return nil, err
	}

	out := make(Results, len(estimates))
	for id, est := range estimates {
		out[id] = fromEstimate(est)
	}
	return out, nil
}

// toRequest converts the public problem into the internal request.
func toRequest(p Problem, cfg runConfig) (inference.Request, error) {
	params, err := sample.New(p.Sample.Names, p.Sample.Draws)
	if err != nil {
		return inference.Request{}, fmt.Errorf("abcmove: %w", err)
	}

	targets := make([]target.Target, 0, len(p.Targets))
	for _, t := range p.Targets {
		dt, err := target.New(t.ID, t.Observed, t.Parameters)
		if err != nil {
			return inference.Request{}, fmt.Errorf("abcmove: %w", err)
		}
		targets = append(targets, dt)
	}

	var progress batch.ProgressFunc
	if cfg.progress != nil {
		fn := cfg.progress
		progress = func(d batch.Done) {
			fn(Progress{Target: d.ID, Err: d.Err, Completed: d.Completed, Total: d.Total})
		}
	}

	return inference.Request{
		Parameters: params,
		Summaries:  summary.Matrix(p.Summaries),
		Targets:    targets,
		Proportion: cfg.proportion,
		Quantiles:  cfg.quantiles,
		Adjust:     cfg.adjust,
		MAP:        cfg.estimate,
		Mode:       cfg.mode,
		Progress:   progress,
	}, nil
}

// fromEstimate converts the internal estimate into the public record.
func fromEstimate(est posterior.Estimate) Estimate {
	out := Estimate{
		Target:     est.TargetID(),
		Parameters: est.Parameters(),
		Proportion: est.Proportion(),
		Observed:   est.Observed(),
		Accepted:   sampleRows(est.Filtered()),
		Indices:    est.Indices(),
		Median:     est.Median(),
		Interval:   fromInterval(est.Interval()),
		MAP:        est.MAP(),
		MAPErr:     est.MAPErr(),
		AdjustErr:  est.AdjustErr(),
	}
	if adj := est.Adjusted(); adj != nil {
		out.Adjusted = sampleRows(adj)
		out.AdjustedMedian = est.AdjustedMedian()
		out.AdjustedInterval = fromInterval(est.AdjustedInterval())
		out.AdjustedMAP = est.AdjustedMAP()
		out.AdjustedMAPErr = est.AdjustedMAPErr()
	}
	return out
}

func fromInterval(iv posterior.Interval) Interval {
	return Interval{Probs: iv.Probs(), Lower: iv.Lower(), Upper: iv.Upper()}
}

func sampleRows(s *sample.Sample) [][]float64 {
	if s == nil {
		return nil
	}
	rows := make([][]float64, s.N())
	for i := range rows {
		rows[i] = s.Row(i)
	}
	return rows
}
