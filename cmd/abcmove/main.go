// Command abcmove runs a demonstration ABC inference end to end: it samples
// uniform priors, simulates trajectories with the reference random-walk
// simulator, reduces them to summary statistics, and infers the parameters
// of synthetic observed individuals.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ecodyn/abcmove"
	"github.com/ecodyn/abcmove/internal/config"
	logpkg "github.com/ecodyn/abcmove/internal/logger"
	"github.com/ecodyn/abcmove/internal/metrics"
	"github.com/ecodyn/abcmove/pkg/simulate"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (optional)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			panic("failed to load config: " + err.Error())
		}
	}

	logger, err := logpkg.New(cfg.Logging.Development, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting abcmove run",
		zap.Int("draws", cfg.Run.Draws),
		zap.Int("steps", cfg.Run.Steps),
		zap.Float64("proportion", cfg.Run.Proportion),
		zap.String("parallel_mode", cfg.Parallel.Mode),
	)

	// Register inference metrics explicitly (no init())
	metrics.RegisterInferenceMetrics()

	var srv *http.Server
	if cfg.Metrics.Port > 0 {
		srv = serveMetrics(cfg.Metrics.Port, logger)
		defer shutdownMetrics(srv, logger)
	}

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Inference run failed", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	names := make([]string, len(cfg.Priors))
	bounds := make([][2]float64, len(cfg.Priors))
	for i, p := range cfg.Priors {
		names[i] = p.Name
		bounds[i] = [2]float64{p.Min, p.Max}
	}

	draws := simulate.Priors(cfg.Run.Draws, bounds, cfg.Run.Seed)
	env := simulate.GradientEnvironment(cfg.Run.GridSize)

	start := time.Now()
	trajectories, err := simulate.Run(env, cfg.Run.Steps, draws, cfg.Run.Seed+1)
	if err != nil {
		return fmt.Errorf("simulate: %w", err)
	}
	summaries := simulate.SummarizeAll(trajectories, nil)
	logger.Info("Simulation finished",
		zap.Int("trajectories", len(trajectories)),
		zap.Duration("elapsed", time.Since(start)),
	)

	// Synthetic observed individuals: extra prior draws simulated with the
	// same model, so the true parameters are known for inspection.
	trueDraws := simulate.Priors(cfg.Run.Targets, bounds, cfg.Run.Seed+2)
	observed, err := simulate.Run(env, cfg.Run.Steps, trueDraws, cfg.Run.Seed+3)
	if err != nil {
		return fmt.Errorf("simulate observed: %w", err)
	}

	targets := make([]abcmove.Target, len(observed))
	for i, t := range observed {
		targets[i] = abcmove.Target{
			ID:         fmt.Sprintf("individual-%d", i+1),
			Observed:   simulate.Summarize(t),
			Parameters: names,
		}
	}

	opts := []abcmove.RunOption{
		abcmove.WithProportion(cfg.Run.Proportion),
		abcmove.WithQuantiles(cfg.Run.Quantiles[0], cfg.Run.Quantiles[1]),
		abcmove.WithMode(parallelMode(cfg.Parallel)),
		abcmove.WithProgress(func(p abcmove.Progress) {
			logger.Info("MAP fit finished",
				zap.String("target", p.Target),
				zap.Int("completed", p.Completed),
				zap.Int("total", p.Total),
				zap.Error(p.Err),
			)
		}),
	}
	if cfg.Run.Adjust {
		opts = append(opts, abcmove.WithAdjustment())
	}
	if cfg.Run.MAP {
		opts = append(opts, abcmove.WithMAP())
	}

	engine := abcmove.New(abcmove.WithLogger(logger))
	results, err := engine.Run(context.Background(), abcmove.Problem{
		Sample:    abcmove.ParameterSample{Names: names, Draws: draws},
		Summaries: summaries,
		Targets:   targets,
	}, opts...)
	if err != nil {
		return err
	}

	for i, t := range targets {
		est := results[t.ID]
		fields := []zap.Field{
			zap.String("target", t.ID),
			zap.Float64s("true", trueDraws[i]),
			zap.Float64s("median", est.Median),
			zap.Float64s("ci_lower", est.Interval.Lower),
			zap.Float64s("ci_upper", est.Interval.Upper),
		}
		if est.MAP != nil {
			fields = append(fields, zap.Float64s("map", est.MAP))
		}
		if est.AdjustedMedian != nil {
			fields = append(fields, zap.Float64s("adjusted_median", est.AdjustedMedian))
		}
		if !est.OK() {
			fields = append(fields,
				zap.NamedError("map_err", est.MAPErr),
				zap.NamedError("adjust_err", est.AdjustErr),
				zap.NamedError("adjusted_map_err", est.AdjustedMAPErr),
			)
		}
		logger.Info("Posterior estimate", fields...)
	}
	return nil
}

func parallelMode(cfg config.ParallelConfig) abcmove.Mode {
	switch cfg.Mode {
	case "parallel":
		return abcmove.Parallel(cfg.Workers)
	case "auto":
		return abcmove.ParallelAuto()
	default:
		return abcmove.Sequential()
	}
}

// serveMetrics exposes /metrics and /healthz while the batch runs, so long
// simulations can be watched from Prometheus.
func serveMetrics(port int, logger *zap.Logger) *http.Server {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("Serving metrics", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Metrics server failed", zap.Error(err))
		}
	}()
	return srv
}

func shutdownMetrics(srv *http.Server, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("Metrics server shutdown", zap.Error(err))
	}
}
