package abcmove

import (
	"go.uber.org/zap"

	"github.com/ecodyn/abcmove/internal/usecase/batch"
)

// Mode selects how the MAP batch executes.
type Mode struct {
	inner batch.Mode
}

// Sequential processes targets one at a time. This is the default.
func Sequential() Mode { return Mode{inner: batch.Sequential()} }

// Parallel distributes MAP fits over an explicit number of workers.
// Run fails with ErrInvalidWorkerCount unless the count is positive.
func Parallel(workers int) Mode { return Mode{inner: batch.Parallel(workers)} }

// ParallelAuto distributes MAP fits over (hardware parallelism - 1) workers.
func ParallelAuto() Mode { return Mode{inner: batch.ParallelAuto()} }

type engineConfig struct {
	logger        *zap.Logger
	maxIterations int
}

// Option configures the engine.
type Option func(*engineConfig)

// WithLogger attaches a zap logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *engineConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMaxFitIterations caps the MAP optimizer's major iterations.
func WithMaxFitIterations(n int) Option {
	return func(c *engineConfig) { c.maxIterations = n }
}

// DefaultProportion is the acceptance proportion used when none is given.
const DefaultProportion = 0.01

type runConfig struct {
	proportion float64
	quantiles  [2]float64
	adjust     bool
	estimate   bool
	mode       batch.Mode
	progress   func(Progress)
}

// RunOption configures one inference call.
type RunOption func(*runConfig)

// WithProportion sets the acceptance proportion in (0, 1].
func WithProportion(p float64) RunOption {
	return func(c *runConfig) { c.proportion = p }
}

// WithQuantiles sets the credible-interval probability levels
// (default 0.025 and 0.975).
func WithQuantiles(lower, upper float64) RunOption {
	return func(c *runConfig) { c.quantiles = [2]float64{lower, upper} }
}

// WithAdjustment enables the local-linear regression adjustment.
func WithAdjustment() RunOption {
	return func(c *runConfig) { c.adjust = true }
}

// WithMAP enables truncated-normal MAP estimation.
func WithMAP() RunOption {
	return func(c *runConfig) { c.estimate = true }
}

// WithMode selects the MAP batch execution mode.
func WithMode(m Mode) RunOption {
	return func(c *runConfig) { c.mode = m.inner }
}

// WithProgress registers a callback fired after each completed MAP fit.
// Invocations are serialized.
func WithProgress(fn func(Progress)) RunOption {
	return func(c *runConfig) { c.progress = fn }
}
