// Package posterior holds the per-target inference result record.
package posterior

import (
	"github.com/ecodyn/abcmove/internal/domain/sample"
	"github.com/ecodyn/abcmove/internal/domain/summary"
)

// Interval is a two-sided credible interval per parameter dimension.
type Interval struct {
	probs [2]float64
	lower []float64
	upper []float64
}

// NewInterval creates a credible interval at the given probability levels.
func NewInterval(probs [2]float64, lower, upper []float64) Interval {
	lo := make([]float64, len(lower))
	copy(lo, lower)
	hi := make([]float64, len(upper))
	copy(hi, upper)
	return Interval{probs: probs, lower: lo, upper: hi}
}

// Probs returns the lower/upper probability levels.
func (iv Interval) Probs() [2]float64 { return iv.probs }

// Lower returns the lower quantile per parameter dimension.
func (iv Interval) Lower() []float64 {
	lo := make([]float64, len(iv.lower))
	copy(lo, iv.lower)
	return lo
}

// Upper returns the upper quantile per parameter dimension.
func (iv Interval) Upper() []float64 {
	hi := make([]float64, len(iv.upper))
	copy(hi, iv.upper)
	return hi
}

// Estimate is the immutable inference outcome for one target: the accepted
// sample with its reductions, the optional regression-adjusted counterparts,
// the optional MAP points, and any per-stage errors captured instead of
// aborting sibling targets.
type Estimate struct {
	targetID   string
	parameters []string
	proportion float64
	observed   summary.Vector

	filtered *sample.Sample
	indices  []int
	median   []float64
	interval Interval

	mapPoint []float64
	mapErr   error

	adjusted    *sample.Sample
	adjMedian   []float64
	adjInterval Interval
	adjMAP      []float64
	adjErr      error
	adjMAPErr   error
}

// New creates the base estimate produced by rejection filtering.
func New(
	targetID string, parameters []string, proportion float64,
	observed summary.Vector, filtered *sample.Sample, indices []int,
	median []float64, interval Interval,
) Estimate {
	idx := make([]int, len(indices))
	copy(idx, indices)
	med := make([]float64, len(median))
	copy(med, median)
	obs := make(summary.Vector, len(observed))
	copy(obs, observed)
	params := make([]string, len(parameters))
	copy(params, parameters)
	return Estimate{
		targetID:   targetID,
		parameters: params,
		proportion: proportion,
		observed:   obs,
		filtered:   filtered,
		indices:    idx,
		median:     med,
		interval:   interval,
	}
}

// WithMAP attaches the MAP point for the unadjusted sample.
func (e Estimate) WithMAP(point []float64) Estimate {
	p := make([]float64, len(point))
	copy(p, point)
	e.mapPoint = p
	return e
}

// WithMAPError records a failed MAP fit for the unadjusted sample.
func (e Estimate) WithMAPError(err error) Estimate {
	e.mapErr = err
	return e
}

// WithAdjusted attaches the regression-adjusted sample and its reductions.
func (e Estimate) WithAdjusted(adjusted *sample.Sample, median []float64, interval Interval) Estimate {
	med := make([]float64, len(median))
	copy(med, median)
	e.adjusted = adjusted
	e.adjMedian = med
	e.adjInterval = interval
	return e
}

// WithAdjustError records a failed regression adjustment.
func (e Estimate) WithAdjustError(err error) Estimate {
	e.adjErr = err
	return e
}

// WithAdjustedMAP attaches the MAP point for the adjusted sample.
func (e Estimate) WithAdjustedMAP(point []float64) Estimate {
	p := make([]float64, len(point))
	copy(p, point)
	e.adjMAP = p
	return e
}

// WithAdjustedMAPError records a failed MAP fit for the adjusted sample.
func (e Estimate) WithAdjustedMAPError(err error) Estimate {
	e.adjMAPErr = err
	return e
}

// TargetID returns the target identifier.
func (e Estimate) TargetID() string { return e.targetID }

// Parameters returns the target parameter names.
func (e Estimate) Parameters() []string {
	params := make([]string, len(e.parameters))
	copy(params, e.parameters)
	return params
}

// Proportion returns the acceptance proportion used.
func (e Estimate) Proportion() float64 { return e.proportion }

// Observed returns the observed summary carried through for reporting.
func (e Estimate) Observed() summary.Vector {
	obs := make(summary.Vector, len(e.observed))
	copy(obs, e.observed)
	return obs
}

// Filtered returns the accepted parameter sample.
func (e Estimate) Filtered() *sample.Sample { return e.filtered }

// Indices returns the accepted draws' original indices, ascending by distance.
func (e Estimate) Indices() []int {
	idx := make([]int, len(e.indices))
	copy(idx, e.indices)
	return idx
}

// Median returns the accepted sample's per-column median.
func (e Estimate) Median() []float64 {
	med := make([]float64, len(e.median))
	copy(med, e.median)
	return med
}

// Interval returns the accepted sample's credible interval.
func (e Estimate) Interval() Interval { return e.interval }

// MAP returns the MAP point for the unadjusted sample, nil if not requested
// or failed.
func (e Estimate) MAP() []float64 {
	if e.mapPoint == nil {
		return nil
	}
	p := make([]float64, len(e.mapPoint))
	copy(p, e.mapPoint)
	return p
}

// MAPErr returns the unadjusted MAP fit error, if any.
func (e Estimate) MAPErr() error { return e.mapErr }

// Adjusted returns the regression-adjusted sample, nil if not requested or
// the adjustment failed.
func (e Estimate) Adjusted() *sample.Sample { return e.adjusted }

// AdjustedMedian returns the adjusted sample's per-column median.
func (e Estimate) AdjustedMedian() []float64 {
	med := make([]float64, len(e.adjMedian))
	copy(med, e.adjMedian)
	return med
}

// AdjustedInterval returns the adjusted sample's credible interval.
func (e Estimate) AdjustedInterval() Interval { return e.adjInterval }

// AdjustErr returns the regression adjustment error, if any.
func (e Estimate) AdjustErr() error { return e.adjErr }

// AdjustedMAP returns the MAP point for the adjusted sample, nil if not
// requested or failed.
func (e Estimate) AdjustedMAP() []float64 {
	if e.adjMAP == nil {
		return nil
	}
	p := make([]float64, len(e.adjMAP))
	copy(p, e.adjMAP)
	return p
}

// AdjustedMAPErr returns the adjusted MAP fit error, if any.
func (e Estimate) AdjustedMAPErr() error { return e.adjMAPErr }

// OK reports whether every requested stage for this target succeeded.
func (e Estimate) OK() bool {
	return e.mapErr == nil && e.adjErr == nil && e.adjMAPErr == nil
}
