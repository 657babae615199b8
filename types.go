package abcmove

import (
	"fmt"

	"github.com/ecodyn/abcmove/internal/domain"
)

// Sentinel errors surfaced by Run. Match with errors.Is.
var (
	ErrDimensionMismatch   = domain.ErrDimensionMismatch
	ErrDegenerateScale     = domain.ErrDegenerateScale
	ErrInvalidProportion   = domain.ErrInvalidProportion
	ErrInvalidQuantiles    = domain.ErrInvalidQuantiles
	ErrDuplicateTarget     = domain.ErrDuplicateTarget
	ErrEmptyInput          = domain.ErrEmptyInput
	ErrSingularDesign      = domain.ErrSingularDesign
	ErrOptimizationFailure = domain.ErrOptimizationFailure
	ErrInvalidWorkerCount  = domain.ErrInvalidWorkerCount
	ErrUnknownParameter    = domain.ErrUnknownParameter
)

// ParameterSample is an ordered sequence of prior draws over named
// parameter dimensions. It is read-only input: the engine never mutates it.
type ParameterSample struct {
	Names []string
	Draws [][]float64
}

// Target is one observed summary vector to infer parameters for.
// Parameters names the subset of dimensions under inference; the rest are
// held fixed and excluded from filtering, regression, and MAP estimation.
type Target struct {
	ID         string
	Observed   []float64
	Parameters []string
}

// Problem bundles the shared inputs of one inference call. Summaries must
// be index-aligned with Sample.Draws.
type Problem struct {
	Sample    ParameterSample
	Summaries [][]float64
	Targets   []Target
}

// SurrogatePredictor predicts summary statistics from a trained model,
// replacing hand-crafted summaries with model-based ones. Implementations
// are trained elsewhere; the engine consumes the predicted matrix opaquely.
type SurrogatePredictor interface {
	PredictSummaries(trainingSummaries, trainingParameters, newSummaries [][]float64) ([][]float64, error)
}

// WithSurrogateSummaries returns a copy of the problem whose summary matrix
// was replaced by the predictor's output over the problem's current
// summaries. The predicted matrix must stay index-aligned with the draws.
func (p Problem) WithSurrogateSummaries(
	pred SurrogatePredictor,
	trainingSummaries, trainingParameters [][]float64,
) (Problem, error) {
	predicted, err := pred.PredictSummaries(trainingSummaries, trainingParameters, p.Summaries)
	if err != nil {
		return Problem{}, fmt.Errorf("abcmove: surrogate prediction: %w", err)
	}
	if len(predicted) != len(p.Summaries) {
		return Problem{}, fmt.Errorf("abcmove: surrogate prediction: %w",
			domain.NewDimensionMismatch(len(p.Summaries), len(predicted)))
	}
	p.Summaries = predicted
	return p, nil
}

// Interval is a two-sided credible interval per target parameter.
type Interval struct {
	Probs [2]float64
	Lower []float64
	Upper []float64
}

// Estimate is the inference outcome for one target. MAPErr, AdjustErr and
// AdjustedMAPErr capture per-target failures; the filtered sample, median
// and interval are always present when Run returns the target at all.
type Estimate struct {
	Target     string
	Parameters []string
	Proportion float64
	Observed   []float64

	Accepted [][]float64
	Indices  []int
	Median   []float64
	Interval Interval

	MAP    []float64
	MAPErr error

	Adjusted         [][]float64
	AdjustedMedian   []float64
	AdjustedInterval Interval
	AdjustedMAP      []float64
	AdjustErr        error
	AdjustedMAPErr   error
}

// OK reports whether every requested stage for this target succeeded.
func (e Estimate) OK() bool {
	return e.MAPErr == nil && e.AdjustErr == nil && e.AdjustedMAPErr == nil
}

// Results maps target identifiers to their estimates.
type Results map[string]Estimate

// Progress is delivered after each completed MAP fit. Adjusted-sample fits
// report the target identifier with an ":adjusted" suffix.
type Progress struct {
	Target    string
	Err       error
	Completed int
	Total     int
}
