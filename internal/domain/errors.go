package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDimensionMismatch signals summary or parameter dimensions that disagree.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrDegenerateScale signals a zero-width standardization reference.
	ErrDegenerateScale = errors.New("degenerate scale")
	// ErrInvalidProportion signals an acceptance proportion outside (0, 1].
	ErrInvalidProportion = errors.New("invalid proportion")
	// ErrInvalidQuantiles signals credible-interval levels that do not
	// satisfy 0 < lower < upper < 1.
	ErrInvalidQuantiles = errors.New("invalid quantiles")
	// ErrDuplicateTarget signals two targets sharing one identifier.
	ErrDuplicateTarget = errors.New("duplicate target")
	// ErrEmptyInput signals an empty sample where draws are required.
	ErrEmptyInput = errors.New("empty input")
	// ErrSingularDesign signals a rank-deficient regression design matrix.
	ErrSingularDesign = errors.New("singular design")
	// ErrOptimizationFailure signals a maximum-likelihood fit that did not converge.
	ErrOptimizationFailure = errors.New("optimization failure")
	// ErrInvalidWorkerCount signals a malformed parallelism request.
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	// ErrUnknownParameter signals a target parameter absent from the sample.
	ErrUnknownParameter = errors.New("unknown parameter")
)

// DimensionError wraps ErrDimensionMismatch with the two lengths that disagree.
type DimensionError struct {
	Want int
	Got  int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: want %d, got %d", ErrDimensionMismatch.Error(), e.Want, e.Got)
}

func (e *DimensionError) Unwrap() error { return ErrDimensionMismatch }

// NewDimensionMismatch creates a dimension mismatch error.
func NewDimensionMismatch(want, got int) error {
	return &DimensionError{Want: want, Got: got}
}
