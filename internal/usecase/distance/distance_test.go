package distance

import (
	"errors"
	"math"
	"testing"

	"github.com/ecodyn/abcmove/internal/domain"
	"github.com/ecodyn/abcmove/internal/domain/summary"
)

func TestCompute_ZeroSelfDistance(t *testing.T) {
	obs := summary.Vector{1.5, -2, 0.25}
	sim := summary.Matrix{{1.5, -2, 0.25}}
	ref := summary.Vector{3, 1, 0.5}

	d, err := Compute(sim, obs, ref)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if d[0] != 0 {
		t.Errorf("self distance = %v, want 0", d[0])
	}
}

func TestCompute_Known(t *testing.T) {
	// One dimension off by one reference unit, another by two.
	sim := summary.Matrix{{1, 4}}
	obs := summary.Vector{0, 0}
	ref := summary.Vector{1, 2}

	d, err := Compute(sim, obs, ref)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	want := math.Sqrt(1 + 4)
	if math.Abs(d[0]-want) > 1e-12 {
		t.Errorf("distance = %v, want %v", d[0], want)
	}
}

func TestCompute_ScaleInvariance(t *testing.T) {
	sim := summary.Matrix{{1, 2}, {3, -1}, {0.5, 7}}
	obs := summary.Vector{0.7, 1.1}
	ref := summary.Vector{2, 5}

	base, err := Compute(sim, obs, ref)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	// Scaling simulated, observed and reference by the same per-dimension
	// constant must leave distances unchanged.
	k := []float64{4, 0.3}
	scaled := make(summary.Matrix, len(sim))
	for i, row := range sim {
		scaled[i] = []float64{row[0] * k[0], row[1] * k[1]}
	}
	obs2 := summary.Vector{obs[0] * k[0], obs[1] * k[1]}
	ref2 := summary.Vector{ref[0] * k[0], ref[1] * k[1]}

	got, err := Compute(scaled, obs2, ref2)
	if err != nil {
		t.Fatalf("Compute scaled: %v", err)
	}
	for i := range base {
		if math.Abs(base[i]-got[i]) > 1e-12 {
			t.Errorf("row %d: %v != %v", i, base[i], got[i])
		}
	}
}

func TestCompute_NonNegative(t *testing.T) {
	sim := summary.Matrix{{-5, 3}, {2, -8}}
	d, err := Compute(sim, summary.Vector{1, 1}, summary.Vector{2, 2})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	for i, v := range d {
		if v < 0 {
			t.Errorf("distance[%d] = %v, negative", i, v)
		}
	}
}

func TestCompute_DimensionMismatch(t *testing.T) {
	sim := summary.Matrix{{1, 2}}

	if _, err := Compute(sim, summary.Vector{1}, summary.Vector{1, 1}); !errors.Is(err, domain.ErrDimensionMismatch) {
		t.Errorf("observed: err = %v, want ErrDimensionMismatch", err)
	}
	if _, err := Compute(sim, summary.Vector{1, 1}, summary.Vector{1}); !errors.Is(err, domain.ErrDimensionMismatch) {
		t.Errorf("reference: err = %v, want ErrDimensionMismatch", err)
	}
	if _, err := Compute(summary.Matrix{{1, 2}, {3}}, summary.Vector{1, 1}, summary.Vector{1, 1}); !errors.Is(err, domain.ErrDimensionMismatch) {
		t.Errorf("ragged: err = %v, want ErrDimensionMismatch", err)
	}
}

func TestCompute_DegenerateScale(t *testing.T) {
	sim := summary.Matrix{{1, 2}}
	_, err := Compute(sim, summary.Vector{1, 1}, summary.Vector{1, 0})
	if !errors.Is(err, domain.ErrDegenerateScale) {
		t.Errorf("err = %v, want ErrDegenerateScale", err)
	}
}

func TestCompute_Empty(t *testing.T) {
	_, err := Compute(nil, summary.Vector{}, summary.Vector{})
	if !errors.Is(err, domain.ErrEmptyInput) {
		t.Errorf("err = %v, want ErrEmptyInput", err)
	}
}

func TestCompute_NaNPropagates(t *testing.T) {
	sim := summary.Matrix{{math.NaN()}, {1}}
	d, err := Compute(sim, summary.Vector{0}, summary.Vector{1})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if !math.IsNaN(d[0]) {
		t.Errorf("distance[0] = %v, want NaN", d[0])
	}
	if d[1] != 1 {
		t.Errorf("distance[1] = %v, want 1", d[1])
	}
}
