package rejection

import (
	"errors"
	"math"
	"testing"

	"github.com/ecodyn/abcmove/internal/domain"
	"github.com/ecodyn/abcmove/internal/domain/sample"
)

func uniformSample(t *testing.T, n int) *sample.Sample {
	t.Helper()
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = []float64{float64(i), float64(n - i)}
	}
	s, err := sample.New([]string{"a", "b"}, rows)
	if err != nil {
		t.Fatalf("sample.New: %v", err)
	}
	return s
}

func TestFilter_SizeInvariant(t *testing.T) {
	cases := []struct {
		n    int
		prop float64
		want int
	}{
		{10, 0.5, 5},
		{10, 0.45, 5},  // ceil(4.5)
		{10, 0.001, 1}, // ceil(0.01), never empty
		{10, 1, 10},
		{7, 1.0 / 3.0, 3},
		{1, 0.9, 1},
	}
	for _, tc := range cases {
		s := uniformSample(t, tc.n)
		dists := make([]float64, tc.n)
		for i := range dists {
			dists[i] = float64(i)
		}
		filtered, kept, err := Filter(s, dists, tc.prop, nil)
		if err != nil {
			t.Fatalf("n=%d p=%v: %v", tc.n, tc.prop, err)
		}
		if filtered.N() != tc.want || len(kept) != tc.want {
			t.Errorf("n=%d p=%v: size = %d, want %d", tc.n, tc.prop, filtered.N(), tc.want)
		}
	}
}

func TestFilter_RetainedBelowRejected(t *testing.T) {
	s := uniformSample(t, 100)
	dists := make([]float64, 100)
	for i := range dists {
		dists[i] = float64((i * 37) % 100) // shuffled distances
	}
	_, kept, err := Filter(s, dists, 0.2, nil)
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}

	retained := make(map[int]bool, len(kept))
	maxKept := math.Inf(-1)
	for _, i := range kept {
		retained[i] = true
		if dists[i] > maxKept {
			maxKept = dists[i]
		}
	}
	for i, d := range dists {
		if !retained[i] && d < maxKept {
			t.Errorf("rejected draw %d has distance %v below retained max %v", i, d, maxKept)
		}
	}

	// Kept indices come back ascending by distance.
	for k := 1; k < len(kept); k++ {
		if dists[kept[k-1]] > dists[kept[k]] {
			t.Errorf("kept not ordered by distance: %v then %v", dists[kept[k-1]], dists[kept[k]])
		}
	}
}

func TestFilter_TiesKeepOriginalOrder(t *testing.T) {
	s := uniformSample(t, 4)
	dists := []float64{1, 1, 1, 1}
	_, kept, err := Filter(s, dists, 0.5, nil)
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if kept[0] != 0 || kept[1] != 1 {
		t.Errorf("kept = %v, want [0 1]", kept)
	}
}

func TestFilter_RestrictsColumns(t *testing.T) {
	s := uniformSample(t, 5)
	dists := []float64{4, 3, 2, 1, 0}
	filtered, kept, err := Filter(s, dists, 0.4, []int{1})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if filtered.Dim() != 1 || filtered.Names()[0] != "b" {
		t.Fatalf("columns = %v, want [b]", filtered.Names())
	}
	if kept[0] != 4 || kept[1] != 3 {
		t.Errorf("kept = %v, want [4 3]", kept)
	}
	if filtered.At(0, 0) != 1 { // row 4, column b = n - i = 1
		t.Errorf("At(0,0) = %v, want 1", filtered.At(0, 0))
	}
}

func TestFilter_NaNNeverAccepted(t *testing.T) {
	s := uniformSample(t, 4)
	dists := []float64{math.NaN(), 3, 1, 2}
	_, kept, err := Filter(s, dists, 0.5, nil)
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	for _, i := range kept {
		if math.IsNaN(dists[i]) {
			t.Error("NaN distance was accepted")
		}
	}
	if kept[0] != 2 || kept[1] != 3 {
		t.Errorf("kept = %v, want [2 3]", kept)
	}
}

func TestFilter_AllNaN(t *testing.T) {
	s := uniformSample(t, 3)
	dists := []float64{math.NaN(), math.NaN(), math.NaN()}
	_, _, err := Filter(s, dists, 0.5, nil)
	if !errors.Is(err, domain.ErrEmptyInput) {
		t.Errorf("err = %v, want ErrEmptyInput", err)
	}
}

func TestFilter_InvalidProportion(t *testing.T) {
	s := uniformSample(t, 3)
	for _, p := range []float64{0, -0.1, 1.01, math.NaN()} {
		_, _, err := Filter(s, []float64{1, 2, 3}, p, nil)
		if !errors.Is(err, domain.ErrInvalidProportion) {
			t.Errorf("p=%v: err = %v, want ErrInvalidProportion", p, err)
		}
	}
}

func TestFilter_EmptySample(t *testing.T) {
	s, err := sample.New([]string{"a"}, nil)
	if err != nil {
		t.Fatalf("sample.New: %v", err)
	}
	_, _, err = Filter(s, nil, 0.5, nil)
	if !errors.Is(err, domain.ErrEmptyInput) {
		t.Errorf("err = %v, want ErrEmptyInput", err)
	}
}

func TestFilter_DistanceLengthMismatch(t *testing.T) {
	s := uniformSample(t, 3)
	_, _, err := Filter(s, []float64{1, 2}, 0.5, nil)
	if !errors.Is(err, domain.ErrDimensionMismatch) {
		t.Errorf("err = %v, want ErrDimensionMismatch", err)
	}
}
