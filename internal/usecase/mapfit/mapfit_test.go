package mapfit

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/stat"

	"github.com/ecodyn/abcmove/internal/domain"
	"github.com/ecodyn/abcmove/internal/domain/sample"
)

func newSample(t *testing.T, names []string, rows [][]float64) *sample.Sample {
	t.Helper()
	s, err := sample.New(names, rows)
	if err != nil {
		t.Fatalf("sample.New: %v", err)
	}
	return s
}

func newBounds(t *testing.T, names []string, lo, hi []float64) sample.Bounds {
	t.Helper()
	b, err := sample.NewBounds(names, lo, hi)
	if err != nil {
		t.Fatalf("NewBounds: %v", err)
	}
	return b
}

// With a support far wider than the sample spread, the truncated-normal
// mode is close to the plain sample mean.
func TestEstimate_RecoversSampleMean(t *testing.T) {
	rows := [][]float64{
		{2.8, 6.1}, {3.1, 5.8}, {2.9, 6.0}, {3.3, 6.3},
		{3.0, 5.9}, {2.7, 6.2}, {3.2, 6.0}, {3.0, 6.1},
		{2.9, 5.7}, {3.1, 6.4},
	}
	s := newSample(t, []string{"a", "b"}, rows)
	b := newBounds(t, []string{"a", "b"}, []float64{0, 0}, []float64{10, 10})

	point, err := New().Estimate(s, b)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}

	for j := 0; j < 2; j++ {
		col := s.Col(j)
		mean := stat.Mean(col, nil)
		sd := stat.StdDev(col, nil)
		if math.Abs(point[j]-mean) > sd {
			t.Errorf("dim %d: MAP = %v, sample mean = %v (sd %v)", j, point[j], mean, sd)
		}
	}
}

func TestEstimate_StaysInBounds(t *testing.T) {
	// Sample piled against the upper bound; the fitted mean must not escape.
	rows := [][]float64{{0.96}, {0.99}, {0.98}, {1.0}, {0.97}, {0.95}, {0.99}, {1.0}}
	s := newSample(t, []string{"a"}, rows)
	b := newBounds(t, []string{"a"}, []float64{0}, []float64{1})

	point, err := New().Estimate(s, b)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if !b.Contains(point) {
		t.Errorf("MAP = %v outside [0, 1]", point)
	}
}

func TestEstimate_FixedDimension(t *testing.T) {
	// Zero-width support pins the dimension at its bound without fitting.
	rows := [][]float64{{5, 1.1}, {5, 0.9}, {5, 1.0}, {5, 1.2}, {5, 0.8}}
	s := newSample(t, []string{"fixed", "free"}, rows)
	b := newBounds(t, []string{"fixed", "free"}, []float64{5, 0}, []float64{5, 2})

	point, err := New().Estimate(s, b)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if point[0] != 5 {
		t.Errorf("fixed dim = %v, want 5", point[0])
	}
	if point[1] < 0 || point[1] > 2 {
		t.Errorf("free dim = %v outside [0, 2]", point[1])
	}
}

func TestEstimate_EmptySample(t *testing.T) {
	s := newSample(t, []string{"a"}, nil)
	b := newBounds(t, []string{"a"}, []float64{0}, []float64{1})
	_, err := New().Estimate(s, b)
	if !errors.Is(err, domain.ErrEmptyInput) {
		t.Errorf("err = %v, want ErrEmptyInput", err)
	}
}

func TestEstimate_BoundsDimensionMismatch(t *testing.T) {
	s := newSample(t, []string{"a", "b"}, [][]float64{{1, 2}})
	b := newBounds(t, []string{"a"}, []float64{0}, []float64{1})
	_, err := New().Estimate(s, b)
	if !errors.Is(err, domain.ErrDimensionMismatch) {
		t.Errorf("err = %v, want ErrDimensionMismatch", err)
	}
}

// The fit is deterministic: same sample, same point.
func TestEstimate_Deterministic(t *testing.T) {
	rows := [][]float64{{1.1}, {0.9}, {1.3}, {0.8}, {1.0}, {1.2}}
	s := newSample(t, []string{"a"}, rows)
	b := newBounds(t, []string{"a"}, []float64{0}, []float64{2})

	svc := New()
	first, err := svc.Estimate(s, b)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	second, err := svc.Estimate(s, b)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if math.Abs(first[0]-second[0]) > 1e-12 {
		t.Errorf("fits differ: %v vs %v", first[0], second[0])
	}
}
