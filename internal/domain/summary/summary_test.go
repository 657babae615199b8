package summary

import (
	"errors"
	"testing"

	"github.com/ecodyn/abcmove/internal/domain"
)

func TestMatrix_Dim(t *testing.T) {
	m := Matrix{{1, 2, 3}, {4, 5, 6}}
	d, err := m.Dim()
	if err != nil {
		t.Fatalf("Dim: %v", err)
	}
	if d != 3 {
		t.Errorf("Dim = %d, want 3", d)
	}

	ragged := Matrix{{1, 2}, {3}}
	if _, err := ragged.Dim(); !errors.Is(err, domain.ErrDimensionMismatch) {
		t.Errorf("err = %v, want ErrDimensionMismatch", err)
	}
}

func TestRangeScale(t *testing.T) {
	m := Matrix{{1, 10}, {3, 30}, {2, 20}}
	scale, err := RangeScale(m)
	if err != nil {
		t.Fatalf("RangeScale: %v", err)
	}
	if scale[0] != 2 || scale[1] != 20 {
		t.Errorf("scale = %v, want [2 20]", scale)
	}
}

func TestRangeScale_Empty(t *testing.T) {
	if _, err := RangeScale(nil); !errors.Is(err, domain.ErrEmptyInput) {
		t.Errorf("err = %v, want ErrEmptyInput", err)
	}
}

func TestMatrix_Rows(t *testing.T) {
	m := Matrix{{1}, {2}, {3}}
	sub := m.Rows([]int{2, 0})
	if len(sub) != 2 || sub[0][0] != 3 || sub[1][0] != 1 {
		t.Errorf("Rows = %v", sub)
	}

	sub[0][0] = 99
	if m[2][0] != 3 {
		t.Error("Rows returned live references")
	}
}
