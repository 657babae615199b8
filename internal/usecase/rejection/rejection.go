// Package rejection selects the accepted posterior subset by ranking draws
// on their summary distance.
package rejection

import (
	"fmt"
	"math"
	"sort"

	"github.com/ecodyn/abcmove/internal/domain"
	"github.com/ecodyn/abcmove/internal/domain/sample"
)

// ValidateProportion checks an acceptance proportion before any work starts.
func ValidateProportion(p float64) error {
	if math.IsNaN(p) || p <= 0 || p > 1 {
		return fmt.Errorf("rejection: proportion %v outside (0, 1]: %w", p, domain.ErrInvalidProportion)
	}
	return nil
}

// Filter sorts all draws by ascending distance and keeps the first
// ceil(N * proportion), restricted to the given parameter columns. It
// returns the retained rows and their original indices, ascending by
// distance, ties broken by original index order. NaN distances sort last
// and are dropped from the retained set: an undefined distance is never
// ranked as most similar.
func Filter(s *sample.Sample, distances []float64, proportion float64, cols []int) (*sample.Sample, []int, error) {
	if err := ValidateProportion(proportion); err != nil {
		return nil, nil, err
	}
	n := s.N()
	if n == 0 {
		return nil, nil, fmt.Errorf("rejection: %w", domain.ErrEmptyInput)
	}
	if len(distances) != n {
		return nil, nil, fmt.Errorf("rejection: distances: %w", domain.NewDimensionMismatch(n, len(distances)))
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		da, db := distances[order[a]], distances[order[b]]
		if math.IsNaN(da) {
			return false
		}
		if math.IsNaN(db) {
			return true
		}
		return da < db
	})

	k := int(math.Ceil(float64(n) * proportion))
	if k > n {
		k = n
	}

	kept := make([]int, 0, k)
	for _, i := range order[:k] {
		if math.IsNaN(distances[i]) {
			break // NaNs are sorted last; nothing finite remains
		}
		kept = append(kept, i)
	}
	if len(kept) == 0 {
		return nil, nil, fmt.Errorf("rejection: no draws with finite distance: %w", domain.ErrEmptyInput)
	}

	filtered, err := s.Select(kept, cols)
	if err != nil {
		return nil, nil, fmt.Errorf("rejection: %w", err)
	}
	return filtered, kept, nil
}
