package outfit

import (
	"math"

	"server/internal/domain"
)

// SelectCandidate picks the listing that best fits the category ceiling.
//
// Phase one keeps candidates with a positive price at or below
// ceiling*overshoot and returns the one closest to the ceiling, earlier
// listings winning ties. When nothing fits the band, the cheapest
// positive-priced candidate is returned instead. Candidates without a
// parsable positive price are never selectable.
func SelectCandidate(candidates []domain.SearchCandidate, ceiling, overshoot float64) (domain.SearchCandidate, bool) {
	if overshoot < 1 {
		overshoot = 1
	}

	var best domain.SearchCandidate
	bestDiff := math.Inf(1)
	found := false
	for _, c := range candidates {
		if c.Price <= 0 || c.Price > ceiling*overshoot {
			continue
		}
		diff := math.Abs(c.Price - ceiling)
		if diff < bestDiff {
			best = c
			bestDiff = diff
			found = true
		}
	}
	if found {
		return best, true
	}

	var cheapest domain.SearchCandidate
	cheapestPrice := math.Inf(1)
	for _, c := range candidates {
		if c.Price <= 0 {
			continue
		}
		if c.Price < cheapestPrice {
			cheapest = c
			cheapestPrice = c.Price
			found = true
		}
	}
	return cheapest, found
}
