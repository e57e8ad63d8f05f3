package outfit

import "server/internal/domain"

// Config carries the tunables of the outfit pipeline. The original service
// hardcoded all of these; deployments now choose the final category slot,
// the price overshoot tolerance, and the locale TLD preferences.
type Config struct {
	// Categories is the fixed slot order of every outfit.
	Categories []string
	// Weights maps each category to its share of the total budget.
	Weights map[string]float64
	// Overshoot is the tolerated multiple of a category ceiling, e.g. 1.10
	// allows items up to 10% over the allocation.
	Overshoot float64
	// LocalTLDs maps a country code to domain suffixes considered local
	// shops for that market.
	LocalTLDs map[string][]string
}

// DefaultConfig returns the standard seven-slot configuration. The final
// slot is "accessory" unless "belt" is requested.
func DefaultConfig(finalSlot string) Config {
	if finalSlot != "belt" {
		finalSlot = "accessory"
	}
	return Config{
		Categories: []string{"outer", "top1", "top2", "bottom", "shoes", "tee", finalSlot},
		Weights: map[string]float64{
			"outer":   0.25,
			"top1":    0.15,
			"top2":    0.15,
			"bottom":  0.20,
			"shoes":   0.20,
			"tee":     0.04,
			finalSlot: 0.01,
		},
		Overshoot: 1.10,
		LocalTLDs: map[string][]string{
			"NL": {".nl", ".be"},
			"BE": {".be", ".nl"},
		},
	}
}

// Allocate splits the total budget over the configured categories using the
// fixed weights. A non-positive total falls back to the default budget. The
// "_total" entry carries the sum of the category allocations so callers can
// verify the split.
func (c Config) Allocate(total float64) domain.BudgetAllocation {
	if total <= 0 {
		total = domain.DefaultBudgetTotal
	}
	alloc := make(domain.BudgetAllocation, len(c.Categories)+1)
	sum := 0.0
	for _, cat := range c.Categories {
		share := total * c.Weights[cat]
		alloc[cat] = share
		sum += share
	}
	alloc[domain.TotalKey] = sum
	return alloc
}
