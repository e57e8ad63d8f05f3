package outfit

import (
	"testing"

	"server/internal/domain"
)

func candidatesWithPrices(prices ...float64) []domain.SearchCandidate {
	out := make([]domain.SearchCandidate, 0, len(prices))
	for _, p := range prices {
		out = append(out, domain.SearchCandidate{Title: "item", Price: p})
	}
	return out
}

func TestSelectCandidateClosestWithinBand(t *testing.T) {
	cands := candidatesWithPrices(100, 150, 300)

	got, ok := SelectCandidate(cands, 120, 1.10)
	if !ok {
		t.Fatalf("expected a candidate")
	}
	// The band reaches 132, so 150 and 300 are out; 100 wins.
	if got.Price != 100 {
		t.Fatalf("price = %v, want 100", got.Price)
	}
}

func TestSelectCandidateFallsBackToCheapest(t *testing.T) {
	cands := candidatesWithPrices(100, 150, 300)

	got, ok := SelectCandidate(cands, 90, 1.10)
	if !ok {
		t.Fatalf("expected a candidate")
	}
	if got.Price != 100 {
		t.Fatalf("price = %v, want cheapest 100", got.Price)
	}
}

func TestSelectCandidateTieBrokenByOrder(t *testing.T) {
	cands := []domain.SearchCandidate{
		{Title: "first", Price: 110},
		{Title: "second", Price: 90},
	}

	got, ok := SelectCandidate(cands, 100, 1.10)
	if !ok {
		t.Fatalf("expected a candidate")
	}
	if got.Title != "first" {
		t.Fatalf("tie should keep the earlier listing, got %q", got.Title)
	}
}

func TestSelectCandidateIgnoresInvalidPrices(t *testing.T) {
	cands := candidatesWithPrices(0, -5, 80)

	got, ok := SelectCandidate(cands, 100, 1.10)
	if !ok {
		t.Fatalf("expected a candidate")
	}
	if got.Price != 80 {
		t.Fatalf("price = %v, want 80", got.Price)
	}
}

func TestSelectCandidateNoValidPrices(t *testing.T) {
	cands := candidatesWithPrices(0, 0, -1)

	if _, ok := SelectCandidate(cands, 100, 1.10); ok {
		t.Fatalf("expected no candidate for zero and negative prices")
	}
	if _, ok := SelectCandidate(nil, 100, 1.10); ok {
		t.Fatalf("expected no candidate for empty input")
	}
}

func TestSelectCandidateNeverReturnsNonPositivePrice(t *testing.T) {
	cands := []domain.SearchCandidate{
		{Title: "free", Price: 0},
		{Title: "paid", Price: 45},
		{Title: "broken", Price: -3},
	}
	for _, ceiling := range []float64{1, 50, 500} {
		got, ok := SelectCandidate(cands, ceiling, 1.10)
		if ok && got.Price <= 0 {
			t.Fatalf("ceiling %v selected non-positive price %v", ceiling, got.Price)
		}
	}
}

func TestSelectCandidateOvershootConfigurable(t *testing.T) {
	cands := candidatesWithPrices(120)

	if _, ok := SelectCandidate(cands, 100, 1.10); !ok {
		t.Fatalf("120 should fall back to cheapest under 1.10")
	}
	got, ok := SelectCandidate(cands, 100, 1.25)
	if !ok || got.Price != 120 {
		t.Fatalf("120 should fit a 1.25 band, got ok=%v price=%v", ok, got.Price)
	}
}
