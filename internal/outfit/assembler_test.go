package outfit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"server/internal/domain"
)

type scriptedSearch struct {
	hasKey  bool
	results map[string][]domain.SearchCandidate
	errs    map[string]error
	calls   map[string]int
}

func newScriptedSearch() *scriptedSearch {
	return &scriptedSearch{
		hasKey:  true,
		results: make(map[string][]domain.SearchCandidate),
		errs:    make(map[string]error),
		calls:   make(map[string]int),
	}
}

func (s *scriptedSearch) HasCredentials() bool { return s.hasKey }

func (s *scriptedSearch) SearchShopping(ctx context.Context, query, gl string) ([]domain.SearchCandidate, error) {
	s.calls[query]++
	if err, ok := s.errs[query]; ok {
		return nil, err
	}
	return s.results[query], nil
}

func newTestAssembler(search SearchClient) *Assembler {
	cfg := DefaultConfig("accessory")
	return NewAssembler(cfg, search, newTestResolver(nil, nil), nil)
}

func testIntake() domain.Intake {
	return domain.Intake{
		Gender:         "man",
		Styles:         []string{"casual"},
		FavoriteColors: []string{"navy"},
		Country:        "NL",
		BudgetTotal:    250,
	}
}

func TestAssembleCountClamped(t *testing.T) {
	search := newScriptedSearch()
	a := newTestAssembler(search)

	tests := []struct {
		requested int
		want      int
	}{
		{requested: 0, want: 1},
		{requested: -2, want: 1},
		{requested: 3, want: 3},
		{requested: 10, want: 6},
	}
	for _, tc := range tests {
		result, err := a.Assemble(context.Background(), testIntake(), tc.requested)
		if err != nil {
			t.Fatalf("Assemble(%d): %v", tc.requested, err)
		}
		if len(result.Outfits) != tc.want {
			t.Fatalf("Assemble(%d) outfits = %d, want %d", tc.requested, len(result.Outfits), tc.want)
		}
	}
}

func TestAssembleFillsEverySlotWithPlaceholders(t *testing.T) {
	search := newScriptedSearch() // every search returns no results
	a := newTestAssembler(search)

	result, err := a.Assemble(context.Background(), testIntake(), 2)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	categories := DefaultConfig("accessory").Categories
	for _, outfit := range result.Outfits {
		if len(outfit.Items) != len(categories) {
			t.Fatalf("outfit %q has %d items, want %d", outfit.Name, len(outfit.Items), len(categories))
		}
		for i, item := range outfit.Items {
			if item.Category != categories[i] {
				t.Fatalf("slot %d = %q, want %q", i, item.Category, categories[i])
			}
			if !item.Fallback {
				t.Fatalf("empty search should produce fallback item for %q", item.Category)
			}
			if item.Link != "" {
				t.Fatalf("placeholder for %q should carry no link, got %q", item.Category, item.Link)
			}
		}
		if outfit.Currency != "EUR" {
			t.Fatalf("placeholder outfit currency = %q, want EUR", outfit.Currency)
		}
	}
	if result.Currency != "EUR" {
		t.Fatalf("result currency = %q, want EUR", result.Currency)
	}
}

func TestAssembleSearchesOncePerQuery(t *testing.T) {
	search := newScriptedSearch()
	a := newTestAssembler(search)

	intake := testIntake()
	if _, err := a.Assemble(context.Background(), intake, 3); err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	// top1 and top2 build the identical query, so across 3 outfits and 7
	// categories the upstream sees 6 distinct queries, each exactly once.
	normalized := intake
	normalized.Normalize()
	topQuery := BuildQuery("top1", normalized)
	if got := search.calls[topQuery]; got != 1 {
		t.Fatalf("shared query searched %d times, want 1", got)
	}
	if len(search.calls) != 6 {
		t.Fatalf("distinct upstream queries = %d, want 6", len(search.calls))
	}
	for query, n := range search.calls {
		if n != 1 {
			t.Fatalf("query %q searched %d times, want 1", query, n)
		}
	}
}

func TestAssembleMissingCredentials(t *testing.T) {
	search := newScriptedSearch()
	search.hasKey = false
	a := newTestAssembler(search)

	_, err := a.Assemble(context.Background(), testIntake(), 1)
	if !errors.Is(err, domain.ErrMissingCredentials) {
		t.Fatalf("err = %v, want ErrMissingCredentials", err)
	}
	if len(search.calls) != 0 {
		t.Fatalf("no upstream call expected without credentials, got %d", len(search.calls))
	}
}

func TestAssembleFirstSearchFailureIsFatal(t *testing.T) {
	search := newScriptedSearch()
	a := newTestAssembler(search)

	intake := testIntake()
	normalized := intake
	normalized.Normalize()
	firstQuery := BuildQuery(DefaultConfig("accessory").Categories[0], normalized)
	search.errs[firstQuery] = fmt.Errorf("serp: shopping search: %w", domain.ErrSearchUnavailable)

	_, err := a.Assemble(context.Background(), intake, 2)
	if !errors.Is(err, domain.ErrSearchUnavailable) {
		t.Fatalf("err = %v, want ErrSearchUnavailable", err)
	}
}

func TestAssembleLaterSearchFailureDegrades(t *testing.T) {
	search := newScriptedSearch()
	a := newTestAssembler(search)

	intake := testIntake()
	normalized := intake
	normalized.Normalize()
	bottomQuery := BuildQuery("bottom", normalized)
	search.errs[bottomQuery] = fmt.Errorf("serp: shopping search: %w", domain.ErrSearchUnavailable)
	outerQuery := BuildQuery("outer", normalized)
	search.results[outerQuery] = []domain.SearchCandidate{
		{Title: "Wool coat", Price: 60, Currency: "EUR", Link: "https://shop.example/coat/1", Merchant: "Shop"},
	}

	result, err := a.Assemble(context.Background(), intake, 1)
	if err != nil {
		t.Fatalf("later failure should degrade, got %v", err)
	}
	items := result.Outfits[0].Items
	if items[0].Fallback {
		t.Fatalf("outer slot should be a real item")
	}
	for _, item := range items {
		if item.Category == "bottom" && !item.Fallback {
			t.Fatalf("bottom slot should degrade to placeholder")
		}
	}
}

func TestAssembleItemMapping(t *testing.T) {
	search := newScriptedSearch()
	a := newTestAssembler(search)

	intake := testIntake()
	normalized := intake
	normalized.Normalize()
	outerQuery := BuildQuery("outer", normalized)
	search.results[outerQuery] = []domain.SearchCandidate{
		{
			Title:     "Wool coat",
			Price:     62.499,
			Currency:  "EUR",
			Link:      "https://shop.example/coat/1?utm_campaign=sale",
			Merchant:  "",
			Thumbnail: "https://img.example/coat.jpg",
		},
	}

	result, err := a.Assemble(context.Background(), intake, 1)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	item := result.Outfits[0].Items[0]
	if item.Title != "Wool coat" {
		t.Fatalf("title = %q", item.Title)
	}
	if item.Price != 62.5 {
		t.Fatalf("price = %v, want 62.5", item.Price)
	}
	if item.Link != "https://shop.example/coat/1" {
		t.Fatalf("link = %q, want tracking stripped", item.Link)
	}
	if item.Fallback {
		t.Fatalf("resolved item should not be marked fallback")
	}
	if item.Merchant != "shop.example" {
		t.Fatalf("merchant = %q, want display domain fallback", item.Merchant)
	}
	if item.Image != "https://img.example/coat.jpg" {
		t.Fatalf("image = %q", item.Image)
	}
	if result.Outfits[0].Currency != "EUR" {
		t.Fatalf("outfit currency = %q", result.Outfits[0].Currency)
	}
}

func TestAssembleIdempotent(t *testing.T) {
	search := newScriptedSearch()
	intake := testIntake()
	normalized := intake
	normalized.Normalize()
	outerQuery := BuildQuery("outer", normalized)
	search.results[outerQuery] = []domain.SearchCandidate{
		{Title: "Coat", Price: 60, Currency: "EUR", Link: "https://shop.example/c/1", Merchant: "Shop"},
	}

	run := func() []byte {
		a := newTestAssembler(search)
		result, err := a.Assemble(context.Background(), intake, 3)
		if err != nil {
			t.Fatalf("Assemble: %v", err)
		}
		raw, err := json.Marshal(result)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		return raw
	}

	first := run()
	second := run()
	if !bytes.Equal(first, second) {
		t.Fatalf("identical inputs produced different results:\n%s\n%s", first, second)
	}
}

func TestAssembleTotalsRounded(t *testing.T) {
	search := newScriptedSearch()
	a := newTestAssembler(search)

	intake := testIntake()
	intake.BudgetTotal = 333.33

	result, err := a.Assemble(context.Background(), intake, 1)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	total := result.Outfits[0].Total
	if total != round2(total) {
		t.Fatalf("total %v not rounded to 2 decimals", total)
	}
}
