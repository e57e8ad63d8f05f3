package outfit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/infra"
)

// SearchClient is the shopping-search collaborator consumed by the
// assembler.
type SearchClient interface {
	HasCredentials() bool
	SearchShopping(ctx context.Context, query, gl string) ([]domain.SearchCandidate, error)
}

const (
	referenceCurrency = "EUR"

	placeholderTitle    = "(geen directe shoplink gevonden — alternatief)"
	placeholderMerchant = "—"

	explanationText = "Producten gezocht via Google Shopping met directe shop-links. " +
		"Bij lege resultaten kies ik een veilig alternatief."
	independentNote = "Anna is onafhankelijk — geen affiliate; links zijn puur gemak."
)

// defaultPalette is advised when the intake names no favorite colors.
var defaultPalette = []string{"navy", "white", "grey"}

// Assembler orchestrates the outfit pipeline: build a query per category,
// search (memoized per request), select a candidate against the category
// allocation, resolve a direct link, and map everything into the final
// generation result.
type Assembler struct {
	cfg      Config
	search   SearchClient
	resolver *LinkResolver
	logger   *infra.Logger
}

// NewAssembler wires the pipeline.
func NewAssembler(cfg Config, search SearchClient, resolver *LinkResolver, logger *infra.Logger) *Assembler {
	if len(cfg.Categories) == 0 {
		cfg = DefaultConfig("accessory")
	}
	if logger == nil {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Assembler{cfg: cfg, search: search, resolver: resolver, logger: logger}
}

// Assemble produces outfitsCount complete outfits for the intake. The count
// is clamped to [1,6]. Every category slot is always filled; upstream
// failures after the first successful search degrade to placeholder items.
func (a *Assembler) Assemble(ctx context.Context, intake domain.Intake, outfitsCount int) (*domain.GenerationResult, error) {
	intake.Normalize()

	if !a.search.HasCredentials() {
		return nil, fmt.Errorf("shopping search is not configured: %w", domain.ErrMissingCredentials)
	}

	if outfitsCount < 1 {
		outfitsCount = 1
	}
	if outfitsCount > 6 {
		outfitsCount = 6
	}

	alloc := a.cfg.Allocate(intake.BudgetTotal)
	gl := intake.Country
	cache := newSearchCache(a.search)

	outfits := make([]domain.Outfit, 0, outfitsCount)
	for i := 1; i <= outfitsCount; i++ {
		items := make([]domain.OutfitItem, 0, len(a.cfg.Categories))
		total := 0.0
		for _, category := range a.cfg.Categories {
			item, err := a.fillSlot(ctx, cache, category, intake, alloc[category], gl)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
			total += item.Price
		}
		outfits = append(outfits, domain.Outfit{
			Name:     fmt.Sprintf("Outfit %d", i),
			Items:    items,
			Total:    round2(total),
			Currency: outfitCurrency(items),
		})
	}

	colors := intake.FavoriteColors
	if len(colors) == 0 {
		colors = defaultPalette
	}

	return &domain.GenerationResult{
		Palette:         domain.Palette{Colors: colors},
		Allocation:      alloc,
		Outfits:         outfits,
		Explanation:     explanationText,
		IndependentNote: independentNote,
		Country:         intake.Country,
		Currency:        outfits[0].Currency,
	}, nil
}

func (a *Assembler) fillSlot(ctx context.Context, cache *searchCache, category string, intake domain.Intake, ceiling float64, gl string) (domain.OutfitItem, error) {
	query := BuildQuery(category, intake)
	candidates, err := cache.get(ctx, query, gl)
	if err != nil {
		// Only the first upstream contact of a request is fatal; by then we
		// know whether the provider works at all.
		if errors.Is(err, domain.ErrMissingCredentials) {
			return domain.OutfitItem{}, err
		}
		if cache.misses == 1 {
			return domain.OutfitItem{}, err
		}
		a.logger.Warn().Err(err).Str("query", query).Msg("search degraded to empty results")
		candidates = nil
	}

	cand, ok := SelectCandidate(candidates, ceiling, a.cfg.Overshoot)
	if !ok {
		return placeholderItem(category, ceiling), nil
	}

	link, direct := a.resolver.Resolve(ctx, cand, gl)
	currency := cand.Currency
	if currency == "" {
		currency = referenceCurrency
	}
	merchant := cand.Merchant
	if merchant == "" {
		merchant = displayDomain(link)
	}
	title := cand.Title
	if title == "" {
		title = placeholderMerchant
	}
	return domain.OutfitItem{
		Category: category,
		Title:    title,
		Price:    round2(cand.Price),
		Currency: currency,
		Link:     link,
		Image:    cand.Thumbnail,
		Merchant: merchant,
		Fallback: !direct,
	}, nil
}

// placeholderItem fills a slot when no candidate survives selection, priced
// at the category allocation so outfit totals stay meaningful.
func placeholderItem(category string, ceiling float64) domain.OutfitItem {
	return domain.OutfitItem{
		Category: category,
		Title:    placeholderTitle,
		Price:    round2(ceiling),
		Currency: referenceCurrency,
		Merchant: placeholderMerchant,
		Fallback: true,
	}
}

func outfitCurrency(items []domain.OutfitItem) string {
	for _, item := range items {
		if item.Currency != "" {
			return item.Currency
		}
	}
	return referenceCurrency
}

// displayDomain re-derives a merchant display name from a resolved link.
func displayDomain(link string) string {
	host := strings.TrimPrefix(hostOf(link), "www.")
	if host == "" {
		return placeholderMerchant
	}
	return host
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// searchCache memoizes shopping searches by query string for the duration
// of one generation request: at most one upstream call per distinct query.
// Failed queries are memoized as empty so a flaky upstream is not retried
// within the same request.
type searchCache struct {
	search  SearchClient
	results map[string][]domain.SearchCandidate
	misses  int
}

func newSearchCache(search SearchClient) *searchCache {
	return &searchCache{
		search:  search,
		results: make(map[string][]domain.SearchCandidate),
	}
}

func (c *searchCache) get(ctx context.Context, query, gl string) ([]domain.SearchCandidate, error) {
	if cached, ok := c.results[query]; ok {
		return cached, nil
	}
	c.misses++
	candidates, err := c.search.SearchShopping(ctx, query, gl)
	if err != nil {
		c.results[query] = nil
		return nil, err
	}
	c.results[query] = candidates
	return candidates, nil
}
