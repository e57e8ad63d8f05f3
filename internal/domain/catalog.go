package domain

// BudgetAllocation maps a clothing category to its sub-budget. The special
// "_total" key carries the sum of all category allocations so callers can
// verify the split against the declared budget.
type BudgetAllocation map[string]float64

// TotalKey is the verification entry inside a BudgetAllocation.
const TotalKey = "_total"

// SearchCandidate is one raw listing as returned by the shopping-search
// upstream. It only lives for the duration of a single category search.
type SearchCandidate struct {
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	Link        string  `json:"link"`
	ProductLink string  `json:"product_link"`
	SourceURL   string  `json:"source_url"`
	SourceLink  string  `json:"source_link"`
	ProductID   string  `json:"product_id"`
	Merchant    string  `json:"merchant"`
	Thumbnail   string  `json:"thumbnail"`
}

// SellerOffer is one seller listing from the product-detail upstream,
// used when a shopping result only links to an aggregator page.
type SellerOffer struct {
	Store string  `json:"store"`
	Link  string  `json:"link"`
	Price float64 `json:"price"`
}

// WebResult is one organic web-search result.
type WebResult struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// OutfitItem is one resolved item filling a category slot. Fallback marks
// placeholder items and items whose link is a synthesized search URL rather
// than a genuine merchant page.
type OutfitItem struct {
	Category string  `json:"category"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	Link     string  `json:"link"`
	Image    string  `json:"image,omitempty"`
	Merchant string  `json:"merchant"`
	Fallback bool    `json:"fallback,omitempty"`
}

// Outfit is an ordered set of items, one per configured category.
type Outfit struct {
	Name     string       `json:"name"`
	Items    []OutfitItem `json:"items"`
	Total    float64      `json:"total"`
	Currency string       `json:"currency"`
}

// Palette is the advised color palette for the outfit set.
type Palette struct {
	Colors []string `json:"colors"`
}

// GenerationResult is the complete outcome of one generation request.
type GenerationResult struct {
	Palette         Palette          `json:"palette"`
	Allocation      BudgetAllocation `json:"allocation"`
	Outfits         []Outfit         `json:"outfits"`
	Explanation     string           `json:"explanation"`
	IndependentNote string           `json:"independent_note"`
	Country         string           `json:"country"`
	Currency        string           `json:"currency"`
}
