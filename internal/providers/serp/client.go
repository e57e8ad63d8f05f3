package serp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/infra"
)

// Options configures the SerpAPI client.
type Options struct {
	APIKey         string
	BaseURL        string
	ResultLimit    int
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls against the SerpAPI search endpoints: Google
// Shopping listings, Google product seller offers, and organic web search.
type Client struct {
	apiKey      string
	baseURL     string
	resultLimit int
	httpClient  *http.Client
	logger      *infra.Logger
}

type shoppingResponse struct {
	ShoppingResults []shoppingResult `json:"shopping_results"`
	Error           string           `json:"error"`
}

type shoppingResult struct {
	Title          string          `json:"title"`
	Price          json.RawMessage `json:"price"`
	ExtractedPrice float64         `json:"extracted_price"`
	Currency       string          `json:"currency"`
	Link           string          `json:"link"`
	ProductLink    string          `json:"product_link"`
	SourceURL      string          `json:"source_url"`
	SourceLink     string          `json:"source_link"`
	ProductID      string          `json:"product_id"`
	Source         string          `json:"source"`
	Seller         string          `json:"seller"`
	Thumbnail      string          `json:"thumbnail"`
	Image          string          `json:"image"`
}

type productResponse struct {
	SellersResults struct {
		OnlineSellers []sellerResult `json:"online_sellers"`
	} `json:"sellers_results"`
	Error string `json:"error"`
}

type sellerResult struct {
	Name                string  `json:"name"`
	Link                string  `json:"link"`
	DirectLink          string  `json:"direct_link"`
	BasePrice           string  `json:"base_price"`
	ExtractedBasePrice  float64 `json:"base_price_extracted"`
	ExtractedTotalPrice float64 `json:"total_price_extracted"`
}

type webResponse struct {
	OrganicResults []organicResult `json:"organic_results"`
	Error          string          `json:"error"`
}

type organicResult struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 20 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://serpapi.com"
	}
	resultLimit := opts.ResultLimit
	if resultLimit <= 0 {
		resultLimit = 20
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{
		apiKey:      strings.TrimSpace(opts.APIKey),
		baseURL:     baseURL,
		resultLimit: resultLimit,
		httpClient:  httpClient,
		logger:      logger,
	}
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

// SearchShopping returns Google Shopping listings for the query in the
// given country. An empty slice with a nil error means "no results"; errors
// wrap the domain taxonomy so callers can tell configuration problems from
// upstream failures.
func (c *Client) SearchShopping(ctx context.Context, query, gl string) ([]domain.SearchCandidate, error) {
	if !c.HasCredentials() {
		return nil, fmt.Errorf("serp: api key is required: %w", domain.ErrMissingCredentials)
	}
	params := url.Values{}
	params.Set("engine", "google_shopping")
	params.Set("q", query)
	params.Set("gl", strings.ToLower(gl))
	params.Set("hl", hostLanguage(gl))
	params.Set("num", strconv.Itoa(c.resultLimit))

	var decoded shoppingResponse
	if err := c.get(ctx, params, &decoded); err != nil {
		return nil, fmt.Errorf("serp: shopping search: %w", domain.ErrSearchUnavailable)
	}
	if decoded.Error != "" {
		return nil, fmt.Errorf("serp: shopping search: %s: %w", decoded.Error, domain.ErrSearchUnavailable)
	}

	candidates := make([]domain.SearchCandidate, 0, len(decoded.ShoppingResults))
	for _, r := range decoded.ShoppingResults {
		merchant := r.Source
		if merchant == "" {
			merchant = r.Seller
		}
		image := r.Thumbnail
		if image == "" {
			image = r.Image
		}
		candidates = append(candidates, domain.SearchCandidate{
			Title:       r.Title,
			Price:       priceOf(r),
			Currency:    r.Currency,
			Link:        r.Link,
			ProductLink: r.ProductLink,
			SourceURL:   r.SourceURL,
			SourceLink:  r.SourceLink,
			ProductID:   r.ProductID,
			Merchant:    merchant,
			Thumbnail:   image,
		})
	}
	c.logger.Debug().Str("query", query).Str("gl", gl).Int("results", len(candidates)).Msg("serp: shopping search")
	return candidates, nil
}

// ProductOffers returns the online seller offers for a Google Shopping
// product id.
func (c *Client) ProductOffers(ctx context.Context, productID, gl string) ([]domain.SellerOffer, error) {
	if !c.HasCredentials() {
		return nil, fmt.Errorf("serp: api key is required: %w", domain.ErrMissingCredentials)
	}
	params := url.Values{}
	params.Set("engine", "google_product")
	params.Set("product_id", productID)
	params.Set("gl", strings.ToLower(gl))
	params.Set("hl", hostLanguage(gl))
	params.Set("offers", "1")

	var decoded productResponse
	if err := c.get(ctx, params, &decoded); err != nil {
		return nil, fmt.Errorf("serp: product offers: %w", domain.ErrSearchUnavailable)
	}
	if decoded.Error != "" {
		return nil, fmt.Errorf("serp: product offers: %s: %w", decoded.Error, domain.ErrSearchUnavailable)
	}

	offers := make([]domain.SellerOffer, 0, len(decoded.SellersResults.OnlineSellers))
	for _, s := range decoded.SellersResults.OnlineSellers {
		link := s.DirectLink
		if link == "" {
			link = s.Link
		}
		price := s.ExtractedBasePrice
		if price <= 0 {
			price = s.ExtractedTotalPrice
		}
		if price <= 0 {
			price = parsePrice(s.BasePrice)
		}
		offers = append(offers, domain.SellerOffer{Store: s.Name, Link: link, Price: price})
	}
	c.logger.Debug().Str("product_id", productID).Int("offers", len(offers)).Msg("serp: product offers")
	return offers, nil
}

// SearchWeb returns organic Google results for the query.
func (c *Client) SearchWeb(ctx context.Context, query, gl string) ([]domain.WebResult, error) {
	if !c.HasCredentials() {
		return nil, fmt.Errorf("serp: api key is required: %w", domain.ErrMissingCredentials)
	}
	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", query)
	params.Set("gl", strings.ToLower(gl))
	params.Set("hl", hostLanguage(gl))
	params.Set("num", strconv.Itoa(c.resultLimit))

	var decoded webResponse
	if err := c.get(ctx, params, &decoded); err != nil {
		return nil, fmt.Errorf("serp: web search: %w", domain.ErrSearchUnavailable)
	}
	if decoded.Error != "" {
		return nil, fmt.Errorf("serp: web search: %s: %w", decoded.Error, domain.ErrSearchUnavailable)
	}

	results := make([]domain.WebResult, 0, len(decoded.OrganicResults))
	for _, r := range decoded.OrganicResults {
		results = append(results, domain.WebResult{Title: r.Title, Link: r.Link})
	}
	c.logger.Debug().Str("query", query).Int("results", len(results)).Msg("serp: web search")
	return results, nil
}

func (c *Client) get(ctx context.Context, params url.Values, out any) error {
	params.Set("api_key", c.apiKey)
	endpoint := c.baseURL + "/search.json?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// priceOf prefers the numeric extracted_price and falls back to parsing the
// display price. Unparsable prices come back as 0, which the selector
// treats as "no valid offer".
func priceOf(r shoppingResult) float64 {
	if r.ExtractedPrice > 0 {
		return r.ExtractedPrice
	}
	var display string
	if len(r.Price) > 0 {
		if err := json.Unmarshal(r.Price, &display); err != nil {
			var numeric float64
			if err := json.Unmarshal(r.Price, &numeric); err == nil {
				return numeric
			}
			return 0
		}
	}
	return parsePrice(display)
}

func parsePrice(display string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9':
			return r
		case r == '.' || r == ',':
			return r
		default:
			return -1
		}
	}, display)
	if cleaned == "" {
		return 0
	}
	// European display prices use a decimal comma.
	if strings.Count(cleaned, ",") == 1 && strings.Count(cleaned, ".") == 0 {
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	} else {
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return price
}

func hostLanguage(gl string) string {
	switch strings.ToUpper(gl) {
	case "NL", "BE":
		return "nl"
	default:
		return "en"
	}
}
