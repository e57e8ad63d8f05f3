package outfit

import (
	"context"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/infra"
)

// ProductClient looks up seller offers for a shopping product identifier.
type ProductClient interface {
	ProductOffers(ctx context.Context, productID, gl string) ([]domain.SellerOffer, error)
}

// WebSearchClient returns organic web results for a query.
type WebSearchClient interface {
	SearchWeb(ctx context.Context, query, gl string) ([]domain.WebResult, error)
}

// blockedHostSuffixes are search-engine, ad-click, and redirect-tracking
// hosts that never count as merchant product pages.
var blockedHostSuffixes = []string{
	"googleadservices.com",
	"googlesyndication.com",
	"googleusercontent.com",
	"doubleclick.net",
	"gstatic.com",
	"awin1.com",
	"tradedoubler.com",
	"linksynergy.com",
	"dartsearch.net",
}

// trackingParams are query parameters stripped from every accepted link.
var trackingParams = map[string]struct{}{
	"gclid":      {},
	"gclsrc":     {},
	"dclid":      {},
	"fbclid":     {},
	"msclkid":    {},
	"yclid":      {},
	"mc_eid":     {},
	"igshid":     {},
	"srsltid":    {},
	"ref":        {},
	"tag":        {},
	"affid":      {},
	"aff_id":     {},
	"campaignid": {},
	"adgroupid":  {},
	"_ga":        {},
	"_gl":        {},
}

var productIDPattern = regexp.MustCompile(`/shopping/product/(\d+)`)

// LinkResolver turns a selected shopping candidate into a genuine merchant
// product URL. Strategies run in order: the candidate's own URL fields, a
// seller-offers lookup by product id, an organic web search, and finally a
// synthesized search URL.
type LinkResolver struct {
	products  ProductClient
	web       WebSearchClient
	localTLDs map[string][]string
	logger    *infra.Logger
}

// NewLinkResolver wires the resolver. Either client may be nil, which skips
// that strategy.
func NewLinkResolver(products ProductClient, web WebSearchClient, localTLDs map[string][]string, logger *infra.Logger) *LinkResolver {
	if logger == nil {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &LinkResolver{
		products:  products,
		web:       web,
		localTLDs: localTLDs,
		logger:    logger,
	}
}

// Resolve returns a merchant URL for the candidate and whether the URL is a
// genuine product page. When every strategy fails the second return value
// is false and the URL is a synthesized search query for the item, never an
// error: link resolution must not sink an otherwise complete outfit.
func (r *LinkResolver) Resolve(ctx context.Context, cand domain.SearchCandidate, gl string) (string, bool) {
	if link := r.fromCandidateFields(cand); link != "" {
		return link, true
	}
	if link := r.fromProductOffers(ctx, cand, gl); link != "" {
		return link, true
	}
	if link := r.fromWebSearch(ctx, cand, gl); link != "" {
		return link, true
	}
	return fallbackSearchURL(cand), false
}

// fromCandidateFields probes the candidate's URL fields in priority order:
// explicit product links before generic ones.
func (r *LinkResolver) fromCandidateFields(cand domain.SearchCandidate) string {
	for _, raw := range []string{cand.ProductLink, cand.Link, cand.SourceURL, cand.SourceLink} {
		if link, ok := normalizeLink(raw); ok {
			return link
		}
	}
	return ""
}

// fromProductOffers asks the product-detail upstream for seller offers and
// picks the one most likely to be the originally reported merchant.
func (r *LinkResolver) fromProductOffers(ctx context.Context, cand domain.SearchCandidate, gl string) string {
	if r.products == nil {
		return ""
	}
	productID := cand.ProductID
	if productID == "" {
		productID = extractProductID(cand)
	}
	if productID == "" {
		return ""
	}
	offers, err := r.products.ProductOffers(ctx, productID, gl)
	if err != nil {
		r.logger.Debug().Err(err).Str("product_id", productID).Msg("offer lookup failed, trying next strategy")
		return ""
	}

	merchantWord := firstWordLower(cand.Merchant)
	var localMatch, anyMatch string
	for _, offer := range offers {
		link, ok := normalizeLink(offer.Link)
		if !ok {
			continue
		}
		if merchantWord != "" {
			haystack := strings.ToLower(offer.Store + " " + offer.Link)
			if strings.Contains(haystack, merchantWord) {
				return link
			}
		}
		if localMatch == "" && r.hasLocalTLD(link, gl) {
			localMatch = link
		}
		if anyMatch == "" {
			anyMatch = link
		}
	}
	if localMatch != "" {
		return localMatch
	}
	return anyMatch
}

// fromWebSearch falls back to an organic search for "<title> <merchant>"
// and scans the results for a merchant-looking host.
func (r *LinkResolver) fromWebSearch(ctx context.Context, cand domain.SearchCandidate, gl string) string {
	if r.web == nil {
		return ""
	}
	query := strings.TrimSpace(cand.Title + " " + cand.Merchant)
	if query == "" {
		return ""
	}
	results, err := r.web.SearchWeb(ctx, query, gl)
	if err != nil {
		r.logger.Debug().Err(err).Str("query", query).Msg("web search failed, trying next strategy")
		return ""
	}

	merchantKey := alnumLower(cand.Merchant)
	var localMatch, anyMatch string
	for _, res := range results {
		link, ok := normalizeLink(res.Link)
		if !ok {
			continue
		}
		if merchantKey != "" {
			host := strings.TrimPrefix(hostOf(link), "www.")
			if strings.Contains(alnumLower(host), merchantKey) {
				return link
			}
		}
		if localMatch == "" && r.hasLocalTLD(link, gl) {
			localMatch = link
		}
		if anyMatch == "" {
			anyMatch = link
		}
	}
	if localMatch != "" {
		return localMatch
	}
	return anyMatch
}

func (r *LinkResolver) hasLocalTLD(link, gl string) bool {
	host := hostOf(link)
	for _, tld := range r.localTLDs[strings.ToUpper(gl)] {
		if strings.HasSuffix(host, tld) {
			return true
		}
	}
	return false
}

// normalizeLink validates a raw URL as a genuine merchant link and strips
// tracking parameters. The empty string and false mean the URL is unusable:
// unparsable, on a blocked host, or pointing at a bare domain root.
func normalizeLink(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", false
	}
	if isBlockedHost(u.Hostname()) {
		return "", false
	}
	if u.Path == "" || u.Path == "/" {
		return "", false
	}

	query := u.Query()
	for param := range query {
		if _, tracked := trackingParams[param]; tracked || strings.HasPrefix(strings.ToLower(param), "utm_") {
			query.Del(param)
		}
	}
	u.RawQuery = query.Encode()
	u.Fragment = ""
	return u.String(), true
}

func isBlockedHost(host string) bool {
	host = strings.ToLower(host)
	if strings.Contains(host, "google.") {
		return true
	}
	for _, suffix := range blockedHostSuffixes {
		if host == suffix || strings.HasSuffix(host, "."+suffix) {
			return true
		}
	}
	return false
}

func hostOf(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// extractProductID digs a product identifier out of the candidate's URL
// fields when the upstream did not report one directly.
func extractProductID(cand domain.SearchCandidate) string {
	for _, raw := range []string{cand.ProductLink, cand.Link, cand.SourceURL, cand.SourceLink} {
		if raw == "" {
			continue
		}
		if m := productIDPattern.FindStringSubmatch(raw); len(m) == 2 {
			return m[1]
		}
		if u, err := url.Parse(raw); err == nil {
			if id := u.Query().Get("product_id"); id != "" {
				return id
			}
		}
	}
	return ""
}

func firstWordLower(s string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func alnumLower(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// fallbackSearchURL synthesizes a plain search query for the item. Callers
// mark items carrying it so the frontend can render them differently.
func fallbackSearchURL(cand domain.SearchCandidate) string {
	query := strings.TrimSpace(cand.Title + " " + cand.Merchant)
	if query == "" {
		query = cand.Title
	}
	return "https://www.google.com/search?q=" + url.QueryEscape(query)
}
