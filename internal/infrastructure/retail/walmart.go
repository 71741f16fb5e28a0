package retail

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"github.com/snapvalue/backend/internal/domain"
)

const walmartBaseURL = "https://www.walmart.com"

// thousandsRepairRegex repairs Walmart's concatenated price markup, where
// "$1,29999" is really "$1,299.99" with the decimal point lost.
var thousandsRepairRegex = regexp.MustCompile(`([0-9]),([0-9]{3})([0-9]{2})`)

// Walmart searches walmart.com search result pages. Primary source: the
// pipeline consults it before any other.
type Walmart struct {
	fetcher    *fetcher
	baseURL    string
	maxResults int
	logger     zerolog.Logger
}

// NewWalmart creates the Walmart adapter.
func NewWalmart(opts Options, logger zerolog.Logger) *Walmart {
	opts = opts.withDefaults(walmartBaseURL)
	return &Walmart{
		fetcher:    newFetcher(opts),
		baseURL:    opts.BaseURL,
		maxResults: opts.MaxResults,
		logger:     logger.With().Str("source", "walmart").Logger(),
	}
}

// Name implements domain.RetailSource.
func (w *Walmart) Name() domain.SourceName { return domain.SourceWalmart }

// Search implements domain.RetailSource. Any failure yields an empty list.
func (w *Walmart) Search(ctx context.Context, query string) []domain.Listing {
	searchURL := fmt.Sprintf("%s/search?q=%s", w.baseURL, url.QueryEscape(query))

	doc, err := w.fetcher.document(ctx, searchURL)
	if err != nil {
		w.logger.Warn().Err(err).Str("query", query).Msg("walmart search failed")
		return nil
	}

	var listings []domain.Listing
	doc.Find("div[data-item-id]").EachWithBreak(func(_ int, item *goquery.Selection) bool {
		name := strings.TrimSpace(item.Find(".w_V_DM").First().Text())
		if name == "" {
			name = strings.TrimSpace(item.Find(`span[data-automation-id="product-title"]`).First().Text())
		}
		if name == "" {
			name = "Unknown"
		}

		price := strings.TrimSpace(item.Find(".b_p").First().Text())
		if price == "" {
			price = strings.TrimSpace(item.Find(`div[data-automation-id="product-price"]`).First().Text())
		}
		price = cleanWalmartPrice(price)

		link := searchURL
		if href, ok := item.Find("a").First().Attr("href"); ok && href != "" {
			link = w.baseURL + href
			// Product links sometimes carry an absolute URL already.
			link = strings.Replace(link, w.baseURL+"https://", "https://", 1)
		}

		listings = append(listings, domain.Listing{
			Name:     name,
			RawPrice: price,
			URL:      link,
			Source:   domain.SourceWalmart,
		})
		return len(listings) < w.maxResults
	})

	w.logger.Debug().Str("query", query).Int("results", len(listings)).Msg("walmart search done")
	return listings
}

// cleanWalmartPrice strips the accessibility prefix from price text and
// repairs the missing decimal point in concatenated thousands prices.
func cleanWalmartPrice(price string) string {
	price = strings.ReplaceAll(price, "current price ", "")
	return thousandsRepairRegex.ReplaceAllString(price, "${1},${2}.${3}")
}
