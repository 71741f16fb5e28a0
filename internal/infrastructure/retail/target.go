package retail

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"github.com/snapvalue/backend/internal/domain"
)

const targetBaseURL = "https://www.target.com"

// Target searches target.com search result pages. Secondary source, tried
// after Walmart for each query tier.
type Target struct {
	fetcher    *fetcher
	baseURL    string
	maxResults int
	logger     zerolog.Logger
}

// NewTarget creates the Target adapter.
func NewTarget(opts Options, logger zerolog.Logger) *Target {
	opts = opts.withDefaults(targetBaseURL)
	return &Target{
		fetcher:    newFetcher(opts),
		baseURL:    opts.BaseURL,
		maxResults: opts.MaxResults,
		logger:     logger.With().Str("source", "target").Logger(),
	}
}

// Name implements domain.RetailSource.
func (t *Target) Name() domain.SourceName { return domain.SourceTarget }

// Search implements domain.RetailSource. Any failure yields an empty list.
func (t *Target) Search(ctx context.Context, query string) []domain.Listing {
	searchURL := fmt.Sprintf("%s/s?searchTerm=%s", t.baseURL, url.QueryEscape(query))

	doc, err := t.fetcher.document(ctx, searchURL)
	if err != nil {
		t.logger.Warn().Err(err).Str("query", query).Msg("target search failed")
		return nil
	}

	var listings []domain.Listing
	doc.Find(`li[data-test="product-list-item"]`).EachWithBreak(func(_ int, item *goquery.Selection) bool {
		titleSel := item.Find(`a[data-test="product-title"]`).First()

		name := strings.TrimSpace(titleSel.Text())
		if name == "" {
			name = "Unknown"
		}

		price := strings.TrimSpace(item.Find(`span[data-test="product-price"]`).First().Text())

		link := searchURL
		if href, ok := titleSel.Attr("href"); ok && href != "" {
			link = t.baseURL + href
		}

		listings = append(listings, domain.Listing{
			Name:     name,
			RawPrice: price,
			URL:      link,
			Source:   domain.SourceTarget,
		})
		return len(listings) < t.maxResults
	})

	t.logger.Debug().Str("query", query).Int("results", len(listings)).Msg("target search done")
	return listings
}
