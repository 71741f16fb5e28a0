// Package retail implements the RetailSource capability for the retail
// sites the pricing pipeline searches. Adapters fail soft by contract:
// network errors, timeouts, non-success statuses and parse failures all
// surface as an empty result list, never as an error.
package retail

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

const (
	defaultTimeout    = 10 * time.Second
	defaultMaxResults = 3
	defaultRPS        = 1.0
	limiterBurst      = 3
)

// Options configures one retail source adapter.
type Options struct {
	// BaseURL overrides the site's production URL; used by tests.
	BaseURL string
	// Timeout bounds each search request, default 10s.
	Timeout time.Duration
	// UserAgent sent with every request.
	UserAgent string
	// MaxResults caps how many raw candidates are parsed per query.
	MaxResults int
	// RequestsPerSecond throttles requests against the site.
	RequestsPerSecond float64
}

func (o Options) withDefaults(productionURL string) Options {
	if o.BaseURL == "" {
		o.BaseURL = productionURL
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUserAgent
	}
	if o.MaxResults <= 0 {
		o.MaxResults = defaultMaxResults
	}
	if o.RequestsPerSecond <= 0 {
		o.RequestsPerSecond = defaultRPS
	}
	return o
}

// fetcher is the shared HTTP layer of the adapters: a rate-limited,
// timeout-bounded client that fetches a search page and parses it into a
// goquery document.
type fetcher struct {
	client  *resty.Client
	limiter *rate.Limiter
}

func newFetcher(opts Options) *fetcher {
	client := resty.New().
		SetTimeout(opts.Timeout).
		SetHeaders(map[string]string{
			"User-Agent":      opts.UserAgent,
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.5",
		})

	return &fetcher{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), limiterBurst),
	}
}

// document fetches url and parses the response body.
func (f *fetcher) document(ctx context.Context, url string) (*goquery.Document, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("search request failed: status %d", resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("parse search page: %w", err)
	}
	return doc, nil
}
