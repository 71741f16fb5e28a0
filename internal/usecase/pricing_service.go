package usecase

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/snapvalue/backend/internal/domain"
)

const fallbackSearchURL = "https://www.google.com/search?q="

// Package-level compiled regex for cache key normalization
var nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9\s]`)

// PricingServiceConfig holds configuration for the pricing service
type PricingServiceConfig struct {
	CacheTTL time.Duration
}

// PricingService locates the most plausible retail listing for a described
// object and attaches a normalized price to it. Sources are tried in the
// order given at construction; that order is the source priority.
type PricingService struct {
	sources  []domain.RetailSource
	cache    domain.ResultCache
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// NewPricingService creates a pricing service. cache may be nil to disable
// result caching.
func NewPricingService(
	sources []domain.RetailSource,
	cache domain.ResultCache,
	config PricingServiceConfig,
	logger zerolog.Logger,
) *PricingService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}

	return &PricingService{
		sources:  sources,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger.With().Str("component", "pricing").Logger(),
	}
}

// PriceObject runs the fallback ladder for one object description: each
// query from most to least specific, each source in priority order, first
// listing wins. The walk is strictly sequential — the ladder order is the
// semantics. When every (query, source) pair comes back empty the terminal
// exhaustion result is returned; that is a normal outcome, not an error.
func (s *PricingService) PriceObject(ctx context.Context, desc domain.ObjectDescription) domain.MatchResult {
	if desc.Name == "" {
		return exhaustedResult(desc)
	}

	cacheKey := pricingCacheKey(desc)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil && cached != nil {
			s.logger.Debug().Str("name", desc.Name).Msg("pricing cache hit")
			return *cached
		}
	}

	for _, query := range BuildQueries(desc) {
		for _, source := range s.sources {
			if err := ctx.Err(); err != nil {
				s.logger.Warn().Err(err).Str("name", desc.Name).Msg("pricing search cancelled mid-ladder")
				return cancelledResult(desc)
			}

			listings := source.Search(ctx, query)
			if len(listings) == 0 {
				continue
			}

			result := s.buildResult(desc, listings[0], query)
			if s.cache != nil {
				if err := s.cache.Set(ctx, cacheKey, result, s.cacheTTL); err != nil {
					s.logger.Warn().Err(err).Msg("failed to cache pricing result")
				}
			}
			return result
		}
	}

	s.logger.Info().Str("name", desc.Name).Msg("no listings found after all search strategies")
	return exhaustedResult(desc)
}

// buildResult scores and price-normalizes the winning listing.
func (s *PricingService) buildResult(desc domain.ObjectDescription, listing domain.Listing, query string) domain.MatchResult {
	quality := ScoreMatch(desc, listing)
	price := NormalizePrice(listing.RawPrice, listing.Name)

	s.logger.Info().
		Str("name", desc.Name).
		Str("listing", listing.Name).
		Str("source", string(listing.Source)).
		Str("quality", string(quality)).
		Msg("listing matched")

	return domain.MatchResult{
		Name:    listing.Name,
		Price:   price,
		Link:    listing.URL,
		Source:  listing.Source,
		Quality: quality,
		Notes:   fmt.Sprintf("Found on %s using query: '%s'", listing.Source, query),
	}
}

// exhaustedResult is the terminal state after all queries and sources came
// back empty: no price, unknown quality, and a generic web search link over
// the bare object name so the caller still has somewhere to point a user.
func exhaustedResult(desc domain.ObjectDescription) domain.MatchResult {
	return domain.MatchResult{
		Name:    desc.Name,
		Price:   nil,
		Link:    fallbackSearchURL + url.QueryEscape(desc.Name),
		Quality: domain.QualityUnknown,
		Notes:   "Could not find product information after trying multiple search strategies",
	}
}

// cancelledResult is the terminal state for a search cut short by context
// cancellation. Same shape as exhaustion, but the notes do not claim every
// strategy was tried.
func cancelledResult(desc domain.ObjectDescription) domain.MatchResult {
	result := exhaustedResult(desc)
	result.Notes = "Search cancelled before all strategies were tried"
	return result
}

// pricingCacheKey normalizes the attributes that influence the search into a
// stable cache key. Dimensions are excluded on purpose: they vary between
// model runs on the same object far more than name, color and material do.
func pricingCacheKey(desc domain.ObjectDescription) string {
	return fmt.Sprintf("price:%s:%s:%s",
		normalizeForCacheKey(desc.Name),
		normalizeForCacheKey(desc.Color),
		normalizeForCacheKey(desc.Material),
	)
}

// normalizeForCacheKey lowercases and strips special characters from a cache
// key component.
func normalizeForCacheKey(s string) string {
	if s == "" {
		return ""
	}
	result := nonAlphanumericRegex.ReplaceAllString(strings.ToLower(s), "")
	return strings.TrimSpace(result)
}
