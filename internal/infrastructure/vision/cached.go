package vision

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/rs/zerolog"
	"github.com/snapvalue/backend/internal/domain"
)

// CachedDescriber wraps a Describer with a persistent description store:
// identical crops (by content hash) skip the model call entirely. Store
// failures are logged and ignored; the wrapper never makes a request fail
// that the inner describer would have served.
type CachedDescriber struct {
	inner  domain.Describer
	store  domain.DescriptionStore
	logger zerolog.Logger
}

// NewCachedDescriber creates a cached describer.
func NewCachedDescriber(inner domain.Describer, store domain.DescriptionStore, logger zerolog.Logger) *CachedDescriber {
	return &CachedDescriber{
		inner:  inner,
		store:  store,
		logger: logger.With().Str("component", "vision-cache").Logger(),
	}
}

// Describe implements domain.Describer with read-through caching.
func (c *CachedDescriber) Describe(ctx context.Context, crop []byte) (domain.ObjectDescription, error) {
	hash := hashImage(crop)

	if cached, err := c.store.Get(hash); err != nil {
		c.logger.Warn().Err(err).Msg("failed to check vision cache")
	} else if cached != nil {
		c.logger.Debug().Str("hash", hash[:16]).Msg("vision cache hit")
		return *cached, nil
	}

	desc, err := c.inner.Describe(ctx, crop)
	if err != nil {
		return domain.ObjectDescription{}, err
	}

	if err := c.store.Put(hash, desc); err != nil {
		c.logger.Warn().Err(err).Msg("failed to cache vision result")
	}
	return desc, nil
}

func hashImage(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
