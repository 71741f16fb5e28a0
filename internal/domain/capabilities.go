package domain

import (
	"context"
	"time"
)

// Detector finds discrete objects in an image. Implementations are expected
// to be safe for concurrent use.
type Detector interface {
	Detect(ctx context.Context, image []byte) ([]Detection, error)
}

// Describer estimates the visual attributes of a cropped object image.
// Callers degrade to a bare detector label when Describe fails; an error
// here never aborts the surrounding request.
type Describer interface {
	Describe(ctx context.Context, crop []byte) (ObjectDescription, error)
}

// RetailSource searches one retail site for product listings. Search fails
// soft: timeouts, parse errors and non-success responses all yield an empty
// slice, never an error. Results are ordered by the source's own relevance.
type RetailSource interface {
	Name() SourceName
	Search(ctx context.Context, query string) []Listing
}

// ResultCache caches terminal pricing outcomes keyed by normalized object
// description.
type ResultCache interface {
	Get(ctx context.Context, key string) (*MatchResult, error)
	Set(ctx context.Context, key string, result MatchResult, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// DescriptionStore persists vision model output keyed by an image hash, so
// re-uploads of the same crop skip the model call.
type DescriptionStore interface {
	Get(imageHash string) (*ObjectDescription, error)
	Put(imageHash string, desc ObjectDescription) error
	Close() error
}
