package domain

// ObjectDescription holds the estimated visual attributes of one detected
// physical object. Name is always set; every other field is optional and a
// zero value means "unknown". Dimensions are in inches.
type ObjectDescription struct {
	Name     string  `json:"name"`
	Color    string  `json:"color,omitempty"`
	Height   float64 `json:"height,omitempty"`
	Width    float64 `json:"width,omitempty"`
	Depth    float64 `json:"depth,omitempty"`
	Material string  `json:"material,omitempty"`
}

// SourceName identifies a retail source.
type SourceName string

const (
	SourceWalmart SourceName = "Walmart"
	SourceTarget  SourceName = "Target"
)

// Listing is one product candidate returned by a retail source for a single
// query. Listings are ephemeral: scored, normalized and discarded.
type Listing struct {
	Name     string     `json:"name"`
	RawPrice string     `json:"price"`
	URL      string     `json:"link"`
	Source   SourceName `json:"source"`
}

// MatchQuality is the qualitative confidence that a listing corresponds to
// the described object. Unknown is reserved for "no listing was ever found".
type MatchQuality string

const (
	QualityHigh    MatchQuality = "high"
	QualityMedium  MatchQuality = "medium"
	QualityLow     MatchQuality = "low"
	QualityUnknown MatchQuality = "unknown"
)

// MatchResult is the terminal pricing outcome for one object. Price is nil
// when the listing's price text could not be parsed, or when no listing was
// found at all; in the latter case Quality is QualityUnknown and Link falls
// back to a generic web search over the object name.
type MatchResult struct {
	Name    string       `json:"name"`
	Price   *float64     `json:"price"`
	Link    string       `json:"link"`
	Source  SourceName   `json:"source,omitempty"`
	Quality MatchQuality `json:"matchQuality"`
	Notes   string       `json:"notes,omitempty"`
}

// Found reports whether any listing was located for the object.
func (r MatchResult) Found() bool {
	return r.Quality != QualityUnknown
}
