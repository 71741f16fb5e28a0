package usecase

import (
	"strings"

	"github.com/snapvalue/backend/internal/domain"
)

// Match percentage thresholds for the qualitative ratings.
const (
	highMatchThreshold   = 75.0
	mediumMatchThreshold = 50.0
)

// ScoreMatch rates how plausibly a listing corresponds to the described
// object, using case-insensitive substring and token comparison against the
// listing title. It returns high, medium or low — never unknown, which is
// reserved for "no listing was ever found".
//
// Scoring: the full name as a substring of the listing title is worth 2
// points, any single name token 1 point; color and material each add 1 point
// when present in the description and found in the title. The denominator is
// the criterion count plus one, so a single-criterion match can never reach
// 100%.
func ScoreMatch(desc domain.ObjectDescription, listing domain.Listing) domain.MatchQuality {
	name := strings.ToLower(desc.Name)
	color := strings.ToLower(desc.Color)
	material := strings.ToLower(desc.Material)
	listingName := strings.ToLower(listing.Name)

	score := 0
	criteria := 1 // name is always a criterion

	if name != "" && strings.Contains(listingName, name) {
		score += 2
	} else if anyTokenIn(name, listingName) {
		score++
	}

	if color != "" {
		criteria++
		if strings.Contains(listingName, color) {
			score++
		}
	}

	if material != "" {
		criteria++
		if strings.Contains(listingName, material) {
			score++
		}
	}

	percentage := float64(score) / float64(criteria+1) * 100

	switch {
	case percentage >= highMatchThreshold:
		return domain.QualityHigh
	case percentage >= mediumMatchThreshold:
		return domain.QualityMedium
	default:
		return domain.QualityLow
	}
}

// anyTokenIn reports whether any whitespace-delimited token of s occurs in
// target.
func anyTokenIn(s, target string) bool {
	for _, token := range strings.Fields(s) {
		if strings.Contains(target, token) {
			return true
		}
	}
	return false
}
