package usecase

import (
	"strconv"
	"strings"

	"github.com/snapvalue/backend/internal/domain"
)

// BuildQueries turns an object description into four search queries ordered
// from most to least specific:
//
//  1. name + color + labeled dimensions + material
//  2. name + color + truncated unlabeled dimensions
//  3. name + color
//  4. name only
//
// Absent attributes are omitted rather than rendered blank, so with only a
// name set all four queries collapse to the bare name. Duplicates between
// adjacent tiers are acceptable; the pipeline stops on the first hit anyway.
func BuildQueries(desc domain.ObjectDescription) []string {
	queries := make([]string, 0, 4)

	specific := desc.Name
	if desc.Color != "" {
		specific += " " + desc.Color
	}
	if dims := formatDimensions(desc, false); dims != "" {
		specific += " " + dims
	}
	if desc.Material != "" {
		specific += " " + desc.Material
	}
	queries = append(queries, specific)

	medium := desc.Name
	if desc.Color != "" {
		medium += " " + desc.Color
	}
	if dims := formatDimensions(desc, true); dims != "" {
		medium += " " + dims
	}
	queries = append(queries, medium)

	basic := desc.Name
	if desc.Color != "" {
		basic += " " + desc.Color
	}
	queries = append(queries, basic)

	queries = append(queries, desc.Name)

	return queries
}

// formatDimensions renders the present dimensions of desc as a query
// segment. The detailed form labels each axis (`89.0" height x 45.0" width`);
// the simple form truncates to whole inches and drops the labels (`89" 45"`).
// Returns "" when no dimension is set.
func formatDimensions(desc domain.ObjectDescription, simple bool) string {
	type axis struct {
		value float64
		label string
	}
	axes := []axis{
		{desc.Height, "height"},
		{desc.Width, "width"},
		{desc.Depth, "depth"},
	}

	var parts []string
	for _, a := range axes {
		if a.value <= 0 {
			continue
		}
		if simple {
			parts = append(parts, strconv.Itoa(int(a.value))+`"`)
		} else {
			parts = append(parts, formatInches(a.value)+`" `+a.label)
		}
	}

	if simple {
		return strings.Join(parts, " ")
	}
	return strings.Join(parts, " x ")
}

// formatInches renders a dimension with the minimal number of decimals but
// always at least one (89 -> "89.0", 20.5 -> "20.5"), matching the format
// retail search engines see most often for furniture measurements.
func formatInches(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
