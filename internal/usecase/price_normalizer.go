package usecase

import (
	"regexp"
	"strconv"
	"strings"
)

// Package-level compiled regex patterns for price parsing
var (
	// dollarsCentsRegex matches a well-formed dollars-and-cents price ("$219.99")
	dollarsCentsRegex = regexp.MustCompile(`\$(\d+\.\d+)`)

	// nonPriceCharRegex strips everything that can't be part of a bare number
	nonPriceCharRegex = regexp.MustCompile(`[^\d.]`)

	// setOfRegex matches multi-item listings like "Set of 4 chairs"
	setOfRegex = regexp.MustCompile(`(?i)set of (\d+)`)
)

// concatenatedPriceCeiling is the heuristic cutoff above which a parsed
// price is assumed to be a scraping artifact of duplicated digits
// ("Now$21999Now $219.99") and divided by 10. Heuristic, not validated.
const concatenatedPriceCeiling = 10000

// NormalizePrice parses heterogeneous, often malformed retail price text
// into a single per-item price. nil means the text held no usable number.
//
// Policy, first success wins:
//  1. take the first "$<digits>.<digits>" occurrence in the raw text;
//  2. otherwise strip currency symbols and all non-numeric characters and
//     parse what remains;
//  3. a parsed value above 10,000 is divided by 10 (concatenated-digit
//     scraping artifact);
//  4. a "set of N" (N > 1) in the item description divides the price down
//     to a per-item figure.
func NormalizePrice(rawPrice, itemDescription string) *float64 {
	var price float64

	if m := dollarsCentsRegex.FindStringSubmatch(rawPrice); m != nil {
		p, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return nil
		}
		price = p
	} else {
		cleaned := strings.NewReplacer("$", "", ",", "").Replace(rawPrice)
		cleaned = nonPriceCharRegex.ReplaceAllString(cleaned, "")
		p, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return nil
		}
		price = p
	}

	if price > concatenatedPriceCeiling {
		price /= 10
	}

	if n := setSize(itemDescription); n > 1 {
		price /= float64(n)
	}

	return &price
}

// setSize extracts N from a "set of N" phrase in the listing title, or 0.
func setSize(itemDescription string) int {
	m := setOfRegex.FindStringSubmatch(itemDescription)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}
