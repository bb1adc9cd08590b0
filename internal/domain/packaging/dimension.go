// Package packaging establishes the canonical packaging ratios for a product
// line: per-piece area parsed from the product name and a normalized integer
// pieces-per-carton count. Both are computed once when a product enters a
// line and stay fixed for the line's lifetime.
package packaging

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// dimensionPattern matches tile dimension tokens in product names,
// e.g. "Carrelage 60x60 beige", "33/33", "45 × 45".
var dimensionPattern = regexp.MustCompile(`(?i)(\d+)\s*[x/×]\s*(\d+)`)

// samplePrefix marks sample/technical-sheet items ("fiche"). These are single
// indivisible units even when the name carries a dimension token.
const samplePrefix = "fiche"

// ParseSqmPerPiece extracts the area of one piece in square meters from a
// free-text product name. Dimensions are given in centimeters, so "60x60"
// yields 0.36. Absence of a match is a valid, common outcome (accessories,
// glue, trims) and returns zero; downstream ratios simply become inert.
func ParseSqmPerPiece(name string) decimal.Decimal {
	if IsSample(name) {
		return decimal.Zero
	}

	m := dimensionPattern.FindStringSubmatch(name)
	if m == nil {
		return decimal.Zero
	}

	w, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return decimal.Zero
	}
	h, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return decimal.Zero
	}

	// (w/100) * (h/100), centimeters to meters.
	return decimal.NewFromInt(w).Mul(decimal.NewFromInt(h)).Div(decimal.NewFromInt(10_000))
}

// IsSample reports whether the product name denotes a sample item.
func IsSample(name string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(name)), samplePrefix)
}
