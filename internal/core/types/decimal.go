// Package types provides common numeric types and the rounding policy.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// NewMoney creates a Money value from a float.
// WARNING: Use NewMoneyFromString for precise values.
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// RoundScale is the scale every derived quantity and amount is settled to.
// Quantities and line totals are displayed and stored with 2 decimals.
const RoundScale int32 = 2

// Round2 applies the single rounding policy of the platform: round-half-even
// to 2 decimal places. It is applied exactly once per derived field per edit,
// never on intermediate results, so repeated recalculation does not
// accumulate drift.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(RoundScale)
}

// IsInteger reports whether d is an integer within the given tolerance.
// Packaging ratios frequently arrive as 4.0000001 after upstream float
// round-trips; those are integers for our purposes.
func IsInteger(d, tolerance decimal.Decimal) bool {
	return d.Sub(d.Round(0)).Abs().LessThanOrEqual(tolerance)
}
