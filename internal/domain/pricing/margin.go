package pricing

import (
	"github.com/shopspring/decimal"

	"tilepos/internal/core/types"
)

var hundred = decimal.NewFromInt(100)

// ApplyMargin computes a margin-adjusted sale price from a purchase cost.
// AMOUNT margins add a fixed markup; PERCENT margins scale the cost.
// The result is settled to 2 decimals.
func ApplyMargin(purchasePrice decimal.Decimal, m MarginSetting) decimal.Decimal {
	switch m.Type {
	case MarginAmount:
		return types.Round2(purchasePrice.Add(m.Value))
	case MarginPercent:
		return types.Round2(purchasePrice.Mul(hundred.Add(m.Value)).Div(hundred))
	default:
		return types.Round2(purchasePrice)
	}
}

// marginSource maps a channel to its provenance tag.
func marginSource(c Channel) Source {
	if c == ChannelWholesale {
		return SourceMarginWholesale
	}
	return SourceMarginRetail
}
