// Package pricing resolves the unit price for a product/customer pair
// through an ordered waterfall of price sources and tags the result with
// its provenance.
package pricing

import (
	"github.com/shopspring/decimal"

	"tilepos/internal/core/id"
)

// Source is the provenance tag explaining why a unit price was chosen.
// It is assigned when a line is created or its product/customer context
// changes, and is never mutated by quantity edits.
type Source string

const (
	SourceHistory         Source = "HISTORY"
	SourceCustom          Source = "CUSTOM"
	SourceContract        Source = "CONTRACT"
	SourcePriceList       Source = "PRICELIST"
	SourceMarginRetail    Source = "MARGIN_RETAIL"
	SourceMarginWholesale Source = "MARGIN_WHOLESALE"
	SourceBase            Source = "BASE"
	SourceManual          Source = "MANUAL"
	SourceNotFound        Source = "NOT_FOUND"
)

// Channel is the sales channel a customer buys through.
type Channel string

const (
	ChannelRetail    Channel = "retail"
	ChannelWholesale Channel = "wholesale"
)

// Valid reports whether c is a known channel.
func (c Channel) Valid() bool {
	return c == ChannelRetail || c == ChannelWholesale
}

// MarginType selects how a margin is applied to purchase cost.
type MarginType string

const (
	MarginPercent MarginType = "PERCENT"
	MarginAmount  MarginType = "AMOUNT"
)

// MarginSetting is a per-channel markup, owned by external configuration
// and fetched once per session.
type MarginSetting struct {
	Value decimal.Decimal `json:"value"`
	Type  MarginType      `json:"type"`
}

// Settings holds the margin configuration for both channels. A missing
// channel entry means no margin is configured for it.
type Settings struct {
	Margins map[Channel]MarginSetting
}

// Margin returns the margin for a channel, if configured.
func (s Settings) Margin(c Channel) (MarginSetting, bool) {
	m, ok := s.Margins[c]
	return m, ok
}

// Product carries the pricing-relevant fields of a product.
type Product struct {
	ID id.ID

	// PurchasePrice is the product's purchase cost; zero when unknown.
	PurchasePrice decimal.Decimal

	// BasePrice is the listed sale price. Null means the product has no
	// listed price at all; a valid zero is a suspicious but legal outcome.
	BasePrice decimal.NullDecimal
}

// Customer carries the pricing-relevant fields of a customer.
type Customer struct {
	ID      id.ID
	Channel Channel
	Tier    string
}

// Resolution is the outcome of the waterfall.
type Resolution struct {
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Source    Source          `json:"priceSource"`
}
