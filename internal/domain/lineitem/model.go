// Package lineitem keeps the four interdependent quantity representations of
// a sale/purchase line (pallets, cartons, quantity in the selected unit, and
// the unit itself) mutually consistent as any one of them is edited.
package lineitem

import (
	"github.com/shopspring/decimal"

	"tilepos/internal/core/id"
	"tilepos/internal/core/types"
	"tilepos/internal/domain/packaging"
	"tilepos/internal/domain/pricing"
	"tilepos/internal/domain/units"
)

// LineItem is one settled line snapshot. Mutation functions take a snapshot
// plus one edit and return a new snapshot; a LineItem is never modified in
// place. At every settled state pallets and cartons agree with the
// quantity/unit pair to 2 decimal places.
type LineItem struct {
	ID        id.ID `json:"id"`
	ProductID id.ID `json:"productId"`

	// Display fields, opaque to the calculator.
	Code  string `json:"code"`
	Name  string `json:"name"`
	Brand string `json:"brand,omitempty"`

	// Packaging ratios, established once when the product enters the line.
	Packaging packaging.Packaging `json:"packaging"`

	Pallets  decimal.Decimal `json:"pallets"`
	Cartons  decimal.Decimal `json:"cartons"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     units.Kind      `json:"unit"`

	UnitPrice   types.Money    `json:"unitPrice"`
	PriceSource pricing.Source `json:"priceSource"`

	// LineTotal is always quantity * unitPrice, recomputed on every edit.
	LineTotal types.Money `json:"lineTotal"`

	// Manual marks free-text lines that never went through product lookup.
	Manual bool `json:"manual"`
}

// DefaultUnit is the seeding policy: tiled products sell by area, everything
// else by piece.
func DefaultUnit(pkg packaging.Packaging) units.Kind {
	if pkg.HasArea() {
		return units.Area
	}
	return units.Piece
}

// New seeds a line for a product: quantity 1 in the policy-selected default
// unit, cartons and pallets derived, price not yet resolved.
func New(productID id.ID, code, name, brand string, pkg packaging.Packaging) LineItem {
	item := LineItem{
		ID:          id.New(),
		ProductID:   productID,
		Code:        code,
		Name:        name,
		Brand:       brand,
		Packaging:   pkg,
		Unit:        DefaultUnit(pkg),
		PriceSource: pricing.SourceNotFound,
	}
	return ApplyEdit(item, Edit{Field: FieldQuantity, Value: decimal.NewFromInt(1)})
}

// NewManual seeds a free-text line: no product, no packaging, operator-typed
// price, tagged MANUAL.
func NewManual(name string, quantity decimal.Decimal, unit units.Kind, unitPrice types.Money) LineItem {
	item := LineItem{
		ID:          id.New(),
		Name:        name,
		Unit:        unit,
		UnitPrice:   unitPrice,
		PriceSource: pricing.SourceManual,
		Manual:      true,
	}
	return ApplyEdit(item, Edit{Field: FieldQuantity, Value: quantity})
}

// WithPrice returns a copy with the resolved price applied and the total
// recomputed. The provenance tag is set here and only here; quantity edits
// never touch it.
func (li LineItem) WithPrice(res pricing.Resolution) LineItem {
	li.UnitPrice = res.UnitPrice
	li.PriceSource = res.Source
	li.LineTotal = types.Round2(li.Quantity.Mul(li.UnitPrice))
	return li
}
