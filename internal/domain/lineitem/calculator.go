package lineitem

import (
	"github.com/shopspring/decimal"

	"tilepos/internal/core/types"
	"tilepos/internal/domain/units"
)

// Field names the single edit source of an update. Exactly one field drives
// each transition; the other three are derived from it deterministically,
// never from each other, so rounding error cannot compound.
type Field string

const (
	FieldPallets  Field = "pallets"
	FieldCartons  Field = "cartons"
	FieldQuantity Field = "quantity"
	FieldUnit     Field = "unit"
)

// Edit is one user edit. Value carries the number for the numeric fields,
// Unit carries the new unit for FieldUnit.
//
// Precondition: Value is finite and >= 0. The UI layer validates input
// before it reaches the calculator; the calculator itself never rejects.
type Edit struct {
	Field Field           `json:"field"`
	Value decimal.Decimal `json:"value"`
	Unit  units.Kind      `json:"unit,omitempty"`
}

// ApplyEdit returns a new, fully consistent snapshot with the edit applied.
// The input is never mutated. Every derived field is settled to 2 decimals
// exactly once, and the line total is recomputed unconditionally.
func ApplyEdit(item LineItem, edit Edit) LineItem {
	switch edit.Field {
	case FieldPallets:
		item = editPallets(item, edit.Value)
	case FieldCartons:
		item = editCartons(item, edit.Value)
	case FieldQuantity:
		item = editQuantity(item, edit.Value)
	case FieldUnit:
		item = editUnit(item, edit.Unit)
	}

	item.LineTotal = types.Round2(item.Quantity.Mul(item.UnitPrice))
	return item
}

// editQuantity derives cartons and pallets from a quantity in the current
// unit. With unknown carton packaging the carton/pallet columns are simply
// not meaningful and read zero.
func editQuantity(item LineItem, value decimal.Decimal) LineItem {
	item.Quantity = types.Round2(value)

	pkg := item.Packaging
	if pkg.PiecesPerCarton.IsPositive() {
		pieces := units.ToPieces(item.Quantity, item.Unit, pkg.SqmPerPiece, pkg.PiecesPerCarton)
		item.Cartons = types.Round2(pieces.Div(pkg.PiecesPerCarton))
	} else {
		item.Cartons = decimal.Zero
	}

	item.Pallets = palletsFromCartons(item.Cartons, pkg.CartonsPerPalette)
	return item
}

// editCartons derives the quantity and pallets from a carton count.
func editCartons(item LineItem, value decimal.Decimal) LineItem {
	item.Cartons = types.Round2(value)

	pkg := item.Packaging
	switch {
	case item.Unit == units.Carton:
		// The selected unit is cartons itself: no pivot, no rounding drift.
		item.Quantity = item.Cartons
	case pkg.PiecesPerCarton.IsPositive():
		pieces := item.Cartons.Mul(pkg.PiecesPerCarton)
		item.Quantity = types.Round2(units.FromPieces(pieces, item.Unit, pkg.SqmPerPiece, pkg.PiecesPerCarton))
	default:
		// Unknown carton packaging: deriving would zero a quantity the user
		// did not intend to clear, so it retains its prior value.
	}

	item.Pallets = palletsFromCartons(item.Cartons, pkg.CartonsPerPalette)
	return item
}

// editPallets converts pallets to cartons and cascades as a carton edit.
func editPallets(item LineItem, value decimal.Decimal) LineItem {
	pallets := types.Round2(value)

	if !item.Packaging.CartonsPerPalette.IsPositive() {
		// No pallet packaging defined: accept the entry, leave the rest.
		item.Pallets = pallets
		return item
	}

	item = editCartons(item, pallets.Mul(item.Packaging.CartonsPerPalette))
	// The user's pallet figure is the edit source; keep it exact rather than
	// re-derived.
	item.Pallets = pallets
	return item
}

// editUnit converts the quantity into the new unit and re-derives cartons
// and pallets from it. The unit price is a per-selected-unit value entered
// or resolved upstream; it is preserved, not re-scaled.
func editUnit(item LineItem, newUnit units.Kind) LineItem {
	if !newUnit.Valid() || newUnit == item.Unit {
		return item
	}

	pkg := item.Packaging
	converted := units.Convert(item.Quantity, item.Unit, newUnit, pkg.SqmPerPiece, pkg.PiecesPerCarton)
	item.Unit = newUnit
	return editQuantity(item, converted)
}

func palletsFromCartons(cartons, cartonsPerPalette decimal.Decimal) decimal.Decimal {
	if !cartonsPerPalette.IsPositive() {
		return decimal.Zero
	}
	return types.Round2(cartons.Div(cartonsPerPalette))
}
