// Package cart holds the session-scoped line-item state the calculator and
// resolver operate on, and orchestrates the two against the catalogs.
package cart

import (
	"time"

	"github.com/shopspring/decimal"

	"tilepos/internal/core/id"
	"tilepos/internal/core/types"
	"tilepos/internal/domain/lineitem"
	"tilepos/internal/domain/units"
)

// Cart is one POS cart (or order draft). Lines are settled snapshots;
// every edit replaces a line wholesale.
type Cart struct {
	ID         id.ID               `json:"id"`
	CustomerID *id.ID              `json:"customerId,omitempty"`
	Lines      []lineitem.LineItem `json:"lines"`
	CreatedAt  time.Time           `json:"createdAt"`
}

// Totals are the cart-level aggregates: a pure reduction over lines.
type Totals struct {
	Pallets decimal.Decimal `json:"pallets"`
	Cartons decimal.Decimal `json:"cartons"`
	Pieces  decimal.Decimal `json:"pieces"`
	Area    decimal.Decimal `json:"area"`
	Amount  types.Money     `json:"amount"`
	Lines   int             `json:"lines"`
}

// Reduce computes cart aggregates from settled lines. Piece and area
// equivalents are converted per line and settled to 2 decimals per line,
// then summed, so per-line figures always reconcile with the cart totals.
func Reduce(lines []lineitem.LineItem) Totals {
	t := Totals{
		Pallets: decimal.Zero,
		Cartons: decimal.Zero,
		Pieces:  decimal.Zero,
		Area:    decimal.Zero,
		Amount:  decimal.Zero,
		Lines:   len(lines),
	}

	for _, li := range lines {
		t.Pallets = t.Pallets.Add(li.Pallets)
		t.Cartons = t.Cartons.Add(li.Cartons)
		t.Amount = t.Amount.Add(li.LineTotal)

		pkg := li.Packaging
		pieces := units.ToPieces(li.Quantity, li.Unit, pkg.SqmPerPiece, pkg.PiecesPerCarton)
		t.Pieces = t.Pieces.Add(types.Round2(pieces))
		if pkg.HasArea() {
			t.Area = t.Area.Add(types.Round2(pieces.Mul(pkg.SqmPerPiece)))
		}
	}

	return t
}
