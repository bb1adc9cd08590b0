package units

import (
	"github.com/shopspring/decimal"
)

// Convert converts a scalar quantity between unit kinds using pieces as the
// pivot. sqmPerPiece and piecesPerCarton are the canonical packaging ratios
// for the product; a zero or negative ratio makes the affected leg an
// identity pass-through rather than an error (division by zero is guarded
// here, never left to the caller).
//
// Results are returned at full precision. Callers settle derived fields to
// 2 decimals via types.Round2, once per field per edit.
func Convert(value decimal.Decimal, from, to Kind, sqmPerPiece, piecesPerCarton decimal.Decimal) decimal.Decimal {
	if from == to {
		return value
	}
	return FromPieces(ToPieces(value, from, sqmPerPiece, piecesPerCarton), to, sqmPerPiece, piecesPerCarton)
}

// ToPieces converts value expressed in from into a pieces-equivalent.
func ToPieces(value decimal.Decimal, from Kind, sqmPerPiece, piecesPerCarton decimal.Decimal) decimal.Decimal {
	switch from {
	case Area:
		if sqmPerPiece.IsPositive() {
			return value.Div(sqmPerPiece)
		}
		return value
	case Carton:
		if piecesPerCarton.IsPositive() {
			return value.Mul(piecesPerCarton)
		}
		return value
	default:
		return value
	}
}

// FromPieces converts a pieces-equivalent into the target unit.
func FromPieces(pieces decimal.Decimal, to Kind, sqmPerPiece, piecesPerCarton decimal.Decimal) decimal.Decimal {
	switch to {
	case Area:
		if sqmPerPiece.IsPositive() {
			return pieces.Mul(sqmPerPiece)
		}
		return pieces
	case Carton:
		if piecesPerCarton.IsPositive() {
			return pieces.Div(piecesPerCarton)
		}
		return pieces
	default:
		return pieces
	}
}
