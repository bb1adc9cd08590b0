package packaging

import (
	"github.com/shopspring/decimal"

	"tilepos/internal/core/types"
)

// Config tunes normalization tolerances and the missing-data fallback.
type Config struct {
	// IntegerTolerance below which a raw pieces-per-carton value counts as
	// already being an integer piece count.
	IntegerTolerance decimal.Decimal

	// ReinterpretTolerance for accepting the area-per-carton reinterpretation:
	// |candidate * sqmPerPiece - raw| must stay under it.
	ReinterpretTolerance decimal.Decimal

	// FallbackPiecesPerCarton is the business default applied when packaging
	// data is entirely missing for a tiled product. Lines built on it carry
	// Estimated=true so callers can flag them apart from real data.
	FallbackPiecesPerCarton decimal.Decimal
}

// DefaultConfig returns the tolerances observed in production data and the
// conventional 4-pieces-per-carton default.
func DefaultConfig() Config {
	return Config{
		IntegerTolerance:        decimal.NewFromFloat(0.01),
		ReinterpretTolerance:    decimal.NewFromFloat(0.05),
		FallbackPiecesPerCarton: decimal.NewFromInt(4),
	}
}

// Packaging holds the canonical, normalized ratios for one product.
type Packaging struct {
	// SqmPerPiece is the area of one piece in m²; zero for non-tiled products.
	SqmPerPiece decimal.Decimal `json:"sqmPerPiece"`

	// PiecesPerCarton is always a piece count, never an area, once normalized.
	PiecesPerCarton decimal.Decimal `json:"piecesPerCarton"`

	// CartonsPerPalette is zero when the product has no pallet packaging.
	CartonsPerPalette decimal.Decimal `json:"cartonsPerPalette"`

	// Estimated marks ratios derived from the fallback default rather than
	// from product data.
	Estimated bool `json:"estimated"`
}

// HasArea reports whether the product sells by area.
func (p Packaging) HasArea() bool {
	return p.SqmPerPiece.IsPositive()
}

// HasPallet reports whether pallet packaging is defined.
func (p Packaging) HasPallet() bool {
	return p.CartonsPerPalette.IsPositive()
}

// Normalize resolves the overloaded pieces-per-carton field. Legacy records
// sometimes store the carton's total area (e.g. 1.44) in the field meant for
// its piece count (e.g. 4); the two are numerically close for common tile
// sizes, so the defect went unnoticed upstream.
//
// A raw value that is non-integer while a per-piece area is known is tested
// as an area-per-carton: candidate = round(raw / sqmPerPiece). If candidate
// pieces of sqmPerPiece land within tolerance of the raw value the
// reinterpretation is accepted, and the corrected per-piece area raw/candidate
// is returned; the stored carton area is authoritative over the name-derived
// one when the reinterpretation succeeds. If the check fails the raw value is
// kept as a genuine non-integer packaging convention.
func Normalize(name string, rawPiecesPerCarton, sqmPerPiece decimal.Decimal, cfg Config) (piecesPerCarton, correctedSqmPerPiece decimal.Decimal) {
	if IsSample(name) {
		// Sample items are single units; nothing to reinterpret.
		return rawPiecesPerCarton, decimal.Zero
	}

	if !sqmPerPiece.IsPositive() || !rawPiecesPerCarton.IsPositive() {
		return rawPiecesPerCarton, sqmPerPiece
	}
	if types.IsInteger(rawPiecesPerCarton, cfg.IntegerTolerance) {
		return rawPiecesPerCarton, sqmPerPiece
	}

	candidate := rawPiecesPerCarton.Div(sqmPerPiece).Round(0)
	if !candidate.IsPositive() {
		return rawPiecesPerCarton, sqmPerPiece
	}

	diff := candidate.Mul(sqmPerPiece).Sub(rawPiecesPerCarton).Abs()
	if diff.LessThan(cfg.ReinterpretTolerance) {
		return candidate, rawPiecesPerCarton.Div(candidate)
	}

	return rawPiecesPerCarton, sqmPerPiece
}

// Resolve establishes the canonical packaging for a product: parse the name,
// normalize the raw carton field, and apply the configured fallback when a
// tiled product has no carton data at all.
func Resolve(name string, rawPiecesPerCarton, cartonsPerPalette decimal.Decimal, cfg Config) Packaging {
	sqm := ParseSqmPerPiece(name)
	pieces, sqm := Normalize(name, rawPiecesPerCarton, sqm, cfg)

	pkg := Packaging{
		SqmPerPiece:       sqm,
		PiecesPerCarton:   pieces,
		CartonsPerPalette: cartonsPerPalette,
	}

	if !pkg.PiecesPerCarton.IsPositive() && pkg.SqmPerPiece.IsPositive() {
		// Heuristic default, not a derived fact; flagged for the caller.
		pkg.PiecesPerCarton = cfg.FallbackPiecesPerCarton
		pkg.Estimated = true
	}

	return pkg
}
