// Package units defines the closed set of sale units for tiled products and
// conversion between them. Pieces are the pivot: every conversion goes
// value -> pieces -> target, never directly between area and cartons, so
// rounding error cannot compound across legs.
package units

import (
	"strings"

	"tilepos/internal/core/apperror"
)

// Kind is a sale/purchase unit for a line item.
type Kind string

const (
	// Piece is the smallest sellable unit (one tile).
	Piece Kind = "PIECE"

	// Area is total piece area in square meters.
	Area Kind = "AREA"

	// Carton is a packaging box holding a fixed number of pieces. It also
	// approximates a generic "box" unit for products without known piece
	// packaging.
	Carton Kind = "CARTON"
)

// Valid reports whether k is a member of the closed enumeration.
func (k Kind) Valid() bool {
	switch k {
	case Piece, Area, Carton:
		return true
	}
	return false
}

// Parse normalizes the free-form unit codes that arrive from legacy screens
// and documents into the closed enumeration. This is the single alias
// boundary; nothing past it compares unit strings.
func Parse(s string) (Kind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PIECE", "PIECES", "PCS", "PC", "U":
		return Piece, nil
	case "AREA", "SQM", "M2", "M²":
		return Area, nil
	case "CARTON", "CARTONS", "CRT", "CTN", "BOX":
		return Carton, nil
	}
	return "", apperror.NewInvalidInput("unknown unit code").
		WithDetail("unit", s)
}
