package packaging

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestParseSqmPerPiece(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain 60x60", "Carrelage gris 60x60", "0.36"},
		{"slash separator", "Faience 33/33 blanc", "0.1089"},
		{"multiplication sign", "Gres 45 × 45", "0.2025"},
		{"uppercase X", "DALLE 60X120 noir", "0.72"},
		{"spaces around separator", "Sol 25 x 40 ivoire", "0.1"},
		{"no dimensions", "Colle carrelage 25kg", "0"},
		{"empty", "", "0"},
		{"fiche overrides match", "Fiche 33x33", "0"},
		{"fiche case-insensitive", "FICHE technique 60x60", "0"},
		{"fiche with leading space", "  fiche 45x45", "0"},
		{"fiche mid-name does not override", "Carrelage fiche 30x30", "0.09"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSqmPerPiece(tt.in)
			if !got.Equal(d(tt.want)) {
				t.Errorf("ParseSqmPerPiece(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name     string
		product  string
		raw      string
		sqm      string
		wantPPC  string
		wantSqm  string
	}{
		// 60x60 carton storing 1.44 m² instead of 4 pieces: the canonical
		// reinterpretation case. 1.44/0.36 = 4 exactly.
		{"area-per-carton reinterpreted", "Carrelage 60x60", "1.44", "0.36", "4", "0.36"},
		// Stored carton area wins over the name-derived per-piece area.
		{"corrected area improves precision", "Gres 33x33", "1.09", "0.1089", "10", "0.109"},
		{"integer raw untouched", "Carrelage 60x60", "4", "0.36", "4", "0.36"},
		{"near-integer within tolerance untouched", "Carrelage 60x60", "4.005", "0.36", "4.005", "0.36"},
		{"zero area passes through", "Colle 25kg", "6", "0", "6", "0"},
		{"zero raw passes through", "Carrelage 60x60", "0", "0.36", "0", "0.36"},
		// 2.5 / 0.36 rounds to 7; 7*0.36 = 2.52, off by 0.02 < 0.05: accepted.
		{"tolerance accepts close fit", "Carrelage 60x60", "2.5", "0.36", "7", "0.3571428571428571"},
		// 1.7 / 0.36 rounds to 5; 5*0.36 = 1.8, off by 0.1 > 0.05: kept raw.
		{"tolerance rejects poor fit", "Carrelage 60x60", "1.7", "0.36", "1.7", "0.36"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ppc, sqm := Normalize(tt.product, d(tt.raw), d(tt.sqm), cfg)
			if !ppc.Equal(d(tt.wantPPC)) {
				t.Errorf("piecesPerCarton = %s, want %s", ppc, tt.wantPPC)
			}
			if !sqm.Equal(d(tt.wantSqm)) {
				t.Errorf("sqmPerPiece = %s, want %s", sqm, tt.wantSqm)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("full packaging data", func(t *testing.T) {
		pkg := Resolve("Carrelage 60x60", d("1.44"), d("36"), cfg)
		if !pkg.PiecesPerCarton.Equal(d("4")) {
			t.Errorf("piecesPerCarton = %s, want 4", pkg.PiecesPerCarton)
		}
		if !pkg.SqmPerPiece.Equal(d("0.36")) {
			t.Errorf("sqmPerPiece = %s, want 0.36", pkg.SqmPerPiece)
		}
		if !pkg.CartonsPerPalette.Equal(d("36")) {
			t.Errorf("cartonsPerPalette = %s, want 36", pkg.CartonsPerPalette)
		}
		if pkg.Estimated {
			t.Error("real data must not be flagged estimated")
		}
	})

	t.Run("missing carton data uses flagged fallback", func(t *testing.T) {
		pkg := Resolve("Carrelage 60x60", decimal.Zero, decimal.Zero, cfg)
		if !pkg.PiecesPerCarton.Equal(d("4")) {
			t.Errorf("piecesPerCarton = %s, want fallback 4", pkg.PiecesPerCarton)
		}
		if !pkg.Estimated {
			t.Error("fallback packaging must be flagged estimated")
		}
	})

	t.Run("fallback is configurable", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.FallbackPiecesPerCarton = d("6")
		pkg := Resolve("Carrelage 30x30", decimal.Zero, decimal.Zero, cfg)
		if !pkg.PiecesPerCarton.Equal(d("6")) {
			t.Errorf("piecesPerCarton = %s, want configured 6", pkg.PiecesPerCarton)
		}
	})

	t.Run("non-tiled product stays inert", func(t *testing.T) {
		pkg := Resolve("Colle carrelage 25kg", decimal.Zero, decimal.Zero, cfg)
		if pkg.PiecesPerCarton.IsPositive() || pkg.SqmPerPiece.IsPositive() {
			t.Errorf("accessory must keep zero ratios, got %+v", pkg)
		}
		if pkg.Estimated {
			t.Error("no fallback without a per-piece area")
		}
	})

	t.Run("sample item is a single unit", func(t *testing.T) {
		pkg := Resolve("Fiche 33x33", d("12"), decimal.Zero, cfg)
		if pkg.SqmPerPiece.IsPositive() {
			t.Errorf("sample must have zero area, got %s", pkg.SqmPerPiece)
		}
	})
}
