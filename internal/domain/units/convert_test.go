package units

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

func TestConvert(t *testing.T) {
	sqm := d("0.36") // 60x60 tile
	ppc := d("4")

	tests := []struct {
		name     string
		value    string
		from, to Kind
		want     string
	}{
		{"identity", "7.5", Area, Area, "7.5"},
		{"area to pieces", "1.44", Area, Piece, "4"},
		{"pieces to area", "4", Piece, Area, "1.44"},
		{"cartons to pieces", "2", Carton, Piece, "8"},
		{"pieces to cartons", "8", Piece, Carton, "2"},
		{"area to cartons", "2.88", Area, Carton, "2"},
		{"cartons to area", "2", Carton, Area, "2.88"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Convert(d(tt.value), tt.from, tt.to, sqm, ppc)
			if !got.Equal(d(tt.want)) {
				t.Errorf("Convert(%s, %s->%s) = %s, want %s", tt.value, tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestConvert_ZeroRatiosDegradeToIdentity(t *testing.T) {
	tests := []struct {
		name     string
		from, to Kind
		sqm, ppc string
	}{
		{"no area, area to piece", Area, Piece, "0", "4"},
		{"no area, piece to area", Piece, Area, "0", "4"},
		{"no cartons, carton to piece", Carton, Piece, "0.36", "0"},
		{"no cartons, piece to carton", Piece, Carton, "0.36", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Convert(d("5"), tt.from, tt.to, d(tt.sqm), d(tt.ppc))
			if !got.Equal(d("5")) {
				t.Errorf("degenerate leg must pass through: got %s, want 5", got)
			}
		})
	}
}

// Round-trip law: converting there and back recovers the value within
// 2-decimal tolerance for any unit pair and positive ratios.
func TestConvert_RoundTrip(t *testing.T) {
	kinds := []Kind{Piece, Area, Carton}
	ratios := []struct{ sqm, ppc string }{
		{"0.36", "4"},
		{"1.08", "3"},
		{"0.1089", "12"}, // 33x33
		{"0.25", "7"},
	}
	values := []string{"0", "1", "2.5", "72", "103.68", "1000"}

	tol := d("0.01")
	for _, r := range ratios {
		for _, from := range kinds {
			for _, to := range kinds {
				for _, v := range values {
					fwd := Convert(d(v), from, to, d(r.sqm), d(r.ppc))
					back := Convert(fwd, to, from, d(r.sqm), d(r.ppc))
					if back.Sub(d(v)).Abs().GreaterThan(tol) {
						t.Errorf("round trip %s->%s->%s of %s (sqm=%s ppc=%s): got %s",
							from, to, from, v, r.sqm, r.ppc, back)
					}
				}
			}
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"SQM", Area, false},
		{"m2", Area, false},
		{"pcs", Piece, false},
		{" PC ", Piece, false},
		{"CRT", Carton, false},
		{"box", Carton, false},
		{"CARTON", Carton, false},
		{"pallets", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := Parse(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Parse(%q): expected error, got %s", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q): unexpected error %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
