package lineitem

import (
	"testing"

	"github.com/shopspring/decimal"

	"tilepos/internal/core/id"
	"tilepos/internal/domain/packaging"
	"tilepos/internal/domain/pricing"
	"tilepos/internal/domain/units"
)

func resolution(price string, src pricing.Source) pricing.Resolution {
	return pricing.Resolution{UnitPrice: d(price), Source: src}
}

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// tile60 is a 60x60 tile: 0.36 m² per piece, 4 pieces per carton,
// 36 cartons per pallet.
func tile60() packaging.Packaging {
	return packaging.Packaging{
		SqmPerPiece:       d("0.36"),
		PiecesPerCarton:   d("4"),
		CartonsPerPalette: d("36"),
	}
}

func tile60Line(unit units.Kind) LineItem {
	item := New(id.New(), "T6060", "Carrelage 60x60", "Cersanit", tile60())
	return ApplyEdit(item, Edit{Field: FieldUnit, Unit: unit})
}

func assertEq(t *testing.T, field string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(d(want)) {
		t.Errorf("%s = %s, want %s", field, got, want)
	}
}

func TestNew_SeedsConsistentLine(t *testing.T) {
	item := New(id.New(), "T6060", "Carrelage 60x60", "", tile60())

	if item.Unit != units.Area {
		t.Fatalf("default unit for tiled product = %s, want AREA", item.Unit)
	}
	assertEq(t, "quantity", item.Quantity, "1")
	// 1 m² = 2.78 pieces = 0.69 cartons.
	assertEq(t, "cartons", item.Cartons, "0.69")
	assertEq(t, "pallets", item.Pallets, "0.02")
}

func TestNew_NonTiledDefaultsToPiece(t *testing.T) {
	item := New(id.New(), "GLU25", "Colle carrelage 25kg", "", packaging.Packaging{})
	if item.Unit != units.Piece {
		t.Fatalf("default unit = %s, want PIECE", item.Unit)
	}
}

func TestApplyEdit_Quantity(t *testing.T) {
	item := tile60Line(units.Area)
	item.UnitPrice = d("85")

	got := ApplyEdit(item, Edit{Field: FieldQuantity, Value: d("103.68")})

	assertEq(t, "quantity", got.Quantity, "103.68")
	assertEq(t, "cartons", got.Cartons, "72") // 103.68/0.36/4
	assertEq(t, "pallets", got.Pallets, "2")
	assertEq(t, "lineTotal", got.LineTotal, "8812.8")
}

func TestApplyEdit_Cartons(t *testing.T) {
	item := tile60Line(units.Area)

	got := ApplyEdit(item, Edit{Field: FieldCartons, Value: d("72")})

	assertEq(t, "cartons", got.Cartons, "72")
	assertEq(t, "quantity", got.Quantity, "103.68") // 72*4*0.36
	assertEq(t, "pallets", got.Pallets, "2")
}

func TestApplyEdit_Pallets(t *testing.T) {
	item := tile60Line(units.Area)

	got := ApplyEdit(item, Edit{Field: FieldPallets, Value: d("2")})

	assertEq(t, "pallets", got.Pallets, "2")
	assertEq(t, "cartons", got.Cartons, "72")
	assertEq(t, "quantity", got.Quantity, "103.68")
}

func TestApplyEdit_CartonsWhenUnitIsCarton(t *testing.T) {
	item := tile60Line(units.Carton)

	got := ApplyEdit(item, Edit{Field: FieldCartons, Value: d("7")})

	// Carton unit: quantity mirrors cartons directly, no pivot.
	assertEq(t, "quantity", got.Quantity, "7")
	assertEq(t, "cartons", got.Cartons, "7")
	assertEq(t, "pallets", got.Pallets, "0.19")
}

func TestApplyEdit_UnitSwitch(t *testing.T) {
	item := tile60Line(units.Area)
	item = ApplyEdit(item, Edit{Field: FieldQuantity, Value: d("103.68")})
	item.UnitPrice = d("85")

	got := ApplyEdit(item, Edit{Field: FieldUnit, Unit: units.Piece})

	if got.Unit != units.Piece {
		t.Fatalf("unit = %s, want PIECE", got.Unit)
	}
	assertEq(t, "quantity", got.Quantity, "288") // 103.68/0.36
	assertEq(t, "cartons", got.Cartons, "72")
	assertEq(t, "pallets", got.Pallets, "2")
	// Unit price is per selected unit; switching units never re-scales it.
	assertEq(t, "unitPrice", got.UnitPrice, "85")
}

func TestApplyEdit_UnitSwitchKeepsPriceSource(t *testing.T) {
	item := tile60Line(units.Area)
	item = item.WithPrice(resolution("85", "PRICELIST"))

	got := ApplyEdit(item, Edit{Field: FieldUnit, Unit: units.Carton})

	if string(got.PriceSource) != "PRICELIST" {
		t.Errorf("priceSource = %s, changed by a unit edit", got.PriceSource)
	}
}

func TestApplyEdit_ZeroRatioGuards(t *testing.T) {
	t.Run("cartons edit with unknown packaging retains quantity", func(t *testing.T) {
		item := New(id.New(), "GLU25", "Colle carrelage 25kg", "", packaging.Packaging{})
		item = ApplyEdit(item, Edit{Field: FieldQuantity, Value: d("5")})

		got := ApplyEdit(item, Edit{Field: FieldCartons, Value: d("3")})

		assertEq(t, "cartons", got.Cartons, "3")
		assertEq(t, "quantity", got.Quantity, "5") // not silently cleared
	})

	t.Run("pallets edit without pallet packaging leaves cascade alone", func(t *testing.T) {
		pkg := tile60()
		pkg.CartonsPerPalette = decimal.Zero
		item := New(id.New(), "T6060", "Carrelage 60x60", "", pkg)
		item = ApplyEdit(item, Edit{Field: FieldQuantity, Value: d("7.2")})

		got := ApplyEdit(item, Edit{Field: FieldPallets, Value: d("2")})

		assertEq(t, "pallets", got.Pallets, "2")
		assertEq(t, "quantity", got.Quantity, "7.2")
		assertEq(t, "cartons", got.Cartons, "5")
	})

	t.Run("quantity edit with unknown packaging zeroes carton columns", func(t *testing.T) {
		item := New(id.New(), "GLU25", "Colle carrelage 25kg", "", packaging.Packaging{})

		got := ApplyEdit(item, Edit{Field: FieldQuantity, Value: d("5")})

		assertEq(t, "cartons", got.Cartons, "0")
		assertEq(t, "pallets", got.Pallets, "0")
	})
}

func TestApplyEdit_Idempotent(t *testing.T) {
	item := tile60Line(units.Area)

	edits := []Edit{
		{Field: FieldQuantity, Value: d("103.68")},
		{Field: FieldCartons, Value: d("17")},
		{Field: FieldPallets, Value: d("1.5")},
	}

	for _, edit := range edits {
		once := ApplyEdit(item, edit)
		twice := ApplyEdit(once, edit)

		if !once.Quantity.Equal(twice.Quantity) ||
			!once.Cartons.Equal(twice.Cartons) ||
			!once.Pallets.Equal(twice.Pallets) {
			t.Errorf("edit %s=%s not idempotent: %s/%s/%s vs %s/%s/%s",
				edit.Field, edit.Value,
				once.Pallets, once.Cartons, once.Quantity,
				twice.Pallets, twice.Cartons, twice.Quantity)
		}
	}
}

func TestApplyEdit_DoesNotMutateInput(t *testing.T) {
	item := tile60Line(units.Area)
	before := item

	_ = ApplyEdit(item, Edit{Field: FieldQuantity, Value: d("50")})

	if !item.Quantity.Equal(before.Quantity) || !item.Cartons.Equal(before.Cartons) {
		t.Error("ApplyEdit mutated its input")
	}
}

func TestNewManual(t *testing.T) {
	item := NewManual("Livraison", d("1"), units.Piece, d("40"))

	if !item.Manual {
		t.Error("manual flag not set")
	}
	if string(item.PriceSource) != "MANUAL" {
		t.Errorf("priceSource = %s, want MANUAL", item.PriceSource)
	}
	assertEq(t, "lineTotal", item.LineTotal, "40")
}
