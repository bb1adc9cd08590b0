package postgres

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"tilepos/internal/domain/catalogs/product"
)

func TestExtractDBColumns_Product(t *testing.T) {
	cols := ExtractDBColumns[product.Product]()

	// Embedded entity.Catalog columns come first.
	assert.Contains(t, cols, "id")
	assert.Contains(t, cols, "code")
	assert.Contains(t, cols, "name")
	assert.Contains(t, cols, "deletion_mark")
	assert.Contains(t, cols, "version")

	// Product's own columns.
	assert.Contains(t, cols, "brand")
	assert.Contains(t, cols, "pieces_per_carton")
	assert.Contains(t, cols, "cartons_per_palette")
	assert.Contains(t, cols, "purchase_price")
	assert.Contains(t, cols, "base_price")
}

func TestStructToMap_Product(t *testing.T) {
	p := product.NewProduct("T6060", "Carrelage 60x60")
	p.RawPiecesPerCarton = decimal.NewFromInt(4)

	m := StructToMap(p)

	assert.Equal(t, "T6060", m["code"])
	assert.Equal(t, "Carrelage 60x60", m["name"])
	assert.Equal(t, p.ID, m["id"])

	ppc, ok := m["pieces_per_carton"].(decimal.Decimal)
	assert.True(t, ok)
	assert.True(t, ppc.Equal(decimal.NewFromInt(4)))
}

func TestStructToMap_NonStruct(t *testing.T) {
	assert.Nil(t, StructToMap(42))
	assert.Nil(t, StructToMap("nope"))
}
