// Package product provides the Product catalog: tiles, trims, adhesives and
// other construction materials sold through the POS.
package product

import (
	"context"

	"github.com/shopspring/decimal"

	"tilepos/internal/core/apperror"
	"tilepos/internal/core/entity"
	"tilepos/internal/domain/packaging"
	"tilepos/internal/domain/pricing"
)

// Product represents a sellable item.
type Product struct {
	entity.Catalog

	// Brand is the manufacturer brand name
	Brand *string `db:"brand" json:"brand,omitempty"`

	// RawPiecesPerCarton is the legacy packaging field, taken as-is from
	// upstream data. It nominally holds pieces per carton but in older
	// records sometimes holds the carton's area in m²; packaging.Normalize
	// resolves the ambiguity. Never use this field directly in conversions.
	RawPiecesPerCarton decimal.Decimal `db:"pieces_per_carton" json:"piecesPerCarton"`

	// CartonsPerPalette is cartons per pallet; zero means no pallet packaging
	CartonsPerPalette decimal.Decimal `db:"cartons_per_palette" json:"cartonsPerPalette"`

	// PurchasePrice is the purchase cost per default sale unit
	PurchasePrice decimal.Decimal `db:"purchase_price" json:"purchasePrice"`

	// BasePrice is the listed sale price; null when the product has none
	BasePrice decimal.NullDecimal `db:"base_price" json:"basePrice"`
}

// NewProduct creates a new Product with required fields.
func NewProduct(code, name string) *Product {
	return &Product{
		Catalog: entity.NewCatalog(code, name),
	}
}

// Validate implements entity.Validatable interface.
func (p *Product) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	if p.RawPiecesPerCarton.IsNegative() {
		return apperror.NewValidation("pieces per carton cannot be negative").
			WithDetail("field", "piecesPerCarton")
	}
	if p.CartonsPerPalette.IsNegative() {
		return apperror.NewValidation("cartons per palette cannot be negative").
			WithDetail("field", "cartonsPerPalette")
	}
	if p.PurchasePrice.IsNegative() {
		return apperror.NewValidation("purchase price cannot be negative").
			WithDetail("field", "purchasePrice")
	}
	if p.BasePrice.Valid && p.BasePrice.Decimal.IsNegative() {
		return apperror.NewValidation("base price cannot be negative").
			WithDetail("field", "basePrice")
	}

	return nil
}

// Packaging establishes the canonical packaging ratios for this product.
// Called once when the product enters a line.
func (p *Product) Packaging(cfg packaging.Config) packaging.Packaging {
	return packaging.Resolve(p.Name, p.RawPiecesPerCarton, p.CartonsPerPalette, cfg)
}

// PricingProduct projects the fields the price resolver needs.
func (p *Product) PricingProduct() pricing.Product {
	return pricing.Product{
		ID:            p.ID,
		PurchasePrice: p.PurchasePrice,
		BasePrice:     p.BasePrice,
	}
}

// BrandName returns the brand or empty string.
func (p *Product) BrandName() string {
	if p.Brand == nil {
		return ""
	}
	return *p.Brand
}
