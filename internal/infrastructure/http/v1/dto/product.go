package dto

import (
	"github.com/shopspring/decimal"

	"tilepos/internal/domain/catalogs/product"
	"tilepos/internal/domain/packaging"
)

// --- Request DTOs ---

// CreateProductRequest is the request body for creating a product.
type CreateProductRequest struct {
	Code              string           `json:"code" binding:"required"`
	Name              string           `json:"name" binding:"required"`
	Brand             *string          `json:"brand"`
	PiecesPerCarton   decimal.Decimal  `json:"piecesPerCarton"`
	CartonsPerPalette decimal.Decimal  `json:"cartonsPerPalette"`
	PurchasePrice     decimal.Decimal  `json:"purchasePrice"`
	BasePrice         *decimal.Decimal `json:"basePrice"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateProductRequest) ToEntity() *product.Product {
	p := product.NewProduct(r.Code, r.Name)
	p.Brand = r.Brand
	p.RawPiecesPerCarton = r.PiecesPerCarton
	p.CartonsPerPalette = r.CartonsPerPalette
	p.PurchasePrice = r.PurchasePrice
	if r.BasePrice != nil {
		p.BasePrice = decimal.NewNullDecimal(*r.BasePrice)
	}
	return p
}

// UpdateProductRequest is the request body for updating a product.
type UpdateProductRequest struct {
	Code              string           `json:"code" binding:"required"`
	Name              string           `json:"name" binding:"required"`
	Brand             *string          `json:"brand"`
	PiecesPerCarton   decimal.Decimal  `json:"piecesPerCarton"`
	CartonsPerPalette decimal.Decimal  `json:"cartonsPerPalette"`
	PurchasePrice     decimal.Decimal  `json:"purchasePrice"`
	BasePrice         *decimal.Decimal `json:"basePrice"`
	Version           int              `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateProductRequest) ApplyTo(p *product.Product) {
	p.Code = r.Code
	p.Name = r.Name
	p.Brand = r.Brand
	p.RawPiecesPerCarton = r.PiecesPerCarton
	p.CartonsPerPalette = r.CartonsPerPalette
	p.PurchasePrice = r.PurchasePrice
	p.BasePrice = decimal.NullDecimal{}
	if r.BasePrice != nil {
		p.BasePrice = decimal.NewNullDecimal(*r.BasePrice)
	}
	p.Version = r.Version
}

// --- Response DTOs ---

// PackagingResponse is the resolved packaging of a product.
type PackagingResponse struct {
	SqmPerPiece       decimal.Decimal `json:"sqmPerPiece"`
	PiecesPerCarton   decimal.Decimal `json:"piecesPerCarton"`
	CartonsPerPalette decimal.Decimal `json:"cartonsPerPalette"`
	Estimated         bool            `json:"estimated"`
}

// FromPackaging maps resolved packaging to the response DTO.
func FromPackaging(pkg packaging.Packaging) PackagingResponse {
	return PackagingResponse{
		SqmPerPiece:       pkg.SqmPerPiece,
		PiecesPerCarton:   pkg.PiecesPerCarton,
		CartonsPerPalette: pkg.CartonsPerPalette,
		Estimated:         pkg.Estimated,
	}
}

// ProductResponse is the API representation of a product.
type ProductResponse struct {
	BaseResponse
	Code              string            `json:"code"`
	Name              string            `json:"name"`
	Brand             *string           `json:"brand,omitempty"`
	PiecesPerCarton   decimal.Decimal   `json:"piecesPerCarton"`
	CartonsPerPalette decimal.Decimal   `json:"cartonsPerPalette"`
	PurchasePrice     decimal.Decimal   `json:"purchasePrice"`
	BasePrice         *decimal.Decimal  `json:"basePrice,omitempty"`
	Packaging         PackagingResponse `json:"packaging"`
}

// FromProduct maps a product to the response DTO, including the packaging
// as resolved under the given configuration.
func FromProduct(p *product.Product, cfg packaging.Config) ProductResponse {
	resp := ProductResponse{
		BaseResponse:      FromBaseEntity(p.BaseEntity),
		Code:              p.Code,
		Name:              p.Name,
		Brand:             p.Brand,
		PiecesPerCarton:   p.RawPiecesPerCarton,
		CartonsPerPalette: p.CartonsPerPalette,
		PurchasePrice:     p.PurchasePrice,
		Packaging:         FromPackaging(p.Packaging(cfg)),
	}
	if p.BasePrice.Valid {
		v := p.BasePrice.Decimal
		resp.BasePrice = &v
	}
	return resp
}
