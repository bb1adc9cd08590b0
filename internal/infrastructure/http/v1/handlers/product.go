package handlers

import (
	"tilepos/internal/domain/catalogs/product"
	"tilepos/internal/domain/packaging"
	"tilepos/internal/infrastructure/http/v1/dto"
)

// ProductHTTPHandler is the catalog handler specialized for products.
type ProductHTTPHandler = CatalogHandler[
	*product.Product,
	dto.CreateProductRequest,
	dto.UpdateProductRequest,
]

// NewProductHandler wires the generic catalog handler for products.
// Responses include the resolved packaging so terminals never interpret
// the raw pieces-per-carton field themselves.
func NewProductHandler(
	base *BaseHandler,
	service *product.Service,
	pkgCfg packaging.Config,
) *ProductHTTPHandler {
	config := CatalogHandlerConfig[
		*product.Product,
		dto.CreateProductRequest,
		dto.UpdateProductRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "product",

		MapCreateDTO: func(req dto.CreateProductRequest) *product.Product {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateProductRequest, existing *product.Product) *product.Product {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(p *product.Product) any {
			return dto.FromProduct(p, pkgCfg)
		},
	}

	return NewCatalogHandler(base, config)
}
