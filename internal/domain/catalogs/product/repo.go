package product

import (
	"tilepos/internal/domain"
)

// Repository defines data access for the Product catalog.
type Repository interface {
	domain.CatalogRepository[*Product]
}
