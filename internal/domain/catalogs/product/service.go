package product

import (
	"context"

	"tilepos/internal/core/apperror"
	"tilepos/internal/core/tx"
	"tilepos/internal/domain"
)

// Service provides business logic for the Product catalog.
type Service struct {
	*domain.CatalogService[*Product]
	repo Repository
}

// NewService creates a new Product service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService[*Product](repo, txManager, "product"),
		repo:           repo,
	}
}

// Create inserts a product after checking code uniqueness.
func (s *Service) Create(ctx context.Context, p *Product) error {
	if p.Code != "" {
		exists, err := s.repo.ExistsByCode(ctx, p.Code)
		if err != nil {
			return apperror.NewInternal(err).WithDetail("entity", "product")
		}
		if exists {
			return apperror.NewDuplicate("product", "code", p.Code)
		}
	}
	return s.CatalogService.Create(ctx, p)
}
