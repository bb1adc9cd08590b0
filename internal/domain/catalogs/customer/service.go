package customer

import (
	"context"

	"tilepos/internal/core/apperror"
	"tilepos/internal/core/tx"
	"tilepos/internal/domain"
)

// Repository defines data access for the Customer catalog.
type Repository interface {
	domain.CatalogRepository[*Customer]
}

// Service provides business logic for the Customer catalog.
type Service struct {
	*domain.CatalogService[*Customer]
	repo Repository
}

// NewService creates a new Customer service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService[*Customer](repo, txManager, "customer"),
		repo:           repo,
	}
}

// Create inserts a customer after checking code uniqueness.
func (s *Service) Create(ctx context.Context, c *Customer) error {
	if c.Code != "" {
		exists, err := s.repo.ExistsByCode(ctx, c.Code)
		if err != nil {
			return apperror.NewInternal(err).WithDetail("entity", "customer")
		}
		if exists {
			return apperror.NewDuplicate("customer", "code", c.Code)
		}
	}
	return s.CatalogService.Create(ctx, c)
}
