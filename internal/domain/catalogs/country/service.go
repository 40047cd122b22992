package country

import (
	"context"
	"strings"

	"contractor/internal/core/tx"
	"contractor/internal/domain"
)

// Repository persists countries.
type Repository interface {
	domain.CatalogRepository[*Country, string]
}

// Service provides business logic for the country dictionary.
type Service struct {
	*domain.CatalogService[*Country, string]
}

// NewService creates a new country service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Country, string]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "country",
	})

	base.Hooks().OnBeforeCreate(normalize)
	base.Hooks().OnBeforeUpdate(normalize)

	return &Service{CatalogService: base}
}

func normalize(_ context.Context, c *Country) error {
	c.Name = strings.TrimSpace(c.Name)
	return nil
}
