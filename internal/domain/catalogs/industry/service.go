package industry

import (
	"context"
	"strings"

	"contractor/internal/core/tx"
	"contractor/internal/domain"
)

// Repository persists industries.
type Repository interface {
	domain.CatalogRepository[*Industry, int64]
}

// Service provides business logic for the industry dictionary.
type Service struct {
	*domain.CatalogService[*Industry, int64]
}

// NewService creates a new industry service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Industry, int64]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "industry",
	})

	base.Hooks().OnBeforeCreate(normalize)
	base.Hooks().OnBeforeUpdate(normalize)

	return &Service{CatalogService: base}
}

func normalize(_ context.Context, i *Industry) error {
	i.Name = strings.TrimSpace(i.Name)
	return nil
}
