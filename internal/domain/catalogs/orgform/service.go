package orgform

import (
	"context"
	"strings"

	"contractor/internal/core/tx"
	"contractor/internal/domain"
)

// Repository persists organisational forms.
type Repository interface {
	domain.CatalogRepository[*OrgForm, int64]
}

// Service provides business logic for the org form dictionary.
type Service struct {
	*domain.CatalogService[*OrgForm, int64]
}

// NewService creates a new org form service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*OrgForm, int64]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "org form",
	})

	base.Hooks().OnBeforeCreate(normalize)
	base.Hooks().OnBeforeUpdate(normalize)

	return &Service{CatalogService: base}
}

func normalize(_ context.Context, o *OrgForm) error {
	o.Name = strings.TrimSpace(o.Name)
	return nil
}
