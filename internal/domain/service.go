package domain

import (
	"context"
	"fmt"

	"contractor/internal/core/apperror"
	"contractor/internal/core/tx"
	"contractor/pkg/logger"
)

// CatalogService provides business logic for lookup catalogs.
type CatalogService[T Lookup[K], K comparable] struct {
	repo      CatalogRepository[T, K]
	txManager tx.Manager
	hooks     *HookRegistry[T]

	// entityName for error messages
	entityName string
}

// CatalogServiceConfig configures the catalog service.
type CatalogServiceConfig[T Lookup[K], K comparable] struct {
	Repo       CatalogRepository[T, K]
	TxManager  tx.Manager
	EntityName string
}

// NewCatalogService creates a new catalog service.
func NewCatalogService[T Lookup[K], K comparable](cfg CatalogServiceConfig[T, K]) *CatalogService[T, K] {
	return &CatalogService[T, K]{
		repo:       cfg.Repo,
		txManager:  cfg.TxManager,
		hooks:      NewHookRegistry[T](),
		entityName: cfg.EntityName,
	}
}

// Hooks returns the hook registry for external registration.
func (s *CatalogService[T, K]) Hooks() *HookRegistry[T] {
	return s.hooks
}

func (s *CatalogService[T, K]) normalizeValidationErr(err error) error {
	if err == nil {
		return nil
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewValidation(err.Error())
}

func (s *CatalogService[T, K]) normalizeGetErr(err error, key K) error {
	if err == nil {
		return nil
	}
	// Repositories report their table name; callers expect the entity name.
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound(s.entityName, key)
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewInternal(err).WithDetail("entity", s.entityName).WithDetail("id", key)
}

// Save inserts entity, or updates it when its key already exists.
func (s *CatalogService[T, K]) Save(ctx context.Context, entity T) (T, error) {
	var zero K

	exists := false
	if entity.Key() != zero {
		_, err := s.repo.GetByID(ctx, entity.Key())
		switch {
		case err == nil:
			exists = true
		case !apperror.IsNotFound(err):
			return entity, s.normalizeGetErr(err, entity.Key())
		}
	}

	event, after := BeforeCreate, AfterCreate
	if exists {
		event, after = BeforeUpdate, AfterUpdate
	}

	// Hooks may normalise fields, so they run before validation.
	if err := s.hooks.Run(ctx, event, entity); err != nil {
		return entity, err
	}
	if err := entity.Validate(ctx); err != nil {
		return entity, s.normalizeValidationErr(err)
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if exists {
			if err := s.repo.Update(ctx, entity); err != nil {
				return fmt.Errorf("update %s: %w", s.entityName, err)
			}
			return nil
		}
		if err := s.repo.Create(ctx, entity); err != nil {
			return fmt.Errorf("create %s: %w", s.entityName, err)
		}
		return nil
	})
	if err != nil {
		return entity, err
	}

	if err := s.hooks.Run(ctx, after, entity); err != nil {
		logger.Warn(ctx, "after-save hook failed", "entity", s.entityName, "id", entity.Key(), "error", err)
	}

	return entity, nil
}

// GetByID returns an active entry. Inactive entries are reported as NotActive.
func (s *CatalogService[T, K]) GetByID(ctx context.Context, key K) (T, error) {
	entity, err := s.repo.GetByID(ctx, key)
	if err != nil {
		return entity, s.normalizeGetErr(err, key)
	}
	if !entity.Active() {
		var zero T
		return zero, apperror.NewNotActive(s.entityName, key)
	}
	return entity, nil
}

// ListActive returns all active entries.
func (s *CatalogService[T, K]) ListActive(ctx context.Context) ([]T, error) {
	items, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.entityName, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Delete performs soft delete of an active entry.
func (s *CatalogService[T, K]) Delete(ctx context.Context, key K) error {
	entity, err := s.GetByID(ctx, key)
	if err != nil {
		return err
	}

	if err := s.hooks.Run(ctx, BeforeDelete, entity); err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.SetActive(ctx, key, false); err != nil {
			return fmt.Errorf("delete %s: %w", s.entityName, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.hooks.Run(ctx, AfterDelete, entity); err != nil {
		logger.Warn(ctx, "after-delete hook failed", "entity", s.entityName, "id", key, "error", err)
	}
	return nil
}
