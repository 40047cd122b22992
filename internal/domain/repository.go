// Package domain provides the generic lookup catalog service shared by the
// country, industry and organisational form dictionaries.
package domain

import (
	"context"

	"contractor/internal/core/entity"
)

// Lookup is a soft-deletable dictionary entry identified by K.
type Lookup[K comparable] interface {
	entity.Validatable
	entity.Activatable

	// Key returns the identifier. The zero value means "not assigned yet".
	Key() K
}

// CatalogRepository defines persistence for lookup catalogs.
type CatalogRepository[T Lookup[K], K comparable] interface {
	// Create inserts entity. Repositories with generated keys write the key back.
	Create(ctx context.Context, entity T) error

	// Update overwrites the mutable columns of an existing entity.
	Update(ctx context.Context, entity T) error

	// GetByID returns the entry regardless of its active flag.
	GetByID(ctx context.Context, key K) (T, error)

	// ListActive returns active entries ordered by key.
	ListActive(ctx context.Context) ([]T, error)

	// SetActive flips the soft-delete flag.
	SetActive(ctx context.Context, key K, active bool) error
}

// --- Hooks ---

// HookEvent represents lifecycle event type.
type HookEvent string

const (
	BeforeCreate HookEvent = "before_create"
	AfterCreate  HookEvent = "after_create"
	BeforeUpdate HookEvent = "before_update"
	AfterUpdate  HookEvent = "after_update"
	BeforeDelete HookEvent = "before_delete"
	AfterDelete  HookEvent = "after_delete"
)

// Hook is a function that runs at specific lifecycle points.
type Hook[T any] func(ctx context.Context, entity T) error

// HookRegistry stores lifecycle hooks for an entity type.
type HookRegistry[T any] struct {
	hooks map[HookEvent][]Hook[T]
}

// NewHookRegistry creates an empty hook registry.
func NewHookRegistry[T any]() *HookRegistry[T] {
	return &HookRegistry[T]{
		hooks: make(map[HookEvent][]Hook[T]),
	}
}

// On registers a hook for the specified event.
func (r *HookRegistry[T]) On(event HookEvent, hook Hook[T]) {
	r.hooks[event] = append(r.hooks[event], hook)
}

// Run executes hooks for event in registration order and stops at the first error.
func (r *HookRegistry[T]) Run(ctx context.Context, event HookEvent, entity T) error {
	for _, hook := range r.hooks[event] {
		if err := hook(ctx, entity); err != nil {
			return err
		}
	}
	return nil
}

// OnBeforeCreate registers a hook to run before create.
func (r *HookRegistry[T]) OnBeforeCreate(hook Hook[T]) {
	r.On(BeforeCreate, hook)
}

// OnBeforeUpdate registers a hook to run before update.
func (r *HookRegistry[T]) OnBeforeUpdate(hook Hook[T]) {
	r.On(BeforeUpdate, hook)
}

// OnBeforeDelete registers a hook to run before delete.
func (r *HookRegistry[T]) OnBeforeDelete(hook Hook[T]) {
	r.On(BeforeDelete, hook)
}

// OnAfterDelete registers a hook to run after delete.
func (r *HookRegistry[T]) OnAfterDelete(hook Hook[T]) {
	r.On(AfterDelete, hook)
}
