package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"contractor/internal/domain"
)

// LookupService is the catalog service surface used by LookupHandler.
type LookupService[T domain.Lookup[K], K comparable] interface {
	Save(ctx context.Context, entity T) (T, error)
	GetByID(ctx context.Context, key K) (T, error)
	ListActive(ctx context.Context) ([]T, error)
	Delete(ctx context.Context, key K) error
}

// LookupHandler provides generic HTTP handlers for lookup catalogs.
type LookupHandler[T domain.Lookup[K], K comparable, SaveDTO any] struct {
	*BaseHandler
	service LookupService[T, K]

	parseKey func(c *gin.Context) (K, bool)
	toEntity func(req *SaveDTO) T
}

// LookupHandlerConfig configures the lookup handler.
type LookupHandlerConfig[T domain.Lookup[K], K comparable, SaveDTO any] struct {
	Service LookupService[T, K]

	// ParseKey reads the :id path parameter; it reports failures itself.
	ParseKey func(c *gin.Context) (K, bool)
	ToEntity func(req *SaveDTO) T
}

// NewLookupHandler creates a new lookup handler.
func NewLookupHandler[T domain.Lookup[K], K comparable, SaveDTO any](
	base *BaseHandler,
	cfg LookupHandlerConfig[T, K, SaveDTO],
) *LookupHandler[T, K, SaveDTO] {
	return &LookupHandler[T, K, SaveDTO]{
		BaseHandler: base,
		service:     cfg.Service,
		parseKey:    cfg.ParseKey,
		toEntity:    cfg.ToEntity,
	}
}

// StringKey reads the :id parameter as is.
func StringKey(c *gin.Context) (string, bool) {
	return c.Param("id"), true
}

// Int64Key returns a ParseKey reading :id as an integer.
func Int64Key(base *BaseHandler) func(c *gin.Context) (int64, bool) {
	return func(c *gin.Context) (int64, bool) {
		return base.ParseInt64Param(c, "id")
	}
}

// Save handles PUT /{lookup}/save - create or update.
func (h *LookupHandler[T, K, SaveDTO]) Save(c *gin.Context) {
	var req SaveDTO
	if !h.BindJSON(c, &req) {
		return
	}

	saved, err := h.service.Save(c.Request.Context(), h.toEntity(&req))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, saved)
}

// All handles GET /{lookup}/all - list active entries.
func (h *LookupHandler[T, K, SaveDTO]) All(c *gin.Context) {
	items, err := h.service.ListActive(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, items)
}

// Get handles GET /{lookup}/:id.
func (h *LookupHandler[T, K, SaveDTO]) Get(c *gin.Context) {
	key, ok := h.parseKey(c)
	if !ok {
		return
	}

	item, err := h.service.GetByID(c.Request.Context(), key)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, item)
}

// Delete handles DELETE /{lookup}/delete/:id - soft delete.
func (h *LookupHandler[T, K, SaveDTO]) Delete(c *gin.Context) {
	key, ok := h.parseKey(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), key); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "deleted")
}
