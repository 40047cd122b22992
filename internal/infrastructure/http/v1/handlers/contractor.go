package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"contractor/internal/core/security"
	"contractor/internal/domain/contractor"
	"contractor/internal/infrastructure/http/v1/dto"
)

// ContractorService is the contractor service surface used by the handler.
type ContractorService interface {
	Search(ctx context.Context, roles security.RoleSet, c contractor.SearchCriteria, page contractor.Page) ([]contractor.Contractor, error)
	SearchSQL(ctx context.Context, roles security.RoleSet, c contractor.SearchCriteria, page contractor.Page) ([]contractor.Contractor, error)
	SaveOrUpdate(ctx context.Context, c *contractor.Contractor) (*contractor.Contractor, error)
	GetByID(ctx context.Context, contractorID string) (*contractor.Contractor, error)
	Delete(ctx context.Context, contractorID string) error
	UpdateMainBorrower(ctx context.Context, upd contractor.MainBorrowerUpdate) error
}

// ContractorHandler handles /contractor endpoints.
type ContractorHandler struct {
	*BaseHandler
	service ContractorService
}

// NewContractorHandler creates a new contractor handler.
func NewContractorHandler(base *BaseHandler, service ContractorService) *ContractorHandler {
	return &ContractorHandler{BaseHandler: base, service: service}
}

type searchFunc func(ctx context.Context, roles security.RoleSet, c contractor.SearchCriteria, page contractor.Page) ([]contractor.Contractor, error)

func (h *ContractorHandler) search(c *gin.Context, run searchFunc) {
	var q dto.SearchContractorsQuery
	if !h.BindQuery(c, &q) {
		return
	}

	page := q.ToPage()
	items, err := run(c.Request.Context(), h.Roles(c), q.ToCriteria(), page)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.PageResponse[dto.ContractorResponse]{
		Items: dto.FromContractors(items),
		Page:  page.Number,
		Size:  page.Size,
	})
}

// Search handles POST /contractor/search.
func (h *ContractorHandler) Search(c *gin.Context) {
	h.search(c, h.service.Search)
}

// SearchSQL handles POST /contractor/search/sql.
func (h *ContractorHandler) SearchSQL(c *gin.Context) {
	h.search(c, h.service.SearchSQL)
}

// Get handles GET /contractor/:id.
func (h *ContractorHandler) Get(c *gin.Context) {
	found, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromContractor(found))
}

// Save handles PUT /contractor/save.
func (h *ContractorHandler) Save(c *gin.Context) {
	var req dto.SaveContractorRequest
	if !h.BindJSON(c, &req) {
		return
	}

	saved, err := h.service.SaveOrUpdate(c.Request.Context(), req.ToEntity())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromContractor(saved))
}

// Delete handles DELETE /contractor/delete/:id.
func (h *ContractorHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "deleted")
}

// MainBorrower handles PATCH /contractor/main-borrower and returns the
// contractor with its updated flag.
func (h *ContractorHandler) MainBorrower(c *gin.Context) {
	var req dto.MainBorrowerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	if err := h.service.UpdateMainBorrower(ctx, req.ToUpdate()); err != nil {
		h.Error(c, err)
		return
	}

	updated, err := h.service.GetByID(ctx, req.ContractorID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromContractor(updated))
}
