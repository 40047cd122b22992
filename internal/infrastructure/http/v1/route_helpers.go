// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"contractor/internal/core/security"
	"contractor/internal/infrastructure/http/v1/middleware"
)

// LookupRouteHandler defines the interface for lookup catalog handlers.
type LookupRouteHandler interface {
	Save(c *gin.Context)
	All(c *gin.Context)
	Get(c *gin.Context)
	Delete(c *gin.Context)
}

// RegisterLookupRoutes registers the standard lookup routes. Reads are open
// to any authenticated caller, mutations to writers.
//
// Usage:
//
//	repo := catalog_repo.NewCountryRepo(cfg.TxManager)
//	service := country.NewService(repo, cfg.TxManager)
//	RegisterLookupRoutes(api.Group("/country"), handler, security.ContractorWriters)
func RegisterLookupRoutes(group *gin.RouterGroup, handler LookupRouteHandler, writers []security.Role) {
	group.PUT("/save", middleware.RequireRole(writers...), handler.Save)
	group.GET("/all", middleware.Authenticated(), handler.All)
	group.GET("/:id", middleware.Authenticated(), handler.Get)
	group.DELETE("/delete/:id", middleware.RequireRole(writers...), handler.Delete)
}
