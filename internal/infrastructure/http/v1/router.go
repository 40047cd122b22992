package v1

import (
	"github.com/gin-gonic/gin"

	"contractor/internal/core/security"
	"contractor/internal/domain/catalogs/country"
	"contractor/internal/domain/catalogs/industry"
	"contractor/internal/domain/catalogs/orgform"
	"contractor/internal/infrastructure/http/v1/dto"
	"contractor/internal/infrastructure/http/v1/handlers"
	"contractor/internal/infrastructure/http/v1/middleware"
	"contractor/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	Contractors handlers.ContractorService
	Countries   handlers.LookupService[*country.Country, string]
	Industries  handlers.LookupService[*industry.Industry, int64]
	OrgForms    handlers.LookupService[*orgform.OrgForm, int64]

	Health *handlers.HealthHandler
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	if cfg.Health != nil {
		health := router.Group("/health")
		{
			health.GET("/live", cfg.Health.Live)
			health.GET("/ready", cfg.Health.Ready)
			health.GET("/info", cfg.Health.Info)
		}
	}

	v1 := router.Group("/api/v1")
	v1.Use(middleware.Auth(cfg.JWTValidator))
	v1.Use(middleware.UserContext())

	base := handlers.NewBaseHandler()
	registerContractorRoutes(v1, base, cfg)
	registerLookupRoutes(v1, base, cfg)

	return router
}

func registerContractorRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	if cfg.Contractors == nil {
		return
	}

	h := handlers.NewContractorHandler(base, cfg.Contractors)
	g := rg.Group("/contractor")

	searchers := middleware.RequireRole(security.ContractorSearchers...)
	writers := middleware.RequireRole(security.ContractorWriters...)

	g.POST("/search", searchers, h.Search)
	g.POST("/search/sql", searchers, h.SearchSQL)
	g.PUT("/save", writers, h.Save)
	g.PATCH("/main-borrower", writers, h.MainBorrower)
	g.DELETE("/delete/:id", writers, h.Delete)
	g.GET("/:id", middleware.RequireRole(security.ContractorReaders...), h.Get)
}

func registerLookupRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	if cfg.Countries != nil {
		h := handlers.NewLookupHandler(base, handlers.LookupHandlerConfig[*country.Country, string, dto.SaveCountryRequest]{
			Service:  cfg.Countries,
			ParseKey: handlers.StringKey,
			ToEntity: (*dto.SaveCountryRequest).ToEntity,
		})
		RegisterLookupRoutes(rg.Group("/country"), h, security.ContractorWriters)
	}

	if cfg.Industries != nil {
		h := handlers.NewLookupHandler(base, handlers.LookupHandlerConfig[*industry.Industry, int64, dto.SaveIndustryRequest]{
			Service:  cfg.Industries,
			ParseKey: handlers.Int64Key(base),
			ToEntity: (*dto.SaveIndustryRequest).ToEntity,
		})
		RegisterLookupRoutes(rg.Group("/industry"), h, security.ContractorWriters)
	}

	if cfg.OrgForms != nil {
		h := handlers.NewLookupHandler(base, handlers.LookupHandlerConfig[*orgform.OrgForm, int64, dto.SaveOrgFormRequest]{
			Service:  cfg.OrgForms,
			ParseKey: handlers.Int64Key(base),
			ToEntity: (*dto.SaveOrgFormRequest).ToEntity,
		})
		RegisterLookupRoutes(rg.Group("/org-form"), h, security.ContractorWriters)
	}
}
