package v1

import (
	"github.com/gin-gonic/gin"

	"tilepos/internal/domain/cart"
	"tilepos/internal/domain/catalogs/customer"
	"tilepos/internal/domain/catalogs/product"
	"tilepos/internal/domain/packaging"
	"tilepos/internal/domain/pricing"
	"tilepos/internal/infrastructure/http/v1/handlers"
	"tilepos/internal/infrastructure/http/v1/middleware"
	"tilepos/internal/infrastructure/storage/postgres"
	"tilepos/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks)
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	// Packaging holds the packaging normalization tolerances
	Packaging packaging.Config

	// Domain services
	Products  *product.Service
	Customers *customer.Service
	Carts     *cart.Service
	Resolver  *pricing.Resolver

	// Margins persists margin configuration; nil disables the endpoints
	Margins handlers.MarginStore
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

	// Health endpoints (no session required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1 - every call carries the POS session
	api := router.Group("/api/v1")
	api.Use(middleware.Session())
	{
		baseHandler := handlers.NewBaseHandler()

		catalogs := api.Group("/catalog")
		{
			productHandler := handlers.NewProductHandler(baseHandler, cfg.Products, cfg.Packaging)
			RegisterCatalogRoutes(catalogs.Group("/products"), productHandler)

			customerHandler := handlers.NewCustomerHandler(baseHandler, cfg.Customers)
			RegisterCatalogRoutes(catalogs.Group("/customers"), customerHandler)
		}

		cartHandler := handlers.NewCartHandler(baseHandler, cfg.Carts)
		cartHandler.RegisterRoutes(api.Group("/carts"))

		pricingHandler := handlers.NewPricingHandler(baseHandler, cfg.Products, cfg.Customers, cfg.Resolver, cfg.Margins)
		pricingHandler.RegisterRoutes(api.Group("/pricing"))
	}

	return router
}
