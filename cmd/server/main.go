// Package main is the entry point for the tilepos API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"tilepos/internal/domain/cart"
	"tilepos/internal/domain/catalogs/customer"
	"tilepos/internal/domain/catalogs/product"
	"tilepos/internal/domain/packaging"
	"tilepos/internal/domain/pricing"
	v1 "tilepos/internal/infrastructure/http/v1"
	"tilepos/internal/infrastructure/storage/postgres"
	"tilepos/internal/infrastructure/storage/postgres/catalog_repo"
	"tilepos/internal/infrastructure/storage/postgres/pricing_repo"
	"tilepos/pkg/logger"
)

func main() {
	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting tilepos server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	if maxConns := getEnvInt("DB_MAX_CONNS", 25); maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Packaging configuration ---
	pkgCfg := packaging.DefaultConfig()
	if fallback := getEnvInt("PACKAGING_FALLBACK_PIECES_PER_CARTON", 0); fallback > 0 {
		pkgCfg.FallbackPiecesPerCarton = decimal.NewFromInt(int64(fallback))
	}

	// --- Repositories and services ---
	productRepo := catalog_repo.NewProductRepo(txManager)
	customerRepo := catalog_repo.NewCustomerRepo(txManager)
	products := product.NewService(productRepo, txManager)
	customers := customer.NewService(customerRepo, txManager)

	// --- Pricing ---
	settingsRepo := pricing_repo.NewSettingsRepo(txManager)
	settings, err := settingsRepo.Load(ctx)
	if err != nil {
		log.Fatalw("failed to load margin settings", "error", err)
	}
	log.Infow("margin settings loaded", "channels", len(settings.Margins))

	priceBook := pricing_repo.NewPriceBookRepo(txManager, log)

	var resolverOpts []pricing.ResolverOption
	if timeout := getEnvDuration("PRICE_LOOKUP_TIMEOUT", 0); timeout > 0 {
		resolverOpts = append(resolverOpts, pricing.WithLookupTimeout(timeout))
	}
	resolver := pricing.NewResolver(priceBook, settings, log, resolverOpts...)

	// --- Cart service with edit journal ---
	journal, err := postgres.NewJournalService(txManager)
	if err != nil {
		log.Fatalw("failed to create journal service", "error", err)
	}
	carts := cart.NewService(products, customers, resolver, journal, pkgCfg, log)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:      pool,
		Logger:    log,
		Packaging: pkgCfg,
		Products:  products,
		Customers: customers,
		Carts:     carts,
		Resolver:  resolver,
		Margins:   settingsRepo,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
