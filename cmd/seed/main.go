// Package main provides a CLI tool for seeding the database with schema
// and demo data: a small tile catalog, customers and a price book.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"tilepos/internal/domain/catalogs/customer"
	"tilepos/internal/domain/catalogs/product"
	"tilepos/internal/domain/pricing"
	"tilepos/internal/infrastructure/storage/postgres"
	"tilepos/internal/infrastructure/storage/postgres/catalog_repo"
	"tilepos/internal/infrastructure/storage/postgres/pricing_repo"
	"tilepos/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("connected to database")

	if err := createSchema(ctx, pool); err != nil {
		log.Fatalw("failed to create schema", "error", err)
	}
	log.Info("schema ready")

	txManager := postgres.NewTxManager(pool)

	if err := seedMargins(ctx, txManager); err != nil {
		log.Fatalw("failed to seed margin settings", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, txManager, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id UUID PRIMARY KEY,
		code TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		brand TEXT,
		pieces_per_carton NUMERIC NOT NULL DEFAULT 0,
		cartons_per_palette NUMERIC NOT NULL DEFAULT 0,
		purchase_price NUMERIC NOT NULL DEFAULT 0,
		base_price NUMERIC,
		deletion_mark BOOLEAN NOT NULL DEFAULT FALSE,
		version INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id UUID PRIMARY KEY,
		code TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		channel TEXT NOT NULL,
		tier TEXT NOT NULL DEFAULT 'standard',
		phone TEXT,
		email TEXT,
		deletion_mark BOOLEAN NOT NULL DEFAULT FALSE,
		version INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS sale_history (
		id BIGSERIAL PRIMARY KEY,
		customer_id UUID NOT NULL,
		product_id UUID NOT NULL,
		unit_price NUMERIC NOT NULL,
		sold_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sale_history_pair
		ON sale_history (customer_id, product_id, sold_at DESC)`,
	`CREATE TABLE IF NOT EXISTS customer_prices (
		id BIGSERIAL PRIMARY KEY,
		customer_id UUID NOT NULL,
		product_id UUID NOT NULL,
		price NUMERIC NOT NULL,
		valid_from TIMESTAMPTZ NOT NULL DEFAULT now(),
		valid_to TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS price_list_entries (
		id BIGSERIAL PRIMARY KEY,
		product_id UUID NOT NULL,
		kind TEXT NOT NULL,
		price NUMERIC NOT NULL,
		condition TEXT,
		priority INTEGER NOT NULL DEFAULT 100,
		valid_from TIMESTAMPTZ NOT NULL DEFAULT now(),
		valid_to TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS margin_settings (
		channel TEXT PRIMARY KEY,
		value NUMERIC NOT NULL,
		margin_type TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS cart_journal (
		id UUID PRIMARY KEY,
		cart_id UUID NOT NULL,
		line_id UUID NOT NULL,
		product_id UUID,
		action TEXT NOT NULL,
		session_id TEXT NOT NULL DEFAULT '',
		terminal_id TEXT NOT NULL DEFAULT '',
		snapshot JSONB,
		snapshot_compressed BYTEA,
		compression_algo TEXT NOT NULL DEFAULT 'none',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_cart_journal_cart
		ON cart_journal (cart_id, created_at DESC)`,
}

func createSchema(ctx context.Context, pool *postgres.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("exec schema statement: %w", err)
		}
	}
	return nil
}

func seedMargins(ctx context.Context, txManager *postgres.TxManager) error {
	repo := pricing_repo.NewSettingsRepo(txManager)

	margins := map[pricing.Channel]pricing.MarginSetting{
		pricing.ChannelRetail:    {Value: decimal.NewFromInt(30), Type: pricing.MarginPercent},
		pricing.ChannelWholesale: {Value: decimal.NewFromInt(15), Type: pricing.MarginPercent},
	}

	for channel, m := range margins {
		if err := repo.Save(ctx, channel, m); err != nil {
			return err
		}
	}
	return nil
}

func seedDemoData(ctx context.Context, txManager *postgres.TxManager, log *logger.Logger) error {
	productRepo := catalog_repo.NewProductRepo(txManager)
	customerRepo := catalog_repo.NewCustomerRepo(txManager)
	products := product.NewService(productRepo, txManager)
	customers := customer.NewService(customerRepo, txManager)

	brand := func(s string) *string { return &s }

	demoProducts := []*product.Product{
		tile("T6060G", "Carrelage 60x60 gris beton", brand("Cerampro"), "1.44", "36", "520", "780"),
		tile("T6060B", "Carrelage 60x60 blanc poli", brand("Cerampro"), "4", "36", "560", "840"),
		tile("T3060", "Faience 30x60 marbre", brand("Azulejos"), "0", "40", "410", "615"),
		tile("T2525", "Mosaique 25x25 bleu", brand("Azulejos"), "12", "48", "300", "460"),
		tile("FCH60", "fiche Carrelage 60x60 gris", nil, "1", "0", "0", "0"),
		accessory("GLU25", "Colle carrelage 25kg", "95", "140"),
		accessory("JNT05", "Joint epoxy 5kg", "60", "92"),
	}

	for _, p := range demoProducts {
		if err := products.Create(ctx, p); err != nil {
			return fmt.Errorf("create product %s: %w", p.Code, err)
		}
	}
	log.Infow("products seeded", "count", len(demoProducts))

	demoCustomers := []*customer.Customer{
		buyer("C001", "Batimat SARL", pricing.ChannelWholesale, "gold"),
		buyer("C002", "Menuiserie Kader", pricing.ChannelRetail, "standard"),
		buyer("C003", "Promo-Construction SPA", pricing.ChannelWholesale, "standard"),
	}

	for _, c := range demoCustomers {
		if err := customers.Create(ctx, c); err != nil {
			return fmt.Errorf("create customer %s: %w", c.Code, err)
		}
	}
	log.Infow("customers seeded", "count", len(demoCustomers))

	priceBook := pricing_repo.NewPriceBookRepo(txManager, log)

	// A prior sale: C001 bought the grey 60x60 at a negotiated price.
	if err := priceBook.RecordSale(ctx,
		demoCustomers[0].ID.String(),
		demoProducts[0].ID.String(),
		decimal.NewFromInt(690),
	); err != nil {
		return fmt.Errorf("record demo sale: %w", err)
	}

	// Volume price list entry for the white 60x60: gold-tier wholesale
	// buyers ordering 24 m² or more.
	querier := txManager.GetQuerier(ctx)
	_, err := querier.Exec(ctx, `
		INSERT INTO price_list_entries (product_id, kind, price, condition, priority)
		VALUES ($1, 'PRICELIST', $2, $3, 10)
	`, demoProducts[1].ID, decimal.NewFromInt(790), `tier == "gold" && quantity >= 24.0`)
	if err != nil {
		return fmt.Errorf("seed price list entry: %w", err)
	}

	log.Info("price book seeded")
	return nil
}

func tile(code, name string, brand *string, ppc, cpp, purchase, base string) *product.Product {
	p := product.NewProduct(code, name)
	p.Brand = brand
	p.RawPiecesPerCarton = decimal.RequireFromString(ppc)
	p.CartonsPerPalette = decimal.RequireFromString(cpp)
	p.PurchasePrice = decimal.RequireFromString(purchase)
	if base != "0" {
		p.BasePrice = decimal.NewNullDecimal(decimal.RequireFromString(base))
	}
	return p
}

func accessory(code, name, purchase, base string) *product.Product {
	p := product.NewProduct(code, name)
	p.PurchasePrice = decimal.RequireFromString(purchase)
	p.BasePrice = decimal.NewNullDecimal(decimal.RequireFromString(base))
	return p
}

func buyer(code, name string, channel pricing.Channel, tier string) *customer.Customer {
	c := customer.NewCustomer(code, name, channel)
	c.Tier = tier
	return c
}
