// Package pricing_repo provides the PostgreSQL price book: prior sale
// history, customer-specific prices and contract/price-list entries.
package pricing_repo

import (
	"context"
	"fmt"
	"sync"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"tilepos/internal/domain/pricing"
	"tilepos/internal/infrastructure/storage/postgres"
	"tilepos/pkg/logger"
)

// Compile-time check that PriceBookRepo implements pricing.Lookup.
var _ pricing.Lookup = (*PriceBookRepo)(nil)

// entryKind orders price-list entries: contract prices beat list prices.
const (
	kindContract  = "CONTRACT"
	kindPriceList = "PRICELIST"
)

// priceListEntry is one row of the price book.
type priceListEntry struct {
	Kind      string          `db:"kind"`
	Price     decimal.Decimal `db:"price"`
	Condition *string         `db:"condition"`
	Priority  int             `db:"priority"`
}

// PriceBookRepo resolves prices from the database, covering the remote
// steps of the waterfall. Applicability conditions on price-list entries
// are CEL expressions compiled on first use and cached for the process
// lifetime.
type PriceBookRepo struct {
	txManager *postgres.TxManager
	log       *logger.Logger

	rulesMu sync.Mutex
	rules   map[string]*pricing.Rule
	broken  map[string]struct{}
}

// NewPriceBookRepo creates the price book repository.
func NewPriceBookRepo(txManager *postgres.TxManager, log *logger.Logger) *PriceBookRepo {
	return &PriceBookRepo{
		txManager: txManager,
		log:       log.WithComponent("pricebook"),
		rules:     make(map[string]*pricing.Rule),
		broken:    make(map[string]struct{}),
	}
}

func (r *PriceBookRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// CustomerProductPrice walks the remote sources in waterfall order and
// returns the first hit, or (nil, nil) when none applies.
func (r *PriceBookRepo) CustomerProductPrice(ctx context.Context, req pricing.LookupRequest) (*pricing.LookupResult, error) {
	if req.CustomerID != "" {
		if res, err := r.historyPrice(ctx, req); err != nil || res != nil {
			return res, err
		}
		if res, err := r.customPrice(ctx, req); err != nil || res != nil {
			return res, err
		}
	}
	return r.priceListPrice(ctx, req)
}

// historyPrice returns the price of the most recent prior sale of this
// product to this customer.
func (r *PriceBookRepo) historyPrice(ctx context.Context, req pricing.LookupRequest) (*pricing.LookupResult, error) {
	q := r.builder().
		Select("unit_price").
		From("sale_history").
		Where(squirrel.Eq{"customer_id": req.CustomerID}).
		Where(squirrel.Eq{"product_id": req.ProductID}).
		OrderBy("sold_at DESC").
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build history query: %w", err)
	}

	var price decimal.Decimal
	err = pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &price, sql, args...)
	if pgxscan.NotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("history price: %w", err)
	}

	return &pricing.LookupResult{Price: price, Source: pricing.SourceHistory}, nil
}

// customPrice returns a price negotiated for this specific customer.
func (r *PriceBookRepo) customPrice(ctx context.Context, req pricing.LookupRequest) (*pricing.LookupResult, error) {
	q := r.builder().
		Select("price").
		From("customer_prices").
		Where(squirrel.Eq{"customer_id": req.CustomerID}).
		Where(squirrel.Eq{"product_id": req.ProductID}).
		Where("valid_from <= now()").
		Where("(valid_to IS NULL OR valid_to > now())").
		OrderBy("valid_from DESC").
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build custom price query: %w", err)
	}

	var price decimal.Decimal
	err = pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &price, sql, args...)
	if pgxscan.NotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("custom price: %w", err)
	}

	return &pricing.LookupResult{Price: price, Source: pricing.SourceCustom}, nil
}

// priceListPrice returns the best applicable contract or price-list entry.
// Entries are ordered contract-first, then by priority; the first one whose
// condition evaluates true for this customer wins.
func (r *PriceBookRepo) priceListPrice(ctx context.Context, req pricing.LookupRequest) (*pricing.LookupResult, error) {
	q := r.builder().
		Select("kind", "price", "condition", "priority").
		From("price_list_entries").
		Where(squirrel.Eq{"product_id": req.ProductID}).
		Where("valid_from <= now()").
		Where("(valid_to IS NULL OR valid_to > now())").
		OrderBy("CASE kind WHEN 'CONTRACT' THEN 0 ELSE 1 END", "priority ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build price list query: %w", err)
	}

	var entries []priceListEntry
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("price list entries: %w", err)
	}

	for _, e := range entries {
		ok, err := r.entryApplies(ctx, e, req)
		if err != nil {
			// Malformed condition disables its entry, not the lookup.
			r.log.WithContext(ctx).Warnw("skipping price list entry",
				"product_id", req.ProductID,
				"error", err,
			)
			continue
		}
		if !ok {
			continue
		}

		source := pricing.SourcePriceList
		if e.Kind == kindContract {
			source = pricing.SourceContract
		}
		return &pricing.LookupResult{Price: e.Price, Source: source}, nil
	}

	return nil, nil
}

// entryApplies evaluates the entry's condition, if any.
func (r *PriceBookRepo) entryApplies(ctx context.Context, e priceListEntry, req pricing.LookupRequest) (bool, error) {
	if e.Condition == nil || *e.Condition == "" {
		return true, nil
	}

	rule, err := r.compiledRule(*e.Condition)
	if err != nil {
		return false, err
	}

	return rule.Applies(req.Tier, req.Channel, req.Quantity)
}

// compiledRule returns the cached compiled condition, compiling it on first
// use. Conditions that fail to compile are remembered so they are not
// recompiled on every lookup.
func (r *PriceBookRepo) compiledRule(expr string) (*pricing.Rule, error) {
	r.rulesMu.Lock()
	defer r.rulesMu.Unlock()

	if rule, ok := r.rules[expr]; ok {
		return rule, nil
	}
	if _, ok := r.broken[expr]; ok {
		return nil, fmt.Errorf("condition %q previously failed to compile", expr)
	}

	rule, err := pricing.CompileRule(expr)
	if err != nil {
		r.broken[expr] = struct{}{}
		return nil, err
	}

	r.rules[expr] = rule
	return rule, nil
}

// RecordSale appends a sale to the history so the next resolution for the
// same pair starts from this price.
func (r *PriceBookRepo) RecordSale(ctx context.Context, customerID, productID string, unitPrice decimal.Decimal) error {
	q := r.builder().
		Insert("sale_history").
		Columns("customer_id", "product_id", "unit_price", "sold_at").
		Values(customerID, productID, unitPrice, squirrel.Expr("now()"))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build record sale: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("record sale: %w", err)
	}
	return nil
}
