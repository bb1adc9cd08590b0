package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"tilepos/internal/core/apperror"
	"tilepos/pkg/logger"
)

// Lookup consults the remote price sources covering waterfall steps 1-3:
// prior sale history, customer-specific prices, contract and price-list
// entries. Implementations return (nil, nil) when no source applies.
// Any transport failure is reported as an error; the resolver degrades it
// to "not found" and continues.
type Lookup interface {
	CustomerProductPrice(ctx context.Context, req LookupRequest) (*LookupResult, error)
}

// LookupRequest identifies the product/customer pair being priced.
// Quantity lets price-list applicability rules see the ordered volume;
// it is the quantity at line creation, quantity edits never re-resolve.
type LookupRequest struct {
	CustomerID string
	ProductID  string
	Channel    Channel
	Tier       string
	Quantity   decimal.Decimal
}

// LookupResult is a price found by one of the remote sources.
type LookupResult struct {
	Price  decimal.Decimal
	Source Source
}

// DefaultLookupTimeout bounds each remote lookup; past it the waterfall
// proceeds to the margin/base fallbacks as if nothing was found.
const DefaultLookupTimeout = 3 * time.Second

// Resolver runs the waterfall. It is safe for concurrent use; resolutions
// for different lines are independent.
type Resolver struct {
	lookup   Lookup
	settings Settings
	timeout  time.Duration
	log      *logger.Logger
}

// ResolverOption customizes a Resolver.
type ResolverOption func(*Resolver)

// WithLookupTimeout overrides the per-call lookup timeout.
func WithLookupTimeout(d time.Duration) ResolverOption {
	return func(r *Resolver) { r.timeout = d }
}

// NewResolver creates a Resolver. lookup may be nil when remote sources are
// not wired (offline mode); the waterfall then starts at the margin step.
func NewResolver(lookup Lookup, settings Settings, log *logger.Logger, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		lookup:   lookup,
		settings: settings,
		timeout:  DefaultLookupTimeout,
		log:      log.WithComponent("pricing"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve walks the waterfall, first match wins:
//
//  1. prior-sale history price for this exact product/customer pair
//  2. customer-specific custom price
//  3. contract / price-list entry applying to the customer's tier
//  4. margin-adjusted purchase cost for the customer's channel
//  5. the product's listed base price (zero is valid but suspicious)
//  6. NOT_FOUND, price zero, when literally nothing resolves
//
// Steps 1-3 are one remote call; a failure or timeout there is logged and
// treated as "no source found", never propagated. Manual free-text lines
// bypass Resolve entirely and are tagged MANUAL by the cart.
func (r *Resolver) Resolve(ctx context.Context, product Product, customer *Customer, quantity decimal.Decimal) Resolution {
	if customer != nil && r.lookup != nil {
		if res := r.remoteLookup(ctx, product, customer, quantity); res != nil {
			return *res
		}
	}

	channel := ChannelRetail
	if customer != nil {
		channel = customer.Channel
	}
	if product.PurchasePrice.IsPositive() {
		if m, ok := r.settings.Margin(channel); ok {
			return Resolution{
				UnitPrice: ApplyMargin(product.PurchasePrice, m),
				Source:    marginSource(channel),
			}
		}
	}

	if product.BasePrice.Valid {
		if product.BasePrice.Decimal.IsZero() {
			logger.Warn(ctx, "base price is zero",
				"product_id", product.ID,
			)
		}
		return Resolution{UnitPrice: product.BasePrice.Decimal, Source: SourceBase}
	}

	return Resolution{UnitPrice: decimal.Zero, Source: SourceNotFound}
}

func (r *Resolver) remoteLookup(ctx context.Context, product Product, customer *Customer, quantity decimal.Decimal) *Resolution {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.lookup.CustomerProductPrice(ctx, LookupRequest{
		CustomerID: customer.ID.String(),
		ProductID:  product.ID.String(),
		Channel:    customer.Channel,
		Tier:       customer.Tier,
		Quantity:   quantity,
	})
	if err != nil {
		// Source unavailable, not fatal: fall through the waterfall.
		appErr := classifyLookupError(err)
		r.log.WithContext(ctx).Warnw("price lookup failed",
			"product_id", product.ID,
			"customer_id", customer.ID,
			"code", appErr.Code,
			"error", appErr,
		)
		return nil
	}
	if res == nil {
		return nil
	}

	switch res.Source {
	case SourceHistory, SourceCustom, SourceContract, SourcePriceList:
		return &Resolution{UnitPrice: res.Price, Source: res.Source}
	default:
		// A lookup must not short-circuit the margin/base fallbacks with a
		// weaker tag than it claims.
		r.log.WithContext(ctx).Warnw("price lookup returned unexpected source",
			"source", res.Source,
		)
		return nil
	}
}

// classifyLookupError tags a failed remote lookup with the platform error
// code so logs carry TIMEOUT_ERROR or PRICE_SOURCE_UNAVAILABLE instead of a
// raw transport error.
func classifyLookupError(err error) *apperror.AppError {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperror.NewTimeout("price lookup", err)
	}
	return apperror.NewPriceUnavailable("lookup", err)
}
