package pricing

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tilepos/internal/core/apperror"
	"tilepos/internal/core/id"
	"tilepos/pkg/logger"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

type stubLookup struct {
	result *LookupResult
	err    error
	delay  time.Duration
	calls  int
}

func (s *stubLookup) CustomerProductPrice(ctx context.Context, req LookupRequest) (*LookupResult, error) {
	s.calls++
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.result, s.err
}

func retailPercentSettings(v string) Settings {
	return Settings{Margins: map[Channel]MarginSetting{
		ChannelRetail: {Value: d(v), Type: MarginPercent},
	}}
}

func testProduct(purchase, base string) Product {
	p := Product{ID: id.New(), PurchasePrice: d(purchase)}
	if base != "" {
		p.BasePrice = decimal.NewNullDecimal(d(base))
	}
	return p
}

func testCustomer(ch Channel) *Customer {
	return &Customer{ID: id.New(), Channel: ch, Tier: "standard"}
}

func TestApplyMargin(t *testing.T) {
	tests := []struct {
		name     string
		purchase string
		setting  MarginSetting
		want     string
	}{
		{"percent", "500", MarginSetting{Value: d("20"), Type: MarginPercent}, "600"},
		{"amount", "500", MarginSetting{Value: d("50"), Type: MarginAmount}, "550"},
		{"percent rounds half even", "333.33", MarginSetting{Value: d("10"), Type: MarginPercent}, "366.66"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyMargin(d(tt.purchase), tt.setting)
			if !got.Equal(d(tt.want)) {
				t.Errorf("ApplyMargin(%s) = %s, want %s", tt.purchase, got, tt.want)
			}
		})
	}
}

func TestResolve_HistoryHasStrictPriority(t *testing.T) {
	// The lookup already encodes priority: when a history price exists it is
	// returned even if a custom price is also on file. The resolver must
	// surface it as-is.
	lookup := &stubLookup{result: &LookupResult{Price: d("420"), Source: SourceHistory}}
	r := NewResolver(lookup, retailPercentSettings("20"), logger.Default())

	res := r.Resolve(context.Background(), testProduct("500", "700"), testCustomer(ChannelRetail), d("1"))

	assert.Equal(t, SourceHistory, res.Source)
	assert.True(t, res.UnitPrice.Equal(d("420")), "unit price %s", res.UnitPrice)
}

func TestResolve_MarginFallbacks(t *testing.T) {
	tests := []struct {
		name       string
		settings   Settings
		channel    Channel
		wantPrice  string
		wantSource Source
	}{
		{
			"retail percent",
			retailPercentSettings("20"),
			ChannelRetail,
			"600", SourceMarginRetail,
		},
		{
			"wholesale amount",
			Settings{Margins: map[Channel]MarginSetting{
				ChannelWholesale: {Value: d("50"), Type: MarginAmount},
			}},
			ChannelWholesale,
			"550", SourceMarginWholesale,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(&stubLookup{}, tt.settings, logger.Default())
			res := r.Resolve(context.Background(), testProduct("500", "700"), testCustomer(tt.channel), d("1"))

			assert.Equal(t, tt.wantSource, res.Source)
			assert.True(t, res.UnitPrice.Equal(d(tt.wantPrice)), "unit price %s", res.UnitPrice)
		})
	}
}

func TestResolve_LookupFailureFallsThrough(t *testing.T) {
	lookup := &stubLookup{err: errors.New("connection refused")}
	r := NewResolver(lookup, retailPercentSettings("20"), logger.Default())

	res := r.Resolve(context.Background(), testProduct("500", "700"), testCustomer(ChannelRetail), d("1"))

	require.Equal(t, 1, lookup.calls)
	assert.Equal(t, SourceMarginRetail, res.Source)
	assert.True(t, res.UnitPrice.Equal(d("600")), "unit price %s", res.UnitPrice)
}

func TestResolve_LookupTimeoutFallsThrough(t *testing.T) {
	lookup := &stubLookup{
		result: &LookupResult{Price: d("420"), Source: SourceHistory},
		delay:  200 * time.Millisecond,
	}
	r := NewResolver(lookup, retailPercentSettings("20"), logger.Default(),
		WithLookupTimeout(10*time.Millisecond))

	res := r.Resolve(context.Background(), testProduct("500", "700"), testCustomer(ChannelRetail), d("1"))

	assert.Equal(t, SourceMarginRetail, res.Source)
}

func TestClassifyLookupError(t *testing.T) {
	timeout := classifyLookupError(context.DeadlineExceeded)
	assert.Equal(t, apperror.CodeTimeout, timeout.Code)

	wrapped := classifyLookupError(fmt.Errorf("dial price service: %w", context.DeadlineExceeded))
	assert.Equal(t, apperror.CodeTimeout, wrapped.Code)

	transport := classifyLookupError(errors.New("connection refused"))
	assert.Equal(t, apperror.CodePriceUnavailable, transport.Code)
	assert.Equal(t, "connection refused", errors.Unwrap(transport).Error())
}

func TestResolve_BasePrice(t *testing.T) {
	t.Run("no margin configured", func(t *testing.T) {
		r := NewResolver(&stubLookup{}, Settings{}, logger.Default())
		res := r.Resolve(context.Background(), testProduct("500", "700"), testCustomer(ChannelRetail), d("1"))

		assert.Equal(t, SourceBase, res.Source)
		assert.True(t, res.UnitPrice.Equal(d("700")))
	})

	t.Run("no purchase cost", func(t *testing.T) {
		r := NewResolver(&stubLookup{}, retailPercentSettings("20"), logger.Default())
		res := r.Resolve(context.Background(), testProduct("0", "700"), testCustomer(ChannelRetail), d("1"))

		assert.Equal(t, SourceBase, res.Source)
	})

	t.Run("zero base price is valid", func(t *testing.T) {
		r := NewResolver(&stubLookup{}, Settings{}, logger.Default())
		res := r.Resolve(context.Background(), testProduct("0", "0"), nil, d("1"))

		assert.Equal(t, SourceBase, res.Source)
		assert.True(t, res.UnitPrice.IsZero())
	})
}

func TestResolve_NotFound(t *testing.T) {
	r := NewResolver(&stubLookup{}, Settings{}, logger.Default())
	res := r.Resolve(context.Background(), Product{ID: id.New()}, nil, d("1"))

	assert.Equal(t, SourceNotFound, res.Source)
	assert.True(t, res.UnitPrice.IsZero())
}

func TestResolve_NoCustomerSkipsLookup(t *testing.T) {
	lookup := &stubLookup{result: &LookupResult{Price: d("420"), Source: SourceHistory}}
	r := NewResolver(lookup, retailPercentSettings("20"), logger.Default())

	res := r.Resolve(context.Background(), testProduct("500", "700"), nil, d("1"))

	assert.Equal(t, 0, lookup.calls)
	// Anonymous walk-in defaults to the retail channel.
	assert.Equal(t, SourceMarginRetail, res.Source)
}
