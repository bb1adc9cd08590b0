package dto

import (
	"github.com/shopspring/decimal"

	"tilepos/internal/domain/pricing"
)

// --- Request DTOs ---

// ResolvePriceRequest asks for a price preview without touching a cart.
type ResolvePriceRequest struct {
	ProductID  string          `json:"productId" binding:"required"`
	CustomerID *string         `json:"customerId"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// SetMarginRequest configures one channel's margin.
type SetMarginRequest struct {
	Channel string          `json:"channel" binding:"required"`
	Value   decimal.Decimal `json:"value"`
	Type    string          `json:"type" binding:"required"`
}

// --- Response DTOs ---

// ResolutionResponse is the outcome of a price resolution.
type ResolutionResponse struct {
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	PriceSource string          `json:"priceSource"`
}

// FromResolution maps a resolution to the response DTO.
func FromResolution(r pricing.Resolution) ResolutionResponse {
	return ResolutionResponse{
		UnitPrice:   r.UnitPrice,
		PriceSource: string(r.Source),
	}
}

// MarginResponse is one channel's margin configuration.
type MarginResponse struct {
	Channel string          `json:"channel"`
	Value   decimal.Decimal `json:"value"`
	Type    string          `json:"type"`
}

// FromSettings maps margin settings to response DTOs.
func FromSettings(s pricing.Settings) []MarginResponse {
	out := make([]MarginResponse, 0, len(s.Margins))
	for ch, m := range s.Margins {
		out = append(out, MarginResponse{
			Channel: string(ch),
			Value:   m.Value,
			Type:    string(m.Type),
		})
	}
	return out
}
