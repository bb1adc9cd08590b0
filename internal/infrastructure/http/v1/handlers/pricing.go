package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"tilepos/internal/core/apperror"
	"tilepos/internal/core/id"
	"tilepos/internal/domain/catalogs/customer"
	"tilepos/internal/domain/catalogs/product"
	"tilepos/internal/domain/pricing"
	"tilepos/internal/infrastructure/http/v1/dto"
)

// MarginStore persists per-channel margin configuration.
type MarginStore interface {
	Load(ctx context.Context) (pricing.Settings, error)
	Save(ctx context.Context, channel pricing.Channel, m pricing.MarginSetting) error
}

// PricingHandler exposes price preview and margin configuration.
type PricingHandler struct {
	*BaseHandler
	products  *product.Service
	customers *customer.Service
	resolver  *pricing.Resolver
	margins   MarginStore
}

// NewPricingHandler creates a new pricing handler. margins may be nil when
// margin configuration is managed outside the API.
func NewPricingHandler(
	base *BaseHandler,
	products *product.Service,
	customers *customer.Service,
	resolver *pricing.Resolver,
	margins MarginStore,
) *PricingHandler {
	return &PricingHandler{
		BaseHandler: base,
		products:    products,
		customers:   customers,
		resolver:    resolver,
		margins:     margins,
	}
}

// RegisterRoutes wires pricing endpoints onto the group.
func (h *PricingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resolve", h.Resolve)
	if h.margins != nil {
		rg.GET("/margins", h.GetMargins)
		rg.PUT("/margins", h.SetMargin)
	}
}

// Resolve handles POST /pricing/resolve - a price preview without a cart.
func (h *PricingHandler) Resolve(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ResolvePriceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	productID, err := id.Parse(req.ProductID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid productId format"))
		return
	}

	p, err := h.products.GetByID(ctx, productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	var pc *pricing.Customer
	if req.CustomerID != nil {
		customerID, err := id.Parse(*req.CustomerID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid customerId format"))
			return
		}
		cust, err := h.customers.GetByID(ctx, customerID)
		if err != nil {
			h.Error(c, err)
			return
		}
		v := cust.PricingCustomer()
		pc = &v
	}

	res := h.resolver.Resolve(ctx, p.PricingProduct(), pc, req.Quantity)
	h.OK(c, dto.FromResolution(res))
}

// GetMargins handles GET /pricing/margins.
func (h *PricingHandler) GetMargins(c *gin.Context) {
	settings, err := h.margins.Load(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromSettings(settings))
}

// SetMargin handles PUT /pricing/margins.
func (h *PricingHandler) SetMargin(c *gin.Context) {
	var req dto.SetMarginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	channel := pricing.Channel(req.Channel)
	if !channel.Valid() {
		h.Error(c, apperror.NewValidation("invalid channel").WithDetail("channel", req.Channel))
		return
	}

	marginType := pricing.MarginType(req.Type)
	if marginType != pricing.MarginPercent && marginType != pricing.MarginAmount {
		h.Error(c, apperror.NewValidation("invalid margin type").WithDetail("type", req.Type))
		return
	}

	setting := pricing.MarginSetting{Value: req.Value, Type: marginType}
	if err := h.margins.Save(c.Request.Context(), channel, setting); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "margin updated")
}
