package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tilepos/internal/core/apperror"
	"tilepos/internal/core/id"
	"tilepos/internal/domain/cart"
	"tilepos/internal/domain/units"
	"tilepos/internal/infrastructure/http/v1/dto"
)

// CartHandler exposes the cart operations.
type CartHandler struct {
	*BaseHandler
	service *cart.Service
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(base *BaseHandler, service *cart.Service) *CartHandler {
	return &CartHandler{BaseHandler: base, service: service}
}

// RegisterRoutes wires cart endpoints onto the group.
func (h *CartHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.GET("/:id/totals", h.Totals)
	rg.GET("/:id/history", h.History)
	rg.DELETE("/:id", h.Close)
	rg.POST("/:id/lines", h.AddLine)
	rg.POST("/:id/lines/manual", h.AddManualLine)
	rg.PATCH("/:id/lines/:lineId", h.EditLine)
	rg.PUT("/:id/lines/:lineId/price", h.SetLinePrice)
	rg.DELETE("/:id/lines/:lineId", h.RemoveLine)
}

// Create handles POST /carts.
func (h *CartHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateCartRequest
	if !h.BindJSON(c, &req) {
		return
	}

	var customerID *id.ID
	if req.CustomerID != nil {
		parsed, err := id.Parse(*req.CustomerID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid customerId format"))
			return
		}
		customerID = &parsed
	}

	created, err := h.service.Create(ctx, customerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromCart(created))
}

// Get handles GET /carts/:id.
func (h *CartHandler) Get(c *gin.Context) {
	cartID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	snapshot, err := h.service.Get(c.Request.Context(), cartID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromCart(snapshot))
}

// Totals handles GET /carts/:id/totals.
func (h *CartHandler) Totals(c *gin.Context) {
	cartID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	totals, err := h.service.Totals(c.Request.Context(), cartID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromTotals(totals))
}

// History handles GET /carts/:id/history. Journal entries survive cart
// close, so history stays readable for audited carts.
func (h *CartHandler) History(c *gin.Context) {
	cartID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	limit := h.ParseIntQuery(c, "limit", 50)
	records, err := h.service.History(c.Request.Context(), cartID, limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromJournalRecords(records))
}

// Close handles DELETE /carts/:id.
func (h *CartHandler) Close(c *gin.Context) {
	cartID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Close(c.Request.Context(), cartID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// AddLine handles POST /carts/:id/lines.
func (h *CartHandler) AddLine(c *gin.Context) {
	cartID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req dto.AddLineRequest
	if !h.BindJSON(c, &req) {
		return
	}

	productID, err := id.Parse(req.ProductID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid productId format"))
		return
	}

	line, err := h.service.AddLine(c.Request.Context(), cartID, productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromLineItem(line))
}

// AddManualLine handles POST /carts/:id/lines/manual.
func (h *CartHandler) AddManualLine(c *gin.Context) {
	cartID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req dto.AddManualLineRequest
	if !h.BindJSON(c, &req) {
		return
	}

	unit := units.Piece
	if req.Unit != "" {
		parsed, err := units.Parse(req.Unit)
		if err != nil {
			h.Error(c, err)
			return
		}
		unit = parsed
	}

	line, err := h.service.AddManualLine(c.Request.Context(), cartID, req.Name, req.Quantity, unit, req.UnitPrice)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromLineItem(line))
}

// EditLine handles PATCH /carts/:id/lines/:lineId.
func (h *CartHandler) EditLine(c *gin.Context) {
	cartID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	lineID, ok := h.pathID(c, "lineId")
	if !ok {
		return
	}

	var req dto.EditLineRequest
	if !h.BindJSON(c, &req) {
		return
	}

	edit, err := req.ToEdit()
	if err != nil {
		h.Error(c, err)
		return
	}

	line, err := h.service.EditLine(c.Request.Context(), cartID, lineID, edit)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromLineItem(line))
}

// SetLinePrice handles PUT /carts/:id/lines/:lineId/price.
func (h *CartHandler) SetLinePrice(c *gin.Context) {
	cartID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	lineID, ok := h.pathID(c, "lineId")
	if !ok {
		return
	}

	var req dto.SetLinePriceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	line, err := h.service.SetLinePrice(c.Request.Context(), cartID, lineID, req.UnitPrice)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromLineItem(line))
}

// RemoveLine handles DELETE /carts/:id/lines/:lineId.
func (h *CartHandler) RemoveLine(c *gin.Context) {
	cartID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	lineID, ok := h.pathID(c, "lineId")
	if !ok {
		return
	}

	if err := h.service.RemoveLine(c.Request.Context(), cartID, lineID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

func (h *CartHandler) pathID(c *gin.Context, param string) (id.ID, bool) {
	parsed, err := id.Parse(c.Param(param))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid "+param+" format"))
		return id.Nil(), false
	}
	return parsed, true
}
