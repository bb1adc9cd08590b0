package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"tilepos/internal/core/apperror"
	"tilepos/internal/domain/cart"
	"tilepos/internal/domain/lineitem"
	"tilepos/internal/domain/units"
)

// --- Request DTOs ---

// CreateCartRequest opens a new cart, optionally bound to a customer.
type CreateCartRequest struct {
	CustomerID *string `json:"customerId"`
}

// AddLineRequest adds a catalog product to the cart.
type AddLineRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

// AddManualLineRequest adds a free-text line with an operator-entered price.
type AddManualLineRequest struct {
	Name      string          `json:"name" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	Unit      string          `json:"unit"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// EditLineRequest carries one line edit: exactly one field drives it.
type EditLineRequest struct {
	Field string          `json:"field" binding:"required"`
	Value decimal.Decimal `json:"value"`
	Unit  string          `json:"unit"`
}

// ToEdit converts the request to a calculator edit, normalizing unit aliases.
func (r *EditLineRequest) ToEdit() (lineitem.Edit, error) {
	edit := lineitem.Edit{Value: r.Value}

	switch lineitem.Field(r.Field) {
	case lineitem.FieldPallets, lineitem.FieldCartons, lineitem.FieldQuantity, lineitem.FieldUnit:
		edit.Field = lineitem.Field(r.Field)
	default:
		return edit, apperror.NewValidation("unknown edit field").WithDetail("field", r.Field)
	}

	if r.Unit != "" {
		kind, err := units.Parse(r.Unit)
		if err != nil {
			return edit, err
		}
		edit.Unit = kind
	}

	if edit.Field == lineitem.FieldUnit && edit.Unit == "" {
		return edit, apperror.NewValidation("unit edit requires a unit")
	}

	return edit, nil
}

// SetLinePriceRequest overrides the line's unit price.
type SetLinePriceRequest struct {
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// --- Response DTOs ---

// LineItemResponse is the API representation of a cart line.
type LineItemResponse struct {
	ID          string            `json:"id"`
	ProductID   string            `json:"productId"`
	Code        string            `json:"code"`
	Name        string            `json:"name"`
	Brand       string            `json:"brand,omitempty"`
	Packaging   PackagingResponse `json:"packaging"`
	Pallets     decimal.Decimal   `json:"pallets"`
	Cartons     decimal.Decimal   `json:"cartons"`
	Quantity    decimal.Decimal   `json:"quantity"`
	Unit        string            `json:"unit"`
	UnitPrice   decimal.Decimal   `json:"unitPrice"`
	PriceSource string            `json:"priceSource"`
	LineTotal   decimal.Decimal   `json:"lineTotal"`
	Manual      bool              `json:"manual"`
}

// FromLineItem maps a settled line to the response DTO.
func FromLineItem(li lineitem.LineItem) LineItemResponse {
	return LineItemResponse{
		ID:          li.ID.String(),
		ProductID:   li.ProductID.String(),
		Code:        li.Code,
		Name:        li.Name,
		Brand:       li.Brand,
		Packaging:   FromPackaging(li.Packaging),
		Pallets:     li.Pallets,
		Cartons:     li.Cartons,
		Quantity:    li.Quantity,
		Unit:        string(li.Unit),
		UnitPrice:   li.UnitPrice,
		PriceSource: string(li.PriceSource),
		LineTotal:   li.LineTotal,
		Manual:      li.Manual,
	}
}

// CartResponse is the API representation of a cart.
type CartResponse struct {
	ID         string             `json:"id"`
	CustomerID *string            `json:"customerId,omitempty"`
	Lines      []LineItemResponse `json:"lines"`
	CreatedAt  time.Time          `json:"createdAt"`
}

// FromCart maps a cart snapshot to the response DTO.
func FromCart(c cart.Cart) CartResponse {
	resp := CartResponse{
		ID:        c.ID.String(),
		Lines:     make([]LineItemResponse, len(c.Lines)),
		CreatedAt: c.CreatedAt,
	}
	if c.CustomerID != nil {
		s := c.CustomerID.String()
		resp.CustomerID = &s
	}
	for i, li := range c.Lines {
		resp.Lines[i] = FromLineItem(li)
	}
	return resp
}

// TotalsResponse is the cart aggregate view.
type TotalsResponse struct {
	Pallets decimal.Decimal `json:"pallets"`
	Cartons decimal.Decimal `json:"cartons"`
	Pieces  decimal.Decimal `json:"pieces"`
	Area    decimal.Decimal `json:"area"`
	Amount  decimal.Decimal `json:"amount"`
	Lines   int             `json:"lines"`
}

// FromTotals maps cart totals to the response DTO.
func FromTotals(t cart.Totals) TotalsResponse {
	return TotalsResponse{
		Pallets: t.Pallets,
		Cartons: t.Cartons,
		Pieces:  t.Pieces,
		Area:    t.Area,
		Amount:  t.Amount,
		Lines:   t.Lines,
	}
}

// HistoryRecordResponse is one edit-journal entry read back for a cart.
type HistoryRecordResponse struct {
	LineID     string           `json:"lineId"`
	ProductID  string           `json:"productId"`
	Action     string           `json:"action"`
	SessionID  string           `json:"sessionId,omitempty"`
	TerminalID string           `json:"terminalId,omitempty"`
	Line       LineItemResponse `json:"line"`
	RecordedAt time.Time        `json:"recordedAt"`
}

// CartHistoryResponse is the cart's edit journal, newest first.
type CartHistoryResponse struct {
	Entries []HistoryRecordResponse `json:"entries"`
}

// FromJournalRecords maps read-back journal records to the response DTO.
func FromJournalRecords(records []cart.JournalRecord) CartHistoryResponse {
	out := CartHistoryResponse{Entries: make([]HistoryRecordResponse, 0, len(records))}
	for _, r := range records {
		out.Entries = append(out.Entries, HistoryRecordResponse{
			LineID:     r.LineID.String(),
			ProductID:  r.ProductID.String(),
			Action:     r.Action,
			SessionID:  r.SessionID,
			TerminalID: r.TerminalID,
			Line:       FromLineItem(r.Line),
			RecordedAt: r.RecordedAt,
		})
	}
	return out
}
