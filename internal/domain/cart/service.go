package cart

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"tilepos/internal/core/apperror"
	"tilepos/internal/core/id"
	"tilepos/internal/core/types"
	"tilepos/internal/domain/catalogs/customer"
	"tilepos/internal/domain/catalogs/product"
	"tilepos/internal/domain/lineitem"
	"tilepos/internal/domain/packaging"
	"tilepos/internal/domain/pricing"
	"tilepos/internal/domain/units"
	"tilepos/pkg/logger"
)

// Journal records settled line states for traceability and reads them back
// as a cart's edit history. Recording is best-effort: a journal failure
// never blocks a sale.
type Journal interface {
	RecordLine(ctx context.Context, cartID id.ID, action string, line lineitem.LineItem) error
	CartHistory(ctx context.Context, cartID id.ID, limit int) ([]JournalRecord, error)
}

// JournalRecord is one read-back entry from the edit journal: the action
// that settled the line plus the full line snapshot at that moment.
type JournalRecord struct {
	LineID     id.ID             `json:"lineId"`
	ProductID  id.ID             `json:"productId"`
	Action     string            `json:"action"`
	SessionID  string            `json:"sessionId,omitempty"`
	TerminalID string            `json:"terminalId,omitempty"`
	Line       lineitem.LineItem `json:"line"`
	RecordedAt time.Time         `json:"recordedAt"`
}

// Journal actions.
const (
	ActionAdd    = "add"
	ActionEdit   = "edit"
	ActionRemove = "remove"
)

const defaultHistoryLimit = 50

// Service manages in-memory session carts. Cart state itself is not
// persisted; products, customers and price books live in the database.
//
// Each cart serializes its operations on its own mutex: a price resolution
// in flight always completes before the next quantity edit is accepted, so
// a line total never transiently mixes a new quantity with a stale price.
type Service struct {
	mu    sync.RWMutex
	carts map[id.ID]*state

	products  *product.Service
	customers *customer.Service
	resolver  *pricing.Resolver
	journal   Journal
	pkgCfg    packaging.Config
	log       *logger.Logger
}

type state struct {
	mu       sync.Mutex
	cart     Cart
	customer *pricing.Customer
}

// NewService creates a cart service. journal may be nil.
func NewService(
	products *product.Service,
	customers *customer.Service,
	resolver *pricing.Resolver,
	journal Journal,
	pkgCfg packaging.Config,
	log *logger.Logger,
) *Service {
	return &Service{
		carts:     make(map[id.ID]*state),
		products:  products,
		customers: customers,
		resolver:  resolver,
		journal:   journal,
		pkgCfg:    pkgCfg,
		log:       log.WithComponent("cart"),
	}
}

// Create opens a new cart, optionally bound to a customer. The customer's
// pricing context is captured once here; changing it later re-enters pricing
// for every line.
func (s *Service) Create(ctx context.Context, customerID *id.ID) (Cart, error) {
	var pc *pricing.Customer
	if customerID != nil {
		cust, err := s.customers.GetByID(ctx, *customerID)
		if err != nil {
			return Cart{}, err
		}
		v := cust.PricingCustomer()
		pc = &v
	}

	st := &state{
		cart: Cart{
			ID:         id.New(),
			CustomerID: customerID,
			CreatedAt:  time.Now().UTC(),
		},
		customer: pc,
	}

	s.mu.Lock()
	s.carts[st.cart.ID] = st
	s.mu.Unlock()

	return st.cart, nil
}

// Get returns a snapshot of the cart.
func (s *Service) Get(ctx context.Context, cartID id.ID) (Cart, error) {
	st, err := s.state(cartID)
	if err != nil {
		return Cart{}, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	return snapshot(st.cart), nil
}

// AddLine seeds a line for a product: canonical packaging is established
// once, the line starts at quantity 1 in the policy default unit, and the
// price waterfall runs to completion before the line is visible to edits.
func (s *Service) AddLine(ctx context.Context, cartID, productID id.ID) (lineitem.LineItem, error) {
	st, err := s.state(cartID)
	if err != nil {
		return lineitem.LineItem{}, err
	}

	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return lineitem.LineItem{}, err
	}

	pkg := p.Packaging(s.pkgCfg)
	if pkg.Estimated {
		s.log.WithContext(ctx).Warnw("packaging data missing, using fallback",
			"product_id", p.ID,
			"pieces_per_carton", pkg.PiecesPerCarton,
		)
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	line := lineitem.New(p.ID, p.Code, p.Name, p.BrandName(), pkg)
	res := s.resolver.Resolve(ctx, p.PricingProduct(), st.customer, line.Quantity)
	line = line.WithPrice(res)

	st.cart.Lines = append(st.cart.Lines, line)
	s.record(ctx, st.cart.ID, ActionAdd, line)
	return line, nil
}

// AddManualLine appends a free-text line with an operator-typed price.
// It bypasses the price waterfall entirely and is tagged MANUAL.
func (s *Service) AddManualLine(ctx context.Context, cartID id.ID, name string, qty decimal.Decimal, unit units.Kind, unitPrice types.Money) (lineitem.LineItem, error) {
	if name == "" {
		return lineitem.LineItem{}, apperror.NewValidation("manual line name is required").
			WithDetail("field", "name")
	}
	if !unit.Valid() {
		unit = units.Piece
	}

	st, err := s.state(cartID)
	if err != nil {
		return lineitem.LineItem{}, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	line := lineitem.NewManual(name, qty, unit, unitPrice)
	st.cart.Lines = append(st.cart.Lines, line)
	s.record(ctx, st.cart.ID, ActionAdd, line)
	return line, nil
}

// EditLine applies one edit to one line and returns the settled snapshot.
func (s *Service) EditLine(ctx context.Context, cartID, lineID id.ID, edit lineitem.Edit) (lineitem.LineItem, error) {
	if edit.Field != lineitem.FieldUnit {
		if edit.Value.IsNegative() {
			return lineitem.LineItem{}, apperror.NewValidation("edit value cannot be negative").
				WithDetail("field", string(edit.Field))
		}
	} else if !edit.Unit.Valid() {
		return lineitem.LineItem{}, apperror.NewInvalidInput("unknown unit").
			WithDetail("unit", string(edit.Unit))
	}

	st, err := s.state(cartID)
	if err != nil {
		return lineitem.LineItem{}, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	idx := lineIndex(st.cart.Lines, lineID)
	if idx < 0 {
		return lineitem.LineItem{}, apperror.NewNotFound("line", lineID.String())
	}

	line := lineitem.ApplyEdit(st.cart.Lines[idx], edit)
	st.cart.Lines[idx] = line
	s.record(ctx, st.cart.ID, ActionEdit, line)
	return line, nil
}

// SetLinePrice applies a manual price override to a line.
func (s *Service) SetLinePrice(ctx context.Context, cartID, lineID id.ID, unitPrice types.Money) (lineitem.LineItem, error) {
	if unitPrice.IsNegative() {
		return lineitem.LineItem{}, apperror.NewValidation("unit price cannot be negative").
			WithDetail("field", "unitPrice")
	}

	st, err := s.state(cartID)
	if err != nil {
		return lineitem.LineItem{}, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	idx := lineIndex(st.cart.Lines, lineID)
	if idx < 0 {
		return lineitem.LineItem{}, apperror.NewNotFound("line", lineID.String())
	}

	line := st.cart.Lines[idx].WithPrice(pricing.Resolution{
		UnitPrice: unitPrice,
		Source:    pricing.SourceManual,
	})
	st.cart.Lines[idx] = line
	s.record(ctx, st.cart.ID, ActionEdit, line)
	return line, nil
}

// RemoveLine deletes a line from the cart.
func (s *Service) RemoveLine(ctx context.Context, cartID, lineID id.ID) error {
	st, err := s.state(cartID)
	if err != nil {
		return err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	idx := lineIndex(st.cart.Lines, lineID)
	if idx < 0 {
		return apperror.NewNotFound("line", lineID.String())
	}

	removed := st.cart.Lines[idx]
	st.cart.Lines = append(st.cart.Lines[:idx], st.cart.Lines[idx+1:]...)
	s.record(ctx, st.cart.ID, ActionRemove, removed)
	return nil
}

// Totals reduces the cart's settled lines to aggregates.
func (s *Service) Totals(ctx context.Context, cartID id.ID) (Totals, error) {
	st, err := s.state(cartID)
	if err != nil {
		return Totals{}, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	return Reduce(st.cart.Lines), nil
}

// History reads back the cart's edit journal, newest first. The journal
// outlives the in-memory cart, so history stays readable after Close.
func (s *Service) History(ctx context.Context, cartID id.ID, limit int) ([]JournalRecord, error) {
	if s.journal == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.journal.CartHistory(ctx, cartID, limit)
}

// Close discards a cart.
func (s *Service) Close(ctx context.Context, cartID id.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.carts[cartID]; !ok {
		return apperror.NewNotFound("cart", cartID.String())
	}
	delete(s.carts, cartID)
	return nil
}

func (s *Service) state(cartID id.ID) (*state, error) {
	s.mu.RLock()
	st, ok := s.carts[cartID]
	s.mu.RUnlock()
	if !ok {
		return nil, apperror.NewNotFound("cart", cartID.String())
	}
	return st, nil
}

func (s *Service) record(ctx context.Context, cartID id.ID, action string, line lineitem.LineItem) {
	if s.journal == nil {
		return
	}
	if err := s.journal.RecordLine(ctx, cartID, action, line); err != nil {
		s.log.WithContext(ctx).Warnw("journal write failed",
			"cart_id", cartID,
			"line_id", line.ID,
			"error", err,
		)
	}
}

func lineIndex(lines []lineitem.LineItem, lineID id.ID) int {
	for i, li := range lines {
		if li.ID == lineID {
			return i
		}
	}
	return -1
}

func snapshot(c Cart) Cart {
	out := c
	out.Lines = make([]lineitem.LineItem, len(c.Lines))
	copy(out.Lines, c.Lines)
	return out
}
