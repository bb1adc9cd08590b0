package cart

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tilepos/internal/core/apperror"
	"tilepos/internal/core/id"
	"tilepos/internal/domain"
	"tilepos/internal/domain/catalogs/customer"
	"tilepos/internal/domain/catalogs/product"
	"tilepos/internal/domain/lineitem"
	"tilepos/internal/domain/packaging"
	"tilepos/internal/domain/pricing"
	"tilepos/internal/domain/units"
	"tilepos/pkg/logger"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// --- in-memory fixtures ---

type noopTx struct{}

func (noopTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memRepo[T interface {
	Validate(ctx context.Context) error
}] struct {
	byID map[id.ID]T
}

func (r *memRepo[T]) Create(ctx context.Context, e T) error        { return nil }
func (r *memRepo[T]) Update(ctx context.Context, e T) error        { return nil }
func (r *memRepo[T]) GetByCode(ctx context.Context, c string) (T, error) {
	var zero T
	return zero, apperror.NewNotFound("entity", c)
}
func (r *memRepo[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	if e, ok := r.byID[entityID]; ok {
		return e, nil
	}
	var zero T
	return zero, apperror.NewNotFound("entity", entityID.String())
}
func (r *memRepo[T]) SetDeletionMark(ctx context.Context, entityID id.ID, m bool) error { return nil }
func (r *memRepo[T]) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[T], error) {
	return domain.ListResult[T]{}, nil
}
func (r *memRepo[T]) ExistsByCode(ctx context.Context, c string) (bool, error) { return false, nil }

type memJournal struct {
	entries []string
	records []JournalRecord
}

func (j *memJournal) RecordLine(ctx context.Context, cartID id.ID, action string, line lineitem.LineItem) error {
	j.entries = append(j.entries, action)
	j.records = append(j.records, JournalRecord{
		LineID:     line.ID,
		ProductID:  line.ProductID,
		Action:     action,
		Line:       line,
		RecordedAt: time.Now().UTC(),
	})
	return nil
}

func (j *memJournal) CartHistory(ctx context.Context, cartID id.ID, limit int) ([]JournalRecord, error) {
	var out []JournalRecord
	for i := len(j.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, j.records[i])
	}
	return out, nil
}

type fixture struct {
	svc      *Service
	journal  *memJournal
	tile     *product.Product
	glue     *product.Product
	customer *customer.Customer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	tile := product.NewProduct("T6060", "Carrelage 60x60 gris")
	tile.RawPiecesPerCarton = d("1.44") // legacy area-per-carton defect
	tile.CartonsPerPalette = d("36")
	tile.PurchasePrice = d("500")
	tile.BasePrice = decimal.NewNullDecimal(d("700"))

	glue := product.NewProduct("GLU25", "Colle carrelage 25kg")
	glue.BasePrice = decimal.NewNullDecimal(d("120"))

	cust := customer.NewCustomer("C001", "Batimat SARL", pricing.ChannelRetail)

	products := product.NewService(&memRepo[*product.Product]{
		byID: map[id.ID]*product.Product{tile.ID: tile, glue.ID: glue},
	}, noopTx{})
	customers := customer.NewService(&memRepo[*customer.Customer]{
		byID: map[id.ID]*customer.Customer{cust.ID: cust},
	}, noopTx{})

	settings := pricing.Settings{Margins: map[pricing.Channel]pricing.MarginSetting{
		pricing.ChannelRetail: {Value: d("20"), Type: pricing.MarginPercent},
	}}
	resolver := pricing.NewResolver(nil, settings, logger.Default())

	journal := &memJournal{}
	svc := NewService(products, customers, resolver, journal, packaging.DefaultConfig(), logger.Default())

	return &fixture{svc: svc, journal: journal, tile: tile, glue: glue, customer: cust}
}

func TestAddLine_SeedsAndPrices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.svc.Create(ctx, &f.customer.ID)
	require.NoError(t, err)

	line, err := f.svc.AddLine(ctx, c.ID, f.tile.ID)
	require.NoError(t, err)

	// Packaging normalized: 1.44 reinterpreted as 4 pieces of 0.36 m².
	assert.True(t, line.Packaging.PiecesPerCarton.Equal(d("4")), "piecesPerCarton %s", line.Packaging.PiecesPerCarton)
	assert.True(t, line.Packaging.SqmPerPiece.Equal(d("0.36")), "sqmPerPiece %s", line.Packaging.SqmPerPiece)
	assert.False(t, line.Packaging.Estimated)

	// Seeded at 1 m², priced by retail margin (no remote lookup wired).
	assert.Equal(t, units.Area, line.Unit)
	assert.True(t, line.Quantity.Equal(d("1")))
	assert.Equal(t, pricing.SourceMarginRetail, line.PriceSource)
	assert.True(t, line.UnitPrice.Equal(d("600")), "unitPrice %s", line.UnitPrice)
	assert.True(t, line.LineTotal.Equal(d("600")), "lineTotal %s", line.LineTotal)
}

func TestAddLine_UnknownProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.svc.Create(ctx, nil)
	require.NoError(t, err)

	_, err = f.svc.AddLine(ctx, c.ID, id.New())
	assert.True(t, apperror.IsNotFound(err), "expected not found, got %v", err)
}

func TestEditLine_CascadesAndJournals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, _ := f.svc.Create(ctx, nil)
	line, err := f.svc.AddLine(ctx, c.ID, f.tile.ID)
	require.NoError(t, err)

	got, err := f.svc.EditLine(ctx, c.ID, line.ID, lineitem.Edit{
		Field: lineitem.FieldPallets,
		Value: d("2"),
	})
	require.NoError(t, err)

	assert.True(t, got.Cartons.Equal(d("72")), "cartons %s", got.Cartons)
	assert.True(t, got.Quantity.Equal(d("103.68")), "quantity %s", got.Quantity)
	assert.Equal(t, []string{ActionAdd, ActionEdit}, f.journal.entries)
}

func TestHistory_ReadsBackJournal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, _ := f.svc.Create(ctx, nil)
	line, err := f.svc.AddLine(ctx, c.ID, f.tile.ID)
	require.NoError(t, err)

	edited, err := f.svc.EditLine(ctx, c.ID, line.ID, lineitem.Edit{
		Field: lineitem.FieldCartons,
		Value: d("3"),
	})
	require.NoError(t, err)

	records, err := f.svc.History(ctx, c.ID, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first: the edit snapshot precedes the add snapshot.
	assert.Equal(t, ActionEdit, records[0].Action)
	assert.Equal(t, ActionAdd, records[1].Action)
	assert.Equal(t, line.ID, records[0].LineID)
	assert.True(t, records[0].Line.Quantity.Equal(edited.Quantity))
	assert.True(t, records[1].Line.Quantity.Equal(line.Quantity))
}

func TestHistory_SurvivesClose(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, _ := f.svc.Create(ctx, nil)
	_, err := f.svc.AddLine(ctx, c.ID, f.tile.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.Close(ctx, c.ID))

	records, err := f.svc.History(ctx, c.ID, 10)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestEditLine_RejectsNegativeValue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, _ := f.svc.Create(ctx, nil)
	line, _ := f.svc.AddLine(ctx, c.ID, f.tile.ID)

	_, err := f.svc.EditLine(ctx, c.ID, line.ID, lineitem.Edit{
		Field: lineitem.FieldQuantity,
		Value: d("-1"),
	})
	require.Error(t, err)
}

func TestManualLine_BypassesWaterfall(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, _ := f.svc.Create(ctx, nil)
	line, err := f.svc.AddManualLine(ctx, c.ID, "Livraison chantier", d("1"), units.Piece, d("40"))
	require.NoError(t, err)

	assert.True(t, line.Manual)
	assert.Equal(t, pricing.SourceManual, line.PriceSource)
	assert.True(t, line.UnitPrice.Equal(d("40")))
}

func TestTotals_ReduceOverLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, _ := f.svc.Create(ctx, nil)
	tileLine, _ := f.svc.AddLine(ctx, c.ID, f.tile.ID)
	_, err := f.svc.EditLine(ctx, c.ID, tileLine.ID, lineitem.Edit{
		Field: lineitem.FieldCartons,
		Value: d("72"),
	})
	require.NoError(t, err)
	_, err = f.svc.AddManualLine(ctx, c.ID, "Livraison", d("1"), units.Piece, d("40"))
	require.NoError(t, err)

	totals, err := f.svc.Totals(ctx, c.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, totals.Lines)
	assert.True(t, totals.Cartons.Equal(d("72")), "cartons %s", totals.Cartons)
	assert.True(t, totals.Pallets.Equal(d("2")), "pallets %s", totals.Pallets)
	// 288 tile pieces + 1 manual piece.
	assert.True(t, totals.Pieces.Equal(d("289")), "pieces %s", totals.Pieces)
	assert.True(t, totals.Area.Equal(d("103.68")), "area %s", totals.Area)
	// 103.68 m² * 600 + 40.
	assert.True(t, totals.Amount.Equal(d("62248")), "amount %s", totals.Amount)
}

func TestRemoveLine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, _ := f.svc.Create(ctx, nil)
	line, _ := f.svc.AddLine(ctx, c.ID, f.glue.ID)

	require.NoError(t, f.svc.RemoveLine(ctx, c.ID, line.ID))

	got, err := f.svc.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Lines)

	err = f.svc.RemoveLine(ctx, c.ID, line.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestSetLinePrice_Override(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, _ := f.svc.Create(ctx, nil)
	line, _ := f.svc.AddLine(ctx, c.ID, f.tile.ID)

	got, err := f.svc.SetLinePrice(ctx, c.ID, line.ID, d("550"))
	require.NoError(t, err)

	assert.Equal(t, pricing.SourceManual, got.PriceSource)
	assert.True(t, got.UnitPrice.Equal(d("550")))
	assert.True(t, got.LineTotal.Equal(d("550")), "lineTotal %s", got.LineTotal)
}
