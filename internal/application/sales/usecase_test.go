package sales_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinventory "github.com/jhoicas/distribuidora-api/internal/application/inventory"
	"github.com/jhoicas/distribuidora-api/internal/application/sales"
	"github.com/jhoicas/distribuidora-api/internal/domain"
	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/distribuidora-api/internal/domain/repository"
	"github.com/jhoicas/distribuidora-api/internal/infrastructure/memory"
)

const (
	whMain   = "alm-1"
	whAlt    = "alm-2"
	prodRice = "prod-arroz"
	prodOil  = "prod-aceite"
	custCash = "cli-contado"
	custCred = "cli-credito"
)

type harness struct {
	uc     *sales.OrderUseCase
	ledger *appinventory.Ledger
	store  *memory.Store
	repos  repository.Repos
}

func newHarness(t *testing.T) harness {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()

	require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{ID: whMain, Code: "ALM-01", Name: "Principal", Type: entity.WarehouseTypeMain, Active: true}))
	require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{ID: whAlt, Code: "ALM-02", Name: "Sucursal Norte", Type: entity.WarehouseTypeMain, Active: true}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: prodRice, SKU: "ARZ-5KG", Name: "Arroz 5kg", Price: decimal.NewFromInt(10), Active: true}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: prodOil, SKU: "ACE-1L", Name: "Aceite 1L", Price: decimal.NewFromInt(8), Active: true}))
	require.NoError(t, repos.Customers.Create(ctx, &entity.Customer{ID: custCash, Name: "Bodega Rosita", TaxID: "10456789012", Address: "Av. Brasil 123", Active: true}))
	require.NoError(t, repos.Customers.Create(ctx, &entity.Customer{ID: custCred, Name: "Minimarket Sol", TaxID: "20123456789", Address: "Jr. Cusco 45", CreditDays: 15, Active: true}))

	ledger := appinventory.NewLedger(store, repos, zerolog.Nop())
	uc := sales.NewOrderUseCase(store, repos, ledger, sales.Config{DefaultWarehouseID: whMain}, zerolog.Nop())
	return harness{uc: uc, ledger: ledger, store: store, repos: repos}
}

func (h harness) stockIn(t *testing.T, productID string, qty int) {
	t.Helper()
	h.stockInAt(t, whMain, productID, qty)
}

func (h harness) stockInAt(t *testing.T, warehouseID, productID string, qty int) {
	t.Helper()
	_, err := h.ledger.AdjustStock(context.Background(), appinventory.AdjustInput{WarehouseID: warehouseID, ProductID: productID, Quantity: qty})
	require.NoError(t, err)
}

func (h harness) stock(t *testing.T, productID string) *entity.StockRecord {
	t.Helper()
	return h.stockAt(t, whMain, productID)
}

func (h harness) stockAt(t *testing.T, warehouseID, productID string) *entity.StockRecord {
	t.Helper()
	rec, err := h.repos.Stock.Get(context.Background(), productID, warehouseID)
	require.NoError(t, err)
	return rec
}

// deliver entrega la venta como lo hace el envío completado: dentro de una transacción del caller.
func (h harness) deliver(ctx context.Context, orderID string) (*entity.Order, error) {
	var o *entity.Order
	err := h.store.Run(ctx, func(tx repository.Repos) error {
		var err error
		o, err = h.uc.DeliverInTx(ctx, tx, orderID, time.Now())
		return err
	})
	return o, err
}

func (h harness) ship(ctx context.Context, orderID string) (*entity.Order, error) {
	var o *entity.Order
	err := h.store.Run(ctx, func(tx repository.Repos) error {
		var err error
		o, err = h.uc.ShipInTx(ctx, tx, orderID)
		return err
	})
	return o, err
}

func (h harness) draft(t *testing.T, lines ...sales.LineInput) *entity.Order {
	t.Helper()
	o, err := h.uc.Create(context.Background(), sales.CreateOrderInput{CustomerID: custCash, Lines: lines})
	require.NoError(t, err)
	return o
}

func TestCreate_DefaultsAndTotals(t *testing.T) {
	h := newHarness(t)
	now := time.Now()

	o := h.draft(t, sales.LineInput{ProductID: prodRice, Quantity: 2})
	assert.Equal(t, entity.OrderDraft, o.Status)
	assert.Equal(t, entity.DocumentReceipt, o.DocumentType)
	assert.Equal(t, entity.PaymentCash, o.PaymentType)
	assert.Nil(t, o.PaymentDueAt)
	assert.Equal(t, "Av. Brasil 123", o.DeliveryAddress)
	assert.True(t, strings.HasPrefix(o.Number, "V"+now.Format("200601")), o.Number)
	assert.Len(t, o.Number, 1+6+5)
	assert.True(t, strings.HasSuffix(o.Number, "00001"), o.Number)

	require.Len(t, o.Lines, 1)
	assert.True(t, o.Lines[0].UnitPrice.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "20", o.Subtotal.String())
	assert.Equal(t, "3.6", o.Tax.String())
	assert.Equal(t, "23.6", o.Total.String())

	second := h.draft(t, sales.LineInput{ProductID: prodOil, Quantity: 1})
	assert.True(t, strings.HasSuffix(second.Number, "00002"), second.Number)
}

func TestCreate_CreditSetsDueDate(t *testing.T) {
	h := newHarness(t)
	o, err := h.uc.Create(context.Background(), sales.CreateOrderInput{
		CustomerID:  custCred,
		PaymentType: entity.PaymentCredit,
		Lines:       []sales.LineInput{{ProductID: prodRice, Quantity: 1, UnitPrice: decimal.NewFromInt(9)}},
	})
	require.NoError(t, err)
	require.NotNil(t, o.PaymentDueAt)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 15), *o.PaymentDueAt, time.Minute)
	assert.True(t, o.Lines[0].UnitPrice.Equal(decimal.NewFromInt(9)))
}

func TestCreate_Rejections(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.uc.Create(ctx, sales.CreateOrderInput{CustomerID: custCash})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = h.uc.Create(ctx, sales.CreateOrderInput{CustomerID: custCash, Lines: []sales.LineInput{{ProductID: prodRice, Quantity: 0}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = h.uc.Create(ctx, sales.CreateOrderInput{CustomerID: custCash, Lines: []sales.LineInput{{ProductID: "no-existe", Quantity: 1}}})
	assert.ErrorIs(t, err, domain.ErrUnknownProduct)

	_, err = h.uc.Create(ctx, sales.CreateOrderInput{CustomerID: "no-existe", Lines: []sales.LineInput{{ProductID: prodRice, Quantity: 1}}})
	assert.ErrorIs(t, err, domain.ErrUnknownEntity)

	orders, err := h.uc.List(ctx, repository.OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestConfirm_AllOrNothing(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.stockIn(t, prodRice, 10)
	h.stockIn(t, prodOil, 1)

	o := h.draft(t,
		sales.LineInput{ProductID: prodRice, Quantity: 5},
		sales.LineInput{ProductID: prodOil, Quantity: 3},
	)
	_, err := h.uc.Confirm(ctx, o.ID, "")
	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, prodOil, ise.ProductID)
	assert.Equal(t, 3, ise.Requested)
	assert.Equal(t, 1, ise.Available)

	// la reserva del arroz no sobrevive al rechazo
	assert.Equal(t, 0, h.stock(t, prodRice).Reserved)
	got, err := h.uc.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderDraft, got.Status)
}

func TestConfirm_AggregatesLinesOfSameProduct(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.stockIn(t, prodRice, 10)

	o := h.draft(t,
		sales.LineInput{ProductID: prodRice, Quantity: 6},
		sales.LineInput{ProductID: prodRice, Quantity: 6},
	)
	_, err := h.uc.Confirm(ctx, o.ID, "")
	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, 12, ise.Requested)
	assert.Equal(t, 10, ise.Available)
}

func TestLifecycle_ReadyConsumesStock(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.stockIn(t, prodRice, 10)

	o := h.draft(t, sales.LineInput{ProductID: prodRice, Quantity: 4})
	o, err := h.uc.Confirm(ctx, o.ID, "")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderConfirmed, o.Status)
	assert.Equal(t, whMain, o.WarehouseID)
	rec := h.stock(t, prodRice)
	assert.Equal(t, 10, rec.OnHand)
	assert.Equal(t, 4, rec.Reserved)

	o, err = h.uc.Prepare(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderInPreparation, o.Status)

	o, err = h.uc.MarkReadyToShip(ctx, o.ID, "", "user-1")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderReadyToShip, o.Status)
	rec = h.stock(t, prodRice)
	assert.Equal(t, 6, rec.OnHand)
	assert.Equal(t, 0, rec.Reserved)

	movs, err := h.ledger.ListMovements(ctx, repository.MovementFilter{Kind: entity.KindSale})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, "salida_venta", movs[0].Code())
	assert.Equal(t, o.Number, movs[0].Document.Number)

	o, err = h.deliver(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderDelivered, o.Status)
	assert.NotNil(t, o.DeliveredAt)
	assert.Equal(t, 6, h.stock(t, prodRice).OnHand)
}

func TestDeliver_FromConfirmedConsumesReservation(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.stockIn(t, prodRice, 5)

	o := h.draft(t, sales.LineInput{ProductID: prodRice, Quantity: 2})
	_, err := h.uc.Confirm(ctx, o.ID, "")
	require.NoError(t, err)

	_, err = h.deliver(ctx, o.ID)
	require.NoError(t, err)
	rec := h.stock(t, prodRice)
	assert.Equal(t, 3, rec.OnHand)
	assert.Equal(t, 0, rec.Reserved)
}

func TestCancel_ReleasesOnlyHeldReservations(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.stockIn(t, prodRice, 10)

	confirmed := h.draft(t, sales.LineInput{ProductID: prodRice, Quantity: 7})
	_, err := h.uc.Confirm(ctx, confirmed.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 3, h.stock(t, prodRice).Available())

	cancelled, err := h.uc.Cancel(ctx, confirmed.ID, "")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderCancelled, cancelled.Status)
	rec := h.stock(t, prodRice)
	assert.Equal(t, 10, rec.OnHand)
	assert.Equal(t, 0, rec.Reserved)

	draft := h.draft(t, sales.LineInput{ProductID: prodRice, Quantity: 1})
	_, err = h.uc.Cancel(ctx, draft.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 10, h.stock(t, prodRice).Available())

	_, err = h.uc.Cancel(ctx, draft.ID, "")
	var ise *domain.InvalidStateError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, string(entity.OrderCancelled), ise.State)
}

func TestInvalidTransitions(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	o := h.draft(t, sales.LineInput{ProductID: prodRice, Quantity: 1})

	_, err := h.uc.Prepare(ctx, o.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = h.uc.MarkReadyToShip(ctx, o.ID, "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = h.deliver(ctx, o.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = h.uc.Confirm(ctx, "no-existe", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateDraft(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.stockIn(t, prodRice, 5)
	o, err := h.uc.Create(ctx, sales.CreateOrderInput{CustomerID: custCred, Lines: []sales.LineInput{{ProductID: prodRice, Quantity: 1}}})
	require.NoError(t, err)

	notes := "tocar timbre"
	credit := entity.PaymentCredit
	o, err = h.uc.UpdateDraft(ctx, o.ID, sales.OrderPatch{Notes: &notes, PaymentType: &credit})
	require.NoError(t, err)
	assert.Equal(t, "tocar timbre", o.Notes)
	require.NotNil(t, o.PaymentDueAt)

	_, err = h.uc.Confirm(ctx, o.ID, "")
	require.NoError(t, err)
	_, err = h.uc.UpdateDraft(ctx, o.ID, sales.OrderPatch{Notes: &notes})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestPayments(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	o := h.draft(t, sales.LineInput{ProductID: prodRice, Quantity: 1})

	p, err := h.uc.RegisterPayment(ctx, o.ID, sales.PaymentInput{Amount: decimal.RequireFromString("5.555"), Method: entity.PaymentTransfer, Reference: "OP-991"})
	require.NoError(t, err)
	assert.Equal(t, "5.56", p.Amount.StringFixed(2))

	_, err = h.uc.RegisterPayment(ctx, o.ID, sales.PaymentInput{Amount: decimal.Zero, Method: entity.PaymentCash})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = h.uc.RegisterPayment(ctx, "no-existe", sales.PaymentInput{Amount: decimal.NewFromInt(1), Method: entity.PaymentCash})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := h.uc.ListPayments(ctx, o.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	same, err := h.uc.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderDraft, same.Status)
	assert.True(t, same.Total.Equal(o.Total))
}

func TestSummary_ExcludesCancelled(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	from := time.Now().Add(-time.Hour)

	a := h.draft(t, sales.LineInput{ProductID: prodRice, Quantity: 1}) // 11.8
	h.draft(t, sales.LineInput{ProductID: prodRice, Quantity: 2})      // 23.6
	_, err := h.uc.Cancel(ctx, a.ID, "")
	require.NoError(t, err)

	s, err := h.uc.Summary(ctx, from, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, s.Count)
	assert.Equal(t, "23.6", s.Total.String())
	assert.Equal(t, "23.6", s.Average.String())
	assert.Equal(t, 1, s.ByStatus[entity.OrderCancelled])
	assert.Equal(t, 1, s.ByStatus[entity.OrderDraft])

	byNumber, err := h.uc.GetByNumber(ctx, a.Number)
	require.NoError(t, err)
	assert.Equal(t, a.ID, byNumber.ID)
}

func TestReservedWarehouseCannotBeOverridden(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.stockInAt(t, whMain, prodRice, 10)
	h.stockInAt(t, whAlt, prodRice, 10)

	a := h.draft(t, sales.LineInput{ProductID: prodRice, Quantity: 4})
	_, err := h.uc.Confirm(ctx, a.ID, whMain)
	require.NoError(t, err)
	b := h.draft(t, sales.LineInput{ProductID: prodRice, Quantity: 3})
	_, err = h.uc.Confirm(ctx, b.ID, whAlt)
	require.NoError(t, err)

	_, err = h.uc.Prepare(ctx, a.ID)
	require.NoError(t, err)
	_, err = h.uc.MarkReadyToShip(ctx, a.ID, whAlt, "user-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = h.uc.Cancel(ctx, a.ID, whAlt)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// ninguna reserva se tocó
	mainRec, altRec := h.stockAt(t, whMain, prodRice), h.stockAt(t, whAlt, prodRice)
	assert.Equal(t, 10, mainRec.OnHand)
	assert.Equal(t, 4, mainRec.Reserved)
	assert.Equal(t, 10, altRec.OnHand)
	assert.Equal(t, 3, altRec.Reserved)
	got, err := h.uc.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderInPreparation, got.Status)

	// el mismo almacén explícito o ninguno siguen funcionando
	_, err = h.uc.MarkReadyToShip(ctx, a.ID, whMain, "user-1")
	require.NoError(t, err)
	_, err = h.uc.Cancel(ctx, b.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 6, h.stockAt(t, whMain, prodRice).OnHand)
	assert.Equal(t, 0, h.stockAt(t, whAlt, prodRice).Reserved)
}

func TestMarkReadyToShip_MovementsInProductOrder(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.stockIn(t, prodRice, 5)
	h.stockIn(t, prodOil, 5)

	o := h.draft(t,
		sales.LineInput{ProductID: prodRice, Quantity: 1},
		sales.LineInput{ProductID: prodOil, Quantity: 2},
	)
	_, err := h.uc.Confirm(ctx, o.ID, "")
	require.NoError(t, err)
	_, err = h.uc.Prepare(ctx, o.ID)
	require.NoError(t, err)
	_, err = h.uc.MarkReadyToShip(ctx, o.ID, "", "")
	require.NoError(t, err)

	movs, err := h.ledger.ListMovements(ctx, repository.MovementFilter{Kind: entity.KindSale})
	require.NoError(t, err)
	require.Len(t, movs, 2)
	// más reciente primero: prod-aceite se registró antes que prod-arroz
	assert.Equal(t, []string{prodRice, prodOil}, []string{movs[0].ProductID, movs[1].ProductID})
}

func TestShipInTx_RetryWhileInTransitIsNoop(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.stockIn(t, prodRice, 5)

	o := h.draft(t, sales.LineInput{ProductID: prodRice, Quantity: 2})
	_, err := h.uc.Confirm(ctx, o.ID, "")
	require.NoError(t, err)

	o, err = h.ship(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderInTransit, o.Status)
	assert.Equal(t, 3, h.stock(t, prodRice).OnHand)

	again, err := h.ship(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderInTransit, again.Status)
	rec := h.stock(t, prodRice)
	assert.Equal(t, 3, rec.OnHand, "sin segunda salida")
	assert.Equal(t, 0, rec.Reserved)

	movs, err := h.ledger.ListMovements(ctx, repository.MovementFilter{Kind: entity.KindSale})
	require.NoError(t, err)
	assert.Len(t, movs, 1)

	_, err = h.ship(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConfirm_ConcurrentNeverOverReserves(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.stockIn(t, prodRice, 10)

	const workers = 8
	ids := make([]string, workers)
	for i := range ids {
		ids[i] = h.draft(t, sales.LineInput{ProductID: prodRice, Quantity: 3}).ID
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		confirmed int
		rejected  int
		other     []error
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := h.uc.Confirm(ctx, id, "")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				confirmed++
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected++
			default:
				other = append(other, err)
			}
		}(id)
	}
	wg.Wait()

	require.Empty(t, other)
	assert.Equal(t, 3, confirmed, "10 unidades alcanzan para tres ventas de 3")
	assert.Equal(t, workers-3, rejected)
	rec := h.stock(t, prodRice)
	assert.Equal(t, 10, rec.OnHand)
	assert.Equal(t, 9, rec.Reserved)
	assert.Equal(t, 1, rec.Available())
}

func TestCreate_ConcurrentNumbersAreUnique(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	const workers = 10
	numbers := make(chan string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o, err := h.uc.Create(ctx, sales.CreateOrderInput{CustomerID: custCash, Lines: []sales.LineInput{{ProductID: prodOil, Quantity: 1}}})
			if assert.NoError(t, err) {
				numbers <- o.Number
			}
		}()
	}
	wg.Wait()
	close(numbers)

	seen := map[string]bool{}
	for n := range numbers {
		assert.False(t, seen[n], "número repetido %s", n)
		seen[n] = true
	}
	assert.Len(t, seen, workers)
}

// overdue crea una venta a crédito confirmada con vencimiento forzado a due.
func (h harness) overdue(t *testing.T, customerID string, qty int, due time.Time) *entity.Order {
	t.Helper()
	ctx := context.Background()
	o, err := h.uc.Create(ctx, sales.CreateOrderInput{
		CustomerID: customerID, PaymentType: entity.PaymentCredit,
		Lines: []sales.LineInput{{ProductID: prodRice, Quantity: qty}},
	})
	require.NoError(t, err)
	o, err = h.uc.Confirm(ctx, o.ID, "")
	require.NoError(t, err)
	o.PaymentDueAt = &due
	require.NoError(t, h.repos.Orders.Update(ctx, o))
	return o
}

func TestOverdueCredit(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.stockIn(t, prodRice, 50)
	now := time.Now()

	a := h.overdue(t, custCred, 2, now.AddDate(0, 0, -2)) // 23.6
	b := h.overdue(t, custCred, 1, now.AddDate(0, 0, -5)) // 11.8
	cash := h.overdue(t, custCash, 1, now.AddDate(0, 0, -1))

	_, err := h.uc.RegisterPayment(ctx, a.ID, sales.PaymentInput{Amount: decimal.NewFromInt(10), Method: entity.PaymentTransfer})
	require.NoError(t, err)

	paid := h.overdue(t, custCred, 1, now.AddDate(0, 0, -3))
	_, err = h.uc.RegisterPayment(ctx, paid.ID, sales.PaymentInput{Amount: paid.Total, Method: entity.PaymentCash})
	require.NoError(t, err)

	cancelled := h.overdue(t, custCred, 1, now.AddDate(0, 0, -10))
	_, err = h.uc.Cancel(ctx, cancelled.ID, "")
	require.NoError(t, err)

	h.overdue(t, custCred, 1, now.AddDate(0, 0, 3)) // aún no vence

	draft, err := h.uc.Create(ctx, sales.CreateOrderInput{CustomerID: custCred, PaymentType: entity.PaymentCredit, Lines: []sales.LineInput{{ProductID: prodRice, Quantity: 1}}})
	require.NoError(t, err)
	past := now.AddDate(0, 0, -20)
	draft.PaymentDueAt = &past
	require.NoError(t, h.repos.Orders.Update(ctx, draft))

	debts, err := h.uc.OverdueCredit(ctx)
	require.NoError(t, err)
	require.Len(t, debts, 2)

	cred := debts[0]
	assert.Equal(t, custCred, cred.Customer.ID)
	assert.Equal(t, "Minimarket Sol", cred.Customer.Name)
	require.Len(t, cred.Orders, 2)
	assert.Equal(t, b.ID, cred.Orders[0].Order.ID, "vencimiento más antiguo primero")
	assert.Equal(t, a.ID, cred.Orders[1].Order.ID)
	assert.Equal(t, "13.6", cred.Orders[1].Outstanding().String())
	assert.Equal(t, "25.4", cred.Outstanding.String())
	assert.WithinDuration(t, *b.PaymentDueAt, cred.OldestDueAt, time.Second)

	assert.Equal(t, custCash, debts[1].Customer.ID)
	require.Len(t, debts[1].Orders, 1)
	assert.Equal(t, cash.ID, debts[1].Orders[0].Order.ID)
	assert.Equal(t, "11.8", debts[1].Outstanding.String())
}
