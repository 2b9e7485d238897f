package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/distribuidora-api/internal/application/inventory"
	"github.com/jhoicas/distribuidora-api/internal/domain"
	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/distribuidora-api/internal/domain/repository"
	"github.com/jhoicas/distribuidora-api/internal/infrastructure/memory"
)

type fixture struct {
	ledger *inventory.Ledger
	repos  repository.Repos
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{
		ID: "prod-1", SKU: "ARZ-5KG", Name: "Arroz 5kg", Price: decimal.NewFromInt(25), Cost: decimal.NewFromInt(5), Active: true,
	}))
	for _, id := range []string{"alm-1", "alm-2"} {
		require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{ID: id, Code: id, Name: id, Type: entity.WarehouseTypeMain, Active: true}))
	}
	return fixture{ledger: inventory.NewLedger(store, repos, zerolog.Nop()), repos: repos}
}

func (f fixture) stock(t *testing.T, warehouseID string) *entity.StockRecord {
	t.Helper()
	rec, err := f.repos.Stock.Get(context.Background(), "prod-1", warehouseID)
	require.NoError(t, err)
	return rec
}

func TestLedger_AdjustStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	mov, err := f.ledger.AdjustStock(ctx, inventory.AdjustInput{WarehouseID: "alm-1", ProductID: "prod-1", Quantity: 20, Reason: "conteo inicial"})
	require.NoError(t, err)
	assert.Equal(t, "entrada_ajuste", mov.Code())
	assert.Equal(t, 0, mov.StockBefore)
	assert.Equal(t, 20, mov.StockAfter)

	mov, err = f.ledger.AdjustStock(ctx, inventory.AdjustInput{WarehouseID: "alm-1", ProductID: "prod-1", Quantity: -5, Reason: "rotura"})
	require.NoError(t, err)
	assert.Equal(t, "salida_ajuste", mov.Code())
	assert.Equal(t, 5, mov.Quantity)
	assert.Equal(t, 15, f.stock(t, "alm-1").OnHand)

	_, err = f.ledger.AdjustStock(ctx, inventory.AdjustInput{WarehouseID: "alm-1", ProductID: "prod-1", Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLedger_ExitBeyondStockPersistsNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.ledger.AdjustStock(ctx, inventory.AdjustInput{WarehouseID: "alm-1", ProductID: "prod-1", Quantity: 3})
	require.NoError(t, err)

	_, err = f.ledger.AdjustStock(ctx, inventory.AdjustInput{WarehouseID: "alm-1", ProductID: "prod-1", Quantity: -4})
	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, 4, ise.Requested)
	assert.Equal(t, 3, ise.Available)

	assert.Equal(t, 3, f.stock(t, "alm-1").OnHand)
	movs, err := f.ledger.ListMovements(ctx, repository.MovementFilter{ProductID: "prod-1"})
	require.NoError(t, err)
	assert.Len(t, movs, 1)
}

func TestLedger_UnknownReferences(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.ledger.AdjustStock(ctx, inventory.AdjustInput{WarehouseID: "alm-1", ProductID: "no-existe", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrUnknownProduct)

	_, err = f.ledger.AdjustStock(ctx, inventory.AdjustInput{WarehouseID: "no-existe", ProductID: "prod-1", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrUnknownEntity)
	assert.NotErrorIs(t, err, domain.ErrUnknownProduct)
}

func TestLedger_TransferStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.ledger.AdjustStock(ctx, inventory.AdjustInput{WarehouseID: "alm-1", ProductID: "prod-1", Quantity: 10})
	require.NoError(t, err)

	out, in, err := f.ledger.TransferStock(ctx, inventory.TransferInput{FromWarehouseID: "alm-1", ToWarehouseID: "alm-2", ProductID: "prod-1", Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, "salida_transferencia", out.Code())
	assert.Equal(t, "entrada_transferencia", in.Code())
	assert.Equal(t, out.TransactionID, in.TransactionID)
	assert.Equal(t, 6, f.stock(t, "alm-1").OnHand)
	assert.Equal(t, 4, f.stock(t, "alm-2").OnHand)

	total, err := f.ledger.TotalOnHand(ctx, "prod-1")
	require.NoError(t, err)
	assert.Equal(t, 10, total)
}

func TestLedger_TransferInsufficientIsAtomic(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.ledger.AdjustStock(ctx, inventory.AdjustInput{WarehouseID: "alm-1", ProductID: "prod-1", Quantity: 2})
	require.NoError(t, err)

	_, _, err = f.ledger.TransferStock(ctx, inventory.TransferInput{FromWarehouseID: "alm-1", ToWarehouseID: "alm-2", ProductID: "prod-1", Quantity: 5})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 2, f.stock(t, "alm-1").OnHand)
	assert.Equal(t, 0, f.stock(t, "alm-2").OnHand)

	_, _, err = f.ledger.TransferStock(ctx, inventory.TransferInput{FromWarehouseID: "alm-1", ToWarehouseID: "alm-1", ProductID: "prod-1", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLedger_ReceivePurchaseUpdatesWeightedCost(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.ledger.AdjustStock(ctx, inventory.AdjustInput{WarehouseID: "alm-1", ProductID: "prod-1", Quantity: 10})
	require.NoError(t, err)

	mov, err := f.ledger.ReceivePurchase(ctx, inventory.PurchaseInput{
		WarehouseID: "alm-2", ProductID: "prod-1", Quantity: 10, UnitCost: decimal.NewFromInt(7), DocumentNumber: "F001-123",
	})
	require.NoError(t, err)
	assert.Equal(t, "entrada_compra", mov.Code())
	assert.True(t, mov.UnitCost.Equal(decimal.NewFromInt(7)))

	p, err := f.repos.Products.GetByID(ctx, "prod-1")
	require.NoError(t, err)
	assert.True(t, p.Cost.Equal(decimal.NewFromInt(6)), p.Cost.String())

	_, err = f.ledger.ReceivePurchase(ctx, inventory.PurchaseInput{WarehouseID: "alm-1", ProductID: "prod-1", Quantity: 1, UnitCost: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLedger_ReserveAndRelease(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.ledger.AdjustStock(ctx, inventory.AdjustInput{WarehouseID: "alm-1", ProductID: "prod-1", Quantity: 10})
	require.NoError(t, err)

	ok, err := f.ledger.Reserve(ctx, "prod-1", "alm-1", 7)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.ledger.Reserve(ctx, "prod-1", "alm-1", 4)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 3, f.stock(t, "alm-1").Available())

	available, err := f.ledger.TotalAvailable(ctx, "prod-1")
	require.NoError(t, err)
	assert.Equal(t, 3, available)

	// liberar de más se acota a lo reservado
	require.NoError(t, f.ledger.ReleaseReservation(ctx, "prod-1", "alm-1", 50))
	rec := f.stock(t, "alm-1")
	assert.Equal(t, 0, rec.Reserved)
	assert.Equal(t, 10, rec.OnHand)

	_, err = f.ledger.Reserve(ctx, "prod-1", "alm-1", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLedger_SetStockDetailsAndExpiring(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.ledger.AdjustStock(ctx, inventory.AdjustInput{WarehouseID: "alm-1", ProductID: "prod-1", Quantity: 5})
	require.NoError(t, err)

	loc, lot := "A-01-03", "L-2024-07"
	exp := time.Now().AddDate(0, 0, 10)
	rec, err := f.ledger.SetStockDetails(ctx, "prod-1", "alm-1", inventory.StockDetailsPatch{Location: &loc, Lot: &lot, ExpiresAt: &exp})
	require.NoError(t, err)
	assert.Equal(t, "A-01-03", rec.Location)
	assert.Equal(t, 5, rec.OnHand)

	soon, err := f.ledger.ExpiringWithin(ctx, 30)
	require.NoError(t, err)
	require.Len(t, soon, 1)
	assert.Equal(t, "L-2024-07", soon[0].Lot)

	none, err := f.ledger.ExpiringWithin(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = f.ledger.ExpiringWithin(ctx, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLedger_ListMovementsFilters(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.ledger.AdjustStock(ctx, inventory.AdjustInput{WarehouseID: "alm-1", ProductID: "prod-1", Quantity: 10})
	require.NoError(t, err)
	_, _, err = f.ledger.TransferStock(ctx, inventory.TransferInput{FromWarehouseID: "alm-1", ToWarehouseID: "alm-2", ProductID: "prod-1", Quantity: 2})
	require.NoError(t, err)

	exits, err := f.ledger.ListMovements(ctx, repository.MovementFilter{Direction: entity.DirectionExit})
	require.NoError(t, err)
	require.Len(t, exits, 1)
	assert.Equal(t, "alm-1", exits[0].WarehouseID)

	inAlm2, err := f.ledger.ListMovements(ctx, repository.MovementFilter{WarehouseID: "alm-2"})
	require.NoError(t, err)
	assert.Len(t, inAlm2, 1)

	all, err := f.ledger.ListMovements(ctx, repository.MovementFilter{ProductID: "prod-1"})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, entity.KindTransfer, all[0].Kind)
}

func TestLedger_ReserveReleaseRoundTripIsExact(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.ledger.AdjustStock(ctx, inventory.AdjustInput{WarehouseID: "alm-1", ProductID: "prod-1", Quantity: 10})
	require.NoError(t, err)
	before := f.stock(t, "alm-1")

	for _, qty := range []int{1, 4, 10} {
		ok, err := f.ledger.Reserve(ctx, "prod-1", "alm-1", qty)
		require.NoError(t, err)
		require.True(t, ok)
		require.NoError(t, f.ledger.ReleaseReservation(ctx, "prod-1", "alm-1", qty))

		after := f.stock(t, "alm-1")
		assert.Equal(t, before.OnHand, after.OnHand, "qty=%d", qty)
		assert.Equal(t, before.Reserved, after.Reserved, "qty=%d", qty)
		assert.Equal(t, before.Available(), after.Available(), "qty=%d", qty)
	}

	// reservar no mueve el kardex
	movs, err := f.ledger.ListMovements(ctx, repository.MovementFilter{ProductID: "prod-1"})
	require.NoError(t, err)
	assert.Len(t, movs, 1)
}

func TestLedger_ConcurrentReserveNeverExceedsOnHand(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.ledger.AdjustStock(ctx, inventory.AdjustInput{WarehouseID: "alm-1", ProductID: "prod-1", Quantity: 12})
	require.NoError(t, err)

	const workers = 20
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		granted int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := f.ledger.Reserve(ctx, "prod-1", "alm-1", 1)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 12, granted)
	rec := f.stock(t, "alm-1")
	assert.Equal(t, 12, rec.OnHand)
	assert.Equal(t, 12, rec.Reserved)
	assert.Equal(t, 0, rec.Available())
}

func TestLedger_LowStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	products := []*entity.Product{
		{ID: "prod-low", SKU: "AZU-1KG", Name: "Azúcar 1kg", Cost: decimal.NewFromInt(2), MinStock: 10, Active: true},
		{ID: "prod-max", SKU: "ACE-1L", Name: "Aceite 1L", Cost: decimal.RequireFromString("1.5"), MinStock: 5, MaxStock: 20, Active: true},
		{ID: "prod-ok", SKU: "SAL-1KG", Name: "Sal 1kg", MinStock: 2, Active: true},
		{ID: "prod-off", SKU: "FID-500", Name: "Fideos 500g", MinStock: 10, Active: false},
	}
	for _, p := range products {
		require.NoError(t, f.repos.Products.Create(ctx, p))
	}
	for _, in := range []inventory.AdjustInput{
		{WarehouseID: "alm-1", ProductID: "prod-low", Quantity: 3},
		{WarehouseID: "alm-2", ProductID: "prod-low", Quantity: 4},
		{WarehouseID: "alm-1", ProductID: "prod-max", Quantity: 1},
		{WarehouseID: "alm-1", ProductID: "prod-ok", Quantity: 5},
	} {
		_, err := f.ledger.AdjustStock(ctx, in)
		require.NoError(t, err)
	}
	ok, err := f.ledger.Reserve(ctx, "prod-low", "alm-2", 2)
	require.NoError(t, err)
	require.True(t, ok)

	all, err := f.ledger.LowStock(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)

	assert.Equal(t, "prod-max", all[0].ProductID, "mayor déficit primero")
	assert.Equal(t, 1, all[0].Priority)
	assert.Equal(t, 1, all[0].OnHand)
	assert.Equal(t, 20, all[0].IdealStock, "con tope se repone hasta el máximo")
	assert.Equal(t, 19, all[0].SuggestedQty)
	assert.Equal(t, "28.5", all[0].EstimatedCost.String())

	assert.Equal(t, "prod-low", all[1].ProductID)
	assert.Equal(t, 2, all[1].Priority)
	assert.Equal(t, 7, all[1].OnHand)
	assert.Equal(t, 5, all[1].Available)
	assert.Equal(t, 15, all[1].IdealStock, "sin tope: 1.5 × mínimo")
	assert.Equal(t, 8, all[1].SuggestedQty)
	assert.Equal(t, "16", all[1].EstimatedCost.String())

	north, err := f.ledger.LowStock(ctx, "alm-2")
	require.NoError(t, err)
	ids := make([]string, 0, len(north))
	for _, r := range north {
		ids = append(ids, r.ProductID)
	}
	assert.Equal(t, []string{"prod-low", "prod-max", "prod-ok"}, ids)
	assert.Equal(t, 4, north[0].OnHand)

	_, err = f.ledger.LowStock(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
