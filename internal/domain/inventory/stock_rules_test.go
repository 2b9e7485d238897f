package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/distribuidora-api/internal/domain"
	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/distribuidora-api/internal/domain/inventory"
)

func stock(onHand, reserved int) *entity.StockRecord {
	return &entity.StockRecord{ProductID: "P", WarehouseID: "W", OnHand: onHand, Reserved: reserved}
}

func TestReserve_CompareAndSet(t *testing.T) {
	rec := stock(100, 0)

	require.True(t, inventory.Reserve(rec, 30))
	assert.Equal(t, 30, rec.Reserved)
	assert.Equal(t, 70, rec.Available())

	assert.False(t, inventory.Reserve(rec, 80), "no alcanza el disponible")
	assert.Equal(t, 30, rec.Reserved)
	assert.Equal(t, 70, rec.Available())
}

func TestReserveRelease_RoundTrip(t *testing.T) {
	rec := stock(50, 10)
	require.True(t, inventory.Reserve(rec, 25))
	inventory.Release(rec, 25)
	assert.Equal(t, 10, rec.Reserved)
	assert.Equal(t, 40, rec.Available())
}

func TestRelease_SeRecortaEnCero(t *testing.T) {
	rec := stock(10, 3)
	assert.Equal(t, 3, inventory.Release(rec, 99))
	assert.Equal(t, 0, rec.Reserved)
	assert.Equal(t, 0, inventory.Release(rec, 5))
	assert.Equal(t, 0, rec.Reserved)
}

func TestApplyMovement_SalidaMayorQueStockSeRechaza(t *testing.T) {
	rec := stock(100, 0)
	_, _, err := inventory.ApplyMovement(rec, entity.DirectionExit, 150)

	var insuf *domain.InsufficientStockError
	require.ErrorAs(t, err, &insuf)
	assert.Equal(t, 150, insuf.Requested)
	assert.Equal(t, 100, insuf.Available)
	assert.Equal(t, 100, rec.OnHand)
}

func TestApplyMovement_EntradaSiempreSuma(t *testing.T) {
	rec := stock(0, 0)
	before, after, err := inventory.ApplyMovement(rec, entity.DirectionEntry, 12)
	require.NoError(t, err)
	assert.Equal(t, 0, before)
	assert.Equal(t, 12, after)
}

func TestApplyMovement_SalidaMantieneInvariante(t *testing.T) {
	rec := stock(30, 30)
	_, after, err := inventory.ApplyMovement(rec, entity.DirectionExit, 30)
	require.NoError(t, err)
	assert.Equal(t, 0, after)
	assert.Equal(t, 0, rec.Reserved)
	assert.GreaterOrEqual(t, rec.Available(), 0)
}

func TestApplyMovement_CantidadNoPositiva(t *testing.T) {
	_, _, err := inventory.ApplyMovement(stock(5, 0), entity.DirectionEntry, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestValidKind(t *testing.T) {
	assert.True(t, inventory.ValidKind(entity.DirectionEntry, entity.KindPurchase))
	assert.True(t, inventory.ValidKind(entity.DirectionExit, entity.KindShrinkage))
	assert.True(t, inventory.ValidKind(entity.DirectionExit, entity.KindReturn))
	assert.False(t, inventory.ValidKind(entity.DirectionEntry, entity.KindSale))
	assert.False(t, inventory.ValidKind(entity.DirectionEntry, entity.KindShrinkage))
}

func TestWeightedCost(t *testing.T) {
	// 10 u a 5.00 + 10 u a 7.00 = 6.00
	got := inventory.WeightedCost(10, decimal.NewFromInt(5), 10, decimal.NewFromInt(7))
	assert.True(t, got.Equal(decimal.NewFromInt(6)), got.String())

	assert.True(t, inventory.WeightedCost(0, decimal.Zero, 0, decimal.NewFromInt(3)).IsZero())
}
