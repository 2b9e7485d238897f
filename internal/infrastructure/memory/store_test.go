package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/distribuidora-api/internal/domain"
	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/distribuidora-api/internal/domain/repository"
)

func TestStore_RunRollbackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	boom := errors.New("boom")
	err := s.Run(ctx, func(tx repository.Repos) error {
		rec, err := tx.Stock.GetForUpdate(ctx, "p1", "w1")
		require.NoError(t, err)
		rec.OnHand = 10
		require.NoError(t, tx.Stock.Upsert(ctx, rec))
		require.NoError(t, tx.Products.Create(ctx, &entity.Product{ID: "p1", SKU: "SKU-1"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	repos := s.Repos()
	rec, err := repos.Stock.Get(ctx, "p1", "w1")
	require.NoError(t, err)
	assert.Equal(t, 0, rec.OnHand)
	p, err := repos.Products.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestStore_RunCommit(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	err := s.Run(ctx, func(tx repository.Repos) error {
		rec, err := tx.Stock.GetForUpdate(ctx, "p1", "w1")
		if err != nil {
			return err
		}
		rec.OnHand, rec.Reserved = 8, 3
		return tx.Stock.Upsert(ctx, rec)
	})
	require.NoError(t, err)

	rec, err := s.Repos().Stock.Get(ctx, "p1", "w1")
	require.NoError(t, err)
	assert.Equal(t, 8, rec.OnHand)
	assert.Equal(t, 5, rec.Available())
}

func TestStore_RunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := NewStore().Run(ctx, func(repository.Repos) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestStockRepo_UpsertRejectsBrokenInvariant(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repos()

	err := repos.Stock.Upsert(ctx, &entity.StockRecord{ProductID: "p1", WarehouseID: "w1", OnHand: 2, Reserved: 3})
	assert.ErrorIs(t, err, domain.ErrConflict)
	err = repos.Stock.Upsert(ctx, &entity.StockRecord{ProductID: "p1", WarehouseID: "w1", OnHand: -1})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestStockRepo_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repos()
	require.NoError(t, repos.Stock.Upsert(ctx, &entity.StockRecord{ProductID: "p1", WarehouseID: "w1", OnHand: 4}))

	rec, err := repos.Stock.Get(ctx, "p1", "w1")
	require.NoError(t, err)
	rec.OnHand = 100

	again, err := repos.Stock.Get(ctx, "p1", "w1")
	require.NoError(t, err)
	assert.Equal(t, 4, again.OnHand)
}
