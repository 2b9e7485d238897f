package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
)

// LowStockItem producto activo cuyo stock físico está por debajo de su mínimo.
type LowStockItem struct {
	ProductID   string
	SKU         string
	ProductName string
	OnHand      int
	Available   int
	MinStock    int
	MaxStock    int
	UnitCost    decimal.Decimal
}

// StockRepository define el puerto para consultar/actualizar stock por almacén+producto.
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	// Get devuelve el registro o uno vacío (OnHand=0) si el par aún no tiene stock.
	Get(ctx context.Context, productID, warehouseID string) (*entity.StockRecord, error)
	// GetForUpdate crea el registro si no existe y bloquea la fila (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.StockRecord, error)
	Upsert(ctx context.Context, rec *entity.StockRecord) error
	ListByProduct(ctx context.Context, productID string) ([]*entity.StockRecord, error)
	ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.StockRecord, error)
	// ListExpiring devuelve registros con vencimiento <= before y OnHand > 0.
	ListExpiring(ctx context.Context, before time.Time) ([]*entity.StockRecord, error)
	// ListBelowMinimum productos activos con OnHand < MinStock, mayor déficit primero.
	// warehouseID vacío suma todos los almacenes.
	ListBelowMinimum(ctx context.Context, warehouseID string) ([]LowStockItem, error)
}
