package repository

import (
	"context"
	"time"

	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
)

// MovementFilter filtros opcionales del kardex.
type MovementFilter struct {
	ProductID   string
	WarehouseID string
	Direction   entity.MovementDirection
	Kind        entity.MovementKind
	From, To    *time.Time
	Limit       int
	Offset      int
}

// InventoryMovementRepository define el puerto de persistencia para movimientos de inventario (append-only).
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)
}
