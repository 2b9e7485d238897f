package repository

import (
	"context"
	"time"

	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
)

// ShipmentFilter filtros opcionales para listar envíos.
type ShipmentFilter struct {
	Statuses      []entity.ShipmentStatus
	RouteID       string
	VehicleID     string
	DriverID      string
	ScheduledFrom *time.Time
	ScheduledTo   *time.Time
	Limit         int
	Offset        int
}

// ShipmentRepository define el puerto de persistencia para envíos.
type ShipmentRepository interface {
	Create(ctx context.Context, shipment *entity.Shipment) error
	GetByID(ctx context.Context, id string) (*entity.Shipment, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Shipment, error)
	GetByOrderID(ctx context.Context, orderID string) (*entity.Shipment, error)
	Update(ctx context.Context, shipment *entity.Shipment) error
	List(ctx context.Context, filter ShipmentFilter) ([]*entity.Shipment, error)
	LastCode(ctx context.Context, prefix string) (string, error)
}

// RouteRepository define el puerto de persistencia para rutas de reparto.
type RouteRepository interface {
	Create(ctx context.Context, route *entity.Route) error
	GetByID(ctx context.Context, id string) (*entity.Route, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Route, error)
	Update(ctx context.Context, route *entity.Route) error
	LastCode(ctx context.Context, prefix string) (string, error)
}
