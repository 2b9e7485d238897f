package repository

import (
	"context"

	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
)

// VehicleRepository define el puerto de persistencia para vehículos.
type VehicleRepository interface {
	Create(ctx context.Context, vehicle *entity.Vehicle) error
	GetByID(ctx context.Context, id string) (*entity.Vehicle, error)
	Update(ctx context.Context, vehicle *entity.Vehicle) error
	List(ctx context.Context, onlyAvailable bool) ([]*entity.Vehicle, error)
	// TryLock marca el vehículo como no disponible sólo si estaba disponible (compare-and-set).
	// Devuelve false si ya estaba tomado.
	TryLock(ctx context.Context, id string) (bool, error)
	Release(ctx context.Context, id string) error
}

// DriverRepository define el puerto de persistencia para conductores.
type DriverRepository interface {
	Create(ctx context.Context, driver *entity.Driver) error
	GetByID(ctx context.Context, id string) (*entity.Driver, error)
	Update(ctx context.Context, driver *entity.Driver) error
	List(ctx context.Context, onlyAvailable bool) ([]*entity.Driver, error)
	TryLock(ctx context.Context, id string) (bool, error)
	Release(ctx context.Context, id string) error
}

// ZoneRepository define el puerto de persistencia para zonas de reparto.
type ZoneRepository interface {
	Create(ctx context.Context, zone *entity.Zone) error
	GetByID(ctx context.Context, id string) (*entity.Zone, error)
	Update(ctx context.Context, zone *entity.Zone) error
	List(ctx context.Context) ([]*entity.Zone, error)
}
