package repository

import "context"

// Repos agrupa los repositorios de un mismo contexto de ejecución (pool o transacción).
type Repos struct {
	Stock      StockRepository
	Movements  InventoryMovementRepository
	Products   ProductRepository
	Warehouses WarehouseRepository
	Customers  CustomerRepository
	Orders     OrderRepository
	Shipments  ShipmentRepository
	Routes     RouteRepository
	Vehicles   VehicleRepository
	Drivers    DriverRepository
	Zones      ZoneRepository
	Users      UserRepository
}

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback y ningún cambio persiste.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx Repos) error) error
}
