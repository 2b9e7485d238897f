package entity

import "time"

// Tipos de almacén.
const (
	WarehouseTypeMain      = "principal"
	WarehouseTypeSecondary = "secundario"
	WarehouseTypeTransit   = "transito"
	WarehouseTypeReturns   = "devolucion"
)

// Warehouse representa un almacén de la distribuidora.
type Warehouse struct {
	ID          string
	Code        string
	Name        string
	Type        string
	Address     string
	City        string
	Responsible string
	Phone       string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
