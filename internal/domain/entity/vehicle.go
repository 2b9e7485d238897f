package entity

import "time"

// Tipos de vehículo.
const (
	VehicleMotorcycle = "moto"
	VehicleVan        = "furgoneta"
	VehicleSmallTruck = "camion_pequeno"
	VehicleLargeTruck = "camion_grande"
)

// Vehicle vehículo de reparto. Available es el flag de exclusión mutua entre rutas.
type Vehicle struct {
	ID               string
	Code             string
	Plate            string
	Type             string
	Brand            string
	Model            string
	CapacityKg       float64
	CapacityM3       float64
	Active           bool
	Available        bool
	InsuranceExpires *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
