package entity

import "time"

// Route (ruta de reparto) agrupa envíos para un vehículo y conductor en un viaje.
// Mientras no se complete, el vehículo y el conductor quedan bloqueados (Available=false).
type Route struct {
	ID          string
	Code        string
	Name        string
	Date        time.Time
	ZoneID      *string
	VehicleID   *string
	DriverID    *string
	ShipmentIDs []string // en orden de entrega
	Total       int
	Succeeded   int
	Failed      int
	Completed   bool
	DepartedAt  *time.Time
	ReturnedAt  *time.Time
	DistanceKm  float64
	CreatedAt   time.Time
}
