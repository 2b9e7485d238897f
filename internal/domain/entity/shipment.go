package entity

import "time"

// ShipmentStatus estado del envío.
type ShipmentStatus string

const (
	ShipmentPending      ShipmentStatus = "pendiente"
	ShipmentAssigned     ShipmentStatus = "asignado"
	ShipmentLoading      ShipmentStatus = "en_carga" // declarado, ninguna operación lo asigna
	ShipmentInTransit    ShipmentStatus = "en_ruta"
	ShipmentDelivered    ShipmentStatus = "entregado"
	ShipmentPartial      ShipmentStatus = "entrega_parcial" // declarado, ninguna operación lo asigna
	ShipmentNotDelivered ShipmentStatus = "no_entregado"
	ShipmentRescheduled  ShipmentStatus = "reprogramado"
)

// ShipmentStatuses lista todos los estados del envío.
var ShipmentStatuses = []ShipmentStatus{
	ShipmentPending, ShipmentAssigned, ShipmentLoading, ShipmentInTransit,
	ShipmentDelivered, ShipmentPartial, ShipmentNotDelivered, ShipmentRescheduled,
}

// Shipment (envío) asociado 1:1 a una venta.
type Shipment struct {
	ID          string
	Code        string
	OrderID     string
	RouteID     *string
	VehicleID   *string
	DriverID    *string
	DeliverySeq *int
	Status      ShipmentStatus
	ScheduledAt *time.Time
	DeliveredAt *time.Time

	// Prueba de entrega
	Signed            bool
	RecipientName     string
	RecipientDocument string
	Latitude          *float64
	Longitude         *float64
	Notes             string
	FailureReason     string

	CreatedAt time.Time
	UpdatedAt time.Time
}
