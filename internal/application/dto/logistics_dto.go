package dto

import "time"

// CreateShipmentRequest body opcional para POST /api/shipments/order/:orderId.
type CreateShipmentRequest struct {
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
}

// AssignShipmentRequest body para POST /api/shipments/:id/assign.
type AssignShipmentRequest struct {
	VehicleID string  `json:"vehicle_id"`
	DriverID  string  `json:"driver_id"`
	RouteID   *string `json:"route_id,omitempty"`
}

// CompleteShipmentRequest conformidad de entrega.
type CompleteShipmentRequest struct {
	RecipientName     string   `json:"recipient_name"`
	RecipientDocument string   `json:"recipient_document"`
	Signed            *bool    `json:"signed"` // nil = true
	Latitude          *float64 `json:"latitude,omitempty"`
	Longitude         *float64 `json:"longitude,omitempty"`
	Notes             string   `json:"notes"`
}

// FailShipmentRequest body para POST /api/shipments/:id/fail.
type FailShipmentRequest struct {
	Reason     string `json:"reason"`
	Reschedule *bool  `json:"reschedule"` // nil = true
}

// RescheduleShipmentRequest body para POST /api/shipments/:id/reschedule.
type RescheduleShipmentRequest struct {
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
}

// ShipmentResponse salida de un envío.
type ShipmentResponse struct {
	ID                string     `json:"id"`
	Code              string     `json:"code"`
	OrderID           string     `json:"order_id"`
	RouteID           *string    `json:"route_id,omitempty"`
	VehicleID         *string    `json:"vehicle_id,omitempty"`
	DriverID          *string    `json:"driver_id,omitempty"`
	DeliverySeq       *int       `json:"delivery_seq,omitempty"`
	Status            string     `json:"status"`
	ScheduledAt       *time.Time `json:"scheduled_at,omitempty"`
	DeliveredAt       *time.Time `json:"delivered_at,omitempty"`
	Signed            bool       `json:"signed"`
	RecipientName     string     `json:"recipient_name,omitempty"`
	RecipientDocument string     `json:"recipient_document,omitempty"`
	Latitude          *float64   `json:"latitude,omitempty"`
	Longitude         *float64   `json:"longitude,omitempty"`
	Notes             string     `json:"notes,omitempty"`
	FailureReason     string     `json:"failure_reason,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// CreateRouteRequest body para POST /api/routes.
type CreateRouteRequest struct {
	Name        string     `json:"name"`
	Date        *time.Time `json:"date,omitempty"`
	ZoneID      *string    `json:"zone_id,omitempty"`
	VehicleID   *string    `json:"vehicle_id,omitempty"`
	DriverID    *string    `json:"driver_id,omitempty"`
	ShipmentIDs []string   `json:"shipment_ids"`
}

// CompleteRouteRequest body para POST /api/routes/:id/complete.
type CompleteRouteRequest struct {
	DistanceKm float64 `json:"distance_km"`
}

// RouteResponse salida de una ruta.
type RouteResponse struct {
	ID          string     `json:"id"`
	Code        string     `json:"code"`
	Name        string     `json:"name"`
	Date        time.Time  `json:"date"`
	ZoneID      *string    `json:"zone_id,omitempty"`
	VehicleID   *string    `json:"vehicle_id,omitempty"`
	DriverID    *string    `json:"driver_id,omitempty"`
	ShipmentIDs []string   `json:"shipment_ids"`
	Total       int        `json:"total"`
	Succeeded   int        `json:"succeeded"`
	Failed      int        `json:"failed"`
	Completed   bool       `json:"completed"`
	ReturnedAt  *time.Time `json:"returned_at,omitempty"`
	DistanceKm  float64    `json:"distance_km"`
	CreatedAt   time.Time  `json:"created_at"`
}

// LogisticsDashboardResponse resumen del día.
type LogisticsDashboardResponse struct {
	Date              string         `json:"date"`
	ShipmentsTotal    int            `json:"shipments_total"`
	ShipmentsByStatus map[string]int `json:"shipments_by_status"`
	VehiclesAvailable int            `json:"vehicles_available"`
	DriversAvailable  int            `json:"drivers_available"`
}
