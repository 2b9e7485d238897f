package dto

import "time"

// CreateVehicleRequest entrada para registrar un vehículo.
type CreateVehicleRequest struct {
	Code             string     `json:"code"`
	Plate            string     `json:"plate" validate:"required"`
	Type             string     `json:"type" validate:"required"`
	Brand            string     `json:"brand"`
	Model            string     `json:"model"`
	CapacityKg       float64    `json:"capacity_kg"`
	CapacityM3       float64    `json:"capacity_m3"`
	InsuranceExpires *time.Time `json:"insurance_expires,omitempty"`
}

// UpdateVehicleRequest patch de vehículo. La disponibilidad no se edita: la controlan las rutas.
type UpdateVehicleRequest struct {
	Brand            *string    `json:"brand"`
	Model            *string    `json:"model"`
	CapacityKg       *float64   `json:"capacity_kg"`
	CapacityM3       *float64   `json:"capacity_m3"`
	InsuranceExpires *time.Time `json:"insurance_expires"`
	Active           *bool      `json:"active"`
}

// VehicleResponse salida de un vehículo.
type VehicleResponse struct {
	ID               string     `json:"id"`
	Code             string     `json:"code"`
	Plate            string     `json:"plate"`
	Type             string     `json:"type"`
	Brand            string     `json:"brand"`
	Model            string     `json:"model"`
	CapacityKg       float64    `json:"capacity_kg"`
	CapacityM3       float64    `json:"capacity_m3"`
	Active           bool       `json:"active"`
	Available        bool       `json:"available"`
	InsuranceExpires *time.Time `json:"insurance_expires,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// CreateDriverRequest entrada para registrar un conductor.
type CreateDriverRequest struct {
	Code            string     `json:"code"`
	FirstName       string     `json:"first_name" validate:"required"`
	LastName        string     `json:"last_name" validate:"required"`
	DocumentID      string     `json:"document_id" validate:"required"`
	Phone           string     `json:"phone"`
	LicenseNumber   string     `json:"license_number" validate:"required"`
	LicenseCategory string     `json:"license_category"`
	LicenseExpires  *time.Time `json:"license_expires,omitempty"`
}

// UpdateDriverRequest patch de conductor.
type UpdateDriverRequest struct {
	FirstName       *string    `json:"first_name"`
	LastName        *string    `json:"last_name"`
	Phone           *string    `json:"phone"`
	LicenseNumber   *string    `json:"license_number"`
	LicenseCategory *string    `json:"license_category"`
	LicenseExpires  *time.Time `json:"license_expires"`
	Active          *bool      `json:"active"`
}

// DriverResponse salida de un conductor.
type DriverResponse struct {
	ID              string     `json:"id"`
	Code            string     `json:"code"`
	FullName        string     `json:"full_name"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	DocumentID      string     `json:"document_id"`
	Phone           string     `json:"phone"`
	LicenseNumber   string     `json:"license_number"`
	LicenseCategory string     `json:"license_category"`
	LicenseExpires  *time.Time `json:"license_expires,omitempty"`
	Active          bool       `json:"active"`
	Available       bool       `json:"available"`
	CreatedAt       time.Time  `json:"created_at"`
}

// CreateZoneRequest entrada para crear una zona de reparto.
type CreateZoneRequest struct {
	Code         string   `json:"code" validate:"required"`
	Name         string   `json:"name" validate:"required"`
	Districts    []string `json:"districts"`
	Description  string   `json:"description"`
	DeliveryDays string   `json:"delivery_days"`
}

// UpdateZoneRequest patch de zona.
type UpdateZoneRequest struct {
	Name         *string  `json:"name"`
	Districts    []string `json:"districts"`
	Description  *string  `json:"description"`
	DeliveryDays *string  `json:"delivery_days"`
	Active       *bool    `json:"active"`
}

// ZoneResponse salida de una zona.
type ZoneResponse struct {
	ID           string    `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Districts    []string  `json:"districts"`
	Description  string    `json:"description"`
	DeliveryDays string    `json:"delivery_days"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}
