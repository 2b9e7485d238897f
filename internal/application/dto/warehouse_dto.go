package dto

import "time"

// CreateWarehouseRequest entrada para crear un almacén.
type CreateWarehouseRequest struct {
	Code        string `json:"code" validate:"required,max=20"`
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Type        string `json:"type"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Responsible string `json:"responsible"`
	Phone       string `json:"phone"`
}

// UpdateWarehouseRequest entrada para actualizar un almacén.
type UpdateWarehouseRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Type        *string `json:"type"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	Responsible *string `json:"responsible"`
	Phone       *string `json:"phone"`
	Active      *bool   `json:"active"`
}

// WarehouseResponse salida de un almacén.
type WarehouseResponse struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	Responsible string    `json:"responsible"`
	Phone       string    `json:"phone"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// WarehouseListResponse lista paginada de almacenes.
type WarehouseListResponse struct {
	Items []WarehouseResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}
