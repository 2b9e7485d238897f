package entity

import "time"

// Zone zona de reparto.
type Zone struct {
	ID           string
	Code         string
	Name         string
	Districts    []string
	Description  string
	DeliveryDays string // ej: "lunes,miercoles,viernes"
	Active       bool
	CreatedAt    time.Time
}
