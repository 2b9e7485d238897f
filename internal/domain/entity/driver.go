package entity

import "time"

// Driver conductor. Available es el flag de exclusión mutua entre rutas.
type Driver struct {
	ID              string
	Code            string
	FirstName       string
	LastName        string
	DocumentID      string // DNI
	Phone           string
	LicenseNumber   string
	LicenseCategory string
	LicenseExpires  *time.Time
	Active          bool
	Available       bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// FullName devuelve nombres y apellidos.
func (d *Driver) FullName() string {
	if d.LastName == "" {
		return d.FirstName
	}
	return d.FirstName + " " + d.LastName
}
