package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin      = "admin"
	RoleGerente    = "gerente"
	RoleVendedor   = "vendedor"
	RoleAlmacenero = "almacenero"
	RoleLogistica  = "logistica"
	RoleContador   = "contador"
)

// ValidRole indica si el rol pertenece al catálogo.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleGerente, RoleVendedor, RoleAlmacenero, RoleLogistica, RoleContador:
		return true
	}
	return false
}

// User representa un usuario del sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
