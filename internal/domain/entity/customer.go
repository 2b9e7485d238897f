package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer representa un cliente (bodega, minimarket, mayorista...).
// CreditDays = 0 significa solo contado.
type Customer struct {
	ID          string
	Name        string
	TaxID       string // RUC o DNI
	Email       string
	Phone       string
	Address     string
	District    string
	CreditDays  int
	CreditLimit decimal.Decimal
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
