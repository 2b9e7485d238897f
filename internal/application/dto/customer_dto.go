package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCustomerRequest entrada para crear un cliente.
type CreateCustomerRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	TaxID       string          `json:"tax_id"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	Address     string          `json:"address"`
	District    string          `json:"district"`
	CreditDays  int             `json:"credit_days"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
}

// UpdateCustomerRequest entrada para actualizar un cliente.
type UpdateCustomerRequest struct {
	Name        *string          `json:"name"`
	Email       *string          `json:"email"`
	Phone       *string          `json:"phone"`
	Address     *string          `json:"address"`
	District    *string          `json:"district"`
	CreditDays  *int             `json:"credit_days"`
	CreditLimit *decimal.Decimal `json:"credit_limit"`
	Active      *bool            `json:"active"`
}

// CustomerResponse salida de un cliente.
type CustomerResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	TaxID       string          `json:"tax_id"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	Address     string          `json:"address"`
	District    string          `json:"district"`
	CreditDays  int             `json:"credit_days"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CustomerListResponse lista paginada de clientes.
type CustomerListResponse struct {
	Items []CustomerResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// OverdueOrderResponse venta con pago vencido.
type OverdueOrderResponse struct {
	OrderID      string          `json:"order_id"`
	Number       string          `json:"number"`
	Status       string          `json:"status"`
	PaymentDueAt time.Time       `json:"payment_due_at"`
	Total        decimal.Decimal `json:"total"`
	Paid         decimal.Decimal `json:"paid"`
	Outstanding  decimal.Decimal `json:"outstanding"`
}

// OverdueCreditResponse cliente con crédito vencido y el detalle de sus ventas.
type OverdueCreditResponse struct {
	CustomerID  string                 `json:"customer_id"`
	Name        string                 `json:"name"`
	TaxID       string                 `json:"tax_id"`
	Phone       string                 `json:"phone"`
	Outstanding decimal.Decimal        `json:"outstanding"`
	OldestDueAt time.Time              `json:"oldest_due_at"`
	Orders      []OverdueOrderResponse `json:"orders"`
}
