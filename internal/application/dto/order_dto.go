package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLineRequest línea de venta.
type OrderLineRequest struct {
	ProductID      string          `json:"product_id"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	DiscountPct    decimal.Decimal `json:"discount_pct"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
}

// CreateOrderRequest body para POST /api/orders.
type CreateOrderRequest struct {
	CustomerID          string             `json:"customer_id"`
	DocumentType        string             `json:"document_type"`
	PaymentType         string             `json:"payment_type"`
	RequestedDeliveryAt *time.Time         `json:"requested_delivery_at,omitempty"`
	DeliveryAddress     string             `json:"delivery_address"`
	DeliveryReference   string             `json:"delivery_reference"`
	Notes               string             `json:"notes"`
	Discount            decimal.Decimal    `json:"discount"`
	Lines               []OrderLineRequest `json:"lines"`
}

// UpdateOrderRequest patch de cabecera (sólo en borrador).
type UpdateOrderRequest struct {
	DeliveryAddress     *string    `json:"delivery_address"`
	DeliveryReference   *string    `json:"delivery_reference"`
	Notes               *string    `json:"notes"`
	RequestedDeliveryAt *time.Time `json:"requested_delivery_at"`
	PaymentType         *string    `json:"payment_type"`
	DocumentType        *string    `json:"document_type"`
}

// WarehouseRequest body opcional de confirmar / listo / cancelar.
type WarehouseRequest struct {
	WarehouseID string `json:"warehouse_id"`
}

// PaymentRequest body para POST /api/orders/:id/payments.
type PaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Reference string          `json:"reference"`
}

// OrderLineResponse línea de venta.
type OrderLineResponse struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id"`
	Quantity       int             `json:"quantity"`
	DeliveredQty   int             `json:"delivered_qty"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	DiscountPct    decimal.Decimal `json:"discount_pct"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

// OrderResponse venta con líneas.
type OrderResponse struct {
	ID                  string              `json:"id"`
	Number              string              `json:"number"`
	CustomerID          string              `json:"customer_id"`
	SalespersonID       string              `json:"salesperson_id"`
	WarehouseID         string              `json:"warehouse_id,omitempty"`
	Status              string              `json:"status"`
	DocumentType        string              `json:"document_type"`
	PaymentType         string              `json:"payment_type"`
	PaymentDueAt        *time.Time          `json:"payment_due_at,omitempty"`
	RequestedDeliveryAt *time.Time          `json:"requested_delivery_at,omitempty"`
	DeliveredAt         *time.Time          `json:"delivered_at,omitempty"`
	Subtotal            decimal.Decimal     `json:"subtotal"`
	Discount            decimal.Decimal     `json:"discount"`
	Tax                 decimal.Decimal     `json:"tax"`
	Total               decimal.Decimal     `json:"total"`
	DeliveryAddress     string              `json:"delivery_address"`
	DeliveryReference   string              `json:"delivery_reference,omitempty"`
	Notes               string              `json:"notes,omitempty"`
	Lines               []OrderLineResponse `json:"lines"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

// PaymentResponse pago registrado.
type PaymentResponse struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"order_id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Reference string          `json:"reference,omitempty"`
	Confirmed bool            `json:"confirmed"`
	CreatedAt time.Time       `json:"created_at"`
}

// SalesSummaryResponse resumen de ventas del período.
type SalesSummaryResponse struct {
	From     time.Time       `json:"from"`
	To       time.Time       `json:"to"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
	Average  decimal.Decimal `json:"average"`
	ByStatus map[string]int  `json:"by_status"`
}
