package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus es el estado de la venta en la máquina de estados de despacho.
type OrderStatus string

const (
	OrderDraft         OrderStatus = "borrador"
	OrderConfirmed     OrderStatus = "confirmado"
	OrderInPreparation OrderStatus = "en_preparacion"
	OrderReadyToShip   OrderStatus = "listo_envio"
	OrderInTransit     OrderStatus = "en_ruta"
	OrderDelivered     OrderStatus = "entregado"
	OrderCancelled     OrderStatus = "cancelado"
)

// OrderStatuses lista todos los estados en orden de ciclo de vida.
var OrderStatuses = []OrderStatus{
	OrderDraft, OrderConfirmed, OrderInPreparation, OrderReadyToShip,
	OrderInTransit, OrderDelivered, OrderCancelled,
}

// PaymentType condición o medio de pago.
type PaymentType string

const (
	PaymentCash     PaymentType = "contado"
	PaymentCredit   PaymentType = "credito"
	PaymentTransfer PaymentType = "transferencia"
	PaymentCheck    PaymentType = "cheque"
)

// Valid indica si el tipo de pago es conocido.
func (p PaymentType) Valid() bool {
	switch p {
	case PaymentCash, PaymentCredit, PaymentTransfer, PaymentCheck:
		return true
	}
	return false
}

// DocumentType comprobante que se emitirá por la venta.
type DocumentType string

const (
	DocumentInvoice  DocumentType = "factura"
	DocumentReceipt  DocumentType = "boleta"
	DocumentSaleNote DocumentType = "nota_venta"
)

// Order (venta) con sus líneas. Las líneas son inmutables una vez que la venta sale de borrador.
type Order struct {
	ID                  string
	Number              string
	CustomerID          string
	SalespersonID       string
	WarehouseID         string // almacén donde se reservó al confirmar
	Status              OrderStatus
	DocumentType        DocumentType
	PaymentType         PaymentType
	PaymentDueAt        *time.Time
	RequestedDeliveryAt *time.Time
	DeliveredAt         *time.Time
	Subtotal            decimal.Decimal
	Discount            decimal.Decimal
	Tax                 decimal.Decimal
	Total               decimal.Decimal
	DeliveryAddress     string
	DeliveryReference   string
	Notes               string
	Lines               []OrderLine
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// OrderLine detalle de venta.
type OrderLine struct {
	ID             string
	OrderID        string
	ProductID      string
	Quantity       int
	DeliveredQty   int
	UnitPrice      decimal.Decimal
	DiscountPct    decimal.Decimal
	DiscountAmount decimal.Decimal
	Subtotal       decimal.Decimal
}

// Payment pago registrado contra una venta. No modifica el total de la venta.
type Payment struct {
	ID        string
	OrderID   string
	Amount    decimal.Decimal
	Method    PaymentType
	Reference string
	Confirmed bool
	ActorID   string
	CreatedAt time.Time
}
