package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementDirection indica si el movimiento suma (entrada) o resta (salida) stock.
type MovementDirection string

const (
	DirectionEntry MovementDirection = "entrada"
	DirectionExit  MovementDirection = "salida"
)

// MovementKind es el subtipo del movimiento.
type MovementKind string

const (
	KindPurchase   MovementKind = "compra"
	KindReturn     MovementKind = "devolucion"
	KindAdjustment MovementKind = "ajuste"
	KindTransfer   MovementKind = "transferencia"
	KindSale       MovementKind = "venta"
	KindShrinkage  MovementKind = "merma"
)

// Tipos de documento origen de un movimiento.
const (
	DocumentTypeSale       = "venta"
	DocumentTypePurchase   = "compra"
	DocumentTypeTransfer   = "transferencia"
	DocumentTypeAdjustment = "ajuste"
)

// DocumentRef referencia al documento que originó el movimiento.
type DocumentRef struct {
	Type   string
	ID     string
	Number string
}

// Movement es una entrada inmutable del kardex. Es el único mutador de StockRecord.OnHand.
type Movement struct {
	ID            string
	TransactionID string
	WarehouseID   string
	ProductID     string
	Direction     MovementDirection
	Kind          MovementKind
	Quantity      int // siempre > 0; el signo lo da Direction
	StockBefore   int
	StockAfter    int
	Document      DocumentRef
	Reason        string
	ActorID       string
	UnitCost      decimal.Decimal
	CreatedAt     time.Time
}

// Code devuelve la representación "direccion_subtipo" (ej: salida_venta).
func (m *Movement) Code() string {
	return string(m.Direction) + "_" + string(m.Kind)
}
