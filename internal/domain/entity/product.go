package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultMinStock stock mínimo de un producto nuevo.
const DefaultMinStock = 10

// Product representa un SKU del catálogo.
// Cost es promedio ponderado, se recalcula en cada entrada por compra.
// MinStock es el punto de reposición sobre el stock total; MaxStock 0 = sin tope.
type Product struct {
	ID          string
	SKU         string
	Name        string
	Description string
	Brand       string
	Category    string
	Price       decimal.Decimal // precio de venta
	Cost        decimal.Decimal
	UnitMeasure string
	MinStock    int
	MaxStock    int
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
