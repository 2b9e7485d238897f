// Package sales contiene las reglas puras de la venta: cálculo de importes y tabla de transiciones.
package sales

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
)

// DefaultTaxRate IGV aplicado al subtotal.
var DefaultTaxRate = decimal.RequireFromString("0.18")

var hundred = decimal.NewFromInt(100)

// LineSubtotal = precio × (1 − dscto%/100) × cantidad − dscto monto.
func LineSubtotal(unitPrice, discountPct decimal.Decimal, qty int, discountAmount decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Sub(discountPct.Div(hundred))
	return unitPrice.Mul(factor).Mul(decimal.NewFromInt(int64(qty))).Sub(discountAmount)
}

// ComputeTotals recalcula el subtotal de cada línea y los importes de la venta.
// Subtotal e impuesto se redondean a 2 decimales; Total = Subtotal + Tax − Discount exacto.
func ComputeTotals(o *entity.Order, taxRate decimal.Decimal) {
	sum := decimal.Zero
	for i := range o.Lines {
		l := &o.Lines[i]
		l.Subtotal = LineSubtotal(l.UnitPrice, l.DiscountPct, l.Quantity, l.DiscountAmount).Round(2)
		sum = sum.Add(l.Subtotal)
	}
	o.Subtotal = sum.Round(2)
	o.Tax = o.Subtotal.Mul(taxRate).Round(2)
	o.Discount = o.Discount.Round(2)
	o.Total = o.Subtotal.Add(o.Tax).Sub(o.Discount)
}

// AggregateByProduct suma las cantidades de las líneas por producto.
// Los ids salen ordenados: es el orden en que se bloquean las filas de stock.
func AggregateByProduct(lines []entity.OrderLine) ([]string, map[string]int) {
	ids := make([]string, 0, len(lines))
	qty := make(map[string]int, len(lines))
	for _, l := range lines {
		if _, ok := qty[l.ProductID]; !ok {
			ids = append(ids, l.ProductID)
		}
		qty[l.ProductID] += l.Quantity
	}
	sort.Strings(ids)
	return ids, qty
}

// LinesByProduct copia de las líneas ordenada por producto (estable).
func LinesByProduct(lines []entity.OrderLine) []entity.OrderLine {
	out := make([]entity.OrderLine, len(lines))
	copy(out, lines)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}
