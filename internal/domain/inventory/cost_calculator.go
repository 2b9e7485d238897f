package inventory

import "github.com/shopspring/decimal"

// CostCalculator implementa la lógica de costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
func CostCalculator(stockActual, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	sum := stockActual.Add(cantEntrada)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := stockActual.Mul(costoActual).Add(cantEntrada.Mul(costoEntrada))
	return num.Div(sum)
}

// WeightedCost aplica CostCalculator a cantidades enteras de stock y redondea a 4 decimales.
func WeightedCost(onHand int, currentCost decimal.Decimal, qtyIn int, unitCost decimal.Decimal) decimal.Decimal {
	return CostCalculator(
		decimal.NewFromInt(int64(onHand)), currentCost,
		decimal.NewFromInt(int64(qtyIn)), unitCost,
	).Round(4)
}
