package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/distribuidora-api/internal/domain"
	"github.com/jhoicas/distribuidora-api/internal/domain/repository"
)

// ReplenishmentSuggestion producto bajo mínimo con la cantidad sugerida de pedido.
// Priority 1 = mayor déficit.
type ReplenishmentSuggestion struct {
	repository.LowStockItem
	IdealStock    int
	SuggestedQty  int
	EstimatedCost decimal.Decimal
	Priority      int
}

// idealStock: el máximo configurado o, sin tope, 1.5 × mínimo.
func idealStock(item repository.LowStockItem) int {
	if item.MaxStock > 0 {
		return item.MaxStock
	}
	return item.MinStock * 3 / 2
}

// LowStock lista de reposición: productos activos con stock físico bajo su mínimo.
// warehouseID vacío considera el stock de todos los almacenes.
func (l *Ledger) LowStock(ctx context.Context, warehouseID string) ([]ReplenishmentSuggestion, error) {
	if warehouseID != "" {
		w, err := l.repos.Warehouses.GetByID(ctx, warehouseID)
		if err != nil {
			return nil, err
		}
		if w == nil {
			return nil, domain.NewNotFound(domain.EntityWarehouse, warehouseID)
		}
	}
	items, err := l.repos.Stock.ListBelowMinimum(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	out := make([]ReplenishmentSuggestion, 0, len(items))
	for i, item := range items {
		ideal := idealStock(item)
		qty := ideal - item.OnHand
		if qty < 0 {
			qty = 0
		}
		out = append(out, ReplenishmentSuggestion{
			LowStockItem:  item,
			IdealStock:    ideal,
			SuggestedQty:  qty,
			EstimatedCost: item.UnitCost.Mul(decimal.NewFromInt(int64(qty))),
			Priority:      i + 1,
		})
	}
	if len(out) > 0 {
		l.log.Debug().Str("warehouse_id", warehouseID).Int("items", len(out)).Msg("productos bajo stock mínimo")
	}
	return out, nil
}
