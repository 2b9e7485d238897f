// Package inventory contiene las reglas puras del kardex: validación de tipos de movimiento,
// aplicación de entradas/salidas y reservas sobre un StockRecord.
package inventory

import (
	"github.com/jhoicas/distribuidora-api/internal/domain"
	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
)

var allowedKinds = map[entity.MovementDirection]map[entity.MovementKind]bool{
	entity.DirectionEntry: {
		entity.KindPurchase:   true,
		entity.KindReturn:     true,
		entity.KindAdjustment: true,
		entity.KindTransfer:   true,
	},
	entity.DirectionExit: {
		entity.KindSale:       true,
		entity.KindReturn:     true,
		entity.KindAdjustment: true,
		entity.KindTransfer:   true,
		entity.KindShrinkage:  true,
	},
}

// ValidKind indica si el par (dirección, subtipo) existe en la taxonomía de movimientos.
func ValidKind(dir entity.MovementDirection, kind entity.MovementKind) bool {
	return allowedKinds[dir][kind]
}

// ApplyMovement aplica una entrada o salida sobre el registro y devuelve el stock antes y después.
// Una salida mayor que OnHand se rechaza completa y el registro no cambia.
// Si la salida deja OnHand por debajo de Reserved, la reserva se recorta a OnHand.
func ApplyMovement(rec *entity.StockRecord, dir entity.MovementDirection, qty int) (before, after int, err error) {
	if qty <= 0 {
		return 0, 0, domain.ErrInvalidInput
	}
	before = rec.OnHand
	switch dir {
	case entity.DirectionEntry:
		rec.OnHand += qty
	case entity.DirectionExit:
		if rec.OnHand < qty {
			return before, before, &domain.InsufficientStockError{
				ProductID:   rec.ProductID,
				WarehouseID: rec.WarehouseID,
				Requested:   qty,
				Available:   rec.OnHand,
			}
		}
		rec.OnHand -= qty
		if rec.Reserved > rec.OnHand {
			rec.Reserved = rec.OnHand
		}
	default:
		return 0, 0, domain.ErrInvalidInput
	}
	return before, rec.OnHand, nil
}

// Reserve incrementa Reserved sólo si Available >= qty. Devuelve false sin tocar el registro en otro caso.
func Reserve(rec *entity.StockRecord, qty int) bool {
	if qty <= 0 || rec.Available() < qty {
		return false
	}
	rec.Reserved += qty
	return true
}

// Release decrementa Reserved en min(qty, Reserved) y devuelve lo liberado.
func Release(rec *entity.StockRecord, qty int) int {
	if qty <= 0 {
		return 0
	}
	if qty > rec.Reserved {
		qty = rec.Reserved
	}
	rec.Reserved -= qty
	return qty
}
