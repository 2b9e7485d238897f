package sales

import "github.com/jhoicas/distribuidora-api/internal/domain/entity"

// Operaciones de la máquina de estados de la venta.
const (
	OpConfirm = "confirmar"
	OpPrepare = "preparar"
	OpReady   = "marcar listo para envío"
	OpCancel  = "cancelar"
	OpShip    = "poner en ruta"
	OpDeliver = "entregar"
	OpUpdate  = "modificar"
)

var transitions = map[string]struct {
	from []entity.OrderStatus
	to   entity.OrderStatus
}{
	OpConfirm: {[]entity.OrderStatus{entity.OrderDraft}, entity.OrderConfirmed},
	OpPrepare: {[]entity.OrderStatus{entity.OrderConfirmed}, entity.OrderInPreparation},
	OpReady:   {[]entity.OrderStatus{entity.OrderInPreparation}, entity.OrderReadyToShip},
	OpCancel: {[]entity.OrderStatus{
		entity.OrderDraft, entity.OrderConfirmed, entity.OrderInPreparation, entity.OrderReadyToShip,
	}, entity.OrderCancelled},
	OpShip: {[]entity.OrderStatus{
		entity.OrderConfirmed, entity.OrderInPreparation, entity.OrderReadyToShip,
	}, entity.OrderInTransit},
	OpDeliver: {[]entity.OrderStatus{
		entity.OrderConfirmed, entity.OrderInPreparation, entity.OrderReadyToShip, entity.OrderInTransit,
	}, entity.OrderDelivered},
	OpUpdate: {[]entity.OrderStatus{entity.OrderDraft}, entity.OrderDraft},
}

// Next devuelve el estado destino de op desde from, u ok=false si la operación no está permitida.
func Next(from entity.OrderStatus, op string) (entity.OrderStatus, bool) {
	t, found := transitions[op]
	if !found {
		return from, false
	}
	for _, s := range t.from {
		if s == from {
			return t.to, true
		}
	}
	return from, false
}

// HoldsReservation indica si la venta tiene stock reservado pendiente de salida.
func HoldsReservation(s entity.OrderStatus) bool {
	return s == entity.OrderConfirmed || s == entity.OrderInPreparation
}

// IsTerminal estados finales.
func IsTerminal(s entity.OrderStatus) bool {
	return s == entity.OrderDelivered || s == entity.OrderCancelled
}

// Shippable estados desde los que se puede crear un envío.
func Shippable(s entity.OrderStatus) bool {
	return s == entity.OrderReadyToShip || s == entity.OrderConfirmed
}
