// Package logistics contiene la tabla de transiciones del envío.
package logistics

import "github.com/jhoicas/distribuidora-api/internal/domain/entity"

// Operaciones sobre un envío.
const (
	OpAssign     = "asignar"
	OpStart      = "iniciar"
	OpComplete   = "completar"
	OpFail       = "marcar no entregado"
	OpReschedule = "reprogramar"
)

// en_carga y entrega_parcial no son origen ni destino de ninguna operación.
var allowedFrom = map[string][]entity.ShipmentStatus{
	OpAssign:     {entity.ShipmentPending, entity.ShipmentAssigned, entity.ShipmentRescheduled},
	OpStart:      {entity.ShipmentAssigned},
	OpComplete:   {entity.ShipmentAssigned, entity.ShipmentInTransit},
	OpFail:       {entity.ShipmentAssigned, entity.ShipmentInTransit},
	OpReschedule: {entity.ShipmentRescheduled},
}

// Allowed indica si op puede ejecutarse sobre un envío en estado s.
func Allowed(s entity.ShipmentStatus, op string) bool {
	for _, from := range allowedFrom[op] {
		if from == s {
			return true
		}
	}
	return false
}

// FailureStatus estado resultante de un intento fallido.
func FailureStatus(reschedule bool) entity.ShipmentStatus {
	if reschedule {
		return entity.ShipmentRescheduled
	}
	return entity.ShipmentNotDelivered
}

// IsTerminal estados finales del envío.
func IsTerminal(s entity.ShipmentStatus) bool {
	return s == entity.ShipmentDelivered || s == entity.ShipmentNotDelivered
}
