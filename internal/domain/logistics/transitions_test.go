package logistics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/distribuidora-api/internal/domain/logistics"
)

func TestAllowed(t *testing.T) {
	assert.True(t, logistics.Allowed(entity.ShipmentAssigned, logistics.OpStart))
	assert.False(t, logistics.Allowed(entity.ShipmentPending, logistics.OpStart))
	assert.True(t, logistics.Allowed(entity.ShipmentAssigned, logistics.OpComplete))
	assert.True(t, logistics.Allowed(entity.ShipmentInTransit, logistics.OpComplete))
	assert.False(t, logistics.Allowed(entity.ShipmentDelivered, logistics.OpComplete))
	assert.False(t, logistics.Allowed(entity.ShipmentDelivered, logistics.OpFail))
	assert.True(t, logistics.Allowed(entity.ShipmentRescheduled, logistics.OpReschedule))
	assert.False(t, logistics.Allowed(entity.ShipmentNotDelivered, logistics.OpReschedule))
}

func TestEstadosDeclaradosNoSeAlcanzan(t *testing.T) {
	for _, op := range []string{logistics.OpAssign, logistics.OpStart, logistics.OpComplete, logistics.OpFail, logistics.OpReschedule} {
		assert.False(t, logistics.Allowed(entity.ShipmentLoading, op), op)
		assert.False(t, logistics.Allowed(entity.ShipmentPartial, op), op)
	}
}

func TestFailureStatus(t *testing.T) {
	assert.Equal(t, entity.ShipmentRescheduled, logistics.FailureStatus(true))
	assert.Equal(t, entity.ShipmentNotDelivered, logistics.FailureStatus(false))
}
