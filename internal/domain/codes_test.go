package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/distribuidora-api/internal/domain"
)

func TestNextCode(t *testing.T) {
	day := time.Date(2024, 3, 7, 10, 0, 0, 0, time.UTC)
	base := domain.DailyBase(domain.ShipmentCodePrefix, day)
	assert.Equal(t, "ENV20240307", base)

	tests := []struct {
		name string
		last string
		want string
	}{
		{"primer código del día", "", "ENV202403070001"},
		{"incrementa el mayor", "ENV202403070009", "ENV202403070010"},
		{"otro día reinicia", "ENV202403060042", "ENV202403070001"},
		{"sufijo inválido reinicia", "ENV20240307XXXX", "ENV202403070001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.NextCode(base, tt.last, domain.ShipmentCodeWidth))
		})
	}
}

func TestNextCode_NumeroVentaMensual(t *testing.T) {
	base := domain.MonthlyBase(domain.OrderNumberPrefix, time.Date(2024, 11, 30, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "V20241100001", domain.NextCode(base, "", domain.OrderNumberWidth))
	assert.Equal(t, "V20241100124", domain.NextCode(base, "V20241100123", domain.OrderNumberWidth))
	assert.Equal(t, "RUT20241130001", domain.NextCode(domain.DailyBase(domain.RouteCodePrefix, time.Date(2024, 11, 30, 0, 0, 0, 0, time.UTC)), "", domain.RouteCodeWidth))
}

func TestTypedErrors_MatchSentinels(t *testing.T) {
	assert.ErrorIs(t, domain.NewNotFound(domain.EntityOrder, "1"), domain.ErrNotFound)
	assert.ErrorIs(t, domain.NewInvalidState(domain.EntityOrder, "1", "borrador", "preparar"), domain.ErrInvalidState)
	assert.ErrorIs(t, &domain.InsufficientStockError{Requested: 5, Available: 1}, domain.ErrInsufficientStock)
	assert.ErrorIs(t, domain.NewUnknownEntity(domain.EntityProduct, "p"), domain.ErrUnknownProduct)
	assert.ErrorIs(t, domain.NewUnknownEntity(domain.EntityProduct, "p"), domain.ErrUnknownEntity)
	assert.NotErrorIs(t, domain.NewUnknownEntity(domain.EntityCustomer, "c"), domain.ErrUnknownProduct)
	assert.ErrorIs(t, &domain.OrderNotReadyError{OrderID: "1", State: "borrador"}, domain.ErrOrderNotReady)
	assert.ErrorIs(t, &domain.ResourceUnavailableError{Resource: domain.EntityVehicle, ID: "v"}, domain.ErrResourceUnavailable)
}
