package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	applogistics "github.com/jhoicas/distribuidora-api/internal/application/logistics"
	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
)

func TestRenderRouteManifest(t *testing.T) {
	g := NewRouteManifestRenderer("Distribuidora Andina")
	m := &applogistics.RouteManifest{
		Route:   &entity.Route{Code: "RUT20260105001", Name: "Lima Norte mañana", Date: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)},
		Vehicle: &entity.Vehicle{Plate: "ABC-123", Brand: "Hyundai", Model: "H100"},
		Driver:  &entity.Driver{FirstName: "José", LastName: "Peña", LicenseNumber: "Q123"},
		Stops: []applogistics.ManifestStop{
			{
				Shipment: &entity.Shipment{Code: "ENV202601050001"},
				Order:    &entity.Order{Total: decimal.RequireFromString("111.51"), DeliveryAddress: "Av. Túpac Amaru 123"},
				Customer: &entity.Customer{Name: "Bodega Rosita"},
			},
		},
		GeneratedAt: time.Now(),
	}

	out, err := g.RenderRouteManifest(context.Background(), m)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderRouteManifest_NoRoute(t *testing.T) {
	_, err := NewRouteManifestRenderer("x").RenderRouteManifest(context.Background(), &applogistics.RouteManifest{})
	assert.Error(t, err)
}

func TestFormatMoney(t *testing.T) {
	g := NewRouteManifestRenderer("x")
	assert.Contains(t, g.formatMoney(decimal.RequireFromString("1234.5")), "234")
	assert.Contains(t, g.formatMoney(decimal.RequireFromString("1234.5")), "S/ ")
}
