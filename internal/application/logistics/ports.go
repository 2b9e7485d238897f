package logistics

import (
	"context"
	"time"

	appsales "github.com/jhoicas/distribuidora-api/internal/application/sales"
	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/distribuidora-api/internal/domain/repository"
)

// OrderFulfillment efectos del envío sobre la venta, ejecutados en la transacción del caller.
type OrderFulfillment interface {
	ShipInTx(ctx context.Context, tx repository.Repos, orderID string) (*entity.Order, error)
	DeliverInTx(ctx context.Context, tx repository.Repos, orderID string, at time.Time) (*entity.Order, error)
}

var _ OrderFulfillment = (*appsales.OrderUseCase)(nil)

// ManifestStop una parada de la hoja de ruta.
type ManifestStop struct {
	Shipment *entity.Shipment
	Order    *entity.Order
	Customer *entity.Customer
}

// RouteManifest datos de la hoja de ruta impresa.
type RouteManifest struct {
	Route       *entity.Route
	Zone        *entity.Zone
	Vehicle     *entity.Vehicle
	Driver      *entity.Driver
	Stops       []ManifestStop
	GeneratedAt time.Time
}

// ManifestRenderer genera la hoja de ruta (PDF).
type ManifestRenderer interface {
	RenderRouteManifest(ctx context.Context, m *RouteManifest) ([]byte, error)
}

// DespatchLine producto y cantidad trasladada.
type DespatchLine struct {
	Product  *entity.Product
	Quantity int
}

// DespatchAdvice datos de la guía de remisión de un envío.
type DespatchAdvice struct {
	Shipment  *entity.Shipment
	Order     *entity.Order
	Customer  *entity.Customer
	Warehouse *entity.Warehouse // punto de partida; nil si la venta no registró almacén
	Vehicle   *entity.Vehicle
	Driver    *entity.Driver
	Lines     []DespatchLine
	IssuedAt  time.Time
}

// DespatchBuilder construye el XML de la guía de remisión.
type DespatchBuilder interface {
	BuildDespatchAdvice(ctx context.Context, d *DespatchAdvice) ([]byte, error)
}
