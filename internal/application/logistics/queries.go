package logistics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/distribuidora-api/internal/domain"
	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/distribuidora-api/internal/domain/repository"
)

// GetShipment obtiene un envío.
func (uc *LogisticsUseCase) GetShipment(ctx context.Context, shipmentID string) (*entity.Shipment, error) {
	s, err := uc.repos.Shipments.GetByID(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.NewNotFound(domain.EntityShipment, shipmentID)
	}
	return s, nil
}

// ListShipments lista envíos con filtros.
func (uc *LogisticsUseCase) ListShipments(ctx context.Context, filter repository.ShipmentFilter) ([]*entity.Shipment, error) {
	return uc.repos.Shipments.List(ctx, filter)
}

func dayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// PendingToday envíos pendientes o asignados programados para hoy.
func (uc *LogisticsUseCase) PendingToday(ctx context.Context) ([]*entity.Shipment, error) {
	from, to := dayBounds(uc.now())
	return uc.repos.Shipments.List(ctx, repository.ShipmentFilter{
		Statuses:      []entity.ShipmentStatus{entity.ShipmentPending, entity.ShipmentAssigned},
		ScheduledFrom: &from,
		ScheduledTo:   &to,
	})
}

// Dashboard resumen logístico del día.
type Dashboard struct {
	Date              time.Time
	ShipmentsTotal    int
	ShipmentsByStatus map[entity.ShipmentStatus]int
	VehiclesAvailable int
	DriversAvailable  int
}

// Dashboard cuenta los envíos programados hoy por estado y los recursos disponibles.
func (uc *LogisticsUseCase) Dashboard(ctx context.Context) (*Dashboard, error) {
	now := uc.now()
	from, to := dayBounds(now)
	shipments, err := uc.repos.Shipments.List(ctx, repository.ShipmentFilter{ScheduledFrom: &from, ScheduledTo: &to})
	if err != nil {
		return nil, err
	}
	vehicles, err := uc.repos.Vehicles.List(ctx, true)
	if err != nil {
		return nil, err
	}
	drivers, err := uc.repos.Drivers.List(ctx, true)
	if err != nil {
		return nil, err
	}
	d := &Dashboard{
		Date:              from,
		ShipmentsTotal:    len(shipments),
		ShipmentsByStatus: make(map[entity.ShipmentStatus]int, len(entity.ShipmentStatuses)),
		VehiclesAvailable: len(vehicles),
		DriversAvailable:  len(drivers),
	}
	for _, st := range entity.ShipmentStatuses {
		d.ShipmentsByStatus[st] = 0
	}
	for _, s := range shipments {
		d.ShipmentsByStatus[s.Status]++
	}
	return d, nil
}

// RouteManifestPDF genera la hoja de ruta con las paradas en orden de entrega.
func (uc *LogisticsUseCase) RouteManifestPDF(ctx context.Context, routeID string) ([]byte, error) {
	if uc.manifest == nil {
		return nil, fmt.Errorf("hoja de ruta no configurada")
	}
	route, err := uc.GetRoute(ctx, routeID)
	if err != nil {
		return nil, err
	}
	m := &RouteManifest{Route: route, GeneratedAt: uc.now()}
	if route.ZoneID != nil {
		if m.Zone, err = uc.repos.Zones.GetByID(ctx, *route.ZoneID); err != nil {
			return nil, err
		}
	}
	if route.VehicleID != nil {
		if m.Vehicle, err = uc.repos.Vehicles.GetByID(ctx, *route.VehicleID); err != nil {
			return nil, err
		}
	}
	if route.DriverID != nil {
		if m.Driver, err = uc.repos.Drivers.GetByID(ctx, *route.DriverID); err != nil {
			return nil, err
		}
	}
	for _, id := range route.ShipmentIDs {
		s, err := uc.repos.Shipments.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if s == nil {
			continue
		}
		stop := ManifestStop{Shipment: s}
		if stop.Order, err = uc.repos.Orders.GetByID(ctx, s.OrderID); err != nil {
			return nil, err
		}
		if stop.Order != nil {
			if stop.Customer, err = uc.repos.Customers.GetByID(ctx, stop.Order.CustomerID); err != nil {
				return nil, err
			}
		}
		m.Stops = append(m.Stops, stop)
	}
	return uc.manifest.RenderRouteManifest(ctx, m)
}

// DespatchAdviceXML construye la guía de remisión del envío.
func (uc *LogisticsUseCase) DespatchAdviceXML(ctx context.Context, shipmentID string) ([]byte, error) {
	if uc.despatch == nil {
		return nil, fmt.Errorf("guía de remisión no configurada")
	}
	s, err := uc.GetShipment(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	order, err := uc.repos.Orders.GetByID(ctx, s.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.NewNotFound(domain.EntityOrder, s.OrderID)
	}
	d := &DespatchAdvice{Shipment: s, Order: order, IssuedAt: uc.now()}
	if d.Customer, err = uc.repos.Customers.GetByID(ctx, order.CustomerID); err != nil {
		return nil, err
	}
	if order.WarehouseID != "" {
		if d.Warehouse, err = uc.repos.Warehouses.GetByID(ctx, order.WarehouseID); err != nil {
			return nil, err
		}
	}
	if s.VehicleID != nil {
		if d.Vehicle, err = uc.repos.Vehicles.GetByID(ctx, *s.VehicleID); err != nil {
			return nil, err
		}
	}
	if s.DriverID != nil {
		if d.Driver, err = uc.repos.Drivers.GetByID(ctx, *s.DriverID); err != nil {
			return nil, err
		}
	}
	for _, l := range order.Lines {
		p, err := uc.repos.Products.GetByID(ctx, l.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			p = &entity.Product{ID: l.ProductID}
		}
		d.Lines = append(d.Lines, DespatchLine{Product: p, Quantity: l.Quantity})
	}
	return uc.despatch.BuildDespatchAdvice(ctx, d)
}
