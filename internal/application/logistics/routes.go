package logistics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/distribuidora-api/internal/domain"
	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/distribuidora-api/internal/domain/repository"
)

// CreateRouteInput datos de la ruta. ShipmentIDs en orden de entrega.
type CreateRouteInput struct {
	Name        string
	Date        time.Time
	ZoneID      *string
	VehicleID   *string
	DriverID    *string
	ShipmentIDs []string
}

// CreateRoute crea la ruta, asigna los envíos en orden (sobrescribiendo su asignación previa)
// y bloquea vehículo y conductor hasta CompleteRoute. Si alguno ya está tomado no persiste nada.
func (uc *LogisticsUseCase) CreateRoute(ctx context.Context, in CreateRouteInput) (*entity.Route, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: nombre de ruta obligatorio", domain.ErrInvalidInput)
	}
	seen := make(map[string]bool, len(in.ShipmentIDs))
	for _, id := range in.ShipmentIDs {
		if seen[id] {
			return nil, fmt.Errorf("%w: envío %s repetido en la ruta", domain.ErrInvalidInput, id)
		}
		seen[id] = true
	}
	if in.Date.IsZero() {
		in.Date = uc.now()
	}

	var route *entity.Route
	err := uc.txRunner.Run(ctx, func(tx repository.Repos) error {
		if in.ZoneID != nil {
			z, err := tx.Zones.GetByID(ctx, *in.ZoneID)
			if err != nil {
				return err
			}
			if z == nil {
				return domain.NewUnknownEntity(domain.EntityZone, *in.ZoneID)
			}
		}
		shipments := make([]*entity.Shipment, 0, len(in.ShipmentIDs))
		for _, id := range in.ShipmentIDs {
			s, err := tx.Shipments.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if s == nil {
				return domain.NewUnknownEntity(domain.EntityShipment, id)
			}
			shipments = append(shipments, s)
		}
		if in.VehicleID != nil {
			if err := lock(ctx, domain.EntityVehicle, *in.VehicleID, tx.Vehicles.TryLock); err != nil {
				return err
			}
		}
		if in.DriverID != nil {
			if err := lock(ctx, domain.EntityDriver, *in.DriverID, tx.Drivers.TryLock); err != nil {
				return err
			}
		}

		now := uc.now()
		base := domain.DailyBase(domain.RouteCodePrefix, now)
		last, err := tx.Routes.LastCode(ctx, base)
		if err != nil {
			return err
		}
		route = &entity.Route{
			ID:          uuid.New().String(),
			Code:        domain.NextCode(base, last, domain.RouteCodeWidth),
			Name:        in.Name,
			Date:        in.Date,
			ZoneID:      cloneString(in.ZoneID),
			VehicleID:   cloneString(in.VehicleID),
			DriverID:    cloneString(in.DriverID),
			ShipmentIDs: append([]string(nil), in.ShipmentIDs...),
			Total:       len(in.ShipmentIDs),
			CreatedAt:   now,
		}
		if err := tx.Routes.Create(ctx, route); err != nil {
			return err
		}
		for i, s := range shipments {
			seq := i + 1
			routeID := route.ID
			s.RouteID = &routeID
			s.DeliverySeq = &seq
			s.VehicleID = cloneString(in.VehicleID)
			s.DriverID = cloneString(in.DriverID)
			s.Status = entity.ShipmentAssigned
			s.UpdatedAt = now
			if err := tx.Shipments.Update(ctx, s); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("name", in.Name).Msg("ruta rechazada")
		return nil, err
	}
	uc.log.Info().Str("route_id", route.ID).Str("code", route.Code).Int("shipments", route.Total).Msg("ruta creada")
	return route, nil
}

func lock(ctx context.Context, resource, id string, tryLock func(context.Context, string) (bool, error)) error {
	ok, err := tryLock(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return &domain.ResourceUnavailableError{Resource: resource, ID: id}
	}
	return nil
}

// CompleteRoute cierra la ruta y libera vehículo y conductor. Es la única vía de liberación.
func (uc *LogisticsUseCase) CompleteRoute(ctx context.Context, routeID string, distanceKm float64) (*entity.Route, error) {
	if distanceKm < 0 {
		return nil, fmt.Errorf("%w: kilómetros negativos", domain.ErrInvalidInput)
	}
	var route *entity.Route
	err := uc.txRunner.Run(ctx, func(tx repository.Repos) error {
		var err error
		route, err = tx.Routes.GetForUpdate(ctx, routeID)
		if err != nil {
			return err
		}
		if route == nil {
			return domain.NewNotFound(domain.EntityRoute, routeID)
		}
		if route.Completed {
			return domain.NewInvalidState(domain.EntityRoute, route.ID, "completada", "completar")
		}
		now := uc.now()
		route.Completed = true
		route.ReturnedAt = &now
		route.DistanceKm = distanceKm
		if route.VehicleID != nil {
			if err := tx.Vehicles.Release(ctx, *route.VehicleID); err != nil {
				return err
			}
		}
		if route.DriverID != nil {
			if err := tx.Drivers.Release(ctx, *route.DriverID); err != nil {
				return err
			}
		}
		return tx.Routes.Update(ctx, route)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("route_id", route.ID).Str("code", route.Code).
		Int("succeeded", route.Succeeded).Int("failed", route.Failed).Msg("ruta completada")
	return route, nil
}

// GetRoute obtiene una ruta.
func (uc *LogisticsUseCase) GetRoute(ctx context.Context, routeID string) (*entity.Route, error) {
	r, err := uc.repos.Routes.GetByID(ctx, routeID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.NewNotFound(domain.EntityRoute, routeID)
	}
	return r, nil
}
