// Package logistics implementa el ciclo de vida del envío y las rutas de reparto,
// incluido el bloqueo de vehículo y conductor mientras la ruta está abierta.
package logistics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/distribuidora-api/internal/domain"
	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/distribuidora-api/internal/domain/logistics"
	"github.com/jhoicas/distribuidora-api/internal/domain/repository"
	"github.com/jhoicas/distribuidora-api/internal/domain/sales"
)

// LogisticsUseCase casos de uso de envíos y rutas.
type LogisticsUseCase struct {
	txRunner repository.TxRunner
	repos    repository.Repos
	orders   OrderFulfillment
	manifest ManifestRenderer
	despatch DespatchBuilder
	log      zerolog.Logger
	now      func() time.Time
}

// NewLogisticsUseCase construye el caso de uso. manifest y despatch pueden ser nil si no se exponen documentos.
func NewLogisticsUseCase(
	txRunner repository.TxRunner,
	repos repository.Repos,
	orders OrderFulfillment,
	manifest ManifestRenderer,
	despatch DespatchBuilder,
	log zerolog.Logger,
) *LogisticsUseCase {
	return &LogisticsUseCase{
		txRunner: txRunner,
		repos:    repos,
		orders:   orders,
		manifest: manifest,
		despatch: despatch,
		log:      log,
		now:      time.Now,
	}
}

// CreateForOrder crea el envío de una venta confirmada o lista para envío. Una venta admite un solo envío.
// scheduledAt nil = fecha de entrega solicitada en la venta.
func (uc *LogisticsUseCase) CreateForOrder(ctx context.Context, orderID string, scheduledAt *time.Time) (*entity.Shipment, error) {
	var s *entity.Shipment
	err := uc.txRunner.Run(ctx, func(tx repository.Repos) error {
		o, err := tx.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.NewNotFound(domain.EntityOrder, orderID)
		}
		if !sales.Shippable(o.Status) {
			return &domain.OrderNotReadyError{OrderID: o.ID, State: string(o.Status)}
		}
		existing, err := tx.Shipments.GetByOrderID(ctx, orderID)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: la venta %s ya tiene el envío %s", domain.ErrDuplicate, o.Number, existing.Code)
		}

		now := uc.now()
		base := domain.DailyBase(domain.ShipmentCodePrefix, now)
		last, err := tx.Shipments.LastCode(ctx, base)
		if err != nil {
			return err
		}
		s = &entity.Shipment{
			ID:          uuid.New().String(),
			Code:        domain.NextCode(base, last, domain.ShipmentCodeWidth),
			OrderID:     o.ID,
			Status:      entity.ShipmentPending,
			ScheduledAt: o.RequestedDeliveryAt,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if scheduledAt != nil {
			t := *scheduledAt
			s.ScheduledAt = &t
		}
		return tx.Shipments.Create(ctx, s)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("shipment_id", s.ID).Str("code", s.Code).Str("order_id", orderID).Msg("envío creado")
	return s, nil
}

// AssignInput recursos a asignar. RouteID opcional.
type AssignInput struct {
	VehicleID string
	DriverID  string
	RouteID   *string
}

// Assign asigna vehículo y conductor. No verifica disponibilidad: la exclusión la aplica CreateRoute.
func (uc *LogisticsUseCase) Assign(ctx context.Context, shipmentID string, in AssignInput) (*entity.Shipment, error) {
	if in.VehicleID == "" || in.DriverID == "" {
		return nil, fmt.Errorf("%w: vehículo y conductor obligatorios", domain.ErrInvalidInput)
	}
	return uc.mutate(ctx, shipmentID, logistics.OpAssign, func(tx repository.Repos, s *entity.Shipment) error {
		if v, err := tx.Vehicles.GetByID(ctx, in.VehicleID); err != nil {
			return err
		} else if v == nil {
			return domain.NewUnknownEntity(domain.EntityVehicle, in.VehicleID)
		}
		if d, err := tx.Drivers.GetByID(ctx, in.DriverID); err != nil {
			return err
		} else if d == nil {
			return domain.NewUnknownEntity(domain.EntityDriver, in.DriverID)
		}
		if in.RouteID != nil {
			if r, err := tx.Routes.GetByID(ctx, *in.RouteID); err != nil {
				return err
			} else if r == nil {
				return domain.NewUnknownEntity(domain.EntityRoute, *in.RouteID)
			}
		}
		vehicleID, driverID := in.VehicleID, in.DriverID
		s.VehicleID, s.DriverID = &vehicleID, &driverID
		s.RouteID = cloneString(in.RouteID)
		s.Status = entity.ShipmentAssigned
		return nil
	})
}

// Start pone el envío en ruta y, con él, la venta.
func (uc *LogisticsUseCase) Start(ctx context.Context, shipmentID string) (*entity.Shipment, error) {
	return uc.mutate(ctx, shipmentID, logistics.OpStart, func(tx repository.Repos, s *entity.Shipment) error {
		if _, err := uc.orders.ShipInTx(ctx, tx, s.OrderID); err != nil {
			return err
		}
		s.Status = entity.ShipmentInTransit
		return nil
	})
}

// ProofOfDelivery datos de la conformidad de entrega.
type ProofOfDelivery struct {
	RecipientName     string
	RecipientDocument string
	Signed            bool
	Latitude          *float64
	Longitude         *float64
	Notes             string
}

// Complete marca el envío como entregado, entrega la venta y suma un éxito a la ruta.
// Un envío ya entregado no se puede completar de nuevo.
func (uc *LogisticsUseCase) Complete(ctx context.Context, shipmentID string, proof ProofOfDelivery) (*entity.Shipment, error) {
	if proof.RecipientName == "" {
		return nil, fmt.Errorf("%w: nombre de quien recibe obligatorio", domain.ErrInvalidInput)
	}
	return uc.mutate(ctx, shipmentID, logistics.OpComplete, func(tx repository.Repos, s *entity.Shipment) error {
		now := uc.now()
		if _, err := uc.orders.DeliverInTx(ctx, tx, s.OrderID, now); err != nil {
			return err
		}
		s.Status = entity.ShipmentDelivered
		s.DeliveredAt = &now
		s.RecipientName = proof.RecipientName
		s.RecipientDocument = proof.RecipientDocument
		s.Signed = proof.Signed
		s.Latitude = proof.Latitude
		s.Longitude = proof.Longitude
		if proof.Notes != "" {
			s.Notes = proof.Notes
		}
		return uc.bumpRoute(ctx, tx, s.RouteID, true)
	})
}

// Fail registra un intento fallido: reprogramado o no entregado. No cambia el estado de la venta.
func (uc *LogisticsUseCase) Fail(ctx context.Context, shipmentID, reason string, reschedule bool) (*entity.Shipment, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: motivo obligatorio", domain.ErrInvalidInput)
	}
	return uc.mutate(ctx, shipmentID, logistics.OpFail, func(tx repository.Repos, s *entity.Shipment) error {
		s.Status = logistics.FailureStatus(reschedule)
		s.FailureReason = reason
		return uc.bumpRoute(ctx, tx, s.RouteID, false)
	})
}

// Reschedule devuelve un envío reprogramado a pendiente, sin ruta ni recursos asignados.
func (uc *LogisticsUseCase) Reschedule(ctx context.Context, shipmentID string, scheduledAt *time.Time) (*entity.Shipment, error) {
	return uc.mutate(ctx, shipmentID, logistics.OpReschedule, func(_ repository.Repos, s *entity.Shipment) error {
		s.Status = entity.ShipmentPending
		s.RouteID, s.VehicleID, s.DriverID, s.DeliverySeq = nil, nil, nil, nil
		if scheduledAt != nil {
			t := *scheduledAt
			s.ScheduledAt = &t
		}
		return nil
	})
}

func (uc *LogisticsUseCase) bumpRoute(ctx context.Context, tx repository.Repos, routeID *string, success bool) error {
	if routeID == nil {
		return nil
	}
	r, err := tx.Routes.GetForUpdate(ctx, *routeID)
	if err != nil {
		return err
	}
	if r == nil {
		return nil
	}
	if success {
		r.Succeeded++
	} else {
		r.Failed++
	}
	return tx.Routes.Update(ctx, r)
}

// mutate bloquea el envío, valida la operación y persiste el resultado en una transacción.
func (uc *LogisticsUseCase) mutate(ctx context.Context, shipmentID, op string, apply func(tx repository.Repos, s *entity.Shipment) error) (*entity.Shipment, error) {
	var s *entity.Shipment
	var from entity.ShipmentStatus
	err := uc.txRunner.Run(ctx, func(tx repository.Repos) error {
		var err error
		s, err = tx.Shipments.GetForUpdate(ctx, shipmentID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.NewNotFound(domain.EntityShipment, shipmentID)
		}
		from = s.Status
		if !logistics.Allowed(s.Status, op) {
			return domain.NewInvalidState(domain.EntityShipment, s.ID, string(s.Status), op)
		}
		if err := apply(tx, s); err != nil {
			return err
		}
		s.UpdatedAt = uc.now()
		return tx.Shipments.Update(ctx, s)
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("shipment_id", shipmentID).Str("op", op).Msg("operación de envío rechazada")
		return nil, err
	}
	uc.log.Info().Str("shipment_id", s.ID).Str("code", s.Code).
		Str("from", string(from)).Str("to", string(s.Status)).Msg("transición de envío")
	return s, nil
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
