// Package sales implementa la máquina de estados de la venta y sus efectos sobre el kardex.
package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	appinventory "github.com/jhoicas/distribuidora-api/internal/application/inventory"
	"github.com/jhoicas/distribuidora-api/internal/domain"
	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/distribuidora-api/internal/domain/repository"
	"github.com/jhoicas/distribuidora-api/internal/domain/sales"
)

// Config parámetros resueltos una vez al construir el caso de uso.
type Config struct {
	DefaultWarehouseID string          // almacén usado cuando la operación no indica uno
	TaxRate            decimal.Decimal // cero = sales.DefaultTaxRate
}

// OrderUseCase casos de uso de la venta.
type OrderUseCase struct {
	txRunner repository.TxRunner
	repos    repository.Repos
	ledger   StockLedger
	cfg      Config
	log      zerolog.Logger
	now      func() time.Time
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(txRunner repository.TxRunner, repos repository.Repos, ledger StockLedger, cfg Config, log zerolog.Logger) *OrderUseCase {
	if cfg.TaxRate.IsZero() {
		cfg.TaxRate = sales.DefaultTaxRate
	}
	return &OrderUseCase{
		txRunner: txRunner,
		repos:    repos,
		ledger:   ledger,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// LineInput línea solicitada. UnitPrice cero = precio de lista del producto.
type LineInput struct {
	ProductID      string
	Quantity       int
	UnitPrice      decimal.Decimal
	DiscountPct    decimal.Decimal
	DiscountAmount decimal.Decimal
}

// CreateOrderInput entrada para crear una venta en borrador.
type CreateOrderInput struct {
	CustomerID          string
	SalespersonID       string
	DocumentType        entity.DocumentType
	PaymentType         entity.PaymentType
	RequestedDeliveryAt *time.Time
	DeliveryAddress     string
	DeliveryReference   string
	Notes               string
	Discount            decimal.Decimal
	Lines               []LineInput
}

func (in CreateOrderInput) validate() error {
	if in.CustomerID == "" {
		return fmt.Errorf("%w: cliente obligatorio", domain.ErrInvalidInput)
	}
	if len(in.Lines) == 0 {
		return fmt.Errorf("%w: la venta debe tener al menos una línea", domain.ErrInvalidInput)
	}
	if in.PaymentType != "" && !in.PaymentType.Valid() {
		return fmt.Errorf("%w: tipo de pago %q", domain.ErrInvalidInput, in.PaymentType)
	}
	if in.Discount.IsNegative() {
		return fmt.Errorf("%w: descuento negativo", domain.ErrInvalidInput)
	}
	hundred := decimal.NewFromInt(100)
	for i, l := range in.Lines {
		if l.ProductID == "" || l.Quantity <= 0 {
			return fmt.Errorf("%w: línea %d: producto y cantidad > 0 obligatorios", domain.ErrInvalidInput, i+1)
		}
		if l.UnitPrice.IsNegative() || l.DiscountAmount.IsNegative() ||
			l.DiscountPct.IsNegative() || l.DiscountPct.GreaterThan(hundred) {
			return fmt.Errorf("%w: línea %d: precio o descuento fuera de rango", domain.ErrInvalidInput, i+1)
		}
	}
	return nil
}

// Create registra la venta en borrador calculando importes, número correlativo y vencimiento a crédito.
func (uc *OrderUseCase) Create(ctx context.Context, in CreateOrderInput) (*entity.Order, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	now := uc.now()
	order := &entity.Order{
		ID:                  uuid.New().String(),
		CustomerID:          in.CustomerID,
		SalespersonID:       in.SalespersonID,
		Status:              entity.OrderDraft,
		DocumentType:        in.DocumentType,
		PaymentType:         in.PaymentType,
		RequestedDeliveryAt: in.RequestedDeliveryAt,
		DeliveryAddress:     in.DeliveryAddress,
		DeliveryReference:   in.DeliveryReference,
		Notes:               in.Notes,
		Discount:            in.Discount,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if order.DocumentType == "" {
		order.DocumentType = entity.DocumentReceipt
	}
	if order.PaymentType == "" {
		order.PaymentType = entity.PaymentCash
	}

	err := uc.txRunner.Run(ctx, func(tx repository.Repos) error {
		customer, err := tx.Customers.GetByID(ctx, in.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return domain.NewUnknownEntity(domain.EntityCustomer, in.CustomerID)
		}
		if order.DeliveryAddress == "" {
			order.DeliveryAddress = customer.Address
		}
		order.PaymentDueAt = dueDate(order.PaymentType, customer, now)

		order.Lines = make([]entity.OrderLine, 0, len(in.Lines))
		for _, l := range in.Lines {
			product, err := tx.Products.GetByID(ctx, l.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.NewUnknownEntity(domain.EntityProduct, l.ProductID)
			}
			price := l.UnitPrice
			if price.IsZero() {
				price = product.Price
			}
			order.Lines = append(order.Lines, entity.OrderLine{
				ID:             uuid.New().String(),
				OrderID:        order.ID,
				ProductID:      l.ProductID,
				Quantity:       l.Quantity,
				UnitPrice:      price,
				DiscountPct:    l.DiscountPct,
				DiscountAmount: l.DiscountAmount,
			})
		}
		sales.ComputeTotals(order, uc.cfg.TaxRate)

		base := domain.MonthlyBase(domain.OrderNumberPrefix, now)
		last, err := tx.Orders.LastNumber(ctx, base)
		if err != nil {
			return err
		}
		order.Number = domain.NextCode(base, last, domain.OrderNumberWidth)
		return tx.Orders.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("order_id", order.ID).Str("number", order.Number).
		Str("total", order.Total.StringFixed(2)).Msg("venta creada")
	return order, nil
}

func dueDate(pt entity.PaymentType, c *entity.Customer, now time.Time) *time.Time {
	if pt != entity.PaymentCredit {
		return nil
	}
	d := now.AddDate(0, 0, c.CreditDays)
	return &d
}

// Confirm reserva el stock de todas las líneas (todo o nada) y pasa la venta a confirmado.
// Las líneas del mismo producto se suman antes de reservar; se reserva en orden de producto.
func (uc *OrderUseCase) Confirm(ctx context.Context, orderID, warehouseID string) (*entity.Order, error) {
	return uc.transition(ctx, orderID, sales.OpConfirm, func(tx repository.Repos, o *entity.Order) error {
		wh, err := uc.resolveWarehouse(ctx, tx, warehouseID, o)
		if err != nil {
			return err
		}
		ids, qty := sales.AggregateByProduct(o.Lines)
		for _, pid := range ids {
			ok, err := uc.ledger.ReserveInTx(ctx, tx, pid, wh, qty[pid])
			if err != nil {
				return err
			}
			if !ok {
				rec, err := tx.Stock.Get(ctx, pid, wh)
				if err != nil {
					return err
				}
				return &domain.InsufficientStockError{
					ProductID: pid, WarehouseID: wh, Requested: qty[pid], Available: rec.Available(),
				}
			}
		}
		o.WarehouseID = wh
		return nil
	})
}

// Prepare pasa de confirmado a en preparación.
func (uc *OrderUseCase) Prepare(ctx context.Context, orderID string) (*entity.Order, error) {
	return uc.transition(ctx, orderID, sales.OpPrepare, nil)
}

// MarkReadyToShip registra la salida por venta de cada línea y libera su reserva.
func (uc *OrderUseCase) MarkReadyToShip(ctx context.Context, orderID, warehouseID, actorID string) (*entity.Order, error) {
	return uc.transition(ctx, orderID, sales.OpReady, func(tx repository.Repos, o *entity.Order) error {
		wh, err := uc.resolveWarehouse(ctx, tx, warehouseID, o)
		if err != nil {
			return err
		}
		return uc.consumeReserved(ctx, tx, o, wh, actorID)
	})
}

// Cancel anula la venta. Sólo libera reservas si la venta las tenía (confirmado / en preparación).
func (uc *OrderUseCase) Cancel(ctx context.Context, orderID, warehouseID string) (*entity.Order, error) {
	return uc.transition(ctx, orderID, sales.OpCancel, func(tx repository.Repos, o *entity.Order) error {
		if !sales.HoldsReservation(o.Status) {
			return nil
		}
		wh, err := uc.resolveWarehouse(ctx, tx, warehouseID, o)
		if err != nil {
			return err
		}
		for _, l := range sales.LinesByProduct(o.Lines) {
			if _, err := uc.ledger.ReleaseInTx(ctx, tx, l.ProductID, wh, l.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
}

// ShipInTx pone la venta en ruta (lo dispara el inicio del envío).
// Si la venta aún tenía stock reservado, la salida se registra en la misma transacción.
// Una venta que ya está en ruta (reintento tras reprogramar el envío) se devuelve sin cambios.
func (uc *OrderUseCase) ShipInTx(ctx context.Context, tx repository.Repos, orderID string) (*entity.Order, error) {
	o, err := tx.Orders.GetForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o != nil && o.Status == entity.OrderInTransit {
		uc.log.Info().Str("order_id", o.ID).Str("number", o.Number).Msg("venta ya en ruta, reintento de envío")
		return o, nil
	}
	return uc.transitionInTx(ctx, tx, orderID, sales.OpShip, func(tx repository.Repos, o *entity.Order) error {
		return uc.consumeIfReserved(ctx, tx, o)
	})
}

// DeliverInTx marca la venta como entregada con la fecha real de entrega (lo dispara el envío completado).
func (uc *OrderUseCase) DeliverInTx(ctx context.Context, tx repository.Repos, orderID string, at time.Time) (*entity.Order, error) {
	return uc.transitionInTx(ctx, tx, orderID, sales.OpDeliver, func(tx repository.Repos, o *entity.Order) error {
		if err := uc.consumeIfReserved(ctx, tx, o); err != nil {
			return err
		}
		o.DeliveredAt = &at
		return nil
	})
}

func (uc *OrderUseCase) consumeIfReserved(ctx context.Context, tx repository.Repos, o *entity.Order) error {
	if !sales.HoldsReservation(o.Status) {
		return nil
	}
	wh, err := uc.resolveWarehouse(ctx, tx, "", o)
	if err != nil {
		return err
	}
	return uc.consumeReserved(ctx, tx, o, wh, "")
}

// consumeReserved: por cada línea, salida por venta y liberación de la reserva correspondiente.
// Las filas de stock se bloquean en orden de producto, igual que en Confirm.
func (uc *OrderUseCase) consumeReserved(ctx context.Context, tx repository.Repos, o *entity.Order, warehouseID, actorID string) error {
	doc := entity.DocumentRef{Type: entity.DocumentTypeSale, ID: o.ID, Number: o.Number}
	for _, l := range sales.LinesByProduct(o.Lines) {
		if _, err := uc.ledger.RecordMovementInTx(ctx, tx, appinventory.MovementInput{
			WarehouseID:   warehouseID,
			ProductID:     l.ProductID,
			Direction:     entity.DirectionExit,
			Kind:          entity.KindSale,
			Quantity:      l.Quantity,
			Document:      doc,
			Reason:        "Venta " + o.Number,
			ActorID:       actorID,
			TransactionID: o.ID,
		}); err != nil {
			return fmt.Errorf("salida de venta %s: %w", o.Number, err)
		}
		if _, err := uc.ledger.ReleaseInTx(ctx, tx, l.ProductID, warehouseID, l.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// resolveWarehouse: parámetro explícito, luego el almacén de la reserva, luego el configurado.
// Con la reserva ya hecha, un almacén explícito distinto se rechaza.
func (uc *OrderUseCase) resolveWarehouse(ctx context.Context, tx repository.Repos, explicit string, o *entity.Order) (string, error) {
	if explicit != "" && o.WarehouseID != "" && explicit != o.WarehouseID {
		return "", fmt.Errorf("%w: la venta está reservada en el almacén %s", domain.ErrInvalidInput, o.WarehouseID)
	}
	wh := explicit
	if wh == "" {
		wh = o.WarehouseID
	}
	if wh == "" {
		wh = uc.cfg.DefaultWarehouseID
	}
	if wh == "" {
		return "", fmt.Errorf("%w: almacén obligatorio", domain.ErrInvalidInput)
	}
	w, err := tx.Warehouses.GetByID(ctx, wh)
	if err != nil {
		return "", err
	}
	if w == nil {
		return "", domain.NewUnknownEntity(domain.EntityWarehouse, wh)
	}
	return wh, nil
}

// transition ejecuta op en su propia transacción.
func (uc *OrderUseCase) transition(ctx context.Context, orderID, op string, effect func(tx repository.Repos, o *entity.Order) error) (*entity.Order, error) {
	var order *entity.Order
	err := uc.txRunner.Run(ctx, func(tx repository.Repos) error {
		var err error
		order, err = uc.transitionInTx(ctx, tx, orderID, op, effect)
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// transitionInTx bloquea la venta, valida la transición, aplica los efectos y persiste el nuevo estado.
// effect ve la venta todavía en su estado de origen.
func (uc *OrderUseCase) transitionInTx(ctx context.Context, tx repository.Repos, orderID, op string, effect func(tx repository.Repos, o *entity.Order) error) (*entity.Order, error) {
	o, err := tx.Orders.GetForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.NewNotFound(domain.EntityOrder, orderID)
	}
	from := o.Status
	to, ok := sales.Next(from, op)
	if !ok {
		uc.log.Warn().Str("order_id", o.ID).Str("state", string(from)).Str("op", op).Msg("transición rechazada")
		return nil, domain.NewInvalidState(domain.EntityOrder, o.ID, string(from), op)
	}
	if effect != nil {
		if err := effect(tx, o); err != nil {
			uc.log.Warn().Err(err).Str("order_id", o.ID).Str("op", op).Msg("transición fallida")
			return nil, err
		}
	}
	o.Status = to
	o.UpdatedAt = uc.now()
	if err := tx.Orders.Update(ctx, o); err != nil {
		return nil, err
	}
	uc.log.Info().Str("order_id", o.ID).Str("number", o.Number).
		Str("from", string(from)).Str("to", string(to)).Msg("transición de venta")
	return o, nil
}
