package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/distribuidora-api/internal/domain"
	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/distribuidora-api/internal/domain/repository"
	"github.com/jhoicas/distribuidora-api/internal/domain/sales"
)

// OrderPatch cambios de cabecera permitidos en borrador; nil = no cambia.
type OrderPatch struct {
	DeliveryAddress     *string
	DeliveryReference   *string
	Notes               *string
	RequestedDeliveryAt *time.Time
	PaymentType         *entity.PaymentType
	DocumentType        *entity.DocumentType
}

// UpdateDraft aplica el patch campo por campo. Sólo en borrador.
func (uc *OrderUseCase) UpdateDraft(ctx context.Context, orderID string, patch OrderPatch) (*entity.Order, error) {
	if patch.PaymentType != nil && !patch.PaymentType.Valid() {
		return nil, fmt.Errorf("%w: tipo de pago %q", domain.ErrInvalidInput, *patch.PaymentType)
	}
	return uc.transition(ctx, orderID, sales.OpUpdate, func(tx repository.Repos, o *entity.Order) error {
		if patch.DeliveryAddress != nil {
			o.DeliveryAddress = *patch.DeliveryAddress
		}
		if patch.DeliveryReference != nil {
			o.DeliveryReference = *patch.DeliveryReference
		}
		if patch.Notes != nil {
			o.Notes = *patch.Notes
		}
		if patch.RequestedDeliveryAt != nil {
			t := *patch.RequestedDeliveryAt
			o.RequestedDeliveryAt = &t
		}
		if patch.DocumentType != nil {
			o.DocumentType = *patch.DocumentType
		}
		if patch.PaymentType != nil {
			customer, err := tx.Customers.GetByID(ctx, o.CustomerID)
			if err != nil {
				return err
			}
			if customer == nil {
				return domain.NewUnknownEntity(domain.EntityCustomer, o.CustomerID)
			}
			o.PaymentType = *patch.PaymentType
			o.PaymentDueAt = dueDate(o.PaymentType, customer, uc.now())
		}
		return nil
	})
}

// PaymentInput pago a registrar.
type PaymentInput struct {
	Amount    decimal.Decimal
	Method    entity.PaymentType
	Reference string
	ActorID   string
}

// RegisterPayment agrega un pago sin confirmar. No modifica el total ni el estado de la venta.
func (uc *OrderUseCase) RegisterPayment(ctx context.Context, orderID string, in PaymentInput) (*entity.Payment, error) {
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: el monto debe ser mayor a cero", domain.ErrInvalidInput)
	}
	if !in.Method.Valid() {
		return nil, fmt.Errorf("%w: método de pago %q", domain.ErrInvalidInput, in.Method)
	}
	o, err := uc.repos.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.NewNotFound(domain.EntityOrder, orderID)
	}
	p := &entity.Payment{
		ID:        uuid.New().String(),
		OrderID:   orderID,
		Amount:    in.Amount.Round(2),
		Method:    in.Method,
		Reference: in.Reference,
		ActorID:   in.ActorID,
		CreatedAt: uc.now(),
	}
	if err := uc.repos.Orders.CreatePayment(ctx, p); err != nil {
		return nil, err
	}
	uc.log.Info().Str("order_id", orderID).Str("amount", p.Amount.StringFixed(2)).Msg("pago registrado")
	return p, nil
}

// ListPayments pagos de una venta.
func (uc *OrderUseCase) ListPayments(ctx context.Context, orderID string) ([]*entity.Payment, error) {
	if _, err := uc.Get(ctx, orderID); err != nil {
		return nil, err
	}
	return uc.repos.Orders.ListPayments(ctx, orderID)
}

// Get obtiene la venta con sus líneas.
func (uc *OrderUseCase) Get(ctx context.Context, orderID string) (*entity.Order, error) {
	o, err := uc.repos.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.NewNotFound(domain.EntityOrder, orderID)
	}
	return o, nil
}

// GetByNumber obtiene la venta por su número correlativo.
func (uc *OrderUseCase) GetByNumber(ctx context.Context, number string) (*entity.Order, error) {
	o, err := uc.repos.Orders.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.NewNotFound(domain.EntityOrder, number)
	}
	return o, nil
}

// List lista ventas con filtros opcionales.
func (uc *OrderUseCase) List(ctx context.Context, filter repository.OrderFilter) ([]*entity.Order, error) {
	return uc.repos.Orders.List(ctx, filter)
}

// Summary resumen de ventas del período.
type Summary struct {
	Total    decimal.Decimal
	Count    int
	Average  decimal.Decimal
	ByStatus map[entity.OrderStatus]int
}

// Summary totaliza las ventas no anuladas creadas entre from y to; ByStatus cuenta todas.
func (uc *OrderUseCase) Summary(ctx context.Context, from, to time.Time) (*Summary, error) {
	orders, err := uc.repos.Orders.List(ctx, repository.OrderFilter{From: &from, To: &to})
	if err != nil {
		return nil, err
	}
	s := &Summary{Total: decimal.Zero, Average: decimal.Zero, ByStatus: map[entity.OrderStatus]int{}}
	for _, o := range orders {
		s.ByStatus[o.Status]++
		if o.Status == entity.OrderCancelled {
			continue
		}
		s.Total = s.Total.Add(o.Total)
		s.Count++
	}
	if s.Count > 0 {
		s.Average = s.Total.Div(decimal.NewFromInt(int64(s.Count))).Round(2)
	}
	return s, nil
}

// CustomerDebt cliente con ventas de pago vencido.
type CustomerDebt struct {
	Customer    *entity.Customer
	Orders      []repository.OverdueOrder
	Outstanding decimal.Decimal
	OldestDueAt time.Time
}

// OverdueCredit clientes con crédito vencido a la fecha, el vencimiento más antiguo primero.
func (uc *OrderUseCase) OverdueCredit(ctx context.Context) ([]CustomerDebt, error) {
	overdue, err := uc.repos.Orders.ListOverdue(ctx, uc.now())
	if err != nil {
		return nil, err
	}
	var out []CustomerDebt
	idx := map[string]int{}
	for _, od := range overdue {
		i, ok := idx[od.Order.CustomerID]
		if !ok {
			c, err := uc.repos.Customers.GetByID(ctx, od.Order.CustomerID)
			if err != nil {
				return nil, err
			}
			if c == nil {
				c = &entity.Customer{ID: od.Order.CustomerID}
			}
			// ListOverdue ya viene por vencimiento: la primera venta es la más antigua
			out = append(out, CustomerDebt{Customer: c, Outstanding: decimal.Zero, OldestDueAt: *od.Order.PaymentDueAt})
			i = len(out) - 1
			idx[od.Order.CustomerID] = i
		}
		out[i].Orders = append(out[i].Orders, od)
		out[i].Outstanding = out[i].Outstanding.Add(od.Outstanding())
	}
	return out, nil
}
