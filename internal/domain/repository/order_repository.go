package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
)

// OrderFilter filtros opcionales para listar ventas.
type OrderFilter struct {
	Status     entity.OrderStatus
	CustomerID string
	From, To   *time.Time
	Limit      int
	Offset     int
}

// OverdueOrder venta a crédito vencida con lo pagado hasta ahora. Lines no se cargan.
type OverdueOrder struct {
	Order *entity.Order
	Paid  decimal.Decimal
}

// Outstanding saldo pendiente.
func (o OverdueOrder) Outstanding() decimal.Decimal {
	return o.Order.Total.Sub(o.Paid)
}

// OrderRepository define el puerto de persistencia para ventas, sus líneas y pagos.
type OrderRepository interface {
	// Create inserta la cabecera y las líneas.
	Create(ctx context.Context, order *entity.Order) error
	// GetByID devuelve la venta con sus líneas o (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// GetForUpdate igual que GetByID pero bloquea la cabecera hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Order, error)
	GetByNumber(ctx context.Context, number string) (*entity.Order, error)
	// Update persiste la cabecera (estado, importes, datos de entrega). Las líneas no se reescriben.
	Update(ctx context.Context, order *entity.Order) error
	List(ctx context.Context, filter OrderFilter) ([]*entity.Order, error)
	// LastNumber devuelve el mayor número con el prefijo dado; serializa generadores concurrentes dentro de la tx.
	LastNumber(ctx context.Context, prefix string) (string, error)

	CreatePayment(ctx context.Context, payment *entity.Payment) error
	ListPayments(ctx context.Context, orderID string) ([]*entity.Payment, error)
	// ListOverdue ventas vigentes (ni borrador ni anuladas) con vencimiento de pago
	// anterior a asOf y saldo pendiente, la más antigua primero.
	ListOverdue(ctx context.Context, asOf time.Time) ([]OverdueOrder, error)
}
