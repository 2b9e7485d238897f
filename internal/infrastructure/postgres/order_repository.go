package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/distribuidora-api/internal/domain"
	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/distribuidora-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

type orderRow struct {
	ID                  string          `db:"id"`
	Number              string          `db:"number"`
	CustomerID          string          `db:"customer_id"`
	SalespersonID       string          `db:"salesperson_id"`
	WarehouseID         string          `db:"warehouse_id"`
	Status              string          `db:"status"`
	DocumentType        string          `db:"document_type"`
	PaymentType         string          `db:"payment_type"`
	PaymentDueAt        *time.Time      `db:"payment_due_at"`
	RequestedDeliveryAt *time.Time      `db:"requested_delivery_at"`
	DeliveredAt         *time.Time      `db:"delivered_at"`
	Subtotal            decimal.Decimal `db:"subtotal"`
	Discount            decimal.Decimal `db:"discount"`
	Tax                 decimal.Decimal `db:"tax"`
	Total               decimal.Decimal `db:"total"`
	DeliveryAddress     string          `db:"delivery_address"`
	DeliveryReference   string          `db:"delivery_reference"`
	Notes               string          `db:"notes"`
	CreatedAt           time.Time       `db:"created_at"`
	UpdatedAt           time.Time       `db:"updated_at"`
}

func (o orderRow) toEntity() *entity.Order {
	return &entity.Order{
		ID:                  o.ID,
		Number:              o.Number,
		CustomerID:          o.CustomerID,
		SalespersonID:       o.SalespersonID,
		WarehouseID:         o.WarehouseID,
		Status:              entity.OrderStatus(o.Status),
		DocumentType:        entity.DocumentType(o.DocumentType),
		PaymentType:         entity.PaymentType(o.PaymentType),
		PaymentDueAt:        o.PaymentDueAt,
		RequestedDeliveryAt: o.RequestedDeliveryAt,
		DeliveredAt:         o.DeliveredAt,
		Subtotal:            o.Subtotal,
		Discount:            o.Discount,
		Tax:                 o.Tax,
		Total:               o.Total,
		DeliveryAddress:     o.DeliveryAddress,
		DeliveryReference:   o.DeliveryReference,
		Notes:               o.Notes,
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
	}
}

type orderLineRow struct {
	ID             string          `db:"id"`
	OrderID        string          `db:"order_id"`
	LineNo         int             `db:"line_no"`
	ProductID      string          `db:"product_id"`
	Quantity       int             `db:"quantity"`
	DeliveredQty   int             `db:"delivered_qty"`
	UnitPrice      decimal.Decimal `db:"unit_price"`
	DiscountPct    decimal.Decimal `db:"discount_pct"`
	DiscountAmount decimal.Decimal `db:"discount_amount"`
	Subtotal       decimal.Decimal `db:"subtotal"`
}

type paymentRow struct {
	ID        string          `db:"id"`
	OrderID   string          `db:"order_id"`
	Amount    decimal.Decimal `db:"amount"`
	Method    string          `db:"method"`
	Reference string          `db:"reference"`
	Confirmed bool            `db:"confirmed"`
	ActorID   string          `db:"actor_id"`
	CreatedAt time.Time       `db:"created_at"`
}

// OrderRepo implementación de OrderRepository: cabecera, líneas y pagos.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador.
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create inserta cabecera y líneas. Debe llamarse dentro de una tx para que sea atómico.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO orders (id, number, customer_id, salesperson_id, warehouse_id, status, document_type,
			payment_type, payment_due_at, requested_delivery_at, delivered_at, subtotal, discount, tax, total,
			delivery_address, delivery_reference, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
		o.ID, o.Number, o.CustomerID, o.SalespersonID, o.WarehouseID, string(o.Status), string(o.DocumentType),
		string(o.PaymentType), o.PaymentDueAt, o.RequestedDeliveryAt, o.DeliveredAt, o.Subtotal, o.Discount, o.Tax, o.Total,
		o.DeliveryAddress, o.DeliveryReference, o.Notes, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return writeErr("create order", err)
	}
	for i, l := range o.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO order_lines (id, order_id, line_no, product_id, quantity, delivered_qty,
				unit_price, discount_pct, discount_amount, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			l.ID, o.ID, i+1, l.ProductID, l.Quantity, l.DeliveredQty,
			l.UnitPrice, l.DiscountPct, l.DiscountAmount, l.Subtotal)
		if err != nil {
			return writeErr("create order line", err)
		}
	}
	return nil
}

func (r *OrderRepo) getOne(ctx context.Context, query string, arg any) (*entity.Order, error) {
	var row orderRow
	if err := pgxscan.Get(ctx, r.q, &row, query, arg); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	o := row.toEntity()
	if err := r.attachLines(ctx, []*entity.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

// GetByID devuelve la venta con sus líneas o (nil, nil).
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.getOne(ctx, `SELECT * FROM orders WHERE id = $1`, id)
}

// GetForUpdate igual que GetByID bloqueando la cabecera.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.getOne(ctx, `SELECT * FROM orders WHERE id = $1 FOR UPDATE`, id)
}

// GetByNumber busca por número correlativo.
func (r *OrderRepo) GetByNumber(ctx context.Context, number string) (*entity.Order, error) {
	return r.getOne(ctx, `SELECT * FROM orders WHERE number = $1`, number)
}

// Update persiste la cabecera.
func (r *OrderRepo) Update(ctx context.Context, o *entity.Order) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE orders SET warehouse_id = $2, status = $3, document_type = $4, payment_type = $5,
			payment_due_at = $6, requested_delivery_at = $7, delivered_at = $8,
			subtotal = $9, discount = $10, tax = $11, total = $12,
			delivery_address = $13, delivery_reference = $14, notes = $15, updated_at = $16
		WHERE id = $1`,
		o.ID, o.WarehouseID, string(o.Status), string(o.DocumentType), string(o.PaymentType),
		o.PaymentDueAt, o.RequestedDeliveryAt, o.DeliveredAt,
		o.Subtotal, o.Discount, o.Tax, o.Total,
		o.DeliveryAddress, o.DeliveryReference, o.Notes, o.UpdatedAt)
	if err != nil {
		return writeErr("update order", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound(domain.EntityOrder, o.ID)
	}
	return nil
}

// List ventas filtradas, número descendente.
func (r *OrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	b := psql.Select("*").From("orders")
	if f.Status != "" {
		b = b.Where(squirrel.Eq{"status": string(f.Status)})
	}
	if f.CustomerID != "" {
		b = b.Where(squirrel.Eq{"customer_id": f.CustomerID})
	}
	if f.From != nil {
		b = b.Where(squirrel.GtOrEq{"created_at": *f.From})
	}
	if f.To != nil {
		b = b.Where(squirrel.LtOrEq{"created_at": *f.To})
	}
	sql, args, err := paginate(b.OrderBy("number DESC"), f.Limit, f.Offset).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var rows []orderRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	out := make([]*entity.Order, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	if err := r.attachLines(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// attachLines carga las líneas de todas las ventas con una sola consulta.
func (r *OrderRepo) attachLines(ctx context.Context, orders []*entity.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, 0, len(orders))
	byID := make(map[string]*entity.Order, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
		byID[o.ID] = o
	}
	sql, args, err := psql.Select("*").From("order_lines").
		Where(squirrel.Eq{"order_id": ids}).
		OrderBy("order_id", "line_no").ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	var rows []orderLineRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return fmt.Errorf("list order lines: %w", err)
	}
	for _, l := range rows {
		o := byID[l.OrderID]
		o.Lines = append(o.Lines, entity.OrderLine{
			ID:             l.ID,
			OrderID:        l.OrderID,
			ProductID:      l.ProductID,
			Quantity:       l.Quantity,
			DeliveredQty:   l.DeliveredQty,
			UnitPrice:      l.UnitPrice,
			DiscountPct:    l.DiscountPct,
			DiscountAmount: l.DiscountAmount,
			Subtotal:       l.Subtotal,
		})
	}
	return nil
}

// LastNumber mayor número con el prefijo; toma un advisory lock para serializar la numeración.
func (r *OrderRepo) LastNumber(ctx context.Context, prefix string) (string, error) {
	if err := advisoryLock(ctx, r.q, "orders:"+prefix); err != nil {
		return "", err
	}
	var last *string
	err := r.q.QueryRow(ctx, `SELECT max(number) FROM orders WHERE number LIKE $1 || '%'`, prefix).Scan(&last)
	if err != nil {
		return "", fmt.Errorf("last order number: %w", err)
	}
	if last == nil {
		return "", nil
	}
	return *last, nil
}

// CreatePayment registra un pago.
func (r *OrderRepo) CreatePayment(ctx context.Context, p *entity.Payment) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO payments (id, order_id, amount, method, reference, confirmed, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.OrderID, p.Amount, string(p.Method), p.Reference, p.Confirmed, p.ActorID, p.CreatedAt)
	if err != nil {
		return writeErr("create payment", err)
	}
	return nil
}

// ListPayments pagos de una venta en orden cronológico.
func (r *OrderRepo) ListPayments(ctx context.Context, orderID string) ([]*entity.Payment, error) {
	var rows []paymentRow
	if err := pgxscan.Select(ctx, r.q, &rows,
		`SELECT * FROM payments WHERE order_id = $1 ORDER BY created_at`, orderID); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	out := make([]*entity.Payment, 0, len(rows))
	for _, p := range rows {
		out = append(out, &entity.Payment{
			ID:        p.ID,
			OrderID:   p.OrderID,
			Amount:    p.Amount,
			Method:    entity.PaymentType(p.Method),
			Reference: p.Reference,
			Confirmed: p.Confirmed,
			ActorID:   p.ActorID,
			CreatedAt: p.CreatedAt,
		})
	}
	return out, nil
}

type overdueRow struct {
	orderRow
	Paid decimal.Decimal `db:"paid"`
}

// ListOverdue suma los pagos por venta y deja sólo las que tienen saldo.
func (r *OrderRepo) ListOverdue(ctx context.Context, asOf time.Time) ([]repository.OverdueOrder, error) {
	sql, args, err := psql.Select("o.*", "COALESCE(SUM(p.amount), 0) AS paid").
		From("orders o").
		LeftJoin("payments p ON p.order_id = o.id").
		Where(squirrel.NotEq{"o.status": []string{string(entity.OrderDraft), string(entity.OrderCancelled)}}).
		Where(squirrel.Lt{"o.payment_due_at": asOf}).
		GroupBy("o.id").
		Having("o.total - COALESCE(SUM(p.amount), 0) > 0").
		OrderBy("o.payment_due_at", "o.number").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var rows []overdueRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list overdue orders: %w", err)
	}
	out := make([]repository.OverdueOrder, 0, len(rows))
	for _, row := range rows {
		out = append(out, repository.OverdueOrder{Order: row.toEntity(), Paid: row.Paid})
	}
	return out, nil
}
