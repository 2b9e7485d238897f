package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/distribuidora-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

type movementRow struct {
	ID             string          `db:"id"`
	TransactionID  string          `db:"transaction_id"`
	WarehouseID    string          `db:"warehouse_id"`
	ProductID      string          `db:"product_id"`
	Direction      string          `db:"direction"`
	Kind           string          `db:"kind"`
	Quantity       int             `db:"quantity"`
	StockBefore    int             `db:"stock_before"`
	StockAfter     int             `db:"stock_after"`
	DocumentType   string          `db:"document_type"`
	DocumentID     string          `db:"document_id"`
	DocumentNumber string          `db:"document_number"`
	Reason         string          `db:"reason"`
	ActorID        string          `db:"actor_id"`
	UnitCost       decimal.Decimal `db:"unit_cost"`
	CreatedAt      time.Time       `db:"created_at"`
}

// InventoryMovementRepo implementación sobre PostgreSQL (usable con pool o tx). Append-only.
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

// Create persiste un movimiento de inventario.
func (r *InventoryMovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO inventory_movements (id, transaction_id, warehouse_id, product_id, direction, kind,
			quantity, stock_before, stock_after, document_type, document_id, document_number,
			reason, actor_id, unit_cost, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		m.ID, m.TransactionID, m.WarehouseID, m.ProductID, string(m.Direction), string(m.Kind),
		m.Quantity, m.StockBefore, m.StockAfter, m.Document.Type, m.Document.ID, m.Document.Number,
		m.Reason, m.ActorID, m.UnitCost, m.CreatedAt,
	)
	if err != nil {
		return writeErr("create inventory movement", err)
	}
	return nil
}

// List kardex filtrado, más recientes primero.
func (r *InventoryMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	b := psql.Select("*").From("inventory_movements")
	if f.ProductID != "" {
		b = b.Where(squirrel.Eq{"product_id": f.ProductID})
	}
	if f.WarehouseID != "" {
		b = b.Where(squirrel.Eq{"warehouse_id": f.WarehouseID})
	}
	if f.Direction != "" {
		b = b.Where(squirrel.Eq{"direction": string(f.Direction)})
	}
	if f.Kind != "" {
		b = b.Where(squirrel.Eq{"kind": string(f.Kind)})
	}
	if f.From != nil {
		b = b.Where(squirrel.GtOrEq{"created_at": *f.From})
	}
	if f.To != nil {
		b = b.Where(squirrel.LtOrEq{"created_at": *f.To})
	}
	b = paginate(b.OrderBy("created_at DESC", "id DESC"), f.Limit, f.Offset)

	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var rows []movementRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list inventory movements: %w", err)
	}
	out := make([]*entity.Movement, 0, len(rows))
	for _, row := range rows {
		out = append(out, &entity.Movement{
			ID:            row.ID,
			TransactionID: row.TransactionID,
			WarehouseID:   row.WarehouseID,
			ProductID:     row.ProductID,
			Direction:     entity.MovementDirection(row.Direction),
			Kind:          entity.MovementKind(row.Kind),
			Quantity:      row.Quantity,
			StockBefore:   row.StockBefore,
			StockAfter:    row.StockAfter,
			Document:      entity.DocumentRef{Type: row.DocumentType, ID: row.DocumentID, Number: row.DocumentNumber},
			Reason:        row.Reason,
			ActorID:       row.ActorID,
			UnitCost:      row.UnitCost,
			CreatedAt:     row.CreatedAt,
		})
	}
	return out, nil
}
