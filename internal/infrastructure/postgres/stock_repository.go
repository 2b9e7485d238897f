package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/distribuidora-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.StockRepository = (*StockRepo)(nil)

const stockColumns = "product_id, warehouse_id, on_hand, reserved, location, lot, expires_at, updated_at"

type stockRow struct {
	ProductID   string     `db:"product_id"`
	WarehouseID string     `db:"warehouse_id"`
	OnHand      int        `db:"on_hand"`
	Reserved    int        `db:"reserved"`
	Location    string     `db:"location"`
	Lot         string     `db:"lot"`
	ExpiresAt   *time.Time `db:"expires_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

func (s stockRow) toEntity() *entity.StockRecord {
	return &entity.StockRecord{
		ProductID:   s.ProductID,
		WarehouseID: s.WarehouseID,
		OnHand:      s.OnHand,
		Reserved:    s.Reserved,
		Location:    s.Location,
		Lot:         s.Lot,
		ExpiresAt:   s.ExpiresAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el stock actual de un producto en un almacén; registro vacío si no hay fila.
func (r *StockRepo) Get(ctx context.Context, productID, warehouseID string) (*entity.StockRecord, error) {
	var row stockRow
	err := pgxscan.Get(ctx, r.q, &row,
		`SELECT `+stockColumns+` FROM stock WHERE product_id = $1 AND warehouse_id = $2`,
		productID, warehouseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.NewStockRecord(productID, warehouseID), nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return row.toEntity(), nil
}

// GetForUpdate crea la fila si falta y la bloquea (SELECT FOR UPDATE) hasta el fin de la tx.
func (r *StockRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.StockRecord, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock (product_id, warehouse_id, on_hand, reserved, updated_at)
		VALUES ($1, $2, 0, 0, now())
		ON CONFLICT (product_id, warehouse_id) DO NOTHING`, productID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("ensure stock row: %w", err)
	}
	var row stockRow
	err = pgxscan.Get(ctx, r.q, &row,
		`SELECT `+stockColumns+` FROM stock WHERE product_id = $1 AND warehouse_id = $2 FOR UPDATE`,
		productID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return row.toEntity(), nil
}

// Upsert inserta o actualiza el registro. La constraint CHECK rechaza reserved fuera de [0, on_hand].
func (r *StockRepo) Upsert(ctx context.Context, rec *entity.StockRecord) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock (product_id, warehouse_id, on_hand, reserved, location, lot, expires_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (product_id, warehouse_id)
		DO UPDATE SET on_hand = EXCLUDED.on_hand, reserved = EXCLUDED.reserved,
			location = EXCLUDED.location, lot = EXCLUDED.lot, expires_at = EXCLUDED.expires_at,
			updated_at = now()`,
		rec.ProductID, rec.WarehouseID, rec.OnHand, rec.Reserved, rec.Location, rec.Lot, rec.ExpiresAt)
	if err != nil {
		return writeErr("upsert stock", err)
	}
	return nil
}

func (r *StockRepo) list(ctx context.Context, where squirrel.Sqlizer, orderBy string) ([]*entity.StockRecord, error) {
	sql, args, err := psql.Select(stockColumns).From("stock").Where(where).OrderBy(orderBy).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var rows []stockRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	out := make([]*entity.StockRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

// ListByProduct stock del producto en todos los almacenes.
func (r *StockRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.StockRecord, error) {
	return r.list(ctx, squirrel.Eq{"product_id": productID}, "warehouse_id")
}

// ListByWarehouse stock de todos los productos de un almacén.
func (r *StockRepo) ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.StockRecord, error) {
	return r.list(ctx, squirrel.Eq{"warehouse_id": warehouseID}, "product_id")
}

// ListExpiring registros con stock y vencimiento <= before, los más próximos primero.
func (r *StockRepo) ListExpiring(ctx context.Context, before time.Time) ([]*entity.StockRecord, error) {
	return r.list(ctx, squirrel.And{
		squirrel.NotEq{"expires_at": nil},
		squirrel.LtOrEq{"expires_at": before},
		squirrel.Gt{"on_hand": 0},
	}, "expires_at")
}

type lowStockRow struct {
	ProductID   string          `db:"product_id"`
	SKU         string          `db:"sku"`
	ProductName string          `db:"product_name"`
	OnHand      int             `db:"on_hand"`
	Available   int             `db:"available"`
	MinStock    int             `db:"min_stock"`
	MaxStock    int             `db:"max_stock"`
	UnitCost    decimal.Decimal `db:"unit_cost"`
}

// ListBelowMinimum agrega el stock por producto (LEFT JOIN: sin filas cuenta como 0).
func (r *StockRepo) ListBelowMinimum(ctx context.Context, warehouseID string) ([]repository.LowStockItem, error) {
	b := psql.Select(
		"p.id AS product_id", "p.sku", "p.name AS product_name",
		"COALESCE(SUM(s.on_hand), 0) AS on_hand",
		"COALESCE(SUM(s.on_hand - s.reserved), 0) AS available",
		"p.min_stock", "p.max_stock", "p.cost AS unit_cost",
	).From("products p")
	if warehouseID != "" {
		b = b.LeftJoin("stock s ON s.product_id = p.id AND s.warehouse_id = ?", warehouseID)
	} else {
		b = b.LeftJoin("stock s ON s.product_id = p.id")
	}
	sql, args, err := b.Where("p.active").
		GroupBy("p.id").
		Having("COALESCE(SUM(s.on_hand), 0) < p.min_stock").
		OrderBy("p.min_stock - COALESCE(SUM(s.on_hand), 0) DESC", "p.sku").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var rows []lowStockRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list below minimum: %w", err)
	}
	out := make([]repository.LowStockItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, repository.LowStockItem(row))
	}
	return out, nil
}
