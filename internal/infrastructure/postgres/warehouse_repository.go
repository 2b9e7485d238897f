package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/distribuidora-api/internal/domain"
	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/distribuidora-api/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

type warehouseRow struct {
	ID          string    `db:"id"`
	Code        string    `db:"code"`
	Name        string    `db:"name"`
	Type        string    `db:"type"`
	Address     string    `db:"address"`
	City        string    `db:"city"`
	Responsible string    `db:"responsible"`
	Phone       string    `db:"phone"`
	Active      bool      `db:"active"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// WarehouseRepo implementación de WarehouseRepository.
type WarehouseRepo struct {
	q Querier
}

// NewWarehouseRepository construye el adaptador.
func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

// Create persiste un almacén.
func (r *WarehouseRepo) Create(ctx context.Context, w *entity.Warehouse) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO warehouses (id, code, name, type, address, city, responsible, phone, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		w.ID, w.Code, w.Name, w.Type, w.Address, w.City, w.Responsible, w.Phone, w.Active, w.CreatedAt, w.UpdatedAt)
	if err != nil {
		return writeErr("create warehouse", err)
	}
	return nil
}

// GetByID obtiene un almacén por ID o (nil, nil).
func (r *WarehouseRepo) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	var row warehouseRow
	if err := pgxscan.Get(ctx, r.q, &row, `SELECT * FROM warehouses WHERE id = $1`, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	w := entity.Warehouse(row)
	return &w, nil
}

// Update actualiza un almacén. El código no cambia.
func (r *WarehouseRepo) Update(ctx context.Context, w *entity.Warehouse) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE warehouses SET name = $2, type = $3, address = $4, city = $5, responsible = $6,
			phone = $7, active = $8, updated_at = $9
		WHERE id = $1`,
		w.ID, w.Name, w.Type, w.Address, w.City, w.Responsible, w.Phone, w.Active, w.UpdatedAt)
	if err != nil {
		return writeErr("update warehouse", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound(domain.EntityWarehouse, w.ID)
	}
	return nil
}

// List almacenes ordenados por código.
func (r *WarehouseRepo) List(ctx context.Context, limit, offset int) ([]*entity.Warehouse, error) {
	sql, args, err := paginate(psql.Select("*").From("warehouses").OrderBy("code"), limit, offset).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var rows []warehouseRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	out := make([]*entity.Warehouse, 0, len(rows))
	for _, row := range rows {
		w := entity.Warehouse(row)
		out = append(out, &w)
	}
	return out, nil
}
