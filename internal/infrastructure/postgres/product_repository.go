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
	"github.com/shopspring/decimal"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

type productRow struct {
	ID          string          `db:"id"`
	SKU         string          `db:"sku"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Brand       string          `db:"brand"`
	Category    string          `db:"category"`
	Price       decimal.Decimal `db:"price"`
	Cost        decimal.Decimal `db:"cost"`
	UnitMeasure string          `db:"unit_measure"`
	MinStock    int             `db:"min_stock"`
	MaxStock    int             `db:"max_stock"`
	Active      bool            `db:"active"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

func (p productRow) toEntity() *entity.Product {
	e := entity.Product(p)
	return &e
}

// ProductRepo implementación de ProductRepository (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador.
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un producto. SKU duplicado -> ErrDuplicate.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO products (id, sku, name, description, brand, category, price, cost, unit_measure,
			min_stock, max_stock, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		p.ID, p.SKU, p.Name, p.Description, p.Brand, p.Category, p.Price, p.Cost, p.UnitMeasure,
		p.MinStock, p.MaxStock, p.Active, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return writeErr("create product", err)
	}
	return nil
}

func (r *ProductRepo) getOne(ctx context.Context, where string, arg any) (*entity.Product, error) {
	var row productRow
	err := pgxscan.Get(ctx, r.q, &row, `SELECT * FROM products WHERE `+where+` = $1`, arg)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return row.toEntity(), nil
}

// GetByID obtiene un producto por ID o (nil, nil).
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, "id", id)
}

// GetBySKU obtiene un producto por SKU o (nil, nil).
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	return r.getOne(ctx, "sku", sku)
}

// Update actualiza los datos maestros (no cost).
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE products SET name = $2, description = $3, brand = $4, category = $5, price = $6,
			unit_measure = $7, min_stock = $8, max_stock = $9, active = $10, updated_at = $11
		WHERE id = $1`,
		p.ID, p.Name, p.Description, p.Brand, p.Category, p.Price, p.UnitMeasure,
		p.MinStock, p.MaxStock, p.Active, p.UpdatedAt)
	if err != nil {
		return writeErr("update product", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound(domain.EntityProduct, p.ID)
	}
	return nil
}

// UpdateCost actualiza el costo promedio (recepción de compras).
func (r *ProductRepo) UpdateCost(ctx context.Context, productID string, cost decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE products SET cost = $2, updated_at = now() WHERE id = $1`, productID, cost)
	if err != nil {
		return fmt.Errorf("update product cost: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound(domain.EntityProduct, productID)
	}
	return nil
}

// List productos ordenados por nombre.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	sql, args, err := paginate(psql.Select("*").From("products").OrderBy("name"), limit, offset).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var rows []productRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	out := make([]*entity.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}
