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

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

type customerRow struct {
	ID          string          `db:"id"`
	Name        string          `db:"name"`
	TaxID       *string         `db:"tax_id"`
	Email       string          `db:"email"`
	Phone       string          `db:"phone"`
	Address     string          `db:"address"`
	District    string          `db:"district"`
	CreditDays  int             `db:"credit_days"`
	CreditLimit decimal.Decimal `db:"credit_limit"`
	Active      bool            `db:"active"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

func (c customerRow) toEntity() *entity.Customer {
	e := &entity.Customer{
		ID:          c.ID,
		Name:        c.Name,
		Email:       c.Email,
		Phone:       c.Phone,
		Address:     c.Address,
		District:    c.District,
		CreditDays:  c.CreditDays,
		CreditLimit: c.CreditLimit,
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	if c.TaxID != nil {
		e.TaxID = *c.TaxID
	}
	return e
}

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador.
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// Create persiste un cliente. TaxID vacío se guarda como NULL.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO customers (id, name, tax_id, email, phone, address, district, credit_days, credit_limit, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		c.ID, c.Name, nullIfEmpty(c.TaxID), c.Email, c.Phone, c.Address, c.District,
		c.CreditDays, c.CreditLimit, c.Active, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return writeErr("create customer", err)
	}
	return nil
}

func (r *CustomerRepo) getOne(ctx context.Context, column string, arg any) (*entity.Customer, error) {
	var row customerRow
	if err := pgxscan.Get(ctx, r.q, &row, `SELECT * FROM customers WHERE `+column+` = $1`, arg); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return row.toEntity(), nil
}

// GetByID obtiene un cliente por ID o (nil, nil).
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	return r.getOne(ctx, "id", id)
}

// GetByTaxID obtiene un cliente por RUC/DNI o (nil, nil).
func (r *CustomerRepo) GetByTaxID(ctx context.Context, taxID string) (*entity.Customer, error) {
	return r.getOne(ctx, "tax_id", taxID)
}

// List clientes ordenados por nombre.
func (r *CustomerRepo) List(ctx context.Context, limit, offset int) ([]*entity.Customer, error) {
	sql, args, err := paginate(psql.Select("*").From("customers").OrderBy("name"), limit, offset).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var rows []customerRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	out := make([]*entity.Customer, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

// Update actualiza un cliente.
func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE customers SET name = $2, email = $3, phone = $4, address = $5, district = $6,
			credit_days = $7, credit_limit = $8, active = $9, updated_at = $10
		WHERE id = $1`,
		c.ID, c.Name, c.Email, c.Phone, c.Address, c.District, c.CreditDays, c.CreditLimit, c.Active, c.UpdatedAt)
	if err != nil {
		return writeErr("update customer", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound(domain.EntityCustomer, c.ID)
	}
	return nil
}
