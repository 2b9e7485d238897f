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

var (
	_ repository.VehicleRepository = (*VehicleRepo)(nil)
	_ repository.DriverRepository  = (*DriverRepo)(nil)
	_ repository.ZoneRepository    = (*ZoneRepo)(nil)
)

// ── Vehículos ──

type vehicleRow struct {
	ID               string     `db:"id"`
	Code             string     `db:"code"`
	Plate            string     `db:"plate"`
	Type             string     `db:"type"`
	Brand            string     `db:"brand"`
	Model            string     `db:"model"`
	CapacityKg       float64    `db:"capacity_kg"`
	CapacityM3       float64    `db:"capacity_m3"`
	Active           bool       `db:"active"`
	Available        bool       `db:"available"`
	InsuranceExpires *time.Time `db:"insurance_expires"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
}

// VehicleRepo implementación de VehicleRepository.
type VehicleRepo struct {
	q Querier
}

// NewVehicleRepository construye el adaptador.
func NewVehicleRepository(q Querier) *VehicleRepo {
	return &VehicleRepo{q: q}
}

// Create persiste un vehículo. Placa o código repetidos -> ErrDuplicate.
func (r *VehicleRepo) Create(ctx context.Context, v *entity.Vehicle) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO vehicles (id, code, plate, type, brand, model, capacity_kg, capacity_m3,
			active, available, insurance_expires, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		v.ID, v.Code, v.Plate, v.Type, v.Brand, v.Model, v.CapacityKg, v.CapacityM3,
		v.Active, v.Available, v.InsuranceExpires, v.CreatedAt, v.UpdatedAt)
	if err != nil {
		return writeErr("create vehicle", err)
	}
	return nil
}

// GetByID obtiene un vehículo o (nil, nil).
func (r *VehicleRepo) GetByID(ctx context.Context, id string) (*entity.Vehicle, error) {
	var row vehicleRow
	if err := pgxscan.Get(ctx, r.q, &row, `SELECT * FROM vehicles WHERE id = $1`, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vehicle: %w", err)
	}
	v := entity.Vehicle(row)
	return &v, nil
}

// Update actualiza los datos maestros. available sólo lo tocan TryLock/Release.
func (r *VehicleRepo) Update(ctx context.Context, v *entity.Vehicle) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE vehicles SET brand = $2, model = $3, capacity_kg = $4, capacity_m3 = $5, active = $6,
			insurance_expires = $7, updated_at = $8
		WHERE id = $1`,
		v.ID, v.Brand, v.Model, v.CapacityKg, v.CapacityM3, v.Active, v.InsuranceExpires, v.UpdatedAt)
	if err != nil {
		return writeErr("update vehicle", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound(domain.EntityVehicle, v.ID)
	}
	return nil
}

// List vehículos por placa; onlyAvailable = activos y libres.
func (r *VehicleRepo) List(ctx context.Context, onlyAvailable bool) ([]*entity.Vehicle, error) {
	b := psql.Select("*").From("vehicles").OrderBy("plate")
	if onlyAvailable {
		b = b.Where("active AND available")
	}
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var rows []vehicleRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	out := make([]*entity.Vehicle, 0, len(rows))
	for _, row := range rows {
		v := entity.Vehicle(row)
		out = append(out, &v)
	}
	return out, nil
}

// TryLock marca el vehículo como ocupado sólo si estaba libre (compare-and-set en una sentencia).
func (r *VehicleRepo) TryLock(ctx context.Context, id string) (bool, error) {
	return tryLock(ctx, r.q, "vehicles", domain.EntityVehicle, id)
}

// Release libera el vehículo.
func (r *VehicleRepo) Release(ctx context.Context, id string) error {
	return release(ctx, r.q, "vehicles", domain.EntityVehicle, id)
}

// ── Conductores ──

type driverRow struct {
	ID              string     `db:"id"`
	Code            string     `db:"code"`
	FirstName       string     `db:"first_name"`
	LastName        string     `db:"last_name"`
	DocumentID      string     `db:"document_id"`
	Phone           string     `db:"phone"`
	LicenseNumber   string     `db:"license_number"`
	LicenseCategory string     `db:"license_category"`
	LicenseExpires  *time.Time `db:"license_expires"`
	Active          bool       `db:"active"`
	Available       bool       `db:"available"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

// DriverRepo implementación de DriverRepository.
type DriverRepo struct {
	q Querier
}

// NewDriverRepository construye el adaptador.
func NewDriverRepository(q Querier) *DriverRepo {
	return &DriverRepo{q: q}
}

// Create persiste un conductor.
func (r *DriverRepo) Create(ctx context.Context, d *entity.Driver) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO drivers (id, code, first_name, last_name, document_id, phone, license_number,
			license_category, license_expires, active, available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		d.ID, d.Code, d.FirstName, d.LastName, d.DocumentID, d.Phone, d.LicenseNumber,
		d.LicenseCategory, d.LicenseExpires, d.Active, d.Available, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return writeErr("create driver", err)
	}
	return nil
}

// GetByID obtiene un conductor o (nil, nil).
func (r *DriverRepo) GetByID(ctx context.Context, id string) (*entity.Driver, error) {
	var row driverRow
	if err := pgxscan.Get(ctx, r.q, &row, `SELECT * FROM drivers WHERE id = $1`, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get driver: %w", err)
	}
	d := entity.Driver(row)
	return &d, nil
}

// Update actualiza los datos maestros del conductor.
func (r *DriverRepo) Update(ctx context.Context, d *entity.Driver) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE drivers SET first_name = $2, last_name = $3, phone = $4, license_number = $5,
			license_category = $6, license_expires = $7, active = $8, updated_at = $9
		WHERE id = $1`,
		d.ID, d.FirstName, d.LastName, d.Phone, d.LicenseNumber, d.LicenseCategory, d.LicenseExpires, d.Active, d.UpdatedAt)
	if err != nil {
		return writeErr("update driver", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound(domain.EntityDriver, d.ID)
	}
	return nil
}

// List conductores por apellido; onlyAvailable = activos y libres.
func (r *DriverRepo) List(ctx context.Context, onlyAvailable bool) ([]*entity.Driver, error) {
	b := psql.Select("*").From("drivers").OrderBy("last_name", "first_name")
	if onlyAvailable {
		b = b.Where("active AND available")
	}
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var rows []driverRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list drivers: %w", err)
	}
	out := make([]*entity.Driver, 0, len(rows))
	for _, row := range rows {
		d := entity.Driver(row)
		out = append(out, &d)
	}
	return out, nil
}

// TryLock marca al conductor como ocupado sólo si estaba libre.
func (r *DriverRepo) TryLock(ctx context.Context, id string) (bool, error) {
	return tryLock(ctx, r.q, "drivers", domain.EntityDriver, id)
}

// Release libera al conductor.
func (r *DriverRepo) Release(ctx context.Context, id string) error {
	return release(ctx, r.q, "drivers", domain.EntityDriver, id)
}

func tryLock(ctx context.Context, q Querier, table, entityName, id string) (bool, error) {
	tag, err := q.Exec(ctx, `UPDATE `+table+` SET available = FALSE, updated_at = now() WHERE id = $1 AND available`, id)
	if err != nil {
		return false, fmt.Errorf("lock %s: %w", entityName, err)
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM `+table+` WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("lock %s: %w", entityName, err)
	}
	if !exists {
		return false, domain.NewUnknownEntity(entityName, id)
	}
	return false, nil
}

func release(ctx context.Context, q Querier, table, entityName, id string) error {
	tag, err := q.Exec(ctx, `UPDATE `+table+` SET available = TRUE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("release %s: %w", entityName, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound(entityName, id)
	}
	return nil
}

// ── Zonas ──

type zoneRow struct {
	ID           string    `db:"id"`
	Code         string    `db:"code"`
	Name         string    `db:"name"`
	Districts    []string  `db:"districts"`
	Description  string    `db:"description"`
	DeliveryDays string    `db:"delivery_days"`
	Active       bool      `db:"active"`
	CreatedAt    time.Time `db:"created_at"`
}

// ZoneRepo implementación de ZoneRepository.
type ZoneRepo struct {
	q Querier
}

// NewZoneRepository construye el adaptador.
func NewZoneRepository(q Querier) *ZoneRepo {
	return &ZoneRepo{q: q}
}

// Create persiste una zona.
func (r *ZoneRepo) Create(ctx context.Context, z *entity.Zone) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO zones (id, code, name, districts, description, delivery_days, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		z.ID, z.Code, z.Name, nonNil(z.Districts), z.Description, z.DeliveryDays, z.Active, z.CreatedAt)
	if err != nil {
		return writeErr("create zone", err)
	}
	return nil
}

// GetByID obtiene una zona o (nil, nil).
func (r *ZoneRepo) GetByID(ctx context.Context, id string) (*entity.Zone, error) {
	var row zoneRow
	if err := pgxscan.Get(ctx, r.q, &row, `SELECT * FROM zones WHERE id = $1`, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get zone: %w", err)
	}
	z := entity.Zone(row)
	return &z, nil
}

// Update actualiza una zona.
func (r *ZoneRepo) Update(ctx context.Context, z *entity.Zone) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE zones SET name = $2, districts = $3, description = $4, delivery_days = $5, active = $6
		WHERE id = $1`,
		z.ID, z.Name, nonNil(z.Districts), z.Description, z.DeliveryDays, z.Active)
	if err != nil {
		return writeErr("update zone", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound(domain.EntityZone, z.ID)
	}
	return nil
}

// List zonas por código.
func (r *ZoneRepo) List(ctx context.Context) ([]*entity.Zone, error) {
	var rows []zoneRow
	if err := pgxscan.Select(ctx, r.q, &rows, `SELECT * FROM zones ORDER BY code`); err != nil {
		return nil, fmt.Errorf("list zones: %w", err)
	}
	out := make([]*entity.Zone, 0, len(rows))
	for _, row := range rows {
		z := entity.Zone(row)
		out = append(out, &z)
	}
	return out, nil
}
