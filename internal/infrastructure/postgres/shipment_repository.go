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
)

var (
	_ repository.ShipmentRepository = (*ShipmentRepo)(nil)
	_ repository.RouteRepository    = (*RouteRepo)(nil)
)

type shipmentRow struct {
	ID                string     `db:"id"`
	Code              string     `db:"code"`
	OrderID           string     `db:"order_id"`
	RouteID           *string    `db:"route_id"`
	VehicleID         *string    `db:"vehicle_id"`
	DriverID          *string    `db:"driver_id"`
	DeliverySeq       *int       `db:"delivery_seq"`
	Status            string     `db:"status"`
	ScheduledAt       *time.Time `db:"scheduled_at"`
	DeliveredAt       *time.Time `db:"delivered_at"`
	Signed            bool       `db:"signed"`
	RecipientName     string     `db:"recipient_name"`
	RecipientDocument string     `db:"recipient_document"`
	Latitude          *float64   `db:"latitude"`
	Longitude         *float64   `db:"longitude"`
	Notes             string     `db:"notes"`
	FailureReason     string     `db:"failure_reason"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
}

func (s shipmentRow) toEntity() *entity.Shipment {
	return &entity.Shipment{
		ID:                s.ID,
		Code:              s.Code,
		OrderID:           s.OrderID,
		RouteID:           s.RouteID,
		VehicleID:         s.VehicleID,
		DriverID:          s.DriverID,
		DeliverySeq:       s.DeliverySeq,
		Status:            entity.ShipmentStatus(s.Status),
		ScheduledAt:       s.ScheduledAt,
		DeliveredAt:       s.DeliveredAt,
		Signed:            s.Signed,
		RecipientName:     s.RecipientName,
		RecipientDocument: s.RecipientDocument,
		Latitude:          s.Latitude,
		Longitude:         s.Longitude,
		Notes:             s.Notes,
		FailureReason:     s.FailureReason,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

// ShipmentRepo implementación de ShipmentRepository.
type ShipmentRepo struct {
	q Querier
}

// NewShipmentRepository construye el adaptador.
func NewShipmentRepository(q Querier) *ShipmentRepo {
	return &ShipmentRepo{q: q}
}

// Create persiste un envío. Un segundo envío para la misma venta -> ErrDuplicate.
func (r *ShipmentRepo) Create(ctx context.Context, s *entity.Shipment) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO shipments (id, code, order_id, route_id, vehicle_id, driver_id, delivery_seq, status,
			scheduled_at, delivered_at, signed, recipient_name, recipient_document, latitude, longitude,
			notes, failure_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		s.ID, s.Code, s.OrderID, s.RouteID, s.VehicleID, s.DriverID, s.DeliverySeq, string(s.Status),
		s.ScheduledAt, s.DeliveredAt, s.Signed, s.RecipientName, s.RecipientDocument, s.Latitude, s.Longitude,
		s.Notes, s.FailureReason, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return writeErr("create shipment", err)
	}
	return nil
}

func (r *ShipmentRepo) getOne(ctx context.Context, query string, arg any) (*entity.Shipment, error) {
	var row shipmentRow
	if err := pgxscan.Get(ctx, r.q, &row, query, arg); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shipment: %w", err)
	}
	return row.toEntity(), nil
}

// GetByID obtiene un envío o (nil, nil).
func (r *ShipmentRepo) GetByID(ctx context.Context, id string) (*entity.Shipment, error) {
	return r.getOne(ctx, `SELECT * FROM shipments WHERE id = $1`, id)
}

// GetForUpdate igual que GetByID bloqueando la fila.
func (r *ShipmentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Shipment, error) {
	return r.getOne(ctx, `SELECT * FROM shipments WHERE id = $1 FOR UPDATE`, id)
}

// GetByOrderID envío de una venta o (nil, nil).
func (r *ShipmentRepo) GetByOrderID(ctx context.Context, orderID string) (*entity.Shipment, error) {
	return r.getOne(ctx, `SELECT * FROM shipments WHERE order_id = $1`, orderID)
}

// Update persiste el estado completo del envío.
func (r *ShipmentRepo) Update(ctx context.Context, s *entity.Shipment) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE shipments SET route_id = $2, vehicle_id = $3, driver_id = $4, delivery_seq = $5, status = $6,
			scheduled_at = $7, delivered_at = $8, signed = $9, recipient_name = $10, recipient_document = $11,
			latitude = $12, longitude = $13, notes = $14, failure_reason = $15, updated_at = $16
		WHERE id = $1`,
		s.ID, s.RouteID, s.VehicleID, s.DriverID, s.DeliverySeq, string(s.Status),
		s.ScheduledAt, s.DeliveredAt, s.Signed, s.RecipientName, s.RecipientDocument,
		s.Latitude, s.Longitude, s.Notes, s.FailureReason, s.UpdatedAt)
	if err != nil {
		return writeErr("update shipment", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound(domain.EntityShipment, s.ID)
	}
	return nil
}

// List envíos filtrados por secuencia de entrega y código.
func (r *ShipmentRepo) List(ctx context.Context, f repository.ShipmentFilter) ([]*entity.Shipment, error) {
	b := psql.Select("*").From("shipments")
	if len(f.Statuses) > 0 {
		statuses := make([]string, 0, len(f.Statuses))
		for _, s := range f.Statuses {
			statuses = append(statuses, string(s))
		}
		b = b.Where(squirrel.Eq{"status": statuses})
	}
	if f.RouteID != "" {
		b = b.Where(squirrel.Eq{"route_id": f.RouteID})
	}
	if f.VehicleID != "" {
		b = b.Where(squirrel.Eq{"vehicle_id": f.VehicleID})
	}
	if f.DriverID != "" {
		b = b.Where(squirrel.Eq{"driver_id": f.DriverID})
	}
	if f.ScheduledFrom != nil {
		b = b.Where(squirrel.GtOrEq{"scheduled_at": *f.ScheduledFrom})
	}
	if f.ScheduledTo != nil {
		b = b.Where(squirrel.Lt{"scheduled_at": *f.ScheduledTo})
	}
	sql, args, err := paginate(b.OrderBy("delivery_seq NULLS LAST", "code"), f.Limit, f.Offset).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var rows []shipmentRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list shipments: %w", err)
	}
	out := make([]*entity.Shipment, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

// LastCode mayor código con el prefijo, serializado con advisory lock.
func (r *ShipmentRepo) LastCode(ctx context.Context, prefix string) (string, error) {
	return lastCode(ctx, r.q, "shipments", prefix)
}

func lastCode(ctx context.Context, q Querier, table, prefix string) (string, error) {
	if err := advisoryLock(ctx, q, table+":"+prefix); err != nil {
		return "", err
	}
	var last *string
	err := q.QueryRow(ctx, `SELECT max(code) FROM `+table+` WHERE code LIKE $1 || '%'`, prefix).Scan(&last)
	if err != nil {
		return "", fmt.Errorf("last %s code: %w", table, err)
	}
	if last == nil {
		return "", nil
	}
	return *last, nil
}

type routeRow struct {
	ID          string     `db:"id"`
	Code        string     `db:"code"`
	Name        string     `db:"name"`
	RouteDate   time.Time  `db:"route_date"`
	ZoneID      *string    `db:"zone_id"`
	VehicleID   *string    `db:"vehicle_id"`
	DriverID    *string    `db:"driver_id"`
	ShipmentIDs []string   `db:"shipment_ids"`
	Total       int        `db:"total"`
	Succeeded   int        `db:"succeeded"`
	Failed      int        `db:"failed"`
	Completed   bool       `db:"completed"`
	DepartedAt  *time.Time `db:"departed_at"`
	ReturnedAt  *time.Time `db:"returned_at"`
	DistanceKm  float64    `db:"distance_km"`
	CreatedAt   time.Time  `db:"created_at"`
}

// RouteRepo implementación de RouteRepository.
type RouteRepo struct {
	q Querier
}

// NewRouteRepository construye el adaptador.
func NewRouteRepository(q Querier) *RouteRepo {
	return &RouteRepo{q: q}
}

// Create persiste una ruta.
func (r *RouteRepo) Create(ctx context.Context, rt *entity.Route) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO routes (id, code, name, route_date, zone_id, vehicle_id, driver_id, shipment_ids,
			total, succeeded, failed, completed, departed_at, returned_at, distance_km, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		rt.ID, rt.Code, rt.Name, rt.Date, rt.ZoneID, rt.VehicleID, rt.DriverID, nonNil(rt.ShipmentIDs),
		rt.Total, rt.Succeeded, rt.Failed, rt.Completed, rt.DepartedAt, rt.ReturnedAt, rt.DistanceKm, rt.CreatedAt)
	if err != nil {
		return writeErr("create route", err)
	}
	return nil
}

func (r *RouteRepo) getOne(ctx context.Context, query, id string) (*entity.Route, error) {
	var row routeRow
	if err := pgxscan.Get(ctx, r.q, &row, query, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get route: %w", err)
	}
	return &entity.Route{
		ID:          row.ID,
		Code:        row.Code,
		Name:        row.Name,
		Date:        row.RouteDate,
		ZoneID:      row.ZoneID,
		VehicleID:   row.VehicleID,
		DriverID:    row.DriverID,
		ShipmentIDs: row.ShipmentIDs,
		Total:       row.Total,
		Succeeded:   row.Succeeded,
		Failed:      row.Failed,
		Completed:   row.Completed,
		DepartedAt:  row.DepartedAt,
		ReturnedAt:  row.ReturnedAt,
		DistanceKm:  row.DistanceKm,
		CreatedAt:   row.CreatedAt,
	}, nil
}

// GetByID obtiene una ruta o (nil, nil).
func (r *RouteRepo) GetByID(ctx context.Context, id string) (*entity.Route, error) {
	return r.getOne(ctx, `SELECT * FROM routes WHERE id = $1`, id)
}

// GetForUpdate igual que GetByID bloqueando la fila (contadores de entregas).
func (r *RouteRepo) GetForUpdate(ctx context.Context, id string) (*entity.Route, error) {
	return r.getOne(ctx, `SELECT * FROM routes WHERE id = $1 FOR UPDATE`, id)
}

// Update persiste contadores y cierre de la ruta.
func (r *RouteRepo) Update(ctx context.Context, rt *entity.Route) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE routes SET name = $2, shipment_ids = $3, total = $4, succeeded = $5, failed = $6,
			completed = $7, departed_at = $8, returned_at = $9, distance_km = $10
		WHERE id = $1`,
		rt.ID, rt.Name, nonNil(rt.ShipmentIDs), rt.Total, rt.Succeeded, rt.Failed,
		rt.Completed, rt.DepartedAt, rt.ReturnedAt, rt.DistanceKm)
	if err != nil {
		return writeErr("update route", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound(domain.EntityRoute, rt.ID)
	}
	return nil
}

// LastCode mayor código de ruta con el prefijo.
func (r *RouteRepo) LastCode(ctx context.Context, prefix string) (string, error) {
	return lastCode(ctx, r.q, "routes", prefix)
}
