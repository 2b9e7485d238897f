// Package inventory implementa el kardex: toda mutación de stock pasa por un movimiento registrado
// dentro de una transacción, con la fila de stock bloqueada.
package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/distribuidora-api/internal/domain"
	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/distribuidora-api/internal/domain/inventory"
	"github.com/jhoicas/distribuidora-api/internal/domain/repository"
)

// Ledger casos de uso del kardex (entradas, salidas, reservas, ajustes y transferencias).
type Ledger struct {
	txRunner repository.TxRunner
	repos    repository.Repos
	log      zerolog.Logger
	now      func() time.Time
}

// NewLedger construye el caso de uso. repos se usa sólo para lecturas fuera de transacción.
func NewLedger(txRunner repository.TxRunner, repos repository.Repos, log zerolog.Logger) *Ledger {
	return &Ledger{
		txRunner: txRunner,
		repos:    repos,
		log:      log,
		now:      time.Now,
	}
}

// MovementInput entrada para registrar un movimiento.
type MovementInput struct {
	WarehouseID   string
	ProductID     string
	Direction     entity.MovementDirection
	Kind          entity.MovementKind
	Quantity      int
	Document      entity.DocumentRef
	Reason        string
	ActorID       string
	UnitCost      *decimal.Decimal // vacío = costo promedio actual del producto
	TransactionID string           // vacío = se genera uno nuevo
}

func (in MovementInput) validate() error {
	if in.WarehouseID == "" || in.ProductID == "" {
		return fmt.Errorf("%w: almacén y producto son obligatorios", domain.ErrInvalidInput)
	}
	if in.Quantity <= 0 {
		return fmt.Errorf("%w: la cantidad debe ser mayor a cero", domain.ErrInvalidInput)
	}
	if !inventory.ValidKind(in.Direction, in.Kind) {
		return fmt.Errorf("%w: tipo de movimiento %s_%s", domain.ErrInvalidInput, in.Direction, in.Kind)
	}
	return nil
}

// RecordMovement registra el movimiento y actualiza el stock en una sola transacción.
// Una salida mayor que el stock físico falla con *domain.InsufficientStockError y nada persiste.
func (l *Ledger) RecordMovement(ctx context.Context, in MovementInput) (*entity.Movement, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var mov *entity.Movement
	err := l.txRunner.Run(ctx, func(tx repository.Repos) error {
		var err error
		mov, err = l.RecordMovementInTx(ctx, tx, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// RecordMovementInTx igual que RecordMovement usando los repositorios de la transacción del caller.
func (l *Ledger) RecordMovementInTx(ctx context.Context, tx repository.Repos, in MovementInput) (*entity.Movement, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	product, err := l.ensureRefs(ctx, tx, in.ProductID, in.WarehouseID)
	if err != nil {
		return nil, err
	}

	// Bloquea la fila de stock para evitar condiciones de carrera
	rec, err := tx.Stock.GetForUpdate(ctx, in.ProductID, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	before, after, err := inventory.ApplyMovement(rec, in.Direction, in.Quantity)
	if err != nil {
		l.log.Warn().Err(err).
			Str("product_id", in.ProductID).Str("warehouse_id", in.WarehouseID).
			Str("movement", string(in.Direction)+"_"+string(in.Kind)).Int("quantity", in.Quantity).
			Msg("movimiento rechazado")
		return nil, err
	}
	now := l.now()
	rec.UpdatedAt = now
	if err := tx.Stock.Upsert(ctx, rec); err != nil {
		return nil, err
	}

	unitCost := product.Cost
	if in.UnitCost != nil {
		unitCost = *in.UnitCost
	}
	txID := in.TransactionID
	if txID == "" {
		txID = uuid.New().String()
	}
	mov := &entity.Movement{
		ID:            uuid.New().String(),
		TransactionID: txID,
		WarehouseID:   in.WarehouseID,
		ProductID:     in.ProductID,
		Direction:     in.Direction,
		Kind:          in.Kind,
		Quantity:      in.Quantity,
		StockBefore:   before,
		StockAfter:    after,
		Document:      in.Document,
		Reason:        in.Reason,
		ActorID:       in.ActorID,
		UnitCost:      unitCost,
		CreatedAt:     now,
	}
	if err := tx.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	l.log.Debug().Str("movement_id", mov.ID).Str("code", mov.Code()).
		Int("before", before).Int("after", after).Msg("movimiento registrado")
	return mov, nil
}

// Reserve aparta qty del disponible. Devuelve false sin cambios si Available < qty.
func (l *Ledger) Reserve(ctx context.Context, productID, warehouseID string, qty int) (bool, error) {
	var ok bool
	err := l.txRunner.Run(ctx, func(tx repository.Repos) error {
		var err error
		ok, err = l.ReserveInTx(ctx, tx, productID, warehouseID, qty)
		return err
	})
	return ok, err
}

// ReserveInTx compare-and-set sobre la fila bloqueada.
func (l *Ledger) ReserveInTx(ctx context.Context, tx repository.Repos, productID, warehouseID string, qty int) (bool, error) {
	if qty <= 0 {
		return false, fmt.Errorf("%w: la cantidad a reservar debe ser mayor a cero", domain.ErrInvalidInput)
	}
	rec, err := tx.Stock.GetForUpdate(ctx, productID, warehouseID)
	if err != nil {
		return false, err
	}
	if !inventory.Reserve(rec, qty) {
		return false, nil
	}
	rec.UpdatedAt = l.now()
	if err := tx.Stock.Upsert(ctx, rec); err != nil {
		return false, err
	}
	return true, nil
}

// ReleaseReservation libera min(qty, reservado). Liberar de más no es error.
func (l *Ledger) ReleaseReservation(ctx context.Context, productID, warehouseID string, qty int) error {
	return l.txRunner.Run(ctx, func(tx repository.Repos) error {
		_, err := l.ReleaseInTx(ctx, tx, productID, warehouseID, qty)
		return err
	})
}

// ReleaseInTx devuelve la cantidad efectivamente liberada.
func (l *Ledger) ReleaseInTx(ctx context.Context, tx repository.Repos, productID, warehouseID string, qty int) (int, error) {
	rec, err := tx.Stock.GetForUpdate(ctx, productID, warehouseID)
	if err != nil {
		return 0, err
	}
	released := inventory.Release(rec, qty)
	if released == 0 {
		return 0, nil
	}
	rec.UpdatedAt = l.now()
	if err := tx.Stock.Upsert(ctx, rec); err != nil {
		return 0, err
	}
	return released, nil
}

// TotalOnHand suma el stock físico del producto en todos los almacenes.
func (l *Ledger) TotalOnHand(ctx context.Context, productID string) (int, error) {
	recs, err := l.repos.Stock.ListByProduct(ctx, productID)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, r := range recs {
		total += r.OnHand
	}
	return total, nil
}

// TotalAvailable suma el disponible (físico − reservado) en todos los almacenes.
func (l *Ledger) TotalAvailable(ctx context.Context, productID string) (int, error) {
	recs, err := l.repos.Stock.ListByProduct(ctx, productID)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, r := range recs {
		total += r.Available()
	}
	return total, nil
}

// ExpiringWithin registros con stock que vencen en los próximos days días (incluye vencidos).
func (l *Ledger) ExpiringWithin(ctx context.Context, days int) ([]*entity.StockRecord, error) {
	if days < 0 {
		return nil, domain.ErrInvalidInput
	}
	return l.repos.Stock.ListExpiring(ctx, l.now().AddDate(0, 0, days))
}

// StockByProduct stock del producto por almacén.
func (l *Ledger) StockByProduct(ctx context.Context, productID string) ([]*entity.StockRecord, error) {
	return l.repos.Stock.ListByProduct(ctx, productID)
}

// StockByWarehouse stock de todos los productos de un almacén.
func (l *Ledger) StockByWarehouse(ctx context.Context, warehouseID string) ([]*entity.StockRecord, error) {
	return l.repos.Stock.ListByWarehouse(ctx, warehouseID)
}

// ListMovements consulta el kardex.
func (l *Ledger) ListMovements(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	return l.repos.Movements.List(ctx, filter)
}
