package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/distribuidora-api/internal/domain"
	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/distribuidora-api/internal/domain/inventory"
	"github.com/jhoicas/distribuidora-api/internal/domain/repository"
)

// AdjustInput ajuste de inventario. Quantity con signo: positivo entra, negativo sale.
type AdjustInput struct {
	WarehouseID string
	ProductID   string
	Quantity    int
	Reason      string
	ActorID     string
}

// AdjustStock registra un ajuste positivo (entrada) o negativo (salida).
func (l *Ledger) AdjustStock(ctx context.Context, in AdjustInput) (*entity.Movement, error) {
	if in.Quantity == 0 {
		return nil, fmt.Errorf("%w: el ajuste no puede ser cero", domain.ErrInvalidInput)
	}
	dir, qty := entity.DirectionEntry, in.Quantity
	if qty < 0 {
		dir, qty = entity.DirectionExit, -qty
	}
	mov, err := l.RecordMovement(ctx, MovementInput{
		WarehouseID: in.WarehouseID,
		ProductID:   in.ProductID,
		Direction:   dir,
		Kind:        entity.KindAdjustment,
		Quantity:    qty,
		Document:    entity.DocumentRef{Type: entity.DocumentTypeAdjustment},
		Reason:      in.Reason,
		ActorID:     in.ActorID,
	})
	if err != nil {
		return nil, err
	}
	l.log.Info().Str("product_id", in.ProductID).Str("warehouse_id", in.WarehouseID).
		Int("quantity", in.Quantity).Str("actor_id", in.ActorID).Msg("ajuste de stock")
	return mov, nil
}

// TransferInput transferencia entre almacenes.
type TransferInput struct {
	FromWarehouseID string
	ToWarehouseID   string
	ProductID       string
	Quantity        int
	Reason          string
	ActorID         string
}

// TransferStock registra la salida en origen y luego la entrada en destino, ambas en la misma transacción.
// Si la salida falla la entrada no se intenta.
func (l *Ledger) TransferStock(ctx context.Context, in TransferInput) (out, inMov *entity.Movement, err error) {
	if in.FromWarehouseID == "" || in.ToWarehouseID == "" || in.FromWarehouseID == in.ToWarehouseID {
		return nil, nil, fmt.Errorf("%w: almacén origen y destino deben ser distintos", domain.ErrInvalidInput)
	}
	if in.Quantity <= 0 {
		return nil, nil, fmt.Errorf("%w: la cantidad debe ser mayor a cero", domain.ErrInvalidInput)
	}
	txID := uuid.New().String()
	doc := entity.DocumentRef{Type: entity.DocumentTypeTransfer, ID: txID}
	err = l.txRunner.Run(ctx, func(tx repository.Repos) error {
		var err error
		out, err = l.RecordMovementInTx(ctx, tx, MovementInput{
			WarehouseID:   in.FromWarehouseID,
			ProductID:     in.ProductID,
			Direction:     entity.DirectionExit,
			Kind:          entity.KindTransfer,
			Quantity:      in.Quantity,
			Document:      doc,
			Reason:        in.Reason,
			ActorID:       in.ActorID,
			TransactionID: txID,
		})
		if err != nil {
			return err
		}
		inMov, err = l.RecordMovementInTx(ctx, tx, MovementInput{
			WarehouseID:   in.ToWarehouseID,
			ProductID:     in.ProductID,
			Direction:     entity.DirectionEntry,
			Kind:          entity.KindTransfer,
			Quantity:      in.Quantity,
			Document:      doc,
			Reason:        in.Reason,
			ActorID:       in.ActorID,
			TransactionID: txID,
		})
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	l.log.Info().Str("product_id", in.ProductID).Str("from", in.FromWarehouseID).Str("to", in.ToWarehouseID).
		Int("quantity", in.Quantity).Msg("transferencia registrada")
	return out, inMov, nil
}

// PurchaseInput recepción de compra.
type PurchaseInput struct {
	WarehouseID    string
	ProductID      string
	Quantity       int
	UnitCost       decimal.Decimal
	DocumentNumber string
	Reason         string
	ActorID        string
}

// ReceivePurchase registra una entrada por compra y recalcula el costo promedio ponderado del producto.
func (l *Ledger) ReceivePurchase(ctx context.Context, in PurchaseInput) (*entity.Movement, error) {
	if in.UnitCost.IsNegative() {
		return nil, fmt.Errorf("%w: costo unitario negativo", domain.ErrInvalidInput)
	}
	var mov *entity.Movement
	err := l.txRunner.Run(ctx, func(tx repository.Repos) error {
		product, err := tx.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.NewUnknownEntity(domain.EntityProduct, in.ProductID)
		}
		recs, err := tx.Stock.ListByProduct(ctx, in.ProductID)
		if err != nil {
			return err
		}
		onHand := 0
		for _, r := range recs {
			onHand += r.OnHand
		}
		cost := in.UnitCost
		mov, err = l.RecordMovementInTx(ctx, tx, MovementInput{
			WarehouseID: in.WarehouseID,
			ProductID:   in.ProductID,
			Direction:   entity.DirectionEntry,
			Kind:        entity.KindPurchase,
			Quantity:    in.Quantity,
			Document:    entity.DocumentRef{Type: entity.DocumentTypePurchase, Number: in.DocumentNumber},
			Reason:      in.Reason,
			ActorID:     in.ActorID,
			UnitCost:    &cost,
		})
		if err != nil {
			return err
		}
		newCost := inventory.WeightedCost(onHand, product.Cost, in.Quantity, in.UnitCost)
		return tx.Products.UpdateCost(ctx, in.ProductID, newCost)
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// StockDetailsPatch datos de ubicación del registro de stock; nil = no cambia.
type StockDetailsPatch struct {
	Location  *string
	Lot       *string
	ExpiresAt *time.Time
}

// SetStockDetails actualiza ubicación, lote y vencimiento de un registro sin tocar cantidades.
func (l *Ledger) SetStockDetails(ctx context.Context, productID, warehouseID string, patch StockDetailsPatch) (*entity.StockRecord, error) {
	var rec *entity.StockRecord
	err := l.txRunner.Run(ctx, func(tx repository.Repos) error {
		if _, err := l.ensureRefs(ctx, tx, productID, warehouseID); err != nil {
			return err
		}
		var err error
		rec, err = tx.Stock.GetForUpdate(ctx, productID, warehouseID)
		if err != nil {
			return err
		}
		if patch.Location != nil {
			rec.Location = *patch.Location
		}
		if patch.Lot != nil {
			rec.Lot = *patch.Lot
		}
		if patch.ExpiresAt != nil {
			exp := *patch.ExpiresAt
			rec.ExpiresAt = &exp
		}
		rec.UpdatedAt = l.now()
		return tx.Stock.Upsert(ctx, rec)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ensureRefs verifica que producto y almacén existan y devuelve el producto.
func (l *Ledger) ensureRefs(ctx context.Context, tx repository.Repos, productID, warehouseID string) (*entity.Product, error) {
	p, err := tx.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NewUnknownEntity(domain.EntityProduct, productID)
	}
	w, err := tx.Warehouses.GetByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, domain.NewUnknownEntity(domain.EntityWarehouse, warehouseID)
	}
	return p, nil
}
