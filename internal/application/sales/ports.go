package sales

import (
	"context"

	appinventory "github.com/jhoicas/distribuidora-api/internal/application/inventory"
	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/distribuidora-api/internal/domain/repository"
)

// StockLedger interfaz para integrar ventas con el kardex.
// Todas las operaciones usan los repositorios del caller (misma transacción);
// si alguna retorna error el caller debe hacer rollback.
type StockLedger interface {
	ReserveInTx(ctx context.Context, tx repository.Repos, productID, warehouseID string, qty int) (bool, error)
	ReleaseInTx(ctx context.Context, tx repository.Repos, productID, warehouseID string, qty int) (int, error)
	RecordMovementInTx(ctx context.Context, tx repository.Repos, in appinventory.MovementInput) (*entity.Movement, error)
}

var _ StockLedger = (*appinventory.Ledger)(nil)
