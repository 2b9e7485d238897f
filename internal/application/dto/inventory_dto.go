package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustStockRequest body para POST /api/inventory/adjustments. Quantity con signo.
type AdjustStockRequest struct {
	WarehouseID string `json:"warehouse_id"`
	ProductID   string `json:"product_id"`
	Quantity    int    `json:"quantity"`
	Reason      string `json:"reason"`
}

// TransferStockRequest body para POST /api/inventory/transfers.
type TransferStockRequest struct {
	FromWarehouseID string `json:"from_warehouse_id"`
	ToWarehouseID   string `json:"to_warehouse_id"`
	ProductID       string `json:"product_id"`
	Quantity        int    `json:"quantity"`
	Reason          string `json:"reason"`
}

// ReceivePurchaseRequest body para POST /api/inventory/purchases.
type ReceivePurchaseRequest struct {
	WarehouseID    string          `json:"warehouse_id"`
	ProductID      string          `json:"product_id"`
	Quantity       int             `json:"quantity"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	DocumentNumber string          `json:"document_number"`
	Reason         string          `json:"reason"`
}

// StockDetailsRequest body para PATCH /api/inventory/products/:id/warehouses/:warehouseId.
type StockDetailsRequest struct {
	Location  *string    `json:"location"`
	Lot       *string    `json:"lot"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// StockResponse stock de un producto en un almacén.
type StockResponse struct {
	ProductID   string     `json:"product_id"`
	WarehouseID string     `json:"warehouse_id"`
	OnHand      int        `json:"on_hand"`
	Reserved    int        `json:"reserved"`
	Available   int        `json:"available"`
	Location    string     `json:"location,omitempty"`
	Lot         string     `json:"lot,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// StockTotalsResponse totales de un producto en todos los almacenes.
type StockTotalsResponse struct {
	ProductID string `json:"product_id"`
	OnHand    int    `json:"on_hand"`
	Available int    `json:"available"`
}

// MovementResponse entrada del kardex.
type MovementResponse struct {
	ID             string          `json:"id"`
	TransactionID  string          `json:"transaction_id"`
	WarehouseID    string          `json:"warehouse_id"`
	ProductID      string          `json:"product_id"`
	Type           string          `json:"type"` // direccion_subtipo
	Direction      string          `json:"direction"`
	Kind           string          `json:"kind"`
	Quantity       int             `json:"quantity"`
	StockBefore    int             `json:"stock_before"`
	StockAfter     int             `json:"stock_after"`
	DocumentType   string          `json:"document_type,omitempty"`
	DocumentID     string          `json:"document_id,omitempty"`
	DocumentNumber string          `json:"document_number,omitempty"`
	Reason         string          `json:"reason,omitempty"`
	ActorID        string          `json:"actor_id,omitempty"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	CreatedAt      time.Time       `json:"created_at"`
}

// TransferResponse ambos movimientos de una transferencia.
type TransferResponse struct {
	Out MovementResponse `json:"out"`
	In  MovementResponse `json:"in"`
}

// LowStockResponse sugerencia de reposición para un producto bajo su stock mínimo.
type LowStockResponse struct {
	Priority      int             `json:"priority"`
	ProductID     string          `json:"product_id"`
	SKU           string          `json:"sku"`
	ProductName   string          `json:"product_name"`
	OnHand        int             `json:"on_hand"`
	Available     int             `json:"available"`
	MinStock      int             `json:"min_stock"`
	MaxStock      int             `json:"max_stock"`
	IdealStock    int             `json:"ideal_stock"`
	SuggestedQty  int             `json:"suggested_qty"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
}
