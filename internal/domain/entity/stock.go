package entity

import "time"

// StockRecord representa el stock de un producto en un almacén.
// Invariante: 0 <= Reserved <= OnHand. Available se deriva, nunca se guarda aparte.
type StockRecord struct {
	ProductID   string
	WarehouseID string
	OnHand      int
	Reserved    int
	Location    string // ej: "A-01-03" (pasillo, estante, nivel)
	Lot         string
	ExpiresAt   *time.Time
	UpdatedAt   time.Time
}

// Available devuelve OnHand - Reserved.
func (s *StockRecord) Available() int {
	return s.OnHand - s.Reserved
}

// NewStockRecord crea un registro vacío para el par (producto, almacén).
func NewStockRecord(productID, warehouseID string) *StockRecord {
	return &StockRecord{ProductID: productID, WarehouseID: warehouseID}
}
