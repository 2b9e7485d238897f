package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/distribuidora-api/internal/application/dto"
	"github.com/jhoicas/distribuidora-api/internal/application/inventory"
	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/distribuidora-api/internal/domain/repository"
)

// InventoryHandler maneja las peticiones HTTP de stock y kardex (protegido).
type InventoryHandler struct {
	ledger *inventory.Ledger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.Ledger) *InventoryHandler {
	return &InventoryHandler{ledger: ledger}
}

// Adjust godoc
// @Summary      Ajuste de inventario
// @Description  quantity con signo: positivo = entrada, negativo = salida.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "warehouse_id, product_id, quantity, reason"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	mov, err := h.ledger.AdjustStock(c.UserContext(), inventory.AdjustInput{
		WarehouseID: in.WarehouseID,
		ProductID:   in.ProductID,
		Quantity:    in.Quantity,
		Reason:      in.Reason,
		ActorID:     GetUserID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov))
}

// Transfer godoc
// @Summary      Transferencia entre almacenes
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferStockRequest  true  "from_warehouse_id, to_warehouse_id, product_id, quantity"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers [post]
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferStockRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, inMov, err := h.ledger.TransferStock(c.UserContext(), inventory.TransferInput{
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		ProductID:       in.ProductID,
		Quantity:        in.Quantity,
		Reason:          in.Reason,
		ActorID:         GetUserID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TransferResponse{
		Out: toMovementResponse(out),
		In:  toMovementResponse(inMov),
	})
}

// ReceivePurchase POST /api/inventory/purchases
func (h *InventoryHandler) ReceivePurchase(c *fiber.Ctx) error {
	var in dto.ReceivePurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	mov, err := h.ledger.ReceivePurchase(c.UserContext(), inventory.PurchaseInput{
		WarehouseID:    in.WarehouseID,
		ProductID:      in.ProductID,
		Quantity:       in.Quantity,
		UnitCost:       in.UnitCost,
		DocumentNumber: in.DocumentNumber,
		Reason:         in.Reason,
		ActorID:        GetUserID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov))
}

// SetDetails PATCH /api/inventory/products/:id/warehouses/:warehouseId
// Ubicación, lote y vencimiento del registro de stock.
func (h *InventoryHandler) SetDetails(c *fiber.Ctx) error {
	var in dto.StockDetailsRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	rec, err := h.ledger.SetStockDetails(c.UserContext(), c.Params("id"), c.Params("warehouseId"), inventory.StockDetailsPatch{
		Location:  in.Location,
		Lot:       in.Lot,
		ExpiresAt: in.ExpiresAt,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toStockResponse(rec))
}

// ByProduct GET /api/inventory/products/:id
func (h *InventoryHandler) ByProduct(c *fiber.Ctx) error {
	list, err := h.ledger.StockByProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toStockList(list))
}

// Totals GET /api/inventory/products/:id/totals
func (h *InventoryHandler) Totals(c *fiber.Ctx) error {
	ctx := c.UserContext()
	productID := c.Params("id")
	onHand, err := h.ledger.TotalOnHand(ctx, productID)
	if err != nil {
		return writeError(c, err)
	}
	available, err := h.ledger.TotalAvailable(ctx, productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.StockTotalsResponse{ProductID: productID, OnHand: onHand, Available: available})
}

// ByWarehouse GET /api/inventory/warehouses/:id
func (h *InventoryHandler) ByWarehouse(c *fiber.Ctx) error {
	list, err := h.ledger.StockByWarehouse(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toStockList(list))
}

// Expiring GET /api/inventory/expiring?days=30
func (h *InventoryHandler) Expiring(c *fiber.Ctx) error {
	days := c.QueryInt("days", 30)
	if days < 0 {
		return validationError(c, "days no puede ser negativo")
	}
	list, err := h.ledger.ExpiringWithin(c.UserContext(), days)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toStockList(list))
}

// LowStock godoc
// @Summary      Productos bajo stock mínimo
// @Description  Lista de reposición con cantidad sugerida hasta el stock máximo (o 1.5 × mínimo). Sin warehouse_id suma todos los almacenes.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "almacén"
// @Success      200   {array}   dto.LowStockResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	list, err := h.ledger.LowStock(c.UserContext(), c.Query("warehouse_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toLowStockList(list))
}

// Movements GET /api/inventory/movements?product_id=&warehouse_id=&direction=&kind=&from=&to=
func (h *InventoryHandler) Movements(c *fiber.Ctx) error {
	from, err := queryTime(c, "from")
	if err != nil {
		return validationError(c, "from inválido")
	}
	to, err := queryTime(c, "to")
	if err != nil {
		return validationError(c, "to inválido")
	}
	page := pageParams(c)
	list, err := h.ledger.ListMovements(c.UserContext(), repository.MovementFilter{
		ProductID:   c.Query("product_id"),
		WarehouseID: c.Query("warehouse_id"),
		Direction:   entity.MovementDirection(c.Query("direction")),
		Kind:        entity.MovementKind(c.Query("kind")),
		From:        from,
		To:          to,
		Limit:       page.Limit,
		Offset:      page.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toMovementResponse(m))
	}
	return c.JSON(out)
}
