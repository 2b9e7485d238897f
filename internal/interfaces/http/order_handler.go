package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/distribuidora-api/internal/application/dto"
	"github.com/jhoicas/distribuidora-api/internal/application/sales"
	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/distribuidora-api/internal/domain/repository"
)

// OrderHandler maneja las ventas y su ciclo de despacho (protegido).
type OrderHandler struct {
	uc *sales.OrderUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *sales.OrderUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar venta en borrador
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "customer_id, lines[]"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	lines := make([]sales.LineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, sales.LineInput{
			ProductID:      l.ProductID,
			Quantity:       l.Quantity,
			UnitPrice:      l.UnitPrice,
			DiscountPct:    l.DiscountPct,
			DiscountAmount: l.DiscountAmount,
		})
	}
	order, err := h.uc.Create(c.UserContext(), sales.CreateOrderInput{
		CustomerID:          in.CustomerID,
		SalespersonID:       GetUserID(c),
		DocumentType:        entity.DocumentType(in.DocumentType),
		PaymentType:         entity.PaymentType(in.PaymentType),
		RequestedDeliveryAt: in.RequestedDeliveryAt,
		DeliveryAddress:     in.DeliveryAddress,
		DeliveryReference:   in.DeliveryReference,
		Notes:               in.Notes,
		Discount:            in.Discount,
		Lines:               lines,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toOrderResponse(order))
}

// Update PATCH /api/orders/:id (sólo borrador)
func (h *OrderHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	patch := sales.OrderPatch{
		DeliveryAddress:     in.DeliveryAddress,
		DeliveryReference:   in.DeliveryReference,
		Notes:               in.Notes,
		RequestedDeliveryAt: in.RequestedDeliveryAt,
	}
	if in.PaymentType != nil {
		pt := entity.PaymentType(*in.PaymentType)
		patch.PaymentType = &pt
	}
	if in.DocumentType != nil {
		dt := entity.DocumentType(*in.DocumentType)
		patch.DocumentType = &dt
	}
	order, err := h.uc.UpdateDraft(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toOrderResponse(order))
}

// warehouseBody lee el body opcional {warehouse_id}. Un body vacío es válido.
func warehouseBody(c *fiber.Ctx) (string, error) {
	var in dto.WarehouseRequest
	if len(c.Body()) == 0 {
		return "", nil
	}
	if err := c.BodyParser(&in); err != nil {
		return "", err
	}
	return in.WarehouseID, nil
}

// Confirm godoc
// @Summary      Confirmar venta (reserva stock, todo o nada)
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true   "ID de la venta"
// @Param        body  body  dto.WarehouseRequest   false  "almacén de reserva"
// @Success      200   {object}  dto.OrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/confirm [post]
func (h *OrderHandler) Confirm(c *fiber.Ctx) error {
	wh, err := warehouseBody(c)
	if err != nil {
		return invalidBody(c)
	}
	order, err := h.uc.Confirm(c.UserContext(), c.Params("id"), wh)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toOrderResponse(order))
}

// Prepare POST /api/orders/:id/prepare
func (h *OrderHandler) Prepare(c *fiber.Ctx) error {
	order, err := h.uc.Prepare(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toOrderResponse(order))
}

// Ready POST /api/orders/:id/ready
// Descuenta del almacén las cantidades reservadas (salida_venta).
func (h *OrderHandler) Ready(c *fiber.Ctx) error {
	wh, err := warehouseBody(c)
	if err != nil {
		return invalidBody(c)
	}
	order, err := h.uc.MarkReadyToShip(c.UserContext(), c.Params("id"), wh, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toOrderResponse(order))
}

// Cancel POST /api/orders/:id/cancel
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	wh, err := warehouseBody(c)
	if err != nil {
		return invalidBody(c)
	}
	order, err := h.uc.Cancel(c.UserContext(), c.Params("id"), wh)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toOrderResponse(order))
}

// RegisterPayment POST /api/orders/:id/payments
func (h *OrderHandler) RegisterPayment(c *fiber.Ctx) error {
	var in dto.PaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	p, err := h.uc.RegisterPayment(c.UserContext(), c.Params("id"), sales.PaymentInput{
		Amount:    in.Amount,
		Method:    entity.PaymentType(in.Method),
		Reference: in.Reference,
		ActorID:   GetUserID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPaymentResponse(p))
}

// ListPayments GET /api/orders/:id/payments
func (h *OrderHandler) ListPayments(c *fiber.Ctx) error {
	list, err := h.uc.ListPayments(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.PaymentResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toPaymentResponse(p))
	}
	return c.JSON(out)
}

// GetByID GET /api/orders/:id
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toOrderResponse(order))
}

// GetByNumber GET /api/orders/number/:number
func (h *OrderHandler) GetByNumber(c *fiber.Ctx) error {
	order, err := h.uc.GetByNumber(c.UserContext(), c.Params("number"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toOrderResponse(order))
}

// List GET /api/orders?status=&customer_id=&from=&to=&limit=&offset=
func (h *OrderHandler) List(c *fiber.Ctx) error {
	from, err := queryTime(c, "from")
	if err != nil {
		return validationError(c, "from inválido")
	}
	to, err := queryTime(c, "to")
	if err != nil {
		return validationError(c, "to inválido")
	}
	page := pageParams(c)
	list, err := h.uc.List(c.UserContext(), repository.OrderFilter{
		Status:     entity.OrderStatus(c.Query("status")),
		CustomerID: c.Query("customer_id"),
		From:       from,
		To:         to,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, toOrderResponse(o))
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Resumen de ventas del período
// @Description  Por defecto desde el inicio del mes en curso hasta ahora. Excluye ventas canceladas de los importes.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "YYYY-MM-DD o RFC3339"
// @Param        to    query  string  false  "YYYY-MM-DD o RFC3339"
// @Success      200   {object}  dto.SalesSummaryResponse
// @Router       /api/orders/summary [get]
func (h *OrderHandler) Summary(c *fiber.Ctx) error {
	from, err := queryTime(c, "from")
	if err != nil {
		return validationError(c, "from inválido")
	}
	to, err := queryTime(c, "to")
	if err != nil {
		return validationError(c, "to inválido")
	}
	now := time.Now()
	if from == nil {
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		from = &start
	}
	if to == nil {
		to = &now
	}
	if to.Before(*from) {
		return validationError(c, "to debe ser posterior a from")
	}
	s, err := h.uc.Summary(c.UserContext(), *from, *to)
	if err != nil {
		return writeError(c, err)
	}
	byStatus := make(map[string]int, len(s.ByStatus))
	for st, n := range s.ByStatus {
		byStatus[string(st)] = n
	}
	return c.JSON(dto.SalesSummaryResponse{
		From:     *from,
		To:       *to,
		Total:    s.Total,
		Count:    s.Count,
		Average:  s.Average,
		ByStatus: byStatus,
	})
}

// OverdueCredit godoc
// @Summary      Clientes con crédito vencido
// @Description  Ventas vigentes con vencimiento de pago pasado y saldo pendiente, agrupadas por cliente.
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Success      200   {array}   dto.OverdueCreditResponse
// @Router       /api/customers/overdue-credit [get]
func (h *OrderHandler) OverdueCredit(c *fiber.Ctx) error {
	list, err := h.uc.OverdueCredit(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toOverdueCreditList(list))
}
