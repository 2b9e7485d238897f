package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/distribuidora-api/internal/application/dto"
	"github.com/jhoicas/distribuidora-api/internal/application/logistics"
	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/distribuidora-api/internal/domain/repository"
)

// ShipmentHandler maneja los envíos (protegido).
type ShipmentHandler struct {
	uc *logistics.LogisticsUseCase
}

// NewShipmentHandler construye el handler.
func NewShipmentHandler(uc *logistics.LogisticsUseCase) *ShipmentHandler {
	return &ShipmentHandler{uc: uc}
}

// CreateForOrder godoc
// @Summary      Crear envío para una venta lista para envío
// @Tags         shipments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        orderId  path  string                     true   "ID de la venta"
// @Param        body     body  dto.CreateShipmentRequest  false  "scheduled_at"
// @Success      201      {object}  dto.ShipmentResponse
// @Failure      409      {object}  dto.ErrorResponse
// @Failure      422      {object}  dto.ErrorResponse
// @Router       /api/shipments/order/{orderId} [post]
func (h *ShipmentHandler) CreateForOrder(c *fiber.Ctx) error {
	var in dto.CreateShipmentRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	s, err := h.uc.CreateForOrder(c.UserContext(), c.Params("orderId"), in.ScheduledAt)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toShipmentResponse(s))
}

// Assign POST /api/shipments/:id/assign
func (h *ShipmentHandler) Assign(c *fiber.Ctx) error {
	var in dto.AssignShipmentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.VehicleID == "" || in.DriverID == "" {
		return validationError(c, "vehicle_id y driver_id son requeridos")
	}
	s, err := h.uc.Assign(c.UserContext(), c.Params("id"), logistics.AssignInput{
		VehicleID: in.VehicleID,
		DriverID:  in.DriverID,
		RouteID:   in.RouteID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toShipmentResponse(s))
}

// Start POST /api/shipments/:id/start
func (h *ShipmentHandler) Start(c *fiber.Ctx) error {
	s, err := h.uc.Start(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toShipmentResponse(s))
}

// Complete godoc
// @Summary      Registrar entrega con conformidad
// @Tags         shipments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID del envío"
// @Param        body  body  dto.CompleteShipmentRequest  true  "recipient_name, recipient_document, signed, lat/lng"
// @Success      200   {object}  dto.ShipmentResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/shipments/{id}/complete [post]
func (h *ShipmentHandler) Complete(c *fiber.Ctx) error {
	var in dto.CompleteShipmentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	signed := true
	if in.Signed != nil {
		signed = *in.Signed
	}
	s, err := h.uc.Complete(c.UserContext(), c.Params("id"), logistics.ProofOfDelivery{
		RecipientName:     in.RecipientName,
		RecipientDocument: in.RecipientDocument,
		Signed:            signed,
		Latitude:          in.Latitude,
		Longitude:         in.Longitude,
		Notes:             in.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toShipmentResponse(s))
}

// Fail POST /api/shipments/:id/fail
func (h *ShipmentHandler) Fail(c *fiber.Ctx) error {
	var in dto.FailShipmentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if strings.TrimSpace(in.Reason) == "" {
		return validationError(c, "reason es requerido")
	}
	reschedule := true
	if in.Reschedule != nil {
		reschedule = *in.Reschedule
	}
	s, err := h.uc.Fail(c.UserContext(), c.Params("id"), in.Reason, reschedule)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toShipmentResponse(s))
}

// Reschedule POST /api/shipments/:id/reschedule
func (h *ShipmentHandler) Reschedule(c *fiber.Ctx) error {
	var in dto.RescheduleShipmentRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	s, err := h.uc.Reschedule(c.UserContext(), c.Params("id"), in.ScheduledAt)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toShipmentResponse(s))
}

// GetByID GET /api/shipments/:id
func (h *ShipmentHandler) GetByID(c *fiber.Ctx) error {
	s, err := h.uc.GetShipment(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toShipmentResponse(s))
}

// List GET /api/shipments?status=pendiente,asignado&route_id=&vehicle_id=&driver_id=&from=&to=
func (h *ShipmentHandler) List(c *fiber.Ctx) error {
	from, err := queryTime(c, "from")
	if err != nil {
		return validationError(c, "from inválido")
	}
	to, err := queryTime(c, "to")
	if err != nil {
		return validationError(c, "to inválido")
	}
	var statuses []entity.ShipmentStatus
	for _, st := range strings.Split(c.Query("status"), ",") {
		if st = strings.TrimSpace(st); st != "" {
			statuses = append(statuses, entity.ShipmentStatus(st))
		}
	}
	page := pageParams(c)
	list, err := h.uc.ListShipments(c.UserContext(), repository.ShipmentFilter{
		Statuses:      statuses,
		RouteID:       c.Query("route_id"),
		VehicleID:     c.Query("vehicle_id"),
		DriverID:      c.Query("driver_id"),
		ScheduledFrom: from,
		ScheduledTo:   to,
		Limit:         page.Limit,
		Offset:        page.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toShipmentList(list))
}

// PendingToday GET /api/shipments/pending-today
func (h *ShipmentHandler) PendingToday(c *fiber.Ctx) error {
	list, err := h.uc.PendingToday(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toShipmentList(list))
}

// DespatchAdvice GET /api/shipments/:id/despatch.xml
// Guía de remisión UBL con el digest del documento canónico.
func (h *ShipmentHandler) DespatchAdvice(c *fiber.Ctx) error {
	xml, err := h.uc.DespatchAdviceXML(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	return c.Send(xml)
}
