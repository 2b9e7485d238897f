package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/distribuidora-api/internal/application/dto"
	"github.com/jhoicas/distribuidora-api/internal/application/logistics"
)

// RouteHandler maneja las rutas de reparto (protegido).
type RouteHandler struct {
	uc *logistics.LogisticsUseCase
}

// NewRouteHandler construye el handler.
func NewRouteHandler(uc *logistics.LogisticsUseCase) *RouteHandler {
	return &RouteHandler{uc: uc}
}

// Create godoc
// @Summary      Crear ruta de reparto
// @Description  Bloquea vehículo y conductor hasta completar la ruta. Los envíos se asignan en el orden recibido.
// @Tags         routes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRouteRequest  true  "name, vehicle_id, driver_id, shipment_ids"
// @Success      201   {object}  dto.RouteResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/routes [post]
func (h *RouteHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRouteRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	date := time.Now()
	if in.Date != nil {
		date = *in.Date
	}
	r, err := h.uc.CreateRoute(c.UserContext(), logistics.CreateRouteInput{
		Name:        in.Name,
		Date:        date,
		ZoneID:      in.ZoneID,
		VehicleID:   in.VehicleID,
		DriverID:    in.DriverID,
		ShipmentIDs: in.ShipmentIDs,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toRouteResponse(r))
}

// Complete POST /api/routes/:id/complete
func (h *RouteHandler) Complete(c *fiber.Ctx) error {
	var in dto.CompleteRouteRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	if in.DistanceKm < 0 {
		return validationError(c, "distance_km no puede ser negativo")
	}
	r, err := h.uc.CompleteRoute(c.UserContext(), c.Params("id"), in.DistanceKm)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toRouteResponse(r))
}

// GetByID GET /api/routes/:id
func (h *RouteHandler) GetByID(c *fiber.Ctx) error {
	r, err := h.uc.GetRoute(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toRouteResponse(r))
}

// Manifest GET /api/routes/:id/manifest.pdf
func (h *RouteHandler) Manifest(c *fiber.Ctx) error {
	pdf, err := h.uc.RouteManifestPDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="hoja-de-ruta-`+c.Params("id")+`.pdf"`)
	return c.Send(pdf)
}
