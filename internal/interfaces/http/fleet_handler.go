package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/distribuidora-api/internal/application/dto"
	"github.com/jhoicas/distribuidora-api/internal/application/usecase"
)

// FleetHandler expone vehículos, conductores y zonas de reparto.
type FleetHandler struct {
	uc *usecase.FleetUseCase
}

// NewFleetHandler construye el handler.
func NewFleetHandler(uc *usecase.FleetUseCase) *FleetHandler {
	return &FleetHandler{uc: uc}
}

// ── Vehículos ────────────────────────────────────────────────────────────────

// CreateVehicle POST /api/vehicles
func (h *FleetHandler) CreateVehicle(c *fiber.Ctx) error {
	var in dto.CreateVehicleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateVehicle(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetVehicle GET /api/vehicles/:id
func (h *FleetHandler) GetVehicle(c *fiber.Ctx) error {
	out, err := h.uc.GetVehicle(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateVehicle PATCH /api/vehicles/:id
func (h *FleetHandler) UpdateVehicle(c *fiber.Ctx) error {
	var in dto.UpdateVehicleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateVehicle(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListVehicles GET /api/vehicles?available=true
func (h *FleetHandler) ListVehicles(c *fiber.Ctx) error {
	out, err := h.uc.ListVehicles(c.UserContext(), queryBool(c, "available"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ── Conductores ──────────────────────────────────────────────────────────────

// CreateDriver POST /api/drivers
func (h *FleetHandler) CreateDriver(c *fiber.Ctx) error {
	var in dto.CreateDriverRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateDriver(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetDriver GET /api/drivers/:id
func (h *FleetHandler) GetDriver(c *fiber.Ctx) error {
	out, err := h.uc.GetDriver(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateDriver PATCH /api/drivers/:id
func (h *FleetHandler) UpdateDriver(c *fiber.Ctx) error {
	var in dto.UpdateDriverRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateDriver(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListDrivers GET /api/drivers?available=true
func (h *FleetHandler) ListDrivers(c *fiber.Ctx) error {
	out, err := h.uc.ListDrivers(c.UserContext(), queryBool(c, "available"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ── Zonas ────────────────────────────────────────────────────────────────────

// CreateZone POST /api/zones
func (h *FleetHandler) CreateZone(c *fiber.Ctx) error {
	var in dto.CreateZoneRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateZone(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *FleetHandler) GetZone(c *fiber.Ctx) error {
	out, err := h.uc.GetZone(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *FleetHandler) UpdateZone(c *fiber.Ctx) error {
	var in dto.UpdateZoneRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateZone(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *FleetHandler) ListZones(c *fiber.Ctx) error {
	out, err := h.uc.ListZones(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
