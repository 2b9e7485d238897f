package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/distribuidora-api/internal/application/dto"
	"github.com/jhoicas/distribuidora-api/internal/application/logistics"
)

// DashboardHandler maneja el tablero de logística.
type DashboardHandler struct {
	uc *logistics.LogisticsUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *logistics.LogisticsUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetLogistics devuelve los envíos del día por estado y la flota disponible.
// GET /api/logistics/dashboard
//
// No requiere parámetros; el día se calcula en el servidor.
func (h *DashboardHandler) GetLogistics(c *fiber.Ctx) error {
	d, err := h.uc.Dashboard(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	byStatus := make(map[string]int, len(d.ShipmentsByStatus))
	for st, n := range d.ShipmentsByStatus {
		byStatus[string(st)] = n
	}
	return c.JSON(dto.LogisticsDashboardResponse{
		Date:              d.Date.Format("2006-01-02"),
		ShipmentsTotal:    d.ShipmentsTotal,
		ShipmentsByStatus: byStatus,
		VehiclesAvailable: d.VehiclesAvailable,
		DriversAvailable:  d.DriversAvailable,
	})
}
