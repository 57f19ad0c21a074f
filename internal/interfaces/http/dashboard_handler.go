package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Semerokozlyat/drom-de/internal/application/analytics"
	"github.com/Semerokozlyat/drom-de/internal/application/dto"
)

// DashboardHandler portada del dashboard.
type DashboardHandler struct {
	uc *analytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *analytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Overview godoc
// @Summary      Tarjetas, ingresos y últimas facturas
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  dto.DashboardDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /dashboard [get]
func (h *DashboardHandler) Overview(c *fiber.Ctx) error {
	d, err := h.uc.GetDashboard(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(d)
}
