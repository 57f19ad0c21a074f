package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Semerokozlyat/drom-de/internal/application/billing"
	"github.com/Semerokozlyat/drom-de/internal/application/dto"
)

// CustomerHandler maneja las peticiones HTTP de clientes (solo lectura).
type CustomerHandler struct {
	uc *billing.CustomerUseCase
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(uc *billing.CustomerUseCase) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

// List godoc
// @Summary      Tabla de clientes con totales
// @Tags         customers
// @Produce      json
// @Param        query  query  string  false  "filtra por nombre o email"
// @Success      200  {array}   dto.CustomerSummaryResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /dashboard/customers [get]
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.Filtered(c.Context(), c.Query("query"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(list)
}
