package http

import (
	"github.com/gofiber/fiber/v2"
)

// LeaseHandler contratos y pagos.
type LeaseHandler struct{}

// NewLeaseHandler construye el handler.
func NewLeaseHandler() *LeaseHandler {
	return &LeaseHandler{}
}

// List godoc
// @Summary      Contratos
// @Tags         leases
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  entity.Lease
// @Router       /api/leases [get]
func (h *LeaseHandler) List(c *fiber.Ctx) error {
	out, err := GetScope(c).Leases.Leases(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PropertyLeases godoc
// @Summary      Contratos de una propiedad
// @Tags         leases
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la propiedad"
// @Success      200  {array}  entity.Lease
// @Router       /api/properties/{id}/leases [get]
func (h *LeaseHandler) PropertyLeases(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badRequest(c, "INVALID_ID", "id debe ser numérico")
	}
	out, err := GetScope(c).Leases.PropertyLeases(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Payments godoc
// @Summary      Pagos de un contrato
// @Tags         leases
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del contrato"
// @Success      200  {object}  dto.LeasePaymentsView
// @Router       /api/leases/{id}/payments [get]
func (h *LeaseHandler) Payments(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badRequest(c, "INVALID_ID", "id debe ser numérico")
	}
	out, err := GetScope(c).Leases.Payments(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
