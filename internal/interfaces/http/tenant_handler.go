package http

import (
	"github.com/gofiber/fiber/v2"
)

// TenantHandler vistas del inquilino.
type TenantHandler struct{}

// NewTenantHandler construye el handler.
func NewTenantHandler() *TenantHandler {
	return &TenantHandler{}
}

// Favorites godoc
// @Summary      Favoritos del inquilino
// @Tags         tenants
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ListingsView
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/tenants/favorites [get]
func (h *TenantHandler) Favorites(c *fiber.Ctx) error {
	scope := GetScope(c)
	user, err := scope.Users.Me(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	out, err := scope.Tenants.Favorites(c.UserContext(), user)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Residences godoc
// @Summary      Residencias actuales del inquilino
// @Tags         tenants
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ListingsView
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/tenants/residences [get]
func (h *TenantHandler) Residences(c *fiber.Ctx) error {
	scope := GetScope(c)
	user, err := scope.Users.Me(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	out, err := scope.Tenants.Residences(c.UserContext(), user)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
