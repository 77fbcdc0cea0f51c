package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/rentals-web/internal/application/dto"
)

// UserHandler sesión y ajustes del usuario autenticado.
type UserHandler struct{}

// NewUserHandler construye el handler.
func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Me godoc
// @Summary      Usuario autenticado
// @Description  Devuelve identidad, perfil y rol. Si el perfil no existe en el backend se crea.
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  entity.User
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/me [get]
func (h *UserHandler) Me(c *fiber.Ctx) error {
	user, err := GetScope(c).Users.Me(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(user)
}

// UpdateSettings godoc
// @Summary      Actualizar ajustes propios
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateSettingsRequest  true  "Campos a cambiar"
// @Success      200   {object}  entity.Profile
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/settings [put]
func (h *UserHandler) UpdateSettings(c *fiber.Ctx) error {
	var in dto.UpdateSettingsRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	scope := GetScope(c)
	user, err := scope.Users.Me(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	out, err := scope.Users.UpdateSettings(c.UserContext(), user, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
