package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/rentals-web/internal/application/dto"
)

// LocalScope key del Scope del usuario en Fiber.
const LocalScope = "scope"

// ScopeMiddleware resuelve el Scope del id token recibido. Debe usarse DESPUÉS de AuthMiddleware.
func ScopeMiddleware(registry *ClientRegistry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "INVALID_TOKEN",
				Message: "user_id no encontrado en el token",
			})
		}
		c.Locals(LocalScope, registry.Scope(userID, GetIDToken(c)))
		return c.Next()
	}
}

// GetScope devuelve el Scope del contexto (después de ScopeMiddleware).
func GetScope(c *fiber.Ctx) *Scope {
	s, _ := c.Locals(LocalScope).(*Scope)
	return s
}
