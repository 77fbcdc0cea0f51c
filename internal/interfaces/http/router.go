package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/rentals-web/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Clients *ClientRegistry
}

// Router registra las rutas del BFF. Todas requieren el Bearer id token del usuario.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(), ScopeMiddleware(deps.Clients))

	userHandler := NewUserHandler()
	api.Get("/me", userHandler.Me)
	api.Put("/settings", userHandler.UpdateSettings)

	// Listings
	listings := api.Group("/listings")
	listingHandler := NewListingHandler()
	listings.Get("/", listingHandler.List)
	listings.Get("/:id", listingHandler.Get)
	listings.Post("/:id/favorite", RequireRole(entity.RoleTenant), listingHandler.ToggleFavorite)

	// Tenants
	tenants := api.Group("/tenants", RequireRole(entity.RoleTenant))
	tenantHandler := NewTenantHandler()
	tenants.Get("/favorites", tenantHandler.Favorites)
	tenants.Get("/residences", tenantHandler.Residences)

	// Managers
	managers := api.Group("/managers", RequireRole(entity.RoleManager))
	managerHandler := NewManagerHandler()
	managers.Get("/properties", managerHandler.Properties)
	managers.Post("/properties", managerHandler.CreateProperty)

	// Leases y pagos
	leaseHandler := NewLeaseHandler()
	api.Get("/leases", leaseHandler.List)
	api.Get("/leases/:id/payments", leaseHandler.Payments)
	api.Get("/properties/:id/leases", leaseHandler.PropertyLeases)
}
