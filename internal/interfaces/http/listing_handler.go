package http

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/rentals-web/internal/application/dto"
)

// ListingHandler búsqueda y detalle de propiedades.
type ListingHandler struct{}

// NewListingHandler construye el handler.
func NewListingHandler() *ListingHandler {
	return &ListingHandler{}
}

// List godoc
// @Summary      Buscar propiedades
// @Tags         listings
// @Security     Bearer
// @Produce      json
// @Param        location       query  string  false  "Ubicación"
// @Param        beds           query  string  false  "Habitaciones"  default(any)
// @Param        baths          query  string  false  "Baños"         default(any)
// @Param        propertyType   query  string  false  "Tipo"          default(any)
// @Param        amenities      query  string  false  "Separadas por coma"
// @Param        availableFrom  query  string  false  "Fecha"         default(any)
// @Param        priceMin       query  number  false  "Precio mínimo"
// @Param        priceMax       query  number  false  "Precio máximo"
// @Param        squareFeetMin  query  number  false  "Área mínima"
// @Param        squareFeetMax  query  number  false  "Área máxima"
// @Param        latitude       query  number  false  "Latitud"
// @Param        longitude      query  number  false  "Longitud"
// @Param        viewMode       query  string  false  "grid | list"  default(grid)
// @Success      200  {object}  dto.ListingsView
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/listings [get]
func (h *ListingHandler) List(c *fiber.Ctx) error {
	filters, err := parseFilters(c)
	if err != nil {
		return badRequest(c, "INVALID_FILTER", err.Error())
	}
	scope := GetScope(c)
	user, err := scope.Users.Me(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	out, err := scope.Listings.List(c.UserContext(), user, filters, c.Query("viewMode", dto.ViewModeGrid))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Detalle de propiedad
// @Tags         listings
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la propiedad"
// @Success      200  {object}  entity.Property
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/listings/{id} [get]
func (h *ListingHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badRequest(c, "INVALID_ID", "id debe ser numérico")
	}
	out, err := GetScope(c).Listings.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ToggleFavorite godoc
// @Summary      Alternar favorito
// @Tags         listings
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la propiedad"
// @Success      200  {object}  dto.FavoriteToggleResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/listings/{id}/favorite [post]
func (h *ListingHandler) ToggleFavorite(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badRequest(c, "INVALID_ID", "id debe ser numérico")
	}
	scope := GetScope(c)
	user, err := scope.Users.Me(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	out, err := scope.Listings.ToggleFavorite(c.UserContext(), user, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func paramID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}

// parseFilters lee los filtros de la query string; lo ausente queda como "sin filtro".
func parseFilters(c *fiber.Ctx) (dto.PropertyFilters, error) {
	f := dto.DefaultFilters()
	f.Location = c.Query("location")
	f.Beds = c.Query("beds", f.Beds)
	f.Baths = c.Query("baths", f.Baths)
	f.PropertyType = c.Query("propertyType", f.PropertyType)
	f.AvailableFrom = c.Query("availableFrom", f.AvailableFrom)
	if raw := c.Query("amenities"); raw != "" {
		f.Amenities = strings.Split(raw, ",")
	}

	var err error
	if f.PriceRange[0], err = queryFloat(c, "priceMin"); err != nil {
		return f, err
	}
	if f.PriceRange[1], err = queryFloat(c, "priceMax"); err != nil {
		return f, err
	}
	if f.SquareFeet[0], err = queryFloat(c, "squareFeetMin"); err != nil {
		return f, err
	}
	if f.SquareFeet[1], err = queryFloat(c, "squareFeetMax"); err != nil {
		return f, err
	}
	lat, err := queryFloat(c, "latitude")
	if err != nil {
		return f, err
	}
	lng, err := queryFloat(c, "longitude")
	if err != nil {
		return f, err
	}
	if lat != nil && lng != nil {
		f.Coordinates = &[2]float64{*lng, *lat}
	}
	return f, nil
}

func queryFloat(c *fiber.Ctx, key string) (*float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: valor numérico inválido", key)
	}
	return &v, nil
}
