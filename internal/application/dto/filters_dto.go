package dto

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// PropertyFilters estado de filtros de la búsqueda de propiedades.
// Los selectores usan "any" como "sin filtro"; los rangos admiten extremos nulos.
type PropertyFilters struct {
	Location      string      `json:"location,omitempty"`
	Beds          string      `json:"beds,omitempty"`
	Baths         string      `json:"baths,omitempty"`
	PropertyType  string      `json:"propertyType,omitempty"`
	Amenities     []string    `json:"amenities,omitempty"`
	AvailableFrom string      `json:"availableFrom,omitempty"`
	PriceRange    [2]*float64 `json:"priceRange"`
	SquareFeet    [2]*float64 `json:"squareFeet"`
	Coordinates   *[2]float64 `json:"coordinates,omitempty"` // [longitud, latitud]
	FavoriteIDs   []int64     `json:"favoriteIds,omitempty"`
}

// DefaultFilters filtros iniciales de la vista de búsqueda.
func DefaultFilters() PropertyFilters {
	return PropertyFilters{
		Beds:          "any",
		Baths:         "any",
		PropertyType:  "any",
		AvailableFrom: "any",
	}
}

// Normalized devuelve los filtros con los textos recortados y en forma NFC, de modo
// que "Bogotá" escrito con tilde combinada comparta la entrada de caché.
func (f PropertyFilters) Normalized() PropertyFilters {
	out := f
	out.Location = norm.NFC.String(strings.TrimSpace(f.Location))
	if f.Amenities != nil {
		out.Amenities = make([]string, 0, len(f.Amenities))
		for _, a := range f.Amenities {
			if a = norm.NFC.String(strings.TrimSpace(a)); a != "" {
				out.Amenities = append(out.Amenities, a)
			}
		}
	}
	return out
}

// Params traduce los filtros a los parámetros de /properties (antes de limpiar).
func (f PropertyFilters) Params() map[string]any {
	m := map[string]any{
		"location":      f.Location,
		"priceMin":      f.PriceRange[0],
		"priceMax":      f.PriceRange[1],
		"beds":          f.Beds,
		"baths":         f.Baths,
		"propertyType":  f.PropertyType,
		"squareFeetMin": f.SquareFeet[0],
		"squareFeetMax": f.SquareFeet[1],
		"amenities":     strings.Join(f.Amenities, ","),
		"availableFrom": f.AvailableFrom,
		"favoriteIds":   joinIDs(f.FavoriteIDs),
	}
	if f.Coordinates != nil {
		m["latitude"] = f.Coordinates[1]
		m["longitude"] = f.Coordinates[0]
	}
	return m
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}
