package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/rentals-web/internal/domain/entity"
)

// Modos de visualización del listado.
const (
	ViewModeGrid = "grid"
	ViewModeList = "list"
)

// PropertyCard tarjeta de propiedad tal como la consume la vista.
type PropertyCard struct {
	Property           entity.Property `json:"property"`
	IsFavorite         bool            `json:"isFavorite"`
	ShowFavoriteButton bool            `json:"showFavoriteButton"`
	PropertyLink       string          `json:"propertyLink"`
	Compact            bool            `json:"compact"`
}

// ListingsView resultado de la búsqueda ("N places in <location>").
type ListingsView struct {
	Count    int            `json:"count"`
	Location string         `json:"location"`
	ViewMode string         `json:"viewMode"`
	Items    []PropertyCard `json:"items"`
}

// FavoriteToggleResponse estado tras alternar un favorito.
type FavoriteToggleResponse struct {
	PropertyID int64 `json:"propertyId"`
	IsFavorite bool  `json:"isFavorite"`
}

// ManagerPropertiesView página "My Properties" del manager.
type ManagerPropertiesView struct {
	Title    string         `json:"title"`
	Subtitle string         `json:"subtitle"`
	Items    []PropertyCard `json:"items"`
	Empty    bool           `json:"empty"`
}

// LeasePaymentsView pagos de un contrato con totales.
type LeasePaymentsView struct {
	LeaseID     int64            `json:"leaseId"`
	Payments    []entity.Payment `json:"payments"`
	TotalDue    decimal.Decimal  `json:"totalDue"`
	TotalPaid   decimal.Decimal  `json:"totalPaid"`
	Outstanding decimal.Decimal  `json:"outstanding"`
}
