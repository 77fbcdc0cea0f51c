package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de propiedad aceptados por el backend.
const (
	PropertyTypeRooms     = "Rooms"
	PropertyTypeTinyhouse = "Tinyhouse"
	PropertyTypeApartment = "Apartment"
	PropertyTypeVilla     = "Villa"
	PropertyTypeTownhouse = "Townhouse"
	PropertyTypeCottage   = "Cottage"
)

// Coordinates longitud/latitud de una ubicación.
type Coordinates struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// Location dirección física de una propiedad.
type Location struct {
	ID          int64       `json:"id"`
	Address     string      `json:"address"`
	City        string      `json:"city"`
	State       string      `json:"state"`
	Country     string      `json:"country"`
	PostalCode  string      `json:"postalCode"`
	Coordinates Coordinates `json:"coordinates"`
}

// Property anuncio de alquiler.
type Property struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	PricePerMonth     decimal.Decimal `json:"pricePerMonth"`
	SecurityDeposit   decimal.Decimal `json:"securityDeposit"`
	ApplicationFee    decimal.Decimal `json:"applicationFee"`
	PhotoURLs         []string        `json:"photoUrls"`
	Amenities         []string        `json:"amenities"`
	Highlights        []string        `json:"highlights"`
	IsPetsAllowed     bool            `json:"isPetsAllowed"`
	IsParkingIncluded bool            `json:"isParkingIncluded"`
	Beds              int             `json:"beds"`
	Baths             float64         `json:"baths"`
	SquareFeet        int             `json:"squareFeet"`
	PropertyType      string          `json:"propertyType"`
	PostedDate        time.Time       `json:"postedDate"`
	AverageRating     float64         `json:"averageRating"`
	NumberOfReviews   int             `json:"numberOfReviews"`
	LocationID        int64           `json:"locationId"`
	ManagerCognitoID  string          `json:"managerCognitoId"`
	Location          *Location       `json:"location,omitempty"`
	Manager           *Profile        `json:"manager,omitempty"`
}
