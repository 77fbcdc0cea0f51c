package dto

import (
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/rentals-web/internal/application/ports"
)

// PhotoUpload foto adjunta a una nueva propiedad.
type PhotoUpload struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Content     []byte `json:"-"`
}

// CreatePropertyRequest formulario de alta de propiedad (se envía como multipart).
type CreatePropertyRequest struct {
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	PricePerMonth     decimal.Decimal `json:"pricePerMonth"`
	SecurityDeposit   decimal.Decimal `json:"securityDeposit"`
	ApplicationFee    decimal.Decimal `json:"applicationFee"`
	IsPetsAllowed     bool            `json:"isPetsAllowed"`
	IsParkingIncluded bool            `json:"isParkingIncluded"`
	Amenities         []string        `json:"amenities"`
	Highlights        []string        `json:"highlights"`
	Beds              int             `json:"beds"`
	Baths             float64         `json:"baths"`
	SquareFeet        int             `json:"squareFeet"`
	PropertyType      string          `json:"propertyType"`
	Address           string          `json:"address"`
	City              string          `json:"city"`
	State             string          `json:"state"`
	Country           string          `json:"country"`
	PostalCode        string          `json:"postalCode"`
	ManagerCognitoID  string          `json:"managerCognitoId"`
	Photos            []PhotoUpload   `json:"photos"`
}

// Multipart arma el formulario: escalares como texto, listas como JSON y cada foto en "photos".
func (r CreatePropertyRequest) Multipart() (*ports.Multipart, error) {
	form := &ports.Multipart{}
	form.Add("name", r.Name)
	form.Add("description", r.Description)
	form.Add("pricePerMonth", r.PricePerMonth.String())
	form.Add("securityDeposit", r.SecurityDeposit.String())
	form.Add("applicationFee", r.ApplicationFee.String())
	form.Add("isPetsAllowed", strconv.FormatBool(r.IsPetsAllowed))
	form.Add("isParkingIncluded", strconv.FormatBool(r.IsParkingIncluded))
	form.Add("beds", strconv.Itoa(r.Beds))
	form.Add("baths", strconv.FormatFloat(r.Baths, 'f', -1, 64))
	form.Add("squareFeet", strconv.Itoa(r.SquareFeet))
	form.Add("propertyType", r.PropertyType)
	form.Add("address", r.Address)
	form.Add("city", r.City)
	form.Add("state", r.State)
	form.Add("country", r.Country)
	form.Add("postalCode", r.PostalCode)
	form.Add("managerCognitoId", r.ManagerCognitoID)
	for field, list := range map[string][]string{"amenities": r.Amenities, "highlights": r.Highlights} {
		if list == nil {
			list = []string{}
		}
		b, err := json.Marshal(list)
		if err != nil {
			return nil, err
		}
		form.Add(field, string(b))
	}
	for _, p := range r.Photos {
		form.Files = append(form.Files, ports.FilePart{
			Field:       "photos",
			Filename:    p.Filename,
			ContentType: p.ContentType,
			Content:     p.Content,
		})
	}
	return form, nil
}
