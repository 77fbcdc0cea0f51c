package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lease contrato de arriendo entre un inquilino y una propiedad.
type Lease struct {
	ID              int64           `json:"id"`
	StartDate       time.Time       `json:"startDate"`
	EndDate         time.Time       `json:"endDate"`
	Rent            decimal.Decimal `json:"rent"`
	Deposit         decimal.Decimal `json:"deposit"`
	PropertyID      int64           `json:"propertyId"`
	TenantCognitoID string          `json:"tenantCognitoId"`
	Property        *Property       `json:"property,omitempty"`
	Tenant          *Profile        `json:"tenant,omitempty"`
	Payments        []Payment       `json:"payments,omitempty"`
}
