package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de pago.
const (
	PaymentPending       = "Pending"
	PaymentPaid          = "Paid"
	PaymentPartiallyPaid = "PartiallyPaid"
	PaymentOverdue       = "Overdue"
)

// Payment pago asociado a un Lease.
type Payment struct {
	ID            int64           `json:"id"`
	AmountDue     decimal.Decimal `json:"amountDue"`
	AmountPaid    decimal.Decimal `json:"amountPaid"`
	DueDate       time.Time       `json:"dueDate"`
	PaymentDate   *time.Time      `json:"paymentDate,omitempty"`
	PaymentStatus string          `json:"paymentStatus"`
	LeaseID       int64           `json:"leaseId"`
}

// Balance devuelve lo pendiente por pagar (nunca negativo).
func (p Payment) Balance() decimal.Decimal {
	b := p.AmountDue.Sub(p.AmountPaid)
	if b.IsNegative() {
		return decimal.Zero
	}
	return b
}
