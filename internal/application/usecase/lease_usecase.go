package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/rentals-web/internal/application/api"
	"github.com/jhoicas/rentals-web/internal/application/dto"
	"github.com/jhoicas/rentals-web/internal/domain/entity"
)

// LeaseUseCase contratos y pagos.
type LeaseUseCase struct {
	client *api.Client
}

// NewLeaseUseCase construye el caso de uso.
func NewLeaseUseCase(client *api.Client) *LeaseUseCase {
	return &LeaseUseCase{client: client}
}

// Leases contratos visibles para el usuario.
func (uc *LeaseUseCase) Leases(ctx context.Context) ([]entity.Lease, error) {
	return uc.client.GetLeases.Query(ctx, api.NoArg{})
}

// PropertyLeases contratos de una propiedad.
func (uc *LeaseUseCase) PropertyLeases(ctx context.Context, propertyID int64) ([]entity.Lease, error) {
	return uc.client.GetPropertyLeases.Query(ctx, propertyID)
}

// Payments pagos de un contrato con los totales adeudado, pagado y pendiente.
func (uc *LeaseUseCase) Payments(ctx context.Context, leaseID int64) (*dto.LeasePaymentsView, error) {
	payments, err := uc.client.GetPayments.Query(ctx, leaseID)
	if err != nil {
		return nil, err
	}
	view := &dto.LeasePaymentsView{
		LeaseID:     leaseID,
		Payments:    payments,
		TotalDue:    decimal.Zero,
		TotalPaid:   decimal.Zero,
		Outstanding: decimal.Zero,
	}
	if view.Payments == nil {
		view.Payments = []entity.Payment{}
	}
	for _, p := range payments {
		view.TotalDue = view.TotalDue.Add(p.AmountDue)
		view.TotalPaid = view.TotalPaid.Add(p.AmountPaid)
		view.Outstanding = view.Outstanding.Add(p.Balance())
	}
	return view, nil
}
