package usecase

import (
	"context"
	"strconv"

	"github.com/jhoicas/rentals-web/internal/application/api"
	"github.com/jhoicas/rentals-web/internal/application/dto"
	"github.com/jhoicas/rentals-web/internal/domain/entity"
)

// TenantUseCase vistas propias del inquilino.
type TenantUseCase struct {
	client *api.Client
}

// NewTenantUseCase construye el caso de uso.
func NewTenantUseCase(client *api.Client) *TenantUseCase {
	return &TenantUseCase{client: client}
}

// Favorites propiedades favoritas del inquilino.
func (uc *TenantUseCase) Favorites(ctx context.Context, user *entity.User) (*dto.ListingsView, error) {
	if err := requireRole(user, entity.RoleTenant); err != nil {
		return nil, err
	}
	tenant, err := uc.client.GetTenant.Query(ctx, user.CognitoInfo.UserID)
	if err != nil {
		return nil, err
	}
	view := &dto.ListingsView{ViewMode: dto.ViewModeGrid, Items: []dto.PropertyCard{}}
	ids := tenant.FavoriteIDs()
	if len(ids) == 0 {
		return view, nil
	}

	filters := dto.PropertyFilters{FavoriteIDs: ids}
	props, err := uc.client.GetProperties.Query(ctx, filters)
	if err != nil {
		return nil, err
	}
	view.Count = len(props)
	view.Items = toCards(props, SearchLink, tenant.HasFavorite, true, false)
	return view, nil
}

// Residences propiedades donde el inquilino tiene un contrato vigente.
func (uc *TenantUseCase) Residences(ctx context.Context, user *entity.User) (*dto.ListingsView, error) {
	if err := requireRole(user, entity.RoleTenant); err != nil {
		return nil, err
	}
	props, err := uc.client.GetCurrentResidences.Query(ctx, user.CognitoInfo.UserID)
	if err != nil {
		return nil, err
	}
	return &dto.ListingsView{
		Count:    len(props),
		ViewMode: dto.ViewModeGrid,
		Items:    toCards(props, residenceLink, nil, false, false),
	}, nil
}

func residenceLink(p entity.Property) string {
	return "/tenants/residences/" + strconv.FormatInt(p.ID, 10)
}
