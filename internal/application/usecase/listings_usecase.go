package usecase

import (
	"context"
	"strconv"

	"github.com/jhoicas/rentals-web/internal/application/api"
	"github.com/jhoicas/rentals-web/internal/application/dto"
	"github.com/jhoicas/rentals-web/internal/domain/entity"
)

// ListingsUseCase búsqueda de propiedades y favoritos del inquilino.
type ListingsUseCase struct {
	client *api.Client
}

// NewListingsUseCase construye el caso de uso.
func NewListingsUseCase(client *api.Client) *ListingsUseCase {
	return &ListingsUseCase{client: client}
}

// SearchLink enlace al detalle de una propiedad desde la búsqueda.
func SearchLink(p entity.Property) string {
	return "/search/" + strconv.FormatInt(p.ID, 10)
}

// List devuelve las propiedades que cumplen filters. Para un inquilino marca sus
// favoritos y habilita el botón de favorito.
func (uc *ListingsUseCase) List(ctx context.Context, user *entity.User, filters dto.PropertyFilters, viewMode string) (*dto.ListingsView, error) {
	if viewMode != dto.ViewModeList {
		viewMode = dto.ViewModeGrid
	}
	filters = filters.Normalized()
	props, err := uc.client.GetProperties.Query(ctx, filters)
	if err != nil {
		return nil, err
	}

	var tenant *entity.Tenant
	if user.IsTenant() {
		tenant, err = uc.client.GetTenant.Query(ctx, user.CognitoInfo.UserID)
		if err != nil {
			return nil, err
		}
	}
	return &dto.ListingsView{
		Count:    len(props),
		Location: filters.Location,
		ViewMode: viewMode,
		Items:    toCards(props, SearchLink, tenant.HasFavorite, user.IsTenant(), viewMode == dto.ViewModeList),
	}, nil
}

// Get detalle de una propiedad.
func (uc *ListingsUseCase) Get(ctx context.Context, id int64) (*entity.Property, error) {
	return uc.client.GetProperty.Query(ctx, id)
}

// ToggleFavorite agrega o quita propertyID de los favoritos del inquilino según su estado actual.
func (uc *ListingsUseCase) ToggleFavorite(ctx context.Context, user *entity.User, propertyID int64) (*dto.FavoriteToggleResponse, error) {
	if err := requireRole(user, entity.RoleTenant); err != nil {
		return nil, err
	}
	cognitoID := user.CognitoInfo.UserID
	tenant, err := uc.client.GetTenant.Query(ctx, cognitoID)
	if err != nil {
		return nil, err
	}

	req := dto.FavoriteRequest{CognitoID: cognitoID, PropertyID: propertyID}
	if tenant.HasFavorite(propertyID) {
		tenant, err = uc.client.RemoveFavoriteProperty.Do(ctx, req)
	} else {
		tenant, err = uc.client.AddFavoriteProperty.Do(ctx, req)
	}
	if err != nil {
		return nil, err
	}
	return &dto.FavoriteToggleResponse{PropertyID: propertyID, IsFavorite: tenant.HasFavorite(propertyID)}, nil
}
