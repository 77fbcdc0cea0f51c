package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/rentals-web/internal/application/api"
	"github.com/jhoicas/rentals-web/internal/application/dto"
	"github.com/jhoicas/rentals-web/internal/domain"
	"github.com/jhoicas/rentals-web/internal/domain/entity"
)

// UserUseCase sesión del usuario y ajustes de su perfil.
type UserUseCase struct {
	client *api.Client
}

// NewUserUseCase construye el caso de uso sobre el cliente del backend.
func NewUserUseCase(client *api.Client) *UserUseCase {
	return &UserUseCase{client: client}
}

// Me devuelve el usuario autenticado; la primera vez crea su perfil en el backend.
func (uc *UserUseCase) Me(ctx context.Context) (*entity.User, error) {
	return uc.client.GetAuthUser.Query(ctx, api.NoArg{})
}

// UpdateSettings actualiza el perfil propio según el rol del usuario.
func (uc *UserUseCase) UpdateSettings(ctx context.Context, user *entity.User, in dto.UpdateSettingsRequest) (*entity.Profile, error) {
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if in.Name == nil && in.Email == nil && in.PhoneNumber == nil {
		return nil, fmt.Errorf("%w: no hay cambios", domain.ErrInvalidInput)
	}
	in.CognitoID = user.CognitoInfo.UserID

	switch user.UserRole {
	case entity.RoleManager:
		m, err := uc.client.UpdateManagerSettings.Do(ctx, in)
		if err != nil {
			return nil, err
		}
		return &m.Profile, nil
	case entity.RoleTenant:
		t, err := uc.client.UpdateTenantSettings.Do(ctx, in)
		if err != nil {
			return nil, err
		}
		return &t.Profile, nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownRole, user.UserRole)
}
