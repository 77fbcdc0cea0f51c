package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jhoicas/rentals-web/internal/application/api"
	"github.com/jhoicas/rentals-web/internal/application/dto"
	"github.com/jhoicas/rentals-web/internal/domain"
	"github.com/jhoicas/rentals-web/internal/domain/entity"
)

// Textos de la página de propiedades del manager.
const (
	ManagerPropertiesTitle    = "My Properties"
	ManagerPropertiesSubtitle = "View and manage your property listings"
)

// ManagerUseCase vistas y altas del administrador de propiedades.
type ManagerUseCase struct {
	client *api.Client
}

// NewManagerUseCase construye el caso de uso.
func NewManagerUseCase(client *api.Client) *ManagerUseCase {
	return &ManagerUseCase{client: client}
}

// Properties propiedades administradas por el usuario.
func (uc *ManagerUseCase) Properties(ctx context.Context, user *entity.User) (*dto.ManagerPropertiesView, error) {
	if err := requireRole(user, entity.RoleManager); err != nil {
		return nil, err
	}
	props, err := uc.client.GetManagerProperties.Query(ctx, user.CognitoInfo.UserID)
	if err != nil {
		return nil, err
	}
	return &dto.ManagerPropertiesView{
		Title:    ManagerPropertiesTitle,
		Subtitle: ManagerPropertiesSubtitle,
		Items:    toCards(props, managerLink, nil, false, false),
		Empty:    len(props) == 0,
	}, nil
}

// CreateProperty publica una propiedad a nombre del manager autenticado.
func (uc *ManagerUseCase) CreateProperty(ctx context.Context, user *entity.User, in dto.CreatePropertyRequest) (*entity.Property, error) {
	if err := requireRole(user, entity.RoleManager); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name es requerido", domain.ErrInvalidInput)
	}
	if in.PricePerMonth.IsNegative() || in.SecurityDeposit.IsNegative() || in.ApplicationFee.IsNegative() {
		return nil, fmt.Errorf("%w: los montos no pueden ser negativos", domain.ErrInvalidInput)
	}
	in.ManagerCognitoID = user.CognitoInfo.UserID
	return uc.client.CreateProperty.Do(ctx, in)
}

func managerLink(p entity.Property) string {
	return "/managers/properties/" + strconv.FormatInt(p.ID, 10)
}
