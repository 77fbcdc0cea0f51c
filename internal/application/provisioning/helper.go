package provisioning

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/jhoicas/rentals-web/internal/application/dto"
	"github.com/jhoicas/rentals-web/internal/application/ports"
	"github.com/jhoicas/rentals-web/internal/domain"
	"github.com/jhoicas/rentals-web/internal/domain/entity"
)

// Helper crea el perfil del backend la primera vez que un usuario inicia sesión.
type Helper struct {
	requester ports.Requester
	log       zerolog.Logger
}

// New construye el helper.
func New(requester ports.Requester, log zerolog.Logger) *Helper {
	return &Helper{requester: requester, log: log}
}

// Collection ruta de la colección de perfiles según el rol.
func Collection(role string) string {
	if role == entity.RoleManager {
		return "managers"
	}
	return "tenants"
}

// EnsureProfile devuelve el perfil de info; si el backend responde 404 lo crea.
// Otros errores de lectura se devuelven sin cambios.
func (h *Helper) EnsureProfile(ctx context.Context, info entity.CognitoInfo, role string) (*entity.Profile, error) {
	if info.UserID == "" {
		return nil, fmt.Errorf("%w: usuario sin id", domain.ErrInvalidInput)
	}
	collection := Collection(role)

	var profile entity.Profile
	err := h.requester.Do(ctx, ports.Get(collection+"/"+url.PathEscape(info.UserID)), &profile)
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	h.log.Info().Str("cognito_id", info.UserID).Str("role", role).Msg("perfil inexistente, creando")
	body := dto.CreateProfileRequest{
		CognitoID:   info.UserID,
		Name:        info.Username,
		Email:       info.Email,
		PhoneNumber: "",
	}
	var created entity.Profile
	if err := h.requester.Do(ctx, ports.Request{Method: http.MethodPost, Path: collection, Body: body}, &created); err != nil {
		h.log.Error().Err(err).Str("cognito_id", info.UserID).Msg("no se pudo crear el perfil")
		return nil, fmt.Errorf("%w: %w", domain.ErrProvisioning, err)
	}
	return &created, nil
}
