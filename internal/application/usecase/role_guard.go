package usecase

import (
	"fmt"

	"github.com/jhoicas/rentals-web/internal/application/dto"
	"github.com/jhoicas/rentals-web/internal/domain"
	"github.com/jhoicas/rentals-web/internal/domain/entity"
)

// requireRole valida que el usuario tenga sesión y el rol indicado.
func requireRole(user *entity.User, role string) error {
	if user == nil || user.CognitoInfo.UserID == "" {
		return domain.ErrUnauthorized
	}
	if user.UserRole != role {
		return fmt.Errorf("%w: se requiere rol %s", domain.ErrForbidden, role)
	}
	return nil
}

// toCards arma las tarjetas de una lista de propiedades.
func toCards(props []entity.Property, link func(entity.Property) string, favorite func(int64) bool, showFavorite, compact bool) []dto.PropertyCard {
	cards := make([]dto.PropertyCard, 0, len(props))
	for _, p := range props {
		cards = append(cards, dto.PropertyCard{
			Property:           p,
			IsFavorite:         favorite != nil && favorite(p.ID),
			ShowFavoriteButton: showFavorite,
			PropertyLink:       link(p),
			Compact:            compact,
		})
	}
	return cards
}
