package ports

import (
	"context"

	"github.com/jhoicas/rentals-web/internal/domain/entity"
)

// IdentitySession puerto hacia el proveedor de identidad (sesión del usuario autenticado).
// IDToken se consulta antes de cada petición: esta capa no guarda el token.
type IdentitySession interface {
	// IDToken devuelve el id token vigente; "" si la sesión no tiene uno.
	IDToken(ctx context.Context) (string, error)
	// CurrentUser devuelve la identidad y el rol (claim custom:role) del usuario.
	CurrentUser(ctx context.Context) (entity.CognitoInfo, string, error)
}
