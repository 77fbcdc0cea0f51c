package identity

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"

	"github.com/jhoicas/rentals-web/internal/application/ports"
	"github.com/jhoicas/rentals-web/internal/domain/entity"
	pkgjwt "github.com/jhoicas/rentals-web/pkg/jwt"
)

var _ ports.IdentitySession = (*Session)(nil)

// idTokenExtra es el campo extra de la respuesta OIDC que trae el id token.
const idTokenExtra = "id_token"

// ErrNoSession el usuario no tiene sesión iniciada.
var ErrNoSession = errors.New("identity: no hay sesión iniciada")

// Session adaptador de IdentitySession sobre un oauth2.TokenSource (flujo OIDC).
// Cada llamada pide el token al TokenSource; la renovación es responsabilidad de éste.
type Session struct {
	ts oauth2.TokenSource
}

// NewSession construye la sesión a partir de cualquier TokenSource OIDC.
func NewSession(ts oauth2.TokenSource) *Session {
	return &Session{ts: ts}
}

// NewStaticSession sesión con un id token fijo (CLI, o el token que envía el navegador al BFF).
func NewStaticSession(idToken string) *Session {
	if idToken == "" {
		return &Session{}
	}
	tok := (&oauth2.Token{TokenType: "Bearer"}).WithExtra(map[string]interface{}{idTokenExtra: idToken})
	return NewSession(oauth2.StaticTokenSource(tok))
}

// IDToken devuelve el id token vigente o "" si no hay sesión.
func (s *Session) IDToken(ctx context.Context) (string, error) {
	if s == nil || s.ts == nil {
		return "", nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	tok, err := s.ts.Token()
	if err != nil {
		return "", fmt.Errorf("identity: obtener token: %w", err)
	}
	raw, _ := tok.Extra(idTokenExtra).(string)
	return raw, nil
}

// CurrentUser decodifica el id token y devuelve la identidad y el rol del usuario.
func (s *Session) CurrentUser(ctx context.Context) (entity.CognitoInfo, string, error) {
	raw, err := s.IDToken(ctx)
	if err != nil {
		return entity.CognitoInfo{}, "", err
	}
	if raw == "" {
		return entity.CognitoInfo{}, "", ErrNoSession
	}
	claims, err := pkgjwt.ParseIDToken(raw)
	if err != nil {
		return entity.CognitoInfo{}, "", fmt.Errorf("identity: %w", err)
	}
	username := claims.Username
	if username == "" {
		username = claims.UserID()
	}
	return entity.CognitoInfo{
		UserID:   claims.UserID(),
		Username: username,
		Email:    claims.Email,
	}, claims.Role, nil
}
