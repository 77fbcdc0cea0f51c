package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrExpired indica que el id token ya venció.
var ErrExpired = errors.New("jwt: token expirado")

// IDTokenClaims claims del id token emitido por el proveedor de identidad (Cognito).
// Role viaja como atributo personalizado "custom:role" ("manager" | "tenant").
type IDTokenClaims struct {
	jwt.RegisteredClaims
	Email    string `json:"email,omitempty"`
	Username string `json:"cognito:username,omitempty"`
	Role     string `json:"custom:role,omitempty"`
}

// UserID devuelve el identificador estable del usuario (sub).
func (c *IDTokenClaims) UserID() string { return c.Subject }

// ParseIDToken decodifica el id token sin verificar la firma: la verificación la hace
// el backend contra las llaves del proveedor. Sí rechaza tokens mal formados o vencidos.
func ParseIDToken(tokenString string) (*IDTokenClaims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("jwt: token vacío")
	}
	claims := &IDTokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("jwt: token mal formado: %w", err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("jwt: claim sub requerido")
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return nil, ErrExpired
	}
	return claims, nil
}

// GenerateIDToken firma (HS256) un id token con la forma del proveedor de identidad.
// Se usa en desarrollo local y en tests; en producción el token lo emite el proveedor.
func GenerateIDToken(secret, userID, username, email, role string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := IDTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		Email:    email,
		Username: username,
		Role:     role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
