package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrAuthSession  = errors.New("no se pudo obtener la sesión de identidad")
	ErrValidation   = errors.New("petición rechazada por el backend")
	ErrServer       = errors.New("error del servidor o de red")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrProvisioning = errors.New("no se pudo crear el perfil del usuario")
	ErrUnknownRole  = errors.New("rol de usuario desconocido")
)

// ErrorKind clasifica los fallos de la capa de acceso a datos.
type ErrorKind int

const (
	KindServer ErrorKind = iota
	KindAuthSession
	KindNotFound
	KindValidation
)

func (k ErrorKind) String() string {
	switch k {
	case KindAuthSession:
		return "AUTH_SESSION"
	case KindNotFound:
		return "NOT_FOUND"
	case KindValidation:
		return "VALIDATION"
	default:
		return "SERVER"
	}
}

// APIError es el resultado tipado de una llamada fallida al backend REST.
// Status es 0 cuando el fallo ocurrió antes de recibir respuesta (red o sesión).
type APIError struct {
	Kind    ErrorKind
	Status  int
	Method  string
	Path    string
	Message string
	Err     error
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status > 0 {
		return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.Status, msg)
	}
	return fmt.Sprintf("%s %s: %s", e.Method, e.Path, msg)
}

func (e *APIError) Unwrap() error { return e.Err }

// Is permite errors.Is(err, domain.ErrNotFound) y similares según el Kind.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrAuthSession:
		return e.Kind == KindAuthSession
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrServer:
		return e.Kind == KindServer
	}
	return false
}

// KindFromStatus traduce un código HTTP de error al Kind correspondiente.
func KindFromStatus(status int) ErrorKind {
	switch {
	case status == 404:
		return KindNotFound
	case status >= 400 && status < 500:
		return KindValidation
	default:
		return KindServer
	}
}

// AsAPIError devuelve el *APIError contenido en err, si existe.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
