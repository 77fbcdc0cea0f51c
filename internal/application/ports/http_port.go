package ports

import (
	"context"
	"net/http"
	"net/url"
)

// Request petición relativa a la URL base del backend REST.
type Request struct {
	Method string
	Path   string
	Params url.Values
	Body   any        // se serializa como JSON
	Form   *Multipart // excluyente con Body
}

// Get atajo para una petición GET sin parámetros.
func Get(path string) Request {
	return Request{Method: http.MethodGet, Path: path}
}

// FilePart archivo adjunto de un formulario multipart.
type FilePart struct {
	Field       string
	Filename    string
	ContentType string
	Content     []byte
}

// Multipart cuerpo multipart/form-data (ej. creación de propiedades con fotos).
type Multipart struct {
	Fields map[string][]string
	Files  []FilePart
}

// Add agrega un valor de campo.
func (m *Multipart) Add(field, value string) {
	if m.Fields == nil {
		m.Fields = make(map[string][]string)
	}
	m.Fields[field] = append(m.Fields[field], value)
}

// Requester puerto de salida hacia el backend REST. Los errores son *domain.APIError.
type Requester interface {
	Do(ctx context.Context, req Request, out any) error
	Session() IdentitySession
}
