package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/rentals-web/internal/application/ports"
	"github.com/jhoicas/rentals-web/internal/domain"
)

// maxResponseBytes límite de lectura del cuerpo de respuesta.
const maxResponseBytes = 8 << 20

var _ ports.Requester = (*BaseQuery)(nil)

// BaseQuery construye y envía las peticiones al backend REST: resuelve la URL,
// adjunta el id token de la sesión en cada llamada y traduce los errores a *domain.APIError.
type BaseQuery struct {
	baseURL    string
	httpClient *http.Client
	session    ports.IdentitySession
	log        zerolog.Logger
}

// NewBaseQuery construye el adaptador. timeout 0 deja el comportamiento del transporte.
func NewBaseQuery(baseURL string, timeout time.Duration, session ports.IdentitySession, log zerolog.Logger) *BaseQuery {
	return &BaseQuery{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		session:    session,
		log:        log,
	}
}

// Session devuelve la sesión de identidad asociada.
func (b *BaseQuery) Session() ports.IdentitySession {
	return b.session
}

// Do envía req y decodifica la respuesta JSON en out (si out no es nil).
func (b *BaseQuery) Do(ctx context.Context, req ports.Request, out any) error {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	path := "/" + strings.TrimLeft(req.Path, "/")
	fail := func(kind domain.ErrorKind, status int, msg string, err error) error {
		return &domain.APIError{Kind: kind, Status: status, Method: method, Path: path, Message: msg, Err: err}
	}

	token, err := b.session.IDToken(ctx)
	if err != nil {
		return fail(domain.KindAuthSession, 0, "no se pudo obtener el token de sesión", err)
	}

	body, contentType, err := encodeBody(req)
	if err != nil {
		return fail(domain.KindValidation, 0, "serializar cuerpo", err)
	}

	target := b.baseURL + path
	if len(req.Params) > 0 {
		target += "?" + req.Params.Encode()
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fail(domain.KindServer, 0, "crear HTTP request", err)
	}
	requestID := uuid.NewString()
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return fail(domain.KindServer, 0, "timeout o cancelación", ctx.Err())
		}
		return fail(domain.KindServer, 0, "llamada HTTP fallida", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fail(domain.KindServer, resp.StatusCode, "leer respuesta", err)
	}

	b.log.Debug().
		Str("method", method).
		Str("path", path).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("api request")

	if resp.StatusCode >= http.StatusBadRequest {
		return fail(domain.KindFromStatus(resp.StatusCode), resp.StatusCode, errorMessage(raw), nil)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fail(domain.KindServer, resp.StatusCode, "deserializar respuesta", err)
	}
	return nil
}

func encodeBody(req ports.Request) (io.Reader, string, error) {
	switch {
	case req.Form != nil:
		return encodeMultipart(req.Form)
	case req.Body != nil:
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(b), "application/json", nil
	}
	return nil, "", nil
}

// errorMessage extrae {"message": "..."} del cuerpo o devuelve el texto recortado.
func errorMessage(raw []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	msg := strings.TrimSpace(string(raw))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	if msg == "" {
		return "respuesta sin cuerpo"
	}
	return msg
}
