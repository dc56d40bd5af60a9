// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Shivanand-hulikatti/eventoz/internal/model"
	"github.com/Shivanand-hulikatti/eventoz/internal/service"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

// Handler holds all HTTP handlers for the eventoz API.
type Handler struct {
	credentials  *service.CredentialStore
	events       *service.EventRegistry
	attendance   *service.AttendanceTracker
	exposeErrors bool
}

// New constructs a Handler. When exposeErrors is true, 5xx responses carry
// the underlying error text; otherwise only the message is returned.
func New(
	credentials *service.CredentialStore,
	events *service.EventRegistry,
	attendance *service.AttendanceTracker,
	exposeErrors bool,
) *Handler {
	return &Handler{
		credentials:  credentials,
		events:       events,
		attendance:   attendance,
		exposeErrors: exposeErrors,
	}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError answers with {"message": msg} and logs err through the request
// logger: 5xx at error level, 4xx at warn level.
func writeError(w http.ResponseWriter, r *http.Request, status int, msg string, err error, expose bool) {
	body := model.ErrorResponse{Message: msg}
	if err != nil {
		if expose {
			body.Error = err.Error()
		}
		logger := zerolog.Ctx(r.Context())
		event := logger.Warn()
		if status >= http.StatusInternalServerError {
			event = logger.Error()
		}
		event.Err(err).
			Int("status", status).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg(msg)
	}
	writeJSON(w, status, body)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, status int, msg string, err error) {
	// Validation detail is always safe to return; store errors are not.
	expose := h.exposeErrors || status < http.StatusInternalServerError
	writeError(w, r, status, msg, err, expose)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

// ─── Health check ─────────────────────────────────────────────────────────────

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck handles GET /health.
func HealthCheck(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store != nil {
			if err := store.Ping(r.Context()); err != nil {
				zerolog.Ctx(r.Context()).Error().Err(err).Msg("health check failed")
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// Root handles GET /.
func Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Hello World!"))
}
