package handler

import (
	"net/http"

	"github.com/Shivanand-hulikatti/eventoz/internal/config"
	"github.com/Shivanand-hulikatti/eventoz/internal/metrics"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// RouterConfig carries what NewRouter needs beyond the handlers themselves.
type RouterConfig struct {
	Tokens TokenVerifier
	Store  Pinger
	CORS   config.CORSConfig
	Logger zerolog.Logger
}

// NewRouter builds the full route table.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(Logger(cfg.Logger))
	r.Use(metrics.HTTPMiddleware)
	r.Use(CORS(cfg.CORS, cfg.Logger))

	r.Get("/", Root)
	r.Get("/health", HealthCheck(cfg.Store))
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Get("/free-endpoint", FreeEndpoint)

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)

	r.Post("/eventregistereduser", h.RegisterAttendee)
	r.Get("/event/{id}/registrations", h.RegistrationCount)
	r.Get("/event/{id}/attended", h.AttendedCount)
	r.Get("/registeredusers/{formId}", h.RegisteredUsers)
	r.Get("/attendedusers/{formId}", h.AttendedUsers)
	r.Post("/updateAttendance", h.UpdateAttendance)

	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(cfg.Tokens))
		r.Post("/createevent", h.CreateEvent)
		r.Get("/myevents", h.MyEvents)
		r.Get("/auth-endpoint", AuthEndpoint)
	})

	return r
}
