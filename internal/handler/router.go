package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/calendarapi/calendar-api/internal/metrics"
	"github.com/calendarapi/calendar-api/internal/middleware"
	"github.com/calendarapi/calendar-api/internal/service"
)

// RouterConfig carries the services and limits the HTTP surface needs.
// TrustedProxies lists the CIDRs whose forwarding headers identify the
// client for rate limiting.
type RouterConfig struct {
	Auth           *service.AuthService
	Events         *service.EventService
	AuthRateLimit  float64
	AuthRateBurst  int
	TrustedProxies []string
}

// NewRouter wires every route. CORS is the outermost layer so that errors,
// panics and unknown routes still carry the headers.
func NewRouter(cfg RouterConfig) http.Handler {
	authHandler := NewAuthHandler(cfg.Auth)
	eventHandler := NewEventHandler(cfg.Events)

	r := chi.NewRouter()
	r.Use(middleware.CORS)
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(metrics.HTTPMiddleware)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse("Not Found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse("Method Not Allowed"))
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Calendar API is running"})
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(cfg.AuthRateLimit, cfg.AuthRateBurst, cfg.TrustedProxies))
			r.Post("/register", authHandler.HandleRegister)
			r.Post("/login", authHandler.HandleLogin)
		})

		r.With(middleware.JWTAuth(cfg.Auth)).Get("/me", authHandler.HandleMe)
	})

	r.Route("/events", func(r chi.Router) {
		r.Use(middleware.JWTAuth(cfg.Auth))

		r.Get("/", eventHandler.HandleList)
		r.Post("/", eventHandler.HandleCreate)
		r.Get("/date/{date}", eventHandler.HandleListByDate)
		r.Get("/upcoming", eventHandler.HandleUpcoming)
		r.Get("/today", eventHandler.HandleToday)
		r.Get("/month/{year}/{month}", eventHandler.HandleListByMonth)
		r.Get("/export.ics", eventHandler.HandleExport)
		r.Get("/{id}", eventHandler.HandleGet)
		r.Put("/{id}", eventHandler.HandleUpdate)
		r.Delete("/{id}", eventHandler.HandleDelete)
	})

	return r
}
