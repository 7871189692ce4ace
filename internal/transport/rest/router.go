package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vozlab/asistente-backend/internal/transport/middleware"
)

// Handlers bundles the REST handlers wired into the router.
type Handlers struct {
	Auth      *AuthHandler
	Assistant *AssistantHandler
	History   *HistoryHandler
	Dashboard *DashboardHandler
	Session   *SessionHandler
	Health    *HealthHandler
}

// NewRouter builds the HTTP route tree. The base middleware (request id,
// logging, recovery, CORS, rate limiting, token resolution) applies to every
// route; identity is enforced per route group.
func NewRouter(h Handlers, base ...middleware.Middleware) http.Handler {
	r := chi.NewRouter()
	for _, mw := range base {
		r.Use(mw)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.Health.Health)
		r.Get("/live", h.Health.Live)
		r.Get("/ready", h.Health.Ready)
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Auth.Register)
		r.Post("/login", h.Auth.Login)
		r.Post("/refresh", h.Auth.Refresh)
		r.Post("/logout", h.Auth.Logout)
		r.Route("/recovery", func(r chi.Router) {
			r.Post("/request", h.Auth.RecoveryRequest)
			r.Post("/verify", h.Auth.RecoveryVerify)
			r.Post("/reset", h.Auth.RecoveryReset)
		})
	})

	// Commands accept anonymous callers; history records just go unowned.
	r.Route("/assistant", func(r chi.Router) {
		r.Post("/command", h.Assistant.Command)
		r.Post("/audio", h.Assistant.Audio)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth())

		r.Route("/history", func(r chi.Router) {
			r.Get("/", h.History.List)
			r.Get("/report", h.History.Report)
			r.Put("/{id}", h.History.Update)
			r.Delete("/{id}", h.History.SoftDelete)
			r.Post("/{id}/restore", h.History.Restore)
			r.Delete("/{id}/purge", h.History.Purge)
		})

		r.Get("/dashboard/summary", h.Dashboard.Summary)
	})

	r.Route("/session", func(r chi.Router) {
		r.Get("/{id}", h.Session.Get)
		r.Post("/{id}/event", h.Session.Event)
	})

	return r
}
