package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-badge-engine/internal/config"
	jwtinfra "github.com/go-badge-engine/internal/infrastructure/jwt"
	"github.com/go-badge-engine/internal/transport/http/handler"
	appmiddleware "github.com/go-badge-engine/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(appmiddleware.RequestLogger(deps.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 20 requests/second, burst of 40 per calling service.
	dispatchRL := appmiddleware.NewRateLimiter(rate.Limit(20), 40)

	healthH := handler.NewHealthHandler()
	dispatchH := handler.NewDispatchHandler(deps.Dispatcher)
	badgeH := handler.NewBadgeHandler(deps.Badges)
	notifH := handler.NewNotificationHandler(deps.Notifications)
	subH := handler.NewSubscriptionHandler(deps.Subscriptions)
	realtimeH := handler.NewRealtimeHandler(deps.Realtime, deps.Logger)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Get("/badges", badgeH.List)
		r.Get("/users/{id}/badges", badgeH.ListHeld)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/notifications", notifH.ListUnread)
			r.Put("/notifications/{id}", notifH.MarkAsRead)
			r.Get("/push-subscriptions", subH.List)
			r.Post("/push-subscriptions", subH.Subscribe)
			r.Delete("/push-subscriptions/{id}", subH.Unsubscribe)
			r.Get("/realtime", realtimeH.Connect)

			// Internal callers only
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(jwtinfra.RoleService))
				r.With(dispatchRL.Limit).Post("/internal/dispatch", dispatchH.Dispatch)
			})
		})
	})

	return r
}
