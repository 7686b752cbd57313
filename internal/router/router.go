package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-event-planner/internal/config"
	"go-event-planner/internal/handler"
	"go-event-planner/internal/middleware"
)

type Handlers struct {
	Auth        *handler.AuthHandler
	OAuth       *handler.OAuthHandler
	User        *handler.UserHandler
	Event       *handler.EventHandler
	Reservation *handler.ReservationHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)
	r.Use(authMiddleware.Authenticate)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Browser-facing provider flow; not under /api/v1 because the
	// provider redirects here directly.
	if h.OAuth != nil {
		r.Get("/oauth2/google", h.OAuth.Login)
		r.Get("/oauth2/google/callback", h.OAuth.Callback)
	}

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", h.Auth.Login)
			auth.Post("/register", h.Auth.Register)
			auth.Post("/logout", h.Auth.Logout)
			auth.With(authMiddleware.RequireAuth).Get("/me", h.Auth.Me)
		})

		api.Route("/users", func(users chi.Router) {
			users.Use(authMiddleware.RequireAuth)
			users.Put("/me", h.User.Update)
			users.Put("/me/password", h.User.ChangePassword)
			users.Delete("/me", h.User.Delete)
		})

		// Event listings are public; everything that writes needs a
		// session.
		api.Get("/events", h.Event.List)
		api.Get("/events/{id}", h.Event.Get)
		api.With(authMiddleware.RequireAuth).Post("/events", h.Event.Create)
		api.With(authMiddleware.RequireAuth).Get("/events/owned", h.Event.ListOwned)
		api.With(authMiddleware.RequireAuth).Put("/events/{id}", h.Event.Update)
		api.With(authMiddleware.RequireAuth).Delete("/events/{id}", h.Event.Delete)

		api.Route("/reservations", func(res chi.Router) {
			res.Use(authMiddleware.RequireAuth)
			res.Post("/", h.Reservation.Create)
			res.Get("/", h.Reservation.List)
			res.Delete("/{id}", h.Reservation.Cancel)
			res.Post("/check-in", h.Reservation.CheckIn)
		})
	})

	return r
}
