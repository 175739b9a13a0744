package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/bookshelf-be/internal/api/handlers"
	"github.com/isdelr/bookshelf-be/internal/auth"
	"github.com/isdelr/bookshelf-be/internal/config"
	"github.com/isdelr/bookshelf-be/internal/metrics"
	"github.com/isdelr/bookshelf-be/internal/models"
	"github.com/isdelr/bookshelf-be/internal/services"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
)

// Deps bundles everything the router wires together.
type Deps struct {
	Config   *config.Config
	DB       *sql.DB
	Issuer   *auth.TokenIssuer
	Resolver *auth.Resolver
	Metrics  *metrics.Metrics
	Users    services.UserServiceProvider
	Books    services.BookServiceProvider
	Events   services.EventServiceProvider
}

// NewRouter creates and configures a new Chi router.
func NewRouter(d Deps) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(d.Metrics.Middleware)
	r.Use(hlog.NewHandler(log.Logger))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("Request handled")
	}))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(d.Users, d.Issuer, d.Config, d.Metrics)
	userHandler := handlers.NewUserHandler(d.Users)
	bookHandler := handlers.NewBookHandler(d.Books)
	eventHandler := handlers.NewEventHandler(d.Events)
	healthHandler := handlers.NewHealthHandler(d.DB)

	authenticate := auth.Authenticate(d.Resolver, d.Metrics)
	requireUser := auth.RequireRole(models.RoleUser, d.Metrics)
	requireAdmin := auth.RequireRole(models.RoleAdmin, d.Metrics)

	r.Get("/healthz", healthHandler.Check)
	r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.With(authenticate, requireUser).Get("/me", authHandler.Me)
		})

		r.Route("/books", func(r chi.Router) {
			r.Get("/", bookHandler.GetAll)
			r.Get("/{id}", bookHandler.Get)
			r.With(authenticate, requireAdmin).Post("/", bookHandler.Create)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate, requireAdmin)

			r.Route("/users", func(r chi.Router) {
				r.Get("/", userHandler.GetAll)
				r.Get("/{id}", userHandler.Get)
				r.Put("/{id}/role", userHandler.SetRole)
			})
			r.Get("/events", eventHandler.GetRecent)
		})
	})

	return r
}
