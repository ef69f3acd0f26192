package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/solervi/homehaven-be/internal/api/handlers"
	"github.com/solervi/homehaven-be/internal/auth"
	"github.com/solervi/homehaven-be/internal/observability/metrics"
	"github.com/solervi/homehaven-be/internal/services"
	"github.com/solervi/homehaven-be/internal/storage"
	"github.com/solervi/homehaven-be/internal/websocket"
)

// Deps bundles everything the router wires together.
type Deps struct {
	Tokens       *auth.TokenManager
	Users        services.UserServiceProvider
	Listings     services.ListingServiceProvider
	Events       services.EventServiceProvider
	Backups      services.BackupServiceProvider
	Store        storage.Service
	Hub          *websocket.Hub
	CORSOrigin   string
	CookieSecure bool
}

// NewRouter creates and configures a new Chi router.
func NewRouter(deps Deps) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.HTTPMetricsMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{deps.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(deps.Users, deps.Tokens, deps.CookieSecure)
	userHandler := handlers.NewUserHandler(deps.Users, deps.Listings, deps.CookieSecure)
	listingHandler := handlers.NewListingHandler(deps.Listings)
	uploadHandler := handlers.NewUploadHandler(deps.Store)
	eventHandler := handlers.NewEventHandler(deps.Events)
	backupHandler := handlers.NewBackupHandler(deps.Backups)
	wsHandler := handlers.NewWebSocketHandler(deps.Hub)

	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/ws", wsHandler.Serve)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.SignUp)
			r.Post("/signin", authHandler.SignIn)
			r.Post("/google", authHandler.Google)
			r.Get("/signout", authHandler.SignOut)
		})

		r.Route("/listing", func(r chi.Router) {
			// Public reads
			r.Get("/get/{id}", listingHandler.Get)
			r.Get("/get", listingHandler.Search)

			// Owner-scoped mutations
			r.Group(func(r chi.Router) {
				r.Use(deps.Tokens.RequireAuth)
				r.Post("/create", listingHandler.Create)
				r.Post("/update/{id}", listingHandler.Update)
				r.Delete("/delete/{id}", listingHandler.Delete)
			})
		})

		r.Route("/user", func(r chi.Router) {
			r.Use(deps.Tokens.RequireAuth)
			r.Post("/update/{id}", userHandler.Update)
			r.Delete("/delete/{id}", userHandler.Delete)
			r.Get("/listings/{id}", userHandler.GetListings)
			r.Get("/{id}", userHandler.Get)
		})

		r.Group(func(r chi.Router) {
			r.Use(deps.Tokens.RequireAuth)
			r.Post("/upload/sign", uploadHandler.Sign)
			r.Get("/events/recent", eventHandler.GetRecent)

			r.Route("/backup", func(r chi.Router) {
				r.Get("/", backupHandler.GetAll)
				r.Post("/", backupHandler.Create)
				r.Delete("/{id}", backupHandler.Delete)
			})
		})
	})

	return r
}
