package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/runconnect/runconnect/internal/domain"
	"github.com/runconnect/runconnect/internal/service"
	"github.com/runconnect/runconnect/internal/session"
	"github.com/runconnect/runconnect/pkg/health"
	"github.com/runconnect/runconnect/pkg/middleware"
)

// Services bundles the service layer for route registration.
type Services struct {
	Auth          *service.AuthService
	Events        *service.EventService
	Registrations *service.RegistrationService
	Posts         *service.PostService
	Users         *service.UserService
}

// NewRouter creates a chi router with all API routes registered.
func NewRouter(
	svcs Services,
	signer *session.TokenSigner,
	healthHandler *health.Handler,
	logger *slog.Logger,
	corsConfig CORSConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(CORS(corsConfig))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("runconnect"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	authHandler := NewAuthHandler(svcs.Auth, logger)
	eventHandler := NewEventHandler(svcs.Events, logger)
	regHandler := NewRegistrationHandler(svcs.Registrations, logger)
	postHandler := NewPostHandler(svcs.Posts, logger)
	userHandler := NewUserHandler(svcs.Users, logger)

	// Token validator bridging to the session signer.
	tokenValidator := func(token string) (*middleware.Claims, error) {
		claims, err := signer.Validate(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			SessionID: claims.SessionID,
			UserID:    claims.UserID,
			Role:      claims.Role,
		}, nil
	}
	auth := middleware.Auth(tokenValidator)

	// Auth endpoints (public)
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)
		r.Post("/verify-email", authHandler.VerifyEmail)
		r.Post("/resend-verification", authHandler.ResendVerification)

		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Post("/logout", authHandler.Logout)
			r.Get("/me", authHandler.Me)
		})
	})

	// Event discovery (public) and hosting (business only)
	r.Route("/api/v1/events", func(r chi.Router) {
		r.Get("/", eventHandler.List)
		r.Get("/{id}", eventHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(auth)
			r.Use(middleware.RequireRole(domain.RoleBusiness))

			r.Post("/", eventHandler.Create)
			r.Put("/{id}", eventHandler.Update)
			r.Delete("/{id}", eventHandler.Delete)
			r.Get("/{id}/registrations", regHandler.ListForEvent)
		})

		// Image body is binary, so it skips the JSON content-type gate.
		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Use(middleware.RequireRole(domain.RoleBusiness))
			r.Put("/{id}/image", eventHandler.UploadImage)
		})

		// Runner registration
		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Use(middleware.RequireRole(domain.RoleRunner))

			r.Post("/{id}/registrations", regHandler.Register)
			r.Delete("/{id}/registrations", regHandler.Cancel)
		})
	})

	// Business public surface
	r.Route("/api/v1/businesses/{id}", func(r chi.Router) {
		r.Get("/events", eventHandler.ListByHost)
		r.Get("/posts", postHandler.ListByBusiness)
	})

	// Posts management (business only)
	r.Route("/api/v1/posts", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(auth)
		r.Use(middleware.RequireRole(domain.RoleBusiness))

		r.Post("/", postHandler.Create)
		r.Put("/{id}", postHandler.Update)
		r.Delete("/{id}", postHandler.Delete)
	})

	// Profiles
	r.Route("/api/v1/users", func(r chi.Router) {
		r.Get("/{id}", userHandler.GetPublicProfile)

		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(auth)
			r.Put("/me", userHandler.UpdateProfile)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Use(middleware.RequireRole(domain.RoleRunner))
			r.Get("/me/registrations", regHandler.ListMine)
		})
	})

	return r
}
