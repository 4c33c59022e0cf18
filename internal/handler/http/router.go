package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hirelane/jobportal/internal/auth"
	"github.com/hirelane/jobportal/internal/domain"
	"github.com/hirelane/jobportal/internal/service"
	"github.com/hirelane/jobportal/pkg/health"
	"github.com/hirelane/jobportal/pkg/middleware"
)

// RouterConfig bundles the wiring the router needs beyond its handlers.
type RouterConfig struct {
	CORS             middleware.CORSConfig
	Cookie           SessionCookieConfig
	IdempotencyStore middleware.IdempotencyStore
	PprofCIDRs       []string
}

// NewRouter creates a chi router with all portal routes registered.
func NewRouter(
	authService *service.AuthService,
	roleService *service.RoleService,
	profileService *service.ProfileService,
	jwtManager *auth.JWTManager,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Tracing("jobportal"))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics("jobportal"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	middleware.RegisterPprof(r, cfg.PprofCIDRs, logger)

	// Token validator bridging the session middleware to the JWT manager.
	tokenValidator := func(token string) (*middleware.Claims, error) {
		claims, err := jwtManager.Validate(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			UserID: claims.UserID,
			Role:   claims.Role,
		}, nil
	}

	authHandler := NewAuthHandler(authService, cfg.Cookie, logger)
	roleHandler := NewRoleHandler(roleService, logger)
	profileHandler := NewProfileHandler(profileService, logger)

	// Auth endpoints (public)
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)

			// Account-creating endpoints are deduplicated by idempotency key
			// within a short window, so a rapid double submit cannot race the
			// email uniqueness constraint into a user-facing error.
			r.Group(func(r chi.Router) {
				r.Use(middleware.Idempotency(cfg.IdempotencyStore, logger))

				r.Post("/register", authHandler.Register)
				r.Post("/google-register", authHandler.GoogleRegister)
			})

			r.Post("/verify-email", authHandler.VerifyEmail)
			r.Post("/login", authHandler.Login)
			r.Post("/google-login", authHandler.GoogleLogin)
			r.Post("/forgot-password", authHandler.ForgotPassword)
			r.Post("/reset-password", authHandler.ResetPassword)
		})

		r.Post("/logout", authHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(tokenValidator))

			r.Get("/me", authHandler.Me)
		})
	})

	// Role registry: listing is public, mutation is admin-only.
	r.Route("/api/v1/roles", func(r chi.Router) {
		r.Get("/", roleHandler.List)
		r.Get("/{id}", roleHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(middleware.Session(tokenValidator))
			r.Use(middleware.RequireRole(domain.RoleAdmin))

			r.Post("/", roleHandler.Create)
			r.Put("/{id}", roleHandler.Update)
			r.Delete("/{id}", roleHandler.Delete)
		})
	})

	// Per-role profiles (auth required, gated by role).
	r.Route("/api/v1/profiles", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.Session(tokenValidator))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(domain.RoleJobseeker))

			r.Get("/seeker", profileHandler.GetSeekerProfile)
			r.Put("/seeker", profileHandler.UpsertSeekerProfile)
			r.Delete("/seeker", profileHandler.DeleteSeekerProfile)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(domain.RoleRecruiter))

			r.Get("/recruiter", profileHandler.GetRecruiterProfile)
			r.Put("/recruiter", profileHandler.UpsertRecruiterProfile)
			r.Delete("/recruiter", profileHandler.DeleteRecruiterProfile)
		})
	})

	return r
}
