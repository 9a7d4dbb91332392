package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	"github.com/erazemk/dailycost/internal/metrics"
	"github.com/erazemk/dailycost/internal/service"
)

// Config holds the options for NewRouter.
type Config struct {
	// CORSOrigins is a comma-separated list of allowed origins.
	CORSOrigins string
	// LoginRateLimit caps login attempts per client IP per minute. 0 uses 10.
	LoginRateLimit int
	IsDevelopment  bool
	Logger         *slog.Logger
	// Metrics is optional. When set, requests are instrumented and /metrics is served.
	Metrics *metrics.Metrics
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(svc *service.Service, cfg Config) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.LoginRateLimit <= 0 {
		cfg.LoginRateLimit = 10
	}

	sec := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "no-referrer",
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		IsDevelopment:         cfg.IsDevelopment,
	})

	authHandler := &AuthHandler{Service: svc, Metrics: cfg.Metrics}
	itemsHandler := &ItemsHandler{Service: svc}
	tagsHandler := &TagsHandler{Service: svc}
	authMW := AuthMiddleware(svc)

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer,
		sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle,
		middleware.RequestID,
		middleware.RealIP,
		LoggingMiddleware(cfg.Logger),
	)
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}
	r.Use(
		corsMiddleware(cfg.CORSOrigins),
		sec.Handler,
	)

	r.Get("/healthz", healthHandler(svc))
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(requestBodyLimit(1 << 20))

		// Public: login.
		r.With(httprate.LimitByIP(cfg.LoginRateLimit, time.Minute)).
			Post("/auth/login", authHandler.Login)

		// Authenticated routes.
		r.Group(func(r chi.Router) {
			r.Use(authMW)

			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/user", authHandler.CurrentUser)
			r.Put("/user/password", authHandler.ChangePassword)
			r.Put("/user/username", authHandler.ChangeUsername)

			r.Get("/items", itemsHandler.List)
			r.Post("/items", itemsHandler.Create)
			r.Get("/items/{id}", itemsHandler.Get)
			r.Put("/items/{id}", itemsHandler.Update)
			r.Delete("/items/{id}", itemsHandler.Delete)
			r.Post("/items/{id}/archive", itemsHandler.Archive)
			r.Post("/items/{id}/unarchive", itemsHandler.Unarchive)
			r.Get("/items/{id}/tags", itemsHandler.Tags)
			r.Put("/items/{id}/tags", itemsHandler.ReplaceTags)

			r.Get("/tags", tagsHandler.List)
			r.Post("/tags", tagsHandler.Create)
			r.Get("/tags/{id}", tagsHandler.Get)
			r.Put("/tags/{id}", tagsHandler.Update)
			r.Delete("/tags/{id}", tagsHandler.Delete)
			r.Get("/tags/{id}/items", tagsHandler.Items)
		})
	})

	return r
}

// corsMiddleware allows the given comma-separated origins. An empty list
// allows any origin.
func corsMiddleware(allowedOrigins string) func(http.Handler) http.Handler {
	var origins []string
	for _, o := range strings.Split(allowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	})
}

func requestBodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// healthHandler reports whether the database answers a ping.
func healthHandler(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := svc.Ping(ctx); err != nil {
			slog.WarnContext(ctx, "health check failed", "error", err)
			jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
