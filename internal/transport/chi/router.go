package chi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/kailas-cloud/estaterec/internal/metrics"
)

// RouterConfig holds cross-cutting HTTP settings.
type RouterConfig struct {
	AllowedOrigins []string
	LoginRequests  int
	LoginWindow    time.Duration
}

// NewRouter mounts the API on a chi router.
func NewRouter(s *Server, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(jsonRecoverer(s.logger))
	r.Use(wideEventMiddleware(s.logger))
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	r.Use(metrics.Middleware())

	r.Get("/health", s.Health)
	r.Get("/metrics", s.Metrics)

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", s.Register)
		r.With(loginLimiter(cfg)).Post("/login", s.Login)
		r.Post("/logout", s.Logout)

		r.Group(func(r chi.Router) {
			r.Use(s.RequireSession)
			r.Post("/upload", s.Upload)
			r.Post("/recommendations", s.Recommendations)
			r.Post("/feedback", s.SubmitFeedback)
			r.Get("/feedback", s.ListFeedback)
			r.Get("/feedback/{property_id}", s.GetFeedback)
			r.Get("/properties", s.ListProperties)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

// loginLimiter caps login attempts per client IP. A non-positive limit disables it.
func loginLimiter(cfg RouterConfig) func(http.Handler) http.Handler {
	if cfg.LoginRequests <= 0 || cfg.LoginWindow <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(cfg.LoginRequests, cfg.LoginWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			writeError(w, http.StatusTooManyRequests, "too many login attempts")
		}),
	)
}
