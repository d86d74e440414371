package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/itchan-dev/postboard/backend/internal/setup"
	mw "github.com/itchan-dev/postboard/shared/middleware"
	"github.com/itchan-dev/postboard/shared/middleware/metrics"
)

// New creates a chi router with all the routes.
// Rate limiters are per IP and only guard the two create endpoints.
func New(deps *setup.Dependencies) http.Handler {
	cfg := deps.Config
	h := deps.Handler

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Public.CorsAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))
	r.Use(mw.SecurityHeaders(cfg.Public.SecureHeadersHTTPS))

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(cfg.StoreTimeoutOrDefault()))

		r.With(mw.RateLimit(deps.CreateUserLimiter, mw.GetIP)).Post("/users", h.CreateUser)
		r.Get("/users/{userId}", h.GetUser)

		r.With(mw.RateLimit(deps.CreatePostLimiter, mw.GetIP)).Post("/posts", h.CreatePost)
		r.Get("/posts", h.GetPosts)
		r.Get("/posts/{postId}", h.GetPost)
		r.Put("/posts/{postId}", h.UpdatePost)
		r.Delete("/posts/{postId}", h.DeletePost)

		if cfg.Public.EnableReset {
			r.Post("/admin/reset", h.Reset)
		}
	})

	return r
}
