package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"workasana/internal/config"
	"workasana/internal/handler"
	"workasana/internal/middleware"
)

type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Team    *handler.TeamHandler
	Project *handler.ProjectHandler
	Task    *handler.TaskHandler
	Tag     *handler.TagHandler
	Report  *handler.ReportHandler
	Health  *handler.HealthHandler
}

func New(cfg *config.Config, auth *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimit := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	// The weak identity tier runs before the limiter so authenticated
	// clients get per-user buckets even on pre-auth failures.
	r.Use(auth.ExtractUserID)
	r.Use(rateLimit.Handler)

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.With(auth.OptionalAuth, middleware.UserContextHeaders).Get("/health", h.Health.Check)

		api.Route("/auth", func(ar chi.Router) {
			ar.Post("/signup", h.Auth.Signup)
			ar.Post("/login", h.Auth.Login)
			ar.With(auth.Authenticate, middleware.RequireAuth, middleware.UserContextHeaders).Get("/me", h.Auth.Me)
		})

		protected := api.With(auth.Authenticate, middleware.RequireAuth, middleware.UserContextHeaders)

		protected.Get("/users", h.User.List)

		protected.Post("/teams", h.Team.Create)
		protected.Get("/teams", h.Team.List)

		protected.Post("/projects", h.Project.Create)
		protected.Get("/projects", h.Project.List)

		protected.Post("/tasks", h.Task.Create)
		protected.Get("/tasks", h.Task.List)
		protected.Put("/tasks/{id}", h.Task.Update)
		protected.Delete("/tasks/{id}", h.Task.Delete)

		protected.Post("/tags", h.Tag.Create)
		protected.Get("/tags", h.Tag.List)

		// Reports stack the partial checks in front of the full
		// pipeline; each stage is idempotent and the grant still
		// requires the complete chain to pass.
		reports := api.With(
			auth.ValidateTokenFormat,
			auth.Authenticate,
			auth.CheckTokenExpiration,
			middleware.RequireAuth,
			middleware.UserContextHeaders,
		)
		reports.Get("/report/last-week", h.Report.LastWeek)
		reports.Get("/report/pending", h.Report.Pending)
		reports.Get("/report/closed-tasks", h.Report.ClosedTasks)
	})

	return r
}
