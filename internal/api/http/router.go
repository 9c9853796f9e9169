package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/freelance-marketplace/internal/api/http/handlers"
	"github.com/spec-kit/freelance-marketplace/internal/auth"
	"github.com/spec-kit/freelance-marketplace/internal/domain"
	"github.com/spec-kit/freelance-marketplace/internal/storage"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Metrics        *handlers.MetricsHandler
	Users          *handlers.UsersHandler
	Profile        *handlers.ProfileHandler
	Jobs           *handlers.JobsHandler
	Messages       *handlers.MessagesHandler
	AuthMiddleware *auth.AuthMiddleware
	// UploadDir is served statically under storage.PublicPrefix when set.
	UploadDir string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	if cfg.Health != nil {
		app.Get("/health/live", cfg.Health.Live)
		app.Get("/health/ready", cfg.Health.Ready)
	}
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics.Snapshot)
	}
	if cfg.UploadDir != "" {
		app.Static(storage.PublicPrefix, cfg.UploadDir, fiber.Static{Browse: false})
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	authenticated := cfg.AuthMiddleware.Handle

	app.Get("/profile", authenticated, cfg.Profile.Get)
	app.Put("/profile", authenticated, cfg.Profile.Update)

	jobs := app.Group("/jobs")
	jobs.Get("/", cfg.Jobs.ListOpenJobs)
	jobs.Post("/", authenticated, auth.RequireRole(domain.RoleClient), cfg.Jobs.CreateJob)
	jobs.Get("/:id", cfg.Jobs.GetJob)
	jobs.Get("/:id/history", authenticated, cfg.Jobs.History)
	jobs.Post("/:id/hire", authenticated, auth.RequireRole(domain.RoleFreelancer), cfg.Jobs.Hire)

	messages := app.Group("/messages", authenticated)
	messages.Post("/", cfg.Messages.Send)
	messages.Get("/:jobId", cfg.Messages.List)
}
