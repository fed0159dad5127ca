package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Strob0t/SkillSprint/internal/middleware"
)

// MountRoutes registers all page routes on the given chi router. The
// router must already run middleware.Session. A nil limiter leaves the
// login and register forms unlimited.
func MountRoutes(r chi.Router, h *Handlers, limiter *middleware.RateLimiter) {
	limit := func(next http.Handler) http.Handler { return next }
	if limiter != nil {
		limit = limiter.Handler
	}

	r.Get("/health", h.Health)

	// Public pages
	r.Get("/", h.Index)
	r.Get("/register", h.RegisterPage)
	r.With(limit).Post("/register", h.Register)
	r.Get("/login", h.LoginPage)
	r.With(limit).Post("/login", h.Login)
	r.Get("/logout", h.Logout)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireLogin)

		r.Get("/dashboard", h.Dashboard)
		r.Get("/progress", h.ProgressPage)

		// Tasks
		r.Get("/tasks", h.TasksPage)
		r.Post("/tasks", h.CreateTask)
		r.Get("/task-toggle/{id}", h.ToggleTask)
		r.Get("/task-delete/{id}", h.DeleteTask)

		// Roadmaps
		r.Get("/roadmaps", h.RoadmapsPage)
		r.Get("/roadmap/create", h.CreateRoadmapPage)
		r.Post("/roadmap/create", h.CreateRoadmap)
		r.Get("/roadmap/done/{id}", h.MarkRoadmapItemDone)
		r.Get("/roadmap/delete/{name}", h.DeleteRoadmap)
		r.Get("/roadmap/export/{name}", h.ExportRoadmap)
	})
}
