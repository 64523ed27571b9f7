package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"taskboard/internal/auth"
	"taskboard/internal/config"
	"taskboard/internal/services"
)

// Server exposes the core operations over HTTP.
type Server struct {
	tasks     services.TaskService
	reporting services.ReportingService
	gate      *auth.Gate
	logger    *slog.Logger
}

// New creates a new Server instance with its dependencies injected.
func New(tasks services.TaskService, reporting services.ReportingService, logger *slog.Logger) *Server {
	return &Server{
		tasks:     tasks,
		reporting: reporting,
		gate:      auth.NewGate(),
		logger:    logger,
	}
}

// Router builds the chi router with all routes and middleware wired.
func (s *Server) Router(cfg *config.Config) *chi.Mux {
	resolver := auth.NewTokenResolver(cfg.Auth)

	r := chi.NewRouter()
	r.Use(requestLogger(s.logger))
	r.Use(actorMiddleware(resolver))

	r.Route("/api", func(r chi.Router) {
		r.Get("/hello", s.handleHello)
		r.Get("/secret", s.handleSecretMessage)

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", s.handleListTasks)
			r.Get("/recent", s.handleRecentTasks)
			r.Post("/", s.handleCreateTask)
			r.Patch("/{id}", s.handleUpdateTask)
			r.Patch("/{id}/status", s.handleUpdateStatus)
		})

		r.Get("/users", s.handleListUsers)
		r.Get("/projects", s.handleListProjects)
		r.Get("/stats", s.handleStats)
		r.Get("/team", s.handleTeamStats)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
