// Package api provides the JSON HTTP API of cmt.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MohamedAbusurra/CS438class/internal/app"
	identityDomain "github.com/MohamedAbusurra/CS438class/internal/identity/domain"
)

// Server is the HTTP API server.
type Server struct {
	router chi.Router
	server *http.Server
	logger *slog.Logger
	app    *app.Container
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:         "0.0.0.0:8080",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewServer creates the API server over the application container.
func NewServer(cfg ServerConfig, c *app.Container, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		router: chi.NewRouter(),
		logger: logger,
		app:    c,
	}
	s.registerRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) registerRoutes() {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestContext)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.app.Health.Handler().ServeHTTP)
	if s.app.Prometheus != nil {
		r.Handle("/metrics", s.app.Prometheus.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.register)
		r.Post("/auth/login", s.login)
		r.Post("/auth/tokens/consume", s.consumeAuthToken)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			// Reads and task writes need any signed-in member.
			r.Group(func(r chi.Router) {
				r.Use(s.requireRole(identityDomain.RoleTeamMember))

				r.Get("/projects", s.listProjects)
				r.Get("/projects/{id}", s.getProject)
				r.Get("/projects/{id}/progress", s.projectProgress)
				r.Get("/projects/{id}/milestones", s.projectMilestones)
				r.Get("/projects/{id}/active-milestone", s.activeMilestone)
				r.Get("/projects/{id}/tasks", s.projectTasks)
				r.Get("/projects/{id}/files", s.projectFiles)
				r.Get("/projects/{id}/reports", s.projectReports)

				r.Get("/milestones/{id}", s.getMilestone)
				r.Get("/milestones/{id}/tasks", s.milestoneTasks)

				r.Post("/projects/{id}/tasks", s.createTask)
				r.Get("/tasks/{id}", s.getTask)
				r.Patch("/tasks/{id}", s.updateTask)
				r.Delete("/tasks/{id}", s.deleteTask)

				r.Get("/reports/{id}", s.getReport)
				r.Get("/reports/{id}/status", s.reportStatus)
				r.Get("/reports/{id}/download", s.downloadReport)

				r.Post("/projects/{id}/files", s.uploadFile)
				r.Get("/files/{id}", s.getFile)
				r.Get("/files/{id}/download", s.downloadFile)
				r.Post("/files/{id}/versions", s.uploadFileVersion)
				r.Delete("/files/{id}", s.deleteFile)

				r.Post("/messages", s.sendMessage)
				r.Get("/messages/unread", s.unreadMessages)
				r.Get("/messages/conversation/{userID}", s.conversation)
				r.Post("/messages/{id}/read", s.markMessageRead)

				r.Get("/notifications", s.listNotifications)
				r.Get("/notifications/unread", s.unreadNotifications)
				r.Post("/notifications/{id}/read", s.markNotificationRead)
				r.Post("/notifications/read-all", s.markAllNotificationsRead)

				r.Post("/auth/tokens", s.issueAuthToken)
				r.Put("/users/{id}/role", s.assignRole)
			})

			r.Group(func(r chi.Router) {
				r.Use(s.requireRole(identityDomain.RoleProjectManager))

				r.Post("/projects", s.createProject)
				r.Patch("/projects/{id}", s.updateProject)
				r.Delete("/projects/{id}", s.deleteProject)
				r.Post("/projects/{id}/milestones", s.addMilestone)
				r.Post("/projects/{id}/milestones/progress", s.updateMilestoneProgress)
				r.Patch("/milestones/{id}", s.updateMilestone)
				r.Delete("/milestones/{id}", s.deleteMilestone)
				r.Post("/milestones/{id}/recompute", s.recomputeMilestone)
				r.Put("/tasks/{id}/milestone", s.linkTask)
				r.Post("/projects/{id}/reports", s.requestReport)
			})
		})
	})
}

// Start starts the API server.
func (s *Server) Start() error {
	s.logger.Info("starting API server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	return s.server.Shutdown(ctx)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error":   http.StatusText(status),
		"message": message,
	})
}

// APIError represents an API error.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Common API errors
var (
	ErrBadRequest = &APIError{
		Status:  http.StatusBadRequest,
		Code:    "bad_request",
		Message: "Invalid request",
	}
	ErrUnauthorized = &APIError{
		Status:  http.StatusUnauthorized,
		Code:    "unauthorized",
		Message: "Authentication required",
	}
	ErrForbidden = &APIError{
		Status:  http.StatusForbidden,
		Code:    "forbidden",
		Message: "Insufficient role",
	}
	ErrNotFound = &APIError{
		Status:  http.StatusNotFound,
		Code:    "not_found",
		Message: "Resource not found",
	}
	ErrConflict = &APIError{
		Status:  http.StatusConflict,
		Code:    "conflict",
		Message: "Resource is not in the required state",
	}
	ErrInternalServer = &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "Internal server error",
	}
)
