package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/pintrack/internal/session"
	"github.com/claude/pintrack/internal/view"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Views are the rendered collaborators the session controller draws into.
type Views struct {
	Map  *view.Map
	Form *view.Form
	List *view.List
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	ctrl   *session.Controller
	views  Views
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(ctrl *session.Controller, views Views, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		ctrl:   ctrl,
		views:  views,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Get("/api/v1/workouts", s.handleListWorkouts)
	s.router.Get("/api/v1/workouts/{id}", s.handleGetWorkout)
	s.router.Get("/api/v1/map", s.handleMap)
	s.router.Get("/api/v1/form", s.handleForm)
	s.router.Get("/api/v1/notices", s.handleNotices)

	// Events that change the session (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/map/click", s.handleMapClick)
		r.Post("/api/v1/form/type", s.handleFormType)
		r.Post("/api/v1/workouts", s.handleSubmit)
		r.Post("/api/v1/workouts/{id}/select", s.handleSelect)
		r.Post("/api/v1/reload", s.handleReload)
		r.Post("/api/v1/reset", s.handleReset)
	})
}
