package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/claude/pintrack/internal/models"
	"github.com/claude/pintrack/internal/session"
	"github.com/claude/pintrack/internal/view"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, view.Details(s.ctrl.Workouts()))
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	wo, ok := s.ctrl.Workout(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
		return
	}
	writeJSON(w, http.StatusOK, view.Detail(wo))
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.views.Map.State())
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.views.Form.State())
}

func (s *Server) handleNotices(w http.ResponseWriter, r *http.Request) {
	notices := s.ctrl.Notices()
	if notices == nil {
		notices = []session.Notice{}
	}
	writeJSON(w, http.StatusOK, notices)
}

func (s *Server) handleMapClick(w http.ResponseWriter, r *http.Request) {
	var at models.Coordinates
	if err := json.NewDecoder(r.Body).Decode(&at); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := s.ctrl.MapClick(at); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.views.Form.State())
}

func (s *Server) handleFormType(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Type string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	kind, err := models.ParseKind(body.Type)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.views.Form.SetType(kind)
	writeJSON(w, http.StatusOK, s.views.Form.State())
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var v session.FormValues
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	s.views.Form.Fill(v)

	wo, err := s.ctrl.Submit(r.Context(), v)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view.Detail(wo))
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	wo, err := s.ctrl.Select(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view.Detail(wo))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.ctrl.Reset(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.ctrl.Reload(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view.Details(s.ctrl.Workouts()))
}

// writeError maps session and model errors to HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error(), "field": ve.Field})
	case errors.Is(err, session.ErrWorkoutNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, session.ErrNoPendingLocation), errors.Is(err, session.ErrMapUnavailable):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, session.ErrStorageUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	default:
		s.log.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
