package mcp

import (
	"context"

	"github.com/claude/pintrack/internal/models"
	"github.com/claude/pintrack/internal/session"
	"github.com/claude/pintrack/internal/view"
)

// DataSource abstracts the session for MCP tools. Local drives an in-process
// controller; HTTPClient drives a running pintrack server.
type DataSource interface {
	ListWorkouts(ctx context.Context) ([]view.WorkoutDetail, error)
	GetWorkout(ctx context.Context, id string) (view.WorkoutDetail, error)
	LogWorkout(ctx context.Context, at models.Coordinates, v session.FormValues) (view.WorkoutDetail, error)
	SelectWorkout(ctx context.Context, id string) (view.WorkoutDetail, error)
}

// Local is a DataSource over an in-process session controller.
type Local struct {
	Ctrl *session.Controller
}

// Compile-time check: Local satisfies DataSource.
var _ DataSource = Local{}

func (l Local) ListWorkouts(context.Context) ([]view.WorkoutDetail, error) {
	return view.Details(l.Ctrl.Workouts()), nil
}

func (l Local) GetWorkout(_ context.Context, id string) (view.WorkoutDetail, error) {
	w, ok := l.Ctrl.Workout(id)
	if !ok {
		return view.WorkoutDetail{}, session.ErrWorkoutNotFound
	}
	return view.Detail(w), nil
}

// LogWorkout replays a map click at at followed by a form submit.
func (l Local) LogWorkout(ctx context.Context, at models.Coordinates, v session.FormValues) (view.WorkoutDetail, error) {
	if err := l.Ctrl.MapClick(at); err != nil {
		return view.WorkoutDetail{}, err
	}
	w, err := l.Ctrl.Submit(ctx, v)
	if err != nil {
		return view.WorkoutDetail{}, err
	}
	return view.Detail(w), nil
}

func (l Local) SelectWorkout(_ context.Context, id string) (view.WorkoutDetail, error) {
	w, err := l.Ctrl.Select(id)
	if err != nil {
		return view.WorkoutDetail{}, err
	}
	return view.Detail(w), nil
}
