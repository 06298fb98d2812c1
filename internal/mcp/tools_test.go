package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/claude/pintrack/internal/geo"
	"github.com/claude/pintrack/internal/kv"
	"github.com/claude/pintrack/internal/models"
	"github.com/claude/pintrack/internal/persist"
	"github.com/claude/pintrack/internal/session"
	"github.com/claude/pintrack/internal/view"
	"github.com/mark3labs/mcp-go/mcp"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testViews struct {
	Map  *view.Map
	Form *view.Form
	List *view.List
}

func newController(t *testing.T) (*session.Controller, testViews) {
	t.Helper()
	log := testLogger()
	v := testViews{Map: view.NewMap(), Form: view.NewForm(), List: view.NewList()}
	ctrl := session.New(context.Background(), session.Deps{
		Persist:  persist.New(kv.NewMemory(), "", log),
		Map:      v.Map,
		Form:     v.Form,
		Renderer: v.List,
		Now:      func() time.Time { return time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC) },
		Log:      log,
	})
	if err := ctrl.Locate(context.Background(), geo.Fixed{At: models.Coordinates{Lat: 40.7, Lng: -74}}); err != nil {
		t.Fatal(err)
	}
	return ctrl, v
}

func call(t *testing.T, fn func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	res, err := fn(context.Background(), req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty result")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content = %T, want TextContent", res.Content[0])
	}
	return tc.Text
}

// TestLogAndListWorkouts verifies log_workout creates a typed workout that
// list_workouts returns and filters by kind.
func TestLogAndListWorkouts(t *testing.T) {
	ctrl, _ := newController(t)
	h := &handlers{ds: Local{Ctrl: ctrl}, log: testLogger()}

	res := call(t, h.logWorkout, map[string]any{
		"lat": 40.71, "lng": -74.01, "type": "running", "distance": 5.2, "duration": 24.0, "cadence": 178.0,
	})
	if res.IsError {
		t.Fatalf("log_workout failed: %s", resultText(t, res))
	}
	var run view.WorkoutDetail
	if err := json.Unmarshal([]byte(resultText(t, res)), &run); err != nil {
		t.Fatal(err)
	}
	if run.Kind != models.KindRunning || run.PaceMinPerKm == nil {
		t.Fatalf("workout = %+v", run)
	}

	res = call(t, h.logWorkout, map[string]any{
		"lat": 40.72, "lng": -74.02, "type": "cycling", "distance": 20.0, "duration": 60.0, "elevation": 350.0,
	})
	if res.IsError {
		t.Fatalf("log_workout failed: %s", resultText(t, res))
	}

	res = call(t, h.listWorkouts, map[string]any{"kind": "cycling"})
	var list []view.WorkoutDetail
	if err := json.Unmarshal([]byte(resultText(t, res)), &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Kind != models.KindCycling || *list[0].SpeedKmPerH != 20 {
		t.Errorf("filtered list = %+v", list)
	}

	res = call(t, h.selectWorkout, map[string]any{"id": run.ID})
	var sel view.WorkoutDetail
	if err := json.Unmarshal([]byte(resultText(t, res)), &sel); err != nil {
		t.Fatal(err)
	}
	if sel.Clicks != 1 {
		t.Errorf("clicks = %d, want 1", sel.Clicks)
	}
}

// TestLogWorkoutRejectsBadInput verifies validation failures come back as
// tool errors, not protocol errors.
func TestLogWorkoutRejectsBadInput(t *testing.T) {
	ctrl, _ := newController(t)
	h := &handlers{ds: Local{Ctrl: ctrl}, log: testLogger()}

	tests := []struct {
		name string
		args map[string]any
	}{
		{"missing cadence", map[string]any{"lat": 1.0, "lng": 2.0, "type": "running", "distance": 5.0, "duration": 20.0}},
		{"negative elevation", map[string]any{"lat": 1.0, "lng": 2.0, "type": "cycling", "distance": 5.0, "duration": 20.0, "elevation": -1.0}},
		{"zero distance", map[string]any{"lat": 1.0, "lng": 2.0, "type": "running", "distance": 0.0, "duration": 20.0, "cadence": 170.0}},
		{"missing lat", map[string]any{"lng": 2.0, "type": "running", "distance": 5.0, "duration": 20.0, "cadence": 170.0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := call(t, h.logWorkout, tt.args)
			if !res.IsError {
				t.Errorf("expected tool error, got %s", resultText(t, res))
			}
		})
	}
	if n := len(ctrl.Workouts()); n != 0 {
		t.Errorf("store has %d workouts", n)
	}
}

// TestGetWorkoutNotFound verifies unknown ids produce a tool error.
func TestGetWorkoutNotFound(t *testing.T) {
	ctrl, _ := newController(t)
	h := &handlers{ds: Local{Ctrl: ctrl}, log: testLogger()}
	if res := call(t, h.getWorkout, map[string]any{"id": "nope"}); !res.IsError {
		t.Error("expected tool error")
	}
	if res := call(t, h.selectWorkout, map[string]any{}); !res.IsError {
		t.Error("expected tool error for missing id")
	}
}

// TestWorkoutsResource verifies the resource returns the list as JSON.
func TestWorkoutsResource(t *testing.T) {
	ctrl, _ := newController(t)
	h := &handlers{ds: Local{Ctrl: ctrl}, log: testLogger()}

	req := mcp.ReadResourceRequest{}
	req.Params.URI = "pintrack://workouts"
	contents, err := h.workouts(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	text, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("contents = %T", contents[0])
	}
	if text.Text != "[]" {
		t.Errorf("text = %q, want []", text.Text)
	}
}

// TestNewRegistersTools verifies the server builds without panicking.
func TestNewRegistersTools(t *testing.T) {
	ctrl, _ := newController(t)
	if s := New(Local{Ctrl: ctrl}, "test", testLogger()); s == nil {
		t.Fatal("New returned nil")
	}
}
