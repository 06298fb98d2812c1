package session

import (
	"context"
	"time"

	"github.com/claude/pintrack/internal/models"
	"github.com/claude/pintrack/internal/persist"
)

// DefaultZoom is the map zoom used on load and when recentering.
const DefaultZoom = 13

// Animation describes how the map moves when recentering.
type Animation struct {
	Animate     bool
	PanDuration time.Duration
}

// Map is the map widget.
type Map interface {
	// Init shows the map centred on center. Markers can be added afterwards.
	Init(center models.Coordinates, zoom int)
	Ready() bool
	AddMarker(at models.Coordinates, popup, class string)
	Recenter(at models.Coordinates, zoom int, anim Animation)
	ClearMarkers()
}

// Form is the workout entry form.
type Form interface {
	Show()
	Hide()
	// Reset clears every field and selects the running type.
	Reset()
}

// Renderer draws workouts in the list.
type Renderer interface {
	Render(w *models.Workout)
	Clear()
}

// Locator resolves the user's position once.
type Locator interface {
	RequestPosition(ctx context.Context) (models.Coordinates, error)
}

// Persister saves and restores the workout collection.
type Persister interface {
	Save(ctx context.Context, ws []*models.Workout) error
	Load(ctx context.Context) (persist.LoadResult, error)
	Clear(ctx context.Context) error
}

// FormValues are the raw field values of a submitted form.
type FormValues struct {
	Type      string `json:"type"`
	Distance  string `json:"distance"`
	Duration  string `json:"duration"`
	Cadence   string `json:"cadence"`
	Elevation string `json:"elevation"`
}
