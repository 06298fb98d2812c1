// Package session wires user events to the workout model, the in-memory
// store and persistence.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/claude/pintrack/internal/models"
	"github.com/claude/pintrack/internal/store"
)

// Notice is a message shown to the user.
type Notice struct {
	Level   string    `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Deps are the collaborators a Controller drives.
type Deps struct {
	Persist  Persister
	Map      Map
	Form     Form
	Renderer Renderer
	Zoom     int
	Now      func() time.Time
	Log      *slog.Logger
}

// Controller owns the workout store for one session. Every event runs under
// a single lock, so callers on different goroutines see one event at a time.
type Controller struct {
	mu sync.Mutex

	persist  Persister
	mapView  Map
	form     Form
	renderer Renderer
	zoom     int
	now      func() time.Time
	log      *slog.Logger

	workouts *store.Store
	pending  *models.Coordinates
	located  bool
	notices  []Notice

	// loadFailed is set while the stored collection could not be read.
	// Saving then would replace workouts that are still on disk.
	loadFailed bool
}

// New creates a Controller and loads the saved workouts.
func New(ctx context.Context, d Deps) *Controller {
	if d.Zoom == 0 {
		d.Zoom = DefaultZoom
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	c := &Controller{
		persist:  d.Persist,
		mapView:  d.Map,
		form:     d.Form,
		renderer: d.Renderer,
		zoom:     d.Zoom,
		now:      d.Now,
		log:      d.Log,
		workouts: store.New(),
	}

	c.form.Reset()
	c.form.Hide()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.load(ctx)
	return c
}

// load replaces the store with the persisted workouts and draws them.
func (c *Controller) load(ctx context.Context) {
	res, err := c.persist.Load(ctx)
	c.loadFailed = err != nil
	switch {
	case err != nil:
		c.log.Warn("loading saved workouts failed", "error", err)
		c.notify("warn", "Saved workouts could not be loaded")
	case res.Warning != nil:
		c.notify("warn", "Saved workouts could not be read and were discarded")
	}

	c.workouts.ReplaceAll(res.Workouts)
	for _, w := range c.workouts.All() {
		c.draw(w)
	}
	c.log.Info("workouts loaded", "count", c.workouts.Len())
}

// Locate asks loc for the user's position and initializes the map with it.
// Only the first call requests a position.
func (c *Controller) Locate(ctx context.Context, loc Locator) error {
	c.mu.Lock()
	if c.located {
		c.mu.Unlock()
		return ErrAlreadyLocated
	}
	c.located = true
	c.mu.Unlock()

	pos, err := loc.RequestPosition(ctx)
	if err == nil && !pos.Valid() {
		err = fmt.Errorf("invalid position %v", pos)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.log.Warn("geolocation failed", "error", err)
		c.notify("error", "Could not get your position")
		return &GeolocationError{Err: err}
	}

	c.log.Info("map initialized", "lat", pos.Lat, "lng", pos.Lng, "zoom", c.zoom)
	c.mapView.Init(pos, c.zoom)
	for _, w := range c.workouts.All() {
		c.drawMarker(w)
	}
	return nil
}

// MapClick remembers where the user clicked and opens the form.
func (c *Controller) MapClick(at models.Coordinates) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.mapView.Ready() {
		return ErrMapUnavailable
	}
	if !at.Valid() {
		return &models.ValidationError{Field: "coords", Reason: "must be finite"}
	}
	c.pending = &at
	c.form.Show()
	return nil
}

// Submit validates the form, creates the workout, stores, saves and draws it.
// On any error nothing is changed.
func (c *Controller) Submit(ctx context.Context, v FormValues) (models.Workout, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending == nil {
		return models.Workout{}, ErrNoPendingLocation
	}
	if c.loadFailed {
		c.notify("error", "Saved workouts are unavailable, reload before adding more")
		return models.Workout{}, ErrStorageUnavailable
	}

	w, err := c.build(*c.pending, v)
	if err != nil {
		var ve *models.ValidationError
		if errors.As(err, &ve) {
			c.notify("error", "Inputs have to be positive numbers!")
		}
		return models.Workout{}, err
	}

	prev := c.workouts.All()
	c.workouts.Append(w)
	if err := c.persist.Save(ctx, c.workouts.All()); err != nil {
		c.workouts.ReplaceAll(prev)
		c.log.Error("saving workouts failed", "error", err)
		c.notify("error", "Workout could not be saved")
		return models.Workout{}, err
	}

	c.draw(w)
	c.form.Reset()
	c.form.Hide()
	c.pending = nil

	c.log.Info("workout created", "id", w.ID, "kind", w.Kind, "description", w.Description)
	return w.Copy(), nil
}

func (c *Controller) build(at models.Coordinates, v FormValues) (*models.Workout, error) {
	kind, err := models.ParseKind(strings.TrimSpace(v.Type))
	if err != nil {
		return nil, err
	}
	distance, err := parseField("distance", v.Distance)
	if err != nil {
		return nil, err
	}
	duration, err := parseField("duration", v.Duration)
	if err != nil {
		return nil, err
	}

	switch kind {
	case models.KindRunning:
		cadence, err := parseField("cadence", v.Cadence)
		if err != nil {
			return nil, err
		}
		return models.NewRunning(at, distance, duration, cadence, c.now())
	default:
		elevation, err := parseField("elevation", v.Elevation)
		if err != nil {
			return nil, err
		}
		return models.NewCycling(at, distance, duration, elevation, c.now())
	}
}

func parseField(field, raw string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, &models.ValidationError{Field: field, Reason: fmt.Sprintf("%q is not a number", raw)}
	}
	return f, nil
}

// Select marks a workout as viewed and moves the map to it.
func (c *Controller) Select(id string) (models.Workout, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	w, ok := c.workouts.FindByID(id)
	if !ok {
		return models.Workout{}, ErrWorkoutNotFound
	}
	clicks := w.Click()
	c.log.Debug("workout selected", "id", id, "clicks", clicks)

	if c.mapView.Ready() {
		c.mapView.Recenter(w.Coords, c.zoom, Animation{Animate: true, PanDuration: time.Second})
	}
	return w.Copy(), nil
}

// Reset deletes the saved workouts and starts over from an empty session.
func (c *Controller) Reset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.persist.Clear(ctx); err != nil {
		return err
	}
	c.workouts.Reset()
	c.mapView.ClearMarkers()
	c.renderer.Clear()
	c.form.Reset()
	c.form.Hide()
	c.pending = nil
	c.notices = nil
	c.log.Info("session reset")

	c.load(ctx)
	return nil
}

// Reload redraws the session from storage without deleting anything, for
// picking up workouts written by another process or retrying a failed load.
// View counts start over.
func (c *Controller) Reload(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.workouts.Reset()
	c.mapView.ClearMarkers()
	c.renderer.Clear()
	c.load(ctx)
	if c.loadFailed {
		return ErrStorageUnavailable
	}
	return nil
}

// Workouts returns detached copies of the stored workouts in creation order.
func (c *Controller) Workouts() []models.Workout {
	c.mu.Lock()
	defer c.mu.Unlock()

	all := c.workouts.All()
	out := make([]models.Workout, len(all))
	for i, w := range all {
		out[i] = w.Copy()
	}
	return out
}

// Workout returns a copy of the workout with the given id.
func (c *Controller) Workout(id string) (models.Workout, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	w, ok := c.workouts.FindByID(id)
	if !ok {
		return models.Workout{}, false
	}
	return w.Copy(), true
}

// Notices returns the messages raised so far.
func (c *Controller) Notices() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Notice(nil), c.notices...)
}

func (c *Controller) notify(level, msg string) {
	c.notices = append(c.notices, Notice{Level: level, Message: msg, At: c.now()})
}

func (c *Controller) draw(w *models.Workout) {
	c.renderer.Render(w)
	c.drawMarker(w)
}

// drawMarker is a no-op until the map exists; Locate draws the backlog.
func (c *Controller) drawMarker(w *models.Workout) {
	if !c.mapView.Ready() {
		return
	}
	c.mapView.AddMarker(w.Coords, w.Kind.Emoji()+" "+w.Description, string(w.Kind)+"-popup")
}
