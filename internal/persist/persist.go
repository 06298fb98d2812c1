package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/claude/pintrack/internal/kv"
	"github.com/claude/pintrack/internal/models"
)

// DefaultKey is the key the whole workout collection is stored under.
const DefaultKey = "workoutSave"

// DecodeError reports a stored value that could not be turned back into
// workouts. Loads that hit one come back empty.
type DecodeError struct {
	Index int // entry position, -1 when the blob itself is unreadable
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("decoding saved workouts: %v", e.Err)
	}
	return fmt.Sprintf("decoding saved workout %d: %v", e.Index, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// entry is the stored shape of one workout. Pace and speed are written for
// readability and never read back.
type entry struct {
	ID             string      `json:"id"`
	Kind           models.Kind `json:"kind"`
	CreatedAt      time.Time   `json:"createdAt"`
	Coords         []float64   `json:"coords"`
	DistanceKm     float64     `json:"distanceKm"`
	DurationMin    float64     `json:"durationMin"`
	CadenceSpm     *float64    `json:"cadenceSpm,omitempty"`
	ElevationGainM *float64    `json:"elevationGainM,omitempty"`
	Description    string      `json:"description"`
	PaceMinPerKm   *float64    `json:"paceMinPerKm,omitempty"`
	SpeedKmPerH    *float64    `json:"speedKmPerH,omitempty"`
}

// LoadResult is the outcome of Load. Warning is set when a stored value
// existed but was discarded.
type LoadResult struct {
	Workouts []*models.Workout
	Warning  *DecodeError
}

// Adapter saves and restores the workout collection through a kv.Store.
type Adapter struct {
	kv  kv.Store
	key string
	log *slog.Logger
}

// New creates an Adapter storing under key (DefaultKey when empty).
func New(store kv.Store, key string, log *slog.Logger) *Adapter {
	if key == "" {
		key = DefaultKey
	}
	return &Adapter{kv: store, key: key, log: log}
}

// Save overwrites the stored collection with ws.
func (a *Adapter) Save(ctx context.Context, ws []*models.Workout) error {
	data, err := Encode(ws)
	if err != nil {
		return err
	}
	if err := a.kv.Set(ctx, a.key, string(data)); err != nil {
		return fmt.Errorf("saving workouts: %w", err)
	}
	return nil
}

// Load reads the stored collection. A missing key yields an empty result.
// A value that fails to decode yields an empty result with a Warning; the
// returned error is reserved for the kv store itself failing.
func (a *Adapter) Load(ctx context.Context) (LoadResult, error) {
	raw, ok, err := a.kv.Get(ctx, a.key)
	if err != nil {
		return LoadResult{}, fmt.Errorf("loading workouts: %w", err)
	}
	if !ok {
		return LoadResult{}, nil
	}

	ws, derr := Decode([]byte(raw))
	if derr != nil {
		a.log.Warn("discarding saved workouts", "key", a.key, "error", derr)
		return LoadResult{Warning: derr}, nil
	}
	return LoadResult{Workouts: ws}, nil
}

// Clear removes the stored collection.
func (a *Adapter) Clear(ctx context.Context) error {
	if err := a.kv.Delete(ctx, a.key); err != nil {
		return fmt.Errorf("clearing workouts: %w", err)
	}
	return nil
}

// Encode serializes ws in order.
func Encode(ws []*models.Workout) ([]byte, error) {
	entries := make([]entry, 0, len(ws))
	for _, w := range ws {
		s := w.Snapshot()
		e := entry{
			ID:             s.ID,
			Kind:           s.Kind,
			CreatedAt:      s.CreatedAt,
			Coords:         []float64{s.Coords.Lat, s.Coords.Lng},
			DistanceKm:     s.DistanceKm,
			DurationMin:    s.DurationMin,
			CadenceSpm:     s.CadenceSpm,
			ElevationGainM: s.ElevationGainM,
			Description:    s.Description,
		}
		switch w.Kind {
		case models.KindRunning:
			p := w.Running.PaceMinPerKm
			e.PaceMinPerKm = &p
		case models.KindCycling:
			v := w.Cycling.SpeedKmPerH
			e.SpeedKmPerH = &v
		}
		entries = append(entries, e)
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("encoding workouts: %w", err)
	}
	return data, nil
}

// Decode rebuilds typed workouts from data. Every entry is dispatched on its
// kind and reconstructed through models.Restore; if any entry fails, nothing
// is returned.
func Decode(data []byte) ([]*models.Workout, *DecodeError) {
	var entries []entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, &DecodeError{Index: -1, Err: err}
	}
	if entries == nil {
		// "null" decodes without error but is not a list.
		return nil, &DecodeError{Index: -1, Err: fmt.Errorf("not a workout list")}
	}

	out := make([]*models.Workout, 0, len(entries))
	for i, e := range entries {
		if len(e.Coords) != 2 {
			return nil, &DecodeError{Index: i, Err: fmt.Errorf("coords must be [lat, lng], got %d values", len(e.Coords))}
		}
		w, err := models.Restore(models.Snapshot{
			ID:             e.ID,
			Kind:           e.Kind,
			CreatedAt:      e.CreatedAt,
			Coords:         models.Coordinates{Lat: e.Coords[0], Lng: e.Coords[1]},
			DistanceKm:     e.DistanceKm,
			DurationMin:    e.DurationMin,
			CadenceSpm:     e.CadenceSpm,
			ElevationGainM: e.ElevationGainM,
			Description:    e.Description,
		})
		if err != nil {
			return nil, &DecodeError{Index: i, Err: err}
		}
		out = append(out, w)
	}
	return out, nil
}
