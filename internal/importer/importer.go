// Package importer moves workouts saved by the browser version of the app
// (the JSON value of its "workoutSave" localStorage key) into pintrack
// storage.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/claude/pintrack/internal/models"
	"github.com/claude/pintrack/internal/persist"
)

// Stats tracks import progress.
type Stats struct {
	Read       int
	Inserted   int
	Duplicated int
	Rejected   int

	RejectedEntries []int // positions in the export
}

// browserWorkout is one element of the browser's saved array. Derived
// fields (pace, speed, emoji) are present in exports but ignored.
type browserWorkout struct {
	ID            string     `json:"id"`
	Type          string     `json:"type"`
	Date          time.Time  `json:"date"`
	Coords        []float64  `json:"coords"`
	Distance      float64    `json:"distance"`
	Duration      float64    `json:"duration"`
	Cadence       *float64   `json:"cadence"`
	ElevationGain *float64   `json:"elevationGain"`
	Description   string     `json:"description"`
}

// Importer merges browser exports into the stored collection.
type Importer struct {
	persist *persist.Adapter
	log     *slog.Logger
	dryRun  bool
	stats   Stats
}

// New creates a new Importer.
func New(p *persist.Adapter, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{persist: p, log: log, dryRun: dryRun}
}

// Import parses data and appends every valid workout whose id is not
// stored yet. The merged collection is saved in creation order. Entries
// that fail validation are counted and skipped.
func (imp *Importer) Import(ctx context.Context, data []byte) (*Stats, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return &imp.stats, fmt.Errorf("parsing export: %w", err)
	}
	if raw == nil {
		return &imp.stats, fmt.Errorf("parsing export: not a workout list")
	}

	loaded, err := imp.persist.Load(ctx)
	if err != nil {
		return &imp.stats, err
	}
	if loaded.Warning != nil {
		// Saving would overwrite data that is still recoverable by hand.
		return &imp.stats, fmt.Errorf("stored workouts are unreadable, refusing to merge: %w", loaded.Warning)
	}

	merged := loaded.Workouts
	seen := make(map[string]bool, len(merged))
	for _, w := range merged {
		seen[w.ID] = true
	}

	for i, msg := range raw {
		imp.stats.Read++
		w, err := convert(msg)
		if err != nil {
			imp.stats.Rejected++
			imp.stats.RejectedEntries = append(imp.stats.RejectedEntries, i)
			imp.log.Warn("skipping workout", "index", i, "error", err)
			continue
		}
		if seen[w.ID] {
			imp.stats.Duplicated++
			continue
		}
		seen[w.ID] = true
		merged = append(merged, w)
		imp.stats.Inserted++
	}

	if imp.stats.Inserted == 0 || imp.dryRun {
		return &imp.stats, nil
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.Before(merged[j].CreatedAt)
	})
	if err := imp.persist.Save(ctx, merged); err != nil {
		return &imp.stats, err
	}
	return &imp.stats, nil
}

func convert(msg json.RawMessage) (*models.Workout, error) {
	var b browserWorkout
	if err := json.Unmarshal(msg, &b); err != nil {
		return nil, err
	}
	kind, err := models.ParseKind(b.Type)
	if err != nil {
		return nil, err
	}
	if len(b.Coords) != 2 {
		return nil, &models.ValidationError{Field: "coords", Reason: fmt.Sprintf("want [lat, lng], got %d values", len(b.Coords))}
	}
	return models.Restore(models.Snapshot{
		ID:             b.ID,
		Kind:           kind,
		CreatedAt:      b.Date,
		Coords:         models.Coordinates{Lat: b.Coords[0], Lng: b.Coords[1]},
		DistanceKm:     b.Distance,
		DurationMin:    b.Duration,
		CadenceSpm:     b.Cadence,
		ElevationGainM: b.ElevationGain,
		// The browser wrote "Running on  March 15".
		Description: strings.Join(strings.Fields(b.Description), " "),
	})
}
