package view

import (
	"time"

	"github.com/claude/pintrack/internal/models"
)

// WorkoutDetail is the API shape of a workout.
type WorkoutDetail struct {
	ID             string             `json:"id"`
	Kind           models.Kind        `json:"kind"`
	CreatedAt      time.Time          `json:"created_at"`
	Coords         models.Coordinates `json:"coords"`
	DistanceKm     float64            `json:"distance_km"`
	DurationMin    float64            `json:"duration_min"`
	Description    string             `json:"description"`
	CadenceSpm     *float64           `json:"cadence_spm,omitempty"`
	PaceMinPerKm   *float64           `json:"pace_min_per_km,omitempty"`
	ElevationGainM *float64           `json:"elevation_gain_m,omitempty"`
	SpeedKmPerH    *float64           `json:"speed_km_per_h,omitempty"`
	Clicks         int                `json:"clicks"`
	Entry          Entry              `json:"entry"`
}

// Detail converts w for the API.
func Detail(w models.Workout) WorkoutDetail {
	out := WorkoutDetail{
		ID:          w.ID,
		Kind:        w.Kind,
		CreatedAt:   w.CreatedAt,
		Coords:      w.Coords,
		DistanceKm:  w.DistanceKm,
		DurationMin: w.DurationMin,
		Description: w.Description,
		Clicks:      w.Clicks(),
		Entry:       RenderEntry(&w),
	}
	switch w.Kind {
	case models.KindRunning:
		cadence, pace := w.Running.CadenceSpm, w.Running.PaceMinPerKm
		out.CadenceSpm, out.PaceMinPerKm = &cadence, &pace
	case models.KindCycling:
		elevation, speed := w.Cycling.ElevationGainM, w.Cycling.SpeedKmPerH
		out.ElevationGainM, out.SpeedKmPerH = &elevation, &speed
	}
	return out
}

// Details converts ws in order.
func Details(ws []models.Workout) []WorkoutDetail {
	out := make([]WorkoutDetail, 0, len(ws))
	for _, w := range ws {
		out = append(out, Detail(w))
	}
	return out
}
