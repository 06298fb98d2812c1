package models

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Kind discriminates the workout variants.
type Kind string

const (
	KindRunning Kind = "running"
	KindCycling Kind = "cycling"
)

// ParseKind maps a form/type string to a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindRunning, KindCycling:
		return Kind(s), nil
	}
	return "", &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown workout type %q", s)}
}

// Emoji returns the icon shown next to a workout of this kind.
func (k Kind) Emoji() string {
	switch k {
	case KindRunning:
		return "🏃🏼‍♂️"
	case KindCycling:
		return "🚴🏼"
	}
	return ""
}

// Coordinates is a latitude/longitude pair in degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether both components are finite.
func (c Coordinates) Valid() bool {
	return isFinite(c.Lat) && isFinite(c.Lng)
}

// Running holds the running-only input and its derived pace.
type Running struct {
	CadenceSpm   float64
	PaceMinPerKm float64
}

// Cycling holds the cycling-only input and its derived speed.
type Cycling struct {
	ElevationGainM float64
	SpeedKmPerH    float64
}

// Workout is one logged activity. Exactly one of Running and Cycling is
// non-nil, selected by Kind. Values are only built by NewRunning, NewCycling
// and Restore; inputs and derived metrics are fixed after that.
type Workout struct {
	ID          string
	Kind        Kind
	CreatedAt   time.Time
	Coords      Coordinates
	DistanceKm  float64
	DurationMin float64
	Description string

	Running *Running
	Cycling *Cycling

	clicks int
}

// Click records that the workout was viewed and returns the new count.
func (w *Workout) Click() int {
	w.clicks++
	return w.clicks
}

// Clicks returns how many times the workout was viewed this session.
func (w *Workout) Clicks() int {
	return w.clicks
}

// Copy returns w with its kind payload duplicated, so changes to the copy
// never reach w.
func (w *Workout) Copy() Workout {
	c := *w
	if w.Running != nil {
		r := *w.Running
		c.Running = &r
	}
	if w.Cycling != nil {
		cy := *w.Cycling
		c.Cycling = &cy
	}
	return c
}

// NewRunning builds a running workout created at now.
func NewRunning(coords Coordinates, distanceKm, durationMin, cadenceSpm float64, now time.Time) (*Workout, error) {
	if err := checkBase(coords, distanceKm, durationMin); err != nil {
		return nil, err
	}
	if err := checkCadence(cadenceSpm); err != nil {
		return nil, err
	}
	w := newBase(KindRunning, coords, distanceKm, durationMin, now)
	w.Running = &Running{
		CadenceSpm:   cadenceSpm,
		PaceMinPerKm: durationMin / distanceKm,
	}
	return w, nil
}

// NewCycling builds a cycling workout created at now.
func NewCycling(coords Coordinates, distanceKm, durationMin, elevationGainM float64, now time.Time) (*Workout, error) {
	if err := checkBase(coords, distanceKm, durationMin); err != nil {
		return nil, err
	}
	if err := checkElevation(elevationGainM); err != nil {
		return nil, err
	}
	w := newBase(KindCycling, coords, distanceKm, durationMin, now)
	w.Cycling = &Cycling{
		ElevationGainM: elevationGainM,
		SpeedKmPerH:    distanceKm / (durationMin / 60),
	}
	return w, nil
}

// New dispatches to the constructor for kind. extra is the cadence for
// running and the elevation gain for cycling.
func New(kind Kind, coords Coordinates, distanceKm, durationMin, extra float64, now time.Time) (*Workout, error) {
	switch kind {
	case KindRunning:
		return NewRunning(coords, distanceKm, durationMin, extra, now)
	case KindCycling:
		return NewCycling(coords, distanceKm, durationMin, extra, now)
	}
	return nil, &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown workout type %q", kind)}
}

// Snapshot is the flat, behaviour-free form of a workout as it is stored.
// Exactly one of CadenceSpm and ElevationGainM is set, matching Kind.
type Snapshot struct {
	ID             string
	Kind           Kind
	CreatedAt      time.Time
	Coords         Coordinates
	DistanceKm     float64
	DurationMin    float64
	CadenceSpm     *float64
	ElevationGainM *float64
	Description    string
}

// Snapshot flattens w for storage.
func (w *Workout) Snapshot() Snapshot {
	s := Snapshot{
		ID:          w.ID,
		Kind:        w.Kind,
		CreatedAt:   w.CreatedAt,
		Coords:      w.Coords,
		DistanceKm:  w.DistanceKm,
		DurationMin: w.DurationMin,
		Description: w.Description,
	}
	switch w.Kind {
	case KindRunning:
		c := w.Running.CadenceSpm
		s.CadenceSpm = &c
	case KindCycling:
		e := w.Cycling.ElevationGainM
		s.ElevationGainM = &e
	}
	return s
}

// Restore rebuilds a typed workout from a snapshot. Identity, creation time
// and description come from the snapshot; inputs are re-validated and
// derived metrics are recomputed rather than trusted.
func Restore(s Snapshot) (*Workout, error) {
	if s.ID == "" {
		return nil, &ValidationError{Field: "id", Reason: "missing"}
	}
	if s.CreatedAt.IsZero() {
		return nil, &ValidationError{Field: "createdAt", Reason: "missing"}
	}

	var (
		w   *Workout
		err error
	)
	switch s.Kind {
	case KindRunning:
		if s.CadenceSpm == nil {
			return nil, &ValidationError{Field: "cadence", Reason: "missing for running workout"}
		}
		if s.ElevationGainM != nil {
			return nil, &ValidationError{Field: "elevation", Reason: "not allowed for running workout"}
		}
		w, err = NewRunning(s.Coords, s.DistanceKm, s.DurationMin, *s.CadenceSpm, s.CreatedAt)
	case KindCycling:
		if s.ElevationGainM == nil {
			return nil, &ValidationError{Field: "elevation", Reason: "missing for cycling workout"}
		}
		if s.CadenceSpm != nil {
			return nil, &ValidationError{Field: "cadence", Reason: "not allowed for cycling workout"}
		}
		w, err = NewCycling(s.Coords, s.DistanceKm, s.DurationMin, *s.ElevationGainM, s.CreatedAt)
	default:
		return nil, &ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown workout kind %q", s.Kind)}
	}
	if err != nil {
		return nil, err
	}

	w.ID = s.ID
	if s.Description != "" {
		w.Description = s.Description
	}
	return w, nil
}

func newBase(kind Kind, coords Coordinates, distanceKm, durationMin float64, now time.Time) *Workout {
	return &Workout{
		ID:          uuid.NewString(),
		Kind:        kind,
		CreatedAt:   now,
		Coords:      coords,
		DistanceKm:  distanceKm,
		DurationMin: durationMin,
		Description: Describe(kind, now),
	}
}

func checkBase(coords Coordinates, distanceKm, durationMin float64) error {
	if !coords.Valid() {
		return &ValidationError{Field: "coords", Reason: "must be finite"}
	}
	if !isFinite(distanceKm) || distanceKm <= 0 {
		return &ValidationError{Field: "distance", Reason: "must be a positive number"}
	}
	if !isFinite(durationMin) || durationMin <= 0 {
		return &ValidationError{Field: "duration", Reason: "must be a positive number"}
	}
	return nil
}

func checkCadence(cadenceSpm float64) error {
	if !isFinite(cadenceSpm) || cadenceSpm <= 0 {
		return &ValidationError{Field: "cadence", Reason: "must be a positive number"}
	}
	return nil
}

func checkElevation(elevationGainM float64) error {
	if !isFinite(elevationGainM) || elevationGainM < 0 {
		return &ValidationError{Field: "elevation", Reason: "must be zero or a positive number"}
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
