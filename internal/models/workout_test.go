package models

import (
	"errors"
	"math"
	"testing"
	"time"
)

var (
	nyc     = Coordinates{Lat: 40.7, Lng: -74.0}
	march15 = time.Date(2024, time.March, 15, 9, 30, 0, 0, time.UTC)
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// TestNewRunningPace verifies pace = duration / distance with no rounding.
func TestNewRunningPace(t *testing.T) {
	w, err := NewRunning(nyc, 5.2, 24, 178, march15)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Kind != KindRunning {
		t.Errorf("kind = %q, want %q", w.Kind, KindRunning)
	}
	if w.Cycling != nil {
		t.Error("running workout has a cycling payload")
	}
	if !approx(w.Running.PaceMinPerKm, 24/5.2) {
		t.Errorf("pace = %v, want %v", w.Running.PaceMinPerKm, 24/5.2)
	}
	if math.Abs(w.Running.PaceMinPerKm-4.615) > 0.001 {
		t.Errorf("pace = %v, want ~4.615", w.Running.PaceMinPerKm)
	}
	if w.Running.CadenceSpm != 178 {
		t.Errorf("cadence = %v, want 178", w.Running.CadenceSpm)
	}
	if w.Description != "Running on March 15" {
		t.Errorf("description = %q", w.Description)
	}
	if w.ID == "" {
		t.Error("expected an id")
	}
	if !w.CreatedAt.Equal(march15) {
		t.Errorf("createdAt = %v, want %v", w.CreatedAt, march15)
	}
}

// TestNewCyclingSpeed verifies speed = distance / (duration / 60).
func TestNewCyclingSpeed(t *testing.T) {
	w, err := NewCycling(nyc, 20, 60, 350, march15)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Running != nil {
		t.Error("cycling workout has a running payload")
	}
	if w.Cycling.SpeedKmPerH != 20 {
		t.Errorf("speed = %v, want 20", w.Cycling.SpeedKmPerH)
	}
	if w.Cycling.ElevationGainM != 350 {
		t.Errorf("elevation = %v, want 350", w.Cycling.ElevationGainM)
	}
	if w.Description != "Cycling on March 15" {
		t.Errorf("description = %q", w.Description)
	}

	w, err = NewCycling(nyc, 12.5, 37, 0, march15)
	if err != nil {
		t.Fatalf("zero elevation rejected: %v", err)
	}
	if !approx(w.Cycling.SpeedKmPerH, 12.5/(37.0/60)) {
		t.Errorf("speed = %v", w.Cycling.SpeedKmPerH)
	}
}

// TestConstructionRejectsInvalidInput verifies every non-positive or
// non-finite input fails with a ValidationError naming the field.
func TestConstructionRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		build func() (*Workout, error)
		field string
	}{
		{"running zero distance", func() (*Workout, error) { return NewRunning(nyc, 0, 24, 178, march15) }, "distance"},
		{"running negative distance", func() (*Workout, error) { return NewRunning(nyc, -1, 24, 178, march15) }, "distance"},
		{"running zero duration", func() (*Workout, error) { return NewRunning(nyc, 5, 0, 178, march15) }, "duration"},
		{"running zero cadence", func() (*Workout, error) { return NewRunning(nyc, 5, 24, 0, march15) }, "cadence"},
		{"running NaN distance", func() (*Workout, error) { return NewRunning(nyc, math.NaN(), 24, 178, march15) }, "distance"},
		{"cycling zero distance", func() (*Workout, error) { return NewCycling(nyc, 0, 60, 10, march15) }, "distance"},
		{"cycling negative distance", func() (*Workout, error) { return NewCycling(nyc, -1, 60, 10, march15) }, "distance"},
		{"cycling zero duration", func() (*Workout, error) { return NewCycling(nyc, 20, 0, 10, march15) }, "duration"},
		{"cycling negative elevation", func() (*Workout, error) { return NewCycling(nyc, 20, 60, -1, march15) }, "elevation"},
		{"cycling infinite elevation", func() (*Workout, error) { return NewCycling(nyc, 20, 60, math.Inf(1), march15) }, "elevation"},
		{"bad coords", func() (*Workout, error) { return NewCycling(Coordinates{Lat: math.NaN()}, 20, 60, 1, march15) }, "coords"},
		{"unknown kind", func() (*Workout, error) { return New("swimming", nyc, 1, 1, 1, march15) }, "type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := tt.build()
			if w != nil {
				t.Errorf("expected no workout, got %+v", w)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("error = %v, want *ValidationError", err)
			}
			if ve.Field != tt.field {
				t.Errorf("field = %q, want %q", ve.Field, tt.field)
			}
		})
	}
}

// TestNewDispatchesOnKind verifies the generic constructor picks the variant.
func TestNewDispatchesOnKind(t *testing.T) {
	r, err := New(KindRunning, nyc, 10, 50, 170, march15)
	if err != nil || r.Running == nil {
		t.Fatalf("running: %v %+v", err, r)
	}
	c, err := New(KindCycling, nyc, 10, 30, 5, march15)
	if err != nil || c.Cycling == nil {
		t.Fatalf("cycling: %v %+v", err, c)
	}
}

// TestUniqueIDs verifies consecutive workouts never share an id.
func TestUniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		w, err := NewRunning(nyc, 1, 5, 160, march15)
		if err != nil {
			t.Fatal(err)
		}
		if seen[w.ID] {
			t.Fatalf("duplicate id %s", w.ID)
		}
		seen[w.ID] = true
	}
}

// TestClickCounter verifies the view counter starts at zero and increments.
func TestClickCounter(t *testing.T) {
	w, err := NewRunning(nyc, 5, 25, 170, march15)
	if err != nil {
		t.Fatal(err)
	}
	if w.Clicks() != 0 {
		t.Errorf("initial clicks = %d, want 0", w.Clicks())
	}
	w.Click()
	if got := w.Click(); got != 2 {
		t.Errorf("Click() = %d, want 2", got)
	}
	if w.Clicks() != 2 {
		t.Errorf("Clicks() = %d, want 2", w.Clicks())
	}
}

// TestCopyDetachesPayload verifies a copy shares nothing mutable with the
// original, including the click count at the time of copying.
func TestCopyDetachesPayload(t *testing.T) {
	run, err := NewRunning(nyc, 5, 25, 170, march15)
	if err != nil {
		t.Fatal(err)
	}
	run.Click()
	c := run.Copy()
	c.Running.PaceMinPerKm = 99
	c.Running.CadenceSpm = 1
	c.Click()
	if run.Running.PaceMinPerKm != 5 || run.Running.CadenceSpm != 170 {
		t.Errorf("original payload changed: %+v", run.Running)
	}
	if run.Clicks() != 1 || c.Clicks() != 2 {
		t.Errorf("clicks = %d/%d, want 1/2", run.Clicks(), c.Clicks())
	}

	ride, err := NewCycling(nyc, 20, 60, 300, march15)
	if err != nil {
		t.Fatal(err)
	}
	rc := ride.Copy()
	rc.Cycling.SpeedKmPerH = 0
	if ride.Cycling.SpeedKmPerH != 20 {
		t.Errorf("original speed changed: %v", ride.Cycling.SpeedKmPerH)
	}
	if rc.Running != nil {
		t.Error("copy grew a running payload")
	}
}

// TestRestoreKeepsIdentityAndRecomputes verifies a snapshot round trip keeps
// id, createdAt and description while re-deriving pace/speed.
func TestRestoreKeepsIdentityAndRecomputes(t *testing.T) {
	orig, err := NewRunning(nyc, 5.2, 24, 178, march15)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Restore(orig.Snapshot())
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if got.ID != orig.ID || !got.CreatedAt.Equal(orig.CreatedAt) || got.Description != orig.Description {
		t.Errorf("identity lost: got %+v, want %+v", got, orig)
	}
	if got.Running == nil || got.Running.CadenceSpm != 178 {
		t.Fatalf("running payload = %+v", got.Running)
	}
	if !approx(got.Running.PaceMinPerKm, orig.Running.PaceMinPerKm) {
		t.Errorf("pace = %v, want %v", got.Running.PaceMinPerKm, orig.Running.PaceMinPerKm)
	}
}

// TestRestoreRejectsInconsistentSnapshots verifies that a snapshot with the
// wrong kind-specific field, an unknown kind, or invalid inputs is refused.
func TestRestoreRejectsInconsistentSnapshots(t *testing.T) {
	cad := 170.0
	elev := 12.0
	neg := -3.0
	base := Snapshot{ID: "a", CreatedAt: march15, Coords: nyc, DistanceKm: 5, DurationMin: 30}

	tests := []struct {
		name   string
		mutate func(s *Snapshot)
	}{
		{"running without cadence", func(s *Snapshot) { s.Kind = KindRunning }},
		{"running with elevation", func(s *Snapshot) { s.Kind = KindRunning; s.CadenceSpm = &cad; s.ElevationGainM = &elev }},
		{"cycling without elevation", func(s *Snapshot) { s.Kind = KindCycling }},
		{"cycling with cadence", func(s *Snapshot) { s.Kind = KindCycling; s.ElevationGainM = &elev; s.CadenceSpm = &cad }},
		{"cycling negative elevation", func(s *Snapshot) { s.Kind = KindCycling; s.ElevationGainM = &neg }},
		{"unknown kind", func(s *Snapshot) { s.Kind = "rowing"; s.CadenceSpm = &cad }},
		{"missing id", func(s *Snapshot) { s.Kind = KindRunning; s.CadenceSpm = &cad; s.ID = "" }},
		{"zero distance", func(s *Snapshot) { s.Kind = KindRunning; s.CadenceSpm = &cad; s.DistanceKm = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base
			tt.mutate(&s)
			if _, err := Restore(s); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
