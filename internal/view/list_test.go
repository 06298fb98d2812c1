package view

import (
	"testing"
	"time"

	"github.com/claude/pintrack/internal/models"
)

var at = models.Coordinates{Lat: 51.5, Lng: -0.12}

func mustRunning(t *testing.T, dist, dur, cadence float64) *models.Workout {
	t.Helper()
	w, err := models.NewRunning(at, dist, dur, cadence, time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func mustCycling(t *testing.T, dist, dur, elevation float64) *models.Workout {
	t.Helper()
	w, err := models.NewCycling(at, dist, dur, elevation, time.Date(2024, time.March, 16, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	return w
}

// TestRenderEntryRounding verifies pace and speed are shown with one decimal
// while raw inputs keep their precision.
func TestRenderEntryRounding(t *testing.T) {
	run := RenderEntry(mustRunning(t, 5.2, 24, 178))
	want := []Cell{
		{Icon: "🏃🏼‍♂️", Value: "5.2", Unit: "km"},
		{Icon: "⏱", Value: "24", Unit: "min"},
		{Icon: "⚡️", Value: "4.6", Unit: "min/km"},
		{Icon: "🦶🏼", Value: "178", Unit: "spm"},
	}
	if len(run.Cells) != len(want) {
		t.Fatalf("cells = %+v", run.Cells)
	}
	for i := range want {
		if run.Cells[i] != want[i] {
			t.Errorf("cell %d = %+v, want %+v", i, run.Cells[i], want[i])
		}
	}
	if run.Class != "workout workout--running" || run.Title != "Running on March 15" {
		t.Errorf("entry = %+v", run)
	}

	ride := RenderEntry(mustCycling(t, 27, 95, 523))
	if got := ride.Cells[2]; got.Value != "17.1" || got.Unit != "km/h" {
		t.Errorf("speed cell = %+v, want 17.1 km/h", got)
	}
	if got := ride.Cells[3]; got.Value != "523" || got.Unit != "m" {
		t.Errorf("elevation cell = %+v", got)
	}
}

// TestListNewestFirst verifies each render goes to the top and Clear empties
// the list.
func TestListNewestFirst(t *testing.T) {
	l := NewList()
	first, second := mustRunning(t, 5, 30, 170), mustCycling(t, 20, 60, 0)
	l.Render(first)
	l.Render(second)

	entries := l.Entries()
	if len(entries) != 2 || entries[0].ID != second.ID || entries[1].ID != first.ID {
		t.Fatalf("entries = %+v", entries)
	}

	entries[0].Title = "changed"
	if l.Entries()[0].Title == "changed" {
		t.Error("Entries returned shared storage")
	}

	l.Clear()
	if n := len(l.Entries()); n != 0 {
		t.Errorf("len after Clear = %d", n)
	}
}

// TestDetail verifies exactly one kind-specific pair is set.
func TestDetail(t *testing.T) {
	run := Detail(*mustRunning(t, 10, 50, 160))
	if run.CadenceSpm == nil || run.PaceMinPerKm == nil || *run.PaceMinPerKm != 5 {
		t.Errorf("running detail = %+v", run)
	}
	if run.ElevationGainM != nil || run.SpeedKmPerH != nil {
		t.Error("running detail has cycling fields")
	}

	ride := Detail(*mustCycling(t, 30, 90, 0))
	if ride.ElevationGainM == nil || *ride.ElevationGainM != 0 || *ride.SpeedKmPerH != 20 {
		t.Errorf("cycling detail = %+v", ride)
	}
	if ride.CadenceSpm != nil || ride.PaceMinPerKm != nil {
		t.Error("cycling detail has running fields")
	}

	if got := Details(nil); got == nil || len(got) != 0 {
		t.Errorf("Details(nil) = %#v, want empty slice", got)
	}
}
