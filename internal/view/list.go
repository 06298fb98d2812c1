package view

import (
	"strconv"
	"sync"

	"github.com/claude/pintrack/internal/models"
	"github.com/claude/pintrack/internal/session"
)

// Cell is one icon/value/unit cell of a list entry.
type Cell struct {
	Icon  string `json:"icon"`
	Value string `json:"value"`
	Unit  string `json:"unit"`
}

// Entry is a rendered workout in the list.
type Entry struct {
	ID    string `json:"id"`
	Kind  string `json:"kind"`
	Class string `json:"class"`
	Title string `json:"title"`
	Cells []Cell `json:"cells"`
}

// List is the workout list, newest first.
type List struct {
	mu      sync.RWMutex
	entries []Entry
}

var _ session.Renderer = (*List)(nil)

func NewList() *List {
	return &List{}
}

// Render puts w at the top of the list.
func (l *List) Render(w *models.Workout) {
	e := RenderEntry(w)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append([]Entry{e}, l.entries...)
}

func (l *List) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

// Entries returns a copy of the list.
func (l *List) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// RenderEntry formats w for display. Pace and speed are rounded to one
// decimal; raw inputs are shown as entered.
func RenderEntry(w *models.Workout) Entry {
	e := Entry{
		ID:    w.ID,
		Kind:  string(w.Kind),
		Class: "workout workout--" + string(w.Kind),
		Title: w.Description,
		Cells: []Cell{
			{Icon: w.Kind.Emoji(), Value: raw(w.DistanceKm), Unit: "km"},
			{Icon: "⏱", Value: raw(w.DurationMin), Unit: "min"},
		},
	}
	switch w.Kind {
	case models.KindRunning:
		e.Cells = append(e.Cells,
			Cell{Icon: "⚡️", Value: oneDecimal(w.Running.PaceMinPerKm), Unit: "min/km"},
			Cell{Icon: "🦶🏼", Value: raw(w.Running.CadenceSpm), Unit: "spm"},
		)
	case models.KindCycling:
		e.Cells = append(e.Cells,
			Cell{Icon: "⚡️", Value: oneDecimal(w.Cycling.SpeedKmPerH), Unit: "km/h"},
			Cell{Icon: "⛰", Value: raw(w.Cycling.ElevationGainM), Unit: "m"},
		)
	}
	return e
}

func raw(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func oneDecimal(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64)
}
