// Package view holds the map, form and list state a front end renders.
// Each type is safe for concurrent reads while the session controller
// mutates it.
package view

import (
	"sync"

	"github.com/claude/pintrack/internal/models"
	"github.com/claude/pintrack/internal/session"
)

// Marker is a pin with an always-open popup.
type Marker struct {
	Coords models.Coordinates `json:"coords"`
	Popup  string             `json:"popup"`
	Class  string             `json:"class"`
}

// Pan is the last recenter request.
type Pan struct {
	To          models.Coordinates `json:"to"`
	Zoom        int                `json:"zoom"`
	Animate     bool               `json:"animate"`
	DurationSec float64            `json:"duration_sec"`
}

// MapState is a point-in-time copy of the map.
type MapState struct {
	Ready   bool               `json:"ready"`
	Center  models.Coordinates `json:"center"`
	Zoom    int                `json:"zoom"`
	Markers []Marker           `json:"markers"`
	LastPan *Pan               `json:"last_pan,omitempty"`
}

// Map is the marker board the front end draws.
type Map struct {
	mu    sync.RWMutex
	state MapState
}

var _ session.Map = (*Map)(nil)

func NewMap() *Map {
	return &Map{state: MapState{Markers: []Marker{}}}
}

func (m *Map) Init(center models.Coordinates, zoom int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Ready = true
	m.state.Center = center
	m.state.Zoom = zoom
}

func (m *Map) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Ready
}

func (m *Map) AddMarker(at models.Coordinates, popup, class string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Markers = append(m.state.Markers, Marker{Coords: at, Popup: popup, Class: class})
}

func (m *Map) Recenter(at models.Coordinates, zoom int, anim session.Animation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Center = at
	m.state.Zoom = zoom
	m.state.LastPan = &Pan{
		To:          at,
		Zoom:        zoom,
		Animate:     anim.Animate,
		DurationSec: anim.PanDuration.Seconds(),
	}
}

func (m *Map) ClearMarkers() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Markers = []Marker{}
	m.state.LastPan = nil
}

// State returns a copy of the map.
func (m *Map) State() MapState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.state
	s.Markers = append([]Marker(nil), m.state.Markers...)
	if s.Markers == nil {
		s.Markers = []Marker{}
	}
	if m.state.LastPan != nil {
		p := *m.state.LastPan
		s.LastPan = &p
	}
	return s
}
