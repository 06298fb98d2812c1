package view

import (
	"sync"

	"github.com/claude/pintrack/internal/models"
	"github.com/claude/pintrack/internal/session"
)

// FormState is a point-in-time copy of the form.
type FormState struct {
	Visible          bool   `json:"visible"`
	Type             string `json:"type"`
	CadenceVisible   bool   `json:"cadence_visible"`
	ElevationVisible bool   `json:"elevation_visible"`
	Distance         string `json:"distance"`
	Duration         string `json:"duration"`
	Cadence          string `json:"cadence"`
	Elevation        string `json:"elevation"`
}

// Form is the workout entry form.
type Form struct {
	mu    sync.RWMutex
	state FormState
}

var _ session.Form = (*Form)(nil)

func NewForm() *Form {
	f := &Form{}
	f.Reset()
	return f
}

func (f *Form) Show() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Visible = true
}

func (f *Form) Hide() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Visible = false
}

// Reset clears the fields and selects running, keeping visibility.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = FormState{Visible: f.state.Visible}
	f.setType(models.KindRunning)
}

// SetType switches between the cadence and elevation rows.
func (f *Form) SetType(kind models.Kind) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setType(kind)
}

func (f *Form) setType(kind models.Kind) {
	f.state.Type = string(kind)
	f.state.CadenceVisible = kind == models.KindRunning
	f.state.ElevationVisible = kind == models.KindCycling
}

// Fill records what the user typed.
func (f *Form) Fill(v session.FormValues) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if k, err := models.ParseKind(v.Type); err == nil {
		f.setType(k)
	}
	f.state.Distance = v.Distance
	f.state.Duration = v.Duration
	f.state.Cadence = v.Cadence
	f.state.Elevation = v.Elevation
}

// State returns a copy of the form.
func (f *Form) State() FormState {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state
}
