package store

import "github.com/claude/pintrack/internal/models"

// Store is the ordered in-memory collection of workouts for one session.
// Insertion order is creation order. It is not safe for concurrent use;
// the session controller serializes access.
type Store struct {
	workouts []*models.Workout
}

// New creates an empty Store.
func New() *Store {
	return &Store{}
}

// Append adds w at the end. w must already be a valid workout.
func (s *Store) Append(w *models.Workout) {
	s.workouts = append(s.workouts, w)
}

// All returns the workouts in insertion order. The slice is fresh but the
// pointers are shared, so view counters stay attached to the stored records.
func (s *Store) All() []*models.Workout {
	out := make([]*models.Workout, len(s.workouts))
	copy(out, s.workouts)
	return out
}

// FindByID returns the workout with the given id.
func (s *Store) FindByID(id string) (*models.Workout, bool) {
	for _, w := range s.workouts {
		if w.ID == id {
			return w, true
		}
	}
	return nil, false
}

// ReplaceAll swaps the whole collection in one step.
func (s *Store) ReplaceAll(ws []*models.Workout) {
	next := make([]*models.Workout, len(ws))
	copy(next, ws)
	s.workouts = next
}

// Len returns the number of stored workouts.
func (s *Store) Len() int {
	return len(s.workouts)
}

// Reset empties the store.
func (s *Store) Reset() {
	s.workouts = nil
}
