package session

import (
	"errors"
	"fmt"
)

var (
	ErrNoPendingLocation = errors.New("no map location selected")
	ErrWorkoutNotFound   = errors.New("workout not found")
	ErrMapUnavailable    = errors.New("map is not available")
	ErrAlreadyLocated    = errors.New("position already requested")

	// ErrStorageUnavailable is returned while saved workouts could not be
	// loaded; nothing is saved until a reload succeeds or the session is reset.
	ErrStorageUnavailable = errors.New("saved workouts could not be loaded")
)

// GeolocationError reports that the user's position could not be resolved.
// The session keeps working without a map.
type GeolocationError struct {
	Err error
}

func (e *GeolocationError) Error() string {
	return fmt.Sprintf("could not get your position: %v", e.Err)
}

func (e *GeolocationError) Unwrap() error { return e.Err }
