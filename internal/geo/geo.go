// Package geo provides position sources for the session map.
package geo

import (
	"context"
	"errors"

	"github.com/claude/pintrack/internal/models"
)

// ErrPositionUnavailable is returned when no position source is configured.
var ErrPositionUnavailable = errors.New("position unavailable")

// Fixed always reports the same position, typically the configured home.
type Fixed struct {
	At models.Coordinates
}

func (f Fixed) RequestPosition(ctx context.Context) (models.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return models.Coordinates{}, err
	}
	return f.At, nil
}

// Unavailable always fails, like a user denying location access.
type Unavailable struct {
	Reason error
}

func (u Unavailable) RequestPosition(context.Context) (models.Coordinates, error) {
	if u.Reason != nil {
		return models.Coordinates{}, u.Reason
	}
	return models.Coordinates{}, ErrPositionUnavailable
}
