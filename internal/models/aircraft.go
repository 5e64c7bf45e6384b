package models

import (
	"errors"
	"fmt"

	"github.com/skyreserve/airline-backend/internal/seatmap"
)

// Aircraft describes an airframe configuration. Rows is always
// Capacity / SeatsPerRow; the two must divide exactly so that every row is
// full-width.
type Aircraft struct {
	ID          string `json:"id" db:"id"`
	Model       string `json:"model" db:"model"`
	Capacity    int    `json:"capacity" db:"capacity"`
	SeatsPerRow int    `json:"seats_per_row" db:"seats_per_row"`
	Rows        int    `json:"rows" db:"rows"`
}

// Layout returns the seating grid implied by the configuration.
func (a *Aircraft) Layout() seatmap.Layout {
	return seatmap.Layout{Rows: a.Rows, SeatsPerRow: a.SeatsPerRow}
}

// CreateAircraftRequest is the admin payload for registering an aircraft.
type CreateAircraftRequest struct {
	Model       string `json:"model" binding:"required"`
	Capacity    int    `json:"capacity" binding:"required"`
	SeatsPerRow int    `json:"seats_per_row" binding:"required"`
}

// Validate checks the aircraft configuration invariants.
func (r *CreateAircraftRequest) Validate() error {
	if r.Model == "" {
		return errors.New("aircraft model cannot be empty")
	}
	if r.Capacity <= 0 {
		return errors.New("capacity must be positive")
	}
	if r.SeatsPerRow <= 0 {
		return errors.New("seats_per_row must be positive")
	}
	if r.SeatsPerRow > seatmap.MaxSeatsPerRow {
		return fmt.Errorf("seats_per_row cannot exceed %d", seatmap.MaxSeatsPerRow)
	}
	if r.Capacity%r.SeatsPerRow != 0 {
		return errors.New("capacity must be a multiple of seats_per_row")
	}
	return nil
}
