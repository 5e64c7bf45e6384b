package models

import (
	"errors"
	"time"

	"github.com/skyreserve/airline-backend/internal/seatmap"
)

// Flight is a scheduled service. It exclusively owns its seat map: the
// reservation lifecycle flips individual seat flags but never resizes the
// grid, which is fixed at creation from the aircraft configuration.
type Flight struct {
	ID            string      `json:"id"`
	Origin        string      `json:"origin"`
	Destination   string      `json:"destination"`
	DepartureTime time.Time   `json:"departure_time"`
	ArrivalTime   time.Time   `json:"arrival_time"`
	AircraftID    string      `json:"aircraft_id"`
	CrewMemberIDs []string    `json:"crew_member_ids"`
	SeatMap       seatmap.Map `json:"seat_map"`
}

// SeatStatus reports whether the seat is occupied on this flight.
func (f *Flight) SeatStatus(label string) (bool, error) {
	return f.SeatMap.Status(label)
}

// SetSeatStatus flips a seat flag on this flight's map.
func (f *Flight) SetSeatStatus(label string, occupied bool) error {
	return f.SeatMap.SetStatus(label, occupied)
}

// IsValidSeat reports whether the label addresses a seat on this flight.
func (f *Flight) IsValidSeat(label string) bool {
	return seatmap.IsValidSeat(label, f.SeatMap.Layout())
}

// HasCrewMember reports whether the crew member is assigned to the flight.
func (f *Flight) HasCrewMember(id string) bool {
	for _, cid := range f.CrewMemberIDs {
		if cid == id {
			return true
		}
	}
	return false
}

// RemoveCrewMember drops a crew member from the flight. Returns false if
// the crew member was not assigned.
func (f *Flight) RemoveCrewMember(id string) bool {
	for i, cid := range f.CrewMemberIDs {
		if cid == id {
			f.CrewMemberIDs = append(f.CrewMemberIDs[:i], f.CrewMemberIDs[i+1:]...)
			return true
		}
	}
	return false
}

// CreateFlightRequest is the admin payload for scheduling a flight.
type CreateFlightRequest struct {
	Origin        string    `json:"origin" binding:"required"`
	Destination   string    `json:"destination" binding:"required"`
	DepartureTime time.Time `json:"departure_time" binding:"required"`
	ArrivalTime   time.Time `json:"arrival_time" binding:"required"`
	AircraftID    string    `json:"aircraft_id" binding:"required"`
	CrewMemberIDs []string  `json:"crew_member_ids"`
}

// Validate checks the flight payload. Referential checks against aircraft
// and crew stores happen in the service.
func (r *CreateFlightRequest) Validate() error {
	if r.Origin == "" || r.Destination == "" {
		return errors.New("origin and destination cannot be empty")
	}
	if !r.ArrivalTime.After(r.DepartureTime) {
		return errors.New("arrival time must be after departure time")
	}
	if r.AircraftID == "" {
		return errors.New("aircraft_id cannot be empty")
	}
	return nil
}
