package models

import (
	"errors"
	"fmt"
)

// CrewRole is the duty of a crew member on a flight.
type CrewRole string

const (
	CrewPilot           CrewRole = "Pilot"
	CrewFlightAttendant CrewRole = "Flight Attendant"
	CrewEngineer        CrewRole = "Engineer"
)

// Valid reports whether the role is one of the known crew duties.
func (r CrewRole) Valid() bool {
	return r == CrewPilot || r == CrewFlightAttendant || r == CrewEngineer
}

// CrewMember is a staff record assignable to flights.
type CrewMember struct {
	ID   string   `json:"id" db:"id"`
	Name string   `json:"name" db:"name"`
	Role CrewRole `json:"role" db:"role"`
}

// CreateCrewMemberRequest is the admin payload for adding a crew member.
type CreateCrewMemberRequest struct {
	Name string   `json:"name" binding:"required"`
	Role CrewRole `json:"role" binding:"required"`
}

// Validate checks the crew member payload.
func (r *CreateCrewMemberRequest) Validate() error {
	if r.Name == "" {
		return errors.New("crew member name cannot be empty")
	}
	if !r.Role.Valid() {
		return fmt.Errorf("invalid crew role: %q", r.Role)
	}
	return nil
}
