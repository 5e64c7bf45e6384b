package services

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/skyreserve/airline-backend/internal/models"
	"github.com/skyreserve/airline-backend/internal/seatmap"
	"github.com/skyreserve/airline-backend/internal/storage"
)

// FlightService manages scheduled flights and their crew assignments.
type FlightService struct {
	store  storage.Store
	logger *logrus.Logger
}

// NewFlightService creates a new flight service.
func NewFlightService(store storage.Store, logger *logrus.Logger) *FlightService {
	return &FlightService{store: store, logger: logger}
}

// CreateFlight schedules a flight. The aircraft and every listed crew
// member must already exist; the seat map is initialized all-free from the
// aircraft layout and never resized afterwards.
func (s *FlightService) CreateFlight(req *models.CreateFlightRequest) (*models.Flight, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	aircraft, err := s.store.Aircraft().FindByID(req.AircraftID)
	if err != nil {
		return nil, err
	}
	for _, cid := range req.CrewMemberIDs {
		if _, err := s.store.Crew().FindByID(cid); err != nil {
			return nil, err
		}
	}

	flight := models.Flight{
		ID: uniqueID("FL", func(id string) bool {
			_, err := s.store.Flights().FindByID(id)
			return err == nil
		}),
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
		AircraftID:    aircraft.ID,
		CrewMemberIDs: append([]string(nil), req.CrewMemberIDs...),
		SeatMap:       seatmap.New(aircraft.Layout()),
	}
	if err := s.store.Flights().Insert(flight); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"flight_id":   flight.ID,
		"origin":      flight.Origin,
		"destination": flight.Destination,
		"aircraft_id": flight.AircraftID,
	}).Info("Flight scheduled")

	return &flight, nil
}

// GetFlight fetches a flight by ID.
func (s *FlightService) GetFlight(id string) (*models.Flight, error) {
	return s.store.Flights().FindByID(id)
}

// ListFlights returns every scheduled flight.
func (s *FlightService) ListFlights() ([]*models.Flight, error) {
	return s.store.Flights().List()
}

// DeleteFlight removes a flight. Reservations against it are not touched;
// cancellation treats a missing flight as already-released seats.
func (s *FlightService) DeleteFlight(id string) error {
	if err := s.store.Flights().Delete(id); err != nil {
		return err
	}
	s.logger.WithField("flight_id", id).Info("Flight deleted")
	return nil
}

// AssignCrew adds a crew member to a flight. Assigning someone already on
// the flight is a no-op.
func (s *FlightService) AssignCrew(flightID, crewMemberID string) (*models.Flight, error) {
	flight, err := s.store.Flights().FindByID(flightID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Crew().FindByID(crewMemberID); err != nil {
		return nil, err
	}
	if flight.HasCrewMember(crewMemberID) {
		return flight, nil
	}

	flight.CrewMemberIDs = append(flight.CrewMemberIDs, crewMemberID)
	if err := s.store.Flights().Update(*flight); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"flight_id":      flightID,
		"crew_member_id": crewMemberID,
	}).Info("Crew member assigned to flight")

	return flight, nil
}

// RemoveCrew drops a crew member from a flight.
func (s *FlightService) RemoveCrew(flightID, crewMemberID string) (*models.Flight, error) {
	flight, err := s.store.Flights().FindByID(flightID)
	if err != nil {
		return nil, err
	}
	if !flight.RemoveCrewMember(crewMemberID) {
		return nil, fmt.Errorf("crew member %s is not assigned to flight %s: %w",
			crewMemberID, flightID, models.ErrNotFound)
	}
	if err := s.store.Flights().Update(*flight); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"flight_id":      flightID,
		"crew_member_id": crewMemberID,
	}).Info("Crew member removed from flight")

	return flight, nil
}
