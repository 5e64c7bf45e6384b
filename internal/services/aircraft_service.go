package services

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/skyreserve/airline-backend/internal/models"
	"github.com/skyreserve/airline-backend/internal/storage"
)

// AircraftService manages airframe configurations.
type AircraftService struct {
	store  storage.Store
	logger *logrus.Logger
}

// NewAircraftService creates a new aircraft service.
func NewAircraftService(store storage.Store, logger *logrus.Logger) *AircraftService {
	return &AircraftService{store: store, logger: logger}
}

// CreateAircraft registers an airframe configuration. Rows is derived from
// capacity and seats per row, which must divide exactly.
func (s *AircraftService) CreateAircraft(req *models.CreateAircraftRequest) (*models.Aircraft, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	aircraft := models.Aircraft{
		ID: uniqueID("AC", func(id string) bool {
			_, err := s.store.Aircraft().FindByID(id)
			return err == nil
		}),
		Model:       req.Model,
		Capacity:    req.Capacity,
		SeatsPerRow: req.SeatsPerRow,
		Rows:        req.Capacity / req.SeatsPerRow,
	}
	if err := s.store.Aircraft().Insert(aircraft); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"aircraft_id": aircraft.ID,
		"model":       aircraft.Model,
		"capacity":    aircraft.Capacity,
	}).Info("Aircraft registered")

	return &aircraft, nil
}

// GetAircraft fetches a configuration by ID.
func (s *AircraftService) GetAircraft(id string) (*models.Aircraft, error) {
	return s.store.Aircraft().FindByID(id)
}

// ListAircraft returns every registered configuration.
func (s *AircraftService) ListAircraft() ([]*models.Aircraft, error) {
	return s.store.Aircraft().List()
}

// DeleteAircraft removes a configuration. Flights already created from it
// keep their seat maps; only future flight creation is affected.
func (s *AircraftService) DeleteAircraft(id string) error {
	if err := s.store.Aircraft().Delete(id); err != nil {
		return err
	}
	s.logger.WithField("aircraft_id", id).Info("Aircraft deleted")
	return nil
}
