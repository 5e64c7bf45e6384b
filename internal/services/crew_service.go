package services

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/skyreserve/airline-backend/internal/models"
	"github.com/skyreserve/airline-backend/internal/storage"
)

// CrewService manages the crew member roster.
type CrewService struct {
	store  storage.Store
	logger *logrus.Logger
}

// NewCrewService creates a new crew service.
func NewCrewService(store storage.Store, logger *logrus.Logger) *CrewService {
	return &CrewService{store: store, logger: logger}
}

// CreateCrewMember adds a crew member to the roster.
func (s *CrewService) CreateCrewMember(req *models.CreateCrewMemberRequest) (*models.CrewMember, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	member := models.CrewMember{
		ID: uniqueID("CM", func(id string) bool {
			_, err := s.store.Crew().FindByID(id)
			return err == nil
		}),
		Name: req.Name,
		Role: req.Role,
	}
	if err := s.store.Crew().Insert(member); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"crew_member_id": member.ID,
		"name":           member.Name,
		"role":           member.Role,
	}).Info("Crew member added")

	return &member, nil
}

// GetCrewMember fetches a crew member by ID.
func (s *CrewService) GetCrewMember(id string) (*models.CrewMember, error) {
	return s.store.Crew().FindByID(id)
}

// ListCrewMembers returns the full roster.
func (s *CrewService) ListCrewMembers() ([]*models.CrewMember, error) {
	return s.store.Crew().List()
}

// DeleteCrewMember removes a crew member from the roster and from every
// flight they were assigned to.
func (s *CrewService) DeleteCrewMember(id string) error {
	if err := s.store.Crew().Delete(id); err != nil {
		return err
	}

	flights, err := s.store.Flights().List()
	if err != nil {
		return err
	}
	for _, f := range flights {
		if f.RemoveCrewMember(id) {
			if err := s.store.Flights().Update(*f); err != nil {
				s.logger.WithFields(logrus.Fields{
					"crew_member_id": id,
					"flight_id":      f.ID,
					"error":          err.Error(),
				}).Error("Failed to unassign deleted crew member from flight")
			}
		}
	}

	s.logger.WithField("crew_member_id", id).Info("Crew member deleted")
	return nil
}
