package services

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/skyreserve/airline-backend/internal/models"
	"github.com/skyreserve/airline-backend/internal/storage"
)

// UserService manages accounts: passenger self-registration, admin-driven
// account creation, and credential checks for the auth handler.
type UserService struct {
	store  storage.Store
	logger *logrus.Logger
}

// NewUserService creates a new user service.
func NewUserService(store storage.Store, logger *logrus.Logger) *UserService {
	return &UserService{store: store, logger: logger}
}

// RegisterPassenger creates a passenger account from the public
// registration endpoint.
func (s *UserService) RegisterPassenger(req *models.RegisterRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}
	return s.createUser(req.Username, req.Password, models.RolePassenger)
}

// CreateUser creates an account of any role; admin surface only.
func (s *UserService) CreateUser(req *models.CreateUserRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}
	return s.createUser(req.Username, req.Password, req.Role)
}

func (s *UserService) createUser(username, password string, role models.Role) (*models.User, error) {
	if existing, err := s.store.Users().FindByUsername(username); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: username %q is already taken", models.ErrValidation, username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           s.newUserID(role),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.store.Users().Insert(user); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
	}).Info("User created")

	return &user, nil
}

func (s *UserService) newUserID(role models.Role) string {
	return uniqueID(role.IDPrefix(), func(id string) bool {
		_, err := s.store.Users().FindByID(id)
		return err == nil
	})
}

// Authenticate verifies a username/password pair and returns the account.
// The same error is returned for unknown usernames and wrong passwords so
// the login endpoint does not leak which usernames exist.
func (s *UserService) Authenticate(username, password string) (*models.User, error) {
	user, err := s.store.Users().FindByUsername(username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("invalid credentials: %w", models.ErrUnauthorized)
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.logger.WithField("username", username).Warn("Failed login attempt")
		return nil, fmt.Errorf("invalid credentials: %w", models.ErrUnauthorized)
	}
	return user, nil
}

// GetUser fetches an account by ID.
func (s *UserService) GetUser(id string) (*models.User, error) {
	return s.store.Users().FindByID(id)
}

// ListUsers returns every account.
func (s *UserService) ListUsers() ([]*models.User, error) {
	return s.store.Users().List()
}

// ListByRole returns the accounts holding a given role.
func (s *UserService) ListByRole(role models.Role) ([]*models.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: invalid role %q", models.ErrValidation, role)
	}
	return s.store.Users().FindByRole(role)
}

// DeleteUser removes an account.
func (s *UserService) DeleteUser(id string) error {
	if err := s.store.Users().Delete(id); err != nil {
		return err
	}
	s.logger.WithField("user_id", id).Info("User deleted")
	return nil
}
