package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyreserve/airline-backend/internal/models"
	"github.com/skyreserve/airline-backend/internal/storage"
)

func newUserService(t *testing.T) *UserService {
	t.Helper()
	store, err := storage.Open(t.TempDir())
	require.NoError(t, err)
	return NewUserService(store, testLogger())
}

func TestRegisterPassenger(t *testing.T) {
	svc := newUserService(t)

	user, err := svc.RegisterPassenger(&models.RegisterRequest{Username: "alice", Password: "hunter2hunter2"})
	require.NoError(t, err)

	assert.Equal(t, models.RolePassenger, user.Role)
	assert.True(t, strings.HasPrefix(user.ID, "PAS-"))
	assert.Zero(t, user.LoyaltyPoints)
	assert.NotEqual(t, "hunter2hunter2", user.PasswordHash)
}

func TestRegisterPassengerShortPassword(t *testing.T) {
	svc := newUserService(t)

	_, err := svc.RegisterPassenger(&models.RegisterRequest{Username: "alice", Password: "short"})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestRegisterPassengerDuplicateUsername(t *testing.T) {
	svc := newUserService(t)

	_, err := svc.RegisterPassenger(&models.RegisterRequest{Username: "alice", Password: "hunter2hunter2"})
	require.NoError(t, err)

	_, err = svc.RegisterPassenger(&models.RegisterRequest{Username: "alice", Password: "hunter2hunter2"})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestCreateUserRolePrefixes(t *testing.T) {
	svc := newUserService(t)

	tests := []struct {
		role   models.Role
		prefix string
	}{
		{models.RolePassenger, "PAS-"},
		{models.RoleBookingManager, "BM-"},
		{models.RoleAdmin, "ADM-"},
	}
	for _, tt := range tests {
		user, err := svc.CreateUser(&models.CreateUserRequest{
			Username: "user-" + string(tt.role),
			Password: "hunter2hunter2",
			Role:     tt.role,
		})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(user.ID, tt.prefix), "id %s for role %s", user.ID, tt.role)
	}
}

func TestCreateUserInvalidRole(t *testing.T) {
	svc := newUserService(t)

	_, err := svc.CreateUser(&models.CreateUserRequest{
		Username: "bob",
		Password: "hunter2hunter2",
		Role:     "pilot",
	})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestAuthenticate(t *testing.T) {
	svc := newUserService(t)

	registered, err := svc.RegisterPassenger(&models.RegisterRequest{Username: "alice", Password: "hunter2hunter2"})
	require.NoError(t, err)

	user, err := svc.Authenticate("alice", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = svc.Authenticate("alice", "wrong-password")
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	_, err = svc.Authenticate("nobody", "hunter2hunter2")
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}
