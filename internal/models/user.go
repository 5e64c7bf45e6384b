package models

import (
	"errors"
	"fmt"
)

// Role is the account type of a user. The reservation core only ever acts
// on behalf of passengers; booking managers and admins drive the
// management surfaces.
type Role string

const (
	RolePassenger      Role = "passenger"
	RoleBookingManager Role = "booking_manager"
	RoleAdmin          Role = "admin"
)

// IDPrefix returns the identifier prefix used for accounts of this role.
func (r Role) IDPrefix() string {
	switch r {
	case RoleBookingManager:
		return "BM"
	case RoleAdmin:
		return "ADM"
	default:
		return "PAS"
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RolePassenger || r == RoleBookingManager || r == RoleAdmin
}

// User represents an account. LoyaltyPoints is only meaningful for
// passengers: it is adjusted by each completed booking, never goes
// negative, and accrual is capped at 100 points.
type User struct {
	ID            string  `json:"id" db:"id"`
	Username      string  `json:"username" db:"username"`
	PasswordHash  string  `json:"password_hash" db:"password_hash"`
	Role          Role    `json:"role" db:"role"`
	LoyaltyPoints float64 `json:"loyalty_points" db:"loyalty_points"`
}

// IsPassenger reports whether the user may appear as the passenger on a
// reservation.
func (u *User) IsPassenger() bool {
	return u.Role == RolePassenger
}

// RegisterRequest is the payload for passenger self-registration.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Validate checks the registration payload.
func (r *RegisterRequest) Validate() error {
	if r.Username == "" {
		return errors.New("username cannot be empty")
	}
	if len(r.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

// LoginRequest is the payload for username/password authentication.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CreateUserRequest is the admin payload for creating any account type.
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     Role   `json:"role" binding:"required"`
}

// Validate checks the admin create-user payload.
func (r *CreateUserRequest) Validate() error {
	if r.Username == "" {
		return errors.New("username cannot be empty")
	}
	if len(r.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if !r.Role.Valid() {
		return fmt.Errorf("invalid role: must be passenger, booking_manager, or admin")
	}
	return nil
}
