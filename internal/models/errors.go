package models

import "errors"

// Sentinel errors shared across services and mapped to HTTP statuses at
// the handler layer.
var (
	// ErrUnauthorized indicates the acting user may not perform the
	// operation or the referenced user has the wrong role.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound indicates a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrSeatUnavailable indicates the requested seat is already occupied.
	ErrSeatUnavailable = errors.New("seat is already booked")

	// ErrPersistenceFailure indicates a store write failed.
	ErrPersistenceFailure = errors.New("persistence failure")

	// ErrValidation indicates a request payload failed validation.
	ErrValidation = errors.New("validation failed")
)
