// Package storage provides the keyed entity stores behind the reservation
// subsystem. Two implementations exist: JSON-file-backed in-memory stores
// (the default, loaded at startup and flushed explicitly at shutdown) and
// Postgres-backed stores behind the same interfaces.
package storage

import (
	"github.com/skyreserve/airline-backend/internal/models"
)

// AircraftStore holds aircraft configurations.
type AircraftStore interface {
	FindByID(id string) (*models.Aircraft, error)
	List() ([]*models.Aircraft, error)
	Insert(a models.Aircraft) error
	Update(a models.Aircraft) error
	Delete(id string) error
}

// CrewStore holds crew member records.
type CrewStore interface {
	FindByID(id string) (*models.CrewMember, error)
	List() ([]*models.CrewMember, error)
	Insert(c models.CrewMember) error
	Update(c models.CrewMember) error
	Delete(id string) error
}

// FlightStore holds flights together with their seat maps. Fetched flights
// are detached copies: mutations become visible only through Update.
type FlightStore interface {
	FindByID(id string) (*models.Flight, error)
	List() ([]*models.Flight, error)
	Insert(f models.Flight) error
	Update(f models.Flight) error
	Delete(id string) error
}

// UserStore holds accounts of all roles.
type UserStore interface {
	FindByID(id string) (*models.User, error)
	FindByUsername(username string) (*models.User, error)
	FindByRole(role models.Role) ([]*models.User, error)
	List() ([]*models.User, error)
	Insert(u models.User) error
	Update(u models.User) error
	Delete(id string) error
}

// PaymentStore holds payment records.
type PaymentStore interface {
	FindByID(id string) (*models.Payment, error)
	FindByPassenger(passengerID string) ([]*models.Payment, error)
	Insert(p models.Payment) error
	Update(p models.Payment) error
	Delete(id string) error
}

// ReservationStore holds reservations.
type ReservationStore interface {
	FindByID(id string) (*models.Reservation, error)
	FindByPassenger(passengerID string) ([]*models.Reservation, error)
	List() ([]*models.Reservation, error)
	Insert(r models.Reservation) error
	Update(r models.Reservation) error
	Delete(id string) error
}

// Store aggregates the entity stores. Flush writes any in-memory state to
// durable storage and must be invoked explicitly by the process boundary;
// persistence never rides on object teardown.
type Store interface {
	Aircraft() AircraftStore
	Crew() CrewStore
	Flights() FlightStore
	Users() UserStore
	Payments() PaymentStore
	Reservations() ReservationStore
	Flush() error
	Ping() error
}
