package models

import "errors"

// ReservationStatus is the booking state. CANCELLED is terminal; there is
// no un-cancel.
type ReservationStatus string

const (
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationCancelled ReservationStatus = "CANCELLED"
)

// Reservation ties a passenger to a seat on a flight and to the payment
// that funded it. The reservation does not own the seat flag on the
// flight's map, but every mutation here must keep that flag synchronized.
type Reservation struct {
	ID          string            `json:"id"`
	FlightID    string            `json:"flight_id"`
	PassengerID string            `json:"passenger_id"`
	SeatNumber  string            `json:"seat_number"`
	Status      ReservationStatus `json:"status"`
	PaymentID   string            `json:"payment_id"`
}

// CreateReservationRequest is the booking payload. PaymentDetails carries
// the method-specific fields (card number, expiry, CVV for credit; email
// for paypal; nothing for cash).
type CreateReservationRequest struct {
	FlightID       string            `json:"flight_id" binding:"required"`
	SeatNumber     string            `json:"seat_number" binding:"required"`
	PassengerID    string            `json:"passenger_id"`
	PaymentMethod  string            `json:"payment_method" binding:"required"`
	PaymentDetails map[string]string `json:"payment_details"`
}

// Validate checks the booking payload.
func (r *CreateReservationRequest) Validate() error {
	if r.FlightID == "" {
		return errors.New("flight_id cannot be empty")
	}
	if r.SeatNumber == "" {
		return errors.New("seat_number cannot be empty")
	}
	if r.PaymentMethod == "" {
		return errors.New("payment_method cannot be empty")
	}
	return nil
}

// ChangeSeatRequest moves a reservation to a new seat, optionally on a
// different flight. An empty FlightID keeps the current flight.
type ChangeSeatRequest struct {
	FlightID   string `json:"flight_id"`
	SeatNumber string `json:"seat_number" binding:"required"`
}

// Validate checks the seat change payload.
func (r *ChangeSeatRequest) Validate() error {
	if r.SeatNumber == "" {
		return errors.New("seat_number cannot be empty")
	}
	return nil
}
