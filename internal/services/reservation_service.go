package services

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/skyreserve/airline-backend/internal/models"
	"github.com/skyreserve/airline-backend/internal/storage"
)

// ReservationService is the booking orchestrator. A create coordinates
// passenger/flight/seat validation, pricing, the loyalty adjustment,
// payment creation, reservation persistence and the seat flag flip; modify
// and cancel keep the seat map synchronized with the record.
//
// The seat check and the seat flip are not atomic at the store level, so
// the mutex serializes every mutating operation. Reads go through without
// it.
type ReservationService struct {
	store    storage.Store
	payments *PaymentService
	logger   *logrus.Logger
	mu       sync.Mutex
}

// NewReservationService creates a new reservation service.
func NewReservationService(store storage.Store, payments *PaymentService, logger *logrus.Logger) *ReservationService {
	return &ReservationService{store: store, payments: payments, logger: logger}
}

// CreateReservation books a seat. Order matters: everything is validated
// and the payment record created before the reservation is persisted, and
// the seat flip plus loyalty commit happen only after that persistence
// succeeds. A payment-validation failure therefore leaves no trace in any
// store, and a reservation-persistence failure deletes the freshly created
// payment record.
func (s *ReservationService) CreateReservation(req *models.CreateReservationRequest) (*models.Reservation, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	passenger, err := s.store.Users().FindByID(req.PassengerID)
	if err != nil || !passenger.IsPassenger() {
		return nil, fmt.Errorf("passenger %s: %w", req.PassengerID, models.ErrUnauthorized)
	}

	flight, err := s.store.Flights().FindByID(req.FlightID)
	if err != nil {
		return nil, err
	}

	occupied, err := flight.SeatStatus(req.SeatNumber)
	if err != nil {
		// An invalid label is unavailable at booking time. The parse error
		// stays in the chain so callers can still tell the cases apart.
		return nil, fmt.Errorf("seat %s on flight %s: %w: %w", req.SeatNumber, req.FlightID, models.ErrSeatUnavailable, err)
	}
	if occupied {
		return nil, fmt.Errorf("seat %s on flight %s: %w", req.SeatNumber, req.FlightID, models.ErrSeatUnavailable)
	}

	price := SeatPrice(req.SeatNumber, passenger.LoyaltyPoints)

	// The fetched passenger is a detached copy, so this balance change is
	// invisible until the Update below commits it.
	passenger.LoyaltyPoints = nextLoyaltyBalance(passenger.LoyaltyPoints, price)

	pmt, err := s.payments.CreatePayment(passenger.ID, price, req.PaymentMethod, req.PaymentDetails)
	if err != nil {
		return nil, err
	}

	reservation := models.Reservation{
		ID: uniqueID("RES", func(id string) bool {
			_, err := s.store.Reservations().FindByID(id)
			return err == nil
		}),
		FlightID:    flight.ID,
		PassengerID: passenger.ID,
		SeatNumber:  req.SeatNumber,
		Status:      models.ReservationConfirmed,
		PaymentID:   pmt.ID,
	}
	if err := s.store.Reservations().Insert(reservation); err != nil {
		if derr := s.payments.deletePayment(pmt.ID); derr != nil {
			s.logger.WithFields(logrus.Fields{
				"payment_id": pmt.ID,
				"error":      derr.Error(),
			}).Error("Failed to roll back payment after reservation insert failure")
		}
		return nil, fmt.Errorf("reservation for seat %s: %w: %v", req.SeatNumber, models.ErrPersistenceFailure, err)
	}

	if err := flight.SetSeatStatus(req.SeatNumber, true); err != nil {
		// Unreachable: the label already parsed against this map above.
		s.logger.WithField("error", err.Error()).Error("Seat flip failed after validation")
	}
	if err := s.store.Flights().Update(*flight); err != nil {
		s.logger.WithFields(logrus.Fields{
			"flight_id": flight.ID,
			"seat":      req.SeatNumber,
			"error":     err.Error(),
		}).Error("Failed to persist seat flip for confirmed reservation")
	}
	if err := s.store.Users().Update(*passenger); err != nil {
		s.logger.WithFields(logrus.Fields{
			"passenger_id": passenger.ID,
			"error":        err.Error(),
		}).Error("Failed to persist loyalty balance for confirmed reservation")
	}

	s.logger.WithFields(logrus.Fields{
		"reservation_id": reservation.ID,
		"flight_id":      reservation.FlightID,
		"passenger_id":   reservation.PassengerID,
		"seat":           reservation.SeatNumber,
		"price":          price,
	}).Info("Reservation confirmed")

	return &reservation, nil
}

// ChangeSeat moves a reservation to a new seat, optionally on a different
// flight. The record is persisted first; the old-seat release and new-seat
// claim follow as an adjacent pair. Both flights are validated up front,
// so a flip failure afterwards is an invariant violation that gets logged,
// not surfaced.
func (s *ReservationService) ChangeSeat(reservationID string, req *models.ChangeSeatRequest) (*models.Reservation, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reservation, err := s.store.Reservations().FindByID(reservationID)
	if err != nil {
		return nil, err
	}

	targetFlightID := req.FlightID
	if targetFlightID == "" {
		targetFlightID = reservation.FlightID
	}
	target, err := s.store.Flights().FindByID(targetFlightID)
	if err != nil {
		return nil, err
	}

	if targetFlightID == reservation.FlightID && req.SeatNumber == reservation.SeatNumber {
		return reservation, nil
	}

	occupied, err := target.SeatStatus(req.SeatNumber)
	if err != nil {
		return nil, err
	}
	if occupied {
		return nil, fmt.Errorf("seat %s on flight %s: %w", req.SeatNumber, targetFlightID, models.ErrSeatUnavailable)
	}

	oldFlightID, oldSeat := reservation.FlightID, reservation.SeatNumber
	reservation.FlightID = targetFlightID
	reservation.SeatNumber = req.SeatNumber
	if err := s.store.Reservations().Update(*reservation); err != nil {
		return nil, fmt.Errorf("reservation %s: %w: %v", reservationID, models.ErrPersistenceFailure, err)
	}

	// Fetched flights are detached copies, so a same-flight move must flip
	// both seats on this one copy; a second fetch for the release would be
	// overwritten by the claim's write-back below.
	if oldFlightID == targetFlightID {
		if err := target.SetSeatStatus(oldSeat, false); err != nil {
			s.logger.WithField("error", err.Error()).Error("Seat release failed")
		}
	} else {
		s.releaseSeat(oldFlightID, oldSeat)
	}
	if err := target.SetSeatStatus(req.SeatNumber, true); err != nil {
		s.logger.WithField("error", err.Error()).Error("Seat claim failed after validation")
	}
	if err := s.store.Flights().Update(*target); err != nil {
		s.logger.WithFields(logrus.Fields{
			"flight_id": targetFlightID,
			"seat":      req.SeatNumber,
			"error":     err.Error(),
		}).Error("Failed to persist seat claim for moved reservation")
	}

	s.logger.WithFields(logrus.Fields{
		"reservation_id": reservation.ID,
		"old_seat":       oldSeat,
		"new_seat":       reservation.SeatNumber,
		"flight_id":      reservation.FlightID,
	}).Info("Reservation seat changed")

	return reservation, nil
}

// CancelReservation frees the seat and deletes the record. The seat
// release is best effort: a flight deleted out-of-band does not block the
// cancellation. The payment is left alone; refunds are an explicit,
// separate call.
func (s *ReservationService) CancelReservation(reservationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reservation, err := s.store.Reservations().FindByID(reservationID)
	if err != nil {
		return err
	}

	s.releaseSeat(reservation.FlightID, reservation.SeatNumber)

	if err := s.store.Reservations().Delete(reservationID); err != nil {
		return fmt.Errorf("reservation %s: %w: %v", reservationID, models.ErrPersistenceFailure, err)
	}

	s.logger.WithFields(logrus.Fields{
		"reservation_id": reservationID,
		"flight_id":      reservation.FlightID,
		"seat":           reservation.SeatNumber,
	}).Info("Reservation cancelled")

	return nil
}

// releaseSeat flips a seat free, tolerating a missing flight.
func (s *ReservationService) releaseSeat(flightID, seat string) {
	flight, err := s.store.Flights().FindByID(flightID)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"flight_id": flightID,
			"seat":      seat,
		}).Warn("Flight missing during seat release, skipping")
		return
	}
	if err := flight.SetSeatStatus(seat, false); err != nil {
		s.logger.WithField("error", err.Error()).Error("Seat release failed")
		return
	}
	if err := s.store.Flights().Update(*flight); err != nil {
		s.logger.WithFields(logrus.Fields{
			"flight_id": flightID,
			"seat":      seat,
			"error":     err.Error(),
		}).Error("Failed to persist seat release")
	}
}

// GetReservation fetches a reservation by ID.
func (s *ReservationService) GetReservation(id string) (*models.Reservation, error) {
	return s.store.Reservations().FindByID(id)
}

// ListByPassenger returns a passenger's reservations.
func (s *ReservationService) ListByPassenger(passengerID string) ([]*models.Reservation, error) {
	return s.store.Reservations().FindByPassenger(passengerID)
}

// ListReservations returns every reservation; booking-manager surface.
func (s *ReservationService) ListReservations() ([]*models.Reservation, error) {
	return s.store.Reservations().List()
}
