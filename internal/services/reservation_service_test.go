package services

import (
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyreserve/airline-backend/internal/models"
	"github.com/skyreserve/airline-backend/internal/payment"
	"github.com/skyreserve/airline-backend/internal/seatmap"
	"github.com/skyreserve/airline-backend/internal/storage"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type reservationFixture struct {
	store        storage.Store
	payments     *PaymentService
	reservations *ReservationService
	passenger    models.User
	flight       models.Flight
}

func newReservationFixture(t *testing.T) *reservationFixture {
	t.Helper()

	store, err := storage.Open(t.TempDir())
	require.NoError(t, err)

	logger := testLogger()
	payments := NewPaymentService(store, logger)
	reservations := NewReservationService(store, payments, logger)

	passenger := models.User{
		ID:       "PAS-10001",
		Username: "alice",
		Role:     models.RolePassenger,
	}
	require.NoError(t, store.Users().Insert(passenger))

	aircraft := models.Aircraft{ID: "AC-10001", Model: "A320", Capacity: 180, SeatsPerRow: 6, Rows: 30}
	require.NoError(t, store.Aircraft().Insert(aircraft))

	flight := models.Flight{
		ID:          "FL-10001",
		Origin:      "CMB",
		Destination: "SIN",
		AircraftID:  aircraft.ID,
		SeatMap:     seatmap.New(aircraft.Layout()),
	}
	require.NoError(t, store.Flights().Insert(flight))

	return &reservationFixture{
		store:        store,
		payments:     payments,
		reservations: reservations,
		passenger:    passenger,
		flight:       flight,
	}
}

func (f *reservationFixture) createRequest(seat string) *models.CreateReservationRequest {
	return &models.CreateReservationRequest{
		FlightID:      f.flight.ID,
		SeatNumber:    seat,
		PassengerID:   f.passenger.ID,
		PaymentMethod: "cash",
	}
}

func (f *reservationFixture) seatOccupied(t *testing.T, seat string) bool {
	t.Helper()
	flight, err := f.store.Flights().FindByID(f.flight.ID)
	require.NoError(t, err)
	occupied, err := flight.SeatStatus(seat)
	require.NoError(t, err)
	return occupied
}

func TestCreateReservation(t *testing.T) {
	f := newReservationFixture(t)

	reservation, err := f.reservations.CreateReservation(f.createRequest("1A"))
	require.NoError(t, err)

	assert.Equal(t, models.ReservationConfirmed, reservation.Status)
	assert.Equal(t, f.flight.ID, reservation.FlightID)
	assert.Equal(t, f.passenger.ID, reservation.PassengerID)
	assert.Equal(t, "1A", reservation.SeatNumber)

	// Seat flag flipped
	assert.True(t, f.seatOccupied(t, "1A"))

	// Payment created PENDING for the priced amount (1A: 200 + 20 window)
	pmt, err := f.store.Payments().FindByID(reservation.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, pmt.Status)
	assert.InDelta(t, 220, pmt.Amount, 1e-9)
	assert.Equal(t, "cash", pmt.Method)

	// Loyalty accrued: 10% of the fare
	user, err := f.store.Users().FindByID(f.passenger.ID)
	require.NoError(t, err)
	assert.InDelta(t, 22, user.LoyaltyPoints, 1e-9)
}

func TestCreateReservationLoyaltyDeduction(t *testing.T) {
	f := newReservationFixture(t)

	user, err := f.store.Users().FindByID(f.passenger.ID)
	require.NoError(t, err)
	user.LoyaltyPoints = 50
	require.NoError(t, f.store.Users().Update(*user))

	// 2B base 200, discount min(50, 60) = 50, price 150
	reservation, err := f.reservations.CreateReservation(f.createRequest("2B"))
	require.NoError(t, err)

	pmt, err := f.store.Payments().FindByID(reservation.PaymentID)
	require.NoError(t, err)
	assert.InDelta(t, 150, pmt.Amount, 1e-9)

	// Deduction: min(50, 15) = 15 spent
	user, err = f.store.Users().FindByID(f.passenger.ID)
	require.NoError(t, err)
	assert.InDelta(t, 35, user.LoyaltyPoints, 1e-9)
}

func TestCreateReservationUnknownPassenger(t *testing.T) {
	f := newReservationFixture(t)

	req := f.createRequest("1A")
	req.PassengerID = "PAS-99999"

	_, err := f.reservations.CreateReservation(req)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestCreateReservationNonPassengerRole(t *testing.T) {
	f := newReservationFixture(t)

	admin := models.User{ID: "ADM-10001", Username: "root", Role: models.RoleAdmin}
	require.NoError(t, f.store.Users().Insert(admin))

	req := f.createRequest("1A")
	req.PassengerID = admin.ID

	_, err := f.reservations.CreateReservation(req)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestCreateReservationUnknownFlight(t *testing.T) {
	f := newReservationFixture(t)

	req := f.createRequest("1A")
	req.FlightID = "FL-99999"

	_, err := f.reservations.CreateReservation(req)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCreateReservationInvalidSeat(t *testing.T) {
	f := newReservationFixture(t)

	// Invalid labels are unavailable at booking time, with the parse
	// error preserved underneath.
	_, err := f.reservations.CreateReservation(f.createRequest("31A"))
	assert.ErrorIs(t, err, models.ErrSeatUnavailable)
	assert.ErrorIs(t, err, seatmap.ErrInvalidSeat)

	_, err = f.reservations.CreateReservation(f.createRequest("12G"))
	assert.ErrorIs(t, err, models.ErrSeatUnavailable)
	assert.ErrorIs(t, err, seatmap.ErrInvalidSeat)
}

func TestCreateReservationDoubleBook(t *testing.T) {
	f := newReservationFixture(t)

	_, err := f.reservations.CreateReservation(f.createRequest("10C"))
	require.NoError(t, err)

	_, err = f.reservations.CreateReservation(f.createRequest("10C"))
	assert.ErrorIs(t, err, models.ErrSeatUnavailable)
}

func TestCreateReservationPaymentFailureLeavesNoResidue(t *testing.T) {
	f := newReservationFixture(t)

	req := f.createRequest("5F")
	req.PaymentMethod = "credit"
	req.PaymentDetails = map[string]string{
		"cardNumber":     "not-a-card",
		"expirationDate": "12/27",
		"cvv":            "123",
	}

	_, err := f.reservations.CreateReservation(req)
	require.ErrorIs(t, err, payment.ErrInvalidDetails)

	// Seat still free
	assert.False(t, f.seatOccupied(t, "5F"))

	// Loyalty untouched
	user, err := f.store.Users().FindByID(f.passenger.ID)
	require.NoError(t, err)
	assert.Zero(t, user.LoyaltyPoints)

	// No payment or reservation records
	payments, err := f.store.Payments().FindByPassenger(f.passenger.ID)
	require.NoError(t, err)
	assert.Empty(t, payments)

	reservations, err := f.store.Reservations().FindByPassenger(f.passenger.ID)
	require.NoError(t, err)
	assert.Empty(t, reservations)
}

func TestCreateReservationUnknownPaymentMethod(t *testing.T) {
	f := newReservationFixture(t)

	req := f.createRequest("5F")
	req.PaymentMethod = "barter"

	_, err := f.reservations.CreateReservation(req)
	assert.ErrorIs(t, err, payment.ErrUnknownMethod)
	assert.False(t, f.seatOccupied(t, "5F"))
}

func TestCancelReservation(t *testing.T) {
	f := newReservationFixture(t)

	reservation, err := f.reservations.CreateReservation(f.createRequest("7D"))
	require.NoError(t, err)
	require.True(t, f.seatOccupied(t, "7D"))

	require.NoError(t, f.reservations.CancelReservation(reservation.ID))

	// Seat released, record gone
	assert.False(t, f.seatOccupied(t, "7D"))
	_, err = f.store.Reservations().FindByID(reservation.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	// The payment survives; refunds are a separate explicit call.
	pmt, err := f.store.Payments().FindByID(reservation.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, pmt.Status)

	// The seat is immediately rebookable.
	_, err = f.reservations.CreateReservation(f.createRequest("7D"))
	assert.NoError(t, err)
}

func TestCancelReservationMissingFlight(t *testing.T) {
	f := newReservationFixture(t)

	reservation, err := f.reservations.CreateReservation(f.createRequest("7D"))
	require.NoError(t, err)

	// Flight deleted out-of-band: cancel still succeeds.
	require.NoError(t, f.store.Flights().Delete(f.flight.ID))
	assert.NoError(t, f.reservations.CancelReservation(reservation.ID))

	_, err = f.store.Reservations().FindByID(reservation.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCancelReservationNotFound(t *testing.T) {
	f := newReservationFixture(t)
	err := f.reservations.CancelReservation("RES-99999")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestChangeSeat(t *testing.T) {
	f := newReservationFixture(t)

	reservation, err := f.reservations.CreateReservation(f.createRequest("4A"))
	require.NoError(t, err)

	updated, err := f.reservations.ChangeSeat(reservation.ID, &models.ChangeSeatRequest{SeatNumber: "9C"})
	require.NoError(t, err)
	assert.Equal(t, "9C", updated.SeatNumber)
	assert.Equal(t, f.flight.ID, updated.FlightID)

	// Old seat freed, new seat claimed, as a pair.
	assert.False(t, f.seatOccupied(t, "4A"))
	assert.True(t, f.seatOccupied(t, "9C"))

	// The stored record reflects the move.
	stored, err := f.store.Reservations().FindByID(reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, "9C", stored.SeatNumber)
}

func TestChangeSeatToOccupiedSeat(t *testing.T) {
	f := newReservationFixture(t)

	first, err := f.reservations.CreateReservation(f.createRequest("4A"))
	require.NoError(t, err)
	_, err = f.reservations.CreateReservation(f.createRequest("4B"))
	require.NoError(t, err)

	_, err = f.reservations.ChangeSeat(first.ID, &models.ChangeSeatRequest{SeatNumber: "4B"})
	assert.ErrorIs(t, err, models.ErrSeatUnavailable)

	// Nothing moved.
	assert.True(t, f.seatOccupied(t, "4A"))
	assert.True(t, f.seatOccupied(t, "4B"))
	stored, err := f.store.Reservations().FindByID(first.ID)
	require.NoError(t, err)
	assert.Equal(t, "4A", stored.SeatNumber)
}

func TestChangeSeatSameSeatIsNoOp(t *testing.T) {
	f := newReservationFixture(t)

	reservation, err := f.reservations.CreateReservation(f.createRequest("4A"))
	require.NoError(t, err)

	updated, err := f.reservations.ChangeSeat(reservation.ID, &models.ChangeSeatRequest{SeatNumber: "4A"})
	require.NoError(t, err)
	assert.Equal(t, "4A", updated.SeatNumber)
	assert.True(t, f.seatOccupied(t, "4A"))
}

func TestChangeSeatAcrossFlights(t *testing.T) {
	f := newReservationFixture(t)

	other := models.Flight{
		ID:          "FL-10002",
		Origin:      "SIN",
		Destination: "CMB",
		AircraftID:  "AC-10001",
		SeatMap:     seatmap.New(seatmap.Layout{Rows: 30, SeatsPerRow: 6}),
	}
	require.NoError(t, f.store.Flights().Insert(other))

	reservation, err := f.reservations.CreateReservation(f.createRequest("4A"))
	require.NoError(t, err)

	updated, err := f.reservations.ChangeSeat(reservation.ID, &models.ChangeSeatRequest{
		FlightID:   other.ID,
		SeatNumber: "1F",
	})
	require.NoError(t, err)
	assert.Equal(t, other.ID, updated.FlightID)
	assert.Equal(t, "1F", updated.SeatNumber)

	// Original flight's seat freed, other flight's claimed.
	assert.False(t, f.seatOccupied(t, "4A"))
	otherStored, err := f.store.Flights().FindByID(other.ID)
	require.NoError(t, err)
	occupied, err := otherStored.SeatStatus("1F")
	require.NoError(t, err)
	assert.True(t, occupied)
}

func TestConcurrentCreatesOneSeat(t *testing.T) {
	f := newReservationFixture(t)

	// A second passenger racing for the same seat.
	rival := models.User{ID: "PAS-10002", Username: "bob", Role: models.RolePassenger}
	require.NoError(t, f.store.Users().Insert(rival))

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		passengerID := f.passenger.ID
		if i%2 == 1 {
			passengerID = rival.ID
		}
		req := f.createRequest("12D")
		req.PassengerID = passengerID

		wg.Add(1)
		go func(i int, req *models.CreateReservationRequest) {
			defer wg.Done()
			_, errs[i] = f.reservations.CreateReservation(req)
		}(i, req)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.True(t, errors.Is(err, models.ErrSeatUnavailable), "unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes, "exactly one booking may win the seat")
}
