package storage

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyreserve/airline-backend/internal/models"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresStore(sqlx.NewDb(db, "sqlmock")), mock
}

func TestPostgresAircraftFindByID(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "model", "capacity", "seats_per_row", "rows"}).
		AddRow("AC-10001", "A320", 180, 6, 30)
	mock.ExpectQuery("SELECT id, model, capacity, seats_per_row, rows FROM aircraft WHERE id = \\$1").
		WithArgs("AC-10001").
		WillReturnRows(rows)

	aircraft, err := store.Aircraft().FindByID("AC-10001")
	require.NoError(t, err)
	assert.Equal(t, "A320", aircraft.Model)
	assert.Equal(t, 30, aircraft.Rows)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAircraftNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT id, model, capacity, seats_per_row, rows FROM aircraft WHERE id = \\$1").
		WithArgs("AC-99999").
		WillReturnRows(sqlmock.NewRows([]string{"id", "model", "capacity", "seats_per_row", "rows"}))

	_, err := store.Aircraft().FindByID("AC-99999")
	assert.ErrorIs(t, err, models.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFlightRoundTrip(t *testing.T) {
	store, mock := newMockStore(t)

	departure := time.Date(2026, 9, 1, 8, 30, 0, 0, time.UTC)
	arrival := departure.Add(4 * time.Hour)

	rows := sqlmock.NewRows([]string{
		"id", "origin", "destination", "departure_time", "arrival_time",
		"aircraft_id", "crew_member_ids", "seat_map",
	}).AddRow(
		"FL-10001", "CMB", "DXB", departure, arrival,
		"AC-10001", []byte(`["CM-10001","CM-10002"]`), []byte(`[[false,true],[false,false]]`),
	)
	mock.ExpectQuery("SELECT (.+) FROM flights WHERE id = \\$1").
		WithArgs("FL-10001").
		WillReturnRows(rows)

	flight, err := store.Flights().FindByID("FL-10001")
	require.NoError(t, err)

	assert.Equal(t, []string{"CM-10001", "CM-10002"}, flight.CrewMemberIDs)
	occupied, err := flight.SeatStatus("1B")
	require.NoError(t, err)
	assert.True(t, occupied)
	occupied, err = flight.SeatStatus("2A")
	require.NoError(t, err)
	assert.False(t, occupied)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserInsert(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO users").
		WithArgs("PAS-10001", "alice", "hash", models.RolePassenger, 0.0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Users().Insert(models.User{
		ID:           "PAS-10001",
		Username:     "alice",
		PasswordHash: "hash",
		Role:         models.RolePassenger,
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateMissingRowIsNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("UPDATE reservations SET").
		WithArgs("RES-99999", "FL-10001", "PAS-10001", "1A", models.ReservationConfirmed, "PAY-10001").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Reservations().Update(models.Reservation{
		ID:          "RES-99999",
		FlightID:    "FL-10001",
		PassengerID: "PAS-10001",
		SeatNumber:  "1A",
		Status:      models.ReservationConfirmed,
		PaymentID:   "PAY-10001",
	})
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPaymentDetailsJSON(t *testing.T) {
	store, mock := newMockStore(t)

	paid := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "passenger_id", "amount", "method", "details", "status", "payment_date", "transaction_ref",
	}).AddRow(
		"PAY-10001", "PAS-10001", 220.0, "credit",
		[]byte(`{"cardNumber":"4111111111111234","expirationDate":"12/27","cvv":"123"}`),
		"PENDING", paid, "",
	)
	mock.ExpectQuery("SELECT (.+) FROM payments WHERE id = \\$1").
		WithArgs("PAY-10001").
		WillReturnRows(rows)

	pmt, err := store.Payments().FindByID("PAY-10001")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, pmt.Status)
	assert.Equal(t, "4111111111111234", pmt.Details["cardNumber"])
	assert.InDelta(t, 220, pmt.Amount, 1e-9)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresReservationDelete(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("DELETE FROM reservations WHERE id = \\$1").
		WithArgs("RES-10001").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, store.Reservations().Delete("RES-10001"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
