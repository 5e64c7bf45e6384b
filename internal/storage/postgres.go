package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/skyreserve/airline-backend/internal/models"
	"github.com/skyreserve/airline-backend/internal/seatmap"
)

// PostgresStore implements the Store interfaces on top of Postgres via
// sqlx. Seat maps, crew assignments and payment details are persisted as
// JSON columns. Flush is a no-op because every write already hits the
// database.
type PostgresStore struct {
	db           *sqlx.DB
	aircraft     *pgAircraftStore
	crew         *pgCrewStore
	flights      *pgFlightStore
	users        *pgUserStore
	payments     *pgPaymentStore
	reservations *pgReservationStore
}

// OpenPostgres connects to the database and configures the pool.
func OpenPostgres(url string, maxConns, maxIdle int, connLifetime time.Duration) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(connLifetime)
	return NewPostgresStore(db), nil
}

// NewPostgresStore wraps an existing connection; used by tests with sqlmock.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{
		db:           db,
		aircraft:     &pgAircraftStore{db: db},
		crew:         &pgCrewStore{db: db},
		flights:      &pgFlightStore{db: db},
		users:        &pgUserStore{db: db},
		payments:     &pgPaymentStore{db: db},
		reservations: &pgReservationStore{db: db},
	}
}

func (s *PostgresStore) Aircraft() AircraftStore        { return s.aircraft }
func (s *PostgresStore) Crew() CrewStore                { return s.crew }
func (s *PostgresStore) Flights() FlightStore           { return s.flights }
func (s *PostgresStore) Users() UserStore               { return s.users }
func (s *PostgresStore) Payments() PaymentStore         { return s.payments }
func (s *PostgresStore) Reservations() ReservationStore { return s.reservations }

func (s *PostgresStore) Flush() error { return nil }

func (s *PostgresStore) Ping() error { return s.db.Ping() }

// Close releases the connection pool.
func (s *PostgresStore) Close() error { return s.db.Close() }

func notFoundOr(err error, what, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", what, id, models.ErrNotFound)
	}
	return fmt.Errorf("failed to fetch %s %s: %w", what, id, err)
}

func writeFailure(err error, action, what, id string) error {
	return fmt.Errorf("failed to %s %s %s: %w: %v", action, what, id, models.ErrPersistenceFailure, err)
}

func requireRowChange(res sql.Result, what, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return writeFailure(err, "verify write of", what, id)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", what, id, models.ErrNotFound)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Aircraft
// ---------------------------------------------------------------------------

type pgAircraftStore struct {
	db *sqlx.DB
}

func (s *pgAircraftStore) FindByID(id string) (*models.Aircraft, error) {
	var a models.Aircraft
	err := s.db.Get(&a, `SELECT id, model, capacity, seats_per_row, rows FROM aircraft WHERE id = $1`, id)
	if err != nil {
		return nil, notFoundOr(err, "aircraft", id)
	}
	return &a, nil
}

func (s *pgAircraftStore) List() ([]*models.Aircraft, error) {
	var out []*models.Aircraft
	if err := s.db.Select(&out, `SELECT id, model, capacity, seats_per_row, rows FROM aircraft ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to list aircraft: %w", err)
	}
	return out, nil
}

func (s *pgAircraftStore) Insert(a models.Aircraft) error {
	_, err := s.db.Exec(
		`INSERT INTO aircraft (id, model, capacity, seats_per_row, rows) VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.Model, a.Capacity, a.SeatsPerRow, a.Rows,
	)
	if err != nil {
		return writeFailure(err, "insert", "aircraft", a.ID)
	}
	return nil
}

func (s *pgAircraftStore) Update(a models.Aircraft) error {
	res, err := s.db.Exec(
		`UPDATE aircraft SET model = $2, capacity = $3, seats_per_row = $4, rows = $5 WHERE id = $1`,
		a.ID, a.Model, a.Capacity, a.SeatsPerRow, a.Rows,
	)
	if err != nil {
		return writeFailure(err, "update", "aircraft", a.ID)
	}
	return requireRowChange(res, "aircraft", a.ID)
}

func (s *pgAircraftStore) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM aircraft WHERE id = $1`, id)
	if err != nil {
		return writeFailure(err, "delete", "aircraft", id)
	}
	return requireRowChange(res, "aircraft", id)
}

// ---------------------------------------------------------------------------
// Crew
// ---------------------------------------------------------------------------

type pgCrewStore struct {
	db *sqlx.DB
}

func (s *pgCrewStore) FindByID(id string) (*models.CrewMember, error) {
	var c models.CrewMember
	err := s.db.Get(&c, `SELECT id, name, role FROM crew_members WHERE id = $1`, id)
	if err != nil {
		return nil, notFoundOr(err, "crew member", id)
	}
	return &c, nil
}

func (s *pgCrewStore) List() ([]*models.CrewMember, error) {
	var out []*models.CrewMember
	if err := s.db.Select(&out, `SELECT id, name, role FROM crew_members ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to list crew members: %w", err)
	}
	return out, nil
}

func (s *pgCrewStore) Insert(c models.CrewMember) error {
	_, err := s.db.Exec(`INSERT INTO crew_members (id, name, role) VALUES ($1, $2, $3)`, c.ID, c.Name, c.Role)
	if err != nil {
		return writeFailure(err, "insert", "crew member", c.ID)
	}
	return nil
}

func (s *pgCrewStore) Update(c models.CrewMember) error {
	res, err := s.db.Exec(`UPDATE crew_members SET name = $2, role = $3 WHERE id = $1`, c.ID, c.Name, c.Role)
	if err != nil {
		return writeFailure(err, "update", "crew member", c.ID)
	}
	return requireRowChange(res, "crew member", c.ID)
}

func (s *pgCrewStore) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM crew_members WHERE id = $1`, id)
	if err != nil {
		return writeFailure(err, "delete", "crew member", id)
	}
	return requireRowChange(res, "crew member", id)
}

// ---------------------------------------------------------------------------
// Flights
// ---------------------------------------------------------------------------

type pgFlightStore struct {
	db *sqlx.DB
}

// flightRow flattens the JSON columns for scanning.
type flightRow struct {
	ID            string    `db:"id"`
	Origin        string    `db:"origin"`
	Destination   string    `db:"destination"`
	DepartureTime time.Time `db:"departure_time"`
	ArrivalTime   time.Time `db:"arrival_time"`
	AircraftID    string    `db:"aircraft_id"`
	CrewMemberIDs []byte    `db:"crew_member_ids"`
	SeatMap       []byte    `db:"seat_map"`
}

func (r *flightRow) toModel() (*models.Flight, error) {
	f := &models.Flight{
		ID:            r.ID,
		Origin:        r.Origin,
		Destination:   r.Destination,
		DepartureTime: r.DepartureTime,
		ArrivalTime:   r.ArrivalTime,
		AircraftID:    r.AircraftID,
	}
	if err := json.Unmarshal(r.CrewMemberIDs, &f.CrewMemberIDs); err != nil {
		return nil, fmt.Errorf("failed to decode crew ids for flight %s: %w", r.ID, err)
	}
	var grid seatmap.Map
	if err := json.Unmarshal(r.SeatMap, &grid); err != nil {
		return nil, fmt.Errorf("failed to decode seat map for flight %s: %w", r.ID, err)
	}
	f.SeatMap = grid
	return f, nil
}

func flightArgs(f models.Flight) (crewJSON, seatJSON []byte, err error) {
	crew := f.CrewMemberIDs
	if crew == nil {
		crew = []string{}
	}
	crewJSON, err = json.Marshal(crew)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode crew ids for flight %s: %w", f.ID, err)
	}
	seatJSON, err = json.Marshal(f.SeatMap)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode seat map for flight %s: %w", f.ID, err)
	}
	return crewJSON, seatJSON, nil
}

const flightColumns = `id, origin, destination, departure_time, arrival_time, aircraft_id, crew_member_ids, seat_map`

func (s *pgFlightStore) FindByID(id string) (*models.Flight, error) {
	var row flightRow
	err := s.db.Get(&row, `SELECT `+flightColumns+` FROM flights WHERE id = $1`, id)
	if err != nil {
		return nil, notFoundOr(err, "flight", id)
	}
	return row.toModel()
}

func (s *pgFlightStore) List() ([]*models.Flight, error) {
	var rows []flightRow
	if err := s.db.Select(&rows, `SELECT `+flightColumns+` FROM flights ORDER BY departure_time`); err != nil {
		return nil, fmt.Errorf("failed to list flights: %w", err)
	}
	out := make([]*models.Flight, 0, len(rows))
	for i := range rows {
		f, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func (s *pgFlightStore) Insert(f models.Flight) error {
	crewJSON, seatJSON, err := flightArgs(f)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO flights (`+flightColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		f.ID, f.Origin, f.Destination, f.DepartureTime, f.ArrivalTime, f.AircraftID, crewJSON, seatJSON,
	)
	if err != nil {
		return writeFailure(err, "insert", "flight", f.ID)
	}
	return nil
}

func (s *pgFlightStore) Update(f models.Flight) error {
	crewJSON, seatJSON, err := flightArgs(f)
	if err != nil {
		return err
	}
	res, err := s.db.Exec(
		`UPDATE flights SET origin = $2, destination = $3, departure_time = $4, arrival_time = $5,
		 aircraft_id = $6, crew_member_ids = $7, seat_map = $8 WHERE id = $1`,
		f.ID, f.Origin, f.Destination, f.DepartureTime, f.ArrivalTime, f.AircraftID, crewJSON, seatJSON,
	)
	if err != nil {
		return writeFailure(err, "update", "flight", f.ID)
	}
	return requireRowChange(res, "flight", f.ID)
}

func (s *pgFlightStore) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM flights WHERE id = $1`, id)
	if err != nil {
		return writeFailure(err, "delete", "flight", id)
	}
	return requireRowChange(res, "flight", id)
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type pgUserStore struct {
	db *sqlx.DB
}

const userColumns = `id, username, password_hash, role, loyalty_points`

func (s *pgUserStore) FindByID(id string) (*models.User, error) {
	var u models.User
	err := s.db.Get(&u, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		return nil, notFoundOr(err, "user", id)
	}
	return &u, nil
}

func (s *pgUserStore) FindByUsername(username string) (*models.User, error) {
	var u models.User
	err := s.db.Get(&u, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	if err != nil {
		return nil, notFoundOr(err, "user", username)
	}
	return &u, nil
}

func (s *pgUserStore) FindByRole(role models.Role) ([]*models.User, error) {
	var out []*models.User
	if err := s.db.Select(&out, `SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY id`, role); err != nil {
		return nil, fmt.Errorf("failed to list users by role: %w", err)
	}
	return out, nil
}

func (s *pgUserStore) List() ([]*models.User, error) {
	var out []*models.User
	if err := s.db.Select(&out, `SELECT `+userColumns+` FROM users ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return out, nil
}

func (s *pgUserStore) Insert(u models.User) error {
	_, err := s.db.Exec(
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Username, u.PasswordHash, u.Role, u.LoyaltyPoints,
	)
	if err != nil {
		return writeFailure(err, "insert", "user", u.ID)
	}
	return nil
}

func (s *pgUserStore) Update(u models.User) error {
	res, err := s.db.Exec(
		`UPDATE users SET username = $2, password_hash = $3, role = $4, loyalty_points = $5 WHERE id = $1`,
		u.ID, u.Username, u.PasswordHash, u.Role, u.LoyaltyPoints,
	)
	if err != nil {
		return writeFailure(err, "update", "user", u.ID)
	}
	return requireRowChange(res, "user", u.ID)
}

func (s *pgUserStore) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return writeFailure(err, "delete", "user", id)
	}
	return requireRowChange(res, "user", id)
}

// ---------------------------------------------------------------------------
// Payments
// ---------------------------------------------------------------------------

type pgPaymentStore struct {
	db *sqlx.DB
}

type paymentRow struct {
	ID             string    `db:"id"`
	PassengerID    string    `db:"passenger_id"`
	Amount         float64   `db:"amount"`
	Method         string    `db:"method"`
	Details        []byte    `db:"details"`
	Status         string    `db:"status"`
	PaymentDate    time.Time `db:"payment_date"`
	TransactionRef string    `db:"transaction_ref"`
}

func (r *paymentRow) toModel() (*models.Payment, error) {
	p := &models.Payment{
		ID:             r.ID,
		PassengerID:    r.PassengerID,
		Amount:         r.Amount,
		Method:         r.Method,
		Status:         models.PaymentStatus(r.Status),
		PaymentDate:    r.PaymentDate,
		TransactionRef: r.TransactionRef,
	}
	if len(r.Details) > 0 {
		if err := json.Unmarshal(r.Details, &p.Details); err != nil {
			return nil, fmt.Errorf("failed to decode details for payment %s: %w", r.ID, err)
		}
	}
	return p, nil
}

const paymentColumns = `id, passenger_id, amount, method, details, status, payment_date, transaction_ref`

func (s *pgPaymentStore) FindByID(id string) (*models.Payment, error) {
	var row paymentRow
	err := s.db.Get(&row, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
	if err != nil {
		return nil, notFoundOr(err, "payment", id)
	}
	return row.toModel()
}

func (s *pgPaymentStore) FindByPassenger(passengerID string) ([]*models.Payment, error) {
	var rows []paymentRow
	err := s.db.Select(&rows, `SELECT `+paymentColumns+` FROM payments WHERE passenger_id = $1 ORDER BY payment_date`, passengerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments for passenger %s: %w", passengerID, err)
	}
	out := make([]*models.Payment, 0, len(rows))
	for i := range rows {
		p, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *pgPaymentStore) Insert(p models.Payment) error {
	details, err := json.Marshal(p.Details)
	if err != nil {
		return fmt.Errorf("failed to encode details for payment %s: %w", p.ID, err)
	}
	_, err = s.db.Exec(
		`INSERT INTO payments (`+paymentColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.PassengerID, p.Amount, p.Method, details, p.Status, p.PaymentDate, p.TransactionRef,
	)
	if err != nil {
		return writeFailure(err, "insert", "payment", p.ID)
	}
	return nil
}

func (s *pgPaymentStore) Update(p models.Payment) error {
	details, err := json.Marshal(p.Details)
	if err != nil {
		return fmt.Errorf("failed to encode details for payment %s: %w", p.ID, err)
	}
	res, err := s.db.Exec(
		`UPDATE payments SET passenger_id = $2, amount = $3, method = $4, details = $5,
		 status = $6, payment_date = $7, transaction_ref = $8 WHERE id = $1`,
		p.ID, p.PassengerID, p.Amount, p.Method, details, p.Status, p.PaymentDate, p.TransactionRef,
	)
	if err != nil {
		return writeFailure(err, "update", "payment", p.ID)
	}
	return requireRowChange(res, "payment", p.ID)
}

func (s *pgPaymentStore) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return writeFailure(err, "delete", "payment", id)
	}
	return requireRowChange(res, "payment", id)
}

// ---------------------------------------------------------------------------
// Reservations
// ---------------------------------------------------------------------------

type pgReservationStore struct {
	db *sqlx.DB
}

const reservationColumns = `id, flight_id, passenger_id, seat_number, status, payment_id`

type reservationRow struct {
	ID          string `db:"id"`
	FlightID    string `db:"flight_id"`
	PassengerID string `db:"passenger_id"`
	SeatNumber  string `db:"seat_number"`
	Status      string `db:"status"`
	PaymentID   string `db:"payment_id"`
}

func (r *reservationRow) toModel() *models.Reservation {
	return &models.Reservation{
		ID:          r.ID,
		FlightID:    r.FlightID,
		PassengerID: r.PassengerID,
		SeatNumber:  r.SeatNumber,
		Status:      models.ReservationStatus(r.Status),
		PaymentID:   r.PaymentID,
	}
}

func (s *pgReservationStore) FindByID(id string) (*models.Reservation, error) {
	var row reservationRow
	err := s.db.Get(&row, `SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id)
	if err != nil {
		return nil, notFoundOr(err, "reservation", id)
	}
	return row.toModel(), nil
}

func (s *pgReservationStore) FindByPassenger(passengerID string) ([]*models.Reservation, error) {
	var rows []reservationRow
	err := s.db.Select(&rows, `SELECT `+reservationColumns+` FROM reservations WHERE passenger_id = $1 ORDER BY id`, passengerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations for passenger %s: %w", passengerID, err)
	}
	out := make([]*models.Reservation, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toModel())
	}
	return out, nil
}

func (s *pgReservationStore) List() ([]*models.Reservation, error) {
	var rows []reservationRow
	if err := s.db.Select(&rows, `SELECT `+reservationColumns+` FROM reservations ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	out := make([]*models.Reservation, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toModel())
	}
	return out, nil
}

func (s *pgReservationStore) Insert(r models.Reservation) error {
	_, err := s.db.Exec(
		`INSERT INTO reservations (`+reservationColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		r.ID, r.FlightID, r.PassengerID, r.SeatNumber, r.Status, r.PaymentID,
	)
	if err != nil {
		return writeFailure(err, "insert", "reservation", r.ID)
	}
	return nil
}

func (s *pgReservationStore) Update(r models.Reservation) error {
	res, err := s.db.Exec(
		`UPDATE reservations SET flight_id = $2, passenger_id = $3, seat_number = $4, status = $5, payment_id = $6 WHERE id = $1`,
		r.ID, r.FlightID, r.PassengerID, r.SeatNumber, r.Status, r.PaymentID,
	)
	if err != nil {
		return writeFailure(err, "update", "reservation", r.ID)
	}
	return requireRowChange(res, "reservation", r.ID)
}

func (s *pgReservationStore) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return writeFailure(err, "delete", "reservation", id)
	}
	return requireRowChange(res, "reservation", id)
}
