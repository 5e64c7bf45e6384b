package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/skyreserve/airline-backend/internal/models"
)

// JSONStore keeps every entity in an in-memory map, loaded from one JSON
// file per entity under a data directory. Writes mutate memory only;
// Flush serializes everything back to disk. A missing file is an empty
// store, so a fresh data directory boots cleanly.
type JSONStore struct {
	dir          string
	aircraft     *jsonAircraftStore
	crew         *jsonCrewStore
	flights      *jsonFlightStore
	users        *jsonUserStore
	payments     *jsonPaymentStore
	reservations *jsonReservationStore
}

// Open loads all entity files from dir, creating the directory if needed.
func Open(dir string) (*JSONStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &JSONStore{
		dir:          dir,
		aircraft:     &jsonAircraftStore{path: filepath.Join(dir, "aircraft.json"), items: map[string]models.Aircraft{}},
		crew:         &jsonCrewStore{path: filepath.Join(dir, "crew.json"), items: map[string]models.CrewMember{}},
		flights:      &jsonFlightStore{path: filepath.Join(dir, "flights.json"), items: map[string]models.Flight{}},
		users:        &jsonUserStore{path: filepath.Join(dir, "users.json"), items: map[string]models.User{}},
		payments:     &jsonPaymentStore{path: filepath.Join(dir, "payments.json"), items: map[string]models.Payment{}},
		reservations: &jsonReservationStore{path: filepath.Join(dir, "reservations.json"), items: map[string]models.Reservation{}},
	}

	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *JSONStore) load() error {
	var aircraft []models.Aircraft
	if err := readEntityFile(s.aircraft.path, &aircraft); err != nil {
		return err
	}
	for _, a := range aircraft {
		s.aircraft.items[a.ID] = a
	}

	var crew []models.CrewMember
	if err := readEntityFile(s.crew.path, &crew); err != nil {
		return err
	}
	for _, c := range crew {
		s.crew.items[c.ID] = c
	}

	var flights []models.Flight
	if err := readEntityFile(s.flights.path, &flights); err != nil {
		return err
	}
	for _, f := range flights {
		s.flights.items[f.ID] = f
	}

	var users []models.User
	if err := readEntityFile(s.users.path, &users); err != nil {
		return err
	}
	for _, u := range users {
		s.users.items[u.ID] = u
	}

	var payments []models.Payment
	if err := readEntityFile(s.payments.path, &payments); err != nil {
		return err
	}
	for _, p := range payments {
		s.payments.items[p.ID] = p
	}

	var reservations []models.Reservation
	if err := readEntityFile(s.reservations.path, &reservations); err != nil {
		return err
	}
	for _, r := range reservations {
		s.reservations.items[r.ID] = r
	}

	return nil
}

func (s *JSONStore) Aircraft() AircraftStore         { return s.aircraft }
func (s *JSONStore) Crew() CrewStore                 { return s.crew }
func (s *JSONStore) Flights() FlightStore            { return s.flights }
func (s *JSONStore) Users() UserStore                { return s.users }
func (s *JSONStore) Payments() PaymentStore          { return s.payments }
func (s *JSONStore) Reservations() ReservationStore { return s.reservations }

// Flush writes every entity file back to disk.
func (s *JSONStore) Flush() error {
	if err := s.aircraft.flush(); err != nil {
		return err
	}
	if err := s.crew.flush(); err != nil {
		return err
	}
	if err := s.flights.flush(); err != nil {
		return err
	}
	if err := s.users.flush(); err != nil {
		return err
	}
	if err := s.payments.flush(); err != nil {
		return err
	}
	return s.reservations.flush()
}

// Ping always succeeds for the in-memory store.
func (s *JSONStore) Ping() error { return nil }

func readEntityFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func writeEntityFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Aircraft
// ---------------------------------------------------------------------------

type jsonAircraftStore struct {
	mu    sync.RWMutex
	path  string
	items map[string]models.Aircraft
}

func (s *jsonAircraftStore) FindByID(id string) (*models.Aircraft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("aircraft %s: %w", id, models.ErrNotFound)
	}
	return &a, nil
}

func (s *jsonAircraftStore) List() ([]*models.Aircraft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Aircraft, 0, len(s.items))
	for _, a := range s.items {
		cp := a
		out = append(out, &cp)
	}
	return out, nil
}

func (s *jsonAircraftStore) Insert(a models.Aircraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[a.ID]; exists {
		return fmt.Errorf("aircraft %s already exists: %w", a.ID, models.ErrPersistenceFailure)
	}
	s.items[a.ID] = a
	return nil
}

func (s *jsonAircraftStore) Update(a models.Aircraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[a.ID]; !exists {
		return fmt.Errorf("aircraft %s: %w", a.ID, models.ErrNotFound)
	}
	s.items[a.ID] = a
	return nil
}

func (s *jsonAircraftStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[id]; !exists {
		return fmt.Errorf("aircraft %s: %w", id, models.ErrNotFound)
	}
	delete(s.items, id)
	return nil
}

func (s *jsonAircraftStore) flush() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Aircraft, 0, len(s.items))
	for _, a := range s.items {
		out = append(out, a)
	}
	return writeEntityFile(s.path, out)
}

// ---------------------------------------------------------------------------
// Crew
// ---------------------------------------------------------------------------

type jsonCrewStore struct {
	mu    sync.RWMutex
	path  string
	items map[string]models.CrewMember
}

func (s *jsonCrewStore) FindByID(id string) (*models.CrewMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("crew member %s: %w", id, models.ErrNotFound)
	}
	return &c, nil
}

func (s *jsonCrewStore) List() ([]*models.CrewMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.CrewMember, 0, len(s.items))
	for _, c := range s.items {
		cp := c
		out = append(out, &cp)
	}
	return out, nil
}

func (s *jsonCrewStore) Insert(c models.CrewMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[c.ID]; exists {
		return fmt.Errorf("crew member %s already exists: %w", c.ID, models.ErrPersistenceFailure)
	}
	s.items[c.ID] = c
	return nil
}

func (s *jsonCrewStore) Update(c models.CrewMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[c.ID]; !exists {
		return fmt.Errorf("crew member %s: %w", c.ID, models.ErrNotFound)
	}
	s.items[c.ID] = c
	return nil
}

func (s *jsonCrewStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[id]; !exists {
		return fmt.Errorf("crew member %s: %w", id, models.ErrNotFound)
	}
	delete(s.items, id)
	return nil
}

func (s *jsonCrewStore) flush() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CrewMember, 0, len(s.items))
	for _, c := range s.items {
		out = append(out, c)
	}
	return writeEntityFile(s.path, out)
}

// ---------------------------------------------------------------------------
// Flights
// ---------------------------------------------------------------------------

type jsonFlightStore struct {
	mu    sync.RWMutex
	path  string
	items map[string]models.Flight
}

// copyFlight detaches the slices so a fetched flight never aliases the
// stored one.
func copyFlight(f models.Flight) models.Flight {
	cp := f
	cp.SeatMap = f.SeatMap.Clone()
	cp.CrewMemberIDs = append([]string(nil), f.CrewMemberIDs...)
	return cp
}

func (s *jsonFlightStore) FindByID(id string) (*models.Flight, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("flight %s: %w", id, models.ErrNotFound)
	}
	cp := copyFlight(f)
	return &cp, nil
}

func (s *jsonFlightStore) List() ([]*models.Flight, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Flight, 0, len(s.items))
	for _, f := range s.items {
		cp := copyFlight(f)
		out = append(out, &cp)
	}
	return out, nil
}

func (s *jsonFlightStore) Insert(f models.Flight) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[f.ID]; exists {
		return fmt.Errorf("flight %s already exists: %w", f.ID, models.ErrPersistenceFailure)
	}
	s.items[f.ID] = copyFlight(f)
	return nil
}

func (s *jsonFlightStore) Update(f models.Flight) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[f.ID]; !exists {
		return fmt.Errorf("flight %s: %w", f.ID, models.ErrNotFound)
	}
	s.items[f.ID] = copyFlight(f)
	return nil
}

func (s *jsonFlightStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[id]; !exists {
		return fmt.Errorf("flight %s: %w", id, models.ErrNotFound)
	}
	delete(s.items, id)
	return nil
}

func (s *jsonFlightStore) flush() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Flight, 0, len(s.items))
	for _, f := range s.items {
		out = append(out, f)
	}
	return writeEntityFile(s.path, out)
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type jsonUserStore struct {
	mu    sync.RWMutex
	path  string
	items map[string]models.User
}

func (s *jsonUserStore) FindByID(id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	return &u, nil
}

func (s *jsonUserStore) FindByUsername(username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.items {
		if u.Username == username {
			cp := u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", username, models.ErrNotFound)
}

func (s *jsonUserStore) FindByRole(role models.Role) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.User
	for _, u := range s.items {
		if u.Role == role {
			cp := u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *jsonUserStore) List() ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.User, 0, len(s.items))
	for _, u := range s.items {
		cp := u
		out = append(out, &cp)
	}
	return out, nil
}

func (s *jsonUserStore) Insert(u models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[u.ID]; exists {
		return fmt.Errorf("user %s already exists: %w", u.ID, models.ErrPersistenceFailure)
	}
	s.items[u.ID] = u
	return nil
}

func (s *jsonUserStore) Update(u models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[u.ID]; !exists {
		return fmt.Errorf("user %s: %w", u.ID, models.ErrNotFound)
	}
	s.items[u.ID] = u
	return nil
}

func (s *jsonUserStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[id]; !exists {
		return fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	delete(s.items, id)
	return nil
}

func (s *jsonUserStore) flush() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, 0, len(s.items))
	for _, u := range s.items {
		out = append(out, u)
	}
	return writeEntityFile(s.path, out)
}

// ---------------------------------------------------------------------------
// Payments
// ---------------------------------------------------------------------------

type jsonPaymentStore struct {
	mu    sync.RWMutex
	path  string
	items map[string]models.Payment
}

func copyPayment(p models.Payment) models.Payment {
	cp := p
	if p.Details != nil {
		cp.Details = make(map[string]string, len(p.Details))
		for k, v := range p.Details {
			cp.Details[k] = v
		}
	}
	return cp
}

func (s *jsonPaymentStore) FindByID(id string) (*models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("payment %s: %w", id, models.ErrNotFound)
	}
	cp := copyPayment(p)
	return &cp, nil
}

func (s *jsonPaymentStore) FindByPassenger(passengerID string) ([]*models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Payment
	for _, p := range s.items {
		if p.PassengerID == passengerID {
			cp := copyPayment(p)
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *jsonPaymentStore) Insert(p models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[p.ID]; exists {
		return fmt.Errorf("payment %s already exists: %w", p.ID, models.ErrPersistenceFailure)
	}
	s.items[p.ID] = copyPayment(p)
	return nil
}

func (s *jsonPaymentStore) Update(p models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[p.ID]; !exists {
		return fmt.Errorf("payment %s: %w", p.ID, models.ErrNotFound)
	}
	s.items[p.ID] = copyPayment(p)
	return nil
}

func (s *jsonPaymentStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[id]; !exists {
		return fmt.Errorf("payment %s: %w", id, models.ErrNotFound)
	}
	delete(s.items, id)
	return nil
}

func (s *jsonPaymentStore) flush() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Payment, 0, len(s.items))
	for _, p := range s.items {
		out = append(out, p)
	}
	return writeEntityFile(s.path, out)
}

// ---------------------------------------------------------------------------
// Reservations
// ---------------------------------------------------------------------------

type jsonReservationStore struct {
	mu    sync.RWMutex
	path  string
	items map[string]models.Reservation
}

func (s *jsonReservationStore) FindByID(id string) (*models.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("reservation %s: %w", id, models.ErrNotFound)
	}
	return &r, nil
}

func (s *jsonReservationStore) FindByPassenger(passengerID string) ([]*models.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Reservation
	for _, r := range s.items {
		if r.PassengerID == passengerID {
			cp := r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *jsonReservationStore) List() ([]*models.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Reservation, 0, len(s.items))
	for _, r := range s.items {
		cp := r
		out = append(out, &cp)
	}
	return out, nil
}

func (s *jsonReservationStore) Insert(r models.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[r.ID]; exists {
		return fmt.Errorf("reservation %s already exists: %w", r.ID, models.ErrPersistenceFailure)
	}
	s.items[r.ID] = r
	return nil
}

func (s *jsonReservationStore) Update(r models.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[r.ID]; !exists {
		return fmt.Errorf("reservation %s: %w", r.ID, models.ErrNotFound)
	}
	s.items[r.ID] = r
	return nil
}

func (s *jsonReservationStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[id]; !exists {
		return fmt.Errorf("reservation %s: %w", id, models.ErrNotFound)
	}
	delete(s.items, id)
	return nil
}

func (s *jsonReservationStore) flush() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Reservation, 0, len(s.items))
	for _, r := range s.items {
		out = append(out, r)
	}
	return writeEntityFile(s.path, out)
}
