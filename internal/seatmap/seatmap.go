// Package seatmap implements seat label addressing and the per-flight
// occupancy grid. A seat label is a 1-based row number followed by exactly
// one column letter, e.g. "12A". Column letters run from 'A' up to
// 'A'+SeatsPerRow-1.
package seatmap

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidSeat is returned when a seat label is malformed or falls
// outside the layout of the aircraft.
var ErrInvalidSeat = errors.New("invalid seat number")

// MaxSeatsPerRow caps the number of columns at one letter per column.
const MaxSeatsPerRow = 26

// Layout describes the seating grid of an aircraft.
type Layout struct {
	Rows        int `json:"rows"`
	SeatsPerRow int `json:"seats_per_row"`
}

// ParseSeat converts a seat label into zero-based (row, col) coordinates
// for the given layout. The label must be one or more digits followed by
// exactly one letter within the layout's column range.
func ParseSeat(label string, layout Layout) (int, int, error) {
	if label == "" {
		return 0, 0, fmt.Errorf("%w: empty label", ErrInvalidSeat)
	}

	// Split the label into its digit prefix and the remainder.
	split := 0
	for split < len(label) && label[split] >= '0' && label[split] <= '9' {
		split++
	}
	if split == 0 || len(label)-split != 1 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSeat, label)
	}

	col := label[split]
	if col < 'A' || col > byte('A'+layout.SeatsPerRow-1) {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSeat, label)
	}

	row, err := strconv.Atoi(label[:split])
	if err != nil || row < 1 || row > layout.Rows {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSeat, label)
	}

	return row - 1, int(col - 'A'), nil
}

// FormatSeat is the inverse of ParseSeat: zero-based coordinates to a label.
func FormatSeat(row, col int) string {
	return strconv.Itoa(row+1) + string(rune('A'+col))
}

// IsValidSeat reports whether the label parses against the layout.
func IsValidSeat(label string, layout Layout) bool {
	_, _, err := ParseSeat(label, layout)
	return err == nil
}

// Map is the occupancy grid of a flight: true means the seat is taken.
// The grid is sized at flight creation and never resized.
type Map [][]bool

// New returns an all-free map for the given layout.
func New(layout Layout) Map {
	m := make(Map, layout.Rows)
	for i := range m {
		m[i] = make([]bool, layout.SeatsPerRow)
	}
	return m
}

// Layout derives the grid dimensions from the map itself.
func (m Map) Layout() Layout {
	if len(m) == 0 {
		return Layout{}
	}
	return Layout{Rows: len(m), SeatsPerRow: len(m[0])}
}

// Status reports whether the seat at the given label is occupied.
func (m Map) Status(label string) (bool, error) {
	row, col, err := ParseSeat(label, m.Layout())
	if err != nil {
		return false, err
	}
	return m[row][col], nil
}

// SetStatus marks the seat at the given label occupied or free.
func (m Map) SetStatus(label string, occupied bool) error {
	row, col, err := ParseSeat(label, m.Layout())
	if err != nil {
		return err
	}
	m[row][col] = occupied
	return nil
}

// Clone returns an independent copy of the map so that callers can mutate
// a fetched flight without aliasing the stored one.
func (m Map) Clone() Map {
	out := make(Map, len(m))
	for i, row := range m {
		out[i] = make([]bool, len(row))
		copy(out[i], row)
	}
	return out
}
