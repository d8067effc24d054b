package domain

import (
	"fmt"
	"math/rand/v2"
)

type SeatStatus string

const (
	SeatAvailable SeatStatus = "Available"
	SeatBooked    SeatStatus = "Booked"
)

type Seat struct {
	ID     string
	Row    int
	Col    int
	Status SeatStatus
}

// SeatMap is the full seat grid for one movie's showing. Seats are laid
// out row-major, ids combining a row letter with a 1-based column
// number ("A1" is the first seat of the first row).
type SeatMap struct {
	Rows  int
	Cols  int
	Seats []Seat

	index map[string]int
}

const maxRows = 26 // single row letter, 'A' through 'Z'

// NewSeatMap builds a rows x cols grid with every seat available.
// Availability is overlaid afterwards from committed bookings and
// active seat holds, never synthesized here.
func NewSeatMap(rows, cols int) (*SeatMap, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("seat map dimensions must be positive, got %dx%d", rows, cols)
	}
	if rows > maxRows {
		return nil, fmt.Errorf("seat map supports at most %d rows, got %d", maxRows, rows)
	}

	m := &SeatMap{
		Rows:  rows,
		Cols:  cols,
		Seats: make([]Seat, 0, rows*cols),
		index: make(map[string]int, rows*cols),
	}

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			seat := Seat{
				ID:     SeatID(row, col),
				Row:    row + 1,
				Col:    col + 1,
				Status: SeatAvailable,
			}

			m.index[seat.ID] = len(m.Seats)
			m.Seats = append(m.Seats, seat)
		}
	}

	return m, nil
}

// NewRandomSeatMap builds a grid where each seat is independently marked
// booked with probability pBooked. It stands in for a real inventory
// lookup in demo mode; the rand source is the only non-determinism.
func NewRandomSeatMap(rows, cols int, pBooked float64, rnd *rand.Rand) (*SeatMap, error) {
	m, err := NewSeatMap(rows, cols)
	if err != nil {
		return nil, err
	}

	for i := range m.Seats {
		if rnd.Float64() < pBooked {
			m.Seats[i].Status = SeatBooked
		}
	}

	return m, nil
}

// SeatID returns the label for the seat at the given zero-based grid
// position, e.g. row 0 col 0 -> "A1".
func SeatID(row, col int) string {
	return fmt.Sprintf("%c%d", 'A'+rune(row), col+1)
}

func (m *SeatMap) Seat(id string) (Seat, bool) {
	i, ok := m.index[id]
	if !ok {
		return Seat{}, false
	}

	return m.Seats[i], true
}

// MarkBooked flips the given seats to booked. Unknown ids are ignored,
// a booking may reference a seat the current layout no longer has.
func (m *SeatMap) MarkBooked(ids ...string) {
	for _, id := range ids {
		if i, ok := m.index[id]; ok {
			m.Seats[i].Status = SeatBooked
		}
	}
}

// BookedSeatIds returns the ids of all booked seats in grid order.
func (m *SeatMap) BookedSeatIds() []string {
	ids := make([]string, 0)

	for _, seat := range m.Seats {
		if seat.Status == SeatBooked {
			ids = append(ids, seat.ID)
		}
	}

	return ids
}
