package domain

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Selection is the set of seats one session has tentatively chosen for
// a single movie. It lives only for the duration of the session and is
// never persisted past it.
type Selection struct {
	MovieID string   `json:"movieId"`
	Seats   []string `json:"seats"`
}

func NewSelection(movieID string) *Selection {
	return &Selection{
		MovieID: movieID,
		Seats:   make([]string, 0),
	}
}

// Toggle adds seatID to the selection, or removes it when already
// selected. The seat must exist in the map and be available, otherwise
// ErrInvalidSeat is returned and the selection is left unchanged.
func (s *Selection) Toggle(seats *SeatMap, seatID string) error {
	seat, ok := seats.Seat(seatID)
	if !ok || seat.Status == SeatBooked {
		return ErrInvalidSeat
	}

	if i := slices.Index(s.Seats, seatID); i >= 0 {
		s.Seats = slices.Delete(s.Seats, i, i+1)
		return nil
	}

	s.Seats = append(s.Seats, seatID)

	return nil
}

func (s *Selection) Contains(seatID string) bool {
	return slices.Contains(s.Seats, seatID)
}

func (s *Selection) Empty() bool {
	return len(s.Seats) == 0
}

// Total is the derived checkout price: seat count times the catalog
// unit price. Zero when nothing is selected.
func (s *Selection) Total(unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(len(s.Seats))))
}
