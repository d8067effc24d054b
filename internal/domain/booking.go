package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingStatus string

// Only Confirmed is assigned today; the enum leaves room for a
// cancellation flow without a schema change.
const (
	BookingConfirmed BookingStatus = "Confirmed"
	BookingCancelled BookingStatus = "Cancelled"
	BookingRefunded  BookingStatus = "Refunded"
)

// Booking is the durable record of a committed seat selection. ID and
// CreatedAt are assigned by the store on creation; the record is
// immutable afterwards. MovieTitle is cached at commit time so the
// record survives catalog changes.
type Booking struct {
	ID         uuid.UUID
	UserID     int
	UserEmail  string
	MovieID    string
	MovieTitle string
	Seats      []string
	TotalPrice decimal.Decimal
	Status     BookingStatus
	CreatedAt  time.Time
}

type BookingSummary struct {
	ID         uuid.UUID
	MovieID    string
	MovieTitle string
	Seats      []string
	TotalPrice decimal.Decimal
	Status     BookingStatus
	CreatedAt  time.Time
}

type BookingRepository interface {
	// Create performs exactly one durable write attempt. It fills in the
	// store-assigned ID and CreatedAt on success, and returns
	// ErrSeatAlreadyReserved when any seat was committed by a concurrent
	// booking for the same movie.
	Create(ctx context.Context, booking *Booking) error
	GetSeatIdsByMovie(ctx context.Context, movieID string) ([]string, error)
	GetSummariesByUser(ctx context.Context, userID int, pagination Pagination) ([]BookingSummary, *Metadata, error)
	GetByIdAndUser(ctx context.Context, id uuid.UUID, userID int) (*Booking, error)
}
