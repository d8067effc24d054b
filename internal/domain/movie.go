package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Movie is a bookable catalog item. The catalog is read-only and static
// for the lifetime of the process.
type Movie struct {
	ID          string
	Title       string
	Genre       string
	Price       decimal.Decimal
	Date        time.Time
	Time        string
	Description string
	PosterUrl   string
}

type MovieFilters struct {
	Page     int
	PageSize int
	Term     string
}

func (f MovieFilters) Limit() int {
	return f.PageSize
}

func (f MovieFilters) Offset() int {
	return (f.Page - 1) * f.PageSize
}

type MovieRepository interface {
	GetAll(ctx context.Context, filters MovieFilters) ([]*Movie, *Metadata, error)
	GetById(ctx context.Context, id string) (*Movie, error)
}
