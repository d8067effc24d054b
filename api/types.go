// Package api holds the request and response types of the HTTP API.
package api

import (
	"time"

	"github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	RequestId        string            `json:"requestId"`
	Timestamp        time.Time         `json:"timestamp"`
	ValidationErrors []ValidationError `json:"validationErrors"`
}

type Metadata struct {
	CurrentPage  int `json:"currentPage"`
	FirstPage    int `json:"firstPage"`
	LastPage     int `json:"lastPage"`
	PageSize     int `json:"pageSize"`
	TotalRecords int `json:"totalRecords"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}

type GetMoviesParams struct {
	Page     *int    `validate:"omitempty,min=1,max=10000000"`
	PageSize *int    `validate:"omitempty,min=1,max=100"`
	Term     *string `validate:"omitempty,max=100"`
}

type MovieSummary struct {
	Id        string          `json:"id"`
	Name      string          `json:"name"`
	Genre     string          `json:"genre"`
	Price     decimal.Decimal `json:"price"`
	Date      types.Date      `json:"date"`
	Time      string          `json:"time"`
	PosterUrl string          `json:"posterUrl"`
}

type MovieListResponse struct {
	Movies   []MovieSummary `json:"movies"`
	Metadata *Metadata      `json:"metadata,omitempty"`
}

type MovieResponse struct {
	Id          string          `json:"id"`
	Name        string          `json:"name"`
	Genre       string          `json:"genre"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Date        types.Date      `json:"date"`
	Time        string          `json:"time"`
	PosterUrl   string          `json:"posterUrl"`
}

type Seat struct {
	Id        string `json:"id"`
	Row       int    `json:"row"`
	Column    int    `json:"column"`
	Available bool   `json:"available"`
}

type SeatRow struct {
	Row   int    `json:"row"`
	Seats []Seat `json:"seats"`
}

type SeatMapResponse struct {
	MovieId  string    `json:"movieId"`
	Rows     int       `json:"rows"`
	Columns  int       `json:"columns"`
	SeatRows []SeatRow `json:"seatRows"`
}

type ToggleSeatRequest struct {
	SeatId string `json:"seatId" validate:"required,max=4"`
}

type SelectionResponse struct {
	MovieId    string          `json:"movieId"`
	Seats      []string        `json:"seats"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	HoldTime   int             `json:"holdTime"`
}

type Booking struct {
	Id         string          `json:"id"`
	MovieId    string          `json:"movieId"`
	MovieTitle string          `json:"movieTitle"`
	Seats      []string        `json:"seats"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type CheckoutResponse struct {
	Booking Booking `json:"booking"`
}

type GetBookingsOfUserParams struct {
	Page     *int `validate:"omitempty,min=1,max=10000000"`
	PageSize *int `validate:"omitempty,min=1,max=100"`
}

type UserBookingsResponse struct {
	Bookings []Booking `json:"bookings"`
	Metadata Metadata  `json:"metadata"`
}

type RegisterRequest struct {
	FirstName string `json:"firstName" validate:"required,alpha,min=2,max=50"`
	LastName  string `json:"lastName" validate:"required,alpha,min=2,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,password"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AlreadyLoggedInResponse struct {
	Message string `json:"message"`
}

type UserResponse struct {
	Id        int       `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}
