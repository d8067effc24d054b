package domain

import "errors"

var (
	ErrUserAlreadyExists   = errors.New("user already exists with email: %s")
	ErrRecordNotFound      = errors.New("record not found")
	ErrEditConflict        = errors.New("edit conflict")
	ErrInvalidSeat         = errors.New("seat does not exist or is already booked")
	ErrEmptySelection      = errors.New("no seats selected")
	ErrSeatAlreadyReserved = errors.New("seat(s) are already reserved")
	ErrSeatHoldExpired     = errors.New("your selections have expired, please select your seats again")
	ErrSeatConflict        = errors.New("a selected seat does not belong to the current session")
)
