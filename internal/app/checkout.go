package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/GovindharajM27/ticketbookingapp/api"
	"github.com/GovindharajM27/ticketbookingapp/internal/domain"
)

// bookingWriteTimeout bounds the single durable write at commit, so a
// stalled store cannot hold the request open indefinitely.
const bookingWriteTimeout = 5 * time.Second

func (app *Application) CheckoutHandler(w http.ResponseWriter, r *http.Request, movieID string) {
	logger := app.contextGetLogger(r)

	sessionID := app.sessionManager.Token(r.Context())

	selection, err := app.getSelection(r.Context(), sessionID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if selection == nil || selection.Empty() {
		logger.Warn("checkout attempt with no seats selected")
		app.badRequestResponse(w, r, domain.ErrEmptySelection)
		return
	}

	if selection.MovieID != movieID {
		logger.Warn(
			"checkout attempt with mismatched movie ID in URL",
			"selection_movie_id", selection.MovieID,
			"url_movie_id", movieID,
		)
		app.notFoundResponse(w, r)
		return
	}

	movie, err := app.movieRepo.GetById(r.Context(), movieID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			// The selection outlived the catalog entry. Nothing is
			// persisted for a movie that can no longer be resolved.
			logger.Warn("checkout rejected: movie no longer in catalog", "movie_id", movieID)
			app.notFoundResponseWithErr(w, r, fmt.Errorf("movie %s is no longer available", movieID))
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	for _, seatID := range selection.Seats {
		ownerSessionId, err := app.redis.Get(r.Context(), seatHoldKey(movieID, seatID)).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				logger.Warn("checkout rejected: seat hold expired", "seat_id", seatID)
				app.editConflictResponseWithErr(w, r, domain.ErrSeatHoldExpired)
				return
			}

			app.serverErrorResponse(w, r, err)
			return
		}

		if ownerSessionId != sessionID {
			app.editConflictResponseWithErr(w, r, fmt.Errorf("seat %s: %w", seatID, domain.ErrSeatConflict))
			return
		}
	}

	userId := app.contextGetUserId(r)
	user, err := app.userRepo.GetById(r.Context(), userId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	booking := &domain.Booking{
		UserID:     userId,
		UserEmail:  user.Email,
		MovieID:    movie.ID,
		MovieTitle: movie.Title,
		Seats:      selection.Seats,
		TotalPrice: selection.Total(movie.Price),
		Status:     domain.BookingConfirmed,
	}

	writeCtx, cancel := context.WithTimeout(r.Context(), bookingWriteTimeout)
	defer cancel()

	err = app.bookingRepo.Create(writeCtx, booking)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSeatAlreadyReserved):
			logger.Warn("checkout conflict: a selected seat was booked concurrently")
			app.editConflictResponseWithErr(w, r, err)
		default:
			app.serverErrorResponse(w, r, fmt.Errorf("booking couldn't be persisted: %w", err))
		}

		return
	}

	err = app.releaseSelection(r.Context(), sessionID, selection)
	if err != nil {
		// The booking is already durable, leftover holds simply expire.
		logger.Error("failed to clean up selection after checkout", "error", err)
	}

	go func(ctx context.Context) {
		gLogger := app.contextGetLogger(r.WithContext(ctx))

		defer func() {
			if err := recover(); err != nil {
				gLogger.Error("panic occurred during sending booking confirmation mail", "panic", err)
			}
		}()

		data := map[string]any{
			"bookingID":  booking.ID,
			"movieTitle": booking.MovieTitle,
			"seats":      booking.Seats,
			"totalPrice": booking.TotalPrice,
		}

		err := app.mailer.Send(booking.UserEmail, "booking_confirmation.tmpl", data)
		if err != nil {
			gLogger.Error("failed to send booking confirmation email", "error", err)
		} else {
			gLogger.Info("booking confirmation email sent successfully")
		}
	}(r.Context())

	resp := api.CheckoutResponse{
		Booking: toApiBooking(booking),
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toApiBooking(booking *domain.Booking) api.Booking {
	return api.Booking{
		Id:         booking.ID.String(),
		MovieId:    booking.MovieID,
		MovieTitle: booking.MovieTitle,
		Seats:      booking.Seats,
		TotalPrice: booking.TotalPrice,
		Status:     string(booking.Status),
		CreatedAt:  booking.CreatedAt,
	}
}
