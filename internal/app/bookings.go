package app

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/GovindharajM27/ticketbookingapp/api"
	"github.com/GovindharajM27/ticketbookingapp/internal/domain"
)

func (app *Application) GetBookingsOfUserHandler(
	w http.ResponseWriter,
	r *http.Request,
	params api.GetBookingsOfUserParams) {

	err := app.validator.Struct(params)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	userId := app.contextGetUserId(r)
	pagination := toPagination(params)

	bookings, metadata, err := app.bookingRepo.GetSummariesByUser(r.Context(), userId, pagination)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	apiMetadata := toApiMetadata(metadata)
	resp := api.UserBookingsResponse{
		Bookings: toApiBookingSummaries(bookings),
		Metadata: *apiMetadata,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetUserBookingById(w http.ResponseWriter, r *http.Request, bookingID uuid.UUID) {
	userId := app.contextGetUserId(r)

	booking, err := app.bookingRepo.GetByIdAndUser(r.Context(), bookingID, userId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	resp := toApiBooking(booking)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toApiBookingSummaries(bookings []domain.BookingSummary) []api.Booking {
	apiBookings := make([]api.Booking, len(bookings))

	for i, v := range bookings {
		apiBookings[i] = api.Booking{
			Id:         v.ID.String(),
			MovieId:    v.MovieID,
			MovieTitle: v.MovieTitle,
			Seats:      v.Seats,
			TotalPrice: v.TotalPrice,
			Status:     string(v.Status),
			CreatedAt:  v.CreatedAt,
		}
	}

	return apiBookings
}

func toPagination(params api.GetBookingsOfUserParams) domain.Pagination {
	pagination := domain.Pagination{
		Page:     DefaultPage,
		PageSize: DefaultPageSize,
	}

	if params.Page != nil {
		pagination.Page = *params.Page
	}
	if params.PageSize != nil {
		pagination.PageSize = *params.PageSize
	}

	return pagination
}
