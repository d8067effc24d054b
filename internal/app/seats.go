package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/GovindharajM27/ticketbookingapp/api"
	"github.com/GovindharajM27/ticketbookingapp/internal/domain"
)

// Redis Lua script to clean up expired seat holds and return currently valid held seat IDs.
var filterValidHoldSeats = redis.NewScript(`
	local setKey = KEYS[1]
	local movieId = ARGV[1]
	local cursor = "0"
	local batchSize = 100
	local expiredSeats = {}
	local validSeats = {}

	repeat
		local result = redis.call("SSCAN", setKey, cursor, "COUNT", batchSize)
		cursor = result[1]
		local seatIds = result[2]

		for _, seatId in ipairs(seatIds) do
			local holdKey = "seat_hold:" .. movieId .. ":" .. seatId
			if redis.call("EXISTS", holdKey) == 0 then
				table.insert(expiredSeats, seatId)
			else
				table.insert(validSeats, seatId)
			end
		end
	until cursor == "0"

	if #expiredSeats > 0 then
		redis.call("SREM", setKey, unpack(expiredSeats))
	end

	return validSeats
`)

func (app *Application) GetSeatMapByMovie(w http.ResponseWriter, r *http.Request, movieID string) {
	logger := app.contextGetLogger(r)

	_, err := app.movieRepo.GetById(r.Context(), movieID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			logger.Warn("seat map requested for unknown movie", "movie_id", movieID)
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	seatMap, err := app.buildSeatMap(r.Context(), movieID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := toSeatMapResponse(movieID, seatMap)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// buildSeatMap overlays the configured hall grid with seats taken by
// committed bookings and seats currently held by active selections.
func (app *Application) buildSeatMap(ctx context.Context, movieID string) (*domain.SeatMap, error) {
	seatMap, err := domain.NewSeatMap(app.Config.Seats.Rows, app.Config.Seats.Cols)
	if err != nil {
		return nil, err
	}

	bookedSeatIds, err := app.bookingRepo.GetSeatIdsByMovie(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booked seats from DB: %w", err)
	}

	seatMap.MarkBooked(bookedSeatIds...)

	cmd := filterValidHoldSeats.Run(ctx, app.redis, []string{seatHoldSetKey(movieID)}, movieID)
	heldSeatIds, err := cmd.StringSlice()
	if err != nil {
		return nil, fmt.Errorf("failed to run filterValidHoldSeats script: %w", err)
	}

	seatMap.MarkBooked(heldSeatIds...)

	return seatMap, nil
}

func toSeatMapResponse(movieID string, seatMap *domain.SeatMap) api.SeatMapResponse {
	return api.SeatMapResponse{
		MovieId:  movieID,
		Rows:     seatMap.Rows,
		Columns:  seatMap.Cols,
		SeatRows: toSeatRows(seatMap.Seats),
	}
}

func toSeatRows(seats []domain.Seat) []api.SeatRow {
	// Seats are laid out row-major, so a single pass is enough.

	var seatRows []api.SeatRow
	currentRow := api.SeatRow{Row: seats[0].Row}

	for _, v := range seats {
		if v.Row != currentRow.Row {
			seatRows = append(seatRows, currentRow)
			currentRow = api.SeatRow{Row: v.Row}
		}

		currentRow.Seats = append(currentRow.Seats, api.Seat{
			Id:        v.ID,
			Row:       v.Row,
			Column:    v.Col,
			Available: v.Status == domain.SeatAvailable,
		})
	}

	seatRows = append(seatRows, currentRow)

	return seatRows
}
