package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/GovindharajM27/ticketbookingapp/api"
	"github.com/GovindharajM27/ticketbookingapp/internal/domain"
)

const (
	seatHoldTTL  = 10 * time.Minute
	selectionTTL = 10 * time.Minute
)

// releaseHeldSeatScript drops a seat hold only while the calling session
// still owns it. A hold that expired and was re-acquired by another
// session is left untouched.
var releaseHeldSeatScript = redis.NewScript(`
    -- KEYS = [seat hold key, held seat set key]
    -- ARGV = [sessionID, seatID]

    if redis.call("GET", KEYS[1]) == ARGV[1] then
        redis.call("DEL", KEYS[1])
        redis.call("SREM", KEYS[2], ARGV[2])
    end

    return "OK"
`)

func (app *Application) GetSelectionHandler(w http.ResponseWriter, r *http.Request, movieID string) {
	sessionID := app.sessionManager.Token(r.Context())

	selection, err := app.getSelection(r.Context(), sessionID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if selection == nil || selection.MovieID != movieID {
		app.notFoundResponse(w, r)
		return
	}

	movie, err := app.movieRepo.GetById(r.Context(), movieID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	resp := toSelectionResponse(selection, movie)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ToggleSeatHandler(w http.ResponseWriter, r *http.Request, movieID string) {
	logger := app.contextGetLogger(r)

	var input api.ToggleSeatRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	movie, err := app.movieRepo.GetById(r.Context(), movieID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	seatMap, err := domain.NewSeatMap(app.Config.Seats.Rows, app.Config.Seats.Cols)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	seat, ok := seatMap.Seat(input.SeatId)
	if !ok {
		app.badRequestResponse(w, r, fmt.Errorf("seat %s does not exist", input.SeatId))
		return
	}

	sessionID := app.sessionManager.Token(r.Context())

	selection, err := app.getSelection(r.Context(), sessionID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if selection != nil && selection.MovieID != movieID {
		// A selection only ever targets one movie. Starting on another
		// movie releases the previous one.
		logger.Info("releasing selection for previous movie", "previous_movie_id", selection.MovieID)

		err = app.releaseSelection(r.Context(), sessionID, selection)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}

		selection = nil
	}

	if selection == nil {
		selection = domain.NewSelection(movieID)
	}

	if selection.Contains(seat.ID) {
		err = app.deselectSeat(r.Context(), sessionID, selection, seatMap, seat.ID)
	} else {
		err = app.selectSeat(r.Context(), sessionID, selection, seatMap, seat.ID)
	}

	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSeatAlreadyReserved):
			logger.Warn("seat selection conflict: seat is held by another session", "seat_id", seat.ID)
			app.editConflictResponseWithErr(w, r, err)
		case errors.Is(err, domain.ErrInvalidSeat):
			app.badRequestResponse(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	resp := toSelectionResponse(selection, movie)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) DeleteSelectionHandler(w http.ResponseWriter, r *http.Request, movieID string) {
	sessionID := app.sessionManager.Token(r.Context())

	selection, err := app.getSelection(r.Context(), sessionID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if selection == nil || selection.MovieID != movieID {
		app.notFoundResponse(w, r)
		return
	}

	err = app.releaseSelection(r.Context(), sessionID, selection)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// selectSeat acquires a hold on the seat before adding it to the
// selection, so two sessions can never pick the same seat at once.
func (app *Application) selectSeat(
	ctx context.Context,
	sessionID string,
	selection *domain.Selection,
	seatMap *domain.SeatMap,
	seatID string) error {

	bookedSeatIds, err := app.bookingRepo.GetSeatIdsByMovie(ctx, selection.MovieID)
	if err != nil {
		return err
	}

	seatMap.MarkBooked(bookedSeatIds...)

	err = selection.Toggle(seatMap, seatID)
	if err != nil {
		return err
	}

	acquired, err := app.redis.SetNX(ctx, seatHoldKey(selection.MovieID, seatID), sessionID, seatHoldTTL).Result()
	if err != nil {
		return err
	}

	if !acquired {
		return domain.ErrSeatAlreadyReserved
	}

	selectionBytes, err := json.Marshal(selection)
	if err != nil {
		app.rollbackSeatHold(ctx, selection.MovieID, seatID)
		return err
	}

	pipe := app.redis.TxPipeline()
	pipe.SAdd(ctx, seatHoldSetKey(selection.MovieID), seatID)
	pipe.Set(ctx, selectionKey(sessionID), selectionBytes, selectionTTL)

	_, err = pipe.Exec(ctx)
	if err != nil {
		app.rollbackSeatHold(ctx, selection.MovieID, seatID)
		return err
	}

	return nil
}

func (app *Application) deselectSeat(
	ctx context.Context,
	sessionID string,
	selection *domain.Selection,
	seatMap *domain.SeatMap,
	seatID string) error {

	err := selection.Toggle(seatMap, seatID)
	if err != nil {
		return err
	}

	err = app.releaseSeatHold(ctx, sessionID, selection.MovieID, seatID)
	if err != nil {
		return err
	}

	if selection.Empty() {
		return app.redis.Del(ctx, selectionKey(sessionID)).Err()
	}

	selectionBytes, err := json.Marshal(selection)
	if err != nil {
		return err
	}

	return app.redis.Set(ctx, selectionKey(sessionID), selectionBytes, selectionTTL).Err()
}

// releaseSeatHold gives the hold back only if this session still owns it,
// so a hold another session acquired after expiry survives the release.
func (app *Application) releaseSeatHold(ctx context.Context, sessionID, movieID, seatID string) error {
	keys := []string{seatHoldKey(movieID, seatID), seatHoldSetKey(movieID)}

	return releaseHeldSeatScript.Run(ctx, app.redis, keys, sessionID, seatID).Err()
}

func (app *Application) getSelection(ctx context.Context, sessionID string) (*domain.Selection, error) {
	selectionBytes, err := app.redis.Get(ctx, selectionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}

		return nil, err
	}

	var selection domain.Selection

	err = json.Unmarshal(selectionBytes, &selection)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal selection for session: %w", err)
	}

	return &selection, nil
}

// releaseSelection drops the seat holds of the selection together with
// the selection itself.
func (app *Application) releaseSelection(ctx context.Context, sessionID string, selection *domain.Selection) error {
	for _, seatID := range selection.Seats {
		err := app.releaseSeatHold(ctx, sessionID, selection.MovieID, seatID)
		if err != nil {
			return err
		}
	}

	return app.redis.Del(ctx, selectionKey(sessionID)).Err()
}

func (app *Application) rollbackSeatHold(ctx context.Context, movieID, seatID string) {
	pipe := app.redis.TxPipeline()
	pipe.Del(ctx, seatHoldKey(movieID, seatID))
	pipe.SRem(ctx, seatHoldSetKey(movieID), seatID)

	_, err := pipe.Exec(ctx)
	if err != nil {
		app.logger.Error("failed to rollback seat hold", "error", err)
	}
}

func (app *Application) migrateSessionData(ctx context.Context, oldSessionId, newSessionId string) error {
	selectionBytes, err := app.redis.Get(ctx, selectionKey(oldSessionId)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}

		return fmt.Errorf("failed to get selection for session %s: %w", oldSessionId, err)
	}

	var selection domain.Selection

	err = json.Unmarshal(selectionBytes, &selection)
	if err != nil {
		return fmt.Errorf("failed to unmarshal selection for session %s: %w", oldSessionId, err)
	}

	ttl, err := app.redis.TTL(ctx, selectionKey(oldSessionId)).Result()
	if err != nil {
		return fmt.Errorf("failed to get TTL for selection of session %s: %w", oldSessionId, err)
	}

	if ttl <= 0 {
		// Key either doesn't exist (-2) or is persistent (-1), nothing to carry over
		return nil
	}

	newTTL := ttl + 3*time.Minute
	holdKeys := make([]string, len(selection.Seats))

	for i, seatID := range selection.Seats {
		holdKeys[i] = seatHoldKey(selection.MovieID, seatID)
	}

	err = app.redis.Watch(ctx, func(tx *redis.Tx) error {
		for _, holdKey := range holdKeys {
			sessionId, err := tx.Get(ctx, holdKey).Result()
			if err != nil && !errors.Is(err, redis.Nil) {
				return err
			}

			if sessionId != oldSessionId {
				return domain.ErrSeatConflict
			}
		}

		pipe := tx.TxPipeline()

		for _, holdKey := range holdKeys {
			pipe.Set(ctx, holdKey, newSessionId, newTTL)
		}

		_, err := pipe.Exec(ctx)

		return err
	}, holdKeys...)

	if err != nil {
		return fmt.Errorf(
			"failed to migrate seat holds from old session %s to new session %s: %w",
			oldSessionId,
			newSessionId,
			err)
	}

	pipe := app.redis.TxPipeline()

	pipe.Set(ctx, selectionKey(newSessionId), selectionBytes, newTTL)
	pipe.Del(ctx, selectionKey(oldSessionId))

	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to execute Redis pipeline for session migration: %w", err)
	}

	return nil
}

func toSelectionResponse(selection *domain.Selection, movie *domain.Movie) api.SelectionResponse {
	return api.SelectionResponse{
		MovieId:    selection.MovieID,
		Seats:      selection.Seats,
		TotalPrice: selection.Total(movie.Price),
		HoldTime:   int(seatHoldTTL.Seconds()),
	}
}

func selectionKey(sessionID string) string {
	return fmt.Sprintf("selection:%s", sessionID)
}

func seatHoldKey(movieID, seatID string) string {
	return fmt.Sprintf("seat_hold:%s:%s", movieID, seatID)
}

func seatHoldSetKey(movieID string) string {
	return fmt.Sprintf("seat_holds:%s", movieID)
}
