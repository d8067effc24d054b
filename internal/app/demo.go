package app

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/GovindharajM27/ticketbookingapp/internal/domain"
)

const (
	demoHoldOwner = "demo"
	demoHoldTTL   = time.Hour
)

// seedDemoSeatHolds places random seat holds for every catalog movie so
// a fresh environment shows a partially occupied hall. The holds are
// owned by a synthetic session, so no real session can check them out.
func (app *Application) seedDemoSeatHolds(ctx context.Context) error {
	movies, _, err := app.movieRepo.GetAll(ctx, domain.MovieFilters{Page: 1, PageSize: 100})
	if err != nil {
		return err
	}

	rnd := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	seeded := 0

	for _, movie := range movies {
		seatMap, err := domain.NewRandomSeatMap(app.Config.Seats.Rows, app.Config.Seats.Cols, app.Config.Demo.Occupancy, rnd)
		if err != nil {
			return err
		}

		pipe := app.redis.TxPipeline()

		for _, seatID := range seatMap.BookedSeatIds() {
			pipe.SetNX(ctx, seatHoldKey(movie.ID, seatID), demoHoldOwner, demoHoldTTL)
			pipe.SAdd(ctx, seatHoldSetKey(movie.ID), seatID)
			seeded++
		}

		_, err = pipe.Exec(ctx)
		if err != nil {
			return err
		}
	}

	app.logger.Info("seeded demo seat holds", "movies", len(movies), "holds", seeded)

	return nil
}
