package repository

import (
	"context"
	"errors"

	"github.com/GovindharajM27/ticketbookingapp/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PostgresBookingRepository struct {
	db *pgxpool.Pool
}

func NewPostgresBookingRepository(db *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{
		db: db,
	}
}

// Create writes the booking and its seats in one transaction. The
// UNIQUE constraint on (movie_id, seat_id) is the authoritative guard
// against two sessions committing the same seat: the second writer
// gets ErrSeatAlreadyReserved, never a partial record.
func (p *PostgresBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO bookings (user_id, user_email, movie_id, movie_title, total_price, status)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at
		`

		err := tx.QueryRow(
			ctx,
			query,
			booking.UserID,
			booking.UserEmail,
			booking.MovieID,
			booking.MovieTitle,
			booking.TotalPrice.String(),
			booking.Status).Scan(&booking.ID, &booking.CreatedAt)

		if err != nil {
			return err
		}

		rows := make([][]any, 0, len(booking.Seats))
		for i, seatID := range booking.Seats {
			rows = append(rows, []any{
				booking.ID,
				booking.MovieID,
				seatID,
				i,
			})
		}

		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"booking_seats"},
			[]string{"booking_id", "movie_id", "seat_id", "seat_index"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
				return domain.ErrSeatAlreadyReserved
			}

			return err
		}

		return nil
	})
}

func runInTx(ctx context.Context, db *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	var txOptions pgx.TxOptions

	tx, err := db.BeginTx(ctx, txOptions)
	if err != nil {
		return err
	}

	err = fn(tx)
	if err == nil {
		return tx.Commit(ctx)
	}

	rollbackErr := tx.Rollback(ctx)
	if rollbackErr != nil {
		return errors.Join(err, rollbackErr)
	}

	return err
}

// GetSeatIdsByMovie returns every seat committed for the movie across
// all bookings, the authoritative unavailable set for the seat map.
func (p *PostgresBookingRepository) GetSeatIdsByMovie(ctx context.Context, movieID string) ([]string, error) {
	query := `
		SELECT seat_id
		FROM booking_seats
		WHERE movie_id = $1
	`

	rows, err := p.db.Query(ctx, query, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seatIds := make([]string, 0)

	for rows.Next() {
		var seatID string

		err = rows.Scan(&seatID)
		if err != nil {
			return nil, err
		}

		seatIds = append(seatIds, seatID)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return seatIds, nil
}

func (p *PostgresBookingRepository) GetSummariesByUser(
	ctx context.Context,
	userID int,
	pagination domain.Pagination) ([]domain.BookingSummary, *domain.Metadata, error) {

	query := `
		SELECT
			COUNT(*) OVER(),
			b.id,
			b.movie_id,
			b.movie_title,
			b.total_price,
			b.status,
			b.created_at,
			ARRAY(
				SELECT bs.seat_id
				FROM booking_seats bs
				WHERE bs.booking_id = b.id
				ORDER BY bs.seat_index
			)
		FROM bookings b
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := p.db.Query(ctx, query, userID, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	summaries := make([]domain.BookingSummary, 0)
	totalRecords := 0

	for rows.Next() {
		var summary domain.BookingSummary
		var totalPrice pgtype.Numeric

		err := rows.Scan(
			&totalRecords,
			&summary.ID,
			&summary.MovieID,
			&summary.MovieTitle,
			&totalPrice,
			&summary.Status,
			&summary.CreatedAt,
			&summary.Seats,
		)
		if err != nil {
			return nil, nil, err
		}

		summary.TotalPrice = toDecimal(totalPrice)
		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize)

	return summaries, metadata, nil
}

func (p *PostgresBookingRepository) GetByIdAndUser(
	ctx context.Context,
	id uuid.UUID,
	userID int) (*domain.Booking, error) {

	query := `
		SELECT
			b.id,
			b.user_id,
			b.user_email,
			b.movie_id,
			b.movie_title,
			b.total_price,
			b.status,
			b.created_at,
			ARRAY(
				SELECT bs.seat_id
				FROM booking_seats bs
				WHERE bs.booking_id = b.id
				ORDER BY bs.seat_index
			)
		FROM bookings b
		WHERE b.id = $1 AND b.user_id = $2
	`

	var booking domain.Booking
	var totalPrice pgtype.Numeric

	err := p.db.QueryRow(ctx, query, id, userID).Scan(
		&booking.ID,
		&booking.UserID,
		&booking.UserEmail,
		&booking.MovieID,
		&booking.MovieTitle,
		&totalPrice,
		&booking.Status,
		&booking.CreatedAt,
		&booking.Seats,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	booking.TotalPrice = toDecimal(totalPrice)

	return &booking, nil
}

func toDecimal(numeric pgtype.Numeric) decimal.Decimal {
	if !numeric.Valid || numeric.Int == nil {
		return decimal.Zero
	}

	return decimal.NewFromBigInt(numeric.Int, numeric.Exp)
}
