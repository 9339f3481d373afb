package repository

import (
	"context"
	"fmt"

	"movie-booking/internal/data/entity"
	"movie-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// SeatStateRepository persists the per-show seat ledger. The row is created
// lazily on the first seat operation. AddBookedSeats and SetBlockedSeats are
// conditional writes: they only apply when the new seats do not overlap the
// existing sets, so a concurrent writer cannot double-book a seat even if it
// bypasses the service-level lock.
type SeatStateRepository interface {
	Get(ctx context.Context, showID uuid.UUID) (*entity.SeatState, error)
	AddBookedSeats(ctx context.Context, showID uuid.UUID, seats []string) (bool, error)
	RemoveBookedSeats(ctx context.Context, showID uuid.UUID, seats []string) error
	SetBlockedSeats(ctx context.Context, showID uuid.UUID, blocked []string) (bool, error)
	Delete(ctx context.Context, showID uuid.UUID) error
}

type seatStateRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSeatStateRepository(db database.PgxIface, log *zap.Logger) SeatStateRepository {
	return &seatStateRepository{
		db:  db,
		log: log.With(zap.String("repository", "seat_state")),
	}
}

func (r *seatStateRepository) Get(ctx context.Context, showID uuid.UUID) (*entity.SeatState, error) {
	query := `
		SELECT show_id, booked_seats, blocked_seats, updated_at
		FROM show_seats
		WHERE show_id = $1
	`

	var state entity.SeatState
	err := r.db.QueryRow(ctx, query, showID).Scan(
		&state.ShowID,
		&state.BookedSeats,
		&state.BlockedSeats,
		&state.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		// No seat operation has happened yet for this show.
		return &entity.SeatState{ShowID: showID}, nil
	}
	if err != nil {
		r.log.Error("Failed to get seat state",
			zap.Error(err),
			zap.String("show_id", showID.String()),
		)
		return nil, fmt.Errorf("get seat state for show %s: %w", showID.String(), err)
	}

	return &state, nil
}

func (r *seatStateRepository) AddBookedSeats(ctx context.Context, showID uuid.UUID, seats []string) (bool, error) {
	query := `
		INSERT INTO show_seats (show_id, booked_seats, blocked_seats, updated_at)
		VALUES ($1, $2, '{}', NOW())
		ON CONFLICT (show_id) DO UPDATE
		SET booked_seats = show_seats.booked_seats || EXCLUDED.booked_seats, updated_at = NOW()
		WHERE NOT (show_seats.booked_seats && EXCLUDED.booked_seats)
		  AND NOT (show_seats.blocked_seats && EXCLUDED.booked_seats)
	`

	result, err := r.db.Exec(ctx, query, showID, seats)
	if err != nil {
		r.log.Error("Failed to add booked seats",
			zap.Error(err),
			zap.String("show_id", showID.String()),
			zap.Strings("seats", seats),
		)
		return false, fmt.Errorf("add booked seats for show %s: %w", showID.String(), err)
	}

	// Zero rows means the conditional update refused an overlapping seat.
	return result.RowsAffected() > 0, nil
}

func (r *seatStateRepository) RemoveBookedSeats(ctx context.Context, showID uuid.UUID, seats []string) error {
	query := `
		UPDATE show_seats
		SET booked_seats = (
			SELECT COALESCE(array_agg(seat), '{}')
			FROM unnest(booked_seats) AS seat
			WHERE seat <> ALL($2)
		), updated_at = NOW()
		WHERE show_id = $1
	`

	_, err := r.db.Exec(ctx, query, showID, seats)
	if err != nil {
		r.log.Error("Failed to remove booked seats",
			zap.Error(err),
			zap.String("show_id", showID.String()),
			zap.Strings("seats", seats),
		)
		return fmt.Errorf("remove booked seats for show %s: %w", showID.String(), err)
	}

	return nil
}

func (r *seatStateRepository) SetBlockedSeats(ctx context.Context, showID uuid.UUID, blocked []string) (bool, error) {
	query := `
		INSERT INTO show_seats (show_id, booked_seats, blocked_seats, updated_at)
		VALUES ($1, '{}', $2, NOW())
		ON CONFLICT (show_id) DO UPDATE
		SET blocked_seats = EXCLUDED.blocked_seats, updated_at = NOW()
		WHERE NOT (show_seats.booked_seats && EXCLUDED.blocked_seats)
	`

	result, err := r.db.Exec(ctx, query, showID, blocked)
	if err != nil {
		r.log.Error("Failed to set blocked seats",
			zap.Error(err),
			zap.String("show_id", showID.String()),
			zap.Strings("blocked", blocked),
		)
		return false, fmt.Errorf("set blocked seats for show %s: %w", showID.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *seatStateRepository) Delete(ctx context.Context, showID uuid.UUID) error {
	query := `DELETE FROM show_seats WHERE show_id = $1`

	_, err := r.db.Exec(ctx, query, showID)
	if err != nil {
		r.log.Error("Failed to delete seat state",
			zap.Error(err),
			zap.String("show_id", showID.String()),
		)
		return fmt.Errorf("delete seat state for show %s: %w", showID.String(), err)
	}

	return nil
}
