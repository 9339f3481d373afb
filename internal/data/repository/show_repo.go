package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"movie-booking/internal/data/entity"
	"movie-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ShowFilter narrows FindAll results. Nil fields are ignored.
type ShowFilter struct {
	MovieID *uuid.UUID
	Status  *entity.ShowStatus
	Date    *time.Time
}

type ShowRepository interface {
	Create(ctx context.Context, show *entity.Show) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Show, error)
	FindAll(ctx context.Context, filter ShowFilter) ([]*entity.Show, error)
	FindByScreenDateTime(ctx context.Context, screen int, date time.Time, showTime string) (*entity.Show, error)
	Update(ctx context.Context, show *entity.Show) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type showRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewShowRepository(db database.PgxIface, log *zap.Logger) ShowRepository {
	return &showRepository{
		db:  db,
		log: log.With(zap.String("repository", "show")),
	}
}

const showColumns = `id, movie_id, movie_title, show_date, show_time, screen, language, format,
	seat_categories, total_seats, max_seats_per_booking, weekend_multiplier, status, created_at, updated_at`

func (r *showRepository) Create(ctx context.Context, show *entity.Show) error {
	categories, err := json.Marshal(show.SeatCategories)
	if err != nil {
		return fmt.Errorf("marshal seat categories: %w", err)
	}

	query := `
		INSERT INTO shows (id, movie_id, movie_title, show_date, show_time, screen, language, format,
			seat_categories, total_seats, max_seats_per_booking, weekend_multiplier, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err = r.db.Exec(ctx, query,
		show.ID,
		show.MovieID,
		show.MovieTitle,
		show.ShowDate,
		show.ShowTime,
		show.Screen,
		show.Language,
		show.Format,
		categories,
		show.TotalSeats,
		show.MaxSeatsPerBooking,
		show.WeekendMultiplier,
		show.Status,
		show.CreatedAt,
		show.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create show",
			zap.Error(err),
			zap.String("show_id", show.ID.String()),
			zap.Int("screen", show.Screen),
		)
		return fmt.Errorf("create show %s: %w", show.ID.String(), err)
	}

	return nil
}

func (r *showRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Show, error) {
	query := `SELECT ` + showColumns + ` FROM shows WHERE id = $1`

	show, err := r.scanShow(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find show by ID",
			zap.Error(err),
			zap.String("show_id", id.String()),
		)
		return nil, fmt.Errorf("find show by ID %s: %w", id.String(), err)
	}

	return show, nil
}

func (r *showRepository) FindAll(ctx context.Context, filter ShowFilter) ([]*entity.Show, error) {
	query := `SELECT ` + showColumns + ` FROM shows WHERE 1=1`
	args := []any{}

	if filter.MovieID != nil {
		args = append(args, *filter.MovieID)
		query += fmt.Sprintf(" AND movie_id = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Date != nil {
		args = append(args, *filter.Date)
		query += fmt.Sprintf(" AND show_date = $%d", len(args))
	}

	query += ` ORDER BY show_date, show_time`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find shows", zap.Error(err))
		return nil, fmt.Errorf("find shows: %w", err)
	}
	defer rows.Close()

	var shows []*entity.Show
	for rows.Next() {
		show, err := r.scanShow(rows)
		if err != nil {
			r.log.Error("Failed to scan show row", zap.Error(err))
			return nil, fmt.Errorf("scan show row: %w", err)
		}
		shows = append(shows, show)
	}

	return shows, nil
}

func (r *showRepository) FindByScreenDateTime(ctx context.Context, screen int, date time.Time, showTime string) (*entity.Show, error) {
	query := `SELECT ` + showColumns + ` FROM shows WHERE screen = $1 AND show_date = $2 AND show_time = $3`

	show, err := r.scanShow(r.db.QueryRow(ctx, query, screen, date, showTime))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find show by screen/date/time",
			zap.Error(err),
			zap.Int("screen", screen),
		)
		return nil, fmt.Errorf("find show by screen/date/time: %w", err)
	}

	return show, nil
}

func (r *showRepository) Update(ctx context.Context, show *entity.Show) error {
	categories, err := json.Marshal(show.SeatCategories)
	if err != nil {
		return fmt.Errorf("marshal seat categories: %w", err)
	}

	query := `
		UPDATE shows
		SET movie_id = $2, movie_title = $3, show_date = $4, show_time = $5, screen = $6,
		    language = $7, format = $8, seat_categories = $9, total_seats = $10,
		    max_seats_per_booking = $11, weekend_multiplier = $12, status = $13, updated_at = $14
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		show.ID,
		show.MovieID,
		show.MovieTitle,
		show.ShowDate,
		show.ShowTime,
		show.Screen,
		show.Language,
		show.Format,
		categories,
		show.TotalSeats,
		show.MaxSeatsPerBooking,
		show.WeekendMultiplier,
		show.Status,
		show.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update show",
			zap.Error(err),
			zap.String("show_id", show.ID.String()),
		)
		return fmt.Errorf("update show %s: %w", show.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("show %s not found", show.ID.String())
	}

	return nil
}

func (r *showRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM shows WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete show",
			zap.Error(err),
			zap.String("show_id", id.String()),
		)
		return fmt.Errorf("delete show %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("show %s not found", id.String())
	}

	r.log.Info("Show deleted", zap.String("show_id", id.String()))
	return nil
}

func (r *showRepository) scanShow(row pgx.Row) (*entity.Show, error) {
	var show entity.Show
	var categories []byte

	err := row.Scan(
		&show.ID,
		&show.MovieID,
		&show.MovieTitle,
		&show.ShowDate,
		&show.ShowTime,
		&show.Screen,
		&show.Language,
		&show.Format,
		&categories,
		&show.TotalSeats,
		&show.MaxSeatsPerBooking,
		&show.WeekendMultiplier,
		&show.Status,
		&show.CreatedAt,
		&show.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(categories, &show.SeatCategories); err != nil {
		return nil, fmt.Errorf("unmarshal seat categories: %w", err)
	}

	return &show, nil
}
