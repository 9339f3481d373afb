package usecase

import (
	"context"
	"fmt"
	"time"

	"movie-booking/internal/data/entity"
	"movie-booking/internal/data/repository"
	"movie-booking/internal/dto/request"
	"movie-booking/internal/dto/response"
	"movie-booking/pkg/lock"
	"movie-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ShowService interface {
	// Public endpoints
	GetShows(ctx context.Context, req *request.ShowFilterRequest) ([]response.ShowResponse, error)
	GetShowByID(ctx context.Context, showID string) (*response.ShowResponse, error)
	GetShowSeats(ctx context.Context, showID string) (*response.ShowSeatsResponse, error)

	// Admin endpoints
	CreateShow(ctx context.Context, req *request.CreateShowRequest) (*response.ShowResponse, error)
	UpdateShow(ctx context.Context, showID string, req *request.UpdateShowRequest) (*response.ShowResponse, error)
	DeleteShow(ctx context.Context, showID string) error
	UpdateBlockedSeats(ctx context.Context, showID string, req *request.UpdateBlockedSeatsRequest) (*response.ShowSeatsResponse, error)
}

type showService struct {
	repo   *repository.Repository
	locker lock.ShowLocker
	log    *zap.Logger
}

func NewShowService(repo *repository.Repository, locker lock.ShowLocker, log *zap.Logger) ShowService {
	return &showService{
		repo:   repo,
		locker: locker,
		log:    log.With(zap.String("service", "show")),
	}
}

const showDateLayout = "2006-01-02"

// CreateShow persists a new screening. TotalSeats and the weekend
// multiplier are derived here, and no two shows may share the same
// (screen, date, time) triple.
func (s *showService) CreateShow(ctx context.Context, req *request.CreateShowRequest) (*response.ShowResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create show validation failed", zap.Any("errors", errs))
		return nil, NewValidationError(utils.FormatValidationErrors(errs))
	}

	movieUUID, err := uuid.Parse(req.MovieID)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("invalid movie ID format %s", req.MovieID))
	}

	showDate, err := time.Parse(showDateLayout, req.Date)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("invalid date %s", req.Date))
	}

	existing, err := s.repo.Show.FindByScreenDateTime(ctx, req.Screen, showDate, req.Time)
	if err != nil {
		return nil, fmt.Errorf("check show conflict: %w", err)
	}
	if existing != nil {
		return nil, NewValidationError("a show already exists on this screen at the same date and time")
	}

	format := entity.ShowFormat2D
	if req.Format != "" {
		format = entity.ShowFormat(req.Format)
	}

	maxSeats := req.MaxSeatsPerBooking
	if maxSeats == 0 {
		maxSeats = 6
	}

	now := time.Now()
	show := &entity.Show{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		MovieID:            movieUUID,
		MovieTitle:         req.MovieTitle,
		ShowDate:           showDate,
		ShowTime:           req.Time,
		Screen:             req.Screen,
		Language:           req.Language,
		Format:             format,
		SeatCategories:     toSeatCategories(req.SeatCategories),
		MaxSeatsPerBooking: maxSeats,
		Status:             entity.ShowStatusActive,
	}
	show.RecomputeDerived()

	if err := s.repo.Show.Create(ctx, show); err != nil {
		return nil, err
	}

	s.log.Info("Show created",
		zap.String("show_id", show.ID.String()),
		zap.Int("screen", show.Screen),
		zap.String("date", req.Date),
		zap.String("time", req.Time),
		zap.Int("total_seats", show.TotalSeats),
	)

	resp := response.ShowToResponse(show)
	return &resp, nil
}

func (s *showService) GetShows(ctx context.Context, req *request.ShowFilterRequest) ([]response.ShowResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, NewValidationError(utils.FormatValidationErrors(errs))
	}

	var filter repository.ShowFilter
	if req.MovieID != "" {
		movieUUID, err := uuid.Parse(req.MovieID)
		if err != nil {
			return nil, NewValidationError(fmt.Sprintf("invalid movie ID format %s", req.MovieID))
		}
		filter.MovieID = &movieUUID
	}
	if req.Status != "" {
		status := entity.ShowStatus(req.Status)
		filter.Status = &status
	}
	if req.Date != "" {
		date, err := time.Parse(showDateLayout, req.Date)
		if err != nil {
			return nil, NewValidationError(fmt.Sprintf("invalid date %s", req.Date))
		}
		filter.Date = &date
	}

	shows, err := s.repo.Show.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get shows: %w", err)
	}

	items := make([]response.ShowResponse, len(shows))
	for i, show := range shows {
		items[i] = response.ShowToResponse(show)
	}

	return items, nil
}

func (s *showService) GetShowByID(ctx context.Context, showID string) (*response.ShowResponse, error) {
	show, err := s.findShow(ctx, showID)
	if err != nil {
		return nil, err
	}

	resp := response.ShowToResponse(show)
	return &resp, nil
}

// UpdateShow applies a partial update and refreshes the derived fields.
// The weekend multiplier depends on the date, so it is recomputed on every
// update, not only when seat categories change.
func (s *showService) UpdateShow(ctx context.Context, showID string, req *request.UpdateShowRequest) (*response.ShowResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, NewValidationError(utils.FormatValidationErrors(errs))
	}

	show, err := s.findShow(ctx, showID)
	if err != nil {
		return nil, err
	}

	if req.MovieTitle != nil {
		show.MovieTitle = *req.MovieTitle
	}
	if req.Date != nil {
		date, err := time.Parse(showDateLayout, *req.Date)
		if err != nil {
			return nil, NewValidationError(fmt.Sprintf("invalid date %s", *req.Date))
		}
		show.ShowDate = date
	}
	if req.Time != nil {
		show.ShowTime = *req.Time
	}
	if req.Screen != nil {
		show.Screen = *req.Screen
	}
	if req.Language != nil {
		show.Language = *req.Language
	}
	if req.Format != nil {
		show.Format = entity.ShowFormat(*req.Format)
	}
	if req.SeatCategories != nil {
		show.SeatCategories = toSeatCategories(req.SeatCategories)
	}
	if req.MaxSeatsPerBooking != nil {
		show.MaxSeatsPerBooking = *req.MaxSeatsPerBooking
	}
	if req.Status != nil {
		show.Status = entity.ShowStatus(*req.Status)
	}

	if req.Date != nil || req.Time != nil || req.Screen != nil {
		existing, err := s.repo.Show.FindByScreenDateTime(ctx, show.Screen, show.ShowDate, show.ShowTime)
		if err != nil {
			return nil, fmt.Errorf("check show conflict: %w", err)
		}
		if existing != nil && existing.ID != show.ID {
			return nil, NewValidationError("a show already exists on this screen at the same date and time")
		}
	}

	show.RecomputeDerived()
	show.UpdatedAt = time.Now()

	if err := s.repo.Show.Update(ctx, show); err != nil {
		return nil, err
	}

	s.log.Info("Show updated", zap.String("show_id", showID))

	resp := response.ShowToResponse(show)
	return &resp, nil
}

// DeleteShow removes a show and its seat state. Refused while confirmed
// bookings still reference the show; those must be cancelled first.
func (s *showService) DeleteShow(ctx context.Context, showID string) error {
	show, err := s.findShow(ctx, showID)
	if err != nil {
		return err
	}

	confirmed, err := s.repo.Booking.CountConfirmedByShowID(ctx, show.ID)
	if err != nil {
		return fmt.Errorf("count confirmed bookings: %w", err)
	}
	if confirmed > 0 {
		return NewValidationError("show has confirmed bookings and cannot be deleted")
	}

	if err := s.repo.SeatState.Delete(ctx, show.ID); err != nil {
		return err
	}
	if err := s.repo.Show.Delete(ctx, show.ID); err != nil {
		return err
	}

	s.log.Info("Show deleted", zap.String("show_id", showID))
	return nil
}

// GetShowSeats returns the seat-map view: seats held by confirmed bookings
// plus administratively blocked seats.
func (s *showService) GetShowSeats(ctx context.Context, showID string) (*response.ShowSeatsResponse, error) {
	show, err := s.findShow(ctx, showID)
	if err != nil {
		return nil, err
	}

	state, err := s.repo.SeatState.Get(ctx, show.ID)
	if err != nil {
		return nil, err
	}

	return &response.ShowSeatsResponse{
		Booked:  emptyIfNil(state.BookedSeats),
		Blocked: emptyIfNil(state.BlockedSeats),
	}, nil
}

// UpdateBlockedSeats overwrites the blocked set. Booked and blocked seats
// stay disjoint: blocking a seat that a confirmed booking holds is a hard
// error, and the write runs under the same per-show lock as bookings.
func (s *showService) UpdateBlockedSeats(ctx context.Context, showID string, req *request.UpdateBlockedSeatsRequest) (*response.ShowSeatsResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, NewValidationError(utils.FormatValidationErrors(errs))
	}

	show, err := s.findShow(ctx, showID)
	if err != nil {
		return nil, err
	}

	var invalid []string
	for _, seat := range req.Blocked {
		if !show.IsValidSeat(seat) {
			invalid = append(invalid, seat)
		}
	}
	if len(invalid) > 0 {
		return nil, NewInvalidSeatError(invalid)
	}

	var result *response.ShowSeatsResponse
	err = s.locker.WithLock(ctx, show.ID.String(), func() error {
		state, err := s.repo.SeatState.Get(ctx, show.ID)
		if err != nil {
			return err
		}

		var booked []string
		for _, seat := range req.Blocked {
			if state.IsBooked(seat) {
				booked = append(booked, seat)
			}
		}
		if len(booked) > 0 {
			return NewSeatsTakenError(booked)
		}

		applied, err := s.repo.SeatState.SetBlockedSeats(ctx, show.ID, req.Blocked)
		if err != nil {
			return err
		}
		if !applied {
			return NewSeatsTakenError(req.Blocked)
		}

		result = &response.ShowSeatsResponse{
			Booked:  emptyIfNil(state.BookedSeats),
			Blocked: emptyIfNil(req.Blocked),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Blocked seats updated",
		zap.String("show_id", showID),
		zap.Strings("blocked", req.Blocked),
	)

	return result, nil
}

// ==================== HELPER METHODS ====================

func (s *showService) findShow(ctx context.Context, showID string) (*entity.Show, error) {
	id, err := uuid.Parse(showID)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("invalid show ID format %s", showID))
	}

	show, err := s.repo.Show.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find show: %w", err)
	}
	if show == nil {
		return nil, NewNotFoundError(fmt.Sprintf("show %s not found", showID))
	}

	return show, nil
}

func toSeatCategories(reqs []request.SeatCategoryRequest) []entity.SeatCategory {
	categories := make([]entity.SeatCategory, len(reqs))
	for i, cat := range reqs {
		categories[i] = entity.SeatCategory{
			Type:        cat.Type,
			Price:       cat.Price,
			Rows:        cat.Rows,
			SeatsPerRow: cat.SeatsPerRow,
		}
	}
	return categories
}

func emptyIfNil(seats []string) []string {
	if seats == nil {
		return []string{}
	}
	return seats
}
