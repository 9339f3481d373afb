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

type BookingService interface {
	// Customer endpoints (require auth)
	CreateBooking(ctx context.Context, userID string, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	CancelBooking(ctx context.Context, bookingID, userID string, isAdmin bool) (*response.BookingResponse, error)
	GetUserBookings(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)

	// Admin endpoints
	GetAllBookings(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	GetBookingByID(ctx context.Context, bookingID string) (*response.BookingResponse, error)
	UpdateBookingStatus(ctx context.Context, bookingID string, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error)
}

type bookingService struct {
	repo   *repository.Repository
	locker lock.ShowLocker
	log    *zap.Logger
}

func NewBookingService(repo *repository.Repository, locker lock.ShowLocker, log *zap.Logger) BookingService {
	return &bookingService{
		repo:   repo,
		locker: locker,
		log:    log.With(zap.String("service", "booking")),
	}
}

// CreateBooking reserves the requested seats and records a CONFIRMED
// booking. The availability check and the seat-state write run under the
// per-show lock so two overlapping requests cannot both succeed; the seat
// write itself is a conditional update, so the loser observes SEATS_TAKEN
// as if it had run strictly after the winner. The show update and the
// booking insert are one logical transaction: if the insert fails, the seat
// reservation is rolled back before the error is returned.
func (s *bookingService) CreateBooking(ctx context.Context, userID string, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, NewValidationError(utils.FormatValidationErrors(errs))
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("invalid user ID format %s", userID))
	}

	showUUID, err := uuid.Parse(req.ShowID)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("invalid show ID format %s", req.ShowID))
	}

	show, err := s.repo.Show.FindByID(ctx, showUUID)
	if err != nil {
		return nil, fmt.Errorf("find show: %w", err)
	}
	if show == nil {
		return nil, NewNotFoundError(fmt.Sprintf("show %s not found", req.ShowID))
	}

	if show.Status != entity.ShowStatusActive {
		return nil, NewShowInactiveError()
	}

	if derr := ValidateSeatRequest(show, req.Seats); derr != nil {
		return nil, derr
	}

	total, derr := ComputePrice(show, req.Seats)
	if derr != nil {
		return nil, derr
	}

	var booking *entity.Booking
	err = s.locker.WithLock(ctx, showUUID.String(), func() error {
		state, err := s.repo.SeatState.Get(ctx, showUUID)
		if err != nil {
			return err
		}

		if derr := CheckAvailability(state, req.Seats); derr != nil {
			return derr
		}

		reserved, err := s.repo.SeatState.AddBookedSeats(ctx, showUUID, req.Seats)
		if err != nil {
			return err
		}
		if !reserved {
			// An out-of-band writer got there first; report the overlap.
			fresh, err := s.repo.SeatState.Get(ctx, showUUID)
			if err != nil {
				return err
			}
			if derr := CheckAvailability(fresh, req.Seats); derr != nil {
				return derr
			}
			return NewSeatsTakenError(req.Seats)
		}

		now := time.Now()
		booking = &entity.Booking{
			Base: entity.Base{
				ID:        uuid.New(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			UserID:        userUUID,
			ShowID:        showUUID,
			MovieTitle:    show.MovieTitle,
			ShowDate:      show.ShowDate,
			ShowTime:      show.ShowTime,
			Language:      show.Language,
			Seats:         req.Seats,
			TotalAmount:   total,
			PaymentMethod: entity.PaymentMethod(req.PaymentMethod),
			Status:        entity.BookingStatusConfirmed,
		}

		if err := s.repo.Booking.Create(ctx, booking); err != nil {
			if rbErr := s.repo.SeatState.RemoveBookedSeats(ctx, showUUID, req.Seats); rbErr != nil {
				s.log.Error("Failed to roll back seat reservation",
					zap.Error(rbErr),
					zap.String("show_id", showUUID.String()),
					zap.Strings("seats", req.Seats),
				)
			}
			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("show_id", showUUID.String()),
		zap.String("user_id", userID),
		zap.Strings("seats", req.Seats),
		zap.Float64("total_amount", total),
	)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

// CancelBooking moves the booking to CANCELLED and releases its seats.
// CANCELLED is terminal: a second cancel fails with ALREADY_CANCELLED.
func (s *bookingService) CancelBooking(ctx context.Context, bookingID, userID string, isAdmin bool) (*response.BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("invalid booking ID format %s", bookingID))
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find booking: %w", err)
	}
	if booking == nil {
		return nil, NewNotFoundError(fmt.Sprintf("booking %s not found", bookingID))
	}

	if !isAdmin {
		userUUID, err := uuid.Parse(userID)
		if err != nil || booking.UserID != userUUID {
			return nil, NewForbiddenError("not allowed to cancel this booking")
		}
	}

	if booking.Status == entity.BookingStatusCancelled {
		return nil, NewAlreadyCancelledError()
	}

	err = s.locker.WithLock(ctx, booking.ShowID.String(), func() error {
		// The status flip goes first. It is a conditional write, so of two
		// concurrent cancels exactly one passes; the loser returns before
		// touching seat state and cannot strand seats as booked.
		cancelled, err := s.repo.Booking.UpdateStatus(ctx, id, entity.BookingStatusConfirmed, entity.BookingStatusCancelled)
		if err != nil {
			return err
		}
		if !cancelled {
			return NewAlreadyCancelledError()
		}

		if err := s.repo.SeatState.RemoveBookedSeats(ctx, booking.ShowID, booking.Seats); err != nil {
			// Flip the booking back: it still holds its seats.
			if _, rbErr := s.repo.Booking.UpdateStatus(ctx, id, entity.BookingStatusCancelled, entity.BookingStatusConfirmed); rbErr != nil {
				s.log.Error("Failed to restore booking status after seat release failure",
					zap.Error(rbErr),
					zap.String("booking_id", bookingID),
				)
			}
			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	booking.Status = entity.BookingStatusCancelled

	s.log.Info("Booking cancelled",
		zap.String("booking_id", bookingID),
		zap.String("show_id", booking.ShowID.String()),
		zap.Strings("seats", booking.Seats),
	)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("invalid user ID format %s", userID))
	}

	bookings, err := s.repo.Booking.FindByUserID(ctx, userUUID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get user bookings: %w", err)
	}

	total, err := s.repo.Booking.CountByUserID(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("count user bookings: %w", err)
	}

	items := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		items[i] = response.BookingToResponse(booking)
	}

	return response.NewPaginatedResponse(items, req.Page, req.PerPage, total), nil
}

// ==================== ADMIN METHODS ====================

func (s *bookingService) GetAllBookings(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	bookings, err := s.repo.Booking.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get bookings: %w", err)
	}

	total, err := s.repo.Booking.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	items := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		items[i] = response.BookingToResponse(booking)
	}

	return response.NewPaginatedResponse(items, req.Page, req.PerPage, total), nil
}

func (s *bookingService) GetBookingByID(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("invalid booking ID format %s", bookingID))
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find booking: %w", err)
	}
	if booking == nil {
		return nil, NewNotFoundError(fmt.Sprintf("booking %s not found", bookingID))
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

// UpdateBookingStatus is the administrative transition endpoint. The only
// legal transition is CONFIRMED to CANCELLED; a cancelled booking is never
// re-confirmed because its seats may already belong to someone else.
func (s *bookingService) UpdateBookingStatus(ctx context.Context, bookingID string, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, NewValidationError(utils.FormatValidationErrors(errs))
	}

	if entity.BookingStatus(req.Status) == entity.BookingStatusCancelled {
		return s.CancelBooking(ctx, bookingID, "", true)
	}

	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("invalid booking ID format %s", bookingID))
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find booking: %w", err)
	}
	if booking == nil {
		return nil, NewNotFoundError(fmt.Sprintf("booking %s not found", bookingID))
	}

	if booking.Status == entity.BookingStatusCancelled {
		return nil, NewValidationError("cancelled booking cannot be re-confirmed")
	}
	return nil, NewValidationError("booking already in this status")
}
