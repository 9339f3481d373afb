package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"movie-booking/internal/data/entity"
	"movie-booking/internal/data/repository"

	"github.com/google/uuid"
)

// In-memory repository fakes. The seat-state fake mirrors the conditional
// semantics of the real implementation: AddBookedSeats and SetBlockedSeats
// refuse overlapping writes atomically, so the concurrency tests exercise
// the same guarantees the database gives us.

func newFakeRepository() *repository.Repository {
	return &repository.Repository{
		Show:      &fakeShowRepo{shows: make(map[uuid.UUID]*entity.Show)},
		SeatState: &fakeSeatStateRepo{states: make(map[uuid.UUID]*entity.SeatState)},
		Booking:   &fakeBookingRepo{bookings: make(map[uuid.UUID]*entity.Booking)},
	}
}

// ==================== SHOW ====================

type fakeShowRepo struct {
	mu    sync.Mutex
	shows map[uuid.UUID]*entity.Show
}

func (f *fakeShowRepo) Create(ctx context.Context, show *entity.Show) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *show
	f.shows[show.ID] = &cp
	return nil
}

func (f *fakeShowRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Show, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	show, ok := f.shows[id]
	if !ok {
		return nil, nil
	}
	cp := *show
	return &cp, nil
}

func (f *fakeShowRepo) FindAll(ctx context.Context, filter repository.ShowFilter) ([]*entity.Show, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var shows []*entity.Show
	for _, show := range f.shows {
		if filter.MovieID != nil && show.MovieID != *filter.MovieID {
			continue
		}
		if filter.Status != nil && show.Status != *filter.Status {
			continue
		}
		if filter.Date != nil && !show.ShowDate.Equal(*filter.Date) {
			continue
		}
		cp := *show
		shows = append(shows, &cp)
	}
	sort.Slice(shows, func(i, j int) bool {
		if !shows[i].ShowDate.Equal(shows[j].ShowDate) {
			return shows[i].ShowDate.Before(shows[j].ShowDate)
		}
		return shows[i].ShowTime < shows[j].ShowTime
	})
	return shows, nil
}

func (f *fakeShowRepo) FindByScreenDateTime(ctx context.Context, screen int, date time.Time, showTime string) (*entity.Show, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, show := range f.shows {
		if show.Screen == screen && show.ShowDate.Equal(date) && show.ShowTime == showTime {
			cp := *show
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeShowRepo) Update(ctx context.Context, show *entity.Show) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.shows[show.ID]; !ok {
		return fmt.Errorf("show %s not found", show.ID.String())
	}
	cp := *show
	f.shows[show.ID] = &cp
	return nil
}

func (f *fakeShowRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.shows[id]; !ok {
		return fmt.Errorf("show %s not found", id.String())
	}
	delete(f.shows, id)
	return nil
}

// ==================== SEAT STATE ====================

type fakeSeatStateRepo struct {
	mu     sync.Mutex
	states map[uuid.UUID]*entity.SeatState
}

func (f *fakeSeatStateRepo) Get(ctx context.Context, showID uuid.UUID) (*entity.SeatState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	state, ok := f.states[showID]
	if !ok {
		return &entity.SeatState{ShowID: showID}, nil
	}
	return &entity.SeatState{
		ShowID:       showID,
		BookedSeats:  append([]string(nil), state.BookedSeats...),
		BlockedSeats: append([]string(nil), state.BlockedSeats...),
		UpdatedAt:    state.UpdatedAt,
	}, nil
}

func (f *fakeSeatStateRepo) AddBookedSeats(ctx context.Context, showID uuid.UUID, seats []string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	state, ok := f.states[showID]
	if !ok {
		state = &entity.SeatState{ShowID: showID}
		f.states[showID] = state
	}
	for _, seat := range seats {
		if state.IsBooked(seat) || state.IsBlocked(seat) {
			return false, nil
		}
	}
	state.BookedSeats = append(state.BookedSeats, seats...)
	state.UpdatedAt = time.Now()
	return true, nil
}

func (f *fakeSeatStateRepo) RemoveBookedSeats(ctx context.Context, showID uuid.UUID, seats []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	state, ok := f.states[showID]
	if !ok {
		return nil
	}
	remove := make(map[string]struct{}, len(seats))
	for _, seat := range seats {
		remove[seat] = struct{}{}
	}
	kept := state.BookedSeats[:0]
	for _, seat := range state.BookedSeats {
		if _, drop := remove[seat]; !drop {
			kept = append(kept, seat)
		}
	}
	state.BookedSeats = kept
	state.UpdatedAt = time.Now()
	return nil
}

func (f *fakeSeatStateRepo) SetBlockedSeats(ctx context.Context, showID uuid.UUID, blocked []string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	state, ok := f.states[showID]
	if !ok {
		state = &entity.SeatState{ShowID: showID}
		f.states[showID] = state
	}
	for _, seat := range blocked {
		if state.IsBooked(seat) {
			return false, nil
		}
	}
	state.BlockedSeats = append([]string(nil), blocked...)
	state.UpdatedAt = time.Now()
	return true, nil
}

func (f *fakeSeatStateRepo) Delete(ctx context.Context, showID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.states, showID)
	return nil
}

// ==================== BOOKING ====================

type fakeBookingRepo struct {
	mu         sync.Mutex
	bookings   map[uuid.UUID]*entity.Booking
	failCreate bool
}

func (f *fakeBookingRepo) Create(ctx context.Context, booking *entity.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return fmt.Errorf("create booking %s: connection reset", booking.ID.String())
	}
	cp := *booking
	f.bookings[booking.ID] = &cp
	return nil
}

func (f *fakeBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.bookings[id]
	if !ok {
		return nil, nil
	}
	cp := *booking
	return &cp, nil
}

func (f *fakeBookingRepo) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var bookings []*entity.Booking
	for _, booking := range f.bookings {
		if booking.UserID == userID {
			cp := *booking
			bookings = append(bookings, &cp)
		}
	}
	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
	return paginate(bookings, limit, offset), nil
}

func (f *fakeBookingRepo) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, booking := range f.bookings {
		if booking.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeBookingRepo) FindAll(ctx context.Context, limit, offset int) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var bookings []*entity.Booking
	for _, booking := range f.bookings {
		cp := *booking
		bookings = append(bookings, &cp)
	}
	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
	return paginate(bookings, limit, offset), nil
}

func (f *fakeBookingRepo) Count(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.bookings)), nil
}

func (f *fakeBookingRepo) FindConfirmedByShowID(ctx context.Context, showID uuid.UUID) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var bookings []*entity.Booking
	for _, booking := range f.bookings {
		if booking.ShowID == showID && booking.Status == entity.BookingStatusConfirmed {
			cp := *booking
			bookings = append(bookings, &cp)
		}
	}
	return bookings, nil
}

func (f *fakeBookingRepo) CountConfirmedByShowID(ctx context.Context, showID uuid.UUID) (int64, error) {
	bookings, _ := f.FindConfirmedByShowID(ctx, showID)
	return int64(len(bookings)), nil
}

func (f *fakeBookingRepo) UpdateStatus(ctx context.Context, bookingID uuid.UUID, from, to entity.BookingStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.bookings[bookingID]
	if !ok || booking.Status != from {
		return false, nil
	}
	booking.Status = to
	booking.UpdatedAt = time.Now()
	return true, nil
}

func paginate(bookings []*entity.Booking, limit, offset int) []*entity.Booking {
	if offset >= len(bookings) {
		return nil
	}
	end := offset + limit
	if end > len(bookings) {
		end = len(bookings)
	}
	return bookings[offset:end]
}
