package usecase

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"movie-booking/internal/data/entity"
	"movie-booking/internal/data/repository"
	"movie-booking/internal/dto/request"
	"movie-booking/pkg/lock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type bookingFixture struct {
	repo    *repository.Repository
	service BookingService
	show    *entity.Show
	userID  string
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	repo := newFakeRepository()
	show := engineShow()
	require.NoError(t, repo.Show.Create(context.Background(), show))

	return &bookingFixture{
		repo:    repo,
		service: NewBookingService(repo, lock.NewKeyedMutex(), zap.NewNop()),
		show:    show,
		userID:  uuid.NewString(),
	}
}

func (f *bookingFixture) createRequest(seats ...string) *request.CreateBookingRequest {
	return &request.CreateBookingRequest{
		ShowID:        f.show.ID.String(),
		Seats:         seats,
		PaymentMethod: "UPI",
	}
}

func (f *bookingFixture) bookedSeats(t *testing.T) []string {
	t.Helper()
	state, err := f.repo.SeatState.Get(context.Background(), f.show.ID)
	require.NoError(t, err)
	sorted := append([]string(nil), state.BookedSeats...)
	sort.Strings(sorted)
	return sorted
}

func TestCreateBooking(t *testing.T) {
	f := newBookingFixture(t)

	booking, err := f.service.CreateBooking(context.Background(), f.userID, f.createRequest("L1", "L2"))
	require.NoError(t, err)

	assert.Equal(t, entity.BookingStatusConfirmed, booking.Status)
	assert.Equal(t, 1000.0, booking.TotalAmount)
	assert.Equal(t, []string{"L1", "L2"}, booking.Seats)
	assert.Equal(t, f.userID, booking.UserID)
	assert.Equal(t, []string{"L1", "L2"}, f.bookedSeats(t))
}

func TestCreateBookingSeatsTaken(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.service.CreateBooking(context.Background(), f.userID, f.createRequest("L1", "L2"))
	require.NoError(t, err)

	_, err = f.service.CreateBooking(context.Background(), uuid.NewString(), f.createRequest("L2", "L3"))
	derr, ok := AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeSeatsTaken, derr.Code)
	assert.Equal(t, []string{"L2"}, derr.Seats)

	// The losing request must not have touched the seat state.
	assert.Equal(t, []string{"L1", "L2"}, f.bookedSeats(t))
}

func TestCreateBookingBlockedSeat(t *testing.T) {
	f := newBookingFixture(t)

	applied, err := f.repo.SeatState.SetBlockedSeats(context.Background(), f.show.ID, []string{"L1"})
	require.NoError(t, err)
	require.True(t, applied)

	_, err = f.service.CreateBooking(context.Background(), f.userID, f.createRequest("L1"))
	derr, ok := AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeSeatsTaken, derr.Code)
}

func TestCreateBookingRejections(t *testing.T) {
	f := newBookingFixture(t)

	t.Run("show not found", func(t *testing.T) {
		req := f.createRequest("L1")
		req.ShowID = uuid.NewString()
		_, err := f.service.CreateBooking(context.Background(), f.userID, req)
		derr, ok := AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, ErrCodeNotFound, derr.Code)
	})

	t.Run("show inactive", func(t *testing.T) {
		cancelled := engineShow()
		cancelled.Base.ID = uuid.New()
		cancelled.Screen = 9
		cancelled.Status = entity.ShowStatusCancelled
		require.NoError(t, f.repo.Show.Create(context.Background(), cancelled))

		req := f.createRequest("L1")
		req.ShowID = cancelled.ID.String()
		_, err := f.service.CreateBooking(context.Background(), f.userID, req)
		derr, ok := AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, ErrCodeShowInactive, derr.Code)
	})

	t.Run("invalid payment method", func(t *testing.T) {
		req := f.createRequest("L1")
		req.PaymentMethod = "CASH"
		_, err := f.service.CreateBooking(context.Background(), f.userID, req)
		derr, ok := AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, ErrCodeValidation, derr.Code)
	})

	t.Run("invalid seat id", func(t *testing.T) {
		_, err := f.service.CreateBooking(context.Background(), f.userID, f.createRequest("Z9"))
		derr, ok := AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, ErrCodeInvalidSeat, derr.Code)
		assert.Equal(t, []string{"Z9"}, derr.Seats)
	})

	t.Run("too many seats", func(t *testing.T) {
		_, err := f.service.CreateBooking(context.Background(), f.userID,
			f.createRequest("L1", "L2", "L3", "L4", "L5", "L6", "L7"))
		derr, ok := AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, ErrCodeTooManySeats, derr.Code)
	})

	// None of the rejected attempts may leave seats behind.
	assert.Empty(t, f.bookedSeats(t))
}

func TestCreateBookingRollsBackSeatsOnPersistFailure(t *testing.T) {
	f := newBookingFixture(t)
	f.repo.Booking.(*fakeBookingRepo).failCreate = true

	_, err := f.service.CreateBooking(context.Background(), f.userID, f.createRequest("L1", "L2"))
	require.Error(t, err)
	_, isDomain := AsDomainError(err)
	assert.False(t, isDomain, "infrastructure failure must not be a domain error")

	// All-or-nothing: the seat reservation was rolled back.
	assert.Empty(t, f.bookedSeats(t))
}

func TestCancelBooking(t *testing.T) {
	f := newBookingFixture(t)

	booking, err := f.service.CreateBooking(context.Background(), f.userID, f.createRequest("L1", "L2"))
	require.NoError(t, err)

	cancelled, err := f.service.CancelBooking(context.Background(), booking.ID, f.userID, false)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusCancelled, cancelled.Status)
	assert.Empty(t, f.bookedSeats(t))

	// Cancel is not idempotent: the second call is an error.
	_, err = f.service.CancelBooking(context.Background(), booking.ID, f.userID, false)
	derr, ok := AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeAlreadyCancelled, derr.Code)
}

func TestCancelBookingAuthorization(t *testing.T) {
	f := newBookingFixture(t)

	booking, err := f.service.CreateBooking(context.Background(), f.userID, f.createRequest("L1"))
	require.NoError(t, err)

	t.Run("stranger rejected", func(t *testing.T) {
		_, err := f.service.CancelBooking(context.Background(), booking.ID, uuid.NewString(), false)
		derr, ok := AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, ErrCodeForbidden, derr.Code)
	})

	t.Run("admin allowed", func(t *testing.T) {
		cancelled, err := f.service.CancelBooking(context.Background(), booking.ID, uuid.NewString(), true)
		require.NoError(t, err)
		assert.Equal(t, entity.BookingStatusCancelled, cancelled.Status)
	})
}

func TestCancelBookingNotFound(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.service.CancelBooking(context.Background(), uuid.NewString(), f.userID, false)
	derr, ok := AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeNotFound, derr.Code)
}

func TestUpdateBookingStatus(t *testing.T) {
	f := newBookingFixture(t)

	booking, err := f.service.CreateBooking(context.Background(), f.userID, f.createRequest("L1"))
	require.NoError(t, err)

	t.Run("re-confirm confirmed rejected", func(t *testing.T) {
		_, err := f.service.UpdateBookingStatus(context.Background(), booking.ID,
			&request.UpdateBookingStatusRequest{Status: "CONFIRMED"})
		derr, ok := AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, ErrCodeValidation, derr.Code)
	})

	t.Run("cancel releases seats", func(t *testing.T) {
		cancelled, err := f.service.UpdateBookingStatus(context.Background(), booking.ID,
			&request.UpdateBookingStatusRequest{Status: "CANCELLED"})
		require.NoError(t, err)
		assert.Equal(t, entity.BookingStatusCancelled, cancelled.Status)
		assert.Empty(t, f.bookedSeats(t))
	})

	t.Run("re-confirm cancelled rejected", func(t *testing.T) {
		_, err := f.service.UpdateBookingStatus(context.Background(), booking.ID,
			&request.UpdateBookingStatusRequest{Status: "CONFIRMED"})
		derr, ok := AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, ErrCodeValidation, derr.Code)
	})

	t.Run("cancel cancelled rejected", func(t *testing.T) {
		_, err := f.service.UpdateBookingStatus(context.Background(), booking.ID,
			&request.UpdateBookingStatusRequest{Status: "CANCELLED"})
		derr, ok := AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, ErrCodeAlreadyCancelled, derr.Code)
	})
}

// Conservation: the union of seats across confirmed bookings always equals
// the show's booked seat set.
func TestSeatConservation(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	first, err := f.service.CreateBooking(ctx, f.userID, f.createRequest("L1", "L2"))
	require.NoError(t, err)
	_, err = f.service.CreateBooking(ctx, f.userID, f.createRequest("A1", "A2", "A3"))
	require.NoError(t, err)
	_, err = f.service.CancelBooking(ctx, first.ID, f.userID, false)
	require.NoError(t, err)
	_, err = f.service.CreateBooking(ctx, f.userID, f.createRequest("L2"))
	require.NoError(t, err)

	confirmed, err := f.repo.Booking.FindConfirmedByShowID(ctx, f.show.ID)
	require.NoError(t, err)

	var union []string
	for _, booking := range confirmed {
		union = append(union, booking.Seats...)
	}
	sort.Strings(union)

	assert.Equal(t, union, f.bookedSeats(t))
	assert.Equal(t, []string{"A1", "A2", "A3", "L2"}, union)
}

// Two concurrent requests for overlapping seats: at most one may succeed,
// and the loser sees SEATS_TAKEN as if it ran after the winner committed.
func TestConcurrentOverlappingBookings(t *testing.T) {
	f := newBookingFixture(t)

	const attempts = 16
	var wg sync.WaitGroup
	results := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Every attempt wants L5; the rest of the seat set differs.
			seats := []string{"L5", "A" + string(rune('1'+i))}
			if i >= 9 {
				seats = []string{"L5"}
			}
			_, err := f.service.CreateBooking(context.Background(), uuid.NewString(), f.createRequest(seats...))
			results[i] = err
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range results {
		if err == nil {
			successes++
			continue
		}
		derr, ok := AsDomainError(err)
		require.True(t, ok, "unexpected error: %v", err)
		assert.Equal(t, ErrCodeSeatsTaken, derr.Code)
		assert.Contains(t, derr.Seats, "L5")
	}
	assert.Equal(t, 1, successes)

	// Exactly one confirmed booking holds L5.
	state, err := f.repo.SeatState.Get(context.Background(), f.show.ID)
	require.NoError(t, err)
	held := 0
	for _, seat := range state.BookedSeats {
		if seat == "L5" {
			held++
		}
	}
	assert.Equal(t, 1, held)
}

// rendezvousLocker holds every caller at the lock boundary until all
// expected callers have finished their pre-lock reads, then serializes
// them. Used to pin down interleavings a free-running race only hits
// occasionally.
type rendezvousLocker struct {
	arrived *sync.WaitGroup
	mu      sync.Mutex
}

func (l *rendezvousLocker) WithLock(ctx context.Context, key string, fn func() error) error {
	l.arrived.Done()
	l.arrived.Wait()
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn()
}

// Two cancels of the same booking, both reading it as CONFIRMED before
// either commits: one wins, the loser gets ALREADY_CANCELLED, and the
// seats end up released exactly once.
func TestConcurrentCancelSameBooking(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	booking, err := f.service.CreateBooking(ctx, f.userID, f.createRequest("L1"))
	require.NoError(t, err)

	var arrived sync.WaitGroup
	arrived.Add(2)
	racing := NewBookingService(f.repo, &rendezvousLocker{arrived: &arrived}, zap.NewNop())

	results := make([]error, 2)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = racing.CancelBooking(ctx, booking.ID, f.userID, false)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range results {
		if err == nil {
			successes++
			continue
		}
		derr, ok := AsDomainError(err)
		require.True(t, ok, "unexpected error: %v", err)
		assert.Equal(t, ErrCodeAlreadyCancelled, derr.Code)
	}
	assert.Equal(t, 1, successes)

	// Conservation holds: no confirmed booking, no seats left booked.
	confirmed, err := f.repo.Booking.FindConfirmedByShowID(ctx, f.show.ID)
	require.NoError(t, err)
	assert.Empty(t, confirmed)
	assert.Empty(t, f.bookedSeats(t))
}

func TestCancelThenRebookRace(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	booking, err := f.service.CreateBooking(ctx, f.userID, f.createRequest("L1"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	rebookErrs := make([]error, 8)

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = f.service.CancelBooking(ctx, booking.ID, f.userID, false)
	}()
	for i := 0; i < len(rebookErrs); i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, rebookErrs[i] = f.service.CreateBooking(ctx, uuid.NewString(), f.createRequest("L1"))
		}(i)
	}
	wg.Wait()

	// However the race resolves, L1 is held by at most one confirmed booking.
	confirmed, err := f.repo.Booking.FindConfirmedByShowID(ctx, f.show.ID)
	require.NoError(t, err)
	holders := 0
	for _, b := range confirmed {
		for _, seat := range b.Seats {
			if seat == "L1" {
				holders++
			}
		}
	}
	assert.LessOrEqual(t, holders, 1)

	state, err := f.repo.SeatState.Get(ctx, f.show.ID)
	require.NoError(t, err)
	assert.Equal(t, holders, len(state.BookedSeats))
}

func TestGetUserBookings(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	_, err := f.service.CreateBooking(ctx, f.userID, f.createRequest("L1"))
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	_, err = f.service.CreateBooking(ctx, f.userID, f.createRequest("L2"))
	require.NoError(t, err)
	_, err = f.service.CreateBooking(ctx, uuid.NewString(), f.createRequest("A1"))
	require.NoError(t, err)

	page, err := f.service.GetUserBookings(ctx, f.userID, &request.PaginatedRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Pagination.Total)
	require.Len(t, page.Data, 2)
	// Newest first
	assert.Equal(t, []string{"L2"}, page.Data[0].Seats)
}
