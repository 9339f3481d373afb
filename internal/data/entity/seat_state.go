package entity

import (
	"time"

	"github.com/google/uuid"
)

// SeatState is the mutable booking ledger of a single show: which seats are
// held by confirmed bookings and which are withheld by an admin. Created
// lazily on the first seat operation for a show.
type SeatState struct {
	ShowID       uuid.UUID `db:"show_id"`
	BookedSeats  []string  `db:"booked_seats"`
	BlockedSeats []string  `db:"blocked_seats"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// IsBooked reports whether seatID is held by a confirmed booking.
func (ss *SeatState) IsBooked(seatID string) bool {
	return containsSeat(ss.BookedSeats, seatID)
}

// IsBlocked reports whether seatID is administratively withheld.
func (ss *SeatState) IsBlocked(seatID string) bool {
	return containsSeat(ss.BlockedSeats, seatID)
}

func containsSeat(seats []string, seatID string) bool {
	for _, s := range seats {
		if s == seatID {
			return true
		}
	}
	return false
}
