package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

type PaymentMethod string

const (
	PaymentMethodUPI  PaymentMethod = "UPI"
	PaymentMethodCard PaymentMethod = "CARD"
)

// Booking is one reservation transaction. Show metadata is denormalized at
// booking time so cancelling the show later does not corrupt history.
type Booking struct {
	Base
	UserID        uuid.UUID     `db:"user_id"`
	ShowID        uuid.UUID     `db:"show_id"`
	MovieTitle    string        `db:"movie_title"`
	ShowDate      time.Time     `db:"show_date"`
	ShowTime      string        `db:"show_time"`
	Language      string        `db:"language"`
	Seats         []string      `db:"seats"`
	TotalAmount   float64       `db:"total_amount"`
	PaymentMethod PaymentMethod `db:"payment_method"`
	Status        BookingStatus `db:"status"`
}
