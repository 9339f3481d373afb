package repository

import (
	"movie-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Show      ShowRepository
	SeatState SeatStateRepository
	Booking   BookingRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Show:      NewShowRepository(db, log),
		SeatState: NewSeatStateRepository(db, log),
		Booking:   NewBookingRepository(db, log),
	}
}
