package usecase

import (
	"movie-booking/internal/data/repository"
	"movie-booking/pkg/lock"
	"movie-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Show    ShowService
	Booking BookingService
}

func NewService(repo *repository.Repository, locker lock.ShowLocker, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Show:    NewShowService(repo, locker, log),
		Booking: NewBookingService(repo, locker, log),
	}
}
