package adaptor

import (
	"net/http"

	"movie-booking/internal/usecase"
	"movie-booking/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Show    *ShowHandler
	Booking *BookingHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Show:    NewShowHandler(service.Show, log),
		Booking: NewBookingHandler(service.Booking, log),
	}
}

// handleServiceError maps domain errors onto HTTP statuses. Anything that
// is not a DomainError is an infrastructure failure and surfaces as 500.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	derr, ok := usecase.AsDomainError(err)
	if !ok {
		log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	log.Warn(operation+" failed",
		zap.String("code", string(derr.Code)),
		zap.String("message", derr.Message),
		zap.String("operation", operation))

	switch derr.Code {
	case usecase.ErrCodeNotFound:
		utils.ResponseNotFound(w, derr.Message)
	case usecase.ErrCodeForbidden:
		utils.ResponseForbidden(w, derr.Message)
	default:
		utils.ResponseBadRequest(w, derr.Message, domainErrorDetails(derr))
	}
}

func domainErrorDetails(derr *usecase.DomainError) map[string]any {
	details := map[string]any{"code": string(derr.Code)}
	if len(derr.Seats) > 0 {
		details["seats"] = derr.Seats
	}
	if derr.Max > 0 {
		details["max"] = derr.Max
	}
	return details
}
