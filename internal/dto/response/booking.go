package response

import (
	"time"

	"movie-booking/internal/data/entity"
)

type BookingResponse struct {
	ID            string               `json:"id"`
	UserID        string               `json:"user_id"`
	ShowID        string               `json:"show_id"`
	MovieTitle    string               `json:"movie_title"`
	ShowDate      string               `json:"show_date"`
	ShowTime      string               `json:"show_time"`
	Language      string               `json:"language"`
	Seats         []string             `json:"seats"`
	TotalAmount   float64              `json:"total_amount"`
	PaymentMethod entity.PaymentMethod `json:"payment_method"`
	Status        entity.BookingStatus `json:"status"`
	CreatedAt     time.Time            `json:"created_at"`
}

func BookingToResponse(booking *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:            booking.ID.String(),
		UserID:        booking.UserID.String(),
		ShowID:        booking.ShowID.String(),
		MovieTitle:    booking.MovieTitle,
		ShowDate:      booking.ShowDate.Format("2006-01-02"),
		ShowTime:      booking.ShowTime,
		Language:      booking.Language,
		Seats:         booking.Seats,
		TotalAmount:   booking.TotalAmount,
		PaymentMethod: booking.PaymentMethod,
		Status:        booking.Status,
		CreatedAt:     booking.CreatedAt,
	}
}
