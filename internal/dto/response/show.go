package response

import (
	"time"

	"movie-booking/internal/data/entity"
)

type SeatCategoryResponse struct {
	Type        string   `json:"type"`
	Price       float64  `json:"price"`
	Rows        []string `json:"rows"`
	SeatsPerRow int      `json:"seats_per_row"`
}

type ShowResponse struct {
	ID                 string                 `json:"id"`
	MovieID            string                 `json:"movie_id"`
	MovieTitle         string                 `json:"movie_title"`
	Date               string                 `json:"date"`
	Time               string                 `json:"time"`
	Screen             int                    `json:"screen"`
	Language           string                 `json:"language"`
	Format             entity.ShowFormat      `json:"format"`
	SeatCategories     []SeatCategoryResponse `json:"seat_categories"`
	TotalSeats         int                    `json:"total_seats"`
	MaxSeatsPerBooking int                    `json:"max_seats_per_booking"`
	WeekendMultiplier  float64                `json:"weekend_multiplier"`
	Status             entity.ShowStatus      `json:"status"`
	CreatedAt          time.Time              `json:"created_at"`
}

// ShowSeatsResponse is the seat-map view the seat picker renders from.
type ShowSeatsResponse struct {
	Booked  []string `json:"booked"`
	Blocked []string `json:"blocked"`
}

func ShowToResponse(show *entity.Show) ShowResponse {
	categories := make([]SeatCategoryResponse, len(show.SeatCategories))
	for i, cat := range show.SeatCategories {
		categories[i] = SeatCategoryResponse{
			Type:        cat.Type,
			Price:       cat.Price,
			Rows:        cat.Rows,
			SeatsPerRow: cat.SeatsPerRow,
		}
	}

	return ShowResponse{
		ID:                 show.ID.String(),
		MovieID:            show.MovieID.String(),
		MovieTitle:         show.MovieTitle,
		Date:               show.ShowDate.Format("2006-01-02"),
		Time:               show.ShowTime,
		Screen:             show.Screen,
		Language:           show.Language,
		Format:             show.Format,
		SeatCategories:     categories,
		TotalSeats:         show.TotalSeats,
		MaxSeatsPerBooking: show.MaxSeatsPerBooking,
		WeekendMultiplier:  show.WeekendMultiplier,
		Status:             show.Status,
		CreatedAt:          show.CreatedAt,
	}
}
