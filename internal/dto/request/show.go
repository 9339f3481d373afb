package request

type SeatCategoryRequest struct {
	Type        string   `json:"type" validate:"required"`
	Price       float64  `json:"price" validate:"gte=0"`
	Rows        []string `json:"rows" validate:"required,min=1,dive,required"`
	SeatsPerRow int      `json:"seats_per_row" validate:"required,min=1"`
}

type CreateShowRequest struct {
	MovieID            string                `json:"movie_id" validate:"required,uuid4"`
	MovieTitle         string                `json:"movie_title" validate:"required"`
	Date               string                `json:"date" validate:"required,datetime=2006-01-02"`
	Time               string                `json:"time" validate:"required,datetime=15:04"`
	Screen             int                   `json:"screen" validate:"required,min=1"`
	Language           string                `json:"language" validate:"required"`
	Format             string                `json:"format" validate:"omitempty,oneof=2D 3D IMAX Dolby"`
	SeatCategories     []SeatCategoryRequest `json:"seat_categories" validate:"required,min=1,dive"`
	MaxSeatsPerBooking int                   `json:"max_seats_per_booking" validate:"omitempty,min=1"`
}

// UpdateShowRequest uses pointers so absent fields leave the show untouched.
type UpdateShowRequest struct {
	MovieTitle         *string               `json:"movie_title,omitempty" validate:"omitempty,min=1"`
	Date               *string               `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Time               *string               `json:"time,omitempty" validate:"omitempty,datetime=15:04"`
	Screen             *int                  `json:"screen,omitempty" validate:"omitempty,min=1"`
	Language           *string               `json:"language,omitempty" validate:"omitempty,min=1"`
	Format             *string               `json:"format,omitempty" validate:"omitempty,oneof=2D 3D IMAX Dolby"`
	SeatCategories     []SeatCategoryRequest `json:"seat_categories,omitempty" validate:"omitempty,min=1,dive"`
	MaxSeatsPerBooking *int                  `json:"max_seats_per_booking,omitempty" validate:"omitempty,min=1"`
	Status             *string               `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE CANCELLED"`
}

// UpdateBlockedSeatsRequest overwrites a show's blocked seat set. An empty
// list clears all blocks.
type UpdateBlockedSeatsRequest struct {
	Blocked []string `json:"blocked" validate:"dive,required"`
}

type ShowFilterRequest struct {
	MovieID string `json:"movie_id" validate:"omitempty,uuid4"`
	Status  string `json:"status" validate:"omitempty,oneof=ACTIVE CANCELLED"`
	Date    string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}
