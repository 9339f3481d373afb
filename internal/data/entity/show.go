package entity

import (
	"time"

	"github.com/google/uuid"
)

type ShowStatus string

const (
	ShowStatusActive    ShowStatus = "ACTIVE"
	ShowStatusCancelled ShowStatus = "CANCELLED"
)

type ShowFormat string

const (
	ShowFormat2D    ShowFormat = "2D"
	ShowFormat3D    ShowFormat = "3D"
	ShowFormatIMAX  ShowFormat = "IMAX"
	ShowFormatDolby ShowFormat = "Dolby"
)

// SeatCategory is one price tier of a show's layout, e.g. VIP covering rows L and M.
type SeatCategory struct {
	Type        string   `json:"type" db:"type"`
	Price       float64  `json:"price" db:"price"`
	Rows        []string `json:"rows" db:"rows"`
	SeatsPerRow int      `json:"seats_per_row" db:"seats_per_row"`
}

type Show struct {
	Base
	MovieID            uuid.UUID      `db:"movie_id"`
	MovieTitle         string         `db:"movie_title"`
	ShowDate           time.Time      `db:"show_date"`
	ShowTime           string         `db:"show_time"` // HH:MM
	Screen             int            `db:"screen"`
	Language           string         `db:"language"`
	Format             ShowFormat     `db:"format"`
	SeatCategories     []SeatCategory `db:"seat_categories"`
	TotalSeats         int            `db:"total_seats"`
	MaxSeatsPerBooking int            `db:"max_seats_per_booking"`
	WeekendMultiplier  float64        `db:"weekend_multiplier"`
	Status             ShowStatus     `db:"status"`
}

// ParseSeatID splits a seat identifier like "L7" into its row label and
// 1-based column. Returns false for anything that is not letters followed
// by digits.
func ParseSeatID(seatID string) (row string, col int, ok bool) {
	i := 0
	for i < len(seatID) && seatID[i] >= 'A' && seatID[i] <= 'Z' {
		i++
	}
	if i == 0 || i == len(seatID) {
		return "", 0, false
	}
	for j := i; j < len(seatID); j++ {
		if seatID[j] < '0' || seatID[j] > '9' {
			return "", 0, false
		}
		col = col*10 + int(seatID[j]-'0')
	}
	if col < 1 {
		return "", 0, false
	}
	return seatID[:i], col, true
}

// CategoryOf returns the seat category covering seatID, or nil when the
// seat does not exist on this show's layout.
func (s *Show) CategoryOf(seatID string) *SeatCategory {
	row, col, ok := ParseSeatID(seatID)
	if !ok {
		return nil
	}
	for i := range s.SeatCategories {
		cat := &s.SeatCategories[i]
		if col > cat.SeatsPerRow {
			continue
		}
		for _, r := range cat.Rows {
			if r == row {
				return cat
			}
		}
	}
	return nil
}

// IsValidSeat reports whether seatID belongs to this show's layout.
func (s *Show) IsValidSeat(seatID string) bool {
	return s.CategoryOf(seatID) != nil
}

// ComputeTotalSeats sums rows × seatsPerRow over all categories.
func (s *Show) ComputeTotalSeats() int {
	total := 0
	for _, cat := range s.SeatCategories {
		total += len(cat.Rows) * cat.SeatsPerRow
	}
	return total
}

// EffectivePrice is the category price scaled by the show's weekend multiplier.
func (s *Show) EffectivePrice(cat *SeatCategory) float64 {
	return cat.Price * s.WeekendMultiplier
}

// WeekendMultiplierFor returns 1.2 for Saturday/Sunday shows, 1 otherwise.
func WeekendMultiplierFor(date time.Time) float64 {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return 1.2
	default:
		return 1
	}
}

// RecomputeDerived refreshes totalSeats and weekendMultiplier. Must run on
// every create and update, since both depend on mutable show fields.
func (s *Show) RecomputeDerived() {
	s.TotalSeats = s.ComputeTotalSeats()
	s.WeekendMultiplier = WeekendMultiplierFor(s.ShowDate)
}
