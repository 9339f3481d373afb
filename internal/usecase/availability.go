package usecase

import (
	"fmt"

	"movie-booking/internal/data/entity"
)

// The availability and pricing engine: pure decision logic over a show's
// layout and its seat state, no persistence. The booking ledger composes
// these checks in a fixed order — non-empty and duplicate-free seat list,
// seat count against the per-booking maximum, layout validity, availability
// against booked and blocked seats, then price. Every failure short-circuits
// with the specific violated rule.

// ValidateSeatRequest checks the request shape against the show's layout.
func ValidateSeatRequest(show *entity.Show, seats []string) *DomainError {
	if len(seats) == 0 {
		return NewValidationError("at least one seat must be selected")
	}

	seen := make(map[string]struct{}, len(seats))
	for _, seat := range seats {
		if _, dup := seen[seat]; dup {
			return NewValidationError(fmt.Sprintf("seat %s selected more than once", seat))
		}
		seen[seat] = struct{}{}
	}

	if derr := ValidateSeatCount(show, seats); derr != nil {
		return derr
	}

	var invalid []string
	for _, seat := range seats {
		if !show.IsValidSeat(seat) {
			invalid = append(invalid, seat)
		}
	}
	if len(invalid) > 0 {
		return NewInvalidSeatError(invalid)
	}

	return nil
}

// ValidateSeatCount enforces the show's maxSeatsPerBooking.
func ValidateSeatCount(show *entity.Show, seats []string) *DomainError {
	if show.MaxSeatsPerBooking > 0 && len(seats) > show.MaxSeatsPerBooking {
		return NewTooManySeatsError(show.MaxSeatsPerBooking)
	}
	return nil
}

// CheckAvailability fails when any requested seat is already booked or
// administratively blocked, naming the offending seats.
func CheckAvailability(state *entity.SeatState, seats []string) *DomainError {
	var taken []string
	for _, seat := range seats {
		if state.IsBooked(seat) || state.IsBlocked(seat) {
			taken = append(taken, seat)
		}
	}
	if len(taken) > 0 {
		return NewSeatsTakenError(taken)
	}
	return nil
}

// ComputePrice accumulates the effective category price of every requested
// seat. A seat whose row matches no category is rejected explicitly — it
// must never fall through as a silent zero contribution.
func ComputePrice(show *entity.Show, seats []string) (float64, *DomainError) {
	total := 0.0
	var invalid []string

	for _, seat := range seats {
		cat := show.CategoryOf(seat)
		if cat == nil {
			invalid = append(invalid, seat)
			continue
		}
		total += show.EffectivePrice(cat)
	}

	if len(invalid) > 0 {
		return 0, NewInvalidSeatError(invalid)
	}

	return total, nil
}
