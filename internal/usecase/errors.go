package usecase

import "errors"

// ErrorCode classifies every domain failure the booking core can produce.
// Infrastructure failures are not DomainErrors; they travel as wrapped
// errors and surface as internal errors at the HTTP layer.
type ErrorCode string

const (
	ErrCodeValidation       ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound         ErrorCode = "NOT_FOUND"
	ErrCodeShowInactive     ErrorCode = "SHOW_INACTIVE"
	ErrCodeSeatsTaken       ErrorCode = "SEATS_TAKEN"
	ErrCodeTooManySeats     ErrorCode = "TOO_MANY_SEATS"
	ErrCodeInvalidSeat      ErrorCode = "INVALID_SEAT"
	ErrCodeAlreadyCancelled ErrorCode = "ALREADY_CANCELLED"
	ErrCodeForbidden        ErrorCode = "FORBIDDEN"
)

// DomainError carries the violated rule plus enough detail for the client
// to act on it: the offending seat ids for seat conflicts, the configured
// maximum for oversized requests.
type DomainError struct {
	Code    ErrorCode
	Message string
	Seats   []string
	Max     int
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewValidationError(message string) *DomainError {
	return &DomainError{Code: ErrCodeValidation, Message: message}
}

func NewNotFoundError(message string) *DomainError {
	return &DomainError{Code: ErrCodeNotFound, Message: message}
}

func NewShowInactiveError() *DomainError {
	return &DomainError{Code: ErrCodeShowInactive, Message: "show is not active"}
}

func NewSeatsTakenError(seats []string) *DomainError {
	return &DomainError{
		Code:    ErrCodeSeatsTaken,
		Message: "one or more seats already taken",
		Seats:   seats,
	}
}

func NewTooManySeatsError(max int) *DomainError {
	return &DomainError{
		Code:    ErrCodeTooManySeats,
		Message: "seat count exceeds the per-booking maximum",
		Max:     max,
	}
}

func NewInvalidSeatError(seats []string) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidSeat,
		Message: "one or more seats do not exist on this show",
		Seats:   seats,
	}
}

func NewAlreadyCancelledError() *DomainError {
	return &DomainError{Code: ErrCodeAlreadyCancelled, Message: "booking already cancelled"}
}

func NewForbiddenError(message string) *DomainError {
	return &DomainError{Code: ErrCodeForbidden, Message: message}
}

// AsDomainError unwraps err into a DomainError when it is one.
func AsDomainError(err error) (*DomainError, bool) {
	var derr *DomainError
	if errors.As(err, &derr) {
		return derr, true
	}
	return nil, false
}
