package service

import (
	"errors"
	"fmt"

	"github.com/iliyamo/bus-seating/internal/repository"
)

// ErrTokenInvalid covers every way a claim link can be dead: unknown,
// expired, or consumed without a seat to show for it. The wrapped message
// says which; callers should only test for the sentinel.
var ErrTokenInvalid = errors.New("claim link is invalid or expired")

// SeatTakenError is returned by a self-service claim that lost the race
// for a seat. It carries the seats still free so the client can offer a
// new choice. The token is not consumed.
type SeatTakenError struct {
	Seat      int
	Available []int
}

func (e *SeatTakenError) Error() string {
	return fmt.Sprintf("seat %d is already taken", e.Seat)
}

func (e *SeatTakenError) Unwrap() error { return repository.ErrSeatTaken }

func tokenInvalid(reason string) error {
	return fmt.Errorf("%w: %s", ErrTokenInvalid, reason)
}
