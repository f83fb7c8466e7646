// Package service holds the bus seating use cases: layout templates, per
// trip bus configurations, the seat ledger and the self-service claim flow.
// Persistence and messaging are reached through internal/service/ports.
package service

import (
	"context"
	"errors"

	"github.com/labstack/gommon/log"

	"github.com/iliyamo/bus-seating/internal/model"
	"github.com/iliyamo/bus-seating/internal/service/ports"
)

// NewLogger returns the logger services write their audit lines to.
func NewLogger() *log.Logger {
	return log.New("seating")
}

type noopNotifier struct{}

func (noopNotifier) SeatAssigned(context.Context, *model.BusConfig, *model.SeatAssignment) {}
func (noopNotifier) SeatClaimed(context.Context, *model.BusConfig, *model.SeatAssignment)  {}
func (noopNotifier) SeatReleased(context.Context, *model.SeatAssignment)                   {}

func notifierOrNoop(n ports.SeatNotifier) ports.SeatNotifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}

func loggerOrDefault(l *log.Logger) *log.Logger {
	if l == nil {
		return NewLogger()
	}
	return l
}

// availableSeats returns [1, total] minus the occupied seat numbers, in
// ascending order.
func availableSeats(total int, taken []model.SeatAssignment) []int {
	occupied := make(map[int]bool, len(taken))
	for _, a := range taken {
		occupied[a.SeatNumber] = true
	}
	out := make([]int, 0, max(total-len(occupied), 0))
	for n := 1; n <= total; n++ {
		if !occupied[n] {
			out = append(out, n)
		}
	}
	return out
}

func errorIsAny(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
