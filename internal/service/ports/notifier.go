package ports

import (
	"context"

	"github.com/iliyamo/bus-seating/internal/model"
)

// SeatNotifier fans ledger changes out to other systems. Calls happen after
// the write has committed; implementations log their own failures.
type SeatNotifier interface {
	SeatAssigned(ctx context.Context, cfg *model.BusConfig, a *model.SeatAssignment)
	SeatClaimed(ctx context.Context, cfg *model.BusConfig, a *model.SeatAssignment)
	SeatReleased(ctx context.Context, a *model.SeatAssignment)
}
