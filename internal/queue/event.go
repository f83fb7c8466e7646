// Package queue defines message payloads exchanged over the message broker.
package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/bus-seating/internal/model"
)

// SeatEvent kinds.
const (
	EventSeatAssigned = "seat.assigned"
	EventSeatClaimed  = "seat.claimed"
	EventSeatReleased = "seat.released"
)

// SeatEvent is published after every ledger change. It carries enough for
// downstream consumers to log or notify without querying the database.
type SeatEvent struct {
	ID            string                 `json:"id"`
	Type          string                 `json:"type"`
	BusConfigID   uint64                 `json:"bus_config_id"`
	TripID        uint64                 `json:"trip_id,omitempty"`
	AssignmentID  uint64                 `json:"assignment_id"`
	ParticipantID uint64                 `json:"participant_id"`
	SeatNumber    int                    `json:"seat_number"`
	Source        model.AssignmentSource `json:"source,omitempty"`
	OccurredAt    time.Time              `json:"occurred_at"`
}

func newSeatEvent(kind string, cfg *model.BusConfig, a *model.SeatAssignment, at time.Time) SeatEvent {
	ev := SeatEvent{
		ID:            uuid.NewString(),
		Type:          kind,
		BusConfigID:   a.BusConfigID,
		AssignmentID:  a.ID,
		ParticipantID: a.ParticipantID,
		SeatNumber:    a.SeatNumber,
		Source:        a.Source,
		OccurredAt:    at.UTC(),
	}
	if cfg != nil {
		ev.TripID = cfg.TripID
	}
	return ev
}
