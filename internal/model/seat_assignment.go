package model

import "time"

// AssignmentSource records which writer created an assignment.
type AssignmentSource string

const (
	SourceStaff       AssignmentSource = "STAFF"
	SourceSelfService AssignmentSource = "SELF_SERVICE"
)

// SeatAssignment binds one participant to one seat of a configuration.
// Within a configuration a seat holds at most one participant and a
// participant holds at most one seat.
type SeatAssignment struct {
	ID            uint64           `json:"id"`
	BusConfigID   uint64           `json:"bus_config_id"`
	ParticipantID uint64           `json:"participant_id"`
	SeatNumber    int              `json:"seat_number"`
	Source        AssignmentSource `json:"source"`
	CreatedAt     time.Time        `json:"created_at"`
}

// Participant is the slice of the passenger directory this service reads.
type Participant struct {
	ID          uint64 `json:"id"`
	DisplayName string `json:"display_name"`
}
