package service

import (
	"context"
	"fmt"

	"github.com/labstack/gommon/log"

	"github.com/iliyamo/bus-seating/internal/layout"
	"github.com/iliyamo/bus-seating/internal/model"
	"github.com/iliyamo/bus-seating/internal/service/ports"
)

// Occupant is an assignment joined with the passenger's display name.
type Occupant struct {
	AssignmentID  uint64                 `json:"assignment_id"`
	SeatNumber    int                    `json:"seat_number"`
	ParticipantID uint64                 `json:"participant_id"`
	DisplayName   string                 `json:"display_name"`
	Source        model.AssignmentSource `json:"source"`
}

// SeatState is one seat of the staff grid.
type SeatState struct {
	layout.Seat
	Occupant *Occupant `json:"occupant,omitempty"`
}

// SeatMap is the staff view of a bus: geometry plus who sits where.
type SeatMap struct {
	Config    *model.BusConfig `json:"config"`
	Rows      []layout.Row     `json:"rows"`
	Seats     []SeatState      `json:"seats"`
	Available []int            `json:"available"`
}

// LedgerService is the staff side of the seat ledger. It shares the store
// with the claim flow; the store's uniqueness rules arbitrate between them.
type LedgerService struct {
	configs     ports.BusConfigStore
	assignments ports.AssignmentStore
	directory   ports.ParticipantDirectory
	notifier    ports.SeatNotifier
	log         *log.Logger
}

func NewLedgerService(
	configs ports.BusConfigStore,
	assignments ports.AssignmentStore,
	directory ports.ParticipantDirectory,
	notifier ports.SeatNotifier,
	logger *log.Logger,
) *LedgerService {
	return &LedgerService{
		configs:     configs,
		assignments: assignments,
		directory:   directory,
		notifier:    notifierOrNoop(notifier),
		log:         loggerOrDefault(logger),
	}
}

// Assign seats a participant. The seat number is range checked before the
// store is touched; the store then reports repository.ErrSeatTaken or
// repository.ErrParticipantSeated on conflict.
func (s *LedgerService) Assign(ctx context.Context, configID, participantID uint64, seat int) (*model.SeatAssignment, error) {
	if participantID == 0 {
		return nil, &layout.ValidationError{Field: "participant_id", Reason: "is required"}
	}
	cfg, err := s.configs.GetByID(ctx, configID)
	if err != nil {
		return nil, fmt.Errorf("get bus config %d: %w", configID, err)
	}
	if err := layout.CheckSeatNumber(seat, cfg.TotalSeats); err != nil {
		return nil, err
	}

	a := &model.SeatAssignment{
		BusConfigID:   cfg.ID,
		ParticipantID: participantID,
		SeatNumber:    seat,
		Source:        model.SourceStaff,
	}
	if err := s.assignments.Insert(ctx, a); err != nil {
		return nil, fmt.Errorf("assign seat %d: %w", seat, err)
	}
	s.log.Infoj(log.JSON{
		"event":          "seat_assigned",
		"bus_config_id":  cfg.ID,
		"participant_id": participantID,
		"seat_number":    seat,
		"source":         a.Source,
	})
	s.notifier.SeatAssigned(ctx, cfg, a)
	return a, nil
}

// Unassign frees a seat. A passenger whose self-service seat is removed
// cannot use their consumed link again.
func (s *LedgerService) Unassign(ctx context.Context, assignmentID uint64) error {
	a, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		return fmt.Errorf("get assignment %d: %w", assignmentID, err)
	}
	if err := s.assignments.Delete(ctx, assignmentID); err != nil {
		return fmt.Errorf("delete assignment %d: %w", assignmentID, err)
	}
	s.log.Infoj(log.JSON{
		"event":          "seat_released",
		"bus_config_id":  a.BusConfigID,
		"participant_id": a.ParticipantID,
		"seat_number":    a.SeatNumber,
	})
	s.notifier.SeatReleased(ctx, a)
	return nil
}

// ListByConfig returns the occupants of a bus ordered by seat number. A
// deleted configuration has no occupants.
func (s *LedgerService) ListByConfig(ctx context.Context, configID uint64) ([]Occupant, error) {
	list, err := s.assignments.ListByConfig(ctx, configID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return s.occupants(ctx, list)
}

// AvailableSeats returns the free seat numbers in ascending order.
func (s *LedgerService) AvailableSeats(ctx context.Context, configID uint64) ([]int, error) {
	cfg, err := s.configs.GetByID(ctx, configID)
	if err != nil {
		return nil, fmt.Errorf("get bus config %d: %w", configID, err)
	}
	list, err := s.assignments.ListByConfig(ctx, configID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return availableSeats(cfg.TotalSeats, list), nil
}

// SeatMap renders the bus with each seat's occupant for the staff grid.
func (s *LedgerService) SeatMap(ctx context.Context, configID uint64) (*SeatMap, error) {
	cfg, err := s.configs.GetByID(ctx, configID)
	if err != nil {
		return nil, fmt.Errorf("get bus config %d: %w", configID, err)
	}
	m, err := generate(cfg)
	if err != nil {
		return nil, err
	}
	list, err := s.assignments.ListByConfig(ctx, configID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	occ, err := s.occupants(ctx, list)
	if err != nil {
		return nil, err
	}
	bySeat := make(map[int]*Occupant, len(occ))
	for i := range occ {
		bySeat[occ[i].SeatNumber] = &occ[i]
	}
	seats := make([]SeatState, len(m.Seats))
	for i, seat := range m.Seats {
		seats[i] = SeatState{Seat: seat, Occupant: bySeat[seat.Number]}
	}
	return &SeatMap{
		Config:    cfg,
		Rows:      m.Rows(),
		Seats:     seats,
		Available: availableSeats(cfg.TotalSeats, list),
	}, nil
}

func (s *LedgerService) occupants(ctx context.Context, list []model.SeatAssignment) ([]Occupant, error) {
	ids := make([]uint64, len(list))
	for i, a := range list {
		ids[i] = a.ParticipantID
	}
	names := map[uint64]string{}
	if s.directory != nil && len(ids) > 0 {
		var err error
		if names, err = s.directory.DisplayNames(ctx, ids); err != nil {
			return nil, fmt.Errorf("resolve participant names: %w", err)
		}
	}
	out := make([]Occupant, len(list))
	for i, a := range list {
		out[i] = Occupant{
			AssignmentID:  a.ID,
			SeatNumber:    a.SeatNumber,
			ParticipantID: a.ParticipantID,
			DisplayName:   names[a.ParticipantID],
			Source:        a.Source,
		}
	}
	return out, nil
}
