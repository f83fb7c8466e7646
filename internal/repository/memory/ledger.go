package memory

import (
	"context"
	"sort"

	"github.com/iliyamo/bus-seating/internal/model"
	"github.com/iliyamo/bus-seating/internal/repository"
)

// Configs exposes the bus configuration half of the store. Its method set
// overlaps with the template half, so it gets its own view type.
func (s *Store) Configs() *ConfigStore { return &ConfigStore{s: s} }

// Assignments exposes the seat ledger half of the store.
func (s *Store) Assignments() *AssignmentStore { return &AssignmentStore{s: s} }

// ConfigStore is the ports.BusConfigStore view of a Store.
type ConfigStore struct{ s *Store }

func (c *ConfigStore) Create(ctx context.Context, cfg *model.BusConfig) error {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.configByTrip[cfg.TripID]; ok {
		return repository.ErrConfigExists
	}
	cfg.ID = s.id()
	cfg.CreatedAt = s.now()
	s.configs[cfg.ID] = *cfg
	s.configByTrip[cfg.TripID] = cfg.ID
	return nil
}

func (c *ConfigStore) GetByID(ctx context.Context, id uint64) (*model.BusConfig, error) {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg, ok := s.configs[id]
	if !ok {
		return nil, repository.ErrConfigNotFound
	}
	return &cfg, nil
}

func (c *ConfigStore) GetByTrip(ctx context.Context, tripID uint64) (*model.BusConfig, error) {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.configByTrip[tripID]
	if !ok {
		return nil, repository.ErrConfigNotFound
	}
	cfg := s.configs[id]
	return &cfg, nil
}

func (c *ConfigStore) DeleteCascade(ctx context.Context, id uint64) (int, error) {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg, ok := s.configs[id]
	if !ok {
		return 0, repository.ErrConfigNotFound
	}
	removed := 0
	for aid, a := range s.assignments {
		if a.BusConfigID == id {
			s.removeLocked(aid, a)
			removed++
		}
	}
	delete(s.configs, id)
	delete(s.configByTrip, cfg.TripID)
	return removed, nil
}

// AssignmentStore is the ports.AssignmentStore view of a Store.
type AssignmentStore struct{ s *Store }

func (a *AssignmentStore) Insert(ctx context.Context, sa *model.SeatAssignment) error {
	s := a.s
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(sa)
}

// checkLocked applies both uniqueness rules. The seat check runs first,
// matching the order a caller sees from MySQL when both keys collide.
func (s *Store) checkLocked(sa *model.SeatAssignment) error {
	if _, ok := s.configs[sa.BusConfigID]; !ok {
		return repository.ErrConfigNotFound
	}
	if _, taken := s.bySeat[seatKey{sa.BusConfigID, sa.SeatNumber}]; taken {
		return repository.ErrSeatTaken
	}
	if _, seated := s.byPerson[participantKey{sa.BusConfigID, sa.ParticipantID}]; seated {
		return repository.ErrParticipantSeated
	}
	return nil
}

func (s *Store) insertLocked(sa *model.SeatAssignment) error {
	if err := s.checkLocked(sa); err != nil {
		return err
	}
	sa.ID = s.id()
	sa.CreatedAt = s.now()
	s.assignments[sa.ID] = *sa
	s.bySeat[seatKey{sa.BusConfigID, sa.SeatNumber}] = sa.ID
	s.byPerson[participantKey{sa.BusConfigID, sa.ParticipantID}] = sa.ID
	return nil
}

func (s *Store) removeLocked(id uint64, sa model.SeatAssignment) {
	delete(s.assignments, id)
	delete(s.bySeat, seatKey{sa.BusConfigID, sa.SeatNumber})
	delete(s.byPerson, participantKey{sa.BusConfigID, sa.ParticipantID})
}

func (a *AssignmentStore) GetByID(ctx context.Context, id uint64) (*model.SeatAssignment, error) {
	s := a.s
	s.mu.Lock()
	defer s.mu.Unlock()
	sa, ok := s.assignments[id]
	if !ok {
		return nil, repository.ErrAssignmentNotFound
	}
	return &sa, nil
}

func (a *AssignmentStore) GetByParticipant(ctx context.Context, configID, participantID uint64) (*model.SeatAssignment, error) {
	s := a.s
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byPerson[participantKey{configID, participantID}]
	if !ok {
		return nil, repository.ErrAssignmentNotFound
	}
	sa := s.assignments[id]
	return &sa, nil
}

func (a *AssignmentStore) ListByConfig(ctx context.Context, configID uint64) ([]model.SeatAssignment, error) {
	s := a.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.SeatAssignment
	for _, sa := range s.assignments {
		if sa.BusConfigID == configID {
			out = append(out, sa)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SeatNumber < out[j].SeatNumber })
	return out, nil
}

func (a *AssignmentStore) Delete(ctx context.Context, id uint64) error {
	s := a.s
	s.mu.Lock()
	defer s.mu.Unlock()
	sa, ok := s.assignments[id]
	if !ok {
		return repository.ErrAssignmentNotFound
	}
	s.removeLocked(id, sa)
	return nil
}
