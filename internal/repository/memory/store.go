// Package memory is an in-process implementation of the seating stores.
// One mutex guards all state, so every check-and-insert is atomic and the
// same conflict rules as the MySQL unique keys apply.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/bus-seating/internal/model"
	"github.com/iliyamo/bus-seating/internal/repository"
	"github.com/iliyamo/bus-seating/internal/utils"
)

type seatKey struct {
	configID uint64
	seat     int
}

type participantKey struct {
	configID      uint64
	participantID uint64
}

// Store is the template store, claim token store (with ClaimCommitter) and
// participant directory. Configs and Assignments return views for the
// remaining ports.
type Store struct {
	mu  sync.Mutex
	now func() time.Time

	nextID uint64

	templates    map[uint64]model.LayoutTemplate
	configs      map[uint64]model.BusConfig
	configByTrip map[uint64]uint64
	assignments  map[uint64]model.SeatAssignment
	bySeat       map[seatKey]uint64
	byPerson     map[participantKey]uint64
	tokens       map[uint64]model.ClaimToken
	tokenByHash  map[string]uint64
	participants map[uint64]model.Participant
}

// New returns an empty store.
func New() *Store {
	return &Store{
		now:          func() time.Time { return time.Now().UTC() },
		templates:    make(map[uint64]model.LayoutTemplate),
		configs:      make(map[uint64]model.BusConfig),
		configByTrip: make(map[uint64]uint64),
		assignments:  make(map[uint64]model.SeatAssignment),
		bySeat:       make(map[seatKey]uint64),
		byPerson:     make(map[participantKey]uint64),
		tokens:       make(map[uint64]model.ClaimToken),
		tokenByHash:  make(map[string]uint64),
		participants: make(map[uint64]model.Participant),
	}
}

func (s *Store) id() uint64 {
	s.nextID++
	return s.nextID
}

// Templates

func (s *Store) List(ctx context.Context) ([]model.LayoutTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.LayoutTemplate, 0, len(s.templates))
	for _, t := range s.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) Create(ctx context.Context, t *model.LayoutTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.id()
	t.CreatedAt = s.now()
	s.templates[t.ID] = *t
	return nil
}

func (s *Store) GetByID(ctx context.Context, id uint64) (*model.LayoutTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.templates[id]
	if !ok {
		return nil, repository.ErrTemplateNotFound
	}
	return &t, nil
}

func (s *Store) Delete(ctx context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.templates[id]; !ok {
		return repository.ErrTemplateNotFound
	}
	delete(s.templates, id)
	return nil
}

// Participants

// AddParticipant registers a display name in the roster.
func (s *Store) AddParticipant(id uint64, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.participants[id] = model.Participant{ID: id, DisplayName: name}
}

func (s *Store) DisplayNames(ctx context.Context, ids []uint64) (map[uint64]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[uint64]string, len(ids))
	for _, id := range ids {
		if p, ok := s.participants[id]; ok {
			out[id] = p.DisplayName
		}
	}
	return out, nil
}

// Claim tokens

// IssueToken stores a fresh claim token for the participant and returns
// the raw value to put in the link. Token issuance belongs to the
// surrounding application; this exists for local seeding and tests.
func (s *Store) IssueToken(participantID, tripID uint64, expiresAt time.Time) (string, error) {
	raw, err := utils.RandomToken()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t := model.ClaimToken{
		ID:            s.id(),
		TokenHash:     utils.HashToken(raw),
		ParticipantID: participantID,
		TripID:        tripID,
		ExpiresAt:     expiresAt,
		CreatedAt:     s.now(),
	}
	s.tokens[t.ID] = t
	s.tokenByHash[t.TokenHash] = t.ID
	return raw, nil
}

func (s *Store) GetByHash(ctx context.Context, hash string) (*model.ClaimToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.tokenByHash[hash]
	if !ok {
		return nil, repository.ErrTokenNotFound
	}
	t := s.tokens[id]
	return &t, nil
}

func (s *Store) MarkUsed(ctx context.Context, id uint64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.markUsedLocked(id, at)
}

func (s *Store) markUsedLocked(id uint64, at time.Time) error {
	t, ok := s.tokens[id]
	if !ok {
		return repository.ErrTokenNotFound
	}
	if t.UsedAt != nil {
		return repository.ErrTokenUsed
	}
	if t.Expired(at) {
		return repository.ErrTokenExpired
	}
	at = at.UTC()
	t.UsedAt = &at
	s.tokens[id] = t
	return nil
}

// CommitClaim inserts the assignment and consumes the token under one
// lock hold.
func (s *Store) CommitClaim(ctx context.Context, a *model.SeatAssignment, tokenID uint64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[tokenID]
	if !ok {
		return repository.ErrTokenNotFound
	}
	// same outcome order as the MySQL transaction: insert, then token
	if err := s.checkLocked(a); err != nil {
		return err
	}
	if t.UsedAt != nil {
		return repository.ErrTokenUsed
	}
	if t.Expired(at) {
		return repository.ErrTokenExpired
	}
	if err := s.insertLocked(a); err != nil {
		return err
	}
	return s.markUsedLocked(tokenID, at)
}
