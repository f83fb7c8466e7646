package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/iliyamo/bus-seating/internal/layout"
	"github.com/iliyamo/bus-seating/internal/model"
	"github.com/iliyamo/bus-seating/internal/repository"
	"github.com/iliyamo/bus-seating/internal/service/ports"
	"github.com/iliyamo/bus-seating/internal/utils"
)

// ClaimView is what a passenger sees when opening their link.
type ClaimView struct {
	TripID        uint64       `json:"trip_id"`
	ParticipantID uint64       `json:"participant_id"`
	ExpiresAt     time.Time    `json:"expires_at"`
	Map           *layout.Map  `json:"map"`
	Rows          []layout.Row `json:"rows"`
	Available     []int        `json:"available"`
	CurrentSeat   *int         `json:"current_seat,omitempty"`
}

// ClaimResult is the outcome of a successful claim. AlreadySeated is set
// when no new assignment was made because the passenger already had one.
type ClaimResult struct {
	AssignmentID  uint64 `json:"assignment_id"`
	SeatNumber    int    `json:"seat_number"`
	AlreadySeated bool   `json:"already_seated"`
}

// ClaimOption configures a ClaimService.
type ClaimOption func(*ClaimService)

// WithClock replaces the wall clock used for expiry checks.
func WithClock(now func() time.Time) ClaimOption {
	return func(s *ClaimService) { s.now = now }
}

// ClaimService lets passengers pick their own seat through a single-use,
// time-limited link. It writes to the same ledger as staff and has no
// priority over them.
type ClaimService struct {
	tokens      ports.ClaimTokenStore
	configs     ports.BusConfigStore
	assignments ports.AssignmentStore
	notifier    ports.SeatNotifier
	log         *log.Logger
	now         func() time.Time
}

func NewClaimService(
	tokens ports.ClaimTokenStore,
	configs ports.BusConfigStore,
	assignments ports.AssignmentStore,
	notifier ports.SeatNotifier,
	logger *log.Logger,
	opts ...ClaimOption,
) *ClaimService {
	s := &ClaimService{
		tokens:      tokens,
		configs:     configs,
		assignments: assignments,
		notifier:    notifierOrNoop(notifier),
		log:         loggerOrDefault(logger),
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open checks the link and returns the bus with its free seats. A link
// that was already used still opens as long as it has not expired and the
// passenger still holds the seat it produced.
func (s *ClaimService) Open(ctx context.Context, rawToken string) (*ClaimView, error) {
	tok, err := s.lookup(ctx, rawToken)
	if err != nil {
		return nil, err
	}
	cfg, err := s.configs.GetByTrip(ctx, tok.TripID)
	if err != nil {
		return nil, fmt.Errorf("get bus config for trip %d: %w", tok.TripID, err)
	}
	current, err := s.currentSeat(ctx, cfg.ID, tok.ParticipantID)
	if err != nil {
		return nil, err
	}
	if current == nil && tok.UsedAt != nil {
		return nil, tokenInvalid("link already used")
	}
	m, err := generate(cfg)
	if err != nil {
		return nil, err
	}
	list, err := s.assignments.ListByConfig(ctx, cfg.ID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}

	view := &ClaimView{
		TripID:        tok.TripID,
		ParticipantID: tok.ParticipantID,
		ExpiresAt:     tok.ExpiresAt,
		Map:           m,
		Rows:          m.Rows(),
		Available:     availableSeats(cfg.TotalSeats, list),
	}
	if current != nil {
		n := current.SeatNumber
		view.CurrentSeat = &n
	}
	return view, nil
}

// Claim takes seat for the link's passenger.
//
// The steps are ordered so that every retry is safe: a passenger who
// already sits somewhere gets that seat back, a lost race leaves the token
// usable, and a self-service seat removed by staff is not re-claimable
// with the same link. A seat staff assigned never consumes the link.
func (s *ClaimService) Claim(ctx context.Context, rawToken string, seat int) (*ClaimResult, error) {
	tok, err := s.lookup(ctx, rawToken)
	if err != nil {
		return nil, err
	}
	cfg, err := s.configs.GetByTrip(ctx, tok.TripID)
	if err != nil {
		return nil, fmt.Errorf("get bus config for trip %d: %w", tok.TripID, err)
	}

	current, err := s.currentSeat(ctx, cfg.ID, tok.ParticipantID)
	if err != nil {
		return nil, err
	}
	if current != nil {
		if tok.UsedAt == nil && current.Source == model.SourceSelfService {
			// the link's assignment landed but the token update did not
			s.consume(ctx, tok)
		}
		return &ClaimResult{AssignmentID: current.ID, SeatNumber: current.SeatNumber, AlreadySeated: true}, nil
	}
	if tok.UsedAt != nil {
		return nil, tokenInvalid("link already used")
	}

	if err := layout.CheckSeatNumber(seat, cfg.TotalSeats); err != nil {
		return nil, err
	}

	a := &model.SeatAssignment{
		BusConfigID:   cfg.ID,
		ParticipantID: tok.ParticipantID,
		SeatNumber:    seat,
		Source:        model.SourceSelfService,
	}
	err = s.commit(ctx, a, tok)
	if errors.Is(err, repository.ErrTokenExpired) {
		return nil, tokenInvalid("link expired")
	}
	if err != nil {
		if !errorIsAny(err, repository.ErrSeatTaken, repository.ErrParticipantSeated, repository.ErrTokenUsed) {
			return nil, fmt.Errorf("claim seat %d: %w", seat, err)
		}
		// The same link may have won in a concurrent request.
		if won, rerr := s.currentSeat(ctx, cfg.ID, tok.ParticipantID); rerr == nil && won != nil {
			return &ClaimResult{AssignmentID: won.ID, SeatNumber: won.SeatNumber, AlreadySeated: true}, nil
		}
		switch {
		case errors.Is(err, repository.ErrTokenUsed):
			return nil, tokenInvalid("link already used")
		case errors.Is(err, repository.ErrParticipantSeated):
			return nil, fmt.Errorf("claim seat %d: %w", seat, err)
		}
		list, lerr := s.assignments.ListByConfig(ctx, cfg.ID)
		if lerr != nil {
			return nil, fmt.Errorf("list assignments: %w", lerr)
		}
		return nil, &SeatTakenError{Seat: seat, Available: availableSeats(cfg.TotalSeats, list)}
	}

	s.log.Infoj(log.JSON{
		"event":          "seat_claimed",
		"bus_config_id":  cfg.ID,
		"participant_id": tok.ParticipantID,
		"seat_number":    seat,
	})
	s.notifier.SeatClaimed(ctx, cfg, a)
	return &ClaimResult{AssignmentID: a.ID, SeatNumber: a.SeatNumber}, nil
}

// lookup resolves a raw token to an unexpired token record.
func (s *ClaimService) lookup(ctx context.Context, rawToken string) (*model.ClaimToken, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return nil, tokenInvalid("empty link")
	}
	tok, err := s.tokens.GetByHash(ctx, utils.HashToken(rawToken))
	if errors.Is(err, repository.ErrTokenNotFound) {
		return nil, tokenInvalid("unknown link")
	}
	if err != nil {
		return nil, fmt.Errorf("get claim token: %w", err)
	}
	if tok.Expired(s.now()) {
		return nil, tokenInvalid("link expired")
	}
	return tok, nil
}

func (s *ClaimService) currentSeat(ctx context.Context, configID, participantID uint64) (*model.SeatAssignment, error) {
	a, err := s.assignments.GetByParticipant(ctx, configID, participantID)
	if errors.Is(err, repository.ErrAssignmentNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get participant seat: %w", err)
	}
	return a, nil
}

// commit writes the assignment and consumes the token, atomically when the
// store supports it.
func (s *ClaimService) commit(ctx context.Context, a *model.SeatAssignment, tok *model.ClaimToken) error {
	if cc, ok := s.tokens.(ports.ClaimCommitter); ok {
		return cc.CommitClaim(ctx, a, tok.ID, s.now())
	}
	if err := s.assignments.Insert(ctx, a); err != nil {
		return err
	}
	// The insert decided the claim unless the link ran out in between.
	// ErrTokenUsed here means a concurrent request with the same link
	// already repaired the token for our seat; any other failure is
	// repaired by the next request with the link.
	err := s.tokens.MarkUsed(ctx, tok.ID, s.now())
	switch {
	case errors.Is(err, repository.ErrTokenExpired):
		if derr := s.assignments.Delete(ctx, a.ID); derr != nil {
			s.log.Warnf("claim: undo seat %d after expiry: %v", a.SeatNumber, derr)
		}
		return err
	case err != nil && !errors.Is(err, repository.ErrTokenUsed):
		s.log.Warnf("claim: mark token %d used: %v", tok.ID, err)
	}
	return nil
}

func (s *ClaimService) consume(ctx context.Context, tok *model.ClaimToken) {
	err := s.tokens.MarkUsed(ctx, tok.ID, s.now())
	if err != nil && !errors.Is(err, repository.ErrTokenUsed) {
		s.log.Warnf("claim: repair token %d: %v", tok.ID, err)
		return
	}
	if err == nil {
		s.log.Infoj(log.JSON{"event": "claim_token_repaired", "token_id": tok.ID, "participant_id": tok.ParticipantID})
	}
}
