// Package ports declares the storage and messaging boundaries the seating
// services depend on. internal/repository implements them on MySQL and
// internal/repository/memory implements them in process.
package ports

import (
	"context"
	"time"

	"github.com/iliyamo/bus-seating/internal/model"
)

// TemplateStore holds the append-only bus type presets.
type TemplateStore interface {
	List(ctx context.Context) ([]model.LayoutTemplate, error)
	Create(ctx context.Context, t *model.LayoutTemplate) error
	GetByID(ctx context.Context, id uint64) (*model.LayoutTemplate, error)
	Delete(ctx context.Context, id uint64) error
}

// BusConfigStore holds one configuration per trip. Create fails with
// repository.ErrConfigExists when the trip already has one. DeleteCascade
// removes the configuration and all of its assignments as one unit and
// returns how many assignments went with it.
type BusConfigStore interface {
	Create(ctx context.Context, c *model.BusConfig) error
	GetByID(ctx context.Context, id uint64) (*model.BusConfig, error)
	GetByTrip(ctx context.Context, tripID uint64) (*model.BusConfig, error)
	DeleteCascade(ctx context.Context, id uint64) (int, error)
}

// AssignmentStore is the seat ledger. Insert is the only arbiter between
// concurrent writers: it fails with repository.ErrSeatTaken when the seat
// is occupied and repository.ErrParticipantSeated when the participant
// already sits somewhere in the same configuration.
type AssignmentStore interface {
	Insert(ctx context.Context, a *model.SeatAssignment) error
	GetByID(ctx context.Context, id uint64) (*model.SeatAssignment, error)
	GetByParticipant(ctx context.Context, configID, participantID uint64) (*model.SeatAssignment, error)
	ListByConfig(ctx context.Context, configID uint64) ([]model.SeatAssignment, error)
	Delete(ctx context.Context, id uint64) error
}

// ClaimTokenStore reads tokens by hash and consumes them. MarkUsed fails
// with repository.ErrTokenUsed when the token was already consumed.
type ClaimTokenStore interface {
	GetByHash(ctx context.Context, hash string) (*model.ClaimToken, error)
	MarkUsed(ctx context.Context, id uint64, at time.Time) error
}

// ClaimCommitter is implemented by stores that can insert a self-service
// assignment and consume its token atomically. Stores without it get the
// assignment written first and the token marked second.
type ClaimCommitter interface {
	CommitClaim(ctx context.Context, a *model.SeatAssignment, tokenID uint64, at time.Time) error
}

// ParticipantDirectory resolves display names from the passenger roster.
// Unknown IDs are simply absent from the result.
type ParticipantDirectory interface {
	DisplayNames(ctx context.Context, ids []uint64) (map[uint64]string, error)
}
