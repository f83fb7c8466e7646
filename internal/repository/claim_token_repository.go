package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/bus-seating/internal/model"
)

// ClaimTokenRepo reads and consumes self-service claim tokens. Only the
// hash of a token is ever stored.
type ClaimTokenRepo struct {
	db *sql.DB
}

func NewClaimTokenRepo(db *sql.DB) *ClaimTokenRepo { return &ClaimTokenRepo{db: db} }

// GetByHash returns ErrTokenNotFound for an unknown hash.
func (r *ClaimTokenRepo) GetByHash(ctx context.Context, hash string) (*model.ClaimToken, error) {
	var (
		t      model.ClaimToken
		usedAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, token_hash, participant_id, trip_id, expires_at, used_at, created_at
		 FROM seat_claim_tokens WHERE token_hash = ? LIMIT 1`, hash).
		Scan(&t.ID, &t.TokenHash, &t.ParticipantID, &t.TripID, &t.ExpiresAt, &usedAt, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}
	if usedAt.Valid {
		ts := usedAt.Time
		t.UsedAt = &ts
	}
	return &t, nil
}

// MarkUsed consumes the token. The update is conditional on used_at being
// NULL and the token being unexpired at at, so of two racing callers
// exactly one succeeds and the other gets ErrTokenUsed; a token past its
// expiry gets ErrTokenExpired.
func (r *ClaimTokenRepo) MarkUsed(ctx context.Context, id uint64, at time.Time) error {
	return markTokenUsed(ctx, r.db, id, at)
}

func markTokenUsed(ctx context.Context, ex execer, id uint64, at time.Time) error {
	res, err := ex.ExecContext(ctx,
		`UPDATE seat_claim_tokens SET used_at = ? WHERE id = ? AND used_at IS NULL AND expires_at > ?`,
		at.UTC(), id, at.UTC())
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var usedAt sql.NullTime
		if err := ex.QueryRowContext(ctx, `SELECT used_at FROM seat_claim_tokens WHERE id = ?`, id).Scan(&usedAt); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrTokenNotFound
			}
			return err
		}
		if usedAt.Valid {
			return ErrTokenUsed
		}
		return ErrTokenExpired
	}
	return nil
}

// CommitClaim inserts a self-service assignment and consumes its token in
// one transaction. Either both happen or neither does.
func (r *ClaimTokenRepo) CommitClaim(ctx context.Context, a *model.SeatAssignment, tokenID uint64, at time.Time) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	if err = insertAssignment(ctx, tx, a); err != nil {
		return err
	}
	return markTokenUsed(ctx, tx, tokenID, at)
}
