package model

import "time"

// TokenState is derived, never stored: EXPIRED follows from the clock and
// CONSUMED from UsedAt.
type TokenState string

const (
	TokenIssued   TokenState = "ISSUED"
	TokenConsumed TokenState = "CONSUMED"
	TokenExpired  TokenState = "EXPIRED"
)

// ClaimToken lets one participant pick their own seat on one trip. Only the
// SHA-256 hash of the raw link token is stored. A token moves to CONSUMED
// exactly once, when its assignment is created, and never goes back.
//
// Fields:
//  ID            – primary key identifier.
//  TokenHash     – SHA-256 hex digest of the raw token.
//  ParticipantID – passenger the link was issued to.
//  TripID        – trip whose bus the passenger may pick from.
//  ExpiresAt     – hard expiry; there is no renewal.
//  UsedAt        – when the token produced an assignment (nil until then).
//  CreatedAt     – issue timestamp.
type ClaimToken struct {
	ID            uint64
	TokenHash     string
	ParticipantID uint64
	TripID        uint64
	ExpiresAt     time.Time
	UsedAt        *time.Time
	CreatedAt     time.Time
}

// State reports the token state at now. A consumed token stays CONSUMED
// after its expiry passes.
func (t *ClaimToken) State(now time.Time) TokenState {
	if t.UsedAt != nil {
		return TokenConsumed
	}
	if !now.Before(t.ExpiresAt) {
		return TokenExpired
	}
	return TokenIssued
}

// Expired reports whether now is at or past ExpiresAt.
func (t *ClaimToken) Expired(now time.Time) bool { return !now.Before(t.ExpiresAt) }
