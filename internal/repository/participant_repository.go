package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/bus-seating/internal/model"
)

// ParticipantRepo reads display names from the passenger roster owned by
// the surrounding application.
type ParticipantRepo struct {
	db *sql.DB
}

func NewParticipantRepo(db *sql.DB) *ParticipantRepo { return &ParticipantRepo{db: db} }

// DisplayNames returns the names of the given participants. IDs without a
// roster row are left out.
func (r *ParticipantRepo) DisplayNames(ctx context.Context, ids []uint64) (map[uint64]string, error) {
	out := make(map[uint64]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, full_name FROM participants WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var p model.Participant
		if err := rows.Scan(&p.ID, &p.DisplayName); err != nil {
			return nil, err
		}
		out[p.ID] = p.DisplayName
	}
	return out, rows.Err()
}
