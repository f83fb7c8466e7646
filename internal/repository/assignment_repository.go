package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/bus-seating/internal/model"
)

// AssignmentRepo is the MySQL seat ledger. The two unique keys on
// seat_assignments decide every race between writers.
type AssignmentRepo struct {
	db *sql.DB
}

// NewAssignmentRepo constructs an AssignmentRepo with the given DB handle.
func NewAssignmentRepo(db *sql.DB) *AssignmentRepo { return &AssignmentRepo{db: db} }

const assignmentSelect = `SELECT id, bus_config_id, participant_id, seat_number, source, created_at FROM seat_assignments`

func scanAssignment(sc interface{ Scan(...any) error }) (*model.SeatAssignment, error) {
	var a model.SeatAssignment
	if err := sc.Scan(&a.ID, &a.BusConfigID, &a.ParticipantID, &a.SeatNumber, &a.Source, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// insertAssignment runs the insert on db or tx and maps duplicate keys to
// ErrSeatTaken / ErrParticipantSeated, and a vanished configuration to
// ErrConfigNotFound.
func insertAssignment(ctx context.Context, ex execer, a *model.SeatAssignment) error {
	res, err := ex.ExecContext(ctx,
		`INSERT INTO seat_assignments (bus_config_id, participant_id, seat_number, source) VALUES (?, ?, ?, ?)`,
		a.BusConfigID, a.ParticipantID, a.SeatNumber, string(a.Source))
	if err != nil {
		return classifyForeignKey(classifyDuplicate(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return ex.QueryRowContext(ctx, `SELECT created_at FROM seat_assignments WHERE id = ?`, a.ID).Scan(&a.CreatedAt)
}

// Insert adds a to the ledger.
func (r *AssignmentRepo) Insert(ctx context.Context, a *model.SeatAssignment) error {
	return insertAssignment(ctx, r.db, a)
}

// GetByID returns ErrAssignmentNotFound when no row matches.
func (r *AssignmentRepo) GetByID(ctx context.Context, id uint64) (*model.SeatAssignment, error) {
	a, err := scanAssignment(r.db.QueryRowContext(ctx, assignmentSelect+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAssignmentNotFound
	}
	return a, err
}

// GetByParticipant returns the participant's seat in the configuration or
// ErrAssignmentNotFound.
func (r *AssignmentRepo) GetByParticipant(ctx context.Context, configID, participantID uint64) (*model.SeatAssignment, error) {
	a, err := scanAssignment(r.db.QueryRowContext(ctx,
		assignmentSelect+` WHERE bus_config_id = ? AND participant_id = ?`, configID, participantID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAssignmentNotFound
	}
	return a, err
}

// ListByConfig returns the configuration's assignments ordered by seat.
func (r *AssignmentRepo) ListByConfig(ctx context.Context, configID uint64) ([]model.SeatAssignment, error) {
	rows, err := r.db.QueryContext(ctx, assignmentSelect+` WHERE bus_config_id = ? ORDER BY seat_number`, configID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.SeatAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete frees the seat held by the assignment.
func (r *AssignmentRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM seat_assignments WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAssignmentNotFound
	}
	return nil
}
