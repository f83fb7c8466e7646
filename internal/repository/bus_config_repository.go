package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/bus-seating/internal/model"
)

// BusConfigRepo persists the per-trip bus configurations.
type BusConfigRepo struct {
	db *sql.DB
}

// NewBusConfigRepo constructs a BusConfigRepo with the given DB handle.
func NewBusConfigRepo(db *sql.DB) *BusConfigRepo { return &BusConfigRepo{db: db} }

const busConfigSelect = `SELECT id, trip_id, template_id, ` + layoutCols + `, created_at FROM bus_configurations`

func scanBusConfig(sc interface{ Scan(...any) error }) (*model.BusConfig, error) {
	var (
		c          model.BusConfig
		row        layoutRow
		templateID sql.NullInt64
	)
	dest := append([]any{&c.ID, &c.TripID, &templateID}, row.dest()...)
	dest = append(dest, &c.CreatedAt)
	if err := sc.Scan(dest...); err != nil {
		return nil, err
	}
	if templateID.Valid {
		id := uint64(templateID.Int64)
		c.TemplateID = &id
	}
	c.Params = row.params()
	c.Amenities = row.Amenities
	c.TotalSeats = row.TotalSeats
	return &c, nil
}

// Create inserts c. A second configuration for the same trip violates
// uq_bus_config_trip and comes back as ErrConfigExists.
func (r *BusConfigRepo) Create(ctx context.Context, c *model.BusConfig) error {
	const q = `INSERT INTO bus_configurations (trip_id, template_id, ` + layoutCols + `)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var templateID any
	if c.TemplateID != nil {
		templateID = *c.TemplateID
	}
	args := append([]any{c.TripID, templateID}, layoutArgs(c.Params, c.Amenities, c.TotalSeats)...)
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return classifyDuplicate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return r.db.QueryRowContext(ctx, `SELECT created_at FROM bus_configurations WHERE id = ?`, c.ID).Scan(&c.CreatedAt)
}

// GetByID returns ErrConfigNotFound when no row matches.
func (r *BusConfigRepo) GetByID(ctx context.Context, id uint64) (*model.BusConfig, error) {
	c, err := scanBusConfig(r.db.QueryRowContext(ctx, busConfigSelect+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConfigNotFound
	}
	return c, err
}

// GetByTrip returns ErrConfigNotFound when the trip has no configuration.
func (r *BusConfigRepo) GetByTrip(ctx context.Context, tripID uint64) (*model.BusConfig, error) {
	c, err := scanBusConfig(r.db.QueryRowContext(ctx, busConfigSelect+` WHERE trip_id = ?`, tripID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConfigNotFound
	}
	return c, err
}

// DeleteCascade removes the assignments of a configuration and then the
// configuration itself within one transaction. The foreign key cascades
// as well; the explicit delete is there to count what was removed.
func (r *BusConfigRepo) DeleteCascade(ctx context.Context, id uint64) (removed int, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	var exists uint64
	if err = tx.QueryRowContext(ctx, `SELECT id FROM bus_configurations WHERE id = ? FOR UPDATE`, id).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrConfigNotFound
		}
		return 0, err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM seat_assignments WHERE bus_config_id = ?`, id)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM bus_configurations WHERE id = ?`, id); err != nil {
		return 0, err
	}
	return int(n), nil
}
