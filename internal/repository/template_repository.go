package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/bus-seating/internal/model"
)

// TemplateRepo persists layout templates. Rows are never updated.
type TemplateRepo struct {
	db *sql.DB
}

// NewTemplateRepo constructs a TemplateRepo with the given DB handle.
func NewTemplateRepo(db *sql.DB) *TemplateRepo { return &TemplateRepo{db: db} }

const templateSelect = `SELECT id, name, is_custom, ` + layoutCols + `, created_at FROM layout_templates`

func scanTemplate(sc interface{ Scan(...any) error }) (*model.LayoutTemplate, error) {
	var (
		t   model.LayoutTemplate
		row layoutRow
	)
	dest := append([]any{&t.ID, &t.Name, &t.IsCustom}, row.dest()...)
	dest = append(dest, &t.CreatedAt)
	if err := sc.Scan(dest...); err != nil {
		return nil, err
	}
	t.Params = row.params()
	t.Amenities = row.Amenities
	t.TotalSeats = row.TotalSeats
	return &t, nil
}

// List returns every template ordered by ID.
func (r *TemplateRepo) List(ctx context.Context) ([]model.LayoutTemplate, error) {
	rows, err := r.db.QueryContext(ctx, templateSelect+` ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.LayoutTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts t and fills in its ID and CreatedAt.
func (r *TemplateRepo) Create(ctx context.Context, t *model.LayoutTemplate) error {
	const q = `INSERT INTO layout_templates (name, is_custom, ` + layoutCols + `)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	args := append([]any{t.Name, t.IsCustom}, layoutArgs(t.Params, t.Amenities, t.TotalSeats)...)
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return r.db.QueryRowContext(ctx, `SELECT created_at FROM layout_templates WHERE id = ?`, t.ID).Scan(&t.CreatedAt)
}

// GetByID returns ErrTemplateNotFound when no row matches.
func (r *TemplateRepo) GetByID(ctx context.Context, id uint64) (*model.LayoutTemplate, error) {
	t, err := scanTemplate(r.db.QueryRowContext(ctx, templateSelect+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTemplateNotFound
	}
	return t, err
}

// Delete removes a template. Configurations keep their own copy of the
// parameters and are unaffected.
func (r *TemplateRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM layout_templates WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTemplateNotFound
	}
	return nil
}
