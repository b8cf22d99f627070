package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jask/widgetd/internal/database"
	"github.com/jask/widgetd/internal/widget"
)

// WidgetRepo handles widgets.
type WidgetRepo struct {
	db *sql.DB
}

func NewWidgetRepo(db *sql.DB) *WidgetRepo { return &WidgetRepo{db: db} }

const widgetColumns = `id, x, y, z, width, height, last_modified`

// Get returns the widget with id. The boolean reports whether it exists.
func (r *WidgetRepo) Get(ctx context.Context, id string) (widget.Widget, bool, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+widgetColumns+` FROM widgets WHERE id = ?`, id)
	w, err := scanWidget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return widget.Widget{}, false, nil
	}
	if err != nil {
		return widget.Widget{}, false, err
	}
	return w, true, nil
}

// Put upserts all widgets in a single transaction.
func (r *WidgetRepo) Put(ctx context.Context, widgets ...widget.Widget) error {
	if len(widgets) == 0 {
		return nil
	}
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO widgets(`+widgetColumns+`)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 x=excluded.x,
	 y=excluded.y,
	 z=excluded.z,
	 width=excluded.width,
	 height=excluded.height,
	 last_modified=excluded.last_modified;
	`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, w := range widgets {
			if _, err := stmt.ExecContext(ctx, w.ID, w.X, w.Y, w.Z, w.Width, w.Height, w.LastModified.UTC()); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes the widget with id. Unknown ids are ignored.
func (r *WidgetRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM widgets WHERE id = ?`, id)
	return err
}

// All returns every widget ordered by z.
func (r *WidgetRepo) All(ctx context.Context) ([]widget.Widget, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+widgetColumns+` FROM widgets ORDER BY z`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []widget.Widget
	for rows.Next() {
		w, err := scanWidget(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// Count returns the number of stored widgets.
func (r *WidgetRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM widgets`).Scan(&n)
	return n, err
}

// Reset wipes all widgets. The schema stays intact.
func (r *WidgetRepo) Reset(ctx context.Context) error {
	if err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM widgets`)
		return err
	}); err != nil {
		return fmt.Errorf("reset widgets: %w", err)
	}
	_, _ = r.db.ExecContext(ctx, "VACUUM")
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanWidget(s scanner) (widget.Widget, error) {
	var w widget.Widget
	if err := s.Scan(&w.ID, &w.X, &w.Y, &w.Z, &w.Width, &w.Height, &w.LastModified); err != nil {
		return widget.Widget{}, err
	}
	w.LastModified = w.LastModified.UTC()
	return w, nil
}
