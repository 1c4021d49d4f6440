package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/grillwire/cookoff/internal/model"
)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

const eventColumns = `id, name, event_date, location, status, scale_min, scale_max, scale_step,
	aggregation_method, created_at, updated_at, deleted_at`

func scanEvent(sc rowScanner) (*model.Event, error) {
	var (
		e                        model.Event
		scaleMin, scaleMax, step string
		createdAt, updatedAt     string
		deletedAt                sql.NullString
	)
	if err := sc.Scan(&e.ID, &e.Name, &e.Date, &e.Location, &e.Status,
		&scaleMin, &scaleMax, &step, &e.AggregationMethod,
		&createdAt, &updatedAt, &deletedAt); err != nil {
		return nil, err
	}

	var err error
	if e.ScaleMin, err = decimal.NewFromString(scaleMin); err != nil {
		return nil, fmt.Errorf("parse scale_min %q: %w", scaleMin, err)
	}
	if e.ScaleMax, err = decimal.NewFromString(scaleMax); err != nil {
		return nil, fmt.Errorf("parse scale_max %q: %w", scaleMax, err)
	}
	if e.ScaleStep, err = decimal.NewFromString(step); err != nil {
		return nil, fmt.Errorf("parse scale_step %q: %w", step, err)
	}
	if e.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if e.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if e.DeletedAt, err = parseNullTime(deletedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

// CreateEvent inserts a new event.
func (s *Store) CreateEvent(ctx context.Context, e model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (id, name, event_date, location, status, scale_min, scale_max, scale_step,
		                    aggregation_method, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.Name, e.Date, e.Location, string(e.Status),
		e.ScaleMin.String(), e.ScaleMax.String(), e.ScaleStep.String(),
		string(e.AggregationMethod), fmtTime(e.CreatedAt), fmtTime(e.UpdatedAt))
	return translateErr(err)
}

// GetEvent returns an event by ID, or ErrNotFound.
func (s *Store) GetEvent(ctx context.Context, id string, includeDeleted bool) (*model.Event, error) {
	q := "SELECT " + eventColumns + " FROM events WHERE id = ?"
	if !includeDeleted {
		q += " AND deleted_at IS NULL"
	}
	e, err := scanEvent(s.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ListEvents returns all events ordered by creation time.
func (s *Store) ListEvents(ctx context.Context, includeDeleted bool) ([]model.Event, error) {
	q := "SELECT " + eventColumns + " FROM events"
	if !includeDeleted {
		q += " WHERE deleted_at IS NULL"
	}
	q += " ORDER BY created_at, id"

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *e)
	}
	return result, rows.Err()
}

// UpdateEvent rewrites the mutable fields of a non-deleted event.
func (s *Store) UpdateEvent(ctx context.Context, e model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE events
		SET name = ?, event_date = ?, location = ?, status = ?, scale_min = ?, scale_max = ?,
		    scale_step = ?, aggregation_method = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`, e.Name, e.Date, e.Location, string(e.Status),
		e.ScaleMin.String(), e.ScaleMax.String(), e.ScaleStep.String(),
		string(e.AggregationMethod), fmtTime(e.UpdatedAt), e.ID)
	if err != nil {
		return translateErr(err)
	}
	return requireRowAffected(res)
}

// SoftDeleteEvent marks an event deleted. Children are left untouched.
func (s *Store) SoftDeleteEvent(ctx context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE events SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL
	`, fmtTime(at), fmtTime(at), id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

// requireRowAffected converts a zero-row update into ErrNotFound.
func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
