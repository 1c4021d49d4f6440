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

const categoryColumns = "id, event_id, name, sort_order, created_at, updated_at, deleted_at"

func scanCategory(sc rowScanner) (*model.Category, error) {
	var (
		c                    model.Category
		createdAt, updatedAt string
		deletedAt            sql.NullString
	)
	if err := sc.Scan(&c.ID, &c.EventID, &c.Name, &c.SortOrder,
		&createdAt, &updatedAt, &deletedAt); err != nil {
		return nil, err
	}

	var err error
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if c.DeletedAt, err = parseNullTime(deletedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCategory inserts a new category.
func (s *Store) CreateCategory(ctx context.Context, c model.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, event_id, name, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, c.ID, c.EventID, c.Name, c.SortOrder, fmtTime(c.CreatedAt), fmtTime(c.UpdatedAt))
	return translateErr(err)
}

// CreateCategories inserts a batch of categories in one transaction.
func (s *Store) CreateCategories(ctx context.Context, categories []model.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO categories (id, event_id, name, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range categories {
		if _, err := stmt.ExecContext(ctx, c.ID, c.EventID, c.Name, c.SortOrder,
			fmtTime(c.CreatedAt), fmtTime(c.UpdatedAt)); err != nil {
			return translateErr(err)
		}
	}
	return tx.Commit()
}

// GetCategory returns a category by ID, or ErrNotFound.
func (s *Store) GetCategory(ctx context.Context, id string, includeDeleted bool) (*model.Category, error) {
	q := "SELECT " + categoryColumns + " FROM categories WHERE id = ?"
	if !includeDeleted {
		q += " AND deleted_at IS NULL"
	}
	c, err := scanCategory(s.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListCategoriesByEvent returns an event's categories in sort order.
func (s *Store) ListCategoriesByEvent(ctx context.Context, eventID string, includeDeleted bool) ([]model.Category, error) {
	q := "SELECT " + categoryColumns + " FROM categories WHERE event_id = ?"
	if !includeDeleted {
		q += " AND deleted_at IS NULL"
	}
	q += " ORDER BY sort_order, name"

	rows, err := s.db.QueryContext(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	return result, rows.Err()
}

// UpdateCategory rewrites the mutable fields of a non-deleted category.
func (s *Store) UpdateCategory(ctx context.Context, c model.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE categories SET name = ?, sort_order = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`, c.Name, c.SortOrder, fmtTime(c.UpdatedAt), c.ID)
	if err != nil {
		return translateErr(err)
	}
	return requireRowAffected(res)
}

// SoftDeleteCategory marks a category deleted.
func (s *Store) SoftDeleteCategory(ctx context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE categories SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL
	`, fmtTime(at), fmtTime(at), id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

// --- criteria ---

const criterionColumns = "id, event_id, name, weight, sort_order, created_at, updated_at, deleted_at"

func scanCriterion(sc rowScanner) (*model.Criterion, error) {
	var (
		c                    model.Criterion
		weight               string
		createdAt, updatedAt string
		deletedAt            sql.NullString
	)
	if err := sc.Scan(&c.ID, &c.EventID, &c.Name, &weight, &c.SortOrder,
		&createdAt, &updatedAt, &deletedAt); err != nil {
		return nil, err
	}

	var err error
	if c.Weight, err = decimal.NewFromString(weight); err != nil {
		return nil, fmt.Errorf("parse weight %q: %w", weight, err)
	}
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if c.DeletedAt, err = parseNullTime(deletedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCriterion inserts a new criterion.
func (s *Store) CreateCriterion(ctx context.Context, c model.Criterion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO criteria (id, event_id, name, weight, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.EventID, c.Name, c.Weight.String(), c.SortOrder,
		fmtTime(c.CreatedAt), fmtTime(c.UpdatedAt))
	return translateErr(err)
}

// CreateCriteria inserts a batch of criteria in one transaction.
func (s *Store) CreateCriteria(ctx context.Context, criteria []model.Criterion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO criteria (id, event_id, name, weight, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range criteria {
		if _, err := stmt.ExecContext(ctx, c.ID, c.EventID, c.Name, c.Weight.String(), c.SortOrder,
			fmtTime(c.CreatedAt), fmtTime(c.UpdatedAt)); err != nil {
			return translateErr(err)
		}
	}
	return tx.Commit()
}

// GetCriterion returns a criterion by ID, or ErrNotFound.
func (s *Store) GetCriterion(ctx context.Context, id string, includeDeleted bool) (*model.Criterion, error) {
	q := "SELECT " + criterionColumns + " FROM criteria WHERE id = ?"
	if !includeDeleted {
		q += " AND deleted_at IS NULL"
	}
	c, err := scanCriterion(s.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListCriteriaByEvent returns an event's criteria in sort order.
func (s *Store) ListCriteriaByEvent(ctx context.Context, eventID string, includeDeleted bool) ([]model.Criterion, error) {
	q := "SELECT " + criterionColumns + " FROM criteria WHERE event_id = ?"
	if !includeDeleted {
		q += " AND deleted_at IS NULL"
	}
	q += " ORDER BY sort_order, name"

	rows, err := s.db.QueryContext(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Criterion
	for rows.Next() {
		c, err := scanCriterion(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	return result, rows.Err()
}

// UpdateCriterion rewrites the mutable fields of a non-deleted criterion.
func (s *Store) UpdateCriterion(ctx context.Context, c model.Criterion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE criteria SET name = ?, weight = ?, sort_order = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`, c.Name, c.Weight.String(), c.SortOrder, fmtTime(c.UpdatedAt), c.ID)
	if err != nil {
		return translateErr(err)
	}
	return requireRowAffected(res)
}

// SoftDeleteCriterion marks a criterion deleted.
func (s *Store) SoftDeleteCriterion(ctx context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE criteria SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL
	`, fmtTime(at), fmtTime(at), id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}
