package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/grillwire/cookoff/internal/model"
)

const submissionColumns = `id, team_id, category_id, status, turned_in_at,
	created_at, updated_at, deleted_at`

func scanSubmission(sc rowScanner) (*model.Submission, error) {
	var (
		sub                  model.Submission
		turnedInAt           sql.NullString
		createdAt, updatedAt string
		deletedAt            sql.NullString
	)
	if err := sc.Scan(&sub.ID, &sub.TeamID, &sub.CategoryID, &sub.Status,
		&turnedInAt, &createdAt, &updatedAt, &deletedAt); err != nil {
		return nil, err
	}

	var err error
	if sub.TurnedInAt, err = parseNullTime(turnedInAt); err != nil {
		return nil, err
	}
	if sub.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if sub.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if sub.DeletedAt, err = parseNullTime(deletedAt); err != nil {
		return nil, err
	}
	return &sub, nil
}

// CreateSubmission inserts a new submission.
func (s *Store) CreateSubmission(ctx context.Context, sub model.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO submissions (id, team_id, category_id, status, turned_in_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, sub.ID, sub.TeamID, sub.CategoryID, string(sub.Status), fmtNullTime(sub.TurnedInAt),
		fmtTime(sub.CreatedAt), fmtTime(sub.UpdatedAt))
	return translateErr(err)
}

// GetSubmission returns a submission by ID, or ErrNotFound.
func (s *Store) GetSubmission(ctx context.Context, id string, includeDeleted bool) (*model.Submission, error) {
	q := "SELECT " + submissionColumns + " FROM submissions WHERE id = ?"
	if !includeDeleted {
		q += " AND deleted_at IS NULL"
	}
	sub, err := scanSubmission(s.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// ListSubmissionsByCategory returns a category's submissions in creation
// order. Creation order is the judging service's canonical sequence input.
func (s *Store) ListSubmissionsByCategory(ctx context.Context, categoryID string, includeDeleted bool) ([]model.Submission, error) {
	q := "SELECT " + submissionColumns + " FROM submissions WHERE category_id = ?"
	if !includeDeleted {
		q += " AND deleted_at IS NULL"
	}
	q += " ORDER BY created_at, id"
	return s.querySubmissions(ctx, q, categoryID)
}

// ListSubmissionsByTeam returns a team's submissions in creation order.
func (s *Store) ListSubmissionsByTeam(ctx context.Context, teamID string, includeDeleted bool) ([]model.Submission, error) {
	q := "SELECT " + submissionColumns + " FROM submissions WHERE team_id = ?"
	if !includeDeleted {
		q += " AND deleted_at IS NULL"
	}
	q += " ORDER BY created_at, id"
	return s.querySubmissions(ctx, q, teamID)
}

func (s *Store) querySubmissions(ctx context.Context, q string, args ...any) ([]model.Submission, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *sub)
	}
	return result, rows.Err()
}

// UpdateSubmissionStatus rewrites a submission's status and turned_in_at.
func (s *Store) UpdateSubmissionStatus(ctx context.Context, id string, status model.SubmissionStatus, turnedInAt *time.Time, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE submissions SET status = ?, turned_in_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`, string(status), fmtNullTime(turnedInAt), fmtTime(at), id)
	if err != nil {
		return translateErr(err)
	}
	return requireRowAffected(res)
}

// SoftDeleteSubmission marks a submission deleted.
func (s *Store) SoftDeleteSubmission(ctx context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE submissions SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL
	`, fmtTime(at), fmtTime(at), id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}
