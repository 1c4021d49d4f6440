package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/grillwire/cookoff/internal/model"
)

const scoreColumns = `id, submission_id, seat_id, criterion_id, score_value, comment, phase,
	submitted_at, created_at, updated_at`

func scanScore(sc rowScanner) (*model.Score, error) {
	var (
		score                             model.Score
		value                             string
		submittedAt, createdAt, updatedAt string
	)
	if err := sc.Scan(&score.ID, &score.SubmissionID, &score.SeatID, &score.CriterionID,
		&value, &score.Comment, &score.Phase, &submittedAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if score.Value, err = decimal.NewFromString(value); err != nil {
		return nil, fmt.Errorf("parse score_value %q: %w", value, err)
	}
	if score.SubmittedAt, err = parseTime(submittedAt); err != nil {
		return nil, err
	}
	if score.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if score.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &score, nil
}

// CreateScore inserts a new score. A concurrent duplicate for the same
// (submission, seat, criterion) loses on the unique index and surfaces as
// ErrConflict.
func (s *Store) CreateScore(ctx context.Context, score model.Score) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scores (id, submission_id, seat_id, criterion_id, score_value, comment, phase,
		                    submitted_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, score.ID, score.SubmissionID, score.SeatID, score.CriterionID,
		score.Value.String(), score.Comment, string(score.Phase),
		fmtTime(score.SubmittedAt), fmtTime(score.CreatedAt), fmtTime(score.UpdatedAt))
	return translateErr(err)
}

// GetScore returns a score by ID, or ErrNotFound.
func (s *Store) GetScore(ctx context.Context, id string) (*model.Score, error) {
	q := "SELECT " + scoreColumns + " FROM scores WHERE id = ?"
	score, err := scanScore(s.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return score, nil
}

// ListScoresBySubmission returns all scores for a submission.
func (s *Store) ListScoresBySubmission(ctx context.Context, submissionID string) ([]model.Score, error) {
	q := "SELECT " + scoreColumns + " FROM scores WHERE submission_id = ? ORDER BY created_at, id"
	return s.queryScores(ctx, q, submissionID)
}

// ListScoresBySeatCategoryPhase returns the scores a seat has recorded for a
// category in one judging phase. The judging service walks these to find the
// seat's next unscored submission.
func (s *Store) ListScoresBySeatCategoryPhase(ctx context.Context, seatID, categoryID string, phase model.ScorePhase) ([]model.Score, error) {
	q := "SELECT " + scoreColumnsPrefixed("sc") + `
		FROM scores sc
		JOIN submissions sub ON sub.id = sc.submission_id
		WHERE sc.seat_id = ? AND sub.category_id = ? AND sc.phase = ?
		ORDER BY sc.created_at, sc.id`
	return s.queryScores(ctx, q, seatID, categoryID, string(phase))
}

func scoreColumnsPrefixed(alias string) string {
	return alias + ".id, " + alias + ".submission_id, " + alias + ".seat_id, " +
		alias + ".criterion_id, " + alias + ".score_value, " + alias + ".comment, " +
		alias + ".phase, " + alias + ".submitted_at, " + alias + ".created_at, " +
		alias + ".updated_at"
}

func (s *Store) queryScores(ctx context.Context, q string, args ...any) ([]model.Score, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Score
	for rows.Next() {
		score, err := scanScore(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *score)
	}
	return result, rows.Err()
}

// UpdateScore rewrites a score's value and comment.
func (s *Store) UpdateScore(ctx context.Context, score model.Score) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE scores SET score_value = ?, comment = ?, updated_at = ? WHERE id = ?
	`, score.Value.String(), score.Comment, fmtTime(score.UpdatedAt), score.ID)
	if err != nil {
		return translateErr(err)
	}
	return requireRowAffected(res)
}

// DeleteScore removes a score row. Scores are the one entity with hard
// deletes; the audit log keeps the removed values.
func (s *Store) DeleteScore(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM scores WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}
