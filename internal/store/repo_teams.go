package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/grillwire/cookoff/internal/model"
)

const teamColumns = `id, event_id, name, team_number, barcode_payload, code_invalidated_at,
	created_at, updated_at, deleted_at`

func scanTeam(sc rowScanner) (*model.Team, error) {
	var (
		t                    model.Team
		codeInvalidatedAt    sql.NullString
		createdAt, updatedAt string
		deletedAt            sql.NullString
	)
	if err := sc.Scan(&t.ID, &t.EventID, &t.Name, &t.TeamNumber, &t.BarcodePayload,
		&codeInvalidatedAt, &createdAt, &updatedAt, &deletedAt); err != nil {
		return nil, err
	}

	var err error
	if t.CodeInvalidatedAt, err = parseNullTime(codeInvalidatedAt); err != nil {
		return nil, err
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if t.DeletedAt, err = parseNullTime(deletedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTeam inserts a new team.
func (s *Store) CreateTeam(ctx context.Context, t model.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO teams (id, event_id, name, team_number, barcode_payload, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.EventID, t.Name, t.TeamNumber, t.BarcodePayload,
		fmtTime(t.CreatedAt), fmtTime(t.UpdatedAt))
	return translateErr(err)
}

// CreateTeams inserts a batch of teams in one transaction. Any constraint
// violation rolls back the whole batch.
func (s *Store) CreateTeams(ctx context.Context, teams []model.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO teams (id, event_id, name, team_number, barcode_payload, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range teams {
		if _, err := stmt.ExecContext(ctx, t.ID, t.EventID, t.Name, t.TeamNumber,
			t.BarcodePayload, fmtTime(t.CreatedAt), fmtTime(t.UpdatedAt)); err != nil {
			return translateErr(err)
		}
	}
	return tx.Commit()
}

// GetTeam returns a team by ID, or ErrNotFound.
func (s *Store) GetTeam(ctx context.Context, id string, includeDeleted bool) (*model.Team, error) {
	q := "SELECT " + teamColumns + " FROM teams WHERE id = ?"
	if !includeDeleted {
		q += " AND deleted_at IS NULL"
	}
	t, err := scanTeam(s.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListTeamsByEvent returns an event's teams ordered by team number.
func (s *Store) ListTeamsByEvent(ctx context.Context, eventID string, includeDeleted bool) ([]model.Team, error) {
	q := "SELECT " + teamColumns + " FROM teams WHERE event_id = ?"
	if !includeDeleted {
		q += " AND deleted_at IS NULL"
	}
	q += " ORDER BY team_number, created_at"

	rows, err := s.db.QueryContext(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *t)
	}
	return result, rows.Err()
}

// UpdateTeam rewrites the mutable fields of a non-deleted team, including
// the barcode payload and its invalidation timestamp.
func (s *Store) UpdateTeam(ctx context.Context, t model.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE teams
		SET name = ?, team_number = ?, barcode_payload = ?, code_invalidated_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`, t.Name, t.TeamNumber, t.BarcodePayload, fmtNullTime(t.CodeInvalidatedAt),
		fmtTime(t.UpdatedAt), t.ID)
	if err != nil {
		return translateErr(err)
	}
	return requireRowAffected(res)
}

// SoftDeleteTeam marks a team deleted.
func (s *Store) SoftDeleteTeam(ctx context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE teams SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL
	`, fmtTime(at), fmtTime(at), id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}
