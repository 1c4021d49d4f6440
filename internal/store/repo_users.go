package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/grillwire/cookoff/internal/model"
)

const userColumns = "id, username, password_hash, role, created_at, updated_at, deleted_at"

func scanUser(sc rowScanner) (*model.User, error) {
	var (
		u                    model.User
		createdAt, updatedAt string
		deletedAt            sql.NullString
	)
	if err := sc.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role,
		&createdAt, &updatedAt, &deletedAt); err != nil {
		return nil, err
	}

	var err error
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if u.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if u.DeletedAt, err = parseNullTime(deletedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new staff account.
func (s *Store) CreateUser(ctx context.Context, u model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, username, password_hash, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, u.ID, u.Username, u.PasswordHash, string(u.Role),
		fmtTime(u.CreatedAt), fmtTime(u.UpdatedAt))
	return translateErr(err)
}

// GetUser returns a user by ID, or ErrNotFound.
func (s *Store) GetUser(ctx context.Context, id string, includeDeleted bool) (*model.User, error) {
	q := "SELECT " + userColumns + " FROM users WHERE id = ?"
	if !includeDeleted {
		q += " AND deleted_at IS NULL"
	}
	u, err := scanUser(s.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetUserByUsername returns the non-deleted user with the given username,
// or ErrNotFound.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	q := "SELECT " + userColumns + " FROM users WHERE username = ? AND deleted_at IS NULL"
	u, err := scanUser(s.db.QueryRowContext(ctx, q, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// CountUsers counts non-deleted staff accounts. Zero means the bootstrap
// admin has not been created yet.
func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE deleted_at IS NULL`).Scan(&n)
	return n, err
}

// SoftDeleteUser marks a user deleted.
func (s *Store) SoftDeleteUser(ctx context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL
	`, fmtTime(at), fmtTime(at), id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}
