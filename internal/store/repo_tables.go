package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/grillwire/cookoff/internal/model"
)

const tableColumns = "id, event_id, table_number, qr_token, created_at, updated_at, deleted_at"

func scanTable(sc rowScanner) (*model.Table, error) {
	var (
		t                    model.Table
		createdAt, updatedAt string
		deletedAt            sql.NullString
	)
	if err := sc.Scan(&t.ID, &t.EventID, &t.TableNumber, &t.QRToken,
		&createdAt, &updatedAt, &deletedAt); err != nil {
		return nil, err
	}

	var err error
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

// CreateTable inserts a new judging table.
func (s *Store) CreateTable(ctx context.Context, t model.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tables (id, event_id, table_number, qr_token, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, t.ID, t.EventID, t.TableNumber, t.QRToken, fmtTime(t.CreatedAt), fmtTime(t.UpdatedAt))
	return translateErr(err)
}

// CreateTables inserts a batch of tables in one transaction. Any constraint
// violation rolls back the whole batch.
func (s *Store) CreateTables(ctx context.Context, tables []model.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tables (id, event_id, table_number, qr_token, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range tables {
		if _, err := stmt.ExecContext(ctx, t.ID, t.EventID, t.TableNumber, t.QRToken,
			fmtTime(t.CreatedAt), fmtTime(t.UpdatedAt)); err != nil {
			return translateErr(err)
		}
	}
	return tx.Commit()
}

// GetTable returns a table by ID, or ErrNotFound.
func (s *Store) GetTable(ctx context.Context, id string, includeDeleted bool) (*model.Table, error) {
	q := "SELECT " + tableColumns + " FROM tables WHERE id = ?"
	if !includeDeleted {
		q += " AND deleted_at IS NULL"
	}
	t, err := scanTable(s.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetTableByQRToken returns the non-deleted table carrying the token, or
// ErrNotFound. Deleted tables never authenticate judges.
func (s *Store) GetTableByQRToken(ctx context.Context, qrToken string) (*model.Table, error) {
	q := "SELECT " + tableColumns + " FROM tables WHERE qr_token = ? AND deleted_at IS NULL"
	t, err := scanTable(s.db.QueryRowContext(ctx, q, qrToken))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListTablesByEvent returns an event's tables ordered by table number.
func (s *Store) ListTablesByEvent(ctx context.Context, eventID string, includeDeleted bool) ([]model.Table, error) {
	q := "SELECT " + tableColumns + " FROM tables WHERE event_id = ?"
	if !includeDeleted {
		q += " AND deleted_at IS NULL"
	}
	q += " ORDER BY table_number, created_at"

	rows, err := s.db.QueryContext(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Table
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *t)
	}
	return result, rows.Err()
}

// UpdateTable rewrites the mutable fields of a non-deleted table.
func (s *Store) UpdateTable(ctx context.Context, t model.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE tables SET table_number = ?, qr_token = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`, t.TableNumber, t.QRToken, fmtTime(t.UpdatedAt), t.ID)
	if err != nil {
		return translateErr(err)
	}
	return requireRowAffected(res)
}

// SoftDeleteTable marks a table deleted. Its seats are left untouched but
// stop counting as active judges.
func (s *Store) SoftDeleteTable(ctx context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE tables SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL
	`, fmtTime(at), fmtTime(at), id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

// --- seats ---

const seatColumns = "id, table_id, seat_number, created_at, updated_at, deleted_at"

func scanSeat(sc rowScanner) (*model.Seat, error) {
	var (
		seat                 model.Seat
		createdAt, updatedAt string
		deletedAt            sql.NullString
	)
	if err := sc.Scan(&seat.ID, &seat.TableID, &seat.SeatNumber,
		&createdAt, &updatedAt, &deletedAt); err != nil {
		return nil, err
	}

	var err error
	if seat.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if seat.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if seat.DeletedAt, err = parseNullTime(deletedAt); err != nil {
		return nil, err
	}
	return &seat, nil
}

// CreateSeat inserts a new seat.
func (s *Store) CreateSeat(ctx context.Context, seat model.Seat) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO seats (id, table_id, seat_number, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, seat.ID, seat.TableID, seat.SeatNumber, fmtTime(seat.CreatedAt), fmtTime(seat.UpdatedAt))
	return translateErr(err)
}

// CreateSeats inserts a batch of seats in one transaction.
func (s *Store) CreateSeats(ctx context.Context, seats []model.Seat) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO seats (id, table_id, seat_number, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, seat := range seats {
		if _, err := stmt.ExecContext(ctx, seat.ID, seat.TableID, seat.SeatNumber,
			fmtTime(seat.CreatedAt), fmtTime(seat.UpdatedAt)); err != nil {
			return translateErr(err)
		}
	}
	return tx.Commit()
}

// GetSeat returns a seat by ID, or ErrNotFound.
func (s *Store) GetSeat(ctx context.Context, id string, includeDeleted bool) (*model.Seat, error) {
	q := "SELECT " + seatColumns + " FROM seats WHERE id = ?"
	if !includeDeleted {
		q += " AND deleted_at IS NULL"
	}
	seat, err := scanSeat(s.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return seat, nil
}

// GetSeatByNumber returns the non-deleted seat with the given number at a
// table, or ErrNotFound.
func (s *Store) GetSeatByNumber(ctx context.Context, tableID string, seatNumber int) (*model.Seat, error) {
	q := "SELECT " + seatColumns + " FROM seats WHERE table_id = ? AND seat_number = ? AND deleted_at IS NULL"
	seat, err := scanSeat(s.db.QueryRowContext(ctx, q, tableID, seatNumber))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return seat, nil
}

// ListSeatsByTable returns a table's seats ordered by seat number.
func (s *Store) ListSeatsByTable(ctx context.Context, tableID string, includeDeleted bool) ([]model.Seat, error) {
	q := "SELECT " + seatColumns + " FROM seats WHERE table_id = ?"
	if !includeDeleted {
		q += " AND deleted_at IS NULL"
	}
	q += " ORDER BY seat_number, created_at"

	rows, err := s.db.QueryContext(ctx, q, tableID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Seat
	for rows.Next() {
		seat, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *seat)
	}
	return result, rows.Err()
}

// UpdateSeat rewrites the mutable fields of a non-deleted seat.
func (s *Store) UpdateSeat(ctx context.Context, seat model.Seat) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE seats SET seat_number = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL
	`, seat.SeatNumber, fmtTime(seat.UpdatedAt), seat.ID)
	if err != nil {
		return translateErr(err)
	}
	return requireRowAffected(res)
}

// SoftDeleteSeat marks a seat deleted.
func (s *Store) SoftDeleteSeat(ctx context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE seats SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL
	`, fmtTime(at), fmtTime(at), id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

// CountActiveSeats counts the event's seats that can currently judge: the
// seat and its parent table must both be non-deleted.
func (s *Store) CountActiveSeats(ctx context.Context, eventID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM seats st
		JOIN tables t ON t.id = st.table_id
		WHERE t.event_id = ? AND t.deleted_at IS NULL AND st.deleted_at IS NULL
	`, eventID).Scan(&n)
	return n, err
}
