package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"

	"github.com/grillwire/cookoff/internal/audit"
	"github.com/grillwire/cookoff/internal/model"
)

// newQRToken mints a fresh table token: 32 random bytes, hex encoded.
func newQRToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// TableInput carries the writable fields of a table.
type TableInput struct {
	TableNumber int
}

// CreateTable creates a table under an event and mints its QR token.
func (s *Service) CreateTable(ctx context.Context, actor Actor, eventID string, in TableInput) (*model.Table, error) {
	if !actor.IsStaff() {
		return nil, forbidden("only staff can create tables")
	}
	if in.TableNumber < 1 {
		return nil, invalidArg("table_number: must be a positive integer")
	}
	if _, err := s.store.GetEvent(ctx, eventID, false); err != nil {
		return nil, translateStoreErr(ctx, err, "event")
	}

	token, err := newQRToken()
	if err != nil {
		return nil, internalErr("mint qr token", err)
	}
	now := s.now()
	t := model.Table{
		ID:          uuid.NewString(),
		EventID:     eventID,
		TableNumber: in.TableNumber,
		QRToken:     token,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateTable(ctx, t); err != nil {
		return nil, translateStoreErr(ctx, err, "table")
	}
	s.recordAudit(actor, audit.ActionCreated, "table", t.ID, eventID, nil, t)
	return &t, nil
}

// CreateTables bulk-creates tables under an event. Request-level duplicate
// table numbers fail before the store is touched; any store conflict rolls
// the whole request back.
func (s *Service) CreateTables(ctx context.Context, actor Actor, eventID string, inputs []TableInput) ([]model.Table, error) {
	if !actor.IsStaff() {
		return nil, forbidden("only staff can create tables")
	}
	if len(inputs) == 0 {
		return nil, invalidArg("items: must not be empty")
	}
	seen := make(map[int]bool, len(inputs))
	for _, in := range inputs {
		if in.TableNumber < 1 {
			return nil, invalidArg("table_number: must be a positive integer")
		}
		if seen[in.TableNumber] {
			return nil, conflict("duplicate table_number in request")
		}
		seen[in.TableNumber] = true
	}
	if _, err := s.store.GetEvent(ctx, eventID, false); err != nil {
		return nil, translateStoreErr(ctx, err, "event")
	}

	now := s.now()
	tables := make([]model.Table, 0, len(inputs))
	for _, in := range inputs {
		token, err := newQRToken()
		if err != nil {
			return nil, internalErr("mint qr token", err)
		}
		tables = append(tables, model.Table{
			ID:          uuid.NewString(),
			EventID:     eventID,
			TableNumber: in.TableNumber,
			QRToken:     token,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	if err := s.store.CreateTables(ctx, tables); err != nil {
		return nil, translateStoreErr(ctx, err, "table")
	}
	for _, t := range tables {
		s.recordAudit(actor, audit.ActionCreated, "table", t.ID, eventID, nil, t)
	}
	return tables, nil
}

// GetTable returns one table.
func (s *Service) GetTable(ctx context.Context, actor Actor, id string, includeDeleted bool) (*model.Table, error) {
	t, err := s.store.GetTable(ctx, id, includeDeletedFor(actor, includeDeleted))
	if err != nil {
		return nil, translateStoreErr(ctx, err, "table")
	}
	return t, nil
}

// ListTables returns an event's tables.
func (s *Service) ListTables(ctx context.Context, actor Actor, eventID string, includeDeleted bool) ([]model.Table, error) {
	tables, err := s.store.ListTablesByEvent(ctx, eventID, includeDeletedFor(actor, includeDeleted))
	if err != nil {
		return nil, translateStoreErr(ctx, err, "table")
	}
	return tables, nil
}

// UpdateTable rewrites a table's number.
func (s *Service) UpdateTable(ctx context.Context, actor Actor, id string, in TableInput) (*model.Table, error) {
	if !actor.IsStaff() {
		return nil, forbidden("only staff can update tables")
	}
	if in.TableNumber < 1 {
		return nil, invalidArg("table_number: must be a positive integer")
	}
	old, err := s.store.GetTable(ctx, id, false)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "table")
	}

	updated := *old
	updated.TableNumber = in.TableNumber
	updated.UpdatedAt = s.now()
	if err := s.store.UpdateTable(ctx, updated); err != nil {
		return nil, translateStoreErr(ctx, err, "table")
	}
	s.recordAudit(actor, audit.ActionUpdated, "table", id, old.EventID, old, updated)
	return &updated, nil
}

// RegenerateTableToken mints a fresh QR token for a table, immediately
// invalidating seat tokens issued against the old one at the login step.
func (s *Service) RegenerateTableToken(ctx context.Context, actor Actor, id string) (*model.Table, error) {
	if !actor.IsStaff() {
		return nil, forbidden("only staff can regenerate table tokens")
	}
	old, err := s.store.GetTable(ctx, id, false)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "table")
	}

	token, err := newQRToken()
	if err != nil {
		return nil, internalErr("mint qr token", err)
	}
	updated := *old
	updated.QRToken = token
	updated.UpdatedAt = s.now()
	if err := s.store.UpdateTable(ctx, updated); err != nil {
		return nil, translateStoreErr(ctx, err, "table")
	}
	s.recordAudit(actor, audit.ActionUpdated, "table", id, old.EventID, old, updated)
	return &updated, nil
}

// DeleteTable soft-deletes a table. Its seats survive but stop counting as
// active judges and stop authenticating.
func (s *Service) DeleteTable(ctx context.Context, actor Actor, id string) error {
	if !actor.IsStaff() {
		return forbidden("only staff can delete tables")
	}
	old, err := s.store.GetTable(ctx, id, false)
	if err != nil {
		return translateStoreErr(ctx, err, "table")
	}
	if err := s.store.SoftDeleteTable(ctx, id, s.now()); err != nil {
		return translateStoreErr(ctx, err, "table")
	}
	s.recordAudit(actor, audit.ActionSoftDeleted, "table", id, old.EventID, old, nil)
	return nil
}

// --- seats ---

// SeatInput carries the writable fields of a seat.
type SeatInput struct {
	SeatNumber int
}

// CreateSeat creates a seat under a table.
func (s *Service) CreateSeat(ctx context.Context, actor Actor, tableID string, in SeatInput) (*model.Seat, error) {
	if !actor.IsStaff() {
		return nil, forbidden("only staff can create seats")
	}
	if in.SeatNumber < 1 {
		return nil, invalidArg("seat_number: must be a positive integer")
	}
	table, err := s.store.GetTable(ctx, tableID, false)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "table")
	}

	now := s.now()
	seat := model.Seat{
		ID:         uuid.NewString(),
		TableID:    tableID,
		SeatNumber: in.SeatNumber,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.CreateSeat(ctx, seat); err != nil {
		return nil, translateStoreErr(ctx, err, "seat")
	}
	s.recordAudit(actor, audit.ActionCreated, "seat", seat.ID, table.EventID, nil, seat)
	return &seat, nil
}

// CreateSeats bulk-creates seats under a table, all-or-nothing.
func (s *Service) CreateSeats(ctx context.Context, actor Actor, tableID string, inputs []SeatInput) ([]model.Seat, error) {
	if !actor.IsStaff() {
		return nil, forbidden("only staff can create seats")
	}
	if len(inputs) == 0 {
		return nil, invalidArg("items: must not be empty")
	}
	seen := make(map[int]bool, len(inputs))
	for _, in := range inputs {
		if in.SeatNumber < 1 {
			return nil, invalidArg("seat_number: must be a positive integer")
		}
		if seen[in.SeatNumber] {
			return nil, conflict("duplicate seat_number in request")
		}
		seen[in.SeatNumber] = true
	}
	table, err := s.store.GetTable(ctx, tableID, false)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "table")
	}

	now := s.now()
	seats := make([]model.Seat, 0, len(inputs))
	for _, in := range inputs {
		seats = append(seats, model.Seat{
			ID:         uuid.NewString(),
			TableID:    tableID,
			SeatNumber: in.SeatNumber,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}
	if err := s.store.CreateSeats(ctx, seats); err != nil {
		return nil, translateStoreErr(ctx, err, "seat")
	}
	for _, seat := range seats {
		s.recordAudit(actor, audit.ActionCreated, "seat", seat.ID, table.EventID, nil, seat)
	}
	return seats, nil
}

// ListSeats returns a table's seats.
func (s *Service) ListSeats(ctx context.Context, actor Actor, tableID string, includeDeleted bool) ([]model.Seat, error) {
	seats, err := s.store.ListSeatsByTable(ctx, tableID, includeDeletedFor(actor, includeDeleted))
	if err != nil {
		return nil, translateStoreErr(ctx, err, "seat")
	}
	return seats, nil
}

// DeleteSeat soft-deletes a seat.
func (s *Service) DeleteSeat(ctx context.Context, actor Actor, id string) error {
	if !actor.IsStaff() {
		return forbidden("only staff can delete seats")
	}
	old, err := s.store.GetSeat(ctx, id, false)
	if err != nil {
		return translateStoreErr(ctx, err, "seat")
	}
	table, err := s.store.GetTable(ctx, old.TableID, true)
	if err != nil {
		return translateStoreErr(ctx, err, "table")
	}
	if err := s.store.SoftDeleteSeat(ctx, id, s.now()); err != nil {
		return translateStoreErr(ctx, err, "seat")
	}
	s.recordAudit(actor, audit.ActionSoftDeleted, "seat", id, table.EventID, old, nil)
	return nil
}
