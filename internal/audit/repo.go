package audit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"
)

// ErrNotFound is returned when a requested audit row does not exist.
var ErrNotFound = errors.New("audit entry not found")

const timeFormat = time.RFC3339Nano

// Repo persists audit entries in the audit_logs table of the competition
// database. Inserts use OR IGNORE so a replayed idempotency key silently
// deduplicates instead of failing the batch.
type Repo struct {
	db *sql.DB
}

// NewRepo creates a Repo over the given database connection.
func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

const auditColumns = `id, ts, actor_type, actor_id, action, entity_type, entity_id,
	old_value, new_value, event_id, ip_address, device_fingerprint, idempotency_key`

// InsertBatch writes a batch of entries in one transaction and returns the
// number of rows actually inserted. Individual row failures are logged and
// skipped; the rest of the batch still lands.
func (r *Repo) InsertBatch(entries []Entry) (int, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("audit repo begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO audit_logs (` + auditColumns + `)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return 0, fmt.Errorf("audit repo prepare: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for i := range entries {
		e := &entries[i]
		res, err := stmt.Exec(
			e.ID, e.Timestamp.UTC().Format(timeFormat), string(e.ActorType), nullStr(e.ActorID),
			string(e.Action), e.EntityType, e.EntityID,
			nullRaw(e.OldValue), nullRaw(e.NewValue),
			nullStr(e.EventID), e.IPAddress, e.DeviceFingerprint, nullStr(e.IdempotencyKey),
		)
		if err != nil {
			log.Printf("[audit] warning: skip entry id=%q insert failed: %v", e.ID, err)
			continue
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("audit repo commit: %w", err)
	}
	return inserted, nil
}

// Get returns one audit entry by ID, or ErrNotFound.
func (r *Repo) Get(ctx context.Context, id string) (*Entry, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+auditColumns+" FROM audit_logs WHERE id = ?", id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// List returns a page of audit entries matching the filter, newest first,
// together with the total match count for pagination.
func (r *Repo) List(ctx context.Context, f Filter, limit, offset int) ([]Entry, int, error) {
	where, args := buildFilter(f)

	var total int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM audit_logs"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := "SELECT " + auditColumns + " FROM audit_logs" + where +
		" ORDER BY ts DESC, id DESC LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, q, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *e)
	}
	return result, total, rows.Err()
}

func buildFilter(f Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		conds = append(conds, cond)
		args = append(args, arg)
	}
	if f.EntityType != "" {
		add("entity_type = ?", f.EntityType)
	}
	if f.Action != "" {
		add("action = ?", string(f.Action))
	}
	if f.ActorType != "" {
		add("actor_type = ?", string(f.ActorType))
	}
	if f.EventID != "" {
		add("event_id = ?", f.EventID)
	}
	if f.Since != nil {
		add("ts >= ?", f.Since.UTC().Format(timeFormat))
	}
	if f.Until != nil {
		add("ts <= ?", f.Until.UTC().Format(timeFormat))
	}
	if len(conds) == 0 {
		return "", nil
	}
	where := " WHERE " + conds[0]
	for _, c := range conds[1:] {
		where += " AND " + c
	}
	return where, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc rowScanner) (*Entry, error) {
	var (
		e                                Entry
		ts                               string
		actorID, eventID, idempotencyKey sql.NullString
		oldValue, newValue               sql.NullString
	)
	if err := sc.Scan(&e.ID, &ts, &e.ActorType, &actorID, &e.Action,
		&e.EntityType, &e.EntityID, &oldValue, &newValue,
		&eventID, &e.IPAddress, &e.DeviceFingerprint, &idempotencyKey); err != nil {
		return nil, err
	}

	t, err := time.Parse(timeFormat, ts)
	if err != nil {
		return nil, fmt.Errorf("parse audit ts %q: %w", ts, err)
	}
	e.Timestamp = t
	e.ActorID = actorID.String
	e.EventID = eventID.String
	e.IdempotencyKey = idempotencyKey.String
	if oldValue.Valid {
		e.OldValue = []byte(oldValue.String)
	}
	if newValue.Valid {
		e.NewValue = []byte(newValue.String)
	}
	return &e, nil
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullRaw(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
