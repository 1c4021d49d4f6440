package audit_test

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/grillwire/cookoff/internal/audit"
	"github.com/grillwire/cookoff/internal/store"
)

func newTestRepo(t *testing.T) *audit.Repo {
	t.Helper()
	db, err := store.OpenDB(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := store.MigrateDB(db); err != nil {
		t.Fatalf("MigrateDB: %v", err)
	}
	return audit.NewRepo(db)
}

func testEntry(idempotencyKey string) audit.Entry {
	return audit.Entry{
		ID:             uuid.NewString(),
		Timestamp:      time.Now().UTC(),
		ActorType:      audit.ActorUser,
		ActorID:        "user-1",
		Action:         audit.ActionCreated,
		EntityType:     "event",
		EntityID:       "ev-1",
		EventID:        "ev-1",
		NewValue:       json.RawMessage(`{"name":"Smoke on the Water"}`),
		IdempotencyKey: idempotencyKey,
	}
}

func TestInsertBatchAndGet(t *testing.T) {
	repo := newTestRepo(t)

	e := testEntry("")
	n, err := repo.InsertBatch([]audit.Entry{e})
	if err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}
	if n != 1 {
		t.Fatalf("inserted = %d, want 1", n)
	}

	got, err := repo.Get(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.EntityType != "event" || got.Action != audit.ActionCreated {
		t.Errorf("got %+v", got)
	}
	if string(got.NewValue) != `{"name":"Smoke on the Water"}` {
		t.Errorf("NewValue = %s", got.NewValue)
	}
}

func TestGetMissingEntry(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.Get(context.Background(), uuid.NewString()); !errors.Is(err, audit.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestIdempotencyKeyDeduplicatedAtInsert(t *testing.T) {
	repo := newTestRepo(t)

	first := testEntry("retry-key-1")
	second := testEntry("retry-key-1")
	n, err := repo.InsertBatch([]audit.Entry{first, second})
	if err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}
	if n != 1 {
		t.Errorf("inserted = %d, want 1 (duplicate key elided)", n)
	}

	entries, total, err := repo.List(context.Background(), audit.Filter{}, 10, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(entries) != 1 {
		t.Errorf("total = %d, len = %d, want 1, 1", total, len(entries))
	}
}

func TestListFilters(t *testing.T) {
	repo := newTestRepo(t)

	created := testEntry("")
	deleted := testEntry("")
	deleted.Action = audit.ActionSoftDeleted
	deleted.EntityType = "team"
	deleted.EventID = "ev-2"
	if _, err := repo.InsertBatch([]audit.Entry{created, deleted}); err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}

	entries, total, err := repo.List(context.Background(), audit.Filter{Action: audit.ActionSoftDeleted}, 10, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(entries) != 1 || entries[0].EntityType != "team" {
		t.Errorf("filtered list = %+v (total %d)", entries, total)
	}

	_, total, err = repo.List(context.Background(), audit.Filter{EventID: "ev-2"}, 10, 0)
	if err != nil {
		t.Fatalf("List by event: %v", err)
	}
	if total != 1 {
		t.Errorf("total by event = %d, want 1", total)
	}
}

func TestServiceFlushesOnStop(t *testing.T) {
	repo := newTestRepo(t)
	svc := audit.NewService(audit.ServiceConfig{
		Repo:          repo,
		QueueSize:     16,
		FlushBatch:    8,
		FlushInterval: time.Hour, // force the stop path to do the flushing
	})
	svc.Start()

	for i := 0; i < 5; i++ {
		svc.Record(audit.Entry{
			ActorType:  audit.ActorSystem,
			Action:     audit.ActionCreated,
			EntityType: "event",
			EntityID:   uuid.NewString(),
		})
	}
	svc.Stop()

	_, total, err := repo.List(context.Background(), audit.Filter{}, 50, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
}

func TestServiceRecordSanitizes(t *testing.T) {
	repo := newTestRepo(t)
	svc := audit.NewService(audit.ServiceConfig{Repo: repo, FlushInterval: time.Hour})
	svc.Start()

	svc.Record(audit.Entry{
		ActorType:  audit.ActorUser,
		ActorID:    "user-1",
		Action:     audit.ActionCreated,
		EntityType: "user",
		EntityID:   "u-2",
		NewValue:   json.RawMessage(`{"username":"cook","password_hash":"$2a$12$x"}`),
	})
	svc.Stop()

	entries, _, err := repo.List(context.Background(), audit.Filter{}, 10, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	var doc map[string]any
	if err := json.Unmarshal(entries[0].NewValue, &doc); err != nil {
		t.Fatalf("unmarshal NewValue: %v", err)
	}
	if doc["password_hash"] != "[REDACTED]" {
		t.Errorf("password_hash = %v, want [REDACTED]", doc["password_hash"])
	}
}

func TestServiceElidesRecentDuplicateKeys(t *testing.T) {
	repo := newTestRepo(t)
	svc := audit.NewService(audit.ServiceConfig{Repo: repo, FlushInterval: time.Hour})
	svc.Start()

	for i := 0; i < 3; i++ {
		e := testEntry("same-key")
		e.ID = "" // let the service assign ids
		svc.Record(e)
	}
	svc.Stop()

	_, total, err := repo.List(context.Background(), audit.Filter{}, 10, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 {
		t.Errorf("total = %d, want 1 (duplicates elided)", total)
	}
}
