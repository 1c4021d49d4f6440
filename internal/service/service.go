// Package service implements the domain services: CRUD plus invariants for
// every competition entity, the results and judging projections, and auth.
// All persistence goes through internal/store; every mutation lands one
// best-effort audit entry.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/maypok86/otter"

	"github.com/grillwire/cookoff/internal/audit"
	"github.com/grillwire/cookoff/internal/auth"
	"github.com/grillwire/cookoff/internal/model"
	"github.com/grillwire/cookoff/internal/store"
)

// Service is the domain service facade. Methods are spread across the files
// of this package by entity.
type Service struct {
	store  *store.Store
	audit  *audit.Service
	tokens *auth.TokenIssuer

	throttle      *auth.LoginThrottle
	barcodeSecret string
	bcryptCost    int

	// eventCache holds events on the hot score-validation path so every
	// score submit does not refetch the scale. Invalidated on event update
	// and soft delete.
	eventCache otter.Cache[string, model.Event]

	now func() time.Time
}

// Config wires a Service.
type Config struct {
	Store         *store.Store
	Audit         *audit.Service
	Tokens        *auth.TokenIssuer
	Throttle      *auth.LoginThrottle
	BarcodeSecret string
	BcryptCost    int

	EventCacheSize int
	EventCacheTTL  time.Duration

	// Now overrides the clock in tests.
	Now func() time.Time
}

// New creates a Service.
func New(cfg Config) (*Service, error) {
	size := cfg.EventCacheSize
	if size <= 0 {
		size = 256
	}
	ttl := cfg.EventCacheTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	cache, err := otter.MustBuilder[string, model.Event](size).
		Cost(func(_ string, _ model.Event) uint32 { return 1 }).
		WithTTL(ttl).
		Build()
	if err != nil {
		return nil, err
	}

	now := cfg.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Service{
		store:         cfg.Store,
		audit:         cfg.Audit,
		tokens:        cfg.Tokens,
		throttle:      cfg.Throttle,
		barcodeSecret: cfg.BarcodeSecret,
		bcryptCost:    cfg.BcryptCost,
		eventCache:    cache,
		now:           now,
	}, nil
}

// recordAudit emits one audit entry for a mutation. Best-effort: marshal
// failures are logged and the entry goes out with the value omitted.
func (s *Service) recordAudit(actor Actor, action audit.Action, entityType, entityID, eventID string, oldVal, newVal any) {
	if s.audit == nil {
		return
	}
	actorType, actorID := actor.auditActor()
	s.audit.Record(audit.Entry{
		ActorType:         actorType,
		ActorID:           actorID,
		Action:            action,
		EntityType:        entityType,
		EntityID:          entityID,
		EventID:           eventID,
		OldValue:          marshalAuditValue(entityType, oldVal),
		NewValue:          marshalAuditValue(entityType, newVal),
		IPAddress:         actor.IPAddress,
		DeviceFingerprint: actor.DeviceFingerprint,
		IdempotencyKey:    actor.IdempotencyKey,
	})
}

func marshalAuditValue(entityType string, v any) json.RawMessage {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		log.Printf("[audit] marshal %s value failed: %v", entityType, err)
		return nil
	}
	return raw
}

// translateStoreErr maps store sentinels onto ServiceErrors. ctx cancellation
// is passed through untouched so the API layer can recognize a gone client.
func translateStoreErr(ctx context.Context, err error, entity string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return notFound(entity + " not found")
	case errors.Is(err, store.ErrConflict):
		return conflict(entity + " conflicts with an existing record")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return internalErr("storage failure", err)
	}
}

// cachedEvent fetches an event through the TTL cache. Only non-deleted
// events are cached; deleted or missing events always hit the store.
func (s *Service) cachedEvent(ctx context.Context, eventID string) (*model.Event, error) {
	if e, ok := s.eventCache.Get(eventID); ok {
		return &e, nil
	}
	e, err := s.store.GetEvent(ctx, eventID, false)
	if err != nil {
		return nil, err
	}
	s.eventCache.Set(eventID, *e)
	return e, nil
}

func (s *Service) invalidateEventCache(eventID string) {
	s.eventCache.Delete(eventID)
}
