package service

import (
	"context"
	"errors"

	"github.com/grillwire/cookoff/internal/audit"
)

// ListAuditLogs returns a filtered page of the global audit trail, newest
// first. Admin only; event-scoped reads go through ListEventAuditLogs.
func (s *Service) ListAuditLogs(ctx context.Context, actor Actor, f audit.Filter, limit, offset int) ([]audit.Entry, int, error) {
	if !actor.IsAdmin() {
		return nil, 0, forbidden("only admins can read the global audit log")
	}
	return s.listAuditLogs(ctx, f, limit, offset)
}

// ListEventAuditLogs returns one event's audit trail. Any authenticated
// principal may read its own event's history.
func (s *Service) ListEventAuditLogs(ctx context.Context, actor Actor, eventID string, f audit.Filter, limit, offset int) ([]audit.Entry, int, error) {
	if _, err := s.store.GetEvent(ctx, eventID, includeDeletedFor(actor, true)); err != nil {
		return nil, 0, translateStoreErr(ctx, err, "event")
	}
	f.EventID = eventID
	return s.listAuditLogs(ctx, f, limit, offset)
}

func (s *Service) listAuditLogs(ctx context.Context, f audit.Filter, limit, offset int) ([]audit.Entry, int, error) {
	if f.Action != "" && !f.Action.Valid() {
		return nil, 0, invalidArg("action: unknown audit action")
	}
	if f.ActorType != "" && !f.ActorType.Valid() {
		return nil, 0, invalidArg("actor_type: unknown actor type")
	}
	entries, total, err := s.audit.Repo().List(ctx, f, limit, offset)
	if err != nil {
		return nil, 0, internalErr("read audit log", err)
	}
	return entries, total, nil
}

// GetAuditLog returns one audit entry by ID. Admin only.
func (s *Service) GetAuditLog(ctx context.Context, actor Actor, id string) (*audit.Entry, error) {
	if !actor.IsAdmin() {
		return nil, forbidden("only admins can read audit entries")
	}
	e, err := s.audit.Repo().Get(ctx, id)
	if err != nil {
		if errors.Is(err, audit.ErrNotFound) {
			return nil, notFound("audit entry not found")
		}
		return nil, internalErr("read audit entry", err)
	}
	return e, nil
}
