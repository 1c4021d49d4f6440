package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/grillwire/cookoff/internal/audit"
	"github.com/grillwire/cookoff/internal/service"
)

func parseAuditFilter(r *http.Request) (audit.Filter, error) {
	q := r.URL.Query()
	f := audit.Filter{
		EntityType: q.Get("entity_type"),
		Action:     audit.Action(q.Get("action")),
		ActorType:  audit.ActorType(q.Get("actor_type")),
		EventID:    q.Get("event_id"),
	}
	for key, dst := range map[string]**time.Time{"since": &f.Since, "until": &f.Until} {
		v := q.Get(key)
		if v == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return f, fmt.Errorf("%s: must be an RFC 3339 timestamp", key)
		}
		*dst = &t
	}
	return f, nil
}

// HandleListAuditLogs returns a handler for GET /audit-logs.
func HandleListAuditLogs(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := parseAuditFilter(r)
		if err != nil {
			writeInvalidArgument(w, err.Error())
			return
		}
		pg, ok := parsePaginationOrWriteInvalid(w, r)
		if !ok {
			return
		}
		entries, total, err := svc.ListAuditLogs(r.Context(), ActorFrom(r), f, pg.PageSize, pg.Offset())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WritePrePaged(w, http.StatusOK, entries, pg, total)
	}
}

// HandleListEventAuditLogs returns a handler for GET /events/{eventId}/audit-logs.
func HandleListEventAuditLogs(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := requireUUIDPathParam(w, r, "eventId", "event_id")
		if !ok {
			return
		}
		f, err := parseAuditFilter(r)
		if err != nil {
			writeInvalidArgument(w, err.Error())
			return
		}
		pg, ok := parsePaginationOrWriteInvalid(w, r)
		if !ok {
			return
		}
		entries, total, err := svc.ListEventAuditLogs(r.Context(), ActorFrom(r), eventID, f, pg.PageSize, pg.Offset())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WritePrePaged(w, http.StatusOK, entries, pg, total)
	}
}

// HandleGetAuditLog returns a handler for GET /audit-logs/{id}.
func HandleGetAuditLog(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireUUIDPathParam(w, r, "id", "audit_log_id")
		if !ok {
			return
		}
		entry, err := svc.GetAuditLog(r.Context(), ActorFrom(r), id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteSuccess(w, http.StatusOK, entry)
	}
}
