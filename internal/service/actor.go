package service

import (
	"github.com/grillwire/cookoff/internal/audit"
	"github.com/grillwire/cookoff/internal/model"
)

// ActorKind identifies the authenticated principal class behind a request.
type ActorKind string

const (
	ActorKindUser   ActorKind = "user"
	ActorKindJudge  ActorKind = "judge"
	ActorKindSystem ActorKind = "system"
)

// Actor is the authenticated principal plus the request-scope metadata the
// audit trail records. The API middleware builds one per request.
type Actor struct {
	Kind ActorKind

	// User principal (Kind == ActorKindUser).
	UserID string
	Role   model.Role

	// Judge principal (Kind == ActorKindJudge).
	SeatID     string
	TableID    string
	EventID    string
	SeatNumber int

	// Request metadata, best-effort.
	IPAddress         string
	DeviceFingerprint string
	IdempotencyKey    string
}

// SystemActor is used for mutations the server performs on its own, such as
// bootstrap account creation.
var SystemActor = Actor{Kind: ActorKindSystem}

// IsAdmin reports whether the actor is an admin user.
func (a Actor) IsAdmin() bool {
	return a.Kind == ActorKindUser && a.Role == model.RoleAdmin
}

// IsStaff reports whether the actor is an admin or operator user.
func (a Actor) IsStaff() bool {
	return a.Kind == ActorKindUser && (a.Role == model.RoleAdmin || a.Role == model.RoleOperator)
}

// auditActor maps the actor onto the audit trail's actor columns.
func (a Actor) auditActor() (audit.ActorType, string) {
	switch a.Kind {
	case ActorKindUser:
		return audit.ActorUser, a.UserID
	case ActorKindJudge:
		return audit.ActorJudge, a.SeatID
	default:
		return audit.ActorSystem, ""
	}
}

// includeDeletedFor honors an include_deleted request only for admins.
// Anyone else silently sees live rows only.
func includeDeletedFor(a Actor, requested bool) bool {
	return requested && a.IsAdmin()
}
