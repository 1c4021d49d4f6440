// Package audit implements the append-only mutation trail. Writes go
// through an async queue and are flushed in batches; a failed audit write
// never fails the mutation that produced it.
package audit

import (
	"encoding/json"
	"time"
)

// ActorType identifies who performed a mutation.
type ActorType string

const (
	ActorUser   ActorType = "user"
	ActorJudge  ActorType = "judge"
	ActorSystem ActorType = "system"
)

// Valid reports whether a is a known actor type.
func (a ActorType) Valid() bool {
	return a == ActorUser || a == ActorJudge || a == ActorSystem
}

// Action classifies a mutation.
type Action string

const (
	ActionCreated       Action = "created"
	ActionUpdated       Action = "updated"
	ActionSoftDeleted   Action = "soft_deleted"
	ActionStatusChanged Action = "status_changed"
)

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	switch a {
	case ActionCreated, ActionUpdated, ActionSoftDeleted, ActionStatusChanged:
		return true
	}
	return false
}

// Entry is one audit row. OldValue and NewValue hold the entity's JSON
// representation before and after the mutation; either may be nil.
type Entry struct {
	ID                string          `json:"id"`
	Timestamp         time.Time       `json:"timestamp"`
	ActorType         ActorType       `json:"actor_type"`
	ActorID           string          `json:"actor_id,omitempty"`
	Action            Action          `json:"action"`
	EntityType        string          `json:"entity_type"`
	EntityID          string          `json:"entity_id"`
	OldValue          json.RawMessage `json:"old_value,omitempty"`
	NewValue          json.RawMessage `json:"new_value,omitempty"`
	EventID           string          `json:"event_id,omitempty"`
	IPAddress         string          `json:"ip_address,omitempty"`
	DeviceFingerprint string          `json:"device_fingerprint,omitempty"`
	IdempotencyKey    string          `json:"idempotency_key,omitempty"`
}

// Filter narrows an audit log read. Zero-valued fields match everything.
type Filter struct {
	EntityType string
	Action     Action
	ActorType  ActorType
	EventID    string
	Since      *time.Time
	Until      *time.Time
}
