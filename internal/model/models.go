// Package model defines domain structs shared across the persistence layer.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventStatus is the lifecycle state of an Event.
type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusActive    EventStatus = "active"
	EventStatusFinalized EventStatus = "finalized"
	EventStatusArchived  EventStatus = "archived"
)

// Valid reports whether s is a known event status.
func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusDraft, EventStatusActive, EventStatusFinalized, EventStatusArchived:
		return true
	}
	return false
}

// AggregationMethod selects how per-criterion judge scores are combined.
type AggregationMethod string

const (
	AggregationMean        AggregationMethod = "mean"
	AggregationTrimmedMean AggregationMethod = "trimmed_mean"
)

// Valid reports whether m is a known aggregation method.
func (m AggregationMethod) Valid() bool {
	return m == AggregationMean || m == AggregationTrimmedMean
}

// SubmissionStatus is the lifecycle state of a Submission.
type SubmissionStatus string

const (
	SubmissionStatusPending     SubmissionStatus = "pending"
	SubmissionStatusTurnedIn    SubmissionStatus = "turned_in"
	SubmissionStatusBeingJudged SubmissionStatus = "being_judged"
	SubmissionStatusScored      SubmissionStatus = "scored"
	SubmissionStatusFinalized   SubmissionStatus = "finalized"
)

// Valid reports whether s is a known submission status.
func (s SubmissionStatus) Valid() bool {
	switch s {
	case SubmissionStatusPending, SubmissionStatusTurnedIn, SubmissionStatusBeingJudged,
		SubmissionStatusScored, SubmissionStatusFinalized:
		return true
	}
	return false
}

// ScorePhase distinguishes the two judging passes over a submission.
type ScorePhase string

const (
	PhaseAppearance   ScorePhase = "appearance"
	PhaseTasteTexture ScorePhase = "taste_texture"
)

// Valid reports whether p is a known score phase.
func (p ScorePhase) Valid() bool {
	return p == PhaseAppearance || p == PhaseTasteTexture
}

// Role is the permission level of a staff account.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleOperator
}

// Event is a single competition: one date, one scoring scale, one set of
// tables, categories, criteria and teams.
type Event struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Date              string            `json:"date"` // YYYY-MM-DD
	Location          string            `json:"location,omitempty"`
	Status            EventStatus       `json:"status"`
	ScaleMin          decimal.Decimal   `json:"scoring_scale_min"`
	ScaleMax          decimal.Decimal   `json:"scoring_scale_max"`
	ScaleStep         decimal.Decimal   `json:"scoring_scale_step"`
	AggregationMethod AggregationMethod `json:"aggregation_method"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
	DeletedAt         *time.Time        `json:"deleted_at,omitempty"`
}

// Table is a physical judging table within an event. Judges authenticate by
// scanning the table's QR token and picking a seat.
type Table struct {
	ID          string     `json:"id"`
	EventID     string     `json:"event_id"`
	TableNumber int        `json:"table_number"`
	QRToken     string     `json:"qr_token"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// Seat is a judge position at a table, numbered from 1.
type Seat struct {
	ID         string     `json:"id"`
	TableID    string     `json:"table_id"`
	SeatNumber int        `json:"seat_number"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
}

// Category is a meat category judged within an event (brisket, ribs, ...).
type Category struct {
	ID        string     `json:"id"`
	EventID   string     `json:"event_id"`
	Name      string     `json:"name"`
	SortOrder int        `json:"sort_order"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Criterion is a judging dimension (taste, texture, appearance) with a
// weight applied when computing final scores.
type Criterion struct {
	ID        string          `json:"id"`
	EventID   string          `json:"event_id"`
	Name      string          `json:"name"`
	Weight    decimal.Decimal `json:"weight"`
	SortOrder int             `json:"sort_order"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt *time.Time      `json:"deleted_at,omitempty"`
}

// Team is a competing team within an event. BarcodePayload is the signed
// turn-in code printed on the team's box labels.
type Team struct {
	ID                string     `json:"id"`
	EventID           string     `json:"event_id"`
	Name              string     `json:"name"`
	TeamNumber        int        `json:"team_number"`
	BarcodePayload    string     `json:"barcode_payload"`
	CodeInvalidatedAt *time.Time `json:"code_invalidated_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	DeletedAt         *time.Time `json:"deleted_at,omitempty"`
}

// Submission is one team's entry in one category.
type Submission struct {
	ID         string           `json:"id"`
	TeamID     string           `json:"team_id"`
	CategoryID string           `json:"category_id"`
	Status     SubmissionStatus `json:"status"`
	TurnedInAt *time.Time       `json:"turned_in_at,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
	DeletedAt  *time.Time       `json:"deleted_at,omitempty"`
}

// Score is a single judge's score for one criterion of one submission.
// Scores are never soft-deleted; removal is a hard delete.
type Score struct {
	ID           string          `json:"id"`
	SubmissionID string          `json:"submission_id"`
	SeatID       string          `json:"seat_id"`
	CriterionID  string          `json:"criterion_id"`
	Value        decimal.Decimal `json:"score_value"`
	Comment      string          `json:"comment,omitempty"`
	Phase        ScorePhase      `json:"phase"`
	SubmittedAt  time.Time       `json:"submitted_at"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// User is a staff account (admin or operator). Judges do not have accounts;
// they authenticate per-seat via table QR tokens.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}
