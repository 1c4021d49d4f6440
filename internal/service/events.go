package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/grillwire/cookoff/internal/audit"
	"github.com/grillwire/cookoff/internal/lifecycle"
	"github.com/grillwire/cookoff/internal/model"
)

// EventInput carries the writable fields of an event.
type EventInput struct {
	Name              string
	Date              string // YYYY-MM-DD
	Location          string
	ScaleMin          decimal.Decimal
	ScaleMax          decimal.Decimal
	ScaleStep         decimal.Decimal
	AggregationMethod model.AggregationMethod
}

func validateEventInput(in EventInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return invalidArg("name: must be non-empty")
	}
	if _, err := time.Parse("2006-01-02", in.Date); err != nil {
		return invalidArg("date: must be YYYY-MM-DD")
	}
	if !in.ScaleMin.LessThan(in.ScaleMax) {
		return invalidArg("scoring scale: min must be less than max")
	}
	if !in.ScaleStep.IsPositive() {
		return invalidArg("scoring scale: step must be positive")
	}
	if !in.AggregationMethod.Valid() {
		return invalidArg("aggregation_method: must be mean or trimmed_mean")
	}
	return nil
}

// CreateEvent creates a new event in draft status. Admin only.
func (s *Service) CreateEvent(ctx context.Context, actor Actor, in EventInput) (*model.Event, error) {
	if !actor.IsAdmin() {
		return nil, forbidden("only admins can create events")
	}
	if err := validateEventInput(in); err != nil {
		return nil, err
	}

	now := s.now()
	e := model.Event{
		ID:                uuid.NewString(),
		Name:              strings.TrimSpace(in.Name),
		Date:              in.Date,
		Location:          in.Location,
		Status:            model.EventStatusDraft,
		ScaleMin:          in.ScaleMin,
		ScaleMax:          in.ScaleMax,
		ScaleStep:         in.ScaleStep,
		AggregationMethod: in.AggregationMethod,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.store.CreateEvent(ctx, e); err != nil {
		return nil, translateStoreErr(ctx, err, "event")
	}
	s.recordAudit(actor, audit.ActionCreated, "event", e.ID, e.ID, nil, e)
	return &e, nil
}

// GetEvent returns one event. include_deleted is honored for admins only.
func (s *Service) GetEvent(ctx context.Context, actor Actor, id string, includeDeleted bool) (*model.Event, error) {
	e, err := s.store.GetEvent(ctx, id, includeDeletedFor(actor, includeDeleted))
	if err != nil {
		return nil, translateStoreErr(ctx, err, "event")
	}
	return e, nil
}

// ListEvents returns all events.
func (s *Service) ListEvents(ctx context.Context, actor Actor, includeDeleted bool) ([]model.Event, error) {
	events, err := s.store.ListEvents(ctx, includeDeletedFor(actor, includeDeleted))
	if err != nil {
		return nil, translateStoreErr(ctx, err, "event")
	}
	return events, nil
}

// UpdateEvent rewrites an event's writable fields. Admin only; operators go
// through UpdateEventStatus. The status field is not touched here.
func (s *Service) UpdateEvent(ctx context.Context, actor Actor, id string, in EventInput) (*model.Event, error) {
	if !actor.IsAdmin() {
		return nil, forbidden("only admins can update events")
	}
	if err := validateEventInput(in); err != nil {
		return nil, err
	}

	old, err := s.store.GetEvent(ctx, id, false)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "event")
	}

	updated := *old
	updated.Name = strings.TrimSpace(in.Name)
	updated.Date = in.Date
	updated.Location = in.Location
	updated.ScaleMin = in.ScaleMin
	updated.ScaleMax = in.ScaleMax
	updated.ScaleStep = in.ScaleStep
	updated.AggregationMethod = in.AggregationMethod
	updated.UpdatedAt = s.now()

	if err := s.store.UpdateEvent(ctx, updated); err != nil {
		return nil, translateStoreErr(ctx, err, "event")
	}
	s.invalidateEventCache(id)
	s.recordAudit(actor, audit.ActionUpdated, "event", id, id, old, updated)
	return &updated, nil
}

// UpdateEventStatus advances an event one step through its lifecycle.
// Admins and operators; this is the only event write operators get.
func (s *Service) UpdateEventStatus(ctx context.Context, actor Actor, id string, to model.EventStatus) (*model.Event, error) {
	if !actor.IsStaff() {
		return nil, forbidden("only staff can change event status")
	}
	if !to.Valid() {
		return nil, invalidArg("status: unknown event status")
	}

	old, err := s.store.GetEvent(ctx, id, false)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "event")
	}
	if !lifecycle.CanTransitionEvent(old.Status, to) {
		return nil, invalidTransition("event cannot move from " + string(old.Status) + " to " + string(to))
	}

	updated := *old
	updated.Status = to
	updated.UpdatedAt = s.now()
	if err := s.store.UpdateEvent(ctx, updated); err != nil {
		return nil, translateStoreErr(ctx, err, "event")
	}
	s.invalidateEventCache(id)
	s.recordAudit(actor, audit.ActionStatusChanged, "event", id, id, old, updated)
	return &updated, nil
}

// DeleteEvent soft-deletes an event. Children are untouched; they survive
// and remain visible through their own reads. Admin only.
func (s *Service) DeleteEvent(ctx context.Context, actor Actor, id string) error {
	if !actor.IsAdmin() {
		return forbidden("only admins can delete events")
	}
	old, err := s.store.GetEvent(ctx, id, false)
	if err != nil {
		return translateStoreErr(ctx, err, "event")
	}
	if err := s.store.SoftDeleteEvent(ctx, id, s.now()); err != nil {
		return translateStoreErr(ctx, err, "event")
	}
	s.invalidateEventCache(id)
	s.recordAudit(actor, audit.ActionSoftDeleted, "event", id, id, old, nil)
	return nil
}
