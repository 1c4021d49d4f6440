package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/grillwire/cookoff/internal/audit"
	"github.com/grillwire/cookoff/internal/model"
)

// CriterionInput carries the writable fields of a criterion.
type CriterionInput struct {
	Name      string
	Weight    decimal.Decimal
	SortOrder int
}

func validateCriterionInput(in CriterionInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return invalidArg("name: must be non-empty")
	}
	if in.Weight.IsNegative() {
		return invalidArg("weight: must be >= 0")
	}
	return nil
}

// CreateCriterion creates a criterion under an event.
func (s *Service) CreateCriterion(ctx context.Context, actor Actor, eventID string, in CriterionInput) (*model.Criterion, error) {
	if !actor.IsStaff() {
		return nil, forbidden("only staff can create criteria")
	}
	if err := validateCriterionInput(in); err != nil {
		return nil, err
	}
	if _, err := s.store.GetEvent(ctx, eventID, false); err != nil {
		return nil, translateStoreErr(ctx, err, "event")
	}

	now := s.now()
	c := model.Criterion{
		ID:        uuid.NewString(),
		EventID:   eventID,
		Name:      strings.TrimSpace(in.Name),
		Weight:    in.Weight,
		SortOrder: in.SortOrder,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateCriterion(ctx, c); err != nil {
		return nil, translateStoreErr(ctx, err, "criterion")
	}
	s.recordAudit(actor, audit.ActionCreated, "criterion", c.ID, eventID, nil, c)
	return &c, nil
}

// CreateCriteria bulk-creates criteria, all-or-nothing.
func (s *Service) CreateCriteria(ctx context.Context, actor Actor, eventID string, inputs []CriterionInput) ([]model.Criterion, error) {
	if !actor.IsStaff() {
		return nil, forbidden("only staff can create criteria")
	}
	if len(inputs) == 0 {
		return nil, invalidArg("items: must not be empty")
	}
	seen := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		if err := validateCriterionInput(in); err != nil {
			return nil, err
		}
		name := strings.TrimSpace(in.Name)
		if seen[name] {
			return nil, conflict("duplicate criterion name in request")
		}
		seen[name] = true
	}
	if _, err := s.store.GetEvent(ctx, eventID, false); err != nil {
		return nil, translateStoreErr(ctx, err, "event")
	}

	now := s.now()
	criteria := make([]model.Criterion, 0, len(inputs))
	for _, in := range inputs {
		criteria = append(criteria, model.Criterion{
			ID:        uuid.NewString(),
			EventID:   eventID,
			Name:      strings.TrimSpace(in.Name),
			Weight:    in.Weight,
			SortOrder: in.SortOrder,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if err := s.store.CreateCriteria(ctx, criteria); err != nil {
		return nil, translateStoreErr(ctx, err, "criterion")
	}
	for _, c := range criteria {
		s.recordAudit(actor, audit.ActionCreated, "criterion", c.ID, eventID, nil, c)
	}
	return criteria, nil
}

// GetCriterion returns one criterion.
func (s *Service) GetCriterion(ctx context.Context, actor Actor, id string, includeDeleted bool) (*model.Criterion, error) {
	c, err := s.store.GetCriterion(ctx, id, includeDeletedFor(actor, includeDeleted))
	if err != nil {
		return nil, translateStoreErr(ctx, err, "criterion")
	}
	return c, nil
}

// ListCriteria returns an event's criteria in sort order.
func (s *Service) ListCriteria(ctx context.Context, actor Actor, eventID string, includeDeleted bool) ([]model.Criterion, error) {
	criteria, err := s.store.ListCriteriaByEvent(ctx, eventID, includeDeletedFor(actor, includeDeleted))
	if err != nil {
		return nil, translateStoreErr(ctx, err, "criterion")
	}
	return criteria, nil
}

// UpdateCriterion rewrites a criterion's writable fields.
func (s *Service) UpdateCriterion(ctx context.Context, actor Actor, id string, in CriterionInput) (*model.Criterion, error) {
	if !actor.IsStaff() {
		return nil, forbidden("only staff can update criteria")
	}
	if err := validateCriterionInput(in); err != nil {
		return nil, err
	}
	old, err := s.store.GetCriterion(ctx, id, false)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "criterion")
	}

	updated := *old
	updated.Name = strings.TrimSpace(in.Name)
	updated.Weight = in.Weight
	updated.SortOrder = in.SortOrder
	updated.UpdatedAt = s.now()
	if err := s.store.UpdateCriterion(ctx, updated); err != nil {
		return nil, translateStoreErr(ctx, err, "criterion")
	}
	s.recordAudit(actor, audit.ActionUpdated, "criterion", id, old.EventID, old, updated)
	return &updated, nil
}

// DeleteCriterion soft-deletes a criterion. Existing scores against it
// survive but stop contributing to results.
func (s *Service) DeleteCriterion(ctx context.Context, actor Actor, id string) error {
	if !actor.IsStaff() {
		return forbidden("only staff can delete criteria")
	}
	old, err := s.store.GetCriterion(ctx, id, false)
	if err != nil {
		return translateStoreErr(ctx, err, "criterion")
	}
	if err := s.store.SoftDeleteCriterion(ctx, id, s.now()); err != nil {
		return translateStoreErr(ctx, err, "criterion")
	}
	s.recordAudit(actor, audit.ActionSoftDeleted, "criterion", id, old.EventID, old, nil)
	return nil
}
