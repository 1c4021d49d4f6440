package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/grillwire/cookoff/internal/audit"
	"github.com/grillwire/cookoff/internal/model"
)

// CategoryInput carries the writable fields of a category.
type CategoryInput struct {
	Name      string
	SortOrder int
}

// CreateCategory creates a category under an event.
func (s *Service) CreateCategory(ctx context.Context, actor Actor, eventID string, in CategoryInput) (*model.Category, error) {
	if !actor.IsStaff() {
		return nil, forbidden("only staff can create categories")
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, invalidArg("name: must be non-empty")
	}
	if _, err := s.store.GetEvent(ctx, eventID, false); err != nil {
		return nil, translateStoreErr(ctx, err, "event")
	}

	now := s.now()
	c := model.Category{
		ID:        uuid.NewString(),
		EventID:   eventID,
		Name:      strings.TrimSpace(in.Name),
		SortOrder: in.SortOrder,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateCategory(ctx, c); err != nil {
		return nil, translateStoreErr(ctx, err, "category")
	}
	s.recordAudit(actor, audit.ActionCreated, "category", c.ID, eventID, nil, c)
	return &c, nil
}

// CreateCategories bulk-creates categories, all-or-nothing.
func (s *Service) CreateCategories(ctx context.Context, actor Actor, eventID string, inputs []CategoryInput) ([]model.Category, error) {
	if !actor.IsStaff() {
		return nil, forbidden("only staff can create categories")
	}
	if len(inputs) == 0 {
		return nil, invalidArg("items: must not be empty")
	}
	seen := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return nil, invalidArg("name: must be non-empty")
		}
		if seen[name] {
			return nil, conflict("duplicate category name in request")
		}
		seen[name] = true
	}
	if _, err := s.store.GetEvent(ctx, eventID, false); err != nil {
		return nil, translateStoreErr(ctx, err, "event")
	}

	now := s.now()
	categories := make([]model.Category, 0, len(inputs))
	for _, in := range inputs {
		categories = append(categories, model.Category{
			ID:        uuid.NewString(),
			EventID:   eventID,
			Name:      strings.TrimSpace(in.Name),
			SortOrder: in.SortOrder,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if err := s.store.CreateCategories(ctx, categories); err != nil {
		return nil, translateStoreErr(ctx, err, "category")
	}
	for _, c := range categories {
		s.recordAudit(actor, audit.ActionCreated, "category", c.ID, eventID, nil, c)
	}
	return categories, nil
}

// GetCategory returns one category.
func (s *Service) GetCategory(ctx context.Context, actor Actor, id string, includeDeleted bool) (*model.Category, error) {
	c, err := s.store.GetCategory(ctx, id, includeDeletedFor(actor, includeDeleted))
	if err != nil {
		return nil, translateStoreErr(ctx, err, "category")
	}
	return c, nil
}

// ListCategories returns an event's categories.
func (s *Service) ListCategories(ctx context.Context, actor Actor, eventID string, includeDeleted bool) ([]model.Category, error) {
	categories, err := s.store.ListCategoriesByEvent(ctx, eventID, includeDeletedFor(actor, includeDeleted))
	if err != nil {
		return nil, translateStoreErr(ctx, err, "category")
	}
	return categories, nil
}

// UpdateCategory rewrites a category's writable fields.
func (s *Service) UpdateCategory(ctx context.Context, actor Actor, id string, in CategoryInput) (*model.Category, error) {
	if !actor.IsStaff() {
		return nil, forbidden("only staff can update categories")
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, invalidArg("name: must be non-empty")
	}
	old, err := s.store.GetCategory(ctx, id, false)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "category")
	}

	updated := *old
	updated.Name = strings.TrimSpace(in.Name)
	updated.SortOrder = in.SortOrder
	updated.UpdatedAt = s.now()
	if err := s.store.UpdateCategory(ctx, updated); err != nil {
		return nil, translateStoreErr(ctx, err, "category")
	}
	s.recordAudit(actor, audit.ActionUpdated, "category", id, old.EventID, old, updated)
	return &updated, nil
}

// DeleteCategory soft-deletes a category. A new category may immediately
// reuse the name; the partial unique index ignores deleted rows.
func (s *Service) DeleteCategory(ctx context.Context, actor Actor, id string) error {
	if !actor.IsStaff() {
		return forbidden("only staff can delete categories")
	}
	old, err := s.store.GetCategory(ctx, id, false)
	if err != nil {
		return translateStoreErr(ctx, err, "category")
	}
	if err := s.store.SoftDeleteCategory(ctx, id, s.now()); err != nil {
		return translateStoreErr(ctx, err, "category")
	}
	s.recordAudit(actor, audit.ActionSoftDeleted, "category", id, old.EventID, old, nil)
	return nil
}
