package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/grillwire/cookoff/internal/audit"
	"github.com/grillwire/cookoff/internal/lifecycle"
	"github.com/grillwire/cookoff/internal/model"
)

// SubmissionInput carries the fields of a new submission.
type SubmissionInput struct {
	TeamID     string
	CategoryID string
}

// CreateSubmission enters a team into a category. Team and category must
// belong to the same event; a cross-event pair is a conflict, not a
// validation error, matching the uniqueness taxonomy.
func (s *Service) CreateSubmission(ctx context.Context, actor Actor, in SubmissionInput) (*model.Submission, error) {
	if !actor.IsStaff() {
		return nil, forbidden("only staff can create submissions")
	}
	if in.TeamID == "" || in.CategoryID == "" {
		return nil, invalidArg("team_id and category_id are required")
	}

	team, err := s.store.GetTeam(ctx, in.TeamID, false)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "team")
	}
	category, err := s.store.GetCategory(ctx, in.CategoryID, false)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "category")
	}
	if team.EventID != category.EventID {
		return nil, conflict("team and category belong to different events")
	}

	now := s.now()
	sub := model.Submission{
		ID:         uuid.NewString(),
		TeamID:     in.TeamID,
		CategoryID: in.CategoryID,
		Status:     model.SubmissionStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.CreateSubmission(ctx, sub); err != nil {
		return nil, translateStoreErr(ctx, err, "submission")
	}
	s.recordAudit(actor, audit.ActionCreated, "submission", sub.ID, team.EventID, nil, sub)
	return &sub, nil
}

// GetSubmission returns one submission.
func (s *Service) GetSubmission(ctx context.Context, actor Actor, id string, includeDeleted bool) (*model.Submission, error) {
	sub, err := s.store.GetSubmission(ctx, id, includeDeletedFor(actor, includeDeleted))
	if err != nil {
		return nil, translateStoreErr(ctx, err, "submission")
	}
	return sub, nil
}

// ListSubmissionsByCategory returns a category's submissions in creation order.
func (s *Service) ListSubmissionsByCategory(ctx context.Context, actor Actor, categoryID string, includeDeleted bool) ([]model.Submission, error) {
	subs, err := s.store.ListSubmissionsByCategory(ctx, categoryID, includeDeletedFor(actor, includeDeleted))
	if err != nil {
		return nil, translateStoreErr(ctx, err, "submission")
	}
	return subs, nil
}

// ListSubmissionsByTeam returns a team's submissions.
func (s *Service) ListSubmissionsByTeam(ctx context.Context, actor Actor, teamID string, includeDeleted bool) ([]model.Submission, error) {
	subs, err := s.store.ListSubmissionsByTeam(ctx, teamID, includeDeletedFor(actor, includeDeleted))
	if err != nil {
		return nil, translateStoreErr(ctx, err, "submission")
	}
	return subs, nil
}

// TransitionSubmission advances a submission one step through its
// lifecycle. Moving to turned_in stamps turned_in_at.
func (s *Service) TransitionSubmission(ctx context.Context, actor Actor, id string, to model.SubmissionStatus) (*model.Submission, error) {
	if !actor.IsStaff() {
		return nil, forbidden("only staff can change submission status")
	}
	if !to.Valid() {
		return nil, invalidArg("status: unknown submission status")
	}

	old, err := s.store.GetSubmission(ctx, id, false)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "submission")
	}
	if !lifecycle.CanTransitionSubmission(old.Status, to) {
		return nil, invalidTransition("submission cannot move from " + string(old.Status) + " to " + string(to))
	}

	now := s.now()
	updated := *old
	updated.Status = to
	updated.UpdatedAt = now
	if to == model.SubmissionStatusTurnedIn {
		updated.TurnedInAt = &now
	}
	if err := s.store.UpdateSubmissionStatus(ctx, id, updated.Status, updated.TurnedInAt, now); err != nil {
		return nil, translateStoreErr(ctx, err, "submission")
	}

	eventID := s.submissionEventID(ctx, &updated)
	s.recordAudit(actor, audit.ActionStatusChanged, "submission", id, eventID, old, updated)
	return &updated, nil
}

// DeleteSubmission soft-deletes a submission. Its scores survive for the
// audit trail but stop appearing in results.
func (s *Service) DeleteSubmission(ctx context.Context, actor Actor, id string) error {
	if !actor.IsStaff() {
		return forbidden("only staff can delete submissions")
	}
	old, err := s.store.GetSubmission(ctx, id, false)
	if err != nil {
		return translateStoreErr(ctx, err, "submission")
	}
	if err := s.store.SoftDeleteSubmission(ctx, id, s.now()); err != nil {
		return translateStoreErr(ctx, err, "submission")
	}
	s.recordAudit(actor, audit.ActionSoftDeleted, "submission", id, s.submissionEventID(ctx, old), old, nil)
	return nil
}

// submissionEventID resolves the owning event for audit scoping.
// Best-effort; an empty string just leaves the audit row unscoped.
func (s *Service) submissionEventID(ctx context.Context, sub *model.Submission) string {
	team, err := s.store.GetTeam(ctx, sub.TeamID, true)
	if err != nil {
		return ""
	}
	return team.EventID
}
