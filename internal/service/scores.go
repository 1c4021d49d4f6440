package service

import (
	"context"
	"math"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/grillwire/cookoff/internal/audit"
	"github.com/grillwire/cookoff/internal/model"
)

// stepEpsilon is the tolerance for step alignment of a score value.
const stepEpsilon = 1e-4

// ScoreInput carries the fields of a new score. SeatID is honored for
// admins only; a judge always scores as their own seat.
type ScoreInput struct {
	SubmissionID string
	SeatID       string
	CriterionID  string
	Value        decimal.Decimal
	Comment      string
	Phase        model.ScorePhase
}

// scoreable reports the submission statuses that accept scores.
func scoreable(st model.SubmissionStatus) bool {
	switch st {
	case model.SubmissionStatusTurnedIn, model.SubmissionStatusBeingJudged, model.SubmissionStatusScored:
		return true
	}
	return false
}

// validateScoreValue checks a value against the event's scale: inside
// [min, max] and aligned to the step grid within stepEpsilon.
func validateScoreValue(e *model.Event, v decimal.Decimal) error {
	if v.LessThan(e.ScaleMin) || v.GreaterThan(e.ScaleMax) {
		return invalidArg("score_value: outside the event's scoring scale")
	}
	ratio, _ := v.Sub(e.ScaleMin).Div(e.ScaleStep).Float64()
	if math.Abs(ratio-math.Round(ratio)) > stepEpsilon {
		return invalidArg("score_value: not aligned to the scoring step")
	}
	return nil
}

// CreateScore records one judge's score for one criterion of a submission.
// Judges may only score as themselves; admins may score as any seat. The
// submission must be turned in, being judged or scored.
func (s *Service) CreateScore(ctx context.Context, actor Actor, in ScoreInput) (*model.Score, error) {
	seatID := in.SeatID
	switch actor.Kind {
	case ActorKindJudge:
		seatID = actor.SeatID
	case ActorKindUser:
		if !actor.IsAdmin() {
			return nil, forbidden("only judges and admins can submit scores")
		}
		if seatID == "" {
			return nil, invalidArg("seat_id: required when scoring as admin")
		}
	default:
		return nil, forbidden("only judges and admins can submit scores")
	}
	if !in.Phase.Valid() {
		return nil, invalidArg("phase: must be appearance or taste_texture")
	}

	sub, err := s.store.GetSubmission(ctx, in.SubmissionID, false)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "submission")
	}
	if !scoreable(sub.Status) {
		return nil, invalidTransition("submission is not open for scoring in status " + string(sub.Status))
	}

	// The submission's category pins the owning event; criterion and seat
	// must belong to it, and the value is checked against its scale.
	category, err := s.store.GetCategory(ctx, sub.CategoryID, true)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "category")
	}
	criterion, err := s.store.GetCriterion(ctx, in.CriterionID, false)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "criterion")
	}
	if criterion.EventID != category.EventID {
		return nil, conflict("criterion belongs to a different event")
	}
	seat, err := s.store.GetSeat(ctx, seatID, false)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "seat")
	}
	table, err := s.store.GetTable(ctx, seat.TableID, true)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "table")
	}
	if table.EventID != category.EventID {
		return nil, conflict("seat belongs to a different event")
	}

	event, err := s.cachedEvent(ctx, category.EventID)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "event")
	}
	if err := validateScoreValue(event, in.Value); err != nil {
		return nil, err
	}

	now := s.now()
	score := model.Score{
		ID:           uuid.NewString(),
		SubmissionID: in.SubmissionID,
		SeatID:       seatID,
		CriterionID:  in.CriterionID,
		Value:        in.Value,
		Comment:      in.Comment,
		Phase:        in.Phase,
		SubmittedAt:  now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateScore(ctx, score); err != nil {
		return nil, translateStoreErr(ctx, err, "score")
	}
	s.recordAudit(actor, audit.ActionCreated, "score", score.ID, event.ID, nil, score)
	return &score, nil
}

// GetScore returns one score. Judges may only read their own.
func (s *Service) GetScore(ctx context.Context, actor Actor, id string) (*model.Score, error) {
	score, err := s.store.GetScore(ctx, id)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "score")
	}
	if actor.Kind == ActorKindJudge && score.SeatID != actor.SeatID {
		return nil, forbidden("judges can only read their own scores")
	}
	return score, nil
}

// ListScoresBySubmission returns a submission's scores. Judges see only
// their own rows.
func (s *Service) ListScoresBySubmission(ctx context.Context, actor Actor, submissionID string) ([]model.Score, error) {
	if _, err := s.store.GetSubmission(ctx, submissionID, includeDeletedFor(actor, true)); err != nil {
		return nil, translateStoreErr(ctx, err, "submission")
	}
	scores, err := s.store.ListScoresBySubmission(ctx, submissionID)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "score")
	}
	if actor.Kind == ActorKindJudge {
		own := scores[:0]
		for _, sc := range scores {
			if sc.SeatID == actor.SeatID {
				own = append(own, sc)
			}
		}
		scores = own
	}
	return scores, nil
}

// UpdateScore rewrites a score's value and comment. Only the originating
// seat or an admin may edit.
func (s *Service) UpdateScore(ctx context.Context, actor Actor, id string, value decimal.Decimal, comment string) (*model.Score, error) {
	old, err := s.store.GetScore(ctx, id)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "score")
	}
	switch {
	case actor.IsAdmin():
	case actor.Kind == ActorKindJudge && actor.SeatID == old.SeatID:
	default:
		return nil, forbidden("only the originating seat or an admin can edit a score")
	}

	criterion, err := s.store.GetCriterion(ctx, old.CriterionID, true)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "criterion")
	}
	event, err := s.cachedEvent(ctx, criterion.EventID)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "event")
	}
	if err := validateScoreValue(event, value); err != nil {
		return nil, err
	}

	updated := *old
	updated.Value = value
	updated.Comment = comment
	updated.UpdatedAt = s.now()
	if err := s.store.UpdateScore(ctx, updated); err != nil {
		return nil, translateStoreErr(ctx, err, "score")
	}
	s.recordAudit(actor, audit.ActionUpdated, "score", id, event.ID, old, updated)
	return &updated, nil
}

// DeleteScore hard-deletes a score. Admin only; the audit entry keeps the
// removed row as its old value.
func (s *Service) DeleteScore(ctx context.Context, actor Actor, id string) error {
	if !actor.IsAdmin() {
		return forbidden("only admins can delete scores")
	}
	old, err := s.store.GetScore(ctx, id)
	if err != nil {
		return translateStoreErr(ctx, err, "score")
	}
	if err := s.store.DeleteScore(ctx, id); err != nil {
		return translateStoreErr(ctx, err, "score")
	}

	eventID := ""
	if criterion, err := s.store.GetCriterion(ctx, old.CriterionID, true); err == nil {
		eventID = criterion.EventID
	}
	s.recordAudit(actor, audit.ActionSoftDeleted, "score", id, eventID, old, nil)
	return nil
}
