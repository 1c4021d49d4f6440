package api

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/grillwire/cookoff/internal/model"
	"github.com/grillwire/cookoff/internal/service"
)

// HandleCreateScore returns a handler for POST /submissions/{id}/scores.
// Judges score as their own seat; admins must name one via seat_id.
func HandleCreateScore(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		submissionID, ok := requireUUIDPathParam(w, r, "id", "submission_id")
		if !ok {
			return
		}
		var req struct {
			SeatID      string          `json:"seat_id"`
			CriterionID string          `json:"criterion_id"`
			Value       decimal.Decimal `json:"value"`
			Comment     string          `json:"comment"`
			Phase       string          `json:"phase"`
		}
		if err := DecodeBody(r, &req); err != nil {
			writeDecodeBodyError(w, err)
			return
		}
		score, err := svc.CreateScore(r.Context(), ActorFrom(r), service.ScoreInput{
			SubmissionID: submissionID,
			SeatID:       req.SeatID,
			CriterionID:  req.CriterionID,
			Value:        req.Value,
			Comment:      req.Comment,
			Phase:        model.ScorePhase(req.Phase),
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteSuccess(w, http.StatusCreated, score)
	}
}

// HandleListSubmissionScores returns a handler for GET /submissions/{id}/scores.
func HandleListSubmissionScores(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		submissionID, ok := requireUUIDPathParam(w, r, "id", "submission_id")
		if !ok {
			return
		}
		pg, ok := parsePaginationOrWriteInvalid(w, r)
		if !ok {
			return
		}
		scores, err := svc.ListScoresBySubmission(r.Context(), ActorFrom(r), submissionID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WritePage(w, http.StatusOK, scores, pg)
	}
}

// HandleGetScore returns a handler for GET /scores/{id}.
func HandleGetScore(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireUUIDPathParam(w, r, "id", "score_id")
		if !ok {
			return
		}
		score, err := svc.GetScore(r.Context(), ActorFrom(r), id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteSuccess(w, http.StatusOK, score)
	}
}

// HandlePatchScore returns a handler for PATCH /scores/{id}.
func HandlePatchScore(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireUUIDPathParam(w, r, "id", "score_id")
		if !ok {
			return
		}
		var req struct {
			Value   *decimal.Decimal `json:"value"`
			Comment *string          `json:"comment"`
		}
		if err := DecodeBody(r, &req); err != nil {
			writeDecodeBodyError(w, err)
			return
		}
		actor := ActorFrom(r)
		current, err := svc.GetScore(r.Context(), actor, id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		value := current.Value
		comment := current.Comment
		if req.Value != nil {
			value = *req.Value
		}
		if req.Comment != nil {
			comment = *req.Comment
		}
		score, err := svc.UpdateScore(r.Context(), actor, id, value, comment)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteSuccess(w, http.StatusOK, score)
	}
}

// HandleDeleteScore returns a handler for DELETE /scores/{id}. Admin only;
// the one hard delete in the system.
func HandleDeleteScore(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireUUIDPathParam(w, r, "id", "score_id")
		if !ok {
			return
		}
		if err := svc.DeleteScore(r.Context(), ActorFrom(r), id); err != nil {
			writeServiceError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
