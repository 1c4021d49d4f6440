package api

import (
	"net/http"

	"github.com/grillwire/cookoff/internal/model"
	"github.com/grillwire/cookoff/internal/service"
)

// HandleCreateSubmission returns a handler for POST /submissions.
func HandleCreateSubmission(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			TeamID     string `json:"team_id"`
			CategoryID string `json:"category_id"`
		}
		if err := DecodeBody(r, &req); err != nil {
			writeDecodeBodyError(w, err)
			return
		}
		sub, err := svc.CreateSubmission(r.Context(), ActorFrom(r), service.SubmissionInput{
			TeamID:     req.TeamID,
			CategoryID: req.CategoryID,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteSuccess(w, http.StatusCreated, sub)
	}
}

// HandleGetSubmission returns a handler for GET /submissions/{id}.
func HandleGetSubmission(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireUUIDPathParam(w, r, "id", "submission_id")
		if !ok {
			return
		}
		includeDeleted, ok := parseBoolQueryOrWriteInvalid(w, r, "include_deleted")
		if !ok {
			return
		}
		sub, err := svc.GetSubmission(r.Context(), ActorFrom(r), id, includeDeleted)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteSuccess(w, http.StatusOK, sub)
	}
}

// HandleListCategorySubmissions returns a handler for
// GET /categories/{categoryId}/submissions.
func HandleListCategorySubmissions(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, ok := requireUUIDPathParam(w, r, "categoryId", "category_id")
		if !ok {
			return
		}
		includeDeleted, ok := parseBoolQueryOrWriteInvalid(w, r, "include_deleted")
		if !ok {
			return
		}
		pg, ok := parsePaginationOrWriteInvalid(w, r)
		if !ok {
			return
		}
		subs, err := svc.ListSubmissionsByCategory(r.Context(), ActorFrom(r), categoryID, includeDeleted)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WritePage(w, http.StatusOK, subs, pg)
	}
}

// HandleListTeamSubmissions returns a handler for GET /teams/{teamId}/submissions.
func HandleListTeamSubmissions(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID, ok := requireUUIDPathParam(w, r, "teamId", "team_id")
		if !ok {
			return
		}
		includeDeleted, ok := parseBoolQueryOrWriteInvalid(w, r, "include_deleted")
		if !ok {
			return
		}
		pg, ok := parsePaginationOrWriteInvalid(w, r)
		if !ok {
			return
		}
		subs, err := svc.ListSubmissionsByTeam(r.Context(), ActorFrom(r), teamID, includeDeleted)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WritePage(w, http.StatusOK, subs, pg)
	}
}

// handleTransitionSubmission builds the handler shared by the three
// transition actions; each route binds one target status.
func handleTransitionSubmission(svc *service.Service, to model.SubmissionStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireUUIDPathParam(w, r, "id", "submission_id")
		if !ok {
			return
		}
		sub, err := svc.TransitionSubmission(r.Context(), ActorFrom(r), id, to)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteSuccess(w, http.StatusOK, sub)
	}
}

// HandleTurnInSubmission returns a handler for POST /submissions/{id}/turn-in.
func HandleTurnInSubmission(svc *service.Service) http.HandlerFunc {
	return handleTransitionSubmission(svc, model.SubmissionStatusTurnedIn)
}

// HandleStartJudgingSubmission returns a handler for POST /submissions/{id}/start-judging.
func HandleStartJudgingSubmission(svc *service.Service) http.HandlerFunc {
	return handleTransitionSubmission(svc, model.SubmissionStatusBeingJudged)
}

// HandleMarkSubmissionScored returns a handler for POST /submissions/{id}/mark-scored.
func HandleMarkSubmissionScored(svc *service.Service) http.HandlerFunc {
	return handleTransitionSubmission(svc, model.SubmissionStatusScored)
}

// HandleFinalizeSubmission returns a handler for POST /submissions/{id}/finalize.
func HandleFinalizeSubmission(svc *service.Service) http.HandlerFunc {
	return handleTransitionSubmission(svc, model.SubmissionStatusFinalized)
}

// HandleDeleteSubmission returns a handler for DELETE /submissions/{id}.
func HandleDeleteSubmission(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireUUIDPathParam(w, r, "id", "submission_id")
		if !ok {
			return
		}
		if err := svc.DeleteSubmission(r.Context(), ActorFrom(r), id); err != nil {
			writeServiceError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
