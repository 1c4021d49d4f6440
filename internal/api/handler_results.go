package api

import (
	"net/http"

	"github.com/grillwire/cookoff/internal/service"
)

// HandleSubmissionResult returns a handler for GET /submissions/{id}/result.
func HandleSubmissionResult(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireUUIDPathParam(w, r, "id", "submission_id")
		if !ok {
			return
		}
		result, err := svc.GetSubmissionResult(r.Context(), ActorFrom(r), id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteSuccess(w, http.StatusOK, result)
	}
}

// HandleCategoryResults returns a handler for
// GET /events/{eventId}/categories/{categoryId}/results.
func HandleCategoryResults(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, ok := requireUUIDPathParam(w, r, "categoryId", "category_id")
		if !ok {
			return
		}
		results, err := svc.GetCategoryResults(r.Context(), ActorFrom(r), categoryID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteSuccess(w, http.StatusOK, results)
	}
}

// HandleEventResults returns a handler for GET /events/{id}/results.
func HandleEventResults(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireUUIDPathParam(w, r, "id", "event_id")
		if !ok {
			return
		}
		results, err := svc.GetEventResults(r.Context(), ActorFrom(r), id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteSuccess(w, http.StatusOK, results)
	}
}
