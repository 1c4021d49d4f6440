package api

import (
	"net/http"

	"github.com/grillwire/cookoff/internal/model"
	"github.com/grillwire/cookoff/internal/service"
)

// HandleAssignmentPlan returns a handler for POST /categories/{id}/assignment-plan.
// The body is optional; without a seed the plan uses the deterministic
// per-category default and is reproducible across calls.
func HandleAssignmentPlan(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, ok := requireUUIDPathParam(w, r, "id", "category_id")
		if !ok {
			return
		}
		var seed *int64
		if r.ContentLength != 0 {
			var req struct {
				Seed *int64 `json:"seed"`
			}
			if err := DecodeBody(r, &req); err != nil {
				writeDecodeBodyError(w, err)
				return
			}
			seed = req.Seed
		}
		plan, err := svc.GenerateAssignmentPlan(r.Context(), ActorFrom(r), categoryID, seed)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteSuccess(w, http.StatusOK, plan)
	}
}

// HandleNextSubmission returns a handler for
// GET /categories/{categoryId}/tables/{tableId}/seats/{seatId}/next?phase=…
func HandleNextSubmission(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, ok := requireUUIDPathParam(w, r, "categoryId", "category_id")
		if !ok {
			return
		}
		tableID, ok := requireUUIDPathParam(w, r, "tableId", "table_id")
		if !ok {
			return
		}
		seatID, ok := requireUUIDPathParam(w, r, "seatId", "seat_id")
		if !ok {
			return
		}
		phase := model.ScorePhase(r.URL.Query().Get("phase"))

		next, err := svc.GetNextSubmission(r.Context(), ActorFrom(r), categoryID, tableID, seatID, phase)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteSuccess(w, http.StatusOK, next)
	}
}
