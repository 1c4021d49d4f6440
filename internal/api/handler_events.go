package api

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/grillwire/cookoff/internal/model"
	"github.com/grillwire/cookoff/internal/service"
)

type eventRequest struct {
	Name              string          `json:"name"`
	Date              string          `json:"date"`
	Location          string          `json:"location"`
	ScaleMin          decimal.Decimal `json:"scoring_scale_min"`
	ScaleMax          decimal.Decimal `json:"scoring_scale_max"`
	ScaleStep         decimal.Decimal `json:"scoring_scale_step"`
	AggregationMethod string          `json:"aggregation_method"`
}

func (req eventRequest) toInput() service.EventInput {
	return service.EventInput{
		Name:              req.Name,
		Date:              req.Date,
		Location:          req.Location,
		ScaleMin:          req.ScaleMin,
		ScaleMax:          req.ScaleMax,
		ScaleStep:         req.ScaleStep,
		AggregationMethod: model.AggregationMethod(req.AggregationMethod),
	}
}

// HandleCreateEvent returns a handler for POST /events.
func HandleCreateEvent(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req eventRequest
		if err := DecodeBody(r, &req); err != nil {
			writeDecodeBodyError(w, err)
			return
		}
		event, err := svc.CreateEvent(r.Context(), ActorFrom(r), req.toInput())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteSuccess(w, http.StatusCreated, event)
	}
}

// HandleListEvents returns a handler for GET /events.
func HandleListEvents(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		includeDeleted, ok := parseBoolQueryOrWriteInvalid(w, r, "include_deleted")
		if !ok {
			return
		}
		pg, ok := parsePaginationOrWriteInvalid(w, r)
		if !ok {
			return
		}
		events, err := svc.ListEvents(r.Context(), ActorFrom(r), includeDeleted)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WritePage(w, http.StatusOK, events, pg)
	}
}

// HandleGetEvent returns a handler for GET /events/{id}.
func HandleGetEvent(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireUUIDPathParam(w, r, "id", "event_id")
		if !ok {
			return
		}
		includeDeleted, ok := parseBoolQueryOrWriteInvalid(w, r, "include_deleted")
		if !ok {
			return
		}
		event, err := svc.GetEvent(r.Context(), ActorFrom(r), id, includeDeleted)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteSuccess(w, http.StatusOK, event)
	}
}

type eventPatchRequest struct {
	Name              *string          `json:"name"`
	Date              *string          `json:"date"`
	Location          *string          `json:"location"`
	ScaleMin          *decimal.Decimal `json:"scoring_scale_min"`
	ScaleMax          *decimal.Decimal `json:"scoring_scale_max"`
	ScaleStep         *decimal.Decimal `json:"scoring_scale_step"`
	AggregationMethod *string          `json:"aggregation_method"`
	Status            *string          `json:"status"`
}

func (req eventPatchRequest) hasNonStatusField() bool {
	return req.Name != nil || req.Date != nil || req.Location != nil ||
		req.ScaleMin != nil || req.ScaleMax != nil || req.ScaleStep != nil ||
		req.AggregationMethod != nil
}

// HandlePatchEvent returns a handler for PATCH /events/{id}. A body whose
// only field is status performs a lifecycle transition (admin and operator);
// any other body is a field update (admin only) and may not carry status.
func HandlePatchEvent(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireUUIDPathParam(w, r, "id", "event_id")
		if !ok {
			return
		}
		var req eventPatchRequest
		if err := DecodeBody(r, &req); err != nil {
			writeDecodeBodyError(w, err)
			return
		}
		actor := ActorFrom(r)

		if req.Status != nil {
			if req.hasNonStatusField() {
				writeInvalidArgument(w, "status: must be the only field in a status update")
				return
			}
			event, err := svc.UpdateEventStatus(r.Context(), actor, id, model.EventStatus(*req.Status))
			if err != nil {
				writeServiceError(w, r, err)
				return
			}
			WriteSuccess(w, http.StatusOK, event)
			return
		}
		if !actor.IsAdmin() {
			WriteError(w, http.StatusForbidden, service.CodeForbidden, "only admins can update event fields")
			return
		}

		current, err := svc.GetEvent(r.Context(), actor, id, false)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		in := service.EventInput{
			Name:              current.Name,
			Date:              current.Date,
			Location:          current.Location,
			ScaleMin:          current.ScaleMin,
			ScaleMax:          current.ScaleMax,
			ScaleStep:         current.ScaleStep,
			AggregationMethod: current.AggregationMethod,
		}
		if req.Name != nil {
			in.Name = *req.Name
		}
		if req.Date != nil {
			in.Date = *req.Date
		}
		if req.Location != nil {
			in.Location = *req.Location
		}
		if req.ScaleMin != nil {
			in.ScaleMin = *req.ScaleMin
		}
		if req.ScaleMax != nil {
			in.ScaleMax = *req.ScaleMax
		}
		if req.ScaleStep != nil {
			in.ScaleStep = *req.ScaleStep
		}
		if req.AggregationMethod != nil {
			in.AggregationMethod = model.AggregationMethod(*req.AggregationMethod)
		}

		event, err := svc.UpdateEvent(r.Context(), actor, id, in)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteSuccess(w, http.StatusOK, event)
	}
}

// HandleDeleteEvent returns a handler for DELETE /events/{id}.
func HandleDeleteEvent(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireUUIDPathParam(w, r, "id", "event_id")
		if !ok {
			return
		}
		if err := svc.DeleteEvent(r.Context(), ActorFrom(r), id); err != nil {
			writeServiceError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
