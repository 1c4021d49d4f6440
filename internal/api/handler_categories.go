package api

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/grillwire/cookoff/internal/service"
)

type categoryRequest struct {
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

// HandleCreateCategory returns a handler for POST /events/{eventId}/categories.
func HandleCreateCategory(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := requireUUIDPathParam(w, r, "eventId", "event_id")
		if !ok {
			return
		}
		var req categoryRequest
		if err := DecodeBody(r, &req); err != nil {
			writeDecodeBodyError(w, err)
			return
		}
		category, err := svc.CreateCategory(r.Context(), ActorFrom(r), eventID, service.CategoryInput{
			Name:      req.Name,
			SortOrder: req.SortOrder,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteSuccess(w, http.StatusCreated, category)
	}
}

// HandleCreateCategoriesBulk returns a handler for POST /events/{eventId}/categories/bulk.
func HandleCreateCategoriesBulk(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := requireUUIDPathParam(w, r, "eventId", "event_id")
		if !ok {
			return
		}
		var req struct {
			Items []categoryRequest `json:"items"`
		}
		if err := DecodeBody(r, &req); err != nil {
			writeDecodeBodyError(w, err)
			return
		}
		inputs := make([]service.CategoryInput, len(req.Items))
		for i, item := range req.Items {
			inputs[i] = service.CategoryInput{Name: item.Name, SortOrder: item.SortOrder}
		}
		categories, err := svc.CreateCategories(r.Context(), ActorFrom(r), eventID, inputs)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteSuccess(w, http.StatusCreated, categories)
	}
}

// HandleListCategories returns a handler for GET /events/{eventId}/categories.
func HandleListCategories(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := requireUUIDPathParam(w, r, "eventId", "event_id")
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
		categories, err := svc.ListCategories(r.Context(), ActorFrom(r), eventID, includeDeleted)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WritePage(w, http.StatusOK, categories, pg)
	}
}

// HandleGetCategory returns a handler for GET /categories/{id}.
func HandleGetCategory(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireUUIDPathParam(w, r, "id", "category_id")
		if !ok {
			return
		}
		includeDeleted, ok := parseBoolQueryOrWriteInvalid(w, r, "include_deleted")
		if !ok {
			return
		}
		category, err := svc.GetCategory(r.Context(), ActorFrom(r), id, includeDeleted)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteSuccess(w, http.StatusOK, category)
	}
}

// HandlePatchCategory returns a handler for PATCH /categories/{id}.
func HandlePatchCategory(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireUUIDPathParam(w, r, "id", "category_id")
		if !ok {
			return
		}
		var req struct {
			Name      *string `json:"name"`
			SortOrder *int    `json:"sort_order"`
		}
		if err := DecodeBody(r, &req); err != nil {
			writeDecodeBodyError(w, err)
			return
		}
		actor := ActorFrom(r)
		current, err := svc.GetCategory(r.Context(), actor, id, false)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		in := service.CategoryInput{Name: current.Name, SortOrder: current.SortOrder}
		if req.Name != nil {
			in.Name = *req.Name
		}
		if req.SortOrder != nil {
			in.SortOrder = *req.SortOrder
		}
		category, err := svc.UpdateCategory(r.Context(), actor, id, in)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteSuccess(w, http.StatusOK, category)
	}
}

// HandleDeleteCategory returns a handler for DELETE /categories/{id}.
func HandleDeleteCategory(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireUUIDPathParam(w, r, "id", "category_id")
		if !ok {
			return
		}
		if err := svc.DeleteCategory(r.Context(), ActorFrom(r), id); err != nil {
			writeServiceError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type criterionRequest struct {
	Name      string           `json:"name"`
	Weight    *decimal.Decimal `json:"weight"`
	SortOrder int              `json:"sort_order"`
}

func (req criterionRequest) toInput() service.CriterionInput {
	weight := decimal.NewFromInt(1)
	if req.Weight != nil {
		weight = *req.Weight
	}
	return service.CriterionInput{Name: req.Name, Weight: weight, SortOrder: req.SortOrder}
}

// HandleCreateCriterion returns a handler for POST /events/{eventId}/criteria.
func HandleCreateCriterion(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := requireUUIDPathParam(w, r, "eventId", "event_id")
		if !ok {
			return
		}
		var req criterionRequest
		if err := DecodeBody(r, &req); err != nil {
			writeDecodeBodyError(w, err)
			return
		}
		criterion, err := svc.CreateCriterion(r.Context(), ActorFrom(r), eventID, req.toInput())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteSuccess(w, http.StatusCreated, criterion)
	}
}

// HandleCreateCriteriaBulk returns a handler for POST /events/{eventId}/criteria/bulk.
func HandleCreateCriteriaBulk(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := requireUUIDPathParam(w, r, "eventId", "event_id")
		if !ok {
			return
		}
		var req struct {
			Items []criterionRequest `json:"items"`
		}
		if err := DecodeBody(r, &req); err != nil {
			writeDecodeBodyError(w, err)
			return
		}
		inputs := make([]service.CriterionInput, len(req.Items))
		for i, item := range req.Items {
			inputs[i] = item.toInput()
		}
		criteria, err := svc.CreateCriteria(r.Context(), ActorFrom(r), eventID, inputs)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteSuccess(w, http.StatusCreated, criteria)
	}
}

// HandleListCriteria returns a handler for GET /events/{eventId}/criteria.
func HandleListCriteria(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := requireUUIDPathParam(w, r, "eventId", "event_id")
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
		criteria, err := svc.ListCriteria(r.Context(), ActorFrom(r), eventID, includeDeleted)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WritePage(w, http.StatusOK, criteria, pg)
	}
}

// HandleGetCriterion returns a handler for GET /criteria/{id}.
func HandleGetCriterion(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireUUIDPathParam(w, r, "id", "criterion_id")
		if !ok {
			return
		}
		includeDeleted, ok := parseBoolQueryOrWriteInvalid(w, r, "include_deleted")
		if !ok {
			return
		}
		criterion, err := svc.GetCriterion(r.Context(), ActorFrom(r), id, includeDeleted)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteSuccess(w, http.StatusOK, criterion)
	}
}

// HandlePatchCriterion returns a handler for PATCH /criteria/{id}.
func HandlePatchCriterion(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireUUIDPathParam(w, r, "id", "criterion_id")
		if !ok {
			return
		}
		var req struct {
			Name      *string          `json:"name"`
			Weight    *decimal.Decimal `json:"weight"`
			SortOrder *int             `json:"sort_order"`
		}
		if err := DecodeBody(r, &req); err != nil {
			writeDecodeBodyError(w, err)
			return
		}
		actor := ActorFrom(r)
		current, err := svc.GetCriterion(r.Context(), actor, id, false)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		in := service.CriterionInput{Name: current.Name, Weight: current.Weight, SortOrder: current.SortOrder}
		if req.Name != nil {
			in.Name = *req.Name
		}
		if req.Weight != nil {
			in.Weight = *req.Weight
		}
		if req.SortOrder != nil {
			in.SortOrder = *req.SortOrder
		}
		criterion, err := svc.UpdateCriterion(r.Context(), actor, id, in)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteSuccess(w, http.StatusOK, criterion)
	}
}

// HandleDeleteCriterion returns a handler for DELETE /criteria/{id}.
func HandleDeleteCriterion(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireUUIDPathParam(w, r, "id", "criterion_id")
		if !ok {
			return
		}
		if err := svc.DeleteCriterion(r.Context(), ActorFrom(r), id); err != nil {
			writeServiceError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
