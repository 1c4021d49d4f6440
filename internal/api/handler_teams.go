package api

import (
	"net/http"

	"github.com/grillwire/cookoff/internal/service"
)

type teamRequest struct {
	Name       string `json:"name"`
	TeamNumber int    `json:"team_number"`
}

// HandleCreateTeam returns a handler for POST /events/{eventId}/teams.
func HandleCreateTeam(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := requireUUIDPathParam(w, r, "eventId", "event_id")
		if !ok {
			return
		}
		var req teamRequest
		if err := DecodeBody(r, &req); err != nil {
			writeDecodeBodyError(w, err)
			return
		}
		team, err := svc.CreateTeam(r.Context(), ActorFrom(r), eventID, service.TeamInput{
			Name:       req.Name,
			TeamNumber: req.TeamNumber,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteSuccess(w, http.StatusCreated, team)
	}
}

// HandleCreateTeamsBulk returns a handler for POST /events/{eventId}/teams/bulk.
func HandleCreateTeamsBulk(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := requireUUIDPathParam(w, r, "eventId", "event_id")
		if !ok {
			return
		}
		var req struct {
			Items []teamRequest `json:"items"`
		}
		if err := DecodeBody(r, &req); err != nil {
			writeDecodeBodyError(w, err)
			return
		}
		inputs := make([]service.TeamInput, len(req.Items))
		for i, item := range req.Items {
			inputs[i] = service.TeamInput{Name: item.Name, TeamNumber: item.TeamNumber}
		}
		teams, err := svc.CreateTeams(r.Context(), ActorFrom(r), eventID, inputs)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteSuccess(w, http.StatusCreated, teams)
	}
}

// HandleListTeams returns a handler for GET /events/{eventId}/teams.
func HandleListTeams(svc *service.Service) http.HandlerFunc {
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
		teams, err := svc.ListTeams(r.Context(), ActorFrom(r), eventID, includeDeleted)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WritePage(w, http.StatusOK, teams, pg)
	}
}

// HandleGetTeam returns a handler for GET /teams/{id}.
func HandleGetTeam(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireUUIDPathParam(w, r, "id", "team_id")
		if !ok {
			return
		}
		includeDeleted, ok := parseBoolQueryOrWriteInvalid(w, r, "include_deleted")
		if !ok {
			return
		}
		team, err := svc.GetTeam(r.Context(), ActorFrom(r), id, includeDeleted)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteSuccess(w, http.StatusOK, team)
	}
}

// HandlePatchTeam returns a handler for PATCH /teams/{id}. The barcode is
// never touched here; re-issuing goes through invalidate-code.
func HandlePatchTeam(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireUUIDPathParam(w, r, "id", "team_id")
		if !ok {
			return
		}
		var req struct {
			Name       *string `json:"name"`
			TeamNumber *int    `json:"team_number"`
		}
		if err := DecodeBody(r, &req); err != nil {
			writeDecodeBodyError(w, err)
			return
		}
		actor := ActorFrom(r)
		current, err := svc.GetTeam(r.Context(), actor, id, false)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		in := service.TeamInput{Name: current.Name, TeamNumber: current.TeamNumber}
		if req.Name != nil {
			in.Name = *req.Name
		}
		if req.TeamNumber != nil {
			in.TeamNumber = *req.TeamNumber
		}
		team, err := svc.UpdateTeam(r.Context(), actor, id, in)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteSuccess(w, http.StatusOK, team)
	}
}

// HandleInvalidateTeamCode returns a handler for POST /teams/{id}/invalidate-code.
func HandleInvalidateTeamCode(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireUUIDPathParam(w, r, "id", "team_id")
		if !ok {
			return
		}
		team, err := svc.InvalidateTeamCode(r.Context(), ActorFrom(r), id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteSuccess(w, http.StatusOK, team)
	}
}

// HandleVerifyTeamBarcode returns a handler for POST /teams/verify-barcode.
// Verification failures are data, not errors: the response is 200 with
// valid=false so scanning stations can render the reason.
func HandleVerifyTeamBarcode(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Payload string `json:"payload"`
			EventID string `json:"event_id"`
		}
		if err := DecodeBody(r, &req); err != nil {
			writeDecodeBodyError(w, err)
			return
		}
		result, err := svc.VerifyTeamBarcode(r.Context(), ActorFrom(r), req.Payload, req.EventID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteSuccess(w, http.StatusOK, result)
	}
}

// HandleDeleteTeam returns a handler for DELETE /teams/{id}.
func HandleDeleteTeam(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireUUIDPathParam(w, r, "id", "team_id")
		if !ok {
			return
		}
		if err := svc.DeleteTeam(r.Context(), ActorFrom(r), id); err != nil {
			writeServiceError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
