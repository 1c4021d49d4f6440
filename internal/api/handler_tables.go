package api

import (
	"net/http"

	"github.com/grillwire/cookoff/internal/service"
)

type tableRequest struct {
	TableNumber int `json:"table_number"`
}

// HandleCreateTable returns a handler for POST /events/{eventId}/tables.
func HandleCreateTable(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := requireUUIDPathParam(w, r, "eventId", "event_id")
		if !ok {
			return
		}
		var req tableRequest
		if err := DecodeBody(r, &req); err != nil {
			writeDecodeBodyError(w, err)
			return
		}
		table, err := svc.CreateTable(r.Context(), ActorFrom(r), eventID, service.TableInput{TableNumber: req.TableNumber})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteSuccess(w, http.StatusCreated, table)
	}
}

// HandleCreateTablesBulk returns a handler for POST /events/{eventId}/tables/bulk.
// The whole batch succeeds or fails as one.
func HandleCreateTablesBulk(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := requireUUIDPathParam(w, r, "eventId", "event_id")
		if !ok {
			return
		}
		var req struct {
			Items []tableRequest `json:"items"`
		}
		if err := DecodeBody(r, &req); err != nil {
			writeDecodeBodyError(w, err)
			return
		}
		inputs := make([]service.TableInput, len(req.Items))
		for i, item := range req.Items {
			inputs[i] = service.TableInput{TableNumber: item.TableNumber}
		}
		tables, err := svc.CreateTables(r.Context(), ActorFrom(r), eventID, inputs)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteSuccess(w, http.StatusCreated, tables)
	}
}

// HandleListTables returns a handler for GET /events/{eventId}/tables.
func HandleListTables(svc *service.Service) http.HandlerFunc {
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
		tables, err := svc.ListTables(r.Context(), ActorFrom(r), eventID, includeDeleted)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WritePage(w, http.StatusOK, tables, pg)
	}
}

// HandleGetTable returns a handler for GET /tables/{id}.
func HandleGetTable(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireUUIDPathParam(w, r, "id", "table_id")
		if !ok {
			return
		}
		includeDeleted, ok := parseBoolQueryOrWriteInvalid(w, r, "include_deleted")
		if !ok {
			return
		}
		table, err := svc.GetTable(r.Context(), ActorFrom(r), id, includeDeleted)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteSuccess(w, http.StatusOK, table)
	}
}

// HandlePatchTable returns a handler for PATCH /tables/{id}.
func HandlePatchTable(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireUUIDPathParam(w, r, "id", "table_id")
		if !ok {
			return
		}
		var req struct {
			TableNumber *int `json:"table_number"`
		}
		if err := DecodeBody(r, &req); err != nil {
			writeDecodeBodyError(w, err)
			return
		}
		if req.TableNumber == nil {
			writeInvalidArgument(w, "table_number: is required")
			return
		}
		table, err := svc.UpdateTable(r.Context(), ActorFrom(r), id, service.TableInput{TableNumber: *req.TableNumber})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteSuccess(w, http.StatusOK, table)
	}
}

// HandleRegenerateTableToken returns a handler for POST /tables/{id}/regenerate-token.
func HandleRegenerateTableToken(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireUUIDPathParam(w, r, "id", "table_id")
		if !ok {
			return
		}
		table, err := svc.RegenerateTableToken(r.Context(), ActorFrom(r), id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteSuccess(w, http.StatusOK, table)
	}
}

// HandleDeleteTable returns a handler for DELETE /tables/{id}.
func HandleDeleteTable(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireUUIDPathParam(w, r, "id", "table_id")
		if !ok {
			return
		}
		if err := svc.DeleteTable(r.Context(), ActorFrom(r), id); err != nil {
			writeServiceError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type seatRequest struct {
	SeatNumber int `json:"seat_number"`
}

// HandleCreateSeat returns a handler for POST /tables/{tableId}/seats.
func HandleCreateSeat(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tableID, ok := requireUUIDPathParam(w, r, "tableId", "table_id")
		if !ok {
			return
		}
		var req seatRequest
		if err := DecodeBody(r, &req); err != nil {
			writeDecodeBodyError(w, err)
			return
		}
		seat, err := svc.CreateSeat(r.Context(), ActorFrom(r), tableID, service.SeatInput{SeatNumber: req.SeatNumber})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteSuccess(w, http.StatusCreated, seat)
	}
}

// HandleCreateSeatsBulk returns a handler for POST /tables/{tableId}/seats/bulk.
func HandleCreateSeatsBulk(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tableID, ok := requireUUIDPathParam(w, r, "tableId", "table_id")
		if !ok {
			return
		}
		var req struct {
			Items []seatRequest `json:"items"`
		}
		if err := DecodeBody(r, &req); err != nil {
			writeDecodeBodyError(w, err)
			return
		}
		inputs := make([]service.SeatInput, len(req.Items))
		for i, item := range req.Items {
			inputs[i] = service.SeatInput{SeatNumber: item.SeatNumber}
		}
		seats, err := svc.CreateSeats(r.Context(), ActorFrom(r), tableID, inputs)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteSuccess(w, http.StatusCreated, seats)
	}
}

// HandleListSeats returns a handler for GET /tables/{tableId}/seats.
func HandleListSeats(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tableID, ok := requireUUIDPathParam(w, r, "tableId", "table_id")
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
		seats, err := svc.ListSeats(r.Context(), ActorFrom(r), tableID, includeDeleted)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WritePage(w, http.StatusOK, seats, pg)
	}
}

// HandleDeleteSeat returns a handler for DELETE /seats/{id}.
func HandleDeleteSeat(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireUUIDPathParam(w, r, "id", "seat_id")
		if !ok {
			return
		}
		if err := svc.DeleteSeat(r.Context(), ActorFrom(r), id); err != nil {
			writeServiceError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
