package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/grillwire/cookoff/internal/service"
)

// HandleImportEventSetup returns a handler for POST /events/{id}/import.
// The body is a YAML event-setup document, not JSON.
func HandleImportEventSetup(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := requireUUIDPathParam(w, r, "id", "event_id")
		if !ok {
			return
		}
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				writePayloadTooLarge(w, maxErr.Limit)
				return
			}
			writeInvalidArgument(w, "failed to read body")
			return
		}
		if len(raw) == 0 {
			writeInvalidArgument(w, "request body is required")
			return
		}
		setup, err := service.ParseEventSetup(raw)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		summary, err := svc.ImportEventSetup(r.Context(), ActorFrom(r), eventID, setup)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteSuccess(w, http.StatusOK, summary)
	}
}
