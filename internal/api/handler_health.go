package api

import (
	"database/sql"
	"net/http"

	"github.com/grillwire/cookoff/internal/buildinfo"
)

// HandleHealth returns a handler for GET /health. No authentication and no
// dependencies: it answers as long as the process is serving.
func HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteSuccess(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"version": buildinfo.Version,
		})
	}
}

// HandleHealthReady returns a handler for GET /health/ready. Readiness
// requires a reachable database.
func HandleHealthReady(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var one int
		if err := db.QueryRowContext(r.Context(), "SELECT 1").Scan(&one); err != nil {
			WriteError(w, http.StatusServiceUnavailable, "NOT_READY", "database unreachable")
			return
		}
		WriteSuccess(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
