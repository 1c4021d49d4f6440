package api

import (
	"context"
	"database/sql"
	"net"
	"net/http"
	"strconv"

	"github.com/grillwire/cookoff/internal/auth"
	"github.com/grillwire/cookoff/internal/service"
)

// Server wraps the HTTP server and mux.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
}

// NewServer creates an API server wired with all routes.
func NewServer(
	listenAddress string,
	port int,
	svc *service.Service,
	tokens *auth.TokenIssuer,
	db *sql.DB,
	apiMaxBodyBytes int64,
) *Server {
	mux := http.NewServeMux()

	// Public (no auth)
	mux.Handle("GET /health", HandleHealth())
	mux.Handle("GET /health/ready", HandleHealthReady(db))
	mux.Handle("POST /auth/login", RequestBodyLimitMiddleware(apiMaxBodyBytes, HandleLogin(svc)))
	mux.Handle("POST /auth/seat-token", RequestBodyLimitMiddleware(apiMaxBodyBytes, HandleSeatToken(svc)))

	// Authenticated routes. Role and kind checks live in the service layer;
	// the middleware only establishes who is calling.
	authed := http.NewServeMux()

	authed.Handle("POST /auth/refresh", HandleRefreshToken(svc))
	authed.Handle("GET /auth/me", HandleCurrentUser(svc))
	authed.Handle("GET /users/me", HandleCurrentUser(svc))
	authed.Handle("POST /users", HandleCreateUser(svc))

	// Events.
	authed.Handle("POST /events", HandleCreateEvent(svc))
	authed.Handle("GET /events", HandleListEvents(svc))
	authed.Handle("GET /events/{id}", HandleGetEvent(svc))
	authed.Handle("PATCH /events/{id}", HandlePatchEvent(svc))
	authed.Handle("DELETE /events/{id}", HandleDeleteEvent(svc))
	authed.Handle("GET /events/{id}/results", HandleEventResults(svc))
	authed.Handle("POST /events/{id}/import", HandleImportEventSetup(svc))
	authed.Handle("GET /events/{eventId}/audit-logs", HandleListEventAuditLogs(svc))
	authed.Handle("GET /events/{eventId}/categories/{categoryId}/results", HandleCategoryResults(svc))

	// Tables and seats.
	authed.Handle("GET /events/{eventId}/tables", HandleListTables(svc))
	authed.Handle("POST /events/{eventId}/tables", HandleCreateTable(svc))
	authed.Handle("POST /events/{eventId}/tables/bulk", HandleCreateTablesBulk(svc))
	authed.Handle("GET /tables/{id}", HandleGetTable(svc))
	authed.Handle("PATCH /tables/{id}", HandlePatchTable(svc))
	authed.Handle("DELETE /tables/{id}", HandleDeleteTable(svc))
	authed.Handle("POST /tables/{id}/regenerate-token", HandleRegenerateTableToken(svc))
	authed.Handle("GET /tables/{tableId}/seats", HandleListSeats(svc))
	authed.Handle("POST /tables/{tableId}/seats", HandleCreateSeat(svc))
	authed.Handle("POST /tables/{tableId}/seats/bulk", HandleCreateSeatsBulk(svc))
	authed.Handle("DELETE /seats/{id}", HandleDeleteSeat(svc))

	// Categories.
	authed.Handle("GET /events/{eventId}/categories", HandleListCategories(svc))
	authed.Handle("POST /events/{eventId}/categories", HandleCreateCategory(svc))
	authed.Handle("POST /events/{eventId}/categories/bulk", HandleCreateCategoriesBulk(svc))
	authed.Handle("GET /categories/{id}", HandleGetCategory(svc))
	authed.Handle("PATCH /categories/{id}", HandlePatchCategory(svc))
	authed.Handle("DELETE /categories/{id}", HandleDeleteCategory(svc))
	authed.Handle("POST /categories/{id}/assignment-plan", HandleAssignmentPlan(svc))
	authed.Handle("GET /categories/{categoryId}/submissions", HandleListCategorySubmissions(svc))
	authed.Handle("GET /categories/{categoryId}/tables/{tableId}/seats/{seatId}/next", HandleNextSubmission(svc))

	// Criteria.
	authed.Handle("GET /events/{eventId}/criteria", HandleListCriteria(svc))
	authed.Handle("POST /events/{eventId}/criteria", HandleCreateCriterion(svc))
	authed.Handle("POST /events/{eventId}/criteria/bulk", HandleCreateCriteriaBulk(svc))
	authed.Handle("GET /criteria/{id}", HandleGetCriterion(svc))
	authed.Handle("PATCH /criteria/{id}", HandlePatchCriterion(svc))
	authed.Handle("DELETE /criteria/{id}", HandleDeleteCriterion(svc))

	// Teams.
	authed.Handle("GET /events/{eventId}/teams", HandleListTeams(svc))
	authed.Handle("POST /events/{eventId}/teams", HandleCreateTeam(svc))
	authed.Handle("POST /events/{eventId}/teams/bulk", HandleCreateTeamsBulk(svc))
	authed.Handle("GET /teams/{id}", HandleGetTeam(svc))
	authed.Handle("PATCH /teams/{id}", HandlePatchTeam(svc))
	authed.Handle("DELETE /teams/{id}", HandleDeleteTeam(svc))
	authed.Handle("POST /teams/{id}/invalidate-code", HandleInvalidateTeamCode(svc))
	authed.Handle("POST /teams/verify-barcode", HandleVerifyTeamBarcode(svc))
	authed.Handle("GET /teams/{teamId}/submissions", HandleListTeamSubmissions(svc))

	// Submissions and scores.
	authed.Handle("POST /submissions", HandleCreateSubmission(svc))
	authed.Handle("GET /submissions/{id}", HandleGetSubmission(svc))
	authed.Handle("DELETE /submissions/{id}", HandleDeleteSubmission(svc))
	authed.Handle("POST /submissions/{id}/turn-in", HandleTurnInSubmission(svc))
	authed.Handle("POST /submissions/{id}/start-judging", HandleStartJudgingSubmission(svc))
	authed.Handle("POST /submissions/{id}/mark-scored", HandleMarkSubmissionScored(svc))
	authed.Handle("POST /submissions/{id}/finalize", HandleFinalizeSubmission(svc))
	authed.Handle("GET /submissions/{id}/result", HandleSubmissionResult(svc))
	authed.Handle("GET /submissions/{id}/scores", HandleListSubmissionScores(svc))
	authed.Handle("POST /submissions/{id}/scores", HandleCreateScore(svc))
	authed.Handle("GET /scores/{id}", HandleGetScore(svc))
	authed.Handle("PATCH /scores/{id}", HandlePatchScore(svc))
	authed.Handle("DELETE /scores/{id}", HandleDeleteScore(svc))

	// Audit log.
	authed.Handle("GET /audit-logs", HandleListAuditLogs(svc))
	authed.Handle("GET /audit-logs/{id}", HandleGetAuditLog(svc))

	limited := RequestBodyLimitMiddleware(apiMaxBodyBytes, authed)
	mux.Handle("/", AuthMiddleware(tokens, limited))

	srv := &http.Server{
		Addr:    net.JoinHostPort(listenAddress, strconv.Itoa(port)),
		Handler: mux,
	}

	return &Server{
		httpServer: srv,
		mux:        mux,
	}
}

// ListenAndServe starts the HTTP server. It blocks until the server stops.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the underlying http.Handler for testing.
func (s *Server) Handler() http.Handler {
	return s.mux
}
