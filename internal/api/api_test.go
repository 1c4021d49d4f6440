package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/grillwire/cookoff/internal/api"
	"github.com/grillwire/cookoff/internal/auth"
	"github.com/grillwire/cookoff/internal/model"
	"github.com/grillwire/cookoff/internal/service"
	"github.com/grillwire/cookoff/internal/store"
)

const (
	adminUsername  = "pitboss"
	adminPassword  = "counterweight-ember-41-flannel"
	testBodyLimit  = 1 << 20
	testTokenKey   = "low-and-slow-is-the-only-way-here"
	testCodeSecret = "hold-the-sauce"
)

type testEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta *struct {
		Pagination struct {
			Page       int `json:"page"`
			PageSize   int `json:"pageSize"`
			TotalItems int `json:"totalItems"`
			TotalPages int `json:"totalPages"`
		} `json:"pagination"`
	} `json:"meta"`
}

type testEnv struct {
	t       *testing.T
	handler http.Handler
	svc     *service.Service
}

func newTestEnv(t *testing.T, bodyLimit int64) *testEnv {
	t.Helper()
	db, err := store.OpenDB(filepath.Join(t.TempDir(), "cookoff.db"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := store.MigrateDB(db); err != nil {
		t.Fatalf("MigrateDB: %v", err)
	}

	tokens := auth.NewTokenIssuer(testTokenKey, 24*time.Hour, 90*time.Minute)
	svc, err := service.New(service.Config{
		Store:         store.New(db),
		Tokens:        tokens,
		Throttle:      auth.NewLoginThrottle(5, time.Minute),
		BarcodeSecret: testCodeSecret,
		BcryptCost:    bcrypt.MinCost,
	})
	if err != nil {
		t.Fatalf("service.New: %v", err)
	}
	if _, err := svc.CreateUser(context.Background(), service.SystemActor, service.UserInput{
		Username: adminUsername,
		Password: adminPassword,
		Role:     model.RoleAdmin,
	}); err != nil {
		t.Fatalf("create admin: %v", err)
	}

	srv := api.NewServer("127.0.0.1", 0, svc, tokens, db, bodyLimit)
	return &testEnv{t: t, handler: srv.Handler(), svc: svc}
}

// do performs one request against the in-memory handler and decodes the
// response envelope. 204 responses come back with a zero envelope.
func (e *testEnv) do(method, path, token string, body any) (int, testEnvelope) {
	e.t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(body)
		if err != nil {
			e.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)

	var env testEnvelope
	if rr.Body.Len() > 0 {
		if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
			e.t.Fatalf("%s %s: decode envelope: %v\nbody: %s", method, path, err, rr.Body.String())
		}
	}
	return rr.Code, env
}

func (e *testEnv) login(username, password string) string {
	e.t.Helper()
	status, env := e.do(http.MethodPost, "/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	if status != http.StatusOK {
		e.t.Fatalf("login status = %d, body = %s", status, env.Data)
	}
	var res struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(env.Data, &res); err != nil || res.AccessToken == "" {
		e.t.Fatalf("login data = %s (%v)", env.Data, err)
	}
	return res.AccessToken
}

func (e *testEnv) adminToken() string { return e.login(adminUsername, adminPassword) }

func validEventBody() map[string]any {
	return map[string]any{
		"name":               "Smoke City Classic",
		"date":               "2026-09-12",
		"location":           "County Fairgrounds",
		"scoring_scale_min":  "1",
		"scoring_scale_max":  "10",
		"scoring_scale_step": "0.5",
		"aggregation_method": "mean",
	}
}

// createEvent posts an event and returns its id.
func (e *testEnv) createEvent(token string) string {
	e.t.Helper()
	status, env := e.do(http.MethodPost, "/events", token, validEventBody())
	if status != http.StatusCreated {
		e.t.Fatalf("create event status = %d, error = %+v", status, env.Error)
	}
	var event model.Event
	if err := json.Unmarshal(env.Data, &event); err != nil {
		e.t.Fatalf("decode event: %v", err)
	}
	return event.ID
}

func TestHealthEndpoints(t *testing.T) {
	e := newTestEnv(t, testBodyLimit)

	status, env := e.do(http.MethodGet, "/health", "", nil)
	if status != http.StatusOK || !env.Success {
		t.Fatalf("health = %d, success = %v", status, env.Success)
	}
	var data struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.Status != "ok" {
		t.Errorf("health data = %s", env.Data)
	}

	status, _ = e.do(http.MethodGet, "/health/ready", "", nil)
	if status != http.StatusOK {
		t.Errorf("ready status = %d, want 200", status)
	}
}

func TestAuthRequired(t *testing.T) {
	e := newTestEnv(t, testBodyLimit)

	status, env := e.do(http.MethodGet, "/events", "", nil)
	if status != http.StatusUnauthorized || env.Error == nil || env.Error.Code != service.CodeUnauthorized {
		t.Errorf("no token = %d %+v, want 401 UNAUTHORIZED", status, env.Error)
	}

	status, env = e.do(http.MethodGet, "/events", "not-a-jwt", nil)
	if status != http.StatusUnauthorized || env.Error == nil || env.Error.Code != service.CodeInvalidToken {
		t.Errorf("bad token = %d %+v, want 401 INVALID_TOKEN", status, env.Error)
	}

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	req.Header.Set("Authorization", "Basic abc")
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("non-bearer header status = %d, want 401", rr.Code)
	}
}

func TestLoginFlow(t *testing.T) {
	e := newTestEnv(t, testBodyLimit)

	status, env := e.do(http.MethodPost, "/auth/login", "", map[string]string{
		"username": adminUsername,
		"password": "wrong",
	})
	if status != http.StatusUnauthorized || env.Error.Code != service.CodeInvalidCreds {
		t.Errorf("bad creds = %d %+v, want 401 INVALID_CREDENTIALS", status, env.Error)
	}

	token := e.adminToken()
	status, env = e.do(http.MethodGet, "/auth/me", token, nil)
	if status != http.StatusOK {
		t.Fatalf("me status = %d", status)
	}
	var me model.User
	if err := json.Unmarshal(env.Data, &me); err != nil || me.Username != adminUsername {
		t.Errorf("me data = %s", env.Data)
	}

	// The refreshed token works like the original.
	status, env = e.do(http.MethodPost, "/auth/refresh", token, nil)
	if status != http.StatusOK {
		t.Fatalf("refresh status = %d", status)
	}
	var refreshed struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(env.Data, &refreshed); err != nil || refreshed.AccessToken == "" {
		t.Fatalf("refresh data = %s", env.Data)
	}
	if status, _ := e.do(http.MethodGet, "/users/me", refreshed.AccessToken, nil); status != http.StatusOK {
		t.Errorf("refreshed token me status = %d", status)
	}
}

func TestEventLifecycleOverHTTP(t *testing.T) {
	e := newTestEnv(t, testBodyLimit)
	token := e.adminToken()
	id := e.createEvent(token)

	status, env := e.do(http.MethodGet, "/events/"+id, token, nil)
	if status != http.StatusOK {
		t.Fatalf("get status = %d", status)
	}
	var event model.Event
	if err := json.Unmarshal(env.Data, &event); err != nil || event.Status != model.EventStatusDraft {
		t.Fatalf("event data = %s", env.Data)
	}

	// Status-only PATCH advances the lifecycle.
	status, env = e.do(http.MethodPatch, "/events/"+id, token, map[string]string{"status": "active"})
	if status != http.StatusOK {
		t.Fatalf("status patch = %d %+v", status, env.Error)
	}
	if err := json.Unmarshal(env.Data, &event); err != nil || event.Status != model.EventStatusActive {
		t.Errorf("patched event = %s", env.Data)
	}

	// Status mixed with other fields is rejected.
	status, env = e.do(http.MethodPatch, "/events/"+id, token, map[string]string{
		"status": "finalized",
		"name":   "Mixed",
	})
	if status != http.StatusBadRequest || env.Error.Code != service.CodeValidation {
		t.Errorf("mixed patch = %d %+v, want 400 VALIDATION_ERROR", status, env.Error)
	}

	// Skipping a lifecycle step maps to 422.
	status, env = e.do(http.MethodPatch, "/events/"+id, token, map[string]string{"status": "archived"})
	if status != http.StatusUnprocessableEntity || env.Error.Code != service.CodeInvalidTransition {
		t.Errorf("skip patch = %d %+v, want 422 INVALID_STATUS_TRANSITION", status, env.Error)
	}

	// Field merge-patch keeps everything not named in the body.
	status, env = e.do(http.MethodPatch, "/events/"+id, token, map[string]string{"name": "Renamed Classic"})
	if status != http.StatusOK {
		t.Fatalf("field patch = %d %+v", status, env.Error)
	}
	if err := json.Unmarshal(env.Data, &event); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if event.Name != "Renamed Classic" || event.Date != "2026-09-12" {
		t.Errorf("merged event = %+v", event)
	}

	status, _ = e.do(http.MethodDelete, "/events/"+id, token, nil)
	if status != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", status)
	}
	status, _ = e.do(http.MethodGet, "/events/"+id, token, nil)
	if status != http.StatusNotFound {
		t.Errorf("deleted get status = %d, want 404", status)
	}
}

func TestOperatorEventFieldPatchForbidden(t *testing.T) {
	e := newTestEnv(t, testBodyLimit)
	admin := e.adminToken()
	id := e.createEvent(admin)

	status, _ := e.do(http.MethodPost, "/users", admin, map[string]string{
		"username": "gatekeeper",
		"password": adminPassword,
		"role":     "operator",
	})
	if status != http.StatusCreated {
		t.Fatalf("create operator status = %d", status)
	}
	operator := e.login("gatekeeper", adminPassword)

	status, env := e.do(http.MethodPatch, "/events/"+id, operator, map[string]string{"name": "Hijacked"})
	if status != http.StatusForbidden || env.Error.Code != service.CodeForbidden {
		t.Errorf("operator field patch = %d %+v, want 403 FORBIDDEN", status, env.Error)
	}
	// The lifecycle transition stays open to operators.
	status, _ = e.do(http.MethodPatch, "/events/"+id, operator, map[string]string{"status": "active"})
	if status != http.StatusOK {
		t.Errorf("operator status patch = %d, want 200", status)
	}
}

func TestSeatTokenFlow(t *testing.T) {
	e := newTestEnv(t, testBodyLimit)
	admin := e.adminToken()
	eventID := e.createEvent(admin)

	status, env := e.do(http.MethodPost, "/events/"+eventID+"/tables", admin, map[string]int{"table_number": 1})
	if status != http.StatusCreated {
		t.Fatalf("create table = %d %+v", status, env.Error)
	}
	var table model.Table
	if err := json.Unmarshal(env.Data, &table); err != nil {
		t.Fatalf("decode table: %v", err)
	}
	status, _ = e.do(http.MethodPost, "/tables/"+table.ID+"/seats/bulk", admin, map[string]any{
		"items": []map[string]int{{"seat_number": 1}, {"seat_number": 2}},
	})
	if status != http.StatusCreated {
		t.Fatalf("create seats = %d", status)
	}

	status, env = e.do(http.MethodPost, "/auth/seat-token", "", map[string]any{
		"qr_token":    table.QRToken,
		"seat_number": 2,
	})
	if status != http.StatusOK {
		t.Fatalf("seat token = %d %+v", status, env.Error)
	}
	var seatRes struct {
		AccessToken string `json:"access_token"`
		SeatNumber  int    `json:"seat_number"`
	}
	if err := json.Unmarshal(env.Data, &seatRes); err != nil || seatRes.SeatNumber != 2 {
		t.Fatalf("seat token data = %s", env.Data)
	}

	// Judges read but do not administer.
	if status, _ := e.do(http.MethodGet, "/events", seatRes.AccessToken, nil); status != http.StatusOK {
		t.Errorf("judge list events = %d, want 200", status)
	}
	status, env = e.do(http.MethodPost, "/events", seatRes.AccessToken, validEventBody())
	if status != http.StatusForbidden || env.Error.Code != service.CodeForbidden {
		t.Errorf("judge create event = %d %+v, want 403 FORBIDDEN", status, env.Error)
	}

	status, env = e.do(http.MethodPost, "/auth/seat-token", "", map[string]any{
		"qr_token":    "bogus",
		"seat_number": 1,
	})
	if status != http.StatusUnauthorized || env.Error.Code != service.CodeInvalidQRToken {
		t.Errorf("bad qr token = %d %+v, want 401 INVALID_QR_TOKEN", status, env.Error)
	}
}

func TestValidationAndPathErrors(t *testing.T) {
	e := newTestEnv(t, testBodyLimit)
	token := e.adminToken()

	body := validEventBody()
	body["surprise"] = true
	status, env := e.do(http.MethodPost, "/events", token, body)
	if status != http.StatusBadRequest || env.Error.Code != service.CodeValidation {
		t.Errorf("unknown field = %d %+v, want 400 VALIDATION_ERROR", status, env.Error)
	}

	status, env = e.do(http.MethodGet, "/events/not-a-uuid", token, nil)
	if status != http.StatusBadRequest || env.Error.Code != service.CodeValidation {
		t.Errorf("bad uuid = %d %+v, want 400 VALIDATION_ERROR", status, env.Error)
	}

	status, env = e.do(http.MethodGet, "/events/"+uuid.NewString(), token, nil)
	if status != http.StatusNotFound || env.Error.Code != service.CodeNotFound {
		t.Errorf("missing event = %d %+v, want 404 NOT_FOUND", status, env.Error)
	}
}

func TestListPagination(t *testing.T) {
	e := newTestEnv(t, testBodyLimit)
	token := e.adminToken()
	for i := 0; i < 3; i++ {
		body := validEventBody()
		body["name"] = fmt.Sprintf("Event %d", i+1)
		if status, env := e.do(http.MethodPost, "/events", token, body); status != http.StatusCreated {
			t.Fatalf("create %d = %d %+v", i, status, env.Error)
		}
	}

	status, env := e.do(http.MethodGet, "/events?page=2&pageSize=2", token, nil)
	if status != http.StatusOK {
		t.Fatalf("list = %d", status)
	}
	var events []model.Event
	if err := json.Unmarshal(env.Data, &events); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("page 2 len = %d, want 1", len(events))
	}
	if env.Meta == nil {
		t.Fatal("missing pagination meta")
	}
	pg := env.Meta.Pagination
	if pg.Page != 2 || pg.PageSize != 2 || pg.TotalItems != 3 || pg.TotalPages != 2 {
		t.Errorf("pagination = %+v", pg)
	}

	if status, _ := e.do(http.MethodGet, "/events?page=0", token, nil); status != http.StatusBadRequest {
		t.Errorf("page=0 status = %d, want 400", status)
	}
	if status, _ := e.do(http.MethodGet, "/events?pageSize=9999", token, nil); status != http.StatusBadRequest {
		t.Errorf("oversize pageSize status = %d, want 400", status)
	}
}

func TestSubmissionTransitionsOverHTTP(t *testing.T) {
	e := newTestEnv(t, testBodyLimit)
	token := e.adminToken()
	eventID := e.createEvent(token)

	status, env := e.do(http.MethodPost, "/events/"+eventID+"/teams", token, map[string]any{
		"name": "Holy Smokes", "team_number": 1,
	})
	if status != http.StatusCreated {
		t.Fatalf("create team = %d %+v", status, env.Error)
	}
	var team model.Team
	if err := json.Unmarshal(env.Data, &team); err != nil {
		t.Fatalf("decode team: %v", err)
	}
	status, env = e.do(http.MethodPost, "/events/"+eventID+"/categories", token, map[string]any{"name": "Brisket"})
	if status != http.StatusCreated {
		t.Fatalf("create category = %d", status)
	}
	var category model.Category
	if err := json.Unmarshal(env.Data, &category); err != nil {
		t.Fatalf("decode category: %v", err)
	}

	status, env = e.do(http.MethodPost, "/submissions", token, map[string]string{
		"team_id": team.ID, "category_id": category.ID,
	})
	if status != http.StatusCreated {
		t.Fatalf("create submission = %d %+v", status, env.Error)
	}
	var sub model.Submission
	if err := json.Unmarshal(env.Data, &sub); err != nil {
		t.Fatalf("decode submission: %v", err)
	}

	// Out of order: finalize before turn-in.
	status, env = e.do(http.MethodPost, "/submissions/"+sub.ID+"/finalize", token, nil)
	if status != http.StatusUnprocessableEntity || env.Error.Code != service.CodeInvalidTransition {
		t.Errorf("early finalize = %d %+v, want 422", status, env.Error)
	}

	steps := []struct {
		action string
		want   model.SubmissionStatus
	}{
		{"turn-in", model.SubmissionStatusTurnedIn},
		{"start-judging", model.SubmissionStatusBeingJudged},
		{"mark-scored", model.SubmissionStatusScored},
		{"finalize", model.SubmissionStatusFinalized},
	}
	for _, step := range steps {
		status, env = e.do(http.MethodPost, "/submissions/"+sub.ID+"/"+step.action, token, nil)
		if status != http.StatusOK {
			t.Fatalf("%s = %d %+v", step.action, status, env.Error)
		}
		if err := json.Unmarshal(env.Data, &sub); err != nil {
			t.Fatalf("decode after %s: %v", step.action, err)
		}
		if sub.Status != step.want {
			t.Errorf("after %s status = %s, want %s", step.action, sub.Status, step.want)
		}
	}
	if sub.TurnedInAt == nil {
		t.Error("TurnedInAt not stamped over HTTP")
	}
}

func TestScoreSubmissionAsJudge(t *testing.T) {
	e := newTestEnv(t, testBodyLimit)
	admin := e.adminToken()
	eventID := e.createEvent(admin)

	setup := strings.Join([]string{
		"tables:",
		"  - table_number: 1",
		"    seats: 2",
		"categories:",
		"  - name: Brisket",
		"criteria:",
		"  - name: Taste",
		"teams:",
		"  - name: Holy Smokes",
		"    team_number: 1",
	}, "\n")
	status, env := e.do(http.MethodPost, "/events/"+eventID+"/import", admin, setup)
	if status != http.StatusOK {
		t.Fatalf("import = %d %+v", status, env.Error)
	}

	status, env = e.do(http.MethodGet, "/events/"+eventID+"/tables", admin, nil)
	if status != http.StatusOK {
		t.Fatalf("list tables = %d", status)
	}
	var tables []model.Table
	if err := json.Unmarshal(env.Data, &tables); err != nil || len(tables) != 1 {
		t.Fatalf("tables data = %s", env.Data)
	}
	status, env = e.do(http.MethodGet, "/events/"+eventID+"/teams", admin, nil)
	if status != http.StatusOK {
		t.Fatalf("list teams = %d", status)
	}
	var teams []model.Team
	if err := json.Unmarshal(env.Data, &teams); err != nil || len(teams) != 1 {
		t.Fatalf("teams data = %s", env.Data)
	}
	status, env = e.do(http.MethodGet, "/events/"+eventID+"/categories", admin, nil)
	if status != http.StatusOK {
		t.Fatalf("list categories = %d", status)
	}
	var categories []model.Category
	if err := json.Unmarshal(env.Data, &categories); err != nil || len(categories) != 1 {
		t.Fatalf("categories data = %s", env.Data)
	}
	status, env = e.do(http.MethodGet, "/events/"+eventID+"/criteria", admin, nil)
	if status != http.StatusOK {
		t.Fatalf("list criteria = %d", status)
	}
	var criteria []model.Criterion
	if err := json.Unmarshal(env.Data, &criteria); err != nil || len(criteria) != 1 {
		t.Fatalf("criteria data = %s", env.Data)
	}

	status, env = e.do(http.MethodPost, "/submissions", admin, map[string]string{
		"team_id": teams[0].ID, "category_id": categories[0].ID,
	})
	if status != http.StatusCreated {
		t.Fatalf("create submission = %d %+v", status, env.Error)
	}
	var sub model.Submission
	if err := json.Unmarshal(env.Data, &sub); err != nil {
		t.Fatalf("decode submission: %v", err)
	}
	if status, _ := e.do(http.MethodPost, "/submissions/"+sub.ID+"/turn-in", admin, nil); status != http.StatusOK {
		t.Fatalf("turn-in = %d", status)
	}

	status, env = e.do(http.MethodPost, "/auth/seat-token", "", map[string]any{
		"qr_token": tables[0].QRToken, "seat_number": 1,
	})
	if status != http.StatusOK {
		t.Fatalf("seat token = %d", status)
	}
	var seatRes struct {
		AccessToken string `json:"access_token"`
		SeatID      string `json:"seat_id"`
	}
	if err := json.Unmarshal(env.Data, &seatRes); err != nil {
		t.Fatalf("decode seat token: %v", err)
	}

	status, env = e.do(http.MethodPost, "/submissions/"+sub.ID+"/scores", seatRes.AccessToken, map[string]any{
		"criterion_id": criteria[0].ID,
		"value":        "8.5",
		"phase":        "taste_texture",
		"comment":      "great bark",
	})
	if status != http.StatusCreated {
		t.Fatalf("create score = %d %+v", status, env.Error)
	}
	var score model.Score
	if err := json.Unmarshal(env.Data, &score); err != nil {
		t.Fatalf("decode score: %v", err)
	}
	if score.SeatID != seatRes.SeatID || !score.Value.Equal(decimalFromString(t, "8.5")) {
		t.Errorf("score = %+v", score)
	}

	status, env = e.do(http.MethodGet, "/submissions/"+sub.ID+"/scores", seatRes.AccessToken, nil)
	if status != http.StatusOK {
		t.Fatalf("list scores = %d", status)
	}
	var scores []model.Score
	if err := json.Unmarshal(env.Data, &scores); err != nil || len(scores) != 1 {
		t.Errorf("scores data = %s", env.Data)
	}
	if env.Meta == nil || env.Meta.Pagination.TotalItems != 1 {
		t.Errorf("scores meta = %+v", env.Meta)
	}

	status, env = e.do(http.MethodGet, "/submissions/"+sub.ID+"/result", admin, nil)
	if status != http.StatusOK {
		t.Fatalf("result = %d %+v", status, env.Error)
	}
	var result service.SubmissionResult
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.FinalScore != 8.5 || result.CompletionStatus != service.CompletionPartial {
		t.Errorf("result = %+v", result)
	}
}

func TestRequestBodyLimit(t *testing.T) {
	e := newTestEnv(t, 64)
	big := `{"username":"` + strings.Repeat("x", 200) + `","password":"y"}`
	status, env := e.do(http.MethodPost, "/auth/login", "", big)
	if status != http.StatusRequestEntityTooLarge || env.Error.Code != service.CodeValidation {
		t.Errorf("oversized body = %d %+v, want 413", status, env.Error)
	}
}

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("decimal %q: %v", s, err)
	}
	return d
}
