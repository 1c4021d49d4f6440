package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/grillwire/cookoff/internal/auth"
	"github.com/grillwire/cookoff/internal/model"
	"github.com/grillwire/cookoff/internal/service"
	"github.com/grillwire/cookoff/internal/store"
)

const (
	testJWTSecret     = "low-and-slow-is-the-only-way-here"
	testBarcodeSecret = "hold-the-sauce"
	strongPassword    = "counterweight-ember-41-flannel"
)

var (
	adminActor    = service.Actor{Kind: service.ActorKindUser, UserID: "admin-1", Role: model.RoleAdmin}
	operatorActor = service.Actor{Kind: service.ActorKindUser, UserID: "op-1", Role: model.RoleOperator}
)

func newTestService(t *testing.T) *service.Service {
	t.Helper()
	db, err := store.OpenDB(filepath.Join(t.TempDir(), "cookoff.db"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := store.MigrateDB(db); err != nil {
		t.Fatalf("MigrateDB: %v", err)
	}
	svc, err := service.New(service.Config{
		Store:         store.New(db),
		Tokens:        auth.NewTokenIssuer(testJWTSecret, 24*time.Hour, 90*time.Minute),
		Throttle:      auth.NewLoginThrottle(3, time.Minute),
		BarcodeSecret: testBarcodeSecret,
		BcryptCost:    bcrypt.MinCost,
	})
	if err != nil {
		t.Fatalf("service.New: %v", err)
	}
	return svc
}

// errCode fails the test unless err is a ServiceError, and returns its code.
func errCode(t *testing.T, err error) string {
	t.Helper()
	var se *service.ServiceError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *ServiceError", err)
	}
	return se.Code
}

func validEventInput() service.EventInput {
	return service.EventInput{
		Name:              "Smoke City Classic",
		Date:              "2026-09-12",
		Location:          "County Fairgrounds",
		ScaleMin:          decimal.NewFromInt(1),
		ScaleMax:          decimal.NewFromInt(10),
		ScaleStep:         decimal.RequireFromString("0.5"),
		AggregationMethod: model.AggregationMean,
	}
}

func mustCreateEvent(t *testing.T, svc *service.Service, method model.AggregationMethod) *model.Event {
	t.Helper()
	in := validEventInput()
	in.AggregationMethod = method
	e, err := svc.CreateEvent(context.Background(), adminActor, in)
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	return e
}

func TestCreateEventRequiresAdmin(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.CreateEvent(context.Background(), operatorActor, validEventInput()); errCode(t, err) != service.CodeForbidden {
		t.Errorf("code = %s, want FORBIDDEN", errCode(t, err))
	}
}

func TestCreateEventValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*service.EventInput)
	}{
		{"empty name", func(in *service.EventInput) { in.Name = "  " }},
		{"bad date", func(in *service.EventInput) { in.Date = "09/12/2026" }},
		{"min not below max", func(in *service.EventInput) { in.ScaleMin = in.ScaleMax }},
		{"zero step", func(in *service.EventInput) { in.ScaleStep = decimal.Zero }},
		{"unknown aggregation", func(in *service.EventInput) { in.AggregationMethod = "median" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validEventInput()
			tc.mutate(&in)
			_, err := svc.CreateEvent(ctx, adminActor, in)
			if errCode(t, err) != service.CodeValidation {
				t.Errorf("code = %s, want VALIDATION_ERROR", errCode(t, err))
			}
		})
	}
}

func TestEventLifecycleIsForwardOnly(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	e := mustCreateEvent(t, svc, model.AggregationMean)
	if e.Status != model.EventStatusDraft {
		t.Fatalf("new event status = %s, want draft", e.Status)
	}

	// Skipping a step is rejected.
	_, err := svc.UpdateEventStatus(ctx, adminActor, e.ID, model.EventStatusFinalized)
	if errCode(t, err) != service.CodeInvalidTransition {
		t.Errorf("skip code = %s, want INVALID_STATUS_TRANSITION", errCode(t, err))
	}

	// Operators may advance status; it is their one event write.
	e2, err := svc.UpdateEventStatus(ctx, operatorActor, e.ID, model.EventStatusActive)
	if err != nil {
		t.Fatalf("draft -> active: %v", err)
	}
	if e2.Status != model.EventStatusActive {
		t.Errorf("status = %s, want active", e2.Status)
	}

	// Going back is rejected.
	_, err = svc.UpdateEventStatus(ctx, adminActor, e.ID, model.EventStatusDraft)
	if errCode(t, err) != service.CodeInvalidTransition {
		t.Errorf("backward code = %s, want INVALID_STATUS_TRANSITION", errCode(t, err))
	}

	for _, next := range []model.EventStatus{model.EventStatusFinalized, model.EventStatusArchived} {
		if _, err := svc.UpdateEventStatus(ctx, adminActor, e.ID, next); err != nil {
			t.Fatalf("advance to %s: %v", next, err)
		}
	}
	// Archived is terminal.
	_, err = svc.UpdateEventStatus(ctx, adminActor, e.ID, model.EventStatusArchived)
	if errCode(t, err) != service.CodeInvalidTransition {
		t.Errorf("terminal code = %s, want INVALID_STATUS_TRANSITION", errCode(t, err))
	}
}

func TestOperatorCannotRewriteEventFields(t *testing.T) {
	svc := newTestService(t)
	e := mustCreateEvent(t, svc, model.AggregationMean)
	_, err := svc.UpdateEvent(context.Background(), operatorActor, e.ID, validEventInput())
	if errCode(t, err) != service.CodeForbidden {
		t.Errorf("code = %s, want FORBIDDEN", errCode(t, err))
	}
}

func TestDeletedEventVisibility(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	e := mustCreateEvent(t, svc, model.AggregationMean)

	if err := svc.DeleteEvent(ctx, operatorActor, e.ID); errCode(t, err) != service.CodeForbidden {
		t.Fatalf("operator delete code = %s, want FORBIDDEN", errCode(t, err))
	}
	if err := svc.DeleteEvent(ctx, adminActor, e.ID); err != nil {
		t.Fatalf("DeleteEvent: %v", err)
	}

	if _, err := svc.GetEvent(ctx, adminActor, e.ID, false); errCode(t, err) != service.CodeNotFound {
		t.Errorf("live read code = %s, want NOT_FOUND", errCode(t, err))
	}
	if _, err := svc.GetEvent(ctx, adminActor, e.ID, true); err != nil {
		t.Errorf("admin include_deleted read: %v", err)
	}
	// include_deleted is honored for admins only.
	if _, err := svc.GetEvent(ctx, operatorActor, e.ID, true); errCode(t, err) != service.CodeNotFound {
		t.Errorf("operator include_deleted code = %s, want NOT_FOUND", errCode(t, err))
	}
}

func TestLoginAndThrottle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	user, err := svc.CreateUser(ctx, service.SystemActor, service.UserInput{
		Username: "pitboss",
		Password: strongPassword,
		Role:     model.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	res, err := svc.Login(ctx, "pitboss", strongPassword)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.AccessToken == "" || res.User.ID != user.ID {
		t.Errorf("login result = %+v", res)
	}
	if res.ExpiresIn != int64((24 * time.Hour).Seconds()) {
		t.Errorf("ExpiresIn = %d, want %d", res.ExpiresIn, int64((24*time.Hour).Seconds()))
	}

	for i := 0; i < 3; i++ {
		if _, err := svc.Login(ctx, "pitboss", "wrong"); errCode(t, err) != service.CodeInvalidCreds {
			t.Fatalf("attempt %d code = %s, want INVALID_CREDENTIALS", i, errCode(t, err))
		}
	}
	// Throttled now, even with the right password.
	if _, err := svc.Login(ctx, "pitboss", strongPassword); errCode(t, err) != service.CodeUnauthorized {
		t.Errorf("throttled code = %s, want UNAUTHORIZED", errCode(t, err))
	}
	// Unknown usernames burn throttle slots too but report the same code.
	if _, err := svc.Login(ctx, "nobody", "wrong"); errCode(t, err) != service.CodeInvalidCreds {
		t.Errorf("unknown user code = %s, want INVALID_CREDENTIALS", errCode(t, err))
	}
}

func TestRefreshTokenAndCurrentUser(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	user, err := svc.CreateUser(ctx, service.SystemActor, service.UserInput{
		Username: "pitboss",
		Password: strongPassword,
		Role:     model.RoleOperator,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	actor := service.Actor{Kind: service.ActorKindUser, UserID: user.ID, Role: user.Role}

	res, err := svc.RefreshToken(ctx, actor)
	if err != nil {
		t.Fatalf("RefreshToken: %v", err)
	}
	if res.AccessToken == "" || res.User.Username != "pitboss" {
		t.Errorf("refresh result = %+v", res)
	}

	me, err := svc.CurrentUser(ctx, actor)
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if me.ID != user.ID {
		t.Errorf("CurrentUser ID = %s, want %s", me.ID, user.ID)
	}

	judge := service.Actor{Kind: service.ActorKindJudge, SeatID: "st-1"}
	if _, err := svc.RefreshToken(ctx, judge); errCode(t, err) != service.CodeUnauthorized {
		t.Errorf("judge refresh code = %s, want UNAUTHORIZED", errCode(t, err))
	}
}

func TestCreateUserRules(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, operatorActor, service.UserInput{
		Username: "x", Password: strongPassword, Role: model.RoleOperator,
	}); errCode(t, err) != service.CodeForbidden {
		t.Errorf("operator create code = %s, want FORBIDDEN", errCode(t, err))
	}

	if _, err := svc.CreateUser(ctx, adminActor, service.UserInput{
		Username: "weakling", Password: "password123", Role: model.RoleOperator,
	}); errCode(t, err) != service.CodeValidation {
		t.Errorf("weak password code = %s, want VALIDATION_ERROR", errCode(t, err))
	}

	if _, err := svc.CreateUser(ctx, adminActor, service.UserInput{
		Username: "pitboss", Password: strongPassword, Role: model.RoleOperator,
	}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if _, err := svc.CreateUser(ctx, adminActor, service.UserInput{
		Username: "pitboss", Password: strongPassword, Role: model.RoleAdmin,
	}); errCode(t, err) != service.CodeConflict {
		t.Errorf("duplicate username code = %s, want CONFLICT", errCode(t, err))
	}
}

func TestBootstrapAdminRunsOnce(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.BootstrapAdmin(ctx, "boss", strongPassword); err != nil {
		t.Fatalf("BootstrapAdmin: %v", err)
	}
	// A second bootstrap is a no-op once any account exists.
	if err := svc.BootstrapAdmin(ctx, "other", strongPassword); err != nil {
		t.Fatalf("second BootstrapAdmin: %v", err)
	}

	if _, err := svc.Login(ctx, "boss", strongPassword); err != nil {
		t.Errorf("bootstrap account login: %v", err)
	}
	if _, err := svc.Login(ctx, "other", strongPassword); errCode(t, err) != service.CodeInvalidCreds {
		t.Errorf("second bootstrap username logged in; want INVALID_CREDENTIALS")
	}
}

func TestIssueSeatToken(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	e := mustCreateEvent(t, svc, model.AggregationMean)
	table, err := svc.CreateTable(ctx, adminActor, e.ID, service.TableInput{TableNumber: 1})
	if err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	seats, err := svc.CreateSeats(ctx, adminActor, table.ID, []service.SeatInput{{SeatNumber: 1}, {SeatNumber: 2}})
	if err != nil {
		t.Fatalf("CreateSeats: %v", err)
	}

	res, err := svc.IssueSeatToken(ctx, table.QRToken, 2)
	if err != nil {
		t.Fatalf("IssueSeatToken: %v", err)
	}
	if res.AccessToken == "" || res.SeatID != seats[1].ID || res.EventID != e.ID {
		t.Errorf("seat token result = %+v", res)
	}

	if _, err := svc.IssueSeatToken(ctx, "no-such-token", 1); errCode(t, err) != service.CodeInvalidQRToken {
		t.Errorf("unknown token code = %s, want INVALID_QR_TOKEN", errCode(t, err))
	}
	if _, err := svc.IssueSeatToken(ctx, table.QRToken, 9); errCode(t, err) != service.CodeInvalidQRToken {
		t.Errorf("unknown seat code = %s, want INVALID_QR_TOKEN", errCode(t, err))
	}

	// A regenerated token invalidates the old one at the login step.
	updated, err := svc.RegenerateTableToken(ctx, adminActor, table.ID)
	if err != nil {
		t.Fatalf("RegenerateTableToken: %v", err)
	}
	if _, err := svc.IssueSeatToken(ctx, table.QRToken, 1); errCode(t, err) != service.CodeInvalidQRToken {
		t.Errorf("old token code = %s, want INVALID_QR_TOKEN", errCode(t, err))
	}
	if _, err := svc.IssueSeatToken(ctx, updated.QRToken, 1); err != nil {
		t.Errorf("new token: %v", err)
	}
}

func TestCreateSubmissionCrossEventPair(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	e1 := mustCreateEvent(t, svc, model.AggregationMean)
	in := validEventInput()
	in.Name = "Rib Rumble"
	e2, err := svc.CreateEvent(ctx, adminActor, in)
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}

	team, err := svc.CreateTeam(ctx, adminActor, e1.ID, service.TeamInput{Name: "Holy Smokes", TeamNumber: 1})
	if err != nil {
		t.Fatalf("CreateTeam: %v", err)
	}
	category, err := svc.CreateCategory(ctx, adminActor, e2.ID, service.CategoryInput{Name: "Brisket"})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	_, err = svc.CreateSubmission(ctx, adminActor, service.SubmissionInput{TeamID: team.ID, CategoryID: category.ID})
	if errCode(t, err) != service.CodeConflict {
		t.Errorf("cross-event pair code = %s, want CONFLICT", errCode(t, err))
	}
}

func TestSubmissionLifecycle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	e := mustCreateEvent(t, svc, model.AggregationMean)
	team, err := svc.CreateTeam(ctx, adminActor, e.ID, service.TeamInput{Name: "Holy Smokes", TeamNumber: 1})
	if err != nil {
		t.Fatalf("CreateTeam: %v", err)
	}
	category, err := svc.CreateCategory(ctx, adminActor, e.ID, service.CategoryInput{Name: "Brisket"})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	sub, err := svc.CreateSubmission(ctx, adminActor, service.SubmissionInput{TeamID: team.ID, CategoryID: category.ID})
	if err != nil {
		t.Fatalf("CreateSubmission: %v", err)
	}
	if sub.Status != model.SubmissionStatusPending || sub.TurnedInAt != nil {
		t.Fatalf("new submission = %+v", sub)
	}

	// Skipping turn-in is rejected.
	_, err = svc.TransitionSubmission(ctx, adminActor, sub.ID, model.SubmissionStatusBeingJudged)
	if errCode(t, err) != service.CodeInvalidTransition {
		t.Errorf("skip code = %s, want INVALID_STATUS_TRANSITION", errCode(t, err))
	}

	turned, err := svc.TransitionSubmission(ctx, operatorActor, sub.ID, model.SubmissionStatusTurnedIn)
	if err != nil {
		t.Fatalf("turn in: %v", err)
	}
	if turned.TurnedInAt == nil {
		t.Error("TurnedInAt not stamped on turn-in")
	}

	for _, next := range []model.SubmissionStatus{
		model.SubmissionStatusBeingJudged, model.SubmissionStatusScored, model.SubmissionStatusFinalized,
	} {
		if _, err := svc.TransitionSubmission(ctx, adminActor, sub.ID, next); err != nil {
			t.Fatalf("advance to %s: %v", next, err)
		}
	}
}

const importDoc = `
tables:
  - table_number: 1
    seats: 4
  - table_number: 2
    seats: 4
categories:
  - name: Brisket
    sort_order: 1
  - name: Pork Ribs
    sort_order: 2
criteria:
  - name: Taste
    weight: "2"
    sort_order: 1
  - name: Texture
    sort_order: 2
teams:
  - name: Holy Smokes
    team_number: 1
  - name: Low N Slow
    team_number: 2
`

func TestImportEventSetup(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	e := mustCreateEvent(t, svc, model.AggregationMean)

	setup, err := service.ParseEventSetup([]byte(importDoc))
	if err != nil {
		t.Fatalf("ParseEventSetup: %v", err)
	}

	if _, err := svc.ImportEventSetup(ctx, operatorActor, e.ID, setup); errCode(t, err) != service.CodeForbidden {
		t.Fatalf("operator import code = %s, want FORBIDDEN", errCode(t, err))
	}

	summary, err := svc.ImportEventSetup(ctx, adminActor, e.ID, setup)
	if err != nil {
		t.Fatalf("ImportEventSetup: %v", err)
	}
	want := service.ImportSummary{Tables: 2, Seats: 8, Categories: 2, Criteria: 2, Teams: 2}
	if *summary != want {
		t.Errorf("summary = %+v, want %+v", *summary, want)
	}

	criteria, err := svc.ListCriteria(ctx, adminActor, e.ID, false)
	if err != nil {
		t.Fatalf("ListCriteria: %v", err)
	}
	if len(criteria) != 2 {
		t.Fatalf("len(criteria) = %d, want 2", len(criteria))
	}
	// An omitted weight defaults to 1.
	for _, c := range criteria {
		if c.Name == "Texture" && !c.Weight.Equal(decimal.NewFromInt(1)) {
			t.Errorf("Texture weight = %s, want 1", c.Weight)
		}
	}
}

func TestParseEventSetupRejectsUnknownFields(t *testing.T) {
	_, err := service.ParseEventSetup([]byte("tables:\n  - table_number: 1\n    chairs: 4\n"))
	if errCode(t, err) != service.CodeValidation {
		t.Errorf("code = %s, want VALIDATION_ERROR", errCode(t, err))
	}
}
