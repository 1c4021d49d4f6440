package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/grillwire/cookoff/internal/audit"
	"github.com/grillwire/cookoff/internal/barcode"
	"github.com/grillwire/cookoff/internal/model"
)

// TeamInput carries the writable fields of a team.
type TeamInput struct {
	Name       string
	TeamNumber int
}

func validateTeamInput(in TeamInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return invalidArg("name: must be non-empty")
	}
	if in.TeamNumber < 1 {
		return invalidArg("team_number: must be a positive integer")
	}
	return nil
}

// CreateTeam creates a team under an event and mints its barcode.
func (s *Service) CreateTeam(ctx context.Context, actor Actor, eventID string, in TeamInput) (*model.Team, error) {
	if !actor.IsStaff() {
		return nil, forbidden("only staff can create teams")
	}
	if err := validateTeamInput(in); err != nil {
		return nil, err
	}
	if _, err := s.store.GetEvent(ctx, eventID, false); err != nil {
		return nil, translateStoreErr(ctx, err, "event")
	}

	now := s.now()
	id := uuid.NewString()
	t := model.Team{
		ID:             id,
		EventID:        eventID,
		Name:           strings.TrimSpace(in.Name),
		TeamNumber:     in.TeamNumber,
		BarcodePayload: barcode.Generate(eventID, id, []byte(s.barcodeSecret)),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.CreateTeam(ctx, t); err != nil {
		return nil, translateStoreErr(ctx, err, "team")
	}
	s.recordAudit(actor, audit.ActionCreated, "team", t.ID, eventID, nil, t)
	return &t, nil
}

// CreateTeams bulk-creates teams, all-or-nothing.
func (s *Service) CreateTeams(ctx context.Context, actor Actor, eventID string, inputs []TeamInput) ([]model.Team, error) {
	if !actor.IsStaff() {
		return nil, forbidden("only staff can create teams")
	}
	if len(inputs) == 0 {
		return nil, invalidArg("items: must not be empty")
	}
	seen := make(map[int]bool, len(inputs))
	for _, in := range inputs {
		if err := validateTeamInput(in); err != nil {
			return nil, err
		}
		if seen[in.TeamNumber] {
			return nil, conflict("duplicate team_number in request")
		}
		seen[in.TeamNumber] = true
	}
	if _, err := s.store.GetEvent(ctx, eventID, false); err != nil {
		return nil, translateStoreErr(ctx, err, "event")
	}

	now := s.now()
	teams := make([]model.Team, 0, len(inputs))
	for _, in := range inputs {
		id := uuid.NewString()
		teams = append(teams, model.Team{
			ID:             id,
			EventID:        eventID,
			Name:           strings.TrimSpace(in.Name),
			TeamNumber:     in.TeamNumber,
			BarcodePayload: barcode.Generate(eventID, id, []byte(s.barcodeSecret)),
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}
	if err := s.store.CreateTeams(ctx, teams); err != nil {
		return nil, translateStoreErr(ctx, err, "team")
	}
	for _, t := range teams {
		s.recordAudit(actor, audit.ActionCreated, "team", t.ID, eventID, nil, t)
	}
	return teams, nil
}

// GetTeam returns one team.
func (s *Service) GetTeam(ctx context.Context, actor Actor, id string, includeDeleted bool) (*model.Team, error) {
	t, err := s.store.GetTeam(ctx, id, includeDeletedFor(actor, includeDeleted))
	if err != nil {
		return nil, translateStoreErr(ctx, err, "team")
	}
	return t, nil
}

// ListTeams returns an event's teams.
func (s *Service) ListTeams(ctx context.Context, actor Actor, eventID string, includeDeleted bool) ([]model.Team, error) {
	teams, err := s.store.ListTeamsByEvent(ctx, eventID, includeDeletedFor(actor, includeDeleted))
	if err != nil {
		return nil, translateStoreErr(ctx, err, "team")
	}
	return teams, nil
}

// UpdateTeam rewrites a team's writable fields. The barcode is untouched;
// use InvalidateTeamCode to rotate it.
func (s *Service) UpdateTeam(ctx context.Context, actor Actor, id string, in TeamInput) (*model.Team, error) {
	if !actor.IsStaff() {
		return nil, forbidden("only staff can update teams")
	}
	if err := validateTeamInput(in); err != nil {
		return nil, err
	}
	old, err := s.store.GetTeam(ctx, id, false)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "team")
	}

	updated := *old
	updated.Name = strings.TrimSpace(in.Name)
	updated.TeamNumber = in.TeamNumber
	updated.UpdatedAt = s.now()
	if err := s.store.UpdateTeam(ctx, updated); err != nil {
		return nil, translateStoreErr(ctx, err, "team")
	}
	s.recordAudit(actor, audit.ActionUpdated, "team", id, old.EventID, old, updated)
	return &updated, nil
}

// InvalidateTeamCode rotates a team's barcode: the old payload stops
// verifying because its mint timestamp now predates code_invalidated_at,
// and a fresh payload is minted in its place.
func (s *Service) InvalidateTeamCode(ctx context.Context, actor Actor, id string) (*model.Team, error) {
	if !actor.IsStaff() {
		return nil, forbidden("only staff can invalidate team codes")
	}
	old, err := s.store.GetTeam(ctx, id, false)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "team")
	}

	now := s.now()
	// Payload timestamps carry millisecond precision; the cutoff must be
	// truncated the same way or the fresh payload lands on the wrong side.
	cutoff := now.Truncate(time.Millisecond)
	updated := *old
	updated.BarcodePayload = barcode.GenerateAt(old.EventID, old.ID, now, []byte(s.barcodeSecret))
	updated.CodeInvalidatedAt = &cutoff
	updated.UpdatedAt = now
	if err := s.store.UpdateTeam(ctx, updated); err != nil {
		return nil, translateStoreErr(ctx, err, "team")
	}
	s.recordAudit(actor, audit.ActionUpdated, "team", id, old.EventID, old, updated)
	return &updated, nil
}

// DeleteTeam soft-deletes a team.
func (s *Service) DeleteTeam(ctx context.Context, actor Actor, id string) error {
	if !actor.IsStaff() {
		return forbidden("only staff can delete teams")
	}
	old, err := s.store.GetTeam(ctx, id, false)
	if err != nil {
		return translateStoreErr(ctx, err, "team")
	}
	if err := s.store.SoftDeleteTeam(ctx, id, s.now()); err != nil {
		return translateStoreErr(ctx, err, "team")
	}
	s.recordAudit(actor, audit.ActionSoftDeleted, "team", id, old.EventID, old, nil)
	return nil
}

// BarcodeVerification is the outcome of a turn-in scan.
type BarcodeVerification struct {
	Valid   bool        `json:"valid"`
	Legacy  bool        `json:"legacy,omitempty"`
	Error   string      `json:"error,omitempty"`
	EventID string      `json:"event_id,omitempty"`
	TeamID  string      `json:"team_id,omitempty"`
	Team    *model.Team `json:"team,omitempty"`
}

// VerifyTeamBarcode checks a scanned payload: signature first, then team
// existence, optional event match, and the invalidation window. Legacy
// AZTEC payloads are recognized but never verify; they cannot be re-signed.
func (s *Service) VerifyTeamBarcode(ctx context.Context, actor Actor, payload, wantEventID string) (*BarcodeVerification, error) {
	if barcode.IsLegacy(payload) {
		return &BarcodeVerification{Valid: false, Legacy: true, Error: "Legacy barcode; reprint required"}, nil
	}

	p, err := barcode.Verify(payload, []byte(s.barcodeSecret))
	if err != nil {
		return &BarcodeVerification{Valid: false, Error: err.Error()}, nil
	}

	team, err := s.store.GetTeam(ctx, p.TeamID, false)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "team")
	}
	if team.EventID != p.EventID {
		return &BarcodeVerification{Valid: false, Error: "Barcode does not match team event"}, nil
	}
	if wantEventID != "" && team.EventID != wantEventID {
		return &BarcodeVerification{Valid: false, Error: "Barcode belongs to a different event"}, nil
	}
	if team.CodeInvalidatedAt != nil && p.MintedAt().Before(*team.CodeInvalidatedAt) {
		return &BarcodeVerification{Valid: false, Error: "Barcode has been invalidated"}, nil
	}

	return &BarcodeVerification{
		Valid:   true,
		EventID: p.EventID,
		TeamID:  p.TeamID,
		Team:    team,
	}, nil
}
