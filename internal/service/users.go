package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/grillwire/cookoff/internal/audit"
	"github.com/grillwire/cookoff/internal/auth"
	"github.com/grillwire/cookoff/internal/model"
	"github.com/grillwire/cookoff/internal/store"
)

// LoginResult is a successful staff authentication.
type LoginResult struct {
	AccessToken string      `json:"access_token"`
	ExpiresIn   int64       `json:"expires_in"` // seconds
	User        *model.User `json:"user"`
}

// Login verifies a staff credential pair and issues a user token. Failed
// attempts count against the per-username throttle; a throttled username is
// rejected before any bcrypt work.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, invalidArg("username and password are required")
	}
	if !s.throttle.Allow(username) {
		return nil, unauthorized("too many failed attempts; try again later")
	}

	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.throttle.RecordFailure(username)
			return nil, invalidCredentials()
		}
		return nil, translateStoreErr(ctx, err, "user")
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		s.throttle.RecordFailure(username)
		return nil, invalidCredentials()
	}
	s.throttle.RecordSuccess(username)

	token, err := s.tokens.IssueUserToken(user.ID, user.Role, s.now())
	if err != nil {
		return nil, internalErr("issue token", err)
	}
	return &LoginResult{
		AccessToken: token,
		ExpiresIn:   int64(s.tokens.UserTTL().Seconds()),
		User:        user,
	}, nil
}

// RefreshToken re-issues a user token for an already-authenticated actor.
func (s *Service) RefreshToken(ctx context.Context, actor Actor) (*LoginResult, error) {
	if actor.Kind != ActorKindUser {
		return nil, unauthorized("only user tokens can be refreshed")
	}
	user, err := s.store.GetUser(ctx, actor.UserID, false)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "user")
	}
	token, err := s.tokens.IssueUserToken(user.ID, user.Role, s.now())
	if err != nil {
		return nil, internalErr("issue token", err)
	}
	return &LoginResult{
		AccessToken: token,
		ExpiresIn:   int64(s.tokens.UserTTL().Seconds()),
		User:        user,
	}, nil
}

// CurrentUser returns the authenticated user's record.
func (s *Service) CurrentUser(ctx context.Context, actor Actor) (*model.User, error) {
	if actor.Kind != ActorKindUser {
		return nil, unauthorized("not authenticated as a user")
	}
	user, err := s.store.GetUser(ctx, actor.UserID, false)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "user")
	}
	return user, nil
}

// SeatTokenResult is a successful judge authentication.
type SeatTokenResult struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"` // seconds
	EventID     string `json:"event_id"`
	TableID     string `json:"table_id"`
	SeatID      string `json:"seat_id"`
	SeatNumber  int    `json:"seat_number"`
}

// IssueSeatToken authenticates a judge: the QR token must belong to a
// non-deleted table and the seat number must exist under it.
func (s *Service) IssueSeatToken(ctx context.Context, qrToken string, seatNumber int) (*SeatTokenResult, error) {
	if qrToken == "" || seatNumber < 1 {
		return nil, invalidArg("qr_token and a positive seat_number are required")
	}
	table, err := s.store.GetTableByQRToken(ctx, qrToken)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, invalidQRToken()
		}
		return nil, translateStoreErr(ctx, err, "table")
	}
	seat, err := s.store.GetSeatByNumber(ctx, table.ID, seatNumber)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, invalidQRToken()
		}
		return nil, translateStoreErr(ctx, err, "seat")
	}

	token, err := s.tokens.IssueSeatToken(table.EventID, table.ID, seat.ID, seat.SeatNumber, s.now())
	if err != nil {
		return nil, internalErr("issue token", err)
	}
	return &SeatTokenResult{
		AccessToken: token,
		ExpiresIn:   int64(s.tokens.SeatTTL().Seconds()),
		EventID:     table.EventID,
		TableID:     table.ID,
		SeatID:      seat.ID,
		SeatNumber:  seat.SeatNumber,
	}, nil
}

// UserInput carries the fields of a new staff account.
type UserInput struct {
	Username string
	Password string
	Role     model.Role
}

// CreateUser creates a staff account. Admin only; the password must clear
// the strength gate.
func (s *Service) CreateUser(ctx context.Context, actor Actor, in UserInput) (*model.User, error) {
	if actor.Kind != ActorKindSystem && !actor.IsAdmin() {
		return nil, forbidden("only admins can create users")
	}
	return s.createUser(ctx, actor, in)
}

func (s *Service) createUser(ctx context.Context, actor Actor, in UserInput) (*model.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, invalidArg("username: must be non-empty")
	}
	if !in.Role.Valid() {
		return nil, invalidArg("role: must be admin or operator")
	}
	if err := auth.CheckPasswordStrength(in.Password, username); err != nil {
		return nil, invalidArg(err.Error())
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, internalErr("hash password", err)
	}
	now := s.now()
	user := model.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Role:         in.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, translateStoreErr(ctx, err, "user")
	}
	s.recordAudit(actor, audit.ActionCreated, "user", user.ID, "", nil, user)
	return &user, nil
}

// BootstrapAdmin creates the first admin account when the users table is
// empty. A no-op when any account already exists or no credentials are
// configured.
func (s *Service) BootstrapAdmin(ctx context.Context, username, password string) error {
	if username == "" {
		return nil
	}
	n, err := s.store.CountUsers(ctx)
	if err != nil {
		return translateStoreErr(ctx, err, "user")
	}
	if n > 0 {
		return nil
	}
	if _, err := s.createUser(ctx, SystemActor, UserInput{
		Username: username,
		Password: password,
		Role:     model.RoleAdmin,
	}); err != nil {
		return err
	}
	log.Printf("[service] bootstrap admin account %q created", username)
	return nil
}
