// Package auth implements the two-principal model: staff users holding
// password-backed JWTs and judges holding short-lived per-seat JWTs minted
// from a table QR token. The two token kinds live in separate namespaces;
// a seat token never authorizes a user route and vice versa.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/grillwire/cookoff/internal/model"
)

// Token kind discriminators embedded in every token. Validation checks the
// kind before anything else, which is what keeps the namespaces separate.
const (
	kindUser = "user"
	kindSeat = "seat"
)

// ErrInvalidToken is returned for tokens that fail signature, expiry or
// namespace checks. The cause is deliberately not distinguished to callers.
var ErrInvalidToken = errors.New("invalid token")

// UserClaims is the payload of a staff token.
type UserClaims struct {
	Kind string     `json:"kind"`
	Role model.Role `json:"role"`
	jwt.RegisteredClaims
}

// SeatClaims is the payload of a judge seat token.
type SeatClaims struct {
	Kind       string `json:"kind"`
	EventID    string `json:"event_id"`
	TableID    string `json:"table_id"`
	SeatID     string `json:"seat_id"`
	SeatNumber int    `json:"seat_number"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and validates both token kinds with a shared HMAC
// secret. The secret and TTLs are immutable configuration.
type TokenIssuer struct {
	secret  []byte
	userTTL time.Duration
	seatTTL time.Duration
}

// NewTokenIssuer creates a TokenIssuer.
func NewTokenIssuer(secret string, userTTL, seatTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), userTTL: userTTL, seatTTL: seatTTL}
}

// UserTTL returns the staff token lifetime.
func (ti *TokenIssuer) UserTTL() time.Duration { return ti.userTTL }

// SeatTTL returns the seat token lifetime.
func (ti *TokenIssuer) SeatTTL() time.Duration { return ti.seatTTL }

// IssueUserToken mints a staff token for the given user.
func (ti *TokenIssuer) IssueUserToken(userID string, role model.Role, now time.Time) (string, error) {
	claims := UserClaims{
		Kind: kindUser,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.userTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
}

// IssueSeatToken mints a judge token bound to one seat at one table.
func (ti *TokenIssuer) IssueSeatToken(eventID, tableID, seatID string, seatNumber int, now time.Time) (string, error) {
	claims := SeatClaims{
		Kind:       kindSeat,
		EventID:    eventID,
		TableID:    tableID,
		SeatID:     seatID,
		SeatNumber: seatNumber,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   seatID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.seatTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
}

// ValidateUserToken parses a staff token. Seat tokens and anything
// malformed, tampered or expired return ErrInvalidToken.
func (ti *TokenIssuer) ValidateUserToken(token string) (*UserClaims, error) {
	claims := &UserClaims{}
	if err := ti.parse(token, claims); err != nil {
		return nil, err
	}
	if claims.Kind != kindUser || !claims.Role.Valid() || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ValidateSeatToken parses a judge token. User tokens and anything
// malformed, tampered or expired return ErrInvalidToken.
func (ti *TokenIssuer) ValidateSeatToken(token string) (*SeatClaims, error) {
	claims := &SeatClaims{}
	if err := ti.parse(token, claims); err != nil {
		return nil, err
	}
	if claims.Kind != kindSeat || claims.SeatID == "" || claims.TableID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (ti *TokenIssuer) parse(token string, claims jwt.Claims) error {
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return ti.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !parsed.Valid {
		return ErrInvalidToken
	}
	return nil
}
