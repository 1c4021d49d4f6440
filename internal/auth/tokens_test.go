package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/grillwire/cookoff/internal/model"
)

const tokenTestSecret = "rubbed-not-sauced-rubbed-not-sauced"

func newTestIssuer() *TokenIssuer {
	return NewTokenIssuer(tokenTestSecret, 24*time.Hour, 90*time.Minute)
}

func TestUserTokenRoundTrip(t *testing.T) {
	ti := newTestIssuer()
	token, err := ti.IssueUserToken("user-1", model.RoleOperator, time.Now())
	if err != nil {
		t.Fatalf("IssueUserToken: %v", err)
	}

	claims, err := ti.ValidateUserToken(token)
	if err != nil {
		t.Fatalf("ValidateUserToken: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("Subject = %q, want user-1", claims.Subject)
	}
	if claims.Role != model.RoleOperator {
		t.Errorf("Role = %q, want operator", claims.Role)
	}
}

func TestSeatTokenRoundTrip(t *testing.T) {
	ti := newTestIssuer()
	token, err := ti.IssueSeatToken("ev-1", "tb-1", "st-1", 4, time.Now())
	if err != nil {
		t.Fatalf("IssueSeatToken: %v", err)
	}

	claims, err := ti.ValidateSeatToken(token)
	if err != nil {
		t.Fatalf("ValidateSeatToken: %v", err)
	}
	if claims.EventID != "ev-1" || claims.TableID != "tb-1" || claims.SeatID != "st-1" {
		t.Errorf("claims = %+v, want ev-1/tb-1/st-1", claims)
	}
	if claims.SeatNumber != 4 {
		t.Errorf("SeatNumber = %d, want 4", claims.SeatNumber)
	}
}

func TestTokenNamespacesAreSeparate(t *testing.T) {
	ti := newTestIssuer()
	userToken, err := ti.IssueUserToken("user-1", model.RoleAdmin, time.Now())
	if err != nil {
		t.Fatalf("IssueUserToken: %v", err)
	}
	seatToken, err := ti.IssueSeatToken("ev-1", "tb-1", "st-1", 1, time.Now())
	if err != nil {
		t.Fatalf("IssueSeatToken: %v", err)
	}

	if _, err := ti.ValidateSeatToken(userToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("user token in seat namespace: err = %v, want ErrInvalidToken", err)
	}
	if _, err := ti.ValidateUserToken(seatToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("seat token in user namespace: err = %v, want ErrInvalidToken", err)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	ti := newTestIssuer()
	token, err := ti.IssueUserToken("user-1", model.RoleAdmin, time.Now().Add(-48*time.Hour))
	if err != nil {
		t.Fatalf("IssueUserToken: %v", err)
	}
	if _, err := ti.ValidateUserToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired token: err = %v, want ErrInvalidToken", err)
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	ti := newTestIssuer()
	token, err := ti.IssueUserToken("user-1", model.RoleAdmin, time.Now())
	if err != nil {
		t.Fatalf("IssueUserToken: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("token parts = %d, want 3", len(parts))
	}
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))
	if _, err := ti.ValidateUserToken(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("tampered token: err = %v, want ErrInvalidToken", err)
	}
}

func TestWrongSecretRejected(t *testing.T) {
	token, err := newTestIssuer().IssueUserToken("user-1", model.RoleAdmin, time.Now())
	if err != nil {
		t.Fatalf("IssueUserToken: %v", err)
	}
	other := NewTokenIssuer("a-different-secret-entirely-here", 24*time.Hour, 90*time.Minute)
	if _, err := other.ValidateUserToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("wrong secret: err = %v, want ErrInvalidToken", err)
	}
}
