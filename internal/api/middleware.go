package api

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/grillwire/cookoff/internal/auth"
	"github.com/grillwire/cookoff/internal/service"
)

type contextKey int

const actorContextKey contextKey = iota

// ActorFrom returns the authenticated actor the auth middleware attached to
// the request. Handlers behind AuthMiddleware can rely on it being present.
func ActorFrom(r *http.Request) service.Actor {
	actor, _ := r.Context().Value(actorContextKey).(service.Actor)
	return actor
}

// AuthMiddleware validates the Bearer token against both token namespaces
// and attaches the resulting actor to the request context. A token that
// validates in neither namespace is rejected; a malformed header is
// distinguished so clients can tell "no token" from "bad token".
func AuthMiddleware(tokens *auth.TokenIssuer, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			WriteError(w, http.StatusUnauthorized, service.CodeUnauthorized, "missing Authorization header")
			return
		}
		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			WriteError(w, http.StatusUnauthorized, service.CodeUnauthorized, "invalid Authorization header format")
			return
		}
		raw := header[len(prefix):]

		actor, ok := actorFromToken(tokens, raw)
		if !ok {
			WriteError(w, http.StatusUnauthorized, service.CodeInvalidToken, "invalid or expired token")
			return
		}
		actor.IPAddress = clientIP(r)
		actor.DeviceFingerprint = r.Header.Get("X-Device-Fingerprint")
		actor.IdempotencyKey = r.Header.Get("Idempotency-Key")

		ctx := context.WithValue(r.Context(), actorContextKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func actorFromToken(tokens *auth.TokenIssuer, raw string) (service.Actor, bool) {
	if claims, err := tokens.ValidateUserToken(raw); err == nil {
		return service.Actor{
			Kind:   service.ActorKindUser,
			UserID: claims.Subject,
			Role:   claims.Role,
		}, true
	}
	if claims, err := tokens.ValidateSeatToken(raw); err == nil {
		return service.Actor{
			Kind:       service.ActorKindJudge,
			SeatID:     claims.SeatID,
			TableID:    claims.TableID,
			EventID:    claims.EventID,
			SeatNumber: claims.SeatNumber,
		}, true
	}
	return service.Actor{}, false
}

// clientIP prefers the first X-Forwarded-For hop, falling back to the
// connection's remote address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RequestBodyLimitMiddleware enforces a max request body size for downstream
// handlers.
func RequestBodyLimitMiddleware(maxBytes int64, next http.Handler) http.Handler {
	if maxBytes <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		}
		next.ServeHTTP(w, r)
	})
}
