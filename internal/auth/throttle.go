package auth

import (
	"time"

	"github.com/puzpuzpuz/xsync/v4"
)

// LoginThrottle tracks failed login attempts per username. Once a username
// exceeds the failure budget inside the window, further attempts are
// rejected before any bcrypt work happens.
type LoginThrottle struct {
	maxFailures int
	window      time.Duration
	failures    *xsync.Map[string, failureRecord]
}

type failureRecord struct {
	count int
	first time.Time
}

// NewLoginThrottle creates a LoginThrottle.
func NewLoginThrottle(maxFailures int, window time.Duration) *LoginThrottle {
	return &LoginThrottle{
		maxFailures: maxFailures,
		window:      window,
		failures:    xsync.NewMap[string, failureRecord](),
	}
}

// Allow reports whether a login attempt for username may proceed.
func (t *LoginThrottle) Allow(username string) bool {
	rec, ok := t.failures.Load(username)
	if !ok {
		return true
	}
	if time.Since(rec.first) > t.window {
		t.failures.Delete(username)
		return true
	}
	return rec.count < t.maxFailures
}

// RecordFailure counts one failed attempt for username.
func (t *LoginThrottle) RecordFailure(username string) {
	now := time.Now()
	t.failures.Compute(username, func(old failureRecord, loaded bool) (failureRecord, xsync.ComputeOp) {
		if !loaded || now.Sub(old.first) > t.window {
			return failureRecord{count: 1, first: now}, xsync.UpdateOp
		}
		old.count++
		return old, xsync.UpdateOp
	})
}

// RecordSuccess clears the failure count for username.
func (t *LoginThrottle) RecordSuccess(username string) {
	t.failures.Delete(username)
}
