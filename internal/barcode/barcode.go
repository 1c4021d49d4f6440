// Package barcode implements the signed turn-in codes printed on team box
// labels. A payload is "{eventID}:{teamID}:{timestampMs}:{sig}" where sig is
// the first 16 hex characters of an HMAC-SHA256 over the first three parts.
//
// The codec is stateless and payloads never expire; invalidation is handled
// above it by comparing the mint timestamp against the team's
// code_invalidated_at.
package barcode

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// signatureLen is the number of hex characters of the HMAC kept in a payload.
const signatureLen = 16

// legacyPrefix marks payloads minted by the retired label printer. They can
// still be looked up by exact match but are never minted.
const legacyPrefix = "AZTEC-"

// Error messages are part of the wire contract; scanning clients match on
// the exact text.
var (
	ErrInvalidSignature = errors.New("Invalid signature")
	ErrInvalidFormat    = errors.New("Invalid barcode format")
)

// Payload is a parsed turn-in code.
type Payload struct {
	EventID     string
	TeamID      string
	TimestampMs int64
	Signature   string
}

// MintedAt returns the payload's mint time.
func (p Payload) MintedAt() time.Time {
	return time.UnixMilli(p.TimestampMs)
}

// Generate mints a payload for the given team, stamped with the current
// wall clock.
func Generate(eventID, teamID string, secret []byte) string {
	return GenerateAt(eventID, teamID, time.Now(), secret)
}

// GenerateAt mints a payload stamped with the given time.
func GenerateAt(eventID, teamID string, at time.Time, secret []byte) string {
	ts := at.UnixMilli()
	return fmt.Sprintf("%s:%s:%d:%s", eventID, teamID, ts, sign(eventID, teamID, ts, secret))
}

// Parse splits a payload into its parts. It validates shape only: exactly
// four non-empty colon-separated parts with an integer timestamp. Signature
// correctness is Verify's job.
func Parse(payload string) (Payload, error) {
	parts := strings.Split(payload, ":")
	if len(parts) != 4 {
		return Payload{}, ErrInvalidFormat
	}
	for _, part := range parts {
		if part == "" {
			return Payload{}, ErrInvalidFormat
		}
	}
	ts, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return Payload{}, ErrInvalidFormat
	}
	return Payload{
		EventID:     parts[0],
		TeamID:      parts[1],
		TimestampMs: ts,
		Signature:   parts[3],
	}, nil
}

// Verify parses the payload, recomputes the signature and compares in
// constant time. On success it returns the decoded payload.
func Verify(payload string, secret []byte) (Payload, error) {
	p, err := Parse(payload)
	if err != nil {
		return Payload{}, err
	}
	want := sign(p.EventID, p.TeamID, p.TimestampMs, secret)
	if !hmac.Equal([]byte(p.Signature), []byte(want)) {
		return Payload{}, ErrInvalidSignature
	}
	return p, nil
}

// IsLegacy reports whether the payload was minted by the retired labeler.
func IsLegacy(payload string) bool {
	return strings.HasPrefix(payload, legacyPrefix)
}

func sign(eventID, teamID string, ts int64, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	fmt.Fprintf(mac, "%s:%s:%d", eventID, teamID, ts)
	return hex.EncodeToString(mac.Sum(nil))[:signatureLen]
}
