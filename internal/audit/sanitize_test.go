package audit

import (
	"encoding/json"
	"testing"
)

func TestSanitizeRedactsSensitiveFields(t *testing.T) {
	raw := json.RawMessage(`{
		"username": "pitboss",
		"password": "super secret",
		"password_hash": "$2a$12$abc",
		"qr_token": "deadbeef",
		"nested": {"access_token": "tok", "name": "ok"},
		"list": [{"qrToken": "beef"}, {"plain": 1}]
	}`)

	var doc map[string]any
	if err := json.Unmarshal(Sanitize(raw), &doc); err != nil {
		t.Fatalf("unmarshal sanitized: %v", err)
	}

	if doc["username"] != "pitboss" {
		t.Errorf("username = %v, want pitboss", doc["username"])
	}
	for _, key := range []string{"password", "password_hash", "qr_token"} {
		if doc[key] != "[REDACTED]" {
			t.Errorf("%s = %v, want [REDACTED]", key, doc[key])
		}
	}
	nested := doc["nested"].(map[string]any)
	if nested["access_token"] != "[REDACTED]" {
		t.Errorf("nested access_token = %v, want [REDACTED]", nested["access_token"])
	}
	if nested["name"] != "ok" {
		t.Errorf("nested name = %v, want ok", nested["name"])
	}
	list := doc["list"].([]any)
	if list[0].(map[string]any)["qrToken"] != "[REDACTED]" {
		t.Errorf("list qrToken = %v, want [REDACTED]", list[0])
	}
}

func TestSanitizePassesInvalidJSONThrough(t *testing.T) {
	raw := json.RawMessage(`not json`)
	if got := Sanitize(raw); string(got) != "not json" {
		t.Errorf("Sanitize = %q, want passthrough", got)
	}
}

func TestSanitizeEmpty(t *testing.T) {
	if got := Sanitize(nil); got != nil {
		t.Errorf("Sanitize(nil) = %q, want nil", got)
	}
}
