package audit

import (
	"encoding/json"
)

// redactedFields are stripped from old/new values before they hit disk.
// The audit trail records what changed, never the secrets themselves.
var redactedFields = map[string]struct{}{
	"password":      {},
	"password_hash": {},
	"passwordHash":  {},
	"qr_token":      {},
	"qrToken":       {},
	"access_token":  {},
	"accessToken":   {},
}

const redactedPlaceholder = "[REDACTED]"

// Sanitize replaces sensitive fields in a JSON document with a placeholder.
// Nested objects and arrays are walked. Invalid JSON is passed through
// untouched; better an unsanitized-but-odd row than a dropped one.
func Sanitize(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return raw
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return raw
	}
	cleaned := sanitizeValue(doc)
	out, err := json.Marshal(cleaned)
	if err != nil {
		return raw
	}
	return out
}

func sanitizeValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, inner := range val {
			if _, ok := redactedFields[k]; ok {
				val[k] = redactedPlaceholder
				continue
			}
			val[k] = sanitizeValue(inner)
		}
		return val
	case []any:
		for i, inner := range val {
			val[i] = sanitizeValue(inner)
		}
		return val
	default:
		return v
	}
}
