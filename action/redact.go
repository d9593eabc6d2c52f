package action

import "strings"

// RedactedValue replaces values whose key looks sensitive.
const RedactedValue = "[REDACTED]"

// sensitiveKeys are matched as case-insensitive substrings of field names, so
// "key" catches "api_key" and "Authorization" catches nothing it shouldn't.
var sensitiveKeys = []string{
	"password", "token", "secret", "key",
	"authorization", "cookie", "ssn", "credit_card",
}

// Redact returns a copy of data with sensitive-looking fields replaced by
// RedactedValue. Nested maps and slices are walked recursively; the input is
// never modified.
func Redact(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}
	out := make(map[string]any, len(data))
	for k, v := range data {
		if isSensitiveKey(k) {
			out[k] = RedactedValue
			continue
		}
		out[k] = redactValue(v)
	}
	return out
}

func redactValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return Redact(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = redactValue(item)
		}
		return out
	default:
		return v
	}
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
