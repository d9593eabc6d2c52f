package action

import (
	"reflect"
	"testing"
)

func TestRedact_SensitiveKeys(t *testing.T) {
	in := map[string]any{
		"password": "x",
		"nested": map[string]any{
			"api_key": "y",
			"ok":      1,
		},
	}
	got := Redact(in)

	if got["password"] != RedactedValue {
		t.Errorf("password: got %v", got["password"])
	}
	nested, ok := got["nested"].(map[string]any)
	if !ok {
		t.Fatalf("nested not a map: %T", got["nested"])
	}
	// "key" matches "api_key" as a substring.
	if nested["api_key"] != RedactedValue {
		t.Errorf("api_key: got %v", nested["api_key"])
	}
	if nested["ok"] != 1 {
		t.Errorf("ok: got %v", nested["ok"])
	}
	// Input must be untouched.
	if in["password"] != "x" {
		t.Error("input map was mutated")
	}
}

func TestRedact_KeyMatching(t *testing.T) {
	cases := []struct {
		key       string
		sensitive bool
	}{
		{"password", true},
		{"PASSWORD", true},
		{"user_password_hash", true},
		{"Authorization", true},
		{"session_cookie", true},
		{"ssn", true},
		{"credit_card_number", true},
		{"monkey", true}, // substring match: "monkey" contains "key"
		{"username", false},
		{"email", false},
	}
	for _, tc := range cases {
		if got := isSensitiveKey(tc.key); got != tc.sensitive {
			t.Errorf("isSensitiveKey(%q) = %v, want %v", tc.key, got, tc.sensitive)
		}
	}
}

func TestRedact_Slices(t *testing.T) {
	in := map[string]any{
		"items": []any{
			map[string]any{"token": "abc", "name": "n"},
		},
	}
	got := Redact(in)
	items := got["items"].([]any)
	first := items[0].(map[string]any)
	if first["token"] != RedactedValue {
		t.Errorf("token in slice: got %v", first["token"])
	}
	if first["name"] != "n" {
		t.Errorf("name in slice: got %v", first["name"])
	}
}

func TestRedact_Nil(t *testing.T) {
	if got := Redact(nil); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestRedact_NoSensitiveKeysUnchanged(t *testing.T) {
	in := map[string]any{"a": 1, "b": "two"}
	if got := Redact(in); !reflect.DeepEqual(got, in) {
		t.Errorf("got %v, want %v", got, in)
	}
}
