package action

import "fmt"

// Limits for Serialize. Payloads shipped with every action should stay small;
// anything past these bounds is truncated, not rejected.
const (
	maxSerializeDepth = 3
	maxStringLen      = 500
	maxListLen        = 20
)

// Serialize normalizes arbitrary structured data into a JSON-safe map:
// strings are capped at 500 characters, lists at 20 elements, nesting at
// three levels, and values without a JSON representation are stringified.
func Serialize(data map[string]any) map[string]any {
	if data == nil {
		return map[string]any{}
	}
	out, _ := serializeValue(data, maxSerializeDepth).(map[string]any)
	if out == nil {
		return map[string]any{}
	}
	return out
}

func serializeValue(v any, depth int) any {
	if depth <= 0 {
		return map[string]any{"_truncated": true}
	}

	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = serializeValue(item, depth-1)
		}
		return out
	case []any:
		n := len(val)
		if n > maxListLen {
			n = maxListLen
		}
		items := make([]any, 0, n)
		for _, item := range val[:n] {
			items = append(items, serializeValue(item, depth-1))
		}
		return map[string]any{"_list": items}
	case string:
		return Truncate(val, maxStringLen)
	case nil, bool, int, int32, int64, float32, float64:
		return val
	default:
		return Truncate(fmt.Sprintf("%v", val), maxStringLen)
	}
}

// Truncate caps s at max bytes, appending an ellipsis when it was cut.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
