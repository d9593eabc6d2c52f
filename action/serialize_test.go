package action

import (
	"strings"
	"testing"
)

func TestSerialize_DepthLimit(t *testing.T) {
	in := map[string]any{
		"l1": map[string]any{
			"l2": map[string]any{
				"l3": map[string]any{"deep": true},
			},
		},
	}
	got := Serialize(in)
	l1 := got["l1"].(map[string]any)
	l2 := l1["l2"].(map[string]any)
	l3, ok := l2["l3"].(map[string]any)
	if !ok {
		t.Fatalf("l3 not a map: %T", l2["l3"])
	}
	if l3["_truncated"] != true {
		t.Errorf("expected depth marker, got %v", l3)
	}
}

func TestSerialize_StringTruncation(t *testing.T) {
	long := strings.Repeat("a", 600)
	got := Serialize(map[string]any{"s": long})
	s := got["s"].(string)
	if len(s) != maxStringLen+3 || !strings.HasSuffix(s, "...") {
		t.Errorf("expected truncated string, got len %d", len(s))
	}
}

func TestSerialize_ListCap(t *testing.T) {
	items := make([]any, 30)
	for i := range items {
		items[i] = i
	}
	got := Serialize(map[string]any{"xs": items})
	wrapped := got["xs"].(map[string]any)
	list := wrapped["_list"].([]any)
	if len(list) != maxListLen {
		t.Errorf("expected %d items, got %d", maxListLen, len(list))
	}
}

func TestSerialize_NonJSONValue(t *testing.T) {
	type odd struct{ A int }
	got := Serialize(map[string]any{"v": odd{A: 7}})
	if _, ok := got["v"].(string); !ok {
		t.Errorf("expected stringified value, got %T", got["v"])
	}
}

func TestSerialize_Nil(t *testing.T) {
	got := Serialize(nil)
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty map, got %v", got)
	}
}
