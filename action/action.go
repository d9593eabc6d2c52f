// Package action defines the wire format for recorded agent actions.
package action

import "time"

// Status reports the outcome of an instrumented call.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Action type identifiers. Producers are free to invent their own, but the
// built-in instrumentation only emits these.
const (
	TypeToolCall      = "tool_call"
	TypeLLMCall       = "llm_call"
	TypeHTTP          = "http"
	TypeSystemCommand = "system_command"
	TypeFileOperation = "file_operation"
)

// Record is one recorded unit of agent behaviour. Records are immutable once
// constructed; the delivery pipeline is the only consumer.
type Record struct {
	SessionID  string         `json:"session_id"`
	Type       string         `json:"type"`
	Tool       string         `json:"tool"`
	Input      map[string]any `json:"input"`
	Output     map[string]any `json:"output"`
	Status     Status         `json:"status"`
	DurationMS int64          `json:"duration_ms"`
	Timestamp  string         `json:"timestamp"`
	Signature  string         `json:"signature"`
}

// Now returns the timestamp format used on the wire: UTC RFC 3339.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
