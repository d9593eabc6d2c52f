// Package instrument provides explicit wrappers that observe third-party
// calls — LLM completions, outbound HTTP, subprocess execution, file writes,
// tool invocations — and record them as agent actions. Wrapping happens where
// the host constructs its clients; nothing global is patched, and the wrapped
// call's result and error always pass through unchanged.
package instrument

import (
	"context"
	"time"

	"github.com/authe-me/authe-go/action"
	"github.com/authe-me/authe-go/client"
)

// Tracker is the slice of client.Client the wrappers need. Accepting the
// interface keeps every wrapper testable without a live client.
type Tracker interface {
	Track(opts client.TrackOptions)
}

// Observe runs fn, recording its duration and outcome as a tool_call action.
// fn's return values are passed through untouched; in particular its error is
// never suppressed.
func Observe(t Tracker, tool string, input map[string]any, fn func() (map[string]any, error)) (map[string]any, error) {
	start := time.Now()
	out, err := fn()
	duration := time.Since(start)

	opts := client.TrackOptions{
		Tool:     tool,
		Type:     action.TypeToolCall,
		Input:    action.Serialize(input),
		Duration: duration,
	}
	if err != nil {
		opts.Status = action.StatusError
		opts.Output = map[string]any{"error": action.Truncate(err.Error(), 500)}
	} else {
		opts.Output = action.Serialize(out)
	}
	t.Track(opts)
	return out, err
}

// Func wraps a context-taking function so every invocation is recorded as a
// tool_call. It is the closest Go analogue to a tracking decorator.
func Func(t Tracker, tool string, fn func(ctx context.Context) error) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		start := time.Now()
		err := fn(ctx)
		opts := client.TrackOptions{
			Tool:     tool,
			Type:     action.TypeToolCall,
			Input:    map[string]any{},
			Duration: time.Since(start),
		}
		if err != nil {
			opts.Status = action.StatusError
			opts.Output = map[string]any{"error": action.Truncate(err.Error(), 500)}
		}
		t.Track(opts)
		return err
	}
}
