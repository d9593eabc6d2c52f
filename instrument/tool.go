package instrument

import (
	"context"
	"time"

	"github.com/authe-me/authe-go/action"
	"github.com/authe-me/authe-go/client"
)

// Tool is the minimal agent-tool shape the wrapper understands. It matches
// the Name/Execute convention common to Go agent frameworks.
type Tool interface {
	Name() string
	Execute(ctx context.Context, params map[string]any) (string, error)
}

type wrappedTool struct {
	base    Tool
	tracker Tracker
}

// WrapTool returns a Tool that records every execution against t. Result and
// error from the underlying tool pass through unchanged.
func WrapTool(t Tracker, base Tool) Tool {
	return &wrappedTool{base: base, tracker: t}
}

func (w *wrappedTool) Name() string { return w.base.Name() }

func (w *wrappedTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	start := time.Now()
	result, err := w.base.Execute(ctx, params)
	duration := time.Since(start)

	opts := client.TrackOptions{
		Tool:     w.base.Name(),
		Type:     action.TypeToolCall,
		Input:    action.Serialize(params),
		Duration: duration,
	}
	if err != nil {
		opts.Status = action.StatusError
		opts.Output = map[string]any{"error": action.Truncate(err.Error(), 500)}
	} else {
		opts.Output = map[string]any{"result": action.Truncate(result, 500)}
	}
	w.tracker.Track(opts)

	return result, err
}
