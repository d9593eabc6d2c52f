package instrument

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/authe-me/authe-go/action"
	"github.com/authe-me/authe-go/client"
)

// Runner executes subprocesses and records each run as a system_command
// action. It is a drop-in for the exec.CommandContext(...).Output() pattern.
type Runner struct {
	tracker Tracker
}

// NewRunner returns a Runner recording against t.
func NewRunner(t Tracker) *Runner {
	return &Runner{tracker: t}
}

// Run executes name with args, returning its stdout and error unchanged.
// A non-zero exit or start failure records an error-status action.
func (r *Runner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	start := time.Now()
	cmd := exec.CommandContext(ctx, name, args...)
	stdout, err := cmd.Output()
	duration := time.Since(start)

	opts := client.TrackOptions{
		Tool: "exec.run",
		Type: action.TypeSystemCommand,
		Input: map[string]any{
			"command": action.Truncate(strings.Join(append([]string{name}, args...), " "), 500),
		},
		Duration: duration,
	}

	switch {
	case err != nil:
		opts.Status = action.StatusError
		output := map[string]any{"error": action.Truncate(err.Error(), 500)}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			output["returncode"] = exitErr.ExitCode()
		}
		opts.Output = output
	default:
		opts.Output = map[string]any{
			"returncode": 0,
			"stdout":     action.Truncate(string(stdout), 200),
		}
	}

	r.tracker.Track(opts)
	return stdout, err
}
