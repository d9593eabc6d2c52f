package instrument

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/authe-me/authe-go/action"
	"github.com/authe-me/authe-go/client"
)

// captureTracker records TrackOptions for assertions.
type captureTracker struct {
	mu   sync.Mutex
	opts []client.TrackOptions
}

func (c *captureTracker) Track(opts client.TrackOptions) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opts = append(c.opts, opts)
}

func (c *captureTracker) all() []client.TrackOptions {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]client.TrackOptions(nil), c.opts...)
}

func TestObserve_Success(t *testing.T) {
	tr := &captureTracker{}

	out, err := Observe(tr, "send_email", map[string]any{"to": "bob@example.com"}, func() (map[string]any, error) {
		return map[string]any{"sent": true}, nil
	})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if out["sent"] != true {
		t.Errorf("out = %v", out)
	}

	got := tr.all()
	if len(got) != 1 {
		t.Fatalf("recorded %d actions", len(got))
	}
	if got[0].Tool != "send_email" || got[0].Type != action.TypeToolCall {
		t.Errorf("recorded %+v", got[0])
	}
	if got[0].Status != "" && got[0].Status != action.StatusSuccess {
		t.Errorf("status = %q", got[0].Status)
	}
	if got[0].Input["to"] != "bob@example.com" {
		t.Errorf("input = %v", got[0].Input)
	}
}

func TestObserve_ErrorPropagatesUnchanged(t *testing.T) {
	tr := &captureTracker{}
	boom := errors.New("boom")

	_, err := Observe(tr, "explode", nil, func() (map[string]any, error) {
		return nil, boom
	})
	if err != boom {
		t.Fatalf("error was not propagated unchanged: %v", err)
	}

	got := tr.all()
	if len(got) != 1 {
		t.Fatalf("recorded %d actions", len(got))
	}
	if got[0].Status != action.StatusError {
		t.Errorf("status = %q", got[0].Status)
	}
	if got[0].Output["error"] != "boom" {
		t.Errorf("output = %v", got[0].Output)
	}
}

func TestFunc_WrapsAndRecords(t *testing.T) {
	tr := &captureTracker{}
	calls := 0
	wrapped := Func(tr, "step", func(ctx context.Context) error {
		calls++
		return nil
	})

	if err := wrapped(context.Background()); err != nil {
		t.Fatalf("err: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d", calls)
	}
	if len(tr.all()) != 1 {
		t.Errorf("recorded %d actions", len(tr.all()))
	}
}
