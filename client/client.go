// Package client implements the action-tracking core: the in-memory buffer,
// the batching delivery pipeline, the background flush scheduler, and the
// credential lifecycle against the authe.me API.
package client

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/authe-me/authe-go/action"
	"github.com/authe-me/authe-go/config"
)

// Client buffers agent actions and delivers them to the collection service
// in batches. All methods are safe for concurrent use; none of them ever
// return an error to the host for tracking-side failures.
type Client struct {
	cfg       config.Config
	api       *apiClient
	creds     *credentials
	buf       *buffer
	sessionID string

	done      chan struct{}
	loopDone  chan struct{}
	closeOnce sync.Once
}

// TrackOptions describe one action to record. Tool is the only required
// field; zero values fall back to a successful, instantaneous tool_call.
type TrackOptions struct {
	Tool      string
	Type      string
	Input     map[string]any
	Output    map[string]any
	Status    action.Status
	Duration  time.Duration
	Signature string
}

// New creates a client and starts its background flush loop. It performs no
// network I/O; call RegisterOrAuthenticate to resolve the agent identity.
func New(cfg config.Config, description string) (*Client, error) {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	api, err := newAPIClient(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	c := &Client{
		cfg:       cfg,
		api:       api,
		creds:     newCredentials(api, cfg.APIKey, cfg.AgentName, description, cfg.Framework, cfg.Capabilities),
		buf:       newBuffer(cfg.MaxBufferSize),
		sessionID: newSessionID(),
		done:      make(chan struct{}),
		loopDone:  make(chan struct{}),
	}

	go c.flushLoop()
	return c, nil
}

func newSessionID() string {
	return "ses_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

// RegisterOrAuthenticate resolves the agent identity against the remote
// service. Failures leave the client in offline mode and are never returned.
func (c *Client) RegisterOrAuthenticate(ctx context.Context) {
	c.creds.RegisterOrAuthenticate(ctx)
}

// Track records one agent action. The record is stamped with the session id
// and current time, redacted when configured, and appended to the buffer.
// Reaching the buffer threshold triggers a synchronous flush on the calling
// goroutine; that is the batching cost producers pay at the boundary.
func (c *Client) Track(opts TrackOptions) {
	if opts.Type == "" {
		opts.Type = action.TypeToolCall
	}
	if opts.Status == "" {
		opts.Status = action.StatusSuccess
	}

	input := opts.Input
	output := opts.Output
	if c.cfg.RedactPII {
		input = action.Redact(input)
		output = action.Redact(output)
	}
	if input == nil {
		input = map[string]any{}
	}
	if output == nil {
		output = map[string]any{}
	}

	rec := action.Record{
		SessionID:  c.sessionID,
		Type:       opts.Type,
		Tool:       opts.Tool,
		Input:      input,
		Output:     output,
		Status:     opts.Status,
		DurationMS: opts.Duration.Milliseconds(),
		Timestamp:  action.Now(),
		Signature:  opts.Signature,
	}

	if c.buf.Append(rec) {
		c.Flush()
	}
}

// Flush drains the buffer and delivers the batch. In offline mode (no agent
// identity) nothing is drained, so records keep accumulating until identity
// resolves or the process exits.
func (c *Client) Flush() {
	if !c.creds.Identified() {
		return
	}
	batch := c.buf.DrainSnapshot()
	if len(batch) == 0 {
		return
	}
	c.sendBatch(context.Background(), batch)
}

// sendBatch transmits one drained batch. A missing token drops the batch
// (retrying without a token would fail identically); any delivery failure
// requeues the whole batch ahead of newer records for the next cycle.
func (c *Client) sendBatch(ctx context.Context, batch []action.Record) {
	token, ok := c.creds.EnsureValidToken(ctx)
	if !ok {
		slog.Warn("authe: no agent token, dropping actions", "count", len(batch))
		return
	}

	resp, err := c.api.Ingest(ctx, token, c.creds.AgentID(), batch)
	if err != nil {
		slog.Warn("authe: failed to send batch, will retry", "count", len(batch), "error", err)
		c.buf.Requeue(batch)
		return
	}
	slog.Debug("authe: actions delivered", "inserted", resp.Inserted, "alerts", resp.Alerts)
}

// flushLoop is the single periodic driver of delivery when producers do not
// reach the size threshold. One failed cycle never terminates future cycles.
func (c *Client) flushLoop() {
	defer close(c.loopDone)
	ticker := time.NewTicker(c.cfg.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.safeFlush()
		}
	}
}

func (c *Client) safeFlush() {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("authe: flush cycle panicked", "panic", r)
		}
	}()
	c.Flush()
}

// Close stops the background scheduler, performs one final synchronous flush,
// and releases transport resources. Close is idempotent: the second and later
// calls are no-ops and return nil.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
		<-c.loopDone
		c.Flush()
		c.api.CloseIdle()
	})
	return nil
}

// SessionID returns the per-process session identifier.
func (c *Client) SessionID() string { return c.sessionID }

// AgentID returns the resolved agent id, or "" in offline mode.
func (c *Client) AgentID() string { return c.creds.AgentID() }

// Identified reports whether the client has a resolved agent identity.
func (c *Client) Identified() bool { return c.creds.Identified() }

// BaseURL returns the collection service endpoint, so instrumentation can
// skip recording the SDK's own API traffic.
func (c *Client) BaseURL() string { return c.cfg.BaseURL }

// Pending returns the number of buffered, undelivered actions.
func (c *Client) Pending() int { return c.buf.Len() }
