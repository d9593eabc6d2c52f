// Package authe is the public entry point of the authe.me observability SDK
// for AI-agent processes. Init once at startup, wrap the clients you want
// observed (see the instrument package), and Shutdown on exit:
//
//	c, err := authe.Init(authe.Options{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer authe.Shutdown()
//
// Everything else — buffering, batching, token refresh, retries — happens in
// the background and never surfaces errors into the host application.
package authe

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/authe-me/authe-go/client"
	"github.com/authe-me/authe-go/config"
)

// Version is the SDK version reported at agent registration.
const Version = "0.2.0"

// Options override what the environment provides. Zero values defer to
// AUTHE_* variables and built-in defaults; see the config package.
type Options struct {
	APIKey        string
	AgentName     string
	Capabilities  []string
	BaseURL       string
	Framework     string
	RedactPII     bool
	Debug         bool
	FlushInterval time.Duration
	MaxBufferSize int
}

var (
	mu            sync.Mutex
	defaultClient *client.Client
)

// Init creates the process-wide client, starts its flush scheduler, and
// resolves the agent identity. The only fatal outcome is a missing API key;
// registration failures degrade to offline mode.
//
// Calling Init again replaces the singleton; the previous client is closed
// (flushing its tail) first.
func Init(opts Options) (*client.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	applyOptions(&cfg, opts)
	cfg.Normalize()

	if cfg.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	c, err := client.New(cfg, "Auto-registered by authe SDK v"+Version)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	c.RegisterOrAuthenticate(ctx)

	mu.Lock()
	prev := defaultClient
	defaultClient = c
	mu.Unlock()

	if prev != nil {
		slog.Warn("authe: Init called again, replacing existing client")
		_ = prev.Close()
	}
	return c, nil
}

func applyOptions(cfg *config.Config, opts Options) {
	if opts.APIKey != "" {
		cfg.APIKey = opts.APIKey
	}
	if opts.AgentName != "" {
		cfg.AgentName = opts.AgentName
	}
	if opts.Capabilities != nil {
		cfg.Capabilities = opts.Capabilities
	}
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	if opts.Framework != "" {
		cfg.Framework = opts.Framework
	}
	if opts.RedactPII {
		cfg.RedactPII = true
	}
	if opts.Debug {
		cfg.Debug = true
	}
	if opts.FlushInterval > 0 {
		cfg.FlushInterval = opts.FlushInterval
	}
	if opts.MaxBufferSize > 0 {
		cfg.MaxBufferSize = opts.MaxBufferSize
	}
}

// Get returns the process-wide client, or nil when Init has not been called.
// It never creates a client implicitly.
func Get() *client.Client {
	mu.Lock()
	defer mu.Unlock()
	return defaultClient
}

// Shutdown stops the scheduler, flushes remaining actions once, and clears
// the singleton. Safe to call multiple times.
func Shutdown() error {
	mu.Lock()
	c := defaultClient
	defaultClient = nil
	mu.Unlock()

	if c == nil {
		return nil
	}
	return c.Close()
}

// Track records one manual action on the process-wide client. It is a no-op
// before Init, so library code can call it unconditionally.
func Track(opts client.TrackOptions) {
	if c := Get(); c != nil {
		c.Track(opts)
	}
}
