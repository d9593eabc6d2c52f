// Package config resolves SDK configuration from explicit arguments,
// environment variables, and an optional .env file.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every environment variable the SDK reads, e.g.
// AUTHE_API_KEY, AUTHE_AGENT_NAME.
const EnvPrefix = "AUTHE"

// Defaults for fields left unset by both caller and environment.
const (
	DefaultBaseURL       = "https://api.authe.me"
	DefaultFramework     = "go"
	DefaultFlushInterval = 5 * time.Second
	DefaultMaxBufferSize = 100
)

// ErrMissingAPIKey is the one fatal configuration error: without a key no
// agent identity can ever be established, so failing fast beats running
// permanently offline.
var ErrMissingAPIKey = errors.New(
	"authe: API key required; pass APIKey to authe.Init or set AUTHE_API_KEY (get a key at https://authe.me)")

// Config is the SDK configuration surface.
type Config struct {
	APIKey        string        `json:"apiKey" envconfig:"API_KEY"`
	AgentName     string        `json:"agentName" envconfig:"AGENT_NAME"`
	Capabilities  []string      `json:"capabilities" envconfig:"CAPABILITIES"`
	BaseURL       string        `json:"baseUrl" envconfig:"BASE_URL"`
	Framework     string        `json:"framework" envconfig:"FRAMEWORK"`
	RedactPII     bool          `json:"redactPii" envconfig:"REDACT_PII"`
	Debug         bool          `json:"debug" envconfig:"DEBUG"`
	FlushInterval time.Duration `json:"flushInterval" envconfig:"FLUSH_INTERVAL"`
	MaxBufferSize int           `json:"maxBufferSize" envconfig:"MAX_BUFFER_SIZE"`
}

// Default returns a Config with sensible defaults and no credentials.
func Default() Config {
	return Config{
		BaseURL:       DefaultBaseURL,
		Framework:     DefaultFramework,
		FlushInterval: DefaultFlushInterval,
		MaxBufferSize: DefaultMaxBufferSize,
	}
}

// Load resolves configuration from the environment. A .env file in the
// working directory is merged in first (best-effort), then AUTHE_* variables
// are applied on top of the defaults. Load does not validate; callers merge
// their explicit options and then call Validate.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return cfg, err
	}
	cfg.Normalize()
	return cfg, nil
}

// Normalize fills derived and defaulted fields after merging.
func (c *Config) Normalize() {
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.AgentName == "" {
		c.AgentName = detectAgentName()
	}
	if c.Framework == "" {
		c.Framework = DefaultFramework
	}
	if c.FlushInterval <= 0 {
		c.FlushInterval = DefaultFlushInterval
	}
	if c.MaxBufferSize <= 0 {
		c.MaxBufferSize = DefaultMaxBufferSize
	}
}

// Validate reports whether the configuration can establish an agent identity.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// detectAgentName derives a stable agent name from the running binary and
// host when the caller supplies none.
func detectAgentName() string {
	name := "agent"
	if exe, err := os.Executable(); err == nil {
		base := filepath.Base(exe)
		base = strings.TrimSuffix(base, filepath.Ext(base))
		base = strings.ReplaceAll(base, "_", "-")
		if base != "" {
			name = base
		}
	}
	host, err := os.Hostname()
	if err != nil || host == "" {
		return name
	}
	if len(host) > 12 {
		host = host[:12]
	}
	return name + "-" + host
}
