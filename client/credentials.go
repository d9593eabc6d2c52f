package client

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// tokenSafetyMargin refreshes the agent token this long before server-side
// expiry, so an in-flight delivery never races the deadline.
const tokenSafetyMargin = 60 * time.Second

// credentials owns the agent identity: registration against the remote
// service and the short-lived token lifecycle. Every failure here is logged
// and absorbed; the host process must keep running with whatever identity
// state it had before.
type credentials struct {
	api          *apiClient
	apiKey       string
	agentName    string
	description  string
	framework    string
	capabilities []string

	now func() time.Time

	// mu guards the identity fields below and serializes token refreshes.
	// It is never acquired while the buffer lock is held.
	mu          sync.Mutex
	agentID     string
	agentToken  string
	tokenExpiry time.Time
}

func newCredentials(api *apiClient, apiKey, agentName, description, framework string, capabilities []string) *credentials {
	if capabilities == nil {
		capabilities = []string{}
	}
	return &credentials{
		api:          api,
		apiKey:       apiKey,
		agentName:    agentName,
		description:  description,
		framework:    framework,
		capabilities: capabilities,
		now:          time.Now,
	}
}

// RegisterOrAuthenticate creates the agent on the remote service, or adopts
// the existing identity when the name is already registered under this key.
// On any failure the manager stays unidentified and the SDK runs in offline
// mode: actions keep buffering but nothing is delivered.
func (cr *credentials) RegisterOrAuthenticate(ctx context.Context) {
	id, err := cr.api.CreateAgent(ctx, cr.apiKey, createAgentRequest{
		Name:         cr.agentName,
		Description:  cr.description,
		Framework:    cr.framework,
		Capabilities: cr.capabilities,
	})
	switch {
	case err == nil:
		cr.adopt(ctx, id)
		slog.Info("authe: registered agent", "name", cr.agentName, "id", id)
	case err == errAgentExists:
		slog.Debug("authe: agent already registered, resolving by name")
		cr.adoptExisting(ctx)
	default:
		slog.Warn("authe: failed to register agent", "error", err)
		slog.Warn("authe: running in offline mode, actions will be buffered locally")
	}
}

// adoptExisting looks the agent up by name among the key's registered agents.
func (cr *credentials) adoptExisting(ctx context.Context) {
	agents, err := cr.api.ListAgents(ctx, cr.apiKey)
	if err != nil {
		slog.Warn("authe: failed to fetch agents", "error", err)
		return
	}
	for _, agent := range agents {
		if agent.Name == cr.agentName {
			cr.adopt(ctx, agent.ID)
			slog.Info("authe: connected to agent", "name", cr.agentName, "id", agent.ID)
			return
		}
	}
	slog.Warn("authe: could not find existing agent", "name", cr.agentName)
}

// adopt stores the resolved id and immediately fetches a first token.
func (cr *credentials) adopt(ctx context.Context, agentID string) {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	cr.agentID = agentID
	cr.refreshTokenLocked(ctx)
}

// refreshTokenLocked exchanges the API key for a fresh agent token. Callers
// must hold mu; the lock is what serializes concurrent refreshes, and a
// second caller simply reuses whatever the first one stored.
func (cr *credentials) refreshTokenLocked(ctx context.Context) {
	if cr.agentID == "" {
		return
	}
	resp, err := cr.api.AgentToken(ctx, cr.apiKey, cr.agentID)
	if err != nil {
		slog.Warn("authe: failed to refresh token", "error", err)
		return
	}
	cr.agentToken = resp.Token
	cr.tokenExpiry = cr.now().Add(time.Duration(resp.ExpiresIn)*time.Second - tokenSafetyMargin)
	slog.Debug("authe: agent token refreshed", "expires_in", resp.ExpiresIn)
}

// EnsureValidToken returns a token usable for delivery, refreshing first when
// the stored one has crossed its early-expiry deadline. ok is false when no
// identity exists or no token could be obtained.
func (cr *credentials) EnsureValidToken(ctx context.Context) (token string, ok bool) {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	if cr.agentID == "" {
		return "", false
	}
	if !cr.now().Before(cr.tokenExpiry) {
		cr.refreshTokenLocked(ctx)
	}
	return cr.agentToken, cr.agentToken != ""
}

// AgentID returns the resolved agent id, or "" in offline mode.
func (cr *credentials) AgentID() string {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	return cr.agentID
}

// Identified reports whether an agent identity has been resolved.
func (cr *credentials) Identified() bool {
	return cr.AgentID() != ""
}

// String implements fmt.Stringer without leaking the key or token.
func (cr *credentials) String() string {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	return fmt.Sprintf("credentials{agent=%s id=%s}", cr.agentName, cr.agentID)
}
