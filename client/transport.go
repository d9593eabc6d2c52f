package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/authe-me/authe-go/action"
)

// apiClient wraps the authe.me HTTP API. It is deliberately thin: each method
// is one request/response pair with typed bodies; retry policy lives in the
// delivery pipeline, not here.
type apiClient struct {
	baseURL    string
	httpClient *http.Client
}

// errAgentExists signals a 409 from agent creation: the name is already
// registered under this key and should be resolved by lookup instead.
var errAgentExists = errors.New("agent already exists")

func newAPIClient(baseURL string) (*apiClient, error) {
	validated, err := validateBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &apiClient{
		baseURL: validated,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

type agentInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type createAgentRequest struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Framework    string   `json:"framework"`
	Capabilities []string `json:"capabilities"`
}

type createAgentResponse struct {
	Agent agentInfo `json:"agent"`
}

type listAgentsResponse struct {
	Agents []agentInfo `json:"agents"`
}

type tokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

type ingestRequest struct {
	AgentID string          `json:"agent_id"`
	Actions []action.Record `json:"actions"`
}

type ingestResponse struct {
	Inserted int `json:"inserted"`
	Alerts   int `json:"alerts"`
}

// CreateAgent registers a new agent and returns its id. A 409 response maps
// to errAgentExists.
func (a *apiClient) CreateAgent(ctx context.Context, apiKey string, req createAgentRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("create agent: marshal: %w", err)
	}

	status, data, err := a.do(ctx, http.MethodPost, "/v1/agents", apiKey, body)
	if err != nil {
		return "", fmt.Errorf("create agent: %w", err)
	}
	switch status {
	case http.StatusCreated:
		var resp createAgentResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return "", fmt.Errorf("create agent: decode response: %w", err)
		}
		return resp.Agent.ID, nil
	case http.StatusConflict:
		return "", errAgentExists
	default:
		return "", fmt.Errorf("create agent: status %d: %s", status, string(data))
	}
}

// ListAgents returns the agents registered under the API key.
func (a *apiClient) ListAgents(ctx context.Context, apiKey string) ([]agentInfo, error) {
	status, data, err := a.do(ctx, http.MethodGet, "/v1/agents", apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("list agents: status %d: %s", status, string(data))
	}
	var resp listAgentsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("list agents: decode response: %w", err)
	}
	return resp.Agents, nil
}

// AgentToken exchanges the long-lived API key for a short-lived agent token.
func (a *apiClient) AgentToken(ctx context.Context, apiKey, agentID string) (tokenResponse, error) {
	var resp tokenResponse
	status, data, err := a.do(ctx, http.MethodGet, "/v1/agents/"+url.PathEscape(agentID)+"/token", apiKey, nil)
	if err != nil {
		return resp, fmt.Errorf("agent token: %w", err)
	}
	if status != http.StatusOK {
		return resp, fmt.Errorf("agent token: status %d: %s", status, string(data))
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return resp, fmt.Errorf("agent token: decode response: %w", err)
	}
	return resp, nil
}

// Ingest delivers a batch of actions authenticated with the agent token.
// Any non-200 status is a delivery failure.
func (a *apiClient) Ingest(ctx context.Context, agentToken, agentID string, batch []action.Record) (ingestResponse, error) {
	var resp ingestResponse
	body, err := json.Marshal(ingestRequest{AgentID: agentID, Actions: batch})
	if err != nil {
		return resp, fmt.Errorf("ingest: marshal: %w", err)
	}
	status, data, err := a.do(ctx, http.MethodPost, "/v1/ingest", agentToken, body)
	if err != nil {
		return resp, fmt.Errorf("ingest: %w", err)
	}
	if status != http.StatusOK {
		return resp, fmt.Errorf("ingest: status %d: %s", status, string(data))
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return resp, fmt.Errorf("ingest: decode response: %w", err)
	}
	return resp, nil
}

// CloseIdle releases pooled transport connections.
func (a *apiClient) CloseIdle() {
	a.httpClient.CloseIdleConnections()
}

func (a *apiClient) do(ctx context.Context, method, path, bearer string, body []byte) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, data, nil
}

// safeHost matches valid hostname:port patterns.
var safeHost = regexp.MustCompile(`^[a-zA-Z0-9._:-]+$`)

// validateBaseURL parses the base URL and reconstructs it from validated
// components so a hostile config value cannot smuggle extra path or userinfo.
func validateBaseURL(baseURL string) (string, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
	}
	if !safeHost.MatchString(u.Host) {
		return "", fmt.Errorf("invalid host: %s", u.Host)
	}
	return u.Scheme + "://" + u.Host + strings.TrimRight(u.Path, "/"), nil
}
