package authe

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/authe-me/authe-go/client"
	"github.com/authe-me/authe-go/config"
)

func newStub(t *testing.T, ingested *atomic.Int64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/agents":
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]any{"agent": map[string]any{"id": "agt_root"}})
		case r.URL.Path == "/v1/ingest":
			var body struct {
				Actions []json.RawMessage `json:"actions"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			ingested.Add(int64(len(body.Actions)))
			json.NewEncoder(w).Encode(map[string]any{"inserted": len(body.Actions)})
		default:
			json.NewEncoder(w).Encode(map[string]any{"token": "tok", "expires_in": 900})
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestInitGetShutdown(t *testing.T) {
	var ingested atomic.Int64
	srv := newStub(t, &ingested)

	c, err := Init(Options{
		APIKey:        "k",
		AgentName:     "lifecycle-agent",
		BaseURL:       srv.URL,
		FlushInterval: time.Hour,
	})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if Get() != c {
		t.Error("Get did not return the initialized client")
	}
	if !c.Identified() {
		t.Error("client did not resolve identity against stub")
	}

	c.Track(client.TrackOptions{Tool: "t"})

	if err := Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if Get() != nil {
		t.Error("Get should return nil after Shutdown")
	}
	if err := Shutdown(); err != nil {
		t.Fatalf("second Shutdown: %v", err)
	}
	if ingested.Load() != 1 {
		t.Errorf("ingested %d actions, want 1 from the terminal flush", ingested.Load())
	}
}

func TestInit_MissingAPIKey(t *testing.T) {
	t.Setenv("AUTHE_API_KEY", "")
	if _, err := Init(Options{AgentName: "x"}); err != config.ErrMissingAPIKey {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}
	if Get() != nil {
		t.Error("failed Init must not install a client")
	}
}

func TestTrack_NoopBeforeInit(t *testing.T) {
	if Get() != nil {
		t.Skip("another test left a client installed")
	}
	// Must not panic.
	Track(client.TrackOptions{Tool: "ignored"})
}
