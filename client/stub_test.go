package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// stubService fakes the four collection-service endpoints for tests.
type stubService struct {
	mu sync.Mutex

	registerStatus int         // status for POST /v1/agents (default 201)
	existing       []agentInfo // returned by GET /v1/agents
	tokenStatus    int         // status for the token endpoint (default 200)
	tokenExpiresIn int         // default 900
	ingestStatuses []int       // consumed one per ingest call; empty means 200

	registerCalls int
	tokenCalls    int
	ingests       []ingestRequest

	srv *httptest.Server
}

func newStubService(t *testing.T) *stubService {
	t.Helper()
	s := &stubService{
		registerStatus: http.StatusCreated,
		tokenStatus:    http.StatusOK,
		tokenExpiresIn: 900,
	}
	s.srv = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.srv.Close)
	return s
}

func (s *stubService) URL() string { return s.srv.URL }

func (s *stubService) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/v1/agents":
		s.registerCalls++
		if s.registerStatus != http.StatusCreated {
			w.WriteHeader(s.registerStatus)
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(createAgentResponse{Agent: agentInfo{ID: "agt_1", Name: "stub"}})

	case r.Method == http.MethodGet && r.URL.Path == "/v1/agents":
		json.NewEncoder(w).Encode(listAgentsResponse{Agents: s.existing})

	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/token"):
		s.tokenCalls++
		if s.tokenStatus != http.StatusOK {
			w.WriteHeader(s.tokenStatus)
			return
		}
		json.NewEncoder(w).Encode(tokenResponse{Token: "tok_abc", ExpiresIn: s.tokenExpiresIn})

	case r.Method == http.MethodPost && r.URL.Path == "/v1/ingest":
		status := http.StatusOK
		if len(s.ingestStatuses) > 0 {
			status = s.ingestStatuses[0]
			s.ingestStatuses = s.ingestStatuses[1:]
		}
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		var req ingestRequest
		json.NewDecoder(r.Body).Decode(&req)
		s.ingests = append(s.ingests, req)
		json.NewEncoder(w).Encode(ingestResponse{Inserted: len(req.Actions)})

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (s *stubService) tokenCallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokenCalls
}

func (s *stubService) setTokenStatus(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokenStatus = status
}

func (s *stubService) ingestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ingests)
}

func (s *stubService) ingestAt(i int) ingestRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ingests[i]
}
