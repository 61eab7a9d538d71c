package command

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yndnr/chatmesh/internal/cli/connection"
)

// fakeServer is an in-memory chatmesh API. Every third turn in a session
// answers with the flat irregular shape.
type fakeServer struct {
	*httptest.Server

	mu       sync.Mutex
	tokens   map[string]bool
	sessions map[string]*connection.Session
	issued   int
	nextID   int
	lastAuth string
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	f := &fakeServer{
		tokens:   make(map[string]bool),
		sessions: make(map[string]*connection.Session),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth", f.handleAuth)
	mux.HandleFunc("POST /session", f.handleCreateSession)
	mux.HandleFunc("GET /session/{id}", f.handleGetSession)
	mux.HandleFunc("POST /chat", f.handleChat)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, connection.Health{Status: "healthy", Version: "test", Time: "now"})
	})
	mux.HandleFunc("GET /ready", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, connection.Health{Status: "ready", Version: "test", Time: "now"})
	})

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

func (f *fakeServer) handleAuth(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.issued++
	tok := fmt.Sprintf("cmtk_test%d", f.issued)
	f.tokens[tok] = true
	f.mu.Unlock()

	jsonResponse(w, http.StatusOK, connection.TokenResponse{Token: tok, TTL: 300})
}

func (f *fakeServer) newSessionLocked() *connection.Session {
	f.nextID++
	s := &connection.Session{
		SessionID: fmt.Sprintf("cmss-%026d", f.nextID),
		CreatedAt: time.Now(),
		Messages:  []connection.Message{},
	}
	f.sessions[s.SessionID] = s
	return s
}

func (f *fakeServer) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	s := f.newSessionLocked()
	f.mu.Unlock()

	jsonResponse(w, http.StatusOK, map[string]string{"sessionId": s.SessionID})
}

// authorizedLocked reports whether the request carries a known token, writing
// the 401 otherwise. f.mu must be held.
func (f *fakeServer) authorizedLocked(w http.ResponseWriter, r *http.Request) bool {
	header := r.Header.Get("Authorization")
	f.lastAuth = header
	tok, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || tok == "" {
		errorResponse(w, http.StatusUnauthorized, "CM-AUTH-4010", "Missing or invalid Authorization header")
		return false
	}
	if !f.tokens[tok] {
		errorResponse(w, http.StatusUnauthorized, "CM-TOKN-4011", "Invalid or expired token")
		return false
	}
	return true
}

func (f *fakeServer) handleGetSession(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.authorizedLocked(w, r) {
		return
	}
	s, ok := f.sessions[r.PathValue("id")]
	if !ok {
		errorResponse(w, http.StatusNotFound, "CM-SESS-4040", "Session not found")
		return
	}
	jsonResponse(w, http.StatusOK, s)
}

func (f *fakeServer) handleChat(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.authorizedLocked(w, r) {
		return
	}

	var req struct {
		Input string `json:"input"`
		Role  string `json:"role"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.Input == "" || req.Role == "" {
		errorResponse(w, http.StatusBadRequest, "CM-ARG-4000", "Missing required fields: input and role")
		return
	}

	s, ok := f.sessions[r.Header.Get("X-Session-ID")]
	if !ok {
		s = f.newSessionLocked()
		w.Header().Set("X-Session-ID", s.SessionID)
	}
	s.RequestCount++

	msg := "You said: " + req.Input
	s.Messages = append(s.Messages,
		connection.Message{Role: "user", Content: req.Input},
		connection.Message{Role: "assistant", Content: msg},
	)

	usage := connection.Usage{PromptTokens: len(req.Input), CompletionTokens: len(msg)}
	usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens
	if s.RequestCount%3 == 0 {
		jsonResponse(w, http.StatusOK, map[string]any{"msg": msg, "status": "ok", "usage": usage})
		return
	}
	jsonResponse(w, http.StatusOK, connection.Completion{Message: msg, Usage: usage})
}

// lastAuthorization returns the Authorization header of the last
// authenticated request.
func (f *fakeServer) lastAuthorization() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastAuth
}

// issuedCount returns how many tokens were issued.
func (f *fakeServer) issuedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.issued
}

func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResponse(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("X-Error-Code", code)
	jsonResponse(w, status, map[string]string{"error": message})
}

// cliResult is the outcome of one CLI invocation.
type cliResult struct {
	stdout string
	stderr string
	err    error
}

// runCLI runs chatmesh-cli against srv with the config file at cfgPath.
func runCLI(t *testing.T, srv *fakeServer, cfgPath, stdin string, args ...string) cliResult {
	t.Helper()
	t.Setenv("CHATMESH_TOKEN", "")
	t.Setenv("CHATMESH_OUTPUT", "")

	var out, errOut bytes.Buffer
	app := App()
	app.Writer = &out
	app.ErrWriter = &errOut
	app.Reader = strings.NewReader(stdin)

	full := append([]string{"chatmesh-cli", "--server", srv.URL, "--config", cfgPath}, args...)
	err := app.Run(full)
	return cliResult{stdout: out.String(), stderr: errOut.String(), err: err}
}

func tempConfig(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "cli.yaml")
}
