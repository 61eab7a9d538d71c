package tests

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yndnr/chatmesh/internal/cli/connection"
	"github.com/yndnr/chatmesh/internal/core/service"
	"github.com/yndnr/chatmesh/internal/provider/openai"
	"github.com/yndnr/chatmesh/internal/server/httpserver"
	"github.com/yndnr/chatmesh/internal/storage/memory"
	"github.com/yndnr/chatmesh/internal/telemetry/logger"
	"github.com/yndnr/chatmesh/internal/telemetry/metric"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// upstream is a fake OpenAI chat completions endpoint.
type upstream struct {
	*httptest.Server
	calls atomic.Int32
	fail  atomic.Bool
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()
	u := &upstream{}
	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.calls.Add(1)
		if u.fail.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Use a sync.Mutex."},"finish_reason":"stop"}],"usage":{"prompt_tokens":21,"completion_tokens":5,"total_tokens":26}}`))
	}))
	t.Cleanup(u.Close)
	return u
}

type stack struct {
	server   *httptest.Server
	client   *connection.HTTPClient
	clock    *clock
	registry *metric.Registry
}

// newStack starts the full HTTP stack. With up nil no provider is
// configured and every normal turn echoes.
func newStack(t *testing.T, up *upstream) *stack {
	t.Helper()

	clk := &clock{now: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
	reg := metric.NewRegistry()
	opts := []service.Option{
		service.WithClock(clk.Now),
		service.WithAfterFunc(func(time.Duration, func()) {}),
		service.WithRecorder(reg),
	}

	tokenStore := memory.NewTokenStore()
	sessionStore := memory.NewSessionStore()
	require.NoError(t, reg.Register(metric.NewStoreCollector(tokenStore, sessionStore)))

	var completer service.CompletionClient
	if up != nil {
		c, err := openai.New(openai.Config{APIKey: "sk-test", BaseURL: up.URL + "/v1", Timeout: 5 * time.Second})
		require.NoError(t, err)
		completer = c
	}

	tokens := service.NewTokenService(tokenStore, opts...)
	sessions := service.NewSessionService(sessionStore, opts...)
	chat := service.NewChatService(tokens, sessions, service.NewIrregularPolicy(opts...), completer, opts...)

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		TokenService:       tokens,
		SessionService:     sessions,
		ChatService:        chat,
		Logger:             logger.Discard(),
		Metrics:            reg,
		MetricsHandler:     reg.Handler(),
		CORSAllowedOrigins: []string{"*"},
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &stack{
		server:   srv,
		client:   connection.NewHTTPClient(srv.URL, ""),
		clock:    clk,
		registry: reg,
	}
}

func (s *stack) auth(t *testing.T) {
	t.Helper()
	tok, err := s.client.IssueToken(context.Background())
	require.NoError(t, err)
	s.client.SetToken(tok.Token)
}
