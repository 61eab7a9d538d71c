package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/yndnr/chatmesh/internal/core/domain"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// scheduledFunc captures one AfterFunc call.
type scheduledFunc struct {
	delay time.Duration
	fn    func()
}

type fakeScheduler struct {
	mu        sync.Mutex
	scheduled []scheduledFunc
}

func (s *fakeScheduler) AfterFunc(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scheduled = append(s.scheduled, scheduledFunc{delay: d, fn: fn})
}

func (s *fakeScheduler) FireAll() {
	s.mu.Lock()
	pending := s.scheduled
	s.scheduled = nil
	s.mu.Unlock()
	for _, f := range pending {
		f.fn()
	}
}

// mockTokenRepo is a map-backed TokenRepository.
type mockTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*domain.Token
}

func newMockTokenRepo() *mockTokenRepo {
	return &mockTokenRepo{tokens: make(map[string]*domain.Token)}
}

func (m *mockTokenRepo) Put(_ context.Context, tok *domain.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tokens[tok.ID]; ok {
		return domain.ErrTokenConflict
	}
	m.tokens[tok.ID] = tok.Clone()
	return nil
}

func (m *mockTokenRepo) Get(_ context.Context, id string) (*domain.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tok, ok := m.tokens[id]
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	return tok.Clone(), nil
}

func (m *mockTokenRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, id)
	return nil
}

func (m *mockTokenRepo) DeleteExpired(_ context.Context, id string, now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	tok, ok := m.tokens[id]
	if !ok || !tok.IsExpiredAt(now) {
		return false
	}
	delete(m.tokens, id)
	return true
}

func (m *mockTokenRepo) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tokens)
}

// mockSessionRepo is a map-backed SessionRepository.
type mockSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{sessions: make(map[string]*domain.Session)}
}

func (m *mockSessionRepo) Create(_ context.Context, session *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[session.ID]; ok {
		return domain.ErrSessionConflict
	}
	m.sessions[session.ID] = session.Clone()
	return nil
}

func (m *mockSessionRepo) Get(_ context.Context, id string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session.Clone(), nil
}

func (m *mockSessionRepo) AppendUser(_ context.Context, id, content string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[id]
	if !ok {
		return 0, domain.ErrSessionNotFound
	}
	return session.AppendUser(content), nil
}

func (m *mockSessionRepo) AppendAssistant(_ context.Context, id, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.AppendAssistant(content)
	return nil
}

func (m *mockSessionRepo) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// countingRecorder records metric events.
type countingRecorder struct {
	mu          sync.Mutex
	issued      int
	validations map[string]int
	sessions    int
	turns       map[string]int
	providerErr int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{validations: map[string]int{}, turns: map[string]int{}}
}

func (r *countingRecorder) TokenIssued() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.issued++
}

func (r *countingRecorder) TokenValidated(result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.validations[result]++
}

func (r *countingRecorder) SessionCreated() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions++
}

func (r *countingRecorder) ChatTurn(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.turns[outcome]++
}

func (r *countingRecorder) ProviderCall(_ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.providerErr++
	}
}

// stubCompletionClient returns a fixed reply or error.
type stubCompletionClient struct {
	mu    sync.Mutex
	reply *domain.Completion
	err   error
	calls []string
}

func (c *stubCompletionClient) Complete(_ context.Context, role, input string) (*domain.Completion, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, role+":"+input)
	if c.err != nil {
		return nil, c.err
	}
	return c.reply, nil
}

var errUpstream = errors.New("upstream unavailable")
