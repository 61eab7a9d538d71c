package memory

import (
	"context"

	"github.com/yndnr/chatmesh/internal/core/domain"
	"github.com/yndnr/chatmesh/internal/core/service"
	"github.com/yndnr/chatmesh/pkg/cmap"
)

// SessionStore holds conversational sessions keyed by session ID.
type SessionStore struct {
	sessions *cmap.Map[string, *domain.Session]
}

var _ service.SessionRepository = (*SessionStore)(nil)

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: cmap.New[string, *domain.Session](),
	}
}

// Create stores a new session. The store keeps its own copy.
func (s *SessionStore) Create(_ context.Context, session *domain.Session) error {
	if !s.sessions.SetIfAbsent(session.ID, session.Clone()) {
		return domain.ErrSessionConflict
	}
	return nil
}

// Get returns a deep copy of the session, or ErrSessionNotFound.
func (s *SessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	session, found := cmap.ComputeIfPresent(s.sessions, id, (*domain.Session).Clone)
	if !found {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// AppendUser appends a user message and increments the request counter in
// one step. Returns the post-increment counter.
func (s *SessionStore) AppendUser(_ context.Context, id, content string) (int, error) {
	count, found := cmap.ComputeIfPresent(s.sessions, id, func(session *domain.Session) int {
		return session.AppendUser(content)
	})
	if !found {
		return 0, domain.ErrSessionNotFound
	}
	return count, nil
}

// AppendAssistant appends an assistant message.
func (s *SessionStore) AppendAssistant(_ context.Context, id, content string) error {
	_, found := cmap.ComputeIfPresent(s.sessions, id, func(session *domain.Session) struct{} {
		session.AppendAssistant(content)
		return struct{}{}
	})
	if !found {
		return domain.ErrSessionNotFound
	}
	return nil
}

// Count returns the number of stored sessions.
func (s *SessionStore) Count() int {
	return s.sessions.Count()
}
