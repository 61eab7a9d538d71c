package service

import (
	"context"
	"errors"
	"time"

	"github.com/yndnr/chatmesh/internal/core/domain"
	"github.com/yndnr/chatmesh/internal/telemetry/logger"
)

// SessionRepository defines the storage interface for session operations.
type SessionRepository interface {
	// Create stores a new session. Returns ErrSessionConflict if the ID exists.
	Create(ctx context.Context, session *domain.Session) error

	// Get returns a copy of the session or ErrSessionNotFound.
	Get(ctx context.Context, id string) (*domain.Session, error)

	// AppendUser atomically appends a user message and increments the
	// request counter, returning the new counter.
	AppendUser(ctx context.Context, id, content string) (int, error)

	// AppendAssistant appends an assistant message.
	AppendAssistant(ctx context.Context, id, content string) error

	// Count returns the number of stored sessions.
	Count() int
}

// SessionService creates sessions and records chat turns against them.
type SessionService struct {
	repo     SessionRepository
	now      func() time.Time
	recorder Recorder
}

// NewSessionService creates a new SessionService.
func NewSessionService(repo SessionRepository, opts ...Option) *SessionService {
	o := applyOptions(opts)
	return &SessionService{
		repo:     repo,
		now:      o.now,
		recorder: o.recorder,
	}
}

// Create creates an empty session and returns a copy of it.
func (s *SessionService) Create(ctx context.Context) (*domain.Session, error) {
	var lastErr error
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		session, err := domain.NewSession(s.now())
		if err != nil {
			return nil, err
		}

		err = s.repo.Create(ctx, session)
		if errors.Is(err, domain.ErrSessionConflict) {
			lastErr = err
			continue
		}
		if err != nil {
			return nil, domain.ErrInternalServer.WithCause(err)
		}

		s.recorder.SessionCreated()
		logger.L(ctx).Debug("session created", "session_id", session.ID)
		return session, nil
	}
	return nil, domain.ErrInternalServer.WithCause(lastErr)
}

// Resolve returns the session a chat turn is bound to.
//
// An empty id creates a new session (isNew is true). A non-empty id is
// returned unchanged without checking that it exists; turns against an
// unknown id run detached and record nothing.
func (s *SessionService) Resolve(ctx context.Context, id string) (sessionID string, isNew bool, err error) {
	if id != "" {
		return id, false, nil
	}
	session, err := s.Create(ctx)
	if err != nil {
		return "", false, err
	}
	return session.ID, true, nil
}

// RecordUserTurn appends the user's input and increments the request
// counter. Returns the new counter, or 0 if the session does not exist.
func (s *SessionService) RecordUserTurn(ctx context.Context, id, input string) int {
	count, err := s.repo.AppendUser(ctx, id, input)
	if err != nil {
		logger.L(ctx).Debug("detached chat turn", "session_id", id)
		return 0
	}
	return count
}

// RecordAssistantTurn appends an assistant message if the session exists.
func (s *SessionService) RecordAssistantTurn(ctx context.Context, id, content string) {
	_ = s.repo.AppendAssistant(ctx, id, content)
}

// Get returns a copy of the session or ErrSessionNotFound. Ids that are not
// in the generated format are rejected without a store lookup.
func (s *SessionService) Get(ctx context.Context, id string) (*domain.Session, error) {
	if !domain.IsValidSessionID(id) {
		return nil, domain.ErrSessionNotFound
	}
	return s.repo.Get(ctx, id)
}

// Count returns the number of stored sessions.
func (s *SessionService) Count() int {
	return s.repo.Count()
}
