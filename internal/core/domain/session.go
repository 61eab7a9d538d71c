package domain

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// SessionIDPrefix is the prefix for session IDs.
const SessionIDPrefix = "cmss-"

// Role identifies the author of a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single entry in a session's history. Immutable once appended.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Session is a server-held conversation context.
//
// Invariants: RequestCount grows by exactly one per accepted chat turn and
// Messages only ever grows at the tail.
type Session struct {
	// ID is the unique identifier for the session.
	// Format: cmss-{ulid_lowercase}, 31 characters total.
	ID string `json:"sessionId"`

	// CreatedAt is the session creation time.
	CreatedAt time.Time `json:"createdAt"`

	// Messages is the ordered conversation history.
	Messages []Message `json:"messages"`

	// RequestCount is the number of chat turns attributed to the session.
	RequestCount int `json:"requestCount"`
}

// NewSession creates a new empty Session with a generated ID.
func NewSession(now time.Time) (*Session, error) {
	id, err := GenerateSessionID(now)
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:        id,
		CreatedAt: now,
		Messages:  make([]Message, 0),
	}, nil
}

// GenerateSessionID generates a new session ID using ULID.
func GenerateSessionID(now time.Time) (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(now), entropy)
	if err != nil {
		return "", ErrInternalServer.WithCause(err)
	}
	return SessionIDPrefix + strings.ToLower(id.String()), nil
}

// AppendUser appends a user message and increments the request counter.
// Returns the post-increment counter.
func (s *Session) AppendUser(content string) int {
	s.Messages = append(s.Messages, Message{Role: RoleUser, Content: content})
	s.RequestCount++
	return s.RequestCount
}

// AppendAssistant appends an assistant message.
func (s *Session) AppendAssistant(content string) {
	s.Messages = append(s.Messages, Message{Role: RoleAssistant, Content: content})
}

// Clone creates a deep copy of the session.
func (s *Session) Clone() *Session {
	clone := *s
	clone.Messages = make([]Message, len(s.Messages))
	copy(clone.Messages, s.Messages)
	return &clone
}

// IsValidSessionID checks if a string has the generated session ID format.
// Chat turns accept arbitrary session identifiers; only lookups check it.
func IsValidSessionID(id string) bool {
	id = strings.ToLower(id)
	if !strings.HasPrefix(id, SessionIDPrefix) || len(id) != 31 {
		return false
	}
	_, err := ulid.Parse(strings.ToUpper(id[len(SessionIDPrefix):]))
	return err == nil
}
