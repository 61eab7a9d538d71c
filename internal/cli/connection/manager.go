package connection

import (
	"sync"
)

// Manager holds the server, token and session an interactive chat is
// bound to.
type Manager struct {
	mu      sync.RWMutex
	current *Connection
}

// Connection is one binding to a chatmesh server.
type Connection struct {
	Server    string
	Token     string
	SessionID string
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{}
}

// Connect binds the manager to conn.
func (m *Manager) Connect(conn *Connection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *conn
	m.current = &c
}

// Disconnect drops the current binding.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = nil
}

// Current returns a copy of the current binding, or nil.
func (m *Manager) Current() *Connection {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil
	}
	c := *m.current
	return &c
}

// IsConnected reports whether a binding is set.
func (m *Manager) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil
}

// SessionID returns the bound session, or "".
func (m *Manager) SessionID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return ""
	}
	return m.current.SessionID
}

// SetSessionID binds later turns to id. An empty id lets the next turn
// start a new session.
func (m *Manager) SetSessionID(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		m.current = &Connection{}
	}
	m.current.SessionID = id
}

// SetToken replaces the bound token.
func (m *Manager) SetToken(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		m.current = &Connection{}
	}
	m.current.Token = token
}

// Client returns an HTTP client for the current binding.
func (m *Manager) Client() *HTTPClient {
	c := m.Current()
	if c == nil {
		return nil
	}
	return NewHTTPClient(c.Server, c.Token)
}
