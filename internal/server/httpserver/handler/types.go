package handler

import (
	"time"

	"github.com/yndnr/chatmesh/internal/core/domain"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// IssueTokenResponse is the response body for POST /auth.
type IssueTokenResponse struct {
	Token string `json:"token"`
	// TTL is the token lifetime in seconds.
	TTL int `json:"ttl"`
}

// CreateSessionResponse is the response body for POST /session.
type CreateSessionResponse struct {
	SessionID string `json:"sessionId"`
}

// ChatRequest is the request body for POST /chat.
type ChatRequest struct {
	Input string `json:"input"`
	Role  string `json:"role"`
}

// SessionResponse is the response body for GET /session/{id}.
type SessionResponse struct {
	SessionID    string           `json:"sessionId"`
	CreatedAt    time.Time        `json:"createdAt"`
	RequestCount int              `json:"requestCount"`
	Messages     []domain.Message `json:"messages"`
}

// HealthResponse is the response body for GET /health and GET /ready.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Time    string `json:"time"`
}

func sessionToResponse(s *domain.Session) SessionResponse {
	messages := s.Messages
	if messages == nil {
		messages = []domain.Message{}
	}
	return SessionResponse{
		SessionID:    s.ID,
		CreatedAt:    s.CreatedAt,
		RequestCount: s.RequestCount,
		Messages:     messages,
	}
}
