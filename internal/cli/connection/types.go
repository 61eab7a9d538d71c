package connection

import (
	"bytes"
	"encoding/json"
	"time"
)

// TokenResponse is the body of POST /auth.
type TokenResponse struct {
	Token string `json:"token" yaml:"token"`
	TTL   int    `json:"ttl" yaml:"ttl"`
}

// Message is one entry of a session transcript.
type Message struct {
	Role    string `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

// Session is the body of GET /session/{id}.
type Session struct {
	SessionID    string    `json:"sessionId" yaml:"sessionId"`
	CreatedAt    time.Time `json:"createdAt" yaml:"createdAt"`
	RequestCount int       `json:"requestCount" yaml:"requestCount"`
	Messages     []Message `json:"messages" yaml:"messages"`
}

// Health is the body of GET /health and GET /ready.
type Health struct {
	Status  string `json:"status" yaml:"status"`
	Version string `json:"version" yaml:"version"`
	Time    string `json:"time" yaml:"time"`
}

// Usage is the token accounting of a well-formed completion.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens" yaml:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens" yaml:"completion_tokens"`
	TotalTokens      int `json:"total_tokens" yaml:"total_tokens"`
}

// Completion is a well-formed chat reply.
type Completion struct {
	Message string `json:"message" yaml:"message"`
	Usage   Usage  `json:"usage" yaml:"usage"`
}

// ChatReply is the result of POST /chat.
type ChatReply struct {
	// SessionID is set when the server created a session for this turn.
	SessionID string

	// Raw is the response body exactly as received.
	Raw json.RawMessage

	// Completion is nil when the body is not a well-formed completion.
	Completion *Completion
}

// Irregular reports whether the body deviated from the completion shape.
func (r *ChatReply) Irregular() bool {
	return r.Completion == nil
}

// parseCompletion decodes body strictly: any unknown or missing field
// means the server sent a deliberately irregular shape.
func parseCompletion(body []byte) *Completion {
	var shape struct {
		Message *string `json:"message"`
		Usage   *Usage  `json:"usage"`
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&shape); err != nil || shape.Message == nil || shape.Usage == nil {
		return nil
	}
	return &Completion{Message: *shape.Message, Usage: *shape.Usage}
}
