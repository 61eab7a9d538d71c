package connection

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yndnr/chatmesh/internal/infra/buildinfo"
)

const (
	headerSessionID = "X-Session-ID"
	headerErrorCode = "X-Error-Code"
	headerRequestID = "X-Request-ID"

	maxResponseBytes = 4 << 20
)

// ErrNoToken is returned by calls that need a token when none is set.
var ErrNoToken = errors.New("no access token, run 'chatmesh-cli auth' first")

// APIError is a non-2xx response from the server.
type APIError struct {
	Status    int
	Code      string
	Message   string
	RequestID string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
}

// IsUnauthorized reports whether err is a 401 from the server.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// HTTPClient provides HTTP communication with the server.
type HTTPClient struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPClient creates a client for server. A bare host:port gets an
// http:// prefix.
func NewHTTPClient(server, token string) *HTTPClient {
	baseURL := strings.TrimRight(server, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}

	return &HTTPClient{
		baseURL: baseURL,
		token:   token,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// BaseURL returns the base URL of the client.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// Token returns the bearer token in use.
func (c *HTTPClient) Token() string {
	return c.token
}

// SetToken replaces the bearer token.
func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, path string, header http.Header) (*http.Response, error) {
	return c.do(ctx, http.MethodGet, path, nil, header)
}

// Post performs a POST request with an optional JSON body.
func (c *HTTPClient) Post(ctx context.Context, path string, body any, header http.Header) (*http.Response, error) {
	return c.do(ctx, http.MethodPost, path, body, header)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body any, header http.Header) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("User-Agent", "chatmesh-cli/"+buildinfo.Version)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

// IssueToken requests a new access token.
func (c *HTTPClient) IssueToken(ctx context.Context) (*TokenResponse, error) {
	resp, err := c.Post(ctx, "/auth", nil, nil)
	if err != nil {
		return nil, err
	}
	var out TokenResponse
	if err := ParseResponse(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateSession creates an empty session and returns its ID.
func (c *HTTPClient) CreateSession(ctx context.Context) (string, error) {
	resp, err := c.Post(ctx, "/session", nil, nil)
	if err != nil {
		return "", err
	}
	var out struct {
		SessionID string `json:"sessionId"`
	}
	if err := ParseResponse(resp, &out); err != nil {
		return "", err
	}
	return out.SessionID, nil
}

// GetSession fetches a session transcript.
func (c *HTTPClient) GetSession(ctx context.Context, id string) (*Session, error) {
	if c.token == "" {
		return nil, ErrNoToken
	}
	resp, err := c.Get(ctx, "/session/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	var out Session
	if err := ParseResponse(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Chat sends one chat turn. An empty sessionID lets the server create
// one, reported back in ChatReply.SessionID.
func (c *HTTPClient) Chat(ctx context.Context, sessionID, input, role string) (*ChatReply, error) {
	if c.token == "" {
		return nil, ErrNoToken
	}

	header := http.Header{}
	if sessionID != "" {
		header.Set(headerSessionID, sessionID)
	}

	resp, err := c.Post(ctx, "/chat", map[string]string{"input": input, "role": role}, header)
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := ParseResponse(resp, &raw); err != nil {
		return nil, err
	}
	return &ChatReply{
		SessionID:  resp.Header.Get(headerSessionID),
		Raw:        raw,
		Completion: parseCompletion(raw),
	}, nil
}

// Health queries GET /health.
func (c *HTTPClient) Health(ctx context.Context) (*Health, error) {
	return c.status(ctx, "/health")
}

// Ready queries GET /ready.
func (c *HTTPClient) Ready(ctx context.Context) (*Health, error) {
	return c.status(ctx, "/ready")
}

func (c *HTTPClient) status(ctx context.Context, path string) (*Health, error) {
	resp, err := c.Get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	var out Health
	if err := ParseResponse(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ParseResponse decodes a JSON response body into target and closes it.
// Non-2xx responses become an *APIError built from the {"error": ...}
// body and the X-Error-Code header.
func ParseResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{
			Status:    resp.StatusCode,
			Code:      resp.Header.Get(headerErrorCode),
			RequestID: resp.Header.Get(headerRequestID),
		}
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
			apiErr.Message = errResp.Error
		} else {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if target == nil {
		return nil
	}
	if raw, ok := target.(*json.RawMessage); ok {
		if !json.Valid(body) {
			return errors.New("parse response: invalid JSON")
		}
		*raw = body
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}
