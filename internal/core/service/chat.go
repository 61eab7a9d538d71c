package service

import (
	"context"
	"time"

	"github.com/yndnr/chatmesh/internal/core/domain"
	"github.com/yndnr/chatmesh/internal/telemetry/logger"
)

// CompletionClient produces an assistant reply for a single user input.
type CompletionClient interface {
	Complete(ctx context.Context, role, input string) (*domain.Completion, error)
}

// ChatTurnRequest carries one chat request as received from the transport.
type ChatTurnRequest struct {
	// Authorization is the raw Authorization header value.
	Authorization string

	// SessionID is the optional X-Session-ID header value.
	SessionID string

	Input string
	Role  string
}

// ChatTurnResult is the outcome of a successful turn. Exactly one of
// Completion and Irregular is set.
type ChatTurnResult struct {
	SessionID      string
	SessionCreated bool
	RequestCount   int

	Completion *domain.Completion
	Irregular  *domain.Irregular

	// Fallback is true when Completion is the local echo.
	Fallback bool
}

// Body returns the value to encode as the response body.
func (r *ChatTurnResult) Body() any {
	if r.Irregular != nil {
		return r.Irregular
	}
	return r.Completion
}

// ChatService runs the chat-turn state machine.
type ChatService struct {
	tokens   *TokenService
	sessions *SessionService
	policy   *IrregularPolicy
	client   CompletionClient
	now      func() time.Time
	recorder Recorder
}

// NewChatService wires the chat flow. client may be nil, in which case every
// normal turn uses the echo fallback.
func NewChatService(tokens *TokenService, sessions *SessionService, policy *IrregularPolicy, client CompletionClient, opts ...Option) *ChatService {
	o := applyOptions(opts)
	return &ChatService{
		tokens:   tokens,
		sessions: sessions,
		policy:   policy,
		client:   client,
		now:      o.now,
		recorder: o.recorder,
	}
}

// Authenticate checks the Authorization header and the bearer token it carries.
func (s *ChatService) Authenticate(ctx context.Context, header string) error {
	tok, ok := domain.ParseBearer(header)
	if !ok {
		return domain.ErrAuthHeaderInvalid
	}
	return s.tokens.Validate(ctx, tok)
}

// Turn processes one chat request.
//
// Errors are ErrAuthHeaderInvalid, ErrTokenInvalid, ErrTokenExpired and
// ErrMissingFields, checked in that order. Provider failures never surface;
// the turn falls back to echoing the input.
func (s *ChatService) Turn(ctx context.Context, req *ChatTurnRequest) (*ChatTurnResult, error) {
	if err := s.Authenticate(ctx, req.Authorization); err != nil {
		return nil, err
	}
	if req.Input == "" || req.Role == "" {
		return nil, domain.ErrMissingFields
	}

	sessionID, created, err := s.sessions.Resolve(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	ctx = logger.WithSessionID(ctx, sessionID)

	count := s.sessions.RecordUserTurn(ctx, sessionID, req.Input)
	result := &ChatTurnResult{
		SessionID:      sessionID,
		SessionCreated: created,
		RequestCount:   count,
	}

	if s.policy.ShouldTrigger(count) {
		result.Irregular = s.policy.Build(req.Input, count)
		s.recorder.ChatTurn(OutcomeIrregular)
		logger.L(ctx).Info("returning irregular response",
			"request_number", count,
			"shape", result.Irregular.Kind.String(),
		)
		return result, nil
	}

	completion, err := s.complete(ctx, req.Role, req.Input)
	if err != nil {
		completion = domain.EchoCompletion(req.Input)
		result.Fallback = true
	}
	result.Completion = completion

	s.sessions.RecordAssistantTurn(ctx, sessionID, completion.Message)

	outcome := OutcomeNormal
	if result.Fallback {
		outcome = OutcomeFallback
	}
	s.recorder.ChatTurn(outcome)
	logger.L(ctx).Debug("chat turn completed",
		"request_number", count,
		"outcome", outcome,
		"total_tokens", completion.Usage.TotalTokens,
	)
	return result, nil
}

func (s *ChatService) complete(ctx context.Context, role, input string) (*domain.Completion, error) {
	if s.client == nil {
		return nil, domain.ErrProviderUnconfigured
	}

	start := s.now()
	completion, err := s.client.Complete(ctx, role, input)
	if err == nil && completion == nil {
		err = domain.ErrProviderFailure.WithDetails("empty completion")
	}
	s.recorder.ProviderCall(s.now().Sub(start), err)
	if err != nil {
		logger.L(ctx).Warn("completion provider failed, echoing input", "error", err)
		return nil, err
	}
	return completion, nil
}

// Session returns a copy of a session after authenticating the caller.
func (s *ChatService) Session(ctx context.Context, authorization, id string) (*domain.Session, error) {
	if err := s.Authenticate(ctx, authorization); err != nil {
		return nil, err
	}
	return s.sessions.Get(ctx, id)
}
