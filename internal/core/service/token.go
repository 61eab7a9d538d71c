package service

import (
	"context"
	"errors"
	"time"

	"github.com/yndnr/chatmesh/internal/core/domain"
	"github.com/yndnr/chatmesh/internal/telemetry/logger"
)

// maxIDAttempts bounds retries when a generated ID collides.
const maxIDAttempts = 3

// TokenRepository defines the storage interface for token operations.
type TokenRepository interface {
	// Put stores a new token. Returns ErrTokenConflict if the ID exists.
	Put(ctx context.Context, tok *domain.Token) error

	// Get returns the token or ErrTokenInvalid.
	Get(ctx context.Context, id string) (*domain.Token, error)

	// Delete removes the token if present.
	Delete(ctx context.Context, id string) error

	// DeleteExpired removes the token only if it is expired at now.
	DeleteExpired(ctx context.Context, id string, now time.Time) bool

	// Count returns the number of stored tokens.
	Count() int
}

// TokenService issues and validates bearer tokens.
type TokenService struct {
	repo      TokenRepository
	ttl       time.Duration
	now       func() time.Time
	afterFunc func(time.Duration, func())
	recorder  Recorder
}

// NewTokenService creates a TokenService. The TTL defaults to domain.DefaultTokenTTL.
func NewTokenService(repo TokenRepository, opts ...Option) *TokenService {
	o := applyOptions(opts)
	ttl := o.tokenTTL
	if ttl <= 0 {
		ttl = domain.DefaultTokenTTL
	}
	return &TokenService{
		repo:      repo,
		ttl:       ttl,
		now:       o.now,
		afterFunc: o.afterFunc,
		recorder:  o.recorder,
	}
}

// TTL returns the lifetime given to newly issued tokens.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue creates, stores and returns a new token, and schedules its removal
// once the TTL has elapsed.
func (s *TokenService) Issue(ctx context.Context) (*domain.Token, error) {
	var lastErr error
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id, err := domain.GenerateTokenID()
		if err != nil {
			return nil, err
		}

		tok := domain.NewToken(id, s.now(), s.ttl)
		err = s.repo.Put(ctx, tok)
		if errors.Is(err, domain.ErrTokenConflict) {
			lastErr = err
			continue
		}
		if err != nil {
			return nil, domain.ErrInternalServer.WithCause(err)
		}

		s.afterFunc(s.ttl, func() {
			_ = s.repo.Delete(context.Background(), id)
		})
		s.recorder.TokenIssued()
		logger.L(ctx).Debug("token issued", "token", domain.MaskToken(id), "ttl_seconds", tok.TTLSeconds())
		return tok, nil
	}
	return nil, domain.ErrInternalServer.WithCause(lastErr)
}

// Validate checks that id names a live token.
//
// It returns ErrTokenInvalid when the token is unknown and ErrTokenExpired
// when it outlived its TTL. An expired token is evicted, so later calls
// for it return ErrTokenInvalid.
func (s *TokenService) Validate(ctx context.Context, id string) error {
	tok, err := s.repo.Get(ctx, id)
	if err != nil {
		s.recorder.TokenValidated(ValidationMissing)
		return domain.ErrTokenInvalid
	}

	now := s.now()
	if tok.IsExpiredAt(now) {
		s.repo.DeleteExpired(ctx, id, now)
		s.recorder.TokenValidated(ValidationExpired)
		logger.L(ctx).Debug("token expired", "token", domain.MaskToken(id), "expired_at", tok.ExpiresAt())
		return domain.ErrTokenExpired
	}

	s.recorder.TokenValidated(ValidationValid)
	return nil
}

// Count returns the number of stored tokens.
func (s *TokenService) Count() int {
	return s.repo.Count()
}
