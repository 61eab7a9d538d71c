package memory

import (
	"context"
	"time"

	"github.com/yndnr/chatmesh/internal/core/domain"
	"github.com/yndnr/chatmesh/internal/core/service"
	"github.com/yndnr/chatmesh/pkg/cmap"
)

// TokenStore holds issued bearer tokens keyed by their identifier.
type TokenStore struct {
	tokens *cmap.Map[string, *domain.Token]
}

var _ service.TokenRepository = (*TokenStore)(nil)

// NewTokenStore creates an empty token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{
		tokens: cmap.New[string, *domain.Token](),
	}
}

// Put stores a newly issued token.
func (s *TokenStore) Put(_ context.Context, tok *domain.Token) error {
	if !s.tokens.SetIfAbsent(tok.ID, tok.Clone()) {
		return domain.ErrTokenConflict
	}
	return nil
}

// Get returns a copy of the token, or ErrTokenInvalid if absent.
func (s *TokenStore) Get(_ context.Context, id string) (*domain.Token, error) {
	tok, ok := s.tokens.Get(id)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	return tok.Clone(), nil
}

// Delete removes the token. Removing an absent token is a no-op.
func (s *TokenStore) Delete(_ context.Context, id string) error {
	s.tokens.Delete(id)
	return nil
}

// DeleteExpired removes the token only if it is expired at now.
// Returns true if the token was removed.
func (s *TokenStore) DeleteExpired(_ context.Context, id string, now time.Time) bool {
	return s.tokens.DeleteIf(id, func(tok *domain.Token) bool {
		return tok.IsExpiredAt(now)
	})
}

// Count returns the number of stored tokens, expired or not.
func (s *TokenStore) Count() int {
	return s.tokens.Count()
}
