package domain

import (
	"encoding/base64"
	"strings"
	"time"

	"github.com/yndnr/chatmesh/pkg/token"
)

// Token constants.
const (
	// TokenPrefix is the prefix for bearer tokens.
	TokenPrefix = "cmtk_"

	// TokenBytesLength is the number of random bytes for token generation.
	TokenBytesLength = 32

	// TokenBodyLength is the Base64 RawURL encoded length (32 bytes -> 43 chars).
	TokenBodyLength = 43

	// TokenLength is the total token length (prefix + body).
	TokenLength = 5 + TokenBodyLength

	// DefaultTokenTTL is the lifetime of an issued token.
	DefaultTokenTTL = 300 * time.Second

	// BearerScheme is the Authorization header scheme, including the trailing space.
	BearerScheme = "Bearer "
)

// Token is an issued bearer credential.
// Tokens are never updated after issuance.
type Token struct {
	// ID is the opaque token string presented by clients.
	ID string `json:"id"`

	// CreatedAt is the issuance time.
	CreatedAt time.Time `json:"created_at"`

	// TTL is the lifetime measured from CreatedAt.
	TTL time.Duration `json:"ttl"`
}

// NewToken creates a Token issued at createdAt.
func NewToken(id string, createdAt time.Time, ttl time.Duration) *Token {
	return &Token{
		ID:        id,
		CreatedAt: createdAt,
		TTL:       ttl,
	}
}

// GenerateTokenID generates a cryptographically secure token identifier.
// Format: cmtk_{base64url(32 random bytes)}, 48 characters total.
func GenerateTokenID() (string, error) {
	id, err := token.GeneratePrefixed(TokenPrefix, TokenBytesLength)
	if err != nil {
		return "", ErrInternalServer.WithCause(err)
	}
	return id, nil
}

// IsExpiredAt reports whether the token is expired at the given instant.
// A token is still valid when exactly TTL has elapsed.
func (t *Token) IsExpiredAt(now time.Time) bool {
	return now.Sub(t.CreatedAt) > t.TTL
}

// ExpiresAt returns the last instant at which the token is valid.
func (t *Token) ExpiresAt() time.Time {
	return t.CreatedAt.Add(t.TTL)
}

// TTLSeconds returns the TTL in whole seconds.
func (t *Token) TTLSeconds() int {
	return int(t.TTL / time.Second)
}

// Clone creates a copy of the token.
func (t *Token) Clone() *Token {
	clone := *t
	return &clone
}

// ValidateTokenFormat checks if a string has valid token format.
func ValidateTokenFormat(s string) bool {
	if len(s) != TokenLength || !strings.HasPrefix(s, TokenPrefix) {
		return false
	}
	_, err := base64.RawURLEncoding.DecodeString(s[len(TokenPrefix):])
	return err == nil
}

// ParseBearer extracts the credential from an Authorization header value.
// The scheme match is case-sensitive, matching what clients are documented to send.
func ParseBearer(header string) (string, bool) {
	if !strings.HasPrefix(header, BearerScheme) {
		return "", false
	}
	return header[len(BearerScheme):], true
}

// MaskToken masks a token for safe logging.
// Example: cmtk_ABC...xyz
func MaskToken(s string) string {
	if len(s) < 10 {
		return "***REDACTED***"
	}
	if strings.HasPrefix(s, TokenPrefix) {
		body := s[len(TokenPrefix):]
		if len(body) > 6 {
			return TokenPrefix + body[:3] + "..." + body[len(body)-3:]
		}
		return TokenPrefix + "***"
	}
	return "***REDACTED***"
}
