package config

import "time"

// CLIConfig is the configuration for chatmesh-cli.
type CLIConfig struct {
	Server string `yaml:"server"`
	Output string `yaml:"output"` // table, json, yaml

	// Token is the last token issued by 'auth'. TokenIssuedAt and
	// TokenTTL let the CLI skip a token it knows has lapsed.
	Token         string    `yaml:"token,omitempty"`
	TokenIssuedAt time.Time `yaml:"token_issued_at,omitempty"`
	TokenTTL      int       `yaml:"token_ttl,omitempty"`

	// Session is the session 'chat' continues when --session is absent.
	Session string `yaml:"session,omitempty"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Server: "http://localhost:8080",
		Output: "table",
	}
}

// SetToken records a freshly issued token.
func (c *CLIConfig) SetToken(token string, ttlSeconds int, now time.Time) {
	c.Token = token
	c.TokenTTL = ttlSeconds
	c.TokenIssuedAt = now.UTC()
}

// ClearToken forgets the saved token.
func (c *CLIConfig) ClearToken() {
	c.Token = ""
	c.TokenTTL = 0
	c.TokenIssuedAt = time.Time{}
}

// TokenValid reports whether the saved token is still inside its TTL
// at now. A token without an issue time is assumed valid and left for
// the server to judge.
func (c *CLIConfig) TokenValid(now time.Time) bool {
	if c.Token == "" {
		return false
	}
	if c.TokenIssuedAt.IsZero() || c.TokenTTL <= 0 {
		return true
	}
	return now.Sub(c.TokenIssuedAt) <= time.Duration(c.TokenTTL)*time.Second
}
