package config

import (
	"net/netip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultHTTPAddr, cfg.Server.HTTP.Addr)
	assert.Equal(t, 300*time.Second, cfg.Auth.TokenTTL)
	assert.Equal(t, "gpt-4.1-nano", cfg.Provider.OpenAI.Model)
	assert.Empty(t, cfg.Provider.OpenAI.APIKey)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowedOrigins)
	assert.Empty(t, cfg.Server.TrustedProxies)
	assert.False(t, cfg.Server.HTTP.TLSEnabled())
	assert.NoError(t, Verify(cfg))
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ServerConfig)
		wantErr string
	}{
		{"bad addr", func(c *ServerConfig) { c.Server.HTTP.Addr = "8080" }, "server.http.addr"},
		{"half tls", func(c *ServerConfig) { c.Server.HTTP.TLSCertFile = "cert.pem" }, "set together"},
		{"missing tls files", func(c *ServerConfig) {
			c.Server.HTTP.TLSCertFile = "/nonexistent/cert.pem"
			c.Server.HTTP.TLSKeyFile = "/nonexistent/key.pem"
		}, "tls file"},
		{"negative timeout", func(c *ServerConfig) { c.Server.HTTP.ReadTimeout = -time.Second }, "timeouts"},
		{"negative rps", func(c *ServerConfig) { c.Server.RateLimit.RPS = -1 }, "rps"},
		{"zero burst", func(c *ServerConfig) { c.Server.RateLimit.Burst = 0 }, "burst"},
		{"empty origin", func(c *ServerConfig) { c.Server.CORSAllowedOrigins = []string{" "} }, "cors_allowed_origins"},
		{"bad trusted proxy", func(c *ServerConfig) { c.Server.TrustedProxies = []string{"proxy.local"} }, "server.trusted_proxies"},
		{"bad trusted cidr", func(c *ServerConfig) { c.Server.TrustedProxies = []string{"10.0.0.0/33"} }, "server.trusted_proxies"},
		{"admin socket dir", func(c *ServerConfig) { c.Server.Admin.Socket = "/nonexistent/dir/admin.sock" }, "server.admin.socket"},
		{"zero ttl", func(c *ServerConfig) { c.Auth.TokenTTL = 0 }, "token_ttl"},
		{"relative base url", func(c *ServerConfig) { c.Provider.OpenAI.BaseURL = "api.openai.com" }, "base_url"},
		{"hot temperature", func(c *ServerConfig) { c.Provider.OpenAI.Temperature = 3 }, "temperature"},
		{"bad level", func(c *ServerConfig) { c.Log.Level = "verbose" }, "log.level"},
		{"bad format", func(c *ServerConfig) { c.Log.Format = "xml" }, "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Verify(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestVerify_RateLimitDisabled(t *testing.T) {
	cfg := Default()
	cfg.Server.RateLimit = RateLimitConfig{}
	assert.NoError(t, Verify(cfg))
}

func TestVerify_TLSFilesPresent(t *testing.T) {
	dir := t.TempDir()
	cert := filepath.Join(dir, "cert.pem")
	key := filepath.Join(dir, "key.pem")
	for _, f := range []string{cert, key} {
		require.NoError(t, os.WriteFile(f, []byte("x"), 0o600))
	}

	cfg := Default()
	cfg.Server.HTTP.TLSCertFile = cert
	cfg.Server.HTTP.TLSKeyFile = key
	assert.NoError(t, Verify(cfg))
	assert.True(t, cfg.Server.HTTP.TLSEnabled())
}

func TestVerify_AdminSocket(t *testing.T) {
	cfg := Default()
	cfg.Server.Admin.Socket = filepath.Join(t.TempDir(), "admin.sock")
	assert.NoError(t, Verify(cfg))
}

func TestTrustedProxyPrefixes(t *testing.T) {
	s := ServerSection{TrustedProxies: []string{"10.1.2.3/8", " 192.0.2.7 ", "::1"}}
	prefixes, err := s.TrustedProxyPrefixes()
	require.NoError(t, err)
	assert.Equal(t, []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("192.0.2.7/32"),
		netip.MustParsePrefix("::1/128"),
	}, prefixes)

	prefixes, err = ServerSection{}.TrustedProxyPrefixes()
	require.NoError(t, err)
	assert.Empty(t, prefixes)
}

func TestApplyFallbacks(t *testing.T) {
	env := map[string]string{"OPENAI_API_KEY": "sk-fallback"}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	cfg.ApplyFallbacks(lookup)
	assert.Equal(t, "sk-fallback", cfg.Provider.OpenAI.APIKey)

	cfg = Default()
	cfg.Provider.OpenAI.APIKey = "sk-configured"
	cfg.ApplyFallbacks(lookup)
	assert.Equal(t, "sk-configured", cfg.Provider.OpenAI.APIKey, "configured value should win")
}

func TestSanitize(t *testing.T) {
	cfg := Default()
	cfg.Provider.OpenAI.APIKey = "sk-secret-1234567890"
	cfg.Server.TrustedProxies = []string{"10.0.0.0/8"}

	sanitized := Sanitize(cfg)

	assert.Equal(t, "sk-secret-1234567890", cfg.Provider.OpenAI.APIKey, "original config should not be modified")
	got := sanitized.Provider.OpenAI.APIKey
	assert.NotEqual(t, cfg.Provider.OpenAI.APIKey, got)
	assert.Len(t, got, len(cfg.Provider.OpenAI.APIKey))
	assert.Equal(t, "sk", got[:2])
	assert.Equal(t, "90", got[len(got)-2:])

	sanitized.Server.CORSAllowedOrigins[0] = "changed"
	sanitized.Server.TrustedProxies[0] = "changed"
	assert.Equal(t, "*", cfg.Server.CORSAllowedOrigins[0], "Sanitize should copy the origins slice")
	assert.Equal(t, "10.0.0.0/8", cfg.Server.TrustedProxies[0], "Sanitize should copy the proxies slice")
}

func TestSanitize_ShortAndEmpty(t *testing.T) {
	cfg := Default()
	assert.Empty(t, Sanitize(cfg).Provider.OpenAI.APIKey)

	cfg.Provider.OpenAI.APIKey = "abc"
	assert.Equal(t, "****", Sanitize(cfg).Provider.OpenAI.APIKey)
}
