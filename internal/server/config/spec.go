package config

import (
	"fmt"
	"net/netip"
	"strings"
	"time"
)

// ServerConfig is the root configuration for chatmesh-server.
type ServerConfig struct {
	Server   ServerSection   `koanf:"server"`
	Auth     AuthSection     `koanf:"auth"`
	Provider ProviderSection `koanf:"provider"`
	Log      LogSection      `koanf:"log"`
}

// ServerSection configures the HTTP surface.
type ServerSection struct {
	HTTP HTTPConfig `koanf:"http"`

	// CORSAllowedOrigins lists allowed browser origins. "*" allows any.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// TrustedProxies lists IPs or CIDR prefixes of reverse proxies whose
	// X-Forwarded-For and X-Real-IP headers are believed. Empty means the
	// peer address is always the client.
	TrustedProxies []string `koanf:"trusted_proxies"`

	RateLimit RateLimitConfig `koanf:"rate_limit"`

	Admin AdminConfig `koanf:"admin"`
}

// TrustedProxyPrefixes parses TrustedProxies. A bare address becomes a
// single-host prefix.
func (c ServerSection) TrustedProxyPrefixes() ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(c.TrustedProxies))
	for _, v := range c.TrustedProxies {
		v = strings.TrimSpace(v)
		if strings.Contains(v, "/") {
			p, err := netip.ParsePrefix(v)
			if err != nil {
				return nil, fmt.Errorf("server.trusted_proxies %q: %w", v, err)
			}
			prefixes = append(prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(v)
		if err != nil {
			return nil, fmt.Errorf("server.trusted_proxies %q: %w", v, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

// AdminConfig configures the local admin socket.
type AdminConfig struct {
	// Socket is the Unix socket path. Empty disables the admin socket.
	Socket string `koanf:"socket"`
}

// HTTPConfig configures the HTTP listener.
type HTTPConfig struct {
	Addr        string `koanf:"addr"`
	TLSCertFile string `koanf:"tls_cert_file"`
	TLSKeyFile  string `koanf:"tls_key_file"`

	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// TLSEnabled reports whether both TLS files are configured.
func (c HTTPConfig) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

// RateLimitConfig configures the per-client-IP request limiter.
type RateLimitConfig struct {
	// RPS is the sustained requests per second per IP. Zero disables limiting.
	RPS   float64 `koanf:"rps"`
	Burst int     `koanf:"burst"`
}

// AuthSection configures bearer tokens.
type AuthSection struct {
	TokenTTL time.Duration `koanf:"token_ttl"`
}

// ProviderSection configures completion providers.
type ProviderSection struct {
	OpenAI OpenAIConfig `koanf:"openai"`
}

// OpenAIConfig configures the OpenAI completion client. An empty APIKey
// leaves the provider unconfigured and every turn echoes its input.
type OpenAIConfig struct {
	APIKey      string        `koanf:"api_key"`
	BaseURL     string        `koanf:"base_url"`
	Model       string        `koanf:"model"`
	Temperature float32       `koanf:"temperature"`
	MaxTokens   int           `koanf:"max_tokens"`
	Timeout     time.Duration `koanf:"timeout"`

	// CAFile is an optional PEM bundle trusted in addition to the system roots.
	CAFile string `koanf:"ca_file"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// ApplyFallbacks fills unset values from well-known variables that carry no
// CHATMESH_ prefix. lookup is usually os.LookupEnv.
func (c *ServerConfig) ApplyFallbacks(lookup func(string) (string, bool)) {
	if c.Provider.OpenAI.APIKey == "" {
		if key, ok := lookup("OPENAI_API_KEY"); ok {
			c.Provider.OpenAI.APIKey = key
		}
	}
}
