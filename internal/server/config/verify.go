package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/yndnr/chatmesh/internal/telemetry/logger"
)

// Verify validates the configuration and returns every problem found.
func Verify(cfg *ServerConfig) error {
	return errors.Join(
		verifyServer(&cfg.Server),
		verifyAuth(&cfg.Auth),
		verifyProvider(&cfg.Provider),
		verifyLog(&cfg.Log),
	)
}

func verifyServer(cfg *ServerSection) error {
	var errs []error

	if _, _, err := net.SplitHostPort(cfg.HTTP.Addr); err != nil {
		errs = append(errs, fmt.Errorf("server.http.addr %q: %w", cfg.HTTP.Addr, err))
	}

	if (cfg.HTTP.TLSCertFile == "") != (cfg.HTTP.TLSKeyFile == "") {
		errs = append(errs, errors.New("server.http.tls_cert_file and tls_key_file must be set together"))
	}
	for _, f := range []string{cfg.HTTP.TLSCertFile, cfg.HTTP.TLSKeyFile} {
		if f == "" {
			continue
		}
		if _, err := os.Stat(f); err != nil {
			errs = append(errs, fmt.Errorf("tls file: %w", err))
		}
	}

	if cfg.HTTP.ReadTimeout < 0 || cfg.HTTP.WriteTimeout < 0 || cfg.HTTP.IdleTimeout < 0 {
		errs = append(errs, errors.New("server.http timeouts must not be negative"))
	}

	if cfg.RateLimit.RPS < 0 {
		errs = append(errs, errors.New("server.rate_limit.rps must not be negative"))
	}
	if cfg.RateLimit.RPS > 0 && cfg.RateLimit.Burst < 1 {
		errs = append(errs, errors.New("server.rate_limit.burst must be at least 1 when rps is set"))
	}

	if cfg.Admin.Socket != "" {
		if info, err := os.Stat(filepath.Dir(cfg.Admin.Socket)); err != nil || !info.IsDir() {
			errs = append(errs, fmt.Errorf("server.admin.socket %q: parent directory does not exist", cfg.Admin.Socket))
		}
	}

	if _, err := cfg.TrustedProxyPrefixes(); err != nil {
		errs = append(errs, err)
	}

	for _, origin := range cfg.CORSAllowedOrigins {
		if strings.TrimSpace(origin) == "" {
			errs = append(errs, errors.New("server.cors_allowed_origins contains an empty entry"))
			break
		}
	}

	return errors.Join(errs...)
}

func verifyAuth(cfg *AuthSection) error {
	if cfg.TokenTTL <= 0 {
		return errors.New("auth.token_ttl must be positive")
	}
	return nil
}

func verifyProvider(cfg *ProviderSection) error {
	var errs []error
	o := cfg.OpenAI

	if o.BaseURL != "" {
		if u, err := url.Parse(o.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("provider.openai.base_url %q is not an absolute URL", o.BaseURL))
		}
	}
	if o.Temperature < 0 || o.Temperature > 2 {
		errs = append(errs, errors.New("provider.openai.temperature must be between 0 and 2"))
	}
	if o.MaxTokens < 0 {
		errs = append(errs, errors.New("provider.openai.max_tokens must not be negative"))
	}
	if o.CAFile != "" {
		if _, err := os.Stat(o.CAFile); err != nil {
			errs = append(errs, fmt.Errorf("provider.openai.ca_file: %w", err))
		}
	}
	return errors.Join(errs...)
}

func verifyLog(cfg *LogSection) error {
	var errs []error
	if !logger.ValidLevel(cfg.Level) {
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", cfg.Level))
	}
	switch strings.ToLower(cfg.Format) {
	case "json", "text", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format %q is not json or text", cfg.Format))
	}
	return errors.Join(errs...)
}
