package config

import (
	"slices"
	"strings"
)

// Sanitize returns a copy of the config with secrets masked, for logging.
func Sanitize(cfg *ServerConfig) *ServerConfig {
	sanitized := *cfg
	sanitized.Server.CORSAllowedOrigins = slices.Clone(cfg.Server.CORSAllowedOrigins)
	sanitized.Server.TrustedProxies = slices.Clone(cfg.Server.TrustedProxies)

	if sanitized.Provider.OpenAI.APIKey != "" {
		sanitized.Provider.OpenAI.APIKey = maskSecret(sanitized.Provider.OpenAI.APIKey)
	}
	return &sanitized
}

func maskSecret(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
