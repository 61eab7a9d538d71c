package config

import "time"

// Default configuration values.
const (
	DefaultHTTPAddr        = "0.0.0.0:8080"
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 15 * time.Second

	DefaultRateLimitRPS   = 20
	DefaultRateLimitBurst = 40

	DefaultTokenTTL = 300 * time.Second

	DefaultOpenAIModel       = "gpt-4.1-nano"
	DefaultOpenAITemperature = 0.7
	DefaultOpenAIMaxTokens   = 500
	DefaultOpenAITimeout     = 30 * time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr:            DefaultHTTPAddr,
				ReadTimeout:     DefaultReadTimeout,
				WriteTimeout:    DefaultWriteTimeout,
				IdleTimeout:     DefaultIdleTimeout,
				ShutdownTimeout: DefaultShutdownTimeout,
			},
			CORSAllowedOrigins: []string{"*"},
			RateLimit: RateLimitConfig{
				RPS:   DefaultRateLimitRPS,
				Burst: DefaultRateLimitBurst,
			},
		},
		Auth: AuthSection{
			TokenTTL: DefaultTokenTTL,
		},
		Provider: ProviderSection{
			OpenAI: OpenAIConfig{
				Model:       DefaultOpenAIModel,
				Temperature: DefaultOpenAITemperature,
				MaxTokens:   DefaultOpenAIMaxTokens,
				Timeout:     DefaultOpenAITimeout,
			},
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
