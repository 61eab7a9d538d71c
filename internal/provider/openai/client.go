package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/yndnr/chatmesh/internal/core/domain"
	"github.com/yndnr/chatmesh/internal/core/service"
	"github.com/yndnr/chatmesh/internal/infra/tlsroots"
)

// Defaults for the completion request.
const (
	DefaultModel       = "gpt-4.1-nano"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 500
)

// ErrNoAPIKey is returned by New when the config carries no API key.
var ErrNoAPIKey = errors.New("openai: api key is not configured")

// Config configures the client.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration

	// CAFile adds a PEM bundle to the system roots, for endpoints behind
	// a private CA.
	CAFile string
}

// Client calls the OpenAI chat completions API.
type Client struct {
	api         *goopenai.Client
	model       string
	temperature float32
	maxTokens   int
}

var _ service.CompletionClient = (*Client)(nil)

// New creates a client. It returns ErrNoAPIKey when cfg.APIKey is empty so
// callers can run without a provider.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	apiCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 || cfg.CAFile != "" {
		httpClient := &http.Client{Timeout: cfg.Timeout}
		if cfg.CAFile != "" {
			pool, err := tlsroots.LoadPool(cfg.CAFile)
			if err != nil {
				return nil, fmt.Errorf("openai: %w", err)
			}
			httpClient.Transport = pool.Transport()
		}
		apiCfg.HTTPClient = httpClient
	}

	c := &Client{
		api:         goopenai.NewClientWithConfig(apiCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.temperature == 0 {
		c.temperature = DefaultTemperature
	}
	if c.maxTokens <= 0 {
		c.maxTokens = DefaultMaxTokens
	}
	return c, nil
}

// Model returns the model name sent with each request.
func (c *Client) Model() string {
	return c.model
}

// SystemPrompt returns the system message sent for role.
func SystemPrompt(role string) string {
	return fmt.Sprintf("You are a helpful assistant in the %s domain.", role)
}

// Complete implements service.CompletionClient.
func (c *Client) Complete(ctx context.Context, role, input string) (*domain.Completion, error) {
	resp, err := c.api.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: SystemPrompt(role)},
			{Role: goopenai.ChatMessageRoleUser, Content: input},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return nil, domain.ErrProviderFailure.WithCause(err)
	}
	if len(resp.Choices) == 0 {
		return nil, domain.ErrProviderFailure.WithDetails("response has no choices")
	}

	// A response without a usage block reports zero counts; the reply always
	// carries a usage object.
	return &domain.Completion{
		Message: resp.Choices[0].Message.Content,
		Usage: domain.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}
