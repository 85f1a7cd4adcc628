// Package llm talks to OpenAI-compatible chat completion endpoints.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"zootopia/internal/apperrors"
)

const (
	defaultTemperature = 0.7
	defaultMaxTokens   = 500
)

// Completer is the single operation the coordinator needs from a chat model.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

type Config struct {
	// Endpoint is either the base URL ("https://api.openai.com/v1") or the full
	// chat completions URL; the /chat/completions suffix is stripped.
	Endpoint string
	Model    string
	APIKey   string
}

type Client struct {
	client   *openai.Client
	endpoint string
	model    string
	logger   *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, apperrors.ValidationError{Field: "endpoint", Reason: "is required"}
	}
	if cfg.Model == "" {
		return nil, apperrors.ValidationError{Field: "model", Reason: "is required"}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = BaseURL(cfg.Endpoint)

	return &Client{
		client:   openai.NewClientWithConfig(clientConfig),
		endpoint: clientConfig.BaseURL,
		model:    cfg.Model,
		logger:   logger.Named("llm"),
	}, nil
}

// BaseURL normalizes a configured endpoint to the base URL go-openai expects.
func BaseURL(endpoint string) string {
	u := strings.TrimSuffix(strings.TrimSpace(endpoint), "/")
	u = strings.TrimSuffix(u, "/chat/completions")
	return strings.TrimSuffix(u, "/")
}

// Complete sends one system and one user message and returns the first choice.
// Any transport, API or empty-response failure is ErrServiceUnavailable.
func (c *Client) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
		Temperature: defaultTemperature,
		MaxTokens:   defaultMaxTokens,
	})
	if err != nil {
		c.logger.Warn("chat completion failed",
			zap.String("model", c.model),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return "", classify(err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("empty completion: %w", apperrors.ErrServiceUnavailable)
	}

	c.logger.Debug("chat completion",
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("elapsed", time.Since(start)))
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) Model() string    { return c.model }
func (c *Client) Endpoint() string { return c.endpoint }

func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("chat api HTTP %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, apperrors.ErrServiceUnavailable)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("chat request HTTP %d: %w", reqErr.HTTPStatusCode, apperrors.ErrServiceUnavailable)
	}
	return fmt.Errorf("chat request: %v: %w", err, apperrors.ErrServiceUnavailable)
}
