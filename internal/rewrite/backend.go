package rewrite

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"channel-relay-go/internal/config"
)

const (
	openRouterBaseURL = "https://openrouter.ai/api/v1"
	// Gemini's OpenAI-compatible chat completions endpoint
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"
)

// Backend is a single AI completion backend. One implementation per
// provider, selected once at construction.
type Backend interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ChatBackend implements Backend on top of an OpenAI-compatible chat
// completions API. OpenRouter and Gemini are served through the same
// client with provider-specific base URLs.
type ChatBackend struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewBackend creates the backend for the configured provider
func NewBackend(cfg *config.AIConfig) (*ChatBackend, error) {
	clientConfig := openai.DefaultConfig(cfg.APIKey)

	switch cfg.Provider {
	case "openai":
		if cfg.BaseURL != "" {
			clientConfig.BaseURL = cfg.BaseURL
		}
	case "openrouter":
		clientConfig.BaseURL = cfg.BaseURL
		if clientConfig.BaseURL == "" {
			clientConfig.BaseURL = openRouterBaseURL
		}
	case "gemini":
		clientConfig.BaseURL = cfg.BaseURL
		if clientConfig.BaseURL == "" {
			clientConfig.BaseURL = geminiBaseURL
		}
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", cfg.Provider)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &ChatBackend{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   cfg.Model,
		timeout: timeout,
	}, nil
}

// Complete sends a prompt and returns the response text
func (b *ChatBackend) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: b.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices")
	}

	return resp.Choices[0].Message.Content, nil
}
