// Package llm is the thin wrapper around the hosted completion API.
package llm

import (
	"context"
	"errors"
	"fmt"

	"promptcraft-studio/internal/common/config"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Messages    []Message
	Temperature float64
	MaxTokens   int
	JSONMode    bool
}

type ChatResponse struct {
	Text         string
	Model        string
	FinishReason string
	PromptTokens int
	OutputTokens int
}

// ChatClient sends one chat completion. Implementations never retry.
type ChatClient interface {
	Complete(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	Model() string
}

// NewFromConfig returns the client selected by ai.provider.
func NewFromConfig(ctx context.Context, cfg config.AIConfig) (ChatClient, error) {
	switch cfg.Provider {
	case config.ProviderAzure, "":
		return NewAzureClient(AzureConfig{
			Endpoint:   cfg.Endpoint,
			APIKey:     cfg.APIKey,
			APIVersion: cfg.APIVersion,
			Deployment: cfg.Deployment,
		}, nil), nil
	case config.ProviderGemini:
		return NewGeminiClient(ctx, cfg.APIKey, cfg.Deployment, cfg.Endpoint)
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
}

// classifyContextErr maps a context failure onto ErrTimeout. It returns
// nil when ctx is still live.
func classifyContextErr(ctx context.Context, cause error) error {
	if ctx.Err() == nil {
		return nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, cause)
	}
	return fmt.Errorf("%w: request cancelled: %v", ErrTransport, cause)
}

// ClientFunc adapts a function to ChatClient.
type ClientFunc func(ctx context.Context, req ChatRequest) (*ChatResponse, error)

func (f ClientFunc) Complete(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	return f(ctx, req)
}

func (f ClientFunc) Model() string {
	return "func"
}
