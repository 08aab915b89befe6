package llm

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	commonhttp "promptcraft-studio/internal/common/http"
)

type AzureConfig struct {
	Endpoint   string
	APIKey     string
	APIVersion string
	Deployment string
}

// AzureClient talks to an Azure OpenAI chat-completions deployment.
type AzureClient struct {
	cfg  AzureConfig
	http *commonhttp.Client
}

// NewAzureClient builds the client. A nil httpClient gets one with no
// timeout so only the request context bounds a call.
func NewAzureClient(cfg AzureConfig, httpClient *commonhttp.Client) *AzureClient {
	if httpClient == nil {
		httpClient = commonhttp.NewClient(0)
	}
	return &AzureClient{
		cfg:  cfg,
		http: httpClient.WithHeader("api-key", cfg.APIKey),
	}
}

func (c *AzureClient) Model() string {
	return c.cfg.Deployment
}

type azureRequest struct {
	Messages       []Message            `json:"messages"`
	Temperature    float64              `json:"temperature"`
	MaxTokens      int                  `json:"max_tokens,omitempty"`
	ResponseFormat *azureResponseFormat `json:"response_format,omitempty"`
}

type azureResponseFormat struct {
	Type string `json:"type"`
}

type azureResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

func (c *AzureClient) endpointURL() string {
	return fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		strings.TrimRight(c.cfg.Endpoint, "/"),
		url.PathEscape(c.cfg.Deployment),
		url.QueryEscape(c.cfg.APIVersion),
	)
}

func (c *AzureClient) Complete(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	body := azureRequest{
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.JSONMode {
		body.ResponseFormat = &azureResponseFormat{Type: "json_object"}
	}

	var out azureResponse
	if err := c.http.PostJSON(ctx, c.endpointURL(), body, &out); err != nil {
		if ctxErr := classifyContextErr(ctx, err); ctxErr != nil {
			return nil, ctxErr
		}
		var statusErr *commonhttp.StatusError
		if errors.As(err, &statusErr) {
			return nil, fmt.Errorf("%w: %s", ErrTransport, statusErr.Error())
		}
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	if len(out.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices returned", ErrEmptyCompletion)
	}
	text := out.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: blank message content", ErrEmptyCompletion)
	}

	return &ChatResponse{
		Text:         text,
		Model:        out.Model,
		FinishReason: out.Choices[0].FinishReason,
		PromptTokens: out.Usage.PromptTokens,
		OutputTokens: out.Usage.CompletionTokens,
	}, nil
}
