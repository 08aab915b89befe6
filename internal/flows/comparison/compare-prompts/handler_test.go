// internal/flows/comparison/compare-prompts/handler_test.go
package compareprompts

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptcraft-studio/internal/common/cache"
	apperrors "promptcraft-studio/internal/common/errors"
	"promptcraft-studio/internal/common/llm"
	"promptcraft-studio/internal/common/logger"
	"promptcraft-studio/internal/content"
	"promptcraft-studio/internal/flows/aiflow"
	estimatequality "promptcraft-studio/internal/flows/scoring/estimate-quality"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{Settings: aiflow.Settings{Temperature: 0.7, MaxTokens: 1024, Timeout: 5 * time.Second}}
}

func replyWith(text string, calls *int32, captured *llm.ChatRequest) llm.ClientFunc {
	return func(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
		if calls != nil {
			atomic.AddInt32(calls, 1)
		}
		if captured != nil {
			*captured = req
		}
		return &llm.ChatResponse{Text: text, Model: "test-model"}, nil
	}
}

func failWith(err error, calls *int32) llm.ClientFunc {
	return func(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
		if calls != nil {
			atomic.AddInt32(calls, 1)
		}
		return nil, err
	}
}

func newTestHandler(t *testing.T, client llm.ChatClient, c cache.Cache) *Handler {
	log := logger.NewTestLogger(t)
	scorer := estimatequality.NewHandler(&estimatequality.Config{Jitter: estimatequality.NoJitter}, log)
	return NewHandler(createTestConfig(), client, c, nil, scorer, log)
}

const engineeredAnswer = `## Overview\n\n- **Audience**: ops managers\n- **Goal**: trial sign-ups\n\n**Summary**\n\nA structured answer.`

func validReply() string {
	return fmt.Sprintf(`{"basicResponse": "Here is a short email.", "engineeredResponse": "%s"}`, engineeredAnswer)
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	var captured llm.ChatRequest
	h := newTestHandler(t, replyWith(validReply(), nil, &captured), nil)

	output, err := h.Execute(context.Background(), &Input{
		BasicPrompt:      "Write an email.",
		EngineeredPrompt: "You are a marketer.\n- **Audience**: ops managers\n- **Goal**: trial sign-ups",
	})
	require.NoError(t, err)

	assert.Equal(t, "Here is a short email.", output.BasicResponse)
	assert.Contains(t, output.EngineeredResponse, "## Overview")
	assert.Empty(t, output.Error)
	assert.GreaterOrEqual(t, output.BasicScore, estimatequality.MinScore)
	assert.Greater(t, output.EngineeredScore, output.BasicScore)

	require.Len(t, captured.Messages, 2)
	assert.Equal(t, llm.RoleSystem, captured.Messages[0].Role)
	assert.Equal(t, llm.RoleUser, captured.Messages[1].Role)
	assert.Contains(t, captured.Messages[1].Content, "Write an email.")
	assert.Contains(t, captured.Messages[1].Content, "- **Goal**: trial sign-ups")
	assert.True(t, captured.JSONMode)
	assert.Equal(t, 0.7, captured.Temperature)
	assert.Equal(t, 1024, captured.MaxTokens)
}

func TestHandler_Execute_TemperatureOverride(t *testing.T) {
	var captured llm.ChatRequest
	h := newTestHandler(t, replyWith(validReply(), nil, &captured), nil)

	temp := 1.4
	_, err := h.Execute(context.Background(), &Input{BasicPrompt: "a", EngineeredPrompt: "b", Temperature: &temp})
	require.NoError(t, err)
	assert.Equal(t, 1.4, captured.Temperature)
}

func TestHandler_Execute_CodeFencedReply(t *testing.T) {
	h := newTestHandler(t, replyWith("Sure!\n```json\n"+validReply()+"\n```", nil, nil), nil)

	output, err := h.Execute(context.Background(), &Input{BasicPrompt: "a", EngineeredPrompt: "b"})
	require.NoError(t, err)
	assert.Empty(t, output.Error)
	assert.Equal(t, "Here is a short email.", output.BasicResponse)
}

// ==========================
// Validation Tests
// ==========================

func TestHandler_Execute_InvalidInput(t *testing.T) {
	tooHot := 3.0
	tests := []struct {
		name  string
		input *Input
	}{
		{"nil input", nil},
		{"empty basic", &Input{BasicPrompt: "", EngineeredPrompt: "b"}},
		{"blank engineered", &Input{BasicPrompt: "a", EngineeredPrompt: "   \n "}},
		{"too long", &Input{BasicPrompt: strings.Repeat("x", 8001), EngineeredPrompt: "b"}},
		{"temperature out of range", &Input{BasicPrompt: "a", EngineeredPrompt: "b", Temperature: &tooHot}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			h := newTestHandler(t, replyWith(validReply(), &calls, nil), nil)

			output, err := h.Execute(context.Background(), tt.input)
			require.Error(t, err)
			assert.Nil(t, output)
			assert.ErrorIs(t, err, ErrInputValidation)
			assert.Equal(t, apperrors.ErrCodeInputValidationFailed, apperrors.Normalize(err).Code)
			assert.Zero(t, atomic.LoadInt32(&calls), "no model call for invalid input")
		})
	}
}

// ==========================
// Fallback Tests
// ==========================

func TestHandler_Execute_Fallbacks(t *testing.T) {
	tests := []struct {
		name     string
		client   llm.ChatClient
		wantCode string
	}{
		{"transport failure", failWith(fmt.Errorf("%w: status 502", llm.ErrTransport), nil), "AI service request failed"},
		{"timeout", failWith(fmt.Errorf("%w: deadline", llm.ErrTimeout), nil), "AI service timed out"},
		{"empty completion", failWith(fmt.Errorf("%w: no choices", llm.ErrEmptyCompletion), nil), "AI service returned no content"},
		{"not json", replyWith("I cannot do that.", nil, nil), "did not match the expected format"},
		{"schema violation", replyWith(`{"basicResponse": "only one"}`, nil, nil), "engineeredResponse"},
		{"wrong type", replyWith(`{"basicResponse": 1, "engineeredResponse": "x"}`, nil, nil), "did not match"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, tt.client, nil)

			output, err := h.Execute(context.Background(), &Input{BasicPrompt: "a", EngineeredPrompt: "b"})
			require.NoError(t, err, "failures never escape the flow")

			assert.Contains(t, output.Error, tt.wantCode)
			assert.Equal(t, "Error generating response: "+output.Error, output.BasicResponse)
			assert.Equal(t, output.BasicResponse, output.EngineeredResponse)
			assert.Equal(t, 5, output.BasicScore)
			assert.Equal(t, 15, output.EngineeredScore)
		})
	}
}

func TestHandler_Execute_ModelTimeout(t *testing.T) {
	slow := llm.ClientFunc(func(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
		<-ctx.Done()
		return nil, fmt.Errorf("%w: %v", llm.ErrTimeout, ctx.Err())
	})
	h := newTestHandler(t, slow, nil)
	h.config.Settings.Timeout = 20 * time.Millisecond

	output, err := h.Execute(context.Background(), &Input{BasicPrompt: "a", EngineeredPrompt: "b"})
	require.NoError(t, err)
	assert.Contains(t, output.Error, "timed out")
}

// ==========================
// Scenario Tests
// ==========================

func TestHandler_ExecuteScenario(t *testing.T) {
	var captured llm.ChatRequest
	h := newTestHandler(t, replyWith(validReply(), nil, &captured), nil)

	scenario := content.Scenarios()[0]
	output, err := h.ExecuteScenario(context.Background(), scenario.ID)
	require.NoError(t, err)
	assert.Empty(t, output.Error)
	assert.Contains(t, captured.Messages[1].Content, scenario.BasicPrompt)
	assert.Contains(t, captured.Messages[1].Content, scenario.EngineeredPrompt)
}

func TestHandler_ExecuteScenario_NotFound(t *testing.T) {
	h := newTestHandler(t, replyWith(validReply(), nil, nil), nil)

	_, err := h.ExecuteScenario(context.Background(), "no-such-scenario")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrScenarioNotFound))
	assert.Equal(t, apperrors.ErrCodeScenarioNotFound, apperrors.Normalize(err).Code)
}

// ==========================
// Cache Tests
// ==========================

func TestHandler_Execute_CachesSuccess(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	var calls int32
	h := newTestHandler(t, replyWith(validReply(), &calls, nil), cache.NewRedisCache(rdb, time.Minute))
	input := &Input{BasicPrompt: "a", EngineeredPrompt: "b"}

	first, err := h.Execute(context.Background(), input)
	require.NoError(t, err)
	second, err := h.Execute(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, first, second)
	assert.Len(t, mr.Keys(), 1)
	assert.True(t, strings.HasPrefix(mr.Keys()[0], "promptcraft:compare-prompts:"))
}

func TestHandler_Execute_FallbackNotCached(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	var calls int32
	h := newTestHandler(t, failWith(llm.ErrTransport, &calls), cache.NewRedisCache(rdb, time.Minute))
	input := &Input{BasicPrompt: "a", EngineeredPrompt: "b"}

	for i := 0; i < 2; i++ {
		output, err := h.Execute(context.Background(), input)
		require.NoError(t, err)
		assert.NotEmpty(t, output.Error)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Empty(t, mr.Keys())
}

// ==========================
// Integration with Azure client
// ==========================

func TestHandler_Execute_AzureEndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/openai/deployments/gpt-4o/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"gpt-4o","choices":[{"message":{"content":"{\"basicResponse\":\"b\",\"engineeredResponse\":\"e\"}"},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	client := llm.NewAzureClient(llm.AzureConfig{
		Endpoint:   server.URL,
		APIKey:     "k",
		APIVersion: "2024-02-01",
		Deployment: "gpt-4o",
	}, nil)
	h := newTestHandler(t, client, nil)

	output, err := h.Execute(context.Background(), &Input{BasicPrompt: "a", EngineeredPrompt: "b"})
	require.NoError(t, err)
	assert.Equal(t, "b", output.BasicResponse)
	assert.Equal(t, "e", output.EngineeredResponse)
	assert.Empty(t, output.Error)
}

func TestHandler_Execute_AzureServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"quota exceeded"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := llm.NewAzureClient(llm.AzureConfig{Endpoint: server.URL, APIKey: "k", APIVersion: "v", Deployment: "d"}, nil)
	h := newTestHandler(t, client, nil)

	output, err := h.Execute(context.Background(), &Input{BasicPrompt: "a", EngineeredPrompt: "b"})
	require.NoError(t, err)
	assert.Contains(t, output.Error, "AI service request failed")
	assert.Contains(t, output.Error, "quota exceeded")
}
