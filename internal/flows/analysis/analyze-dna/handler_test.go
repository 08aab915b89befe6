// internal/flows/analysis/analyze-dna/handler_test.go
package analyzedna

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "promptcraft-studio/internal/common/errors"
	"promptcraft-studio/internal/common/llm"
	"promptcraft-studio/internal/common/logger"
	"promptcraft-studio/internal/content"
	"promptcraft-studio/internal/flows/aiflow"
	"promptcraft-studio/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func newTestHandler(t *testing.T, client llm.ChatClient) *Handler {
	cfg := &Config{Settings: aiflow.Settings{Temperature: 0.2, MaxTokens: 2048, Timeout: 5 * time.Second}}
	return NewHandler(cfg, client, nil, nil, logger.NewTestLogger(t))
}

func reply(text string, captured *llm.ChatRequest) llm.ClientFunc {
	return func(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
		if captured != nil {
			*captured = req
		}
		return &llm.ChatResponse{Text: text}, nil
	}
}

const fullReply = `{
  "overallAssessment": "Clear task with a defined role.",
  "score": 72,
  "components": [
    {"name": "Tone", "present": false, "extractedText": "", "assessment": "No tone given."},
    {"name": "Role", "present": true, "extractedText": "You are a travel planner.", "assessment": "Specific."},
    {"name": "Task", "present": true, "extractedText": "Plan a weekend in Lisbon.", "assessment": "Clear."},
    {"name": "Audience", "present": true, "extractedText": "two adults", "assessment": "Extra component."}
  ],
  "strengths": ["Specific role"],
  "suggestions": ["Add a format"]
}`

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	var captured llm.ChatRequest
	h := newTestHandler(t, reply(fullReply, &captured))

	output, err := h.Execute(context.Background(), &Input{Prompt: "You are a travel planner. Plan a weekend in Lisbon."})
	require.NoError(t, err)

	assert.Equal(t, "Clear task with a defined role.", output.OverallAssessment)
	assert.Equal(t, 72, output.Score)
	assert.Equal(t, []string{"Specific role"}, output.Strengths)
	assert.Equal(t, []string{"Add a format"}, output.Suggestions)
	assert.Empty(t, output.Error)

	names := content.AnatomyNames()
	require.Len(t, output.Components, len(names)+1)
	for i, name := range names {
		assert.Equal(t, name, output.Components[i].Name)
	}
	assert.True(t, output.Components[0].Present, "Role")
	assert.Equal(t, "You are a travel planner.", output.Components[0].ExtractedText)
	assert.False(t, output.Components[1].Present, "Context was not returned")
	assert.Equal(t, "No tone given.", output.Components[len(names)-1].Assessment)
	assert.Equal(t, "Audience", output.Components[len(names)].Name)

	require.Len(t, captured.Messages, 2)
	for _, name := range names {
		assert.Contains(t, captured.Messages[1].Content, "- "+name+": ")
	}
	assert.Contains(t, captured.Messages[1].Content, "Plan a weekend in Lisbon.")
	assert.Equal(t, 0.2, captured.Temperature)
}

func TestAlignComponents_CaseAndDuplicates(t *testing.T) {
	got := alignComponents([]models.ComponentAnalysis{
		{Name: " role ", Present: true, Assessment: "first"},
		{Name: "ROLE", Present: false, Assessment: "second"},
	})
	require.Len(t, got, len(content.AnatomyNames()))
	assert.Equal(t, "Role", got[0].Name)
	assert.Equal(t, "first", got[0].Assessment)
}

// ==========================
// Validation Tests
// ==========================

func TestHandler_Execute_InvalidInput(t *testing.T) {
	called := false
	client := llm.ClientFunc(func(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
		called = true
		return nil, nil
	})
	h := newTestHandler(t, client)

	for _, input := range []*Input{nil, {Prompt: ""}, {Prompt: " \t"}} {
		_, err := h.Execute(context.Background(), input)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInputValidation)
		assert.Equal(t, apperrors.ErrCodeInputValidationFailed, apperrors.Normalize(err).Code)
	}
	assert.False(t, called)
}

// ==========================
// Fallback Tests
// ==========================

func TestHandler_Execute_Fallbacks(t *testing.T) {
	tests := []struct {
		name   string
		client llm.ChatClient
	}{
		{"transport", llm.ClientFunc(func(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
			return nil, fmt.Errorf("%w: connection refused", llm.ErrTransport)
		})},
		{"not json", reply("The prompt is decent.", nil)},
		{"score out of range", reply(`{"overallAssessment":"x","score":140,"components":[]}`, nil)},
		{"missing components", reply(`{"overallAssessment":"x","score":40}`, nil)},
		{"component without name", reply(`{"overallAssessment":"x","score":40,"components":[{"present":true}]}`, nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, tt.client)

			output, err := h.Execute(context.Background(), &Input{Prompt: "Write a poem."})
			require.NoError(t, err)

			require.NotEmpty(t, output.Error)
			assert.Equal(t, "Analysis failed: "+output.Error, output.OverallAssessment)
			assert.Equal(t, 0, output.Score)
			assert.Equal(t, []string{}, output.Strengths)
			assert.Equal(t, []string{output.Error}, output.Suggestions)

			require.Len(t, output.Components, len(content.AnatomyNames()))
			for _, c := range output.Components {
				assert.False(t, c.Present)
				assert.Equal(t, "Unavailable", c.Assessment)
			}
		})
	}
}
