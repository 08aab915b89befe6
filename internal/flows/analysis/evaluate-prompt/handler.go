// internal/flows/analysis/evaluate-prompt/handler.go
package evaluateprompt

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"text/template"

	"promptcraft-studio/internal/common/cache"
	apperrors "promptcraft-studio/internal/common/errors"
	"promptcraft-studio/internal/common/llm"
	"promptcraft-studio/internal/common/logger"
	"promptcraft-studio/internal/common/observability"
	"promptcraft-studio/internal/common/validation"
	"promptcraft-studio/internal/flows/aiflow"
	"promptcraft-studio/internal/models"
	"promptcraft-studio/pkg/registry"
)

const (
	TaskType = "evaluate-prompt"
)

var (
	ErrInputValidation = errors.New("INPUT_VALIDATION_FAILED")
)

//go:embed prompts/system.txt
var systemPrompt string

//go:embed prompts/user.tmpl
var userTemplateText string

var userTemplate = template.Must(template.New("evaluate-user").Parse(userTemplateText))

type Handler struct {
	config       *Config
	deps         aiflow.Deps
	inputSchema  *validation.Schema
	outputSchema *validation.Schema
	logger       logger.Logger
}

func NewHandler(config *Config, client llm.ChatClient, c cache.Cache, obs *observability.Observability, log logger.Logger) *Handler {
	in, out := registry.MustSchemas(TaskType)
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		deps:         aiflow.Deps{Client: client, Cache: c, Obs: obs, Logger: log},
		inputSchema:  in,
		outputSchema: out,
		logger:       log,
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		input = &Input{}
	}
	if stdErr := aiflow.ValidateInput(TaskType, h.inputSchema, input); stdErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrInputValidation, stdErr)
	}

	var buf bytes.Buffer
	if err := userTemplate.Execute(&buf, input); err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("render evaluate prompt: %w", err))
	}

	result, stdErr := aiflow.Run[Output](ctx, h.deps, aiflow.Call{
		FlowID:   TaskType,
		Settings: h.config.Settings,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: systemPrompt},
			{Role: llm.RoleUser, Content: buf.String()},
		},
		Output: h.outputSchema,
	})
	if stdErr != nil {
		output := fallback(stdErr.UserMessage())
		return &output, nil
	}
	result.Error = ""

	h.logger.Info("prompt evaluated", map[string]interface{}{
		"rating":   result.Rating,
		"score":    result.Score,
		"feedback": len(result.Feedback),
	})

	return &result, nil
}

func fallback(message string) Output {
	return Output{
		Rating:   models.RatingError,
		Score:    0,
		Feedback: []string{message},
		Error:    message,
	}
}
