// internal/flows/comparison/compare-prompts/handler.go
package compareprompts

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
	"promptcraft-studio/internal/content"
	"promptcraft-studio/internal/flows/aiflow"
	estimatequality "promptcraft-studio/internal/flows/scoring/estimate-quality"
	"promptcraft-studio/pkg/registry"
)

const (
	TaskType = "compare-prompts"
)

var (
	ErrInputValidation  = errors.New("INPUT_VALIDATION_FAILED")
	ErrScenarioNotFound = errors.New("SCENARIO_NOT_FOUND")
)

//go:embed prompts/system.txt
var systemPrompt string

//go:embed prompts/user.tmpl
var userTemplateText string

var userTemplate = template.Must(template.New("compare-user").Parse(userTemplateText))

type Handler struct {
	config       *Config
	deps         aiflow.Deps
	scorer       *estimatequality.Handler
	inputSchema  *validation.Schema
	outputSchema *validation.Schema
	logger       logger.Logger
}

func NewHandler(config *Config, client llm.ChatClient, c cache.Cache, obs *observability.Observability, scorer *estimatequality.Handler, log logger.Logger) *Handler {
	in, out := registry.MustSchemas(TaskType)
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	if scorer == nil {
		scorer = estimatequality.NewHandler(nil, log)
	}
	return &Handler{
		config:       config,
		deps:         aiflow.Deps{Client: client, Cache: c, Obs: obs, Logger: log},
		scorer:       scorer,
		inputSchema:  in,
		outputSchema: out,
		logger:       log,
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

// ExecuteScenario compares the prompts of a canned scenario.
func (h *Handler) ExecuteScenario(ctx context.Context, scenarioID string) (*Output, error) {
	scenario, ok := content.ScenarioByID(scenarioID)
	if !ok {
		return nil, fmt.Errorf("%w: %w", ErrScenarioNotFound, apperrors.NewScenarioNotFoundError(scenarioID))
	}
	return h.execute(ctx, &Input{
		BasicPrompt:      scenario.BasicPrompt,
		EngineeredPrompt: scenario.EngineeredPrompt,
	})
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		input = &Input{}
	}
	if stdErr := aiflow.ValidateInput(TaskType, h.inputSchema, input); stdErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrInputValidation, stdErr)
	}

	userPrompt, err := h.buildPrompt(input)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	settings := h.config.Settings
	if input.Temperature != nil {
		settings.Temperature = *input.Temperature
	}

	reply, stdErr := aiflow.Run[modelReply](ctx, h.deps, aiflow.Call{
		FlowID:   TaskType,
		Settings: settings,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: systemPrompt},
			{Role: llm.RoleUser, Content: userPrompt},
		},
		Output: h.outputSchema,
	})

	var output Output
	if stdErr != nil {
		output = fallback(stdErr.UserMessage())
	} else {
		output = Output{
			BasicResponse:      reply.BasicResponse,
			EngineeredResponse: reply.EngineeredResponse,
		}
	}

	output.BasicScore = h.scorer.Score(estimatequality.Input{
		ResponseText: output.BasicResponse,
	}).Score
	output.EngineeredScore = h.scorer.Score(estimatequality.Input{
		ResponseText: output.EngineeredResponse,
		IsEngineered: true,
		TemplateText: input.EngineeredPrompt,
	}).Score

	h.logger.Info("prompts compared", map[string]interface{}{
		"basicScore":      output.BasicScore,
		"engineeredScore": output.EngineeredScore,
		"fallback":        stdErr != nil,
	})

	return &output, nil
}

func (h *Handler) buildPrompt(input *Input) (string, error) {
	var buf bytes.Buffer
	if err := userTemplate.Execute(&buf, input); err != nil {
		return "", fmt.Errorf("render compare prompt: %w", err)
	}
	return buf.String(), nil
}

func fallback(message string) Output {
	text := estimatequality.FailureMarker + ": " + message
	return Output{
		BasicResponse:      text,
		EngineeredResponse: text,
		Error:              message,
	}
}
