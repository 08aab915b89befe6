// internal/flows/analysis/analyze-dna/handler.go
package analyzedna

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"promptcraft-studio/internal/common/cache"
	apperrors "promptcraft-studio/internal/common/errors"
	"promptcraft-studio/internal/common/llm"
	"promptcraft-studio/internal/common/logger"
	"promptcraft-studio/internal/common/observability"
	"promptcraft-studio/internal/common/validation"
	"promptcraft-studio/internal/content"
	"promptcraft-studio/internal/flows/aiflow"
	"promptcraft-studio/internal/models"
	"promptcraft-studio/pkg/registry"
)

const (
	TaskType = "analyze-dna"

	unavailable = "Unavailable"
)

var (
	ErrInputValidation = errors.New("INPUT_VALIDATION_FAILED")
)

//go:embed prompts/system.txt
var systemPrompt string

//go:embed prompts/user.tmpl
var userTemplateText string

var userTemplate = template.Must(template.New("dna-user").Parse(userTemplateText))

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
	if err := userTemplate.Execute(&buf, promptData{Prompt: input.Prompt, Components: content.Anatomy()}); err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("render dna prompt: %w", err))
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

	result.Components = alignComponents(result.Components)
	result.Error = ""

	h.logger.Info("prompt analyzed", map[string]interface{}{
		"score":   result.Score,
		"present": countPresent(result.Components),
	})

	return &result, nil
}

// alignComponents orders the model's components by anatomy and adds any it
// skipped as absent. Names outside the anatomy are kept at the end.
func alignComponents(got []models.ComponentAnalysis) []models.ComponentAnalysis {
	byName := make(map[string]models.ComponentAnalysis, len(got))
	var extra []models.ComponentAnalysis
	known := make(map[string]bool)
	for _, name := range content.AnatomyNames() {
		known[strings.ToLower(name)] = true
	}

	for _, c := range got {
		key := strings.ToLower(strings.TrimSpace(c.Name))
		if !known[key] {
			extra = append(extra, c)
			continue
		}
		if _, dup := byName[key]; !dup {
			byName[key] = c
		}
	}

	out := make([]models.ComponentAnalysis, 0, len(content.AnatomyNames())+len(extra))
	for _, name := range content.AnatomyNames() {
		c, ok := byName[strings.ToLower(name)]
		if !ok {
			c = models.ComponentAnalysis{Present: false}
		}
		c.Name = name
		out = append(out, c)
	}
	return append(out, extra...)
}

func countPresent(components []models.ComponentAnalysis) int {
	n := 0
	for _, c := range components {
		if c.Present {
			n++
		}
	}
	return n
}

func fallback(message string) Output {
	names := content.AnatomyNames()
	components := make([]models.ComponentAnalysis, len(names))
	for i, name := range names {
		components[i] = models.ComponentAnalysis{
			Name:       name,
			Present:    false,
			Assessment: unavailable,
		}
	}
	return Output{
		OverallAssessment: "Analysis failed: " + message,
		Score:             0,
		Components:        components,
		Strengths:         []string{},
		Suggestions:       []string{message},
		Error:             message,
	}
}
