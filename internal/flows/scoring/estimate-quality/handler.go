// internal/flows/scoring/estimate-quality/handler.go
package estimatequality

import (
	"context"
	"errors"
	"fmt"

	commonerrors "promptcraft-studio/internal/common/errors"
	"promptcraft-studio/internal/common/logger"
	"promptcraft-studio/internal/common/metrics"
	"promptcraft-studio/internal/common/validation"
	"promptcraft-studio/internal/flows/aiflow"
	"promptcraft-studio/pkg/registry"
)

const (
	TaskType = "estimate-quality"
)

var (
	ErrInputValidation = errors.New("INPUT_VALIDATION_FAILED")
)

type Handler struct {
	config *Config
	schema *validation.Schema
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	if config.Jitter == nil {
		config.Jitter = UniformJitter
	}
	input, _ := registry.MustSchemas(TaskType)
	return &Handler{
		config: config,
		schema: input,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: %w", ErrInputValidation, commonerrors.NewInputValidationError([]string{"(root): input is required"}))
	}
	if stdErr := aiflow.ValidateInput(TaskType, h.schema, input); stdErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrInputValidation, stdErr)
	}

	output := h.Score(*input)
	metrics.FlowCalls.WithLabelValues(TaskType, metrics.OutcomeSuccess).Inc()

	h.logger.Debug("response scored", map[string]interface{}{
		"engineered": input.IsEngineered,
		"score":      output.Score,
		"degenerate": output.Degenerate,
		"signals":    output.Signals,
	})

	return &output, nil
}

// Score runs the estimator with the configured jitter and records the
// score distribution. It skips input validation.
func (h *Handler) Score(input Input) Output {
	jitter := 0.0
	if !input.IsEngineered {
		jitter = h.config.Jitter()
	}
	output := Estimate(input, jitter)
	metrics.QualityScore.WithLabelValues(variant(input.IsEngineered)).Observe(float64(output.Score))
	return output
}

func variant(engineered bool) string {
	if engineered {
		return "engineered"
	}
	return "basic"
}
