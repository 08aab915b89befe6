// Package aiflow runs the single completion call behind every AI-backed
// flow: cache lookup, request, JSON contract check and failure accounting.
package aiflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"promptcraft-studio/internal/common/cache"
	"promptcraft-studio/internal/common/config"
	apperrors "promptcraft-studio/internal/common/errors"
	"promptcraft-studio/internal/common/llm"
	"promptcraft-studio/internal/common/logger"
	"promptcraft-studio/internal/common/metrics"
	"promptcraft-studio/internal/common/observability"
	"promptcraft-studio/internal/common/validation"
)

// Deps are the collaborators shared by AI flows. Cache and Obs may be nil.
type Deps struct {
	Client llm.ChatClient
	Cache  cache.Cache
	Obs    *observability.Observability
	Logger logger.Logger
}

// Settings are the per-flow request parameters.
type Settings struct {
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// SettingsFor resolves flows.<id> overrides on top of the ai section.
func SettingsFor(cfg *config.Config, flowID string) Settings {
	flow := config.GetFlowConfig(cfg, flowID)
	timeout := flow.Timeout
	if timeout <= 0 {
		timeout = cfg.AI.Timeout
	}
	return Settings{
		Temperature: config.FlowTemperature(cfg, flowID),
		MaxTokens:   cfg.AI.MaxTokens,
		Timeout:     config.GetDuration(timeout),
	}
}

// Call is one flow invocation.
type Call struct {
	FlowID   string
	Settings Settings
	Messages []llm.Message
	Output   *validation.Schema
}

// Run sends call and decodes the reply into T. A non-nil StandardError means
// the caller must return its fallback; the failure is already logged and
// counted.
func Run[T any](ctx context.Context, d Deps, call Call) (T, *apperrors.StandardError) {
	var zero T
	start := time.Now()
	log := d.Logger.WithFields(map[string]interface{}{"flow": call.FlowID})

	metrics.FlowsActive.WithLabelValues(call.FlowID).Inc()
	defer metrics.FlowsActive.WithLabelValues(call.FlowID).Dec()

	key := cacheKey(d.Client, call)
	if d.Cache != nil {
		var cached T
		hit, err := d.Cache.Get(ctx, key, &cached)
		if err != nil {
			log.Warn("cache lookup failed", map[string]interface{}{"error": err.Error()})
		}
		if hit {
			record(ctx, d, call.FlowID, metrics.OutcomeCached, start)
			return cached, nil
		}
	}

	if call.Settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, call.Settings.Timeout)
		defer cancel()
	}

	resp, err := d.Client.Complete(ctx, llm.ChatRequest{
		Messages:    call.Messages,
		Temperature: call.Settings.Temperature,
		MaxTokens:   call.Settings.MaxTokens,
		JSONMode:    true,
	})
	if err != nil {
		return zero, fail(ctx, d, call.FlowID, err, start)
	}

	out, err := llm.DecodeJSON[T](resp.Text, call.Output)
	if err != nil {
		log.Debug("model reply rejected", map[string]interface{}{"reply": truncate(resp.Text, 300)})
		return zero, fail(ctx, d, call.FlowID, err, start)
	}

	if d.Cache != nil {
		if err := d.Cache.Set(ctx, key, out); err != nil {
			log.Warn("cache store failed", map[string]interface{}{"error": err.Error()})
		}
	}

	log.Info("flow completed", map[string]interface{}{
		"model":        resp.Model,
		"promptTokens": resp.PromptTokens,
		"outputTokens": resp.OutputTokens,
		"durationMs":   time.Since(start).Milliseconds(),
	})
	record(ctx, d, call.FlowID, metrics.OutcomeSuccess, start)
	return out, nil
}

func fail(ctx context.Context, d Deps, flowID string, err error, start time.Time) *apperrors.StandardError {
	stdErr := apperrors.NewErrorHandler(d.Logger).HandleFlowError(ctx, flowID, err)
	record(ctx, d, flowID, metrics.OutcomeFallback, start)
	return stdErr
}

func record(ctx context.Context, d Deps, flowID, outcome string, start time.Time) {
	elapsed := time.Since(start)
	metrics.FlowCalls.WithLabelValues(flowID, outcome).Inc()
	metrics.FlowDuration.WithLabelValues(flowID).Observe(elapsed.Seconds())
	d.Obs.RecordFlow(ctx, flowID, outcome, elapsed)
}

// ValidateInput checks input against schema and counts a rejection.
func ValidateInput(flowID string, schema *validation.Schema, input interface{}) *apperrors.StandardError {
	if input == nil {
		metrics.FlowCalls.WithLabelValues(flowID, metrics.OutcomeInvalid).Inc()
		return apperrors.NewInputValidationError([]string{"(root): input is required"})
	}
	result := schema.Validate(input)
	if result.Valid {
		return nil
	}
	metrics.FlowCalls.WithLabelValues(flowID, metrics.OutcomeInvalid).Inc()
	stdErr := apperrors.NewInputValidationError(result.GetErrorMessages())
	stdErr.Metadata["errors"] = result.Errors
	return stdErr
}

func cacheKey(client llm.ChatClient, call Call) string {
	parts := []string{client.Model(), fmt.Sprintf("%.2f", call.Settings.Temperature)}
	for _, m := range call.Messages {
		parts = append(parts, m.Role, m.Content)
	}
	return cache.Key(call.FlowID, parts...)
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
