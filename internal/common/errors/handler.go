// internal/common/errors/handler.go
package errors

import (
	"context"

	"promptcraft-studio/internal/common/metrics"
)

// ErrorHandler turns flow failures into log lines, metrics and the message
// carried by a fallback payload.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleFlowError records a transport or contract failure for flowID and
// returns the normalised error.
func (h *ErrorHandler) HandleFlowError(ctx context.Context, flowID string, err error) *StandardError {
	stdErr := Normalize(err)
	if stdErr == nil {
		return nil
	}

	h.logError(ctx, flowID, stdErr)
	metrics.FlowFailures.WithLabelValues(flowID, string(stdErr.Code)).Inc()

	return stdErr
}

func (h *ErrorHandler) logError(ctx context.Context, flowID string, stdErr *StandardError) {
	fields := map[string]interface{}{
		"flow":          flowID,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
	}
	if reqID, ok := ctx.Value(RequestIDKey).(string); ok && reqID != "" {
		fields["requestId"] = reqID
	}
	h.logger.Error("Flow failed", fields)
}

type contextKey string

// RequestIDKey is the context key the API middleware stores request IDs under.
const RequestIDKey contextKey = "requestId"
