package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptcraft-studio/internal/common/llm"
	"promptcraft-studio/internal/common/metrics"
)

// ==========================
// Normalisation
// ==========================

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCode  ErrorCode
		retryable bool
	}{
		{"timeout", fmt.Errorf("%w: deadline", llm.ErrTimeout), ErrCodeAITimeout, true},
		{"transport", fmt.Errorf("%w: status 500", llm.ErrTransport), ErrCodeAITransportFailed, true},
		{"empty", fmt.Errorf("%w: no choices", llm.ErrEmptyCompletion), ErrCodeAIEmptyCompletion, true},
		{"contract", fmt.Errorf("%w: not json", llm.ErrInvalidOutput), ErrCodeAIContractFailed, false},
		{"unknown", stderrors.New("boom"), ErrCodeInternal, false},
		{"already standard", NewScenarioNotFoundError("x"), ErrCodeScenarioNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.retryable, got.Retryable)
			assert.False(t, got.Timestamp.IsZero())
		})
	}

	assert.Nil(t, Normalize(nil))
}

func TestNormalize_KeepsCause(t *testing.T) {
	cause := fmt.Errorf("%w: status 503", llm.ErrTransport)
	stdErr := Normalize(cause)

	assert.True(t, stderrors.Is(stdErr, llm.ErrTransport))
	assert.Equal(t, "AI service request failed: AI_TRANSPORT_FAILED: status 503", stdErr.UserMessage())
}

// ==========================
// Utilities
// ==========================

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "AI", GetErrorCategory(ErrCodeAITimeout))
	assert.Equal(t, "AI", GetErrorCategory(ErrCodeAIContractFailed))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInputValidationFailed))
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeSearchQueryFailed))
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeLibraryQueryFailed))
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeCacheFailed))
	assert.Equal(t, "CONTENT", GetErrorCategory(ErrCodeScenarioNotFound))
	assert.Equal(t, "CONFIG", GetErrorCategory(ErrCodeConfigInvalid))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(ErrCodeInputValidationFailed))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(ErrCodeScenarioNotFound))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(ErrCodeLibraryQueryFailed))
}

func TestIsRetryableErrorCode(t *testing.T) {
	assert.True(t, IsRetryableErrorCode(ErrCodeAITransportFailed))
	assert.False(t, IsRetryableErrorCode(ErrCodeAIContractFailed))
	assert.False(t, IsRetryableErrorCode(ErrCodeInputValidationFailed))
}

func TestNewInputValidationError(t *testing.T) {
	err := NewInputValidationError([]string{"prompt: required", "temperature: too big"})
	assert.Equal(t, "prompt: required; temperature: too big", err.Details)
	assert.Equal(t, []string{"prompt: required", "temperature: too big"}, err.Metadata["violations"])
}

// ==========================
// Handler
// ==========================

type recordingLogger struct {
	messages []string
	fields   []map[string]interface{}
}

func (r *recordingLogger) Error(msg string, fields map[string]interface{}) {
	r.messages = append(r.messages, msg)
	r.fields = append(r.fields, fields)
}

func TestErrorHandler_HandleFlowError(t *testing.T) {
	log := &recordingLogger{}
	h := NewErrorHandler(log)

	before := testutil.ToFloat64(metrics.FlowFailures.WithLabelValues("test-flow", string(ErrCodeAITimeout)))

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	stdErr := h.HandleFlowError(ctx, "test-flow", fmt.Errorf("%w: slow", llm.ErrTimeout))

	require.NotNil(t, stdErr)
	assert.Equal(t, ErrCodeAITimeout, stdErr.Code)

	require.Len(t, log.messages, 1)
	assert.Equal(t, "Flow failed", log.messages[0])
	assert.Equal(t, "test-flow", log.fields[0]["flow"])
	assert.Equal(t, "AI", log.fields[0]["errorCategory"])
	assert.Equal(t, "req-1", log.fields[0]["requestId"])

	after := testutil.ToFloat64(metrics.FlowFailures.WithLabelValues("test-flow", string(ErrCodeAITimeout)))
	assert.Equal(t, before+1, after)

	assert.Nil(t, h.HandleFlowError(ctx, "test-flow", nil))
}
