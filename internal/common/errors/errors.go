// Package errors provides standardized error handling for flows and API endpoints.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"promptcraft-studio/internal/common/llm"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInputValidationFailed ErrorCode = "INPUT_VALIDATION_FAILED"

	ErrCodeAITransportFailed  ErrorCode = "AI_TRANSPORT_FAILED"
	ErrCodeAITimeout          ErrorCode = "AI_TIMEOUT"
	ErrCodeAIEmptyCompletion  ErrorCode = "AI_EMPTY_COMPLETION"
	ErrCodeAIContractFailed   ErrorCode = "AI_CONTRACT_FAILED"
	ErrCodeScenarioNotFound   ErrorCode = "SCENARIO_NOT_FOUND"
	ErrCodeLibraryQueryFailed ErrorCode = "LIBRARY_QUERY_FAILED"
	ErrCodeSearchQueryFailed  ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeCacheFailed        ErrorCode = "CACHE_FAILED"
	ErrCodeConfigInvalid      ErrorCode = "CONFIG_INVALID"
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// UserMessage is the text placed into flow fallbacks.
func (e *StandardError) UserMessage() string {
	if e.Details == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, e.Details)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewInputValidationError creates a non-retryable schema violation error.
func NewInputValidationError(details []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInputValidationFailed,
		Message:   "Input validation failed",
		Details:   strings.Join(details, "; "),
		Retryable: false,
		Metadata:  map[string]interface{}{"violations": details},
		Timestamp: time.Now().UTC(),
	}
}

func NewAITransportError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAITransportFailed,
		Message:   "AI service request failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewAITimeoutError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAITimeout,
		Message:   "AI service timed out",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewAIEmptyCompletionError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAIEmptyCompletion,
		Message:   "AI service returned no content",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewAIContractError covers replies that are not JSON or break the output schema.
func NewAIContractError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAIContractFailed,
		Message:   "AI response did not match the expected format",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewScenarioNotFoundError(id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeScenarioNotFound,
		Message:   "Scenario not found",
		Details:   fmt.Sprintf("scenarioId: %s", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewLibraryQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLibraryQueryFailed,
		Message:   "Prompt library query failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewSearchQueryFailedError(index string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchQueryFailed,
		Message:   "Elasticsearch query error",
		Details:   fmt.Sprintf("index: %s, error: %s", index, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewCacheFailedError(op string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheFailed,
		Message:   "Response cache error",
		Details:   fmt.Sprintf("op: %s, error: %s", op, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewConfigInvalidError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigInvalid,
		Message:   "Configuration is invalid",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 3. Normalisation
// ==========================

// Normalize maps any error onto the catalogue. Completion client sentinels
// become the matching AI_* code; anything unknown is INTERNAL_ERROR.
func Normalize(err error) *StandardError {
	if err == nil {
		return nil
	}

	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}

	switch {
	case stderrors.Is(err, llm.ErrTimeout):
		return NewAITimeoutError(err)
	case stderrors.Is(err, llm.ErrEmptyCompletion):
		return NewAIEmptyCompletionError(err)
	case stderrors.Is(err, llm.ErrInvalidOutput):
		return NewAIContractError(err)
	case stderrors.Is(err, llm.ErrTransport):
		return NewAITransportError(err)
	default:
		return NewInternalError(err)
	}
}

// ==========================
// 4. Utility Functions
// ==========================

// IsRetryableErrorCode reports whether a caller may reasonably try again.
// Nothing in this service retries on its own.
func IsRetryableErrorCode(code ErrorCode) bool {
	switch code {
	case ErrCodeAITransportFailed,
		ErrCodeAITimeout,
		ErrCodeAIEmptyCompletion,
		ErrCodeLibraryQueryFailed,
		ErrCodeSearchQueryFailed,
		ErrCodeCacheFailed:
		return true
	default:
		return false
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "AI_"):
		return "AI"
	case strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "LIBRARY") || strings.Contains(codeStr, "CACHE"):
		return "DATABASE"
	case strings.Contains(codeStr, "NOT_FOUND"):
		return "CONTENT"
	case strings.Contains(codeStr, "CONFIG"):
		return "CONFIG"
	default:
		return "OTHER"
	}
}

// HTTPStatus maps a code to a response status for non-flow endpoints.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInputValidationFailed:
		return http.StatusUnprocessableEntity
	case ErrCodeScenarioNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
