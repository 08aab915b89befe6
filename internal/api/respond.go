// internal/api/respond.go
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	apperrors "promptcraft-studio/internal/common/errors"
	"promptcraft-studio/internal/common/validation"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Code      apperrors.ErrorCode          `json:"code"`
	Message   string                       `json:"message"`
	Details   string                       `json:"details,omitempty"`
	Errors    []validation.ValidationError `json:"errors,omitempty"`
	RequestID string                       `json:"requestId,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respondError maps err onto the error catalogue and its status code.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	stdErr := apperrors.Normalize(err)
	status := apperrors.HTTPStatus(stdErr.Code)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", map[string]interface{}{
			"path":      r.URL.Path,
			"errorCode": string(stdErr.Code),
			"details":   stdErr.Details,
			"requestId": requestIDFrom(r.Context()),
		})
	}
	h.writeError(w, r, status, stdErr)
}

// respondBadRequest is used for bodies and parameters that cannot be decoded
// at all, before any schema check runs.
func (h *Handler) respondBadRequest(w http.ResponseWriter, r *http.Request, err error) {
	stdErr := apperrors.NewInputValidationError([]string{err.Error()})
	stdErr.Message = "Malformed request"
	h.writeError(w, r, http.StatusBadRequest, stdErr)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, stdErr *apperrors.StandardError) {
	body := errorBody{
		Code:      stdErr.Code,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		RequestID: requestIDFrom(r.Context()),
	}
	if errs, ok := stdErr.Metadata["errors"].([]validation.ValidationError); ok {
		body.Errors = errs
	}
	respondJSON(w, status, errorResponse{Error: body})
}

// decodeBody reads a JSON object into dst. It writes a 400 and reports false
// when the body is empty or not JSON.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("request body is empty")
		} else {
			err = fmt.Errorf("request body is not valid JSON: %v", err)
		}
		h.respondBadRequest(w, r, err)
		return false
	}
	if dec.More() {
		h.respondBadRequest(w, r, errors.New("request body must contain a single JSON object"))
		return false
	}
	return true
}
