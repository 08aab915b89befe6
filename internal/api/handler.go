// internal/api/handler.go
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	apperrors "promptcraft-studio/internal/common/errors"
	"promptcraft-studio/internal/common/logger"
	"promptcraft-studio/internal/content"
	"promptcraft-studio/internal/flows"
	analyzedna "promptcraft-studio/internal/flows/analysis/analyze-dna"
	evaluateprompt "promptcraft-studio/internal/flows/analysis/evaluate-prompt"
	compareprompts "promptcraft-studio/internal/flows/comparison/compare-prompts"
	searchlibrary "promptcraft-studio/internal/flows/library/search-library"
	estimatequality "promptcraft-studio/internal/flows/scoring/estimate-quality"
	"promptcraft-studio/internal/library"
	"promptcraft-studio/internal/presenter"
	"promptcraft-studio/pkg/registry"
)

// ReadyFunc reports whether the enabled backends are reachable.
type ReadyFunc func(ctx context.Context) error

// Handler provides HTTP API endpoints
type Handler struct {
	flows    flows.Set
	store    library.Store
	registry *registry.FlowRegistry
	ready    ReadyFunc
	version  string
	logger   logger.Logger
}

// NewHandler creates a new API handler. ready may be nil when no backend is
// enabled; a nil reg serves the embedded registry.
func NewHandler(set flows.Set, store library.Store, reg *registry.FlowRegistry, ready ReadyFunc, version string, log logger.Logger) *Handler {
	if ready == nil {
		ready = func(context.Context) error { return nil }
	}
	if reg == nil {
		reg = registry.MustDefault()
	}
	return &Handler{
		flows:    set,
		store:    store,
		registry: reg,
		ready:    ready,
		version:  version,
		logger:   log.WithFields(map[string]interface{}{"component": "api"}),
	}
}

// RegisterRoutes sets up the /api routes on r, which is expected to be the
// /api subrouter.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	// Content
	r.HandleFunc("/scenarios", h.handleListScenarios).Methods(http.MethodGet)
	r.HandleFunc("/scenarios/{id}", h.handleGetScenario).Methods(http.MethodGet)
	r.HandleFunc("/anatomy", h.handleAnatomy).Methods(http.MethodGet)
	r.HandleFunc("/flows", h.handleListFlows).Methods(http.MethodGet)

	r.HandleFunc("/library", h.handleListLibrary).Methods(http.MethodGet)

	// Flows disabled in config get no route.
	if h.flows.Compare != nil {
		r.HandleFunc("/scenarios/{id}/compare", h.handleCompareScenario).Methods(http.MethodPost)
		r.HandleFunc("/compare", h.handleCompare).Methods(http.MethodPost)
	}
	if h.flows.Analyze != nil {
		r.HandleFunc("/analyze", h.handleAnalyze).Methods(http.MethodPost)
	}
	if h.flows.Evaluate != nil {
		r.HandleFunc("/evaluate", h.handleEvaluate).Methods(http.MethodPost)
	}
	if h.flows.Estimate != nil {
		r.HandleFunc("/score", h.handleScore).Methods(http.MethodPost)
	}
	if h.flows.Search != nil {
		r.HandleFunc("/library/search", h.handleSearchLibrary).Methods(http.MethodGet)
	}
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": h.version})
}

func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := h.ready(r.Context()); err != nil {
		h.logger.Warn("readiness check failed", map[string]interface{}{"error": err.Error()})
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (h *Handler) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, content.Scenarios())
}

func (h *Handler) handleGetScenario(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	scenario, ok := content.ScenarioByID(id)
	if !ok {
		h.respondError(w, r, apperrors.NewScenarioNotFoundError(id))
		return
	}
	respondJSON(w, http.StatusOK, scenario)
}

func (h *Handler) handleAnatomy(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, content.Anatomy())
}

func (h *Handler) handleListFlows(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"version": h.registry.Version,
		"flows":   h.registry.Summaries(),
	})
}

func (h *Handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	var input compareprompts.Input
	if !h.decodeBody(w, r, &input) {
		return
	}
	output, err := h.flows.Compare.Execute(r.Context(), &input)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, presenter.Comparison(*output))
}

func (h *Handler) handleCompareScenario(w http.ResponseWriter, r *http.Request) {
	output, err := h.flows.Compare.ExecuteScenario(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, presenter.Comparison(*output))
}

func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var input analyzedna.Input
	if !h.decodeBody(w, r, &input) {
		return
	}
	output, err := h.flows.Analyze.Execute(r.Context(), &input)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, presenter.Analysis(*output))
}

func (h *Handler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var input evaluateprompt.Input
	if !h.decodeBody(w, r, &input) {
		return
	}
	output, err := h.flows.Evaluate.Execute(r.Context(), &input)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, presenter.Evaluation(*output))
}

func (h *Handler) handleScore(w http.ResponseWriter, r *http.Request) {
	var input estimatequality.Input
	if !h.decodeBody(w, r, &input) {
		return
	}
	output, err := h.flows.Estimate.Execute(r.Context(), &input)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, output)
}

func (h *Handler) handleListLibrary(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.respondError(w, r, apperrors.NewLibraryQueryFailedError(err))
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func (h *Handler) handleSearchLibrary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	input := searchlibrary.Input{
		Query:    q.Get("q"),
		Category: q.Get("category"),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			h.respondBadRequest(w, r, errors.New("limit must be an integer"))
			return
		}
		input.Limit = limit
	}

	output, err := h.flows.Search.Execute(r.Context(), &input)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, output)
}
