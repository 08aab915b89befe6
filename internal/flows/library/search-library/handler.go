// internal/flows/library/search-library/handler.go
package searchlibrary

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	apperrors "promptcraft-studio/internal/common/errors"
	"promptcraft-studio/internal/common/logger"
	"promptcraft-studio/internal/common/metrics"
	"promptcraft-studio/internal/common/validation"
	"promptcraft-studio/internal/flows/aiflow"
	"promptcraft-studio/internal/library"
	"promptcraft-studio/internal/models"
	"promptcraft-studio/pkg/registry"
)

const (
	TaskType = "search-library"
)

var (
	ErrInputValidation   = errors.New("INPUT_VALIDATION_FAILED")
	ErrSearchQueryFailed = errors.New("SEARCH_QUERY_FAILED")
	ErrLibraryQuery      = errors.New("LIBRARY_QUERY_FAILED")
	ErrIndexFailed       = errors.New("INDEX_FAILED")
)

type Handler struct {
	config *Config
	client *elasticsearch.Client
	store  library.Store
	schema *validation.Schema
	logger logger.Logger
}

// NewHandler builds the search flow. client may be nil, in which case every
// search runs against store.
func NewHandler(config *Config, client *elasticsearch.Client, store library.Store, log logger.Logger) *Handler {
	in, _ := registry.MustSchemas(TaskType)
	return &Handler{
		config: config,
		client: client,
		store:  store,
		schema: in,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		input = &Input{}
	}
	if stdErr := aiflow.ValidateInput(TaskType, h.schema, input); stdErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrInputValidation, stdErr)
	}

	limit := input.Limit
	if limit <= 0 {
		limit = h.config.DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	start := time.Now()

	if h.client != nil {
		output, err := h.searchElasticsearch(ctx, input, limit)
		if err == nil {
			h.record(models.SearchSourceElasticsearch, start)
			return output, nil
		}
		stdErr := apperrors.NewSearchQueryFailedError(h.config.Index, err)
		metrics.FlowFailures.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
		h.logger.Warn("elasticsearch search failed, using in-memory search", map[string]interface{}{
			"index": h.config.Index,
			"error": err.Error(),
		})
	}

	output, err := h.searchStore(ctx, input, limit)
	if err != nil {
		metrics.FlowCalls.WithLabelValues(TaskType, metrics.OutcomeFallback).Inc()
		return nil, fmt.Errorf("%w: %w", ErrLibraryQuery, apperrors.NewLibraryQueryFailedError(err))
	}
	h.record(models.SearchSourceMemory, start)
	return output, nil
}

func (h *Handler) record(source string, start time.Time) {
	metrics.FlowCalls.WithLabelValues(TaskType, metrics.OutcomeSuccess).Inc()
	metrics.FlowDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.logger.Debug("library searched", map[string]interface{}{
		"source":     source,
		"durationMs": time.Since(start).Milliseconds(),
	})
}

func (h *Handler) searchElasticsearch(ctx context.Context, input *Input, limit int) (*Output, error) {
	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	req, err := newSearchRequest(h.config.Index, input, limit)
	if err != nil {
		return nil, err
	}

	res, err := req.Do(ctx, h.client)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrSearchQueryFailed, res.String())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrSearchQueryFailed, err)
	}

	entries := make([]models.LibraryEntry, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		entry := hit.Source
		if entry.ID == "" {
			entry.ID = hit.ID
		}
		if entry.Tags == nil {
			entry.Tags = []string{}
		}
		entries = append(entries, entry)
	}

	return &Output{
		Entries: entries,
		Total:   parsed.Hits.Total.Value,
		Source:  models.SearchSourceElasticsearch,
	}, nil
}

func (h *Handler) searchStore(ctx context.Context, input *Input, limit int) (*Output, error) {
	entries, err := h.store.List(ctx, input.Category)
	if err != nil {
		return nil, err
	}

	ranked := library.Rank(entries, input.Query)
	total := len(ranked)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	if ranked == nil {
		ranked = []models.LibraryEntry{}
	}

	return &Output{
		Entries: ranked,
		Total:   total,
		Source:  models.SearchSourceMemory,
	}, nil
}

// IndexEntries creates the index when missing and writes every entry under
// its id, then refreshes so the entries are searchable immediately.
func (h *Handler) IndexEntries(ctx context.Context, entries []models.LibraryEntry) (int, error) {
	if h.client == nil {
		return 0, fmt.Errorf("%w: elasticsearch is not configured", ErrIndexFailed)
	}

	if err := h.ensureIndex(ctx); err != nil {
		return 0, err
	}

	indexed := 0
	for _, entry := range entries {
		body, err := json.Marshal(entry)
		if err != nil {
			return indexed, fmt.Errorf("%w: encode %s: %v", ErrIndexFailed, entry.ID, err)
		}

		res, err := h.client.Index(
			h.config.Index,
			bytes.NewReader(body),
			h.client.Index.WithDocumentID(entry.ID),
			h.client.Index.WithContext(ctx),
		)
		if err != nil {
			return indexed, fmt.Errorf("%w: %s: %v", ErrIndexFailed, entry.ID, err)
		}
		failed := res.IsError()
		status := res.String()
		res.Body.Close()
		if failed {
			return indexed, fmt.Errorf("%w: %s: %s", ErrIndexFailed, entry.ID, status)
		}
		indexed++
	}

	res, err := h.client.Indices.Refresh(
		h.client.Indices.Refresh.WithIndex(h.config.Index),
		h.client.Indices.Refresh.WithContext(ctx),
	)
	if err != nil {
		return indexed, fmt.Errorf("%w: refresh: %v", ErrIndexFailed, err)
	}
	res.Body.Close()

	h.logger.Info("library indexed", map[string]interface{}{
		"index":   h.config.Index,
		"entries": indexed,
	})
	return indexed, nil
}

func (h *Handler) ensureIndex(ctx context.Context) error {
	res, err := h.client.Indices.Exists([]string{h.config.Index}, h.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: exists: %v", ErrIndexFailed, err)
	}
	res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}

	body, _ := json.Marshal(indexMapping)
	res, err = h.client.Indices.Create(
		h.config.Index,
		h.client.Indices.Create.WithBody(bytes.NewReader(body)),
		h.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("%w: create: %v", ErrIndexFailed, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("%w: create: %s", ErrIndexFailed, res.String())
	}
	return nil
}
