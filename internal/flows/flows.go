// Package flows builds the flow handlers shared by the HTTP API, the MCP
// server and the CLI.
package flows

import (
	"github.com/elastic/go-elasticsearch/v8"

	"promptcraft-studio/internal/common/cache"
	"promptcraft-studio/internal/common/config"
	"promptcraft-studio/internal/common/llm"
	"promptcraft-studio/internal/common/logger"
	"promptcraft-studio/internal/common/observability"
	analyzedna "promptcraft-studio/internal/flows/analysis/analyze-dna"
	evaluateprompt "promptcraft-studio/internal/flows/analysis/evaluate-prompt"
	compareprompts "promptcraft-studio/internal/flows/comparison/compare-prompts"
	searchlibrary "promptcraft-studio/internal/flows/library/search-library"
	estimatequality "promptcraft-studio/internal/flows/scoring/estimate-quality"
	"promptcraft-studio/internal/library"
)

// Set holds one handler per flow. A nil handler means the flow is disabled
// in config and its routes and tools are not registered.
type Set struct {
	Compare  *compareprompts.Handler
	Analyze  *analyzedna.Handler
	Evaluate *evaluateprompt.Handler
	Estimate *estimatequality.Handler
	Search   *searchlibrary.Handler
}

// Deps are the clients the flows run against. Cache, Obs and Search may be nil.
type Deps struct {
	Client llm.ChatClient
	Cache  cache.Cache
	Obs    *observability.Observability
	Search *elasticsearch.Client
	Store  library.Store
	Logger logger.Logger
}

func New(cfg *config.Config, d Deps) Set {
	var set Set

	// The comparison flow scores its responses even when estimate-quality is
	// not exposed on its own.
	scorer := estimatequality.NewHandler(estimatequality.LoadConfig(), d.Logger)
	if config.IsFlowEnabled(cfg, estimatequality.TaskType) {
		set.Estimate = scorer
	}
	if config.IsFlowEnabled(cfg, compareprompts.TaskType) {
		set.Compare = compareprompts.NewHandler(compareprompts.LoadConfig(cfg), d.Client, d.Cache, d.Obs, scorer, d.Logger)
	}
	if config.IsFlowEnabled(cfg, analyzedna.TaskType) {
		set.Analyze = analyzedna.NewHandler(analyzedna.LoadConfig(cfg), d.Client, d.Cache, d.Obs, d.Logger)
	}
	if config.IsFlowEnabled(cfg, evaluateprompt.TaskType) {
		set.Evaluate = evaluateprompt.NewHandler(evaluateprompt.LoadConfig(cfg), d.Client, d.Cache, d.Obs, d.Logger)
	}
	if config.IsFlowEnabled(cfg, searchlibrary.TaskType) {
		set.Search = searchlibrary.NewHandler(searchlibrary.LoadConfig(cfg), d.Search, d.Store, d.Logger)
	}

	return set
}
