package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptcraft-studio/internal/common/llm"
	"promptcraft-studio/internal/common/logger"
	"promptcraft-studio/internal/content"
	"promptcraft-studio/internal/flows"
	"promptcraft-studio/internal/flows/aiflow"
	analyzedna "promptcraft-studio/internal/flows/analysis/analyze-dna"
	evaluateprompt "promptcraft-studio/internal/flows/analysis/evaluate-prompt"
	compareprompts "promptcraft-studio/internal/flows/comparison/compare-prompts"
	searchlibrary "promptcraft-studio/internal/flows/library/search-library"
	estimatequality "promptcraft-studio/internal/flows/scoring/estimate-quality"
	"promptcraft-studio/internal/library"
	"promptcraft-studio/internal/models"
	"promptcraft-studio/internal/presenter"
)

// ==========================
// Test Helper Functions
// ==========================

func replyClient(text string, err error) llm.ClientFunc {
	return func(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
		if err != nil {
			return nil, err
		}
		return &llm.ChatResponse{Text: text}, nil
	}
}

func newTestTools(t *testing.T, client llm.ChatClient) *tools {
	log := logger.NewTestLogger(t)
	store := library.NewMemoryStore(content.LibrarySeed())
	settings := aiflow.Settings{Temperature: 0.7, MaxTokens: 512, Timeout: 5 * time.Second}
	scorer := estimatequality.NewHandler(&estimatequality.Config{Jitter: estimatequality.NoJitter}, log)
	return &tools{
		flows: flows.Set{
			Compare:  compareprompts.NewHandler(&compareprompts.Config{Settings: settings}, client, nil, nil, scorer, log),
			Analyze:  analyzedna.NewHandler(&analyzedna.Config{Settings: settings}, client, nil, nil, log),
			Evaluate: evaluateprompt.NewHandler(&evaluateprompt.Config{Settings: settings}, client, nil, nil, log),
			Estimate: scorer,
			Search: searchlibrary.NewHandler(&searchlibrary.Config{
				Index:        searchlibrary.DefaultIndex,
				DefaultLimit: searchlibrary.DefaultLimit,
				Timeout:      time.Second,
			}, nil, store, log),
		},
		store:  store,
		logger: log,
	}
}

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}

func decodeResult[T any](t *testing.T, res *mcp.CallToolResult) T {
	t.Helper()
	require.False(t, res.IsError, resultText(t, res))
	var out T
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
	return out
}

// ==========================
// Tools
// ==========================

func TestComparePrompts(t *testing.T) {
	tl := newTestTools(t, replyClient(`{"basicResponse": "ok", "engineeredResponse": ""}`, nil))

	res, err := tl.comparePrompts(context.Background(), callRequest("compare_prompts", map[string]interface{}{
		"basicPrompt":      "write a poem",
		"engineeredPrompt": "You are a poet. Write a haiku about rain.",
		"temperature":      0.2,
	}))
	require.NoError(t, err)

	out := decodeResult[models.ComparisonResult](t, res)
	assert.Equal(t, "ok", out.BasicResponse)
	assert.Equal(t, presenter.NoResponse, out.EngineeredResponse)
}

func TestComparePrompts_ValidationIsToolError(t *testing.T) {
	tl := newTestTools(t, replyClient("", errors.New("must not be called")))

	res, err := tl.comparePrompts(context.Background(), callRequest("compare_prompts", map[string]interface{}{
		"basicPrompt": "write a poem",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	text := resultText(t, res)
	assert.True(t, strings.HasPrefix(text, "INPUT_VALIDATION_FAILED"), text)
	assert.Contains(t, text, "engineeredPrompt")
}

func TestComparePrompts_ModelFailureIsFallback(t *testing.T) {
	tl := newTestTools(t, replyClient("", errors.New("connection reset")))

	res, err := tl.comparePrompts(context.Background(), callRequest("compare_prompts", map[string]interface{}{
		"basicPrompt":      "a",
		"engineeredPrompt": "b",
	}))
	require.NoError(t, err)

	out := decodeResult[models.ComparisonResult](t, res)
	assert.NotEmpty(t, out.Error)
}

func TestCompareScenario_NotFound(t *testing.T) {
	tl := newTestTools(t, replyClient("{}", nil))

	res, err := tl.compareScenario(context.Background(), callRequest("compare_scenario", map[string]interface{}{
		"scenarioId": "does-not-exist",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "SCENARIO_NOT_FOUND")
}

func TestAnalyzeAndEvaluate(t *testing.T) {
	tl := newTestTools(t, replyClient(`{"overallAssessment": "Solid", "score": 80, "components": [], "rating": "Good", "feedback": []}`, nil))
	ctx := context.Background()

	res, err := tl.analyzePrompt(ctx, callRequest("analyze_prompt_dna", map[string]interface{}{"prompt": "You are a chef."}))
	require.NoError(t, err)
	analysis := decodeResult[models.AnalysisResult](t, res)
	assert.Equal(t, "Solid", analysis.OverallAssessment)
	assert.Len(t, analysis.Components, len(content.AnatomyNames()))

	res, err = tl.evaluatePrompt(ctx, callRequest("evaluate_prompt", map[string]interface{}{"prompt": "You are a chef."}))
	require.NoError(t, err)
	eval := decodeResult[models.EvaluationResult](t, res)
	assert.Equal(t, models.RatingGood, eval.Rating)
	assert.Equal(t, []string{presenter.NoFeedback}, eval.Feedback)
}

func TestScoreResponse(t *testing.T) {
	tl := newTestTools(t, nil)

	res, err := tl.scoreResponse(context.Background(), callRequest("score_response", map[string]interface{}{
		"responseText": "",
		"isEngineered": true,
	}))
	require.NoError(t, err)
	out := decodeResult[estimatequality.Output](t, res)
	assert.Equal(t, 15, out.Score)
	assert.True(t, out.Degenerate)
}

func TestSearchLibrary(t *testing.T) {
	tl := newTestTools(t, nil)
	ctx := context.Background()

	res, err := tl.searchLibrary(ctx, callRequest("search_library", map[string]interface{}{
		"query": "sql",
		"limit": float64(1),
	}))
	require.NoError(t, err)
	out := decodeResult[models.LibrarySearchResult](t, res)
	require.Len(t, out.Entries, 1)
	assert.Equal(t, "lib-sql-explainer", out.Entries[0].ID)
	assert.Equal(t, models.SearchSourceMemory, out.Source)

	res, err = tl.searchLibrary(ctx, callRequest("search_library", map[string]interface{}{"query": ""}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestListScenariosAndLibrary(t *testing.T) {
	tl := newTestTools(t, nil)
	ctx := context.Background()

	res, err := tl.listScenarios(ctx, callRequest("list_scenarios", nil))
	require.NoError(t, err)
	all := decodeResult[[]models.Scenario](t, res)
	assert.Len(t, all, len(content.Scenarios()))

	category := all[0].Category
	res, err = tl.listScenarios(ctx, callRequest("list_scenarios", map[string]interface{}{"category": category}))
	require.NoError(t, err)
	for _, s := range decodeResult[[]models.Scenario](t, res) {
		assert.Equal(t, category, s.Category)
	}

	res, err = tl.listLibrary(ctx, callRequest("list_library", nil))
	require.NoError(t, err)
	assert.Len(t, decodeResult[[]models.LibraryEntry](t, res), len(content.LibrarySeed()))
}

// ==========================
// Server wiring
// ==========================

func TestNew_ListsToolsForEnabledFlows(t *testing.T) {
	tl := newTestTools(t, nil)
	set := tl.flows
	set.Analyze = nil

	s := New(set, tl.store, "test", logger.NewTestLogger(t))
	resp := s.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	var body struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))

	var names []string
	for _, tool := range body.Result.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"list_scenarios", "list_library", "compare_prompts", "compare_scenario",
		"evaluate_prompt", "score_response", "search_library",
	}, names)
}

// ==========================
// Resources and prompts
// ==========================

func TestReadResources(t *testing.T) {
	ctx := context.Background()

	req := mcp.ReadResourceRequest{}
	req.Params.URI = anatomyURI
	contents, err := readAnatomy(ctx, req)
	require.NoError(t, err)
	require.Len(t, contents, 1)
	text := contents[0].(mcp.TextResourceContents)
	assert.Equal(t, mimeJSON, text.MIMEType)
	var anatomy []models.AnatomyComponent
	require.NoError(t, json.Unmarshal([]byte(text.Text), &anatomy))
	assert.Len(t, anatomy, len(content.Anatomy()))

	id := content.Scenarios()[0].ID
	req.Params.URI = scenarioURIPrefix + id
	contents, err = readScenario(ctx, req)
	require.NoError(t, err)
	assert.Contains(t, contents[0].(mcp.TextResourceContents).Text, id)

	req.Params.URI = scenarioURIPrefix + "missing"
	_, err = readScenario(ctx, req)
	assert.Error(t, err)
}

func TestEngineerPrompt(t *testing.T) {
	req := mcp.GetPromptRequest{}
	req.Params.Name = engineerPromptName
	req.Params.Arguments = map[string]string{"task": "summarise a meeting", "audience": "executives"}

	res, err := engineerPrompt(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Messages, 1)
	text := res.Messages[0].Content.(mcp.TextContent).Text
	assert.Contains(t, text, "summarise a meeting")
	assert.Contains(t, text, "Audience: executives")
	for _, name := range content.AnatomyNames() {
		assert.Contains(t, text, "## "+name)
	}

	req.Params.Arguments = map[string]string{}
	_, err = engineerPrompt(context.Background(), req)
	assert.Error(t, err)
}
