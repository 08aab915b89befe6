// internal/mcpserver/tools.go
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	apperrors "promptcraft-studio/internal/common/errors"
	"promptcraft-studio/internal/common/logger"
	"promptcraft-studio/internal/common/validation"
	"promptcraft-studio/internal/content"
	"promptcraft-studio/internal/flows"
	analyzedna "promptcraft-studio/internal/flows/analysis/analyze-dna"
	evaluateprompt "promptcraft-studio/internal/flows/analysis/evaluate-prompt"
	compareprompts "promptcraft-studio/internal/flows/comparison/compare-prompts"
	searchlibrary "promptcraft-studio/internal/flows/library/search-library"
	estimatequality "promptcraft-studio/internal/flows/scoring/estimate-quality"
	"promptcraft-studio/internal/library"
	"promptcraft-studio/internal/presenter"
)

type tools struct {
	flows  flows.Set
	store  library.Store
	logger logger.Logger
}

func (t *tools) register(s *server.MCPServer) {
	s.AddTool(mcp.NewTool(
		"list_scenarios",
		mcp.WithDescription("List the built-in basic vs engineered prompt scenarios"),
		mcp.WithString("category", mcp.Description("Only return scenarios in this category")),
	), t.listScenarios)

	s.AddTool(mcp.NewTool(
		"list_library",
		mcp.WithDescription("List prompt library entries"),
		mcp.WithString("category", mcp.Description("Only return entries in this category")),
	), t.listLibrary)

	if t.flows.Compare != nil {
		s.AddTool(mcp.NewTool(
			"compare_prompts",
			mcp.WithDescription("Run a basic and an engineered prompt through the model and score both responses"),
			mcp.WithString("basicPrompt", mcp.Required(), mcp.Description("The naive prompt")),
			mcp.WithString("engineeredPrompt", mcp.Required(), mcp.Description("The structured prompt")),
			mcp.WithNumber("temperature", mcp.Description("Sampling temperature between 0 and 2")),
		), t.comparePrompts)

		s.AddTool(mcp.NewTool(
			"compare_scenario",
			mcp.WithDescription("Compare the prompts of a built-in scenario"),
			mcp.WithString("scenarioId", mcp.Required(), mcp.Description("Scenario id from list_scenarios")),
		), t.compareScenario)
	}

	if t.flows.Analyze != nil {
		s.AddTool(mcp.NewTool(
			"analyze_prompt_dna",
			mcp.WithDescription("Break a prompt down into its anatomy components"),
			mcp.WithString("prompt", mcp.Required(), mcp.Description("Prompt to analyze")),
		), t.analyzePrompt)
	}

	if t.flows.Evaluate != nil {
		s.AddTool(mcp.NewTool(
			"evaluate_prompt",
			mcp.WithDescription("Rate a prompt and suggest an improved version"),
			mcp.WithString("prompt", mcp.Required(), mcp.Description("Prompt to evaluate")),
		), t.evaluatePrompt)
	}

	if t.flows.Estimate != nil {
		s.AddTool(mcp.NewTool(
			"score_response",
			mcp.WithDescription("Estimate the quality of a model response without calling a model"),
			mcp.WithString("responseText", mcp.Required(), mcp.Description("Response to score")),
			mcp.WithBoolean("isEngineered", mcp.Description("Whether the response came from an engineered prompt")),
			mcp.WithString("templateText", mcp.Description("Engineered prompt used for keyword matching")),
		), t.scoreResponse)
	}

	if t.flows.Search != nil {
		s.AddTool(mcp.NewTool(
			"search_library",
			mcp.WithDescription("Full-text search over the prompt library"),
			mcp.WithString("query", mcp.Required(), mcp.Description("Search terms")),
			mcp.WithString("category", mcp.Description("Restrict results to a category")),
			mcp.WithNumber("limit", mcp.Description("Maximum number of entries (1-50)")),
		), t.searchLibrary)
	}
}

func (t *tools) listScenarios(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category := getStringArg(arguments(req), "category")
	scenarios := content.Scenarios()
	if category != "" {
		filtered := scenarios[:0:0]
		for _, s := range scenarios {
			if strings.EqualFold(s.Category, category) {
				filtered = append(filtered, s)
			}
		}
		scenarios = filtered
	}
	return jsonResult(scenarios)
}

func (t *tools) listLibrary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := t.store.List(ctx, getStringArg(arguments(req), "category"))
	if err != nil {
		return t.errorResult("list_library", apperrors.NewLibraryQueryFailedError(err)), nil
	}
	return jsonResult(entries)
}

func (t *tools) comparePrompts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(req)
	input := compareprompts.Input{
		BasicPrompt:      getStringArg(args, "basicPrompt"),
		EngineeredPrompt: getStringArg(args, "engineeredPrompt"),
	}
	if v, ok := args["temperature"].(float64); ok {
		input.Temperature = &v
	}

	output, err := t.flows.Compare.Execute(ctx, &input)
	if err != nil {
		return t.errorResult("compare_prompts", err), nil
	}
	return jsonResult(presenter.Comparison(*output))
}

func (t *tools) compareScenario(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	output, err := t.flows.Compare.ExecuteScenario(ctx, getStringArg(arguments(req), "scenarioId"))
	if err != nil {
		return t.errorResult("compare_scenario", err), nil
	}
	return jsonResult(presenter.Comparison(*output))
}

func (t *tools) analyzePrompt(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input := analyzedna.Input{Prompt: getStringArg(arguments(req), "prompt")}
	output, err := t.flows.Analyze.Execute(ctx, &input)
	if err != nil {
		return t.errorResult("analyze_prompt_dna", err), nil
	}
	return jsonResult(presenter.Analysis(*output))
}

func (t *tools) evaluatePrompt(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input := evaluateprompt.Input{Prompt: getStringArg(arguments(req), "prompt")}
	output, err := t.flows.Evaluate.Execute(ctx, &input)
	if err != nil {
		return t.errorResult("evaluate_prompt", err), nil
	}
	return jsonResult(presenter.Evaluation(*output))
}

func (t *tools) scoreResponse(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(req)
	input := estimatequality.Input{
		ResponseText: getStringArg(args, "responseText"),
		IsEngineered: getBoolArg(args, "isEngineered"),
		TemplateText: getStringArg(args, "templateText"),
	}
	output, err := t.flows.Estimate.Execute(ctx, &input)
	if err != nil {
		return t.errorResult("score_response", err), nil
	}
	return jsonResult(output)
}

func (t *tools) searchLibrary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(req)
	input := searchlibrary.Input{
		Query:    getStringArg(args, "query"),
		Category: getStringArg(args, "category"),
	}
	if v, ok := args["limit"].(float64); ok {
		input.Limit = int(v)
	}
	output, err := t.flows.Search.Execute(ctx, &input)
	if err != nil {
		return t.errorResult("search_library", err), nil
	}
	return jsonResult(output)
}

// errorResult reports a flow failure to the client as a tool error so the
// calling model can read and react to it.
func (t *tools) errorResult(tool string, err error) *mcp.CallToolResult {
	stdErr := apperrors.Normalize(err)
	if apperrors.HTTPStatus(stdErr.Code) >= 500 {
		t.logger.Error("tool call failed", map[string]interface{}{
			"tool":      tool,
			"errorCode": string(stdErr.Code),
			"details":   stdErr.Details,
		})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", stdErr.Code, stdErr.Message)
	if errs, ok := stdErr.Metadata["errors"].([]validation.ValidationError); ok && len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(&b, "\n- %s: %s", e.Field, e.Message)
		}
	} else if stdErr.Details != "" {
		fmt.Fprintf(&b, " (%s)", stdErr.Details)
	}
	return mcp.NewToolResultError(b.String())
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tool result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func arguments(req mcp.CallToolRequest) map[string]interface{} {
	if args, ok := req.Params.Arguments.(map[string]interface{}); ok {
		return args
	}
	return map[string]interface{}{}
}

func getStringArg(args map[string]interface{}, key string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return ""
}

func getBoolArg(args map[string]interface{}, key string) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return false
}
