// internal/mcpserver/resources.go
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"promptcraft-studio/internal/content"
)

const (
	anatomyURI        = "promptcraft://anatomy"
	scenariosURI      = "promptcraft://scenarios"
	scenarioURIPrefix = scenariosURI + "/"
	mimeJSON          = "application/json"
)

func registerResources(s *server.MCPServer) {
	s.AddResource(mcp.NewResource(
		anatomyURI,
		"Prompt anatomy",
		mcp.WithResourceDescription("The seven components of a well-formed prompt with examples and tips"),
		mcp.WithMIMEType(mimeJSON),
	), readAnatomy)

	s.AddResource(mcp.NewResource(
		scenariosURI,
		"Comparison scenarios",
		mcp.WithResourceDescription("Built-in basic vs engineered prompt pairs"),
		mcp.WithMIMEType(mimeJSON),
	), readScenarios)

	s.AddResourceTemplate(mcp.NewResourceTemplate(
		scenarioURIPrefix+"{id}",
		"Comparison scenario",
		mcp.WithTemplateDescription("A single built-in scenario by id"),
		mcp.WithTemplateMIMEType(mimeJSON),
	), readScenario)
}

func readAnatomy(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonContents(req.Params.URI, content.Anatomy())
}

func readScenarios(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonContents(req.Params.URI, content.Scenarios())
}

func readScenario(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	id := strings.TrimPrefix(req.Params.URI, scenarioURIPrefix)
	scenario, ok := content.ScenarioByID(id)
	if !ok {
		return nil, fmt.Errorf("scenario %q not found", id)
	}
	return jsonContents(req.Params.URI, scenario)
}

func jsonContents(uri string, v interface{}) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource content: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: mimeJSON,
			Text:     string(data),
		},
	}, nil
}
