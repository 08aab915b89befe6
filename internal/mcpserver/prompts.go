// internal/mcpserver/prompts.go
package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"promptcraft-studio/internal/content"
)

const engineerPromptName = "engineer-prompt"

func registerPrompts(s *server.MCPServer) {
	prompt := mcp.NewPrompt(
		engineerPromptName,
		mcp.WithPromptDescription("Turn a one-line task into an engineered prompt using the prompt anatomy"),
		mcp.WithArgument("task", mcp.RequiredArgument(), mcp.ArgumentDescription("What the prompt should get done (e.g., 'write a product description')")),
		mcp.WithArgument("audience", mcp.ArgumentDescription("Who will read the response")),
	)
	s.AddPrompt(prompt, engineerPrompt)
}

func engineerPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	task := strings.TrimSpace(req.Params.Arguments["task"])
	if task == "" {
		return nil, fmt.Errorf("argument %q is required", "task")
	}
	audience := strings.TrimSpace(req.Params.Arguments["audience"])

	var b strings.Builder
	fmt.Fprintf(&b, "Rewrite the following task as an engineered prompt.\n\nTask: %s\n", task)
	if audience != "" {
		fmt.Fprintf(&b, "Audience: %s\n", audience)
	}
	b.WriteString("\nCover each component below. Keep components that do not apply short rather than dropping them.\n")
	for _, c := range content.Anatomy() {
		fmt.Fprintf(&b, "\n## %s\n%s\nExample: %s\nTip: %s\n", c.Name, c.Description, c.Example, c.Tip)
	}
	b.WriteString("\nReturn only the finished prompt.")

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Engineered prompt scaffold for: %s", task),
		Messages: []mcp.PromptMessage{
			{
				Role:    mcp.RoleUser,
				Content: mcp.TextContent{Type: "text", Text: b.String()},
			},
		},
	}, nil
}
