// cmd/tools/flow-generator/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"promptcraft-studio/pkg/registry"
)

// FlowData holds data for templates
type FlowData struct {
	ID           string
	Name         string
	PackageName  string
	Description  string
	Category     string
	InputFields  []Field
	OutputFields []Field
}

// Field is one struct field derived from a schema property.
type Field struct {
	Name    string
	Type    string
	JSONTag string
	Comment string
}

// parseSchema extracts properties from a JSON schema object
func parseSchema(schemaObj map[string]interface{}) map[string]interface{} {
	if props, ok := schemaObj["properties"].(map[string]interface{}); ok {
		return props
	}
	return map[string]interface{}{}
}

// goTypeFromJSONType maps JSON schema types to Go types
func goTypeFromJSONType(details map[string]interface{}) string {
	switch details["type"] {
	case "string":
		return "string"
	case "integer":
		return "int"
	case "number":
		return "float64"
	case "boolean":
		return "bool"
	case "object":
		return "map[string]interface{}"
	case "array":
		if items, ok := details["items"].(map[string]interface{}); ok {
			return "[]" + goTypeFromJSONType(items)
		}
		return "[]interface{}"
	default:
		return "interface{}"
	}
}

// fieldsFromSchema lists the schema properties in name order. Properties
// outside required get omitempty.
func fieldsFromSchema(schema map[string]interface{}) []Field {
	required := map[string]bool{}
	if list, ok := schema["required"].([]interface{}); ok {
		for _, r := range list {
			if name, ok := r.(string); ok {
				required[name] = true
			}
		}
	}

	properties := parseSchema(schema)
	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]Field, 0, len(names))
	for _, name := range names {
		details, _ := properties[name].(map[string]interface{})
		if details == nil {
			details = map[string]interface{}{}
		}
		tag := name
		if !required[name] {
			tag += ",omitempty"
		}
		f := Field{
			Name:    upperFirst(name),
			Type:    goTypeFromJSONType(details),
			JSONTag: fmt.Sprintf("`json:\"%s\"`", tag),
		}
		if desc, ok := details["description"].(string); ok && desc != "" {
			f.Comment = " // " + desc
		}
		fields = append(fields, f)
	}
	return fields
}

// upperFirst makes the first character uppercase
func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func newFlowData(flow registry.Flow) FlowData {
	return FlowData{
		ID:           flow.ID,
		Name:         flow.DisplayName,
		PackageName:  strings.ReplaceAll(flow.ID, "-", ""),
		Description:  flow.Description,
		Category:     flow.Category,
		InputFields:  fieldsFromSchema(flow.InputSchema),
		OutputFields: fieldsFromSchema(flow.OutputSchema),
	}
}

const configTemplate = `// internal/flows/{{ .Category }}/{{ .ID }}/config.go
package {{ .PackageName }}

import (
	"promptcraft-studio/internal/common/config"
	"promptcraft-studio/internal/flows/aiflow"
)

type Config struct {
	Settings aiflow.Settings
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Settings: aiflow.SettingsFor(cfg, TaskType),
	}
}
`

const modelsTemplate = `// internal/flows/{{ .Category }}/{{ .ID }}/models.go
package {{ .PackageName }}

type Input struct {
{{- range .InputFields }}
	{{ .Name }} {{ .Type }} {{ .JSONTag }}{{ .Comment }}
{{- end }}
}

type Output struct {
{{- range .OutputFields }}
	{{ .Name }} {{ .Type }} {{ .JSONTag }}{{ .Comment }}
{{- end }}
	Error string ` + "`json:\"error,omitempty\"`" + `
}
`

const handlerTemplate = `// internal/flows/{{ .Category }}/{{ .ID }}/handler.go
package {{ .PackageName }}

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"text/template"

	"promptcraft-studio/internal/common/cache"
	apperrors "promptcraft-studio/internal/common/errors"
	"promptcraft-studio/internal/common/llm"
	"promptcraft-studio/internal/common/logger"
	"promptcraft-studio/internal/common/observability"
	"promptcraft-studio/internal/common/validation"
	"promptcraft-studio/internal/flows/aiflow"
	"promptcraft-studio/pkg/registry"
)

const (
	TaskType = "{{ .ID }}"
)

var (
	ErrInputValidation = errors.New("INPUT_VALIDATION_FAILED")
)

//go:embed prompts/system.txt
var systemPrompt string

//go:embed prompts/user.tmpl
var userTemplateText string

var userTemplate = template.Must(template.New("{{ .ID }}-user").Parse(userTemplateText))

type Handler struct {
	config       *Config
	deps         aiflow.Deps
	inputSchema  *validation.Schema
	outputSchema *validation.Schema
	logger       logger.Logger
}

func NewHandler(config *Config, client llm.ChatClient, c cache.Cache, obs *observability.Observability, log logger.Logger) *Handler {
	in, out := registry.MustSchemas(TaskType)
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		deps:         aiflow.Deps{Client: client, Cache: c, Obs: obs, Logger: log},
		inputSchema:  in,
		outputSchema: out,
		logger:       log,
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		input = &Input{}
	}
	if stdErr := aiflow.ValidateInput(TaskType, h.inputSchema, input); stdErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrInputValidation, stdErr)
	}

	var buf bytes.Buffer
	if err := userTemplate.Execute(&buf, input); err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("render {{ .ID }} prompt: %w", err))
	}

	result, stdErr := aiflow.Run[Output](ctx, h.deps, aiflow.Call{
		FlowID:   TaskType,
		Settings: h.config.Settings,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: systemPrompt},
			{Role: llm.RoleUser, Content: buf.String()},
		},
		Output: h.outputSchema,
	})
	if stdErr != nil {
		return &Output{Error: stdErr.UserMessage()}, nil
	}
	result.Error = ""

	h.logger.Info("{{ .ID }} completed", nil)

	return &result, nil
}
`

const systemPromptTemplate = `You are the {{ .Name }} step of PromptCraft Studio. {{ .Description }}
Always reply with a single JSON object and no surrounding text.
`

const userPromptTemplate = `{{ "{{" }}/* Render the Input fields here, e.g. {{ "{{" }}.Field{{ "}}" }}. */{{ "}}" }}
Reply with this JSON object and nothing else:
{
{{- range $i, $f := .OutputFields }}{{ if $i }},{{ end }}
  "{{ jsonName $f }}": <{{ $f.Type }}>
{{- end }}
}
`

const testTemplate = `// internal/flows/{{ .Category }}/{{ .ID }}/handler_test.go
package {{ .PackageName }}

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptcraft-studio/internal/common/llm"
	"promptcraft-studio/internal/common/logger"
	"promptcraft-studio/internal/flows/aiflow"
)

func newTestHandler(t *testing.T, client llm.ChatClient) *Handler {
	cfg := &Config{Settings: aiflow.Settings{Temperature: 0.3, MaxTokens: 1024, Timeout: 5 * time.Second}}
	return NewHandler(cfg, client, nil, nil, logger.NewTestLogger(t))
}

func TestHandler_Execute_InvalidInput(t *testing.T) {
	h := newTestHandler(t, nil)

	_, err := h.Execute(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInputValidation)
}

func TestHandler_Execute_TransportFailureFallsBack(t *testing.T) {
	client := llm.ClientFunc(func(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
		return nil, errors.New("connection reset")
	})
	h := newTestHandler(t, client)

	output, err := h.Execute(context.Background(), &Input{})
	if errors.Is(err, ErrInputValidation) {
		t.Skip("fill in a valid Input to exercise the model call")
	}
	require.NoError(t, err)
	assert.NotEmpty(t, output.Error)
}
`

func jsonName(f Field) string {
	tag := strings.TrimSuffix(strings.TrimPrefix(f.JSONTag, "`json:\""), "\"`")
	return strings.TrimSuffix(tag, ",omitempty")
}

// generate renders every scaffold file for data under outputDir and returns
// the written paths.
func generate(data FlowData, outputDir string) ([]string, error) {
	flowDir := filepath.Join(outputDir, data.Category, data.ID)
	if _, err := os.Stat(filepath.Join(flowDir, "handler.go")); err == nil {
		return nil, fmt.Errorf("flow %s already exists at %s", data.ID, flowDir)
	}
	if err := os.MkdirAll(filepath.Join(flowDir, "prompts"), 0o755); err != nil {
		return nil, fmt.Errorf("error creating directory: %w", err)
	}

	funcMap := template.FuncMap{"jsonName": jsonName}

	templates := []struct {
		file string
		tmpl string
	}{
		{"config.go", configTemplate},
		{"models.go", modelsTemplate},
		{"handler.go", handlerTemplate},
		{"handler_test.go", testTemplate},
		{filepath.Join("prompts", "system.txt"), systemPromptTemplate},
		{filepath.Join("prompts", "user.tmpl"), userPromptTemplate},
	}

	var written []string
	for _, t := range templates {
		tmpl, err := template.New(t.file).Funcs(funcMap).Parse(t.tmpl)
		if err != nil {
			return written, fmt.Errorf("error parsing template %s: %w", t.file, err)
		}

		path := filepath.Join(flowDir, t.file)
		file, err := os.Create(path)
		if err != nil {
			return written, fmt.Errorf("error creating file %s: %w", path, err)
		}
		err = tmpl.Execute(file, data)
		file.Close()
		if err != nil {
			return written, fmt.Errorf("error executing template for %s: %w", t.file, err)
		}
		written = append(written, path)
	}
	return written, nil
}

func main() {
	flowID := flag.String("flow", "", "Flow ID from registry (e.g., rewrite-prompt)")
	outputDir := flag.String("output", "./internal/flows/", "Output directory for the generated flow")
	registryPath := flag.String("registry", "pkg/registry/flows.json", "Path to the flow registry JSON file")
	flag.Parse()

	if *flowID == "" {
		fmt.Println("Usage: flow-generator --flow <id> [--output <dir>] [--registry <path>]")
		fmt.Println("\nExample:")
		fmt.Println("  go run ./cmd/tools/flow-generator --flow rewrite-prompt")
		os.Exit(1)
	}

	reg, err := registry.LoadRegistry(*registryPath)
	if err != nil {
		fmt.Printf("Error loading registry from %s: %v\n", *registryPath, err)
		os.Exit(1)
	}

	flow, ok := reg.Get(*flowID)
	if !ok {
		fmt.Printf("Flow '%s' not found in registry %s\n", *flowID, *registryPath)
		os.Exit(1)
	}

	written, err := generate(newFlowData(flow), *outputDir)
	for _, path := range written {
		fmt.Printf("Generated %s\n", path)
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nNext steps:\n")
	fmt.Printf("  1. Write the prompts in prompts/system.txt and prompts/user.tmpl\n")
	fmt.Printf("  2. Add a fallback and logging fields in handler.go\n")
	fmt.Printf("  3. Wire the handler into internal/flows/flows.go\n")
	fmt.Printf("  4. Expose it in internal/api and internal/mcpserver\n")
}
