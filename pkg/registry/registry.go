// pkg/registry/registry.go
package registry

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sync"
	"time"

	"promptcraft-studio/internal/common/validation"
)

//go:embed flows.json
var embeddedFlows []byte

var flowIDPattern = regexp.MustCompile(`^[a-z]+(-[a-z]+)*$`)

// LoadRegistry reads a registry file from disk.
func LoadRegistry(path string) (*FlowRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes registry JSON.
func Parse(data []byte) (*FlowRegistry, error) {
	var reg FlowRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}
	return &reg, nil
}

var (
	defaultOnce sync.Once
	defaultReg  *FlowRegistry
	defaultErr  error
)

// Default returns the registry compiled into the binary.
func Default() (*FlowRegistry, error) {
	defaultOnce.Do(func() {
		defaultReg, defaultErr = Parse(embeddedFlows)
	})
	return defaultReg, defaultErr
}

// MustDefault panics if the embedded registry is broken. Tests guard against that.
func MustDefault() *FlowRegistry {
	reg, err := Default()
	if err != nil {
		panic(err)
	}
	return reg
}

// Get returns the flow with id.
func (r *FlowRegistry) Get(id string) (Flow, bool) {
	for _, f := range r.Flows {
		if f.ID == id {
			return f, true
		}
	}
	return Flow{}, false
}

// Summaries lists every flow without schemas.
func (r *FlowRegistry) Summaries() []Summary {
	out := make([]Summary, len(r.Flows))
	for i, f := range r.Flows {
		out[i] = f.Summary()
	}
	return out
}

// Schemas compiles the input and output schemas of flow id.
func (r *FlowRegistry) Schemas(id string) (input, output *validation.Schema, err error) {
	flow, ok := r.Get(id)
	if !ok {
		return nil, nil, fmt.Errorf("flow %q not in registry", id)
	}
	input, err = validation.Compile(flow.InputSchema)
	if err != nil {
		return nil, nil, fmt.Errorf("flow %s input schema: %w", id, err)
	}
	output, err = validation.Compile(flow.OutputSchema)
	if err != nil {
		return nil, nil, fmt.Errorf("flow %s output schema: %w", id, err)
	}
	return input, output, nil
}

// MustSchemas is Schemas for flows compiled into the binary.
func MustSchemas(id string) (input, output *validation.Schema) {
	in, out, err := MustDefault().Schemas(id)
	if err != nil {
		panic(err)
	}
	return in, out
}

// Validate checks required fields, id format, uniqueness, timeouts and that
// every schema compiles.
func (r *FlowRegistry) Validate() error {
	if len(r.Flows) == 0 {
		return fmt.Errorf("registry contains no flows")
	}

	ids := make(map[string]bool)
	for _, flow := range r.Flows {
		if flow.ID == "" {
			return fmt.Errorf("flow missing required field: ID")
		}
		if ids[flow.ID] {
			return fmt.Errorf("duplicate flow ID: %s", flow.ID)
		}
		ids[flow.ID] = true

		if !flowIDPattern.MatchString(flow.ID) {
			return fmt.Errorf("flow ID %q must be lowercase words joined by hyphens", flow.ID)
		}
		if flow.DisplayName == "" {
			return fmt.Errorf("flow %s missing required field: DisplayName", flow.ID)
		}
		if flow.Category == "" {
			return fmt.Errorf("flow %s missing required field: Category", flow.ID)
		}
		if flow.Timeout != "" {
			if _, err := time.ParseDuration(flow.Timeout); err != nil {
				return fmt.Errorf("flow %s has invalid timeout %q: %w", flow.ID, flow.Timeout, err)
			}
		}
		if _, _, err := r.Schemas(flow.ID); err != nil {
			return err
		}
	}

	return nil
}

// Save writes the registry as indented JSON.
func (r *FlowRegistry) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}
