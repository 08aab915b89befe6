package validation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Schema is a compiled JSON Schema document.
type Schema struct {
	compiled *gojsonschema.Schema
	raw      map[string]interface{}
}

// Compile parses a schema given as a decoded JSON object.
func Compile(schemaMap map[string]interface{}) (*Schema, error) {
	if len(schemaMap) == 0 {
		return nil, fmt.Errorf("schema is empty")
	}
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schemaMap))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Schema{compiled: compiled, raw: schemaMap}, nil
}

// CompileJSON parses a schema from its JSON text.
func CompileJSON(schemaJSON string) (*Schema, error) {
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(schemaJSON), &m); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	return Compile(m)
}

// MustCompileJSON is for schemas embedded in source.
func MustCompileJSON(schemaJSON string) *Schema {
	s, err := CompileJSON(schemaJSON)
	if err != nil {
		panic(err)
	}
	return s
}

// Raw returns the schema document it was compiled from.
func (s *Schema) Raw() map[string]interface{} {
	return s.raw
}

// Validate checks document against the schema. document may be a struct,
// a map or raw JSON bytes.
func (s *Schema) Validate(document interface{}) *ValidationResult {
	var loader gojsonschema.JSONLoader
	switch d := document.(type) {
	case []byte:
		loader = gojsonschema.NewBytesLoader(d)
	case json.RawMessage:
		loader = gojsonschema.NewBytesLoader(d)
	default:
		loader = gojsonschema.NewGoLoader(d)
	}

	result, err := s.compiled.Validate(loader)
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "(root)",
				Message: err.Error(),
				Code:    "INVALID_DOCUMENT",
			}},
		}
	}

	if result.Valid() {
		return &ValidationResult{Valid: true}
	}

	errs := make([]ValidationError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errs = append(errs, ValidationError{
			Field:   fieldOf(desc),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return &ValidationResult{Valid: false, Errors: errs}
}

func fieldOf(desc gojsonschema.ResultError) string {
	field := desc.Field()
	if desc.Type() == "required" {
		if prop, ok := desc.Details()["property"].(string); ok {
			if field == "(root)" {
				return prop
			}
			return field + "." + prop
		}
	}
	return field
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

// GetErrorsForField returns errors for a specific field
func (vr *ValidationResult) GetErrorsForField(field string) []ValidationError {
	var fieldErrors []ValidationError
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") {
			fieldErrors = append(fieldErrors, err)
		}
	}
	return fieldErrors
}
