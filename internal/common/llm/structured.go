package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"promptcraft-studio/internal/common/validation"
)

// ExtractJSON returns the first balanced JSON object in raw model output,
// after removing markdown code fences.
func ExtractJSON(raw string) (string, error) {
	block := extractJSONBlock(stripCodeFences(raw))
	if block == "" {
		return "", fmt.Errorf("%w: no JSON object found in response", ErrInvalidOutput)
	}
	return block, nil
}

// DecodeJSON extracts a JSON object from raw, checks it against schema when
// one is given and decodes it into T.
func DecodeJSON[T any](raw string, schema *validation.Schema) (T, error) {
	var zero T

	block, err := ExtractJSON(raw)
	if err != nil {
		return zero, err
	}

	if schema != nil {
		result := schema.Validate([]byte(block))
		if !result.Valid {
			return zero, fmt.Errorf("%w: schema violation: %s", ErrInvalidOutput, strings.Join(result.GetErrorMessages(), "; "))
		}
	}

	var out T
	if err := json.Unmarshal([]byte(block), &out); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	return out, nil
}

func stripCodeFences(s string) string {
	lines := strings.Split(s, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		result = append(result, line)
	}
	return strings.Join(result, "\n")
}

// extractJSONBlock finds the first balanced { ... } block, ignoring braces
// inside string literals.
func extractJSONBlock(s string) string {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}

	return ""
}
