// internal/flows/analysis/evaluate-prompt/models.go
package evaluateprompt

import "promptcraft-studio/internal/models"

type Input struct {
	Prompt string `json:"prompt"`
}

type Output = models.EvaluationResult
