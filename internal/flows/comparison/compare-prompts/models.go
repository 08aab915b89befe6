// internal/flows/comparison/compare-prompts/models.go
package compareprompts

import "promptcraft-studio/internal/models"

type Input struct {
	BasicPrompt      string   `json:"basicPrompt"`
	EngineeredPrompt string   `json:"engineeredPrompt"`
	Temperature      *float64 `json:"temperature,omitempty"`
}

type Output = models.ComparisonResult

// modelReply is the JSON object the model must return.
type modelReply struct {
	BasicResponse      string `json:"basicResponse"`
	EngineeredResponse string `json:"engineeredResponse"`
}
