// internal/flows/analysis/analyze-dna/models.go
package analyzedna

import "promptcraft-studio/internal/models"

type Input struct {
	Prompt string `json:"prompt"`
}

type Output = models.AnalysisResult

type promptData struct {
	Prompt     string
	Components []models.AnatomyComponent
}
