// internal/models/analysis.go
package models

type ComponentAnalysis struct {
	Name          string `json:"name"`
	Present       bool   `json:"present"`
	ExtractedText string `json:"extractedText"`
	Assessment    string `json:"assessment"`
}

// AnalysisResult is the prompt DNA breakdown.
type AnalysisResult struct {
	OverallAssessment string              `json:"overallAssessment"`
	Score             int                 `json:"score"`
	Components        []ComponentAnalysis `json:"components"`
	Strengths         []string            `json:"strengths"`
	Suggestions       []string            `json:"suggestions"`
	Error             string              `json:"error,omitempty"`
}

type Rating string

const (
	RatingExcellent Rating = "Excellent"
	RatingGood      Rating = "Good"
	RatingFair      Rating = "Fair"
	RatingPoor      Rating = "Poor"
	RatingError     Rating = "Error"
)

// EvaluationResult is a graded prompt with optional rewrite.
type EvaluationResult struct {
	Rating         Rating   `json:"rating"`
	Score          int      `json:"score"`
	Feedback       []string `json:"feedback"`
	ImprovedPrompt string   `json:"improvedPrompt,omitempty"`
	Error          string   `json:"error,omitempty"`
}
