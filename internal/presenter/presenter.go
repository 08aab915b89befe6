// internal/presenter/presenter.go

// Package presenter fills the gaps a model leaves in a result before it is
// shown to a user.
package presenter

import (
	"strings"

	"promptcraft-studio/internal/models"
)

// Placeholders stand in for fields a model left out or blank.
const (
	NoResponse   = "No response received."
	NoAssessment = "No assessment provided."
	NoFeedback   = "No feedback provided."
)

func orPlaceholder(s, placeholder string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

func Comparison(out models.ComparisonResult) models.ComparisonResult {
	out.BasicResponse = orPlaceholder(out.BasicResponse, NoResponse)
	out.EngineeredResponse = orPlaceholder(out.EngineeredResponse, NoResponse)
	return out
}

func Analysis(out models.AnalysisResult) models.AnalysisResult {
	out.OverallAssessment = orPlaceholder(out.OverallAssessment, NoAssessment)

	components := make([]models.ComponentAnalysis, len(out.Components))
	for i, c := range out.Components {
		c.Assessment = orPlaceholder(c.Assessment, NoAssessment)
		components[i] = c
	}
	out.Components = components
	out.Strengths = nonNil(out.Strengths)
	out.Suggestions = nonNil(out.Suggestions)
	return out
}

func Evaluation(out models.EvaluationResult) models.EvaluationResult {
	if len(out.Feedback) == 0 {
		out.Feedback = []string{NoFeedback}
	}
	return out
}
