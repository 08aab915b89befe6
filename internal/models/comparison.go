// internal/models/comparison.go
package models

// ComparisonResult holds both model responses and their estimated quality.
type ComparisonResult struct {
	BasicResponse      string `json:"basicResponse"`
	EngineeredResponse string `json:"engineeredResponse"`
	BasicScore         int    `json:"basicScore"`
	EngineeredScore    int    `json:"engineeredScore"`
	Error              string `json:"error,omitempty"`
}
