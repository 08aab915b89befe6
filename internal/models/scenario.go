// internal/models/scenario.go
package models

// Scenario is one canned basic-vs-engineered comparison.
type Scenario struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Category         string `json:"category"`
	Description      string `json:"description"`
	BasicPrompt      string `json:"basicPrompt"`
	EngineeredPrompt string `json:"engineeredPrompt"`
}

// AnatomyComponent is one building block of a well-formed prompt.
type AnatomyComponent struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Example     string `json:"example"`
	Tip         string `json:"tip"`
}
