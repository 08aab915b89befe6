// internal/flows/scoring/estimate-quality/models.go
package estimatequality

type Input struct {
	ResponseText string `json:"responseText"`
	IsEngineered bool   `json:"isEngineered"`
	TemplateText string `json:"templateText,omitempty"`
}

type Output struct {
	Score      int     `json:"score"`
	Signals    Signals `json:"signals"`
	Degenerate bool    `json:"degenerate"`
}

type Signals struct {
	Words          int `json:"words"`
	Headings       int `json:"headings"`
	Bullets        int `json:"bullets"`
	BoldSpans      int `json:"boldSpans"`
	KeywordMatches int `json:"keywordMatches"`
}
