// Package content holds the immutable teaching material served to the site.
package content

import (
	"strings"

	"promptcraft-studio/internal/models"
)

var scenarios = []models.Scenario{
	{
		ID:          "product-launch-email",
		Title:       "Product Launch Email",
		Category:    "Marketing",
		Description: "Announce a new product to existing customers.",
		BasicPrompt: "Write an email about our new project management app.",
		EngineeredPrompt: `You are a senior B2B lifecycle marketer writing for existing customers of a SaaS company.

Write a product launch email for "FlowBoard", our new project management app.

- **Audience**: operations managers at 50-500 person companies who already use our time-tracking product
- **Goal**: drive sign-ups for the free 30-day FlowBoard trial
- **Key Benefits**: native time-tracking sync, automated status reports, Kanban and Gantt views
- **Tone**: confident, warm, no hype words like "revolutionary"
- **Format**: subject line, preview text, three short paragraphs, one call-to-action button label
- **Constraints**: under 180 words, no more than one exclamation mark`,
	},
	{
		ID:          "code-review",
		Title:       "Code Review Feedback",
		Category:    "Engineering",
		Description: "Review a pull request that adds caching to an API handler.",
		BasicPrompt: "Review my code that adds caching to an API endpoint.",
		EngineeredPrompt: `You are a staff backend engineer doing a code review for a teammate.

Review a pull request that adds a Redis read-through cache to a REST endpoint returning user profiles.

- **Context**: profiles change rarely, the endpoint serves 2k requests per second, stale data up to 60 seconds is acceptable
- **Focus Areas**: cache invalidation, key design, error handling when Redis is down, test coverage
- **Format**: a summary verdict, then findings grouped under Blocking, Suggestions and Nits
- **Severity**: label each finding with High, Medium or Low
- **Examples**: include a short corrected snippet for every Blocking finding
- **Tone**: direct and collegial`,
	},
	{
		ID:          "travel-itinerary",
		Title:       "Weekend Travel Plan",
		Category:    "Personal",
		Description: "Plan a short city break with real constraints.",
		BasicPrompt: "Plan a weekend trip to Lisbon.",
		EngineeredPrompt: `You are an experienced local travel planner.

Plan a two-day weekend in Lisbon for two adults arriving Friday night.

- **Budget**: 400 EUR total excluding flights and hotel
- **Interests**: food markets, viewpoints, azulejo tiles, one evening of live fado
- **Constraints**: no car, one traveller cannot manage steep stairs for long stretches
- **Format**: a Saturday and a Sunday heading, each with Morning, Afternoon and Evening bullets, plus estimated cost per item
- **Tips**: end with three practical tips about transport passes and reservations`,
	},
	{
		ID:          "data-analysis",
		Title:       "Sales Data Analysis",
		Category:    "Analytics",
		Description: "Explain a quarter's sales results to leadership.",
		BasicPrompt: "Analyze our sales data for last quarter.",
		EngineeredPrompt: `You are a data analyst preparing a briefing for the executive team.

Analyze Q3 sales results from the summary below and explain what changed versus Q2.

Data: revenue 4.2M (Q2 3.9M), new customers 310 (Q2 355), average deal size 13.5k (Q2 11.0k), churn 2.1% (Q2 1.8%).

- **Objective**: identify the two most important trends and their likely causes
- **Audience**: executives with five minutes to read
- **Format**: an Executive Summary heading, a Key Metrics table, then Risks and Recommendations as bullets
- **Constraints**: do not invent numbers that are not in the data; flag any assumption explicitly
- **Length**: under 250 words`,
	},
	{
		ID:          "learning-plan",
		Title:       "Learning Plan",
		Category:    "Education",
		Description: "Build a structured plan to learn a new skill.",
		BasicPrompt: "How do I learn SQL?",
		EngineeredPrompt: `You are a patient technical mentor who designs self-study curricula.

Create a four-week plan for a marketing analyst to learn SQL well enough to query the company warehouse.

- **Background**: comfortable with Excel pivot tables, no programming experience
- **Time Available**: 5 hours per week, evenings only
- **Milestones**: one concrete milestone per week, ending with a real reporting query
- **Resources**: free resources only, with one practice dataset
- **Format**: a heading per week with Goals, Exercises and Checkpoint bullets
- **Tone**: encouraging and practical`,
	},
}

// Scenarios returns every scenario in display order.
func Scenarios() []models.Scenario {
	out := make([]models.Scenario, len(scenarios))
	copy(out, scenarios)
	return out
}

// ScenarioByID returns a copy of the scenario with the given id.
func ScenarioByID(id string) (models.Scenario, bool) {
	for _, s := range scenarios {
		if strings.EqualFold(s.ID, id) {
			return s, true
		}
	}
	return models.Scenario{}, false
}
