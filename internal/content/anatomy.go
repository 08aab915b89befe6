package content

import "promptcraft-studio/internal/models"

// Anatomy component keys, in the order the explainer presents them.
const (
	ComponentRole        = "role"
	ComponentContext     = "context"
	ComponentTask        = "task"
	ComponentFormat      = "format"
	ComponentConstraints = "constraints"
	ComponentExamples    = "examples"
	ComponentTone        = "tone"
)

var anatomy = []models.AnatomyComponent{
	{
		Key:         ComponentRole,
		Name:        "Role",
		Description: "Who the model should act as. A role sets vocabulary, depth and point of view.",
		Example:     "You are a senior tax accountant who explains rules to small business owners.",
		Tip:         "Name a specific expertise and an audience, not just a job title.",
	},
	{
		Key:         ComponentContext,
		Name:        "Context",
		Description: "The background facts the model cannot guess: situation, audience, prior decisions.",
		Example:     "Our café has 12 staff, opened in 2021 and switched to a new POS system last month.",
		Tip:         "Include the facts you would give a new colleague on their first day.",
	},
	{
		Key:         ComponentTask,
		Name:        "Task",
		Description: "The single concrete thing you want produced.",
		Example:     "Draft a one-page onboarding checklist for new baristas.",
		Tip:         "Start with a verb and name the deliverable.",
	},
	{
		Key:         ComponentFormat,
		Name:        "Format",
		Description: "The shape of the answer: sections, lists, tables, length.",
		Example:     "Use three headings with up to five bullets each, under 200 words.",
		Tip:         "Describe the structure you will paste the answer into.",
	},
	{
		Key:         ComponentConstraints,
		Name:        "Constraints",
		Description: "Hard limits and things to avoid.",
		Example:     "Do not mention pricing. Use British spelling.",
		Tip:         "Constraints work best as short, checkable rules.",
	},
	{
		Key:         ComponentExamples,
		Name:        "Examples",
		Description: "Samples of the input or output you expect.",
		Example:     "Good: \"Wipe the steam wand after every drink.\" Bad: \"Keep things clean.\"",
		Tip:         "One good and one bad example often beat a paragraph of instructions.",
	},
	{
		Key:         ComponentTone,
		Name:        "Tone",
		Description: "The voice and register of the response.",
		Example:     "Friendly and direct, like a shift lead talking to a new hire.",
		Tip:         "Pair an adjective with a concrete comparison.",
	},
}

// Anatomy returns the seven prompt components in display order.
func Anatomy() []models.AnatomyComponent {
	out := make([]models.AnatomyComponent, len(anatomy))
	copy(out, anatomy)
	return out
}

// AnatomyNames returns the display names, e.g. for DNA analysis.
func AnatomyNames() []string {
	names := make([]string, len(anatomy))
	for i, c := range anatomy {
		names[i] = c.Name
	}
	return names
}
