package content

import "promptcraft-studio/internal/models"

var librarySeed = []models.LibraryEntry{
	{
		ID:          "lib-meeting-summary",
		Title:       "Meeting Notes Summariser",
		Category:    "Productivity",
		Description: "Turns raw meeting notes into decisions, owners and deadlines.",
		Prompt:      "You are an executive assistant. Summarise the meeting notes below into three sections: Decisions, Action Items (owner, deadline) and Open Questions. Use bullets, keep it under 150 words and do not invent owners.\n\nNotes:\n{{notes}}",
		Tags:        []string{"summary", "meetings", "action items"},
	},
	{
		ID:          "lib-bug-report",
		Title:       "Bug Report Triage",
		Category:    "Engineering",
		Description: "Structures a vague bug report into a reproducible ticket.",
		Prompt:      "You are a QA lead. Rewrite the bug report below as a ticket with: Title, Environment, Steps to Reproduce (numbered), Expected Result, Actual Result and Severity (High/Medium/Low with one-line justification). Ask up to two clarifying questions if information is missing.\n\nReport:\n{{report}}",
		Tags:        []string{"bugs", "qa", "tickets"},
	},
	{
		ID:          "lib-sql-explainer",
		Title:       "SQL Query Explainer",
		Category:    "Engineering",
		Description: "Explains what a SQL query does for a non-technical reader.",
		Prompt:      "You are a patient data mentor. Explain the SQL query below to a business analyst: first one sentence on what it returns, then a step-by-step walkthrough of each clause, then one possible performance concern. Avoid jargon or define it when used.\n\nQuery:\n{{query}}",
		Tags:        []string{"sql", "education", "data"},
	},
	{
		ID:          "lib-social-post",
		Title:       "LinkedIn Post Drafter",
		Category:    "Marketing",
		Description: "Drafts a professional post from a short announcement.",
		Prompt:      "You are a B2B social media manager. Write a LinkedIn post announcing: {{announcement}}. Audience: {{audience}}. Structure: a hook line, two short paragraphs, three bullet highlights and a question to drive comments. Max 1200 characters, at most two hashtags, no emojis in the first line.",
		Tags:        []string{"social", "linkedin", "copywriting"},
	},
	{
		ID:          "lib-customer-reply",
		Title:       "Customer Complaint Reply",
		Category:    "Support",
		Description: "Replies to an upset customer with empathy and a concrete next step.",
		Prompt:      "You are a senior support agent. Reply to the customer message below. Acknowledge the specific problem, apologise once, explain the next step with a timeframe and offer one alternative. Tone: calm and human, no corporate phrases like \"we value your business\". Under 120 words.\n\nMessage:\n{{message}}",
		Tags:        []string{"support", "email", "empathy"},
	},
	{
		ID:          "lib-study-quiz",
		Title:       "Study Quiz Generator",
		Category:    "Education",
		Description: "Creates a short quiz with answers from study material.",
		Prompt:      "You are a teacher preparing a revision quiz. From the material below create five multiple-choice questions with four options each, mark the correct answer and add a one-sentence explanation. Mix recall and application questions.\n\nMaterial:\n{{material}}",
		Tags:        []string{"quiz", "study", "education"},
	},
	{
		ID:          "lib-user-interview",
		Title:       "User Interview Synthesiser",
		Category:    "Product",
		Description: "Extracts themes and quotes from interview transcripts.",
		Prompt:      "You are a UX researcher. Analyse the interview transcripts below. Output: top three themes with a supporting quote each, pain points ranked by frequency, and two opportunity statements in the form \"How might we...\". Quote verbatim only.\n\nTranscripts:\n{{transcripts}}",
		Tags:        []string{"research", "ux", "synthesis"},
	},
	{
		ID:          "lib-recipe-adapter",
		Title:       "Recipe Adapter",
		Category:    "Personal",
		Description: "Adapts a recipe to dietary needs and available equipment.",
		Prompt:      "You are a home-cooking instructor. Adapt the recipe below so it is {{diet}} and can be made with {{equipment}}. List substitutions in a table (original, replacement, why), then give the revised steps as a numbered list. Keep servings the same.\n\nRecipe:\n{{recipe}}",
		Tags:        []string{"cooking", "diet", "recipes"},
	},
}

// LibrarySeed returns the built-in prompt library.
func LibrarySeed() []models.LibraryEntry {
	out := make([]models.LibraryEntry, len(librarySeed))
	for i, e := range librarySeed {
		out[i] = e
		out[i].Tags = append([]string(nil), e.Tags...)
	}
	return out
}
