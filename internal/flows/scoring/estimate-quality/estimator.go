// internal/flows/scoring/estimate-quality/estimator.go
package estimatequality

import (
	"math"
	"regexp"
	"strings"
)

const (
	MinScore = 5
	MaxScore = 100

	degenerateEngineered = 15
	degenerateBasic      = 5
)

// Markers the comparison flow writes into fallback and empty responses.
const (
	FailureMarker = "Error generating response"
	EmptyMarker   = "No response generated"
)

var failureMarkers = []string{FailureMarker, EmptyMarker}

var (
	headingPattern = regexp.MustCompile(`(?m)^[ \t]*(?:#{1,6}[ \t]+\S.*|\*\*[^*\n]+\*\*:?[ \t]*)$`)
	bulletPattern  = regexp.MustCompile(`(?m)^[ \t]*(?:[-*+•]|\d+[.)])[ \t]+\S`)
	boldPattern    = regexp.MustCompile(`\*\*[^*\n]+?\*\*`)
	labelPattern   = regexp.MustCompile(`(?m)^[ \t]*(?:[-*+•]|\d+[.)])[ \t]+\*\*([^*\n]+?)\*\*`)
)

var sectionVocabulary = []string{
	"Role", "Context", "Task", "Format", "Constraints",
	"Examples", "Tone", "Audience", "Goal", "Objective",
	"Summary", "Overview", "Background", "Steps", "Requirements",
	"Output", "Deliverables", "Timeline", "Budget", "Recommendations",
	"Conclusion", "Analysis", "Key Points", "Next Steps", "Considerations",
}

// Estimate scores responseText. jitter only affects the basic branch and is
// expected in [-10, 10].
func Estimate(input Input, jitter float64) Output {
	signals := measure(input.ResponseText)

	if isDegenerate(input.ResponseText) {
		score := degenerateBasic
		if input.IsEngineered {
			score = degenerateEngineered
		}
		return Output{Score: score, Signals: signals, Degenerate: true}
	}

	var raw float64
	if input.IsEngineered {
		signals.KeywordMatches = countKeywordMatches(input.ResponseText, Keywords(input.TemplateText))
		raw = engineeredScore(signals)
	} else {
		raw = basicScore(signals, jitter)
	}

	return Output{Score: clamp(raw), Signals: signals}
}

func isDegenerate(text string) bool {
	if strings.TrimSpace(text) == "" {
		return true
	}
	for _, marker := range failureMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

func measure(text string) Signals {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return Signals{
		Words:     len(strings.Fields(text)),
		Headings:  len(headingPattern.FindAllStringIndex(text, -1)),
		Bullets:   len(bulletPattern.FindAllStringIndex(text, -1)),
		BoldSpans: len(boldPattern.FindAllStringIndex(text, -1)),
	}
}

func engineeredScore(s Signals) float64 {
	score := 25
	if s.Words > 75 {
		score += 15
	}
	if s.Words > 150 {
		score += 10
	}
	score += min(7*s.Headings, 28)
	score += min(3*s.Bullets, 24)
	score += min(2*s.BoldSpans, 13)
	score += min(4*s.KeywordMatches, 20)

	// Substantial but thin answers are lifted toward, never past, 65.
	if score < 65 && s.Words > 60 && s.Headings+s.Bullets > 0 {
		score = min(score+10, 65)
	}
	return float64(score)
}

func basicScore(s Signals, jitter float64) float64 {
	score := 15 + jitter + wordCurve(s.Words)
	score -= float64(min(5*s.Headings, 15))
	score -= float64(min(2*s.Bullets, 10))
	score -= float64(min(s.BoldSpans, 5))
	return score
}

// wordCurve rewards a medium-length answer.
func wordCurve(words int) float64 {
	switch {
	case words < 30:
		return 10
	case words < 50:
		return 20
	case words < 80:
		return 30
	case words <= 170:
		return 40
	case words <= 250:
		return 30
	case words <= 400:
		return 20
	default:
		return 10
	}
}

func clamp(v float64) int {
	return int(math.Round(math.Max(MinScore, math.Min(MaxScore, v))))
}

// Keywords returns the bold list-item labels of template together with the
// section vocabulary, deduplicated case-insensitively.
func Keywords(template string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(k string) {
		k = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(k), ":"))
		if k == "" || seen[strings.ToLower(k)] {
			return
		}
		seen[strings.ToLower(k)] = true
		out = append(out, k)
	}

	for _, m := range labelPattern.FindAllStringSubmatch(template, -1) {
		add(m[1])
	}
	for _, k := range sectionVocabulary {
		add(k)
	}
	return out
}

func countKeywordMatches(text string, keywords []string) int {
	matches := 0
	for _, k := range keywords {
		if k == "" {
			continue
		}
		re, err := keywordPattern(k)
		if err != nil {
			continue
		}
		if re.MatchString(text) {
			matches++
		}
	}
	return matches
}

// keywordPattern matches k case-insensitively. Word boundaries are only
// asserted on edges where k has a word character, so labels such as "C++" or
// "Output (JSON)" still match.
func keywordPattern(k string) (*regexp.Regexp, error) {
	left, right := "", ""
	if isWordByte(k[0]) {
		left = `\b`
	}
	if isWordByte(k[len(k)-1]) {
		right = `\b`
	}
	return regexp.Compile(`(?i)` + left + regexp.QuoteMeta(k) + right)
}

// isWordByte mirrors the ASCII \w class that \b uses.
func isWordByte(b byte) bool {
	return b == '_' || ('0' <= b && b <= '9') || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}
