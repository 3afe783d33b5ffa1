package learning

import "strings"

// categoryKeywords maps each category to the phrases that select it.
// Categories are checked in categoryOrder; the first match wins, so
// more specific categories come before broader ones.
var categoryKeywords = map[string][]string{
	"web_development": {
		"website", "web site", "web app", "webapp", "landing page",
		"html", "css", "frontend", "front-end", "react", "vue",
	},
	"coding": {
		"code", "function", "script", "program", "debug", "implement",
		"api", "sql", "python", "javascript", "golang", "refactor", "bug",
	},
	"math": {
		"calculate", "solve", "equation", "math", "integral",
		"derivative", "probability", "statistics",
	},
	"analysis": {
		"analyze", "analysis", "compare", "evaluate", "research",
		"summarize", "review", "assess",
	},
	"writing": {
		"write", "essay", "article", "blog post", "poem", "story",
		"email", "letter", "draft",
	},
}

var categoryOrder = []string{"web_development", "coding", "math", "analysis", "writing"}

// classifyGoal buckets a goal into a coarse category for aggregation.
// Unmatched goals fall through to "general".
func classifyGoal(goal string) string {
	lower := strings.ToLower(goal)
	for _, cat := range categoryOrder {
		for _, kw := range categoryKeywords[cat] {
			if strings.Contains(lower, kw) {
				return cat
			}
		}
	}
	return "general"
}
