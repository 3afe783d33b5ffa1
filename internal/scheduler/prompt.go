package scheduler

import (
	"fmt"
	"strings"

	"github.com/ShayCichocki/deepthink/pkg/models"
)

const subtaskSystem = `You are an expert assistant working on one step of a larger plan. Complete the step thoroughly and return only the work product, with no preamble.`

const buildSystem = `You are an expert full-stack developer working on one step of a build. Produce complete, production-quality code in fenced code blocks with no placeholders. Return only the work product, with no preamble.`

var buildKeywords = []string{
	"website", "web site", "web app", "webapp", "web application",
	"landing page", "homepage", "portfolio", "blog",
	"html", "frontend", "front-end", "build me a site", "build a site",
	"build an app", "build me an app",
}

// looksLikeBuild reports whether a goal reads like a request to build a
// website or application, which gets a code-oriented prompt variant.
func looksLikeBuild(goal string) bool {
	lower := strings.ToLower(goal)
	for _, kw := range buildKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// buildPrompt assembles the prompt for a single subtask: the overall
// goal, the subtask title and description, and the outputs of every
// dependency in dependency order.
func buildPrompt(goal string, st *models.Subtask, deps []depOutput) (prompt, system string) {
	var b strings.Builder

	fmt.Fprintf(&b, "Overall goal: %s\n\n", goal)
	fmt.Fprintf(&b, "Your current step (%d of the plan): %s\n", st.ID, st.Title)
	if st.Description != "" {
		fmt.Fprintf(&b, "%s\n", st.Description)
	}

	if len(deps) > 0 {
		b.WriteString("\nResults from earlier steps you should build on:\n")
		for _, d := range deps {
			fmt.Fprintf(&b, "\n--- Step %d: %s ---\n%s\n", d.id, d.title, d.output)
		}
	}

	b.WriteString("\nComplete your step now.")

	system = subtaskSystem
	if looksLikeBuild(goal) {
		system = buildSystem
	}
	return b.String(), system
}

type depOutput struct {
	id     int
	title  string
	output string
}
