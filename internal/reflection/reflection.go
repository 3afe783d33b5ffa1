// Package reflection produces the post-run critique and lessons. When
// every subtask succeeded the reflection is a deterministic template
// with no provider call; only failed runs pay for an extra call.
package reflection

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/ShayCichocki/deepthink/internal/provider"
	"github.com/ShayCichocki/deepthink/pkg/models"
)

const maxCritiqueLen = 200

var successLessons = []string{
	"Decomposing the goal into focused steps kept each model call small and reliable.",
	"Passing dependency outputs as context let later steps build directly on earlier work.",
}

var failureLessons = []string{
	"Some steps did not settle in time; retrying with a longer deadline or fewer providers may help.",
	"Breaking large steps into smaller ones reduces the chance any single call times out.",
}

// Reflect returns the reflection text and lessons for a finished run.
// The critic adapter is only consulted when at least one subtask
// failed; a nil critic or a failed call falls back to a generic
// critique.
func Reflect(ctx context.Context, critic provider.Adapter, goal string, results []*models.SubtaskResult) (string, []string) {
	failed := 0
	for _, r := range results {
		if r.Status == models.SubtaskStatusFailed {
			failed++
		}
	}

	if failed == 0 {
		text := fmt.Sprintf("Completed %d/%d subtasks successfully for: %s", len(results), len(results), goal)
		return text, append([]string(nil), successLessons...)
	}

	text := critique(ctx, critic, goal, results, failed)
	return text, append([]string(nil), failureLessons...)
}

// critique asks a single provider for a short assessment of what went
// wrong. The response is truncated to keep the reflection cheap to
// store and display.
func critique(ctx context.Context, critic provider.Adapter, goal string, results []*models.SubtaskResult, failed int) string {
	fallback := fmt.Sprintf("%d of %d subtasks failed while working on: %s", failed, len(results), goal)
	if critic == nil {
		return fallback
	}

	var b strings.Builder
	fmt.Fprintf(&b, "A multi-step run for the goal %q finished with %d of %d steps failing:\n", goal, failed, len(results))
	for _, r := range results {
		fmt.Fprintf(&b, "- step %d (%s): %s\n", r.ID, r.Title, r.Status)
	}
	b.WriteString("In at most 2 sentences, what most likely went wrong?")

	resp, err := critic.Generate(ctx, provider.Request{
		Prompt:    b.String(),
		System:    "You are a concise reviewer of automated task runs.",
		MaxTokens: 150,
	})
	if err != nil {
		log.Printf("[reflection] critique call failed: %v", err)
		return fallback
	}

	resp = strings.TrimSpace(resp)
	if len(resp) > maxCritiqueLen {
		resp = resp[:maxCritiqueLen]
	}
	return resp
}
