// Package decompose turns a free-text goal into a bounded, ordered,
// acyclic subtask list using a single fast provider call.
package decompose

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/ShayCichocki/deepthink/internal/provider"
	"github.com/ShayCichocki/deepthink/pkg/models"
)

// DefaultMaxSubtasks bounds the decomposition when no limit is configured.
const DefaultMaxSubtasks = 5

// decomposedSubtask is the JSON structure returned by the provider for
// a single subtask. IDs in the payload are advisory; the decomposer
// reassigns them positionally.
type decomposedSubtask struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Dependencies []int  `json:"dependencies"`
}

// Decomposer breaks goals into ordered subtasks.
type Decomposer struct {
	// fast is the single provider used for decomposition. Decomposition
	// intentionally skips multi-provider racing for latency.
	fast provider.Adapter
	// maxSubtasks bounds the decomposition size.
	maxSubtasks int
}

// New creates a Decomposer backed by the given fast provider.
func New(fast provider.Adapter, maxSubtasks int) *Decomposer {
	if maxSubtasks <= 0 {
		maxSubtasks = DefaultMaxSubtasks
	}
	return &Decomposer{fast: fast, maxSubtasks: maxSubtasks}
}

// Decompose turns the goal into between 1 and maxSubtasks subtasks with
// strictly unique ids 1..k. It never returns an error: any provider or
// parse failure falls back to the fixed default decomposition.
func (d *Decomposer) Decompose(ctx context.Context, goal string) []*models.Subtask {
	if d.fast == nil {
		return Fallback()
	}

	prompt := fmt.Sprintf(decompositionPrompt, d.maxSubtasks, goal)
	response, err := d.fast.Generate(ctx, provider.Request{
		Prompt: prompt,
		System: decompositionSystem,
	})
	if err != nil {
		log.Printf("[decompose] provider call failed, using fallback: %v", err)
		return Fallback()
	}

	subtasks, err := ParseResponse(response)
	if err != nil {
		log.Printf("[decompose] parse failed, using fallback: %v", err)
		return Fallback()
	}

	return d.normalize(subtasks)
}

// ParseResponse extracts and validates the subtask array from a raw
// provider response. It tolerates markdown fences and surrounding prose
// by parsing the first array-shaped substring, but the array itself must
// be valid JSON of the expected shape.
func ParseResponse(response string) ([]*models.Subtask, error) {
	response = stripFences(strings.TrimSpace(response))

	start := strings.Index(response, "[")
	end := strings.LastIndex(response, "]")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON array found in response")
	}
	response = response[start : end+1]

	var raw []decomposedSubtask
	if err := json.Unmarshal([]byte(response), &raw); err != nil {
		return nil, fmt.Errorf("unmarshal subtask array: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty subtask array")
	}

	subtasks := make([]*models.Subtask, 0, len(raw))
	for i, item := range raw {
		if strings.TrimSpace(item.Title) == "" {
			return nil, fmt.Errorf("subtask at index %d has empty title", i)
		}
		subtasks = append(subtasks, &models.Subtask{
			ID:           item.ID,
			Title:        item.Title,
			Description:  item.Description,
			Dependencies: item.Dependencies,
		})
	}

	return subtasks, nil
}

// normalize truncates to maxSubtasks, reassigns ids positionally, drops
// dependency references that would point forward or out of range, and
// enforces the synthesis convention on the final subtask. The result is
// acyclic by construction: every dependency id is smaller than its owner.
func (d *Decomposer) normalize(subtasks []*models.Subtask) []*models.Subtask {
	if len(subtasks) > d.maxSubtasks {
		log.Printf("[decompose] provider returned %d subtasks, truncating to %d", len(subtasks), d.maxSubtasks)
		subtasks = subtasks[:d.maxSubtasks]
	}

	for i, st := range subtasks {
		id := i + 1
		var deps []int
		seen := make(map[int]bool)
		for _, dep := range st.Dependencies {
			if dep >= 1 && dep < id && !seen[dep] {
				deps = append(deps, dep)
				seen[dep] = true
			}
		}
		st.ID = id
		st.Dependencies = deps
	}

	// The last subtask synthesizes; it must consume every prior output.
	last := subtasks[len(subtasks)-1]
	if len(subtasks) > 1 && len(last.Dependencies) == 0 {
		for id := 1; id < last.ID; id++ {
			last.Dependencies = append(last.Dependencies, id)
		}
	}

	return subtasks
}

// Fallback returns the fixed default decomposition used whenever the
// provider response is unusable. It is deterministic and never fails.
func Fallback() []*models.Subtask {
	return []*models.Subtask{
		{
			ID:          1,
			Title:       "Analyze & Plan",
			Description: "Analyze the goal and outline an approach",
		},
		{
			ID:          2,
			Title:       "Execute",
			Description: "Carry out the planned approach",
		},
		{
			ID:           3,
			Title:        "Synthesize",
			Description:  "Combine the analysis and execution into a final answer",
			Dependencies: []int{1, 2},
		},
	}
}

// stripFences removes a wrapping markdown code fence, if present.
func stripFences(response string) string {
	if strings.HasPrefix(response, "```json") {
		response = strings.TrimPrefix(response, "```json")
	} else if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```")
	} else {
		return response
	}
	if idx := strings.LastIndex(response, "```"); idx != -1 {
		response = response[:idx]
	}
	return strings.TrimSpace(response)
}
