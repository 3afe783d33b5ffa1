package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ShayCichocki/deepthink/internal/race"
	"github.com/ShayCichocki/deepthink/pkg/models"
)

// Racer settles a single prompt against the configured providers and
// returns the winning response.
type Racer interface {
	Race(ctx context.Context, prompt, system string) race.Result
}

// Scheduler runs decomposed subtasks in dependency order. Subtasks in
// the same topological layer run concurrently; each layer waits for
// the previous one to finish so every dependency output is available
// before its consumers start.
type Scheduler struct {
	racer Racer
}

func New(racer Racer) *Scheduler {
	return &Scheduler{racer: racer}
}

// Run executes all subtasks and returns one result per subtask in
// execution order. Individual failures are recorded as failed results
// rather than aborting the run. An error is returned only when the
// dependency graph itself is invalid.
func (s *Scheduler) Run(ctx context.Context, goal string, subtasks []*models.Subtask) ([]*models.SubtaskResult, error) {
	graph, err := buildGraph(subtasks)
	if err != nil {
		return nil, fmt.Errorf("building dependency graph: %w", err)
	}

	// outputs maps subtask ID to its settled output. Entries are only
	// written between layers, so readers in later layers never observe
	// a concurrent write.
	outputs := make(map[int]string, len(subtasks))
	results := make([]*models.SubtaskResult, 0, len(subtasks))

	for layerIdx, layer := range graph.layers() {
		log.Printf("[scheduler] layer %d: running %d subtask(s)", layerIdx, len(layer))

		layerResults := make([]*models.SubtaskResult, len(layer))
		var wg sync.WaitGroup
		for i, id := range layer {
			st := graph.subtask(id)

			deps := make([]depOutput, 0, len(st.Dependencies))
			for _, depID := range st.Dependencies {
				deps = append(deps, depOutput{
					id:     depID,
					title:  graph.subtask(depID).Title,
					output: outputs[depID],
				})
			}

			wg.Add(1)
			go func(i int, st *models.Subtask, deps []depOutput) {
				defer wg.Done()
				layerResults[i] = s.runOne(ctx, goal, st, deps)
			}(i, st, deps)
		}
		wg.Wait()

		for _, res := range layerResults {
			outputs[res.ID] = res.Output
			results = append(results, res)
		}
	}

	return results, nil
}

// runOne settles a single subtask. A panic inside the race is caught
// and recorded as a failed result so one bad subtask cannot take down
// the whole run.
func (s *Scheduler) runOne(ctx context.Context, goal string, st *models.Subtask, deps []depOutput) (res *models.SubtaskResult) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[scheduler] subtask %d panicked: %v", st.ID, r)
			res = &models.SubtaskResult{
				ID:      st.ID,
				Title:   st.Title,
				Output:  fmt.Sprintf("subtask failed: %v", r),
				Model:   race.SentinelProvider,
				Latency: time.Since(start),
				Status:  models.SubtaskStatusFailed,
			}
		}
	}()

	prompt, system := buildPrompt(goal, st, deps)
	winner := s.racer.Race(ctx, prompt, system)

	status := models.SubtaskStatusSuccess
	if winner.Provider == race.SentinelProvider {
		status = models.SubtaskStatusFailed
	}

	log.Printf("[scheduler] subtask %d (%s) settled by %s in %s", st.ID, st.Title, winner.Provider, winner.Latency.Round(time.Millisecond))

	return &models.SubtaskResult{
		ID:      st.ID,
		Title:   st.Title,
		Output:  winner.Content,
		Model:   winner.Provider,
		Latency: winner.Latency,
		Status:  status,
	}
}
