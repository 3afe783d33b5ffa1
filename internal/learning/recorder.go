package learning

import (
	"log"
	"time"

	"github.com/ShayCichocki/deepthink/pkg/models"
)

const (
	maxGoalLen   = 1000
	maxOutputLen = 10000
)

// Recorder redacts and persists run summaries. It never surfaces
// errors to the request path.
type Recorder struct {
	store *Store
}

func NewRecorder(store *Store) *Recorder {
	return &Recorder{store: store}
}

// RecordDetached persists a run summary on a detached goroutine so the
// response is never delayed by storage. Failures are logged only.
func (r *Recorder) RecordDetached(summary *models.RunSummary, allowLearning bool) {
	go func() {
		if err := r.record(summary, allowLearning); err != nil {
			log.Printf("[learning] failed to record run %s: %v", summary.RunID, err)
		}
	}()
}

// record builds the redacted record and inserts it. Opted-out users,
// anonymous requests, and a missing store all skip silently.
func (r *Recorder) record(summary *models.RunSummary, allowLearning bool) error {
	if !allowLearning {
		return nil
	}
	if summary.UserID == "" || r.store == nil {
		return nil
	}

	rec := Redact(summary)
	if err := r.store.Insert(rec); err != nil {
		return err
	}
	log.Printf("[learning] recorded run %s (category=%s cacheable=%v)", rec.RunID, rec.Category, rec.IsCacheable)
	return nil
}

// Redact converts a run summary into its persisted form: goal and
// output capped, subtask outputs dropped in favor of summaries, and
// the cacheable flag cleared when sensitive content is detected.
func Redact(summary *models.RunSummary) *RunRecord {
	subtasks := make([]SubtaskSummary, 0, len(summary.Results))
	for _, res := range summary.Results {
		subtasks = append(subtasks, SubtaskSummary{
			ID:      res.ID,
			Title:   res.Title,
			Model:   res.Model,
			Latency: res.Latency,
			Status:  string(res.Status),
		})
	}

	created := summary.StartedAt
	if created.IsZero() {
		created = time.Now()
	}

	return &RunRecord{
		RunID:       summary.RunID,
		UserID:      summary.UserID,
		Category:    classifyGoal(summary.Goal),
		Goal:        truncate(summary.Goal, maxGoalLen),
		Output:      truncate(summary.Output, maxOutputLen),
		Subtasks:    subtasks,
		Lessons:     summary.Lessons,
		Reflection:  summary.Reflection,
		SuccessRate: summary.SuccessRate(),
		TopModel:    summary.TopModel(),
		IsCacheable: !containsSensitive(summary.Goal) && !containsSensitive(summary.Output),
		CreatedAt:   created,
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
